// Package service generates systemd unit files and drives the remote
// service manager: install, start with verification, and state queries.
package service

import (
	"fmt"
	"strings"
)

// Unit describes a systemd service unit. It is a pure function of the
// deployment descriptor and the SSH user; rendering has no side effects.
type Unit struct {
	// Name is the unit file name, e.g. "my-app.service".
	Name string

	// BinaryName is the deployed binary name, used for description and
	// syslog identification.
	BinaryName string

	// User is the account the service runs as.
	User string

	// WorkingDir is the deployment directory; it is also the only path the
	// sandboxed service may write to.
	WorkingDir string

	// ExecStart is the absolute path of the deployed binary.
	ExecStart string
}

// Render produces the unit file content. The template is fixed: always
// restart, journal output, and hardened sandboxing limited to the
// deployment directory.
func (u Unit) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[Unit]\n")
	fmt.Fprintf(&b, "Description=%s - deployed by rzen\n", u.BinaryName)
	fmt.Fprintf(&b, "After=network.target\n\n")

	fmt.Fprintf(&b, "[Service]\n")
	fmt.Fprintf(&b, "Type=simple\n")
	fmt.Fprintf(&b, "User=%s\n", u.User)
	fmt.Fprintf(&b, "WorkingDirectory=%s\n", u.WorkingDir)
	fmt.Fprintf(&b, "ExecStart=%s\n", u.ExecStart)
	fmt.Fprintf(&b, "Restart=always\n")
	fmt.Fprintf(&b, "RestartSec=5\n")
	fmt.Fprintf(&b, "StandardOutput=journal\n")
	fmt.Fprintf(&b, "StandardError=journal\n")
	fmt.Fprintf(&b, "SyslogIdentifier=%s\n\n", u.BinaryName)

	fmt.Fprintf(&b, "NoNewPrivileges=yes\n")
	fmt.Fprintf(&b, "PrivateTmp=yes\n")
	fmt.Fprintf(&b, "ProtectSystem=strict\n")
	fmt.Fprintf(&b, "ProtectHome=yes\n")
	fmt.Fprintf(&b, "ReadWritePaths=%s\n\n", u.WorkingDir)

	fmt.Fprintf(&b, "[Install]\n")
	fmt.Fprintf(&b, "WantedBy=multi-user.target\n")
	return b.String()
}
