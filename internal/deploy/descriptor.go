// Package deploy orchestrates the remote deployment pipeline: backup,
// upload, permissions, service install, and start — plus rollback to the
// single backup slot.
package deploy

import (
	"fmt"
	"os"
	"path"

	"github.com/kurosci/rzen/internal/config"
)

// Descriptor captures everything the pipeline needs to know about one
// deployment: the local artifact and where it lands remotely.
type Descriptor struct {
	// BinaryPath is the local path of the compiled binary.
	BinaryPath string

	// BinarySize is the local artifact size in bytes.
	BinarySize int64

	// RemoteDir is the remote deployment directory.
	RemoteDir string

	// BinaryName is the artifact name on the remote host.
	BinaryName string

	// ServiceName is the systemd unit name.
	ServiceName string
}

// RemotePath returns the live binary path on the remote host.
func (d Descriptor) RemotePath() string {
	return path.Join(d.RemoteDir, d.BinaryName)
}

// BackupPath returns the single backup slot path. Each deploy overwrites
// it; rollback reads it without consuming it.
func (d Descriptor) BackupPath() string {
	return d.RemotePath() + ".backup"
}

// NewDescriptor resolves a descriptor from the configuration and the local
// binary location.
func NewDescriptor(cfg *config.Config, binaryPath string) (Descriptor, error) {
	info, err := os.Stat(binaryPath)
	if err != nil {
		return Descriptor{}, fmt.Errorf("binary not found at %s: run 'rzen build' first: %w", binaryPath, err)
	}

	desc := RemoteDescriptor(cfg)
	desc.BinaryPath = binaryPath
	desc.BinarySize = info.Size()
	return desc, nil
}

// RemoteDescriptor resolves the remote-side paths only. Used by rollback,
// status, and dry runs, which never touch a local artifact.
func RemoteDescriptor(cfg *config.Config) Descriptor {
	return Descriptor{
		RemoteDir:   cfg.Deploy.Path,
		BinaryName:  cfg.BinaryName(),
		ServiceName: cfg.ServiceName(),
	}
}
