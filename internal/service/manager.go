package service

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
)

// Runner executes commands on a remote host. *sshx.Client satisfies it.
type Runner interface {
	Run(command string) (stdout, stderr string, err error)
}

// StartError reports a service that did not reach the "active" state after
// being started.
type StartError struct {
	Name  string
	State string
}

// Error implements the error interface.
func (e *StartError) Error() string {
	if e.State == "" {
		return fmt.Sprintf("service %s failed to start", e.Name)
	}
	return fmt.Sprintf("service %s failed to start (state: %s)", e.Name, e.State)
}

// Manager drives the remote systemd instance over an existing session.
type Manager struct {
	runner Runner
}

// NewManager creates a manager bound to one remote session.
func NewManager(r Runner) *Manager {
	return &Manager{runner: r}
}

// Install writes the rendered unit to the system unit directory and reloads
// the daemon. The unit is staged under /tmp first because writing directly
// to /etc/systemd/system would need an elevated shell for the whole
// transfer.
func (m *Manager) Install(unit Unit) error {
	tempPath := "/tmp/" + unit.Name

	heredoc := fmt.Sprintf("cat > %s << 'EOF'\n%s\nEOF", tempPath, unit.Render())
	if _, _, err := m.runner.Run(heredoc); err != nil {
		return fmt.Errorf("failed to stage unit file: %w", err)
	}

	if _, _, err := m.runner.Run(fmt.Sprintf("sudo mv %s /etc/systemd/system/", tempPath)); err != nil {
		return fmt.Errorf("failed to install unit file: %w", err)
	}

	if _, _, err := m.runner.Run("sudo systemctl daemon-reload"); err != nil {
		return fmt.Errorf("failed to reload systemd: %w", err)
	}

	log.Debug("systemd unit installed", "unit", unit.Name)
	return nil
}

// Start stops, enables, and starts the service, then verifies it reports
// exactly "active". Stop failures are ignored: a service that was never
// running is not an error. The same sequence is the single success
// criterion for fresh deploys and rollbacks alike.
func (m *Manager) Start(name string) error {
	// Best effort; the unit may not exist or be running yet.
	_, _, _ = m.runner.Run("sudo systemctl stop " + name)

	if _, _, err := m.runner.Run("sudo systemctl enable " + name); err != nil {
		return fmt.Errorf("failed to enable service %s: %w", name, err)
	}
	if _, _, err := m.runner.Run("sudo systemctl start " + name); err != nil {
		return fmt.Errorf("failed to start service %s: %w", name, err)
	}

	state := m.State(name)
	if state != "active" {
		return &StartError{Name: name, State: state}
	}

	log.Debug("service started", "unit", name)
	return nil
}

// State returns the service state string as reported by systemctl
// is-active: "active", "inactive", "failed", etc. is-active exits non-zero
// for any state other than active, so command errors still carry a usable
// state on stdout; an empty result maps to "unknown".
func (m *Manager) State(name string) string {
	out, _, _ := m.runner.Run("sudo systemctl is-active " + name)
	state := strings.TrimSpace(out)
	if state == "" {
		return "unknown"
	}
	return state
}
