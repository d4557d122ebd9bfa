package sshx

import "fmt"

// ConnectionError reports that connecting to a host failed after exhausting
// all attempts. It wraps the last underlying error.
type ConnectionError struct {
	Host     string
	Attempts int
	Err      error
}

// Error implements the error interface.
func (e *ConnectionError) Error() string {
	return fmt.Sprintf("ssh connection to %s failed after %d attempts: %v", e.Host, e.Attempts, e.Err)
}

// Unwrap returns the last underlying error.
func (e *ConnectionError) Unwrap() error { return e.Err }

// CommandError reports a remote command that exited non-zero. Callers that
// treat a command as a best-effort probe must handle this explicitly; it is
// never swallowed here.
type CommandError struct {
	Command  string
	ExitCode int
	Stderr   string
}

// Error implements the error interface.
func (e *CommandError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("remote command failed with exit code %d: %s\nstderr: %s", e.ExitCode, e.Command, e.Stderr)
	}
	return fmt.Sprintf("remote command failed with exit code %d: %s", e.ExitCode, e.Command)
}

// TransferError reports a failed file upload.
type TransferError struct {
	Local  string
	Remote string
	Err    error
}

// Error implements the error interface.
func (e *TransferError) Error() string {
	return fmt.Sprintf("failed to upload %s to %s: %v", e.Local, e.Remote, e.Err)
}

// Unwrap returns the underlying transfer error.
func (e *TransferError) Unwrap() error { return e.Err }
