package sshx

import (
	"context"
	"fmt"
	"io"

	"golang.org/x/crypto/ssh"
)

// Stream runs a long-lived command (e.g. tail -f) and hands its stdout to
// the handler. The session is signalled and torn down when the context is
// cancelled or the handler returns.
func (c *Client) Stream(ctx context.Context, command string, handler func(io.Reader) error) error {
	session, err := c.conn.NewSession()
	if err != nil {
		return fmt.Errorf("failed to open session for command %q: %w", command, err)
	}
	defer session.Close()

	stdout, err := session.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to open stdout pipe: %w", err)
	}

	if err := session.Start(command); err != nil {
		return fmt.Errorf("failed to start command %q: %w", command, err)
	}

	done := make(chan error, 1)
	go func() {
		done <- handler(stdout)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		_ = session.Signal(ssh.SIGKILL)
		return ctx.Err()
	}
}
