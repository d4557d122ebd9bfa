// Package sshx provides the remote session layer: authenticated SSH
// connections with bounded retry, remote command execution, and SFTP file
// transfer.
//
// Each logical operation (deploy, rollback, status probe) opens its own
// client and closes it when done; clients are never shared or cached.
package sshx

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/crypto/ssh"
)

// Endpoint identifies a remote host and how to authenticate against it.
// Exactly one credential form must be usable; config validation guarantees
// that before a connection is ever attempted.
type Endpoint struct {
	Host     string
	Port     int
	User     string
	KeyPath  string
	Password string
}

// Addr returns the host:port dial address.
func (e Endpoint) Addr() string {
	return fmt.Sprintf("%s:%d", e.Host, e.Port)
}

// Client is an open, authenticated channel to one endpoint. It is owned
// exclusively by the operation that opened it.
type Client struct {
	conn *ssh.Client
	host string
}

// DialFunc matches ssh.Dial and exists so tests can stand in a fake
// transport.
type DialFunc func(network, addr string, config *ssh.ClientConfig) (*ssh.Client, error)

// Connector establishes SSH connections with retry and exponential backoff.
type Connector struct {
	// Dial opens the underlying transport. Defaults to ssh.Dial.
	Dial DialFunc

	// Sleep waits between attempts. Defaults to a context-aware sleep.
	Sleep func(ctx context.Context, d time.Duration) error

	// Timeout bounds each individual dial attempt.
	Timeout time.Duration
}

// NewConnector returns a connector with production defaults.
func NewConnector() *Connector {
	return &Connector{
		Dial:    ssh.Dial,
		Sleep:   sleepCtx,
		Timeout: 30 * time.Second,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Connect attempts to open an authenticated session, retrying up to
// maxAttempts times with backoff of 2^(attempt-1) seconds between failures.
// On exhaustion the last underlying error is wrapped in *ConnectionError.
//
// Parameters:
//   - ctx: Cancels the backoff waits
//   - ep: The endpoint to connect to
//   - maxAttempts: Total number of attempts (>= 1)
//
// Returns:
//   - *Client: An open client owned by the caller
//   - error: *ConnectionError on exhaustion, or ctx error if cancelled
func (c *Connector) Connect(ctx context.Context, ep Endpoint, maxAttempts int) (*Client, error) {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		client, err := c.dialOnce(ep)
		if err == nil {
			log.Debug("ssh connected", "host", ep.Host, "attempt", attempt)
			return client, nil
		}
		lastErr = err

		if attempt < maxAttempts {
			delay := time.Duration(1<<(attempt-1)) * time.Second
			log.Debug("ssh connection failed, retrying",
				"host", ep.Host, "attempt", attempt, "max", maxAttempts, "delay", delay)
			if serr := c.Sleep(ctx, delay); serr != nil {
				return nil, serr
			}
		}
	}

	return nil, &ConnectionError{Host: ep.Host, Attempts: maxAttempts, Err: lastErr}
}

// dialOnce performs a single connection attempt: key auth first when key
// material is configured and the file exists, then password auth.
func (c *Connector) dialOnce(ep Endpoint) (*Client, error) {
	var methods []ssh.AuthMethod

	var keyErr error
	if ep.KeyPath != "" {
		keyPath := ExpandHome(ep.KeyPath)
		if _, err := os.Stat(keyPath); err == nil {
			signer, err := loadSigner(keyPath)
			if err != nil {
				// A broken key file disables key auth for this attempt but
				// must not block password auth.
				keyErr = fmt.Errorf("failed to parse private key %s: %w", keyPath, err)
				log.Debug("skipping key auth", "key", keyPath, "err", err)
			} else {
				methods = append(methods, ssh.PublicKeys(signer))
			}
		}
	}
	if ep.Password != "" {
		methods = append(methods, ssh.Password(ep.Password))
	}
	if len(methods) == 0 {
		if keyErr != nil {
			return nil, keyErr
		}
		return nil, fmt.Errorf("no usable ssh credentials for user %s", ep.User)
	}

	cfg := &ssh.ClientConfig{
		User:            ep.User,
		Auth:            methods,
		Timeout:         c.Timeout,
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
	}

	conn, err := c.Dial("tcp", ep.Addr(), cfg)
	if err != nil {
		return nil, err
	}
	return &Client{conn: conn, host: ep.Host}, nil
}

func loadSigner(path string) (ssh.Signer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ssh.ParsePrivateKey(data)
}

// ExpandHome resolves a leading ~ in a path against the current user's home
// directory.
func ExpandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

// Run executes a command on the remote host and collects its output. A
// non-zero exit status is returned as *CommandError carrying the captured
// stderr.
//
// Parameters:
//   - command: A POSIX shell one-liner
//
// Returns:
//   - string: Captured stdout
//   - string: Captured stderr
//   - error: *CommandError on non-zero exit, or a session error
func (c *Client) Run(command string) (string, string, error) {
	session, err := c.conn.NewSession()
	if err != nil {
		return "", "", fmt.Errorf("failed to open session for command %q: %w", command, err)
	}
	defer session.Close()

	var stdout, stderr bytes.Buffer
	session.Stdout = &stdout
	session.Stderr = &stderr

	if err := session.Run(command); err != nil {
		var exitErr *ssh.ExitError
		if errors.As(err, &exitErr) {
			return stdout.String(), stderr.String(), &CommandError{
				Command:  command,
				ExitCode: exitErr.ExitStatus(),
				Stderr:   strings.TrimSpace(stderr.String()),
			}
		}
		return stdout.String(), stderr.String(), fmt.Errorf("failed to run command %q: %w", command, err)
	}

	return stdout.String(), stderr.String(), nil
}

// FileExists reports whether a regular file exists on the remote host. Any
// execution error is treated as "does not exist".
func (c *Client) FileExists(path string) bool {
	out, _, err := c.Run(fmt.Sprintf("[ -f %s ] && echo exists || echo 'not exists'", path))
	if err != nil {
		return false
	}
	return strings.TrimSpace(out) == "exists"
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	return c.conn.Close()
}
