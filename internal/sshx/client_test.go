package sshx

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/ssh"
)

func TestEndpointAddr(t *testing.T) {
	ep := Endpoint{Host: "vps.example.com", Port: 2222}
	if got := ep.Addr(); got != "vps.example.com:2222" {
		t.Errorf("Addr() = %q, want %q", got, "vps.example.com:2222")
	}
}

func TestExpandHome(t *testing.T) {
	tests := []struct {
		name string
		in   string
		tilde bool
	}{
		{name: "tilde-slash expands", in: "~/.ssh/id_rsa", tilde: true},
		{name: "bare tilde expands", in: "~", tilde: true},
		{name: "absolute path untouched", in: "/etc/rzen/key"},
		{name: "tilde mid-path untouched", in: "/home/~user/key"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExpandHome(tt.in)
			if tt.tilde {
				if got == tt.in {
					t.Errorf("ExpandHome(%q) did not expand", tt.in)
				}
				if got[0] == '~' {
					t.Errorf("ExpandHome(%q) = %q, still starts with ~", tt.in, got)
				}
			} else if got != tt.in {
				t.Errorf("ExpandHome(%q) = %q, want unchanged", tt.in, got)
			}
		})
	}
}

// failingConnector returns a connector whose dial fails `failures` times
// before succeeding, recording every backoff duration.
func failingConnector(failures int) (*Connector, *[]time.Duration, *int) {
	var delays []time.Duration
	var dials int

	c := &Connector{
		Dial: func(network, addr string, config *ssh.ClientConfig) (*ssh.Client, error) {
			dials++
			if dials <= failures {
				return nil, fmt.Errorf("connection refused (attempt %d)", dials)
			}
			return &ssh.Client{}, nil
		},
		Sleep: func(ctx context.Context, d time.Duration) error {
			delays = append(delays, d)
			return ctx.Err()
		},
		Timeout: time.Second,
	}
	return c, &delays, &dials
}

func TestConnectRetriesWithBackoff(t *testing.T) {
	c, delays, dials := failingConnector(2)

	ep := Endpoint{Host: "vps.example.com", Port: 22, User: "deploy", Password: "pw"}
	client, err := c.Connect(context.Background(), ep, 3)
	if err != nil {
		t.Fatalf("Connect() failed: %v", err)
	}
	if client == nil {
		t.Fatal("Connect() returned a nil client")
	}

	if *dials != 3 {
		t.Errorf("dial count = %d, want 3", *dials)
	}
	// Backoff doubles: 1s after the first failure, 2s after the second.
	want := []time.Duration{time.Second, 2 * time.Second}
	if len(*delays) != len(want) {
		t.Fatalf("backoff count = %d, want %d", len(*delays), len(want))
	}
	for i, d := range *delays {
		if d != want[i] {
			t.Errorf("backoff[%d] = %v, want %v", i, d, want[i])
		}
	}
}

func TestConnectExhaustionWrapsLastError(t *testing.T) {
	c, delays, dials := failingConnector(100)

	ep := Endpoint{Host: "vps.example.com", Port: 22, User: "deploy", Password: "pw"}
	_, err := c.Connect(context.Background(), ep, 3)
	if err == nil {
		t.Fatal("Connect() succeeded, want exhaustion error")
	}

	var connErr *ConnectionError
	if !errors.As(err, &connErr) {
		t.Fatalf("Connect() error = %T, want *ConnectionError", err)
	}
	if connErr.Host != "vps.example.com" {
		t.Errorf("Host = %q, want %q", connErr.Host, "vps.example.com")
	}
	if connErr.Attempts != 3 {
		t.Errorf("Attempts = %d, want 3", connErr.Attempts)
	}
	if connErr.Unwrap() == nil {
		t.Error("ConnectionError does not wrap the underlying error")
	}
	if *dials != 3 {
		t.Errorf("dial count = %d, want 3", *dials)
	}
	// No sleep after the final attempt.
	if len(*delays) != 2 {
		t.Errorf("backoff count = %d, want 2", len(*delays))
	}
}

func TestConnectNoSleepOnFirstTrySuccess(t *testing.T) {
	c, delays, _ := failingConnector(0)

	ep := Endpoint{Host: "vps.example.com", Port: 22, User: "deploy", Password: "pw"}
	client, err := c.Connect(context.Background(), ep, 3)
	if err != nil {
		t.Fatalf("Connect() failed: %v", err)
	}
	if client == nil {
		t.Fatal("Connect() returned a nil client")
	}

	if len(*delays) != 0 {
		t.Errorf("backoff count = %d, want 0", len(*delays))
	}
}

func TestConnectCancelledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	c := &Connector{
		Dial: func(network, addr string, config *ssh.ClientConfig) (*ssh.Client, error) {
			return nil, errors.New("connection refused")
		},
		Sleep: func(ctx context.Context, d time.Duration) error {
			cancel()
			return ctx.Err()
		},
		Timeout: time.Second,
	}

	ep := Endpoint{Host: "vps.example.com", Port: 22, User: "deploy", Password: "pw"}
	_, err := c.Connect(ctx, ep, 5)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Connect() error = %v, want context.Canceled", err)
	}
}

func TestConnectNoCredentials(t *testing.T) {
	c, _, dials := failingConnector(0)

	ep := Endpoint{Host: "vps.example.com", Port: 22, User: "deploy"}
	_, err := c.Connect(context.Background(), ep, 1)
	if err == nil {
		t.Fatal("Connect() succeeded without credentials")
	}
	if *dials != 0 {
		t.Errorf("dial count = %d, want 0 (no credentials should never dial)", *dials)
	}
}

func TestConnectBadKeyFallsBackToPassword(t *testing.T) {
	keyPath := filepath.Join(t.TempDir(), "id_rsa")
	if err := os.WriteFile(keyPath, []byte("not a private key"), 0o600); err != nil {
		t.Fatal(err)
	}

	var dials int
	var methods int
	c := &Connector{
		Dial: func(network, addr string, config *ssh.ClientConfig) (*ssh.Client, error) {
			dials++
			methods = len(config.Auth)
			return &ssh.Client{}, nil
		},
		Sleep:   func(ctx context.Context, d time.Duration) error { return ctx.Err() },
		Timeout: time.Second,
	}

	ep := Endpoint{Host: "vps.example.com", Port: 22, User: "deploy", KeyPath: keyPath, Password: "pw"}
	client, err := c.Connect(context.Background(), ep, 3)
	if err != nil {
		t.Fatalf("Connect() failed: %v", err)
	}
	if client == nil {
		t.Fatal("Connect() returned a nil client")
	}

	if dials != 1 {
		t.Errorf("dial count = %d, want 1", dials)
	}
	// Only the password method remains once the key fails to parse.
	if methods != 1 {
		t.Errorf("auth method count = %d, want 1", methods)
	}
}

func TestConnectBadKeyWithoutPassword(t *testing.T) {
	keyPath := filepath.Join(t.TempDir(), "id_rsa")
	if err := os.WriteFile(keyPath, []byte("not a private key"), 0o600); err != nil {
		t.Fatal(err)
	}

	c, _, dials := failingConnector(0)

	ep := Endpoint{Host: "vps.example.com", Port: 22, User: "deploy", KeyPath: keyPath}
	_, err := c.Connect(context.Background(), ep, 1)
	if err == nil {
		t.Fatal("Connect() succeeded with an unparseable key and no password")
	}
	if !strings.Contains(err.Error(), "failed to parse private key") {
		t.Errorf("error %q does not name the key parse failure", err)
	}
	if *dials != 0 {
		t.Errorf("dial count = %d, want 0", *dials)
	}
}

func TestConnectMinimumOneAttempt(t *testing.T) {
	c, _, dials := failingConnector(0)

	ep := Endpoint{Host: "vps.example.com", Port: 22, User: "deploy", Password: "pw"}
	client, err := c.Connect(context.Background(), ep, 0)
	if err != nil {
		t.Fatalf("Connect() failed: %v", err)
	}
	if client == nil {
		t.Fatal("Connect() returned a nil client")
	}

	if *dials != 1 {
		t.Errorf("dial count = %d, want 1", *dials)
	}
}

func TestConnectionErrorMessage(t *testing.T) {
	err := &ConnectionError{Host: "vps", Attempts: 3, Err: errors.New("refused")}
	msg := err.Error()
	for _, want := range []string{"vps", "3", "refused"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error message %q missing %q", msg, want)
		}
	}
}

func TestCommandErrorMessage(t *testing.T) {
	err := &CommandError{Command: "systemctl start app", ExitCode: 5, Stderr: "unit not found"}
	msg := err.Error()
	for _, want := range []string{"systemctl start app", "5", "unit not found"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error message %q missing %q", msg, want)
		}
	}
}
