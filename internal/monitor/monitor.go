// Package monitor aggregates independent health probes — an HTTP health
// check and an SSH reachability/service-state probe — into one status
// snapshot, recomputed fresh on every check.
package monitor

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/kurosci/rzen/internal/config"
	"github.com/kurosci/rzen/internal/service"
	"github.com/kurosci/rzen/internal/sshx"
)

// sessionAttempts is the retry budget for the monitor's SSH probe. Shorter
// than the deploy budget: a status check should fail fast.
const sessionAttempts = 2

// Status is a point-in-time application health snapshot. The two probes are
// independent: a healthy HTTP endpoint with an unreachable host produces
// {HealthOK: true, ReachableOK: false}, never a conflated boolean.
type Status struct {
	// HealthOK reports a 2xx response from the health endpoint.
	HealthOK bool

	// ReachableOK reports a successful SSH session.
	ReachableOK bool

	// ServiceState is the systemd state string, when reachable.
	ServiceState string

	// ResponseTime is the health endpoint latency, when healthy.
	ResponseTime time.Duration

	// LastError holds the most recent probe error text.
	LastError string
}

// IsHealthy reports full health: health probe, reachability, and an exactly
// "active" service state must all hold simultaneously.
func (s *Status) IsHealthy() bool {
	return s.HealthOK && s.ReachableOK && s.ServiceState == "active"
}

// Summary lists the failing probes, or reports all-clear.
func (s *Status) Summary() string {
	if s.IsHealthy() {
		return "All systems operational"
	}

	var issues []string
	if !s.HealthOK {
		issues = append(issues, "health check failing")
	}
	if !s.ReachableOK {
		issues = append(issues, "ssh connection failed")
	}
	if s.ServiceState != "active" {
		issues = append(issues, "service not active")
	}
	return "Issues: " + strings.Join(issues, ", ")
}

// sessionProbe opens a fresh session and queries the service state. Tests
// replace it to exercise probe independence without a host.
type sessionProbe func(ctx context.Context) (state string, err error)

// Checker runs status checks against one configured target.
type Checker struct {
	cfg        *config.Config
	httpClient *http.Client
	probe      sessionProbe
}

// NewChecker creates a checker with an HTTP client bounded by the
// configured health timeout.
func NewChecker(cfg *config.Config) *Checker {
	c := &Checker{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Monitor.HealthTimeoutSecs) * time.Second,
		},
	}
	c.probe = c.sshProbe
	return c
}

// Check runs both probes and returns a fresh snapshot. It never merges with
// a prior snapshot; only display layers may do that.
func (c *Checker) Check(ctx context.Context) *Status {
	status := &Status{}

	if endpoint := c.cfg.Monitor.HealthEndpoint; endpoint != "" {
		latency, err := c.checkHealth(ctx, endpoint)
		if err != nil {
			status.LastError = err.Error()
			log.Debug("health check failed", "endpoint", endpoint, "err", err)
		} else {
			status.HealthOK = true
			status.ResponseTime = latency
			log.Debug("health check ok", "endpoint", endpoint, "latency", latency)
		}
	}

	state, err := c.probe(ctx)
	if err != nil {
		status.LastError = fmt.Sprintf("ssh connection failed: %v", err)
	} else {
		status.ReachableOK = true
		status.ServiceState = state
	}

	return status
}

// checkHealth issues a GET against the health endpoint and returns the
// elapsed latency. Any non-2xx status is unhealthy.
func (c *Checker) checkHealth(ctx context.Context, endpoint string) (time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("invalid health endpoint %s: %w", endpoint, err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to reach health endpoint %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, fmt.Errorf("health endpoint returned status %d", resp.StatusCode)
	}
	return time.Since(start), nil
}

// sshProbe is the production session probe: a fresh connection per check,
// closed before returning.
func (c *Checker) sshProbe(ctx context.Context) (string, error) {
	ep := sshx.Endpoint{
		Host:     c.cfg.Deploy.Host,
		Port:     c.cfg.Deploy.SSHPort,
		User:     c.cfg.Deploy.User,
		KeyPath:  c.cfg.Deploy.KeyPath,
		Password: c.cfg.Deploy.Password,
	}

	client, err := sshx.NewConnector().Connect(ctx, ep, sessionAttempts)
	if err != nil {
		return "", err
	}
	defer client.Close()

	return service.NewManager(client).State(c.cfg.ServiceName()), nil
}

// Run loops probe → display → sleep. iterations <= 0 means unbounded; the
// loop otherwise stops after the given count. Cancelling the context stops
// the loop between cycles.
func (c *Checker) Run(ctx context.Context, iterations int, interval time.Duration, display func(*Status)) error {
	for i := 1; ; i++ {
		log.Debug("monitoring cycle", "iteration", i)

		status := c.Check(ctx)
		if display != nil {
			display(status)
		}

		if iterations > 0 && i >= iterations {
			return nil
		}

		t := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
}
