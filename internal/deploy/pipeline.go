package deploy

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/kurosci/rzen/internal/config"
	"github.com/kurosci/rzen/internal/service"
	"github.com/kurosci/rzen/internal/sshx"
)

// connectAttempts is the retry budget for the deployment connection stage.
// Only this stage retries; every later failure aborts the run.
const connectAttempts = 3

// totalStages is the number of pipeline stages used for progress fractions.
const totalStages = 8

// remoteClient is the slice of sshx.Client the pipeline uses. Tests
// substitute a fake host.
type remoteClient interface {
	Run(command string) (stdout, stderr string, err error)
	Upload(localPath, remotePath string) error
	FileExists(path string) bool
	Close() error
}

// connectFunc opens a remote session. The default wraps sshx.Connector.
type connectFunc func(ctx context.Context, ep sshx.Endpoint, maxAttempts int) (remoteClient, error)

// Event is an ordered progress notification emitted before each stage.
type Event struct {
	// Step is the 1-based stage index.
	Step int

	// Total is the stage count.
	Total int

	// Percent is the completion fraction, 0-100.
	Percent float64

	// Message is the human-readable stage label.
	Message string
}

// ProgressFunc receives pipeline events. It may be nil.
type ProgressFunc func(Event)

// Options controls a deployment run.
type Options struct {
	// SkipBuild indicates the caller skipped the local build step.
	// Building happens outside the pipeline; the flag only annotates logs.
	SkipBuild bool

	// DryRun logs the intended actions and mutates nothing. No connection
	// is attempted.
	DryRun bool
}

// Result summarizes a completed (or simulated) deployment.
type Result struct {
	ID       string
	Host     string
	Binary   string
	DryRun   bool
	Duration time.Duration
	Message  string
}

// RollbackUnavailableError distinguishes "nothing to roll back to" from
// other rollback failures.
type RollbackUnavailableError struct {
	BackupPath string
}

// Error implements the error interface.
func (e *RollbackUnavailableError) Error() string {
	return fmt.Sprintf("no backup found for rollback at %s", e.BackupPath)
}

// Pipeline runs deployments and rollbacks against one configuration.
type Pipeline struct {
	cfg     *config.Config
	connect connectFunc
}

// NewPipeline creates a pipeline for the given configuration.
func NewPipeline(cfg *config.Config) *Pipeline {
	return &Pipeline{
		cfg: cfg,
		connect: func(ctx context.Context, ep sshx.Endpoint, maxAttempts int) (remoteClient, error) {
			return sshx.NewConnector().Connect(ctx, ep, maxAttempts)
		},
	}
}

func (p *Pipeline) endpoint() sshx.Endpoint {
	return sshx.Endpoint{
		Host:     p.cfg.Deploy.Host,
		Port:     p.cfg.Deploy.SSHPort,
		User:     p.cfg.Deploy.User,
		KeyPath:  p.cfg.Deploy.KeyPath,
		Password: p.cfg.Deploy.Password,
	}
}

// Deploy runs the full pipeline. Stages execute sequentially; the first
// failure aborts the remaining stages and propagates with context. One
// progress event is emitted before each stage.
//
// Parameters:
//   - ctx: Cancels connection backoff waits
//   - desc: The resolved deployment descriptor
//   - opts: Run options (dry-run, skip-build)
//   - onProgress: Optional progress callback
//
// Returns:
//   - *Result: Summary of the run (synthetic under dry-run)
//   - error: The first stage failure
func (p *Pipeline) Deploy(ctx context.Context, desc Descriptor, opts Options, onProgress ProgressFunc) (*Result, error) {
	start := time.Now()
	runID := uuid.NewString()

	emit := func(step int, msg string) {
		if onProgress != nil {
			onProgress(Event{
				Step:    step,
				Total:   totalStages,
				Percent: float64(step) / float64(totalStages) * 100,
				Message: msg,
			})
		}
	}

	if opts.DryRun {
		return p.simulate(desc, runID, start, emit)
	}
	if opts.SkipBuild {
		log.Debug("local build skipped by request")
	}

	emit(1, "Validating prerequisites...")
	if err := p.validate(desc); err != nil {
		return nil, err
	}

	emit(2, "Connecting to server...")
	client, err := p.connect(ctx, p.endpoint(), connectAttempts)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	emit(3, "Creating remote directory...")
	if _, _, err := client.Run("mkdir -p " + desc.RemoteDir); err != nil {
		return nil, fmt.Errorf("failed to create remote directory %s: %w", desc.RemoteDir, err)
	}

	emit(4, "Backing up existing binary...")
	if client.FileExists(desc.RemotePath()) {
		log.Debug("creating backup of existing binary", "path", desc.BackupPath())
		if _, _, err := client.Run(fmt.Sprintf("cp %s %s", desc.RemotePath(), desc.BackupPath())); err != nil {
			return nil, fmt.Errorf("failed to back up existing binary: %w", err)
		}
	}

	emit(5, "Uploading binary...")
	if err := client.Upload(desc.BinaryPath, desc.RemotePath()); err != nil {
		return nil, err
	}

	emit(6, "Setting executable permissions...")
	if _, _, err := client.Run("chmod +x " + desc.RemotePath()); err != nil {
		return nil, fmt.Errorf("failed to set executable permission: %w", err)
	}

	mgr := service.NewManager(client)

	emit(7, "Installing systemd service...")
	unit := service.Unit{
		Name:       desc.ServiceName,
		BinaryName: desc.BinaryName,
		User:       p.cfg.Deploy.User,
		WorkingDir: desc.RemoteDir,
		ExecStart:  desc.RemotePath(),
	}
	if err := mgr.Install(unit); err != nil {
		return nil, err
	}

	emit(8, "Starting service...")
	if err := mgr.Start(desc.ServiceName); err != nil {
		return nil, err
	}

	return &Result{
		ID:       runID,
		Host:     p.cfg.Deploy.Host,
		Binary:   desc.BinaryName,
		Duration: time.Since(start),
		Message:  fmt.Sprintf("Successfully deployed %s to %s", desc.BinaryName, p.cfg.Deploy.Host),
	}, nil
}

// validate checks prerequisites before any connection is attempted.
func (p *Pipeline) validate(desc Descriptor) error {
	if _, err := os.Stat(desc.BinaryPath); err != nil {
		return fmt.Errorf("binary not found at %s: %w", desc.BinaryPath, err)
	}
	if desc.BinarySize == 0 {
		return fmt.Errorf("binary file is empty: %s", desc.BinaryPath)
	}
	if p.cfg.Deploy.KeyPath == "" && p.cfg.Deploy.Password == "" {
		return &config.ConfigurationError{
			Field:  "deploy",
			Reason: "ssh authentication not configured: provide either key_path or password",
		}
	}
	return nil
}

// simulate reports the intended actions stage by stage and returns a
// synthetic success so callers can treat dry runs uniformly with real runs.
func (p *Pipeline) simulate(desc Descriptor, runID string, start time.Time, emit func(int, string)) (*Result, error) {
	steps := []string{
		"Validating prerequisites...",
		"Connecting to server...",
		"Creating remote directory...",
		"Backing up existing binary...",
		"Uploading binary...",
		"Setting executable permissions...",
		"Installing systemd service...",
		"Starting service...",
	}
	for i, step := range steps {
		emit(i+1, step)
	}

	log.Info("dry run: ssh connection to server", "host", p.cfg.Deploy.Host)
	log.Info("dry run: create directory", "path", desc.RemoteDir)
	log.Info("dry run: upload binary", "binary", desc.BinaryName)
	log.Info("dry run: set executable permissions", "path", desc.RemotePath())
	log.Info("dry run: install systemd service", "unit", desc.ServiceName)
	log.Info("dry run: start systemd service", "unit", desc.ServiceName)

	return &Result{
		ID:       runID,
		Host:     p.cfg.Deploy.Host,
		Binary:   desc.BinaryName,
		DryRun:   true,
		Duration: time.Since(start),
		Message:  fmt.Sprintf("DRY RUN: would deploy %s to %s", desc.BinaryName, p.cfg.Deploy.Host),
	}, nil
}

// Rollback restores the live binary from the backup slot and restarts the
// service. The unit file is assumed unchanged since the prior deploy and is
// not reinstalled. The backup survives, so rollback can run repeatedly.
func (p *Pipeline) Rollback(ctx context.Context, desc Descriptor) error {
	client, err := p.connect(ctx, p.endpoint(), connectAttempts)
	if err != nil {
		return err
	}
	defer client.Close()

	// Best effort; the current service may already be dead.
	_, _, _ = client.Run("sudo systemctl stop " + desc.ServiceName)

	if !client.FileExists(desc.BackupPath()) {
		return &RollbackUnavailableError{BackupPath: desc.BackupPath()}
	}

	log.Debug("restoring backup", "from", desc.BackupPath(), "to", desc.RemotePath())
	if _, _, err := client.Run(fmt.Sprintf("cp %s %s", desc.BackupPath(), desc.RemotePath())); err != nil {
		return fmt.Errorf("failed to restore backup: %w", err)
	}
	if _, _, err := client.Run("chmod +x " + desc.RemotePath()); err != nil {
		return fmt.Errorf("failed to set executable permission after rollback: %w", err)
	}

	if err := service.NewManager(client).Start(desc.ServiceName); err != nil {
		return fmt.Errorf("rollback: %w", err)
	}
	return nil
}
