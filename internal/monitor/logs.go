package monitor

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/kurosci/rzen/internal/config"
	"github.com/kurosci/rzen/internal/sshx"
)

func endpoint(cfg *config.Config) sshx.Endpoint {
	return sshx.Endpoint{
		Host:     cfg.Deploy.Host,
		Port:     cfg.Deploy.SSHPort,
		User:     cfg.Deploy.User,
		KeyPath:  cfg.Deploy.KeyPath,
		Password: cfg.Deploy.Password,
	}
}

// Logs fetches the last n lines of the configured remote log file.
func Logs(ctx context.Context, cfg *config.Config, lines int) (string, error) {
	if cfg.Monitor.LogPath == "" {
		return "", fmt.Errorf("no log path configured: set monitor.log_path in %s", config.DefaultFileName)
	}

	client, err := sshx.NewConnector().Connect(ctx, endpoint(cfg), sessionAttempts)
	if err != nil {
		return "", err
	}
	defer client.Close()

	out, _, err := client.Run(fmt.Sprintf("tail -n %d %s", lines, cfg.Monitor.LogPath))
	if err != nil {
		return "", fmt.Errorf("failed to read remote log: %w", err)
	}
	return out, nil
}

// Follow streams the remote log with tail -f, writing each line to the
// callback until the context is cancelled or the stream ends.
func Follow(ctx context.Context, cfg *config.Config, onLine func(string)) error {
	if cfg.Monitor.LogPath == "" {
		return fmt.Errorf("no log path configured: set monitor.log_path in %s", config.DefaultFileName)
	}

	client, err := sshx.NewConnector().Connect(ctx, endpoint(cfg), connectAttemptsForFollow)
	if err != nil {
		return err
	}
	defer client.Close()

	return client.Stream(ctx, fmt.Sprintf("tail -f -n 50 %s", cfg.Monitor.LogPath), func(r io.Reader) error {
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			onLine(scanner.Text())
		}
		return scanner.Err()
	})
}

// connectAttemptsForFollow matches the deploy budget: log streaming is an
// interactive session worth a longer retry window.
const connectAttemptsForFollow = 3
