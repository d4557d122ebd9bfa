// Package main provides the logs command.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kurosci/rzen/internal/monitor"
	"github.com/kurosci/rzen/internal/ui"
)

// logsCmd fetches or follows the remote service log file.
var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Remote service logs",
	Long: `Print the tail of the configured remote log file.

With -f, stream new lines as they are written until interrupted.`,
	RunE: runLogs,
}

func init() {
	logsCmd.Flags().IntP("lines", "n", 50, "Number of trailing lines to fetch")
	logsCmd.Flags().BoolP("follow", "f", false, "Stream new log lines")
}

func runLogs(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.Monitor.LogPath == "" {
		ui.PrintError("No log_path configured under monitor in %s", "rzen.yaml")
		return fmt.Errorf("log_path not configured")
	}

	follow, _ := cmd.Flags().GetBool("follow")
	if follow {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		ui.PrintDim("Following %s on %s (Ctrl+C to stop)", cfg.Monitor.LogPath, cfg.Deploy.Host)
		err := monitor.Follow(ctx, cfg, func(line string) {
			fmt.Println(line)
		})
		if err != nil && ctx.Err() == nil {
			ui.PrintError("Log streaming failed: %v", err)
			return err
		}
		return nil
	}

	lines, _ := cmd.Flags().GetInt("lines")
	out, err := monitor.Logs(context.Background(), cfg, lines)
	if err != nil {
		ui.PrintError("Failed to fetch logs: %v", err)
		return err
	}
	fmt.Print(out)
	return nil
}
