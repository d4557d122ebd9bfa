// Package main provides the monitor command.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kurosci/rzen/internal/monitor"
	"github.com/kurosci/rzen/internal/ui"
)

// defaultWatchIterations bounds `monitor --watch` unless --count overrides it.
const defaultWatchIterations = 10

// monitorCmd runs health checks against the deployed service.
var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Continuous health checks",
	Long: `Check the deployed service: HTTP health endpoint, SSH reachability
and systemd state. One sample by default; --watch repeats on an interval
for --count iterations (0 means until interrupted).`,
	RunE: runMonitor,
}

func init() {
	monitorCmd.Flags().BoolP("watch", "w", false, "Keep sampling on an interval")
	monitorCmd.Flags().Int("interval", 0, "Seconds between samples (overrides config)")
	monitorCmd.Flags().Int("count", defaultWatchIterations, "Samples to take with --watch, 0 for unbounded")
	monitorCmd.Flags().Int("lines", 0, "Show this many recent log lines before sampling")
}

func runMonitor(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	checker := monitor.NewChecker(cfg)

	if lines, _ := cmd.Flags().GetInt("lines"); lines > 0 && cfg.Monitor.LogPath != "" {
		out, err := monitor.Logs(cmd.Context(), cfg, lines)
		if err != nil {
			ui.PrintWarning("Could not fetch recent logs: %v", err)
		} else {
			ui.PrintDim("Recent logs:")
			fmt.Print(out)
			ui.Println()
		}
	}

	watch, _ := cmd.Flags().GetBool("watch")
	if !watch {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		status := checker.Check(ctx)
		printSample(status)
		if !status.IsHealthy() {
			return errors.New("service is unhealthy")
		}
		return nil
	}

	intervalSecs := cfg.Monitor.IntervalSecs
	if override, _ := cmd.Flags().GetInt("interval"); override > 0 {
		intervalSecs = override
	}
	count, _ := cmd.Flags().GetInt("count")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ui.PrintInfo("Monitoring %s every %ds (Ctrl+C to stop)", cfg.Deploy.Host, intervalSecs)
	err = checker.Run(ctx, count, time.Duration(intervalSecs)*time.Second, func(s *monitor.Status) {
		ui.PrintDim("--- %s ---", time.Now().Format("15:04:05"))
		printSample(s)
	})
	if err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

// printSample renders one monitoring sample.
func printSample(s *monitor.Status) {
	latency := ""
	if s.ResponseTime > 0 {
		latency = s.ResponseTime.Round(time.Millisecond).String()
	}
	ui.PrintHealthReport(s.HealthOK, s.ReachableOK, s.ServiceState, latency, s.LastError)
	if s.IsHealthy() {
		ui.PrintSuccess("%s", s.Summary())
	} else {
		ui.PrintWarning("%s", s.Summary())
	}
}
