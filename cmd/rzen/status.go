// Package main provides the status command.
package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/kurosci/rzen/internal/deploy"
	"github.com/kurosci/rzen/internal/monitor"
	"github.com/kurosci/rzen/internal/ui"
)

// statusCmd shows the deployed service state and a one-shot health sample.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Service, health and deployment overview",
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	ui.StartSpinner("Querying " + cfg.Deploy.Host)
	host, err := deploy.NewPipeline(cfg).Status(ctx, deploy.RemoteDescriptor(cfg))
	ui.StopSpinner()
	if err != nil {
		ui.PrintError("Status query failed: %v", err)
		return err
	}

	deployed := ""
	if !host.LastDeployment.IsZero() {
		deployed = host.LastDeployment.Format(time.RFC1123)
	}
	ui.PrintHostStatus(cfg.Deploy.Host, host.ServiceActive, host.ServiceState, deployed, host.BinaryInfo)

	if cfg.Monitor.HealthEndpoint != "" {
		status := monitor.NewChecker(cfg).Check(ctx)
		latency := ""
		if status.ResponseTime > 0 {
			latency = status.ResponseTime.Round(time.Millisecond).String()
		}
		ui.Println()
		ui.PrintHealthReport(status.HealthOK, status.ReachableOK, status.ServiceState, latency, status.LastError)
	}
	return nil
}
