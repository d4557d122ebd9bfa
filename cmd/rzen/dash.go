// Package main provides the dash command.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kurosci/rzen/internal/tui"
	"github.com/kurosci/rzen/internal/ui"
)

// dashCmd launches the full-screen interactive dashboard.
var dashCmd = &cobra.Command{
	Use:   "dash",
	Short: "Full-screen interactive dashboard",
	Long: `Launch the interactive dashboard with Build, Deploy, Monitor and
Config tabs. Requires an interactive terminal.`,
	RunE: runDash,
}

func runDash(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	quiet, _ := cmd.Flags().GetBool("quiet")
	if !tui.ShouldRunTUI(quiet) {
		ui.PrintError("The dashboard needs an interactive terminal")
		ui.PrintDim("Use `rzen status`, `rzen deploy` or `rzen monitor` directly instead.")
		return fmt.Errorf("not a terminal")
	}

	return tui.Run(cfg, version)
}
