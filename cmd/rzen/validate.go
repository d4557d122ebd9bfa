// Package main provides the validate and clean commands.
package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/kurosci/rzen/internal/build"
	"github.com/kurosci/rzen/internal/config"
	"github.com/kurosci/rzen/internal/ui"
)

// validateCmd checks a configuration file without touching anything.
var validateCmd = &cobra.Command{
	Use:   "validate [path]",
	Short: "Validate a configuration file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.DefaultFileName
		if len(args) == 1 {
			path = args[0]
		}

		cfg, err := config.Load(path)
		if err != nil {
			var cfgErr *config.ConfigurationError
			if errors.As(err, &cfgErr) {
				ui.PrintError("%s: %s (%s)", path, cfgErr.Reason, cfgErr.Field)
			} else {
				ui.PrintError("%v", err)
			}
			return err
		}

		ui.PrintSuccess("%s is valid", path)
		ui.PrintDim("Project %s deploys to %s@%s:%s as %s.",
			cfg.Project.Name, cfg.Deploy.User, cfg.Deploy.Host, cfg.Deploy.Path, cfg.ServiceName())
		return nil
	},
}

// cleanCmd removes local build artifacts.
var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove local build artifacts",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		projectPath, err := cfg.ProjectPath()
		if err != nil {
			return err
		}

		runner := build.NewRunner(projectPath)
		if err := runner.Run("cargo clean", func(line string) {
			ui.PrintDim("  %s", line)
		}); err != nil {
			ui.PrintError("Clean failed: %v", err)
			return err
		}
		ui.PrintSuccess("Build artifacts removed")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(cleanCmd)
}
