package main

import (
	"github.com/spf13/cobra"

	"github.com/kurosci/rzen/internal/config"
	"github.com/kurosci/rzen/internal/ui"
)

// loadConfig resolves the project configuration, honoring the global
// --config flag when set, and prints a friendly hint when nothing is found.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")

	var cfg *config.Config
	var err error
	if path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.LoadDefault()
	}
	if err != nil {
		ui.PrintError("Failed to load configuration: %v", err)
		ui.PrintDim("Run `rzen init` to create %s in the current directory.", config.DefaultFileName)
		return nil, err
	}
	return cfg, nil
}
