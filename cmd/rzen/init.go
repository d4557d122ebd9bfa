// Package main provides the init command.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kurosci/rzen/internal/config"
	"github.com/kurosci/rzen/internal/ui"
)

// initCmd creates rzen.yaml in the current directory.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create rzen.yaml in the current directory",
	Long: `Create a rzen.yaml configuration file in the current directory.

Without flags, a short wizard asks for the project name and deployment
target. Use --non-interactive / -y to write a starter file with
placeholder values instead.`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolP("non-interactive", "y", false, "Write a starter config without prompting")
	initCmd.Flags().Bool("force", false, "Overwrite an existing config file")
}

func runInit(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")
	nonInteractive, _ := cmd.Flags().GetBool("non-interactive")

	path := config.DefaultFileName
	if _, err := os.Stat(path); err == nil && !force {
		ui.PrintWarning("%s already exists, use --force to overwrite", path)
		return fmt.Errorf("%s already exists", path)
	}

	if nonInteractive {
		if err := config.WriteDefault(path); err != nil {
			ui.PrintError("Failed to write config: %v", err)
			return err
		}
		ui.PrintSuccess("Created %s", path)
		ui.PrintDim("Edit the placeholder values, then run `rzen deploy`.")
		return nil
	}

	cfg, err := initWizard()
	if err != nil {
		return err
	}
	if err := config.Write(cfg, path); err != nil {
		ui.PrintError("Failed to write config: %v", err)
		return err
	}

	ui.Println()
	ui.PrintSuccess("Created %s", path)
	ui.PrintDim("Next: `rzen build`, then `rzen deploy`.")
	return nil
}

// initWizard collects the minimum viable configuration interactively.
func initWizard() (*config.Config, error) {
	ui.PrintInfo("Setting up rzen for this project.")
	ui.Println()

	defaultName := "my-app"
	if wd, err := os.Getwd(); err == nil {
		defaultName = filepath.Base(wd)
	}

	name, err := ui.PromptDefault("Project name:", defaultName)
	if err != nil {
		return nil, err
	}
	host, err := ui.Prompt("Deploy host (e.g. vps.example.com):")
	if err != nil {
		return nil, err
	}
	user, err := ui.PromptDefault("SSH user:", "deploy")
	if err != nil {
		return nil, err
	}
	keyPath, err := ui.PromptDefault("SSH key path:", "~/.ssh/id_rsa")
	if err != nil {
		return nil, err
	}
	remotePath, err := ui.PromptDefault("Remote deploy directory:", "/opt/"+name)
	if err != nil {
		return nil, err
	}
	health, err := ui.PromptDefault("Health endpoint:", fmt.Sprintf("http://%s:8080/health", host))
	if err != nil {
		return nil, err
	}

	cfg := &config.Config{
		Project: config.ProjectConfig{
			Path:      ".",
			Name:      name,
			BuildMode: "release",
		},
		Deploy: config.DeployConfig{
			Host:    host,
			User:    user,
			KeyPath: keyPath,
			Path:    remotePath,
			SSHPort: 22,
		},
		Monitor: config.MonitorConfig{
			HealthEndpoint:    health,
			LogPath:           fmt.Sprintf("/var/log/%s.log", name),
			IntervalSecs:      10,
			HealthTimeoutSecs: 5,
		},
	}
	return cfg, nil
}
