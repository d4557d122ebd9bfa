// Package main provides the deploy and rollback commands.
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

	"github.com/kurosci/rzen/internal/build"
	"github.com/kurosci/rzen/internal/config"
	"github.com/kurosci/rzen/internal/deploy"
	"github.com/kurosci/rzen/internal/ui"
)

// deployCmd ships the binary to the remote host and restarts the service.
var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Build, upload and restart on the remote host",
	Long: `Deploy the project binary to the configured host.

The pipeline builds the binary (unless --skip-build), connects over SSH,
backs up the currently deployed binary, uploads the new one, installs the
systemd unit and restarts the service. A failed upload leaves the backup
in place for ` + "`rzen rollback`" + `.`,
	RunE: runDeploy,
}

// rollbackCmd restores the previous binary from the backup slot.
var rollbackCmd = &cobra.Command{
	Use:   "rollback",
	Short: "Restore the previous binary and restart",
	RunE:  runRollback,
}

func init() {
	deployCmd.Flags().Bool("skip-build", false, "Deploy the existing artifact without rebuilding")
	deployCmd.Flags().Bool("dry-run", false, "Log the plan without touching the remote host")
	deployCmd.Flags().Bool("ask-pass", false, "Prompt for the SSH password instead of reading it from config")

	rollbackCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
	rollbackCmd.Flags().Bool("ask-pass", false, "Prompt for the SSH password instead of reading it from config")
}

func runDeploy(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := maybeAskPass(cmd, cfg); err != nil {
		return err
	}

	skipBuild, _ := cmd.Flags().GetBool("skip-build")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	projectPath, err := cfg.ProjectPath()
	if err != nil {
		ui.PrintError("%v", err)
		return err
	}

	if !skipBuild && !dryRun {
		if err := buildOnce(cfg.BinaryName(), cfg.Project.BuildCommand, projectPath, cfg.Project.BuildMode); err != nil {
			return err
		}
		ui.Println()
	}

	desc := deploy.RemoteDescriptor(cfg)
	if !dryRun {
		binaryPath, err := build.FindBinary(projectPath, cfg.BinaryName(), cfg.Project.BuildMode)
		if err != nil {
			ui.PrintError("%v", err)
			ui.PrintDim("Run `rzen build` first, or drop --skip-build.")
			return err
		}
		desc, err = deploy.NewDescriptor(cfg, binaryPath)
		if err != nil {
			ui.PrintError("%v", err)
			return err
		}
	}

	ui.PrintInfo("Deploying %s to %s@%s", cfg.BinaryName(), cfg.Deploy.User, cfg.Deploy.Host)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tracker := ui.NewStepTracker()
	result, err := deploy.NewPipeline(cfg).Deploy(ctx, desc,
		deploy.Options{SkipBuild: skipBuild, DryRun: dryRun},
		func(ev deploy.Event) {
			tracker.Update(ev.Step, ev.Total, ev.Message)
		})
	tracker.Finish(err == nil)

	if err != nil {
		ui.PrintDeployResult(false, cfg.Deploy.Host, cfg.BinaryName(), "", err.Error())
		return err
	}

	ui.PrintDeployResult(true, result.Host, result.Binary,
		result.Duration.Round(10*time.Millisecond).String(), result.Message)
	if cfg.Monitor.HealthEndpoint != "" && !dryRun {
		ui.PrintDim("Check on it with `rzen status` or `rzen monitor`.")
	}
	return nil
}

func runRollback(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := maybeAskPass(cmd, cfg); err != nil {
		return err
	}

	desc := deploy.RemoteDescriptor(cfg)

	if yes, _ := cmd.Flags().GetBool("yes"); !yes {
		ok, err := ui.PromptConfirm(
			fmt.Sprintf("Restore %s from backup on %s?", desc.BinaryName, cfg.Deploy.Host), false)
		if err != nil {
			return err
		}
		if !ok {
			ui.PrintDim("Rollback cancelled.")
			return nil
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ui.StartSpinner("Rolling back " + desc.BinaryName + " on " + cfg.Deploy.Host)
	err = deploy.NewPipeline(cfg).Rollback(ctx, desc)
	ui.StopSpinner()

	if err != nil {
		var unavailable *deploy.RollbackUnavailableError
		if errors.As(err, &unavailable) {
			ui.PrintError("No backup to roll back to (%s missing)", unavailable.BackupPath)
			ui.PrintDim("A backup appears after the second deployment overwrites the first.")
			return err
		}
		ui.PrintError("Rollback failed: %v", err)
		return err
	}

	ui.PrintSuccess("Rolled back %s and restarted %s", desc.BinaryName, desc.ServiceName)
	return nil
}

// maybeAskPass replaces the configured password with an interactively
// entered one when --ask-pass is set.
func maybeAskPass(cmd *cobra.Command, cfg *config.Config) error {
	if askPass, _ := cmd.Flags().GetBool("ask-pass"); !askPass {
		return nil
	}
	pass, err := ui.PromptSecret(fmt.Sprintf("Password for %s@%s:", cfg.Deploy.User, cfg.Deploy.Host))
	if err != nil {
		return err
	}
	cfg.Deploy.Password = pass
	return nil
}
