// Package main provides the build command.
package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/kurosci/rzen/internal/build"
	"github.com/kurosci/rzen/internal/ui"
)

// buildCmd compiles the project binary locally.
var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Compile the project binary",
	Long: `Compile the project binary using the configured build command.

With --watch, rzen watches the source tree and rebuilds whenever a file
changes, until interrupted.`,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().String("mode", "", "Build mode: debug or release (overrides config)")
	buildCmd.Flags().BoolP("watch", "w", false, "Rebuild on source changes")
	buildCmd.Flags().Bool("if-changed", false, "Skip the build when the binary is newer than the sources")
	buildCmd.Flags().Bool("dry-run", false, "Print the build command without running it")
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	mode := cfg.Project.BuildMode
	if override, _ := cmd.Flags().GetString("mode"); override != "" {
		mode = override
	}

	projectPath, err := cfg.ProjectPath()
	if err != nil {
		ui.PrintError("%v", err)
		return err
	}

	if dryRun, _ := cmd.Flags().GetBool("dry-run"); dryRun {
		command := build.Command(cfg.Project.BuildCommand, cfg.BinaryName(), mode)
		ui.PrintInfo("Would run in %s:", projectPath)
		ui.PrintDim("$ %s", command)
		return nil
	}

	ifChanged, _ := cmd.Flags().GetBool("if-changed")
	if ifChanged {
		needed, err := build.NeedsRebuild(projectPath, cfg.BinaryName(), mode)
		if err != nil {
			return err
		}
		if !needed {
			ui.PrintDim("Binary is up to date, skipping build.")
			return nil
		}
	}

	watch, _ := cmd.Flags().GetBool("watch")
	if !watch {
		return buildOnce(cfg.BinaryName(), cfg.Project.BuildCommand, projectPath, mode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Build immediately, then on every change.
	if err := buildOnce(cfg.BinaryName(), cfg.Project.BuildCommand, projectPath, mode); err != nil {
		ui.PrintWarning("Initial build failed, watching for changes anyway")
	}

	// Watch src/ only; the build itself mutates target/.
	ui.PrintInfo("Watching src/ for changes (Ctrl+C to stop)...")
	err = build.Watch(ctx, filepath.Join(projectPath, "src"), func() {
		ui.Println()
		ui.PrintDim("Change detected at %s", time.Now().Format("15:04:05"))
		if err := buildOnce(cfg.BinaryName(), cfg.Project.BuildCommand, projectPath, mode); err != nil {
			log.Error("rebuild failed", "err", err)
		}
	})
	if err != nil && ctx.Err() == nil {
		ui.PrintError("Watch failed: %v", err)
		return err
	}
	return nil
}

// buildOnce runs a single build and reports the artifact.
func buildOnce(name, override, projectPath, mode string) error {
	command := build.Command(override, name, mode)
	ui.PrintInfo("Building %s (%s)...", name, mode)
	ui.PrintDim("$ %s", command)

	start := time.Now()
	runner := build.NewRunner(projectPath)
	err := runner.Run(command, func(line string) {
		ui.PrintDim("  %s", line)
	})
	if err != nil {
		ui.PrintError("Build failed: %v", err)
		return err
	}

	info := build.GetInfo(projectPath, name, mode)
	if info.BinaryExists {
		ui.PrintSuccess("Built %s (%s) in %s", info.Name, info.FormatSize(),
			time.Since(start).Round(time.Millisecond))
	} else {
		ui.PrintWarning("Build succeeded but no artifact found at target/%s/%s", mode, name)
	}
	return nil
}
