// Package build runs the local build command and locates the resulting
// binary artifact for deployment.
package build

import (
	"bufio"
	"fmt"
	"os/exec"
	"strings"
	"sync"
)

// Runner executes build commands in a specified working directory.
type Runner struct {
	workDir string
}

// NewRunner creates a new build runner.
//
// Parameters:
//   - workDir: The working directory for build commands
//
// Returns:
//   - *Runner: A new Runner instance
func NewRunner(workDir string) *Runner {
	return &Runner{workDir: workDir}
}

// Run executes a build command and streams output to the callback.
//
// The command is executed via /bin/sh -c to support shell features like
// pipes and redirects. Stdout and stderr are interleaved line by line; a
// non-zero exit returns an error carrying the captured stderr.
func (r *Runner) Run(command string, onOutput func(line string)) error {
	cmd := exec.Command("/bin/sh", "-c", command)
	cmd.Dir = r.workDir

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to create stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("failed to create stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start build command: %w", err)
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		scanner := bufio.NewScanner(stdout)
		for scanner.Scan() {
			if onOutput != nil {
				onOutput(scanner.Text())
			}
		}
	}()

	var stderrLines []string
	go func() {
		defer wg.Done()
		scanner := bufio.NewScanner(stderr)
		for scanner.Scan() {
			line := scanner.Text()
			stderrLines = append(stderrLines, line)
			if onOutput != nil {
				onOutput(line)
			}
		}
	}()

	cmdErr := cmd.Wait()
	// All output must be drained before stderrLines is read.
	wg.Wait()

	if cmdErr != nil {
		if len(stderrLines) > 0 {
			return fmt.Errorf("build failed: %w\n%s", cmdErr, strings.Join(stderrLines, "\n"))
		}
		return fmt.Errorf("build failed: %w", cmdErr)
	}
	return nil
}

// Command returns the build command for a project name and mode. An
// explicit override from the config wins; otherwise a cargo invocation is
// derived.
func Command(override, name, mode string) string {
	if override != "" {
		return override
	}
	cmd := "cargo build --bin " + name
	if mode == "release" {
		cmd += " --release"
	}
	return cmd
}
