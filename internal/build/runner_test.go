package build

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunnerStreamsOutput(t *testing.T) {
	var lines []string
	r := NewRunner(t.TempDir())

	err := r.Run("echo one && echo two", func(line string) {
		lines = append(lines, line)
	})
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if len(lines) != 2 || lines[0] != "one" || lines[1] != "two" {
		t.Errorf("lines = %v, want [one two]", lines)
	}
}

func TestRunnerRunsInWorkDir(t *testing.T) {
	dir := t.TempDir()
	r := NewRunner(dir)

	if err := r.Run("touch marker", nil); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "marker")); err != nil {
		t.Errorf("command did not run in %s: %v", dir, err)
	}
}

func TestRunnerFailureCarriesStderr(t *testing.T) {
	r := NewRunner(t.TempDir())

	err := r.Run("echo 'compile error: oops' >&2; exit 1", nil)
	if err == nil {
		t.Fatal("Run() succeeded for a failing command")
	}
	if !strings.Contains(err.Error(), "compile error: oops") {
		t.Errorf("error %q does not carry stderr", err)
	}
}

func TestRunnerInterleavesStderr(t *testing.T) {
	var lines []string
	r := NewRunner(t.TempDir())

	err := r.Run("echo out; echo err >&2", func(line string) {
		lines = append(lines, line)
	})
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("line count = %d, want both streams: %v", len(lines), lines)
	}
}

func TestCommand(t *testing.T) {
	tests := []struct {
		name     string
		override string
		binName  string
		mode     string
		want     string
	}{
		{
			name:    "release derives cargo with flag",
			binName: "webapp",
			mode:    "release",
			want:    "cargo build --bin webapp --release",
		},
		{
			name:    "debug derives cargo without flag",
			binName: "webapp",
			mode:    "debug",
			want:    "cargo build --bin webapp",
		},
		{
			name:     "override wins",
			override: "make build",
			binName:  "webapp",
			mode:     "release",
			want:     "make build",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Command(tt.override, tt.binName, tt.mode); got != tt.want {
				t.Errorf("Command() = %q, want %q", got, tt.want)
			}
		})
	}
}
