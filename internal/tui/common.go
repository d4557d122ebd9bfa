// Package tui provides the Bubble Tea dashboard for rzen.
//
// The dashboard launches via `rzen dash` in an interactive terminal. It is
// never activated for piped output; the isatty gate prevents it.
package tui

import (
	"os"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// ShouldRunTUI returns true if the dashboard should be launched: never in
// quiet mode, never when stdout is not a terminal.
func ShouldRunTUI(quiet bool) bool {
	if quiet {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// --- Brand colors (mirrors internal/ui/styles.go) ---

var (
	teal    = lipgloss.Color("#14B8A6")
	red     = lipgloss.Color("#EF4444")
	amber   = lipgloss.Color("#F59E0B")
	green   = lipgloss.Color("#22C55E")
	dimGray = lipgloss.Color("#9CA3AF")
	white   = lipgloss.Color("#E5E7EB")
)

// --- Shared TUI styles ---

var (
	// titleStyle renders the RZEN header.
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(teal)

	// activeTabStyle highlights the selected tab.
	activeTabStyle = lipgloss.NewStyle().
			Foreground(teal).
			Bold(true).
			Underline(true)

	// tabStyle renders unselected tabs.
	tabStyle = lipgloss.NewStyle().
			Foreground(dimGray)

	// sectionStyle renders section headers.
	sectionStyle = lipgloss.NewStyle().
			Foreground(dimGray).
			Bold(true).
			MarginTop(1)

	// normalStyle renders regular body text.
	normalStyle = lipgloss.NewStyle().
			Foreground(white)

	// dimStyle renders low-priority text.
	dimStyle = lipgloss.NewStyle().
			Foreground(dimGray)

	// successStyle renders positive results.
	successStyle = lipgloss.NewStyle().
			Foreground(green).
			Bold(true)

	// errorStyle renders failures.
	errorStyle = lipgloss.NewStyle().
			Foreground(red).
			Bold(true)

	// warningStyle renders degraded states.
	warningStyle = lipgloss.NewStyle().
			Foreground(amber)

	// helpStyle renders the bottom key hints.
	helpStyle = lipgloss.NewStyle().
			Foreground(dimGray)
)

// newSpinner creates a consistently styled braille spinner.
func newSpinner() spinner.Model {
	s := spinner.New()
	s.Spinner = spinner.Spinner{
		Frames: []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
		FPS:    time.Second / 10,
	}
	s.Style = lipgloss.NewStyle().Foreground(teal)
	return s
}

// helpKeyRender formats a key hint like "d deploy".
func helpKeyRender(key, desc string) string {
	return lipgloss.NewStyle().Foreground(teal).Bold(true).Render(key) +
		" " + helpStyle.Render(desc)
}
