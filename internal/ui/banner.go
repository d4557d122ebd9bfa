// Package ui provides the ASCII banner for rzen.
package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// banner is the ASCII art logo.
const banner = `
  ██████╗ ███████╗███████╗███╗   ██╗
  ██╔══██╗╚══███╔╝██╔════╝████╗  ██║
  ██████╔╝  ███╔╝ █████╗  ██╔██╗ ██║
  ██╔══██╗ ███╔╝  ██╔══╝  ██║╚██╗██║
  ██║  ██║███████╗███████╗██║ ╚████║
  ╚═╝  ╚═╝╚══════╝╚══════╝╚═╝  ╚═══╝`

// tagline is the product tagline.
const tagline = "Build, ship and babysit binaries on remote hosts"

// PrintBanner prints the rzen banner with version info.
func PrintBanner(version string) {
	if quiet {
		return
	}

	styledBanner := lipgloss.NewStyle().
		Foreground(Teal).
		Bold(true).
		Render(banner)

	fmt.Println(styledBanner)
	fmt.Println()

	taglineStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Italic(true).
		PaddingLeft(2)
	fmt.Println(taglineStyle.Render(tagline))
	fmt.Println()

	infoStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		PaddingLeft(2)

	fmt.Println(infoStyle.Render(fmt.Sprintf("Version: %s", version)))
	fmt.Println()
}

// GetCondensedHelp returns a compact cheat-sheet for the common journey.
// Shown when the user runs `rzen` with no arguments -- no ASCII banner,
// no Cobra auto-generated command list, just the essentials.
func GetCondensedHelp() string {
	accent := lipgloss.NewStyle().Foreground(Teal).Bold(true)
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	hint := lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true)

	return fmt.Sprintf(`%s

%s
  %s         Create rzen.yaml in the current directory
  %s        Compile the project binary
  %s       Ship the binary and restart the service

%s
  %s       Service, health and deployment overview
  %s      Continuous health checks
  %s      Remote service logs (-f to follow)
  %s     Restore the previous binary

%s
  %s         Full-screen interactive dashboard

%s
`,
		accent.Render("rzen")+" - "+dim.Render(tagline),
		accent.Render("Getting Started:"),
		accent.Render("rzen init"),
		accent.Render("rzen build"),
		accent.Render("rzen deploy"),
		accent.Render("Operate:"),
		accent.Render("rzen status"),
		accent.Render("rzen monitor"),
		accent.Render("rzen logs"),
		accent.Render("rzen rollback"),
		accent.Render("Interactive:"),
		accent.Render("rzen dash"),
		hint.Render(`Use "rzen --help" for a full list of commands.`),
	)
}

// GetHelpText returns the verbose help text used by `rzen --help`.
func GetHelpText() string {
	accent := lipgloss.NewStyle().Foreground(Teal).Bold(true)
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	return fmt.Sprintf(`%s

%s
  %s           Create rzen.yaml in the current directory
  %s          Compile the project binary
  %s         Build, upload and restart on the remote host

%s
  %s         Service state, last deployment, binary info
  %s --watch Re-check health on an interval
  %s -f      Follow remote service logs
  %s       Restore the .backup binary and restart

%s
  %s           Build / Deploy / Monitor / Config tabs`,
		dim.Render(tagline+". One config file, one command to ship."),
		accent.Render("Quick Start:"),
		accent.Render("rzen init"),
		accent.Render("rzen build"),
		accent.Render("rzen deploy"),
		accent.Render("Operate:"),
		accent.Render("rzen status"),
		accent.Render("rzen monitor"),
		accent.Render("rzen logs"),
		accent.Render("rzen rollback"),
		accent.Render("Interactive:"),
		accent.Render("rzen dash"),
	)
}
