// Package ui provides result rendering components.
package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// boxStyle frames the deploy result summary.
var boxStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	Padding(0, 2)

// PrintDeployResult prints a boxed deployment summary.
func PrintDeployResult(success bool, host, binary, duration, message string) {
	if quiet {
		return
	}

	var icon string
	var style lipgloss.Style
	if success {
		icon = "✓"
		style = boxStyle.BorderForeground(Green)
	} else {
		icon = "✗"
		style = boxStyle.BorderForeground(Red)
	}

	content := fmt.Sprintf("%s %s", icon, message)
	if duration != "" {
		content += "  " + DimStyle.Render(duration)
	}
	content += fmt.Sprintf("\n%s %s", DimStyle.Render("Target:"), fmt.Sprintf("%s on %s", binary, host))

	fmt.Println(style.Render(content))
}

// PrintHostStatus prints the deployment status overview for a host.
func PrintHostStatus(host string, serviceActive bool, serviceState, lastDeployment, binaryInfo string) {
	fmt.Println(TitleStyle.Render(fmt.Sprintf("Status: %s", host)))

	stateText := serviceState
	if stateText == "" {
		stateText = "unknown"
	}
	fmt.Printf("  %s %s %s\n", DimStyle.Render("Service:"), BoolIcon(serviceActive), InfoStyle.Render(stateText))

	if lastDeployment != "" {
		fmt.Printf("  %s %s\n", DimStyle.Render("Deployed:"), InfoStyle.Render(lastDeployment))
	}
	if binaryInfo != "" {
		fmt.Printf("  %s %s\n", DimStyle.Render("Binary:"), InfoStyle.Render(binaryInfo))
	}
}

// PrintHealthReport prints one monitoring sample.
func PrintHealthReport(healthOK, sshOK bool, serviceState, latency, lastError string) {
	fmt.Printf("  %s %s   %s %s   %s %s\n",
		DimStyle.Render("Health:"), BoolIcon(healthOK),
		DimStyle.Render("SSH:"), BoolIcon(sshOK),
		DimStyle.Render("Service:"), StatusIcon(serviceState)+" "+serviceState)

	if latency != "" {
		fmt.Printf("  %s %s\n", DimStyle.Render("Latency:"), InfoStyle.Render(latency))
	}
	if lastError != "" {
		fmt.Printf("  %s\n", ErrorStyle.Render(lastError))
	}
}
