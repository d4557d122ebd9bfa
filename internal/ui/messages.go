// Package ui provides message printing utilities.
package ui

import (
	"fmt"
)

// quiet suppresses non-essential output when set via the global -q flag.
var quiet bool

// SetQuietMode toggles suppression of non-essential output.
func SetQuietMode(q bool) {
	quiet = q
}

// Println prints an empty line.
func Println() {
	if quiet {
		return
	}
	fmt.Println()
}

// PrintSuccess prints a success message.
func PrintSuccess(format string, args ...interface{}) {
	if quiet {
		return
	}
	msg := fmt.Sprintf(format, args...)
	fmt.Println(SuccessStyle.Render("✓ " + msg))
}

// PrintError prints an error message. Errors are never suppressed.
func PrintError(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(ErrorStyle.Render("✗ " + msg))
}

// PrintWarning prints a warning message.
func PrintWarning(format string, args ...interface{}) {
	if quiet {
		return
	}
	msg := fmt.Sprintf(format, args...)
	fmt.Println(WarningStyle.Render("⚠ " + msg))
}

// PrintInfo prints an informational message.
func PrintInfo(format string, args ...interface{}) {
	if quiet {
		return
	}
	msg := fmt.Sprintf(format, args...)
	fmt.Println(InfoStyle.Render(msg))
}

// PrintDim prints a dimmed message.
func PrintDim(format string, args ...interface{}) {
	if quiet {
		return
	}
	msg := fmt.Sprintf(format, args...)
	fmt.Println(DimStyle.Render(msg))
}

// StatusIcon returns a styled icon for a systemd-ish state string.
func StatusIcon(state string) string {
	switch state {
	case "active":
		return SuccessStyle.Render("✓")
	case "failed":
		return ErrorStyle.Render("✗")
	case "inactive":
		return WarningStyle.Render("⊘")
	default:
		return DimStyle.Render("·")
	}
}

// BoolIcon renders an ok/fail indicator.
func BoolIcon(ok bool) string {
	if ok {
		return SuccessStyle.Render("✓ OK")
	}
	return ErrorStyle.Render("✗ FAIL")
}

// clearLine erases the current terminal line for in-place updates.
func clearLine() {
	fmt.Print("\r\033[K")
}
