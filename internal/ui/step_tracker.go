// Package ui provides terminal UI components using Charm libraries.
package ui

import (
	"fmt"
	"sync"
)

// StepTracker displays multi-stage progress as a growing list of completed
// steps with the current step updating in place. It is safe for use from a
// progress callback running on another goroutine.
type StepTracker struct {
	// completedSteps stores the descriptions of completed steps in order.
	completedSteps []string

	// lastStep is the previously reported step index.
	lastStep int

	// lastMessage is the previously reported step description.
	lastMessage string

	// mu protects concurrent access to tracker state.
	mu sync.Mutex
}

// NewStepTracker creates a new step tracker.
func NewStepTracker() *StepTracker {
	return &StepTracker{}
}

// Update processes a stage notification. When the step index advances, the
// prior step is printed as completed; the new step renders as an in-place
// status line.
//
// Parameters:
//   - step: 1-based stage index
//   - total: total stage count
//   - message: description of the stage about to run
func (t *StepTracker) Update(step, total int, message string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if step > t.lastStep && t.lastMessage != "" {
		t.completedSteps = append(t.completedSteps, t.lastMessage)
		if !quiet {
			clearLine()
			fmt.Println(SuccessStyle.Render("✓ " + t.lastMessage))
		}
	}
	t.lastStep = step
	t.lastMessage = message

	if !quiet {
		clearLine()
		fmt.Print(RunningStyle.Render("▶ ") + message +
			DimStyle.Render(fmt.Sprintf(" [%d/%d]", step, total)))
	}
}

// Finish marks the final step complete and clears the status line.
func (t *StepTracker) Finish(success bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.lastMessage == "" {
		return
	}
	if !quiet {
		clearLine()
		if success {
			fmt.Println(SuccessStyle.Render("✓ " + t.lastMessage))
		}
	}
	t.lastMessage = ""
}

// CompletedSteps returns a copy of the completed step descriptions.
func (t *StepTracker) CompletedSteps() []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]string, len(t.completedSteps))
	copy(out, t.completedSteps)
	return out
}
