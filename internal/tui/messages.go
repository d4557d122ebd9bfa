package tui

import (
	"github.com/kurosci/rzen/internal/build"
	"github.com/kurosci/rzen/internal/deploy"
	"github.com/kurosci/rzen/internal/monitor"
)

// Background task messages form a closed set: one case per operation and
// outcome. Tasks never touch model state directly; everything flows through
// these messages on a single ordered channel, and the update loop folds at
// most one per frame.

// buildProgressMsg reports a line of build output.
type buildProgressMsg struct {
	Line string
}

// buildDoneMsg reports build completion with the artifact info or an error.
type buildDoneMsg struct {
	Info build.Info
	Err  error
}

// deployProgressMsg reports a pipeline stage about to run.
type deployProgressMsg struct {
	Event deploy.Event
}

// deployDoneMsg reports deployment completion.
type deployDoneMsg struct {
	Result *deploy.Result
	Err    error
}

// monitorStatusMsg carries a fresh status snapshot.
type monitorStatusMsg struct {
	Status *monitor.Status
}

// monitorStoppedMsg reports the monitor loop ending.
type monitorStoppedMsg struct {
	Err error
}
