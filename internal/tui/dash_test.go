package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kurosci/rzen/internal/config"
	"github.com/kurosci/rzen/internal/deploy"
	"github.com/kurosci/rzen/internal/monitor"
)

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func testModel() dashModel {
	cfg := &config.Config{
		Project: config.ProjectConfig{Name: "webapp", BuildMode: "release", Path: "."},
		Deploy: config.DeployConfig{
			Host:     "vps.example.com",
			User:     "deploy",
			Password: "pw",
			Path:     "/opt/webapp",
			SSHPort:  22,
		},
		Monitor: config.MonitorConfig{
			HealthEndpoint:    "http://vps.example.com:8080/health",
			IntervalSecs:      10,
			HealthTimeoutSecs: 5,
		},
	}
	return newDashModel(cfg, "test")
}

func TestTabCycling(t *testing.T) {
	m := testModel()
	if m.currentTab != tabBuild {
		t.Fatalf("initial tab = %d, want tabBuild", m.currentTab)
	}

	order := []tab{tabDeploy, tabMonitor, tabConfig, tabBuild}
	for _, want := range order {
		next, _ := m.Update(keyRune('l'))
		m = next.(dashModel)
		if m.currentTab != want {
			t.Fatalf("tab after l = %d, want %d", m.currentTab, want)
		}
	}

	// And back around the other way.
	next, _ := m.Update(keyRune('h'))
	m = next.(dashModel)
	if m.currentTab != tabConfig {
		t.Errorf("tab after h = %d, want tabConfig", m.currentTab)
	}
}

func TestQuitKey(t *testing.T) {
	m := testModel()
	_, cmd := m.Update(keyRune('q'))
	if cmd == nil {
		t.Fatal("expected quit command for q")
	}
	if msg := cmd(); msg == nil {
		t.Fatal("quit command produced no message")
	}
}

func TestBuildKeyGuardsDoubleSpawn(t *testing.T) {
	m := testModel()
	m.building = true
	m.buildLogs = []string{"existing"}

	next, _ := m.Update(keyRune('b'))
	m = next.(dashModel)

	// An in-flight build must not be restarted: the logs survive.
	if len(m.buildLogs) != 1 {
		t.Error("pressing b during a build reset the state")
	}
}

func TestDeployKeyGuardsDoubleSpawn(t *testing.T) {
	m := testModel()
	m.deploying = true
	m.deployLogs = []string{"existing"}

	next, _ := m.Update(keyRune('d'))
	m = next.(dashModel)

	if len(m.deployLogs) != 1 {
		t.Error("pressing d during a deploy reset the state")
	}
}

func TestBuildProgressFold(t *testing.T) {
	m := testModel()
	m.building = true

	next, cmd := m.Update(buildProgressMsg{Line: "Compiling webapp v0.1.0"})
	m = next.(dashModel)

	if len(m.buildLogs) != 1 || m.buildLogs[0] != "Compiling webapp v0.1.0" {
		t.Errorf("buildLogs = %v", m.buildLogs)
	}
	if !m.building {
		t.Error("progress message ended the build")
	}
	// The listener must be re-armed after every fold.
	if cmd == nil {
		t.Error("no listen command re-issued after a fold")
	}
}

func TestBuildDoneFold(t *testing.T) {
	m := testModel()
	m.building = true

	next, _ := m.Update(buildDoneMsg{Err: errors.New("compile error")})
	m = next.(dashModel)

	if m.building {
		t.Error("building still true after done message")
	}
	if !strings.Contains(m.statusMsg, "compile error") {
		t.Errorf("statusMsg = %q, want the build error surfaced", m.statusMsg)
	}
}

func TestDeployProgressFold(t *testing.T) {
	m := testModel()
	m.deploying = true

	next, _ := m.Update(deployProgressMsg{Event: deploy.Event{
		Step: 5, Total: 8, Percent: 62.5, Message: "Uploading binary...",
	}})
	m = next.(dashModel)

	if m.deployPercent != 62.5 {
		t.Errorf("deployPercent = %v, want 62.5", m.deployPercent)
	}
	if m.deployStep != "Uploading binary..." {
		t.Errorf("deployStep = %q", m.deployStep)
	}
	if len(m.deployLogs) != 1 {
		t.Errorf("deployLogs = %v", m.deployLogs)
	}
}

func TestDeployDoneFold(t *testing.T) {
	m := testModel()
	m.deploying = true

	result := &deploy.Result{Host: "vps.example.com", Binary: "webapp", Message: "Successfully deployed"}
	next, _ := m.Update(deployDoneMsg{Result: result})
	m = next.(dashModel)

	if m.deploying {
		t.Error("deploying still true after done message")
	}
	if m.lastResult != result {
		t.Error("lastResult not recorded")
	}
	if m.deployPercent != 100 {
		t.Errorf("deployPercent = %v, want 100", m.deployPercent)
	}
}

func TestMonitorStatusFold(t *testing.T) {
	m := testModel()
	m.monitoring = true

	status := &monitor.Status{HealthOK: true, ReachableOK: true, ServiceState: "active"}
	next, _ := m.Update(monitorStatusMsg{Status: status})
	m = next.(dashModel)

	if m.monitorStatus != status {
		t.Error("monitor snapshot not stored")
	}
	if !m.monitoring {
		t.Error("status message stopped the monitor")
	}
}

func TestMonitorStoppedFold(t *testing.T) {
	m := testModel()
	m.monitoring = true

	next, _ := m.Update(monitorStoppedMsg{})
	m = next.(dashModel)

	if m.monitoring {
		t.Error("monitoring still true after stop message")
	}
}

func TestClearStatusKey(t *testing.T) {
	m := testModel()
	m.statusMsg = "Deployment failed: timeout"

	next, _ := m.Update(keyRune('c'))
	m = next.(dashModel)

	if m.statusMsg != "" {
		t.Errorf("statusMsg = %q, want cleared", m.statusMsg)
	}
}

func TestLogBufferBounded(t *testing.T) {
	logs := []string{}
	for i := 0; i < maxLogLines+50; i++ {
		logs = appendLog(logs, "line")
	}
	if len(logs) != maxLogLines {
		t.Errorf("log buffer length = %d, want %d", len(logs), maxLogLines)
	}
}

func TestViewRendersActiveTab(t *testing.T) {
	m := testModel()

	view := m.View()
	if !strings.Contains(view, "BUILD") {
		t.Error("build tab view missing BUILD section")
	}

	m.currentTab = tabConfig
	view = m.View()
	if !strings.Contains(view, "vps.example.com") {
		t.Error("config tab view missing the deploy host")
	}
	if !strings.Contains(view, "webapp.service") {
		t.Error("config tab view missing the service name")
	}
}

func TestViewShowsMonitorStatus(t *testing.T) {
	m := testModel()
	m.currentTab = tabMonitor
	m.monitorStatus = &monitor.Status{HealthOK: true, ReachableOK: false, ServiceState: "failed"}

	view := m.View()
	if !strings.Contains(view, "failed") {
		t.Error("monitor view missing the service state")
	}
}
