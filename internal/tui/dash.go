package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kurosci/rzen/internal/build"
	"github.com/kurosci/rzen/internal/config"
	"github.com/kurosci/rzen/internal/deploy"
	"github.com/kurosci/rzen/internal/monitor"
)

// maxLogLines bounds the per-tab log buffers.
const maxLogLines = 200

// tab identifies a dashboard screen.
type tab int

const (
	tabBuild tab = iota
	tabDeploy
	tabMonitor
	tabConfig
)

var tabTitles = []string{"Build", "Deploy", "Monitor", "Config"}

func (t tab) next() tab { return (t + 1) % tab(len(tabTitles)) }
func (t tab) prev() tab { return (t + tab(len(tabTitles)) - 1) % tab(len(tabTitles)) }

// dashModel is the top-level Bubble Tea model for the rzen dashboard.
//
// The model is the single owner of all UI state. Background tasks (build,
// deploy, monitor) run in their own goroutines and communicate exclusively
// through msgCh; the update loop folds exactly one inbound message per
// frame, so messages from one task are applied in the order sent.
type dashModel struct {
	cfg     *config.Config
	version string

	currentTab tab
	width      int
	height     int
	spinner    spinner.Model
	statusMsg  string

	// msgCh carries messages from background tasks into Update.
	msgCh chan tea.Msg

	// Build tab
	building  bool
	buildLogs []string
	buildInfo *build.Info

	// Deploy tab
	deploying     bool
	deployPercent float64
	deployStep    string
	deployLogs    []string
	lastResult    *deploy.Result

	// Monitor tab
	monitoring    bool
	monitorCancel context.CancelFunc
	monitorStatus *monitor.Status
}

// newDashModel creates the initial dashboard model.
func newDashModel(cfg *config.Config, version string) dashModel {
	return dashModel{
		cfg:        cfg,
		version:    version,
		currentTab: tabBuild,
		spinner:    newSpinner(),
		deployStep: "Ready",
		msgCh:      make(chan tea.Msg, 64),
	}
}

// listen receives the next background message. Re-issued after every fold,
// which is what limits the drain rate to one message per frame.
func listen(ch chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-ch
	}
}

// Init starts the spinner and the message listener.
func (m dashModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, listen(m.msgCh))
}

// Update handles key events and folds background messages into the model.
func (m dashModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case buildProgressMsg:
		m.buildLogs = appendLog(m.buildLogs, msg.Line)
		return m, listen(m.msgCh)

	case buildDoneMsg:
		m.building = false
		if msg.Err != nil {
			m.statusMsg = "Build failed: " + msg.Err.Error()
		} else {
			info := msg.Info
			m.buildInfo = &info
			m.statusMsg = "Build completed successfully"
		}
		return m, listen(m.msgCh)

	case deployProgressMsg:
		m.deployPercent = msg.Event.Percent
		m.deployStep = msg.Event.Message
		m.deployLogs = appendLog(m.deployLogs,
			fmt.Sprintf("Step %d/%d: %s", msg.Event.Step, msg.Event.Total, msg.Event.Message))
		return m, listen(m.msgCh)

	case deployDoneMsg:
		m.deploying = false
		m.deployPercent = 100
		if msg.Err != nil {
			m.deployStep = "Failed"
			m.statusMsg = "Deployment failed: " + msg.Err.Error()
		} else {
			m.deployStep = "Done"
			m.lastResult = msg.Result
			m.statusMsg = msg.Result.Message
		}
		return m, listen(m.msgCh)

	case monitorStatusMsg:
		m.monitorStatus = msg.Status
		return m, listen(m.msgCh)

	case monitorStoppedMsg:
		m.monitoring = false
		m.monitorCancel = nil
		if msg.Err != nil && msg.Err != context.Canceled {
			m.statusMsg = "Monitoring stopped: " + msg.Err.Error()
		}
		return m, listen(m.msgCh)
	}

	return m, nil
}

// handleKey dispatches dashboard key events.
func (m dashModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		// In-flight build/deploy tasks have no cancellation handle and run
		// to completion detached; the monitor loop is ours to stop.
		if m.monitorCancel != nil {
			m.monitorCancel()
		}
		return m, tea.Quit

	case "tab", "right", "l":
		m.currentTab = m.currentTab.next()
		return m, nil

	case "shift+tab", "left", "h":
		m.currentTab = m.currentTab.prev()
		return m, nil

	case "b":
		return m.startBuild()

	case "d":
		return m.startDeploy()

	case "m":
		return m.toggleMonitor()

	case "c":
		m.statusMsg = ""
		return m, nil
	}

	return m, nil
}

// --- Background task launchers ---

// startBuild spawns the build task unless one is already running.
func (m dashModel) startBuild() (tea.Model, tea.Cmd) {
	if m.building {
		return m, nil
	}
	m.building = true
	m.buildLogs = nil
	m.statusMsg = ""

	cfg := m.cfg
	ch := m.msgCh
	go func() {
		projectPath, err := cfg.ProjectPath()
		if err != nil {
			ch <- buildDoneMsg{Err: err}
			return
		}

		runner := build.NewRunner(projectPath)
		cmd := build.Command(cfg.Project.BuildCommand, cfg.BinaryName(), cfg.Project.BuildMode)
		err = runner.Run(cmd, func(line string) {
			ch <- buildProgressMsg{Line: line}
		})
		info := build.GetInfo(projectPath, cfg.BinaryName(), cfg.Project.BuildMode)
		ch <- buildDoneMsg{Info: info, Err: err}
	}()

	return m, nil
}

// startDeploy spawns the deploy task unless one is already running.
func (m dashModel) startDeploy() (tea.Model, tea.Cmd) {
	if m.deploying {
		return m, nil
	}
	m.deploying = true
	m.deployPercent = 0
	m.deployLogs = nil
	m.statusMsg = ""

	cfg := m.cfg
	ch := m.msgCh
	go func() {
		projectPath, err := cfg.ProjectPath()
		if err != nil {
			ch <- deployDoneMsg{Err: err}
			return
		}
		binaryPath, err := build.FindBinary(projectPath, cfg.BinaryName(), cfg.Project.BuildMode)
		if err != nil {
			ch <- deployDoneMsg{Err: err}
			return
		}
		desc, err := deploy.NewDescriptor(cfg, binaryPath)
		if err != nil {
			ch <- deployDoneMsg{Err: err}
			return
		}

		result, err := deploy.NewPipeline(cfg).Deploy(context.Background(), desc,
			deploy.Options{SkipBuild: true}, func(ev deploy.Event) {
				ch <- deployProgressMsg{Event: ev}
			})
		ch <- deployDoneMsg{Result: result, Err: err}
	}()

	return m, nil
}

// toggleMonitor starts continuous monitoring, or stops a running loop.
func (m dashModel) toggleMonitor() (tea.Model, tea.Cmd) {
	if m.monitoring {
		if m.monitorCancel != nil {
			m.monitorCancel()
		}
		return m, nil
	}

	m.monitoring = true
	m.statusMsg = ""

	ctx, cancel := context.WithCancel(context.Background())
	m.monitorCancel = cancel

	cfg := m.cfg
	ch := m.msgCh
	go func() {
		checker := monitor.NewChecker(cfg)
		interval := time.Duration(cfg.Monitor.IntervalSecs) * time.Second
		err := checker.Run(ctx, 0, interval, func(s *monitor.Status) {
			ch <- monitorStatusMsg{Status: s}
		})
		ch <- monitorStoppedMsg{Err: err}
	}()

	return m, nil
}

// appendLog appends a line, trimming the buffer to maxLogLines.
func appendLog(logs []string, line string) []string {
	logs = append(logs, line)
	if len(logs) > maxLogLines {
		logs = logs[len(logs)-maxLogLines:]
	}
	return logs
}

// --- View rendering ---

// View renders the active tab.
func (m dashModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(" RZEN") + "  " + dimStyle.Render("v"+m.version) + "\n")
	b.WriteString(m.renderTabs() + "\n")
	b.WriteString(separator(m.sepWidth()) + "\n")

	switch m.currentTab {
	case tabBuild:
		b.WriteString(m.renderBuild())
	case tabDeploy:
		b.WriteString(m.renderDeploy())
	case tabMonitor:
		b.WriteString(m.renderMonitor())
	case tabConfig:
		b.WriteString(m.renderConfig())
	}

	if m.statusMsg != "" {
		b.WriteString("\n  " + warningStyle.Render(m.statusMsg) + "\n")
	}

	b.WriteString("\n" + separator(m.sepWidth()) + "\n")
	keys := []string{
		helpKeyRender("tab", "switch"),
		helpKeyRender("b", "build"),
		helpKeyRender("d", "deploy"),
		helpKeyRender("m", "monitor"),
		helpKeyRender("c", "clear"),
		helpKeyRender("q", "quit"),
	}
	b.WriteString("  " + strings.Join(keys, "  ") + "\n")
	return b.String()
}

func (m dashModel) sepWidth() int {
	w := m.width
	if w == 0 {
		w = 80
	}
	if w > 60 {
		w = 60
	}
	return w
}

func separator(w int) string {
	return dimStyle.Render(strings.Repeat("─", w))
}

// renderTabs renders the tab bar.
func (m dashModel) renderTabs() string {
	var parts []string
	for i, title := range tabTitles {
		if tab(i) == m.currentTab {
			parts = append(parts, activeTabStyle.Render(title))
		} else {
			parts = append(parts, tabStyle.Render(title))
		}
	}
	return "  " + strings.Join(parts, dimStyle.Render("  │  "))
}

// renderBuild renders the build tab body.
func (m dashModel) renderBuild() string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("  BUILD") + "\n")

	if m.building {
		b.WriteString("  " + m.spinner.View() + " Building...\n")
	} else if m.buildInfo != nil {
		if m.buildInfo.BinaryExists {
			b.WriteString(fmt.Sprintf("  %s %s (%s, %s)\n",
				successStyle.Render("✓"), normalStyle.Render(m.buildInfo.Name),
				m.buildInfo.Mode, m.buildInfo.FormatSize()))
		} else {
			b.WriteString("  " + errorStyle.Render("✗ no artifact") + "\n")
		}
	} else {
		b.WriteString(dimStyle.Render("  Press b to build\n"))
	}

	b.WriteString(m.renderLogTail(m.buildLogs))
	return b.String()
}

// renderDeploy renders the deploy tab body.
func (m dashModel) renderDeploy() string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("  DEPLOY") + "  " +
		dimStyle.Render(m.cfg.Deploy.User+"@"+m.cfg.Deploy.Host) + "\n")

	if m.deploying {
		b.WriteString("  " + m.spinner.View() + " " + m.deployStep + "\n")
	} else {
		b.WriteString("  " + normalStyle.Render(m.deployStep) + "\n")
	}
	b.WriteString("  " + renderBar(m.deployPercent, 40) + "\n")

	if m.lastResult != nil && !m.deploying {
		b.WriteString(fmt.Sprintf("  %s deployed %s in %s\n",
			successStyle.Render("✓"), m.lastResult.Binary,
			m.lastResult.Duration.Round(time.Millisecond)))
	}

	b.WriteString(m.renderLogTail(m.deployLogs))
	return b.String()
}

// renderMonitor renders the monitor tab body.
func (m dashModel) renderMonitor() string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("  MONITOR") + "\n")

	if !m.monitoring && m.monitorStatus == nil {
		b.WriteString(dimStyle.Render("  Press m to start monitoring\n"))
		return b.String()
	}
	if m.monitoring {
		b.WriteString("  " + m.spinner.View() + " watching, every " +
			fmt.Sprintf("%ds", m.cfg.Monitor.IntervalSecs) + "\n")
	}

	if s := m.monitorStatus; s != nil {
		b.WriteString("  Health:   " + okIcon(s.HealthOK) + "\n")
		b.WriteString("  SSH:      " + okIcon(s.ReachableOK) + "\n")
		state := s.ServiceState
		if state == "" {
			state = "unknown"
		}
		b.WriteString("  Service:  " + normalStyle.Render(state) + "\n")
		if s.ResponseTime > 0 {
			b.WriteString("  Latency:  " + normalStyle.Render(s.ResponseTime.Round(time.Millisecond).String()) + "\n")
		}
		if s.LastError != "" {
			b.WriteString("  " + errorStyle.Render(s.LastError) + "\n")
		}
		b.WriteString("\n  " + dimStyle.Render(s.Summary()) + "\n")
	}
	return b.String()
}

// renderConfig renders the config summary tab.
func (m dashModel) renderConfig() string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("  CONFIG") + "\n")
	rows := [][2]string{
		{"Project", m.cfg.Project.Name},
		{"Mode", m.cfg.Project.BuildMode},
		{"Host", fmt.Sprintf("%s:%d", m.cfg.Deploy.Host, m.cfg.Deploy.SSHPort)},
		{"User", m.cfg.Deploy.User},
		{"Path", m.cfg.Deploy.Path},
		{"Service", m.cfg.ServiceName()},
		{"Health", m.cfg.Monitor.HealthEndpoint},
		{"Log", m.cfg.Monitor.LogPath},
	}
	for _, row := range rows {
		val := row[1]
		if val == "" {
			val = dimStyle.Render("(not set)")
		} else {
			val = normalStyle.Render(val)
		}
		b.WriteString(fmt.Sprintf("  %-10s %s\n", dimStyle.Render(row[0]), val))
	}
	return b.String()
}

// renderLogTail renders the last few log lines for the active operation.
func (m dashModel) renderLogTail(logs []string) string {
	if len(logs) == 0 {
		return ""
	}
	visible := m.height - 14
	if visible < 5 {
		visible = 5
	}
	start := 0
	if len(logs) > visible {
		start = len(logs) - visible
	}

	var b strings.Builder
	b.WriteString(sectionStyle.Render("  OUTPUT") + "\n")
	for _, line := range logs[start:] {
		b.WriteString("  " + dimStyle.Render(line) + "\n")
	}
	return b.String()
}

// renderBar draws a fixed-width progress bar.
func renderBar(percent float64, width int) string {
	filled := int(percent / 100 * float64(width))
	if filled > width {
		filled = width
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return lipgloss.NewStyle().Foreground(teal).Render(bar) +
		dimStyle.Render(fmt.Sprintf(" %3.0f%%", percent))
}

func okIcon(ok bool) string {
	if ok {
		return successStyle.Render("✓ OK")
	}
	return errorStyle.Render("✗ FAIL")
}

// Run launches the dashboard and blocks until the user quits.
func Run(cfg *config.Config, version string) error {
	p := tea.NewProgram(newDashModel(cfg, version), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
