package service

import (
	"errors"
	"strings"
	"testing"
)

// fakeRunner records every command and answers from a canned script.
type fakeRunner struct {
	commands []string

	// stateOutput is returned for `systemctl is-active` commands.
	stateOutput string

	// failPrefix makes any command starting with it return an error.
	failPrefix string
}

func (f *fakeRunner) Run(command string) (string, string, error) {
	f.commands = append(f.commands, command)
	if f.failPrefix != "" && strings.HasPrefix(command, f.failPrefix) {
		return "", "boom", errors.New("command failed")
	}
	if strings.Contains(command, "is-active") {
		return f.stateOutput + "\n", "", nil
	}
	return "", "", nil
}

func (f *fakeRunner) ran(prefix string) bool {
	for _, c := range f.commands {
		if strings.HasPrefix(c, prefix) {
			return true
		}
	}
	return false
}

func TestInstallSequence(t *testing.T) {
	runner := &fakeRunner{stateOutput: "active"}
	m := NewManager(runner)

	if err := m.Install(testUnit()); err != nil {
		t.Fatalf("Install() failed: %v", err)
	}

	if len(runner.commands) != 3 {
		t.Fatalf("command count = %d, want 3", len(runner.commands))
	}
	if !strings.HasPrefix(runner.commands[0], "cat > /tmp/webapp.service") {
		t.Errorf("first command = %q, want unit staged under /tmp", runner.commands[0])
	}
	if !strings.Contains(runner.commands[0], "ExecStart=/opt/webapp/webapp") {
		t.Error("staged unit content missing ExecStart")
	}
	if runner.commands[1] != "sudo mv /tmp/webapp.service /etc/systemd/system/" {
		t.Errorf("second command = %q", runner.commands[1])
	}
	if runner.commands[2] != "sudo systemctl daemon-reload" {
		t.Errorf("third command = %q", runner.commands[2])
	}
}

func TestInstallStagingFailure(t *testing.T) {
	runner := &fakeRunner{failPrefix: "cat >"}
	m := NewManager(runner)

	if err := m.Install(testUnit()); err == nil {
		t.Fatal("Install() succeeded despite staging failure")
	}
	if runner.ran("sudo mv") {
		t.Error("Install() continued past a failed staging step")
	}
}

func TestStartVerifiesActive(t *testing.T) {
	runner := &fakeRunner{stateOutput: "active"}
	m := NewManager(runner)

	if err := m.Start("webapp.service"); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	for _, want := range []string{
		"sudo systemctl stop webapp.service",
		"sudo systemctl enable webapp.service",
		"sudo systemctl start webapp.service",
		"sudo systemctl is-active webapp.service",
	} {
		if !runner.ran(want) {
			t.Errorf("Start() never ran %q", want)
		}
	}
}

func TestStartRejectsNonActiveStates(t *testing.T) {
	// Anything but exactly "active" is a failed start, including
	// "activating": the service must already be up when we check.
	for _, state := range []string{"activating", "inactive", "failed", ""} {
		t.Run("state "+state, func(t *testing.T) {
			runner := &fakeRunner{stateOutput: state}
			m := NewManager(runner)

			err := m.Start("webapp.service")
			var startErr *StartError
			if !errors.As(err, &startErr) {
				t.Fatalf("Start() error = %v, want *StartError", err)
			}
			if startErr.Name != "webapp.service" {
				t.Errorf("Name = %q, want %q", startErr.Name, "webapp.service")
			}
		})
	}
}

func TestStartIgnoresStopFailure(t *testing.T) {
	runner := &fakeRunner{stateOutput: "active", failPrefix: "sudo systemctl stop"}
	m := NewManager(runner)

	if err := m.Start("webapp.service"); err != nil {
		t.Fatalf("Start() failed on a stop error: %v", err)
	}
}

func TestStartEnableFailure(t *testing.T) {
	runner := &fakeRunner{stateOutput: "active", failPrefix: "sudo systemctl enable"}
	m := NewManager(runner)

	if err := m.Start("webapp.service"); err == nil {
		t.Fatal("Start() succeeded despite enable failure")
	}
	if runner.ran("sudo systemctl start webapp") {
		t.Error("Start() continued past a failed enable")
	}
}

func TestState(t *testing.T) {
	tests := []struct {
		output string
		want   string
	}{
		{output: "active", want: "active"},
		{output: "inactive", want: "inactive"},
		{output: "failed", want: "failed"},
		{output: "", want: "unknown"},
	}
	for _, tt := range tests {
		runner := &fakeRunner{stateOutput: tt.output}
		if got := NewManager(runner).State("webapp.service"); got != tt.want {
			t.Errorf("State() with output %q = %q, want %q", tt.output, got, tt.want)
		}
	}
}
