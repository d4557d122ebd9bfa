package ui

import "testing"

func TestStepTrackerRecordsCompletedSteps(t *testing.T) {
	SetQuietMode(true)
	defer SetQuietMode(false)

	tr := NewStepTracker()
	tr.Update(1, 3, "Validating binary")
	tr.Update(2, 3, "Connecting")
	tr.Update(3, 3, "Uploading")
	tr.Finish(true)

	got := tr.CompletedSteps()
	want := []string{"Validating binary", "Connecting"}
	if len(got) != len(want) {
		t.Fatalf("completed steps = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("completed[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestStepTrackerRepeatedStepNotDuplicated(t *testing.T) {
	SetQuietMode(true)
	defer SetQuietMode(false)

	tr := NewStepTracker()
	tr.Update(1, 2, "Connecting")
	tr.Update(1, 2, "Connecting (retry)")
	tr.Update(2, 2, "Uploading")

	got := tr.CompletedSteps()
	if len(got) != 1 {
		t.Fatalf("completed steps = %v, want exactly one", got)
	}
	if got[0] != "Connecting (retry)" {
		t.Errorf("completed[0] = %q, want the latest message for the step", got[0])
	}
}

func TestStepTrackerCompletedStepsReturnsCopy(t *testing.T) {
	SetQuietMode(true)
	defer SetQuietMode(false)

	tr := NewStepTracker()
	tr.Update(1, 2, "Connecting")
	tr.Update(2, 2, "Uploading")

	first := tr.CompletedSteps()
	first[0] = "mutated"
	if got := tr.CompletedSteps(); got[0] != "Connecting" {
		t.Errorf("internal state leaked: completed[0] = %q", got[0])
	}
}
