package steps

import (
	"errors"
	"testing"

	"github.com/MikeSquared-Agency/sommelier/internal/preferences"
)

func fullRecord() preferences.Record {
	return preferences.Record{
		Timing:          "next month",
		GroupSize:       "couple",
		WinePreferences: "red",
		Vibe:            "relaxed",
		Reservations:    "needs_booking",
		Transportation:  "driver",
		Addons:          "food",
	}
}

func TestDefault_Order(t *testing.T) {
	want := []string{"timing", "group", "wine", "vibe", "reservations", "transportation", "addons"}
	defs := Default()
	if len(defs) != len(want) {
		t.Fatalf("expected %d steps, got %d", len(want), len(defs))
	}
	for i, d := range defs {
		if d.ID != want[i] {
			t.Errorf("step %d: expected %q, got %q", i, want[i], d.ID)
		}
		if d.Title == "" {
			t.Errorf("step %q has no title", d.ID)
		}
	}
}

func TestNewTracker_Empty(t *testing.T) {
	_, err := NewTracker(nil)
	if !errors.Is(err, ErrNoSteps) {
		t.Errorf("expected ErrNoSteps, got %v", err)
	}
}

func TestCurrent_FirstIncomplete(t *testing.T) {
	tests := []struct {
		name string
		rec  preferences.Record
		want int
	}{
		{"empty", preferences.Record{}, 0},
		{"timing only", preferences.Record{Timing: "tomorrow"}, 1},
		{"gap in the middle", preferences.Record{Timing: "tomorrow", WinePreferences: "red"}, 1},
		{"first three", preferences.Record{Timing: "tomorrow", GroupSize: "solo", WinePreferences: "red"}, 3},
		{"all but addons", func() preferences.Record { r := fullRecord(); r.Addons = ""; return r }(), 6},
	}

	tr := NewDefaultTracker()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, rec := tr.Current(tt.rec)
			if got != tt.want {
				t.Errorf("Current() = %d, want %d", got, tt.want)
			}
			if rec.CompletedAllSteps {
				t.Error("expected CompletedAllSteps false for an incomplete record")
			}
		})
	}
}

func TestCurrent_AllCompleteSetsFlag(t *testing.T) {
	tr := NewDefaultTracker()
	in := fullRecord()

	idx, out := tr.Current(in)

	if idx != tr.Last() {
		t.Errorf("expected last index %d, got %d", tr.Last(), idx)
	}
	if !out.CompletedAllSteps {
		t.Error("expected CompletedAllSteps to be set")
	}
	if in.CompletedAllSteps {
		t.Error("input record should not be modified")
	}
}

func TestCurrent_LockedReportsLastStep(t *testing.T) {
	tr := NewDefaultTracker()
	tests := []struct {
		name string
		rec  preferences.Record
	}{
		{"triggered with empty slots", preferences.Record{ItineraryTriggered: true}},
		{"generated with empty slots", preferences.Record{ItineraryGenerated: true}},
		{"triggered via fast path", preferences.Record{Timing: "today", GroupSize: "solo", WinePreferences: "white", ItineraryTriggered: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tr.State(tt.rec) != StateLocked {
				t.Errorf("expected locked state")
			}
			idx, out := tr.Current(tt.rec)
			if idx != tr.Last() {
				t.Errorf("expected last index %d, got %d", tr.Last(), idx)
			}
			if out.CompletedAllSteps {
				t.Error("lock must not mark steps completed")
			}
		})
	}
}

func TestState_InProgress(t *testing.T) {
	if NewDefaultTracker().State(fullRecord()) != StateInProgress {
		t.Error("expected in_progress for an untriggered record")
	}
}

func TestAllComplete(t *testing.T) {
	tr := NewDefaultTracker()
	if !tr.AllComplete(fullRecord()) {
		t.Error("expected full record to be complete")
	}
	if tr.AllComplete(preferences.Record{ItineraryTriggered: true}) {
		t.Error("AllComplete must ignore the lock")
	}
}

func TestDefinitions_ReturnsCopy(t *testing.T) {
	tr := NewDefaultTracker()
	defs := tr.Definitions()
	defs[0].ID = "modified"

	if tr.Step(0).ID != "timing" {
		t.Errorf("Definitions should return a copy, got %q", tr.Step(0).ID)
	}
}
