package trigger

import (
	"testing"

	"github.com/MikeSquared-Agency/sommelier/internal/preferences"
	"github.com/MikeSquared-Agency/sommelier/internal/steps"
)

func newDecider() *Decider {
	return New(steps.NewDefaultTracker())
}

func completeRecord() preferences.Record {
	return preferences.Record{
		Timing:          "october 12th",
		GroupSize:       "small_group",
		WinePreferences: "red,bold",
		Vibe:            "celebration",
		Reservations:    "walk_in",
		Transportation:  "tour",
		Addons:          "food",
	}
}

func TestDecide_FastPath(t *testing.T) {
	rec := preferences.Record{
		Timing:          "this weekend",
		GroupSize:       "couple",
		WinePreferences: "red,dry",
	}

	got := newDecider().Decide(rec)

	if !got.Trigger || got.Path != PathFast {
		t.Errorf("expected fast-path trigger, got %+v", got)
	}
}

func TestDecide_FastPathRequiresAllThree(t *testing.T) {
	tests := []struct {
		name string
		rec  preferences.Record
	}{
		{"no urgency", preferences.Record{Timing: "next month", GroupSize: "couple", WinePreferences: "red"}},
		{"no timing", preferences.Record{GroupSize: "couple", WinePreferences: "red"}},
		{"no group", preferences.Record{Timing: "tomorrow", WinePreferences: "red"}},
		{"no wine", preferences.Record{Timing: "today", GroupSize: "couple"}},
	}

	d := newDecider()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if d.ShouldTrigger(tt.rec) {
				t.Errorf("expected no trigger for %+v", tt.rec)
			}
		})
	}
}

func TestDecide_FullPathThenSingleFire(t *testing.T) {
	d := newDecider()
	rec := completeRecord()

	got := d.Decide(rec)
	if !got.Trigger || got.Path != PathFull {
		t.Fatalf("expected full-path trigger, got %+v", got)
	}

	rec = MarkTriggered(rec)
	if d.ShouldTrigger(rec) {
		t.Error("expected no trigger once itinerary_triggered is set")
	}
}

func TestDecide_SingleFireAcrossRecords(t *testing.T) {
	d := newDecider()
	records := []preferences.Record{
		{},
		{Timing: "tomorrow", GroupSize: "solo", WinePreferences: "white"},
		completeRecord(),
		{ItineraryGenerated: true},
	}

	for _, rec := range records {
		if d.ShouldTrigger(rec) {
			if d.ShouldTrigger(MarkTriggered(rec)) {
				t.Errorf("trigger fired twice for %+v", rec)
			}
		}
	}
}

func TestDecide_AlreadyTriggered(t *testing.T) {
	rec := MarkTriggered(completeRecord())
	got := newDecider().Decide(rec)
	if got.Trigger || got.Path != PathNone {
		t.Errorf("expected empty decision, got %+v", got)
	}
}

func TestDecide_DoesNotMemoize(t *testing.T) {
	d := newDecider()
	rec := completeRecord()

	for i := 0; i < 3; i++ {
		if !d.ShouldTrigger(rec) {
			t.Fatalf("call %d: expected trigger while the caller has not marked the record", i)
		}
	}
}

func TestWithUrgencyMarkers(t *testing.T) {
	rec := preferences.Record{Timing: "tonight", GroupSize: "couple", WinePreferences: "rose"}

	if newDecider().ShouldTrigger(rec) {
		t.Error("tonight is not a default urgency marker")
	}
	if !newDecider().WithUrgencyMarkers([]string{"tonight"}).ShouldTrigger(rec) {
		t.Error("expected custom marker to enable the fast path")
	}
}

func TestMarkTriggered_ReturnsCopy(t *testing.T) {
	rec := preferences.Record{}
	out := MarkTriggered(rec)
	if rec.ItineraryTriggered {
		t.Error("MarkTriggered must not modify its argument")
	}
	if !out.ItineraryTriggered {
		t.Error("expected returned record to be triggered")
	}
}
