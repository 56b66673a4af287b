package steps

import (
	"errors"

	"github.com/MikeSquared-Agency/sommelier/internal/preferences"
	"github.com/samber/lo"
)

// ErrNoSteps is returned when a tracker is built without definitions.
var ErrNoSteps = errors.New("steps: definition list is empty")

// Definition is one phase of the information-gathering conversation.
type Definition struct {
	ID       string                        `json:"id"`
	Title    string                        `json:"title"`
	Complete func(preferences.Record) bool `json:"-"`
}

// State is the visible progress state of a session.
type State string

const (
	StateInProgress State = "in_progress"
	StateLocked     State = "locked"
)

func slotFilled(s preferences.Slot) func(preferences.Record) bool {
	return func(r preferences.Record) bool { return r.IsSet(s) }
}

// Default returns the seven conversation steps in order.
func Default() []Definition {
	return []Definition{
		{ID: "timing", Title: "When are you visiting?", Complete: slotFilled(preferences.SlotTiming)},
		{ID: "group", Title: "Who's coming along?", Complete: slotFilled(preferences.SlotGroupSize)},
		{ID: "wine", Title: "What do you like to drink?", Complete: slotFilled(preferences.SlotWinePreferences)},
		{ID: "vibe", Title: "What kind of day are you after?", Complete: slotFilled(preferences.SlotVibe)},
		{ID: "reservations", Title: "Do you have reservations?", Complete: slotFilled(preferences.SlotReservations)},
		{ID: "transportation", Title: "How are you getting around?", Complete: slotFilled(preferences.SlotTransportation)},
		{ID: "addons", Title: "Anything beyond tastings?", Complete: slotFilled(preferences.SlotAddons)},
	}
}

// Tracker derives the current conversation step from a preference record.
type Tracker struct {
	defs []Definition
}

// NewTracker returns a tracker over defs, evaluated in order.
func NewTracker(defs []Definition) (*Tracker, error) {
	if len(defs) == 0 {
		return nil, ErrNoSteps
	}
	out := make([]Definition, len(defs))
	copy(out, defs)
	return &Tracker{defs: out}, nil
}

// NewDefaultTracker returns a tracker over Default.
func NewDefaultTracker() *Tracker {
	t, _ := NewTracker(Default())
	return t
}

// Definitions returns a copy of the step list.
func (t *Tracker) Definitions() []Definition {
	out := make([]Definition, len(t.defs))
	copy(out, t.defs)
	return out
}

// Last returns the index of the final step.
func (t *Tracker) Last() int {
	return len(t.defs) - 1
}

// Step returns the definition at index i.
func (t *Tracker) Step(i int) Definition {
	return t.defs[i]
}

// State reports whether progress is frozen. Once a plan has been triggered or
// generated the session stays Locked.
func (t *Tracker) State(rec preferences.Record) State {
	if rec.ItineraryTriggered || rec.ItineraryGenerated {
		return StateLocked
	}
	return StateInProgress
}

// Current returns the index of the first incomplete step together with the
// resulting record. A Locked record always reports the last step, whatever
// its slots hold. When every step is complete the returned record has
// CompletedAllSteps set.
func (t *Tracker) Current(rec preferences.Record) (int, preferences.Record) {
	if t.State(rec) == StateLocked {
		return t.Last(), rec
	}
	for i, d := range t.defs {
		if !d.Complete(rec) {
			return i, rec
		}
	}
	rec.CompletedAllSteps = true
	return t.Last(), rec
}

// AllComplete reports whether every step predicate holds, ignoring the lock.
func (t *Tracker) AllComplete(rec preferences.Record) bool {
	return lo.EveryBy(t.defs, func(d Definition) bool { return d.Complete(rec) })
}
