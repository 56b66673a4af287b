package trigger

import (
	"strings"

	"github.com/MikeSquared-Agency/sommelier/internal/preferences"
	"github.com/MikeSquared-Agency/sommelier/internal/steps"
	"github.com/samber/lo"
)

// Path names the rule that produced a positive decision.
type Path string

const (
	PathNone Path = ""
	PathFast Path = "fast"
	PathFull Path = "full"
)

// DefaultUrgencyMarkers are the timing phrases that enable the fast path.
var DefaultUrgencyMarkers = []string{"today", "tomorrow", "this weekend"}

// Decision is the outcome of evaluating a record.
type Decision struct {
	Trigger bool `json:"trigger"`
	Path    Path `json:"path,omitempty"`
}

// Decider decides, once per session lineage, whether enough signal exists to
// produce a plan. It does not remember past decisions: after a positive
// decision the caller must apply MarkTriggered and persist the record.
type Decider struct {
	tracker *steps.Tracker
	urgency []string
}

// New returns a Decider using tracker for the full path and
// DefaultUrgencyMarkers for the fast path.
func New(tracker *steps.Tracker) *Decider {
	return &Decider{tracker: tracker, urgency: DefaultUrgencyMarkers}
}

// WithUrgencyMarkers returns a copy of d using markers for the fast path.
func (d *Decider) WithUrgencyMarkers(markers []string) *Decider {
	return &Decider{tracker: d.tracker, urgency: append([]string(nil), markers...)}
}

// ShouldTrigger reports whether a plan should be produced for rec.
func (d *Decider) ShouldTrigger(rec preferences.Record) bool {
	return d.Decide(rec).Trigger
}

// Decide evaluates rec. An already triggered record never triggers again.
// The fast path fires on urgent timing plus group size and wine
// preferences, whatever the remaining steps hold. The full path fires when
// every step is complete.
func (d *Decider) Decide(rec preferences.Record) Decision {
	if rec.ItineraryTriggered {
		return Decision{}
	}
	if d.urgent(rec.Timing) && rec.GroupSize != "" && rec.WinePreferences != "" {
		return Decision{Trigger: true, Path: PathFast}
	}
	if d.tracker.AllComplete(rec) {
		return Decision{Trigger: true, Path: PathFull}
	}
	return Decision{}
}

func (d *Decider) urgent(timing string) bool {
	if timing == "" {
		return false
	}
	return lo.SomeBy(d.urgency, func(m string) bool { return strings.Contains(timing, m) })
}

// MarkTriggered applies the one-way Undecided to Triggered transition.
// Persisting the returned record is the caller's job.
func MarkTriggered(rec preferences.Record) preferences.Record {
	rec.ItineraryTriggered = true
	return rec
}
