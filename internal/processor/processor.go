package processor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/MikeSquared-Agency/sommelier/internal/hermes"
	"github.com/MikeSquared-Agency/sommelier/internal/itinerary"
	"github.com/MikeSquared-Agency/sommelier/internal/preferences"
	"github.com/MikeSquared-Agency/sommelier/internal/steps"
	"github.com/MikeSquared-Agency/sommelier/internal/store"
	"github.com/MikeSquared-Agency/sommelier/internal/trigger"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// SessionStore is the persistence the processor needs.
type SessionStore interface {
	CreateSession(ctx context.Context) (store.Session, error)
	GetSession(ctx context.Context, id uuid.UUID) (store.Session, error)
	UpdatePreferences(ctx context.Context, id uuid.UUID, rec preferences.Record, expectedVersion int) (int, error)
	WriteItinerary(ctx context.Context, sessionID uuid.UUID, entries []itinerary.Entry, rec preferences.Record, expectedVersion int) (store.Itinerary, int, error)
	LatestItinerary(ctx context.Context, sessionID uuid.UUID) (store.Itinerary, error)
}

// Publisher sends events to the bus.
type Publisher interface {
	Publish(subject string, data any) error
}

// Processor runs conversation turns and itinerary assembly for sessions.
// Turns for the same session are serialized; different sessions run freely.
type Processor struct {
	store     SessionStore
	hermes    Publisher
	extractor *preferences.Extractor
	tracker   *steps.Tracker
	decider   *trigger.Decider
	layout    itinerary.Layout
	logger    *slog.Logger

	// snapshots of recently written sessions, for reads only
	snapshots *cache.Cache

	mu    sync.Mutex
	locks map[uuid.UUID]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

// TurnResult is what one user turn produced.
type TurnResult struct {
	SessionID   uuid.UUID          `json:"session_id"`
	Preferences preferences.Record `json:"preferences"`
	Version     int                `json:"version"`
	Filled      []preferences.Slot `json:"filled"`
	StepIndex   int                `json:"step_index"`
	StepID      string             `json:"step_id"`
	StepTitle   string             `json:"step_title"`
	State       steps.State        `json:"state"`
	Triggered   bool               `json:"triggered"`
	TriggerPath trigger.Path       `json:"trigger_path,omitempty"`
}

func New(s SessionStore, h Publisher, layout itinerary.Layout, cacheTTL time.Duration, logger *slog.Logger) *Processor {
	tracker := steps.NewDefaultTracker()
	return &Processor{
		store:     s,
		hermes:    h,
		extractor: preferences.New(),
		tracker:   tracker,
		decider:   trigger.New(tracker),
		layout:    layout,
		logger:    logger,
		snapshots: cache.New(cacheTTL, 2*cacheTTL),
		locks:     make(map[uuid.UUID]*sessionLock),
	}
}

// Steps returns the conversation step definitions.
func (p *Processor) Steps() []steps.Definition {
	return p.tracker.Definitions()
}

// CreateSession starts a conversation with an empty preference record.
func (p *Processor) CreateSession(ctx context.Context) (store.Session, error) {
	sess, err := p.store.CreateSession(ctx)
	if err != nil {
		return store.Session{}, fmt.Errorf("create session: %w", err)
	}
	p.snapshots.SetDefault(sess.ID.String(), sess)
	p.logger.Info("session created", "session_id", sess.ID)
	return sess, nil
}

// Session returns the current state of a session.
func (p *Processor) Session(ctx context.Context, id uuid.UUID) (store.Session, error) {
	if v, ok := p.snapshots.Get(id.String()); ok {
		return v.(store.Session), nil
	}
	sess, err := p.store.GetSession(ctx, id)
	if err != nil {
		return store.Session{}, fmt.Errorf("load session: %w", err)
	}
	p.snapshots.SetDefault(id.String(), sess)
	return sess, nil
}

// HandleTurn applies one user utterance to a session: extract preferences,
// locate the current step, decide whether to trigger planning, persist, and
// announce a trigger. The itinerary_triggered flag is persisted before the
// trigger event is published.
func (p *Processor) HandleTurn(ctx context.Context, id uuid.UUID, utterance string) (TurnResult, error) {
	unlock := p.lock(id)
	defer unlock()

	sess, err := p.store.GetSession(ctx, id)
	if err != nil {
		return TurnResult{}, fmt.Errorf("load session: %w", err)
	}

	before := sess.Preferences
	rec := p.extractor.Extract(utterance, before)
	idx, rec := p.tracker.Current(rec)

	decision := p.decider.Decide(rec)
	if decision.Trigger {
		rec = trigger.MarkTriggered(rec)
		idx = p.tracker.Last()
	}

	if rec != before {
		version, err := p.store.UpdatePreferences(ctx, id, rec, sess.Version)
		if err != nil {
			return TurnResult{}, fmt.Errorf("persist preferences: %w", err)
		}
		sess.Preferences = rec
		sess.Version = version
	}
	p.snapshots.SetDefault(id.String(), sess)

	filled := newlyFilled(before, rec)
	step := p.tracker.Step(idx)

	p.logger.Info("turn processed",
		"session_id", id,
		"filled", filled,
		"step", step.ID,
		"triggered", decision.Trigger,
		"trigger_path", decision.Path,
	)

	if decision.Trigger && p.hermes != nil {
		if err := p.hermes.Publish(hermes.SubjectItineraryTriggered, hermes.TriggerEvent{
			SessionID:   id.String(),
			Path:        string(decision.Path),
			Preferences: rec,
			Timestamp:   time.Now().UTC(),
		}); err != nil {
			p.logger.Error("failed to publish itinerary trigger", "session_id", id, "error", err)
		}
	}

	return TurnResult{
		SessionID:   id,
		Preferences: rec,
		Version:     sess.Version,
		Filled:      filled,
		StepIndex:   idx,
		StepID:      step.ID,
		StepTitle:   step.Title,
		State:       p.tracker.State(rec),
		Triggered:   decision.Trigger,
		TriggerPath: decision.Path,
	}, nil
}

// AssembleItinerary lays venueIDs out with the configured layout, stores the
// plan and marks the session's itinerary as generated.
func (p *Processor) AssembleItinerary(ctx context.Context, id uuid.UUID, venueIDs []string) (store.Itinerary, error) {
	entries, err := itinerary.Build(venueIDs, p.layout)
	if err != nil {
		return store.Itinerary{}, fmt.Errorf("build itinerary: %w", err)
	}

	unlock := p.lock(id)
	defer unlock()

	sess, err := p.store.GetSession(ctx, id)
	if err != nil {
		return store.Itinerary{}, fmt.Errorf("load session: %w", err)
	}

	// A stored plan also settles the trigger, so a plan assembled without
	// one never causes a late trigger event. The record and the plan are
	// written together; a version conflict stores neither.
	rec := trigger.MarkTriggered(sess.Preferences)
	rec.ItineraryGenerated = true
	it, version, err := p.store.WriteItinerary(ctx, id, entries, rec, sess.Version)
	if err != nil {
		return store.Itinerary{}, fmt.Errorf("write itinerary: %w", err)
	}
	sess.Preferences = rec
	sess.Version = version
	p.snapshots.SetDefault(id.String(), sess)

	p.logger.Info("itinerary assembled",
		"session_id", id,
		"itinerary_id", it.ID,
		"venues", len(entries),
		"days", itinerary.DayCount(entries),
	)

	if p.hermes != nil {
		if err := p.hermes.Publish(hermes.SubjectItineraryAssembled, hermes.AssembledEvent{
			SessionID:   id.String(),
			ItineraryID: it.ID.String(),
			Days:        itinerary.DayCount(entries),
			Entries:     entries,
			Timestamp:   time.Now().UTC(),
		}); err != nil {
			p.logger.Error("failed to publish itinerary assembled", "session_id", id, "error", err)
		}
	}

	return it, nil
}

// Itinerary returns the latest plan for a session.
func (p *Processor) Itinerary(ctx context.Context, id uuid.UUID) (store.Itinerary, error) {
	it, err := p.store.LatestItinerary(ctx, id)
	if err != nil {
		return store.Itinerary{}, fmt.Errorf("load itinerary: %w", err)
	}
	return it, nil
}

// lock serializes work on one session and returns the release function.
func (p *Processor) lock(id uuid.UUID) func() {
	p.mu.Lock()
	l, ok := p.locks[id]
	if !ok {
		l = &sessionLock{}
		p.locks[id] = l
	}
	l.refs++
	p.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		p.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(p.locks, id)
		}
		p.mu.Unlock()
	}
}

func newlyFilled(before, after preferences.Record) []preferences.Slot {
	filled := []preferences.Slot{}
	for _, s := range preferences.Slots() {
		if !before.IsSet(s) && after.IsSet(s) {
			filled = append(filled, s)
		}
	}
	return filled
}
