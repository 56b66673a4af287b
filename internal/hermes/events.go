package hermes

import (
	"time"

	"github.com/MikeSquared-Agency/sommelier/internal/itinerary"
	"github.com/MikeSquared-Agency/sommelier/internal/preferences"
)

const (
	// SubjectItineraryTriggered is published once per session when enough
	// preferences are known to start planning.
	SubjectItineraryTriggered = "concierge.itinerary.triggered"
	// SubjectVenuesSelected carries the venue list chosen by the planner.
	SubjectVenuesSelected = "concierge.venues.selected"
	// SubjectItineraryAssembled is published after a plan is stored.
	SubjectItineraryAssembled = "concierge.itinerary.assembled"
	// SubjectRegistered announces the service on startup.
	SubjectRegistered = "swarm.agent.sommelier.registered"
)

// TriggerEvent asks the planning path to choose venues for a session.
type TriggerEvent struct {
	SessionID   string             `json:"session_id"`
	Path        string             `json:"path"`
	Preferences preferences.Record `json:"preferences"`
	Timestamp   time.Time          `json:"timestamp"`
}

// VenueSelectionEvent is the planner's answer to a TriggerEvent.
type VenueSelectionEvent struct {
	SessionID string   `json:"session_id"`
	VenueIDs  []string `json:"venue_ids"`
}

// AssembledEvent reports a stored itinerary.
type AssembledEvent struct {
	SessionID   string            `json:"session_id"`
	ItineraryID string            `json:"itinerary_id"`
	Days        int               `json:"days"`
	Entries     []itinerary.Entry `json:"entries"`
	Timestamp   time.Time         `json:"timestamp"`
}
