package processor

import (
	"context"
	"encoding/json"

	"github.com/MikeSquared-Agency/sommelier/internal/hermes"
	"github.com/google/uuid"
)

// HandleVenuesSelected is the NATS handler for concierge.venues.selected.
// The planner answers a trigger event with the venues it picked; the plan
// is assembled from them in order.
func (p *Processor) HandleVenuesSelected(subject string, data []byte) {
	var evt hermes.VenueSelectionEvent
	if err := json.Unmarshal(data, &evt); err != nil {
		p.logger.Warn("failed to parse venue selection", "error", err)
		return
	}

	id, err := uuid.Parse(evt.SessionID)
	if err != nil {
		p.logger.Warn("invalid session id in venue selection", "session_id", evt.SessionID, "error", err)
		return
	}

	it, err := p.AssembleItinerary(context.Background(), id, evt.VenueIDs)
	if err != nil {
		p.logger.Error("failed to assemble itinerary",
			"error", err,
			"session_id", id,
			"venues", len(evt.VenueIDs),
		)
		return
	}

	p.logger.Info("venue selection handled",
		"session_id", id,
		"itinerary_id", it.ID,
		"subject", subject,
	)
}
