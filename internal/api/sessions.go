package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/MikeSquared-Agency/sommelier/internal/calendar"
	"github.com/MikeSquared-Agency/sommelier/internal/itinerary"
	"github.com/MikeSquared-Agency/sommelier/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// TurnRequest is the body of POST /api/v1/sessions/{id}/turns.
type TurnRequest struct {
	Utterance string `json:"utterance"`
}

// ItineraryRequest is the body of POST /api/v1/sessions/{id}/itinerary.
type ItineraryRequest struct {
	VenueIDs []string `json:"venue_ids"`
}

// ItineraryResponse is a stored plan with its entries grouped by day.
type ItineraryResponse struct {
	store.Itinerary
	Days []itinerary.Day `json:"days"`
}

func newItineraryResponse(it store.Itinerary) ItineraryResponse {
	return ItineraryResponse{Itinerary: it, Days: itinerary.Days(it.Entries)}
}

func sessionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid session id"})
		return uuid.Nil, false
	}
	return id, true
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.svc.CreateSession(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sess)
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	sess, err := s.svc.Session(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) postTurn(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	var req TurnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("invalid JSON: %v", err)})
		return
	}

	res, err := s.svc.HandleTurn(r.Context(), id, req.Utterance)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) assembleItinerary(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	var req ItineraryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("invalid JSON: %v", err)})
		return
	}

	it, err := s.svc.AssembleItinerary(r.Context(), id, req.VenueIDs)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, newItineraryResponse(it))
}

func (s *Server) getItinerary(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	it, err := s.svc.Itinerary(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newItineraryResponse(it))
}

// exportItinerary serves the latest plan as an iCalendar file. Day 1 falls
// on ?start=YYYY-MM-DD, or tomorrow when omitted.
func (s *Server) exportItinerary(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	loc := s.calendar.Location
	if loc == nil {
		loc = time.UTC
	}
	start := time.Now().In(loc).AddDate(0, 0, 1)
	if v := r.URL.Query().Get("start"); v != "" {
		t, err := time.ParseInLocation("2006-01-02", v, loc)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "start must be YYYY-MM-DD"})
			return
		}
		start = t
	}

	it, err := s.svc.Itinerary(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	opts := s.calendar
	opts.Ref = it.ID.String()
	body, err := calendar.Export(it.Entries, start, opts)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="itinerary-%s.ics"`, it.ID))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}
