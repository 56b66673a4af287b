package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/MikeSquared-Agency/sommelier/internal/calendar"
	"github.com/MikeSquared-Agency/sommelier/internal/itinerary"
	"github.com/MikeSquared-Agency/sommelier/internal/processor"
	"github.com/MikeSquared-Agency/sommelier/internal/steps"
	"github.com/MikeSquared-Agency/sommelier/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// Service is the conversation core the API exposes.
type Service interface {
	CreateSession(ctx context.Context) (store.Session, error)
	Session(ctx context.Context, id uuid.UUID) (store.Session, error)
	HandleTurn(ctx context.Context, id uuid.UUID, utterance string) (processor.TurnResult, error)
	AssembleItinerary(ctx context.Context, id uuid.UUID, venueIDs []string) (store.Itinerary, error)
	Itinerary(ctx context.Context, id uuid.UUID) (store.Itinerary, error)
	Steps() []steps.Definition
}

type Server struct {
	router   *chi.Mux
	port     int
	svc      Service
	calendar calendar.Options
	http     *http.Server
}

func NewServer(port int, apiToken string, svc Service, cal calendar.Options) *Server {
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	s := &Server{
		router:   router,
		port:     port,
		svc:      svc,
		calendar: cal,
	}

	router.Get("/health", s.health)
	router.Get("/api/v1/sommelier/status", s.status)
	router.Get("/api/v1/steps", s.listSteps)

	router.Route("/api/v1/sessions", func(r chi.Router) {
		r.Use(BearerAuthMiddleware(apiToken))
		r.Post("/", s.createSession)
		r.Get("/{id}", s.getSession)
		r.Post("/{id}/turns", s.postTurn)
		r.Post("/{id}/itinerary", s.assembleItinerary)
		r.Get("/{id}/itinerary", s.getItinerary)
		r.Get("/{id}/itinerary.ics", s.exportItinerary)
	})

	return s
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.http = &http.Server{Addr: addr, Handler: s.router}
	slog.Info("API server starting", "addr", addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"agent":  "sommelier",
		"status": "active",
	})
}

func (s *Server) listSteps(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"steps": s.svc.Steps()})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(payload)
}

// writeError maps domain errors onto status codes.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, itinerary.ErrNoVenues):
		status = http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound), errors.Is(err, calendar.ErrNoEntries):
		status = http.StatusNotFound
	case errors.Is(err, store.ErrVersionConflict):
		status = http.StatusConflict
	}
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
