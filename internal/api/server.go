package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/JakeFAU/tv-schedule-scraper/internal/metrics"
	"github.com/JakeFAU/tv-schedule-scraper/internal/schedule"
)

// DefaultRequestTimeout bounds a request when Options leaves it unset.
const DefaultRequestTimeout = 60 * time.Second

// ScheduleService is the behavior the HTTP layer needs from the scraper.
type ScheduleService interface {
	Channels() []schedule.Channel
	Schedule(ctx context.Context, date string) (schedule.ScheduleResponse, error)
	ChannelSchedule(ctx context.Context, channelID string, date string) (schedule.ChannelSchedule, error)
}

// Options tunes the HTTP surface.
type Options struct {
	// AllowedOrigins lists CORS origins; "*" allows any.
	AllowedOrigins []string
	RequestTimeout time.Duration
	// Progress serves run history when set.
	Progress *ProgressHandler
}

// Server wires HTTP handlers to the schedule service.
type Server struct {
	router  chi.Router
	service ScheduleService
	logger  *zap.Logger
}

// NewServer constructs a Server with middleware and routes. Schedule routes
// are served both at the root and under /api.
func NewServer(service ScheduleService, opts Options, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = DefaultRequestTimeout
	}
	s := &Server{
		service: service,
		logger:  logger,
	}
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(logger))
	r.Use(recoverMiddleware(logger))
	r.Use(metrics.Middleware)
	r.Use(corsMiddleware(opts.AllowedOrigins))
	r.Use(timeoutMiddleware(opts.RequestTimeout))

	r.Get("/healthz", s.healthz)
	r.Get("/readyz", s.readyz)
	r.Handle("/metrics", metrics.Handler())

	routes := func(r chi.Router) {
		r.Get("/", s.root)
		r.Get("/channels", s.listChannels)
		r.Get("/schedule", s.getSchedule)
		r.Get("/schedule/{channel_id}", s.getChannelSchedule)
		r.Get("/refresh", s.refresh)
		if opts.Progress != nil {
			r.Route("/runs", func(r chi.Router) {
				r.Get("/", opts.Progress.ListRuns)
				r.Get("/{run_id}", opts.Progress.GetRun)
				r.Get("/{run_id}/channels", opts.Progress.ListRunChannels)
			})
		}
	}
	routes(r)
	r.Route("/api", routes)

	s.router = r
	return s
}

// Handler returns the Router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) readyz(w http.ResponseWriter, _ *http.Request) {
	// The roster is static; once routes are mounted the service can scrape.
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "TV Schedule API"})
}

func (s *Server) listChannels(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"channels": s.service.Channels()})
}

func (s *Server) getSchedule(w http.ResponseWriter, r *http.Request) {
	resp, err := s.service.Schedule(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) getChannelSchedule(w http.ResponseWriter, r *http.Request) {
	channelID := chi.URLParam(r, "channel_id")
	resp, err := s.service.ChannelSchedule(r.Context(), channelID, r.URL.Query().Get("date"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// refresh acknowledges a refresh request. Schedules are always scraped live,
// so there is nothing to invalidate.
func (s *Server) refresh(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Schedule refresh initiated",
		"status":  "success",
	})
}

func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, schedule.ErrChannelNotFound):
		writeError(w, http.StatusNotFound, "Channel not found")
	default:
		s.logger.Error("schedule request failed",
			zap.String("path", r.URL.Path),
			zap.String("request_id", requestIDFrom(r.Context())),
			zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zap.L().Error("write JSON failed", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"detail": msg})
}
