package http

import (
	"context"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/nws-alert-monitor/internal/domain"
	"github.com/couchcryptid/nws-alert-monitor/internal/monitor"
)

// Server exposes the dashboard, its JSON API, and health, readiness, and
// metrics endpoints.
type Server struct {
	httpServer *http.Server
	state      *monitor.State
	hub        *Hub
	logger     *slog.Logger
}

// NewServer creates an HTTP server. static holds the dashboard assets served
// at /; pass nil to serve the API only.
func NewServer(addr string, ready sharedobs.ReadinessChecker, state *monitor.State, hub *Hub, static fs.FS, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		state:  state,
		hub:    hub,
		logger: logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/state", s.handleState)
	mux.HandleFunc("POST /api/categories/{category}/previous", s.handleNavigate((*monitor.State).Previous))
	mux.HandleFunc("POST /api/categories/{category}/next", s.handleNavigate((*monitor.State).Next))
	mux.HandleFunc("POST /api/mute", s.handleMute)
	mux.HandleFunc("GET /ws", hub.HandleWS)

	if static != nil {
		mux.Handle("GET /", http.FileServerFS(static))
	}

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	sharedobs.WriteJSON(w, http.StatusOK, s.hub.Snapshot())
}

// handleNavigate moves a category cursor and refreshes the display even when
// the cursor was already at a bound.
func (s *Server) handleNavigate(move func(*monitor.State, domain.Category) monitor.CategoryView) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := domain.ParseCategory(r.PathValue("category"))
		if err != nil {
			sharedobs.WriteJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
			return
		}

		view := move(s.state, c)
		s.hub.Refresh(c)
		sharedobs.WriteJSON(w, http.StatusOK, view)
	}
}

func (s *Server) handleMute(w http.ResponseWriter, _ *http.Request) {
	muted := s.state.ToggleMute()
	s.logger.Info("sound mute toggled", "muted", muted)
	s.hub.NotifyMute()
	sharedobs.WriteJSON(w, http.StatusOK, map[string]bool{"muted": muted})
}
