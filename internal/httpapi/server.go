package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/naestep/WebsiteUptimeChecker/internal/state"
)

// Server exposes a read-only diagnostics surface over the state store.
type Server struct {
	Logger *zap.Logger
	States *state.Store
}

func NewServer(l *zap.Logger, store *state.Store) *Server {
	if l == nil {
		l = zap.NewNop()
	}
	return &Server{Logger: l, States: store}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.AllowAll().Handler)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/api/status", s.handleStatus)

	return r
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	states := s.States.All()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(states); err != nil {
		s.Logger.Warn("encoding status response", zap.Error(err))
	}
}
