// internal/api/server.go
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/tamzrod/health-bridge/internal/status"
)

// Server is the read-only local status surface. It exposes the same view the
// STATUS console command prints, for dashboards and scripted checks.
type Server struct {
	addr    string
	tracker *status.Tracker
	log     *zap.SugaredLogger
}

func NewServer(addr string, tracker *status.Tracker, log *zap.SugaredLogger) *Server {
	return &Server{addr: addr, tracker: tracker, log: log}
}

// Routes builds the router. Split out so tests can drive handlers directly.
func (s *Server) Routes() http.Handler {
	router := chi.NewRouter()
	router.Get("/healthz", s.healthzHandler)
	router.Get("/status", s.statusHandler)
	return router
}

// Run serves until the context is canceled.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.addr, Handler: s.Routes()}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.log.Infof("status api listening on %s", s.addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) healthzHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.tracker.Get()); err != nil {
		s.log.Errorf("status encode failed: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
