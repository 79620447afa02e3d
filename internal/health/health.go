// Package health exposes liveness and readiness endpoints for the daemon.
//
// Container orchestrators probe these to monitor the process: /healthz
// answers as soon as the server is up, /readyz only once the grammars
// are compiled and the interaction loop is running.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"
)

// Server is a lightweight HTTP server for health probes.
type Server struct {
	port      int
	ready     atomic.Bool
	templates atomic.Int64
	server    *http.Server
}

// New creates a health server listening on the given port.
func New(port int) *Server {
	return &Server{port: port}
}

// SetReady marks the daemon as ready to capture utterances.
func (s *Server) SetReady(ready bool) {
	s.ready.Store(ready)
}

// SetTemplateCount records how many command grammars were compiled, for
// the readiness payload.
func (s *Server) SetTemplateCount(n int) {
	s.templates.Store(int64(n))
}

// ListenAndServe runs the probe server until the context is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		if !s.ready.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]any{"status": "not_ready"})
			return
		}
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":    "ok",
			"templates": s.templates.Load(),
		})
	})

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	slog.Info("health server listening", "port", s.port)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	if err := s.server.ListenAndServe(); err != http.ErrServerClosed {
		return fmt.Errorf("health server: %w", err)
	}
	return nil
}
