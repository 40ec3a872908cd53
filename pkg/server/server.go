// Package server exposes the engines over HTTP. Every request builds its own
// engine, oracles are solved lazily and shared.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/IlikeChooros/nttt/pkg/mcts"
	"github.com/IlikeChooros/nttt/pkg/oracle"
)

type Config struct {
	// Iterations per branch when the request doesn't say
	DefaultIterations int `json:"default_iterations"`
	// Upper bound on requested iterations per branch
	MaxIterations int `json:"max_iterations"`
	// Upper bound on requested movetime, in milliseconds
	MaxMovetime int `json:"max_movetime"`
}

func DefaultConfig() Config {
	return Config{
		DefaultIterations: mcts.DefaultIterationsPerBranch,
		MaxIterations:     20 * mcts.DefaultIterationsPerBranch,
		MaxMovetime:       10_000,
	}
}

type Server struct {
	config  Config
	mu      sync.Mutex
	oracles map[int]*oracle.Oracle
}

func New(config Config) *Server {
	defaults := DefaultConfig()
	if config.DefaultIterations <= 0 {
		config.DefaultIterations = defaults.DefaultIterations
	}
	if config.MaxIterations <= 0 {
		config.MaxIterations = defaults.MaxIterations
	}
	if config.MaxMovetime <= 0 {
		config.MaxMovetime = defaults.MaxMovetime
	}

	return &Server{
		config:  config,
		oracles: make(map[int]*oracle.Oracle),
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/decide", s.handleDecide)
		r.Get("/patterns/{size}", s.handlePatterns)
	})

	return r
}

// Serve on 'addr' until ctx is done, then shut down gracefully
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	log.Info().Str("addr", addr).Msg("server-listening")
	select {
	case <-ctx.Done():
		log.Info().Err(ctx.Err()).Msg("server-shutdown")
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("graceful shutdown failed")
		return server.Close()
	}
	return nil
}

// Solved once per size, then shared by every request
func (s *Server) oracle(size int) (*oracle.Oracle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if o, ok := s.oracles[size]; ok {
		return o, nil
	}
	o, err := oracle.New(size)
	if err != nil {
		return nil, err
	}
	s.oracles[size] = o
	return o, nil
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		defer func() {
			log.Info().
				Str("request_id", middleware.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("took", time.Since(start)).
				Msg("request")
		}()

		next.ServeHTTP(ww, r)
	})
}
