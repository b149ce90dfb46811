// Package api serves topics and session history over HTTP.
package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/akyairhashvil/SPT/internal/config"
	"github.com/akyairhashvil/SPT/internal/database"
	"github.com/akyairhashvil/SPT/internal/topics"
	"github.com/akyairhashvil/SPT/internal/util"
)

// Config holds the server dependencies. Store may be nil, in which case the
// sessions endpoints answer 503.
type Config struct {
	Store        database.SessionStore
	Topics       *topics.Provider
	RequestLimit int
	Window       time.Duration
}

// Server owns the router and its dependencies.
type Server struct {
	cfg    Config
	log    zerolog.Logger
	router chi.Router
}

// New builds a Server with the middleware stack applied.
func New(cfg Config) *Server {
	if cfg.Topics == nil {
		cfg.Topics = topics.NewProvider(time.Now().UnixNano())
	}
	if cfg.RequestLimit <= 0 {
		cfg.RequestLimit = config.APIRequestLimit
	}
	if cfg.Window <= 0 {
		cfg.Window = config.APIWindow
	}
	s := &Server{cfg: cfg, log: util.Logger("api")}
	s.router = s.routes()
	return s
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(chimw.RequestID)
	r.Use(s.requestLogger)

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(RateLimit(RateLimitConfig{RequestLimit: s.cfg.RequestLimit, WindowSize: s.cfg.Window}))
		r.Get("/themes", s.handleThemes)
		r.Get("/topics/{theme}", s.handleTopics)
		r.Get("/sessions", s.handleSessions)
		r.Get("/sessions/stats", s.handleSessionStats)
	})
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	s.log.Info().Str("addr", ln.Addr().String()).Msg("api listening")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.log.Info().Msg("api stopped")
	return nil
}
