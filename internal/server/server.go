// Package server exposes outline extraction and interactive mind map
// sessions over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/thywilljoshua/pdf-mindmap/internal/convert"
	"github.com/thywilljoshua/pdf-mindmap/internal/logging"
)

const (
	defaultAddr        = ":8080"
	defaultMaxDuration = 60 * time.Second
	// Uploads arrive as base64 data URLs, a third larger than the file.
	maxBodyBytes = 32 << 20
)

type Config struct {
	Addr string
	// MaxDuration bounds one extraction request.
	MaxDuration time.Duration
	// SessionTTL drops mind map sessions unused for longer than this. Zero
	// keeps them until deleted.
	SessionTTL time.Duration
	Pipeline   convert.Config
	Logger     *log.Logger
	// Registry receives the server's metrics and backs /metrics. A fresh
	// registry is used when nil.
	Registry *prometheus.Registry
}

type Server struct {
	cfg      Config
	router   chi.Router
	sessions *sessions
	metrics  *metrics
	logger   *log.Logger
}

func New(cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = defaultAddr
	}
	if cfg.MaxDuration <= 0 {
		cfg.MaxDuration = defaultMaxDuration
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Registry == nil {
		cfg.Registry = prometheus.NewRegistry()
	}
	s := &Server{
		cfg:      cfg,
		sessions: newSessions(),
		metrics:  newMetrics(cfg.Registry),
		logger:   cfg.Logger,
	}
	s.router = s.buildRouter()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(logging.Middleware(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(s.metrics.middleware)

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.HandlerFor(s.cfg.Registry, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Post("/generate", s.handleGenerate)
		// Legacy route name kept for older web clients.
		r.Post("/generate-quiz", s.handleGenerate)

		r.Route("/mindmaps", func(r chi.Router) {
			r.Post("/", s.handleCreate)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGet)
				r.Delete("/", s.handleDelete)
				r.Get("/svg", s.handleSVG)
				r.Post("/nodes/{nodeID}/activate", s.handleActivate)
			})
		})
	})
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      s.cfg.MaxDuration + 30*time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	if s.cfg.SessionTTL > 0 {
		go s.expireSessions(ctx)
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

// sweepInterval is how often expired sessions are looked for; at least a
// second so a tiny TTL does not spin the sweeper.
func sweepInterval(ttl time.Duration) time.Duration {
	return max(ttl/2, time.Second)
}

func (s *Server) expireSessions(ctx context.Context) {
	t := time.NewTicker(sweepInterval(s.cfg.SessionTTL))
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := s.sessions.expire(s.cfg.SessionTTL); n > 0 {
				s.logger.Debug("expired mind map sessions", "count", n)
				s.metrics.sessions.Set(float64(s.sessions.len()))
			}
		}
	}
}
