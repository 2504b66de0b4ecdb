package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/abhisek/quizmint/internal/assessment"
	"github.com/abhisek/quizmint/internal/sessionstore"
)

// Config holds HTTP server settings.
type Config struct {
	Addr           string
	AllowedOrigins []string

	// RequestTimeout bounds ordinary requests.
	RequestTimeout time.Duration

	// GenerateTimeout bounds assessment creation, which waits on the model.
	GenerateTimeout time.Duration
}

// DefaultConfig returns a Config suitable for local use.
func DefaultConfig() Config {
	return Config{
		Addr:            "127.0.0.1:8080",
		AllowedOrigins:  []string{"http://localhost:3000"},
		RequestTimeout:  30 * time.Second,
		GenerateTimeout: 5 * time.Minute,
	}
}

// ConfigFromEnv applies QUIZMINT_ADDR and QUIZMINT_ALLOWED_ORIGINS
// (comma-separated) over the defaults.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	if a := os.Getenv("QUIZMINT_ADDR"); a != "" {
		cfg.Addr = a
	}
	if o := os.Getenv("QUIZMINT_ALLOWED_ORIGINS"); o != "" {
		var origins []string
		for _, v := range strings.Split(o, ",") {
			if v = strings.TrimSpace(v); v != "" {
				origins = append(origins, v)
			}
		}
		cfg.AllowedOrigins = origins
	}
	return cfg
}

// Server exposes assessments over a JSON API.
type Server struct {
	cfg      Config
	service  *assessment.Service
	sessions *sessionstore.Manager
	now      func() time.Time
}

// New creates a Server.
func New(cfg Config, service *assessment.Service, sessions *sessionstore.Manager) *Server {
	return &Server{
		cfg:      cfg,
		service:  service,
		sessions: sessions,
		now:      time.Now,
	}
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		ExposedHeaders: []string{"Content-Length"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	r.Route("/api/assessments", func(ar chi.Router) {
		ar.With(middleware.Timeout(s.cfg.GenerateTimeout)).Post("/", s.handleCreate)

		ar.Group(func(gr chi.Router) {
			gr.Use(middleware.Timeout(s.cfg.RequestTimeout))
			gr.Get("/{id}", s.handleGet)
			gr.Delete("/{id}", s.handleDelete)
			gr.Put("/{id}/answers/{index}", s.handleAnswer)
			gr.Post("/{id}/submit", s.handleSubmit)
			gr.Get("/{id}/results", s.handleResults)
		})
	})

	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}
