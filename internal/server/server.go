package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/desertthunder/tubelist/internal/shared"
)

// Middleware wraps an http.Handler and returns a new http.Handler with additional behavior.
type Middleware func(http.Handler) http.Handler

// Server serves the companion API.
type Server struct {
	store      Store
	tokens     *TokenIssuer
	uploadsDir string
	maxUpload  int64
	addr       string
	logger     *log.Logger
}

// New creates a Server and the uploads directory.
func New(config shared.ServerConfig, store Store, logger *log.Logger) (*Server, error) {
	if err := os.MkdirAll(config.UploadsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create uploads directory: %w", err)
	}
	if config.JWTSecret == "" || config.JWTSecret == "change-me" {
		logger.Warn("using the default jwt secret, set server.jwt_secret before exposing the server")
	}

	return &Server{
		store:      store,
		tokens:     NewTokenIssuer(config.JWTSecret, config.TTL()),
		uploadsDir: config.UploadsDir,
		maxUpload:  config.MaxUploadBytes(),
		addr:       config.Addr(),
		logger:     logger,
	}, nil
}

// Router builds the route tree. Extra middlewares run after the built-in ones.
func (s *Server) Router(middlewares ...Middleware) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, RequestLogger(s.logger), middleware.Recoverer)
	for _, mw := range middlewares {
		r.Use(mw)
	}

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/register", s.handleRegister)
		r.Post("/login", s.handleLogin)
		r.Post("/logout", s.handleLogout)
		r.Get("/users", s.handleUsers)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)

			r.Get("/playlists/{username}", s.handleGetPlaylists)
			r.Put("/playlists/{username}", s.handlePutPlaylists)
			r.Post("/playlists/{username}", s.handlePutPlaylists)
			r.Post("/upload", s.handleUpload)
		})
	})

	r.Handle("/mp3/*", http.StripPrefix("/mp3/", http.FileServer(http.Dir(s.uploadsDir))))

	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("companion server listening", "addr", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		s.logger.Info("shutting down companion server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// RequestLogger logs one line per request with its status and duration.
func RequestLogger(logger *log.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			kv := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			}
			if status >= http.StatusInternalServerError {
				logger.Error("request", kv...)
			} else {
				logger.Info("request", kv...)
			}
		})
	}
}
