// Package server exposes the leaderboard over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/vovakirdan/flappy-arcade/internal/config"
	"github.com/vovakirdan/flappy-arcade/internal/leaderboard"
)

// Server handles leaderboard HTTP requests.
type Server struct {
	cfg      config.ServiceConfig
	board    *leaderboard.Board
	hub      *Hub
	webhook  *WebhookNotifier
	notifier Notifier
	logger   *log.Logger
}

// New creates a server around board. New global high scores are pushed to
// websocket subscribers and, when configured, to the webhook URL.
func New(cfg config.ServiceConfig, board *leaderboard.Board, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := &Server{
		cfg:    cfg,
		board:  board,
		hub:    NewHub(logger),
		logger: logger,
	}

	notifiers := MultiNotifier{s.hub}
	if cfg.WebhookURL != "" {
		s.webhook = NewWebhookNotifier(cfg.WebhookURL, config.WithTimeout(cfg.WebhookTimeout, 5*time.Second), logger)
		notifiers = append(notifiers, s.webhook)
	}
	s.notifier = notifiers
	return s
}

// Hub returns the websocket hub serving /api/events.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Routes sets up the HTTP routes.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(s.recoverer)
	r.Use(middleware.Heartbeat("/health"))
	r.Use(cors)

	// Routes
	r.Route("/api", func(r chi.Router) {
		r.Post("/scores", s.handleSubmitScore)
		r.Get("/scores/{wallet}", s.handlePersonalBest)
		r.Get("/leaderboard", s.handleLeaderboard)
		r.Get("/events", s.hub.ServeHTTP)
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully and flushes
// the board to disk.
func (s *Server) Run(ctx context.Context) error {
	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	go s.hub.Run(hubCtx)

	srv := &http.Server{
		Addr:         s.cfg.Addr(),
		Handler:      s.Routes(),
		ReadTimeout:  config.WithTimeout(s.cfg.ReadTimeout, 15*time.Second),
		WriteTimeout: config.WithTimeout(s.cfg.WriteTimeout, 15*time.Second),
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Leaderboard service listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	var serveErr error
	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			serveErr = fmt.Errorf("server: listen: %w", err)
		}
	case <-ctx.Done():
		s.logger.Info("Shutting down leaderboard service")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.WithTimeout(s.cfg.ShutdownTimeout, 10*time.Second))
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("Shutdown error", "error", err)
		}
		cancel()
	}

	stopHub()
	if s.webhook != nil {
		s.webhook.Wait()
	}
	if err := s.board.Flush(); err != nil {
		s.logger.Error("Failed to flush scores", "error", err)
		if serveErr == nil {
			serveErr = err
		}
	}
	return serveErr
}

// requestLogger returns the server logger tagged with the request id.
func (s *Server) requestLogger(r *http.Request) *log.Logger {
	if id := middleware.GetReqID(r.Context()); id != "" {
		return s.logger.With("request_id", id)
	}
	return s.logger
}

// logRequests logs each request after it completes.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.requestLogger(r).Debug("Request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"remote", r.RemoteAddr,
		)
	})
}

// recoverer turns panics into a logged InternalError.
func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				s.writeError(w, r, &InternalError{Op: r.Method + " " + r.URL.Path, Err: fmt.Errorf("panic: %v", rec)})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// cors allows browser clients from any origin.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
