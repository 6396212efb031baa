// Package server exposes the transcript and translation operations over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/valpere/chattran/internal/chat"
	"github.com/valpere/chattran/internal/orchestrator"
	"github.com/valpere/chattran/internal/render"
	"github.com/valpere/chattran/internal/settings"
)

// Transcript is the message host behind the HTTP surface.
type Transcript interface {
	Messages() []chat.Message
	Add(ctx context.Context, direction chat.Direction, text string) (int, chat.Message, error)
	Regenerate(ctx context.Context, index int, text string) (chat.Message, error)
}

// Translator runs user-requested translations.
type Translator interface {
	Toggle(ctx context.Context, index int) (chat.Message, error)
	RunCommand(ctx context.Context, args orchestrator.CommandArgs) (string, error)
}

// RenderCache holds the latest HTML rendering per message.
type RenderCache interface {
	Get(index int) (render.Entry, bool)
}

// ConfigSource hands out configuration snapshots.
type ConfigSource interface {
	Snapshot() settings.Config
}

// Options configures a Server. AllowedOrigins defaults to any origin.
type Options struct {
	Transcript     Transcript
	Translator     Translator
	Renders        RenderCache
	Config         ConfigSource
	Logger         *zap.SugaredLogger
	AllowedOrigins []string
}

type Server struct {
	transcript     Transcript
	translator     Translator
	renders        RenderCache
	config         ConfigSource
	logger         *zap.SugaredLogger
	allowedOrigins []string
}

func New(opts Options) *Server {
	s := &Server{
		transcript:     opts.Transcript,
		translator:     opts.Translator,
		renders:        opts.Renders,
		config:         opts.Config,
		logger:         opts.Logger,
		allowedOrigins: opts.AllowedOrigins,
	}
	if s.logger == nil {
		s.logger = zap.NewNop().Sugar()
	}
	if len(s.allowedOrigins) == 0 {
		s.allowedOrigins = []string{"*"}
	}
	return s
}

// Routes builds the HTTP handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.loggingMiddleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/healthz", healthHandler)

	r.Route("/messages", func(r chi.Router) {
		r.Get("/", s.listMessages)
		r.Post("/", s.addMessage)
		r.Route("/{index}", func(r chi.Router) {
			r.Post("/toggle", s.toggleMessage)
			r.Post("/regenerate", s.regenerateMessage)
			r.Get("/html", s.messageHTML)
		})
	})

	r.Post("/translate", s.translate)
	r.Get("/config", s.getConfig)

	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Infow("Server listening", "addr", addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Infow("Shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Errorw("Graceful shutdown failed", "error", err)
		return srv.Close()
	}
	return nil
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debugw("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"requestID", middleware.GetReqID(r.Context()),
		)
	})
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
