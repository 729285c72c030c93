package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"onepager/internal/compose"
	"onepager/internal/config"
	"onepager/internal/export"
	"onepager/internal/loader"
)

// Server serves the report. It holds one loader session at a time; the
// session is started when the server starts and replaced on reload, so
// every request sees the same resolved dataset until then.
type Server struct {
	source   loader.Source
	branding compose.Branding
	refresh  int
	exporter export.Exporter
	baseCtx  context.Context
	session  atomic.Pointer[loader.Session]
}

// NewServer creates a server and starts its first load under ctx.
func NewServer(ctx context.Context, cfg *config.Config, source loader.Source) *Server {
	s := &Server{
		source:   source,
		branding: cfg.Branding,
		refresh:  cfg.Server.Refresh,
		baseCtx:  ctx,
	}
	if cfg.Output.Engine == config.EngineChrome {
		s.exporter.Chrome = export.NewPrinter(logger)
	}
	s.Reload()
	return s
}

// Reload discards the current dataset and starts a new load.
func (s *Server) Reload() *loader.Session {
	sess := loader.NewSession(s.source)
	sess.Start(s.baseCtx)
	s.session.Store(sess)
	return sess
}

// Session returns the current loader session.
func (s *Server) Session() *loader.Session {
	return s.session.Load()
}

// Routes builds the HTTP handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// Web handlers (page and exports)
	web := &WebHandler{server: s}
	r.Get("/", web.ReportPage)
	r.Get("/report.pdf", web.Export(export.PDF))
	r.Get("/report.svg", web.Export(export.SVG))
	r.Post("/reload", web.Reload)

	// API handlers (JSON responses)
	api := &APIHandler{server: s}
	r.Get("/healthz", api.Health)
	r.Route("/api", func(r chi.Router) {
		r.Get("/report", api.Report)
	})

	return r
}

// requestLogger logs each request through zap.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			logger.Info("HTTP request",
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)))
		}()
		next.ServeHTTP(ww, r)
	})
}

// startServer serves until ctx is cancelled, then shuts down gracefully.
func startServer(ctx context.Context, cfg *config.Config, source loader.Source) error {
	s := NewServer(ctx, cfg, source)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting server", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()
	fmt.Printf("Serving the report on http://localhost%s\n", addr)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logger.Info("Shutting down server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
