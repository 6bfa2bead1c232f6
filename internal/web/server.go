package web

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/kmkohl117-gif/brainbucket-android/internal/config"
	"github.com/kmkohl117-gif/brainbucket-android/internal/store"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

// NewServer creates and configures the HTTP server for the BrainBucket web UI.
func NewServer(st *store.Store, cfg *config.Config, logger *slog.Logger, version, bind string, port int) (*http.Server, error) {
	// Create sub-FS for templates (strip "templates/" prefix)
	templateSub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		return nil, fmt.Errorf("template sub-FS: %w", err)
	}

	// Create sub-FS for static files (strip "static/" prefix)
	staticSub, err := fs.Sub(staticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("static sub-FS: %w", err)
	}

	h := &Handlers{
		st:       st,
		cfg:      cfg,
		renderer: NewRenderer(templateSub, version, logger),
	}

	return &http.Server{
		Addr:              fmt.Sprintf("%s:%d", bind, port),
		Handler:           securityHeaders(routes(h, staticSub)),
		ReadHeaderTimeout: 10 * time.Second,
	}, nil
}

// routes registers every page and form endpoint on a new mux.
func routes(h *Handlers, static fs.FS) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", h.HandleCapturePage)
	mux.HandleFunc("POST /captures", h.HandleAddCapture)
	mux.HandleFunc("GET /captures/{id}", h.HandleCaptureDetail)
	mux.HandleFunc("GET /captures/{id}/edit", h.HandleCaptureEdit)
	mux.HandleFunc("POST /captures/{id}", h.HandleUpdateCapture)
	mux.HandleFunc("POST /captures/{id}/star", h.HandleToggleStar)
	mux.HandleFunc("POST /captures/{id}/complete", h.HandleToggleComplete)
	mux.HandleFunc("POST /captures/{id}/move", h.HandleMoveCapture)
	mux.HandleFunc("POST /captures/{id}/delete", h.HandleDeleteCapture)

	mux.HandleFunc("GET /buckets", h.HandleBuckets)
	mux.HandleFunc("POST /buckets", h.HandleAddBucket)
	mux.HandleFunc("GET /buckets/{id}", h.HandleBucketDetail)
	mux.HandleFunc("POST /buckets/{id}/delete", h.HandleDeleteBucket)
	mux.HandleFunc("POST /buckets/{id}/folders", h.HandleAddFolder)

	mux.HandleFunc("GET /folders/{id}", h.HandleFolderDetail)
	mux.HandleFunc("POST /folders/{id}/delete", h.HandleDeleteFolder)

	mux.HandleFunc("GET /search", h.HandleSearch)

	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(static)))
	return mux
}

// securityHeaders adds security-related HTTP headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Security-Policy", "default-src 'self'; script-src 'self'; style-src 'self'")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		next.ServeHTTP(w, r)
	})
}

// Run starts the HTTP server and handles graceful shutdown on SIGINT/SIGTERM.
func Run(srv *http.Server, logger *slog.Logger) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	logger.Info("BrainBucket UI running", "url", "http://"+srv.Addr)

	if strings.Contains(srv.Addr, "0.0.0.0") || strings.Contains(srv.Addr, "::") {
		logger.Warn("server is binding to all interfaces and may be accessible from the network")
	}

	select {
	case err := <-errCh:
		return err
	case <-sigCh:
		logger.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}
