// Package server provides the HTTP REST API for editing, previewing and exporting resumes.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/jonathan/resume-builder/internal/db"
	"github.com/jonathan/resume-builder/internal/export"
	"github.com/jonathan/resume-builder/internal/layout"
	"github.com/jonathan/resume-builder/internal/server/middleware"
	"github.com/jonathan/resume-builder/internal/server/ratelimit"
)

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	handler     http.Handler
	store       Store
	rateLimiter *ratelimit.Limiter
	previews    *previewRegistry
	editMu      sync.Mutex

	heights    *layout.HeightTable
	capacity   float64
	exporter   export.Exporter
	exportOpts export.Options
}

// Config holds server configuration
type Config struct {
	Port        int
	DatabaseURL string

	// Heights is the height table used for every layout; nil uses the defaults
	Heights *layout.HeightTable
	// PageCapacity overrides the template capacity when positive
	PageCapacity float64

	ExportStrategy string
	ExportOptions  export.Options
	// ExportRateLimitPerMinute bounds PDF exports per client
	ExportRateLimitPerMinute int
}

// New creates a new server instance. Storage is PostgreSQL when a database URL
// is configured and in-memory otherwise.
func New(cfg Config) (*Server, error) {
	var store Store
	if cfg.DatabaseURL != "" {
		database, err := db.Connect(context.Background(), cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := database.Migrate(context.Background()); err != nil {
			database.Close()
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		store = database
	} else {
		log.Printf("[server] DATABASE_URL not set, using in-memory storage")
		store = db.NewMemory()
	}

	exporter, err := export.New(cfg.ExportStrategy, cfg.ExportOptions)
	if err != nil {
		store.Close()
		return nil, err
	}

	return NewWithStore(cfg, store, exporter), nil
}

// NewWithStore creates a server on top of an existing store and exporter
func NewWithStore(cfg Config, store Store, exporter export.Exporter) *Server {
	s := &Server{
		store:       store,
		rateLimiter: ratelimit.NewLimiter(ratelimit.LoadConfig(cfg.ExportRateLimitPerMinute)),
		previews:    newPreviewRegistry(),
		heights:     cfg.Heights,
		capacity:    cfg.PageCapacity,
		exporter:    exporter,
		exportOpts:  cfg.ExportOptions,
	}
	if s.heights == nil {
		s.heights = layout.DefaultHeightTable()
	}

	// Setup router
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /v1/templates", s.handleListTemplates)

	// Resumes
	mux.HandleFunc("GET /v1/resumes", s.handleListResumes)
	mux.HandleFunc("POST /v1/resumes", s.handleCreateResume)
	mux.HandleFunc("GET /v1/resumes/{id}", s.handleGetResume)
	mux.HandleFunc("DELETE /v1/resumes/{id}", s.handleDeleteResume)

	// Editing goes through typed actions
	mux.HandleFunc("PUT /v1/resumes/{id}/sections/{section}", s.handleReplaceSection)
	mux.HandleFunc("DELETE /v1/resumes/{id}/sections/{section}/{index}", s.handleRemoveEntry)
	mux.HandleFunc("PUT /v1/resumes/{id}/template", s.handleSelectTemplate)

	// Layout and preview
	mux.HandleFunc("GET /v1/resumes/{id}/layout", s.handleGetLayout)
	mux.HandleFunc("GET /v1/resumes/{id}/document.html", s.handleGetDocument)
	mux.HandleFunc("POST /v1/resumes/{id}/previews", s.handleCreatePreview)
	mux.HandleFunc("GET /v1/previews/{id}", s.handleGetPreview)
	mux.HandleFunc("DELETE /v1/previews/{id}", s.handleDeletePreview)
	mux.HandleFunc("POST /v1/previews/{id}/next", s.handleNextPage)
	mux.HandleFunc("POST /v1/previews/{id}/prev", s.handlePrevPage)
	mux.HandleFunc("POST /v1/previews/{id}/goto", s.handleGoToPage)
	mux.HandleFunc("GET /v1/previews/{id}/page.html", s.handlePreviewPage)
	mux.HandleFunc("GET /v1/previews/{id}/events", s.handlePreviewEvents)

	// Export
	mux.HandleFunc("POST /v1/resumes/{id}/export", s.handleExport)
	mux.HandleFunc("GET /v1/resumes/{id}/exports", s.handleListExports)

	s.handler = middleware.RequestID(s.withRateLimit(s.withLogging(s.withCORS(mux))))

	// Create HTTP server
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // Long timeout for browser exports
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler returns the fully wrapped HTTP handler
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start begins listening for requests
func (s *Server) Start() error {
	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[server] starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-stop:
	case err := <-errCh:
		s.Close()
		return fmt.Errorf("server error: %w", err)
	}
	log.Println("[server] shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.Close()
	log.Println("[server] stopped")
	return nil
}

// Close releases the rate limiter, preview sessions and storage
func (s *Server) Close() {
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	s.previews.closeAll()
	s.store.Close()
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
		w.Header().Set("Access-Control-Expose-Headers", "X-Page-Count, X-Expected-Pages, X-Export-Strategy, X-Request-ID")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqID, _ := middleware.GetRequestID(r)
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Printf("[server] %s %s %d %v (request %s)", r.Method, r.URL.Path, rec.status, time.Since(start), reqID)
	})
}

// statusRecorder remembers the status code written by a handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Flush keeps server-sent events working through the logging middleware
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.store.Ping(ctx); err != nil {
		s.jsonResponse(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": err.Error()})
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[server] error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// errorFromErr writes an error response with the status HTTPStatus picks
func (s *Server) errorFromErr(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.Printf("[server] internal error: %v", err)
	}
	s.errorResponse(w, status, err.Error())
}

// extractClientID extracts the client identifier from the request.
// This uses the IP address from RemoteAddr; X-Forwarded-For is not trusted.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		seconds := int(info.RetryAfter.Round(time.Second).Seconds())
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", fmt.Sprintf("%d", seconds))
	}

	log.Printf("[rate-limit] exceeded: limit=%d remaining=%d reset=%s",
		info.Limit, info.Remaining, info.ResetTime.Format(time.RFC3339))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}

func (s *Server) logWriteError(err error) {
	log.Printf("[server] error writing response: %v", err)
}
