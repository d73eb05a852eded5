// Package viewer serves the interactive report: a dashboard page, per-chart
// ECharts HTML endpoints, and a small JSON API over the stored summary.
//
// The viewer reads the summary from the SQLite store on every request, so a
// re-import shows up on the next page load without a restart.
package viewer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/woundlab/segreport/internal/dataset"
	"github.com/woundlab/segreport/internal/store"
	"github.com/woundlab/segreport/internal/version"
)

// Server handles the HTTP interface for browsing dataset statistics.
type Server struct {
	address string
	db      *store.DB
	server  *http.Server
}

// Config contains configuration options for the viewer server.
type Config struct {
	Address string
	DB      *store.DB
}

// NewServer creates a viewer server with the provided configuration.
func NewServer(config Config) *Server {
	s := &Server{
		address: config.Address,
		db:      config.DB,
	}

	s.server = &http.Server{
		Addr:    s.address,
		Handler: LoggingMiddleware(s.setupRoutes()),
	}

	return s
}

// setupRoutes configures the HTTP routes and handlers.
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/", s.handleDashboard)

	mux.HandleFunc("/charts/usage", s.handleUsageChart)
	mux.HandleFunc("/charts/balance", s.handleBalanceChart)
	mux.HandleFunc("/charts/coverage", s.handleCoverageChart)
	mux.HandleFunc("/charts/bboxes", s.handleBBoxChart)
	mux.HandleFunc("/charts/channels", s.handleChannelChart)

	mux.HandleFunc("/api/summary", s.handleSummaryInfo)
	mux.HandleFunc("/api/usage", s.handleUsageData)
	mux.HandleFunc("/api/coverage", s.handleCoverageData)
	mux.HandleFunc("/api/runs", s.handleReportRuns)

	return mux
}

// Start begins the HTTP server in a goroutine and handles graceful shutdown
// when the context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	go func() {
		log.Printf("Starting viewer on %s", s.address)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down viewer...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	if err := s.server.Shutdown(shutdownCtx); err != nil {
		log.Printf("viewer shutdown error: %v", err)
		if err := s.server.Close(); err != nil {
			log.Printf("viewer force close error: %v", err)
		}
	}

	log.Printf("viewer stopped")
	return nil
}

func (s *Server) writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// loadSummary fetches the stored summary for a handler, writing the error
// response itself when nothing is imported yet.
func (s *Server) loadSummary(w http.ResponseWriter) (*dataset.Summary, bool) {
	summary, err := s.db.LoadSummary()
	if errors.Is(err, store.ErrNoSummary) {
		s.writeJSONError(w, http.StatusNotFound, "no summary imported; run summary-import first")
		return nil, false
	}
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to load summary: %v", err))
		return nil, false
	}
	return summary, true
}

// handleHealth handles the health check endpoint.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"status": "ok", "service": "segreport", "version": "%s", "timestamp": "%s"}`, version.Version, time.Now().UTC().Format(time.RFC3339))
}

// handleDashboard renders the landing page with iframes to the chart
// endpoints.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	summary, err := s.db.LoadSummary()
	if errors.Is(err, store.ErrNoSummary) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(emptyDashboardHTML))
		return
	}
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to load summary: %v", err))
		return
	}

	meta := fmt.Sprintf("%d records | source pool %d", len(summary.Records), summary.SourcePoolSize)
	if at, err := s.db.ImportedAt(); err == nil {
		meta += " | imported " + at.UTC().Format(time.RFC3339)
	}

	doc := fmt.Sprintf(dashboardHTML, meta)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(doc))
}

const dashboardHTML = `<!DOCTYPE html>
<html>
<head>
<title>Wound Dataset Report</title>
<style>
  body { font-family: sans-serif; margin: 16px; background: #111; color: #eee; }
  .meta { margin-bottom: 12px; color: #aaa; }
  iframe { width: 100%%; height: 560px; border: 1px solid #333; background: #fff; margin-bottom: 16px; }
</style>
</head>
<body>
<h1>Wound Dataset Report</h1>
<div class="meta">%s</div>
<iframe src="/charts/usage"></iframe>
<iframe src="/charts/balance"></iframe>
<iframe src="/charts/coverage"></iframe>
<iframe src="/charts/bboxes"></iframe>
<iframe src="/charts/channels"></iframe>
</body>
</html>`

const emptyDashboardHTML = `<!DOCTYPE html>
<html>
<head>
<title>Wound Dataset Report</title>
<style>
  body { font-family: sans-serif; margin: 16px; background: #111; color: #eee; }
</style>
</head>
<body>
<h1>Wound Dataset Report</h1>
<p>No summary imported yet. Run the summary-import tool against this database, then reload.</p>
</body>
</html>`
