package viewer

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/woundlab/segreport/internal/aggregate"
	"github.com/woundlab/segreport/internal/dataset"
)

type summaryInfo struct {
	Records            int                        `json:"records"`
	SourcePoolSize     int                        `json:"source_pool_size"`
	ImportedAt         string                     `json:"imported_at,omitempty"`
	TargetDistribution dataset.TargetDistribution `json:"target_distribution"`
}

// handleSummaryInfo returns the stored summary's headline numbers.
func (s *Server) handleSummaryInfo(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	summary, ok := s.loadSummary(w)
	if !ok {
		return
	}

	info := summaryInfo{
		Records:            len(summary.Records),
		SourcePoolSize:     summary.SourcePoolSize,
		TargetDistribution: summary.Target,
	}
	if at, err := s.db.ImportedAt(); err == nil {
		info.ImportedAt = at.UTC().Format(time.RFC3339)
	}

	if err := json.NewEncoder(w).Encode(info); err != nil {
		log.Printf("failed to encode summary info: %v", err)
	}
}

type usageData struct {
	PoolSize int                      `json:"pool_size"`
	Total    int                      `json:"total"`
	Counts   aggregate.UsageHistogram `json:"counts"`
}

// handleUsageData returns the full usage histogram, zero counts included.
func (s *Server) handleUsageData(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	summary, ok := s.loadSummary(w)
	if !ok {
		return
	}

	hist, err := aggregate.ComputeUsageHistogram(summary.Records, summary.SourcePoolSize)
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to compute usage histogram: %v", err))
		return
	}

	data := usageData{
		PoolSize: summary.SourcePoolSize,
		Total:    hist.Total(),
		Counts:   hist,
	}

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode usage data: %v", err)
	}
}

// handleCoverageData returns per-class coverage statistics.
func (s *Server) handleCoverageData(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	summary, ok := s.loadSummary(w)
	if !ok {
		return
	}

	stats, err := aggregate.ComputeCoverageStats(summary.Records, dataset.DefaultClassOrder)
	if errors.Is(err, aggregate.ErrInvalidInput) {
		s.writeJSONError(w, http.StatusNotFound, "summary has no records to compute coverage from")
		return
	}
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to compute coverage stats: %v", err))
		return
	}

	if err := json.NewEncoder(w).Encode(stats); err != nil {
		log.Printf("failed to encode coverage stats: %v", err)
	}
}

// handleReportRuns returns recent report runs, newest first. The limit query
// parameter caps the result; it defaults to 20.
func (s *Server) handleReportRuns(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	limit := 20
	if l := r.URL.Query().Get("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 {
			limit = v
		}
	}

	runs, err := s.db.ListReportRuns(limit)
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to list report runs: %v", err))
		return
	}

	if err := json.NewEncoder(w).Encode(runs); err != nil {
		log.Printf("failed to encode report runs: %v", err)
	}
}
