// Basketlens - Customer Segmentation and Purchase Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketlens

package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/tomtom215/basketlens/internal/analysis"
	"github.com/tomtom215/basketlens/internal/cache"
	"github.com/tomtom215/basketlens/internal/config"
	"github.com/tomtom215/basketlens/internal/metrics"
	"github.com/tomtom215/basketlens/internal/models"
	"github.com/tomtom215/basketlens/internal/recommend"
	"github.com/tomtom215/basketlens/internal/segment"
)

// recommendTimeout bounds a single recommendation request.
const recommendTimeout = 10 * time.Second

// ResultSource provides the latest analysis run. *analysis.Store implements
// it.
type ResultSource interface {
	Latest() *analysis.Result
}

// Handler serves the analysis endpoints.
type Handler struct {
	results   ResultSource
	config    config.APIConfig
	version   string
	startTime time.Time

	// recCache holds responses keyed by run ID, customer and k; nil when
	// disabled.
	recCache *cache.LRU[*recommend.Response]
}

// NewHandler creates a handler reading from results.
func NewHandler(results ResultSource, cfg config.APIConfig, version string) *Handler {
	if cfg.DefaultPageSize <= 0 {
		cfg.DefaultPageSize = analysis.DefaultPageSize
	}
	if cfg.MaxPageSize <= 0 {
		cfg.MaxPageSize = analysis.MaxPageSize
	}
	h := &Handler{
		results:   results,
		config:    cfg,
		version:   version,
		startTime: time.Now(),
	}
	if cfg.RecommendCacheSize > 0 {
		h.recCache = cache.NewLRU[*recommend.Response](cfg.RecommendCacheSize, cfg.RecommendCacheTTL)
	}
	return h
}

// StatusResponse describes the latest analysis run.
type StatusResponse struct {
	Ready       bool                      `json:"ready"`
	RunID       string                    `json:"run_id,omitempty"`
	Status      analysis.Status           `json:"status,omitempty"`
	ErrorKind   models.ErrorKind          `json:"error_kind,omitempty"`
	Error       string                    `json:"error,omitempty"`
	StartedAt   *time.Time                `json:"started_at,omitempty"`
	CompletedAt *time.Time                `json:"completed_at,omitempty"`
	Stats       *analysis.RunStats        `json:"stats,omitempty"`
	Training    *recommend.TrainingStatus `json:"training,omitempty"`
}

// Health reports liveness. It always answers 200; Ready is false until the
// first analysis run has been published.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	result := h.results.Latest()

	health := models.HealthStatus{
		Status:  "healthy",
		Version: h.version,
		Ready:   result != nil,
		Uptime:  time.Since(h.startTime).Seconds(),
	}
	switch {
	case result == nil:
		health.Status = "starting"
	case result.Status == analysis.StatusFailed:
		health.Status = "degraded"
	}
	if result != nil {
		completed := result.CompletedAt
		health.LastRunAt = &completed
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status:   "success",
		Data:     health,
		Metadata: h.metadata(result, time.Now()),
	})
}

// Status returns the latest run, including failed runs, and the training
// status of its recommendation engine.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	result := h.results.Latest()

	status := StatusResponse{Ready: result != nil}
	if result != nil {
		startedAt, completedAt := result.StartedAt, result.CompletedAt
		stats := result.Stats
		status.RunID = result.RunID
		status.Status = result.Status
		status.ErrorKind = result.ErrorKind
		status.Error = result.Error
		status.StartedAt = &startedAt
		status.CompletedAt = &completedAt
		status.Stats = &stats
		if result.Engine != nil {
			training := result.Engine.Status()
			status.Training = &training
		}
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status:   "success",
		Data:     status,
		Metadata: h.metadata(result, start),
	})
}

// Summary returns the batch statistics of the latest run.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	result, ok := h.completedRun(w, r)
	if !ok {
		return
	}

	summary := result.Summary
	if summary == nil {
		summary = &segment.Summary{}
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status:   "success",
		Data:     summary,
		Metadata: h.metadata(result, start),
	})
}

// Segments returns one page of segment assignments.
func (h *Handler) Segments(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	req, apiErr := parseSegmentsRequest(r, h.config.DefaultPageSize)
	if apiErr != nil {
		respondValidationError(w, r, apiErr)
		return
	}

	result, ok := h.completedRun(w, r)
	if !ok {
		return
	}

	size := min(req.PageSize, h.config.MaxPageSize)
	page := analysis.Page(result.Assignments(), req.Page, size)

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status:   "success",
		Data:     page,
		Metadata: h.metadata(result, start),
	})
}

// Segment returns the assignment of one customer.
func (h *Handler) Segment(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	customerID, apiErr := customerIDParam(r)
	if apiErr != nil {
		respondValidationError(w, r, apiErr)
		return
	}

	result, ok := h.completedRun(w, r)
	if !ok {
		return
	}

	var assignment segment.Assignment
	found := false
	if result.Segments != nil {
		assignment, found = result.Segments.Lookup(customerID)
	}
	if !found {
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound,
			fmt.Sprintf("customer %d has no segment in run %s", customerID, result.RunID), nil)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status:   "success",
		Data:     assignment,
		Metadata: h.metadata(result, start),
	})
}

// Recommendations returns the top products for a customer.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	req, apiErr := parseRecommendationsRequest(r)
	if apiErr != nil {
		respondValidationError(w, r, apiErr)
		return
	}

	result, ok := h.completedRun(w, r)
	if !ok {
		return
	}

	resp, err := h.recommend(r.Context(), result, req)
	if err != nil {
		respondKindError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status:   "success",
		Data:     resp,
		Metadata: h.metadata(result, start),
	})
}

// recommend serves from the cache when enabled. Errors are not cached.
func (h *Handler) recommend(ctx context.Context, result *analysis.Result, req RecommendationsRequest) (*recommend.Response, error) {
	k := req.EffectiveK()
	key := fmt.Sprintf("%s/%d/%d", result.RunID, req.CustomerID, k)
	if h.recCache != nil {
		if resp, ok := h.recCache.Get(key); ok {
			metrics.RecordRecommendationCache(true)
			return resp, nil
		}
		metrics.RecordRecommendationCache(false)
	}

	ctx, cancel := context.WithTimeout(ctx, recommendTimeout)
	defer cancel()

	resp, err := result.Recommend(ctx, req.CustomerID, k)
	if err != nil {
		return nil, err
	}
	if h.recCache != nil {
		h.recCache.Add(key, resp)
	}
	return resp, nil
}

// NotFound answers unknown routes with the JSON envelope.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "route not found", nil)
}

// MethodNotAllowed answers known routes called with the wrong method.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	respondError(w, r, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "method not allowed", nil)
}

// completedRun returns the latest successful or empty run. It writes 503
// before the first run and the mapped error status for a failed run.
func (h *Handler) completedRun(w http.ResponseWriter, r *http.Request) (*analysis.Result, bool) {
	result := h.results.Latest()
	if result == nil {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeNotReady,
			"no analysis run has completed yet", nil)
		return nil, false
	}
	if result.Status == analysis.StatusFailed {
		status, code := statusForKind(result.ErrorKind)
		respondError(w, r, status, code,
			fmt.Sprintf("analysis run %s failed: %s", result.RunID, result.Error), nil)
		return nil, false
	}
	return result, true
}

func (h *Handler) metadata(result *analysis.Result, start time.Time) models.Metadata {
	meta := models.Metadata{
		Timestamp:   time.Now(),
		QueryTimeMS: time.Since(start).Milliseconds(),
	}
	if result != nil {
		meta.RunID = result.RunID
	}
	return meta
}
