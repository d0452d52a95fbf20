// Package handlers holds the HTTP handlers behind the mux router.
package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/filingsight/filingsight/internal/contracts"
	"github.com/filingsight/filingsight/pkg/logger"
)

const defaultListLimit = 20

// Analyzer runs the analysis pipeline for one ticker.
type Analyzer interface {
	Analyze(ctx context.Context, ticker string, asOf time.Time) (*contracts.AnalysisResult, error)
}

// AnalysisHandler serves analysis runs and stored results.
type AnalysisHandler struct {
	analyzer Analyzer
	results  contracts.ResultRepository
	logger   *logger.Logger
}

// NewAnalysisHandler creates the handler. results may be nil when the
// server runs without persistence; stored-result endpoints then return
// 503.
func NewAnalysisHandler(analyzer Analyzer, results contracts.ResultRepository, log *logger.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		analyzer: analyzer,
		results:  results,
		logger:   log,
	}
}

// Analyze runs the full pipeline for a ticker and returns the result.
// POST /api/analyze/{ticker}?as_of=YYYY-MM-DD
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ticker := strings.ToUpper(mux.Vars(r)["ticker"])
	if ticker == "" {
		respondError(w, http.StatusBadRequest, "ticker is required")
		return
	}

	asOf := time.Now().UTC()
	if raw := r.URL.Query().Get("as_of"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "as_of must be YYYY-MM-DD")
			return
		}
		asOf = parsed
	}

	result, err := h.analyzer.Analyze(ctx, ticker, asOf)
	if err != nil {
		h.logger.WithError(err).Error("Analysis failed")
		respondError(w, http.StatusBadGateway, "Analysis failed: "+err.Error())
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// GetLatest returns the newest stored result for a ticker.
// GET /api/results/{ticker}
func (h *AnalysisHandler) GetLatest(w http.ResponseWriter, r *http.Request) {
	if h.results == nil {
		respondError(w, http.StatusServiceUnavailable, "Result storage not configured")
		return
	}

	ticker := strings.ToUpper(mux.Vars(r)["ticker"])
	result, err := h.results.GetLatestResult(r.Context(), ticker)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load result")
		respondError(w, http.StatusInternalServerError, "Failed to load result")
		return
	}
	if result == nil {
		respondError(w, http.StatusNotFound, "No result for "+ticker)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// ListResults returns the newest stored results across tickers.
// GET /api/results?limit=N
func (h *AnalysisHandler) ListResults(w http.ResponseWriter, r *http.Request) {
	if h.results == nil {
		respondError(w, http.StatusServiceUnavailable, "Result storage not configured")
		return
	}

	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	results, err := h.results.ListResults(r.Context(), limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list results")
		respondError(w, http.StatusInternalServerError, "Failed to list results")
		return
	}
	if results == nil {
		results = []*contracts.AnalysisResult{}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":   len(results),
		"results": results,
	})
}
