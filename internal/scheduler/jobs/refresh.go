// Package jobs holds the scheduled jobs wired into the scheduler.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/filingsight/filingsight/internal/analysis"
	"github.com/filingsight/filingsight/internal/report"
	"github.com/filingsight/filingsight/pkg/config"
	"github.com/filingsight/filingsight/pkg/logger"
)

// RefreshJob re-analyzes every tracked ticker and rewrites its report.
type RefreshJob struct {
	service  *analysis.Service
	renderer *report.Renderer
	cfg      config.AnalysisConfig
	logger   *logger.Logger
}

// NewRefreshJob creates the refresh job. renderer may be nil to skip
// writing report files.
func NewRefreshJob(service *analysis.Service, renderer *report.Renderer, cfg config.AnalysisConfig, log *logger.Logger) *RefreshJob {
	return &RefreshJob{
		service:  service,
		renderer: renderer,
		cfg:      cfg,
		logger:   log,
	}
}

// Name returns the job name.
func (j *RefreshJob) Name() string {
	return "analysis_refresh"
}

// Schedule returns the cron schedule from configuration.
func (j *RefreshJob) Schedule() string {
	return j.cfg.RefreshCronSpec
}

// Run analyzes every tracked ticker; per-ticker failures are collected
// rather than aborting the batch.
func (j *RefreshJob) Run(ctx context.Context) error {
	if len(j.cfg.TrackedTickers) == 0 {
		j.logger.Info("No tracked tickers configured, skipping refresh")
		return nil
	}

	asOf := time.Now().UTC()
	results, err := j.service.AnalyzeAll(ctx, j.cfg.TrackedTickers, asOf)

	if j.renderer != nil {
		for _, result := range results {
			if _, werr := j.renderer.Write(j.cfg.OutputDir, result, nil); werr != nil {
				j.logger.WithError(werr).Warn("Failed to write report")
			}
		}
	}

	if err != nil {
		return fmt.Errorf("refresh tracked tickers: %w", err)
	}

	j.logger.WithFields(map[string]interface{}{
		"tickers": len(results),
	}).Info("Tracked tickers refreshed")
	return nil
}
