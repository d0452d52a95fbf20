package commands

import (
	"context"
	"fmt"

	"github.com/filingsight/filingsight/internal/analysis"
	"github.com/filingsight/filingsight/internal/contracts"
	"github.com/filingsight/filingsight/internal/external/alphavantage"
	"github.com/filingsight/filingsight/internal/external/sec"
	"github.com/filingsight/filingsight/internal/report"
	"github.com/filingsight/filingsight/internal/store"
	"github.com/filingsight/filingsight/pkg/config"
	"github.com/filingsight/filingsight/pkg/database"
	"github.com/filingsight/filingsight/pkg/logger"
	"github.com/filingsight/filingsight/pkg/redis"
)

// deps holds everything a command needs, wired from configuration.
// db and the repositories are nil when DATABASE_URL is unset; redis is
// skipped when disabled or unreachable.
type deps struct {
	cfg      *config.Config
	log      *logger.Logger
	service  *analysis.Service
	renderer *report.Renderer
	edgar    *sec.Client
	vendor   *alphavantage.Client
	facts    *store.FactRepository
	txs      *store.TransactionRepository
	results  *store.ResultRepository
	db       *database.DB
	redis    *redis.Client
}

// buildDeps loads config and wires the full pipeline.
func buildDeps() (*deps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg)
	d := &deps{cfg: cfg, log: log}

	var cache *redis.Cache
	var limiter *redis.RateLimiter
	if cfg.Redis.Enabled {
		client, err := redis.New(cfg)
		if err != nil {
			log.WithError(err).Warn("Redis unavailable, running without cache")
		} else {
			d.redis = client
			cache = redis.NewCache(client, "filingsight")
			limiter = redis.NewRateLimiter(client, "filingsight")
		}
	}

	d.edgar = sec.NewClient(cfg.SEC, cache, log)
	d.vendor = alphavantage.NewClient(cfg.AlphaVantage, cache, log)
	if limiter != nil {
		d.edgar = d.edgar.WithRateLimiter(limiter)
		d.vendor = d.vendor.WithRateLimiter(limiter)
	}

	var edgar analysis.FilingsSource
	if cfg.SEC.UserAgent != "" {
		edgar = d.edgar
	} else {
		log.Warn("SEC_USER_AGENT not set, EDGAR disabled; using vendor data only")
	}

	d.service = analysis.NewService(edgar, d.vendor, cfg.Analysis, log)
	d.renderer = report.NewRenderer(log)

	if cfg.Database.URL != "" {
		db, err := database.New(cfg)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		if err := store.Migrate(context.Background(), db.Pool); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrate schema: %w", err)
		}
		d.db = db
		d.facts = store.NewFactRepository(db.Pool)
		d.txs = store.NewTransactionRepository(db.Pool)
		d.results = store.NewResultRepository(db.Pool)
		d.service.WithRepositories(d.facts, d.txs, d.results)
		log.Info("Connected to database")
	} else {
		log.Warn("DATABASE_URL not set, running without persistence")
	}

	return d, nil
}

// resultRepo returns the result repository as an interface, keeping it
// a true nil when storage is not configured.
func (d *deps) resultRepo() contracts.ResultRepository {
	if d.results == nil {
		return nil
	}
	return d.results
}

// close releases connections held by the command.
func (d *deps) close() {
	if d.db != nil {
		d.db.Close()
	}
	if d.redis != nil {
		d.redis.Close()
	}
}
