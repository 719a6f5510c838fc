package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/clever-tips/internal/config"
	"github.com/yourusername/clever-tips/internal/database"
	"github.com/yourusername/clever-tips/internal/logger"
	"github.com/yourusername/clever-tips/internal/publisher"
	"github.com/yourusername/clever-tips/internal/service"
	"github.com/yourusername/clever-tips/internal/stats"
	"github.com/yourusername/clever-tips/internal/store"
	"github.com/yourusername/clever-tips/internal/strategy"
)

// app holds the wired components shared by the subcommands
type app struct {
	db         *database.DB
	httpClient *stats.RateLimitedHTTPClient
	keys       store.KeyStore
	repo       store.PredictionRepository
	hub        *publisher.Hub
	service    *service.PredictionService
	log        *logrus.Logger
}

type appOptions struct {
	withStream bool
}

// newApp wires stats client, form cache, storage, publishers and the service
func newApp(ctx context.Context, cfg *config.Config, log *logrus.Logger, opts appOptions) (*app, error) {
	a := &app{log: log}

	if cfg.Database.Enabled {
		db, err := database.Initialize(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		a.db = db
		a.repo = store.NewPostgresPredictionRepository(db)
		log.Info("Database connection established")
	} else {
		a.repo = store.NewMemoryPredictionRepository()
	}

	keys, err := store.NewKeyStore(ctx, cfg, a.db)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.keys = keys

	httpCfg := stats.DefaultHTTPClientConfig()
	httpCfg.Timeout = cfg.StatsTimeout()
	httpCfg.MaxRetries = cfg.Stats.MaxRetries
	httpCfg.RateLimit = cfg.Stats.RateLimit
	httpCfg.CircuitBreakerMax = cfg.Stats.CircuitBreakerMax
	a.httpClient = stats.NewRateLimitedHTTPClient(httpCfg, log)

	apiClient := stats.NewAPIClient(a.httpClient, cfg.Stats.BaseURL, cfg.Stats.APIKey, log)
	var forms stats.FormProvider = apiClient
	if ttl := cfg.FormCacheTTL(); ttl > 0 {
		forms = stats.NewCachedFormProvider(apiClient, ttl)
	}

	strategyOpts := strategy.Options{BigClubs: cfg.Engine.BigClubs}
	strat, err := strategy.Resolve(cfg.Engine.Strategy, strategyOpts)
	if err != nil {
		a.Close()
		return nil, err
	}

	publishers := make([]publisher.Publisher, 0, 2)
	if cfg.Telegram.Enabled {
		tg, err := publisher.NewTelegramPublisher(publisher.TelegramOptions{
			Token:        cfg.Telegram.Token,
			ChatID:       cfg.Telegram.ChatID,
			SendInterval: cfg.TelegramSendInterval(),
			Digest:       cfg.Telegram.Digest,
		}, a.keys, publisher.NewFormatter(cfg.Location()), logger.NewAuditLogger(log))
		if err != nil {
			a.Close()
			return nil, err
		}
		publishers = append(publishers, tg)
	}
	if opts.withStream {
		a.hub = publisher.NewHub(log)
		publishers = append(publishers, a.hub)
	}

	a.service = service.NewPredictionService(
		apiClient,
		forms,
		strat,
		a.repo,
		publisher.NewMultiPublisher(publishers...),
		service.Options{
			Diversify:       cfg.Engine.Diversify,
			Publish:         len(publishers) > 0,
			StrategyOptions: strategyOpts,
		},
		log,
	)

	log.WithFields(logrus.Fields{
		"strategy":   strat.Name(),
		"publishers": len(publishers),
		"dedup":      cfg.Dedup.Backend,
		"database":   cfg.Database.Enabled,
	}).Info("Prediction service ready")

	return a, nil
}

// Close releases connections held by the app
func (a *app) Close() error {
	var errs []error
	if a.keys != nil {
		errs = append(errs, a.keys.Close())
	}
	if a.httpClient != nil {
		errs = append(errs, a.httpClient.Close())
	}
	if a.db != nil {
		a.db.Close()
	}
	return errors.Join(errs...)
}
