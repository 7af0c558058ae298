// Package app wires configuration into a running analysis service.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/newthinker/elite/internal/api"
	"github.com/newthinker/elite/internal/cache"
	"github.com/newthinker/elite/internal/collector"
	"github.com/newthinker/elite/internal/collector/crypto"
	"github.com/newthinker/elite/internal/collector/yahoo"
	"github.com/newthinker/elite/internal/config"
	"github.com/newthinker/elite/internal/core"
	"github.com/newthinker/elite/internal/llm/factory"
	"github.com/newthinker/elite/internal/metrics"
	"github.com/newthinker/elite/internal/narrator"
	"github.com/newthinker/elite/internal/service"
	"github.com/newthinker/elite/internal/storage/archive"
	"go.uber.org/zap"
)

// App owns every long-lived component built from a Config
type App struct {
	cfg        *config.Config
	logger     *zap.Logger
	collectors *collector.Registry
	metrics    *metrics.Registry
	cache      *cache.Cache
	recorder   *archive.Recorder
	narrator   *narrator.Narrator
	service    *service.Service
}

// New builds the application. When providers are given they replace the
// configured market data sources.
func New(cfg *config.Config, logger *zap.Logger, providers ...collector.Provider) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &App{
		cfg:        cfg,
		logger:     logger,
		collectors: collector.NewRegistry(logger),
	}

	if len(providers) == 0 {
		providers = a.configuredProviders()
	}
	resilience := collector.ResilienceOptions{
		RatePerSecond: cfg.Resilience.RatePerSecond,
		Burst:         cfg.Resilience.Burst,
		MaxFailures:   cfg.Resilience.BreakerMaxFailures,
		Timeout:       cfg.Resilience.BreakerTimeout,
		CallTimeout:   cfg.Providers.Timeout,
	}
	for _, p := range providers {
		a.collectors.Register(collector.NewResilient(p, resilience, logger))
	}
	if len(a.collectors.GetAll()) == 0 {
		logger.Warn("no market data providers enabled, every analysis will lack data")
	}

	opts := service.Options{
		Concurrency: cfg.Scan.Concurrency,
		Equities:    cfg.Scan.Equities,
		Cryptos:     cfg.Scan.Cryptos,
	}

	if cfg.Metrics.Enabled {
		a.metrics = metrics.NewRegistry()
		opts.Metrics = a.metrics
	}

	if cfg.Cache.Enabled {
		a.cache = cache.NewFromConfig(cfg.Cache)
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := a.cache.Ping(ctx); err != nil {
			logger.Warn("result cache unreachable, continuing", zap.String("addr", cfg.Cache.Addr), zap.Error(err))
		}
		cancel()
		opts.Cache = a.cache
	}

	if cfg.Archive.Enabled {
		store, err := archive.NewFromConfig(cfg.Archive)
		if err != nil {
			a.Close()
			return nil, core.WrapError(core.ErrConfigInvalid, fmt.Errorf("archive: %w", err))
		}
		a.recorder = archive.NewRecorder(store, logger)
		opts.Archive = a.recorder
	}

	if cfg.Narrator.Enabled {
		provider, err := factory.New(cfg.LLM)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("narrator: %w", err)
		}
		a.narrator = narrator.New(provider, cfg.Narrator.MaxTokens, logger)
	}

	a.service = service.New(a.collectors, opts, logger)

	logger.Debug("application assembled",
		zap.Int("providers", len(a.collectors.GetAll())),
		zap.Bool("cache", a.cache != nil),
		zap.Bool("archive", a.recorder != nil),
		zap.Bool("narrator", a.narrator != nil),
		zap.Bool("metrics", a.metrics != nil),
	)
	return a, nil
}

func (a *App) configuredProviders() []collector.Provider {
	var providers []collector.Provider
	if a.cfg.Providers.Yahoo.Enabled {
		providers = append(providers, yahoo.NewWithBaseURL(a.cfg.Providers.Yahoo.BaseURL))
	}
	if a.cfg.Providers.Crypto.Enabled {
		providers = append(providers, crypto.New(crypto.Options{
			Exchanges:       a.cfg.Providers.Crypto.Providers,
			DefaultQuote:    a.cfg.Providers.Crypto.DefaultQuote,
			CoinGeckoAPIKey: a.cfg.Providers.Crypto.CoinGeckoAPIKey,
		}, a.logger))
	}
	return providers
}

// Service returns the analysis service
func (a *App) Service() *service.Service {
	return a.service
}

// Narrator returns the narrator, or nil when narration is disabled
func (a *App) Narrator() *narrator.Narrator {
	return a.narrator
}

// Recorder returns the archive recorder, or nil when archiving is disabled
func (a *App) Recorder() *archive.Recorder {
	return a.recorder
}

// NewServer creates the HTTP API for this application
func (a *App) NewServer() (*api.Server, error) {
	deps := api.Dependencies{
		Service: a.service,
		Metrics: a.metrics,
	}
	if a.narrator != nil {
		deps.Narrator = a.narrator
	}
	if a.recorder != nil {
		deps.Archive = a.recorder
	}
	for _, p := range a.collectors.GetAll() {
		if h, ok := p.(api.ProviderHealth); ok {
			deps.Providers = append(deps.Providers, h)
		}
	}
	return api.NewServer(api.Config{
		Host:         a.cfg.Server.Host,
		Port:         a.cfg.Server.Port,
		ReadTimeout:  a.cfg.Server.ReadTimeout,
		WriteTimeout: a.cfg.Server.WriteTimeout,
		APIKey:       a.cfg.Server.APIKey,
		MetricsPath:  a.cfg.Metrics.Path,
	}, deps, a.logger)
}

// Close releases external connections
func (a *App) Close() error {
	var errs []error
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing cache: %w", err))
		}
	}
	return errors.Join(errs...)
}
