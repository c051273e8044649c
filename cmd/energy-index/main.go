package main

// @title           Energy Policy Index API
// @version         1.0
// @description     Keyword density index over state energy legislation. Scores bills against a fixed set of energy policy n-grams and serves the resulting reports.

// @contact.name   Custodia Labs
// @contact.url    https://github.com/custodia-labs/energy-index/issues

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8080
// @BasePath  /api/v1
// @schemes   http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token. Format: "Bearer {token}"

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/custodia-labs/energy-index/docs"
	"github.com/custodia-labs/energy-index/internal/adapters/driven/auth"
	"github.com/custodia-labs/energy-index/internal/adapters/driven/chart"
	"github.com/custodia-labs/energy-index/internal/adapters/driven/csvstats"
	"github.com/custodia-labs/energy-index/internal/adapters/driven/filesystem"
	"github.com/custodia-labs/energy-index/internal/adapters/driven/lemma"
	"github.com/custodia-labs/energy-index/internal/adapters/driving/http"
	"github.com/custodia-labs/energy-index/internal/config"
	"github.com/custodia-labs/energy-index/internal/core/domain"
	"github.com/custodia-labs/energy-index/internal/core/ports/driven"
	"github.com/custodia-labs/energy-index/internal/core/services"
	"github.com/custodia-labs/energy-index/internal/normalisers"
	"github.com/custodia-labs/energy-index/internal/runtime"
	"github.com/custodia-labs/energy-index/internal/textfilters"
	"github.com/custodia-labs/energy-index/internal/worker"
)

var version = "dev"

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	// Run mode from command line arg overrides RUN_MODE
	if len(os.Args) > 1 {
		cfg.App.Mode = os.Args[1]
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.App.LogLevel}))
	slog.SetDefault(logger)
	logger.Info("energy-index starting", "version", version, "mode", cfg.App.Mode)

	// Handle shutdown signals
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	analysisConfig, err := config.LoadAnalysis(cfg.Data.AnalysisFile)
	if err != nil {
		return err
	}

	// Infrastructure
	backends, err := runtime.Connect(ctx, runtime.Options{
		DatabaseURL:     cfg.Storage.DatabaseURL,
		MaxOpenConns:    cfg.Storage.MaxOpenConns,
		MaxIdleConns:    cfg.Storage.MaxIdleConns,
		ConnMaxLifetime: cfg.Storage.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Storage.ConnMaxIdleTime,
		InitSchema:      cfg.Storage.InitSchema,
		RedisURL:        cfg.Storage.RedisURL,
		CacheTTL:        cfg.Storage.CacheTTL,
		Logger:          logger,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := backends.Close(); err != nil {
			logger.Warn("closing backends", "error", err)
		}
	}()

	runtimeConfig := backends.Config()
	logger.Info("backends ready",
		"cache", runtimeConfig.CacheBackend,
		"store", runtimeConfig.StoreBackend,
		"lock", runtimeConfig.LockBackend,
	)

	if cfg.App.Mode == config.ModeImport {
		return runImport(ctx, cfg, backends.BillStore(), logger)
	}

	// Text processing
	var lemmatizer driven.Lemmatizer
	if analysisConfig.Lemmatize {
		english, err := lemma.NewEnglish()
		if err != nil {
			return err
		}
		lemmatizer = english
	}
	tokenizer := textfilters.NewTokenizer(analysisConfig.Stopwords, lemmatizer)

	indexService, err := services.NewIndexService(services.IndexServiceConfig{
		Config:      analysisConfig,
		Tokenizer:   tokenizer,
		Normalisers: normalisers.DefaultRegistry(),
		Concurrency: cfg.Worker.IndexConcurrency,
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	// Output
	artifacts, err := filesystem.NewArtifactDir(cfg.Data.OutputDir)
	if err != nil {
		return err
	}
	renderer := chart.NewRenderer()

	loaders := map[domain.CorpusSource]driven.CorpusLoader{
		domain.CorpusSourceFile: filesystem.NewCorpusLoader(),
	}
	if store := backends.BillStore(); store != nil {
		loaders[domain.CorpusSourcePostgres] = store
	}

	orchestrator := services.NewRunOrchestrator(services.RunOrchestratorConfig{
		Loaders:  loaders,
		Analysis: indexService,
		Config:   analysisConfig,
		Writer:   filesystem.NewReportWriter(artifacts),
		Cache:    backends.Cache(),
		RunStore: backends.RunStore(),
		Lock:     backends.Lock(),
		Renderer: renderer,
		Sink:     artifacts,
		Logger:   logger,
	})

	switch cfg.App.Mode {
	case config.ModeIndex:
		return runIndex(ctx, cfg, orchestrator, logger)
	case config.ModeCharts:
		return runCharts(ctx, cfg, renderer, artifacts, logger)
	case config.ModeServe, config.ModeAll:
		if cfg.App.Mode == config.ModeAll {
			if err := runIndex(ctx, cfg, orchestrator, logger); err != nil {
				logger.Error("index run failed", "error", err)
			}
			if err := runCharts(ctx, cfg, renderer, artifacts, logger); err != nil {
				logger.Error("state charts failed", "error", err)
			}
		}

		if cfg.Worker.ReindexInterval > 0 {
			scheduler := worker.NewScheduler(worker.SchedulerConfig{
				Worker:   newWorker(cfg, orchestrator, logger),
				Jobs:     cfg.Data.Corpora,
				Interval: cfg.Worker.ReindexInterval,
				Logger:   logger,
			})
			scheduler.Start(ctx)
			defer scheduler.Stop()
		}

		pingers := make(map[string]http.Pinger)
		for name, p := range backends.Pingers() {
			pingers[name] = p
		}

		server := http.NewServer(http.Config{
			Host:        cfg.Server.Host,
			Port:        cfg.Server.Port,
			Version:     version,
			CORSOrigins: cfg.Server.CORSOrigins,
			Logger:      logger,
		}, http.Services{
			Auth:         services.NewAuthService(auth.NewAdapter(cfg.Auth.JWTSecret), cfg.Auth.Accounts(), cfg.Auth.TokenTTL),
			Analysis:     indexService,
			Reports:      services.NewReportService(backends.Cache(), backends.RunStore(), logger),
			Orchestrator: orchestrator,
			Jobs:         cfg.Data.Corpora,
			Pingers:      pingers,
		})
		return server.Start(ctx)
	}
	return fmt.Errorf("unknown mode %q", cfg.App.Mode)
}

func newWorker(cfg *config.Config, orchestrator *services.RunOrchestrator, logger *slog.Logger) *worker.Worker {
	return worker.NewWorker(worker.WorkerConfig{
		Orchestrator: orchestrator,
		Logger:       logger,
		Concurrency:  cfg.Worker.Concurrency,
	})
}

// runIndex analyses every configured corpus.
func runIndex(ctx context.Context, cfg *config.Config, orchestrator *services.RunOrchestrator, logger *slog.Logger) error {
	return newWorker(cfg, orchestrator, logger).Run(ctx, cfg.Data.Corpora).Err()
}

// runImport copies the configured corpus files into PostgreSQL.
func runImport(ctx context.Context, cfg *config.Config, store driven.BillStore, logger *slog.Logger) error {
	svc := services.NewImportService(filesystem.NewCorpusLoader(), store, logger)
	counts, err := svc.Import(ctx, cfg.Data.Corpora)
	if err != nil {
		return err
	}
	logger.Info("import finished", "corpora", len(counts))
	return nil
}

// runCharts renders the EIA state comparison charts.
func runCharts(ctx context.Context, cfg *config.Config, renderer driven.ChartRenderer, sink driven.ArtifactSink, logger *slog.Logger) error {
	svc := services.NewChartService(csvstats.NewLoader(cfg.Data.EIADataDir), renderer, sink, logger)
	paths, err := svc.RenderStateCharts(ctx)
	if err != nil {
		return err
	}
	logger.Info("state charts written", "count", len(paths))
	return nil
}
