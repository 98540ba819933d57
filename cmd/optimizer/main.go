package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gridpulse/energy-optimizer/api"
	"github.com/gridpulse/energy-optimizer/api/handlers"
	"github.com/gridpulse/energy-optimizer/internal/logger"
	"github.com/gridpulse/energy-optimizer/internal/metrics"
	"github.com/gridpulse/energy-optimizer/internal/orchestrator"
	"github.com/gridpulse/energy-optimizer/internal/provider"
	"github.com/gridpulse/energy-optimizer/internal/resilience"
	"github.com/gridpulse/energy-optimizer/internal/windows"
	"github.com/gridpulse/energy-optimizer/pkg/cache"
	"github.com/gridpulse/energy-optimizer/pkg/config"
	"github.com/gridpulse/energy-optimizer/pkg/database"
	"github.com/gridpulse/energy-optimizer/pkg/database/queries"
	"github.com/gridpulse/energy-optimizer/pkg/models"
)

// @title GridPulse Energy Optimizer API
// @version 1.0
// @description Load simulation, window scoring and action planning for building energy optimization.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to config file")
	migrate := flag.Bool("migrate", false, "run database migrations")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger.Setup(cfg.App.LogLevel, cfg.App.Mode)
	logger.Infof("Starting %s in %s mode", cfg.App.Name, cfg.App.Mode)

	db, err := database.New(cfg.Database.ToDBConfig())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	logger.Info("Database connection established")

	if *migrate {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		logger.Info("Running database migrations")
		migrator := database.NewMigrator(db)
		if err := migrator.Run(ctx); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		logger.Info("Migrations completed successfully")
		return nil
	}

	snapshots, err := buildCache(cfg)
	if err != nil {
		return fmt.Errorf("failed to set up cache: %w", err)
	}
	defer snapshots.Close()

	metrics.Register()

	orch, err := orchestrator.New(cfg, db, snapshots)
	if err != nil {
		return fmt.Errorf("failed to build orchestrator: %w", err)
	}
	if err := orch.Start(); err != nil {
		return fmt.Errorf("failed to start orchestrator: %w", err)
	}
	defer orch.Stop()

	providers := buildProviderFactory(cfg)

	if err := resumeActiveBuildings(db, orch, providers); err != nil {
		logger.Warnf("Failed to resume pipelines: %v", err)
	}

	scorer, err := windows.NewScorer(
		windows.Weights{
			Renewable: cfg.Engine.Weights.Renewable,
			Carbon:    cfg.Engine.Weights.Carbon,
			Price:     cfg.Engine.Weights.Price,
			Secondary: cfg.Engine.Weights.Secondary,
		},
		windows.References{
			PricePerMWh:    cfg.Engine.References.PricePerMWh,
			SecondaryPrice: cfg.Engine.References.SecondaryPrice,
			CarbonCeiling:  cfg.Engine.References.CarbonCeiling,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to build scorer: %w", err)
	}

	server := api.NewServer(cfg, db, snapshots, scorer, orch, providers)

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		logger.Infof("API server listening on port %d", cfg.API.Port)
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdownChan:
		logger.Infof("Received signal %v, shutting down", sig)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}

	logger.Info("Server stopped gracefully")
	return nil
}

func buildCache(cfg *config.Config) (cache.Service, error) {
	if cfg.Cache.Type == "redis" {
		return cache.NewRedisCache(cache.RedisConfig{
			Addr:       cfg.Cache.Addr,
			Password:   cfg.Cache.Password,
			DB:         cfg.Cache.DB,
			DefaultTTL: cfg.Cache.TTL,
		})
	}
	return cache.NewMemoryCache(cfg.Cache.TTL), nil
}

// buildProviderFactory returns shared feed providers. The mock feed
// serves both forecast and weather; the live feed goes through the
// circuit breaker.
func buildProviderFactory(cfg *config.Config) handlers.ProviderFactory {
	if cfg.Provider.Type == "mock" {
		mock := provider.NewMockProvider(provider.MockProviderConfig{})
		return func(region string) (provider.ForecastProvider, provider.WeatherProvider) {
			return mock, mock
		}
	}

	httpFeed := provider.NewHTTPProvider(provider.HTTPProviderConfig{
		Endpoint: cfg.Provider.Endpoint,
		Timeout:  cfg.Provider.Timeout,
	})
	resilient := provider.NewResilientProvider(provider.ResilientProviderConfig{
		Provider:      httpFeed,
		FailLimit:     cfg.Provider.CircuitBreaker.FailLimit,
		Cooldown:      cfg.Provider.CircuitBreaker.Cooldown,
		RetryAttempts: cfg.Provider.RetryAttempts,
		RetryDelay:    cfg.Provider.RetryDelay,
		OnStateChange: func(name string, from, to resilience.State) {
			logger.Warnf("Breaker %s: %s -> %s", name, from, to)
			metrics.FeedBreakerState.WithLabelValues(name).Set(float64(to))
		},
	})

	return func(region string) (provider.ForecastProvider, provider.WeatherProvider) {
		return resilient, httpFeed
	}
}

// resumeActiveBuildings restarts pipelines for buildings that were
// active when the service last stopped.
func resumeActiveBuildings(db *database.DB, orch *orchestrator.Orchestrator, providers handlers.ProviderFactory) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildingRepo := queries.NewBuildingRepository(db.DB)
	buildings, err := buildingRepo.GetAll(ctx)
	if err != nil {
		return err
	}

	for _, building := range buildings {
		if building.Status != models.BuildingStatusActive || building.Topology == nil {
			continue
		}
		forecasts, weather := providers(building.Region)
		if err := orch.StartBuilding(building, forecasts, weather); err != nil {
			logger.WithBuilding(building.ID).Errorf("Failed to resume pipeline: %v", err)
			continue
		}
		logger.WithBuilding(building.ID).Info("Pipeline resumed")
	}
	return nil
}
