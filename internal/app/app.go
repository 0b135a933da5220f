package app

import (
	"fmt"
	"net/http"

	"github.com/jonboulle/clockwork"

	"github.com/riskibarqy/fantasy-insights/external/sleeper"
	"github.com/riskibarqy/fantasy-insights/internal/config"
	"github.com/riskibarqy/fantasy-insights/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/fantasy-insights/internal/infrastructure/repository/disk"
	"github.com/riskibarqy/fantasy-insights/internal/interfaces/httpapi"
	basecache "github.com/riskibarqy/fantasy-insights/internal/platform/cache"
	"github.com/riskibarqy/fantasy-insights/internal/platform/logging"
	"github.com/riskibarqy/fantasy-insights/internal/platform/resilience"
	"github.com/riskibarqy/fantasy-insights/internal/usecase"
)

// Services is the wired usecase layer shared by the API and the snapshot CLI.
type Services struct {
	Insights  *usecase.InsightService
	Catalog   *usecase.PlayerCatalogService
	Cache     *usecase.CacheService
	Snapshots *disk.PlayerSnapshotStore
}

func NewServices(cfg config.Config, logger *logging.Logger) (*Services, error) {
	if logger == nil {
		logger = logging.Default()
	}
	clock := clockwork.NewRealClock()

	sleeperClient := sleeper.NewClient(sleeper.ClientConfig{
		BaseURL: cfg.SleeperBaseURL,
		Timeout: cfg.SleeperTimeout,
		Logger:  logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.SleeperCircuitEnabled,
			FailureThreshold: cfg.SleeperCircuitFailureCount,
			OpenTimeout:      cfg.SleeperCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.SleeperCircuitHalfOpenMaxReq,
		},
		Clock: clock,
	})

	queryCache := basecache.NewStore(cfg.QueryCacheTTL, basecache.WithClock(clock))
	leagueRepo := cache.NewLeagueRepository(sleeperClient, queryCache)
	trendingRepo := cache.NewTrendingRepository(sleeperClient, queryCache)

	snapshots, err := disk.NewPlayerSnapshotStore(disk.PlayerSnapshotStoreConfig{
		Path:   cfg.PlayerCachePath,
		TTL:    cfg.PlayerCacheTTL,
		Clock:  clock,
		Logger: logger,
	})
	if err != nil {
		return nil, fmt.Errorf("build player snapshot store: %w", err)
	}

	catalog := usecase.NewPlayerCatalogService(snapshots, sleeperClient, clock, logger)
	insights := usecase.NewInsightService(leagueRepo, catalog, trendingRepo, usecase.InsightServiceConfig{
		DefaultUserID: cfg.SleeperUserID,
		DefaultSeason: cfg.SleeperSeason,
		MaxWorkers:    cfg.AggregatorMaxWorkers,
		Logger:        logger,
	})

	return &Services{
		Insights:  insights,
		Catalog:   catalog,
		Cache:     usecase.NewCacheService(snapshots, queryCache, logger),
		Snapshots: snapshots,
	}, nil
}

func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, error) {
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	services, err := NewServices(cfg, logger)
	if err != nil {
		return nil, err
	}

	handler := httpapi.NewHandler(services.Insights, services.Cache, logger)
	router := httpapi.NewRouter(handler, logger)

	return &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}, nil
}
