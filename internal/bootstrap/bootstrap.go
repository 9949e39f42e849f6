package bootstrap

import (
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"metalstats-service/internal/application"
	"metalstats-service/internal/config"
	"metalstats-service/internal/domain"
	"metalstats-service/internal/infrastructure/chart"
	"metalstats-service/internal/infrastructure/logx"
	"metalstats-service/internal/infrastructure/provider"
	"metalstats-service/internal/infrastructure/publish"
	"metalstats-service/internal/infrastructure/rediscache"
	"metalstats-service/internal/infrastructure/site"
	"metalstats-service/internal/infrastructure/sqlite"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Repos struct {
	Prices application.PriceRepo
	Stats  application.StatRepo
}

func ProvideLogger() *zap.Logger { return logx.L() }

func ProvideConfig() config.Config { return config.Load() }

// ProvideDB opens the SQLite database, running migrations first.
func ProvideDB(log *zap.Logger, cfg config.Config) (*sqlite.DB, func(), error) {
	if err := sqlite.RunMigrations(cfg.DBPath); err != nil {
		return nil, func() {}, fmt.Errorf("migrate: %w", err)
	}
	db, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return nil, func() {}, err
	}
	cleanup := func() {
		if log != nil {
			log.Info("closing sqlite")
		}
		_ = db.Close()
	}
	return db, cleanup, nil
}

func ProvideRepos(db *sqlite.DB) Repos {
	return Repos{
		Prices: sqlite.NewPriceRepo(db),
		Stats:  sqlite.NewStatRepo(db),
	}
}

func ProvideSpotProvider(cfg config.Config) application.SpotProvider {
	if cfg.MetalAPIKey == "" {
		// No key configured; fall back to the fake so local runs still work.
		return provider.NewFakeSpot(2000, 25)
	}
	return &provider.MetalpriceAPIProvider{
		BaseURL: cfg.MetalAPIBase,
		APIKey:  cfg.MetalAPIKey,
		Client:  &http.Client{Timeout: cfg.RequestTimeout},
	}
}

func ProvideFixingProvider(cfg config.Config) application.FixingProvider {
	return &provider.NBPProvider{
		BaseURL: cfg.NBPAPIBase,
		Client:  &http.Client{Timeout: cfg.RequestTimeout},
	}
}

// ProvideFixingCache builds the Redis-backed fixing cache when enabled,
// otherwise a noop.
func ProvideFixingCache(cfg config.Config) (application.FixingCache, func(), error) {
	if cfg.FixingCacheBackend != "redis" {
		return application.NoopFixingCache{}, func() {}, nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	return rediscache.New(rdb, cfg.FixingTTL), func() { _ = rdb.Close() }, nil
}

func ProvideChartRenderer(cfg config.Config) application.ChartRenderer {
	return chart.NewRenderer(cfg.ChartsDir)
}

func ProvideSiteRenderer(cfg config.Config) application.SiteRenderer {
	return site.NewWriter(cfg.IndexPath)
}

func ProvidePublisher(cfg config.Config, log *zap.Logger) application.Publisher {
	if !cfg.PublishEnabled {
		return application.NoopPublisher{}
	}
	return &publish.GitPublisher{
		Dir:    cfg.RepoDir,
		Remote: cfg.GitRemote,
		Paths:  publishPaths(cfg),
		User:   cfg.GitUser,
		Token:  cfg.GitToken,
		Log:    log,
	}
}

// publishPaths lists the artifacts the updater regenerates, relative to the
// repo dir.
func publishPaths(cfg config.Config) []string {
	rel := func(p string) string {
		r, err := filepath.Rel(cfg.RepoDir, p)
		if err != nil {
			return p
		}
		return r
	}
	return []string{rel(cfg.DBPath), rel(cfg.ChartsDir), rel(cfg.IndexPath)}
}

func ProvideService(cfg config.Config, r Repos, sp application.SpotProvider, fp application.FixingProvider, fc application.FixingCache, log *zap.Logger) (*application.MetalStatsService, error) {
	minDate, err := domain.ParseDate(cfg.MinDate)
	if err != nil {
		return nil, fmt.Errorf("MIN_DATE: %w", err)
	}
	return application.NewMetalStatsService(r.Prices, r.Stats, sp, fp, fc,
		application.WithMinDate(minDate),
		application.WithSpotCache(cfg.SpotCache),
		application.WithFixingFallback(cfg.FixingFallbackDays),
		application.WithRenderers(ProvideChartRenderer(cfg), ProvideSiteRenderer(cfg)),
		application.WithPublisher(ProvidePublisher(cfg, log)),
		application.WithLogger(log),
	), nil
}

// ParseUpdateAt parses the HH:MM schedule into hour and minute, UTC.
func ParseUpdateAt(at string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", at)
	if err != nil {
		return 0, 0, fmt.Errorf("UPDATE_AT: %w", err)
	}
	return t.Hour(), t.Minute(), nil
}
