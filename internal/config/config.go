package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Common
	Env      string
	LogLevel string
	// API
	Port string
	// Storage
	DBPath string
	// Ingestion
	MetalAPIBase string
	MetalAPIKey  string
	MinDate      string
	SpotCache    bool
	// FX fixing
	NBPAPIBase         string
	FixingFallbackDays int
	FixingCacheBackend string // "none" or "redis"
	RedisAddr          string
	RedisPassword      string
	RedisDB            int
	FixingTTL          time.Duration
	// Rendering
	ChartsDir string
	IndexPath string
	// Publishing
	PublishEnabled bool
	RepoDir        string
	GitRemote      string
	GitUser        string
	GitToken       string
	// Updater
	UpdateAt       string // HH:MM, UTC
	RequestTimeout time.Duration
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoiDef(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func boolDef(s string, def bool) bool {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return def
	}
	return b
}

// Load reads environment variables and applies defaults.
func Load() Config {
	return Config{
		Env:                getEnv("ENV", "local"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		Port:               getEnv("PORT", "8080"),
		DBPath:             getEnv("DB_PATH", "data/metalstats.db"),
		MetalAPIBase:       getEnv("METALPRICE_API_BASE", "https://api.metalpriceapi.com"),
		MetalAPIKey:        getEnv("METALPRICE_API_KEY", ""),
		MinDate:            getEnv("MIN_DATE", "2026-01-02"),
		SpotCache:          boolDef(getEnv("SPOT_CACHE", "true"), true),
		NBPAPIBase:         getEnv("NBP_API_BASE", "https://api.nbp.pl"),
		FixingFallbackDays: atoiDef(getEnv("FIXING_FALLBACK_DAYS", "7"), 7),
		FixingCacheBackend: getEnv("FIXING_CACHE_BACKEND", "none"),
		RedisAddr:          getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		RedisDB:            atoiDef(getEnv("REDIS_DB", "0"), 0),
		FixingTTL:          time.Duration(atoiDef(getEnv("FIXING_TTL_MS", "86400000"), 86400000)) * time.Millisecond,
		ChartsDir:          getEnv("CHARTS_DIR", "charts"),
		IndexPath:          getEnv("INDEX_PATH", "index.html"),
		PublishEnabled:     boolDef(getEnv("PUBLISH_ENABLED", "false"), false),
		RepoDir:            getEnv("REPO_DIR", "."),
		GitRemote:          getEnv("GIT_REMOTE", "origin"),
		GitUser:            getEnv("GIT_USER", ""),
		GitToken:           getEnv("GIT_TOKEN", ""),
		UpdateAt:           getEnv("UPDATE_AT", "06:30"),
		RequestTimeout:     time.Duration(atoiDef(getEnv("REQUEST_TIMEOUT_MS", "30000"), 30000)) * time.Millisecond,
	}
}
