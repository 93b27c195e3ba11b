package config

import (
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	// Server
	Port    string
	GinMode string

	// Database
	DatabaseDriver string // postgres or sqlite
	DatabaseURL    string

	SessionSecret string
	MediaRoot     string

	// Feed
	PageSize      int
	IndexCacheTTL time.Duration
	CacheSize     int
}

// Load reads the environment (seeded from .env when present) and an
// optional config.yaml. Environment values win over the file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, reading env vars from system")
	}

	v := viper.New()
	v.SetDefault("PORT", "8080")
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("DATABASE_DRIVER", "postgres")
	v.SetDefault("DATABASE_URL", "host=localhost user=postgres password=postgres dbname=yatube port=5432 sslmode=disable TimeZone=UTC")
	v.SetDefault("SESSION_SECRET", "secret_key_change_me")
	v.SetDefault("MEDIA_ROOT", "./media")
	v.SetDefault("PAGE_SIZE", 10)
	v.SetDefault("INDEX_CACHE_TTL", "20s")
	v.SetDefault("CACHE_SIZE", 128)

	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	cfg := &Config{
		Port:           v.GetString("PORT"),
		GinMode:        v.GetString("GIN_MODE"),
		DatabaseDriver: v.GetString("DATABASE_DRIVER"),
		DatabaseURL:    v.GetString("DATABASE_URL"),
		SessionSecret:  v.GetString("SESSION_SECRET"),
		MediaRoot:      v.GetString("MEDIA_ROOT"),
		PageSize:       v.GetInt("PAGE_SIZE"),
		IndexCacheTTL:  parseDuration(v.GetString("INDEX_CACHE_TTL"), 20*time.Second),
		CacheSize:      v.GetInt("CACHE_SIZE"),
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 10
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = 128
	}
	return cfg, nil
}

func parseDuration(s string, def time.Duration) time.Duration {
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	return def
}
