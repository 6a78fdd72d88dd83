// Package config assembles a chartshare.Service from declarative settings.
package config

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yumetaro/chart-share/pkg/chartshare"
	"github.com/yumetaro/chart-share/pkg/chartshare/assets"
	cachememory "github.com/yumetaro/chart-share/pkg/chartshare/cache/memory"
	cacheredis "github.com/yumetaro/chart-share/pkg/chartshare/cache/redis"
	repomemory "github.com/yumetaro/chart-share/pkg/chartshare/repo/memory"
	repopg "github.com/yumetaro/chart-share/pkg/chartshare/repo/postgres"
)

// Option applies configuration to a ServerConfig instance.
type Option func(*ServerConfig) error

// Load constructs a ServerConfig by applying the supplied options on top of library defaults.
func Load(opts ...Option) (*ServerConfig, error) {
	cfg := defaults()

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func defaults() ServerConfig {
	return ServerConfig{
		Port:         "8080",
		Environment:  "development",
		DatabaseType: "memory",
		DBSchema:     "chartshare",
		CacheType:    "memory",
	}
}

// ServerConfig represents server configuration for the chart-share service
type ServerConfig struct {
	Port        string
	Environment string // development, production, testing

	// SourceHost is the deployment base host emitted as the wire "source"
	// field and used for packaged asset URLs.
	SourceHost string

	// Database configuration
	DatabaseURL  string
	DatabaseType string // "memory", "postgres"
	DBSchema     string // Postgres schema to use (default: chartshare)

	// Discovery cache configuration
	CacheType     string // "memory", "redis"
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}

	if c.DatabaseType != "memory" && c.DatabaseType != "postgres" {
		return errors.New("database_type must be 'memory' or 'postgres'")
	}
	if c.DatabaseType == "postgres" && c.DatabaseURL == "" {
		return errors.New("database_url is required when using postgres")
	}

	if c.CacheType != "memory" && c.CacheType != "redis" {
		return errors.New("cache_type must be 'memory' or 'redis'")
	}
	if c.CacheType == "redis" && c.RedisAddr == "" {
		return errors.New("redis_addr is required when using redis")
	}

	return nil
}

// BuildService creates a Service instance from the server configuration
func (c *ServerConfig) BuildService(ctx context.Context) (chartshare.Service, error) {
	repo, err := c.buildRepository(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build repository: %w", err)
	}

	cache, err := c.buildCache(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build cache: %w", err)
	}

	return chartshare.New(
		chartshare.WithRepository(repo),
		chartshare.WithCache(cache),
		chartshare.WithAssetRegistry(assets.NewWithDefaults(c.SourceHost)),
		chartshare.WithSourceHost(c.SourceHost),
	)
}

// buildRepository creates a Repository based on the configuration
func (c *ServerConfig) buildRepository(ctx context.Context) (chartshare.Repository, error) {
	switch c.DatabaseType {
	case "memory":
		return repomemory.New(), nil
	case "postgres":
		cfg, err := pgxpool.ParseConfig(c.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse DATABASE_URL: %w", err)
		}
		schema := c.DBSchema
		cfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
			if schema == "" {
				return nil
			}
			_, err := conn.Exec(ctx, fmt.Sprintf("SET search_path TO %s", schema))
			return err
		}
		pool, err := pgxpool.NewWithConfig(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create pgx pool: %w", err)
		}
		return repopg.NewWithPool(pool), nil
	default:
		return nil, fmt.Errorf("unsupported database type: %s", c.DatabaseType)
	}
}

// buildCache creates a Cache based on the configuration
func (c *ServerConfig) buildCache(ctx context.Context) (chartshare.Cache, error) {
	switch c.CacheType {
	case "memory":
		return cachememory.New(), nil
	case "redis":
		return cacheredis.NewWithConfig(ctx, cacheredis.Config{
			Addr:     c.RedisAddr,
			Password: c.RedisPassword,
			DB:       c.RedisDB,
		})
	default:
		return nil, fmt.Errorf("unsupported cache type: %s", c.CacheType)
	}
}
