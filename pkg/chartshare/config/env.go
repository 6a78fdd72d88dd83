package config

import (
	"fmt"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
)

// envConfig is the environment-variable surface, read with cleanenv.
type envConfig struct {
	Port        string `env:"PORT" env-default:"8080"`
	Environment string `env:"ENVIRONMENT" env-default:"development"`
	SourceHost  string `env:"SOURCE_HOST"`

	DatabaseURL string `env:"DATABASE_URL"`
	DBSchema    string `env:"DB_SCHEMA" env-default:"chartshare"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" env-default:"0"`
}

// WithEnv applies environment variable overrides.
//
// Environment variable mapping:
//
//	PORT         - Server port (default: "8080")
//	ENVIRONMENT  - Runtime environment (default: "development")
//	SOURCE_HOST  - Deployment base host emitted in wire serializations
//	DATABASE_URL - Connection string. "postgresql://..." selects postgres;
//	               empty or "memory" uses the in-memory store
//	DB_SCHEMA    - Postgres schema (default: "chartshare")
//	REDIS_ADDR   - Redis address for the discovery cache; empty uses the
//	               in-memory cache
func WithEnv() Option {
	return func(c *ServerConfig) error {
		var env envConfig
		if err := cleanenv.ReadEnv(&env); err != nil {
			return fmt.Errorf("failed to read environment: %w", err)
		}

		c.Port = env.Port
		c.Environment = env.Environment
		c.SourceHost = env.SourceHost
		c.DBSchema = env.DBSchema

		switch {
		case env.DatabaseURL == "" || env.DatabaseURL == "memory":
			c.DatabaseType = "memory"
			c.DatabaseURL = ""
		case strings.HasPrefix(env.DatabaseURL, "postgresql://"),
			strings.HasPrefix(env.DatabaseURL, "postgres://"):
			c.DatabaseType = "postgres"
			c.DatabaseURL = env.DatabaseURL
		default:
			return fmt.Errorf("unsupported DATABASE_URL format: %s (use 'memory' or 'postgresql://...')", env.DatabaseURL)
		}

		if env.RedisAddr == "" {
			c.CacheType = "memory"
		} else {
			c.CacheType = "redis"
			c.RedisAddr = env.RedisAddr
			c.RedisPassword = env.RedisPassword
			c.RedisDB = env.RedisDB
		}

		return nil
	}
}
