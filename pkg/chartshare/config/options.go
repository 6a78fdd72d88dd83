package config

import (
	"fmt"
)

// WithPort sets the server port
func WithPort(port string) Option {
	return func(c *ServerConfig) error {
		if port == "" {
			return fmt.Errorf("port cannot be empty")
		}
		c.Port = port
		return nil
	}
}

// WithEnvironment sets the environment (development, production, testing)
func WithEnvironment(env string) Option {
	return func(c *ServerConfig) error {
		if env == "" {
			return fmt.Errorf("environment cannot be empty")
		}
		c.Environment = env
		return nil
	}
}

// WithSourceHost sets the deployment base host
func WithSourceHost(host string) Option {
	return func(c *ServerConfig) error {
		c.SourceHost = host
		return nil
	}
}

// WithDatabase configures the database backend
func WithDatabase(dbType, url string) Option {
	return func(c *ServerConfig) error {
		if dbType != "memory" && dbType != "postgres" {
			return fmt.Errorf("database type must be 'memory' or 'postgres', got: %s", dbType)
		}
		if dbType == "postgres" && url == "" {
			return fmt.Errorf("database URL is required for postgres")
		}
		c.DatabaseType = dbType
		c.DatabaseURL = url
		return nil
	}
}

// WithDatabaseSchema sets the database schema (for Postgres)
func WithDatabaseSchema(schema string) Option {
	return func(c *ServerConfig) error {
		c.DBSchema = schema
		return nil
	}
}

// WithCache configures the discovery cache backend
func WithCache(cacheType, redisAddr string) Option {
	return func(c *ServerConfig) error {
		if cacheType != "memory" && cacheType != "redis" {
			return fmt.Errorf("cache type must be 'memory' or 'redis', got: %s", cacheType)
		}
		if cacheType == "redis" && redisAddr == "" {
			return fmt.Errorf("redis address is required for redis cache")
		}
		c.CacheType = cacheType
		c.RedisAddr = redisAddr
		return nil
	}
}
