package app

import (
	"github.com/wardrobify/wardrobify/internal/auth"
	"github.com/wardrobify/wardrobify/internal/cache"
	"github.com/wardrobify/wardrobify/internal/database"
	"github.com/wardrobify/wardrobify/internal/services"
)

// DatabaseConfig translates config into the storage layer's options.
func (c DatabaseConfig) DatabaseConfig() database.Config {
	return database.Config{
		Driver:        c.Driver,
		Path:          c.Path,
		DSN:           c.DSN,
		Host:          c.Host,
		Port:          c.Port,
		Name:          c.Name,
		User:          c.User,
		Password:      c.Password,
		Options:       c.Options,
		RetryAttempts: c.RetryAttempts,
		RetryDelay:    c.RetryDelay,
	}
}

// RedisConfig translates config into the cache layer's options.
func (c RedisCacheConfig) RedisConfig() cache.RedisConfig {
	return cache.RedisConfig{
		Address:  c.Address,
		Username: c.Username,
		Password: c.Password,
		DB:       c.DB,
		Timeout:  c.Timeout,
	}
}

// SessionServiceConfig translates config into session service options.
func (c ServerConfig) SessionServiceConfig(sessionCache auth.SessionCache) auth.SessionConfig {
	return auth.SessionConfig{
		TTL:   c.SessionTTL,
		Cache: sessionCache,
	}
}

// RecommendationConfig translates config into recommendation service options.
func (c ServicesConfig) RecommendationConfig() services.RecommendationConfig {
	return services.RecommendationConfig{
		GeocoderEndpoint: c.GeocoderEndpoint,
		WeatherEndpoint:  c.WeatherEndpoint,
		AIEndpoint:       c.AIEndpoint,
		Email:            c.Email,
		StudentID:        c.StudentID,
		Timeout:          c.Timeout,
	}
}
