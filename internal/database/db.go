package database

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/wardrobify/wardrobify/pkg/logger"
)

// ErrConnectFailed marks a connection failure that persisted through the
// whole retry budget. Callers can test for it with errors.Is.
var ErrConnectFailed = errors.New("database: connection failed")

// Config contains database connection options.
type Config struct {
	Driver   string
	Path     string // SQLite database path when Driver == sqlite
	DSN      string // Optional DSN override
	Host     string
	Port     int
	Name     string
	User     string
	Password string
	Options  map[string]string

	// Bounded retry policy for the initial connection.
	RetryAttempts int
	RetryDelay    time.Duration
}

const (
	defaultRetryAttempts = 12
	defaultRetryDelay    = 5 * time.Second
)

// Open initialises a gorm.DB using the provided configuration, retrying the
// connection a fixed number of times with a fixed delay. After the budget is
// exhausted the returned error wraps ErrConnectFailed and the last cause.
func Open(cfg Config) (*gorm.DB, error) {
	attempts := cfg.RetryAttempts
	if attempts <= 0 {
		attempts = defaultRetryAttempts
	}
	delay := cfg.RetryDelay
	if delay <= 0 {
		delay = defaultRetryDelay
	}

	log := logger.WithModule("database")

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		db, err := openOnce(cfg)
		if err == nil {
			return db, nil
		}
		lastErr = err

		if attempt < attempts {
			log.Warn("connection attempt failed",
				zap.Int("attempt", attempt),
				zap.Int("max_attempts", attempts),
				zap.Duration("retry_delay", delay),
				zap.Error(err),
			)
			time.Sleep(delay)
		}
	}

	return nil, fmt.Errorf("%w after %d attempts: %v", ErrConnectFailed, attempts, lastErr)
}

func openOnce(cfg Config) (*gorm.DB, error) {
	driver := strings.ToLower(cfg.Driver)
	if driver == "" {
		driver = "sqlite"
	}

	switch driver {
	case "sqlite":
		return openSQLite(cfg)
	case "mysql":
		return openMySQL(cfg)
	case "postgres", "postgresql":
		return openPostgres(cfg)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}
