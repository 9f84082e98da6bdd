package maintenance

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	iauth "github.com/wardrobify/wardrobify/internal/auth"
	"github.com/wardrobify/wardrobify/internal/services"
	"github.com/wardrobify/wardrobify/pkg/logger"
)

const (
	defaultSchedule         = "@hourly"
	defaultReadingRetention = 30 * 24 * time.Hour
)

// Cleaner runs background hygiene: sweeping session rows already past the
// expiry window and purging old readings. Read-time expiry checks do not
// depend on it.
type Cleaner struct {
	sessions  *iauth.SessionService
	readings  *services.ReadingService
	cron      *cron.Cron
	now       func() time.Time
	log       *zap.Logger
	schedule  string
	retention time.Duration
}

// Option customises the Cleaner.
type Option func(*Cleaner)

// WithCron injects a preconfigured cron instance, primarily for testing.
func WithCron(c *cron.Cron) Option {
	return func(cleaner *Cleaner) {
		if c != nil {
			cleaner.cron = c
		}
	}
}

// WithNow overrides the clock used for retention comparisons.
func WithNow(now func() time.Time) Option {
	return func(cleaner *Cleaner) {
		if now != nil {
			cleaner.now = now
		}
	}
}

// WithSchedule overrides the cron expression for both sweeps.
func WithSchedule(spec string) Option {
	return func(cleaner *Cleaner) {
		if spec != "" {
			cleaner.schedule = spec
		}
	}
}

// WithReadingRetention adjusts how long readings are kept.
func WithReadingRetention(retention time.Duration) Option {
	return func(cleaner *Cleaner) {
		if retention > 0 {
			cleaner.retention = retention
		}
	}
}

// NewCleaner constructs a Cleaner with sensible defaults. A nil dependency
// results in the corresponding sweep being skipped.
func NewCleaner(sessions *iauth.SessionService, readings *services.ReadingService, opts ...Option) *Cleaner {
	cleaner := &Cleaner{
		sessions:  sessions,
		readings:  readings,
		now:       time.Now,
		schedule:  defaultSchedule,
		retention: defaultReadingRetention,
		log:       logger.WithModule("maintenance"),
	}

	for _, opt := range opts {
		opt(cleaner)
	}

	if cleaner.cron == nil {
		cleaner.cron = cron.New(cron.WithLogger(cron.DiscardLogger))
	}

	return cleaner
}

// Start registers the sweeps with the cron scheduler and launches it.
func (c *Cleaner) Start() error {
	if c.sessions == nil && c.readings == nil {
		return nil
	}

	if _, err := c.cron.AddFunc(c.schedule, func() {
		if err := c.RunOnce(context.Background()); err != nil {
			c.log.Warn("maintenance sweep failed", zap.Error(err))
		}
	}); err != nil {
		return err
	}

	c.cron.Start()
	return nil
}

// Stop halts the underlying scheduler, waiting for any running jobs to complete.
func (c *Cleaner) Stop() context.Context {
	if c.cron == nil {
		return context.Background()
	}
	return c.cron.Stop()
}

// RunOnce executes all configured sweeps sequentially. Primarily used in
// tests and during graceful shutdown.
func (c *Cleaner) RunOnce(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var errs error

	if c.sessions != nil {
		if _, err := c.sessions.CleanupExpired(ctx); err != nil {
			errs = multierr.Append(errs, err)
		}
	}

	if c.readings != nil {
		if _, err := c.readings.PurgeOlderThan(ctx, c.now().Add(-c.retention)); err != nil {
			errs = multierr.Append(errs, err)
		}
	}

	return errs
}
