package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// ErrShutdownTimeout is returned when the janitor doesn't stop within timeout.
var ErrShutdownTimeout = errors.New("janitor shutdown timed out")

// Sweeper removes stale scratch directories.
type Sweeper interface {
	Sweep(olderThan time.Duration) (int, error)
}

// Janitor periodically sweeps orphaned scope directories left behind by a
// crash or a killed extraction.
type Janitor struct {
	sweeper  Sweeper
	interval time.Duration
	maxAge   time.Duration
	logger   *slog.Logger

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

// Config holds janitor configuration.
type Config struct {
	Interval time.Duration
	MaxAge   time.Duration
}

// NewJanitor creates a janitor. Non-positive values fall back to a 15 minute
// interval and a one hour age.
func NewJanitor(cfg Config, sweeper Sweeper, logger *slog.Logger) *Janitor {
	if cfg.Interval <= 0 {
		cfg.Interval = 15 * time.Minute
	}
	if cfg.MaxAge <= 0 {
		cfg.MaxAge = time.Hour
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Janitor{
		sweeper:  sweeper,
		interval: cfg.Interval,
		maxAge:   cfg.MaxAge,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start launches the sweep loop.
func (j *Janitor) Start() {
	j.logger.Info("starting temp janitor", "interval", j.interval, "max_age", j.maxAge)

	j.wg.Add(1)
	go j.run()
}

// Stop gracefully stops the sweep loop.
func (j *Janitor) Stop(timeout time.Duration) error {
	j.cancel()

	done := make(chan struct{})
	go func() {
		j.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		j.logger.Info("temp janitor stopped")
		return nil
	case <-time.After(timeout):
		return ErrShutdownTimeout
	}
}

func (j *Janitor) run() {
	defer j.wg.Done()

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-j.ctx.Done():
			return
		case <-ticker.C:
			j.sweepOnce()
		}
	}
}

func (j *Janitor) sweepOnce() {
	removed, err := j.sweeper.Sweep(j.maxAge)
	if err != nil {
		j.logger.Warn("temp sweep incomplete", "removed", removed, "error", err)
		return
	}
	if removed > 0 {
		j.logger.Info("swept orphaned scopes", "removed", removed)
	}
}
