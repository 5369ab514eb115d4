package collector

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/vbarros/aquaponia-monitor/internal/models"
	"github.com/vbarros/aquaponia-monitor/internal/store"
)

const (
	DEFAULT_INTERVAL             = time.Minute
	DEFAULT_MAINTENANCE_INTERVAL = time.Hour

	// defaultRetentionDays applies when the dataRetention setting is
	// missing or not a number.
	defaultRetentionDays = 30

	// statsRetentionMultiplier keeps daily aggregates around well past the
	// raw readings they were computed from.
	statsRetentionMultiplier = 12
)

// Gateway is the slice of the remote channel client the collector needs.
type Gateway interface {
	FetchLatest(ctx context.Context) (*models.Reading, error)
	Publish(ctx context.Context, reading *models.Reading) (int64, error)
}

// Config holds the collector cadences.
type Config struct {
	Interval            time.Duration
	MaintenanceInterval time.Duration
}

// Collector drives the recurring fetch-persist-relay cycle plus the hourly
// maintenance jobs (daily stats rollup, retention pruning). One collector runs
// per process; cycles never overlap.
type Collector struct {
	gateway  Gateway
	readings *store.ReadingStore
	settings *store.SettingsStore
	stats    *store.StatsStore
	config   Config
	logger   *slog.Logger

	cancel  context.CancelFunc
	done    chan struct{}
	inCycle atomic.Bool
}

// New creates a collector. The logger must not be nil.
func New(
	gateway Gateway,
	readings *store.ReadingStore,
	settings *store.SettingsStore,
	stats *store.StatsStore,
	config Config,
	logger *slog.Logger,
) *Collector {
	if config.Interval <= 0 {
		config.Interval = DEFAULT_INTERVAL
	}
	if config.MaintenanceInterval <= 0 {
		config.MaintenanceInterval = DEFAULT_MAINTENANCE_INTERVAL
	}

	return &Collector{
		gateway:  gateway,
		readings: readings,
		settings: settings,
		stats:    stats,
		config:   config,
		logger:   logger,
	}
}

// Start launches the collection loop. It runs one immediate cycle and then
// fires on the configured cadence until Stop is called or the parent context
// is cancelled.
func (c *Collector) Start(ctx context.Context) {
	c.Stop()

	ctx, c.cancel = context.WithCancel(ctx)
	c.done = make(chan struct{})

	go func() {
		defer close(c.done)

		c.logger.Info("Starting data collection",
			"interval", c.config.Interval,
			"maintenance_interval", c.config.MaintenanceInterval,
		)

		c.collect(ctx)

		ticker := time.NewTicker(c.config.Interval)
		defer ticker.Stop()

		maintenance := time.NewTicker(c.config.MaintenanceInterval)
		defer maintenance.Stop()

		for {
			select {
			case <-ticker.C:
				c.collect(ctx)
			case <-maintenance.C:
				c.maintain(ctx)
			case <-ctx.Done():
				c.logger.Info("Data collection stopped")
				return
			}
		}
	}()
}

// Stop cancels the collection loop and waits for a running cycle to finish,
// so no half-committed work is abandoned.
func (c *Collector) Stop() {
	if c.cancel == nil {
		return
	}

	c.cancel()
	c.cancel = nil
	<-c.done
}

// collect runs one cycle, guarded so a tick that fires while a previous cycle
// is still in flight is skipped rather than overlapped. Cycle errors are
// logged and swallowed; the next tick retries naturally.
func (c *Collector) collect(ctx context.Context) {
	if !c.inCycle.CompareAndSwap(false, true) {
		c.logger.Warn("Previous collection cycle still in flight, skipping tick")
		return
	}
	defer c.inCycle.Store(false)

	if err := c.RunCycle(ctx); err != nil {
		c.logger.Error("Collection cycle failed", "error", err)
	}
}

// RunCycle performs one fetch-persist-relay cycle. An empty remote feed ends
// the cycle with no store mutation. The reading counts as collected once
// persisted; the writeback publish is best-effort.
func (c *Collector) RunCycle(ctx context.Context) error {
	reading, err := c.gateway.FetchLatest(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch latest sample: %w", err)
	}

	if reading == nil {
		c.logger.Debug("No data collected in this cycle")
		return nil
	}

	if err := c.readings.Insert(ctx, reading); err != nil {
		return fmt.Errorf("failed to persist reading: %w", err)
	}

	c.logger.Info("Reading collected",
		"id", reading.ID,
		"timestamp", reading.Timestamp,
	)

	entryID, err := c.gateway.Publish(ctx, reading)
	switch {
	case err != nil:
		c.logger.Warn("Writeback publish failed", "error", err)
	case entryID == 0:
		c.logger.Warn("Channel rejected writeback")
	default:
		c.logger.Debug("Writeback published", "entry_id", entryID)
	}

	return nil
}

// maintain rolls up daily stats and prunes old rows. Yesterday is recomputed
// too so the first run after midnight finalizes it.
func (c *Collector) maintain(ctx context.Context) {
	now := time.Now().UTC()

	for _, day := range []time.Time{now, now.AddDate(0, 0, -1)} {
		if err := c.stats.Rollup(ctx, day); err != nil {
			c.logger.Error("Daily stats rollup failed", "error", err)
		}
	}

	retention := c.retentionDays(ctx)
	cutoff := now.AddDate(0, 0, -retention)

	pruned, err := c.readings.PruneOlderThan(ctx, cutoff)
	if err != nil {
		c.logger.Error("Reading retention pruning failed", "error", err)
	} else if pruned > 0 {
		c.logger.Info("Pruned old readings", "count", pruned, "retention_days", retention)
	}

	statsCutoff := now.AddDate(0, 0, -retention*statsRetentionMultiplier)
	if _, err := c.stats.PruneOlderThan(ctx, statsCutoff); err != nil {
		c.logger.Error("Daily stats pruning failed", "error", err)
	}
}

// retentionDays reads the dataRetention setting, falling back to the default
// when the setting is absent or not numeric.
func (c *Collector) retentionDays(ctx context.Context) int {
	values, err := c.settings.GetAll(ctx)
	if err != nil {
		c.logger.Warn("Failed to load settings, using default retention", "error", err)
		return defaultRetentionDays
	}

	if days, ok := values["dataRetention"].(float64); ok && days > 0 {
		return int(days)
	}

	return defaultRetentionDays
}
