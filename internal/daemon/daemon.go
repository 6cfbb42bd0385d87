// Package daemon runs periodic battery collection with its optional HTTP and
// D-Bus surfaces.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/cptspacemanspiff/abat/internal/collector"
	"github.com/cptspacemanspiff/abat/internal/config"
	dbussvc "github.com/cptspacemanspiff/abat/internal/dbus"
	"github.com/cptspacemanspiff/abat/internal/logging"
	"github.com/cptspacemanspiff/abat/internal/metrics"
	"github.com/cptspacemanspiff/abat/internal/server"
)

// Store is the subset of storage.DB the daemon needs.
type Store interface {
	InsertBatterySample(s collector.BatterySample) error
	LatestBatterySample() (*collector.BatterySample, error)
	BatterySamplesInRange(from, to int64) ([]collector.BatterySample, error)
	DeleteOlderThan(before int64) (int64, error)
}

// Daemon collects battery samples on a ticker and stores them.
type Daemon struct {
	cfg       *config.Config
	store     Store
	collector *collector.Collector
	logger    *slog.Logger
	sessionID string
	now       func() time.Time

	batteryLog *slog.Logger
	storageLog *slog.Logger
	cleanupLog *slog.Logger
}

// New wires a Daemon. reader is normally cfg.Source().
func New(cfg *config.Config, store Store, reader collector.Reader, logger *slog.Logger) *Daemon {
	if logger == nil {
		logger = logging.Discard()
	}
	sessionID := uuid.NewString()
	return &Daemon{
		cfg:        cfg,
		store:      store,
		collector:  collector.NewCollector(reader, cfg.Variant(), sessionID),
		logger:     logger,
		sessionID:  sessionID,
		now:        time.Now,
		batteryLog: logger.With("topic", logging.TopicBattery),
		storageLog: logger.With("topic", logging.TopicStorage),
		cleanupLog: logger.With("topic", logging.TopicCleanup),
	}
}

// SessionID identifies the samples stored by this run.
func (d *Daemon) SessionID() string {
	return d.sessionID
}

// Run collects until ctx is cancelled. Collection failures are logged and
// counted, never returned; only a failing HTTP listener stops Run early.
func (d *Daemon) Run(ctx context.Context) error {
	var httpErr <-chan error
	if addr := d.cfg.Server.ListenAddr; addr != "" {
		srv := server.New(d.store, d.logger)
		if d.cfg.Server.Metrics {
			srv.EnableMetrics()
		}
		httpServer, errCh := srv.ListenAndServe(addr)
		httpErr = errCh
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = httpServer.Shutdown(shutdownCtx)
		}()
		d.logger.Info("HTTP API listening", "addr", addr, "metrics", d.cfg.Server.Metrics)
	}

	if d.cfg.Server.DBus {
		conn, err := dbussvc.NewService(d.store, d.logger).Export()
		if err != nil {
			d.logger.Warn("D-Bus service unavailable", "err", err)
		} else {
			defer conn.Close()
			d.logger.Info("D-Bus service registered", "name", dbussvc.BusName)
		}
	}

	interval := d.cfg.CollectionInterval()
	d.logger.Info("abat monitor started",
		"session", d.sessionID,
		"variant", d.cfg.Ioreg.Variant,
		"interval", interval,
		"db", d.cfg.Storage.DBPath)

	d.CollectOnce(ctx)
	d.CleanupOnce()

	collectTicker := time.NewTicker(interval)
	defer collectTicker.Stop()
	cleanupTicker := time.NewTicker(d.cfg.CleanupInterval())
	defer cleanupTicker.Stop()

	for {
		select {
		case <-collectTicker.C:
			d.CollectOnce(ctx)
		case <-cleanupTicker.C:
			d.CleanupOnce()
		case err := <-httpErr:
			if err != nil {
				return fmt.Errorf("http server: %w", err)
			}
			httpErr = nil
		case <-ctx.Done():
			d.logger.Info("shutting down")
			return nil
		}
	}
}

// CollectOnce takes and stores one sample. It returns the sample, or nil
// when collection or storage failed.
func (d *Daemon) CollectOnce(ctx context.Context) *collector.BatterySample {
	start := time.Now()
	sample, err := d.collector.Collect(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	metrics.ObserveCollect(time.Since(start), err)
	if err != nil {
		d.batteryLog.Warn("collect failed", "code", collector.Classify(err), "err", err)
		return nil
	}

	if !sample.Info().Consistent() {
		d.batteryLog.Debug("inconsistent capacities",
			"current", sample.CurrentCapacity,
			"max", sample.MaxCapacity,
			"design", sample.DesignCapacity)
	}
	metrics.ObserveSample(sample)
	d.batteryLog.Info("sample",
		"charge_pct", sample.ChargePct,
		"health_pct", sample.HealthPct,
		"current", sample.CurrentCapacity,
		"max", sample.MaxCapacity)

	if err := d.store.InsertBatterySample(*sample); err != nil {
		d.storageLog.Error("store battery", "err", err)
		return nil
	}
	return sample
}

// CleanupOnce deletes samples older than the retention period.
func (d *Daemon) CleanupOnce() int64 {
	cutoff := d.now().Add(-d.cfg.Retention()).Unix()
	n, err := d.store.DeleteOlderThan(cutoff)
	if err != nil {
		d.cleanupLog.Error("delete old samples", "err", err)
		return 0
	}
	metrics.SamplesDeleted.Add(float64(n))
	if n > 0 {
		d.cleanupLog.Info("deleted old samples", "count", n, "before", cutoff)
	}
	return n
}
