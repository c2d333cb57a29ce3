package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/MorpheusAIs/mor-stats-backend/internal/alert"
	"github.com/MorpheusAIs/mor-stats-backend/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// poolExhaustionRatio is the in-use/max-open ratio above which an alert fires.
const poolExhaustionRatio = 0.8

type dbStatsProvider interface {
	Stats() sql.DBStats
}

type dbPoolStatsGauges struct {
	open         prometheus.Gauge
	inUse        prometheus.Gauge
	idle         prometheus.Gauge
	waitCount    prometheus.Gauge
	waitDuration prometheus.Gauge
}

func defaultDBPoolStatsGauges() dbPoolStatsGauges {
	return dbPoolStatsGauges{
		open:         metrics.DBPoolOpen,
		inUse:        metrics.DBPoolInUse,
		idle:         metrics.DBPoolIdle,
		waitCount:    metrics.DBPoolWaitCount,
		waitDuration: metrics.DBPoolWaitDurationSeconds,
	}
}

func collectDBPoolStats(db dbStatsProvider, gauges dbPoolStatsGauges) (stats sql.DBStats, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("db pool stats collection panicked: %v", r)
		}
	}()
	if db == nil {
		return stats, fmt.Errorf("db stats provider is nil")
	}

	stats = db.Stats()
	gauges.open.Set(float64(stats.OpenConnections))
	gauges.inUse.Set(float64(stats.InUse))
	gauges.idle.Set(float64(stats.Idle))
	gauges.waitCount.Set(float64(stats.WaitCount))
	gauges.waitDuration.Set(stats.WaitDuration.Seconds())
	return stats, nil
}

// poolExhaustionAlert returns the alert to send when the pool is nearly
// exhausted. An unlimited pool never alerts.
func poolExhaustionAlert(stats sql.DBStats) (alert.Alert, bool) {
	if stats.MaxOpenConnections <= 0 {
		return alert.Alert{}, false
	}
	usage := float64(stats.InUse) / float64(stats.MaxOpenConnections)
	if usage <= poolExhaustionRatio {
		return alert.Alert{}, false
	}
	return alert.Alert{
		Type:  alert.AlertTypeDBPool,
		Title: "DB connection pool near exhaustion",
		Message: fmt.Sprintf("Pool usage: %d/%d (%.0f%%)",
			stats.InUse, stats.MaxOpenConnections, usage*100),
		Fields: map[string]string{
			"wait_count": fmt.Sprintf("%d", stats.WaitCount),
		},
	}, true
}

// startDBPoolStatsPump samples pool stats every interval until ctx ends.
// alerter may be nil.
func startDBPoolStatsPump(ctx context.Context, db dbStatsProvider, interval time.Duration, alerter alert.Alerter, logger *slog.Logger) {
	if db == nil || interval <= 0 {
		return
	}

	gauges := defaultDBPoolStatsGauges()
	sample := func() {
		stats, err := collectDBPoolStats(db, gauges)
		if err != nil {
			logger.Warn("failed to collect db pool stats", "error", err)
			return
		}
		if a, ok := poolExhaustionAlert(stats); ok && alerter != nil {
			if err := alerter.Send(ctx, a); err != nil {
				logger.Warn("failed to send db pool alert", "error", err)
			}
		}
	}

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()

		sample()
		for {
			select {
			case <-ctx.Done():
				logger.Info("db pool stats sampler stopped", "cause", "context_done")
				return
			case <-ticker.C:
				sample()
			}
		}
	}()
}
