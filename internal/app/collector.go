package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bft-labs/chainreport/internal/domain"
	"github.com/bft-labs/chainreport/internal/metrics"
	"github.com/bft-labs/chainreport/internal/ports"
	"github.com/bft-labs/chainreport/pkg/log"
)

// DefaultDays is how many past days are collected per run.
const DefaultDays = 2

// CollectorConfig contains configuration for the stats collector.
type CollectorConfig struct {
	// Days to collect, counting back from yesterday.
	Days int

	// Chain name used in the report "type" column.
	Chain string

	// Metrics to fetch, in report order.
	Metrics []domain.Metric

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// Collector fetches daily stats and writes one report file per day.
type Collector struct {
	cfg     CollectorConfig
	source  ports.StatsSource
	store   ports.ReportStore
	logger  ports.Logger
	metrics *metrics.Recorder
}

// NewCollector creates a collector with the given dependencies.
func NewCollector(cfg CollectorConfig, source ports.StatsSource, store ports.ReportStore, logger ports.Logger, rec *metrics.Recorder) *Collector {
	if cfg.Days <= 0 {
		cfg.Days = DefaultDays
	}
	if len(cfg.Metrics) == 0 {
		cfg.Metrics = domain.DefaultMetrics()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if rec == nil {
		rec = metrics.New()
	}
	return &Collector{cfg: cfg, source: source, store: store, logger: logger, metrics: rec}
}

// Run writes the reports for yesterday and the days before it, newest
// first, and returns the written file paths.
func (c *Collector) Run(ctx context.Context) ([]string, error) {
	now := c.cfg.Now()
	paths := make([]string, 0, c.cfg.Days)
	for i := 1; i <= c.cfg.Days; i++ {
		path, err := c.Day(ctx, now.AddDate(0, 0, -i))
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// Day writes the report file for a single day.
func (c *Collector) Day(ctx context.Context, day time.Time) (string, error) {
	logger := runLogger(ctx, c.logger)
	date := day.Format(domain.DateLayout)
	logger.Info("generating daily report", log.String("date", date))

	reportType := domain.ReportType(c.cfg.Chain)
	var rows []domain.Row

	for _, m := range c.cfg.Metrics {
		samples, err := c.source.Lines(ctx, m.ID, day)
		if err != nil {
			if errors.Is(err, domain.ErrMetricUnavailable) {
				c.metrics.StatsRequests.WithLabelValues(m.ID, "unavailable").Inc()
				logger.Warn("metric unavailable, skipped", log.String("metric", m.ID), log.Err(err))
				continue
			}
			c.metrics.StatsRequests.WithLabelValues(m.ID, "error").Inc()
			return "", fmt.Errorf("fetch %s for %s: %w", m.ID, date, err)
		}
		if len(samples) == 0 {
			c.metrics.StatsRequests.WithLabelValues(m.ID, "empty").Inc()
			logger.Warn("no data, skipped", log.String("metric", m.ID), log.String("date", date))
			continue
		}
		c.metrics.StatsRequests.WithLabelValues(m.ID, "ok").Inc()

		for _, s := range samples {
			row, err := domain.NewRow(reportType, m, s)
			if err != nil {
				return "", fmt.Errorf("%s: %w", m.ID, err)
			}
			rows = append(rows, row)
		}
	}

	path, err := c.store.WriteDaily(day, rows)
	if err != nil {
		return "", fmt.Errorf("write report for %s: %w", date, err)
	}
	c.metrics.ReportRows.Add(float64(len(rows)))
	logger.Info("daily report written", log.String("file", path), log.Int("rows", len(rows)))
	return path, nil
}
