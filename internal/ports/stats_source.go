package ports

import (
	"context"
	"time"

	"github.com/bft-labs/chainreport/internal/domain"
)

// StatsSource reads daily metric samples.
type StatsSource interface {
	// Lines returns the chart points of metricID for the given day.
	// An empty slice means the API had no data for that day.
	Lines(ctx context.Context, metricID string, day time.Time) ([]domain.Sample, error)
}
