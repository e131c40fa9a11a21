package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bft-labs/chainreport/internal/domain"
	"github.com/bft-labs/chainreport/internal/ports"
	"github.com/bft-labs/chainreport/pkg/log"
)

// DefaultStatsURL is the base URL of the Moonchain stats API.
const DefaultStatsURL = "https://stats.moonchain.com/api/v1"

// StatsClient implements ports.StatsSource against the explorer stats API.
type StatsClient struct {
	baseURL string
	client  ports.HTTPClient
	logger  ports.Logger
}

// NewStatsClient creates a stats client. baseURL must not end with a slash.
func NewStatsClient(baseURL string, client ports.HTTPClient, logger ports.Logger) *StatsClient {
	return &StatsClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		logger:  logger,
	}
}

// Lines fetches the chart of metricID for a single day.
func (c *StatsClient) Lines(ctx context.Context, metricID string, day time.Time) ([]domain.Sample, error) {
	d := day.Format(domain.DateLayout)
	q := url.Values{}
	q.Set("from", d)
	q.Set("to", d)
	u := fmt.Sprintf("%s/lines/%s?%s", c.baseURL, url.PathEscape(metricID), q.Encode())

	c.logger.Debug("GET", log.String("url", u))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: get %s: %w", domain.ErrTransport, metricID, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", domain.ErrTransport, metricID, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned %d", domain.ErrMetricUnavailable, metricID, resp.StatusCode)
	}

	c.logger.Debug("stats response", log.String("metric", metricID), log.String("body", string(body)))

	return decodeChart(u, body)
}

func decodeChart(u string, body []byte) ([]domain.Sample, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrInvalidStatsResponse, u, err)
	}
	raw, ok := doc["chart"]
	if !ok {
		return nil, fmt.Errorf("%w: %s: missing 'chart'", domain.ErrInvalidStatsResponse, u)
	}

	var points []map[string]json.RawMessage
	if err := json.Unmarshal(raw, &points); err != nil || points == nil {
		return nil, fmt.Errorf("%w: %s: 'chart' is not an array", domain.ErrInvalidStatsResponse, u)
	}

	samples := make([]domain.Sample, 0, len(points))
	for _, p := range points {
		rawDate, ok := p["date"]
		if !ok {
			return nil, fmt.Errorf("%w: %s: missing 'date'", domain.ErrInvalidStatsResponse, u)
		}
		rawValue, ok := p["value"]
		if !ok {
			return nil, fmt.Errorf("%w: %s: missing 'value'", domain.ErrInvalidStatsResponse, u)
		}

		var date string
		if err := json.Unmarshal(rawDate, &date); err != nil {
			return nil, fmt.Errorf("%w: %s: 'date' is not a string", domain.ErrInvalidStatsResponse, u)
		}
		samples = append(samples, domain.Sample{Date: date, Value: scalarText(rawValue)})
	}
	return samples, nil
}

// scalarText renders a JSON scalar the way it should appear in a report:
// strings unquoted, numbers as sent, null as empty.
func scalarText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
