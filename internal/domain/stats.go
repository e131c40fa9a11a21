package domain

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the date format used by the stats API.
const DateLayout = "2006-01-02"

// ReportDateLayout is the date format written to report files.
const ReportDateLayout = "02-January-2006"

// ReportHeader is the header line of every report file.
var ReportHeader = []string{"type", "date", "item", "value"}

// Metric is one line series of the stats API.
type Metric struct {
	ID    string `toml:"id"`
	Title string `toml:"title"`
	Unit  string `toml:"unit"`
}

// DefaultMetrics returns the series collected for every daily report, in
// report order.
func DefaultMetrics() []Metric {
	return []Metric{
		{ID: "activeAccounts", Title: "Active accounts"},
		{ID: "newAccounts", Title: "Number of new accounts"},
		{ID: "averageTxnFee", Title: "Average transaction fee", Unit: "MXC"},
		{ID: "newTxns", Title: "Number of new transactions"},
		{ID: "newBlocks", Title: "Number of new blocks"},
		{ID: "averageBlockSize", Title: "Average size of blocks", Unit: "bytes"},
		{ID: "averageBlockRewards", Title: "Average amount of reward", Unit: "MXC"},
		{ID: "gasUsedGrowth", Title: "Cumulative gas used"},
		{ID: "averageGasPrice", Title: "Average gas price", Unit: "Gwei"},
		{ID: "newContracts", Title: "Number of new contracts"},
	}
}

// Sample is one chart point returned by the stats API.
type Sample struct {
	Date  string
	Value string
}

// Row is one line of a daily report file.
type Row struct {
	Type  string
	Date  string
	Item  string
	Value string
}

// NewRow builds the report row for sample s of metric m.
func NewRow(reportType string, m Metric, s Sample) (Row, error) {
	d, err := time.Parse(DateLayout, s.Date)
	if err != nil {
		return Row{}, fmt.Errorf("parse sample date %q: %w", s.Date, ErrInvalidStatsResponse)
	}
	value := strings.TrimSpace(s.Value)
	if value != "" {
		value = strings.TrimSpace(value + " " + m.Unit)
	}
	return Row{
		Type:  reportType,
		Date:  d.Format(ReportDateLayout),
		Item:  m.Title,
		Value: value,
	}, nil
}

// Record returns the row as report file fields.
func (r Row) Record() []string {
	return []string{r.Type, r.Date, r.Item, r.Value}
}

// RowFromRecord converts report file fields back into a Row.
func RowFromRecord(rec []string) (Row, error) {
	if len(rec) != len(ReportHeader) {
		return Row{}, fmt.Errorf("report row has %d fields, want %d", len(rec), len(ReportHeader))
	}
	return Row{Type: rec[0], Date: rec[1], Item: rec[2], Value: rec[3]}, nil
}

// ReportType returns the value of the "type" column for chain.
func ReportType(chain string) string {
	return chain + " Daily Report"
}
