package fs

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bft-labs/chainreport/internal/domain"
)

// Default file names inside the output directory.
const (
	DefaultDailyPrefix  = "MoonchainDailyReport"
	DefaultCombinedName = "combined_report.csv"
	DefaultReportName   = "combined_report.json"
)

const reportExt = ".csv"

// ReportFiles implements ports.ReportStore with tab-separated files in a
// single output directory.
type ReportFiles struct {
	dir          string
	dailyPrefix  string
	combinedName string
	reportName   string
}

// NewReportFiles creates a store rooted at dir. Empty names use the defaults.
func NewReportFiles(dir, dailyPrefix string) *ReportFiles {
	if dailyPrefix == "" {
		dailyPrefix = DefaultDailyPrefix
	}
	return &ReportFiles{
		dir:          dir,
		dailyPrefix:  dailyPrefix,
		combinedName: DefaultCombinedName,
		reportName:   DefaultReportName,
	}
}

// Dir returns the output directory.
func (s *ReportFiles) Dir() string { return s.dir }

// DailyPath returns the report file path for day.
func (s *ReportFiles) DailyPath(day time.Time) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s_%s%s", s.dailyPrefix, day.Format(domain.DateLayout), reportExt))
}

// CombinedPath returns the combined report path.
func (s *ReportFiles) CombinedPath() string { return filepath.Join(s.dir, s.combinedName) }

// ReportPath returns the answer file path.
func (s *ReportFiles) ReportPath() string { return filepath.Join(s.dir, s.reportName) }

// WriteDaily replaces the report file for day.
func (s *ReportFiles) WriteDaily(day time.Time, rows []domain.Row) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	path := s.DailyPath(day)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return "", fmt.Errorf("remove old report: %w", err)
	}

	records := make([][]string, 0, len(rows)+1)
	records = append(records, domain.ReportHeader)
	for _, r := range rows {
		records = append(records, r.Record())
	}
	if err := writeTSV(path, records); err != nil {
		return "", err
	}
	return path, nil
}

// Combine merges every daily report (in file name order) into the combined
// report, keeping only the first header.
func (s *ReportFiles) Combine() ([]domain.Row, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: output dir %s", domain.ErrInputMissing, s.dir)
		}
		return nil, fmt.Errorf("list output dir: %w", err)
	}

	var (
		header []string
		rows   []domain.Row
		files  int
	)
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, reportExt) || name == s.combinedName {
			continue
		}
		records, err := readTSV(filepath.Join(s.dir, name))
		if err != nil {
			return nil, err
		}
		if len(records) == 0 {
			continue
		}
		files++
		if header == nil {
			header = records[0]
		}
		for _, rec := range records[1:] {
			row, err := domain.RowFromRecord(rec)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}
			rows = append(rows, row)
		}
	}
	if files == 0 {
		return nil, fmt.Errorf("%w: no report files in %s", domain.ErrInputMissing, s.dir)
	}

	records := make([][]string, 0, len(rows)+1)
	records = append(records, header)
	for _, r := range rows {
		records = append(records, r.Record())
	}
	if err := writeTSV(s.CombinedPath(), records); err != nil {
		return nil, err
	}
	return rows, nil
}

func writeTSV(path string, records [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", filepath.Base(path), err)
	}
	w := csv.NewWriter(f)
	w.Comma = '\t'
	if err := w.WriteAll(records); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}

func readTSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = '\t'
	r.LazyQuotes = true
	var records [][]string
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
		}
		records = append(records, rec)
	}
}
