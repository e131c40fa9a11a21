package ports

import (
	"time"

	"github.com/bft-labs/chainreport/internal/domain"
)

// ReportStore persists report files.
type ReportStore interface {
	// WriteDaily replaces the report file for day with rows.
	WriteDaily(day time.Time, rows []domain.Row) (string, error)

	// Combine merges every daily report into the combined report and
	// returns its rows. It returns domain.ErrInputMissing when there is
	// nothing to combine.
	Combine() ([]domain.Row, error)

	// SaveReport writes the summarized answer.
	SaveReport(r domain.Report) error

	// LoadReport reads the summarized answer. It returns
	// domain.ErrInputMissing when the file does not exist.
	LoadReport() (domain.Report, error)
}
