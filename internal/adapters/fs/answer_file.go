package fs

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/bft-labs/chainreport/internal/domain"
)

// SaveReport writes the answer file atomically.
func (s *ReportFiles) SaveReport(r domain.Report) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	data, err := json.MarshalIndent(r, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	return writeAtomic(s.ReportPath(), data, 0o644)
}

// LoadReport reads the answer file. A missing file is domain.ErrInputMissing.
func (s *ReportFiles) LoadReport() (domain.Report, error) {
	path := s.ReportPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.Report{}, fmt.Errorf("%w: %s not found", domain.ErrInputMissing, path)
		}
		return domain.Report{}, fmt.Errorf("read report: %w", err)
	}

	var r domain.Report
	if err := json.Unmarshal(data, &r); err != nil {
		return domain.Report{}, fmt.Errorf("decode report %s: %w", path, err)
	}
	r.Answer = strings.TrimSpace(r.Answer)
	return r, nil
}

// writeAtomic writes to a temp file and renames it over path.
func writeAtomic(path string, data []byte, perm os.FileMode) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, perm); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
