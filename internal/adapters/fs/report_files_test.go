package fs

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bft-labs/chainreport/internal/domain"
)

func TestReportFiles_WriteDailyAndCombine(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "output")
	s := NewReportFiles(dir, "")

	day1 := time.Date(2024, 10, 5, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2024, 10, 6, 0, 0, 0, 0, time.UTC)
	rows1 := []domain.Row{{Type: "Moonchain Daily Report", Date: "05-October-2024", Item: "Active accounts", Value: "439"}}
	rows2 := []domain.Row{
		{Type: "Moonchain Daily Report", Date: "06-October-2024", Item: "Active accounts", Value: "421"},
		{Type: "Moonchain Daily Report", Date: "06-October-2024", Item: "Average gas price", Value: "14229.1 Gwei"},
	}

	// written out of order; combine must sort by name
	path2, err := s.WriteDaily(day2, rows2)
	if err != nil {
		t.Fatalf("WriteDaily: %v", err)
	}
	if filepath.Base(path2) != "MoonchainDailyReport_2024-10-06.csv" {
		t.Errorf("daily file = %s", filepath.Base(path2))
	}
	if _, err := s.WriteDaily(day1, rows1); err != nil {
		t.Fatalf("WriteDaily: %v", err)
	}

	b, err := os.ReadFile(path2)
	if err != nil {
		t.Fatalf("read daily: %v", err)
	}
	wantDaily := "type\tdate\titem\tvalue\n" +
		"Moonchain Daily Report\t06-October-2024\tActive accounts\t421\n" +
		"Moonchain Daily Report\t06-October-2024\tAverage gas price\t14229.1 Gwei\n"
	if string(b) != wantDaily {
		t.Errorf("daily file =\n%s\nwant\n%s", b, wantDaily)
	}

	// a stale combined file must not be merged into itself
	for i := 0; i < 2; i++ {
		rows, err := s.Combine()
		if err != nil {
			t.Fatalf("Combine: %v", err)
		}
		if len(rows) != 3 {
			t.Fatalf("run %d: combined %d rows, want 3", i, len(rows))
		}
		if rows[0].Date != "05-October-2024" {
			t.Errorf("first row date = %s, want 05-October-2024", rows[0].Date)
		}
	}

	combined, err := os.ReadFile(s.CombinedPath())
	if err != nil {
		t.Fatalf("read combined: %v", err)
	}
	if n := strings.Count(string(combined), "type\tdate\titem\tvalue"); n != 1 {
		t.Errorf("combined file has %d headers, want 1", n)
	}
}

func TestReportFiles_WriteDailyReplacesFile(t *testing.T) {
	s := NewReportFiles(t.TempDir(), "Custom")
	day := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	if _, err := s.WriteDaily(day, []domain.Row{{Type: "a", Date: "b", Item: "c", Value: "d"}}); err != nil {
		t.Fatal(err)
	}
	path, err := s.WriteDaily(day, nil)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := os.ReadFile(path)
	if string(b) != "type\tdate\titem\tvalue\n" {
		t.Errorf("file = %q, want header only", b)
	}
	if filepath.Base(path) != "Custom_2024-01-02.csv" {
		t.Errorf("path = %s", path)
	}
}

func TestReportFiles_CombineMissingInput(t *testing.T) {
	s := NewReportFiles(filepath.Join(t.TempDir(), "missing"), "")
	if _, err := s.Combine(); !errors.Is(err, domain.ErrInputMissing) {
		t.Fatalf("err = %v, want ErrInputMissing", err)
	}

	s = NewReportFiles(t.TempDir(), "")
	if _, err := s.Combine(); !errors.Is(err, domain.ErrInputMissing) {
		t.Fatalf("empty dir err = %v, want ErrInputMissing", err)
	}
}

func TestReportFiles_Report(t *testing.T) {
	s := NewReportFiles(t.TempDir(), "")

	if _, err := s.LoadReport(); !errors.Is(err, domain.ErrInputMissing) {
		t.Fatalf("LoadReport on empty dir = %v, want ErrInputMissing", err)
	}

	if err := s.SaveReport(domain.Report{Answer: "  Moonchain had a great day.\n"}); err != nil {
		t.Fatalf("SaveReport: %v", err)
	}
	b, _ := os.ReadFile(s.ReportPath())
	if !strings.Contains(string(b), "\n    \"answer\": ") {
		t.Errorf("report file not indented with four spaces:\n%s", b)
	}

	r, err := s.LoadReport()
	if err != nil {
		t.Fatalf("LoadReport: %v", err)
	}
	if r.Answer != "Moonchain had a great day." {
		t.Errorf("answer = %q", r.Answer)
	}

	if err := os.WriteFile(s.ReportPath(), []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := s.LoadReport(); err == nil || errors.Is(err, domain.ErrInputMissing) {
		t.Errorf("corrupt report err = %v, want decode error", err)
	}
}

func TestStateFileRepository(t *testing.T) {
	dir := t.TempDir()
	repo := NewStateFileRepository(dir)
	ctx := context.Background()

	st, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load on empty dir: %v", err)
	}
	if st.Digest != "" {
		t.Errorf("expected empty state, got %+v", st)
	}

	want := domain.PublishState{
		Digest:      "abc",
		PostIDs:     []string{"1", "2"},
		PublishedAt: time.Date(2024, 10, 7, 8, 0, 0, 0, time.UTC),
	}
	if err := repo.Save(ctx, want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(repo.Path() + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("temp file left behind: %v", err)
	}

	got, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Digest != want.Digest || len(got.PostIDs) != 2 || !got.PublishedAt.Equal(want.PublishedAt) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}
