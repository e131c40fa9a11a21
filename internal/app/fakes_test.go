package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bft-labs/chainreport/internal/domain"
	"github.com/bft-labs/chainreport/internal/ports"
)

type mockLogger struct{}

func (mockLogger) Debug(msg string, fields ...ports.Field) {}
func (mockLogger) Info(msg string, fields ...ports.Field)  {}
func (mockLogger) Warn(msg string, fields ...ports.Field)  {}
func (mockLogger) Error(msg string, fields ...ports.Field) {}

// fakeSource serves samples keyed by metric id. Dates are taken from the
// requested day.
type fakeSource struct {
	values map[string]string
	errs   map[string]error
	calls  []string
}

func (f *fakeSource) Lines(ctx context.Context, metricID string, day time.Time) ([]domain.Sample, error) {
	f.calls = append(f.calls, metricID+"@"+day.Format(domain.DateLayout))
	if err := f.errs[metricID]; err != nil {
		return nil, err
	}
	v, ok := f.values[metricID]
	if !ok {
		return nil, nil
	}
	return []domain.Sample{{Date: day.Format(domain.DateLayout), Value: v}}, nil
}

// memStore is an in-memory ports.ReportStore.
type memStore struct {
	mu      sync.Mutex
	daily   map[string][]domain.Row
	order   []string
	report  *domain.Report
	saveErr error
}

func newMemStore() *memStore {
	return &memStore{daily: map[string][]domain.Row{}}
}

func (s *memStore) WriteDaily(day time.Time, rows []domain.Row) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := day.Format(domain.DateLayout)
	if _, ok := s.daily[key]; !ok {
		s.order = append(s.order, key)
	}
	s.daily[key] = rows
	return "mem/" + key + ".csv", nil
}

func (s *memStore) Combine() ([]domain.Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.order) == 0 {
		return nil, fmt.Errorf("no daily reports: %w", domain.ErrInputMissing)
	}
	var rows []domain.Row
	for _, k := range s.order {
		rows = append(rows, s.daily[k]...)
	}
	return rows, nil
}

func (s *memStore) SaveReport(r domain.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.report = &r
	return nil
}

func (s *memStore) LoadReport() (domain.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.report == nil {
		return domain.Report{}, fmt.Errorf("answer file: %w", domain.ErrInputMissing)
	}
	return *s.report, nil
}

type fakeCompleter struct {
	answer string
	err    error
	prompt string
}

func (f *fakeCompleter) Name() string { return "fake" }

func (f *fakeCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	f.prompt = prompt
	return f.answer, f.err
}

type postCall struct {
	Text    string
	ReplyTo string
}

// fakePoster assigns ids "id1", "id2", ... and fails on post failAt
// (1-based) when set.
type fakePoster struct {
	mu     sync.Mutex
	calls  []postCall
	failAt int
	posted chan struct{}
}

func (f *fakePoster) CreatePost(ctx context.Context, text, replyTo string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, postCall{Text: text, ReplyTo: replyTo})
	n := len(f.calls)
	if f.posted != nil {
		select {
		case f.posted <- struct{}{}:
		default:
		}
	}
	if f.failAt == n {
		return "", fmt.Errorf("status 503: %w", domain.ErrTransport)
	}
	return fmt.Sprintf("id%d", n), nil
}

func (f *fakePoster) Calls() []postCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]postCall(nil), f.calls...)
}

type memState struct {
	state   domain.PublishState
	saves   int
	loadErr error
}

func (m *memState) Load(ctx context.Context) (domain.PublishState, error) {
	return m.state, m.loadErr
}

func (m *memState) Save(ctx context.Context, state domain.PublishState) error {
	m.state = state
	m.saves++
	return nil
}

type memHistory struct {
	entries []domain.HistoryEntry
}

func (m *memHistory) Append(ctx context.Context, entries []domain.HistoryEntry) error {
	m.entries = append(m.entries, entries...)
	return nil
}

func (m *memHistory) Recent(ctx context.Context, limit int) ([]domain.HistoryEntry, error) {
	if limit > len(m.entries) {
		limit = len(m.entries)
	}
	return m.entries[len(m.entries)-limit:], nil
}

func (m *memHistory) Close() error { return nil }

var errBoom = errors.New("boom")

func fixedNow() time.Time {
	return time.Date(2024, time.March, 10, 9, 30, 0, 0, time.UTC)
}
