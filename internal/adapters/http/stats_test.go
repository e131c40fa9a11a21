package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bft-labs/chainreport/internal/domain"
	"github.com/bft-labs/chainreport/pkg/log"
)

func TestStatsClient_Lines(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/lines/averageTxnFee" {
			t.Errorf("path = %s, want /api/v1/lines/averageTxnFee", r.URL.Path)
		}
		if r.URL.Query().Get("from") != "2024-10-06" || r.URL.Query().Get("to") != "2024-10-06" {
			t.Errorf("query = %s, want from=to=2024-10-06", r.URL.RawQuery)
		}
		w.Write([]byte(`{"chart":[{"date":"2024-10-06","value":2.247460462557913},{"date":"2024-10-06","value":"421"},{"date":"2024-10-06","value":null}]}`))
	}))
	defer ts.Close()

	c := NewStatsClient(ts.URL+"/api/v1/", ts.Client(), log.NewNoopLogger())
	day := time.Date(2024, 10, 6, 15, 0, 0, 0, time.UTC)

	samples, err := c.Lines(context.Background(), "averageTxnFee", day)
	if err != nil {
		t.Fatalf("Lines: %v", err)
	}
	want := []domain.Sample{
		{Date: "2024-10-06", Value: "2.247460462557913"},
		{Date: "2024-10-06", Value: "421"},
		{Date: "2024-10-06", Value: ""},
	}
	if len(samples) != len(want) {
		t.Fatalf("got %d samples, want %d", len(samples), len(want))
	}
	for i := range want {
		if samples[i] != want[i] {
			t.Errorf("sample %d = %+v, want %+v", i, samples[i], want[i])
		}
	}
}

func TestStatsClient_InvalidResponses(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
		wantLen int
	}{
		{name: "empty chart", status: 200, body: `{"chart":[]}`, wantLen: 0},
		{name: "missing chart", status: 200, body: `{"data":[]}`, wantErr: domain.ErrInvalidStatsResponse},
		{name: "chart not an array", status: 200, body: `{"chart":{"a":1}}`, wantErr: domain.ErrInvalidStatsResponse},
		{name: "chart null", status: 200, body: `{"chart":null}`, wantErr: domain.ErrInvalidStatsResponse},
		{name: "missing date", status: 200, body: `{"chart":[{"value":1}]}`, wantErr: domain.ErrInvalidStatsResponse},
		{name: "missing value", status: 200, body: `{"chart":[{"date":"2024-10-06"}]}`, wantErr: domain.ErrInvalidStatsResponse},
		{name: "not json", status: 200, body: `<html>`, wantErr: domain.ErrInvalidStatsResponse},
		{name: "server error", status: 500, body: `oops`, wantErr: domain.ErrMetricUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer ts.Close()

			c := NewStatsClient(ts.URL, ts.Client(), log.NewNoopLogger())
			samples, err := c.Lines(context.Background(), "newTxns", time.Now())
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(samples) != tt.wantLen {
				t.Errorf("len = %d, want %d", len(samples), tt.wantLen)
			}
		})
	}
}

func TestStatsClient_TransportError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := ts.URL
	ts.Close()

	c := NewStatsClient(url, http.DefaultClient, log.NewNoopLogger())
	_, err := c.Lines(context.Background(), "newTxns", time.Now())
	if !errors.Is(err, domain.ErrTransport) {
		t.Fatalf("err = %v, want ErrTransport", err)
	}
}
