package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestZerologAdapter_Fields(t *testing.T) {
	var buf bytes.Buffer
	z := NewZerologAdapterWithLogger(zerolog.New(&buf)).With(String("run_id", "r1"))

	z.Info("post published",
		String("id", "42"),
		Int("index", 2),
		Bool("dry_run", true),
		Duration("waited", 10*time.Second),
		Strings("ids", []string{"1", "2"}),
		Time("published_at", time.Date(2024, 3, 10, 9, 30, 0, 0, time.UTC)),
		Err(errors.New("boom")),
	)

	var got map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("decode log line: %v (%s)", err, buf.String())
	}

	want := map[string]interface{}{
		"level":   "info",
		"message": "post published",
		"run_id":  "r1",
		"id":      "42",
		"index":   float64(2),
		"dry_run": true,
		"error":   "boom",

		"published_at": "2024-03-10T09:30:00Z",
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s = %v, want %v", k, got[k], v)
		}
	}
	if ids, ok := got["ids"].([]interface{}); !ok || len(ids) != 2 {
		t.Errorf("ids = %v, want two entries", got["ids"])
	}
}

func TestNoopLogger(t *testing.T) {
	var l Logger = NewNoopLogger()
	l.Debug("x")
	l.Info("x", String("k", "v"))
	l.Warn("x")
	l.Error("x", Err(errors.New("e")))
}

type captureLogger struct {
	NoopLogger
	fields []Field
}

func (c *captureLogger) Info(msg string, fields ...Field) { c.fields = fields }

func TestWith(t *testing.T) {
	c := &captureLogger{}
	l := With(c, String("run_id", "r1"))
	l.Info("x", Int("n", 1))

	if len(c.fields) != 2 || c.fields[0].Key != "run_id" || c.fields[1].Key != "n" {
		t.Errorf("fields = %+v, want run_id then n", c.fields)
	}
	if With(c) != Logger(c) {
		t.Error("With without fields should return the logger unchanged")
	}
}
