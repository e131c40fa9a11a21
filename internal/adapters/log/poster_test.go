package log

import (
	"context"
	"testing"

	plog "github.com/bft-labs/chainreport/pkg/log"
)

func TestPoster_SyntheticIDs(t *testing.T) {
	p := NewPoster(plog.NewNoopLogger())
	ctx := context.Background()

	first, err := p.CreatePost(ctx, "one", "")
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	second, err := p.CreatePost(ctx, "two", first)
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	if first != "dry-run-1" || second != "dry-run-2" {
		t.Errorf("ids = %s, %s", first, second)
	}

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := p.CreatePost(canceled, "three", second); err == nil {
		t.Error("expected error on canceled context")
	}
}
