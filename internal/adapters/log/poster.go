package log

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/bft-labs/chainreport/internal/ports"
	plog "github.com/bft-labs/chainreport/pkg/log"
)

// Poster implements ports.Poster by logging each post instead of sending
// it. Ids are synthetic: "dry-run-1", "dry-run-2", ...
type Poster struct {
	logger ports.Logger
	seq    int
}

// NewPoster creates a dry-run poster.
func NewPoster(logger ports.Logger) *Poster {
	return &Poster{logger: logger}
}

// CreatePost logs text and returns the next synthetic id.
func (p *Poster) CreatePost(ctx context.Context, text, replyTo string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	p.seq++
	id := fmt.Sprintf("dry-run-%d", p.seq)
	p.logger.Info("dry run: would post",
		plog.String("id", id),
		plog.String("reply_to", replyTo),
		plog.Int("chars", utf8.RuneCountInString(text)),
		plog.String("text", text),
	)
	return id, nil
}
