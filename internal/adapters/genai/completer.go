// Package genai adapts Google's Gemini API to ports.Completer.
package genai

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/bft-labs/chainreport/internal/domain"
	"github.com/bft-labs/chainreport/internal/ports"
	"github.com/bft-labs/chainreport/pkg/log"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.0-flash"

// Completer generates report text with Gemini.
type Completer struct {
	client *genai.Client
	model  string
	logger ports.Logger
}

// NewCompleter creates a Gemini completer. An empty apiKey falls back to
// the GOOGLE_API_KEY and GEMINI_API_KEY environment variables read by the
// client.
func NewCompleter(ctx context.Context, apiKey, model string, logger ports.Logger) (*Completer, error) {
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: create genai client: %w", domain.ErrCompletionFailed, err)
	}

	return &Completer{client: client, model: model, logger: logger}, nil
}

// Name returns the provider identifier.
func (c *Completer) Name() string { return "genai" }

// Complete sends prompt as a single user turn.
func (c *Completer) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("%w: generate content: %w", domain.ErrTransport, err)
	}

	answer := resp.Text()
	if strings.TrimSpace(answer) == "" {
		return "", fmt.Errorf("%w: empty answer from %s", domain.ErrCompletionFailed, c.model)
	}
	c.logger.Debug("genai answer", log.String("model", c.model), log.Int("chars", len(answer)))
	return answer, nil
}
