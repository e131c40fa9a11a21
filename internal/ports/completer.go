package ports

import "context"

// Completer asks a language model to answer a prompt.
type Completer interface {
	// Name identifies the provider in logs and metrics.
	Name() string

	// Complete returns the model's answer, possibly formatted as markdown.
	Complete(ctx context.Context, prompt string) (string, error)
}
