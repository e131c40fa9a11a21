package app

import (
	"context"
	"fmt"
	"text/template"
	"time"

	"github.com/bft-labs/chainreport/internal/domain"
	"github.com/bft-labs/chainreport/internal/markdown"
	"github.com/bft-labs/chainreport/internal/metrics"
	"github.com/bft-labs/chainreport/internal/ports"
	"github.com/bft-labs/chainreport/pkg/log"
)

// SummarizerConfig contains configuration for the summarizer.
type SummarizerConfig struct {
	Chain string

	// PromptTemplate overrides DefaultPromptTemplate when not empty.
	PromptTemplate string

	// Timeout bounds the completion request. Zero means no limit.
	Timeout time.Duration

	Now func() time.Time
}

// Summarizer combines the daily reports and turns them into a written
// report through a language model.
type Summarizer struct {
	cfg       SummarizerConfig
	tmpl      *template.Template
	store     ports.ReportStore
	completer ports.Completer
	logger    ports.Logger
	metrics   *metrics.Recorder
}

// NewSummarizer creates a summarizer. It fails if the prompt template does
// not parse.
func NewSummarizer(cfg SummarizerConfig, store ports.ReportStore, completer ports.Completer, logger ports.Logger, rec *metrics.Recorder) (*Summarizer, error) {
	tmpl, err := ParsePrompt(cfg.PromptTemplate)
	if err != nil {
		return nil, err
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if rec == nil {
		rec = metrics.New()
	}
	return &Summarizer{
		cfg:       cfg,
		tmpl:      tmpl,
		store:     store,
		completer: completer,
		logger:    logger,
		metrics:   rec,
	}, nil
}

// Prompt builds the model prompt from combined report rows.
func (s *Summarizer) Prompt(rows []domain.Row) (string, error) {
	return RenderPrompt(s.tmpl, NewPromptData(s.cfg.Chain, s.cfg.Now(), rows))
}

// Run combines the reports, asks the model, strips markdown from the
// answer and saves it.
func (s *Summarizer) Run(ctx context.Context) (domain.Report, error) {
	logger := runLogger(ctx, s.logger)

	rows, err := s.store.Combine()
	if err != nil {
		return domain.Report{}, fmt.Errorf("combine reports: %w", err)
	}
	logger.Info("reports combined", log.Int("rows", len(rows)))

	prompt, err := s.Prompt(rows)
	if err != nil {
		return domain.Report{}, err
	}
	logger.Debug("prompt", log.String("text", prompt))

	provider := s.completer.Name()
	cctx := ctx
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		cctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}
	start := time.Now()
	answer, err := s.completer.Complete(cctx, prompt)
	s.metrics.CompletionTime.Observe(time.Since(start).Seconds())
	if err != nil {
		s.metrics.Completions.WithLabelValues(provider, "error").Inc()
		return domain.Report{}, fmt.Errorf("complete with %s: %w", provider, err)
	}
	s.metrics.Completions.WithLabelValues(provider, "ok").Inc()
	logger.Debug("answer", log.String("markdown", answer))

	report := domain.Report{Answer: markdown.Strip(answer)}
	if report.Answer == "" {
		return domain.Report{}, fmt.Errorf("%w: answer is empty after removing markdown", domain.ErrCompletionFailed)
	}
	if err := s.store.SaveReport(report); err != nil {
		return domain.Report{}, fmt.Errorf("save report: %w", err)
	}
	logger.Info("report saved", log.String("provider", provider), log.Int("chars", len(report.Answer)))
	return report, nil
}
