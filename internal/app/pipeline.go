package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bft-labs/chainreport/internal/domain"
	"github.com/bft-labs/chainreport/internal/metrics"
	"github.com/bft-labs/chainreport/internal/ports"
	"github.com/bft-labs/chainreport/pkg/log"
)

// Stages is the full pipeline in execution order.
var Stages = []domain.Stage{domain.StageCollect, domain.StageSummarize, domain.StagePost}

// Pipeline runs collect, summarize and post in sequence.
type Pipeline struct {
	collector   *Collector
	summarizer  *Summarizer
	publisher   *Publisher
	logger      ports.Logger
	metrics     *metrics.Recorder
	metricsFile string
}

// NewPipeline creates a pipeline. Components of stages that are never run
// may be nil.
func NewPipeline(
	collector *Collector,
	summarizer *Summarizer,
	publisher *Publisher,
	logger ports.Logger,
	rec *metrics.Recorder,
	metricsFile string,
) *Pipeline {
	if rec == nil {
		rec = metrics.New()
	}
	return &Pipeline{
		collector:   collector,
		summarizer:  summarizer,
		publisher:   publisher,
		logger:      logger,
		metrics:     rec,
		metricsFile: metricsFile,
	}
}

// Run executes the given stages in order, or all of them when none are
// given. It stops at the first failure and returns it as a
// *domain.RunError. A report that was already published is not a failure.
func (p *Pipeline) Run(ctx context.Context, stages ...domain.Stage) error {
	if len(stages) == 0 {
		stages = Stages
	}
	ctx, runID := ensureRunID(ctx)
	logger := runLogger(ctx, p.logger)
	start := time.Now()

	logger.Info("run started", log.Strings("stages", stageNames(stages)))

	for _, stage := range stages {
		stageStart := time.Now()
		err := p.runStage(ctx, stage)
		if errors.Is(err, domain.ErrAlreadyPublished) {
			logger.Info("report already published, skipped", log.String("stage", string(stage)))
			err = nil
		}
		if err != nil {
			rerr := domain.NewRunError(stage, err)
			logger.Error("run failed",
				log.String("stage", string(stage)),
				log.String("kind", rerr.Kind.String()),
				log.Err(err),
			)
			p.finish(logger, rerr.Kind, time.Since(start))
			return rerr
		}
		logger.Debug("stage done", log.String("stage", string(stage)), log.Duration("took", time.Since(stageStart)))
	}

	p.finish(logger, domain.KindNone, time.Since(start))
	logger.Info("run finished", log.String("run_id", runID), log.Duration("took", time.Since(start)))
	return nil
}

func (p *Pipeline) runStage(ctx context.Context, stage domain.Stage) error {
	switch stage {
	case domain.StageCollect:
		if p.collector == nil {
			return notConfigured(stage)
		}
		_, err := p.collector.Run(ctx)
		return err
	case domain.StageSummarize:
		if p.summarizer == nil {
			return notConfigured(stage)
		}
		_, err := p.summarizer.Run(ctx)
		return err
	case domain.StagePost:
		if p.publisher == nil {
			return notConfigured(stage)
		}
		_, err := p.publisher.Run(ctx)
		return err
	default:
		return fmt.Errorf("%w: unknown stage %q", domain.ErrInvalidConfig, stage)
	}
}

func (p *Pipeline) finish(logger ports.Logger, kind domain.ErrorKind, took time.Duration) {
	p.metrics.ObserveRun(kind.String(), took, kind == domain.KindNone)
	if err := p.metrics.WriteTextfile(p.metricsFile); err != nil {
		logger.Warn("failed to write metrics file", log.String("path", p.metricsFile), log.Err(err))
	}
}

func notConfigured(stage domain.Stage) error {
	return fmt.Errorf("%w: stage %s is not configured", domain.ErrInvalidConfig, stage)
}

func stageNames(stages []domain.Stage) []string {
	names := make([]string, len(stages))
	for i, s := range stages {
		names[i] = string(s)
	}
	return names
}
