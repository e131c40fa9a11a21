package main

import (
	"context"
	"fmt"
	nethttp "net/http"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/bft-labs/chainreport/internal/adapters/fs"
	genaiAdapter "github.com/bft-labs/chainreport/internal/adapters/genai"
	httpAdapter "github.com/bft-labs/chainreport/internal/adapters/http"
	logAdapter "github.com/bft-labs/chainreport/internal/adapters/log"
	"github.com/bft-labs/chainreport/internal/adapters/sqlite"
	"github.com/bft-labs/chainreport/internal/app"
	"github.com/bft-labs/chainreport/internal/cliconfig"
	"github.com/bft-labs/chainreport/internal/domain"
	"github.com/bft-labs/chainreport/internal/metrics"
	"github.com/bft-labs/chainreport/internal/ports"
	"github.com/bft-labs/chainreport/pkg/log"
	"github.com/bft-labs/chainreport/pkg/thread"
)

type cli struct {
	cfg     cliconfig.Config
	cfgPath string
	envFile string

	log     zerolog.Logger
	metrics *metrics.Recorder
}

func newCLI() *cli {
	return &cli{
		cfg:     cliconfig.DefaultConfig(),
		envFile: ".env",
		log:     cliconfig.Logger(),
		metrics: metrics.New(),
	}
}

func (c *cli) bindFlags(root *cobra.Command) {
	f := root.PersistentFlags()
	cfg := &c.cfg

	f.StringVar(&c.cfgPath, "config", "", "path to config file (default: $HOME/.chainreport/config.toml)")
	f.StringVar(&c.envFile, "env-file", c.envFile, "dotenv file with credentials (ignored if missing)")

	f.StringVar(&cfg.OutputDir, "output-dir", cfg.OutputDir, "directory for report files")
	f.StringVar(&cfg.DailyPrefix, "daily-prefix", cfg.DailyPrefix, "file name prefix of daily reports (default "+fs.DefaultDailyPrefix+")")
	f.StringVar(&cfg.StateDir, "state-dir", cfg.StateDir, "directory for publish-state.json (defaults to output-dir)")
	f.IntVar(&cfg.Days, "days", cfg.Days, "number of past days to collect")
	f.StringVar(&cfg.ChainName, "chain", cfg.ChainName, "chain name used in reports and the prompt")

	f.StringVar(&cfg.StatsURL, "stats-url", cfg.StatsURL, "stats API base URL")
	f.DurationVar(&cfg.StatsTimeout, "stats-timeout", cfg.StatsTimeout, "timeout of one stats request")

	f.StringVar(&cfg.Provider, "provider", cfg.Provider, "completion provider: ragflow or genai")
	f.StringVar(&cfg.RagflowURL, "ragflow-url", cfg.RagflowURL, "Ragflow API base URL")
	f.StringVar(&cfg.RagflowUserID, "ragflow-user-id", cfg.RagflowUserID, "Ragflow user id")
	f.StringVar(&cfg.RagflowAPIKey, "ragflow-api-key", cfg.RagflowAPIKey, "Ragflow API key")
	f.StringVar(&cfg.GenAIAPIKey, "genai-api-key", cfg.GenAIAPIKey, "Gemini API key")
	f.StringVar(&cfg.GenAIModel, "genai-model", cfg.GenAIModel, "Gemini model")
	f.DurationVar(&cfg.CompletionTimeout, "completion-timeout", cfg.CompletionTimeout, "timeout of the completion request")
	f.StringVar(&cfg.PromptFile, "prompt-file", cfg.PromptFile, "text/template file replacing the built-in prompt")

	f.StringVar(&cfg.TwitterURL, "twitter-url", cfg.TwitterURL, "Twitter API base URL")
	f.StringVar(&cfg.TwitterAPIKey, "twitter-api-key", cfg.TwitterAPIKey, "Twitter API key")
	f.StringVar(&cfg.TwitterAPISecret, "twitter-api-secret", cfg.TwitterAPISecret, "Twitter API secret")
	f.StringVar(&cfg.TwitterAccessToken, "twitter-access-token", cfg.TwitterAccessToken, "Twitter access token")
	f.StringVar(&cfg.TwitterAccessTokenSecret, "twitter-access-token-secret", cfg.TwitterAccessTokenSecret, "Twitter access token secret")
	f.IntVar(&cfg.MaxTweetLength, "max-length", cfg.MaxTweetLength, "maximum characters per tweet")
	f.DurationVar(&cfg.PostInterval, "post-interval", cfg.PostInterval, "pause between tweets of a thread")
	f.DurationVar(&cfg.HTTPTimeout, "timeout", cfg.HTTPTimeout, "HTTP timeout for posting")

	f.BoolVar(&cfg.DryRun, "dry-run", cfg.DryRun, "log tweets instead of posting them")
	f.BoolVar(&cfg.SkipDuplicates, "skip-duplicates", cfg.SkipDuplicates, "do not post a report identical to the last one")
	f.StringVar(&cfg.HistoryDB, "history-db", cfg.HistoryDB, "SQLite file recording posted tweets (optional)")
	f.StringVar(&cfg.MetricsFile, "metrics-file", cfg.MetricsFile, "Prometheus textfile to write after each run (optional)")
	f.DurationVar(&cfg.WatchDebounce, "watch-debounce", cfg.WatchDebounce, "quiet period before watch publishes a rewritten answer")

	f.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	f.BoolVar(&cfg.Strict, "strict", cfg.Strict, "exit non-zero when a run fails")

	for _, name := range []string{"stats-url", "ragflow-url", "twitter-url"} {
		if err := f.MarkHidden(name); err != nil {
			c.log.Info().Err(err).Str("flag", name).Msg("failed to hide flag")
		}
	}
}

// load applies .env, file, env and flag configuration in that order of
// increasing precedence.
func (c *cli) load(cmd *cobra.Command) error {
	if err := cliconfig.LoadDotenv(c.envFile); err != nil {
		return fmt.Errorf("load %s: %w", c.envFile, err)
	}

	cfgFile := c.cfgPath
	if cfgFile == "" {
		cfgFile = cliconfig.DefaultConfigPath()
	}

	changed := map[string]bool{}
	cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

	if cfgFile != "" && cliconfig.FileExists(cfgFile) {
		fc, err := cliconfig.LoadFileConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := cliconfig.ApplyFileConfig(&c.cfg, fc, changed); err != nil {
			return err
		}
	} else if c.cfgPath != "" {
		return fmt.Errorf("config file %s not found", c.cfgPath)
	}

	if err := cliconfig.ApplyEnvConfig(&c.cfg, changed); err != nil {
		return err
	}
	if err := c.cfg.Validate(); err != nil {
		return err
	}
	if err := cliconfig.SetLogLevel(c.cfg.LogLevel); err != nil {
		return err
	}
	c.log = cliconfig.Logger()
	c.log.Debug().Interface("config", c.cfg.Masked()).Msg("configuration")
	return nil
}

func (c *cli) logger() ports.Logger {
	return log.NewZerologAdapterWithLogger(c.log)
}

// result turns a failed run into the command error. Runs are logged by the
// pipeline, so without --strict the process still exits 0.
func (c *cli) result(err error) error {
	if err == nil || !c.cfg.Strict {
		return nil
	}
	return err
}

func (c *cli) runStages(ctx context.Context, stages ...domain.Stage) error {
	if len(stages) == 0 {
		stages = app.Stages
	}

	var (
		collector  *app.Collector
		summarizer *app.Summarizer
		publisher  *app.Publisher
	)
	for _, stage := range stages {
		switch stage {
		case domain.StageCollect:
			collector = c.collector()
		case domain.StageSummarize:
			s, err := c.summarizer(ctx)
			if err != nil {
				return err
			}
			summarizer = s
		case domain.StagePost:
			p, closeHistory, err := c.publisher(ctx)
			if err != nil {
				return err
			}
			defer closeHistory()
			publisher = p
		}
	}

	pipeline := app.NewPipeline(collector, summarizer, publisher, c.logger(), c.metrics, c.cfg.MetricsFile)
	return c.result(pipeline.Run(ctx, stages...))
}

func (c *cli) store() *fs.ReportFiles {
	return fs.NewReportFiles(c.cfg.OutputDir, c.cfg.DailyPrefix)
}

func (c *cli) collector() *app.Collector {
	source := httpAdapter.NewStatsClient(
		c.cfg.StatsURL,
		&nethttp.Client{Timeout: c.cfg.StatsTimeout},
		c.logger(),
	)
	return app.NewCollector(app.CollectorConfig{
		Days:    c.cfg.Days,
		Chain:   c.cfg.ChainName,
		Metrics: c.cfg.Metrics,
	}, source, c.store(), c.logger(), c.metrics)
}

// completer builds the configured provider. Credentials are not checked
// here: a provider that cannot be created fails the summarize stage when it
// is used, so collect still runs.
func (c *cli) completer(ctx context.Context) ports.Completer {
	switch c.cfg.Provider {
	case cliconfig.ProviderGenAI:
		completer, err := genaiAdapter.NewCompleter(ctx, c.cfg.GenAIAPIKey, c.cfg.GenAIModel, c.logger())
		if err != nil {
			return unavailableCompleter{name: cliconfig.ProviderGenAI, err: err}
		}
		return completer
	default:
		return httpAdapter.NewRagflowClient(
			c.cfg.RagflowURL,
			c.cfg.RagflowUserID,
			c.cfg.RagflowAPIKey,
			&nethttp.Client{},
			c.logger(),
		)
	}
}

// unavailableCompleter reports the error that prevented building a provider.
type unavailableCompleter struct {
	name string
	err  error
}

func (u unavailableCompleter) Name() string { return u.name }

func (u unavailableCompleter) Complete(context.Context, string) (string, error) {
	return "", u.err
}

func (c *cli) summarizer(ctx context.Context) (*app.Summarizer, error) {
	completer := c.completer(ctx)
	prompt, err := c.cfg.PromptTemplate()
	if err != nil {
		return nil, err
	}
	return app.NewSummarizer(app.SummarizerConfig{
		Chain:          c.cfg.ChainName,
		PromptTemplate: prompt,
		Timeout:        c.cfg.CompletionTimeout,
	}, c.store(), completer, c.logger(), c.metrics)
}

// poster builds the Twitter client. Missing credentials are sent as they
// are and rejected by the API.
func (c *cli) poster(ctx context.Context) (ports.Poster, thread.Pacer) {
	if c.cfg.DryRun {
		return logAdapter.NewPoster(c.logger()), thread.NoPacer{}
	}
	client := httpAdapter.NewOAuthClient(ctx, c.cfg.Credentials(), c.cfg.HTTPTimeout)
	var pacer thread.Pacer = thread.NoPacer{}
	if c.cfg.PostInterval > 0 {
		pacer = thread.NewIntervalPacer(c.cfg.PostInterval)
	}
	return httpAdapter.NewTwitterClient(c.cfg.TwitterURL, client, c.logger()), pacer
}

// publisher builds the post stage. The returned func closes the history
// store and is safe to call when none is configured.
func (c *cli) publisher(ctx context.Context) (*app.Publisher, func() error, error) {
	noop := func() error { return nil }

	poster, pacer := c.poster(ctx)

	var history ports.HistoryStore
	closeHistory := noop
	if c.cfg.HistoryDB != "" {
		h, err := sqlite.OpenHistory(ctx, c.cfg.HistoryDB)
		if err != nil {
			return nil, noop, fmt.Errorf("open history: %w", err)
		}
		history = h
		closeHistory = h.Close
	}

	p := app.NewPublisher(app.PublisherConfig{
		MaxLength:      c.cfg.MaxTweetLength,
		SkipDuplicates: c.cfg.SkipDuplicates,
		DryRun:         c.cfg.DryRun,
	},
		c.store(),
		poster,
		pacer,
		fs.NewStateFileRepository(c.cfg.StateDir),
		history,
		c.logger(),
		c.metrics,
	)
	return p, closeHistory, nil
}
