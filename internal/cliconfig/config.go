package cliconfig

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/bft-labs/chainreport/internal/adapters/genai"
	"github.com/bft-labs/chainreport/internal/adapters/http"
	"github.com/bft-labs/chainreport/internal/app"
	"github.com/bft-labs/chainreport/internal/domain"
	"github.com/bft-labs/chainreport/pkg/thread"
)

// Completion providers.
const (
	ProviderRagflow = "ragflow"
	ProviderGenAI   = "genai"
)

const masked = "*****"

// Config holds CLI configuration for chainreport.
type Config struct {
	OutputDir   string
	DailyPrefix string
	StateDir    string
	Days        int
	ChainName   string
	Metrics     []domain.Metric

	StatsURL     string
	StatsTimeout time.Duration

	Provider          string
	RagflowURL        string
	RagflowUserID     string
	RagflowAPIKey     string
	GenAIAPIKey       string
	GenAIModel        string
	CompletionTimeout time.Duration
	PromptFile        string

	TwitterURL               string
	TwitterAPIKey            string
	TwitterAPISecret         string
	TwitterAccessToken       string
	TwitterAccessTokenSecret string
	MaxTweetLength           int
	PostInterval             time.Duration
	HTTPTimeout              time.Duration

	DryRun         bool
	SkipDuplicates bool
	HistoryDB      string
	MetricsFile    string
	WatchDebounce  time.Duration

	LogLevel string
	Strict   bool
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		OutputDir:         "output",
		Days:              app.DefaultDays,
		ChainName:         "Moonchain",
		StatsURL:          http.DefaultStatsURL,
		StatsTimeout:      10 * time.Second,
		Provider:          ProviderRagflow,
		RagflowURL:        http.DefaultRagflowURL,
		GenAIModel:        genai.DefaultModel,
		CompletionTimeout: 2 * time.Minute,
		TwitterURL:        http.DefaultTwitterURL,
		MaxTweetLength:    thread.DefaultMaxLength,
		PostInterval:      thread.DefaultInterval,
		HTTPTimeout:       30 * time.Second,
		WatchDebounce:     app.DefaultWatchDebounce,
		LogLevel:          "info",
	}
}

// Validate checks the configuration for errors and sets derived defaults.
func (c *Config) Validate() error {
	if c.OutputDir == "" {
		return invalid("output-dir is required")
	}
	if c.StateDir == "" {
		c.StateDir = c.OutputDir
	}
	if c.Days <= 0 {
		return invalid("days must be positive")
	}
	if c.MaxTweetLength <= 0 {
		return invalid("max-length must be positive")
	}
	if c.PostInterval < 0 {
		return invalid("post-interval must not be negative")
	}
	if c.ChainName == "" {
		c.ChainName = "Moonchain"
	}
	if len(c.Metrics) == 0 {
		c.Metrics = domain.DefaultMetrics()
	}
	for i, m := range c.Metrics {
		if m.ID == "" || m.Title == "" {
			return invalid(fmt.Sprintf("metric %d needs an id and a title", i+1))
		}
	}

	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
	switch c.Provider {
	case ProviderRagflow, ProviderGenAI:
	default:
		return invalid(fmt.Sprintf("unknown provider %q (want %s or %s)", c.Provider, ProviderRagflow, ProviderGenAI))
	}

	// Ensure no trailing slash
	c.StatsURL = strings.TrimRight(c.StatsURL, "/")
	c.RagflowURL = strings.TrimRight(c.RagflowURL, "/")
	c.TwitterURL = strings.TrimRight(c.TwitterURL, "/")

	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return invalid(fmt.Sprintf("log-level: %v", err))
	}
	return nil
}

// Credentials returns the Twitter credentials.
func (c *Config) Credentials() http.Credentials {
	return http.Credentials{
		APIKey:            c.TwitterAPIKey,
		APISecret:         c.TwitterAPISecret,
		AccessToken:       c.TwitterAccessToken,
		AccessTokenSecret: c.TwitterAccessTokenSecret,
	}
}

// PromptTemplate returns the contents of the prompt file, or "" when no file
// is configured.
func (c *Config) PromptTemplate() (string, error) {
	if c.PromptFile == "" {
		return "", nil
	}
	b, err := os.ReadFile(c.PromptFile)
	if err != nil {
		return "", fmt.Errorf("read prompt file: %w", err)
	}
	return string(b), nil
}

// Masked returns a copy of c with secrets replaced, for logging.
func (c Config) Masked() Config {
	for _, s := range []*string{
		&c.RagflowAPIKey,
		&c.GenAIAPIKey,
		&c.TwitterAPIKey,
		&c.TwitterAPISecret,
		&c.TwitterAccessToken,
		&c.TwitterAccessTokenSecret,
	} {
		if *s != "" {
			*s = masked
		}
	}
	return c
}

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", domain.ErrInvalidConfig, msg)
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

// newConfigSetter creates a new setter with the given changed flags map.
func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setIntFromString parses a string to int and sets the destination if valid.
// Used for environment variables that come as strings.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i <= 0 {
		return nil
	}
	*dst = i
	return nil
}

// setBoolFromString parses a string to bool and sets the destination.
// Accepts "true", "1" as true, anything else as false.
// Used for environment variables that come as strings.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
