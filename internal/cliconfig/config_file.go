package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/bft-labs/chainreport/internal/domain"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
type FileConfig struct {
	OutputDir   string `toml:"output_dir"`
	DailyPrefix string `toml:"daily_prefix"`
	StateDir    string `toml:"state_dir"`
	Days        int    `toml:"days"`
	ChainName   string `toml:"chain_name"`

	StatsURL     string `toml:"stats_url"`
	StatsTimeout string `toml:"stats_timeout"`

	Provider          string `toml:"provider"`
	RagflowURL        string `toml:"ragflow_url"`
	RagflowUserID     string `toml:"ragflow_user_id"`
	RagflowAPIKey     string `toml:"ragflow_api_key"`
	GenAIAPIKey       string `toml:"genai_api_key"`
	GenAIModel        string `toml:"genai_model"`
	CompletionTimeout string `toml:"completion_timeout"`
	PromptFile        string `toml:"prompt_file"`

	TwitterURL               string `toml:"twitter_url"`
	TwitterAPIKey            string `toml:"twitter_api_key"`
	TwitterAPISecret         string `toml:"twitter_api_secret"`
	TwitterAccessToken       string `toml:"twitter_access_token"`
	TwitterAccessTokenSecret string `toml:"twitter_access_token_secret"`
	MaxTweetLength           int    `toml:"max_tweet_length"`
	PostInterval             string `toml:"post_interval"`
	HTTPTimeout              string `toml:"http_timeout"`

	DryRun         *bool  `toml:"dry_run"`
	SkipDuplicates *bool  `toml:"skip_duplicates"`
	HistoryDB      string `toml:"history_db"`
	MetricsFile    string `toml:"metrics_file"`
	WatchDebounce  string `toml:"watch_debounce"`

	LogLevel string `toml:"log_level"`
	Strict   *bool  `toml:"strict"`

	Metrics []domain.Metric `toml:"metrics"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path.
// Returns ~/.chainreport/config.toml if user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".chainreport", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("output-dir", fc.OutputDir, &cfg.OutputDir)
	s.setString("daily-prefix", fc.DailyPrefix, &cfg.DailyPrefix)
	s.setString("state-dir", fc.StateDir, &cfg.StateDir)
	s.setString("chain", fc.ChainName, &cfg.ChainName)
	s.setString("stats-url", fc.StatsURL, &cfg.StatsURL)
	s.setString("provider", fc.Provider, &cfg.Provider)
	s.setString("ragflow-url", fc.RagflowURL, &cfg.RagflowURL)
	s.setString("ragflow-user-id", fc.RagflowUserID, &cfg.RagflowUserID)
	s.setString("ragflow-api-key", fc.RagflowAPIKey, &cfg.RagflowAPIKey)
	s.setString("genai-api-key", fc.GenAIAPIKey, &cfg.GenAIAPIKey)
	s.setString("genai-model", fc.GenAIModel, &cfg.GenAIModel)
	s.setString("prompt-file", fc.PromptFile, &cfg.PromptFile)
	s.setString("twitter-url", fc.TwitterURL, &cfg.TwitterURL)
	s.setString("twitter-api-key", fc.TwitterAPIKey, &cfg.TwitterAPIKey)
	s.setString("twitter-api-secret", fc.TwitterAPISecret, &cfg.TwitterAPISecret)
	s.setString("twitter-access-token", fc.TwitterAccessToken, &cfg.TwitterAccessToken)
	s.setString("twitter-access-token-secret", fc.TwitterAccessTokenSecret, &cfg.TwitterAccessTokenSecret)
	s.setString("history-db", fc.HistoryDB, &cfg.HistoryDB)
	s.setString("metrics-file", fc.MetricsFile, &cfg.MetricsFile)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)

	if err := s.setDuration("stats-timeout", fc.StatsTimeout, &cfg.StatsTimeout); err != nil {
		return err
	}
	if err := s.setDuration("completion-timeout", fc.CompletionTimeout, &cfg.CompletionTimeout); err != nil {
		return err
	}
	if err := s.setDuration("post-interval", fc.PostInterval, &cfg.PostInterval); err != nil {
		return err
	}
	if err := s.setDuration("timeout", fc.HTTPTimeout, &cfg.HTTPTimeout); err != nil {
		return err
	}
	if err := s.setDuration("watch-debounce", fc.WatchDebounce, &cfg.WatchDebounce); err != nil {
		return err
	}

	s.setInt("days", fc.Days, &cfg.Days)
	s.setInt("max-length", fc.MaxTweetLength, &cfg.MaxTweetLength)

	s.setBool("dry-run", fc.DryRun, &cfg.DryRun)
	s.setBool("skip-duplicates", fc.SkipDuplicates, &cfg.SkipDuplicates)
	s.setBool("strict", fc.Strict, &cfg.Strict)

	// The metric catalog has no flag.
	if len(fc.Metrics) > 0 {
		cfg.Metrics = fc.Metrics
	}

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
