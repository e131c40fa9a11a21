package cliconfig

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every chainreport environment variable.
const EnvPrefix = "CHAINREPORT_"

// getenv returns the first non-empty variable among names.
func getenv(names ...string) string {
	for _, n := range names {
		if v := os.Getenv(n); v != "" {
			return v
		}
	}
	return ""
}

// ApplyEnvConfig applies configuration from environment variables (CHAINREPORT_*).
// The unprefixed credential names used by the Twitter, Ragflow and Gemini
// tooling are accepted as fallbacks.
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("output-dir", getenv("CHAINREPORT_OUTPUT_DIR"), &cfg.OutputDir)
	s.setString("daily-prefix", getenv("CHAINREPORT_DAILY_PREFIX"), &cfg.DailyPrefix)
	s.setString("state-dir", getenv("CHAINREPORT_STATE_DIR"), &cfg.StateDir)
	s.setString("chain", getenv("CHAINREPORT_CHAIN_NAME"), &cfg.ChainName)
	s.setString("stats-url", getenv("CHAINREPORT_STATS_URL"), &cfg.StatsURL)
	s.setString("provider", getenv("CHAINREPORT_PROVIDER"), &cfg.Provider)
	s.setString("ragflow-url", getenv("CHAINREPORT_RAGFLOW_URL"), &cfg.RagflowURL)
	s.setString("ragflow-user-id", getenv("CHAINREPORT_RAGFLOW_USER_ID", "RAGFLOW_USER_ID"), &cfg.RagflowUserID)
	s.setString("ragflow-api-key", getenv("CHAINREPORT_RAGFLOW_API_KEY", "RAGFLOW_API_KEY"), &cfg.RagflowAPIKey)
	s.setString("genai-api-key", getenv("CHAINREPORT_GENAI_API_KEY", "GEMINI_API_KEY"), &cfg.GenAIAPIKey)
	s.setString("genai-model", getenv("CHAINREPORT_GENAI_MODEL"), &cfg.GenAIModel)
	s.setString("prompt-file", getenv("CHAINREPORT_PROMPT_FILE"), &cfg.PromptFile)
	s.setString("twitter-url", getenv("CHAINREPORT_TWITTER_URL"), &cfg.TwitterURL)
	s.setString("twitter-api-key", getenv("CHAINREPORT_TWITTER_API_KEY", "TWITTER_API_KEY"), &cfg.TwitterAPIKey)
	s.setString("twitter-api-secret", getenv("CHAINREPORT_TWITTER_API_SECRET", "TWITTER_API_SECRET"), &cfg.TwitterAPISecret)
	s.setString("twitter-access-token", getenv("CHAINREPORT_TWITTER_ACCESS_TOKEN", "TWITTER_ACCESS_TOKEN"), &cfg.TwitterAccessToken)
	s.setString("twitter-access-token-secret", getenv("CHAINREPORT_TWITTER_ACCESS_TOKEN_SECRET", "TWITTER_ACCESS_TOKEN_SECRET"), &cfg.TwitterAccessTokenSecret)
	s.setString("history-db", getenv("CHAINREPORT_HISTORY_DB"), &cfg.HistoryDB)
	s.setString("metrics-file", getenv("CHAINREPORT_METRICS_FILE"), &cfg.MetricsFile)
	s.setString("log-level", getenv("CHAINREPORT_LOG_LEVEL"), &cfg.LogLevel)

	if err := s.setDuration("stats-timeout", getenv("CHAINREPORT_STATS_TIMEOUT"), &cfg.StatsTimeout); err != nil {
		return err
	}
	if err := s.setDuration("completion-timeout", getenv("CHAINREPORT_COMPLETION_TIMEOUT"), &cfg.CompletionTimeout); err != nil {
		return err
	}
	if err := s.setDuration("post-interval", getenv("CHAINREPORT_POST_INTERVAL"), &cfg.PostInterval); err != nil {
		return err
	}
	if err := s.setDuration("timeout", getenv("CHAINREPORT_HTTP_TIMEOUT"), &cfg.HTTPTimeout); err != nil {
		return err
	}
	if err := s.setDuration("watch-debounce", getenv("CHAINREPORT_WATCH_DEBOUNCE"), &cfg.WatchDebounce); err != nil {
		return err
	}

	if err := s.setIntFromString("days", getenv("CHAINREPORT_DAYS"), &cfg.Days); err != nil {
		return err
	}
	if err := s.setIntFromString("max-length", getenv("CHAINREPORT_MAX_TWEET_LENGTH"), &cfg.MaxTweetLength); err != nil {
		return err
	}

	s.setBoolFromString("dry-run", getenv("CHAINREPORT_DRY_RUN"), &cfg.DryRun)
	s.setBoolFromString("skip-duplicates", getenv("CHAINREPORT_SKIP_DUPLICATES"), &cfg.SkipDuplicates)
	s.setBoolFromString("strict", getenv("CHAINREPORT_STRICT"), &cfg.Strict)

	return nil
}

// LoadDotenv loads variables from a .env file into the environment.
// Variables already set are kept. A missing file is not an error.
func LoadDotenv(path string) error {
	if path == "" {
		return nil
	}
	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
