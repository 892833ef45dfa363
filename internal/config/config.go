package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/amishk599/talentscout/internal/filter"
	"github.com/amishk599/talentscout/internal/llm"
)

// DefaultPath is read when neither --config nor TALENTSCOUT_CONFIG is set.
const DefaultPath = "talentscout.yaml"

// PathEnv overrides DefaultPath.
const PathEnv = "TALENTSCOUT_CONFIG"

// maxQuestionsLimit is the most technical questions one interview may ask.
const maxQuestionsLimit = 5

// Config is the root configuration for the TalentScout assistant.
type Config struct {
	AI           AIConfig
	Interview    InterviewConfig
	Server       ServerConfig
	Archive      ArchiveConfig
	Notification NotificationConfig
}

// AIConfig selects and tunes the LLM backend.
type AIConfig struct {
	Provider       llm.Kind
	BaseURL        string        // OpenAI-compatible kinds only
	Model          string        // defaults per provider
	APIKey         string        // expanded from env var by Load
	Timeout        time.Duration // per-request timeout
	MaxRetries     int           // extra attempts on transient failures
	RetryBaseDelay time.Duration
	MinDelay       time.Duration // minimum gap between provider calls; 0 disables
}

// InterviewConfig tunes the conversation itself.
type InterviewConfig struct {
	MaxQuestions int
	MaxAttempts  int // 0 = retry a field forever
	ExitKeywords []string
	ExitMatch    filter.MatchMode
	TypingDelay  time.Duration // per-word reveal delay in the TUI
}

// ServerConfig controls the HTTP session API.
type ServerConfig struct {
	Addr          string
	SessionTTL    time.Duration
	SweepInterval time.Duration
}

// ArchiveConfig controls the SQLite interview archive.
type ArchiveConfig struct {
	Enabled   bool
	Path      string
	Retention time.Duration
}

// NotificationConfig controls which notifier is used and its settings.
type NotificationConfig struct {
	Type       string `yaml:"type"`        // "log" or "slack"
	WebhookURL string `yaml:"webhook_url"` // required if type is "slack"
}

// rawConfig is used for YAML unmarshaling (snake_case fields and duration as string).
type rawConfig struct {
	AI           rawAIConfig        `yaml:"ai"`
	Interview    rawInterviewConfig `yaml:"interview"`
	Server       rawServerConfig    `yaml:"server"`
	Archive      rawArchiveConfig   `yaml:"archive"`
	Notification NotificationConfig `yaml:"notification"`
}

type rawAIConfig struct {
	Provider       string `yaml:"provider"`
	BaseURL        string `yaml:"base_url"`
	Model          string `yaml:"model"`
	APIKey         string `yaml:"api_key"`
	Timeout        string `yaml:"timeout"`
	MaxRetries     *int   `yaml:"max_retries"`
	RetryBaseDelay string `yaml:"retry_base_delay"`
	MinDelay       string `yaml:"min_delay"`
}

type rawInterviewConfig struct {
	MaxQuestions int      `yaml:"max_questions"`
	MaxAttempts  int      `yaml:"max_attempts"`
	ExitKeywords []string `yaml:"exit_keywords"`
	ExitMatch    string   `yaml:"exit_match"`
	TypingDelay  string   `yaml:"typing_delay"`
}

type rawServerConfig struct {
	Addr          string `yaml:"addr"`
	SessionTTL    string `yaml:"session_ttl"`
	SweepInterval string `yaml:"sweep_interval"`
}

type rawArchiveConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Path      string `yaml:"path"`
	Retention string `yaml:"retention"`
}

// Default returns the configuration used when no file exists. The provider is
// the first of groq, openai, gemini whose API key is set in the environment.
func Default() *Config {
	kind := llm.KindGroq
	for _, k := range []llm.Kind{llm.KindGroq, llm.KindOpenAI, llm.KindGemini} {
		if os.Getenv(llm.APIKeyEnv(k)) != "" {
			kind = k
			break
		}
	}

	return &Config{
		AI: AIConfig{
			Provider:       kind,
			BaseURL:        llm.DefaultBaseURL(kind),
			Model:          llm.DefaultModel(kind),
			APIKey:         os.Getenv(llm.APIKeyEnv(kind)),
			Timeout:        30 * time.Second,
			MaxRetries:     2,
			RetryBaseDelay: time.Second,
		},
		Interview: InterviewConfig{
			MaxQuestions: maxQuestionsLimit,
			ExitKeywords: filter.DefaultExitKeywords,
			ExitMatch:    filter.MatchSubstring,
			TypingDelay:  30 * time.Millisecond,
		},
		Server: ServerConfig{
			Addr:          ":8080",
			SessionTTL:    30 * time.Minute,
			SweepInterval: time.Minute,
		},
		Archive: ArchiveConfig{
			Path:      "talentscout.db",
			Retention: 30 * 24 * time.Hour,
		},
		Notification: NotificationConfig{Type: "log"},
	}
}

// ResolvePath applies the lookup order: explicit flag, then $TALENTSCOUT_CONFIG,
// then DefaultPath. The boolean reports whether the path was chosen explicitly.
func ResolvePath(flagPath string) (string, bool) {
	if flagPath != "" {
		return flagPath, true
	}
	if p := os.Getenv(PathEnv); p != "" {
		return p, true
	}
	return DefaultPath, false
}

// LoadFrom loads .env, resolves the config path and loads it. A missing
// default file is not an error: Default() is validated and returned instead.
func LoadFrom(flagPath string) (*Config, error) {
	if err := LoadDotEnv(); err != nil {
		return nil, err
	}

	path, explicit := ResolvePath(flagPath)
	if !explicit {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			cfg := Default()
			if err := validate(cfg); err != nil {
				return nil, err
			}
			return cfg, nil
		}
	}
	return Load(path)
}

// LoadDotEnv reads KEY=value pairs from the given files (default ".env") into
// the process environment without overriding variables that are already set.
// Missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// Load reads and parses the YAML config file at path, validates it, and returns Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg := Default()
	if err := raw.apply(cfg); err != nil {
		return nil, err
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// apply overlays everything set in the file onto cfg.
func (raw *rawConfig) apply(cfg *Config) error {
	var err error

	if raw.AI.Provider != "" {
		kind := llm.Kind(strings.ToLower(raw.AI.Provider))
		if kind != cfg.AI.Provider {
			cfg.AI.Provider = kind
			cfg.AI.BaseURL = llm.DefaultBaseURL(kind)
			cfg.AI.Model = llm.DefaultModel(kind)
			cfg.AI.APIKey = os.Getenv(llm.APIKeyEnv(kind))
		}
	}
	if raw.AI.BaseURL != "" {
		cfg.AI.BaseURL = raw.AI.BaseURL
	}
	if raw.AI.Model != "" {
		cfg.AI.Model = raw.AI.Model
	}
	if raw.AI.APIKey != "" {
		cfg.AI.APIKey = raw.AI.APIKey
	}
	if raw.AI.MaxRetries != nil {
		cfg.AI.MaxRetries = *raw.AI.MaxRetries
	}
	if cfg.AI.Timeout, err = parseDuration("ai.timeout", raw.AI.Timeout, cfg.AI.Timeout); err != nil {
		return err
	}
	if cfg.AI.RetryBaseDelay, err = parseDuration("ai.retry_base_delay", raw.AI.RetryBaseDelay, cfg.AI.RetryBaseDelay); err != nil {
		return err
	}
	if cfg.AI.MinDelay, err = parseDuration("ai.min_delay", raw.AI.MinDelay, cfg.AI.MinDelay); err != nil {
		return err
	}

	if raw.Interview.MaxQuestions != 0 {
		cfg.Interview.MaxQuestions = raw.Interview.MaxQuestions
	}
	cfg.Interview.MaxAttempts = raw.Interview.MaxAttempts
	if raw.Interview.ExitKeywords != nil {
		cfg.Interview.ExitKeywords = raw.Interview.ExitKeywords
	}
	if raw.Interview.ExitMatch != "" {
		cfg.Interview.ExitMatch = filter.MatchMode(strings.ToLower(raw.Interview.ExitMatch))
	}
	if cfg.Interview.TypingDelay, err = parseDuration("interview.typing_delay", raw.Interview.TypingDelay, cfg.Interview.TypingDelay); err != nil {
		return err
	}

	if raw.Server.Addr != "" {
		cfg.Server.Addr = raw.Server.Addr
	}
	if cfg.Server.SessionTTL, err = parseDuration("server.session_ttl", raw.Server.SessionTTL, cfg.Server.SessionTTL); err != nil {
		return err
	}
	if cfg.Server.SweepInterval, err = parseDuration("server.sweep_interval", raw.Server.SweepInterval, cfg.Server.SweepInterval); err != nil {
		return err
	}

	cfg.Archive.Enabled = raw.Archive.Enabled
	if raw.Archive.Path != "" {
		cfg.Archive.Path = raw.Archive.Path
	}
	if cfg.Archive.Retention, err = parseDuration("archive.retention", raw.Archive.Retention, cfg.Archive.Retention); err != nil {
		return err
	}

	if raw.Notification.Type != "" {
		cfg.Notification.Type = raw.Notification.Type
	}
	cfg.Notification.WebhookURL = raw.Notification.WebhookURL
	return nil
}

func parseDuration(key, raw string, def time.Duration) (time.Duration, error) {
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s %q: %w", key, raw, err)
	}
	return d, nil
}

func validate(cfg *Config) error {
	switch cfg.AI.Provider {
	case llm.KindGroq, llm.KindOpenAI:
		if cfg.AI.BaseURL == "" {
			return fmt.Errorf("ai.base_url is required for provider %q", cfg.AI.Provider)
		}
	case llm.KindGemini:
	default:
		return fmt.Errorf("ai.provider must be one of groq, openai, gemini, got %q", cfg.AI.Provider)
	}
	if cfg.AI.APIKey == "" {
		return fmt.Errorf("ai.api_key is required (or set %s)", llm.APIKeyEnv(cfg.AI.Provider))
	}
	if cfg.AI.Model == "" {
		return fmt.Errorf("ai.model is required")
	}
	if cfg.AI.Timeout <= 0 {
		return fmt.Errorf("ai.timeout must be positive, got %v", cfg.AI.Timeout)
	}
	if cfg.AI.MaxRetries < 0 {
		return fmt.Errorf("ai.max_retries must not be negative, got %d", cfg.AI.MaxRetries)
	}
	if cfg.AI.RetryBaseDelay < 0 || cfg.AI.MinDelay < 0 {
		return fmt.Errorf("ai.retry_base_delay and ai.min_delay must not be negative")
	}

	if cfg.Interview.MaxQuestions < 1 || cfg.Interview.MaxQuestions > maxQuestionsLimit {
		return fmt.Errorf("interview.max_questions must be between 1 and %d, got %d", maxQuestionsLimit, cfg.Interview.MaxQuestions)
	}
	if cfg.Interview.MaxAttempts < 0 {
		return fmt.Errorf("interview.max_attempts must not be negative, got %d", cfg.Interview.MaxAttempts)
	}
	if cfg.Interview.ExitMatch != filter.MatchSubstring && cfg.Interview.ExitMatch != filter.MatchWord {
		return fmt.Errorf("interview.exit_match must be \"substring\" or \"word\", got %q", cfg.Interview.ExitMatch)
	}
	if cfg.Interview.TypingDelay < 0 {
		return fmt.Errorf("interview.typing_delay must not be negative, got %v", cfg.Interview.TypingDelay)
	}

	if cfg.Server.SessionTTL < 0 {
		return fmt.Errorf("server.session_ttl must not be negative, got %v", cfg.Server.SessionTTL)
	}
	if cfg.Server.SweepInterval <= 0 {
		return fmt.Errorf("server.sweep_interval must be positive, got %v", cfg.Server.SweepInterval)
	}

	if cfg.Archive.Enabled {
		if cfg.Archive.Path == "" {
			return fmt.Errorf("archive.path is required when archive.enabled is true")
		}
		if cfg.Archive.Retention <= 0 {
			return fmt.Errorf("archive.retention must be positive, got %v", cfg.Archive.Retention)
		}
	}

	switch cfg.Notification.Type {
	case "log":
	case "slack":
		if cfg.Notification.WebhookURL == "" {
			return fmt.Errorf("notification.webhook_url is required when type is \"slack\"")
		}
		if !strings.HasPrefix(cfg.Notification.WebhookURL, "https://hooks.slack.com/") {
			return fmt.Errorf("notification.webhook_url must start with https://hooks.slack.com/")
		}
	default:
		return fmt.Errorf("notification.type must be \"log\" or \"slack\", got %q", cfg.Notification.Type)
	}

	return nil
}
