package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/amishk599/talentscout/internal/config"
	"github.com/amishk599/talentscout/internal/extract"
	"github.com/amishk599/talentscout/internal/filter"
	"github.com/amishk599/talentscout/internal/handoff"
	"github.com/amishk599/talentscout/internal/interview"
	"github.com/amishk599/talentscout/internal/llm"
	"github.com/amishk599/talentscout/internal/model"
	"github.com/amishk599/talentscout/internal/notifier"
	"github.com/amishk599/talentscout/internal/ratelimit"
	"github.com/amishk599/talentscout/internal/retry"
	"github.com/amishk599/talentscout/internal/store"
)

var (
	cfgPath string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "talentscout",
	Short: "Hiring assistant that screens technology candidates",
	Long:  "TalentScout runs a guided intake interview: it collects candidate details, then asks technical questions about the candidate's stack.",
	// Running the binary with no subcommand starts a chat.
	RunE: runChat,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: TALENTSCOUT_CONFIG env var or ./talentscout.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	addChatFlags(rootCmd)
}

func loadConfig(path string) (*config.Config, error) {
	return config.LoadFrom(path)
}

func setupLogger(dbg bool) *slog.Logger {
	return newLogger(os.Stdout, dbg)
}

func newLogger(w io.Writer, dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: logLevel}))
}

// mustLoad loads config or exits, logging through logger.
func mustLoad(logger *slog.Logger) *config.Config {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	return cfg
}

// setupProvider builds the LLM chain: backend, then rate limiting, then
// retries with a per-attempt timeout.
func setupProvider(ctx context.Context, cfg *config.Config, logger *slog.Logger) (llm.Provider, error) {
	var base llm.Provider
	switch cfg.AI.Provider {
	case llm.KindGemini:
		p, err := llm.NewGeminiProvider(ctx, cfg.AI.APIKey, cfg.AI.Model)
		if err != nil {
			return nil, err
		}
		base = p
	case llm.KindGroq, llm.KindOpenAI:
		httpClient := &http.Client{Timeout: cfg.AI.Timeout}
		base = llm.NewOpenAIProvider(cfg.AI.BaseURL, cfg.AI.APIKey, cfg.AI.Model, httpClient)
	default:
		return nil, fmt.Errorf("unsupported ai provider %q", cfg.AI.Provider)
	}

	provider := base
	if cfg.AI.MinDelay > 0 {
		provider = ratelimit.NewProvider(provider, ratelimit.NewLimiter(cfg.AI.MinDelay), string(cfg.AI.Provider))
	}
	// ai.timeout bounds each attempt, so a hung call still leaves the
	// retries their own time.
	provider = retry.NewProvider(provider, cfg.AI.MaxRetries, cfg.AI.RetryBaseDelay, cfg.AI.Timeout, logger)

	logger.Debug("llm provider configured",
		"provider", cfg.AI.Provider,
		"model", cfg.AI.Model,
		"max_retries", cfg.AI.MaxRetries,
		"min_delay", cfg.AI.MinDelay.String(),
	)
	return provider, nil
}

func setupExtractor(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*extract.Client, error) {
	provider, err := setupProvider(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	// No overall bound on top: attempts and retries are both bounded already.
	return extract.NewClient(provider, 0, cfg.Interview.MaxQuestions, logger), nil
}

func setupController(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*interview.Controller, error) {
	extractor, err := setupExtractor(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	exit := filter.NewExitFilter(cfg.Interview.ExitKeywords, cfg.Interview.ExitMatch)
	return interview.NewController(extractor, exit, cfg.Interview.MaxAttempts, logger), nil
}

func setupNotifier(cfg *config.Config, httpClient *http.Client, logger *slog.Logger) model.Notifier {
	switch cfg.Notification.Type {
	case "slack":
		logger.Info("using slack notifier")
		return notifier.NewSlackNotifier(cfg.Notification.WebhookURL, httpClient, logger)
	default:
		return notifier.NewLogNotifier(logger)
	}
}

// setupStore opens the archive when enabled. The returned close func is
// always safe to call.
func setupStore(cfg *config.Config, logger *slog.Logger) (model.InterviewStore, func(), error) {
	if !cfg.Archive.Enabled {
		return store.NewNopStore(), func() {}, nil
	}
	sqlStore, err := store.NewSQLiteStore(cfg.Archive.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("open archive: %w", err)
	}
	logger.Info("interview archive enabled", "path", cfg.Archive.Path)
	return sqlStore, func() { sqlStore.Close() }, nil
}

// setupHandoff opens the archive and wires it with the notifier into a
// completion hook. The returned close func releases the archive.
func setupHandoff(cfg *config.Config, logger *slog.Logger) (interview.CompletionFunc, func(), error) {
	interviewStore, closeStore, err := setupStore(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return setupHandoffWith(cfg, interviewStore, logger), closeStore, nil
}

func setupHandoffWith(cfg *config.Config, interviewStore model.InterviewStore, logger *slog.Logger) interview.CompletionFunc {
	httpClient := &http.Client{Timeout: 30 * time.Second}
	n := setupNotifier(cfg, httpClient, logger)
	return handoff.New(interviewStore, n, 0, logger).Hook()
}
