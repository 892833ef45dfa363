package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/amishk599/talentscout/internal/config"
	"github.com/amishk599/talentscout/internal/extract"
	"github.com/amishk599/talentscout/internal/model"
	"github.com/amishk599/talentscout/internal/tui"
)

const checkUtterance = "Hi, I'm Jane Doe and I mostly work with Go, PostgreSQL and Kubernetes."

var checkQuestions bool

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run one extraction against the configured provider",
	Long:  "One-shot round trip: asks the configured LLM to extract a name from a sample sentence and prints the result. Nothing is archived.",
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().BoolVar(&checkQuestions, "questions", false, "also generate technical questions for the sample tech stack")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)
	cfg := mustLoad(logger)

	// The loader renders inline; log lines would interleave with the spinner.
	silentLogger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if debug {
		silentLogger = newLogger(os.Stderr, true)
	}

	extractor, err := setupExtractor(context.Background(), cfg, silentLogger)
	if err != nil {
		logger.Error("failed to set up llm provider", "error", err)
		os.Exit(1)
	}

	budget := checkBudget(cfg.AI)
	label := fmt.Sprintf("Asking %s (%s)", cfg.AI.Provider, cfg.AI.Model)

	out, err := tui.RunLoader(label, budget, func(ctx context.Context) (string, error) {
		return runCheckRound(ctx, extractor)
	})
	if err != nil {
		logger.Error("check failed", "provider", cfg.AI.Provider, "error", err)
		os.Exit(1)
	}

	fmt.Print(out)
	logger.Info("check complete")
	return nil
}

// checkBudget is the longest the round may take: every call may use all of
// its attempts and the backoff between them (plus jitter).
func checkBudget(ai config.AIConfig) time.Duration {
	var backoff time.Duration
	for i := 0; i < ai.MaxRetries; i++ {
		backoff += ai.RetryBaseDelay << i
	}
	perCall := ai.Timeout*time.Duration(ai.MaxRetries+1) + backoff + backoff*3/10

	calls := 1
	if checkQuestions {
		calls = 3
	}
	return perCall * time.Duration(calls)
}

func runCheckRound(ctx context.Context, extractor *extract.Client) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Input:  %q\n", checkUtterance)

	name, err := extractor.ExtractField(ctx, checkUtterance, model.FieldName)
	if err != nil {
		return "", err
	}
	fmt.Fprintf(&b, "Name:   %s\n", name)

	if checkQuestions {
		stack, err := extractor.ExtractField(ctx, checkUtterance, model.FieldTechStack)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "Stack:  %s\n\n", stack)
		for i, q := range extractor.GenerateTechnicalQuestions(ctx, stack) {
			fmt.Fprintf(&b, "%d. %s\n", i+1, q)
		}
	}
	return b.String(), nil
}
