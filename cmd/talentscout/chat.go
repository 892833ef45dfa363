package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/amishk599/talentscout/internal/interview"
	"github.com/amishk599/talentscout/internal/tui"
)

var (
	plain   bool
	logFile string
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Run an interview in the terminal",
	Long:  "Starts one interview session. Uses a full-screen TUI unless --plain is given.",
	RunE:  runChat,
}

func init() {
	addChatFlags(chatCmd)
	rootCmd.AddCommand(chatCmd)
}

func addChatFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&plain, "plain", false, "line-by-line prompt instead of the full-screen TUI")
	cmd.Flags().StringVar(&logFile, "log-file", "", "write logs to this file (the TUI discards them otherwise)")
}

func runChat(cmd *cobra.Command, args []string) error {
	logger, closeLog, err := chatLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "open log file: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	cfg := mustLoad(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	controller, err := setupController(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to set up llm provider", "error", err)
		os.Exit(1)
	}

	hook, closeStore, err := setupHandoff(cfg, logger)
	if err != nil {
		logger.Error("failed to set up hand-off", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	session := interview.NewSession(uuid.NewString(), controller, hook)
	logger.Info("interview started", "session", session.ID(), "provider", cfg.AI.Provider)

	if plain {
		return runPlainChat(ctx, session)
	}
	if err := tui.RunChat(ctx, session, cfg.Interview.TypingDelay); err != nil && ctx.Err() == nil {
		return fmt.Errorf("chat: %w", err)
	}
	return nil
}

// chatLogger logs to --log-file when given. Without it the plain prompt logs
// to stderr at --debug only, and the TUI discards everything.
func chatLogger() (*slog.Logger, func(), error) {
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, err
		}
		return newLogger(f, debug), func() { f.Close() }, nil
	}
	if plain && debug {
		return newLogger(os.Stderr, true), func() {}, nil
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}, nil
}

// runPlainChat drives the session with one promptui prompt per turn.
func runPlainChat(ctx context.Context, s *interview.Session) error {
	fmt.Printf("TalentScout: %s\n\n", interview.Greeting)

	for !s.Done() {
		prompt := promptui.Prompt{
			Label: "You",
			Validate: func(in string) error {
				if strings.TrimSpace(in) == "" {
					return errors.New("please type a reply")
				}
				return nil
			},
		}
		text, err := prompt.Run()
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("prompt: %w", err)
		}

		turn := s.Advance(ctx, text)
		if ctx.Err() != nil {
			return nil
		}
		fmt.Printf("\nTalentScout: %s\n\n", turn.Response)
	}
	return nil
}
