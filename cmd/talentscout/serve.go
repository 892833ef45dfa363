package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/amishk599/talentscout/internal/api"
	"github.com/amishk599/talentscout/internal/model"
	"github.com/amishk599/talentscout/internal/scheduler"
	"github.com/amishk599/talentscout/internal/session"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve interview sessions over HTTP",
	Long:  "Starts the HTTP session API and the housekeeping scheduler; blocks until SIGINT/SIGTERM.",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)
	cfg := mustLoad(logger)

	logger.Info("config loaded",
		"provider", cfg.AI.Provider,
		"model", cfg.AI.Model,
		"addr", cfg.Server.Addr,
		"session_ttl", cfg.Server.SessionTTL.String(),
		"archive", cfg.Archive.Enabled,
		"notifier", cfg.Notification.Type,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	controller, err := setupController(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to set up llm provider", "error", err)
		os.Exit(1)
	}

	interviewStore, closeStore, err := setupStore(cfg, logger)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	hook := setupHandoffWith(cfg, interviewStore, logger)
	sessions := session.NewManager(controller, hook, cfg.Server.SessionTTL, logger)

	tasks := []scheduler.Task{{Name: "session-sweep", Run: sessions.SweepTask}}
	if cfg.Archive.Enabled {
		tasks = append(tasks, pruneTask(interviewStore, cfg.Archive.Retention, logger))
	}
	sched := scheduler.NewScheduler(cfg.Server.SweepInterval, logger, tasks...)

	app := api.NewApp(
		api.NewSessionHandler(sessions),
		api.NewHealthHandler(sessions, version),
		logger,
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return sched.Run(gctx)
	})
	g.Go(func() error {
		logger.Info("http server listening", "addr", cfg.Server.Addr)
		return app.Listen(cfg.Server.Addr)
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		return app.ShutdownWithTimeout(shutdownTimeout)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}

	logger.Info("goodbye")
	return nil
}

// pruneTask drops archived interviews older than retention.
func pruneTask(s model.InterviewStore, retention time.Duration, logger *slog.Logger) scheduler.Task {
	return scheduler.Task{
		Name: "archive-prune",
		Run: func(ctx context.Context) error {
			n, err := s.Cleanup(ctx, retention)
			if err != nil {
				return err
			}
			if n > 0 {
				logger.Info("pruned archived interviews", "removed", n, "retention", retention.String())
			}
			return nil
		},
	}
}
