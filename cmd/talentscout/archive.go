package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/amishk599/talentscout/internal/store"
	"github.com/amishk599/talentscout/internal/tui"
)

var (
	listLimit   int
	browseLimit int
)

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Inspect the interview archive",
}

var archiveListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print archived interviews, newest first",
	RunE:  runArchiveList,
}

var archivePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete interviews older than archive.retention",
	RunE:  runArchivePrune,
}

var archiveBrowseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse archived interviews interactively (TUI)",
	RunE:  runArchiveBrowse,
}

func init() {
	archiveListCmd.Flags().IntVarP(&listLimit, "limit", "n", 20, "maximum interviews to print (0 for all)")
	archiveBrowseCmd.Flags().IntVarP(&browseLimit, "limit", "n", 0, "maximum interviews to load (0 for all)")

	archiveCmd.AddCommand(archiveListCmd, archivePruneCmd, archiveBrowseCmd)
	rootCmd.AddCommand(archiveCmd)
}

// openArchive opens the configured SQLite file even when archiving is
// disabled, so earlier interviews stay reachable.
func openArchive() *store.SQLiteStore {
	logger := setupLogger(debug)
	cfg := mustLoad(logger)
	if !cfg.Archive.Enabled {
		logger.Warn("archive.enabled is false; reading existing file anyway", "path", cfg.Archive.Path)
	}

	s, err := store.NewSQLiteStore(cfg.Archive.Path)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	return s
}

func runArchiveList(cmd *cobra.Command, args []string) error {
	s := openArchive()
	defer s.Close()

	records, err := s.List(context.Background(), listLimit)
	if err != nil {
		return fmt.Errorf("list archive: %w", err)
	}

	fmt.Printf("%-17s %-25s %-30s %-22s %s\n", "Completed", "Name", "Email", "Position", "Answers")
	fmt.Println(strings.Repeat("─", 104))
	for _, r := range records {
		fmt.Printf("%-17s %-25s %-30s %-22s %d\n",
			r.CompletedAt.Local().Format("2006-01-02 15:04"),
			clip(r.Candidate.FullName, 25),
			clip(r.Candidate.Email, 30),
			clip(r.Candidate.DesiredPosition, 22),
			len(r.Answers),
		)
	}
	fmt.Printf("\nTotal: %d interviews\n", len(records))
	return nil
}

func runArchivePrune(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)
	cfg := mustLoad(logger)

	s, err := store.NewSQLiteStore(cfg.Archive.Path)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer s.Close()

	n, err := s.Cleanup(context.Background(), cfg.Archive.Retention)
	if err != nil {
		return fmt.Errorf("prune archive: %w", err)
	}
	logger.Info("archive pruned", "removed", n, "retention", cfg.Archive.Retention.String())
	return nil
}

func runArchiveBrowse(cmd *cobra.Command, args []string) error {
	s := openArchive()
	defer s.Close()

	records, err := s.List(context.Background(), browseLimit)
	if err != nil {
		return fmt.Errorf("list archive: %w", err)
	}
	return tui.RunArchiveBrowser(records)
}

func clip(s string, n int) string {
	if s == "" {
		return "-"
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
