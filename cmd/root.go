package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/examprep/cbt/internal/app"
	"github.com/examprep/cbt/internal/config"
	"github.com/examprep/cbt/internal/store"
	"github.com/examprep/cbt/internal/ui/theme"
)

var rootCmd = &cobra.Command{
	Use:   "cbt",
	Short: "Offline-first UTME exam practice",
	Long: `cbt runs timed practice sessions and full mock exams from a public question
bank, keeps questions and AI answers cached for offline use, and adds an AI
study assistant, flashcards and a literature library.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

// cfg is the configuration resolved before any command runs.
var cfg config.Config

// ExecuteContext runs the root command with ctx.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides CBT_DB env var)")
	rootCmd.PersistentFlags().String("env", ".env", "Path to an env file to load")
	rootCmd.PersistentFlags().Bool("offline", false, "Treat the network as unavailable (overrides CBT_OFFLINE)")

	rootCmd.AddCommand(practiceCmd)
	rootCmd.AddCommand(examCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(flashcardsCmd)
	rootCmd.AddCommand(novelCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(bookmarksCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(notificationsCmd)
	rootCmd.AddCommand(dictCmd)
	rootCmd.AddCommand(subjectsCmd)
	rootCmd.AddCommand(quizCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

func loadConfig(cmd *cobra.Command, args []string) error {
	envFile, _ := cmd.Flags().GetString("env")
	c, err := config.Load(envFile)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("offline") {
		c.Offline, _ = cmd.Flags().GetBool("offline")
	}
	cfg = c
	return nil
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then CBT_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// openApp builds the services for a command. The caller must Close it.
func openApp(cmd *cobra.Command) (*app.App, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	a, err := app.Open(cmd.Context(), app.Options{
		Config: cfg,
		DBPath: dbPath,
		Logger: config.NewLogger(os.Stderr, cfg.LogLevel),
	})
	if err != nil {
		return nil, err
	}
	theme.Use(a.Prefs.Settings().Theme)
	return a, nil
}
