package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"vetremind/internal/config"
	"vetremind/internal/settings"
	"vetremind/internal/storage"
)

var (
	cfg          *config.Config
	log          *slog.Logger
	settingsPath string
	dbPath       string
)

func main() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	log = newLogger(cfg.LogLevel)

	rootCmd := &cobra.Command{
		Use:           "vetremind",
		Short:         "Follow-up reminders from veterinary invoice exports",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&settingsPath, "settings", cfg.SettingsPath, "settings file path")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", cfg.DatabasePath, "feedback database path")

	rootCmd.AddCommand(remindCmd())
	rootCmd.AddCommand(rulesCmd())
	rootCmd.AddCommand(exclusionsCmd())
	rootCmd.AddCommand(userNameCmd())
	rootCmd.AddCommand(feedbackCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func getSettings() (*settings.Store, error) {
	if err := ensureDir(settingsPath); err != nil {
		return nil, err
	}
	st := settings.NewStore(settingsPath, log)
	if _, err := st.Load(); err != nil {
		return nil, err
	}
	return st, nil
}

func getFeedback() (*storage.SQLite, error) {
	if err := ensureDir(dbPath); err != nil {
		return nil, err
	}
	return storage.NewSQLite(dbPath)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	return nil
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
