package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/MorpheusAIs/mor-stats-backend/internal/config"
	"github.com/spf13/cobra"
)

const programName = "mor-stats-indexer"

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

var globalFlags = struct {
	configFile string
	logLevel   string
}{}

type configKey struct{}

func withConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

func configFromContext(ctx context.Context) *config.Config {
	cfg, _ := ctx.Value(configKey{}).(*config.Config)
	return cfg
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func newLogger(w io.Writer, level string) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: parseLogLevel(level)}))
	slog.SetDefault(logger)
	return logger
}

// loadConfig reads --config when given, CONFIG_FILE otherwise, and lets
// --log-level override LOG_LEVEL.
func loadConfig(path, logLevel string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if path != "" {
		cfg, err = config.LoadFile(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	return cfg, nil
}

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "indexer",
		Short:         "Incremental ingestion of MOR staking events and published metrics",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().
		StringVar(&globalFlags.configFile, "config", "", "path to YAML config file (default $CONFIG_FILE)")
	rootCmd.PersistentFlags().
		StringVar(&globalFlags.logLevel, "log-level", "", "override LOG_LEVEL (debug|info|warn|error)")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(globalFlags.configFile, globalFlags.logLevel)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cmd.SetContext(withConfig(cmd.Context(), cfg))
		return nil
	}

	rootCmd.AddCommand(runCommand())
	rootCmd.AddCommand(stageCommand())
	rootCmd.AddCommand(serveCommand())
	rootCmd.AddCommand(migrateCommand())
	rootCmd.AddCommand(importCommand())
	rootCmd.AddCommand(metricsCommand())
	return rootCmd
}

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		slog.Error("command failed", "component", programName, "error", err)
		os.Exit(1)
	}
}
