package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"

	"github.com/MorpheusAIs/mor-stats-backend/internal/analytics"
	"github.com/MorpheusAIs/mor-stats-backend/internal/config"
	"github.com/MorpheusAIs/mor-stats-backend/internal/importer"
	"github.com/MorpheusAIs/mor-stats-backend/internal/pipeline"
	"github.com/spf13/cobra"
)

// commandContext returns the command context with its config, cancelled on
// SIGINT or SIGTERM.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc, *config.Config, error) {
	cfg := configFromContext(cmd.Context())
	if cfg == nil {
		return nil, nil, nil, fmt.Errorf("no config found in context")
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	return ctx, stop, cfg, nil
}

func runCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run every pipeline stage once, in order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop, cfg, err := commandContext(cmd)
			if err != nil {
				return err
			}
			defer stop()

			logger := newLogger(os.Stdout, cfg.Log.Level)
			a, err := newApp(ctx, cfg, logger, appOptions{migrate: true, pipeline: true})
			defer a.Close()
			if err != nil {
				return err
			}

			runCtx, cancel := context.WithTimeout(ctx, cfg.Pipeline.RunTimeout)
			defer cancel()
			report, err := a.pipeline.Run(runCtx)
			if err != nil {
				return fmt.Errorf("run %s: %w", report.RunID, err)
			}
			logger.Info("run finished", "run_id", report.RunID, "inserted", report.Inserted(), "cache_cleared", report.CacheCleared)
			return nil
		},
	}
}

func stageCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "stage <name>",
		Short:     "Run a single pipeline stage",
		Long:      "Run a single pipeline stage. Stages: " + strings.Join(pipeline.StageOrder, ", "),
		Args:      cobra.ExactArgs(1),
		ValidArgs: pipeline.StageOrder,
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if !slices.Contains(pipeline.StageOrder, name) {
				return fmt.Errorf("%w: %s", pipeline.ErrUnknownStage, name)
			}
			ctx, stop, cfg, err := commandContext(cmd)
			if err != nil {
				return err
			}
			defer stop()

			logger := newLogger(os.Stdout, cfg.Log.Level)
			a, err := newApp(ctx, cfg, logger, appOptions{migrate: true, pipeline: true})
			defer a.Close()
			if err != nil {
				return err
			}

			runCtx, cancel := context.WithTimeout(ctx, cfg.Pipeline.RunTimeout)
			defer cancel()
			res, err := a.pipeline.RunStage(runCtx, name)
			if err != nil {
				return err
			}
			logger.Info("stage finished", "stage", name, "inserted", res.Inserted, "duration", res.Duration)
			return nil
		},
	}
}

func migrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop, cfg, err := commandContext(cmd)
			if err != nil {
				return err
			}
			defer stop()

			logger := newLogger(os.Stdout, cfg.Log.Level)
			a, err := newApp(ctx, cfg, logger, appOptions{migrate: true})
			defer a.Close()
			if err != nil {
				return err
			}
			logger.Info("migrations applied")
			return nil
		},
	}
}

func importCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import static data from CSV or TSV files",
	}
	cmd.AddCommand(importKindCommand(importer.KindEmissions, "Upsert the emission schedule by date"))
	cmd.AddCommand(importKindCommand(importer.KindSupply, "Upsert the circulating supply baseline by date"))
	return cmd
}

func importKindCommand(kind importer.Kind, short string) *cobra.Command {
	return &cobra.Command{
		Use:   string(kind) + " <file>",
		Short: short,
		Long:  short + ". Files ending in .csv are comma separated; anything else is read as tab separated.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop, cfg, err := commandContext(cmd)
			if err != nil {
				return err
			}
			defer stop()

			logger := newLogger(os.Stdout, cfg.Log.Level)
			a, err := newApp(ctx, cfg, logger, appOptions{migrate: true})
			defer a.Close()
			if err != nil {
				return err
			}

			res, err := importer.New(a.repos.emissions, a.repos.supply, logger).ImportFile(ctx, kind, args[0])
			if err != nil {
				return err
			}
			logger.Info("import finished", "kind", kind, "file", args[0], "read", res.Read, "skipped", res.Skipped, "upserted", res.Upserted)
			return nil
		},
	}
}

func metricsCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "metrics <key>",
		Short:     "Compute one published metric and print it as JSON",
		Long:      "Compute one published metric and print it as JSON. Keys: " + strings.Join(analytics.Keys, ", "),
		Args:      cobra.ExactArgs(1),
		ValidArgs: analytics.Keys,
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			if !analytics.IsKey(key) {
				return fmt.Errorf("%w: %s", analytics.ErrUnknownKey, key)
			}
			ctx, stop, cfg, err := commandContext(cmd)
			if err != nil {
				return err
			}
			defer stop()

			logger := newLogger(cmd.ErrOrStderr(), cfg.Log.Level)
			a, err := newApp(ctx, cfg, logger, appOptions{analytics: true})
			defer a.Close()
			if err != nil {
				return err
			}

			v, err := a.analytics.Compute(ctx, key)
			if err != nil {
				return err
			}
			return writeIndentedJSON(cmd, v)
		},
	}
}

func writeIndentedJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
