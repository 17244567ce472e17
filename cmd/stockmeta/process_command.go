package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"stockmeta/internal/config"
	"stockmeta/internal/history"
	"stockmeta/internal/logging"
	"stockmeta/internal/metrics"
	"stockmeta/internal/pipeline"
)

type processFlags struct {
	provider     string
	model        string
	targets      []string
	exportOnly   bool
	noExport     bool
	dryRun       bool
	maxDimension int
}

func newProcessCommand(ctx *commandContext) *cobra.Command {
	var flags processFlags

	cmd := &cobra.Command{
		Use:   "process [folder]",
		Short: "Describe new media in a folder, link vectors, and export agency CSVs",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.exportOnly && flags.noExport {
				return fmt.Errorf("--export-only and --no-export cannot be combined")
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := cfg.Apply(config.Overrides{
				Provider:     flags.provider,
				Model:        flags.model,
				MaxDimension: flags.maxDimension,
				Targets:      splitList(flags.targets),
			}); err != nil {
				return err
			}
			opts := pipeline.RunOptions{
				DryRun:     flags.dryRun,
				ExportOnly: flags.exportOnly,
				NoExport:   flags.noExport,
			}
			return runPipeline(cmd, ctx, folderArg(args), opts)
		},
	}

	cmd.Flags().StringVar(&flags.provider, "provider", "", "Model provider: gemini or openai")
	cmd.Flags().StringVar(&flags.model, "model", "", "Model identifier (default depends on provider)")
	cmd.Flags().StringSliceVar(&flags.targets, "targets", nil, "Export targets (comma separated; default all)")
	cmd.Flags().BoolVar(&flags.exportOnly, "export-only", false, "Skip processing and export from the day's metadata CSV")
	cmd.Flags().BoolVar(&flags.noExport, "no-export", false, "Skip the export pass")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "List what would be processed without calling the provider")
	cmd.Flags().IntVar(&flags.maxDimension, "max-dimension", 0, "Longest side of the uploaded image in pixels")
	return cmd
}

// runPipeline executes one run and prints its report, including the partial
// report of a run stopped by a fatal error. Per-file failures do not change
// the exit status.
func runPipeline(cmd *cobra.Command, ctx *commandContext, dir string, opts pipeline.RunOptions) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := ctx.logger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	deps := pipeline.Deps{Logger: logger}
	if !opts.DryRun {
		store, err := history.Open(cfg.HistoryPath())
		if err != nil {
			logger.Warn("run history unavailable", logging.Error(err))
		} else {
			defer store.Close()
			deps.History = store
		}
	}
	if cfg.Metrics.Textfile != "" {
		deps.Metrics = metrics.New()
	}

	report, runErr := pipeline.New(cfg, deps).Run(cmd.Context(), dir, opts)
	out := cmd.OutOrStdout()
	printReport(out, report, opts, shouldColorize(out))
	return runErr
}

func folderArg(args []string) string {
	if len(args) == 0 {
		return "."
	}
	return args[0]
}
