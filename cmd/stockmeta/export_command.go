package main

import (
	"github.com/spf13/cobra"

	"stockmeta/internal/pipeline"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	var (
		targets []string
		stem    string
		outDir  string
	)

	cmd := &cobra.Command{
		Use:   "export [folder]",
		Short: "Write agency CSVs from the day's metadata CSV without processing",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := pipeline.RunOptions{
				ExportOnly: true,
				Export: pipeline.ExportRequest{
					Targets: splitList(targets),
					Stem:    stem,
					OutDir:  outDir,
				},
			}
			return runPipeline(cmd, ctx, folderArg(args), opts)
		},
	}

	cmd.Flags().StringSliceVar(&targets, "targets", nil, "Export targets (comma separated; default all)")
	cmd.Flags().StringVar(&stem, "stem", "", "Output file stem (default today's date)")
	cmd.Flags().StringVar(&outDir, "out", "", "Output directory (default the folder itself)")
	return cmd
}
