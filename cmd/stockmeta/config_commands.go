package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"stockmeta/internal/config"
	"stockmeta/internal/deps"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigValidateCommand(ctx))
	configCmd.AddCommand(newConfigInitCommand())

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create a sample configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return fmt.Errorf("determine default config path: %w", err)
				}
				target = defaultPath
			} else {
				expanded, err := config.ExpandPath(target)
				if err != nil {
					return fmt.Errorf("resolve config path: %w", err)
				}
				target = expanded
			}

			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				} else if !os.IsNotExist(err) {
					return fmt.Errorf("check config path: %w", err)
				}
			}

			if err := config.CreateSample(target); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(out, "Set credentials.api_keys (or export API_KEYS) before running stockmeta process.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration and report resolved settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			out := cmd.OutOrStdout()
			if _, statErr := os.Stat(ctx.configPath); statErr != nil {
				fmt.Fprintf(out, "Config path: %s (not found, defaults used)\n", ctx.configPath)
			} else {
				fmt.Fprintf(out, "Config path: %s\n", ctx.configPath)
			}
			keys := len(cfg.ResolveKeys())
			rows := [][]string{
				{"Provider", cfg.Provider.Name},
				{"Model", cfg.ModelName()},
				{"API keys", fmt.Sprintf("%d", keys)},
				{"Max dimension", fmt.Sprintf("%d px", cfg.Preprocess.MaxDimension)},
				{"Ledger", cfg.Paths.LedgerName},
				{"History", cfg.HistoryPath()},
				{"Export targets", targetsLabel(cfg.Export.Targets)},
			}
			fmt.Fprintln(out, renderTable(tableSpec{Headers: []string{"Setting", "Value"}, Rows: rows}))
			for _, status := range deps.CheckBinaries(deps.Requirements(cfg.Preprocess)) {
				kind := statusOK
				if !status.Available {
					kind = statusWarn
				}
				fmt.Fprintln(out, renderStatusLine(status.Name, kind, status.Detail+" ("+status.Description+")", shouldColorize(out)))
			}
			if keys == 0 {
				fmt.Fprintln(out, renderStatusLine("Credentials", statusWarn, "no API keys resolved; processing will fail", shouldColorize(out)))
			}
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}

func targetsLabel(targets []string) string {
	if len(targets) == 0 {
		return "all"
	}
	return strings.Join(targets, ", ")
}
