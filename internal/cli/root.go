// Package cli wires the stockfix command tree: plan (read-only review),
// apply (the mutating release phase), and config management.
package cli

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/stockfix/stockfix/internal/config"
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// NewRootCmd creates the root Cobra command for the stockfix CLI. It loads
// configuration and sets up logging before any subcommand runs.
func NewRootCmd(ver string) *cobra.Command {
	var logCloser func() error

	cmd := &cobra.Command{
		Use:     "stockfix",
		Short:   "Reconcile stuck inventory reservations in an Odoo-style ERP",
		Long: `stockfix finds stock moves still reserved against sales orders from before
a cutoff date, reports the affected products' inventory levels, and releases
the stale reservations in batches.

The workflow is two-step by design: 'stockfix plan' is read-only and prints
the review table; 'stockfix apply' performs the release after confirmation.`,
		Version:       ver,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			path, _ := cmd.Flags().GetString("config")
			explicit := cmd.Flags().Changed("config")
			if path == "" {
				path = config.DefaultConfigFile
			}
			cfg, err := config.Load(path, explicit)
			if err != nil {
				return err
			}
			config.SetGlobal(cfg)

			debug, _ := cmd.Flags().GetBool("debug")
			logger, closer, err := config.NewLogger(cfg.Logging, debug)
			if err != nil {
				return err
			}
			logCloser = closer

			ctx := logger.WithContext(cmd.Context())
			cmd.SetContext(ctx)
			logger.Debug().Str("component", "cli").Str("command", cmd.Name()).Msg("command started")
			return nil
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if logCloser != nil {
				return logCloser()
			}
			return nil
		},
	}

	cmd.PersistentFlags().String("config", "", "path to the YAML config file (default "+config.DefaultConfigFile+")")
	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().Bool("skip-version-check", false, "skip the ERP server series compatibility check")
	cmd.AddCommand(newPlanCmd(), newApplyCmd(), newConfigCmd())

	return cmd
}

const rootCmdExample = `  # Review what would be released, without touching the ERP
  stockfix plan --cutoff 2024-01-01

  # Persist the reviewed plan and execute it later
  stockfix plan --cutoff 2024-01-01 --out plan.json
  stockfix apply --plan plan.json

  # Plan and apply in one confirmed run
  stockfix apply --cutoff 2024-01-01

  # Unattended execution (automation)
  stockfix apply --plan plan.json --yes

  # Write a starter configuration file
  stockfix config init`
