package cli

import (
	"github.com/spf13/cobra"

	"github.com/stockfix/stockfix/internal/config"
	"github.com/stockfix/stockfix/internal/engine"
)

// planParams holds the flag values of the plan command.
type planParams struct {
	cutoff string
	topN   int
	out    string
	output string
}

// newPlanCmd creates the read-only half of the workflow: select the stuck
// moves, print the before-report, and stop. Optionally persists the plan as
// a JSON artifact for a later apply.
func newPlanCmd() *cobra.Command {
	var params planParams

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Select stuck reservations and print the review report (read-only)",
		Long: `Queries the ERP for stock moves still reserved against sales orders from
before the cutoff date and prints the per-product inventory table. Nothing
is modified; the footer names the apply invocation that would execute the
release.`,
		Example: `  # Review against the configured cutoff
  stockfix plan

  # Override the cutoff and persist the plan for a later apply
  stockfix plan --cutoff 2024-01-01 --out plan.json

  # Machine-readable report
  stockfix plan --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPlan(cmd, params)
		},
	}

	cmd.Flags().StringVar(&params.cutoff, "cutoff", "", "cutoff date (YYYY-MM-DD); overrides the config file")
	cmd.Flags().IntVar(&params.topN, "top-n", 0, "how many affected products to report; overrides the config file")
	cmd.Flags().StringVar(&params.out, "out", "", "write the plan report to this JSON artifact")
	cmd.Flags().StringVar(&params.output, "output", outputTable, "output format: table or json")

	return cmd
}

func runPlan(cmd *cobra.Command, params planParams) error {
	if err := validOutput(params.output); err != nil {
		return err
	}

	cfg := config.Global()
	if cmd.Flags().Changed("cutoff") {
		cfg.Reconcile.CutoffDate = params.cutoff
	}
	if cmd.Flags().Changed("top-n") {
		cfg.Reconcile.TopN = params.topN
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	cutoff, err := cfg.Cutoff()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	skipVersionCheck, _ := cmd.Flags().GetBool("skip-version-check")
	repo, closeRepo, err := newRepository(ctx, cfg, skipVersionCheck)
	if err != nil {
		return err
	}
	defer func() { _ = closeRepo() }()

	plan, err := engine.Plan(ctx, repo, engine.PlanOptions{
		Cutoff:    cutoff,
		TopN:      cfg.Reconcile.TopN,
		BatchSize: cfg.Reconcile.BatchSize,
	})
	if err != nil {
		return err
	}

	if params.out != "" {
		if err := engine.WritePlanArtifact(params.out, plan); err != nil {
			return err
		}
	}

	w := cmd.OutOrStdout()
	if params.output == outputJSON {
		return renderJSON(w, plan)
	}

	st := newTableStyles(shouldStyle(w))
	renderHeadline(w, plan)
	renderBeforeTable(w, plan, st)
	renderPlanFooter(w, params.out, st)
	return nil
}
