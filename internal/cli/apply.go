package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/stockfix/stockfix/internal/config"
	"github.com/stockfix/stockfix/internal/engine"
	"github.com/stockfix/stockfix/internal/engine/batch"
)

// applyParams holds the flag values of the apply command.
type applyParams struct {
	planPath        string
	yes             bool
	cutoff          string
	topN            int
	batchSize       int
	commitEachBatch bool
	output          string
}

// newApplyCmd creates the mutating half of the workflow: take a reviewed
// plan (from an artifact or a fresh live selection), confirm, release the
// reservations in batches, and print the delta report.
func newApplyCmd() *cobra.Command {
	var params applyParams

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Release the planned reservations and print the delta report",
		Long: `Executes the release phase for a reviewed plan. With --plan the picking set
and before-snapshot come from the artifact a previous 'stockfix plan --out'
wrote; without it a fresh plan is computed first. The release is batched so
no single ERP call can run into the server's request timeout.

On a terminal the command asks for confirmation; pass --yes to skip the
prompt in automation. Declining leaves the ERP untouched.`,
		Example: `  # Execute a previously reviewed plan
  stockfix apply --plan plan.json

  # Plan and execute in one confirmed run
  stockfix apply --cutoff 2024-01-01

  # Unattended, committing after every batch
  stockfix apply --plan plan.json --yes --commit-each-batch`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runApply(cmd, params)
		},
	}

	cmd.Flags().StringVar(&params.planPath, "plan", "", "path to a plan artifact written by 'stockfix plan --out'")
	cmd.Flags().BoolVar(&params.yes, "yes", false, "skip the confirmation prompt")
	cmd.Flags().StringVar(&params.cutoff, "cutoff", "", "cutoff date (YYYY-MM-DD) when re-planning live; overrides the config file")
	cmd.Flags().IntVar(&params.topN, "top-n", 0, "how many affected products to report; overrides the config file")
	cmd.Flags().IntVar(&params.batchSize, "batch-size", 0, "pickings per release call; overrides the plan and the config file")
	cmd.Flags().BoolVar(&params.commitEachBatch, "commit-each-batch", false, "commit after every batch instead of once at the end")
	cmd.Flags().StringVar(&params.output, "output", outputTable, "output format: table or json")

	return cmd
}

func runApply(cmd *cobra.Command, params applyParams) error {
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
	if cmd.Flags().Changed("batch-size") {
		cfg.Reconcile.BatchSize = params.batchSize
	}
	if cmd.Flags().Changed("commit-each-batch") {
		cfg.Reconcile.CommitEachBatch = params.commitEachBatch
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx := cmd.Context()
	skipVersionCheck, _ := cmd.Flags().GetBool("skip-version-check")
	repo, closeRepo, err := newRepository(ctx, cfg, skipVersionCheck)
	if err != nil {
		return err
	}
	defer func() { _ = closeRepo() }()

	var plan *engine.PlanReport
	if params.planPath != "" {
		plan, err = engine.ReadPlanArtifact(params.planPath)
		if err != nil {
			return err
		}
		// The reviewed batch size travels with the artifact unless the flag
		// overrides it.
		if plan.BatchSize > 0 && !cmd.Flags().Changed("batch-size") {
			cfg.Reconcile.BatchSize = plan.BatchSize
		}
	} else {
		cutoff, err := cfg.Cutoff()
		if err != nil {
			return err
		}
		plan, err = engine.Plan(ctx, repo, engine.PlanOptions{
			Cutoff:    cutoff,
			TopN:      cfg.Reconcile.TopN,
			BatchSize: cfg.Reconcile.BatchSize,
		})
		if err != nil {
			return err
		}
	}

	w := cmd.OutOrStdout()
	table := params.output == outputTable
	st := newTableStyles(table && shouldStyle(w))

	if table {
		renderHeadline(w, plan)
		renderBeforeTable(w, plan, st)
	}

	if !params.yes {
		result := confirmRelease(w, cmd.InOrStdin(), isTerminal(os.Stdin), plan.PickingCount())
		if result.Cancelled {
			return fmt.Errorf("confirmation aborted")
		}
		if !result.Accepted {
			if table {
				renderDeclined(w)
			}
			return nil
		}
	}

	opts := engine.ReleaseOptions{
		BatchSize:       cfg.Reconcile.BatchSize,
		CommitEachBatch: cfg.Reconcile.CommitEachBatch,
	}
	if table {
		p := message.NewPrinter(language.English)
		fmt.Fprintln(w, "\nUnreserving...")
		p.Fprintf(w, "Processing %d pickings...\n", plan.PickingCount())
		opts.Progress = func(pr batch.Progress) {
			fmt.Fprintf(w, "  Processed %d/%d\n", pr.ProcessedItems, pr.TotalItems)
		}
	}

	report, err := engine.Apply(ctx, repo, plan, opts)
	if err != nil {
		return err
	}

	if !table {
		return renderJSON(w, report)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, st.success.Render("✓ Unreserve complete!"))
	renderAfterTable(w, report.Deltas, st)
	return nil
}
