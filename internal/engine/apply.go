package engine

import (
	"context"
	"time"

	"github.com/stockfix/stockfix/internal/odoo"
)

// Apply executes the mutating phase for a reviewed plan: release the plan's
// pickings in batches, commit, then recompute each snapshotted product's
// position and report the availability deltas. The caller owns the approval
// gate; Apply assumes consent.
func Apply(ctx context.Context, repo odoo.StockRepository, plan *PlanReport, opts ReleaseOptions) (*ApplyReport, error) {
	started := time.Now()
	report := &ApplyReport{
		RunID:     newRunID(),
		PlanRunID: plan.RunID,
		StartedAt: started.UTC(),
	}

	batches, commits, err := release(ctx, repo, plan.PickingIDs, opts)
	report.Batches = batches
	report.Commits = commits
	if err != nil {
		return nil, err
	}
	report.ReleasedPickings = len(plan.PickingIDs)

	deltas, err := deltas(ctx, repo, plan.Snapshot)
	if err != nil {
		return nil, err
	}
	report.Deltas = deltas
	report.ElapsedSeconds = time.Since(started).Seconds()
	return report, nil
}

// deltas recomputes each snapshotted product's position, in snapshot order,
// and derives delta = new available - old available.
func deltas(ctx context.Context, repo odoo.StockRepository, before []ProductSnapshot) ([]DeltaRow, error) {
	rows := make([]DeltaRow, 0, len(before))
	for _, prev := range before {
		quants, err := repo.QuantsForProduct(ctx, prev.ProductID)
		if err != nil {
			return nil, err
		}
		onHand, reserved := sumQuants(quants)
		available := onHand.Sub(reserved)
		rows = append(rows, DeltaRow{
			ProductID: prev.ProductID,
			SKU:       prev.SKU,
			OnHand:    onHand,
			Reserved:  reserved,
			Available: available,
			Delta:     available.Sub(prev.Available),
		})
	}
	return rows, nil
}
