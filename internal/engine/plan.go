package engine

import (
	"context"
	"time"

	"github.com/stockfix/stockfix/internal/odoo"
)

// PlanOptions tune the read-only phase.
type PlanOptions struct {
	// Cutoff: moves dated strictly before it qualify.
	Cutoff time.Time
	// TopN bounds how many affected products the snapshot covers.
	TopN int
	// BatchSize is echoed into the report so apply reuses the reviewed value.
	BatchSize int
}

// Plan runs selection and the before-snapshot and assembles the reviewable
// report. It performs no mutation.
func Plan(ctx context.Context, repo odoo.StockRepository, opts PlanOptions) (*PlanReport, error) {
	sel, err := Select(ctx, repo, opts.Cutoff)
	if err != nil {
		return nil, err
	}

	snapshot, err := Snapshot(ctx, repo, sel, opts.TopN)
	if err != nil {
		return nil, err
	}

	return &PlanReport{
		RunID:        newRunID(),
		GeneratedAt:  time.Now().UTC(),
		CutoffDate:   opts.Cutoff.Format("2006-01-02"),
		Statuses:     StuckStates,
		BatchSize:    opts.BatchSize,
		TopN:         opts.TopN,
		MoveCount:    len(sel.Moves),
		ProductCount: len(sel.Products),
		PickingIDs:   sel.PickingIDs,
		Snapshot:     snapshot,
	}, nil
}
