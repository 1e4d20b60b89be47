package engine

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/stockfix/stockfix/internal/engine/batch"
	"github.com/stockfix/stockfix/internal/odoo"
)

// ReleaseOptions tune the mutating phase.
type ReleaseOptions struct {
	// BatchSize bounds the pickings per release call.
	BatchSize int
	// CommitEachBatch commits after every batch instead of once at the end.
	// The single trailing commit matches the original procedure; per-batch
	// commits keep completed batches durable if a later one fails.
	CommitEachBatch bool
	// Progress, when set, receives a snapshot after every batch.
	Progress batch.ProgressFunc
}

// release unreserves the pickings in fixed-size batches and commits. With no
// pickings there is nothing to release but the commit still happens, exactly
// once, so the run reaches its durability point either way. Returns the
// number of release batches and commits issued.
func release(ctx context.Context, repo odoo.StockRepository, pickingIDs []int64, opts ReleaseOptions) (batches, commits int, err error) {
	if len(pickingIDs) == 0 {
		if err := repo.Commit(ctx); err != nil {
			return 0, 0, err
		}
		return 0, 1, nil
	}

	runner, err := batch.NewRunner[int64](opts.BatchSize)
	if err != nil {
		return 0, 0, err
	}
	if opts.Progress != nil {
		runner.WithProgress(opts.Progress)
	}

	err = runner.Run(ctx, pickingIDs, func(ctx context.Context, ids []int64, _ int) error {
		if err := repo.UnreservePickings(ctx, ids); err != nil {
			return err
		}
		batches++
		if opts.CommitEachBatch {
			if err := repo.Commit(ctx); err != nil {
				return err
			}
			commits++
		}
		return nil
	})
	if err != nil {
		return batches, commits, err
	}

	if !opts.CommitEachBatch {
		if err := repo.Commit(ctx); err != nil {
			return batches, commits, err
		}
		commits++
	}

	zerolog.Ctx(ctx).Info().
		Str("component", "engine").
		Int("pickings", len(pickingIDs)).
		Int("batches", batches).
		Int("commits", commits).
		Msg("release phase complete")
	return batches, commits, nil
}
