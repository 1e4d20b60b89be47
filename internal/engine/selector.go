package engine

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/stockfix/stockfix/internal/odoo"
)

// StuckStates are the move states that can hold a reservation open: the
// move has stock assigned (fully or partially) or is still waiting for it.
var StuckStates = []string{"assigned", "confirmed", "waiting", "partially_available"}

// Selection is the result of the read-only query phase: the matching moves
// plus the order-preserving extractions the later phases consume.
type Selection struct {
	Moves []odoo.Move

	// Products are the unique product references, in order of first
	// appearance across Moves.
	Products []odoo.Ref

	// PickingIDs are the unique parent picking ids, in order of first
	// appearance. Moves without a picking are skipped.
	PickingIDs []int64

	// StuckCounts maps product id to how many selected moves reference it.
	StuckCounts map[int64]int
}

// Select fetches every stuck move before cutoff and derives the unique
// products, pickings, and per-product counts.
func Select(ctx context.Context, repo odoo.StockRepository, cutoff time.Time) (*Selection, error) {
	moves, err := repo.SearchStuckMoves(ctx, cutoff, StuckStates)
	if err != nil {
		return nil, err
	}

	sel := &Selection{
		Moves:       moves,
		StuckCounts: make(map[int64]int),
	}

	seenProduct := make(map[int64]bool)
	seenPicking := make(map[int64]bool)
	for _, m := range moves {
		sel.StuckCounts[m.Product.ID]++
		if m.Product.IsSet() && !seenProduct[m.Product.ID] {
			seenProduct[m.Product.ID] = true
			sel.Products = append(sel.Products, m.Product)
		}
		if m.Picking.IsSet() && !seenPicking[m.Picking.ID] {
			seenPicking[m.Picking.ID] = true
			sel.PickingIDs = append(sel.PickingIDs, m.Picking.ID)
		}
	}

	zerolog.Ctx(ctx).Info().
		Str("component", "engine").
		Int("moves", len(moves)).
		Int("products", len(sel.Products)).
		Int("pickings", len(sel.PickingIDs)).
		Time("cutoff", cutoff).
		Msg("selection complete")
	return sel, nil
}
