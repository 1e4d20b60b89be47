package engine

import (
	"context"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/stockfix/stockfix/internal/odoo"
)

// snapshotWorkers bounds the concurrent quant fetches during a snapshot.
const snapshotWorkers = 4

// Snapshot computes the inventory position of the first topN affected
// products, in first-appearance order. Quant fetches run concurrently but
// rows are assembled in input order, so the rendered table matches a
// sequential run.
func Snapshot(ctx context.Context, repo odoo.StockRepository, sel *Selection, topN int) ([]ProductSnapshot, error) {
	top := sel.Products
	if topN >= 0 && len(top) > topN {
		top = top[:topN]
	}
	if len(top) == 0 {
		return nil, nil
	}

	ids := make([]int64, len(top))
	for i, ref := range top {
		ids[i] = ref.ID
	}
	products, err := repo.BrowseProducts(ctx, ids)
	if err != nil {
		return nil, err
	}
	skuByID := make(map[int64]string, len(products))
	for _, p := range products {
		skuByID[p.ID] = p.SKU
	}

	rows := make([]ProductSnapshot, len(top))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(snapshotWorkers)
	for i, ref := range top {
		i, ref := i, ref
		g.Go(func() error {
			quants, err := repo.QuantsForProduct(gctx, ref.ID)
			if err != nil {
				return err
			}
			onHand, reserved := sumQuants(quants)
			rows[i] = ProductSnapshot{
				ProductID:  ref.ID,
				SKU:        skuByID[ref.ID],
				OnHand:     onHand,
				Reserved:   reserved,
				Available:  onHand.Sub(reserved),
				StuckMoves: sel.StuckCounts[ref.ID],
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return rows, nil
}

// sumQuants totals on-hand and reserved over a product's quants. An empty
// slice sums to zero, which is how products with no stock fall out.
func sumQuants(quants []odoo.Quant) (onHand, reserved decimal.Decimal) {
	for _, q := range quants {
		onHand = onHand.Add(q.Quantity)
		reserved = reserved.Add(q.Reserved)
	}
	return onHand, reserved
}
