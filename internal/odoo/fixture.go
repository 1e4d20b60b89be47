package odoo

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// Fixture is an in-memory StockRepository with the same filter semantics as
// the RPC implementation. Tests seed it with records, run a reconciliation
// against it, and inspect the mutating calls it received.
//
// UnreservePickings actually moves stock state: it zeroes the reserved
// quantity on the internal-location quants of every product whose move sits
// in a released picking, so before/after deltas are observable.
type Fixture struct {
	mu sync.Mutex

	Moves    []Move
	Quants   []Quant
	Products []Product

	// UnreserveErr, when set, is returned by the next UnreservePickings call.
	UnreserveErr error

	// UnreserveCalls records each batch of picking ids, in call order.
	UnreserveCalls [][]int64
	// CommitCalls counts Commit invocations.
	CommitCalls int
}

var _ StockRepository = (*Fixture)(nil)

// SearchStuckMoves implements StockRepository.
func (f *Fixture) SearchStuckMoves(_ context.Context, cutoff time.Time, statuses []string) ([]Move, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []Move
	for _, m := range f.Moves {
		if slices.Contains(statuses, m.State) && m.Date.Before(cutoff) && m.SaleLineID != 0 {
			out = append(out, m)
		}
	}
	return out, nil
}

// QuantsForProduct implements StockRepository.
func (f *Fixture) QuantsForProduct(_ context.Context, productID int64) ([]Quant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []Quant
	for _, q := range f.Quants {
		if q.ProductID == productID && q.LocationUsage == LocationUsageInternal {
			out = append(out, q)
		}
	}
	return out, nil
}

// BrowseProducts implements StockRepository.
func (f *Fixture) BrowseProducts(_ context.Context, ids []int64) ([]Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	byID := make(map[int64]Product, len(f.Products))
	for _, p := range f.Products {
		byID[p.ID] = p
	}

	var out []Product
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

// UnreservePickings implements StockRepository.
func (f *Fixture) UnreservePickings(_ context.Context, pickingIDs []int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.UnreserveErr; err != nil {
		f.UnreserveErr = nil
		return err
	}

	f.UnreserveCalls = append(f.UnreserveCalls, slices.Clone(pickingIDs))

	released := make(map[int64]bool, len(pickingIDs))
	for _, id := range pickingIDs {
		released[id] = true
	}
	for _, m := range f.Moves {
		if !released[m.Picking.ID] {
			continue
		}
		for i := range f.Quants {
			q := &f.Quants[i]
			if q.ProductID == m.Product.ID && q.LocationUsage == LocationUsageInternal {
				q.Reserved = decimal.Zero
			}
		}
	}
	return nil
}

// Commit implements StockRepository.
func (f *Fixture) Commit(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.CommitCalls++
	return nil
}
