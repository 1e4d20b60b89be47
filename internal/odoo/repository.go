package odoo

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// StockRepository is the typed face of the ERP's record-set surface: each
// method is one search/browse/action the reconciliation performs, returning
// ordered slices of value records.
type StockRepository interface {
	// SearchStuckMoves returns every move whose state is in statuses, dated
	// strictly before cutoff, and linked to a sale order line. No pagination:
	// the full match set comes back in one call.
	SearchStuckMoves(ctx context.Context, cutoff time.Time, statuses []string) ([]Move, error)

	// QuantsForProduct returns the product's quants in internal locations.
	QuantsForProduct(ctx context.Context, productID int64) ([]Quant, error)

	// BrowseProducts resolves product records for ids, in the given order.
	BrowseProducts(ctx context.Context, ids []int64) ([]Product, error)

	// UnreservePickings releases the reservations held by the given
	// pickings. This is the only mutating call in the interface.
	UnreservePickings(ctx context.Context, pickingIDs []int64) error

	// Commit makes the effects of prior mutating calls durable.
	Commit(ctx context.Context) error
}

// RPCRepository implements StockRepository over an authenticated Client.
type RPCRepository struct {
	client *Client
}

// NewRPCRepository wraps an authenticated client.
func NewRPCRepository(client *Client) *RPCRepository {
	return &RPCRepository{client: client}
}

var _ StockRepository = (*RPCRepository)(nil)

// searchRead runs model.search_read(domain, fields) and returns raw rows.
func (r *RPCRepository) searchRead(ctx context.Context, model string, domain Domain, fields []string) ([]record, error) {
	var rows []any
	kwargs := map[string]any{"fields": fields}
	if err := r.client.ExecuteKw(ctx, model, "search_read", []any{domain.Wire()}, kwargs, &rows); err != nil {
		return nil, err
	}

	out := make([]record, 0, len(rows))
	for _, row := range rows {
		m, ok := row.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%s.search_read: unexpected row type %T", model, row)
		}
		out = append(out, record(m))
	}
	return out, nil
}

// SearchStuckMoves implements StockRepository.
func (r *RPCRepository) SearchStuckMoves(ctx context.Context, cutoff time.Time, statuses []string) ([]Move, error) {
	domain := Domain{
		In("state", statuses...),
		Before("date", cutoff),
		NotEq("sale_line_id", false),
	}
	rows, err := r.searchRead(ctx, "stock.move", domain,
		[]string{"state", "date", "sale_line_id", "product_id", "picking_id"})
	if err != nil {
		return nil, err
	}

	moves := make([]Move, 0, len(rows))
	for _, row := range rows {
		moves = append(moves, Move{
			ID:         row.int64("id"),
			State:      row.str("state"),
			Date:       row.datetime("date"),
			SaleLineID: row.ref("sale_line_id").ID,
			Product:    row.ref("product_id"),
			Picking:    row.ref("picking_id"),
		})
	}

	zerolog.Ctx(ctx).Debug().
		Str("component", "odoo").
		Int("moves", len(moves)).
		Time("cutoff", cutoff).
		Msg("stuck move search complete")
	return moves, nil
}

// QuantsForProduct implements StockRepository.
func (r *RPCRepository) QuantsForProduct(ctx context.Context, productID int64) ([]Quant, error) {
	domain := Domain{
		Eq("product_id", productID),
		Eq("location_id.usage", LocationUsageInternal),
	}
	rows, err := r.searchRead(ctx, "stock.quant", domain,
		[]string{"product_id", "location_id", "quantity", "reserved_quantity"})
	if err != nil {
		return nil, err
	}

	quants := make([]Quant, 0, len(rows))
	for _, row := range rows {
		quants = append(quants, Quant{
			ID:            row.int64("id"),
			ProductID:     row.ref("product_id").ID,
			LocationID:    row.ref("location_id").ID,
			LocationUsage: LocationUsageInternal,
			Quantity:      row.dec("quantity"),
			Reserved:      row.dec("reserved_quantity"),
		})
	}
	return quants, nil
}

// BrowseProducts implements StockRepository.
func (r *RPCRepository) BrowseProducts(ctx context.Context, ids []int64) ([]Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	wireIDs := make([]any, len(ids))
	for i, id := range ids {
		wireIDs[i] = id
	}
	var rows []any
	kwargs := map[string]any{"fields": []string{"default_code", "display_name"}}
	if err := r.client.ExecuteKw(ctx, "product.product", "read", []any{wireIDs}, kwargs, &rows); err != nil {
		return nil, err
	}

	// read preserves the requested id order, but keep the result keyed so a
	// gap (deleted product) cannot shift later rows.
	byID := make(map[int64]Product, len(rows))
	for _, row := range rows {
		m, ok := row.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("product.product.read: unexpected row type %T", row)
		}
		rec := record(m)
		p := Product{
			ID:   rec.int64("id"),
			SKU:  rec.str("default_code"),
			Name: rec.str("display_name"),
		}
		byID[p.ID] = p
	}

	products := make([]Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			products = append(products, p)
		}
	}
	return products, nil
}

// UnreservePickings implements StockRepository.
func (r *RPCRepository) UnreservePickings(ctx context.Context, pickingIDs []int64) error {
	if len(pickingIDs) == 0 {
		return nil
	}

	wireIDs := make([]any, len(pickingIDs))
	for i, id := range pickingIDs {
		wireIDs[i] = id
	}
	var reply any
	if err := r.client.ExecuteKw(ctx, "stock.picking", "do_unreserve", []any{wireIDs}, nil, &reply); err != nil {
		return err
	}

	zerolog.Ctx(ctx).Debug().
		Str("component", "odoo").
		Int("pickings", len(pickingIDs)).
		Msg("unreserved picking batch")
	return nil
}

// Commit implements StockRepository. The external API commits each
// execute_kw call's transaction server-side, so over RPC this is an
// acknowledgement that the run reached its durability point rather than a
// wire call of its own.
func (r *RPCRepository) Commit(ctx context.Context) error {
	zerolog.Ctx(ctx).Info().
		Str("component", "odoo").
		Msg("transaction commit point reached")
	return nil
}
