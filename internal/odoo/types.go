package odoo

import (
	"time"

	"github.com/shopspring/decimal"
)

// Ref is a many2one reference: the id of a related record plus its display
// name. A zero ID means the field is unset (false on the wire).
type Ref struct {
	ID   int64  `json:"id"`
	Name string `json:"name,omitempty"`
}

// IsSet reports whether the reference points at a record.
func (r Ref) IsSet() bool {
	return r.ID != 0
}

// Move mirrors a stock.move record, restricted to the fields the
// reconciliation reads.
type Move struct {
	ID         int64     `json:"id"`
	State      string    `json:"state"`
	Date       time.Time `json:"date"`
	SaleLineID int64     `json:"sale_line_id"`
	Product    Ref       `json:"product"`
	Picking    Ref       `json:"picking"`
}

// Quant mirrors a stock.quant record: a per-location stock quantity for a
// product. Quantities are decimals because they are summed across quants.
type Quant struct {
	ID            int64           `json:"id"`
	ProductID     int64           `json:"product_id"`
	LocationID    int64           `json:"location_id"`
	LocationUsage string          `json:"location_usage"`
	Quantity      decimal.Decimal `json:"quantity"`
	Reserved      decimal.Decimal `json:"reserved_quantity"`
}

// Product mirrors a product.product record. SKU is Odoo's default_code and
// may be empty.
type Product struct {
	ID   int64  `json:"id"`
	SKU  string `json:"sku"`
	Name string `json:"name"`
}

// LocationUsageInternal is the usage value of stockable warehouse locations;
// quants elsewhere (customers, suppliers, inventory loss) do not count as
// on-hand stock.
const LocationUsageInternal = "internal"
