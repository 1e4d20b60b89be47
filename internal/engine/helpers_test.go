package engine

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/stockfix/stockfix/internal/odoo"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func dec(n int64) decimal.Decimal {
	return decimal.NewFromInt(n)
}

// warehouseFixture seeds an ERP with two products stuck before 2024-01-01
// across three pickings, plus noise records that every filter must reject.
func warehouseFixture() *odoo.Fixture {
	return &odoo.Fixture{
		Moves: []odoo.Move{
			{ID: 1, State: "assigned", Date: day("2023-03-10"), SaleLineID: 11,
				Product: odoo.Ref{ID: 1, Name: "Widget"}, Picking: odoo.Ref{ID: 100}},
			{ID: 2, State: "waiting", Date: day("2023-04-02"), SaleLineID: 12,
				Product: odoo.Ref{ID: 2, Name: "Gadget"}, Picking: odoo.Ref{ID: 101}},
			{ID: 3, State: "confirmed", Date: day("2023-05-20"), SaleLineID: 13,
				Product: odoo.Ref{ID: 1, Name: "Widget"}, Picking: odoo.Ref{ID: 100}},
			{ID: 4, State: "partially_available", Date: day("2023-06-01"), SaleLineID: 14,
				Product: odoo.Ref{ID: 1, Name: "Widget"}, Picking: odoo.Ref{ID: 102}},
			// Rejected: state, date, and missing sale line respectively.
			{ID: 5, State: "done", Date: day("2023-03-10"), SaleLineID: 15,
				Product: odoo.Ref{ID: 3}, Picking: odoo.Ref{ID: 103}},
			{ID: 6, State: "assigned", Date: day("2024-01-01"), SaleLineID: 16,
				Product: odoo.Ref{ID: 3}, Picking: odoo.Ref{ID: 104}},
			{ID: 7, State: "assigned", Date: day("2023-03-10"),
				Product: odoo.Ref{ID: 3}, Picking: odoo.Ref{ID: 105}},
		},
		Quants: []odoo.Quant{
			{ID: 1, ProductID: 1, LocationUsage: odoo.LocationUsageInternal, Quantity: dec(10), Reserved: dec(3)},
			{ID: 2, ProductID: 1, LocationUsage: odoo.LocationUsageInternal, Quantity: dec(5), Reserved: dec(5)},
			{ID: 3, ProductID: 1, LocationUsage: "customer", Quantity: dec(40), Reserved: dec(40)},
			{ID: 4, ProductID: 2, LocationUsage: odoo.LocationUsageInternal, Quantity: dec(2), Reserved: dec(2)},
		},
		Products: []odoo.Product{
			{ID: 1, SKU: "WID-001", Name: "Widget"},
			{ID: 2, Name: "Gadget"}, // no SKU, renders as N/A
			{ID: 3, SKU: "GIZ-003", Name: "Gizmo"},
		},
	}
}
