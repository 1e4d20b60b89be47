// Package odoo talks to an Odoo-style ERP over its external XML-RPC API.
//
// The package exposes a typed StockRepository over the handful of stock
// models a reconciliation run touches (stock.move, stock.quant,
// product.product, stock.picking), a small domain-expression builder that
// serializes to Odoo's wire filter format, and an in-memory fixture
// implementation for tests.
package odoo
