package odoo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDomainWire(t *testing.T) {
	cutoff := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	d := Domain{
		In("state", "assigned", "confirmed", "waiting", "partially_available"),
		Before("date", cutoff),
		NotEq("sale_line_id", false),
	}

	wire := d.Wire()
	assert.Equal(t, []any{
		[]any{"state", "in", []any{"assigned", "confirmed", "waiting", "partially_available"}},
		[]any{"date", "<", "2024-01-01 00:00:00"},
		[]any{"sale_line_id", "!=", false},
	}, wire)
}

func TestDomainOperators(t *testing.T) {
	assert.Equal(t, []any{"product_id", "=", int64(7)}, Domain{Eq("product_id", int64(7))}.Wire()[0])
	assert.Equal(t, []any{"location_id.usage", "=", "internal"},
		Domain{Eq("location_id.usage", "internal")}.Wire()[0])
}
