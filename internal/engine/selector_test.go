package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockfix/stockfix/internal/odoo"
)

func TestSelect(t *testing.T) {
	sel, err := Select(context.Background(), warehouseFixture(), day("2024-01-01"))
	require.NoError(t, err)

	moveIDs := make([]int64, 0, len(sel.Moves))
	for _, m := range sel.Moves {
		moveIDs = append(moveIDs, m.ID)
	}
	assert.Equal(t, []int64{1, 2, 3, 4}, moveIDs,
		"only in-state, pre-cutoff, sale-linked moves qualify")

	// Extractions preserve first-appearance order.
	require.Len(t, sel.Products, 2)
	assert.Equal(t, int64(1), sel.Products[0].ID)
	assert.Equal(t, int64(2), sel.Products[1].ID)
	assert.Equal(t, []int64{100, 101, 102}, sel.PickingIDs)

	assert.Equal(t, 3, sel.StuckCounts[1])
	assert.Equal(t, 1, sel.StuckCounts[2])
}

func TestSelectEmpty(t *testing.T) {
	sel, err := Select(context.Background(), &odoo.Fixture{}, day("2024-01-01"))
	require.NoError(t, err)

	assert.Empty(t, sel.Moves)
	assert.Empty(t, sel.Products)
	assert.Empty(t, sel.PickingIDs)
}

func TestSelectSkipsMovesWithoutPicking(t *testing.T) {
	fix := &odoo.Fixture{
		Moves: []odoo.Move{
			{ID: 1, State: "assigned", Date: day("2023-01-01"), SaleLineID: 1, Product: odoo.Ref{ID: 1}},
		},
	}

	sel, err := Select(context.Background(), fix, day("2024-01-01"))
	require.NoError(t, err)
	assert.Len(t, sel.Moves, 1)
	assert.Empty(t, sel.PickingIDs)
}
