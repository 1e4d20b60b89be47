package batch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunner_Run(t *testing.T) {
	items := make([]int, 25)
	for i := range items {
		items[i] = i
	}

	t.Run("SplitsIntoOrderedBatches", func(t *testing.T) {
		r, err := NewRunner[int](10)
		require.NoError(t, err)

		var batches [][]int
		err = r.Run(context.Background(), items, func(_ context.Context, b []int, index int) error {
			assert.Equal(t, len(batches), index)
			batches = append(batches, append([]int(nil), b...))
			return nil
		})
		require.NoError(t, err)

		require.Len(t, batches, 3)
		assert.Len(t, batches[0], 10)
		assert.Len(t, batches[1], 10)
		assert.Len(t, batches[2], 5)
		assert.Equal(t, 0, batches[0][0])
		assert.Equal(t, 24, batches[2][4])
	})

	t.Run("ReportsProgressAfterEachBatch", func(t *testing.T) {
		r, err := NewRunner[int](10)
		require.NoError(t, err)

		var processed []int
		r.WithProgress(func(p Progress) {
			processed = append(processed, p.ProcessedItems)
		})

		err = r.Run(context.Background(), items, func(context.Context, []int, int) error { return nil })
		require.NoError(t, err)

		assert.Equal(t, []int{10, 20, 25}, processed)
	})

	t.Run("StopsOnFirstError", func(t *testing.T) {
		r, err := NewRunner[int](10)
		require.NoError(t, err)

		calls := 0
		err = r.Run(context.Background(), items, func(_ context.Context, _ []int, index int) error {
			calls++
			if index == 1 {
				return errors.New("release rejected")
			}
			return nil
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "batch 2/3 failed")
		assert.Equal(t, 2, calls)
	})

	t.Run("EmptyInputIsANoOp", func(t *testing.T) {
		r, err := NewRunner[int](10)
		require.NoError(t, err)

		calls := 0
		err = r.Run(context.Background(), nil, func(context.Context, []int, int) error {
			calls++
			return nil
		})
		require.NoError(t, err)
		assert.Zero(t, calls)
	})

	t.Run("NilApplyFunc", func(t *testing.T) {
		r, err := NewRunner[int](10)
		require.NoError(t, err)
		assert.ErrorIs(t, r.Run(context.Background(), items, nil), ErrNilApply)
	})

	t.Run("CancelledContext", func(t *testing.T) {
		r, err := NewRunner[int](10)
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		calls := 0
		err = r.Run(ctx, items, func(context.Context, []int, int) error {
			calls++
			cancel()
			return nil
		})
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	})
}

func TestNewRunner_Bounds(t *testing.T) {
	_, err := NewRunner[int](0)
	assert.ErrorIs(t, err, ErrInvalidSize)

	_, err = NewRunner[int](MaxSize + 1)
	assert.ErrorIs(t, err, ErrInvalidSize)

	r, err := NewRunner[int](MinSize)
	require.NoError(t, err)
	assert.Equal(t, 1, r.Size())
}

func TestRunner_NumBatches(t *testing.T) {
	r, err := NewRunner[int](100)
	require.NoError(t, err)

	assert.Equal(t, 0, r.NumBatches(0))
	assert.Equal(t, 1, r.NumBatches(1))
	assert.Equal(t, 1, r.NumBatches(100))
	assert.Equal(t, 2, r.NumBatches(101))
	assert.Equal(t, 3, r.NumBatches(210))
}

func TestProgress(t *testing.T) {
	p := newProgress(100, 10, 10)

	assert.Zero(t, p.PercentComplete())
	assert.False(t, p.IsComplete())

	p.advance(10)
	assert.InDelta(t, 10.0, p.PercentComplete(), 0.001)
	assert.Equal(t, 1, p.ProcessedBatches)

	p.advance(90)
	assert.True(t, p.IsComplete())
	assert.Equal(t, 2, p.ProcessedBatches)
	assert.GreaterOrEqual(t, p.Elapsed(), time.Duration(0))

	empty := newProgress(0, 0, 10)
	assert.Zero(t, empty.PercentComplete())
	assert.True(t, empty.IsComplete())
}
