package batch

import (
	"context"
	"errors"
	"fmt"
)

// Batch size bounds.
const (
	// DefaultSize is the number of items per batch when none is configured.
	DefaultSize = 100

	// MinSize is the smallest allowed batch size.
	MinSize = 1

	// MaxSize is the largest allowed batch size.
	MaxSize = 1000
)

// ErrInvalidSize is returned when a requested batch size is out of bounds.
var ErrInvalidSize = errors.New("batch size must be between 1 and 1000")

// ErrNilApply is returned when Run is given a nil apply function.
var ErrNilApply = errors.New("batch apply function cannot be nil")

// ApplyFunc processes one batch. index is 0-based. Returning an error stops
// the run; earlier batches are not rolled back.
type ApplyFunc[T any] func(ctx context.Context, items []T, index int) error

// ProgressFunc receives a progress snapshot after each completed batch.
type ProgressFunc func(p Progress)

// Runner applies an operation to a slice in fixed-size contiguous batches,
// strictly in order. An empty input is a successful no-op.
type Runner[T any] struct {
	size       int
	onProgress ProgressFunc
}

// NewRunner creates a Runner with the given batch size.
func NewRunner[T any](size int) (*Runner[T], error) {
	if size < MinSize || size > MaxSize {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSize, size)
	}
	return &Runner[T]{size: size}, nil
}

// WithProgress registers a callback invoked after every completed batch.
func (r *Runner[T]) WithProgress(fn ProgressFunc) *Runner[T] {
	r.onProgress = fn
	return r
}

// Size returns the configured batch size.
func (r *Runner[T]) Size() int {
	return r.size
}

// NumBatches returns how many batches Run will execute for n items.
func (r *Runner[T]) NumBatches(n int) int {
	batches := n / r.size
	if n%r.size > 0 {
		batches++
	}
	return batches
}

// Run applies fn to each batch of items in order, stopping at the first
// error or context cancellation. Context is checked between batches; a
// batch already handed to fn is never interrupted by Run itself.
func (r *Runner[T]) Run(ctx context.Context, items []T, fn ApplyFunc[T]) error {
	if fn == nil {
		return ErrNilApply
	}
	if len(items) == 0 {
		return nil
	}

	progress := newProgress(len(items), r.NumBatches(len(items)), r.size)

	for index := 0; index < progress.TotalBatches; index++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		start := index * r.size
		end := min(start+r.size, len(items))

		if err := fn(ctx, items[start:end], index); err != nil {
			return fmt.Errorf("batch %d/%d failed: %w", index+1, progress.TotalBatches, err)
		}

		progress.advance(end - start)
		if r.onProgress != nil {
			r.onProgress(progress)
		}
	}

	return nil
}
