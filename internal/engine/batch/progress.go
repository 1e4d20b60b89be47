package batch

import "time"

// Progress is a snapshot of a batch run. Runner hands callers a copy after
// each batch, so readers never race the writer.
type Progress struct {
	TotalItems       int
	ProcessedItems   int
	TotalBatches     int
	ProcessedBatches int
	BatchSize        int
	StartedAt        time.Time
}

func newProgress(totalItems, totalBatches, batchSize int) Progress {
	return Progress{
		TotalItems:   totalItems,
		TotalBatches: totalBatches,
		BatchSize:    batchSize,
		StartedAt:    time.Now(),
	}
}

func (p *Progress) advance(itemsProcessed int) {
	p.ProcessedItems += itemsProcessed
	p.ProcessedBatches++
}

// PercentComplete returns completion as 0-100.
func (p Progress) PercentComplete() float64 {
	if p.TotalItems == 0 {
		return 0
	}
	return float64(p.ProcessedItems) / float64(p.TotalItems) * 100
}

// IsComplete reports whether every item has been processed.
func (p Progress) IsComplete() bool {
	return p.ProcessedItems >= p.TotalItems
}

// Elapsed returns the time since the run started.
func (p Progress) Elapsed() time.Duration {
	return time.Since(p.StartedAt)
}
