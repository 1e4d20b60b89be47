package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
)

// ProductSnapshot is one product's inventory position at plan time.
type ProductSnapshot struct {
	ProductID  int64           `json:"product_id"`
	SKU        string          `json:"sku"`
	OnHand     decimal.Decimal `json:"on_hand"`
	Reserved   decimal.Decimal `json:"reserved"`
	Available  decimal.Decimal `json:"available"`
	StuckMoves int             `json:"stuck_moves"`
}

// DeltaRow is one product's recomputed position after the release phase,
// with the availability delta against its snapshot.
type DeltaRow struct {
	ProductID int64           `json:"product_id"`
	SKU       string          `json:"sku"`
	OnHand    decimal.Decimal `json:"on_hand"`
	Reserved  decimal.Decimal `json:"reserved"`
	Available decimal.Decimal `json:"available"`
	Delta     decimal.Decimal `json:"delta"`
}

// PlanReport is the output of the read-only phase and the input artifact of
// the mutating phase.
type PlanReport struct {
	RunID       string    `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`

	CutoffDate string   `json:"cutoff_date"`
	Statuses   []string `json:"statuses"`
	BatchSize  int      `json:"batch_size"`
	TopN       int      `json:"top_n"`

	MoveCount    int     `json:"move_count"`
	ProductCount int     `json:"product_count"`
	PickingIDs   []int64 `json:"picking_ids"`

	Snapshot []ProductSnapshot `json:"snapshot"`
}

// PickingCount returns how many pickings the release phase would touch.
func (r *PlanReport) PickingCount() int {
	return len(r.PickingIDs)
}

// ApplyReport is the output of the mutating phase.
type ApplyReport struct {
	RunID     string    `json:"run_id"`
	PlanRunID string    `json:"plan_run_id"`
	StartedAt time.Time `json:"started_at"`

	ReleasedPickings int `json:"released_pickings"`
	Batches          int `json:"batches"`
	Commits          int `json:"commits"`

	Deltas []DeltaRow `json:"deltas"`

	ElapsedSeconds float64 `json:"elapsed_seconds"`
}

// newRunID mints a sortable unique id for one plan or apply run.
func newRunID() string {
	return ulid.Make().String()
}

// WritePlanArtifact persists the plan report as indented JSON, the artifact
// `apply --plan` consumes. 0600 keeps internal stock levels out of casual
// reach on shared hosts.
func WritePlanArtifact(path string, report *PlanReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding plan artifact: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o600); err != nil {
		return fmt.Errorf("writing plan artifact %s: %w", path, err)
	}
	return nil
}

// ReadPlanArtifact loads a plan report previously written by
// WritePlanArtifact.
func ReadPlanArtifact(path string) (*PlanReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading plan artifact %s: %w", path, err)
	}
	var report PlanReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("parsing plan artifact %s: %w", path, err)
	}
	if report.RunID == "" {
		return nil, fmt.Errorf("plan artifact %s has no run id", path)
	}
	return &report, nil
}
