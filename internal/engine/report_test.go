package engine

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanReport(t *testing.T) {
	fix := warehouseFixture()
	plan, err := Plan(context.Background(), fix, PlanOptions{
		Cutoff: day("2024-01-01"), TopN: 20, BatchSize: 100,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, plan.RunID)
	assert.Equal(t, "2024-01-01", plan.CutoffDate)
	assert.Equal(t, StuckStates, plan.Statuses)
	assert.Equal(t, 4, plan.MoveCount)
	assert.Equal(t, 2, plan.ProductCount)
	assert.Equal(t, 3, plan.PickingCount())
	assert.Len(t, plan.Snapshot, 2)
	assert.Empty(t, fix.UnreserveCalls, "plan never mutates")
	assert.Zero(t, fix.CommitCalls, "plan never commits")
}

func TestPlanArtifactRoundTrip(t *testing.T) {
	fix := warehouseFixture()
	plan, err := Plan(context.Background(), fix, PlanOptions{
		Cutoff: day("2024-01-01"), TopN: 20, BatchSize: 100,
	})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "plan.json")
	require.NoError(t, WritePlanArtifact(path, plan))

	loaded, err := ReadPlanArtifact(path)
	require.NoError(t, err)

	assert.Equal(t, plan.RunID, loaded.RunID)
	assert.Equal(t, plan.PickingIDs, loaded.PickingIDs)
	require.Len(t, loaded.Snapshot, len(plan.Snapshot))
	for i, row := range loaded.Snapshot {
		assert.Equal(t, plan.Snapshot[i].SKU, row.SKU)
		assert.True(t, row.Available.Equal(plan.Snapshot[i].Available))
	}

	// The loaded artifact drives an apply identically to the live plan.
	report, err := Apply(context.Background(), fix, loaded, ReleaseOptions{BatchSize: 100})
	require.NoError(t, err)
	assert.Equal(t, loaded.PickingCount(), report.ReleasedPickings)
}

func TestReadPlanArtifactErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := ReadPlanArtifact(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, WritePlanArtifact(bad, &PlanReport{RunID: "x"}))
	_, err = ReadPlanArtifact(bad)
	assert.NoError(t, err)

	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, WritePlanArtifact(empty, &PlanReport{}))
	_, err = ReadPlanArtifact(empty)
	assert.ErrorContains(t, err, "no run id")
}
