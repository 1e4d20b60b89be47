package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockfix/stockfix/internal/config"
	"github.com/stockfix/stockfix/internal/engine"
	"github.com/stockfix/stockfix/internal/odoo"
)

// seedFixture is the ERP stand-in the command tests run against: two
// products stuck before 2024-01-01 across two pickings, plus a move every
// filter must reject.
func seedFixture(t *testing.T) *odoo.Fixture {
	t.Helper()
	return &odoo.Fixture{
		Moves: []odoo.Move{
			{ID: 1, State: "assigned", Date: mustDay(t, "2023-02-01"), SaleLineID: 11,
				Product: odoo.Ref{ID: 1, Name: "Widget"}, Picking: odoo.Ref{ID: 100}},
			{ID: 2, State: "waiting", Date: mustDay(t, "2023-03-01"), SaleLineID: 12,
				Product: odoo.Ref{ID: 2, Name: "Gadget"}, Picking: odoo.Ref{ID: 101}},
			{ID: 3, State: "done", Date: mustDay(t, "2023-03-01"), SaleLineID: 13,
				Product: odoo.Ref{ID: 2}, Picking: odoo.Ref{ID: 102}},
		},
		Quants: []odoo.Quant{
			{ID: 1, ProductID: 1, LocationUsage: odoo.LocationUsageInternal, Quantity: decFromInt(10), Reserved: decFromInt(3)},
			{ID: 2, ProductID: 1, LocationUsage: odoo.LocationUsageInternal, Quantity: decFromInt(5), Reserved: decFromInt(5)},
			{ID: 3, ProductID: 2, LocationUsage: odoo.LocationUsageInternal, Quantity: decFromInt(4), Reserved: decFromInt(4)},
		},
		Products: []odoo.Product{
			{ID: 1, SKU: "WID-001", Name: "Widget"},
			{ID: 2, Name: "Gadget"},
		},
	}
}

// execute runs the command tree against fix with the live repository
// constructor swapped out, returning everything written to stdout.
func execute(t *testing.T, fix *odoo.Fixture, args ...string) (string, error) {
	t.Helper()

	orig := newRepository
	newRepository = func(context.Context, *config.Config, bool) (odoo.StockRepository, func() error, error) {
		return fix, func() error { return nil }, nil
	}
	t.Cleanup(func() {
		newRepository = orig
		config.ResetGlobalForTest()
	})

	root := NewRootCmd("test")
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(""))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestPlanCommand(t *testing.T) {
	fix := seedFixture(t)
	out, err := execute(t, fix, "plan", "--cutoff", "2024-01-01")
	require.NoError(t, err)

	assert.Contains(t, out, "Found 2 stuck moves before 2024-01-01")
	assert.Contains(t, out, "Affecting 2 unique products")
	assert.Contains(t, out, "BEFORE UNRESERVE - Top 20 affected products:")
	assert.Contains(t, out, "WID-001")
	assert.Contains(t, out, "N/A", "missing SKU renders as N/A")
	assert.Contains(t, out, "To proceed with unreserve, run: stockfix apply")

	assert.Empty(t, fix.UnreserveCalls, "plan is read-only")
	assert.Zero(t, fix.CommitCalls)
}

func TestPlanCommandWritesArtifact(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.json")
	out, err := execute(t, seedFixture(t), "plan", "--cutoff", "2024-01-01", "--out", path)
	require.NoError(t, err)
	assert.Contains(t, out, "stockfix apply --plan "+path)

	plan, err := engine.ReadPlanArtifact(path)
	require.NoError(t, err)
	assert.Equal(t, 2, plan.MoveCount)
	assert.Equal(t, []int64{100, 101}, plan.PickingIDs)
}

func TestPlanCommandJSON(t *testing.T) {
	out, err := execute(t, seedFixture(t), "plan", "--cutoff", "2024-01-01", "--output", "json")
	require.NoError(t, err)

	var plan engine.PlanReport
	require.NoError(t, json.Unmarshal([]byte(out), &plan))
	assert.Equal(t, "2024-01-01", plan.CutoffDate)
	assert.Len(t, plan.Snapshot, 2)
	assert.NotContains(t, out, "BEFORE UNRESERVE", "json mode carries no table chrome")
}

func TestPlanCommandInvalidCutoff(t *testing.T) {
	_, err := execute(t, seedFixture(t), "plan", "--cutoff", "01/01/2024")
	require.ErrorContains(t, err, "invalid cutoff date")
}

func TestPlanCommandInvalidOutput(t *testing.T) {
	_, err := execute(t, seedFixture(t), "plan", "--output", "xml")
	require.ErrorContains(t, err, "invalid output format")
}

func TestApplyCommandConfirmed(t *testing.T) {
	fix := seedFixture(t)
	out, err := execute(t, fix, "apply", "--cutoff", "2024-01-01", "--yes")
	require.NoError(t, err)

	require.Len(t, fix.UnreserveCalls, 1)
	assert.Equal(t, []int64{100, 101}, fix.UnreserveCalls[0])
	assert.Equal(t, 1, fix.CommitCalls)

	assert.Contains(t, out, "Processing 2 pickings...")
	assert.Contains(t, out, "  Processed 2/2")
	assert.Contains(t, out, "✓ Unreserve complete!")
	assert.Contains(t, out, "AFTER UNRESERVE:")
	assert.Contains(t, out, "+8", "Widget gains its released reservation back")
	assert.Contains(t, out, "✓ Done!")
}

func TestApplyCommandDeclinedWhenNotInteractive(t *testing.T) {
	fix := seedFixture(t)
	out, err := execute(t, fix, "apply", "--cutoff", "2024-01-01")
	require.NoError(t, err)

	assert.Contains(t, out, "Declined - no changes made.")
	assert.Empty(t, fix.UnreserveCalls, "declined apply never releases")
	assert.Zero(t, fix.CommitCalls, "declined apply never commits")
	assert.NotContains(t, out, "AFTER UNRESERVE:", "no delta report without a release")
}

func TestApplyCommandFromArtifact(t *testing.T) {
	fix := seedFixture(t)
	path := filepath.Join(t.TempDir(), "plan.json")
	_, err := execute(t, fix, "plan", "--cutoff", "2024-01-01", "--out", path)
	require.NoError(t, err)

	out, err := execute(t, fix, "apply", "--plan", path, "--yes")
	require.NoError(t, err)

	require.Len(t, fix.UnreserveCalls, 1)
	assert.Equal(t, []int64{100, 101}, fix.UnreserveCalls[0])
	assert.Contains(t, out, "✓ Unreserve complete!")
}

func TestApplyCommandBatchSizeFlag(t *testing.T) {
	fix := seedFixture(t)
	_, err := execute(t, fix, "apply", "--cutoff", "2024-01-01", "--yes", "--batch-size", "1")
	require.NoError(t, err)

	// Two pickings, batch size 1: two release calls.
	require.Len(t, fix.UnreserveCalls, 2)
	assert.Equal(t, []int64{100}, fix.UnreserveCalls[0])
	assert.Equal(t, []int64{101}, fix.UnreserveCalls[1])
	assert.Equal(t, 1, fix.CommitCalls, "still one commit at the end")
}

func TestApplyCommandCommitEachBatch(t *testing.T) {
	fix := seedFixture(t)
	_, err := execute(t, fix, "apply", "--cutoff", "2024-01-01", "--yes",
		"--batch-size", "1", "--commit-each-batch")
	require.NoError(t, err)

	require.Len(t, fix.UnreserveCalls, 2)
	assert.Equal(t, 2, fix.CommitCalls, "one commit per batch")
}

func TestApplyCommandJSON(t *testing.T) {
	fix := seedFixture(t)
	out, err := execute(t, fix, "apply", "--cutoff", "2024-01-01", "--yes", "--output", "json")
	require.NoError(t, err)

	var report engine.ApplyReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 2, report.ReleasedPickings)
	assert.Equal(t, 1, report.Batches)
	assert.Equal(t, 1, report.Commits)
	require.Len(t, report.Deltas, 2)
}

func TestApplyCommandMissingArtifact(t *testing.T) {
	_, err := execute(t, seedFixture(t), "apply", "--plan", filepath.Join(t.TempDir(), "nope.json"), "--yes")
	require.ErrorContains(t, err, "reading plan artifact")
}
