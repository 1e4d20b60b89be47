package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/stockfix/stockfix/internal/engine"
)

// Output formats accepted by --output.
const (
	outputTable = "table"
	outputJSON  = "json"
)

// Table geometry, matching the operator-facing report format.
const (
	tableWidth = 80
	skuWidth   = 30
	colWidth   = 12
)

// tableStyles carries the lipgloss styles for TTY output. In plain mode
// every style is a no-op so the tables stay byte-stable for redirection.
type tableStyles struct {
	banner   lipgloss.Style
	success  lipgloss.Style
	negative lipgloss.Style
	styled   bool
}

func newTableStyles(styled bool) tableStyles {
	if !styled {
		return tableStyles{}
	}
	return tableStyles{
		banner:   lipgloss.NewStyle().Bold(true),
		success:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		negative: lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		styled:   true,
	}
}

// isWriterTerminal reports whether the writer is a terminal. Buffers in
// tests and redirected output get plain rendering.
func isWriterTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return isTerminal(f)
	}
	return false
}

// shouldStyle gates styled rendering: TTY output with NO_COLOR unset.
func shouldStyle(w io.Writer) bool {
	return isWriterTerminal(w) && os.Getenv("NO_COLOR") == ""
}

func rule(w io.Writer, ch string) {
	fmt.Fprintln(w, strings.Repeat(ch, tableWidth))
}

// qty renders a decimal quantity to whole units, the resolution the
// warehouse report works in.
func qty(d decimal.Decimal) string {
	return d.StringFixed(0)
}

// signedQty renders a delta with an explicit sign, "+0" included.
func signedQty(d decimal.Decimal) string {
	if d.Sign() < 0 {
		return d.StringFixed(0)
	}
	return "+" + d.StringFixed(0)
}

// skuOrNA substitutes the placeholder for products without an SKU.
func skuOrNA(sku string) string {
	if sku == "" {
		return "N/A"
	}
	return sku
}

// renderHeadline prints the selection summary that opens both plan and
// apply output.
func renderHeadline(w io.Writer, r *engine.PlanReport) {
	p := message.NewPrinter(language.English)
	p.Fprintf(w, "Found %d stuck moves before %s\n", r.MoveCount, r.CutoffDate)
	p.Fprintf(w, "Affecting %d unique products\n\n", r.ProductCount)
}

// renderBeforeTable prints the pre-release inventory table.
func renderBeforeTable(w io.Writer, r *engine.PlanReport, st tableStyles) {
	rule(w, "=")
	fmt.Fprintln(w, st.banner.Render(fmt.Sprintf("BEFORE UNRESERVE - Top %d affected products:", r.TopN)))
	rule(w, "=")
	fmt.Fprintf(w, "%-*s %*s %*s %*s %*s\n",
		skuWidth, "SKU", colWidth, "On Hand", colWidth, "Reserved", colWidth, "Available", colWidth, "Stuck Moves")
	rule(w, "-")
	for _, row := range r.Snapshot {
		fmt.Fprintf(w, "%-*s %*s %*s %*s %*d\n",
			skuWidth, skuOrNA(row.SKU),
			colWidth, qty(row.OnHand),
			colWidth, qty(row.Reserved),
			colWidth, qty(row.Available),
			colWidth, row.StuckMoves)
	}
}

// renderPlanFooter prints the review banner with the exact apply invocation
// to run next.
func renderPlanFooter(w io.Writer, artifactPath string, st tableStyles) {
	applyCmd := "stockfix apply"
	if artifactPath != "" {
		applyCmd += " --plan " + artifactPath
	}
	fmt.Fprintln(w)
	rule(w, "=")
	fmt.Fprintln(w, st.banner.Render("REVIEW ABOVE. To proceed with unreserve, run: "+applyCmd))
	rule(w, "=")
}

// renderAfterTable prints the post-release table with signed deltas.
func renderAfterTable(w io.Writer, deltas []engine.DeltaRow, st tableStyles) {
	fmt.Fprintln(w)
	rule(w, "=")
	fmt.Fprintln(w, st.banner.Render("AFTER UNRESERVE:"))
	rule(w, "=")
	fmt.Fprintf(w, "%-*s %*s %*s %*s %*s\n",
		skuWidth, "SKU", colWidth, "On Hand", colWidth, "Reserved", colWidth, "Available", colWidth, "Delta")
	rule(w, "-")
	for _, row := range deltas {
		delta := fmt.Sprintf("%*s", colWidth, signedQty(row.Delta))
		if st.styled && row.Delta.Sign() < 0 {
			delta = st.negative.Render(delta)
		}
		fmt.Fprintf(w, "%-*s %*s %*s %*s %s\n",
			skuWidth, skuOrNA(row.SKU),
			colWidth, qty(row.OnHand),
			colWidth, qty(row.Reserved),
			colWidth, qty(row.Available),
			delta)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, st.success.Render("✓ Done! Available inventory increased by the delta shown."))
}

// renderJSON prints a report in machine-readable form.
func renderJSON(w io.Writer, report any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return nil
}

// validOutput rejects unknown --output values before any ERP call is made.
func validOutput(format string) error {
	switch format {
	case outputTable, outputJSON:
		return nil
	default:
		return fmt.Errorf("invalid output format %q (want %s or %s)", format, outputTable, outputJSON)
	}
}
