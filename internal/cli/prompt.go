package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PromptResult is the outcome of the release confirmation prompt.
type PromptResult struct {
	// Accepted is true when the operator approved the release.
	Accepted bool
	// Cancelled is true when input could not be read (e.g. Ctrl+C).
	Cancelled bool
}

// confirmRelease asks the operator to approve releasing reservations on
// pickings. interactive is whether stdin is a terminal; non-interactive runs
// never prompt and never approve, so automation must pass --yes explicitly.
// Empty input and anything but y/yes decline.
func confirmRelease(w io.Writer, r io.Reader, interactive bool, pickings int) PromptResult {
	if !interactive {
		return PromptResult{}
	}

	p := message.NewPrinter(language.English)
	p.Fprintf(w, "\n? Release reservations on %d pickings? [y/N] ", pickings)

	scanner := bufio.NewScanner(r)
	if !scanner.Scan() {
		if scanner.Err() != nil {
			return PromptResult{Cancelled: true}
		}
		return PromptResult{}
	}

	switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
	case "y", "yes":
		return PromptResult{Accepted: true}
	default:
		return PromptResult{}
	}
}

// renderDeclined prints the no-op ending of a declined apply.
func renderDeclined(w io.Writer) {
	fmt.Fprintln(w, "\nDeclined - no changes made.")
	fmt.Fprintln(w, "To execute: re-run and confirm the prompt, or pass --yes.")
}
