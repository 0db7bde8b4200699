package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"

	"github.com/aretw0/fsmview/pkg/domain"
)

// Report is the outcome of checking one snapshot.
type Report struct {
	Source      string
	Machine     string
	Nodes       int
	Edges       int
	Diagnostics domain.Diagnostics
}

// Markdown formats reports as a markdown document, one section per source.
func Markdown(reports []Report) string {
	var sb strings.Builder
	sb.WriteString("# Snapshot validation\n\n")

	for _, r := range reports {
		title := r.Machine
		if title == "" {
			title = "(unnamed)"
		}
		sb.WriteString(fmt.Sprintf("## %s\n\n", title))
		if r.Source != "" {
			sb.WriteString(fmt.Sprintf("Source: `%s`  \n", r.Source))
		}
		sb.WriteString(fmt.Sprintf("Nodes: %d, edges: %d\n\n", r.Nodes, r.Edges))

		if len(r.Diagnostics) == 0 {
			sb.WriteString("No findings.\n\n")
			continue
		}

		sb.WriteString("| Code | State | Outcome | Message |\n")
		sb.WriteString("|---|---|---|---|\n")
		for _, d := range r.Diagnostics {
			state := "-"
			if d.StateID >= 0 {
				state = fmt.Sprintf("%d", d.StateID)
			}
			outcome := d.Outcome
			if outcome == "" {
				outcome = "-"
			}
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n",
				d.Code(), state, escapeCell(outcome), escapeCell(d.Message)))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}

// PrintActivePath writes the chain of states from the root to the active
// leaf, with the leaf highlighted.
func PrintActivePath(w io.Writer, path []*domain.State) {
	out := termenv.NewOutput(w)
	for i, st := range path {
		indent := strings.Repeat("  ", i)
		label := fmt.Sprintf("%s (%d)", st.Name, st.ID)
		if i == len(path)-1 {
			fmt.Fprintf(w, "%s%s\n", indent, out.String(label).Foreground(out.Color("#66bb6a")).Bold())
			continue
		}
		fmt.Fprintf(w, "%s%s\n", indent, label)
	}
}
