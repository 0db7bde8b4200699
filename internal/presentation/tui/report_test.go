package tui_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aretw0/fsmview/internal/presentation/tui"
	"github.com/aretw0/fsmview/pkg/domain"
)

func TestMarkdown(t *testing.T) {
	reports := []tui.Report{
		{Source: "ok.yaml", Machine: "Clean", Nodes: 3, Edges: 2},
		{
			Source: "bad.json", Machine: "Broken", Nodes: 1, Edges: 1,
			Diagnostics: domain.Diagnostics{
				{Err: domain.ErrDanglingTransitionTarget, StateID: 1, Outcome: "error", Message: "target a|b not rendered"},
				{Err: domain.ErrMalformedSnapshot, StateID: -1, Message: "no root"},
			},
		},
	}

	md := tui.Markdown(reports)

	assert.Contains(t, md, "## Clean\n")
	assert.Contains(t, md, "Source: `ok.yaml`")
	assert.Contains(t, md, "Nodes: 3, edges: 2")
	assert.Contains(t, md, "No findings.")
	assert.Contains(t, md, "## Broken\n")
	assert.Contains(t, md, "| dangling_transition_target | 1 | error | target a\\|b not rendered |")
	assert.Contains(t, md, "| malformed_snapshot | - | - | no root |")
}

func TestMarkdown_UnnamedMachine(t *testing.T) {
	md := tui.Markdown([]tui.Report{{}})
	assert.Contains(t, md, "## (unnamed)")
}

func TestPrintActivePath(t *testing.T) {
	var buf bytes.Buffer
	tui.PrintActivePath(&buf, []*domain.State{
		{ID: 0, Name: "Demo"},
		{ID: 2, Name: "Nested"},
		{ID: 4, Name: "Check"},
	})

	out := buf.String()
	assert.Contains(t, out, "Demo (0)\n")
	assert.Contains(t, out, "  Nested (2)\n")
	assert.Contains(t, out, "Check (4)")
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	tui.PrintBanner(&buf, "v1.2.3")
	assert.Contains(t, buf.String(), "v1.2.3")
}
