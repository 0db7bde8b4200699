package fsm

import (
	"errors"
	"fmt"

	"github.com/dominikbraun/graph"

	"github.com/aretw0/fsmview/pkg/domain"
)

// Validate reports every structural invariant the snapshot violates.
// It never stops at the first finding.
func Validate(snap *domain.Snapshot) domain.Diagnostics {
	m, diags := Index(snap)
	return append(diags, m.Validate()...)
}

// Validate checks the indexed machine. Index findings are not repeated.
func (m *Machine) Validate() domain.Diagnostics {
	var diags domain.Diagnostics

	diags = append(diags, m.validateHierarchy()...)

	for _, st := range m.States {
		if !st.IsRoot() && st.ID <= domain.RootID {
			diags = append(diags, malformed(st.ID, "non-root records must have a positive id"))
		}

		if id := m.siblings[siblingKey{parent: st.Parent, name: st.Name}]; id != st.ID {
			diags = append(diags, malformed(st.ID, fmt.Sprintf("name %q already used by state %d in the same scope", st.Name, id)))
		}

		seen := make(map[string]bool, len(st.Outcomes))
		for _, o := range st.Outcomes {
			if seen[o] {
				diags = append(diags, domain.Diagnostic{
					Err: domain.ErrMalformedSnapshot, StateID: st.ID, Outcome: o,
					Message: "outcome declared twice",
				})
			}
			seen[o] = true
		}

		for _, t := range st.Transitions {
			if !seen[t.Outcome] {
				diags = append(diags, domain.Diagnostic{
					Err: domain.ErrMalformedSnapshot, StateID: st.ID, Outcome: t.Outcome,
					Message: fmt.Sprintf("transition to %q fires on an undeclared outcome", t.Target),
				})
			}
		}

		if c := st.Composite(); c != nil {
			child, ok := m.State(c.CurrentChild)
			switch {
			case !ok:
				diags = append(diags, malformed(st.ID, fmt.Sprintf("current state %d does not exist", c.CurrentChild)))
			case child.Parent != st.ID:
				diags = append(diags, malformed(st.ID, fmt.Sprintf("current state %d is not a child", c.CurrentChild)))
			}
		}
	}

	return diags
}

// validateHierarchy checks that parent links form a tree rooted at the root record.
func (m *Machine) validateHierarchy() domain.Diagnostics {
	var diags domain.Diagnostics

	tree := graph.New(graph.IntHash, graph.Directed(), graph.PreventCycles())
	for _, st := range m.States {
		_ = tree.AddVertex(st.ID)
	}

	for _, st := range m.States {
		if st.IsRoot() {
			if st.ID != domain.RootID {
				diags = append(diags, malformed(st.ID, "only the root record may have a negative parent"))
			}
			continue
		}

		parent, ok := m.State(st.Parent)
		if !ok {
			diags = append(diags, malformed(st.ID, fmt.Sprintf("parent %d does not exist", st.Parent)))
			continue
		}
		if parent.Composite() == nil {
			diags = append(diags, malformed(st.ID, fmt.Sprintf("parent %d is not a composite state", st.Parent)))
		}

		if err := tree.AddEdge(st.Parent, st.ID); err != nil {
			if errors.Is(err, graph.ErrEdgeCreatesCycle) {
				diags = append(diags, malformed(st.ID, fmt.Sprintf("parent chain through %d is cyclic", st.Parent)))
				continue
			}
			diags = append(diags, malformed(st.ID, err.Error()))
		}
	}

	return diags
}
