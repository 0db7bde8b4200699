package fsm

import (
	"log/slog"

	"github.com/aretw0/fsmview/pkg/domain"
)

// Result is the output of BuildGraph.
type Result struct {
	Graph       *domain.Graph
	Diagnostics domain.Diagnostics
}

type builder struct {
	logger       *slog.Logger
	keepDangling bool
	validate     bool
}

// BuildGraph converts a snapshot into a flat graph.
// It never fails: structural problems and unresolved references are returned
// as diagnostics next to a best-effort graph.
func BuildGraph(snap *domain.Snapshot, opts ...Option) *Result {
	b := defaultBuilder()
	for _, opt := range opts {
		opt(b)
	}

	m, diags := Index(snap)
	if b.validate {
		diags = append(diags, m.Validate()...)
	}

	res := b.build(m)
	res.Diagnostics = append(diags, res.Diagnostics...)

	for _, d := range res.Diagnostics {
		b.logger.Warn("snapshot finding", "machine", m.Name, "code", d.Code(), "err", d)
	}
	b.logger.Debug("graph built",
		"machine", m.Name,
		"nodes", len(res.Graph.Nodes),
		"edges", len(res.Graph.Edges),
		"active", res.Graph.ActiveID,
	)

	return res
}

func (b *builder) build(m *Machine) *Result {
	res := &Result{Graph: &domain.Graph{
		Machine: m.Name,
		Title:   m.Name,
		Nodes:   []domain.Node{},
		Edges:   []domain.Edge{},
	}}
	g := res.Graph
	// owners[i] is the state that emitted g.Edges[i].
	var owners []int

	activeID := -1
	if id, err := m.ResolveActiveLeaf(); err != nil {
		res.Diagnostics = append(res.Diagnostics, domain.Diagnostic{
			Err: domain.ErrUnresolvedActiveState, StateID: -1, Message: err.Error(),
		})
	} else if id > domain.RootID {
		activeID = id
		g.ActiveID = NodeID(m.Name, id)
	}

	for _, st := range m.States {
		composite := st.Composite() != nil

		if st.ID > domain.RootID {
			kind := domain.NodeKindSimple
			switch {
			case st.ID == activeID:
				kind = domain.NodeKindActive
			case composite:
				kind = domain.NodeKindComposite
			}
			g.Nodes = append(g.Nodes, domain.Node{
				ID:       NodeID(m.Name, st.ID),
				ParentID: b.parentNodeID(m, st.Parent),
				Label:    st.Name,
				Kind:     kind,
			})
		}

		for _, outcome := range st.Outcomes {
			if composite {
				g.Nodes = append(g.Nodes, domain.Node{
					ID:       OutcomeNodeID(m.Name, st.ID, outcome),
					ParentID: b.parentNodeID(m, st.ID),
					Label:    outcome,
					Kind:     domain.NodeKindOutcome,
				})
			}

			if st.IsRoot() {
				continue
			}

			source := NodeID(m.Name, st.ID)
			if composite {
				source = OutcomeNodeID(m.Name, st.ID, outcome)
			}
			g.Edges = append(g.Edges, domain.Edge{
				ID:     EdgeID(m.Name, st.ID, outcome),
				Source: source,
				Target: m.ResolveTarget(st, outcome),
				Label:  outcome,
			})
			owners = append(owners, st.ID)
		}
	}

	b.checkEdges(res, owners)
	return res
}

// parentNodeID nests under the state's node. The root is never rendered, so
// its children and its outcome anchors are top-level.
func (b *builder) parentNodeID(m *Machine, stateID int) string {
	if stateID <= domain.RootID {
		return ""
	}
	return NodeID(m.Name, stateID)
}

// checkEdges reports edges whose endpoints are not rendered and drops them
// unless dangling edges are kept.
func (b *builder) checkEdges(res *Result, owners []int) {
	rendered := make(map[string]bool, len(res.Graph.Nodes))
	for _, n := range res.Graph.Nodes {
		rendered[n.ID] = true
	}

	edges := res.Graph.Edges[:0]
	for i, e := range res.Graph.Edges {
		if rendered[e.Source] && rendered[e.Target] {
			edges = append(edges, e)
			continue
		}
		res.Diagnostics = append(res.Diagnostics, domain.Diagnostic{
			Err:     domain.ErrDanglingTransitionTarget,
			StateID: owners[i],
			Outcome: e.Label,
			Message: "edge " + e.ID + " points at " + missingEndpoint(rendered, e),
		})
		if b.keepDangling {
			edges = append(edges, e)
		}
	}
	res.Graph.Edges = edges
}

func missingEndpoint(rendered map[string]bool, e domain.Edge) string {
	if !rendered[e.Source] {
		return "unrendered source " + e.Source
	}
	return "unrendered target " + e.Target
}
