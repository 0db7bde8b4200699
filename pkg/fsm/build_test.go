package fsm_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/fsmview/pkg/domain"
	"github.com/aretw0/fsmview/pkg/fsm"
)

func TestBuildGraph_LeafRootIsEmpty(t *testing.T) {
	snap := &domain.Snapshot{States: []domain.StateRecord{
		{ID: 0, Name: "Idle", Parent: -1},
	}}

	res := fsm.BuildGraph(snap)

	assert.Empty(t, res.Graph.Nodes)
	assert.Empty(t, res.Graph.Edges)
	assert.Empty(t, res.Diagnostics)
	assert.Equal(t, "Idle", res.Graph.Title)
	assert.Empty(t, res.Graph.ActiveID, "the root is never rendered, so it is never highlighted")
}

func TestBuildGraph_SelfLoopAndRootFallback(t *testing.T) {
	snap := &domain.Snapshot{States: []domain.StateRecord{
		{ID: 0, Name: "M", Parent: -1, IsFSM: true, CurrentState: 1},
		{ID: 1, Name: "Running", Parent: 0, Outcomes: []string{"done", "error"},
			Transitions: []domain.Transition{{Outcome: "done", Target: "Running"}}},
	}}

	active, err := fsm.ResolveActiveLeaf(snap)
	require.NoError(t, err)
	assert.Equal(t, 1, active)

	res := fsm.BuildGraph(snap)
	g := res.Graph

	node, ok := g.Node("Mnode1")
	require.True(t, ok)
	assert.Equal(t, domain.NodeKindActive, node.Kind)
	assert.Equal(t, "Running", node.Label)
	assert.Empty(t, node.ParentID)
	assert.Equal(t, "Mnode1", g.ActiveID)

	done, ok := edgeByID(g, "Medge1done")
	require.True(t, ok)
	assert.Equal(t, "Mnode1", done.Source)
	assert.Equal(t, "Mnode1", done.Target)
	assert.Equal(t, "done", done.Label)

	failed, ok := edgeByID(g, "Medge1error")
	require.True(t, ok)
	assert.Equal(t, "Mnode1", failed.Source)
	assert.Equal(t, "Mnode0error", failed.Target)
	assert.Equal(t, "error", failed.Label)

	// The root declares no "error" outcome, so the fallback target is not rendered.
	require.Len(t, res.Diagnostics, 1)
	assert.ErrorIs(t, res.Diagnostics[0], domain.ErrDanglingTransitionTarget)
	assert.Equal(t, 1, res.Diagnostics[0].StateID)
	assert.Equal(t, "error", res.Diagnostics[0].Outcome)
}

func TestBuildGraph_CompositeOutcomeBubblesToParent(t *testing.T) {
	res := fsm.BuildGraph(nestedSnapshot())
	require.Empty(t, res.Diagnostics)

	failure, ok := edgeByID(res.Graph, "Demoedge2failure")
	require.True(t, ok)
	assert.Equal(t, "Demonode2failure", failure.Source, "composites leave through their outcome anchor")
	assert.Equal(t, "Demonode0failure", failure.Target)

	success, ok := edgeByID(res.Graph, "Demoedge2success")
	require.True(t, ok)
	assert.Equal(t, "Demonode2success", success.Source)
	assert.Equal(t, "Demonode5", success.Target)
}

func TestBuildGraph_TargetResolution(t *testing.T) {
	res := fsm.BuildGraph(nestedSnapshot())

	tests := []struct {
		edge   string
		target string
	}{
		{"Demoedge1next", "Demonode2"},           // sibling by name
		{"Demoedge3ok", "Demonode4"},             // sibling inside a nested machine
		{"Demoedge3retry", "Demonode3"},          // self loop
		{"Demoedge4valid", "Demonode2success"},   // transition names a parent outcome
		{"Demoedge4failure", "Demonode2failure"}, // pass-through
		{"Demoedge5done", "Demonode0finished"},   // transition names a root outcome
		{"Demoedge2failure", "Demonode0failure"}, // composite pass-through
		{"Demoedge2success", "Demonode5"},        // composite to sibling
	}

	for _, tt := range tests {
		t.Run(tt.edge, func(t *testing.T) {
			e, ok := edgeByID(res.Graph, tt.edge)
			require.True(t, ok)
			assert.Equal(t, tt.target, e.Target)
		})
	}
}

func TestBuildGraph_Nodes(t *testing.T) {
	g := fsm.BuildGraph(nestedSnapshot()).Graph

	want := []domain.Node{
		{ID: "Demonode0finished", Label: "finished", Kind: domain.NodeKindOutcome},
		{ID: "Demonode0failure", Label: "failure", Kind: domain.NodeKindOutcome},
		{ID: "Demonode1", Label: "Start", Kind: domain.NodeKindSimple},
		{ID: "Demonode2", Label: "Nested", Kind: domain.NodeKindComposite},
		{ID: "Demonode2success", ParentID: "Demonode2", Label: "success", Kind: domain.NodeKindOutcome},
		{ID: "Demonode2failure", ParentID: "Demonode2", Label: "failure", Kind: domain.NodeKindOutcome},
		{ID: "Demonode3", ParentID: "Demonode2", Label: "Work", Kind: domain.NodeKindSimple},
		{ID: "Demonode4", ParentID: "Demonode2", Label: "Check", Kind: domain.NodeKindActive},
		{ID: "Demonode5", Label: "End", Kind: domain.NodeKindSimple},
	}
	assert.Equal(t, want, g.Nodes)
	assert.Len(t, g.Edges, 8)
}

func TestBuildGraph_Properties(t *testing.T) {
	snap := nestedSnapshot()
	m, _ := fsm.Index(snap)
	res := fsm.BuildGraph(snap)

	t.Run("Root Not Rendered", func(t *testing.T) {
		_, ok := res.Graph.Node(fsm.NodeID(m.Name, domain.RootID))
		assert.False(t, ok)
	})

	t.Run("One Anchor Per Composite Outcome", func(t *testing.T) {
		for _, st := range m.States {
			if st.Composite() == nil {
				continue
			}
			count := 0
			for _, o := range st.Outcomes {
				if _, ok := res.Graph.Node(fsm.OutcomeNodeID(m.Name, st.ID, o)); ok {
					count++
				}
			}
			assert.Equal(t, len(st.Outcomes), count, "state %d", st.ID)
		}
	})

	t.Run("One Edge Per Outcome", func(t *testing.T) {
		for _, st := range m.States {
			for _, o := range st.Outcomes {
				_, ok := edgeByID(res.Graph, fsm.EdgeID(m.Name, st.ID, o))
				assert.Equal(t, !st.IsRoot(), ok, "state %d outcome %s", st.ID, o)
			}
		}
	})

	t.Run("Idempotent", func(t *testing.T) {
		again := fsm.BuildGraph(snap)
		assert.Equal(t, res.Graph, again.Graph)
		assert.Equal(t, res.Diagnostics, again.Diagnostics)
	})
}

func TestBuildGraph_DanglingEdges(t *testing.T) {
	snap := &domain.Snapshot{States: []domain.StateRecord{
		{ID: 0, Name: "M", Parent: -1, IsFSM: true, CurrentState: 1},
		{ID: 1, Name: "A", Parent: 0, Outcomes: []string{"go", "stop"},
			Transitions: []domain.Transition{{Outcome: "go", Target: "Nowhere"}}},
	}}

	kept := fsm.BuildGraph(snap)
	assert.Len(t, kept.Graph.Edges, 2)
	assert.Len(t, kept.Diagnostics, 2)
	for _, d := range kept.Diagnostics {
		assert.ErrorIs(t, d, domain.ErrDanglingTransitionTarget)
	}

	dropped := fsm.BuildGraph(snap, fsm.WithDanglingEdges(false))
	assert.Empty(t, dropped.Graph.Edges)
	assert.Len(t, dropped.Diagnostics, 2)
}

func TestBuildGraph_MalformedInputNeverPanics(t *testing.T) {
	tests := []struct {
		name string
		snap *domain.Snapshot
	}{
		{"Nil", nil},
		{"Empty", &domain.Snapshot{}},
		{"Dangling Parent", &domain.Snapshot{States: []domain.StateRecord{
			{ID: 0, Name: "M", Parent: -1, IsFSM: true, CurrentState: 1},
			{ID: 1, Name: "A", Parent: 9, Outcomes: []string{"x"}},
		}}},
		{"Duplicate Ids", &domain.Snapshot{States: []domain.StateRecord{
			{ID: 0, Name: "M", Parent: -1, IsFSM: true, CurrentState: 1},
			{ID: 1, Name: "A", Parent: 0, Outcomes: []string{"x"}},
			{ID: 1, Name: "B", Parent: 0, Outcomes: []string{"y"}},
		}}},
		{"Cyclic Parents", &domain.Snapshot{States: []domain.StateRecord{
			{ID: 0, Name: "M", Parent: -1, IsFSM: true, CurrentState: 1},
			{ID: 1, Name: "A", Parent: 2, IsFSM: true, CurrentState: 2, Outcomes: []string{"x"}},
			{ID: 2, Name: "B", Parent: 1, IsFSM: true, CurrentState: 1, Outcomes: []string{"y"}},
		}}},
		{"Missing Root", &domain.Snapshot{States: []domain.StateRecord{
			{ID: 3, Name: "A", Parent: 0, Outcomes: []string{"x"}},
		}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var res *fsm.Result
			assert.NotPanics(t, func() { res = fsm.BuildGraph(tt.snap) })
			require.NotNil(t, res.Graph)
			assert.NotEmpty(t, res.Diagnostics)
			assert.True(t, errors.Is(res.Diagnostics.Err(), domain.ErrMalformedSnapshot) ||
				errors.Is(res.Diagnostics.Err(), domain.ErrUnresolvedActiveState))
		})
	}
}
