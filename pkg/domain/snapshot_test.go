package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aretw0/fsmview/pkg/domain"
)

func TestSnapshot_Name(t *testing.T) {
	var nilSnap *domain.Snapshot
	assert.Equal(t, "", nilSnap.Name())
	assert.Equal(t, "", (&domain.Snapshot{}).Name())
	assert.Equal(t, "Demo", (&domain.Snapshot{States: []domain.StateRecord{{Name: "Demo", Parent: -1}}}).Name())
}

func TestSnapshot_Clone(t *testing.T) {
	orig := &domain.Snapshot{States: []domain.StateRecord{
		{ID: 0, Name: "Demo", Parent: -1, IsFSM: true, CurrentState: 1, Outcomes: []string{"done"}},
		{ID: 1, Name: "A", Parent: 0, Outcomes: []string{"ok"}, Transitions: []domain.Transition{{Outcome: "ok", Target: "B"}}},
	}}

	clone := orig.Clone()
	assert.Equal(t, orig, clone)

	clone.States[0].Name = "Other"
	clone.States[0].Outcomes[0] = "changed"
	clone.States[1].Transitions[0].Target = "C"

	assert.Equal(t, "Demo", orig.States[0].Name)
	assert.Equal(t, "done", orig.States[0].Outcomes[0])
	assert.Equal(t, "B", orig.States[1].Transitions[0].Target)

	var nilSnap *domain.Snapshot
	assert.Nil(t, nilSnap.Clone())
}

func TestState_Lookups(t *testing.T) {
	st := &domain.State{
		ID: 1, Parent: 0, Name: "A",
		Outcomes:    []string{"ok", "fail"},
		Transitions: []domain.Transition{{Outcome: "ok", Target: "B"}, {Outcome: "ok", Target: "C"}},
		Kind:        domain.Simple{},
	}

	tr, ok := st.TransitionFor("ok")
	assert.True(t, ok)
	assert.Equal(t, "B", tr.Target)

	_, ok = st.TransitionFor("fail")
	assert.False(t, ok)

	assert.True(t, st.HasOutcome("fail"))
	assert.False(t, st.HasOutcome("other"))
	assert.False(t, st.IsRoot())
	assert.Nil(t, st.Composite())

	root := &domain.State{Parent: domain.NoParent, Kind: &domain.Composite{CurrentChild: 1}}
	assert.True(t, root.IsRoot())
	assert.Equal(t, 1, root.Composite().CurrentChild)
}
