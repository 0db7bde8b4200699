package fsm

import "github.com/aretw0/fsmview/pkg/domain"

// targetStrategy resolves the node an outcome of st leads to.
// It reports false when it does not apply, letting the next strategy try.
type targetStrategy func(m *Machine, st *domain.State, outcome string) (string, bool)

// targetStrategies are tried in order; the first match wins.
var targetStrategies = []targetStrategy{
	siblingTarget,
	parentOutcomeTarget,
	rootOutcomeTarget,
}

// ResolveTarget returns the node id an outcome of st leads to.
func (m *Machine) ResolveTarget(st *domain.State, outcome string) string {
	for _, strategy := range targetStrategies {
		if id, ok := strategy(m, st, outcome); ok {
			return id
		}
	}
	// rootOutcomeTarget always applies.
	return ""
}

// siblingTarget follows an explicit transition to a state in the same scope.
func siblingTarget(m *Machine, st *domain.State, outcome string) (string, bool) {
	t, ok := st.TransitionFor(outcome)
	if !ok {
		return "", false
	}
	sibling, ok := m.Sibling(st.Parent, t.Target)
	if !ok {
		return "", false
	}
	return NodeID(m.Name, sibling.ID), true
}

// parentOutcomeTarget bubbles the outcome up to the enclosing machine. An
// explicit transition may name the parent outcome it exits through; otherwise
// the same-named outcome is used.
func parentOutcomeTarget(m *Machine, st *domain.State, outcome string) (string, bool) {
	parent, ok := m.State(st.Parent)
	if !ok {
		return "", false
	}

	candidates := []string{outcome}
	if t, ok := st.TransitionFor(outcome); ok && t.Target != outcome {
		candidates = []string{t.Target, outcome}
	}

	for _, c := range candidates {
		if parent.HasOutcome(c) {
			return OutcomeNodeID(m.Name, parent.ID, c), true
		}
	}
	return "", false
}

// rootOutcomeTarget is the last resort: the same-named outcome of the root machine.
// The node may not exist; BuildGraph reports that case.
func rootOutcomeTarget(m *Machine, _ *domain.State, outcome string) (string, bool) {
	return OutcomeNodeID(m.Name, domain.RootID, outcome), true
}
