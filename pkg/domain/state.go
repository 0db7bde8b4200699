package domain

// Kind distinguishes simple states from composite ones.
// The only implementations are Simple and Composite.
type Kind interface {
	isKind()
}

// Simple is a leaf state.
type Simple struct{}

// Composite is a state containing a nested machine.
type Composite struct {
	// CurrentChild is the id of the active child state.
	CurrentChild int
	// Children lists the ids of the records whose parent is this state, in snapshot order.
	Children []int
}

func (Simple) isKind()     {}
func (*Composite) isKind() {}

// State is the normalized form of a StateRecord.
type State struct {
	ID          int
	Parent      int
	Name        string
	Outcomes    []string
	Transitions []Transition
	Kind        Kind
}

// IsRoot reports whether the state describes the whole machine.
func (s *State) IsRoot() bool {
	return s.Parent < 0
}

// Composite returns the composite variant, or nil for a simple state.
func (s *State) Composite() *Composite {
	c, _ := s.Kind.(*Composite)
	return c
}

// TransitionFor returns the first transition declared for the outcome.
func (s *State) TransitionFor(outcome string) (Transition, bool) {
	for _, t := range s.Transitions {
		if t.Outcome == outcome {
			return t, true
		}
	}
	return Transition{}, false
}

// HasOutcome reports whether the state declares the outcome.
func (s *State) HasOutcome(outcome string) bool {
	for _, o := range s.Outcomes {
		if o == outcome {
			return true
		}
	}
	return false
}
