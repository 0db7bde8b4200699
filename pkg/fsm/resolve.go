package fsm

import (
	"fmt"

	"github.com/aretw0/fsmview/pkg/domain"
)

// ResolveActiveLeaf returns the id of the leaf state currently executing.
// It fails with domain.ErrUnresolvedActiveState when the chain is broken or cyclic.
func ResolveActiveLeaf(snap *domain.Snapshot) (int, error) {
	m, _ := Index(snap)
	return m.ResolveActiveLeaf()
}

// ResolveActiveLeaf follows current children from the root down to a simple state.
func (m *Machine) ResolveActiveLeaf() (int, error) {
	path, err := m.ActivePath()
	if err != nil {
		return -1, err
	}
	return path[len(path)-1].ID, nil
}

// ActivePath returns every state on the way from the root to the active leaf, both included.
func (m *Machine) ActivePath() ([]*domain.State, error) {
	st, ok := m.Root()
	if !ok {
		return nil, fmt.Errorf("%w: no record with id %d", domain.ErrUnresolvedActiveState, domain.RootID)
	}

	path := []*domain.State{st}
	for {
		c := st.Composite()
		if c == nil {
			return path, nil
		}
		// A well-formed chain visits each record at most once.
		if len(path) > len(m.States) {
			return nil, fmt.Errorf("%w: current state chain exceeds %d records", domain.ErrUnresolvedActiveState, len(m.States))
		}
		next, ok := m.State(c.CurrentChild)
		if !ok {
			return nil, fmt.Errorf("%w: state %d points at missing child %d", domain.ErrUnresolvedActiveState, st.ID, c.CurrentChild)
		}
		st = next
		path = append(path, st)
	}
}
