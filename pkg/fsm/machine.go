package fsm

import (
	"fmt"

	"github.com/aretw0/fsmview/pkg/domain"
)

type siblingKey struct {
	parent int
	name   string
}

// Machine is the indexed form of a snapshot.
// It is built once per call and never mutated afterwards.
type Machine struct {
	Name   string
	States []*domain.State

	byID     map[int]*domain.State
	siblings map[siblingKey]int
}

// Index normalizes a snapshot into a Machine.
// Records repeating an already seen id are dropped and reported.
func Index(snap *domain.Snapshot) (*Machine, domain.Diagnostics) {
	m := &Machine{
		byID:     make(map[int]*domain.State),
		siblings: make(map[siblingKey]int),
	}
	var diags domain.Diagnostics

	if snap == nil || len(snap.States) == 0 {
		diags = append(diags, malformed(-1, "snapshot has no state records"))
		return m, diags
	}

	m.Name = snap.States[0].Name
	if root := snap.States[0]; root.ID != domain.RootID || root.Parent >= 0 {
		diags = append(diags, malformed(root.ID,
			fmt.Sprintf("first record must be the root (id %d, negative parent), got id %d parent %d", domain.RootID, root.ID, root.Parent)))
	}

	for _, rec := range snap.States {
		if _, dup := m.byID[rec.ID]; dup {
			diags = append(diags, malformed(rec.ID, fmt.Sprintf("duplicate id, record %q ignored", rec.Name)))
			continue
		}

		st := &domain.State{
			ID:          rec.ID,
			Parent:      rec.Parent,
			Name:        rec.Name,
			Outcomes:    rec.Outcomes,
			Transitions: rec.Transitions,
			Kind:        domain.Simple{},
		}
		if rec.IsFSM {
			st.Kind = &domain.Composite{CurrentChild: rec.CurrentState}
		}

		m.byID[st.ID] = st
		m.States = append(m.States, st)

		key := siblingKey{parent: st.Parent, name: st.Name}
		if _, taken := m.siblings[key]; !taken {
			m.siblings[key] = st.ID
		}
	}

	for _, st := range m.States {
		if st.IsRoot() {
			continue
		}
		if parent, ok := m.byID[st.Parent]; ok {
			if c := parent.Composite(); c != nil {
				c.Children = append(c.Children, st.ID)
			}
		}
	}

	return m, diags
}

// State returns the record with the given id.
func (m *Machine) State(id int) (*domain.State, bool) {
	st, ok := m.byID[id]
	return st, ok
}

// Root returns the record with the root id, if any.
func (m *Machine) Root() (*domain.State, bool) {
	return m.State(domain.RootID)
}

// Sibling finds the state named name inside the scope of parent.
// When names repeat within a scope the first record wins.
func (m *Machine) Sibling(parent int, name string) (*domain.State, bool) {
	id, ok := m.siblings[siblingKey{parent: parent, name: name}]
	if !ok {
		return nil, false
	}
	return m.State(id)
}

func malformed(stateID int, msg string) domain.Diagnostic {
	return domain.Diagnostic{Err: domain.ErrMalformedSnapshot, StateID: stateID, Message: msg}
}
