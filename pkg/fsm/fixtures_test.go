package fsm_test

import "github.com/aretw0/fsmview/pkg/domain"

// nestedSnapshot is a two-level machine:
//
//	Demo (root, outcomes: finished, failure)
//	├── Start  -> next: Nested
//	├── Nested (composite, outcomes: success, failure) -> success: End
//	│   ├── Work -> ok: Check, retry: Work
//	│   └── Check -> valid: success, invalid: (pass-through)
//	└── End    -> done: finished
func nestedSnapshot() *domain.Snapshot {
	return &domain.Snapshot{States: []domain.StateRecord{
		{ID: 0, Name: "Demo", Parent: -1, IsFSM: true, CurrentState: 2, Outcomes: []string{"finished", "failure"}},
		{ID: 1, Name: "Start", Parent: 0, Outcomes: []string{"next"},
			Transitions: []domain.Transition{{Outcome: "next", Target: "Nested"}}},
		{ID: 2, Name: "Nested", Parent: 0, IsFSM: true, CurrentState: 4, Outcomes: []string{"success", "failure"},
			Transitions: []domain.Transition{{Outcome: "success", Target: "End"}}},
		{ID: 3, Name: "Work", Parent: 2, Outcomes: []string{"ok", "retry"},
			Transitions: []domain.Transition{{Outcome: "ok", Target: "Check"}, {Outcome: "retry", Target: "Work"}}},
		{ID: 4, Name: "Check", Parent: 2, Outcomes: []string{"valid", "failure"},
			Transitions: []domain.Transition{{Outcome: "valid", Target: "success"}}},
		{ID: 5, Name: "End", Parent: 0, Outcomes: []string{"done"},
			Transitions: []domain.Transition{{Outcome: "done", Target: "finished"}}},
	}}
}

func edgeByID(g *domain.Graph, id string) (domain.Edge, bool) {
	for _, e := range g.Edges {
		if e.ID == id {
			return e, true
		}
	}
	return domain.Edge{}, false
}
