package fsm

import "strconv"

// NodeID returns the rendered id of a state. The machine name namespaces ids
// so several machines can share one drawing surface.
func NodeID(machine string, stateID int) string {
	return machine + "node" + strconv.Itoa(stateID)
}

// OutcomeNodeID returns the rendered id of the anchor of a composite state's outcome.
func OutcomeNodeID(machine string, stateID int, outcome string) string {
	return NodeID(machine, stateID) + outcome
}

// EdgeID returns the rendered id of the edge leaving a state on an outcome.
func EdgeID(machine string, stateID int, outcome string) string {
	return machine + "edge" + strconv.Itoa(stateID) + outcome
}
