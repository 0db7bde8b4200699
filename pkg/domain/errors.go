package domain

import "errors"

// ErrUnresolvedActiveState is returned when the chain of current states cannot be followed to a leaf.
var ErrUnresolvedActiveState = errors.New("unresolved active state")

// ErrDanglingTransitionTarget is reported when an edge points at a node that is not rendered.
var ErrDanglingTransitionTarget = errors.New("dangling transition target")

// ErrMalformedSnapshot is reported when the snapshot violates a structural invariant.
var ErrMalformedSnapshot = errors.New("malformed snapshot")

// ErrMachineNotFound is returned when a machine name cannot be found in the store.
var ErrMachineNotFound = errors.New("machine not found")
