package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventGraphBuilt       EventType = "graph_built"
	EventSnapshotIngested EventType = "snapshot_ingested"
	EventMachineRemoved   EventType = "machine_removed"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	Machine   string    `json:"machine"`
}

// BuildEvent reports one snapshot-to-graph transformation.
type BuildEvent struct {
	EventBase
	Nodes       int           `json:"nodes"`
	Edges       int           `json:"edges"`
	Diagnostics Diagnostics   `json:"diagnostics,omitempty"`
	Duration    time.Duration `json:"duration"`
}

// MachineEvent reports a registry change.
type MachineEvent struct {
	EventBase
	Replaced bool `json:"replaced,omitempty"`
}

// LifecycleHooks defines callbacks for viewer observability.
// OnBuild may be called from several goroutines at once.
type LifecycleHooks struct {
	OnBuild  func(context.Context, *BuildEvent)
	OnIngest func(context.Context, *MachineEvent)
	OnRemove func(context.Context, *MachineEvent)
}
