package domain

// RootID is the id of the record describing the whole machine.
const RootID = 0

// NoParent is the parent value carried by the root record.
const NoParent = -1

// StateRecord is one entry of a snapshot, as delivered on the wire.
type StateRecord struct {
	ID     int    `json:"id" yaml:"id" mapstructure:"id"`
	Name   string `json:"name" yaml:"name" mapstructure:"name"`
	Parent int    `json:"parent" yaml:"parent" mapstructure:"parent"`

	// IsFSM marks a composite state holding a nested machine.
	IsFSM bool `json:"is_fsm" yaml:"is_fsm" mapstructure:"is_fsm"`

	// CurrentState is the id of the active child. Only meaningful when IsFSM is set.
	CurrentState int `json:"current_state" yaml:"current_state" mapstructure:"current_state"`

	Outcomes    []string     `json:"outcomes" yaml:"outcomes,omitempty" mapstructure:"outcomes"`
	Transitions []Transition `json:"transitions" yaml:"transitions,omitempty" mapstructure:"transitions"`
}

// Snapshot describes one machine instance at one instant.
// States[0] is the root record; its name identifies the machine.
type Snapshot struct {
	States []StateRecord `json:"states" yaml:"states" mapstructure:"states"`
}

// Name returns the machine name carried by the root record, or "" for an empty snapshot.
func (s *Snapshot) Name() string {
	if s == nil || len(s.States) == 0 {
		return ""
	}
	return s.States[0].Name
}

// Clone returns a deep copy so stores and callers never share slices.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	out := &Snapshot{States: make([]StateRecord, len(s.States))}
	for i, rec := range s.States {
		rec.Outcomes = append([]string(nil), rec.Outcomes...)
		rec.Transitions = append([]Transition(nil), rec.Transitions...)
		out.States[i] = rec
	}
	return out
}

// AllMachines is the selection entry standing for every stored machine.
// It is reserved and cannot be used as a machine name.
const AllMachines = "ALL"
