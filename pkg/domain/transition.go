package domain

// Transition maps one declared outcome of a state to a destination.
type Transition struct {
	// Outcome is the declared outcome this transition fires on.
	Outcome string `json:"outcome" yaml:"outcome" mapstructure:"outcome"`

	// Target is the name of the destination. It is resolved by name among the
	// siblings of the owning state, falling back to the outcomes of the parent.
	Target string `json:"state" yaml:"state" mapstructure:"state"`
}
