package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Diagnostic is a non-fatal finding raised while transforming a snapshot.
type Diagnostic struct {
	// Err is one of the sentinel errors of this package.
	Err error `json:"-" yaml:"-"`
	// StateID is the record the finding is about, or -1 when it concerns the whole snapshot.
	StateID int    `json:"state_id" yaml:"state_id"`
	Outcome string `json:"outcome,omitempty" yaml:"outcome,omitempty"`
	Message string `json:"message" yaml:"message"`
}

func (d Diagnostic) Error() string {
	var sb strings.Builder
	if d.Err != nil {
		sb.WriteString(d.Err.Error())
	} else {
		sb.WriteString("diagnostic")
	}
	if d.StateID >= 0 {
		fmt.Fprintf(&sb, ": state %d", d.StateID)
	}
	if d.Outcome != "" {
		fmt.Fprintf(&sb, " outcome %q", d.Outcome)
	}
	if d.Message != "" {
		sb.WriteString(": ")
		sb.WriteString(d.Message)
	}
	return sb.String()
}

func (d Diagnostic) Unwrap() error {
	return d.Err
}

// Code returns a stable short name for the diagnostic category.
func (d Diagnostic) Code() string {
	switch {
	case errors.Is(d.Err, ErrUnresolvedActiveState):
		return "unresolved_active_state"
	case errors.Is(d.Err, ErrDanglingTransitionTarget):
		return "dangling_transition_target"
	case errors.Is(d.Err, ErrMalformedSnapshot):
		return "malformed_snapshot"
	}
	return "unknown"
}

// MarshalJSON adds the category code to the encoded fields.
func (d Diagnostic) MarshalJSON() ([]byte, error) {
	type fields Diagnostic
	return json.Marshal(struct {
		Code string `json:"code"`
		fields
	}{Code: d.Code(), fields: fields(d)})
}

// Diagnostics aggregates findings into a single error value.
type Diagnostics []Diagnostic

func (ds Diagnostics) Error() string {
	if len(ds) == 1 {
		return ds[0].Error()
	}
	msg := fmt.Sprintf("%d diagnostics:\n", len(ds))
	for i, d := range ds {
		msg += fmt.Sprintf("  %d. %s\n", i+1, d.Error())
	}
	return msg
}

// Unwrap exposes every finding to errors.Is and errors.As.
func (ds Diagnostics) Unwrap() []error {
	errs := make([]error, len(ds))
	for i, d := range ds {
		errs[i] = d
	}
	return errs
}

// Err returns nil when there are no findings.
func (ds Diagnostics) Err() error {
	if len(ds) == 0 {
		return nil
	}
	return ds
}
