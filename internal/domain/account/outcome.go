package account

import "fmt"

// OutcomeKind tags the terminal result of one registry write
type OutcomeKind string

// Outcome kinds
const (
	OutcomeSucceeded        OutcomeKind = "succeeded"
	OutcomeAlreadyExists    OutcomeKind = "already_exists"
	OutcomeRejected         OutcomeKind = "rejected"
	OutcomeTransientFailure OutcomeKind = "transient_failure"
	OutcomeUnknown          OutcomeKind = "unknown"
)

// Outcome is the classified result of a single registry write
type Outcome struct {
	Kind       OutcomeKind `json:"kind" yaml:"kind"`
	StatusCode int         `json:"status_code" yaml:"status_code"`
	Reason     string      `json:"reason,omitempty" yaml:"reason,omitempty"`
	Body       string      `json:"body,omitempty" yaml:"body,omitempty"`
}

// Counted reports whether the outcome increments the success counter
func (o Outcome) Counted() bool {
	return o.Kind == OutcomeSucceeded
}

// Failed reports whether the project was left unreconciled
func (o Outcome) Failed() bool {
	switch o.Kind {
	case OutcomeSucceeded, OutcomeAlreadyExists:
		return false
	default:
		return true
	}
}

func (o Outcome) String() string {
	if o.Reason == "" {
		return fmt.Sprintf("%s (%d)", o.Kind, o.StatusCode)
	}
	return fmt.Sprintf("%s (%d): %s", o.Kind, o.StatusCode, o.Reason)
}
