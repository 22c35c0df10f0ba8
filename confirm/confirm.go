package confirm

import "errors"

// ErrAlreadyInProgress is returned by Request when another challenge is
// outstanding. The caller must re-request later; the service never queues.
var ErrAlreadyInProgress = errors.New("confirmation already in progress")

// Options configures a confirmation challenge. Malformed options fail fast at
// the Request boundary.
type Options struct {
	Title       string `yaml:"title" json:"title" validate:"required,max=120"`
	Description string `yaml:"description,omitempty" json:"description,omitempty" validate:"max=500"`
	AllowCancel bool   `yaml:"allowCancel,omitempty" json:"allowCancel,omitempty"`
}

// Outcome is the terminal disposition of a challenge.
type Outcome string

const (
	OutcomeSuccess   Outcome = "success"
	OutcomeCancelled Outcome = "cancelled"
	OutcomeFailed    Outcome = "failed"
)

// Result is delivered exactly once per non-rejected Request.
type Result struct {
	Outcome Outcome `json:"outcome"`
	Reason  string  `json:"reason,omitempty"`
}

// State is an immutable snapshot handed to subscribers. Id and Options are
// meaningful only while Visible is true.
type State struct {
	Visible bool
	Id      string
	Options Options
}

// Listener receives state snapshots; delivery is synchronous and ordered, so
// listeners must not call back into the Service.
type Listener func(state State)

// request is the single outstanding challenge; it is owned exclusively by the
// Service and destroyed the moment a result is produced.
type request struct {
	id      string
	options Options
	done    chan *Result
}
