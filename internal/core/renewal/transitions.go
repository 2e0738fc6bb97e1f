// Package renewal contains the pure business logic for the MoU renewal
// workflow. This is part of the Functional Core - no I/O, only pure functions.
package renewal

import (
	"fmt"

	"github.com/example/accord/internal/core/mou"
)

// Status represents the state of a renewal process.
type Status string

const (
	StatusPending     Status = "pending"
	StatusInitiated   Status = "initiated"
	StatusNegotiation Status = "negotiation"
	StatusApproved    Status = "approved"
	StatusSigned      Status = "signed"
	StatusCompleted   Status = "completed"
	StatusDeclined    Status = "declined"
	StatusExpired     Status = "expired"
)

// transitions encodes the renewal workflow graph. Declined, expired and
// completed are terminal.
var transitions = map[Status][]Status{
	StatusPending:     {StatusInitiated},
	StatusInitiated:   {StatusNegotiation, StatusDeclined},
	StatusNegotiation: {StatusApproved, StatusDeclined},
	StatusApproved:    {StatusSigned, StatusDeclined},
	StatusSigned:      {StatusCompleted},
	StatusDeclined:    {},
	StatusExpired:     {},
	StatusCompleted:   {},
}

// InitialStatus returns the status of a freshly initiated renewal.
func InitialStatus() Status {
	return StatusInitiated
}

// AllowedTransitions returns the legal targets from the given status.
func AllowedTransitions(from Status) []Status {
	return transitions[from]
}

// Terminal reports whether no further transitions are possible.
func Terminal(s Status) bool {
	return len(transitions[s]) == 0
}

// ValidateTransition checks from -> to against the workflow graph.
func ValidateTransition(from, to Status) error {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return nil
		}
	}
	return fmt.Errorf("%w: renewal %s -> %s", mou.ErrInvalidTransition, from, to)
}

// CanInitiateFor reports whether a renewal process may be started for an MoU
// in the given status. Only live or just-lapsed agreements are renewable.
func CanInitiateFor(status mou.Status) bool {
	return status == mou.StatusActive || status == mou.StatusExpired
}
