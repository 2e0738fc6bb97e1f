package mou

import (
	"fmt"
	"time"
)

// TransitionRule is the outcome of checking a (from, to) status pair against
// the transition table.
type TransitionRule struct {
	Allowed        bool
	RequiredFields []string
}

// transitions encodes the legal MoU state graph. A nil field list means the
// transition carries no field requirements. Pairs not present are rejected.
var transitions = map[Status]map[Status][]string{
	StatusDraft: {
		StatusNegotiation: nil,
		StatusTerminated:  nil,
	},
	StatusNegotiation: {
		StatusSigned:     {"sign_date", "parties"},
		StatusDraft:      nil,
		StatusTerminated: nil,
	},
	StatusSigned: {
		StatusActive:     {"effective_date"},
		StatusTerminated: nil,
	},
	StatusActive: {
		StatusExpired:    nil,
		StatusRenewed:    nil,
		StatusTerminated: nil,
	},
	StatusExpired: {
		StatusRenewed:    nil,
		StatusTerminated: nil,
	},
	StatusRenewed: {
		StatusActive: nil,
	},
}

// Statuses lists every lifecycle status.
var Statuses = []Status{
	StatusDraft, StatusNegotiation, StatusSigned, StatusActive,
	StatusExpired, StatusTerminated, StatusRenewed,
}

// ValidStatus reports whether s is a known lifecycle status.
func ValidStatus(s Status) bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// Validate checks whether from -> to is a legal transition and which fields
// the aggregate must carry before it may be applied.
func Validate(from, to Status) TransitionRule {
	targets, ok := transitions[from]
	if !ok {
		return TransitionRule{}
	}
	fields, ok := targets[to]
	if !ok {
		return TransitionRule{}
	}
	return TransitionRule{Allowed: true, RequiredFields: fields}
}

// InitialStatus returns the status assigned to a new MoU when none is given.
func InitialStatus() Status {
	return StatusDraft
}

// IsSignificant reports whether a transition into status triggers the
// orchestrator-level notification hook.
func IsSignificant(status Status) bool {
	switch status {
	case StatusSigned, StatusActive, StatusExpired, StatusTerminated:
		return true
	}
	return false
}

// ApplyTransition validates and applies a status change on a copy of the
// aggregate. All-or-nothing: on any error the returned MoU is the zero value
// and the caller's aggregate is untouched.
//
// Field defaults implied by the target status:
//   - active:  effective_date defaults to now when unset
//   - expired: expiry_date defaults to now when unset
func ApplyTransition(m MoU, to Status, now time.Time) (MoU, error) {
	rule := Validate(m.Status, to)
	if !rule.Allowed {
		return MoU{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, m.Status, to)
	}
	for _, field := range rule.RequiredFields {
		if !m.fieldPresent(field) {
			return MoU{}, fmt.Errorf("%w: %s", ErrMissingRequiredField, field)
		}
	}

	m.Status = to
	switch to {
	case StatusActive:
		if m.EffectiveDate == nil {
			m.EffectiveDate = &now
		}
	case StatusExpired:
		if m.ExpiryDate == nil {
			m.ExpiryDate = &now
		}
	}
	m.UpdatedAt = now
	return m, nil
}

// fieldPresent reports whether a transition-required field is non-empty.
func (m MoU) fieldPresent(field string) bool {
	switch field {
	case "sign_date":
		return m.SignDate != nil
	case "effective_date":
		return m.EffectiveDate != nil
	case "expiry_date":
		return m.ExpiryDate != nil
	case "parties":
		return len(m.Parties) > 0
	}
	return false
}
