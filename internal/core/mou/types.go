// Package mou contains the pure business logic for MoU lifecycle operations.
// This is part of the Functional Core - no I/O, only pure functions.
package mou

import "time"

// Type classifies an MoU by the shape of the agreement.
type Type string

const (
	TypeBilateral    Type = "bilateral"
	TypeMultilateral Type = "multilateral"
	TypeFramework    Type = "framework"
	TypeTechnical    Type = "technical"
	TypeCooperation  Type = "cooperation"
)

// Types lists every known MoU type.
var Types = []Type{TypeBilateral, TypeMultilateral, TypeFramework, TypeTechnical, TypeCooperation}

// ValidType reports whether t is a known MoU type.
func ValidType(t Type) bool {
	for _, known := range Types {
		if t == known {
			return true
		}
	}
	return false
}

// Status represents the lifecycle state of an MoU.
type Status string

const (
	StatusDraft       Status = "draft"
	StatusNegotiation Status = "negotiation"
	StatusSigned      Status = "signed"
	StatusActive      Status = "active"
	StatusExpired     Status = "expired"
	StatusTerminated  Status = "terminated"
	StatusRenewed     Status = "renewed"
)

// PartyType distinguishes the kind of entity a party refers to.
type PartyType string

const (
	PartyCountry      PartyType = "country"
	PartyOrganization PartyType = "organization"
)

// PartyRole marks a party as the lead signatory or a co-signatory.
type PartyRole string

const (
	RolePrimary   PartyRole = "primary"
	RoleSecondary PartyRole = "secondary"
)

// Party is one signatory entry on an MoU.
type Party struct {
	PartyType         PartyType  `json:"party_type"`
	PartyID           string     `json:"party_id"`
	Role              PartyRole  `json:"role"`
	SignedDate        *time.Time `json:"signed_date,omitempty"`
	SignatoryName     string     `json:"signatory_name,omitempty"`
	SignatoryPosition string     `json:"signatory_position,omitempty"`
}

// DeliverableStatus represents the completion state of a deliverable.
type DeliverableStatus string

const (
	DeliverablePending    DeliverableStatus = "pending"
	DeliverableInProgress DeliverableStatus = "in_progress"
	DeliverableCompleted  DeliverableStatus = "completed"
	DeliverableDelayed    DeliverableStatus = "delayed"
	DeliverableCancelled  DeliverableStatus = "cancelled"
)

// Deliverable is a dated commitment owned by exactly one MoU.
// It is addressed by ID within its parent's deliverable list and mutated
// only through ApplyDeliverablePatch.
type Deliverable struct {
	ID                   string            `json:"id"`
	Title                string            `json:"title"`
	Description          string            `json:"description,omitempty"`
	ResponsibleParty     string            `json:"responsible_party"`
	DueDate              *time.Time        `json:"due_date,omitempty"`
	Status               DeliverableStatus `json:"status"`
	CompletionDate       *time.Time        `json:"completion_date,omitempty"`
	CompletionPercentage *int              `json:"completion_percentage,omitempty"`
	Notes                string            `json:"notes,omitempty"`
	Attachments          []string          `json:"attachments,omitempty"`
}

// Metric is a measurable target tracked under an MoU.
type Metric struct {
	MetricName           string  `json:"metric_name"`
	TargetValue          float64 `json:"target_value"`
	CurrentValue         float64 `json:"current_value"`
	Unit                 string  `json:"unit,omitempty"`
	MeasurementFrequency string  `json:"measurement_frequency,omitempty"`
}

// AlertType classifies a computed reminder point.
type AlertType string

const (
	AlertExpiry      AlertType = "expiry"
	AlertRenewal     AlertType = "renewal"
	AlertDeliverable AlertType = "deliverable"
	AlertReview      AlertType = "review"
)

// Alert is a computed future notification point derived from MoU dates.
// Sent flips to true only once the notification has actually been dispatched.
type Alert struct {
	Type       AlertType `json:"type"`
	Date       time.Time `json:"date"`
	DaysBefore int       `json:"days_before"`
	Recipients []string  `json:"recipients,omitempty"`
	Sent       bool      `json:"sent"`
}

// MoU is the aggregate root. The whole document is loaded, mutated and saved
// as a unit; Version carries the optimistic-concurrency counter checked at
// save time.
type MoU struct {
	ID                 string         `json:"id"`
	ReferenceNumber    string         `json:"reference_number"`
	Title              string         `json:"title"`
	Type               Type           `json:"type"`
	Status             Status         `json:"status"`
	Parties            []Party        `json:"parties"`
	ThematicAreas      []string       `json:"thematic_areas,omitempty"`
	SignDate           *time.Time     `json:"sign_date,omitempty"`
	EffectiveDate      *time.Time     `json:"effective_date,omitempty"`
	ExpiryDate         *time.Time     `json:"expiry_date,omitempty"`
	AutoRenewal        bool           `json:"auto_renewal"`
	RenewalNoticeDays  *int           `json:"renewal_notice_days,omitempty"`
	Deliverables       []Deliverable  `json:"deliverables,omitempty"`
	PerformanceMetrics []Metric       `json:"performance_metrics,omitempty"`
	Alerts             []Alert        `json:"alerts,omitempty"`
	Documents          []string       `json:"documents,omitempty"`
	Notes              string         `json:"notes,omitempty"`
	Metadata           map[string]any `json:"metadata,omitempty"`
	CreatedBy          string         `json:"created_by"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	Version            int            `json:"version"`
}

// ValidateDates checks the ordering invariant sign_date <= effective_date <= expiry_date
// for whichever dates are present.
func (m MoU) ValidateDates() error {
	if m.SignDate != nil && m.EffectiveDate != nil && m.SignDate.After(*m.EffectiveDate) {
		return wrapValidation("sign_date must not be after effective_date")
	}
	if m.EffectiveDate != nil && m.ExpiryDate != nil && m.EffectiveDate.After(*m.ExpiryDate) {
		return wrapValidation("effective_date must not be after expiry_date")
	}
	if m.SignDate != nil && m.ExpiryDate != nil && m.SignDate.After(*m.ExpiryDate) {
		return wrapValidation("sign_date must not be after expiry_date")
	}
	return nil
}
