package primary

import (
	"context"

	"github.com/example/accord/internal/core/renewal"
)

// RenewalService defines the primary port for the renewal workflow.
type RenewalService interface {
	// Initiate opens a renewal process for an active or expired MoU.
	// Fails with mou.ErrConflict when an open renewal already exists.
	Initiate(ctx context.Context, req InitiateRenewalRequest) (*Renewal, error)

	// UpdateStatus moves the renewal through its workflow graph.
	UpdateStatus(ctx context.Context, req UpdateRenewalStatusRequest) (*Renewal, error)

	// Complete closes a signed renewal, linking the successor MoU and
	// transitioning the original to renewed.
	Complete(ctx context.Context, req CompleteRenewalRequest) (*Renewal, error)

	// GetRenewal retrieves a renewal by ID.
	GetRenewal(ctx context.Context, id string) (*Renewal, error)

	// ListByMoU lists the renewal history of an MoU, newest first.
	ListByMoU(ctx context.Context, mouID string) ([]*Renewal, error)
}

// InitiateRenewalRequest contains parameters for starting a renewal.
type InitiateRenewalRequest struct {
	MoUID               string
	ProposedExpiryDate  string // RFC 3339 date, optional
	RenewalPeriodMonths int
	Notes               string
}

// UpdateRenewalStatusRequest contains parameters for a renewal transition.
type UpdateRenewalStatusRequest struct {
	RenewalID     string
	NewStatus     renewal.Status
	Notes         string
	DeclineReason string
}

// CompleteRenewalRequest contains parameters for completing a renewal.
type CompleteRenewalRequest struct {
	RenewalID string
	NewMoUID  string
}

// Renewal represents a renewal process at the port boundary.
type Renewal struct {
	ID                  string
	MoUID               string
	Status              renewal.Status
	ProposedExpiryDate  string
	RenewalPeriodMonths int
	RenewedMoUID        string
	Notes               string
	DeclineReason       string
	InitiatedBy         string
	CreatedAt           string
	UpdatedAt           string
}
