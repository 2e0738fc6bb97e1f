// Package secondary defines the secondary ports (driven adapters) for the
// application. These are the interfaces through which the engine drives
// external systems: persistence, audit logging and background-job dispatch.
package secondary

import (
	"context"
	"time"

	"github.com/example/accord/internal/core/mou"
	"github.com/example/accord/internal/core/renewal"
)

// MoURepository defines the secondary port for MoU persistence. The aggregate
// is always read and written whole; there are no partial-field writes at the
// engine level.
type MoURepository interface {
	// Create persists a new MoU. The record must carry ID, ReferenceNumber
	// and Status pre-populated by the service layer. Implementations must
	// enforce reference-number uniqueness and may regenerate the sequence
	// on collision.
	Create(ctx context.Context, m *mou.MoU) error

	// GetByID retrieves an MoU by its ID. Returns mou.ErrNotFound (wrapped)
	// for unknown IDs.
	GetByID(ctx context.Context, id string) (*mou.MoU, error)

	// Save writes the whole aggregate back. The write is guarded by the
	// aggregate's Version: a concurrent writer surfaces as mou.ErrConflict
	// and Version is bumped on success.
	Save(ctx context.Context, m *mou.MoU) error

	// List retrieves MoUs matching the given filters.
	List(ctx context.Context, filters MoUFilters) ([]*mou.MoU, error)

	// ListExpiring retrieves active or signed MoUs whose expiry date falls
	// in [from, until], soonest first.
	ListExpiring(ctx context.Context, from, until time.Time) ([]*mou.MoU, error)

	// CountCreatedInYear returns how many MoUs were created in the given
	// calendar year, for reference-number sequencing.
	CountCreatedInYear(ctx context.Context, year int) (int, error)
}

// MoUFilters contains filter options for querying MoUs.
type MoUFilters struct {
	Status mou.Status
	Type   mou.Type
	Limit  int
}

// RenewalRecord represents a renewal process as stored in persistence.
type RenewalRecord struct {
	ID                  string
	MoUID               string
	Status              renewal.Status
	ProposedExpiryDate  string // RFC 3339, empty means null
	RenewalPeriodMonths int
	RenewedMoUID        string // set when the renewal completes
	Notes               string
	DeclineReason       string
	InitiatedBy         string
	CreatedAt           string
	UpdatedAt           string
}

// RenewalRepository defines the secondary port for renewal persistence.
type RenewalRepository interface {
	// Create persists a new renewal record.
	Create(ctx context.Context, r *RenewalRecord) error

	// GetByID retrieves a renewal by its ID.
	GetByID(ctx context.Context, id string) (*RenewalRecord, error)

	// Update updates an existing renewal record.
	Update(ctx context.Context, r *RenewalRecord) error

	// ListByMoU retrieves renewals for an MoU, newest first.
	ListByMoU(ctx context.Context, mouID string) ([]*RenewalRecord, error)

	// OpenExists reports whether the MoU already has a renewal in a
	// non-terminal status.
	OpenExists(ctx context.Context, mouID string) (bool, error)
}
