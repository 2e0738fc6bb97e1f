// Package primary defines the primary ports (driving adapters) for the
// application. These are the interfaces through which the outside world
// drives the lifecycle engine.
package primary

import (
	"context"
	"time"

	"github.com/example/accord/internal/core/mou"
)

// MoUService defines the primary port for MoU lifecycle operations.
// Implementations live in the application layer; adapters in the CLI layer.
// The acting user is carried in the context (ctxutil.WithActorID).
type MoUService interface {
	// CreateMoU creates a new MoU with a generated reference number.
	CreateMoU(ctx context.Context, req CreateMoURequest) (*mou.MoU, error)

	// GetMoU retrieves an MoU by ID.
	GetMoU(ctx context.Context, id string) (*mou.MoU, error)

	// ListMoUs lists MoUs with optional status/type filters.
	ListMoUs(ctx context.Context, filters MoUFilters) ([]*mou.MoU, error)

	// UpdateMoU applies a partial update of descriptive fields and dates.
	UpdateMoU(ctx context.Context, req UpdateMoURequest) (*mou.MoU, error)

	// TransitionStatus moves the MoU through the lifecycle state machine.
	TransitionStatus(ctx context.Context, id string, to mou.Status) (*mou.MoU, error)

	// AddDeliverable appends a new deliverable to the MoU.
	AddDeliverable(ctx context.Context, mouID string, d mou.Deliverable) (*mou.MoU, error)

	// UpdateDeliverable merges a partial patch into one deliverable.
	UpdateDeliverable(ctx context.Context, mouID, deliverableID string, patch mou.DeliverablePatch) (*mou.MoU, error)

	// ComputePerformance returns the weighted performance breakdown.
	ComputePerformance(ctx context.Context, id string) (mou.Performance, error)

	// RecalculateAlerts recomputes the alert set from the MoU's dates,
	// persists it and enqueues dispatch jobs for unsent alerts.
	RecalculateAlerts(ctx context.Context, id string) (*mou.MoU, error)

	// MarkAlertSent flips the sent flag on the alert identified by type and
	// date, once the notification has actually been dispatched.
	MarkAlertSent(ctx context.Context, mouID string, alertType mou.AlertType, date time.Time) (*mou.MoU, error)

	// ListExpiring returns active or signed MoUs expiring within the given
	// number of days, soonest first.
	ListExpiring(ctx context.Context, days int) ([]*mou.MoU, error)

	// ListDeliverablesDue returns non-completed deliverables across active
	// MoUs due within the given number of days, sorted by due date.
	ListDeliverablesDue(ctx context.Context, days int) ([]DeliverableDue, error)

	// ExpireOverdue transitions active MoUs whose expiry date has passed to
	// expired. Returns the IDs that were expired.
	ExpireOverdue(ctx context.Context) ([]string, error)
}

// CreateMoURequest contains parameters for creating an MoU.
type CreateMoURequest struct {
	Title              string
	Type               mou.Type
	Status             mou.Status // defaults to draft when empty
	Parties            []mou.Party
	ThematicAreas      []string
	SignDate           *time.Time
	EffectiveDate      *time.Time
	ExpiryDate         *time.Time
	AutoRenewal        bool
	RenewalNoticeDays  *int
	Deliverables       []mou.Deliverable
	PerformanceMetrics []mou.Metric
	Documents          []string
	Notes              string
	Metadata           map[string]any
}

// UpdateMoURequest contains a partial update of an MoU's descriptive fields
// and dates. Nil fields are left untouched.
type UpdateMoURequest struct {
	MoUID             string
	Title             *string
	ThematicAreas     []string
	SignDate          *time.Time
	EffectiveDate     *time.Time
	ExpiryDate        *time.Time
	AutoRenewal       *bool
	RenewalNoticeDays *int
	Notes             *string
}

// MoUFilters contains filter options for listing MoUs.
type MoUFilters struct {
	Status mou.Status
	Type   mou.Type
	Limit  int
}

// DeliverableDue is a deliverable joined with its parent MoU for the
// cross-MoU due listing.
type DeliverableDue struct {
	MoUID        string
	MoUReference string
	MoUTitle     string
	Deliverable  mou.Deliverable
}
