package secondary

import (
	"context"
	"time"
)

// AuditLog defines the secondary port for recording domain changes.
// Implementations persist the entry; they never filter or interpret it.
type AuditLog interface {
	// Record writes one audit entry. changes carries the structured diff,
	// e.g. {"from": "active", "to": "expired"} for a status change.
	Record(ctx context.Context, entityType, entityID, action string, changes map[string]any, actorID string, at time.Time) error
}
