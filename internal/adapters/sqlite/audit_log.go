package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/example/accord/internal/ports/secondary"
)

// AuditLog implements secondary.AuditLog with SQLite. Entries are append-only.
type AuditLog struct {
	db *sql.DB
}

// NewAuditLog creates a new SQLite audit log.
func NewAuditLog(db *sql.DB) *AuditLog {
	return &AuditLog{db: db}
}

// Record appends one audit entry.
func (a *AuditLog) Record(ctx context.Context, entityType, entityID, action string, changes map[string]any, actorID string, at time.Time) error {
	var changesJSON sql.NullString
	if len(changes) > 0 {
		raw, err := json.Marshal(changes)
		if err != nil {
			return fmt.Errorf("failed to marshal audit changes: %w", err)
		}
		changesJSON = sql.NullString{String: string(raw), Valid: true}
	}

	_, err := a.db.ExecContext(ctx,
		`INSERT INTO audit_logs (id, entity_type, entity_id, action, changes, user_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), entityType, entityID, action, changesJSON,
		nullString(actorID), at.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to record audit entry: %w", err)
	}
	return nil
}

// Ensure AuditLog implements the interface
var _ secondary.AuditLog = (*AuditLog)(nil)
