package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/accord/internal/core/mou"
	"github.com/example/accord/internal/ports/secondary"
)

// RenewalRepository implements secondary.RenewalRepository with SQLite.
type RenewalRepository struct {
	db *sql.DB
}

// NewRenewalRepository creates a new SQLite renewal repository.
func NewRenewalRepository(db *sql.DB) *RenewalRepository {
	return &RenewalRepository{db: db}
}

// Create persists a new renewal record.
func (r *RenewalRepository) Create(ctx context.Context, record *secondary.RenewalRecord) error {
	if record.ID == "" {
		return fmt.Errorf("renewal ID must be pre-populated by service layer")
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO renewals (id, mou_id, status, proposed_expiry_date, renewal_period_months, renewed_mou_id, notes, decline_reason, initiated_by, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID, record.MoUID, record.Status,
		nullString(record.ProposedExpiryDate), record.RenewalPeriodMonths,
		nullString(record.RenewedMoUID), nullString(record.Notes),
		nullString(record.DeclineReason), nullString(record.InitiatedBy),
		record.CreatedAt, record.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create renewal: %w", err)
	}
	return nil
}

// GetByID retrieves a renewal by its ID.
func (r *RenewalRepository) GetByID(ctx context.Context, id string) (*secondary.RenewalRecord, error) {
	record, err := scanRenewal(r.db.QueryRowContext(ctx,
		renewalSelect+" WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: renewal %s", mou.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get renewal: %w", err)
	}
	return record, nil
}

// Update updates an existing renewal record.
func (r *RenewalRepository) Update(ctx context.Context, record *secondary.RenewalRecord) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE renewals
		 SET status = ?, proposed_expiry_date = ?, renewal_period_months = ?,
		     renewed_mou_id = ?, notes = ?, decline_reason = ?, updated_at = ?
		 WHERE id = ?`,
		record.Status, nullString(record.ProposedExpiryDate), record.RenewalPeriodMonths,
		nullString(record.RenewedMoUID), nullString(record.Notes),
		nullString(record.DeclineReason), record.UpdatedAt,
		record.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update renewal: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update renewal: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: renewal %s", mou.ErrNotFound, record.ID)
	}
	return nil
}

// ListByMoU retrieves renewals for an MoU, newest first.
func (r *RenewalRepository) ListByMoU(ctx context.Context, mouID string) ([]*secondary.RenewalRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		renewalSelect+" WHERE mou_id = ? ORDER BY created_at DESC", mouID)
	if err != nil {
		return nil, fmt.Errorf("failed to query renewals: %w", err)
	}
	defer rows.Close()

	var result []*secondary.RenewalRecord
	for rows.Next() {
		record, err := scanRenewal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan renewal: %w", err)
		}
		result = append(result, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate renewals: %w", err)
	}
	return result, nil
}

// OpenExists reports whether the MoU has a renewal in a non-terminal status.
func (r *RenewalRepository) OpenExists(ctx context.Context, mouID string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM renewals
		 WHERE mou_id = ? AND status NOT IN ('completed', 'declined', 'expired')`,
		mouID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check open renewals: %w", err)
	}
	return count > 0, nil
}

const renewalSelect = `SELECT id, mou_id, status, proposed_expiry_date, renewal_period_months, renewed_mou_id, notes, decline_reason, initiated_by, created_at, updated_at FROM renewals`

func scanRenewal(s scanner) (*secondary.RenewalRecord, error) {
	var (
		record                                               secondary.RenewalRecord
		proposed, renewedID, notes, declineReason, initiator sql.NullString
	)
	err := s.Scan(&record.ID, &record.MoUID, &record.Status, &proposed,
		&record.RenewalPeriodMonths, &renewedID, &notes, &declineReason,
		&initiator, &record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		return nil, err
	}
	record.ProposedExpiryDate = proposed.String
	record.RenewedMoUID = renewedID.String
	record.Notes = notes.String
	record.DeclineReason = declineReason.String
	record.InitiatedBy = initiator.String
	return &record, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// Ensure RenewalRepository implements the interface
var _ secondary.RenewalRepository = (*RenewalRepository)(nil)
