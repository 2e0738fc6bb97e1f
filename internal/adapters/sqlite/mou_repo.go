// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/example/accord/internal/core/mou"
	"github.com/example/accord/internal/ports/secondary"
)

// maxRefRetries bounds reference-number regeneration on unique-constraint
// collisions between concurrent creators.
const maxRefRetries = 3

// MoURepository implements secondary.MoURepository with SQLite.
// The aggregate is stored as one row: queryable fields as columns, the full
// JSON document in the document column.
type MoURepository struct {
	db *sql.DB
}

// NewMoURepository creates a new SQLite MoU repository.
func NewMoURepository(db *sql.DB) *MoURepository {
	return &MoURepository{db: db}
}

// Create persists a new MoU.
// The record must have ID, ReferenceNumber and Status pre-populated by the
// service layer. On a reference-number collision the sequence is recounted
// and the number regenerated, a bounded number of times.
func (r *MoURepository) Create(ctx context.Context, m *mou.MoU) error {
	if m.ID == "" {
		return fmt.Errorf("MoU ID must be pre-populated by service layer")
	}
	if m.ReferenceNumber == "" {
		return fmt.Errorf("MoU ReferenceNumber must be pre-populated by service layer")
	}

	m.Version = 1
	for attempt := 0; ; attempt++ {
		err := r.insert(ctx, m)
		if err == nil {
			return nil
		}
		if !isRefNumberCollision(err) || attempt >= maxRefRetries {
			return fmt.Errorf("failed to create MoU: %w", err)
		}
		count, countErr := r.CountCreatedInYear(ctx, m.CreatedAt.Year())
		if countErr != nil {
			return fmt.Errorf("failed to regenerate reference number: %w", countErr)
		}
		m.ReferenceNumber = mou.GenerateReferenceNumber(m.Type, m.CreatedAt.Year(), count+1)
	}
}

func (r *MoURepository) insert(ctx context.Context, m *mou.MoU) error {
	doc, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal MoU document: %w", err)
	}

	var expiry sql.NullTime
	if m.ExpiryDate != nil {
		expiry = sql.NullTime{Time: m.ExpiryDate.UTC(), Valid: true}
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO mous (id, reference_number, title, type, status, expiry_date, document, created_by, created_at, updated_at, version)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.ReferenceNumber, m.Title, m.Type, m.Status, expiry, string(doc),
		m.CreatedBy, m.CreatedAt.UTC(), m.UpdatedAt.UTC(), m.Version,
	)
	return err
}

// isRefNumberCollision reports whether err is a unique-constraint violation
// on the reference_number column.
func isRefNumberCollision(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique &&
		strings.Contains(err.Error(), "reference_number")
}

// GetByID retrieves an MoU by its ID.
func (r *MoURepository) GetByID(ctx context.Context, id string) (*mou.MoU, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT document, version FROM mous WHERE id = ?", id)

	m, err := scanMoU(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: MoU %s", mou.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get MoU: %w", err)
	}
	return m, nil
}

// Save writes the whole aggregate back, guarded by the version counter.
// A stale version surfaces as mou.ErrConflict; Version is bumped on success.
func (r *MoURepository) Save(ctx context.Context, m *mou.MoU) error {
	next := *m
	next.Version = m.Version + 1

	doc, err := json.Marshal(&next)
	if err != nil {
		return fmt.Errorf("failed to marshal MoU document: %w", err)
	}

	var expiry sql.NullTime
	if next.ExpiryDate != nil {
		expiry = sql.NullTime{Time: next.ExpiryDate.UTC(), Valid: true}
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE mous
		 SET reference_number = ?, title = ?, type = ?, status = ?, expiry_date = ?,
		     document = ?, updated_at = ?, version = ?
		 WHERE id = ? AND version = ?`,
		next.ReferenceNumber, next.Title, next.Type, next.Status, expiry,
		string(doc), next.UpdatedAt.UTC(), next.Version,
		m.ID, m.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to save MoU: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to save MoU: %w", err)
	}
	if affected == 0 {
		var exists int
		if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM mous WHERE id = ?", m.ID).Scan(&exists); err != nil {
			return fmt.Errorf("failed to save MoU: %w", err)
		}
		if exists == 0 {
			return fmt.Errorf("%w: MoU %s", mou.ErrNotFound, m.ID)
		}
		return fmt.Errorf("%w: MoU %s version %d is stale", mou.ErrConflict, m.ID, m.Version)
	}

	m.Version = next.Version
	return nil
}

// List retrieves MoUs matching the given filters.
func (r *MoURepository) List(ctx context.Context, filters secondary.MoUFilters) ([]*mou.MoU, error) {
	query := "SELECT document, version FROM mous"
	args := []any{}
	conditions := []string{}

	if filters.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, filters.Status)
	}
	if filters.Type != "" {
		conditions = append(conditions, "type = ?")
		args = append(args, filters.Type)
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY created_at DESC"

	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	return r.queryMoUs(ctx, query, args...)
}

// ListExpiring retrieves active or signed MoUs whose expiry date falls in
// [from, until], soonest first.
func (r *MoURepository) ListExpiring(ctx context.Context, from, until time.Time) ([]*mou.MoU, error) {
	return r.queryMoUs(ctx,
		`SELECT document, version FROM mous
		 WHERE status IN ('active', 'signed')
		   AND expiry_date IS NOT NULL
		   AND expiry_date >= ? AND expiry_date <= ?
		 ORDER BY expiry_date ASC`,
		from.UTC(), until.UTC(),
	)
}

// CountCreatedInYear returns how many MoUs were created in the given year.
func (r *MoURepository) CountCreatedInYear(ctx context.Context, year int) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM mous WHERE strftime('%Y', created_at) = ?",
		fmt.Sprintf("%04d", year),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count MoUs: %w", err)
	}
	return count, nil
}

func (r *MoURepository) queryMoUs(ctx context.Context, query string, args ...any) ([]*mou.MoU, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query MoUs: %w", err)
	}
	defer rows.Close()

	var result []*mou.MoU
	for rows.Next() {
		m, err := scanMoU(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan MoU: %w", err)
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate MoUs: %w", err)
	}
	return result, nil
}

// scanner covers *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanMoU unmarshals the document column. The version column is authoritative
// over whatever the document carries.
func scanMoU(s scanner) (*mou.MoU, error) {
	var (
		doc     string
		version int
	)
	if err := s.Scan(&doc, &version); err != nil {
		return nil, err
	}
	var m mou.MoU
	if err := json.Unmarshal([]byte(doc), &m); err != nil {
		return nil, fmt.Errorf("failed to unmarshal MoU document: %w", err)
	}
	m.Version = version
	return &m, nil
}

// Ensure MoURepository implements the interface
var _ secondary.MoURepository = (*MoURepository)(nil)
