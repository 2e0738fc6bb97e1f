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

// JobQueue implements secondary.JobScheduler with a SQLite-backed jobs table.
// Rows stay queued until an external dispatcher drains them.
type JobQueue struct {
	db *sql.DB
}

// NewJobQueue creates a new SQLite job queue.
func NewJobQueue(db *sql.DB) *JobQueue {
	return &JobQueue{db: db}
}

// Enqueue schedules a job for execution at or after runAt.
func (q *JobQueue) Enqueue(ctx context.Context, jobType string, payload map[string]any, runAt time.Time) error {
	var payloadJSON sql.NullString
	if len(payload) > 0 {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal job payload: %w", err)
		}
		payloadJSON = sql.NullString{String: string(raw), Valid: true}
	}

	_, err := q.db.ExecContext(ctx,
		`INSERT INTO jobs (id, job_type, payload, run_at, status, created_at)
		 VALUES (?, ?, ?, ?, 'queued', ?)`,
		uuid.NewString(), jobType, payloadJSON, runAt.UTC(), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to enqueue job: %w", err)
	}
	return nil
}

// Ensure JobQueue implements the interface
var _ secondary.JobScheduler = (*JobQueue)(nil)
