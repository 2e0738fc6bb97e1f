package secondary

import (
	"context"
	"time"
)

// JobScheduler defines the secondary port for background-job dispatch.
// The engine only decides what should run and when; execution, retry and
// delivery guarantees belong to the job-queue implementation.
type JobScheduler interface {
	// Enqueue schedules a job of the given type to run at runAt.
	Enqueue(ctx context.Context, jobType string, payload map[string]any, runAt time.Time) error
}

// Job types enqueued by the engine.
const (
	JobAlertDispatch          = "alert.dispatch"
	JobTransitionNotification = "notification.transition"
	JobDeliverablesCompleted  = "notification.deliverables_completed"
)
