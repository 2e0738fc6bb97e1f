// Package notify bridges orchestrator notification events onto the job queue.
// Events become scheduled jobs; an external dispatcher handles delivery.
package notify

import (
	"context"
	"time"

	"github.com/example/accord/internal/core/mou"
	"github.com/example/accord/internal/ports/secondary"
)

// JobNotifier implements secondary.NotificationHook by enqueuing immediate
// notification jobs through the scheduler.
type JobNotifier struct {
	jobs secondary.JobScheduler
	now  func() time.Time
}

// NewJobNotifier creates a new job-backed notification hook.
func NewJobNotifier(jobs secondary.JobScheduler) *JobNotifier {
	return &JobNotifier{jobs: jobs, now: time.Now}
}

// OnSignificantTransition enqueues a transition notification job.
func (n *JobNotifier) OnSignificantTransition(ctx context.Context, m *mou.MoU, from, to mou.Status) error {
	return n.jobs.Enqueue(ctx, secondary.JobTransitionNotification, map[string]any{
		"mou_id":           m.ID,
		"reference_number": m.ReferenceNumber,
		"title":            m.Title,
		"from":             string(from),
		"to":               string(to),
	}, n.now().UTC())
}

// OnAllDeliverablesCompleted enqueues a completion notification job.
func (n *JobNotifier) OnAllDeliverablesCompleted(ctx context.Context, m *mou.MoU) error {
	return n.jobs.Enqueue(ctx, secondary.JobDeliverablesCompleted, map[string]any{
		"mou_id":           m.ID,
		"reference_number": m.ReferenceNumber,
		"title":            m.Title,
		"deliverables":     len(m.Deliverables),
	}, n.now().UTC())
}

// Ensure JobNotifier implements the interface
var _ secondary.NotificationHook = (*JobNotifier)(nil)
