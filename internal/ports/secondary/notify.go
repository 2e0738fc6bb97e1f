package secondary

import (
	"context"

	"github.com/example/accord/internal/core/mou"
)

// NotificationHook defines the secondary port invoked on orchestrator-level
// events. The engine only calls the hook; delivery (email, chat, whatever)
// lives behind it.
type NotificationHook interface {
	// OnSignificantTransition fires for status changes into
	// signed, active, expired or terminated.
	OnSignificantTransition(ctx context.Context, m *mou.MoU, from, to mou.Status) error

	// OnAllDeliverablesCompleted fires once every deliverable on the MoU
	// has reached completed.
	OnAllDeliverablesCompleted(ctx context.Context, m *mou.MoU) error
}
