package ports

import "context"

// TaskEnqueuer enqueues async tasks (role/permission change webhooks).
// Enqueue failures are logged by implementations and never fail the
// originating request.
type TaskEnqueuer interface {
	EnqueueRoleChanged(ctx context.Context, userID, orgID, role, event string) error
	EnqueueOverrideChanged(ctx context.Context, userID, code string, granted bool) error
}
