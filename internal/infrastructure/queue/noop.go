package queue

import (
	"context"

	"github.com/vu-quang-duy/Vietsignschool-BE-sub000/internal/application/ports"
)

// NoopEnqueuer is a no-op enqueuer when Redis/Asynq is not configured.
type NoopEnqueuer struct{}

func NewNoopEnqueuer() *NoopEnqueuer {
	return &NoopEnqueuer{}
}

func (q *NoopEnqueuer) EnqueueRoleChanged(ctx context.Context, userID, orgID, role, event string) error {
	return nil
}

func (q *NoopEnqueuer) EnqueueOverrideChanged(ctx context.Context, userID, code string, granted bool) error {
	return nil
}

var _ ports.TaskEnqueuer = (*NoopEnqueuer)(nil)
