package queue

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/vu-quang-duy/Vietsignschool-BE-sub000/internal/application/ports"
)

const (
	TypeRoleChanged     = "authz:role_changed"
	TypeOverrideChanged = "authz:override_changed"
)

type TaskEnqueuer struct {
	client *asynq.Client
	log    zerolog.Logger
}

func NewAsynqEnqueuer(redisOpt asynq.RedisClientOpt, log zerolog.Logger) (*TaskEnqueuer, error) {
	client := asynq.NewClient(redisOpt)
	return &TaskEnqueuer{client: client, log: log}, nil
}

func (q *TaskEnqueuer) Close() error {
	return q.client.Close()
}

func (q *TaskEnqueuer) EnqueueRoleChanged(ctx context.Context, userID, orgID, role, event string) error {
	payload, _ := json.Marshal(map[string]string{
		"user_id":         userID,
		"organization_id": orgID,
		"role":            role,
		"event":           event,
	})
	task := asynq.NewTask(TypeRoleChanged, payload)
	_, err := q.client.EnqueueContext(ctx, task)
	if err != nil {
		q.log.Warn().Err(err).Str("user_id", userID).Str("event", event).Msg("enqueue role change failed")
		return err
	}
	return nil
}

func (q *TaskEnqueuer) EnqueueOverrideChanged(ctx context.Context, userID, code string, granted bool) error {
	payload, _ := json.Marshal(map[string]interface{}{
		"user_id":         userID,
		"permission_code": code,
		"is_granted":      granted,
	})
	task := asynq.NewTask(TypeOverrideChanged, payload)
	_, err := q.client.EnqueueContext(ctx, task)
	if err != nil {
		q.log.Warn().Err(err).Str("user_id", userID).Str("code", code).Msg("enqueue override change failed")
		return err
	}
	return nil
}

var _ ports.TaskEnqueuer = (*TaskEnqueuer)(nil)
