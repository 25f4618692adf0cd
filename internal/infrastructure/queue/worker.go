package queue

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// roleChangedPayload matches the JSON enqueued by TaskEnqueuer.EnqueueRoleChanged.
type roleChangedPayload struct {
	UserID         string `json:"user_id"`
	OrganizationID string `json:"organization_id"`
	Role           string `json:"role"`
	Event          string `json:"event"`
}

// overrideChangedPayload matches the JSON enqueued by TaskEnqueuer.EnqueueOverrideChanged.
type overrideChangedPayload struct {
	UserID         string `json:"user_id"`
	PermissionCode string `json:"permission_code"`
	IsGranted      bool   `json:"is_granted"`
}

// Worker runs Asynq task handlers for role/permission change events.
type Worker struct {
	srv *asynq.Server
	mux *asynq.ServeMux
	log zerolog.Logger
}

// NewWorker creates an Asynq server and registers handlers. Call Run() to start.
func NewWorker(redisOpt asynq.RedisClientOpt, log zerolog.Logger) *Worker {
	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 2,
		LogLevel:    asynq.InfoLevel,
	})
	mux := asynq.NewServeMux()
	w := &Worker{srv: srv, mux: mux, log: log}
	mux.HandleFunc(TypeRoleChanged, w.handleRoleChanged)
	mux.HandleFunc(TypeOverrideChanged, w.handleOverrideChanged)
	return w
}

func (w *Worker) handleRoleChanged(ctx context.Context, t *asynq.Task) error {
	var p roleChangedPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		w.log.Error().Err(err).Msg("role change task payload invalid")
		return err
	}
	// Dev: log the event; production dispatches to subscribed webhooks.
	w.log.Info().
		Str("user_id", p.UserID).
		Str("organization_id", p.OrganizationID).
		Str("role", p.Role).
		Str("event", p.Event).
		Msg("role change notification")
	return nil
}

func (w *Worker) handleOverrideChanged(ctx context.Context, t *asynq.Task) error {
	var p overrideChangedPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		w.log.Error().Err(err).Msg("override change task payload invalid")
		return err
	}
	w.log.Info().
		Str("user_id", p.UserID).
		Str("permission_code", p.PermissionCode).
		Bool("is_granted", p.IsGranted).
		Msg("permission override notification")
	return nil
}

// Run blocks until shutdown. Use Shutdown for graceful stop.
func (w *Worker) Run() error {
	return w.srv.Run(w.mux)
}

// Shutdown stops the worker.
func (w *Worker) Shutdown() {
	w.srv.Shutdown()
}
