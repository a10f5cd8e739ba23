package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"paperdesk.app/ingress/common/logger"
	"paperdesk.app/ingress/internal/queue"
)

// ErrQueueUnavailable marks a transient failure reaching the task queue.
// The boundary answers 5xx so the platform redelivers; the deterministic
// task identity makes that retry safe.
var ErrQueueUnavailable = errors.New("task queue unavailable")

// ErrWorkerRejected marks a direct-mode worker call that did not succeed.
var ErrWorkerRejected = errors.New("worker rejected task")

// Dispatcher submits exactly one downstream task per logical event. A
// duplicate delivery surfaces as success with the same identity; the caller
// cannot tell the two apart and must not try to.
type Dispatcher interface {
	Dispatch(ctx context.Context, task TaskRequest) (string, error)
}

type queuedDispatcher struct {
	client        queue.Client
	workerBaseURL string
}

// NewQueued builds the queued-mode dispatcher: tasks go through the durable
// task-queue service, named by their deterministic identity.
func NewQueued(client queue.Client, workerBaseURL string) Dispatcher {
	return &queuedDispatcher{
		client:        client,
		workerBaseURL: workerBaseURL,
	}
}

func (d *queuedDispatcher) Dispatch(ctx context.Context, task TaskRequest) (string, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Component: "ingress.dispatch.queued",
		TaskName:  logger.Ptr(task.Identity),
	})

	body, err := json.Marshal(task.Payload)
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}

	result, err := d.client.CreateTask(ctx, queue.Task{
		Name:      task.Identity,
		TargetURL: d.workerBaseURL + task.SubPath(),
		Payload:   body,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrQueueUnavailable, err)
	}

	switch result {
	case queue.ResultCreated:
		slog.InfoContext(ctx, "task enqueued", "kind", task.Kind)
	case queue.ResultAlreadyExists:
		// Redelivered webhook: the work is already queued. Success.
		slog.InfoContext(ctx, "duplicate task suppressed", "kind", task.Kind)
	}

	return task.Identity, nil
}
