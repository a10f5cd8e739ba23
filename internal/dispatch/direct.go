package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"paperdesk.app/ingress/common/logger"
)

type directDispatcher struct {
	workerBaseURL string
	authToken     string
	http          *http.Client
}

// NewDirect builds the direct-mode dispatcher for environments without a
// queue: it calls the worker synchronously and returns an identity of the
// same shape as queued mode. Idempotence then rests on the worker.
func NewDirect(workerBaseURL, authToken string, httpc *http.Client) Dispatcher {
	if httpc == nil {
		httpc = http.DefaultClient
	}
	return &directDispatcher{
		workerBaseURL: workerBaseURL,
		authToken:     authToken,
		http:          httpc,
	}
}

func (d *directDispatcher) Dispatch(ctx context.Context, task TaskRequest) (string, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Component: "ingress.dispatch.direct",
		TaskName:  logger.Ptr(task.Identity),
	})

	body, err := json.Marshal(task.Payload)
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.workerBaseURL+task.SubPath(), bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build worker request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if d.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+d.authToken)
	}

	resp, err := d.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrWorkerRejected, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("%w: worker returned %d: %s", ErrWorkerRejected, resp.StatusCode, logger.Truncate(string(detail), 200))
	}

	slog.InfoContext(ctx, "task dispatched directly", "kind", task.Kind)
	return task.Identity, nil
}
