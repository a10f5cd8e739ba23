package queue

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

// Task is one creation request against the external task-queue service. Name
// is the deterministic task identity; the service rejects a second creation
// under the same name, which is what makes dispatch idempotent.
type Task struct {
	Name      string          `json:"name"`
	TargetURL string          `json:"target_url"`
	Payload   json.RawMessage `json:"payload"`
}

// CreateResult is the tagged outcome of a task creation. Callers resolve it
// by exhaustive matching instead of inspecting error codes.
type CreateResult string

const (
	ResultCreated       CreateResult = "created"
	ResultAlreadyExists CreateResult = "already_exists"
)

// ErrUnavailable marks transient queue failures. Safe to surface as a 5xx so
// the platform redelivers.
var ErrUnavailable = fmt.Errorf("task queue unavailable")

type Client interface {
	CreateTask(ctx context.Context, task Task) (CreateResult, error)
}

type httpClient struct {
	baseURL   string
	queueName string
	authToken string
	http      *http.Client
}

// NewHTTPClient builds a queue client speaking the tasks service's REST API.
// httpc may be nil, in which case http.DefaultClient is used; callers bound
// request lifetimes through ctx.
func NewHTTPClient(baseURL, queueName, authToken string, httpc *http.Client) Client {
	if httpc == nil {
		httpc = http.DefaultClient
	}
	return &httpClient{
		baseURL:   baseURL,
		queueName: queueName,
		authToken: authToken,
		http:      httpc,
	}
}

func (c *httpClient) CreateTask(ctx context.Context, task Task) (CreateResult, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{Component: "ingress.queue.client"})

	body, err := json.Marshal(task)
	if err != nil {
		return "", fmt.Errorf("marshal task: %w", err)
	}

	url := fmt.Sprintf("%s/v1/queues/%s/tasks", c.baseURL, c.queueName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build task request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusConflict:
		// Duplicate name: the task was created by an earlier delivery.
		return ResultAlreadyExists, nil
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		slog.DebugContext(ctx, "task created", "task_name", task.Name, "queue", c.queueName)
		return ResultCreated, nil
	default:
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("%w: queue returned %d: %s", ErrUnavailable, resp.StatusCode, logger.Truncate(string(detail), 200))
	}
}
