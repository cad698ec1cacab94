package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/bytedance/sonic"
	log "github.com/sirupsen/logrus"

	"workboard/internal/model"
)

const maxErrorBody = 4 << 10

// APIError is returned when the task API answers with a non-2xx status.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

// TaskAPI talks to the REST API that owns tasks.
type TaskAPI struct {
	baseURL string
	token   string
	http    *http.Client
}

// New creates a client for the API rooted at baseURL, e.g. http://127.0.0.1:8000/api/.
func New(baseURL, token string, timeout time.Duration) (*TaskAPI, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse task api url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("task api url %q must be absolute", baseURL)
	}
	return &TaskAPI{
		baseURL: u.String(),
		token:   token,
		http:    &http.Client{Timeout: timeout},
	}, nil
}

// ListTasks fetches every task.
func (c *TaskAPI) ListTasks(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	if err := c.do(ctx, http.MethodGet, "tasks/", nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// UpdateTaskStatus patches only the status of a task.
func (c *TaskAPI) UpdateTaskStatus(ctx context.Context, id model.TaskID, status model.Status) error {
	body := map[string]model.Status{"status": status}
	return c.do(ctx, http.MethodPatch, "tasks/"+url.PathEscape(id.String())+"/", body, nil)
}

// CreateTask creates a task from the given fields.
func (c *TaskAPI) CreateTask(ctx context.Context, fields map[string]any) error {
	return c.do(ctx, http.MethodPost, "tasks/", fields, nil)
}

// UpdateTask patches the given fields of a task.
func (c *TaskAPI) UpdateTask(ctx context.Context, id model.TaskID, fields map[string]any) error {
	return c.do(ctx, http.MethodPatch, "tasks/"+url.PathEscape(id.String())+"/", fields, nil)
}

// DeleteTask removes a task.
func (c *TaskAPI) DeleteTask(ctx context.Context, id model.TaskID) error {
	return c.do(ctx, http.MethodDelete, "tasks/"+url.PathEscape(id.String())+"/", nil, nil)
}

func (c *TaskAPI) do(ctx context.Context, method, path string, body, out any) error {
	endpoint, err := url.JoinPath(c.baseURL, path)
	if err != nil {
		return fmt.Errorf("build url: %w", err)
	}

	var reader io.Reader
	if body != nil {
		payload, err := sonic.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	log.WithFields(log.Fields{
		"method":   method,
		"path":     path,
		"status":   resp.StatusCode,
		"duration": time.Since(start),
	}).Debug("task api call")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{Method: method, Path: path, StatusCode: resp.StatusCode, Body: string(bytes.TrimSpace(msg))}
	}
	if out == nil {
		return nil
	}
	if err := sonic.ConfigStd.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}
