// Package client is an HTTP implementation of the editor session's
// backend interface against the timeblock API.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/timeblock/timeblock/internal/model"
	"github.com/timeblock/timeblock/internal/session"
	"github.com/timeblock/timeblock/internal/storage"
)

// Client talks to a timeblock server on behalf of one user.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// New creates a client. baseURL should be like "http://localhost:8099";
// token is the user's API token, sent as a bearer token on every request.
func New(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

var _ session.Backend = (*Client)(nil)

// envelope is the server's uniform response shape.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

// do issues a request and decodes the envelope, mapping failures onto the
// session error taxonomy.
func (c *Client) do(method, path string, body any, out any) error {
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		r = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, r)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &session.TransportError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &session.TransportError{Err: err}
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return &session.TransportError{Err: fmt.Errorf("bad response [%s]: %w", resp.Status, err)}
	}

	if !env.Success {
		var message string
		_ = json.Unmarshal(env.Data, &message)
		switch resp.StatusCode {
		case http.StatusUnauthorized:
			return session.ErrNotAuthenticated
		case http.StatusForbidden:
			return fmt.Errorf("%w: %s", session.ErrNotOwner, message)
		default:
			if message == "" {
				message = "request failed with " + resp.Status
			}
			return &session.BackendError{Message: message}
		}
	}

	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return &session.TransportError{Err: fmt.Errorf("bad response payload: %w", err)}
		}
	}
	return nil
}

// --- Tasks ---

func (c *Client) ListTasks() ([]model.Task, error) {
	var tasks []model.Task
	if err := c.do(http.MethodGet, "/api/tasks", nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (c *Client) SaveTask(t model.Task) (string, error) {
	var result struct {
		TaskID string `json:"task_id"`
	}
	if err := c.do(http.MethodPost, "/api/tasks", t, &result); err != nil {
		return "", err
	}
	return result.TaskID, nil
}

func (c *Client) DeleteTask(id string) error {
	return c.do(http.MethodDelete, "/api/tasks/"+id, nil, nil)
}

// --- Categories ---

func (c *Client) ListCategories() ([]model.Category, error) {
	var cats []model.Category
	if err := c.do(http.MethodGet, "/api/categories", nil, &cats); err != nil {
		return nil, err
	}
	return cats, nil
}

func (c *Client) SaveCategory(cat model.Category) (string, error) {
	var result struct {
		CategoryID string `json:"category_id"`
	}
	if err := c.do(http.MethodPost, "/api/categories", cat, &result); err != nil {
		return "", err
	}
	return result.CategoryID, nil
}

func (c *Client) UpdateCategory(cat model.Category) error {
	return c.do(http.MethodPut, "/api/categories/"+cat.ID, cat, nil)
}

func (c *Client) DeleteCategory(id string) error {
	return c.do(http.MethodDelete, "/api/categories/"+id, nil, nil)
}

// --- Time logs ---

func (c *Client) ListTimeLogs(taskID string) ([]model.TimeLog, error) {
	var logs []model.TimeLog
	if err := c.do(http.MethodGet, "/api/tasks/"+taskID+"/logs", nil, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

func (c *Client) SaveTimeLog(taskID string, duration int, note string) (string, error) {
	var result struct {
		Log model.TimeLog `json:"log"`
	}
	body := map[string]any{"duration": duration, "note": note}
	if err := c.do(http.MethodPost, "/api/tasks/"+taskID+"/logs", body, &result); err != nil {
		return "", err
	}
	return result.Log.ID, nil
}

func (c *Client) UpdateTimeLogNote(taskID, logID, note string) error {
	body := map[string]any{"note": note}
	return c.do(http.MethodPut, "/api/tasks/"+taskID+"/logs/"+logID, body, nil)
}

func (c *Client) DeleteTimeLog(taskID, logID string) error {
	return c.do(http.MethodDelete, "/api/tasks/"+taskID+"/logs/"+logID, nil, nil)
}

// --- Todos ---

func (c *Client) ListTodos() ([]model.TodoItem, error) {
	var todos []model.TodoItem
	if err := c.do(http.MethodGet, "/api/todos", nil, &todos); err != nil {
		return nil, err
	}
	return todos, nil
}

func (c *Client) SaveTodo(text, startDate, endDate string) (model.TodoItem, error) {
	var result struct {
		Todo model.TodoItem `json:"todo"`
	}
	body := map[string]any{"text": text, "start_date": startDate, "end_date": endDate}
	if err := c.do(http.MethodPost, "/api/todos", body, &result); err != nil {
		return model.TodoItem{}, err
	}
	return result.Todo, nil
}

func (c *Client) UpdateTodo(id string, upd model.TodoUpdate) error {
	return c.do(http.MethodPut, "/api/todos/"+id, upd, nil)
}

func (c *Client) DeleteTodo(id string) error {
	return c.do(http.MethodDelete, "/api/todos/"+id, nil, nil)
}

func (c *Client) ReorderTodos(ids []string) error {
	body := map[string]any{"ids": ids}
	return c.do(http.MethodPost, "/api/todos/reorder", body, nil)
}

// --- Data management ---

// Export downloads the full data snapshot for the authenticated user.
func (c *Client) Export() (storage.Snapshot, error) {
	var snap storage.Snapshot
	if err := c.do(http.MethodGet, "/api/export", nil, &snap); err != nil {
		return storage.Snapshot{}, err
	}
	return snap, nil
}

// Import replaces the authenticated user's data with the snapshot.
func (c *Client) Import(snap storage.Snapshot) error {
	return c.do(http.MethodPost, "/api/import", snap, nil)
}
