package session

import (
	"errors"
	"fmt"

	"github.com/timeblock/timeblock/internal/model"
)

// Backend is the persistence collaborator the session talks to. Both the
// HTTP client and the direct storage view implement it.
type Backend interface {
	ListTasks() ([]model.Task, error)
	SaveTask(t model.Task) (string, error)
	DeleteTask(id string) error

	ListCategories() ([]model.Category, error)
	SaveCategory(c model.Category) (string, error)
	UpdateCategory(c model.Category) error
	DeleteCategory(id string) error

	ListTimeLogs(taskID string) ([]model.TimeLog, error)
	SaveTimeLog(taskID string, duration int, note string) (string, error)
	UpdateTimeLogNote(taskID, logID, note string) error
	DeleteTimeLog(taskID, logID string) error

	ListTodos() ([]model.TodoItem, error)
	SaveTodo(text, startDate, endDate string) (model.TodoItem, error)
	UpdateTodo(id string, upd model.TodoUpdate) error
	DeleteTodo(id string) error
	ReorderTodos(ids []string) error
}

var (
	// ErrNotAuthenticated means the backend rejected the actor outright.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrNotOwner means the actor does not own the record.
	ErrNotOwner = errors.New("not the owner of this record")
	// ErrValidation means a local required-field check failed; no request
	// was issued.
	ErrValidation = errors.New("validation failed")
	// ErrNoOpenTask means the operation needs an open, saved task.
	ErrNoOpenTask = errors.New("no task is open")
)

// TransportError wraps a network-level failure reaching the backend.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport failure: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// BackendError carries a structured rejection message from the backend.
type BackendError struct {
	Message string
}

func (e *BackendError) Error() string { return e.Message }

// errMessage extracts the best available human-readable message for a
// notification.
func errMessage(err error) string {
	var be *BackendError
	if errors.As(err, &be) {
		return be.Message
	}
	return err.Error()
}
