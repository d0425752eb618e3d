package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/timeblock/timeblock/internal/model"
)

// SaveTask creates the task when it has no ID, otherwise updates it after
// verifying ownership. Returns the (possibly newly assigned) task ID.
func (s *Store) SaveTask(owner string, t model.Task) (string, error) {
	secondary, err := json.Marshal(nonNil(t.SecondaryCategories))
	if err != nil {
		return "", fmt.Errorf("failed to encode secondary categories: %w", err)
	}

	if t.ID == "" {
		t.ID = uuid.NewString()
		_, err := s.db.Exec(`
			INSERT INTO tasks (id, owner, title, start_date, start_time, end_date, end_time, category, secondary, description)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			t.ID, owner, t.Title, t.StartDate, t.StartTime, t.EndDate, t.EndTime, t.Category, string(secondary), t.Description)
		if err != nil {
			return "", fmt.Errorf("failed to insert task: %w", err)
		}
		return t.ID, nil
	}

	if err := s.checkTaskOwner(owner, t.ID); err != nil {
		return "", err
	}
	_, err = s.db.Exec(`
		UPDATE tasks SET title = ?, start_date = ?, start_time = ?, end_date = ?, end_time = ?, category = ?, secondary = ?, description = ?
		WHERE id = ?`,
		t.Title, t.StartDate, t.StartTime, t.EndDate, t.EndTime, t.Category, string(secondary), t.Description, t.ID)
	if err != nil {
		return "", fmt.Errorf("failed to update task: %w", err)
	}
	return t.ID, nil
}

// ListTasks returns all tasks belonging to owner.
func (s *Store) ListTasks(owner string) ([]model.Task, error) {
	rows, err := s.db.Query(`
		SELECT id, title, start_date, start_time, end_date, end_time, category, secondary, description
		FROM tasks WHERE owner = ? ORDER BY created_at`, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		var t model.Task
		var secondary string
		if err := rows.Scan(&t.ID, &t.Title, &t.StartDate, &t.StartTime, &t.EndDate, &t.EndTime, &t.Category, &secondary, &t.Description); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		if err := json.Unmarshal([]byte(secondary), &t.SecondaryCategories); err != nil {
			t.SecondaryCategories = nil
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// GetTask returns a single task after verifying ownership.
func (s *Store) GetTask(owner, id string) (model.Task, error) {
	var t model.Task
	var secondary string
	err := s.db.QueryRow(`
		SELECT id, title, start_date, start_time, end_date, end_time, category, secondary, description
		FROM tasks WHERE id = ? AND owner = ?`, id, owner).
		Scan(&t.ID, &t.Title, &t.StartDate, &t.StartTime, &t.EndDate, &t.EndTime, &t.Category, &secondary, &t.Description)
	if err == sql.ErrNoRows {
		// Distinguish missing from foreign-owned for the caller.
		if ownErr := s.checkTaskOwner(owner, id); ownErr != nil {
			return model.Task{}, ownErr
		}
		return model.Task{}, ErrNotFound
	}
	if err != nil {
		return model.Task{}, fmt.Errorf("failed to load task: %w", err)
	}
	if err := json.Unmarshal([]byte(secondary), &t.SecondaryCategories); err != nil {
		t.SecondaryCategories = nil
	}
	return t, nil
}

// DeleteTask removes a task and, via the foreign key cascade, all of its
// time logs.
func (s *Store) DeleteTask(owner, id string) error {
	if err := s.checkTaskOwner(owner, id); err != nil {
		return err
	}
	if _, err := s.db.Exec(`DELETE FROM tasks WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

func (s *Store) checkTaskOwner(owner, id string) error {
	var actual string
	err := s.db.QueryRow(`SELECT owner FROM tasks WHERE id = ?`, id).Scan(&actual)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to check task owner: %w", err)
	}
	if actual != owner {
		return ErrNotOwner
	}
	return nil
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
