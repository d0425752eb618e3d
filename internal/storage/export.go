package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/timeblock/timeblock/internal/model"
)

// TaskExport bundles a task with its time logs for export.
type TaskExport struct {
	model.Task
	TimeLogs []model.TimeLog `json:"time_logs,omitempty"`
}

// Snapshot is a full dump of one owner's data.
type Snapshot struct {
	ExportedAt time.Time        `json:"exported_at"`
	Tasks      []TaskExport     `json:"tasks"`
	Categories []model.Category `json:"categories"`
	Todos      []model.TodoItem `json:"todos"`
}

// DataCounts summarizes how much data an owner has stored.
type DataCounts struct {
	Tasks      int `json:"tasks"`
	Categories int `json:"categories"`
	TimeLogs   int `json:"time_logs"`
	Todos      int `json:"todos"`
}

// Export dumps all of an owner's data into a snapshot.
func (s *Store) Export(owner string) (Snapshot, error) {
	snap := Snapshot{ExportedAt: time.Now().UTC()}

	tasks, err := s.ListTasks(owner)
	if err != nil {
		return snap, err
	}
	for _, t := range tasks {
		logs, err := s.ListTimeLogs(owner, t.ID)
		if err != nil {
			return snap, err
		}
		snap.Tasks = append(snap.Tasks, TaskExport{Task: t, TimeLogs: logs})
	}

	if snap.Categories, err = s.ListCategories(owner); err != nil {
		return snap, err
	}
	if snap.Todos, err = s.ListTodos(owner); err != nil {
		return snap, err
	}
	return snap, nil
}

// Import replaces all of an owner's data with the snapshot contents.
// Record IDs from the snapshot are preserved when present so exported
// cross-references (task category, log task) stay intact.
func (s *Store) Import(owner string, snap Snapshot) error {
	if err := s.ClearOwnerData(owner); err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, c := range snap.Categories {
		if c.ID == "" {
			c.ID = uuid.NewString()
		}
		if c.TextColor == "" {
			c.TextColor = model.DefaultTextColor
		}
		if _, err := tx.Exec(`
			INSERT INTO categories (id, owner, name, color, text_color) VALUES (?, ?, ?, ?, ?)`,
			c.ID, owner, c.Name, c.Color, c.TextColor); err != nil {
			return fmt.Errorf("failed to import category %q: %w", c.Name, err)
		}
	}

	for _, t := range snap.Tasks {
		if t.ID == "" {
			t.ID = uuid.NewString()
		}
		secondary, err := json.Marshal(nonNil(t.SecondaryCategories))
		if err != nil {
			return fmt.Errorf("failed to encode secondary categories: %w", err)
		}
		if _, err := tx.Exec(`
			INSERT INTO tasks (id, owner, title, start_date, start_time, end_date, end_time, category, secondary, description)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			t.ID, owner, t.Title, t.StartDate, t.StartTime, t.EndDate, t.EndTime, t.Category, string(secondary), t.Description); err != nil {
			return fmt.Errorf("failed to import task %q: %w", t.Title, err)
		}
		for _, l := range t.TimeLogs {
			if l.ID == "" {
				l.ID = uuid.NewString()
			}
			if l.CreatedAt.IsZero() {
				l.CreatedAt = time.Now().UTC()
			}
			if _, err := tx.Exec(`
				INSERT INTO time_logs (id, task_id, duration, note, created_at) VALUES (?, ?, ?, ?, ?)`,
				l.ID, t.ID, l.Duration, l.Note, l.CreatedAt); err != nil {
				return fmt.Errorf("failed to import time log: %w", err)
			}
		}
	}

	for i, item := range snap.Todos {
		if item.ID == "" {
			item.ID = uuid.NewString()
		}
		if item.CreatedAt.IsZero() {
			item.CreatedAt = time.Now().UTC()
		}
		if _, err := tx.Exec(`
			INSERT INTO todos (id, owner, text, completed, start_date, end_date, position, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			item.ID, owner, item.Text, item.Completed, item.StartDate, item.EndDate, i, item.CreatedAt); err != nil {
			return fmt.Errorf("failed to import todo: %w", err)
		}
	}

	return tx.Commit()
}

// ClearOwnerData deletes everything the owner has stored. Destructive and
// irreversible.
func (s *Store) ClearOwnerData(owner string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Time logs go with their tasks via the cascade.
	for _, stmt := range []string{
		`DELETE FROM tasks WHERE owner = ?`,
		`DELETE FROM categories WHERE owner = ?`,
		`DELETE FROM todos WHERE owner = ?`,
	} {
		if _, err := tx.Exec(stmt, owner); err != nil {
			return fmt.Errorf("failed to clear data: %w", err)
		}
	}
	return tx.Commit()
}

// Counts reports how many records the owner has.
func (s *Store) Counts(owner string) (DataCounts, error) {
	var c DataCounts
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM tasks WHERE owner = ?`, owner).Scan(&c.Tasks); err != nil {
		return c, err
	}
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM categories WHERE owner = ?`, owner).Scan(&c.Categories); err != nil {
		return c, err
	}
	if err := s.db.QueryRow(`
		SELECT COUNT(*) FROM time_logs WHERE task_id IN (SELECT id FROM tasks WHERE owner = ?)`, owner).Scan(&c.TimeLogs); err != nil {
		return c, err
	}
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM todos WHERE owner = ?`, owner).Scan(&c.Todos); err != nil {
		return c, err
	}
	return c, nil
}
