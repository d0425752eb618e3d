package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/timeblock/timeblock/internal/model"
)

// AddTodo inserts a new TO-DO item at the head of the owner's list
// (newest first).
func (s *Store) AddTodo(owner, text, startDate, endDate string) (model.TodoItem, error) {
	item := model.TodoItem{
		ID:        uuid.NewString(),
		Text:      text,
		StartDate: startDate,
		EndDate:   endDate,
		CreatedAt: time.Now().UTC(),
	}

	tx, err := s.db.Begin()
	if err != nil {
		return model.TodoItem{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var minPos sql.NullInt64
	if err := tx.QueryRow(`SELECT MIN(position) FROM todos WHERE owner = ?`, owner).Scan(&minPos); err != nil {
		return model.TodoItem{}, fmt.Errorf("failed to find head position: %w", err)
	}
	pos := int64(0)
	if minPos.Valid {
		pos = minPos.Int64 - 1
	}

	_, err = tx.Exec(`
		INSERT INTO todos (id, owner, text, completed, start_date, end_date, position, created_at)
		VALUES (?, ?, ?, 0, ?, ?, ?, ?)`,
		item.ID, owner, item.Text, item.StartDate, item.EndDate, pos, item.CreatedAt)
	if err != nil {
		return model.TodoItem{}, fmt.Errorf("failed to insert todo: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return model.TodoItem{}, fmt.Errorf("failed to commit: %w", err)
	}
	return item, nil
}

// ListTodos returns the owner's TO-DO list in stored order.
func (s *Store) ListTodos(owner string) ([]model.TodoItem, error) {
	rows, err := s.db.Query(`
		SELECT id, text, completed, start_date, end_date, created_at
		FROM todos WHERE owner = ? ORDER BY position`, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to query todos: %w", err)
	}
	defer rows.Close()

	todos := []model.TodoItem{}
	for rows.Next() {
		var t model.TodoItem
		if err := rows.Scan(&t.ID, &t.Text, &t.Completed, &t.StartDate, &t.EndDate, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan todo: %w", err)
		}
		todos = append(todos, t)
	}
	return todos, rows.Err()
}

// UpdateTodo applies a partial update to a TO-DO item.
func (s *Store) UpdateTodo(owner, id string, upd model.TodoUpdate) error {
	if err := s.checkTodoOwner(owner, id); err != nil {
		return err
	}
	if upd.Completed != nil {
		if _, err := s.db.Exec(`UPDATE todos SET completed = ? WHERE id = ?`, *upd.Completed, id); err != nil {
			return fmt.Errorf("failed to update todo: %w", err)
		}
	}
	if upd.Text != nil {
		if _, err := s.db.Exec(`UPDATE todos SET text = ? WHERE id = ?`, *upd.Text, id); err != nil {
			return fmt.Errorf("failed to update todo: %w", err)
		}
	}
	if upd.StartDate != nil {
		if _, err := s.db.Exec(`UPDATE todos SET start_date = ? WHERE id = ?`, *upd.StartDate, id); err != nil {
			return fmt.Errorf("failed to update todo: %w", err)
		}
	}
	if upd.EndDate != nil {
		if _, err := s.db.Exec(`UPDATE todos SET end_date = ? WHERE id = ?`, *upd.EndDate, id); err != nil {
			return fmt.Errorf("failed to update todo: %w", err)
		}
	}
	return nil
}

// DeleteTodo removes a TO-DO item.
func (s *Store) DeleteTodo(owner, id string) error {
	if err := s.checkTodoOwner(owner, id); err != nil {
		return err
	}
	if _, err := s.db.Exec(`DELETE FROM todos WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete todo: %w", err)
	}
	return nil
}

// ReorderTodos replaces the owner's stored order wholesale with the given
// id order. Items missing from ids are dropped, matching the original
// reorder semantics.
func (s *Store) ReorderTodos(owner string, ids []string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	existing := map[string]bool{}
	rows, err := tx.Query(`SELECT id FROM todos WHERE owner = ?`, owner)
	if err != nil {
		return fmt.Errorf("failed to query todos: %w", err)
	}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan todo id: %w", err)
		}
		existing[id] = true
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	kept := map[string]bool{}
	pos := 0
	for _, id := range ids {
		if !existing[id] || kept[id] {
			continue
		}
		if _, err := tx.Exec(`UPDATE todos SET position = ? WHERE id = ?`, pos, id); err != nil {
			return fmt.Errorf("failed to reposition todo: %w", err)
		}
		kept[id] = true
		pos++
	}

	for id := range existing {
		if !kept[id] {
			if _, err := tx.Exec(`DELETE FROM todos WHERE id = ?`, id); err != nil {
				return fmt.Errorf("failed to drop todo: %w", err)
			}
		}
	}

	return tx.Commit()
}

func (s *Store) checkTodoOwner(owner, id string) error {
	var actual string
	err := s.db.QueryRow(`SELECT owner FROM todos WHERE id = ?`, id).Scan(&actual)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to check todo owner: %w", err)
	}
	if actual != owner {
		return ErrNotOwner
	}
	return nil
}
