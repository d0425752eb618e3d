package storage

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/timeblock/timeblock/internal/model"
)

// AddTimeLog appends a time log entry to a task the owner controls.
func (s *Store) AddTimeLog(owner, taskID string, duration int, note string) (model.TimeLog, error) {
	if err := s.checkTaskOwner(owner, taskID); err != nil {
		return model.TimeLog{}, err
	}
	if duration < 0 {
		return model.TimeLog{}, fmt.Errorf("duration must not be negative")
	}

	entry := model.TimeLog{
		ID:        uuid.NewString(),
		TaskID:    taskID,
		Duration:  duration,
		Note:      note,
		CreatedAt: time.Now().UTC(),
	}
	_, err := s.db.Exec(`
		INSERT INTO time_logs (id, task_id, duration, note, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		entry.ID, entry.TaskID, entry.Duration, entry.Note, entry.CreatedAt)
	if err != nil {
		return model.TimeLog{}, fmt.Errorf("failed to insert time log: %w", err)
	}
	return entry, nil
}

// ListTimeLogs returns the time logs for a task in insertion order.
// Presentation ordering (newest first) is the caller's concern.
func (s *Store) ListTimeLogs(owner, taskID string) ([]model.TimeLog, error) {
	if err := s.checkTaskOwner(owner, taskID); err != nil {
		return nil, err
	}
	rows, err := s.db.Query(`
		SELECT id, task_id, duration, note, created_at FROM time_logs WHERE task_id = ?`, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to query time logs: %w", err)
	}
	defer rows.Close()

	logs := []model.TimeLog{}
	for rows.Next() {
		var l model.TimeLog
		if err := rows.Scan(&l.ID, &l.TaskID, &l.Duration, &l.Note, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan time log: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

// UpdateTimeLogNote replaces the note on a time log entry.
func (s *Store) UpdateTimeLogNote(owner, taskID, logID, note string) error {
	if err := s.checkTaskOwner(owner, taskID); err != nil {
		return err
	}
	res, err := s.db.Exec(`UPDATE time_logs SET note = ? WHERE id = ? AND task_id = ?`, note, logID, taskID)
	if err != nil {
		return fmt.Errorf("failed to update note: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteTimeLog removes a single time log entry.
func (s *Store) DeleteTimeLog(owner, taskID, logID string) error {
	if err := s.checkTaskOwner(owner, taskID); err != nil {
		return err
	}
	res, err := s.db.Exec(`DELETE FROM time_logs WHERE id = ? AND task_id = ?`, logID, taskID)
	if err != nil {
		return fmt.Errorf("failed to delete time log: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
