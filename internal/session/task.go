package session

import (
	"strings"
	"time"

	"github.com/timeblock/timeblock/internal/model"
)

// Refresh reloads the task list from the backend and re-renders the
// calendar. Fails soft: on error the previous in-memory list is kept and a
// non-fatal notification is raised.
func (s *Session) Refresh() error {
	if err := s.refreshTasks(); err != nil {
		return err
	}
	s.render()
	return nil
}

func (s *Session) refreshTasks() error {
	tasks, err := s.backend.ListTasks()
	if err != nil {
		s.notify.Notify(LevelError, "Error loading tasks: "+errMessage(err))
		return err
	}
	s.mu.Lock()
	s.tasks = tasks
	s.mu.Unlock()
	return nil
}

// OpenForCreate opens a fresh draft for the selected range. The draft has
// no identity; the bound timer and the time-log view are reset.
func (s *Session) OpenForCreate(start, end time.Time) {
	startDate, startClock := model.SplitDateTime(start)
	endDate, endClock := model.SplitDateTime(end)

	s.ResetTimer()
	s.mu.Lock()
	s.draft = model.Task{
		StartDate:           startDate,
		StartTime:           startClock,
		EndDate:             endDate,
		EndTime:             endClock,
		SecondaryCategories: []string{},
	}
	s.logs = nil
	s.mu.Unlock()
}

// OpenForEdit clones an existing task into the draft, resets the timer,
// and reloads the time-log list for that task.
func (s *Session) OpenForEdit(t model.Task) {
	s.ResetTimer()
	s.mu.Lock()
	s.draft = t.Clone()
	s.logs = nil
	s.mu.Unlock()

	if t.ID != "" {
		s.reloadLogs(t.ID)
	}
}

// ApplyExternalMove merges a drag/resize interval from the calendar into
// the stored task and persists it silently; the gesture itself was the
// user's confirmation.
func (s *Session) ApplyExternalMove(taskID string, newStart, newEnd time.Time) error {
	s.mu.Lock()
	var moved *model.Task
	for i := range s.tasks {
		if s.tasks[i].ID == taskID {
			t := s.tasks[i].Clone()
			moved = &t
			break
		}
	}
	if moved == nil {
		s.mu.Unlock()
		return nil
	}
	moved.StartDate, moved.StartTime = model.SplitDateTime(newStart)
	moved.EndDate, moved.EndTime = model.SplitDateTime(newEnd)
	s.draft = moved.Clone()
	s.mu.Unlock()

	return s.SaveDraft(true)
}

// SaveDraft persists the open draft: create when it has no identity,
// update otherwise. On a successful create the backend-assigned identity
// is adopted. The list is refreshed and the calendar re-rendered either
// way; the success notification is suppressed when silent.
func (s *Session) SaveDraft(silent bool) error {
	s.mu.Lock()
	draft := s.draft.Clone()
	s.mu.Unlock()

	if strings.TrimSpace(draft.Title) == "" ||
		draft.StartDate == "" || draft.StartTime == "" ||
		draft.EndDate == "" || draft.EndTime == "" {
		return ErrValidation
	}

	id, err := s.backend.SaveTask(draft)
	if err != nil {
		s.notify.Notify(LevelError, "Error saving task: "+errMessage(err))
		return err
	}

	s.mu.Lock()
	if s.draft.ID == "" {
		s.draft.ID = id
	}
	s.mu.Unlock()

	if err := s.refreshTasks(); err == nil {
		s.render()
	}

	if !silent {
		s.notify.Notify(LevelSuccess, "Task saved")
	}
	return nil
}

// DeleteDraft deletes the open task after the confirmation gate. The
// backend cascades the task's time logs. A draft with no identity is a
// no-op.
func (s *Session) DeleteDraft() error {
	s.mu.Lock()
	id := s.draft.ID
	s.mu.Unlock()
	if id == "" {
		return nil
	}
	if !s.confirmed("Delete this task and all its time logs?") {
		return nil
	}

	if err := s.backend.DeleteTask(id); err != nil {
		s.notify.Notify(LevelError, "Error deleting task: "+errMessage(err))
		return err
	}

	s.ResetTimer()
	s.mu.Lock()
	s.draft = emptyDraft()
	s.logs = nil
	s.mu.Unlock()

	if err := s.refreshTasks(); err == nil {
		s.render()
	}
	s.notify.Notify(LevelSuccess, "Task deleted")
	return nil
}
