package session

import "sort"

// reloadLogs replaces the time-log list with the backend's logs for the
// task, sorted newest first. The sort is a presentation contract; storage
// order is unspecified.
func (s *Session) reloadLogs(taskID string) {
	logs, err := s.backend.ListTimeLogs(taskID)
	if err != nil {
		s.mu.Lock()
		s.logs = nil
		s.mu.Unlock()
		s.notify.Notify(LevelError, "Error loading time logs: "+errMessage(err))
		return
	}
	sort.SliceStable(logs, func(i, j int) bool {
		return logs[i].CreatedAt.After(logs[j].CreatedAt)
	})
	s.mu.Lock()
	s.logs = logs
	s.mu.Unlock()
}

// ReloadTimeLogs refreshes the log list for the open task. No-op when no
// saved task is open.
func (s *Session) ReloadTimeLogs() {
	s.mu.Lock()
	taskID := s.draft.ID
	s.mu.Unlock()
	if taskID == "" {
		return
	}
	s.reloadLogs(taskID)
}

// UpdateTimeLogNote persists an edited note on a log entry of the open
// task. An unchanged note is a no-op and issues no backend call, so blur
// events that didn't edit anything stay free.
func (s *Session) UpdateTimeLogNote(logID, newNote string) error {
	s.mu.Lock()
	taskID := s.draft.ID
	var current string
	var found bool
	for _, l := range s.logs {
		if l.ID == logID {
			current, found = l.Note, true
			break
		}
	}
	s.mu.Unlock()

	if taskID == "" {
		return nil
	}
	if found && current == newNote {
		return nil
	}

	if err := s.backend.UpdateTimeLogNote(taskID, logID, newNote); err != nil {
		s.notify.Notify(LevelError, "Error updating note: "+errMessage(err))
		return err
	}
	s.reloadLogs(taskID)
	s.notify.Notify(LevelSuccess, "Note updated")
	return nil
}

// DeleteTimeLog removes a log entry of the open task after the
// confirmation gate.
func (s *Session) DeleteTimeLog(logID string) error {
	s.mu.Lock()
	taskID := s.draft.ID
	s.mu.Unlock()
	if taskID == "" {
		return nil
	}
	if !s.confirmed("Delete this time log?") {
		return nil
	}

	if err := s.backend.DeleteTimeLog(taskID, logID); err != nil {
		s.notify.Notify(LevelError, "Error deleting time log: "+errMessage(err))
		return err
	}
	s.reloadLogs(taskID)
	s.notify.Notify(LevelSuccess, "Time log deleted")
	return nil
}
