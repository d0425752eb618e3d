package session

import (
	"strings"

	"github.com/timeblock/timeblock/internal/model"
)

// LoadTodos reloads the TO-DO list. A load failure leaves an empty list
// silently; the list view degrades rather than alarming the user.
func (s *Session) LoadTodos() error {
	todos, err := s.backend.ListTodos()
	if err != nil {
		s.mu.Lock()
		s.todos = nil
		s.mu.Unlock()
		return err
	}
	s.mu.Lock()
	s.todos = todos
	s.mu.Unlock()
	return nil
}

// AddTodo inserts a new item at the head of the list (newest first).
// Empty trimmed text aborts locally with no backend call.
func (s *Session) AddTodo(text, startDate, endDate string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrValidation
	}

	if _, err := s.backend.SaveTodo(text, startDate, endDate); err != nil {
		s.notify.Notify(LevelError, "Error saving to-do: "+errMessage(err))
		return err
	}
	if err := s.LoadTodos(); err != nil {
		return err
	}
	s.notify.Notify(LevelSuccess, "To-do added")
	return nil
}

// ToggleTodo persists the completed flag and reloads the list.
func (s *Session) ToggleTodo(id string, completed bool) error {
	if err := s.backend.UpdateTodo(id, model.TodoUpdate{Completed: &completed}); err != nil {
		s.notify.Notify(LevelError, "Error updating to-do: "+errMessage(err))
		return err
	}
	return s.LoadTodos()
}

// DeleteTodo removes an item after the confirmation gate.
func (s *Session) DeleteTodo(id string) error {
	if !s.confirmed("Delete this to-do?") {
		return nil
	}
	if err := s.backend.DeleteTodo(id); err != nil {
		s.notify.Notify(LevelError, "Error deleting to-do: "+errMessage(err))
		return err
	}
	if err := s.LoadTodos(); err != nil {
		return err
	}
	s.notify.Notify(LevelSuccess, "To-do deleted")
	return nil
}

// ReorderTodos replaces the persisted order wholesale with the order the
// drag list emitted. Ids in storage but absent from orderedIDs are
// dropped; the stored list becomes exactly the submitted order.
func (s *Session) ReorderTodos(orderedIDs []string) error {
	if err := s.backend.ReorderTodos(orderedIDs); err != nil {
		s.notify.Notify(LevelError, "Error reordering to-dos: "+errMessage(err))
		return err
	}
	return s.LoadTodos()
}
