package session

import (
	"strings"

	"github.com/timeblock/timeblock/internal/model"
)

// LoadCategories reloads the category list. Fails soft like Refresh.
func (s *Session) LoadCategories() error {
	cats, err := s.backend.ListCategories()
	if err != nil {
		s.notify.Notify(LevelError, "Error loading categories: "+errMessage(err))
		return err
	}
	s.mu.Lock()
	s.categories = cats
	s.mu.Unlock()
	return nil
}

// CreateCategory persists a new category and reloads the list. Colors are
// opaque hex strings; only an obviously malformed value is rejected
// locally.
func (s *Session) CreateCategory(name, color, textColor string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrValidation
	}
	if color == "" {
		color = model.DefaultColor
	}
	if textColor == "" {
		textColor = model.DefaultTextColor
	}
	if !model.IsHexColor(color) || !model.IsHexColor(textColor) {
		return ErrValidation
	}

	_, err := s.backend.SaveCategory(model.Category{Name: name, Color: color, TextColor: textColor})
	if err != nil {
		s.notify.Notify(LevelError, "Error saving category: "+errMessage(err))
		return err
	}

	if err := s.LoadCategories(); err != nil {
		return err
	}
	s.notify.Notify(LevelSuccess, "Category saved")
	return nil
}

// UpdateCategory edits a category in place, then reloads the list and
// re-renders the calendar so tasks pick up the new colors.
func (s *Session) UpdateCategory(id, name, color, textColor string) error {
	name = strings.TrimSpace(name)
	if id == "" || name == "" {
		return ErrValidation
	}
	if !model.IsHexColor(color) || !model.IsHexColor(textColor) {
		return ErrValidation
	}

	err := s.backend.UpdateCategory(model.Category{ID: id, Name: name, Color: color, TextColor: textColor})
	if err != nil {
		s.notify.Notify(LevelError, "Error updating category: "+errMessage(err))
		return err
	}

	if err := s.LoadCategories(); err != nil {
		return err
	}
	s.render()
	s.notify.Notify(LevelSuccess, "Category updated")
	return nil
}

// DeleteCategory removes a category after the confirmation gate. Tasks
// that referenced it keep the dangling reference and fall back to the
// default color pair on render; deletion is never blocked by references.
func (s *Session) DeleteCategory(id string) error {
	if !s.confirmed("Delete this category? Tasks using it will fall back to the default color.") {
		return nil
	}

	if err := s.backend.DeleteCategory(id); err != nil {
		s.notify.Notify(LevelError, "Error deleting category: "+errMessage(err))
		return err
	}

	if err := s.LoadCategories(); err != nil {
		return err
	}
	s.render()
	s.notify.Notify(LevelSuccess, "Category deleted")
	return nil
}
