package storage

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/timeblock/timeblock/internal/model"
)

// SaveCategory creates a new category for owner. Names are unique per
// owner; a missing text color falls back to the default.
func (s *Store) SaveCategory(owner string, c model.Category) (string, error) {
	if c.TextColor == "" {
		c.TextColor = model.DefaultTextColor
	}
	c.ID = uuid.NewString()
	_, err := s.db.Exec(`
		INSERT INTO categories (id, owner, name, color, text_color)
		VALUES (?, ?, ?, ?, ?)`,
		c.ID, owner, c.Name, c.Color, c.TextColor)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return "", ErrDuplicateName
		}
		return "", fmt.Errorf("failed to insert category: %w", err)
	}
	return c.ID, nil
}

// UpdateCategory updates name and colors of an existing category after
// verifying ownership.
func (s *Store) UpdateCategory(owner string, c model.Category) error {
	if err := s.checkCategoryOwner(owner, c.ID); err != nil {
		return err
	}
	_, err := s.db.Exec(`
		UPDATE categories SET name = ?, color = ?, text_color = ? WHERE id = ?`,
		c.Name, c.Color, c.TextColor, c.ID)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return ErrDuplicateName
		}
		return fmt.Errorf("failed to update category: %w", err)
	}
	return nil
}

// DeleteCategory removes a category. Tasks referencing it keep their
// dangling reference and render with the default color pair.
func (s *Store) DeleteCategory(owner, id string) error {
	if err := s.checkCategoryOwner(owner, id); err != nil {
		return err
	}
	if _, err := s.db.Exec(`DELETE FROM categories WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return nil
}

// ListCategories returns all categories belonging to owner.
func (s *Store) ListCategories(owner string) ([]model.Category, error) {
	rows, err := s.db.Query(`
		SELECT id, name, color, text_color FROM categories WHERE owner = ? ORDER BY name`, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	cats := []model.Category{}
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Color, &c.TextColor); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

// SeedDefaultCategories creates the configured default categories for an
// owner that has none yet. Safe to call on every startup.
func (s *Store) SeedDefaultCategories(owner string, defaults []model.Category) error {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM categories WHERE owner = ?`, owner).Scan(&count); err != nil {
		return fmt.Errorf("failed to count categories: %w", err)
	}
	if count > 0 || len(defaults) == 0 {
		return nil
	}
	for _, c := range defaults {
		if _, err := s.SaveCategory(owner, c); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) checkCategoryOwner(owner, id string) error {
	var actual string
	err := s.db.QueryRow(`SELECT owner FROM categories WHERE id = ?`, id).Scan(&actual)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to check category owner: %w", err)
	}
	if actual != owner {
		return ErrNotOwner
	}
	return nil
}
