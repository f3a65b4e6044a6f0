// Package services implements the business rules of the expense tracker on
// top of the storage layer: uniqueness checks, not-found mapping, replace
// style updates and totals computation.
package services

import (
	"context"
	"fmt"
	"strings"

	"expensetracker/internal/core"
	applog "expensetracker/internal/log"
	"expensetracker/internal/storage"
)

// EventPublisher publishes entity change events. Implementations must treat
// publishing as best effort; services log failures and carry on.
type EventPublisher interface {
	PublishEntityEvent(ctx context.Context, entity, action string, id int64) error
}

// CategoryService enforces category business rules: name uniqueness
// (case-insensitive) and cascade-delete of dependent expenses.
type CategoryService struct {
	storage *storage.Repository
	events  EventPublisher
	logger  *applog.Logger
}

func NewCategoryService(storage *storage.Repository, events EventPublisher, logger *applog.Logger) *CategoryService {
	return &CategoryService{
		storage: storage,
		events:  events,
		logger:  logger.WithComponent(applog.ComponentCategory),
	}
}

// Create persists a new category. It fails with core.ErrDuplicateCategoryName
// when the name collides case-insensitively with an existing one; the unique
// index backs the pre-check against concurrent creates.
func (s *CategoryService) Create(ctx context.Context, name, description string) (core.Category, error) {
	c := core.Category{
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
	}
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}

	exists, err := s.storage.CategoryExistsByName(ctx, c.Name)
	if err != nil {
		return core.Category{}, fmt.Errorf("check category name: %w", err)
	}
	if exists {
		return core.Category{}, core.ErrDuplicateCategoryName
	}

	created, err := s.storage.CreateCategory(ctx, c)
	if err != nil {
		return core.Category{}, err
	}

	s.logger.InfoContext(ctx, "category created", "id", created.ID, "name", created.Name)
	s.publish(ctx, applog.OpCreate, created.ID)
	return created, nil
}

func (s *CategoryService) GetByID(ctx context.Context, id int64) (core.Category, error) {
	return s.storage.GetCategoryByID(ctx, id)
}

// ListAll returns every category ordered by name ascending.
func (s *CategoryService) ListAll(ctx context.Context) ([]core.Category, error) {
	return s.storage.ListCategories(ctx)
}

// ListAllWithExpenseCount returns every category, including those with zero
// expenses, paired with its expense count and ordered by name.
func (s *CategoryService) ListAllWithExpenseCount(ctx context.Context) ([]core.CategoryExpenseCount, error) {
	return s.storage.ListCategoriesWithExpenseCount(ctx)
}

// GetByName looks a category up by name, ignoring case.
func (s *CategoryService) GetByName(ctx context.Context, name string) (core.Category, error) {
	return s.storage.GetCategoryByName(ctx, strings.TrimSpace(name))
}

// Count returns the number of categories.
func (s *CategoryService) Count(ctx context.Context) (int64, error) {
	return s.storage.CountCategories(ctx)
}

// ExistsByName reports whether any category has the given name, ignoring case.
func (s *CategoryService) ExistsByName(ctx context.Context, name string) (bool, error) {
	return s.storage.CategoryExistsByName(ctx, strings.TrimSpace(name))
}

// Update overwrites name and description of an existing category. Renaming
// onto another category's name (case-insensitively) fails with
// core.ErrDuplicateCategoryName.
func (s *CategoryService) Update(ctx context.Context, id int64, name, description string) (core.Category, error) {
	existing, err := s.storage.GetCategoryByID(ctx, id)
	if err != nil {
		return core.Category{}, err
	}

	updated := core.Category{
		ID:          id,
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
	}
	if err := updated.Validate(); err != nil {
		return core.Category{}, err
	}

	if !strings.EqualFold(existing.Name, updated.Name) {
		exists, err := s.storage.CategoryExistsByName(ctx, updated.Name)
		if err != nil {
			return core.Category{}, fmt.Errorf("check category name: %w", err)
		}
		if exists {
			return core.Category{}, core.ErrDuplicateCategoryName
		}
	}

	if err := s.storage.UpdateCategory(ctx, updated); err != nil {
		return core.Category{}, err
	}

	s.logger.InfoContext(ctx, "category updated", "id", id, "name", updated.Name)
	s.publish(ctx, applog.OpUpdate, id)
	return updated, nil
}

// Delete removes a category together with all of its expenses.
func (s *CategoryService) Delete(ctx context.Context, id int64) error {
	if err := s.storage.DeleteCategory(ctx, id); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "category deleted", "id", id)
	s.publish(ctx, applog.OpDelete, id)
	return nil
}

func (s *CategoryService) publish(ctx context.Context, action string, id int64) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishEntityEvent(ctx, "category", action, id); err != nil {
		s.logger.ErrorContext(ctx, "publish category event failed", "action", action, "id", id, "error", err)
	}
}
