package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"expensetracker/internal/core"
)

// CreateCategory inserts a category and returns it with the assigned id.
// A case-insensitive name collision maps to core.ErrDuplicateCategoryName.
func (r *Repository) CreateCategory(ctx context.Context, c core.Category) (core.Category, error) {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO categories (name, description) VALUES (?, ?) RETURNING id`,
		c.Name, c.Description,
	).Scan(&c.ID)
	if err != nil {
		return core.Category{}, fmt.Errorf("insert category: %w", mapConstraintErr(err, core.ErrDuplicateCategoryName, nil))
	}
	return c, nil
}

func (r *Repository) GetCategoryByID(ctx context.Context, id int64) (core.Category, error) {
	var c core.Category
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, description FROM categories WHERE id = ?`, id,
	).Scan(&c.ID, &c.Name, &c.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Category{}, core.ErrCategoryNotFound
	}
	if err != nil {
		return core.Category{}, fmt.Errorf("select category by id: %w", err)
	}
	return c, nil
}

// GetCategoryByName looks a category up by name, case-insensitively.
func (r *Repository) GetCategoryByName(ctx context.Context, name string) (core.Category, error) {
	var c core.Category
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, description FROM categories WHERE name = ?`, name,
	).Scan(&c.ID, &c.Name, &c.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Category{}, core.ErrCategoryNotFound
	}
	if err != nil {
		return core.Category{}, fmt.Errorf("select category by name: %w", err)
	}
	return c, nil
}

// CategoryExistsByName reports whether a category with the given name exists,
// case-insensitively. The name column collates NOCASE, so plain equality is
// already case-insensitive.
func (r *Repository) CategoryExistsByName(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM categories WHERE name = ?)`, name,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("category exists by name: %w", err)
	}
	return exists, nil
}

// ListCategories returns every category ordered by name ascending.
func (r *Repository) ListCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, description FROM categories ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []core.Category
	for rows.Next() {
		var c core.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// ListCategoriesWithExpenseCount returns every category (including those with
// zero expenses) paired with its expense count, ordered by name.
func (r *Repository) ListCategoriesWithExpenseCount(ctx context.Context) ([]core.CategoryExpenseCount, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT c.id, c.name, c.description, COUNT(e.id)
		FROM categories c
		LEFT JOIN expenses e ON e.category_id = c.id
		GROUP BY c.id, c.name, c.description
		ORDER BY c.name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list categories with expense count: %w", err)
	}
	defer rows.Close()

	var counts []core.CategoryExpenseCount
	for rows.Next() {
		var cc core.CategoryExpenseCount
		if err := rows.Scan(&cc.Category.ID, &cc.Category.Name, &cc.Category.Description, &cc.ExpenseCount); err != nil {
			return nil, fmt.Errorf("scan category count: %w", err)
		}
		counts = append(counts, cc)
	}
	return counts, rows.Err()
}

// UpdateCategory overwrites name and description of an existing category.
func (r *Repository) UpdateCategory(ctx context.Context, c core.Category) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE categories SET name = ?, description = ? WHERE id = ?`,
		c.Name, c.Description, c.ID,
	)
	if err != nil {
		return fmt.Errorf("update category: %w", mapConstraintErr(err, core.ErrDuplicateCategoryName, nil))
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update category rows affected: %w", err)
	}
	if affected == 0 {
		return core.ErrCategoryNotFound
	}
	return nil
}

// DeleteCategory removes a category; its expenses go with it via the
// ON DELETE CASCADE foreign key.
func (r *Repository) DeleteCategory(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete category rows affected: %w", err)
	}
	if affected == 0 {
		return core.ErrCategoryNotFound
	}
	return nil
}

// CountCategories returns the total number of categories, used by the seeder's
// emptiness guard.
func (r *Repository) CountCategories(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count categories: %w", err)
	}
	return count, nil
}
