package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expensetracker/internal/core"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()

	repo, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func mustCreateCategory(t *testing.T, repo *Repository, name string) core.Category {
	t.Helper()

	c, err := repo.CreateCategory(context.Background(), core.Category{Name: name})
	require.NoError(t, err)
	return c
}

func TestCreateAndGetCategory(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	created, err := repo.CreateCategory(ctx, core.Category{Name: "Food", Description: "meals"})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	got, err := repo.GetCategoryByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func TestGetCategoryNotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.GetCategoryByID(context.Background(), 9999)
	assert.ErrorIs(t, err, core.ErrCategoryNotFound)
}

func TestDuplicateCategoryNameCaseInsensitive(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	mustCreateCategory(t, repo, "Food")

	_, err := repo.CreateCategory(ctx, core.Category{Name: "Food"})
	assert.ErrorIs(t, err, core.ErrDuplicateCategoryName)

	_, err = repo.CreateCategory(ctx, core.Category{Name: "FOOD"})
	assert.ErrorIs(t, err, core.ErrDuplicateCategoryName, "uniqueness must ignore case")
}

func TestCategoryExistsByName(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	mustCreateCategory(t, repo, "Travel")

	for _, name := range []string{"Travel", "travel", "TRAVEL"} {
		exists, err := repo.CategoryExistsByName(ctx, name)
		require.NoError(t, err)
		assert.True(t, exists, "name %q should exist", name)
	}

	exists, err := repo.CategoryExistsByName(ctx, "Food")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestListCategoriesOrderedByName(t *testing.T) {
	repo := newTestRepo(t)

	mustCreateCategory(t, repo, "Travel")
	mustCreateCategory(t, repo, "Food")
	mustCreateCategory(t, repo, "Bills")

	list, err := repo.ListCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Bills", list[0].Name)
	assert.Equal(t, "Food", list[1].Name)
	assert.Equal(t, "Travel", list[2].Name)
}

func TestUpdateCategory(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	created := mustCreateCategory(t, repo, "Food")

	err := repo.UpdateCategory(ctx, core.Category{ID: created.ID, Name: "Groceries", Description: "weekly shop"})
	require.NoError(t, err)

	got, err := repo.GetCategoryByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Groceries", got.Name)
	assert.Equal(t, "weekly shop", got.Description)

	err = repo.UpdateCategory(ctx, core.Category{ID: 9999, Name: "Nope"})
	assert.ErrorIs(t, err, core.ErrCategoryNotFound)
}

func TestUpdateCategoryDuplicateName(t *testing.T) {
	repo := newTestRepo(t)

	mustCreateCategory(t, repo, "Food")
	other := mustCreateCategory(t, repo, "Travel")

	err := repo.UpdateCategory(context.Background(), core.Category{ID: other.ID, Name: "food"})
	assert.ErrorIs(t, err, core.ErrDuplicateCategoryName)
}

func TestDeleteCategoryCascadesToExpenses(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	category := mustCreateCategory(t, repo, "Food")
	keep := mustCreateCategory(t, repo, "Travel")

	doomed := mustCreateExpense(t, repo, category.ID, "25.50", core.NewDate(2025, 3, 1))
	kept := mustCreateExpense(t, repo, keep.ID, "99.00", core.NewDate(2025, 3, 2))

	require.NoError(t, repo.DeleteCategory(ctx, category.ID))

	_, err := repo.GetExpenseByID(ctx, doomed)
	assert.ErrorIs(t, err, core.ErrExpenseNotFound, "expenses must be removed with their category")

	_, err = repo.GetExpenseByID(ctx, kept)
	assert.NoError(t, err, "expenses of other categories must survive")

	err = repo.DeleteCategory(ctx, category.ID)
	assert.ErrorIs(t, err, core.ErrCategoryNotFound)
}

func TestListCategoriesWithExpenseCount(t *testing.T) {
	repo := newTestRepo(t)

	food := mustCreateCategory(t, repo, "Food")
	mustCreateCategory(t, repo, "Travel")

	mustCreateExpense(t, repo, food.ID, "10.00", core.NewDate(2025, 1, 1))
	mustCreateExpense(t, repo, food.ID, "20.00", core.NewDate(2025, 1, 2))

	counts, err := repo.ListCategoriesWithExpenseCount(context.Background())
	require.NoError(t, err)
	require.Len(t, counts, 2)

	assert.Equal(t, "Food", counts[0].Category.Name)
	assert.EqualValues(t, 2, counts[0].ExpenseCount)
	assert.Equal(t, "Travel", counts[1].Category.Name)
	assert.EqualValues(t, 0, counts[1].ExpenseCount, "zero-expense categories must be included")
}
