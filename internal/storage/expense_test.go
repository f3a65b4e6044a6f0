package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expensetracker/internal/core"
)

func mustCreateExpense(t *testing.T, repo *Repository, categoryID int64, amount string, date core.Date) int64 {
	t.Helper()

	m, err := core.ParseAmount(amount)
	require.NoError(t, err)

	id, err := repo.CreateExpense(context.Background(), core.Expense{
		Amount:     m,
		Date:       date,
		Note:       "test expense",
		CategoryID: categoryID,
	})
	require.NoError(t, err)
	return id
}

func TestCreateExpenseResolvesCategory(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	food := mustCreateCategory(t, repo, "Food")
	id := mustCreateExpense(t, repo, food.ID, "25.50", core.NewDate(2025, 3, 15))

	got, err := repo.GetExpenseByID(ctx, id)
	require.NoError(t, err)
	assert.EqualValues(t, 2550, got.Amount.Cents)
	assert.Equal(t, "2025-03-15", got.Date.String())
	assert.Equal(t, food.ID, got.CategoryID)
	assert.Equal(t, "Food", got.CategoryName, "reads must resolve the category name")
}

func TestCreateExpenseMissingCategory(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.CreateExpense(context.Background(), core.Expense{
		Amount:     core.Money{Cents: 100},
		Date:       core.NewDate(2025, 1, 1),
		CategoryID: 9999,
	})
	assert.ErrorIs(t, err, core.ErrCategoryNotFound)
}

func TestGetExpenseNotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.GetExpenseByID(context.Background(), 9999)
	assert.ErrorIs(t, err, core.ErrExpenseNotFound)
}

func TestListExpensesFilters(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	food := mustCreateCategory(t, repo, "Food")
	travel := mustCreateCategory(t, repo, "Travel")

	mustCreateExpense(t, repo, food.ID, "10.00", core.NewDate(2025, 1, 10))
	mustCreateExpense(t, repo, food.ID, "20.00", core.NewDate(2025, 2, 10))
	mustCreateExpense(t, repo, travel.ID, "30.00", core.NewDate(2025, 2, 20))

	byCategory, err := repo.ListExpenses(ctx, ExpenseFilter{CategoryID: food.ID}, nil)
	require.NoError(t, err)
	assert.Len(t, byCategory, 2)

	byRange, err := repo.ListExpenses(ctx, ExpenseFilter{
		StartDate: core.NewDate(2025, 2, 1),
		EndDate:   core.NewDate(2025, 2, 28),
	}, nil)
	require.NoError(t, err)
	assert.Len(t, byRange, 2)

	both, err := repo.ListExpenses(ctx, ExpenseFilter{
		CategoryID: food.ID,
		StartDate:  core.NewDate(2025, 2, 1),
		EndDate:    core.NewDate(2025, 2, 28),
	}, nil)
	require.NoError(t, err)
	require.Len(t, both, 1)
	assert.EqualValues(t, 2000, both[0].Amount.Cents)

	boundary, err := repo.ListExpenses(ctx, ExpenseFilter{
		StartDate: core.NewDate(2025, 1, 10),
		EndDate:   core.NewDate(2025, 1, 10),
	}, nil)
	require.NoError(t, err)
	assert.Len(t, boundary, 1, "date bounds are inclusive")
}

func TestListExpensesNoteSearch(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	food := mustCreateCategory(t, repo, "Food")

	first, err := repo.CreateExpense(ctx, core.Expense{
		Amount: core.Money{Cents: 1000}, Date: core.NewDate(2025, 1, 1),
		Note: "Lunch at restaurant", CategoryID: food.ID,
	})
	require.NoError(t, err)
	_, err = repo.CreateExpense(ctx, core.Expense{
		Amount: core.Money{Cents: 2000}, Date: core.NewDate(2025, 1, 2),
		Note: "Grocery shopping", CategoryID: food.ID,
	})
	require.NoError(t, err)

	matches, err := repo.ListExpenses(ctx, ExpenseFilter{Note: "lunch"}, nil)
	require.NoError(t, err)
	require.Len(t, matches, 1, "note search must ignore case")
	assert.Equal(t, first, matches[0].ID)
}

func TestListExpensesNoteSearchLiteralWildcards(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	food := mustCreateCategory(t, repo, "Food")

	notes := []string{"Save 100% cashback", "Discount 100 off", "my_note", "mynote"}
	for i, note := range notes {
		_, err := repo.CreateExpense(ctx, core.Expense{
			Amount: core.Money{Cents: 1000}, Date: core.NewDate(2025, 1, i+1),
			Note: note, CategoryID: food.ID,
		})
		require.NoError(t, err)
	}

	matches, err := repo.ListExpenses(ctx, ExpenseFilter{Note: "100%"}, nil)
	require.NoError(t, err)
	require.Len(t, matches, 1, "%% must match literally, not as a wildcard")
	assert.Equal(t, "Save 100% cashback", matches[0].Note)

	matches, err = repo.ListExpenses(ctx, ExpenseFilter{Note: "my_"}, nil)
	require.NoError(t, err)
	require.Len(t, matches, 1, "_ must match literally, not as a wildcard")
	assert.Equal(t, "my_note", matches[0].Note)
}

func TestListExpensesOrderAndPagination(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	food := mustCreateCategory(t, repo, "Food")
	for day := 1; day <= 25; day++ {
		mustCreateExpense(t, repo, food.ID, "10.00", core.NewDate(2025, 3, day))
	}

	first, err := repo.ListExpenses(ctx, ExpenseFilter{}, &core.PageRequest{Page: 0, Size: 10})
	require.NoError(t, err)
	require.Len(t, first, 10)
	assert.Equal(t, "2025-03-25", first[0].Date.String(), "newest first")

	second, err := repo.ListExpenses(ctx, ExpenseFilter{}, &core.PageRequest{Page: 1, Size: 10})
	require.NoError(t, err)
	require.Len(t, second, 10)

	last, err := repo.ListExpenses(ctx, ExpenseFilter{}, &core.PageRequest{Page: 2, Size: 10})
	require.NoError(t, err)
	assert.Len(t, last, 5)

	seen := make(map[int64]bool)
	for _, e := range append(append(first, second...), last...) {
		assert.False(t, seen[e.ID], "pages must be disjoint, expense %d repeated", e.ID)
		seen[e.ID] = true
	}
	assert.Len(t, seen, 25)

	count, err := repo.CountExpenses(ctx, ExpenseFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 25, count)
}

func TestUpdateExpenseReplacesAllFields(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	food := mustCreateCategory(t, repo, "Food")
	travel := mustCreateCategory(t, repo, "Travel")
	id := mustCreateExpense(t, repo, food.ID, "25.50", core.NewDate(2025, 3, 15))

	err := repo.UpdateExpense(ctx, core.Expense{
		ID:         id,
		Amount:     core.Money{Cents: 9900},
		Date:       core.NewDate(2025, 4, 1),
		Note:       "flight",
		CategoryID: travel.ID,
	})
	require.NoError(t, err)

	got, err := repo.GetExpenseByID(ctx, id)
	require.NoError(t, err)
	assert.EqualValues(t, 9900, got.Amount.Cents)
	assert.Equal(t, "2025-04-01", got.Date.String())
	assert.Equal(t, "flight", got.Note)
	assert.Equal(t, "Travel", got.CategoryName)

	err = repo.UpdateExpense(ctx, core.Expense{
		ID: 9999, Amount: core.Money{Cents: 100}, Date: core.NewDate(2025, 1, 1), CategoryID: food.ID,
	})
	assert.ErrorIs(t, err, core.ErrExpenseNotFound)
}

func TestDeleteExpense(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	food := mustCreateCategory(t, repo, "Food")
	id := mustCreateExpense(t, repo, food.ID, "10.00", core.NewDate(2025, 1, 1))

	require.NoError(t, repo.DeleteExpense(ctx, id))

	_, err := repo.GetExpenseByID(ctx, id)
	assert.ErrorIs(t, err, core.ErrExpenseNotFound)

	assert.ErrorIs(t, repo.DeleteExpense(ctx, id), core.ErrExpenseNotFound)
}

func TestSumExpenses(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	empty, err := repo.SumExpenses(ctx, ExpenseFilter{})
	require.NoError(t, err)
	assert.Nil(t, empty, "no rows must yield nil, not zero")

	food := mustCreateCategory(t, repo, "Food")
	mustCreateExpense(t, repo, food.ID, "10.50", core.NewDate(2025, 1, 1))
	mustCreateExpense(t, repo, food.ID, "20.25", core.NewDate(2025, 1, 2))

	total, err := repo.SumExpenses(ctx, ExpenseFilter{CategoryID: food.ID})
	require.NoError(t, err)
	require.NotNil(t, total)
	assert.EqualValues(t, 3075, total.Cents)
}

func TestMonthlySummary(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	food := mustCreateCategory(t, repo, "Food")
	mustCreateExpense(t, repo, food.ID, "10.00", core.NewDate(2025, 1, 15))
	mustCreateExpense(t, repo, food.ID, "20.00", core.NewDate(2025, 1, 20))
	mustCreateExpense(t, repo, food.ID, "30.00", core.NewDate(2025, 3, 5))
	mustCreateExpense(t, repo, food.ID, "99.00", core.NewDate(2024, 12, 31))

	totals, err := repo.MonthlySummary(ctx, 2025)
	require.NoError(t, err)
	require.Len(t, totals, 2, "months without expenses are omitted")

	assert.Equal(t, 1, totals[0].Month)
	assert.EqualValues(t, 3000, totals[0].Total.Cents)
	assert.Equal(t, 3, totals[1].Month)
	assert.EqualValues(t, 3000, totals[1].Total.Cents)

	// Sum of the year's months must equal the range total for the year.
	yearTotal, err := repo.SumExpenses(ctx, ExpenseFilter{
		StartDate: core.NewDate(2025, 1, 1),
		EndDate:   core.NewDate(2025, 12, 31),
	})
	require.NoError(t, err)
	var acc int64
	for _, mt := range totals {
		acc += mt.Total.Cents
	}
	assert.Equal(t, yearTotal.Cents, acc)
}

func TestCategorySummary(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	food := mustCreateCategory(t, repo, "Food")
	travel := mustCreateCategory(t, repo, "Travel")
	mustCreateCategory(t, repo, "Bills")

	mustCreateExpense(t, repo, food.ID, "10.00", core.NewDate(2025, 1, 1))
	mustCreateExpense(t, repo, travel.ID, "300.00", core.NewDate(2025, 1, 2))
	mustCreateExpense(t, repo, food.ID, "15.00", core.NewDate(2025, 2, 1))

	totals, err := repo.CategorySummary(ctx, core.Date{}, core.Date{})
	require.NoError(t, err)
	require.Len(t, totals, 2, "categories without expenses are omitted")

	assert.Equal(t, "Travel", totals[0].Name, "ordered by total descending")
	assert.EqualValues(t, 30000, totals[0].Total.Cents)
	assert.Equal(t, "Food", totals[1].Name)
	assert.EqualValues(t, 2500, totals[1].Total.Cents)

	windowed, err := repo.CategorySummary(ctx, core.NewDate(2025, 1, 1), core.NewDate(2025, 1, 31))
	require.NoError(t, err)
	require.Len(t, windowed, 2)
	assert.EqualValues(t, 1000, windowed[1].Total.Cents, "window must exclude February")
}
