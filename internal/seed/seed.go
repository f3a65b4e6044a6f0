// Package seed populates an empty database with a fixed starter set of
// categories and sample expenses.
package seed

import (
	"context"
	"time"

	"expensetracker/internal/core"
	applog "expensetracker/internal/log"
	"expensetracker/internal/services"
)

type categoryDef struct {
	name        string
	description string
}

type expenseDef struct {
	amount   string
	daysAgo  int
	note     string
	category string
}

var categories = []categoryDef{
	{"Food & Dining", "Restaurants, groceries, and food-related expenses"},
	{"Transportation", "Gas, public transport, rideshare, and vehicle maintenance"},
	{"Bills & Utilities", "Electricity, water, internet, phone, and other utilities"},
	{"Shopping", "Clothing, electronics, and general shopping"},
	{"Entertainment", "Movies, games, subscriptions, and leisure activities"},
	{"Healthcare", "Medical expenses, pharmacy, and health-related costs"},
	{"Travel", "Hotels, flights, and vacation expenses"},
	{"Education", "Books, courses, and educational materials"},
	{"Miscellaneous", "Other expenses that don't fit into specific categories"},
}

var expenses = []expenseDef{
	{"25.50", 1, "Lunch at restaurant", "Food & Dining"},
	{"45.20", 2, "Grocery shopping", "Food & Dining"},
	{"15.00", 3, "Uber ride", "Transportation"},
	{"120.00", 5, "Electricity bill", "Bills & Utilities"},
	{"89.99", 7, "New shirt", "Shopping"},
	{"12.50", 8, "Coffee and pastry", "Food & Dining"},
	{"35.00", 10, "Gas for car", "Transportation"},
	{"200.00", 12, "Internet bill", "Bills & Utilities"},
	{"15.99", 15, "Movie ticket", "Entertainment"},
	{"67.80", 18, "Dinner with friends", "Food & Dining"},
}

// Run seeds the store with the starter categories and sample expenses when no
// categories exist yet; otherwise it is a no-op. Failures are logged and
// swallowed so seeding never aborts startup.
func Run(ctx context.Context, categorySvc *services.CategoryService, expenseSvc *services.ExpenseService, logger *applog.Logger) {
	logger = logger.WithComponent(applog.ComponentSeed)

	existing, err := categorySvc.Count(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "seed check failed", "error", err)
		return
	}
	if existing > 0 {
		logger.InfoContext(ctx, "categories already exist, skipping seed", "count", existing)
		return
	}

	logger.InfoContext(ctx, "empty store, seeding starter data")

	for _, def := range categories {
		if _, err := categorySvc.Create(ctx, def.name, def.description); err != nil {
			logger.ErrorContext(ctx, "seed category failed", "name", def.name, "error", err)
		}
	}

	// The first defined category doubles as the fallback when a sample
	// expense references a name that failed to insert.
	fallback, err := categorySvc.GetByName(ctx, categories[0].name)
	if err != nil {
		logger.ErrorContext(ctx, "no categories available for sample expenses", "error", err)
		return
	}

	for _, def := range expenses {
		category, err := categorySvc.GetByName(ctx, def.category)
		if err != nil {
			category = fallback
		}

		amount, err := core.ParseAmount(def.amount)
		if err != nil {
			logger.ErrorContext(ctx, "seed expense amount invalid", "amount", def.amount, "error", err)
			continue
		}

		_, err = expenseSvc.Create(ctx, services.ExpenseInput{
			Amount:     amount,
			Date:       daysAgo(def.daysAgo),
			Note:       def.note,
			CategoryID: category.ID,
		})
		if err != nil {
			logger.ErrorContext(ctx, "seed expense failed", "note", def.note, "error", err)
		}
	}

	logger.InfoContext(ctx, "seeding completed", "categories", len(categories), "expenses", len(expenses))
}

func daysAgo(n int) core.Date {
	t := time.Now().UTC().AddDate(0, 0, -n)
	return core.NewDate(t.Year(), int(t.Month()), t.Day())
}
