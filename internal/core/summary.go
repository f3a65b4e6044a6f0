package core

type (
	// CategoryTotal is the spend total for a single category.
	CategoryTotal struct {
		Name  string `json:"name"`
		Total Money  `json:"total"`
	}

	// MonthlyTotal is the spend total for one calendar month (1-12) of a year.
	// Months with no expenses are omitted from summaries, not zero-filled.
	MonthlyTotal struct {
		Month int   `json:"month"`
		Total Money `json:"total"`
	}

	// CategoryExpenseCount pairs a category with the number of expenses
	// referencing it. Categories with zero expenses are included.
	CategoryExpenseCount struct {
		Category     Category `json:"category"`
		ExpenseCount int64    `json:"expenseCount"`
	}

	// SummaryReport is the composite report for a date window: the range
	// total, per-category totals inside the window and the current-year
	// monthly series.
	SummaryReport struct {
		StartDate  Date            `json:"startDate"`
		EndDate    Date            `json:"endDate"`
		Total      Money           `json:"total"`
		ByCategory []CategoryTotal `json:"byCategory"`
		Monthly    []MonthlyTotal  `json:"monthly"`
	}
)
