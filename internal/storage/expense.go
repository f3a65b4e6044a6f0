package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"expensetracker/internal/core"
)

// ExpenseFilter narrows expense listings and totals. Zero-valued fields are
// ignored; date bounds are inclusive.
type ExpenseFilter struct {
	CategoryID int64
	StartDate  core.Date
	EndDate    core.Date
	Note       string
}

// expenseColumns is the eager select list: every expense read resolves its
// category name in the same query.
var expenseColumns = []string{"e.id", "e.amount_cents", "e.date", "e.note", "e.category_id", "c.name"}

func expenseSelect() sq.SelectBuilder {
	return builder.
		Select(expenseColumns...).
		From("expenses e").
		Join("categories c ON c.id = e.category_id")
}

func applyExpenseFilter(stmt sq.SelectBuilder, f ExpenseFilter) sq.SelectBuilder {
	if f.CategoryID > 0 {
		stmt = stmt.Where(sq.Eq{"e.category_id": f.CategoryID})
	}
	if !f.StartDate.IsZero() {
		stmt = stmt.Where(sq.GtOrEq{"e.date": f.StartDate.String()})
	}
	if !f.EndDate.IsZero() {
		stmt = stmt.Where(sq.LtOrEq{"e.date": f.EndDate.String()})
	}
	if f.Note != "" {
		stmt = stmt.Where(sq.Expr("e.note LIKE ? ESCAPE '\\'", "%"+escapeLike(f.Note)+"%"))
	}
	return stmt
}

// escapeLike makes LIKE metacharacters in user input match literally.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)
	return r.Replace(s)
}

func scanExpense(row interface{ Scan(...any) error }) (core.Expense, error) {
	var (
		e       core.Expense
		dateStr string
	)
	if err := row.Scan(&e.ID, &e.Amount.Cents, &dateStr, &e.Note, &e.CategoryID, &e.CategoryName); err != nil {
		return core.Expense{}, err
	}
	date, err := core.ParseDate(dateStr)
	if err != nil {
		return core.Expense{}, fmt.Errorf("parse stored date %q: %w", dateStr, err)
	}
	e.Date = date
	return e, nil
}

// CreateExpense inserts an expense and returns the assigned id. A missing
// category maps to core.ErrCategoryNotFound via the foreign key.
func (r *Repository) CreateExpense(ctx context.Context, e core.Expense) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO expenses (amount_cents, date, note, category_id) VALUES (?, ?, ?, ?) RETURNING id`,
		e.Amount.Cents, e.Date.String(), e.Note, e.CategoryID,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert expense: %w", mapConstraintErr(err, nil, core.ErrCategoryNotFound))
	}
	return id, nil
}

// GetExpenseByID returns the expense with its category name resolved.
func (r *Repository) GetExpenseByID(ctx context.Context, id int64) (core.Expense, error) {
	query, args, err := expenseSelect().Where(sq.Eq{"e.id": id}).ToSql()
	if err != nil {
		return core.Expense{}, fmt.Errorf("build expense query: %w", err)
	}
	e, err := scanExpense(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, core.ErrExpenseNotFound
	}
	if err != nil {
		return core.Expense{}, fmt.Errorf("select expense by id: %w", err)
	}
	return e, nil
}

// ListExpenses returns expenses matching the filter ordered by date descending
// (id descending as tiebreak, keeping pagination stable). A nil page returns
// the whole result set.
func (r *Repository) ListExpenses(ctx context.Context, f ExpenseFilter, page *core.PageRequest) ([]core.Expense, error) {
	stmt := applyExpenseFilter(expenseSelect(), f).
		OrderBy("e.date DESC", "e.id DESC")
	if page != nil {
		p := page.Normalize()
		stmt = stmt.Limit(uint64(p.Size)).Offset(p.Offset())
	}

	query, args, err := stmt.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list expenses query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []core.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

// CountExpenses returns the number of expenses matching the filter.
func (r *Repository) CountExpenses(ctx context.Context, f ExpenseFilter) (int64, error) {
	stmt := applyExpenseFilter(builder.Select("COUNT(*)").From("expenses e"), f)

	query, args, err := stmt.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count expenses query: %w", err)
	}

	var count int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count expenses: %w", err)
	}
	return count, nil
}

// UpdateExpense overwrites amount, date, note and category of an existing
// expense in a single statement.
func (r *Repository) UpdateExpense(ctx context.Context, e core.Expense) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE expenses SET amount_cents = ?, date = ?, note = ?, category_id = ? WHERE id = ?`,
		e.Amount.Cents, e.Date.String(), e.Note, e.CategoryID, e.ID,
	)
	if err != nil {
		return fmt.Errorf("update expense: %w", mapConstraintErr(err, nil, core.ErrCategoryNotFound))
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update expense rows affected: %w", err)
	}
	if affected == 0 {
		return core.ErrExpenseNotFound
	}
	return nil
}

func (r *Repository) DeleteExpense(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete expense rows affected: %w", err)
	}
	if affected == 0 {
		return core.ErrExpenseNotFound
	}
	return nil
}

// SumExpenses returns the total amount over the filtered rows, or nil when no
// rows match. Absence of a sum is distinct from a zero sum.
func (r *Repository) SumExpenses(ctx context.Context, f ExpenseFilter) (*core.Money, error) {
	stmt := applyExpenseFilter(builder.Select("SUM(e.amount_cents)").From("expenses e"), f)

	query, args, err := stmt.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sum expenses query: %w", err)
	}

	var total sql.NullInt64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("sum expenses: %w", err)
	}
	if !total.Valid {
		return nil, nil
	}
	return &core.Money{Cents: total.Int64}, nil
}

// MonthlySummary returns per-month totals for the given year, ascending.
// Months without expenses are omitted.
func (r *Repository) MonthlySummary(ctx context.Context, year int) ([]core.MonthlyTotal, error) {
	start := core.NewDate(year, 1, 1).String()
	end := core.NewDate(year, 12, 31).String()

	rows, err := r.db.QueryContext(ctx, `
		SELECT CAST(strftime('%m', date) AS INTEGER) AS month, SUM(amount_cents)
		FROM expenses
		WHERE date >= ? AND date <= ?
		GROUP BY month
		ORDER BY month ASC`, start, end)
	if err != nil {
		return nil, fmt.Errorf("monthly summary: %w", err)
	}
	defer rows.Close()

	var totals []core.MonthlyTotal
	for rows.Next() {
		var mt core.MonthlyTotal
		if err := rows.Scan(&mt.Month, &mt.Total.Cents); err != nil {
			return nil, fmt.Errorf("scan monthly total: %w", err)
		}
		totals = append(totals, mt)
	}
	return totals, rows.Err()
}

// CategorySummary returns per-category totals ordered by total descending,
// optionally restricted to an inclusive date window. Categories without
// matching expenses are omitted.
func (r *Repository) CategorySummary(ctx context.Context, start, end core.Date) ([]core.CategoryTotal, error) {
	stmt := builder.
		Select("c.name", "SUM(e.amount_cents) AS total_cents").
		From("expenses e").
		Join("categories c ON c.id = e.category_id").
		GroupBy("c.id", "c.name").
		OrderBy("total_cents DESC")
	if !start.IsZero() {
		stmt = stmt.Where(sq.GtOrEq{"e.date": start.String()})
	}
	if !end.IsZero() {
		stmt = stmt.Where(sq.LtOrEq{"e.date": end.String()})
	}

	query, args, err := stmt.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build category summary query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("category summary: %w", err)
	}
	defer rows.Close()

	var totals []core.CategoryTotal
	for rows.Next() {
		var ct core.CategoryTotal
		if err := rows.Scan(&ct.Name, &ct.Total.Cents); err != nil {
			return nil, fmt.Errorf("scan category total: %w", err)
		}
		totals = append(totals, ct)
	}
	return totals, rows.Err()
}
