package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	"expensetracker/internal/core"
	applog "expensetracker/internal/log"
	"expensetracker/internal/storage"
)

// ReportService computes spend aggregates. Totals over a filter return nil
// when no rows match; callers must not read absence as zero.
type ReportService struct {
	storage *storage.Repository
	logger  *applog.Logger
}

func NewReportService(storage *storage.Repository, logger *applog.Logger) *ReportService {
	return &ReportService{
		storage: storage,
		logger:  logger.WithComponent(applog.ComponentReport),
	}
}

// TotalByCategory returns the sum of amounts for one category, or nil when
// the category has no expenses.
func (s *ReportService) TotalByCategory(ctx context.Context, categoryID int64) (*core.Money, error) {
	return s.storage.SumExpenses(ctx, storage.ExpenseFilter{CategoryID: categoryID})
}

// TotalByDateRange returns the sum of amounts with date in [start, end].
func (s *ReportService) TotalByDateRange(ctx context.Context, start, end core.Date) (*core.Money, error) {
	return s.storage.SumExpenses(ctx, storage.ExpenseFilter{StartDate: start, EndDate: end})
}

// TotalByCategoryAndDateRange combines both filters.
func (s *ReportService) TotalByCategoryAndDateRange(ctx context.Context, categoryID int64, start, end core.Date) (*core.Money, error) {
	return s.storage.SumExpenses(ctx, storage.ExpenseFilter{CategoryID: categoryID, StartDate: start, EndDate: end})
}

// MonthlySummary returns (month, total) pairs for every month of the year
// with at least one expense, ordered by month ascending.
func (s *ReportService) MonthlySummary(ctx context.Context, year int) ([]core.MonthlyTotal, error) {
	return s.storage.MonthlySummary(ctx, year)
}

// CategorySummary returns (category name, total) pairs for every category
// with at least one expense, ordered by total descending.
func (s *ReportService) CategorySummary(ctx context.Context) ([]core.CategoryTotal, error) {
	return s.storage.CategorySummary(ctx, core.Date{}, core.Date{})
}

// CategorySummaryByDateRange restricts the category summary to [start, end].
func (s *ReportService) CategorySummaryByDateRange(ctx context.Context, start, end core.Date) ([]core.CategoryTotal, error) {
	return s.storage.CategorySummary(ctx, start, end)
}

// GrandTotal returns the sum of every expense amount; an empty table yields
// zero. The sum is pushed down to the store, which produces the same number
// as summing the rows in memory.
func (s *ReportService) GrandTotal(ctx context.Context) (core.Money, error) {
	total, err := s.storage.SumExpenses(ctx, storage.ExpenseFilter{})
	if err != nil {
		return core.Money{}, err
	}
	if total == nil {
		return core.Money{}, nil
	}
	return *total, nil
}

// Summary builds the composite report for a date window: the range total,
// per-category totals inside the window and the monthly series for the given
// year. The three aggregates are independent, so they run concurrently.
func (s *ReportService) Summary(ctx context.Context, start, end core.Date, year int) (core.SummaryReport, error) {
	report := core.SummaryReport{StartDate: start, EndDate: end}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		total, err := s.TotalByDateRange(gctx, start, end)
		if err != nil {
			return err
		}
		if total != nil {
			report.Total = *total
		}
		return nil
	})
	g.Go(func() error {
		byCategory, err := s.CategorySummaryByDateRange(gctx, start, end)
		if err != nil {
			return err
		}
		report.ByCategory = byCategory
		return nil
	})
	g.Go(func() error {
		monthly, err := s.MonthlySummary(gctx, year)
		if err != nil {
			return err
		}
		report.Monthly = monthly
		return nil
	})

	if err := g.Wait(); err != nil {
		return core.SummaryReport{}, err
	}

	s.logger.DebugContext(ctx, "summary computed",
		"start", start.String(), "end", end.String(), "total_cents", report.Total.Cents)
	return report, nil
}
