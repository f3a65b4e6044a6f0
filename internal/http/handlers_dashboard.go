package http

import (
	"net/http"
	"time"

	"expensetracker/internal/core"
	"expensetracker/internal/storage"
)

type dashboardView struct {
	Flash          string
	MonthTotal     core.Money
	GrandTotal     core.Money
	ByCategory     []core.CategoryTotal
	RecentExpenses []core.Expense
}

// handleDashboard renders the landing page: this month's total, the all-time
// total, per-category totals and the most recent expenses.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	now := time.Now().UTC()
	monthStart := core.NewDate(now.Year(), int(now.Month()), 1)
	monthEnd := core.Today()

	view := dashboardView{Flash: popFlash(w, r)}

	if total, err := s.reports.TotalByDateRange(ctx, monthStart, monthEnd); err != nil {
		s.htmlError(w, r, err)
		return
	} else if total != nil {
		view.MonthTotal = *total
	}

	grand, err := s.reports.GrandTotal(ctx)
	if err != nil {
		s.htmlError(w, r, err)
		return
	}
	view.GrandTotal = grand

	byCategory, err := s.reports.CategorySummaryByDateRange(ctx, monthStart, monthEnd)
	if err != nil {
		s.htmlError(w, r, err)
		return
	}
	view.ByCategory = byCategory

	recent, err := s.expenses.ListPage(ctx, storage.ExpenseFilter{}, core.PageRequest{Page: 0, Size: 5})
	if err != nil {
		s.htmlError(w, r, err)
		return
	}
	view.RecentExpenses = recent.Items

	s.render(w, r, "index.html", view)
}
