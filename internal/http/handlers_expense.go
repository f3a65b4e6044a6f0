package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"expensetracker/internal/core"
	"expensetracker/internal/services"
	"expensetracker/internal/storage"
)

type expenseListView struct {
	Flash      string
	Expenses   []core.Expense
	Categories []core.Category

	// Filter echo values so the form keeps its state.
	CategoryID int64
	StartDate  string
	EndDate    string
	Note       string

	// Paging is present on every listing except note search.
	Paged      bool
	Page       int
	Size       int
	TotalPages int
	TotalItems int64
}

type expenseFormView struct {
	Title      string
	Action     string
	Error      string
	Expense    core.Expense
	AmountStr  string
	DateStr    string
	Categories []core.Category
}

// handleExpenseList renders the expense listing. Filters are applied in a
// fixed precedence: category plus date range, then category, then date range,
// then note search. Every branch except note search is paginated.
func (s *Server) handleExpenseList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	view := expenseListView{
		Flash:      popFlash(w, r),
		CategoryID: queryInt64(q, "categoryId"),
		StartDate:  q.Get("startDate"),
		EndDate:    q.Get("endDate"),
		Note:       q.Get("note"),
	}

	categories, err := s.categories.ListAll(ctx)
	if err != nil {
		s.htmlError(w, r, err)
		return
	}
	view.Categories = categories

	start, errStart := queryDate(q, "startDate")
	end, errEnd := queryDate(q, "endDate")
	if errStart != nil || errEnd != nil {
		http.Error(w, "invalid date, expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	hasRange := !start.IsZero() && !end.IsZero()

	var filter storage.ExpenseFilter
	switch {
	case view.CategoryID > 0 && hasRange:
		filter = storage.ExpenseFilter{CategoryID: view.CategoryID, StartDate: start, EndDate: end}
	case view.CategoryID > 0:
		filter = storage.ExpenseFilter{CategoryID: view.CategoryID}
	case hasRange:
		filter = storage.ExpenseFilter{StartDate: start, EndDate: end}
	case view.Note != "":
		view.Expenses, err = s.expenses.SearchByNote(ctx, view.Note)
		if err != nil {
			s.htmlError(w, r, err)
			return
		}
		s.render(w, r, "expense_list.html", view)
		return
	}

	page := core.PageRequest{
		Page: queryInt(q, "page", 0),
		Size: queryInt(q, "size", core.DefaultPageSize),
	}
	result, err := s.expenses.ListPage(ctx, filter, page)
	if err != nil {
		s.htmlError(w, r, err)
		return
	}
	view.Expenses = result.Items
	view.Paged = true
	view.Page = result.Page
	view.Size = result.Size
	view.TotalPages = result.TotalPages
	view.TotalItems = result.TotalItems

	s.render(w, r, "expense_list.html", view)
}

func (s *Server) handleExpenseNew(w http.ResponseWriter, r *http.Request) {
	categories, err := s.categories.ListAll(r.Context())
	if err != nil {
		s.htmlError(w, r, err)
		return
	}
	s.render(w, r, "expense_form.html", expenseFormView{
		Title:      "New Expense",
		Action:     "/expenses/save",
		DateStr:    core.Today().String(),
		Categories: categories,
	})
}

// parseExpenseForm converts form fields into an ExpenseInput. The returned
// string is a user-facing message when a field does not parse.
func parseExpenseForm(r *http.Request) (services.ExpenseInput, string) {
	amount, err := core.ParseAmount(r.PostFormValue("amount"))
	if err != nil {
		return services.ExpenseInput{}, "amount must be a positive number"
	}
	date, err := core.ParseDate(r.PostFormValue("date"))
	if err != nil {
		return services.ExpenseInput{}, "date must be in YYYY-MM-DD format"
	}
	categoryID, err := strconv.ParseInt(r.PostFormValue("categoryId"), 10, 64)
	if err != nil {
		return services.ExpenseInput{}, "a category must be selected"
	}
	return services.ExpenseInput{
		Amount:     amount,
		Date:       date,
		Note:       r.PostFormValue("note"),
		CategoryID: categoryID,
	}, ""
}

func (s *Server) handleExpenseSave(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	in, msg := parseExpenseForm(r)
	if msg == "" {
		if _, err := s.expenses.Create(r.Context(), in); err != nil {
			if core.IsValidation(err) || errors.Is(err, core.ErrCategoryNotFound) {
				msg = err.Error()
			} else {
				s.htmlError(w, r, err)
				return
			}
		}
	}
	if msg != "" {
		categories, err := s.categories.ListAll(r.Context())
		if err != nil {
			s.htmlError(w, r, err)
			return
		}
		s.render(w, r, "expense_form.html", expenseFormView{
			Title:      "New Expense",
			Action:     "/expenses/save",
			Error:      msg,
			Expense:    core.Expense{Note: r.PostFormValue("note"), CategoryID: in.CategoryID},
			AmountStr:  r.PostFormValue("amount"),
			DateStr:    r.PostFormValue("date"),
			Categories: categories,
		})
		return
	}

	setFlash(w, "Expense created")
	http.Redirect(w, r, "/expenses", http.StatusSeeOther)
}

func (s *Server) handleExpenseEdit(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	expense, err := s.expenses.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, core.ErrExpenseNotFound) {
			setFlash(w, "Expense not found")
			http.Redirect(w, r, "/expenses", http.StatusSeeOther)
			return
		}
		s.htmlError(w, r, err)
		return
	}

	categories, err := s.categories.ListAll(r.Context())
	if err != nil {
		s.htmlError(w, r, err)
		return
	}

	s.render(w, r, "expense_form.html", expenseFormView{
		Title:      "Edit Expense",
		Action:     fmt.Sprintf("/expenses/update/%d", expense.ID),
		Expense:    expense,
		AmountStr:  expense.Amount.String(),
		DateStr:    expense.Date.String(),
		Categories: categories,
	})
}

func (s *Server) handleExpenseUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	in, msg := parseExpenseForm(r)
	if msg == "" {
		if _, err := s.expenses.Update(r.Context(), id, in); err != nil {
			switch {
			case errors.Is(err, core.ErrExpenseNotFound):
				setFlash(w, "Expense not found")
				http.Redirect(w, r, "/expenses", http.StatusSeeOther)
				return
			case core.IsValidation(err), errors.Is(err, core.ErrCategoryNotFound):
				msg = err.Error()
			default:
				s.htmlError(w, r, err)
				return
			}
		}
	}
	if msg != "" {
		categories, err := s.categories.ListAll(r.Context())
		if err != nil {
			s.htmlError(w, r, err)
			return
		}
		s.render(w, r, "expense_form.html", expenseFormView{
			Title:      "Edit Expense",
			Action:     fmt.Sprintf("/expenses/update/%d", id),
			Error:      msg,
			Expense:    core.Expense{ID: id, Note: r.PostFormValue("note"), CategoryID: in.CategoryID},
			AmountStr:  r.PostFormValue("amount"),
			DateStr:    r.PostFormValue("date"),
			Categories: categories,
		})
		return
	}

	setFlash(w, "Expense updated")
	http.Redirect(w, r, "/expenses", http.StatusSeeOther)
}

func (s *Server) handleExpenseDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if err := s.expenses.Delete(r.Context(), id); err != nil {
		if errors.Is(err, core.ErrExpenseNotFound) {
			setFlash(w, "Expense not found")
		} else {
			s.logger.ErrorContext(r.Context(), "delete expense failed", "id", id, "error", err)
			setFlash(w, "Could not delete expense")
		}
		http.Redirect(w, r, "/expenses", http.StatusSeeOther)
		return
	}

	setFlash(w, "Expense deleted")
	http.Redirect(w, r, "/expenses", http.StatusSeeOther)
}

type summaryView struct {
	Report    core.SummaryReport
	Year      int
	StartDate string
	EndDate   string
}

// handleExpenseSummary renders the aggregation report. The date window
// defaults to the current month and the monthly series to the current year.
func (s *Server) handleExpenseSummary(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	now := time.Now().UTC()
	start, errStart := queryDate(q, "startDate")
	end, errEnd := queryDate(q, "endDate")
	if errStart != nil || errEnd != nil {
		http.Error(w, "invalid date, expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	if start.IsZero() {
		start = core.NewDate(now.Year(), int(now.Month()), 1)
	}
	if end.IsZero() {
		end = core.Today()
	}
	year := queryInt(q, "year", now.Year())

	report, err := s.reports.Summary(r.Context(), start, end, year)
	if err != nil {
		s.htmlError(w, r, err)
		return
	}

	s.render(w, r, "summary.html", summaryView{
		Report:    report,
		Year:      year,
		StartDate: start.String(),
		EndDate:   end.String(),
	})
}
