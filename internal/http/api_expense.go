package http

import (
	"encoding/json"
	"net/http"
	"time"

	"expensetracker/internal/core"
	"expensetracker/internal/services"
	"expensetracker/internal/storage"
)

type expensePayload struct {
	Amount     core.Money `json:"amount"`
	Date       core.Date  `json:"date"`
	Note       string     `json:"note"`
	CategoryID int64      `json:"categoryId"`
}

func (p expensePayload) input() services.ExpenseInput {
	return services.ExpenseInput{
		Amount:     p.Amount,
		Date:       p.Date,
		Note:       p.Note,
		CategoryID: p.CategoryID,
	}
}

// apiExpenseList lists expenses as JSON. Filters follow the same precedence
// as the browser listing. Category and date-range listings honor the paging
// parameters and are wrapped in paging metadata; note search returns the full
// unpaginated match list.
func (s *Server) apiExpenseList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	categoryID := queryInt64(q, "categoryId")
	start, errStart := queryDate(q, "startDate")
	end, errEnd := queryDate(q, "endDate")
	if errStart != nil || errEnd != nil {
		s.writeJSON(w, r, http.StatusBadRequest, apiError{Error: "invalid date, expected YYYY-MM-DD"})
		return
	}
	note := q.Get("note")
	hasRange := !start.IsZero() && !end.IsZero()

	var filter storage.ExpenseFilter
	switch {
	case categoryID > 0 && hasRange:
		filter = storage.ExpenseFilter{CategoryID: categoryID, StartDate: start, EndDate: end}
	case categoryID > 0:
		filter = storage.ExpenseFilter{CategoryID: categoryID}
	case hasRange:
		filter = storage.ExpenseFilter{StartDate: start, EndDate: end}
	case note != "":
		items, err := s.expenses.SearchByNote(ctx, note)
		if err != nil {
			s.writeReadError(w, r, err)
			return
		}
		s.writeJSON(w, r, http.StatusOK, items)
		return
	}

	page := core.PageRequest{
		Page: queryInt(q, "page", 0),
		Size: queryInt(q, "size", core.DefaultPageSize),
	}
	result, err := s.expenses.ListPage(ctx, filter, page)
	if err != nil {
		s.writeReadError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, result)
}

func (s *Server) apiExpenseGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeJSON(w, r, http.StatusBadRequest, apiError{Error: "invalid id"})
		return
	}

	expense, err := s.expenses.GetByID(r.Context(), id)
	if err != nil {
		s.writeReadError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, expense)
}

func (s *Server) apiExpenseCreate(w http.ResponseWriter, r *http.Request) {
	var payload expensePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		s.writeJSON(w, r, http.StatusBadRequest, apiError{Error: "invalid JSON body"})
		return
	}

	created, err := s.expenses.Create(r.Context(), payload.input())
	if err != nil {
		s.writeMutationError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusCreated, created)
}

func (s *Server) apiExpenseUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeJSON(w, r, http.StatusBadRequest, apiError{Error: "invalid id"})
		return
	}

	var payload expensePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		s.writeJSON(w, r, http.StatusBadRequest, apiError{Error: "invalid JSON body"})
		return
	}

	updated, err := s.expenses.Update(r.Context(), id, payload.input())
	if err != nil {
		s.writeMutationError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, updated)
}

func (s *Server) apiExpenseDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeJSON(w, r, http.StatusBadRequest, apiError{Error: "invalid id"})
		return
	}

	if err := s.expenses.Delete(r.Context(), id); err != nil {
		s.writeMutationError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// apiExpenseSummary returns the composite report. The window defaults to the
// current month and the monthly series to the current year.
func (s *Server) apiExpenseSummary(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	now := time.Now().UTC()
	start, errStart := queryDate(q, "startDate")
	end, errEnd := queryDate(q, "endDate")
	if errStart != nil || errEnd != nil {
		s.writeJSON(w, r, http.StatusBadRequest, apiError{Error: "invalid date, expected YYYY-MM-DD"})
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
		s.writeReadError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, report)
}
