package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"expensetracker/internal/core"
)

type apiError struct {
	Error string `json:"error"`
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.ErrorContext(r.Context(), "encode response failed", "error", err)
	}
}

// writeReadError maps errors from read operations: a missing entity is 404,
// anything else is a generic 500.
func (s *Server) writeReadError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrCategoryNotFound), errors.Is(err, core.ErrExpenseNotFound):
		s.writeJSON(w, r, http.StatusNotFound, apiError{Error: err.Error()})
	default:
		s.logger.ErrorContext(r.Context(), "request failed", "error", err)
		s.writeJSON(w, r, http.StatusInternalServerError, apiError{Error: "internal error"})
	}
}

// writeMutationError maps errors from create, update and delete operations:
// validation failures, duplicate names and dangling references are all client
// errors; anything else is a generic 500.
func (s *Server) writeMutationError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case core.IsValidation(err),
		errors.Is(err, core.ErrDuplicateCategoryName),
		errors.Is(err, core.ErrCategoryNotFound),
		errors.Is(err, core.ErrExpenseNotFound):
		s.writeJSON(w, r, http.StatusBadRequest, apiError{Error: err.Error()})
	default:
		s.logger.ErrorContext(r.Context(), "request failed", "error", err)
		s.writeJSON(w, r, http.StatusInternalServerError, apiError{Error: "internal error"})
	}
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

// queryDate parses an optional YYYY-MM-DD query parameter. A missing or blank
// parameter yields the zero Date.
func queryDate(q url.Values, key string) (core.Date, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return core.Date{}, nil
	}
	return core.ParseDate(raw)
}

func queryInt(q url.Values, key string, fallback int) int {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

func queryInt64(q url.Values, key string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(q.Get(key)), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// htmlError logs an unexpected failure on the browser surface and renders the
// error page instead of a JSON body.
func (s *Server) htmlError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.ErrorContext(r.Context(), "request failed", "error", err)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	if terr := s.templates.ExecuteTemplate(w, "error.html", nil); terr != nil {
		s.logger.ErrorContext(r.Context(), "template execution failed", "template", "error.html", "error", terr)
	}
}

const flashCookie = "flash"

// setFlash stores a one-shot notice shown on the next rendered page.
func setFlash(w http.ResponseWriter, message string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    url.QueryEscape(message),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// popFlash reads and clears the flash notice, if any.
func popFlash(w http.ResponseWriter, r *http.Request) string {
	c, err := r.Cookie(flashCookie)
	if err != nil {
		return ""
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	message, err := url.QueryUnescape(c.Value)
	if err != nil {
		return ""
	}
	return message
}
