// Package http exposes the expense tracker over HTTP: a browser surface
// rendering server-side templates and a JSON API mirroring the same
// operations.
package http

import (
	"context"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	applog "expensetracker/internal/log"
	"expensetracker/internal/services"
	appweb "expensetracker/web"
)

type Server struct {
	http.Server

	templates  *template.Template
	categories *services.CategoryService
	expenses   *services.ExpenseService
	reports    *services.ReportService
	logger     *applog.Logger
}

// templateFuncs are helpers available to all templates.
var templateFuncs = template.FuncMap{
	"monthName": func(m int) string { return time.Month(m).String() },
	"add":       func(a, b int) int { return a + b },
}

// NewServer configures routes and templates, returning a ready-to-run server.
func NewServer(addr string, categories *services.CategoryService, expenses *services.ExpenseService, reports *services.ReportService, logger *applog.Logger) (*Server, error) {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:           addr,
			Handler:        mux,
			ReadTimeout:    10 * time.Second,
			WriteTimeout:   10 * time.Second,
			IdleTimeout:    60 * time.Second,
			MaxHeaderBytes: 1 << 16,
		},
		categories: categories,
		expenses:   expenses,
		reports:    reports,
		logger:     logger.WithComponent(applog.ComponentHTTP),
	}

	t, err := template.New("").Funcs(templateFuncs).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	s.templates = t

	// Static assets served from the embedded FS.
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("GET /static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600")
			static.ServeHTTP(w, r)
		}))
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	// Browser surface.
	mux.HandleFunc("GET /{$}", s.withMiddleware(s.handleDashboard))

	mux.HandleFunc("GET /categories", s.withMiddleware(s.handleCategoryList))
	mux.HandleFunc("GET /categories/new", s.withMiddleware(s.handleCategoryNew))
	mux.HandleFunc("POST /categories/save", s.withMiddleware(s.handleCategorySave))
	mux.HandleFunc("GET /categories/edit/{id}", s.withMiddleware(s.handleCategoryEdit))
	mux.HandleFunc("POST /categories/update/{id}", s.withMiddleware(s.handleCategoryUpdate))
	mux.HandleFunc("GET /categories/delete/{id}", s.withMiddleware(s.handleCategoryDelete))

	mux.HandleFunc("GET /expenses", s.withMiddleware(s.handleExpenseList))
	mux.HandleFunc("GET /expenses/new", s.withMiddleware(s.handleExpenseNew))
	mux.HandleFunc("POST /expenses/save", s.withMiddleware(s.handleExpenseSave))
	mux.HandleFunc("GET /expenses/edit/{id}", s.withMiddleware(s.handleExpenseEdit))
	mux.HandleFunc("POST /expenses/update/{id}", s.withMiddleware(s.handleExpenseUpdate))
	mux.HandleFunc("GET /expenses/delete/{id}", s.withMiddleware(s.handleExpenseDelete))
	mux.HandleFunc("GET /expenses/summary", s.withMiddleware(s.handleExpenseSummary))

	// JSON API surface.
	mux.HandleFunc("GET /api/categories", s.withMiddleware(s.apiCategoryList))
	mux.HandleFunc("POST /api/categories", s.withMiddleware(s.apiCategoryCreate))
	mux.HandleFunc("GET /api/categories/counts", s.withMiddleware(s.apiCategoryCounts))
	mux.HandleFunc("GET /api/categories/{id}", s.withMiddleware(s.apiCategoryGet))
	mux.HandleFunc("PUT /api/categories/{id}", s.withMiddleware(s.apiCategoryUpdate))
	mux.HandleFunc("DELETE /api/categories/{id}", s.withMiddleware(s.apiCategoryDelete))

	mux.HandleFunc("GET /api/expenses", s.withMiddleware(s.apiExpenseList))
	mux.HandleFunc("POST /api/expenses", s.withMiddleware(s.apiExpenseCreate))
	mux.HandleFunc("GET /api/expenses/summary", s.withMiddleware(s.apiExpenseSummary))
	mux.HandleFunc("GET /api/expenses/{id}", s.withMiddleware(s.apiExpenseGet))
	mux.HandleFunc("PUT /api/expenses/{id}", s.withMiddleware(s.apiExpenseUpdate))
	mux.HandleFunc("DELETE /api/expenses/{id}", s.withMiddleware(s.apiExpenseDelete))

	return s, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if _, err := s.categories.Count(ctx); err != nil {
		s.logger.ErrorContext(ctx, "readiness check failed", "error", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("not ready"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		s.logger.ErrorContext(r.Context(), "template execution failed", "template", name, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
