package http

import (
	"errors"
	"fmt"
	"net/http"

	"expensetracker/internal/core"
)

type categoryListView struct {
	Flash      string
	Categories []core.CategoryExpenseCount
}

type categoryFormView struct {
	Title    string
	Action   string
	Error    string
	Category core.Category
}

func (s *Server) handleCategoryList(w http.ResponseWriter, r *http.Request) {
	categories, err := s.categories.ListAllWithExpenseCount(r.Context())
	if err != nil {
		s.htmlError(w, r, err)
		return
	}
	s.render(w, r, "category_list.html", categoryListView{
		Flash:      popFlash(w, r),
		Categories: categories,
	})
}

func (s *Server) handleCategoryNew(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "category_form.html", categoryFormView{
		Title:  "New Category",
		Action: "/categories/save",
	})
}

func (s *Server) handleCategorySave(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	name := r.PostFormValue("name")
	description := r.PostFormValue("description")

	created, err := s.categories.Create(r.Context(), name, description)
	if err != nil {
		if core.IsValidation(err) || errors.Is(err, core.ErrDuplicateCategoryName) {
			s.render(w, r, "category_form.html", categoryFormView{
				Title:    "New Category",
				Action:   "/categories/save",
				Error:    err.Error(),
				Category: core.Category{Name: name, Description: description},
			})
			return
		}
		s.htmlError(w, r, err)
		return
	}

	setFlash(w, fmt.Sprintf("Category %q created", created.Name))
	http.Redirect(w, r, "/categories", http.StatusSeeOther)
}

func (s *Server) handleCategoryEdit(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	category, err := s.categories.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, core.ErrCategoryNotFound) {
			setFlash(w, "Category not found")
			http.Redirect(w, r, "/categories", http.StatusSeeOther)
			return
		}
		s.htmlError(w, r, err)
		return
	}

	s.render(w, r, "category_form.html", categoryFormView{
		Title:    "Edit Category",
		Action:   fmt.Sprintf("/categories/update/%d", category.ID),
		Category: category,
	})
}

func (s *Server) handleCategoryUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	name := r.PostFormValue("name")
	description := r.PostFormValue("description")

	updated, err := s.categories.Update(r.Context(), id, name, description)
	if err != nil {
		if core.IsValidation(err) || errors.Is(err, core.ErrDuplicateCategoryName) {
			s.render(w, r, "category_form.html", categoryFormView{
				Title:    "Edit Category",
				Action:   fmt.Sprintf("/categories/update/%d", id),
				Error:    err.Error(),
				Category: core.Category{ID: id, Name: name, Description: description},
			})
			return
		}
		if errors.Is(err, core.ErrCategoryNotFound) {
			setFlash(w, "Category not found")
			http.Redirect(w, r, "/categories", http.StatusSeeOther)
			return
		}
		s.htmlError(w, r, err)
		return
	}

	setFlash(w, fmt.Sprintf("Category %q updated", updated.Name))
	http.Redirect(w, r, "/categories", http.StatusSeeOther)
}

// handleCategoryDelete removes the category and, through the store's cascade,
// every expense in it.
func (s *Server) handleCategoryDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if err := s.categories.Delete(r.Context(), id); err != nil {
		if errors.Is(err, core.ErrCategoryNotFound) {
			setFlash(w, "Category not found")
		} else {
			s.logger.ErrorContext(r.Context(), "delete category failed", "id", id, "error", err)
			setFlash(w, "Could not delete category")
		}
		http.Redirect(w, r, "/categories", http.StatusSeeOther)
		return
	}

	setFlash(w, "Category deleted")
	http.Redirect(w, r, "/categories", http.StatusSeeOther)
}
