package http

import (
	"encoding/json"
	"net/http"
)

type categoryPayload struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (s *Server) apiCategoryList(w http.ResponseWriter, r *http.Request) {
	categories, err := s.categories.ListAll(r.Context())
	if err != nil {
		s.writeReadError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, categories)
}

func (s *Server) apiCategoryCounts(w http.ResponseWriter, r *http.Request) {
	counts, err := s.categories.ListAllWithExpenseCount(r.Context())
	if err != nil {
		s.writeReadError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, counts)
}

func (s *Server) apiCategoryGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeJSON(w, r, http.StatusBadRequest, apiError{Error: "invalid id"})
		return
	}

	category, err := s.categories.GetByID(r.Context(), id)
	if err != nil {
		s.writeReadError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, category)
}

func (s *Server) apiCategoryCreate(w http.ResponseWriter, r *http.Request) {
	var payload categoryPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		s.writeJSON(w, r, http.StatusBadRequest, apiError{Error: "invalid JSON body"})
		return
	}

	created, err := s.categories.Create(r.Context(), payload.Name, payload.Description)
	if err != nil {
		s.writeMutationError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusCreated, created)
}

func (s *Server) apiCategoryUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeJSON(w, r, http.StatusBadRequest, apiError{Error: "invalid id"})
		return
	}

	var payload categoryPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		s.writeJSON(w, r, http.StatusBadRequest, apiError{Error: "invalid JSON body"})
		return
	}

	updated, err := s.categories.Update(r.Context(), id, payload.Name, payload.Description)
	if err != nil {
		s.writeMutationError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, updated)
}

func (s *Server) apiCategoryDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeJSON(w, r, http.StatusBadRequest, apiError{Error: "invalid id"})
		return
	}

	if err := s.categories.Delete(r.Context(), id); err != nil {
		s.writeMutationError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
