package server

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/jonathan/cv-keyword-matcher/internal/db"
)

// ComparisonsResponse is returned by GET /comparisons.
type ComparisonsResponse struct {
	Comparisons []db.Comparison `json:"comparisons"`
	Count       int             `json:"count"`
}

// handleListComparisons lists recent comparisons, newest first
func (s *Server) handleListComparisons(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		s.writeError(w, &ErrUnavailable{Feature: "comparison history"})
		return
	}

	limit := db.DefaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 500 {
			s.writeError(w, &ErrValidation{Field: "limit", Message: "must be between 1 and 500"})
			return
		}
		limit = n
	}

	comparisons, err := s.history.ListComparisons(r.Context(), limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, ComparisonsResponse{Comparisons: comparisons, Count: len(comparisons)})
}

// handleGetComparison returns one stored comparison
func (s *Server) handleGetComparison(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		s.writeError(w, &ErrUnavailable{Feature: "comparison history"})
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.writeError(w, &ErrValidation{Field: "id", Message: "invalid comparison ID format"})
		return
	}

	c, err := s.history.GetComparison(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, c)
}
