package server

import (
	"encoding/json"
	"net/http"

	"github.com/jonathan/cv-keyword-matcher/internal/enhancement"
	"github.com/jonathan/cv-keyword-matcher/internal/keywords"
)

// CompareRequest is the body of POST /compare and POST /enhance. Empty
// texts are valid and simply yield no keywords.
type CompareRequest struct {
	CVText  string `json:"cv_text"`
	JobText string `json:"job_text"`
	TopN    int    `json:"top_n" validate:"gte=0,lte=200"`
}

// EnhanceResponse is the body returned by POST /enhance.
type EnhanceResponse struct {
	keywords.Report
	EnhancedCV string `json:"enhanced_cv"`
	Enhanced   bool   `json:"enhanced"`
}

// decode reads a JSON body into v and validates it.
func (s *Server) decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &ErrValidation{Field: "body", Message: "invalid JSON: " + err.Error()}
	}
	if err := s.validate.Struct(v); err != nil {
		return validationError(err)
	}
	return nil
}

func (s *Server) topN(requested int) int {
	if requested > 0 {
		return requested
	}
	return s.defaultTopN
}

// handleCompare extracts and compares keywords of two texts
func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	var req CompareRequest
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	result := keywords.Compare(req.CVText, req.JobText, s.topN(req.TopN))
	s.jsonResponse(w, http.StatusOK, result.Report())
}

// handleEnhance compares two texts and rewrites the CV to include the missing keywords
func (s *Server) handleEnhance(w http.ResponseWriter, r *http.Request) {
	if s.enhancer == nil {
		s.writeError(w, &ErrUnavailable{Feature: "enhancement"})
		return
	}

	var req CompareRequest
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	result := keywords.Compare(req.CVText, req.JobText, s.topN(req.TopN))
	resp := EnhanceResponse{Report: result.Report(), EnhancedCV: req.CVText}

	if !result.MissingKeywords.IsEmpty() {
		enhanced, err := s.enhancer.Rewrite(r.Context(), req.CVText, result.MissingKeywords, req.JobText)
		if err != nil {
			s.writeError(w, err)
			return
		}
		resp.EnhancedCV = enhancement.GenerateFinalCV(req.CVText, enhanced)
		resp.Enhanced = true
	}

	s.jsonResponse(w, http.StatusOK, resp)
}
