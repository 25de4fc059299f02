package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"github.com/jonathan/cv-keyword-matcher/internal/keywords"
	"github.com/jonathan/cv-keyword-matcher/internal/pipeline"
	"github.com/jonathan/cv-keyword-matcher/internal/rendering"
	"github.com/jonathan/cv-keyword-matcher/internal/storage"
)

// AnalyzeRequest is the body of POST /analyze. The CV and an uploaded job
// description are referenced by their upload keys; exactly one of JobKey,
// JobURL and JobText must be set.
type AnalyzeRequest struct {
	CVKey   string `json:"cv_key" validate:"required"`
	JobKey  string `json:"job_key,omitempty"`
	JobURL  string `json:"job_url,omitempty" validate:"omitempty,url"`
	JobText string `json:"job_text,omitempty"`
	TopN    int    `json:"top_n,omitempty" validate:"gte=0,lte=200"`
	Enhance bool   `json:"enhance,omitempty"`
	Format  string `json:"format,omitempty" validate:"omitempty,oneof=html pdf latex"`
	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty" validate:"omitempty,email"`
	Phone   string `json:"phone,omitempty"`
}

// AnalyzeResponse is returned by POST /analyze and as the "result" event of
// POST /analyze/stream.
type AnalyzeResponse struct {
	RunID            string          `json:"run_id"`
	Comparison       keywords.Report `json:"comparison"`
	EnhancedCV       string          `json:"enhanced_cv,omitempty"`
	EnhancementError string          `json:"enhancement_error,omitempty"`
	OutputKey        string          `json:"output_key,omitempty"`
}

func (req *AnalyzeRequest) checkJobSource() error {
	n := 0
	for _, v := range []string{req.JobKey, req.JobURL, req.JobText} {
		if v != "" {
			n++
		}
	}
	if n != 1 {
		return &ErrValidation{Field: "job", Message: "exactly one of job_key, job_url or job_text is required"}
	}
	return nil
}

// handleAnalyze runs the full pipeline over stored uploads
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if err := req.checkJobSource(); err != nil {
		s.writeError(w, err)
		return
	}

	resp, err := s.analyze(r.Context(), &req, nil)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// handleAnalyzeStream runs the pipeline and reports progress as SSE events
func (s *Server) handleAnalyzeStream(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if err := req.checkJobSource(); err != nil {
		s.writeError(w, err)
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	// Extraction steps report from separate goroutines.
	var mu sync.Mutex
	onProgress := func(event pipeline.ProgressEvent) {
		mu.Lock()
		defer mu.Unlock()
		if err := sse.WriteProgress(event); err != nil {
			s.logger.Debug("dropping progress event", "step", event.Step, "error", err)
		}
	}

	resp, err := s.analyze(r.Context(), &req, onProgress)
	mu.Lock()
	defer mu.Unlock()
	if err != nil {
		sse.WriteError(err.Error())
		return
	}
	if err := sse.WriteEvent("result", resp); err != nil {
		s.logger.Warn("failed to send result", "run_id", resp.RunID, "error", err)
		return
	}
	sse.WriteComplete(resp.RunID, "completed")
}

// analyze loads the referenced uploads, runs the pipeline and stores any
// rendered document back into the file store.
func (s *Server) analyze(ctx context.Context, req *AnalyzeRequest, onProgress pipeline.ProgressCallback) (*AnalyzeResponse, error) {
	cvData, err := storage.ReadAll(ctx, s.store, req.CVKey)
	if err != nil {
		return nil, fmt.Errorf("cv: %w", err)
	}

	job := pipeline.Source{URL: req.JobURL, Text: req.JobText}
	if req.JobKey != "" {
		data, err := storage.ReadAll(ctx, s.store, req.JobKey)
		if err != nil {
			return nil, fmt.Errorf("job description: %w", err)
		}
		job = pipeline.Source{Data: data, Name: req.JobKey}
	}

	opts := pipeline.Options{
		CV:         pipeline.Source{Data: cvData, Name: req.CVKey},
		Job:        job,
		TopN:       s.topN(req.TopN),
		Format:     req.Format,
		Candidate:  rendering.Meta{Name: req.Name, Email: req.Email, Phone: req.Phone},
		URLOptions: s.urlOptions,
		Logger:     s.logger,
		OnProgress: onProgress,
	}
	if req.Enhance {
		if s.enhancer == nil {
			s.logger.Warn("enhancement requested but no enhancer is configured")
		} else {
			opts.Enhancer = s.enhancer
		}
	}
	if s.history != nil {
		opts.Recorder = s.history
	}
	if req.Format != "" {
		dir, err := os.MkdirTemp("", "cv-analyze-")
		if err != nil {
			return nil, &storage.StorageError{Op: "mkdir", Message: "failed to create output directory", Cause: err}
		}
		defer os.RemoveAll(dir)
		opts.OutputDir = dir
	}

	result, err := pipeline.Run(ctx, opts)
	if err != nil {
		return nil, err
	}

	resp := &AnalyzeResponse{
		RunID:      result.RunID.String(),
		Comparison: result.Comparison.Report(),
		EnhancedCV: result.EnhancedCV,
	}
	if result.EnhancementError != nil {
		resp.EnhancementError = result.EnhancementError.Error()
	}

	if result.OutputPath != "" {
		key, err := s.storeOutput(ctx, resp.RunID, result.OutputPath)
		if err != nil {
			return nil, err
		}
		resp.OutputKey = key
	}
	return resp, nil
}

func (s *Server) storeOutput(ctx context.Context, runID, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", &storage.StorageError{Op: "open", Key: path, Message: "rendered output missing", Cause: err}
	}
	defer f.Close()

	return s.store.Save(ctx, runID+"_"+filepath.Base(path), f)
}
