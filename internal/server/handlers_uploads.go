package server

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/jonathan/cv-keyword-matcher/internal/ingestion"
)

// UploadResponse is returned by POST /uploads.
type UploadResponse struct {
	Key      string `json:"key"`
	Location string `json:"location"`
	Size     int64  `json:"size"`
}

// handleUpload stores the multipart field "file" under its sanitized name
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.errorResponse(w, http.StatusRequestEntityTooLarge, "file too large")
			return
		}
		s.writeError(w, &ErrValidation{Field: "file", Message: "multipart field \"file\" is required"})
		return
	}
	defer file.Close()

	if !ingestion.IsSupported(header.Filename) {
		s.writeError(w, &ErrValidation{Field: "file", Message: "unsupported file type " + filepath.Ext(header.Filename)})
		return
	}

	key, err := s.store.Save(r.Context(), header.Filename, file)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.logger.Info("stored upload", "key", key, "size", header.Size)
	s.jsonResponse(w, http.StatusCreated, UploadResponse{
		Key:      key,
		Location: s.store.Location(key),
		Size:     header.Size,
	})
}

// handleDownload streams a stored file
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	rc, err := s.store.Open(r.Context(), key)
	if err != nil {
		s.writeError(w, err)
		return
	}
	defer rc.Close()

	contentType := mime.TypeByExtension(filepath.Ext(key))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": key}))
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, rc); err != nil {
		s.logger.Warn("download interrupted", "key", key, "error", err)
	}
}

// handleDeleteUpload removes a stored file; deleting a missing file succeeds
func (s *Server) handleDeleteUpload(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), r.PathValue("key")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
