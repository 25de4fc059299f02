package llm

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingAPIKey is returned by constructors given an empty key.
	ErrMissingAPIKey = errors.New("API key is required")
	// ErrEmptyResponse is returned when a provider answers without text.
	ErrEmptyResponse = errors.New("empty response from model")
)

// APIError represents a non-success answer from a provider HTTP API.
type APIError struct {
	Provider   Provider
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s API error (status %d): %s", e.Provider, e.StatusCode, e.Message)
}
