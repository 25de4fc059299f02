// Package enhancement rewrites CV content through a language model so that it
// covers keywords the job description asks for.
package enhancement

import "fmt"

// EnhancementServiceError represents a failed call to the language model.
// Callers may recover from it by keeping the unenhanced CV.
type EnhancementServiceError struct {
	Provider string
	Message  string
	Cause    error
}

func (e *EnhancementServiceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("enhancement error (%s): %s: %v", e.Provider, e.Message, e.Cause)
	}
	return fmt.Sprintf("enhancement error (%s): %s", e.Provider, e.Message)
}

func (e *EnhancementServiceError) Unwrap() error {
	return e.Cause
}
