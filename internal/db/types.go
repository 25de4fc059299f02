package db

import (
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/cv-keyword-matcher/internal/keywords"
)

// DefaultListLimit caps ListComparisons when no limit is given.
const DefaultListLimit = 50

// Comparison is a stored keyword comparison.
type Comparison struct {
	ID              uuid.UUID `json:"id"`
	CVSource        string    `json:"cv_source"`
	JobSource       string    `json:"job_source"`
	TopN            int       `json:"top_n"`
	CVKeywords      []string  `json:"cv_keywords"`
	JobKeywords     []string  `json:"job_keywords"`
	MissingKeywords []string  `json:"missing_keywords"`
	Coverage        float64   `json:"coverage"`
	Enhanced        bool      `json:"enhanced"`
	CreatedAt       time.Time `json:"created_at"`
}

// NewComparison builds a record from a comparison result. A nil id gets a
// fresh UUID.
func NewComparison(id uuid.UUID, cvSource, jobSource string, result keywords.ComparisonResult) *Comparison {
	if id == uuid.Nil {
		id = uuid.New()
	}
	return &Comparison{
		ID:              id,
		CVSource:        cvSource,
		JobSource:       jobSource,
		TopN:            result.TopN,
		CVKeywords:      result.CVKeywords.Terms(),
		JobKeywords:     result.JobKeywords.Terms(),
		MissingKeywords: result.MissingKeywords.Terms(),
		Coverage:        result.Coverage(),
	}
}

// Result converts the record back into a comparison result.
func (c *Comparison) Result() keywords.ComparisonResult {
	return keywords.ComparisonResult{
		CVKeywords:      keywords.NewKeywordSet(c.CVKeywords...),
		JobKeywords:     keywords.NewKeywordSet(c.JobKeywords...),
		MissingKeywords: keywords.NewKeywordSet(c.MissingKeywords...),
		TopN:            c.TopN,
	}
}
