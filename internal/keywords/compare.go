package keywords

// ComparisonResult holds the keywords of a CV and a job description and the
// job keywords missing from the CV. Values are produced whole by Compare.
type ComparisonResult struct {
	CVKeywords      KeywordSet `json:"cv_keywords"`
	JobKeywords     KeywordSet `json:"job_keywords"`
	MissingKeywords KeywordSet `json:"missing_keywords"`
	TopN            int        `json:"top_n"`
}

// Compare extracts keywords from both texts with the same limit and reports
// the job keywords absent from the CV.
func Compare(cvText, jobText string, topN int) ComparisonResult {
	return NewExtractor(topN).Compare(cvText, jobText)
}

// Compare is Compare using the extractor's options.
func (e *Extractor) Compare(cvText, jobText string) ComparisonResult {
	cv := e.Extract(cvText)
	job := e.Extract(jobText)
	return ComparisonResult{
		CVKeywords:      cv,
		JobKeywords:     job,
		MissingKeywords: job.Difference(cv),
		TopN:            e.topN,
	}
}

// Matched returns the job keywords that also appear among the CV keywords.
func (r ComparisonResult) Matched() KeywordSet {
	return r.JobKeywords.Intersect(r.CVKeywords)
}

// Coverage is the fraction of job keywords found in the CV, 1 when the job
// has no keywords.
func (r ComparisonResult) Coverage() float64 {
	if r.JobKeywords.IsEmpty() {
		return 1
	}
	return float64(r.Matched().Len()) / float64(r.JobKeywords.Len())
}

// Suggestions formats the missing keywords for display.
func (r ComparisonResult) Suggestions() string {
	return FormatSuggestions(r.MissingKeywords)
}

// Report is the serialized view of a comparison with its derived fields.
type Report struct {
	CVKeywords      KeywordSet `json:"cv_keywords"`
	JobKeywords     KeywordSet `json:"job_keywords"`
	MissingKeywords KeywordSet `json:"missing_keywords"`
	MatchedKeywords KeywordSet `json:"matched_keywords"`
	Coverage        float64    `json:"coverage"`
	TopN            int        `json:"top_n"`
	Suggestions     string     `json:"suggestions"`
}

// Report builds the serialized view of r.
func (r ComparisonResult) Report() Report {
	return Report{
		CVKeywords:      r.CVKeywords,
		JobKeywords:     r.JobKeywords,
		MissingKeywords: r.MissingKeywords,
		MatchedKeywords: r.Matched(),
		Coverage:        r.Coverage(),
		TopN:            r.TopN,
		Suggestions:     r.Suggestions(),
	}
}
