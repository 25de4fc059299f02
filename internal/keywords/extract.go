package keywords

import (
	"math"
	"sort"
)

// DefaultTopN is the keyword limit used when a non-positive limit is given.
const DefaultTopN = 20

// minTokenLength drops single-character tokens ("a", "c", "r").
const minTokenLength = 2

// WeightedTerm is a term paired with its TF-IDF weight.
type WeightedTerm struct {
	Term   string  `json:"term"`
	Weight float64 `json:"weight"`
}

// Extractor ranks the terms of a text by TF-IDF and keeps the top N.
type Extractor struct {
	topN      int
	stopwords map[string]struct{}
	corpus    []map[string]struct{}
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithCorpus computes IDF against the given reference documents plus the
// text being scored. Without it every term has the same IDF and the ranking
// reduces to term frequency.
func WithCorpus(docs ...string) Option {
	return func(e *Extractor) {
		for _, doc := range docs {
			e.corpus = append(e.corpus, toSet(tokenize(doc)))
		}
	}
}

// WithStopwords adds words to the stopword list.
func WithStopwords(words ...string) Option {
	return func(e *Extractor) {
		merged := make(map[string]struct{}, len(e.stopwords)+len(words))
		for w := range e.stopwords {
			merged[w] = struct{}{}
		}
		for _, w := range words {
			if n := Normalize(w); n != "" {
				merged[n] = struct{}{}
			}
		}
		e.stopwords = merged
	}
}

// NewExtractor returns an Extractor keeping at most topN terms.
func NewExtractor(topN int, opts ...Option) *Extractor {
	if topN < 1 {
		topN = DefaultTopN
	}
	e := &Extractor{topN: topN, stopwords: englishStopwords}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// TopN returns the configured keyword limit.
func (e *Extractor) TopN() int {
	return e.topN
}

// Rank returns the top N terms of text with their weights, ordered by weight
// descending and then by term ascending.
func (e *Extractor) Rank(text string) []WeightedTerm {
	counts := make(map[string]int)
	for _, tok := range tokenize(text) {
		if len(tok) < minTokenLength {
			continue
		}
		if _, stop := e.stopwords[tok]; stop {
			continue
		}
		counts[tok]++
	}
	if len(counts) == 0 {
		return nil
	}

	ranked := make([]WeightedTerm, 0, len(counts))
	for term, tf := range counts {
		ranked = append(ranked, WeightedTerm{Term: term, Weight: float64(tf) * e.idf(term)})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Weight != ranked[j].Weight {
			return ranked[i].Weight > ranked[j].Weight
		}
		return ranked[i].Term < ranked[j].Term
	})

	if len(ranked) > e.topN {
		ranked = ranked[:e.topN]
	}
	return ranked
}

// Extract returns the top N keywords of text as a set.
func (e *Extractor) Extract(text string) KeywordSet {
	ranked := e.Rank(text)
	terms := make([]string, len(ranked))
	for i, wt := range ranked {
		terms[i] = wt.Term
	}
	return NewKeywordSet(terms...)
}

// idf is the smoothed inverse document frequency ln((1+n)/(1+df)) + 1,
// where the scored text counts as one document containing the term.
func (e *Extractor) idf(term string) float64 {
	n := len(e.corpus) + 1
	df := 1
	for _, doc := range e.corpus {
		if _, ok := doc[term]; ok {
			df++
		}
	}
	return math.Log(float64(1+n)/float64(1+df)) + 1
}

// ExtractKeywords returns the topN highest-weighted keywords of text.
// A non-positive topN selects DefaultTopN.
func ExtractKeywords(text string, topN int) KeywordSet {
	return NewExtractor(topN).Extract(text)
}
