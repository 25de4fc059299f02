package keywords

import (
	"encoding/json"
	"slices"
	"strings"
)

// KeywordSet is an immutable set of terms kept in lexicographic order.
// The zero value is an empty set.
type KeywordSet struct {
	terms []string
}

// NewKeywordSet builds a set from terms, dropping empty strings and duplicates.
func NewKeywordSet(terms ...string) KeywordSet {
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		if t != "" {
			out = append(out, t)
		}
	}
	slices.Sort(out)
	return KeywordSet{terms: slices.Compact(out)}
}

// Terms returns a copy of the terms in lexicographic order.
func (s KeywordSet) Terms() []string {
	return slices.Clone(s.terms)
}

// Len returns the number of terms.
func (s KeywordSet) Len() int {
	return len(s.terms)
}

// IsEmpty reports whether the set holds no terms.
func (s KeywordSet) IsEmpty() bool {
	return len(s.terms) == 0
}

// Contains reports whether term is a member of the set.
func (s KeywordSet) Contains(term string) bool {
	_, found := slices.BinarySearch(s.terms, term)
	return found
}

// Difference returns the terms of s that are not in other.
func (s KeywordSet) Difference(other KeywordSet) KeywordSet {
	out := make([]string, 0, len(s.terms))
	for _, t := range s.terms {
		if !other.Contains(t) {
			out = append(out, t)
		}
	}
	return KeywordSet{terms: out}
}

// Intersect returns the terms present in both sets.
func (s KeywordSet) Intersect(other KeywordSet) KeywordSet {
	out := make([]string, 0, min(len(s.terms), len(other.terms)))
	for _, t := range s.terms {
		if other.Contains(t) {
			out = append(out, t)
		}
	}
	return KeywordSet{terms: out}
}

// SubsetOf reports whether every term of s is in other.
func (s KeywordSet) SubsetOf(other KeywordSet) bool {
	for _, t := range s.terms {
		if !other.Contains(t) {
			return false
		}
	}
	return true
}

// Equal reports whether both sets hold the same terms.
func (s KeywordSet) Equal(other KeywordSet) bool {
	return slices.Equal(s.terms, other.terms)
}

// String joins the terms with ", ".
func (s KeywordSet) String() string {
	return strings.Join(s.terms, ", ")
}

// MarshalJSON encodes the set as a JSON array, never null.
func (s KeywordSet) MarshalJSON() ([]byte, error) {
	if s.terms == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s.terms)
}

// UnmarshalJSON decodes a JSON array of strings into the set.
func (s *KeywordSet) UnmarshalJSON(data []byte) error {
	var terms []string
	if err := json.Unmarshal(data, &terms); err != nil {
		return err
	}
	*s = NewKeywordSet(terms...)
	return nil
}
