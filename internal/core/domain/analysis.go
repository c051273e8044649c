package domain

import (
	"fmt"
	"strings"
)

// Analysis defaults
const (
	DefaultWindowSize = 20
	DefaultTopK       = 60
)

// TokenSequence is the ordered list of cleaned tokens of one document.
// Every token is lowercase, letters only, longer than one rune and not a stopword.
type TokenSequence []string

// Len returns the number of tokens
func (s TokenSequence) Len() int {
	return len(s)
}

// NGrams returns every contiguous n-gram of the sequence (stride 1).
// Returns nil when n < 1 or the sequence is shorter than n.
func (s TokenSequence) NGrams(n int) []NGram {
	if n < 1 || len(s) < n {
		return nil
	}
	grams := make([]NGram, 0, len(s)-n+1)
	for i := 0; i+n <= len(s); i++ {
		grams = append(grams, NGram(s[i:i+n]))
	}
	return grams
}

// NGram is a sequence of one or more lowercase words
type NGram []string

// String joins the words with a single space
func (g NGram) String() string {
	return strings.Join(g, " ")
}

// ParseNGram splits a space separated phrase into an n-gram
func ParseNGram(phrase string) NGram {
	return NGram(strings.Fields(strings.ToLower(phrase)))
}

// KeywordSpec is the ordered list of energy-policy keyword n-grams
type KeywordSpec []NGram

// Validate checks that the spec has at least one non-empty n-gram
func (k KeywordSpec) Validate() error {
	if len(k) == 0 {
		return fmt.Errorf("%w: keyword spec is empty", ErrInvalidConfig)
	}
	for i, g := range k {
		if len(g) == 0 {
			return fmt.Errorf("%w: keyword %d is empty", ErrInvalidConfig, i)
		}
	}
	return nil
}

// Strings returns the keywords as space joined phrases
func (k KeywordSpec) Strings() []string {
	out := make([]string, len(k))
	for i, g := range k {
		out[i] = g.String()
	}
	return out
}

// FrequencyEntry is one row of a frequency table
type FrequencyEntry struct {
	NGram string `json:"ngram"`
	Count int    `json:"count"`
}

// FrequencyTable holds n-gram counts sorted by descending count.
// Equal counts keep first-encounter order.
type FrequencyTable struct {
	Corpus  string           `json:"corpus"`
	N       int              `json:"n"`
	Entries []FrequencyEntry `json:"entries"`
}

// Map returns the table as an n-gram to count map
func (t *FrequencyTable) Map() map[string]int {
	m := make(map[string]int, len(t.Entries))
	for _, e := range t.Entries {
		m[e.NGram] = e.Count
	}
	return m
}

// StopwordSet is a set of lowercase words removed during cleaning
type StopwordSet map[string]struct{}

// NewStopwordSet builds a set from one or more word lists
func NewStopwordSet(lists ...[]string) StopwordSet {
	set := make(StopwordSet)
	for _, list := range lists {
		for _, w := range list {
			w = strings.ToLower(strings.TrimSpace(w))
			if w != "" {
				set[w] = struct{}{}
			}
		}
	}
	return set
}

// Contains reports whether word is a stopword
func (s StopwordSet) Contains(word string) bool {
	_, ok := s[word]
	return ok
}

// AnalysisConfig is the fixed configuration of a run.
// It is built once at startup and shared read-only by every component.
type AnalysisConfig struct {
	Stopwords  StopwordSet
	Lemmatize  bool
	Keywords   KeywordSpec
	WindowSize int
	TopK       int   // 0 means unlimited
	NGramSizes []int // n-gram sizes rendered per corpus
}

// Validate checks the configuration for values the analysis cannot run with
func (c *AnalysisConfig) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: missing", ErrInvalidConfig)
	}
	if c.WindowSize < 1 {
		return fmt.Errorf("%w: window size must be at least 1, got %d", ErrInvalidConfig, c.WindowSize)
	}
	if c.TopK < 0 {
		return fmt.Errorf("%w: top-k must not be negative, got %d", ErrInvalidConfig, c.TopK)
	}
	for _, n := range c.NGramSizes {
		if n < 1 {
			return fmt.Errorf("%w: n-gram size must be at least 1, got %d", ErrInvalidConfig, n)
		}
	}
	return c.Keywords.Validate()
}

// DensityResult is the outcome of scoring one token sequence
type DensityResult struct {
	Score   float64 `json:"score"`
	Hits    int     `json:"hits"`
	Windows int     `json:"windows"`
	Tokens  int     `json:"tokens"`
}
