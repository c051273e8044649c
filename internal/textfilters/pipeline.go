package textfilters

import (
	"sort"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/custodia-labs/energy-index/internal/core/domain"
	"github.com/custodia-labs/energy-index/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.TokenPipeline = (*Pipeline)(nil)

// Pipeline implements TokenPipeline.
// It splits text on whitespace and chains filters in order.
type Pipeline struct {
	mu      sync.RWMutex
	filters []driven.TokenFilter
	sorted  bool
}

// NewPipeline creates a new empty token pipeline.
func NewPipeline() *Pipeline {
	return &Pipeline{
		filters: make([]driven.TokenFilter, 0),
	}
}

// Add adds a filter to the pipeline.
// Filters are sorted by Order() before processing.
func (p *Pipeline) Add(filter driven.TokenFilter) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.filters = append(p.filters, filter)
	p.sorted = false
}

// Process applies all filters in order.
// Input is the raw document text, output the cleaned tokens.
func (p *Pipeline) Process(text string) []string {
	p.mu.Lock()
	if !p.sorted {
		sort.SliceStable(p.filters, func(i, j int) bool {
			return p.filters[i].Order() < p.filters[j].Order()
		})
		p.sorted = true
	}
	filters := make([]driven.TokenFilter, len(p.filters))
	copy(filters, p.filters)
	p.mu.Unlock()

	tokens := strings.Fields(text)
	for _, f := range filters {
		if len(tokens) == 0 {
			break
		}
		tokens = f.Filter(tokens)
	}

	return tokens
}

// List returns filter names in order.
func (p *Pipeline) List() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	names := make([]string, len(p.filters))
	for i, f := range p.filters {
		names[i] = f.Name()
	}
	return names
}

// DefaultPipeline creates the bill cleaning pipeline:
// punctuation, digits, single letters, whitespace, lowercase, stopwords.
func DefaultPipeline(stopwords domain.StopwordSet) *Pipeline {
	p := NewPipeline()
	p.Add(&PunctuationFilter{})
	p.Add(&DigitFilter{})
	p.Add(&ShortWordFilter{MinLength: 2})
	p.Add(&WhitespaceFilter{})
	p.Add(&LowercaseFilter{})
	p.Add(NewStopwordFilter(stopwords))
	return p
}

// mapTokens applies fn to every token in place.
func mapTokens(tokens []string, fn func(string) string) []string {
	for i, t := range tokens {
		tokens[i] = fn(t)
	}
	return tokens
}

// PunctuationFilter deletes every rune that is not a letter or digit.
// Deletion is in place: "energy-efficient" becomes "energyefficient".
type PunctuationFilter struct{}

func (f *PunctuationFilter) Filter(tokens []string) []string {
	return mapTokens(tokens, func(t string) string {
		return strings.Map(func(r rune) rune {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				return r
			}
			return -1
		}, t)
	})
}

func (f *PunctuationFilter) Name() string { return "punctuation" }
func (f *PunctuationFilter) Order() int   { return 0 }

// DigitFilter deletes digits in place.
type DigitFilter struct{}

func (f *DigitFilter) Filter(tokens []string) []string {
	return mapTokens(tokens, func(t string) string {
		return strings.Map(func(r rune) rune {
			if unicode.IsDigit(r) {
				return -1
			}
			return r
		}, t)
	})
}

func (f *DigitFilter) Name() string { return "digits" }
func (f *DigitFilter) Order() int   { return 10 }

// ShortWordFilter blanks out tokens shorter than MinLength runes.
type ShortWordFilter struct {
	MinLength int
}

func (f *ShortWordFilter) Filter(tokens []string) []string {
	return mapTokens(tokens, func(t string) string {
		if utf8.RuneCountInString(t) < f.MinLength {
			return ""
		}
		return t
	})
}

func (f *ShortWordFilter) Name() string { return "short-words" }
func (f *ShortWordFilter) Order() int   { return 20 }

// WhitespaceFilter drops the tokens emptied by earlier stages.
type WhitespaceFilter struct{}

func (f *WhitespaceFilter) Filter(tokens []string) []string {
	out := tokens[:0]
	for _, t := range tokens {
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

func (f *WhitespaceFilter) Name() string { return "whitespace" }
func (f *WhitespaceFilter) Order() int   { return 30 }

// LowercaseFilter lowercases tokens.
// Full case mapping can emit combining marks (e.g. for U+0130), which are
// dropped so tokens stay letters only.
type LowercaseFilter struct{}

func (f *LowercaseFilter) Filter(tokens []string) []string {
	// Casers are stateful and must not be shared between goroutines.
	lower := cases.Lower(language.Und)
	return mapTokens(tokens, func(t string) string {
		return strings.Map(func(r rune) rune {
			if unicode.IsLetter(r) {
				return r
			}
			return -1
		}, lower.String(t))
	})
}

func (f *LowercaseFilter) Name() string { return "lowercase" }
func (f *LowercaseFilter) Order() int   { return 40 }

// StopwordFilter removes stopwords.
type StopwordFilter struct {
	stopwords domain.StopwordSet
}

// NewStopwordFilter creates a stopword filter for the given set.
func NewStopwordFilter(stopwords domain.StopwordSet) *StopwordFilter {
	if stopwords == nil {
		stopwords = domain.StopwordSet{}
	}
	return &StopwordFilter{stopwords: stopwords}
}

func (f *StopwordFilter) Filter(tokens []string) []string {
	out := tokens[:0]
	for _, t := range tokens {
		if t != "" && !f.stopwords.Contains(t) {
			out = append(out, t)
		}
	}
	return out
}

func (f *StopwordFilter) Name() string { return "stopwords" }
func (f *StopwordFilter) Order() int   { return 50 }
