package services

import (
	"fmt"

	"github.com/custodia-labs/energy-index/internal/core/domain"
)

// Scorer computes the Energy Policy Index of token sequences.
// It is immutable and safe for concurrent use.
type Scorer struct {
	keywords domain.KeywordSpec
	window   int
}

// NewScorer creates a scorer for the keyword spec and window size.
func NewScorer(keywords domain.KeywordSpec, window int) (*Scorer, error) {
	if window < 1 {
		return nil, fmt.Errorf("%w: window size must be at least 1, got %d", domain.ErrInvalidInput, window)
	}
	if err := keywords.Validate(); err != nil {
		return nil, err
	}
	return &Scorer{keywords: keywords, window: window}, nil
}

// Score scores one token sequence.
func (s *Scorer) Score(tokens domain.TokenSequence) (*domain.DensityResult, error) {
	if s == nil || s.window < 1 {
		return nil, fmt.Errorf("%w: scorer has no valid window", domain.ErrInvalidInput)
	}
	res := density(s.keywords, tokens, s.window)
	return &res, nil
}

// DensityScore returns the keyword density of tokens in the range [0, 100].
//
// Windows of the given size start every window/2 tokens (at least 1). A
// keyword n-gram counts once per window when all of its words occur anywhere
// in that window, regardless of order. The hit total is divided by the token
// count and scaled to a percentage. An empty sequence or a window below 1
// scores 0.
func DensityScore(keywords domain.KeywordSpec, tokens domain.TokenSequence, window int) float64 {
	return density(keywords, tokens, window).Score
}

func density(keywords domain.KeywordSpec, tokens domain.TokenSequence, window int) domain.DensityResult {
	res := domain.DensityResult{Tokens: len(tokens)}
	if len(tokens) == 0 || window < 1 {
		return res
	}

	leap := max(1, window/2)
	set := make(map[string]struct{}, window)

	for start := 0; start < len(tokens); start += leap {
		end := min(start+window, len(tokens))

		clear(set)
		for _, tok := range tokens[start:end] {
			set[tok] = struct{}{}
		}
		res.Windows++

		for _, kw := range keywords {
			if containsAll(set, kw) {
				res.Hits++
			}
		}
	}

	// Hits can outnumber tokens when many keywords share a window
	res.Score = min(100, float64(res.Hits)/float64(len(tokens))*100)
	return res
}

func containsAll(set map[string]struct{}, gram domain.NGram) bool {
	if len(gram) == 0 {
		return false
	}
	for _, w := range gram {
		if _, ok := set[w]; !ok {
			return false
		}
	}
	return true
}
