package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/custodia-labs/energy-index/internal/core/domain"
	"github.com/custodia-labs/energy-index/internal/core/ports/driven"
)

// FrequencyService counts n-grams across a corpus.
type FrequencyService struct {
	prep *textPreparer
}

// NewFrequencyService creates a frequency service.
// normalisers may be nil, in which case bill text is tokenized as-is.
func NewFrequencyService(tokenizer driven.Tokenizer, normalisers driven.NormaliserRegistry, lemmatize bool) *FrequencyService {
	return &FrequencyService{
		prep: &textPreparer{normalisers: normalisers, tokenizer: tokenizer, lemmatize: lemmatize},
	}
}

// CountNGrams builds the frequency table of all contiguous n-grams of every
// bill with text. Entries are sorted by descending count; equal counts keep
// the order in which the n-grams were first seen. topK <= 0 keeps all entries.
func (s *FrequencyService) CountNGrams(ctx context.Context, corpus *domain.Corpus, n, topK int) (*domain.FrequencyTable, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: n-gram size must be at least 1, got %d", domain.ErrInvalidInput, n)
	}
	if corpus == nil {
		return nil, fmt.Errorf("%w: corpus is nil", domain.ErrInvalidInput)
	}

	counts := make(map[string]int)
	var order []string

	for _, bill := range corpus.WithText() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, gram := range s.prep.billTokens(bill).NGrams(n) {
			key := gram.String()
			if _, seen := counts[key]; !seen {
				order = append(order, key)
			}
			counts[key]++
		}
	}

	entries := make([]domain.FrequencyEntry, len(order))
	for i, key := range order {
		entries[i] = domain.FrequencyEntry{NGram: key, Count: counts[key]}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})

	if topK > 0 && len(entries) > topK {
		entries = entries[:topK]
	}

	return &domain.FrequencyTable{
		Corpus:  corpus.Name,
		N:       n,
		Entries: entries,
	}, nil
}
