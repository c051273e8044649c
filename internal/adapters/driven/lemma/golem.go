// Package lemma reduces English words to their dictionary form.
package lemma

import (
	"fmt"

	"github.com/aaaton/golem/v4"
	"github.com/aaaton/golem/v4/dicts/en"

	"github.com/custodia-labs/energy-index/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.Lemmatizer = (*Lemmatizer)(nil)

// Lemmatizer looks words up in golem's English dictionary.
// Lookups are read-only, so one instance is shared by all goroutines.
type Lemmatizer struct {
	lem *golem.Lemmatizer
}

// NewEnglish loads the English dictionary. Loading takes a moment, so
// callers build one Lemmatizer at startup.
func NewEnglish() (*Lemmatizer, error) {
	lem, err := golem.New(en.New())
	if err != nil {
		return nil, fmt.Errorf("load english lemma dictionary: %w", err)
	}
	return &Lemmatizer{lem: lem}, nil
}

// Lemma returns the base form of word, or word itself when it is unknown.
func (l *Lemmatizer) Lemma(word string) string {
	return l.lem.Lemma(word)
}
