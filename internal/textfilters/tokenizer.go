package textfilters

import (
	"unicode"
	"unicode/utf8"

	"github.com/custodia-labs/energy-index/internal/core/domain"
	"github.com/custodia-labs/energy-index/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.Tokenizer = (*Tokenizer)(nil)

// Tokenizer runs the cleaning pipeline and optional lemmatization.
// Safe for concurrent use once constructed.
type Tokenizer struct {
	pipeline   driven.TokenPipeline
	lemmatizer driven.Lemmatizer
	stopwords  domain.StopwordSet
}

// NewTokenizer creates a tokenizer with the default cleaning pipeline.
// lemmatizer may be nil, in which case lemmatization is a no-op.
func NewTokenizer(stopwords domain.StopwordSet, lemmatizer driven.Lemmatizer) *Tokenizer {
	return &Tokenizer{
		pipeline:   DefaultPipeline(stopwords),
		lemmatizer: lemmatizer,
		stopwords:  stopwords,
	}
}

// Tokenize cleans text into a token sequence.
// Empty or whitespace-only text yields an empty, non-nil sequence.
func (t *Tokenizer) Tokenize(text string, lemmatize bool) domain.TokenSequence {
	tokens := t.pipeline.Process(text)
	if len(tokens) == 0 {
		return domain.TokenSequence{}
	}

	if lemmatize && t.lemmatizer != nil {
		for i, tok := range tokens {
			if lemma := t.lemmatizer.Lemma(tok); t.valid(lemma) {
				tokens[i] = lemma
			}
		}
	}

	return domain.TokenSequence(tokens)
}

// valid reports whether a lemma still satisfies the token invariant.
// A lemma that does not is discarded in favour of the surface form.
func (t *Tokenizer) valid(word string) bool {
	if utf8.RuneCountInString(word) < 2 || t.stopwords.Contains(word) {
		return false
	}
	for _, r := range word {
		if !unicode.IsLetter(r) || unicode.IsUpper(r) {
			return false
		}
	}
	return true
}
