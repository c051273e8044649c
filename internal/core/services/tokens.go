package services

import (
	"github.com/custodia-labs/energy-index/internal/core/domain"
	"github.com/custodia-labs/energy-index/internal/core/ports/driven"
)

// textPreparer turns bill content into tokens: normalise by MIME type, then
// clean and optionally lemmatize.
type textPreparer struct {
	normalisers driven.NormaliserRegistry
	tokenizer   driven.Tokenizer
	lemmatize   bool
}

func (p *textPreparer) tokens(text, mimeType string) domain.TokenSequence {
	if p.normalisers != nil {
		text = p.normalisers.Normalise(text, mimeType)
	}
	return p.tokenizer.Tokenize(text, p.lemmatize)
}

func (p *textPreparer) billTokens(b *domain.Bill) domain.TokenSequence {
	return p.tokens(b.Text, b.ContentType())
}
