package driving

import (
	"context"

	"github.com/custodia-labs/energy-index/internal/core/domain"
)

// AnalysisService runs the text analysis over a corpus
type AnalysisService interface {
	// Tokenize cleans raw text using the configured stopwords and lemmatize flag
	Tokenize(text string) domain.TokenSequence

	// ScoreText computes the Energy Policy Index of ad-hoc text
	ScoreText(ctx context.Context, text string) (*domain.DensityResult, error)

	// CountNGrams builds the n-gram frequency table of a corpus.
	// topK <= 0 means unlimited.
	CountNGrams(ctx context.Context, corpus *domain.Corpus, n, topK int) (*domain.FrequencyTable, error)

	// BuildIndex scores every bill with text, in corpus order
	BuildIndex(ctx context.Context, corpus *domain.Corpus) (*domain.PolicyIndexReport, error)
}
