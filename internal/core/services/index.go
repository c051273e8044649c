package services

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/energy-index/internal/core/domain"
	"github.com/custodia-labs/energy-index/internal/core/ports/driven"
	"github.com/custodia-labs/energy-index/internal/core/ports/driving"
)

// Ensure IndexService implements AnalysisService
var _ driving.AnalysisService = (*IndexService)(nil)

// IndexService scores corpora and ad-hoc text against the keyword spec.
type IndexService struct {
	config      *domain.AnalysisConfig
	prep        *textPreparer
	scorer      *Scorer
	frequencies *FrequencyService
	concurrency int
	logger      *slog.Logger
}

// IndexServiceConfig holds dependencies for IndexService.
type IndexServiceConfig struct {
	Config      *domain.AnalysisConfig
	Tokenizer   driven.Tokenizer
	Normalisers driven.NormaliserRegistry
	Concurrency int // bills scored in parallel; 0 means GOMAXPROCS
	Logger      *slog.Logger
}

// NewIndexService creates an index service. The analysis config is
// validated once here and treated as read-only afterwards.
func NewIndexService(cfg IndexServiceConfig) (*IndexService, error) {
	if err := cfg.Config.Validate(); err != nil {
		return nil, err
	}
	if cfg.Tokenizer == nil {
		return nil, fmt.Errorf("%w: tokenizer is required", domain.ErrInvalidConfig)
	}

	scorer, err := NewScorer(cfg.Config.Keywords, cfg.Config.WindowSize)
	if err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = runtime.GOMAXPROCS(0)
	}

	return &IndexService{
		config:      cfg.Config,
		prep:        &textPreparer{normalisers: cfg.Normalisers, tokenizer: cfg.Tokenizer, lemmatize: cfg.Config.Lemmatize},
		scorer:      scorer,
		frequencies: NewFrequencyService(cfg.Tokenizer, cfg.Normalisers, cfg.Config.Lemmatize),
		concurrency: concurrency,
		logger:      logger,
	}, nil
}

// Config returns the analysis config the service was built with.
func (s *IndexService) Config() *domain.AnalysisConfig {
	return s.config
}

// Tokenize cleans raw text with the configured stopwords and lemmatize flag.
func (s *IndexService) Tokenize(text string) domain.TokenSequence {
	return s.prep.tokens(text, domain.DefaultMimeType)
}

// ScoreText computes the Energy Policy Index of ad-hoc text.
func (s *IndexService) ScoreText(ctx context.Context, text string) (*domain.DensityResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.scorer.Score(s.Tokenize(text))
}

// CountNGrams builds the n-gram frequency table of a corpus.
func (s *IndexService) CountNGrams(ctx context.Context, corpus *domain.Corpus, n, topK int) (*domain.FrequencyTable, error) {
	return s.frequencies.CountNGrams(ctx, corpus, n, topK)
}

// BuildIndex scores every bill with text. Bills are scored in parallel but
// records keep corpus order. A cancelled context aborts the build.
func (s *IndexService) BuildIndex(ctx context.Context, corpus *domain.Corpus) (*domain.PolicyIndexReport, error) {
	if corpus == nil {
		return nil, fmt.Errorf("%w: corpus is nil", domain.ErrInvalidInput)
	}

	bills := corpus.WithText()
	skipped := corpus.Len() - len(bills)

	records := make([]domain.IndexRecord, len(bills))
	empty := make([]bool, len(bills))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, bill := range bills {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			tokens := s.prep.billTokens(bill)
			res, err := s.scorer.Score(tokens)
			if err != nil {
				return fmt.Errorf("score bill %s: %w", bill.ID, err)
			}
			records[i] = domain.NewIndexRecord(bill, res.Score)
			empty[i] = len(tokens) == 0
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	// errgroup only reports goroutine errors; catch a cancel that raced the last bill
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	emptyCount := 0
	for _, e := range empty {
		if e {
			emptyCount++
		}
	}

	report := domain.NewPolicyIndexReport(corpus.Name, records, skipped, emptyCount)

	s.logger.Debug("index built",
		"corpus", corpus.Name,
		"scored", report.Stats.DocumentsScored,
		"skipped", skipped,
		"empty", emptyCount,
	)

	return report, nil
}
