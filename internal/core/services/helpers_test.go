package services

import (
	"github.com/custodia-labs/energy-index/internal/core/domain"
	"github.com/custodia-labs/energy-index/internal/textfilters"
)

var testExtraStopwords = []string{"bill", "section", "state", "shall", "act", "may", "texas"}

func newTestConfig() *domain.AnalysisConfig {
	return &domain.AnalysisConfig{
		Stopwords:  domain.NewStopwordSet(textfilters.EnglishStopwords, testExtraStopwords),
		Keywords:   keywords("energy", "coal", "solar", "power", "grid", "pipeline", "climate change"),
		WindowSize: domain.DefaultWindowSize,
		TopK:       domain.DefaultTopK,
		NGramSizes: []int{1, 2},
	}
}

func newTestTokenizer(cfg *domain.AnalysisConfig) *textfilters.Tokenizer {
	return textfilters.NewTokenizer(cfg.Stopwords, nil)
}

func newTestIndexService(cfg *domain.AnalysisConfig, concurrency int) *IndexService {
	svc, err := NewIndexService(IndexServiceConfig{
		Config:      cfg,
		Tokenizer:   newTestTokenizer(cfg),
		Concurrency: concurrency,
	})
	if err != nil {
		panic(err)
	}
	return svc
}

func bill(id, text string) *domain.Bill {
	return &domain.Bill{
		ID:          id,
		Title:       "Relating to " + id,
		Chamber:     "House",
		CreatedDate: "2021-03-01",
		Text:        text,
		Link:        "https://capitol.example/" + id,
	}
}

func testCorpus() *domain.Corpus {
	return domain.NewCorpus("texas", []*domain.Bill{
		bill("HB 1", "The energy grid uses coal and solar power daily"),
		{ID: "HB 2", Title: "No text here"},
		bill("HB 3", "Relating to school funding and teacher pay"),
		bill("HB 4", "A pipeline carrying coal slurry; climate change report"),
	})
}
