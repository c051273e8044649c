package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/energy-index/internal/core/domain"
	"github.com/custodia-labs/energy-index/internal/textfilters"
)

//go:embed defaults.yaml
var defaultAnalysis []byte

// AnalysisFile is the YAML form of the analysis configuration
type AnalysisFile struct {
	ExtraStopwords []string `yaml:"extra_stopwords"`
	Keywords       []string `yaml:"keywords"`
	WindowSize     int      `yaml:"window_size"`
	TopK           int      `yaml:"top_k"`
	NGramSizes     []int    `yaml:"ngram_sizes"`
	Lemmatize      *bool    `yaml:"lemmatize"`
}

// LoadAnalysis reads the analysis configuration from path, or the embedded
// defaults when path is empty. Fields missing from the file keep their
// default values.
func LoadAnalysis(path string) (*domain.AnalysisConfig, error) {
	file, err := DefaultAnalysisFile()
	if err != nil {
		return nil, err
	}

	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open analysis config: %w", err)
		}
		defer f.Close()

		if err := decodeAnalysis(f, file); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}

	return file.Build()
}

// DefaultAnalysisFile returns the embedded defaults
func DefaultAnalysisFile() (*AnalysisFile, error) {
	file := &AnalysisFile{}
	if err := decodeAnalysis(bytes.NewReader(defaultAnalysis), file); err != nil {
		return nil, fmt.Errorf("embedded analysis defaults: %w", err)
	}
	return file, nil
}

func decodeAnalysis(r io.Reader, file *AnalysisFile) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(file); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %v", domain.ErrInvalidConfig, err)
	}
	return nil
}

// Build converts the file into a validated domain.AnalysisConfig
func (f *AnalysisFile) Build() (*domain.AnalysisConfig, error) {
	keywords := make(domain.KeywordSpec, 0, len(f.Keywords))
	for _, phrase := range f.Keywords {
		keywords = append(keywords, domain.ParseNGram(phrase))
	}

	lemmatize := true
	if f.Lemmatize != nil {
		lemmatize = *f.Lemmatize
	}

	cfg := &domain.AnalysisConfig{
		Stopwords:  domain.NewStopwordSet(textfilters.EnglishStopwords, f.ExtraStopwords),
		Lemmatize:  lemmatize,
		Keywords:   keywords,
		WindowSize: f.WindowSize,
		TopK:       f.TopK,
		NGramSizes: f.NGramSizes,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
