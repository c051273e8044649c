package filesystem

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/custodia-labs/energy-index/internal/core/domain"
	"github.com/custodia-labs/energy-index/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.CorpusLoader = (*CorpusLoader)(nil)

// CorpusLoader reads bill corpora from JSON files.
//
// The file is either an object keyed by bill ID or an array of bills. Object
// key order is preserved, so records come out in the order they were scraped.
type CorpusLoader struct{}

// NewCorpusLoader creates a new JSON corpus loader.
func NewCorpusLoader() *CorpusLoader {
	return &CorpusLoader{}
}

// Load reads the JSON file named by job.Path.
func (l *CorpusLoader) Load(ctx context.Context, job domain.Job) (*domain.Corpus, error) {
	if job.Path == "" {
		return nil, fmt.Errorf("%w: corpus %s has no file path", domain.ErrInvalidInput, job.Corpus)
	}

	f, err := os.Open(job.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("corpus file %s: %w", job.Path, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("open corpus file: %w", err)
	}
	defer f.Close()

	bills, err := DecodeBills(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("corpus file %s: %w", job.Path, err)
	}

	return domain.NewCorpus(job.Corpus, bills), nil
}

// DecodeBills decodes a JSON object of bills keyed by ID, or a JSON array of
// bills. Bills without an "id" field take their object key as ID.
func DecodeBills(ctx context.Context, r io.Reader) ([]*domain.Bill, error) {
	dec := json.NewDecoder(r)

	tok, err := dec.Token()
	if err != nil {
		return nil, invalidCorpus(err)
	}

	var bills []*domain.Bill
	switch tok {
	case json.Delim('{'):
		for dec.More() {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			keyTok, err := dec.Token()
			if err != nil {
				return nil, invalidCorpus(err)
			}
			key, _ := keyTok.(string)

			var b domain.Bill
			if err := dec.Decode(&b); err != nil {
				return nil, invalidCorpus(fmt.Errorf("bill %q: %w", key, err))
			}
			if b.ID == "" {
				b.ID = key
			}
			bills = append(bills, &b)
		}
	case json.Delim('['):
		for i := 0; dec.More(); i++ {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			var b domain.Bill
			if err := dec.Decode(&b); err != nil {
				return nil, invalidCorpus(fmt.Errorf("bill %d: %w", i, err))
			}
			bills = append(bills, &b)
		}
	default:
		return nil, invalidCorpus(fmt.Errorf("expected object or array, got %v", tok))
	}

	// Closing delimiter
	if _, err := dec.Token(); err != nil {
		return nil, invalidCorpus(err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, invalidCorpus(errors.New("trailing data after corpus"))
	}

	return bills, nil
}

func invalidCorpus(err error) error {
	return fmt.Errorf("%w: %v", domain.ErrInvalidCorpus, err)
}
