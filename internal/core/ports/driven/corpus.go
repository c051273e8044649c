package driven

import (
	"context"

	"github.com/custodia-labs/energy-index/internal/core/domain"
)

// CorpusLoader reads the bills of one corpus into memory.
// Implementations read from a JSON file or from PostgreSQL.
type CorpusLoader interface {
	// Load returns the corpus described by the job.
	// Malformed input fails with an error wrapping domain.ErrInvalidCorpus.
	Load(ctx context.Context, job domain.Job) (*domain.Corpus, error)
}

// BillStore handles bill persistence (PostgreSQL)
type BillStore interface {
	CorpusLoader

	// SaveCorpus creates or updates every bill of a corpus in a transaction
	SaveCorpus(ctx context.Context, corpus *domain.Corpus) error

	// Count returns the number of bills stored for a corpus
	Count(ctx context.Context, corpus string) (int, error)
}
