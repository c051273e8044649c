package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/custodia-labs/energy-index/internal/core/domain"
	"github.com/custodia-labs/energy-index/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.BillStore = (*BillStore)(nil)

// BillStore implements driven.BillStore using PostgreSQL.
// Bills keep their source order through the position column.
type BillStore struct {
	db *DB
}

// NewBillStore creates a new BillStore
func NewBillStore(db *DB) *BillStore {
	return &BillStore{db: db}
}

// Load reads every bill of the job's corpus in source order.
// An unknown corpus loads as an empty corpus.
func (s *BillStore) Load(ctx context.Context, job domain.Job) (*domain.Corpus, error) {
	if job.Corpus == "" {
		return nil, fmt.Errorf("%w: corpus name required", domain.ErrInvalidInput)
	}

	query := `
		SELECT id, title, chamber, created_date, text, link, mime_type
		FROM bills
		WHERE corpus = $1
		ORDER BY position
	`

	rows, err := s.db.QueryContext(ctx, query, job.Corpus)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bills []*domain.Bill
	for rows.Next() {
		var b domain.Bill
		var text sql.NullString
		if err := rows.Scan(&b.ID, &b.Title, &b.Chamber, &b.CreatedDate, &text, &b.Link, &b.MimeType); err != nil {
			return nil, err
		}
		b.Text = text.String
		bills = append(bills, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return domain.NewCorpus(job.Corpus, bills), nil
}

// SaveCorpus replaces the stored bills of a corpus in one transaction
func (s *BillStore) SaveCorpus(ctx context.Context, corpus *domain.Corpus) error {
	if corpus == nil || corpus.Name == "" {
		return fmt.Errorf("%w: corpus name required", domain.ErrInvalidInput)
	}

	return s.db.Transaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM bills WHERE corpus = $1`, corpus.Name); err != nil {
			return err
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO bills (corpus, id, position, title, chamber, created_date, text, link, mime_type)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (corpus, id) DO UPDATE SET
				position = EXCLUDED.position,
				title = EXCLUDED.title,
				chamber = EXCLUDED.chamber,
				created_date = EXCLUDED.created_date,
				text = EXCLUDED.text,
				link = EXCLUDED.link,
				mime_type = EXCLUDED.mime_type
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for i, b := range corpus.Bills {
			if _, err := stmt.ExecContext(ctx,
				corpus.Name, b.ID, i, b.Title, b.Chamber, b.CreatedDate, NullText(b.Text), b.Link, b.MimeType,
			); err != nil {
				return fmt.Errorf("insert bill %s: %w", b.ID, err)
			}
		}
		return nil
	})
}

// Count returns the number of bills stored for a corpus
func (s *BillStore) Count(ctx context.Context, corpus string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM bills WHERE corpus = $1`, corpus).Scan(&count)
	return count, err
}
