package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/custodia-labs/energy-index/internal/core/domain"
	"github.com/custodia-labs/energy-index/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.RunStore = (*RunStore)(nil)

// RunStore implements driven.RunStore using PostgreSQL
type RunStore struct {
	db *DB
}

// NewRunStore creates a new RunStore
func NewRunStore(db *DB) *RunStore {
	return &RunStore{db: db}
}

const runColumns = `id, corpus, status, documents_scored, documents_skipped, empty_documents,
		       mean_score, max_score, report_path, chart_paths, error, started_at, completed_at`

// SaveRun creates or updates a run
func (s *RunStore) SaveRun(ctx context.Context, run *domain.Run) error {
	query := `
		INSERT INTO runs (` + runColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			documents_scored = EXCLUDED.documents_scored,
			documents_skipped = EXCLUDED.documents_skipped,
			empty_documents = EXCLUDED.empty_documents,
			mean_score = EXCLUDED.mean_score,
			max_score = EXCLUDED.max_score,
			report_path = EXCLUDED.report_path,
			chart_paths = EXCLUDED.chart_paths,
			error = EXCLUDED.error,
			completed_at = EXCLUDED.completed_at
	`

	chartPaths := run.Artifacts.ChartPaths
	if chartPaths == nil {
		chartPaths = []string{}
	}

	_, err := s.db.ExecContext(ctx, query,
		run.ID,
		run.Corpus,
		string(run.Status),
		run.Stats.DocumentsScored,
		run.Stats.DocumentsSkipped,
		run.Stats.EmptyDocuments,
		run.Stats.MeanScore,
		run.Stats.MaxScore,
		run.Artifacts.ReportPath,
		pq.Array(chartPaths),
		run.Error,
		run.StartedAt,
		NullTime(run.CompletedAt),
	)
	return err
}

// SaveRecords replaces the records of a run in one transaction
func (s *RunStore) SaveRecords(ctx context.Context, runID string, records []domain.IndexRecord) error {
	return s.db.Transaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM run_records WHERE run_id = $1`, runID); err != nil {
			return err
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO run_records (run_id, position, bill_id, description, chamber, created_date, score, url)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for i, r := range records {
			if _, err := stmt.ExecContext(ctx, runID, i, r.BillID, r.Description, r.Chamber, r.CreatedDate, r.Score, r.URL); err != nil {
				return fmt.Errorf("insert record %s: %w", r.BillID, err)
			}
		}
		return nil
	})
}

// SaveFrequencies replaces the n-gram tables of a run in one transaction.
// Entries are stored as a JSONB array in table order.
func (s *RunStore) SaveFrequencies(ctx context.Context, runID string, tables []*domain.FrequencyTable) error {
	return s.db.Transaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM run_frequencies WHERE run_id = $1`, runID); err != nil {
			return err
		}

		for _, t := range tables {
			entries := t.Entries
			if entries == nil {
				entries = []domain.FrequencyEntry{}
			}
			data, err := json.Marshal(entries)
			if err != nil {
				return fmt.Errorf("encode %d-gram table: %w", t.N, err)
			}
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO run_frequencies (run_id, n, corpus, entries)
				VALUES ($1, $2, $3, $4)
			`, runID, t.N, t.Corpus, data); err != nil {
				return fmt.Errorf("insert %d-gram table: %w", t.N, err)
			}
		}
		return nil
	})
}

// GetFrequencies retrieves the n-gram table of a run
func (s *RunStore) GetFrequencies(ctx context.Context, runID string, n int) (*domain.FrequencyTable, error) {
	table := &domain.FrequencyTable{N: n}
	var data []byte

	err := s.db.QueryRowContext(ctx,
		`SELECT corpus, entries FROM run_frequencies WHERE run_id = $1 AND n = $2`,
		runID, n,
	).Scan(&table.Corpus, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(data, &table.Entries); err != nil {
		return nil, fmt.Errorf("decode %d-gram table: %w", n, err)
	}
	return table, nil
}

// GetRun retrieves a run by ID
func (s *RunStore) GetRun(ctx context.Context, id string) (*domain.Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs WHERE id = $1`
	return scanRun(s.db.QueryRowContext(ctx, query, id))
}

// LatestRun retrieves the most recent completed run for a corpus
func (s *RunStore) LatestRun(ctx context.Context, corpus string) (*domain.Run, error) {
	query := `
		SELECT ` + runColumns + `
		FROM runs
		WHERE corpus = $1 AND status = $2
		ORDER BY completed_at DESC
		LIMIT 1
	`
	return scanRun(s.db.QueryRowContext(ctx, query, corpus, string(domain.RunStatusCompleted)))
}

// GetRecords retrieves the records of a run in report order
func (s *RunStore) GetRecords(ctx context.Context, runID string) ([]domain.IndexRecord, error) {
	query := `
		SELECT bill_id, description, chamber, created_date, score, url
		FROM run_records
		WHERE run_id = $1
		ORDER BY position
	`

	rows, err := s.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []domain.IndexRecord{}
	for rows.Next() {
		var r domain.IndexRecord
		if err := rows.Scan(&r.BillID, &r.Description, &r.Chamber, &r.CreatedDate, &r.Score, &r.URL); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func scanRun(row *sql.Row) (*domain.Run, error) {
	var run domain.Run
	var chartPaths pq.StringArray
	var completedAt sql.NullTime

	err := row.Scan(
		&run.ID,
		&run.Corpus,
		&run.Status,
		&run.Stats.DocumentsScored,
		&run.Stats.DocumentsSkipped,
		&run.Stats.EmptyDocuments,
		&run.Stats.MeanScore,
		&run.Stats.MaxScore,
		&run.Artifacts.ReportPath,
		&chartPaths,
		&run.Error,
		&run.StartedAt,
		&completedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if len(chartPaths) > 0 {
		run.Artifacts.ChartPaths = []string(chartPaths)
	}
	run.CompletedAt = TimePtr(completedAt)
	return &run, nil
}
