package summaryrepo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/summarizer-backend/internal/domain/summarizer"
)

const summaryColumns = `id, user_id, original_text, summary_text, length, tonality, temperature, top_p,
	focus, is_favorite, created_at, modified_at, model_used`

// PostgresRepository persists summaries in Postgres.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Create inserts the record and returns it with its id.
func (r *PostgresRepository) Create(ctx context.Context, s summarizer.Summary) (summarizer.Summary, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO summaries (user_id, original_text, summary_text, length, tonality, temperature, top_p,
			focus, is_favorite, created_at, modified_at, model_used)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING `+summaryColumns,
		s.UserID, s.OriginalText, s.SummaryText, string(s.Length), s.Tonality, s.Temperature, s.TopP,
		s.Focus, s.IsFavorite, s.CreatedAt, s.ModifiedAt, s.ModelUsed)
	return scanPostgresSummary(row)
}

// Get fetches a record scoped to its owner.
func (r *PostgresRepository) Get(ctx context.Context, id, userID int64) (summarizer.Summary, bool, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+summaryColumns+` FROM summaries WHERE id = $1 AND user_id = $2`, id, userID)
	record, err := scanPostgresSummary(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return summarizer.Summary{}, false, nil
	}
	if err != nil {
		return summarizer.Summary{}, false, err
	}
	return record, true, nil
}

// Save overwrites the mutable columns of an owned record.
func (r *PostgresRepository) Save(ctx context.Context, s summarizer.Summary) (summarizer.Summary, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE summaries SET
			summary_text = $3, length = $4, tonality = $5, temperature = $6, top_p = $7,
			focus = $8, is_favorite = $9, modified_at = $10
		WHERE id = $1 AND user_id = $2
		RETURNING `+summaryColumns,
		s.ID, s.UserID, s.SummaryText, string(s.Length), s.Tonality, s.Temperature, s.TopP,
		s.Focus, s.IsFavorite, s.ModifiedAt)
	record, err := scanPostgresSummary(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return summarizer.Summary{}, summarizer.ErrSummaryNotFound
	}
	return record, err
}

// List returns the user's records, newest first.
func (r *PostgresRepository) List(ctx context.Context, userID int64, filter summarizer.ListFilter) ([]summarizer.Summary, error) {
	query := `SELECT ` + summaryColumns + ` FROM summaries WHERE user_id = $1`
	args := []any{userID}
	if filter.Favorite != nil {
		query += ` AND is_favorite = $2`
		args = append(args, *filter.Favorite)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]summarizer.Summary, 0)
	for rows.Next() {
		record, err := scanPostgresSummary(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, record)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPostgresSummary(row rowScanner) (summarizer.Summary, error) {
	var (
		s                 summarizer.Summary
		length            string
		created, modified time.Time
	)
	if err := row.Scan(&s.ID, &s.UserID, &s.OriginalText, &s.SummaryText, &length, &s.Tonality,
		&s.Temperature, &s.TopP, &s.Focus, &s.IsFavorite, &created, &modified, &s.ModelUsed); err != nil {
		return summarizer.Summary{}, err
	}
	s.Length = summarizer.LengthClass(length)
	s.CreatedAt = created.UTC()
	s.ModifiedAt = modified.UTC()
	return s, nil
}

var _ summarizer.Repository = (*PostgresRepository)(nil)
