package summaryrepo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/yanqian/summarizer-backend/internal/domain/summarizer"
)

// SQLiteRepository persists summaries in an embedded SQLite database.
// Timestamps are stored as unix nanoseconds so ordering survives
// sub-second inserts.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new repository over an already migrated database.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Create inserts the record and returns it with its id.
func (r *SQLiteRepository) Create(ctx context.Context, s summarizer.Summary) (summarizer.Summary, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO summaries (user_id, original_text, summary_text, length, tonality, temperature, top_p,
			focus, is_favorite, created_at, modified_at, model_used)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, nullableOwner(s.UserID), s.OriginalText, s.SummaryText, string(s.Length), s.Tonality, s.Temperature, s.TopP,
		s.Focus, s.IsFavorite, s.CreatedAt.UnixNano(), s.ModifiedAt.UnixNano(), s.ModelUsed)
	if err != nil {
		return summarizer.Summary{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return summarizer.Summary{}, err
	}
	record, found, err := r.get(ctx, id)
	if err != nil {
		return summarizer.Summary{}, err
	}
	if !found {
		return summarizer.Summary{}, summarizer.ErrSummaryNotFound
	}
	return record, nil
}

// Get fetches a record scoped to its owner.
func (r *SQLiteRepository) Get(ctx context.Context, id, userID int64) (summarizer.Summary, bool, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+summaryColumns+` FROM summaries WHERE id = ? AND user_id = ?`, id, userID)
	return scanSQLiteRow(row)
}

func (r *SQLiteRepository) get(ctx context.Context, id int64) (summarizer.Summary, bool, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+summaryColumns+` FROM summaries WHERE id = ?`, id)
	return scanSQLiteRow(row)
}

// Save overwrites the mutable columns of an owned record.
func (r *SQLiteRepository) Save(ctx context.Context, s summarizer.Summary) (summarizer.Summary, error) {
	if s.UserID == nil {
		return summarizer.Summary{}, summarizer.ErrSummaryNotFound
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE summaries SET
			summary_text = ?, length = ?, tonality = ?, temperature = ?, top_p = ?,
			focus = ?, is_favorite = ?, modified_at = ?
		WHERE id = ? AND user_id = ?
	`, s.SummaryText, string(s.Length), s.Tonality, s.Temperature, s.TopP,
		s.Focus, s.IsFavorite, s.ModifiedAt.UnixNano(), s.ID, *s.UserID)
	if err != nil {
		return summarizer.Summary{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return summarizer.Summary{}, err
	}
	if affected == 0 {
		return summarizer.Summary{}, summarizer.ErrSummaryNotFound
	}
	record, found, err := r.Get(ctx, s.ID, *s.UserID)
	if err != nil {
		return summarizer.Summary{}, err
	}
	if !found {
		return summarizer.Summary{}, summarizer.ErrSummaryNotFound
	}
	return record, nil
}

// List returns the user's records, newest first.
func (r *SQLiteRepository) List(ctx context.Context, userID int64, filter summarizer.ListFilter) ([]summarizer.Summary, error) {
	query := `SELECT ` + summaryColumns + ` FROM summaries WHERE user_id = ?`
	args := []any{userID}
	if filter.Favorite != nil {
		query += ` AND is_favorite = ?`
		args = append(args, *filter.Favorite)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]summarizer.Summary, 0)
	for rows.Next() {
		record, err := scanSQLiteSummary(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, record)
	}
	return out, rows.Err()
}

func scanSQLiteRow(row *sql.Row) (summarizer.Summary, bool, error) {
	record, err := scanSQLiteSummary(row)
	if errors.Is(err, sql.ErrNoRows) {
		return summarizer.Summary{}, false, nil
	}
	if err != nil {
		return summarizer.Summary{}, false, err
	}
	return record, true, nil
}

func scanSQLiteSummary(row rowScanner) (summarizer.Summary, error) {
	var (
		s                 summarizer.Summary
		owner             sql.NullInt64
		length            string
		created, modified int64
	)
	if err := row.Scan(&s.ID, &owner, &s.OriginalText, &s.SummaryText, &length, &s.Tonality,
		&s.Temperature, &s.TopP, &s.Focus, &s.IsFavorite, &created, &modified, &s.ModelUsed); err != nil {
		return summarizer.Summary{}, err
	}
	if owner.Valid {
		id := owner.Int64
		s.UserID = &id
	}
	s.Length = summarizer.LengthClass(length)
	s.CreatedAt = time.Unix(0, created).UTC()
	s.ModifiedAt = time.Unix(0, modified).UTC()
	return s, nil
}

func nullableOwner(userID *int64) sql.NullInt64 {
	if userID == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *userID, Valid: true}
}

var _ summarizer.Repository = (*SQLiteRepository)(nil)
