package summarizer

import "context"

// Repository persists summaries. Every lookup is scoped to the owner.
type Repository interface {
	Create(ctx context.Context, summary Summary) (Summary, error)
	Get(ctx context.Context, id, userID int64) (Summary, bool, error)
	// Save overwrites the mutable columns of an owned record and returns
	// ErrSummaryNotFound when no such record exists. Concurrent saves are
	// last-write-wins.
	Save(ctx context.Context, summary Summary) (Summary, error)
	List(ctx context.Context, userID int64, filter ListFilter) ([]Summary, error)
}
