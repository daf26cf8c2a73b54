package summaryrepo

import (
	"context"
	"sort"
	"sync"

	"github.com/yanqian/summarizer-backend/internal/domain/summarizer"
)

// MemoryRepository keeps summaries in process memory for tests/dev.
type MemoryRepository struct {
	mu      sync.RWMutex
	records map[int64]summarizer.Summary
	seq     int64
}

// NewMemoryRepository constructs an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{records: make(map[int64]summarizer.Summary)}
}

// Create assigns an id and stores the record.
func (r *MemoryRepository) Create(_ context.Context, summary summarizer.Summary) (summarizer.Summary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	summary.ID = r.seq
	r.records[summary.ID] = cloneSummary(summary)
	return summary, nil
}

// Get returns the record when it belongs to userID.
func (r *MemoryRepository) Get(_ context.Context, id, userID int64) (summarizer.Summary, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	record, ok := r.records[id]
	if !ok || !record.OwnedBy(userID) {
		return summarizer.Summary{}, false, nil
	}
	return cloneSummary(record), true, nil
}

// Save overwrites the mutable fields of an owned record.
func (r *MemoryRepository) Save(_ context.Context, summary summarizer.Summary) (summarizer.Summary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.records[summary.ID]
	if !ok || summary.UserID == nil || !existing.OwnedBy(*summary.UserID) {
		return summarizer.Summary{}, summarizer.ErrSummaryNotFound
	}
	existing.SummaryText = summary.SummaryText
	existing.Length = summary.Length
	existing.Tonality = summary.Tonality
	existing.Temperature = summary.Temperature
	existing.TopP = summary.TopP
	existing.Focus = summary.Focus
	existing.IsFavorite = summary.IsFavorite
	existing.ModifiedAt = summary.ModifiedAt
	r.records[summary.ID] = existing
	return cloneSummary(existing), nil
}

// List returns the user's records, newest first.
func (r *MemoryRepository) List(_ context.Context, userID int64, filter summarizer.ListFilter) ([]summarizer.Summary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]summarizer.Summary, 0)
	for _, record := range r.records {
		if !record.OwnedBy(userID) {
			continue
		}
		if filter.Favorite != nil && record.IsFavorite != *filter.Favorite {
			continue
		}
		out = append(out, cloneSummary(record))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// cloneSummary detaches the owner pointer from the stored copy.
func cloneSummary(s summarizer.Summary) summarizer.Summary {
	if s.UserID != nil {
		owner := *s.UserID
		s.UserID = &owner
	}
	return s
}

var _ summarizer.Repository = (*MemoryRepository)(nil)
