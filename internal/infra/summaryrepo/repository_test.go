package summaryrepo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/summarizer-backend/internal/domain/summarizer"
	"github.com/yanqian/summarizer-backend/internal/infra/db"
)

func TestRepositories(t *testing.T) {
	implementations := map[string]func(t *testing.T) summarizer.Repository{
		"memory": func(*testing.T) summarizer.Repository { return NewMemoryRepository() },
		"sqlite": func(t *testing.T) summarizer.Repository {
			conn, err := db.OpenSQLite(":memory:")
			require.NoError(t, err)
			t.Cleanup(func() { _ = conn.Close() })
			require.NoError(t, db.MigrateSQLite(context.Background(), conn))
			return NewSQLiteRepository(conn)
		},
	}

	for name, build := range implementations {
		t.Run(name, func(t *testing.T) {
			t.Run("create and get", func(t *testing.T) {
				repo := build(t)
				ctx := context.Background()
				created, err := repo.Create(ctx, newSummary(1, baseTime))
				require.NoError(t, err)
				require.NotZero(t, created.ID)

				got, found, err := repo.Get(ctx, created.ID, 1)
				require.NoError(t, err)
				require.True(t, found)
				require.Equal(t, created.OriginalText, got.OriginalText)
				require.Equal(t, summarizer.LengthShort, got.Length)
				require.InDelta(t, 0.95, got.TopP, 1e-9)
				require.True(t, got.CreatedAt.Equal(baseTime))
				require.True(t, got.OwnedBy(1))

				_, found, err = repo.Get(ctx, created.ID, 2)
				require.NoError(t, err)
				require.False(t, found)
			})

			t.Run("save overwrites mutable fields", func(t *testing.T) {
				repo := build(t)
				ctx := context.Background()
				created, err := repo.Create(ctx, newSummary(1, baseTime))
				require.NoError(t, err)

				created.SummaryText = "Edited."
				created.IsFavorite = true
				created.OriginalText = "must not change"
				created.ModifiedAt = baseTime.Add(time.Hour)
				saved, err := repo.Save(ctx, created)
				require.NoError(t, err)
				require.Equal(t, "Edited.", saved.SummaryText)
				require.True(t, saved.IsFavorite)
				require.Equal(t, "Original text body.", saved.OriginalText)
				require.True(t, saved.ModifiedAt.Equal(baseTime.Add(time.Hour)))
				require.True(t, saved.CreatedAt.Equal(baseTime))

				other := int64(2)
				created.UserID = &other
				_, err = repo.Save(ctx, created)
				require.ErrorIs(t, err, summarizer.ErrSummaryNotFound)
			})

			t.Run("list newest first with favorite filter", func(t *testing.T) {
				repo := build(t)
				ctx := context.Background()
				var ids []int64
				for i := 0; i < 3; i++ {
					s := newSummary(1, baseTime.Add(time.Duration(i)*time.Minute))
					s.IsFavorite = i != 1
					created, err := repo.Create(ctx, s)
					require.NoError(t, err)
					ids = append(ids, created.ID)
				}
				_, err := repo.Create(ctx, newSummary(2, baseTime))
				require.NoError(t, err)

				all, err := repo.List(ctx, 1, summarizer.ListFilter{})
				require.NoError(t, err)
				require.Len(t, all, 3)
				require.Equal(t, []int64{ids[2], ids[1], ids[0]}, summaryIDs(all))

				fav := true
				favorites, err := repo.List(ctx, 1, summarizer.ListFilter{Favorite: &fav})
				require.NoError(t, err)
				require.Equal(t, []int64{ids[2], ids[0]}, summaryIDs(favorites))

				notFav := false
				rest, err := repo.List(ctx, 1, summarizer.ListFilter{Favorite: &notFav})
				require.NoError(t, err)
				require.Equal(t, []int64{ids[1]}, summaryIDs(rest))

				empty, err := repo.List(ctx, 99, summarizer.ListFilter{})
				require.NoError(t, err)
				require.NotNil(t, empty)
				require.Empty(t, empty)
			})
		})
	}
}

var baseTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newSummary(owner int64, at time.Time) summarizer.Summary {
	return summarizer.Summary{
		UserID:       &owner,
		OriginalText: "Original text body.",
		SummaryText:  "Summary text.",
		Length:       summarizer.LengthShort,
		Tonality:     "neutral",
		Temperature:  0.65,
		TopP:         0.95,
		CreatedAt:    at,
		ModifiedAt:   at,
		ModelUsed:    "llama3.2:1b",
	}
}

func summaryIDs(items []summarizer.Summary) []int64 {
	out := make([]int64, 0, len(items))
	for _, item := range items {
		out = append(out, item.ID)
	}
	return out
}
