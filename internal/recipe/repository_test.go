package recipe

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"weekly-menu/internal/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	db, err := database.NewDB(filepath.Join(t.TempDir(), "recipes.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(db.SQL, zap.NewNop())
}

func TestRepository(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	t.Run("GetMissing", func(t *testing.T) {
		got, err := repo.Get(ctx, "nope")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("SaveAssignsIDAndTimestamp", func(t *testing.T) {
		rec := &Recipe{Title: "Gazpacho", MealCategory: MealLunch, Ingredients: []Ingredient{{Name: "Tomate", Quantity: 1, Unit: "kg"}}}
		require.NoError(t, repo.Save(ctx, rec))
		assert.NotEmpty(t, rec.ID)
		assert.False(t, rec.CreatedAt.IsZero())

		got, err := repo.Get(ctx, rec.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Gazpacho", got.Title)
		assert.Equal(t, rec.Ingredients, got.Ingredients)
	})

	t.Run("SaveUpdatesExisting", func(t *testing.T) {
		rec := &Recipe{ID: "fixed", Title: "Tortilla"}
		require.NoError(t, repo.Save(ctx, rec))
		rec.Title = "Tortilla de patatas"
		require.NoError(t, repo.Save(ctx, rec))

		got, err := repo.Get(ctx, "fixed")
		require.NoError(t, err)
		assert.Equal(t, "Tortilla de patatas", got.Title)
	})
}

func TestRepository_BulkListAndLookup(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	fallback := MustFallback()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range fallback {
		fallback[i].CreatedAt = base.Add(time.Duration(i) * time.Hour)
	}
	require.NoError(t, repo.BulkSave(ctx, fallback))

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(fallback), count)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, len(fallback))
	assert.Equal(t, fallback[len(fallback)-1].ID, list[0].ID, "newest first")

	byID, err := repo.GetByIDs(ctx, []string{"sample-1", "sample-3", "ghost"})
	require.NoError(t, err)
	assert.Len(t, byID, 2)
	assert.Equal(t, "Pasta Mediterránea", byID["sample-1"].Title)
	_, ok := byID["ghost"]
	assert.False(t, ok)

	empty, err := repo.GetByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)

	require.NoError(t, repo.Delete(ctx, "sample-1"))
	got, err := repo.Get(ctx, "sample-1")
	require.NoError(t, err)
	assert.Nil(t, got)
}
