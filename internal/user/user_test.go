package user

import (
	"context"
	"path/filepath"
	"testing"

	"weekly-menu/internal/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestEffectiveHouseholdSize(t *testing.T) {
	var nilUser *User
	assert.Equal(t, 1, nilUser.EffectiveHouseholdSize())
	assert.Equal(t, 1, (&User{}).EffectiveHouseholdSize())
	assert.Equal(t, 4, (&User{HouseholdSize: 4}).EffectiveHouseholdSize())
}

func TestToggleFavorite(t *testing.T) {
	u := &User{FavoriteRecipes: []string{"a", "b"}}

	assert.True(t, u.ToggleFavorite("c"))
	assert.Equal(t, []string{"a", "b", "c"}, u.FavoriteRecipes)

	assert.False(t, u.ToggleFavorite("a"))
	assert.Equal(t, []string{"b", "c"}, u.FavoriteRecipes)
	assert.False(t, u.IsFavorite("a"))
	assert.True(t, u.IsFavorite("b"))
}

func TestProfileUpdate_Apply(t *testing.T) {
	size := 3
	name := "Lucía"
	u := &User{ID: "u1", FullName: "old", HouseholdSize: 1, WeeklyBudget: 80}

	ProfileUpdate{FullName: &name, HouseholdSize: &size, DietaryPreferences: []string{"vegetariano"}}.Apply(u)

	assert.Equal(t, "Lucía", u.FullName)
	assert.Equal(t, 3, u.HouseholdSize)
	assert.Equal(t, []string{"vegetariano"}, u.DietaryPreferences)
	assert.Equal(t, 80.0, u.WeeklyBudget, "unset fields are kept")
}

func TestRepository(t *testing.T) {
	ctx := context.Background()
	db, err := database.NewDB(filepath.Join(t.TempDir(), "users.db"), zap.NewNop())
	require.NoError(t, err)
	defer db.Close()
	repo := NewRepository(db.SQL)

	got, err := repo.Get(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, got)

	u := &User{ID: "u1", Email: "ana@example.com", HouseholdSize: 2, FavoriteRecipes: []string{"sample-1"}}
	require.NoError(t, repo.Save(ctx, u))

	u.HouseholdSize = 5
	require.NoError(t, repo.Save(ctx, u))

	got, err = repo.Get(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 5, got.HouseholdSize)
	assert.Equal(t, []string{"sample-1"}, got.FavoriteRecipes)

	assert.Error(t, repo.Save(ctx, &User{}))
}
