package planner

import (
	"context"
	"path/filepath"
	"testing"

	"weekly-menu/internal/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPlanRepository(t *testing.T) {
	ctx := context.Background()
	db, err := database.NewDB(filepath.Join(t.TempDir(), "plans.db"), zap.NewNop())
	require.NoError(t, err)
	defer db.Close()
	repo := NewPlanRepository(db.SQL)

	got, err := repo.GetByOwnerAndWeek(ctx, "u1", "2025-06-02")
	require.NoError(t, err)
	assert.Nil(t, got)

	first := &MealPlan{OwnerID: "u1", WeekStart: "2025-06-02", Status: StatusPlanning}
	require.NoError(t, repo.Save(ctx, first))
	assert.NotEmpty(t, first.ID)

	second := &MealPlan{OwnerID: "u1", WeekStart: "2025-06-02", Status: StatusActive,
		Meals: []PlannedMeal{{Date: "2025-06-02", MealType: Dinner, RecipeID: "R1", Servings: 2}}}
	require.NoError(t, repo.Save(ctx, second))
	assert.Equal(t, first.ID, second.ID, "one plan per owner and week")

	got, err = repo.GetByOwnerAndWeek(ctx, "u1", "2025-06-02")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, StatusActive, got.Status)
	assert.Equal(t, second.Meals, got.Meals)

	require.NoError(t, repo.Save(ctx, &MealPlan{OwnerID: "u1", WeekStart: "2025-05-26"}))
	require.NoError(t, repo.Save(ctx, &MealPlan{OwnerID: "u2", WeekStart: "2025-06-09"}))

	recent, err := repo.ListRecent(ctx, "u1", 10)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "2025-06-02", recent[0].WeekStart)
	assert.Equal(t, "2025-05-26", recent[1].WeekStart)
}
