package planner

import (
	"context"
	"errors"
	"math/rand/v2"
	"path/filepath"
	"testing"
	"time"

	"weekly-menu/internal/database"
	"weekly-menu/internal/recipe"
	"weekly-menu/internal/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type failingRepository struct {
	err error
}

func (f *failingRepository) GetByOwnerAndWeek(ctx context.Context, ownerID, weekStart string) (*MealPlan, error) {
	return nil, nil
}

func (f *failingRepository) Save(ctx context.Context, plan *MealPlan) error {
	return f.err
}

func (f *failingRepository) ListRecent(ctx context.Context, ownerID string, limit int) ([]MealPlan, error) {
	return nil, f.err
}

var testToday = time.Date(2025, 6, 4, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*Service, *PlanRepository, *MemoryCache) {
	t.Helper()
	db, err := database.NewDB(filepath.Join(t.TempDir(), "plans.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := NewPlanRepository(db.SQL)
	cache := NewMemoryCache(time.Hour)
	svc := NewService(repo, cache, zap.NewNop()).WithClock(func() time.Time { return testToday })
	svc.rand = rand.New(rand.NewPCG(1, 2))
	return svc, repo, cache
}

func TestService_AddAndRemoveMeal(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newTestService(t)
	u := &user.User{ID: "u1", Email: "ana@example.com", HouseholdSize: 3}

	plan, err := svc.AddMeal(ctx, u, "R1", "2025-06-03", Dinner)
	require.NoError(t, err)
	assert.Equal(t, "2025-06-02", plan.WeekStart)
	assert.Equal(t, StatusPlanning, plan.Status)
	require.Len(t, plan.Meals, 1)
	assert.Equal(t, 3, plan.Meals[0].Servings)

	plan, err = svc.AddMeal(ctx, u, "R2", "2025-06-03", Dinner)
	require.NoError(t, err)
	assert.Equal(t, StatusActive, plan.Status)
	require.Len(t, plan.Meals, 1, "slot replaced")
	assert.Equal(t, "R2", plan.Meals[0].RecipeID)

	stored, err := repo.GetByOwnerAndWeek(ctx, "u1", "2025-06-02")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, plan.ID, stored.ID)
	assert.Equal(t, "R2", stored.Meals[0].RecipeID)

	plan, err = svc.RemoveMeal(ctx, u, "2025-06-03", Dinner)
	require.NoError(t, err)
	assert.False(t, plan.HasMeals())

	t.Run("OutsideWindow", func(t *testing.T) {
		_, err := svc.AddMeal(ctx, u, "R1", "2025-07-01", Lunch)
		assert.ErrorIs(t, err, ErrOutsideWindow)
	})

	t.Run("InvalidMealType", func(t *testing.T) {
		_, err := svc.AddMeal(ctx, u, "R1", "2025-06-03", "brunch")
		assert.Error(t, err)
	})

	t.Run("RemoveWithoutPlan", func(t *testing.T) {
		_, err := svc.RemoveMeal(ctx, u, "2025-06-10", Dinner)
		assert.ErrorIs(t, err, ErrPlanNotFound)
	})
}

type countingRepository struct {
	*PlanRepository
	saves int
}

func (c *countingRepository) Save(ctx context.Context, plan *MealPlan) error {
	c.saves++
	return c.PlanRepository.Save(ctx, plan)
}

func TestService_AddSameMealTwiceSavesOnce(t *testing.T) {
	ctx := context.Background()
	_, repo, cache := newTestService(t)
	counting := &countingRepository{PlanRepository: repo}
	svc := NewService(counting, cache, zap.NewNop()).WithClock(func() time.Time { return testToday })
	u := &user.User{ID: "u1", Email: "ana@example.com", HouseholdSize: 2}

	first, err := svc.AddMeal(ctx, u, "R1", "2025-06-03", Dinner)
	require.NoError(t, err)
	again, err := svc.AddMeal(ctx, u, "R1", "2025-06-03", Dinner)
	require.NoError(t, err)

	assert.Equal(t, 1, counting.saves)
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, StatusPlanning, again.Status, "unchanged plan keeps its status")

	u.HouseholdSize = 4
	_, err = svc.AddMeal(ctx, u, "R1", "2025-06-03", Dinner)
	require.NoError(t, err)
	assert.Equal(t, 2, counting.saves, "servings changed")
}

func TestService_GetUsesCache(t *testing.T) {
	ctx := context.Background()
	svc, repo, cache := newTestService(t)
	u := &user.User{ID: "u1", Email: "ana@example.com"}

	got, err := svc.Get(ctx, u, "2025-06-04")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, repo.Save(ctx, &MealPlan{OwnerID: "u1", WeekStart: "2025-06-02",
		Meals: []PlannedMeal{{Date: "2025-06-02", MealType: Lunch, RecipeID: "R1"}}}))

	got, err = svc.Get(ctx, u, "2025-06-04")
	require.NoError(t, err)
	require.NotNil(t, got)

	cached, err := cache.Get(ctx, CacheKey("2025-06-02", "ana@example.com"))
	require.NoError(t, err)
	require.NotNil(t, cached, "read fills the cache")

	t.Run("MismatchedWeekDiscarded", func(t *testing.T) {
		key := CacheKey("2025-06-02", "ana@example.com")
		require.NoError(t, cache.Set(ctx, key, &MealPlan{OwnerID: "u1", WeekStart: "2025-05-26"}))

		got, err := svc.Get(ctx, u, "2025-06-02")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "2025-06-02", got.WeekStart)
	})
}

func TestService_GenerateWeek(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)
	u := &user.User{ID: "u1", Email: "ana@example.com", HouseholdSize: 2}

	recipes := []recipe.Recipe{
		{ID: "b1", MealCategory: recipe.MealBreakfast},
		{ID: "d1", MealCategory: recipe.MealDinner},
		{ID: "d2", MealCategory: recipe.MealDinner},
	}

	plan, err := svc.GenerateWeek(ctx, u, "2025-06-05", recipes)
	require.NoError(t, err)
	assert.Equal(t, "2025-06-02", plan.WeekStart)
	assert.Equal(t, StatusActive, plan.Status)
	assert.Len(t, plan.Meals, 14, "no lunch recipes, so lunch stays empty")
	for _, m := range plan.Meals {
		assert.NotEqual(t, Lunch, m.MealType)
		assert.Equal(t, 2, m.Servings)
		if m.MealType == Breakfast {
			assert.Equal(t, "b1", m.RecipeID)
		}
	}

	t.Run("GenerateDayReplacesOnlyThatDay", func(t *testing.T) {
		before := len(plan.Meals)
		plan, err := svc.GenerateDay(ctx, u, "2025-06-03", []recipe.Recipe{{ID: "l1", MealCategory: recipe.MealLunch}})
		require.NoError(t, err)
		assert.Len(t, plan.Meals, before-1)

		m, ok := plan.Meal("2025-06-03", Lunch)
		require.True(t, ok)
		assert.Equal(t, "l1", m.RecipeID)
		_, ok = plan.Meal("2025-06-03", Dinner)
		assert.False(t, ok)
		_, ok = plan.Meal("2025-06-04", Dinner)
		assert.True(t, ok)
	})

	t.Run("History", func(t *testing.T) {
		_, err := svc.GenerateWeek(ctx, u, "2025-06-09", recipes)
		require.NoError(t, err)

		history, err := svc.History(ctx, u, 0)
		require.NoError(t, err)
		require.Len(t, history, 2)
		assert.Equal(t, "2025-06-09", history[0].WeekStart)
	})
}

func TestService_StoreFailureKeepsPlanLocally(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryCache(time.Hour)
	svc := NewService(&failingRepository{err: errors.New("disk full")}, cache, zap.NewNop()).
		WithClock(func() time.Time { return testToday })
	u := &user.User{ID: "u1", Email: "ana@example.com"}

	plan, err := svc.AddMeal(ctx, u, "R1", "2025-06-03", Lunch)
	assert.ErrorIs(t, err, ErrNotSynced)
	require.NotNil(t, plan)

	got, err := svc.Get(ctx, u, "2025-06-03")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "R1", got.Meals[0].RecipeID)
}
