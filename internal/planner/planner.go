package planner

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"weekly-menu/internal/recipe"
	"weekly-menu/internal/user"

	"go.uber.org/zap"
)

var (
	// ErrNotSynced means the plan was kept in the cache but the store rejected it.
	ErrNotSynced = errors.New("meal plan saved locally but not synced")
	// ErrPlanNotFound is returned when a change targets a week without a plan.
	ErrPlanNotFound = errors.New("meal plan not found")
)

// DefaultHistoryLimit is how many plans History returns when no limit is given.
const DefaultHistoryLimit = 4

// Repository persists meal plans.
type Repository interface {
	GetByOwnerAndWeek(ctx context.Context, ownerID, weekStart string) (*MealPlan, error)
	Save(ctx context.Context, plan *MealPlan) error
	ListRecent(ctx context.Context, ownerID string, limit int) ([]MealPlan, error)
}

// Service manages weekly meal plans with a write-through cache in front of the store.
type Service struct {
	repo   Repository
	cache  Cache
	logger *zap.Logger
	now    func() time.Time
	rand   *rand.Rand
}

// NewService creates a Service.
func NewService(repo Repository, cache Cache, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		cache:  cache,
		logger: logger,
		now:    time.Now,
		rand:   rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x9e3779b97f4a7c15)),
	}
}

// WithClock replaces the clock used for planning window checks.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func cacheIdentity(u *user.User) string {
	if u.Email != "" {
		return u.Email
	}
	return u.ID
}

// Get returns the user's plan for the week containing week, or nil, nil.
func (s *Service) Get(ctx context.Context, u *user.User, week string) (*MealPlan, error) {
	weekStart, err := NormalizeWeek(week)
	if err != nil {
		return nil, err
	}
	key := CacheKey(weekStart, cacheIdentity(u))

	cached, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("plan cache read failed", zap.String("key", key), zap.Error(err))
	}
	if cached != nil {
		if cached.WeekStart == weekStart && cached.OwnerID == u.ID {
			return cached, nil
		}
		s.logger.Warn("discarding mismatched cached plan",
			zap.String("key", key),
			zap.String("cached_week", cached.WeekStart),
		)
		if err := s.cache.Delete(ctx, key); err != nil {
			s.logger.Warn("plan cache eviction failed", zap.String("key", key), zap.Error(err))
		}
	}

	plan, err := s.repo.GetByOwnerAndWeek(ctx, u.ID, weekStart)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, nil
	}
	if err := s.cache.Set(ctx, key, plan); err != nil {
		s.logger.Warn("plan cache write failed", zap.String("key", key), zap.Error(err))
	}
	return plan, nil
}

// AddMeal schedules recipeID into (date, mealType) for the household size of u.
// Scheduling the meal already in the slot does not touch storage.
func (s *Service) AddMeal(ctx context.Context, u *user.User, recipeID, date string, mealType MealType) (*MealPlan, error) {
	if err := CheckWindow(s.now(), date); err != nil {
		return nil, err
	}
	meal := PlannedMeal{Date: date, MealType: mealType, RecipeID: recipeID, Servings: u.EffectiveHouseholdSize()}
	if err := meal.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.Get(ctx, u, date)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if current, ok := existing.Meal(date, mealType); ok && current == meal {
			return existing, nil
		}
	}

	plan, err := s.loadOrNew(ctx, u, date, StatusPlanning)
	if err != nil {
		return nil, err
	}
	plan.SetMeal(meal)
	plan.SortMeals()
	return plan, s.save(ctx, u, plan)
}

// RemoveMeal empties the (date, mealType) slot.
func (s *Service) RemoveMeal(ctx context.Context, u *user.User, date string, mealType MealType) (*MealPlan, error) {
	plan, err := s.Get(ctx, u, date)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, ErrPlanNotFound
	}
	if !plan.RemoveMeal(date, mealType) {
		return plan, nil
	}
	return plan, s.save(ctx, u, plan)
}

// GenerateWeek fills every slot of the week with a random recipe of the
// matching meal category, replacing the previous meals. Slots without a
// candidate recipe stay empty.
func (s *Service) GenerateWeek(ctx context.Context, u *user.User, week string, recipes []recipe.Recipe) (*MealPlan, error) {
	weekStart, err := NormalizeWeek(week)
	if err != nil {
		return nil, err
	}
	if err := CheckWindow(s.now(), weekStart); err != nil {
		return nil, err
	}
	dates, err := WeekDates(weekStart)
	if err != nil {
		return nil, err
	}

	plan, err := s.loadOrNew(ctx, u, weekStart, StatusActive)
	if err != nil {
		return nil, err
	}
	plan.Meals = nil
	for _, date := range dates {
		plan.Meals = append(plan.Meals, s.pickDay(date, u.EffectiveHouseholdSize(), recipes)...)
	}
	plan.Status = StatusActive
	return plan, s.save(ctx, u, plan)
}

// GenerateDay replaces the meals of one date with random picks.
func (s *Service) GenerateDay(ctx context.Context, u *user.User, date string, recipes []recipe.Recipe) (*MealPlan, error) {
	if err := CheckWindow(s.now(), date); err != nil {
		return nil, err
	}
	plan, err := s.loadOrNew(ctx, u, date, StatusActive)
	if err != nil {
		return nil, err
	}
	plan.ClearDay(date)
	plan.Meals = append(plan.Meals, s.pickDay(date, u.EffectiveHouseholdSize(), recipes)...)
	plan.SortMeals()
	plan.Status = StatusActive
	return plan, s.save(ctx, u, plan)
}

// History returns the user's most recent plans, newest week first.
func (s *Service) History(ctx context.Context, u *user.User, limit int) ([]MealPlan, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return s.repo.ListRecent(ctx, u.ID, limit)
}

func (s *Service) pickDay(date string, servings int, recipes []recipe.Recipe) []PlannedMeal {
	var meals []PlannedMeal
	for _, mt := range MealTypes {
		candidates := recipe.ByMealCategory(recipes, recipe.MealCategory(mt))
		if len(candidates) == 0 {
			continue
		}
		pick := candidates[s.rand.IntN(len(candidates))]
		meals = append(meals, PlannedMeal{Date: date, MealType: mt, RecipeID: pick.ID, Servings: servings})
	}
	return meals
}

// loadOrNew returns the plan of the week containing date. An existing plan
// becomes active; a new one starts with status.
func (s *Service) loadOrNew(ctx context.Context, u *user.User, date string, status PlanStatus) (*MealPlan, error) {
	plan, err := s.Get(ctx, u, date)
	if err != nil {
		return nil, err
	}
	if plan != nil {
		plan.Status = StatusActive
		return plan, nil
	}
	weekStart, err := NormalizeWeek(date)
	if err != nil {
		return nil, err
	}
	return &MealPlan{OwnerID: u.ID, WeekStart: weekStart, Status: status}, nil
}

// save writes plan to the store and refreshes the cache. A store failure
// leaves the plan cached and returns an error wrapping ErrNotSynced.
func (s *Service) save(ctx context.Context, u *user.User, plan *MealPlan) error {
	key := CacheKey(plan.WeekStart, cacheIdentity(u))
	saveErr := s.repo.Save(ctx, plan)

	if err := s.cache.Set(ctx, key, plan); err != nil {
		s.logger.Warn("plan cache write failed", zap.String("key", key), zap.Error(err))
	}
	if saveErr != nil {
		s.logger.Warn("meal plan kept locally",
			zap.String("owner_id", plan.OwnerID),
			zap.String("week_start", plan.WeekStart),
			zap.Error(saveErr),
		)
		return fmt.Errorf("%w: %v", ErrNotSynced, saveErr)
	}
	return nil
}
