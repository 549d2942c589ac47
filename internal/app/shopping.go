package app

import (
	"context"
	"errors"

	"weekly-menu/internal/planner"
	"weekly-menu/internal/shopping"
	"weekly-menu/internal/user"
)

// GenerateWeekPlan fills the user's week with random recipes.
func (a *App) GenerateWeekPlan(ctx context.Context, u *user.User, week string) (*planner.MealPlan, error) {
	return a.Plans.GenerateWeek(ctx, u, week, a.AvailableRecipes(ctx))
}

// GenerateDayPlan fills one day of the user's plan with random recipes.
func (a *App) GenerateDayPlan(ctx context.Context, u *user.User, date string) (*planner.MealPlan, error) {
	return a.Plans.GenerateDay(ctx, u, date, a.AvailableRecipes(ctx))
}

// GenerateShoppingList builds the user's list for week and counts the outcome.
func (a *App) GenerateShoppingList(ctx context.Context, u *user.User, week string) (*shopping.ShoppingList, error) {
	list, err := a.Shopping.GenerateForWeek(ctx, u, week)
	switch {
	case err == nil:
		a.Collectors.ObserveListGeneration("persisted")
	case errors.Is(err, shopping.ErrNotPersisted):
		a.Collectors.ObserveListGeneration("local")
	case errors.Is(err, shopping.ErrNoMealPlan):
		a.Collectors.ObserveListGeneration("no_plan")
	default:
		a.Collectors.ObserveListGeneration("error")
	}
	return list, err
}

// ComparePrices prices the user's current list for week across supermarkets.
func (a *App) ComparePrices(ctx context.Context, u *user.User, week string) (*shopping.PriceComparison, error) {
	list, err := a.Shopping.Current(ctx, u.ID, week)
	if err != nil && !errors.Is(err, shopping.ErrNotPersisted) {
		return nil, err
	}
	cmp, meta, err := a.Shopping.ComparePrices(ctx, list)
	a.Recorder.Record(ctx, meta)
	return cmp, err
}
