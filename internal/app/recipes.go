package app

import (
	"context"
	"fmt"

	"weekly-menu/internal/recipe"

	"go.uber.org/zap"
)

// SeedRecipes stores the built-in catalogue when the recipe table is empty
// and returns how many recipes were added.
func (a *App) SeedRecipes(ctx context.Context) (int, error) {
	count, err := a.Recipes.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count recipes: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	fallback, err := recipe.Fallback()
	if err != nil {
		return 0, err
	}
	if err := a.Recipes.BulkSave(ctx, fallback); err != nil {
		return 0, fmt.Errorf("failed to seed recipes: %w", err)
	}
	a.Logger.Info("seeded recipe catalogue", zap.Int("recipes", len(fallback)))
	return len(fallback), nil
}

// AvailableRecipes lists stored recipes, falling back to the built-in
// catalogue when the store is empty or unreadable.
func (a *App) AvailableRecipes(ctx context.Context) []recipe.Recipe {
	recipes, err := a.Recipes.List(ctx)
	if err != nil {
		a.Logger.Warn("recipe store unavailable, using fallback catalogue", zap.Error(err))
	}
	if len(recipes) > 0 {
		return recipes
	}
	return recipe.MustFallback()
}

// ListRecipes returns the available recipes matching f.
func (a *App) ListRecipes(ctx context.Context, f recipe.Filter) []recipe.Recipe {
	return f.Apply(a.AvailableRecipes(ctx))
}

// GenerateRecipes asks the LLM for n new recipes and stores them.
func (a *App) GenerateRecipes(ctx context.Context, n int) ([]recipe.Recipe, error) {
	res, err := a.Generator.Generate(ctx, a.AvailableRecipes(ctx), n)
	a.Recorder.Record(ctx, res.Meta)
	if err != nil {
		return nil, err
	}
	if err := a.Recipes.BulkSave(ctx, res.Recipes); err != nil {
		a.Logger.Warn("generated recipes not stored", zap.Error(err))
		return res.Recipes, fmt.Errorf("failed to store generated recipes: %w", err)
	}
	a.Logger.Info("generated recipes", zap.Int("recipes", len(res.Recipes)))
	return res.Recipes, nil
}

// ImportRecipe clips the recipe at url into the catalogue.
func (a *App) ImportRecipe(ctx context.Context, url string) (*recipe.Recipe, error) {
	rec, meta, err := a.Clipper.Import(ctx, url)
	a.Recorder.Record(ctx, meta)
	if err != nil {
		return nil, err
	}
	a.Logger.Info("imported recipe", zap.String("recipe_id", rec.ID), zap.String("url", url))
	return rec, nil
}
