package shopping

import (
	"testing"

	"weekly-menu/internal/planner"
	"weekly-menu/internal/recipe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ingredient(name string, qty float64, unit string, cat recipe.Category) recipe.Ingredient {
	return recipe.Ingredient{Name: name, Quantity: qty, Unit: unit, Category: cat}
}

func TestAggregate_EndToEndItem(t *testing.T) {
	recipes := []recipe.Recipe{{ID: "R1", Ingredients: []recipe.Ingredient{
		ingredient("Tomate", 2, "kg", recipe.CategoryVegetables),
	}}}
	meals := []planner.PlannedMeal{{Date: "2025-06-02", MealType: planner.Dinner, RecipeID: "R1", Servings: 2}}

	items := Aggregate(meals, LookupFromRecipes(recipes), ReferencePrices())

	require.Len(t, items, 1)
	assert.Equal(t, Item{
		IngredientName: "Tomate",
		Quantity:       4,
		Unit:           "kg",
		Category:       recipe.CategoryVegetables,
		EstimatedPrice: 2.20,
		IsPurchased:    false,
	}, items[0])
}

func TestAggregate_Merging(t *testing.T) {
	prices := ReferencePrices()

	t.Run("SameRecipeOnTwoDatesSums", func(t *testing.T) {
		lookup := LookupFromRecipes([]recipe.Recipe{{ID: "R1", Ingredients: []recipe.Ingredient{
			ingredient("Tomate", 1.5, "kg", recipe.CategoryVegetables),
		}}})
		meals := []planner.PlannedMeal{
			{Date: "2025-06-02", MealType: planner.Lunch, RecipeID: "R1", Servings: 2},
			{Date: "2025-06-03", MealType: planner.Lunch, RecipeID: "R1", Servings: 1},
		}
		items := Aggregate(meals, lookup, prices)
		require.Len(t, items, 1)
		assert.Equal(t, 4.5, items[0].Quantity)
	})

	t.Run("CaseInsensitive", func(t *testing.T) {
		lookup := LookupFromRecipes([]recipe.Recipe{
			{ID: "A", Ingredients: []recipe.Ingredient{ingredient("TOMATE", 1, "kg", recipe.CategoryVegetables)}},
			{ID: "B", Ingredients: []recipe.Ingredient{ingredient("tomate", 2, "kg", recipe.CategoryVegetables)}},
		})
		meals := []planner.PlannedMeal{{RecipeID: "A", Servings: 1}, {RecipeID: "B", Servings: 1}}
		items := Aggregate(meals, lookup, prices)
		require.Len(t, items, 1)
		assert.Equal(t, "TOMATE", items[0].IngredientName, "first spelling kept")
		assert.Equal(t, 3.0, items[0].Quantity)
	})

	t.Run("WhitespaceAndPluralDoNotMerge", func(t *testing.T) {
		lookup := LookupFromRecipes([]recipe.Recipe{{ID: "A", Ingredients: []recipe.Ingredient{
			ingredient("Tomates", 1, "kg", recipe.CategoryVegetables),
			ingredient("tomate ", 1, "kg", recipe.CategoryVegetables),
			ingredient("Limon", 1, "unidad", recipe.CategoryFruits),
			ingredient("Limón", 1, "unidad", recipe.CategoryFruits),
		}}})
		items := Aggregate([]planner.PlannedMeal{{RecipeID: "A", Servings: 1}}, lookup, prices)
		assert.Len(t, items, 4)
	})

	t.Run("FirstSeenUnitWinsWithoutConversion", func(t *testing.T) {
		lookup := LookupFromRecipes([]recipe.Recipe{
			{ID: "A", Ingredients: []recipe.Ingredient{ingredient("Arroz", 500, "g", recipe.CategoryGrains)}},
			{ID: "B", Ingredients: []recipe.Ingredient{ingredient("arroz", 1, "kg", recipe.CategoryOther)}},
		})
		meals := []planner.PlannedMeal{{RecipeID: "A", Servings: 1}, {RecipeID: "B", Servings: 1}}
		items := Aggregate(meals, lookup, prices)
		require.Len(t, items, 1)
		assert.Equal(t, 501.0, items[0].Quantity)
		assert.Equal(t, "g", items[0].Unit)
		assert.Equal(t, recipe.CategoryGrains, items[0].Category)
	})
}

func TestAggregate_EdgeCases(t *testing.T) {
	prices := ReferencePrices()
	lookup := LookupFromRecipes([]recipe.Recipe{{ID: "R1", Ingredients: []recipe.Ingredient{
		ingredient("Xylophone Fruit", 2, "", ""),
		ingredient("Cebolla", 1, "unidad", recipe.CategoryVegetables),
	}}})

	t.Run("MissingRecipeSkipped", func(t *testing.T) {
		meals := []planner.PlannedMeal{{RecipeID: "gone", Servings: 3}, {RecipeID: "R1", Servings: 1}}
		items := Aggregate(meals, lookup, prices)
		assert.Len(t, items, 2)
	})

	t.Run("ZeroServingsCountsAsOne", func(t *testing.T) {
		items := Aggregate([]planner.PlannedMeal{{RecipeID: "R1", Servings: 0}}, lookup, prices)
		require.Len(t, items, 2)
		assert.Equal(t, 2.0, items[0].Quantity)
	})

	t.Run("DefaultsForUnknownIngredient", func(t *testing.T) {
		items := Aggregate([]planner.PlannedMeal{{RecipeID: "R1", Servings: 1}}, lookup, prices)
		assert.Equal(t, recipe.CategoryOther, items[0].Category)
		assert.Equal(t, 2.50, items[0].EstimatedPrice)
	})

	t.Run("FirstSeenOrder", func(t *testing.T) {
		items := Aggregate([]planner.PlannedMeal{{RecipeID: "R1", Servings: 1}}, lookup, prices)
		assert.Equal(t, "Xylophone Fruit", items[0].IngredientName)
		assert.Equal(t, "Cebolla", items[1].IngredientName)
	})

	t.Run("NoMeals", func(t *testing.T) {
		assert.Empty(t, Aggregate(nil, lookup, prices))
	})
}
