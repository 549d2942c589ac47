package shopping

import (
	"strings"

	"weekly-menu/internal/planner"
	"weekly-menu/internal/recipe"
)

// RecipeLookup resolves a recipe by ID.
type RecipeLookup func(id string) (recipe.Recipe, bool)

// LookupFromRecipes indexes an in-memory recipe collection.
func LookupFromRecipes(recipes []recipe.Recipe) RecipeLookup {
	byID := make(map[string]recipe.Recipe, len(recipes))
	for _, r := range recipes {
		byID[r.ID] = r
	}
	return func(id string) (recipe.Recipe, bool) {
		r, ok := byID[id]
		return r, ok
	}
}

// Aggregate explodes the ingredients of every planned meal, scaled by its
// servings, and merges ingredients whose lowercased names are equal.
//
// The first occurrence of a name fixes the item's spelling, unit, category
// and price; later occurrences only add quantity. Units are not converted,
// so "500 g" and "1 kg" of the same ingredient sum as plain numbers. Names
// are not trimmed or accent-folded. Meals whose recipe cannot be resolved
// are skipped. Items keep first-seen order.
func Aggregate(meals []planner.PlannedMeal, lookup RecipeLookup, prices *PriceTable) []Item {
	index := make(map[string]int)
	var items []Item

	for _, meal := range meals {
		rec, ok := lookup(meal.RecipeID)
		if !ok {
			continue
		}
		servings := float64(meal.EffectiveServings())

		for _, ing := range rec.Ingredients {
			contribution := ing.Quantity * servings
			key := strings.ToLower(ing.Name)

			if i, seen := index[key]; seen {
				items[i].Quantity += contribution
				continue
			}

			index[key] = len(items)
			items = append(items, Item{
				IngredientName: ing.Name,
				Quantity:       contribution,
				Unit:           ing.Unit,
				Category:       ing.Category.OrOther(),
				EstimatedPrice: prices.EstimateFloat(ing.Name),
			})
		}
	}
	return items
}
