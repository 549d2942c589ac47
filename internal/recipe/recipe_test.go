package recipe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFallback(t *testing.T) {
	recipes, err := Fallback()
	require.NoError(t, err)
	require.NotEmpty(t, recipes)

	ids := map[string]bool{}
	for _, r := range recipes {
		assert.NotEmpty(t, r.ID)
		assert.NotEmpty(t, r.Title)
		assert.NotEmpty(t, r.Ingredients, "recipe %s has no ingredients", r.ID)
		assert.False(t, ids[r.ID], "duplicate id %s", r.ID)
		ids[r.ID] = true
	}

	for _, slot := range []MealCategory{MealBreakfast, MealLunch, MealDinner} {
		assert.NotEmpty(t, ByMealCategory(recipes, slot), "no fallback recipe for %s", slot)
	}
	assert.Equal(t, "Pasta Mediterránea", recipes[0].Title)
}

func TestRecipeHelpers(t *testing.T) {
	r := Recipe{Title: " Tacos Veganos ", PrepTime: 10, CookTime: 15}
	assert.Equal(t, 25, r.TotalTime())
	assert.True(t, r.HasTitle("tacos veganos"))
	assert.False(t, r.HasTitle("tacos"))
	assert.Equal(t, CategoryOther, Category("").OrOther())
	assert.Equal(t, CategoryFish, CategoryFish.OrOther())
}

func TestFilter(t *testing.T) {
	recipes := MustFallback()

	t.Run("ZeroMatchesAll", func(t *testing.T) {
		assert.Len(t, Filter{}.Apply(recipes), len(recipes))
	})

	t.Run("MealCategory", func(t *testing.T) {
		got := Filter{MealCategories: []MealCategory{MealDinner}}.Apply(recipes)
		require.NotEmpty(t, got)
		for _, r := range got {
			assert.Equal(t, MealDinner, r.MealCategory)
		}
	})

	t.Run("CuisineIgnoresCase", func(t *testing.T) {
		got := Filter{Cuisines: []string{"MEXICAN"}}.Apply(recipes)
		require.Len(t, got, 1)
		assert.Equal(t, "sample-2", got[0].ID)
	})

	t.Run("SearchTitleAndDescription", func(t *testing.T) {
		got := Filter{Search: "champiñones"}.Apply(recipes)
		require.Len(t, got, 1)
		assert.Equal(t, "sample-3", got[0].ID)
	})

	t.Run("Combined", func(t *testing.T) {
		got := Filter{MealCategories: []MealCategory{MealLunch}, Difficulties: []string{"hard"}}.Apply(recipes)
		assert.Empty(t, got)
	})
}

func TestCategoryLabel(t *testing.T) {
	assert.Equal(t, "Verduras", CategoryVegetables.Label())
	assert.Equal(t, "snacks", Category("snacks").Label())
	for _, c := range Categories {
		assert.NotEqual(t, string(c), c.Label(), "missing label for %s", c)
	}
}
