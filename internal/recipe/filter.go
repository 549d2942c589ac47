package recipe

import (
	"slices"
	"strings"
)

// Filter narrows a recipe listing. Empty fields match everything.
type Filter struct {
	MealCategories []MealCategory `form:"meal_category"`
	Cuisines       []string       `form:"cuisine"`
	Difficulties   []string       `form:"difficulty"`
	Search         string         `form:"q"`
}

// IsZero reports whether f matches every recipe.
func (f Filter) IsZero() bool {
	return len(f.MealCategories) == 0 && len(f.Cuisines) == 0 && len(f.Difficulties) == 0 && strings.TrimSpace(f.Search) == ""
}

// Match reports whether r passes every populated criterion.
func (f Filter) Match(r Recipe) bool {
	if len(f.MealCategories) > 0 && !slices.Contains(f.MealCategories, r.MealCategory) {
		return false
	}
	if len(f.Cuisines) > 0 && !containsFold(f.Cuisines, r.CuisineType) {
		return false
	}
	if len(f.Difficulties) > 0 && !containsFold(f.Difficulties, r.Difficulty) {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		if !strings.Contains(strings.ToLower(r.Title), q) && !strings.Contains(strings.ToLower(r.Description), q) {
			return false
		}
	}
	return true
}

// Apply returns the recipes matching f, preserving order.
func (f Filter) Apply(recipes []Recipe) []Recipe {
	if f.IsZero() {
		return recipes
	}
	out := make([]Recipe, 0, len(recipes))
	for _, r := range recipes {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

func containsFold(values []string, s string) bool {
	for _, v := range values {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
