package recipe

import (
	"strings"
	"time"
)

// Category groups ingredients on the shopping list.
type Category string

const (
	CategoryVegetables Category = "vegetables"
	CategoryFruits     Category = "fruits"
	CategoryDairy      Category = "dairy"
	CategoryMeat       Category = "meat"
	CategoryFish       Category = "fish"
	CategoryGrains     Category = "grains"
	CategorySpices     Category = "spices"
	CategoryOils       Category = "oils"
	CategoryOther      Category = "other"
)

// Categories lists every ingredient category in display order.
var Categories = []Category{
	CategoryVegetables, CategoryFruits, CategoryDairy, CategoryMeat, CategoryFish,
	CategoryGrains, CategorySpices, CategoryOils, CategoryOther,
}

var categoryLabels = map[Category]string{
	CategoryVegetables: "Verduras",
	CategoryFruits:     "Frutas",
	CategoryDairy:      "Lácteos",
	CategoryMeat:       "Carnes",
	CategoryFish:       "Pescados",
	CategoryGrains:     "Cereales y legumbres",
	CategorySpices:     "Especias",
	CategoryOils:       "Aceites",
	CategoryOther:      "Otros",
}

// Label is the Spanish display name of c.
func (c Category) Label() string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return string(c)
}

// OrOther returns c, or CategoryOther when c is empty.
func (c Category) OrOther() Category {
	if c == "" {
		return CategoryOther
	}
	return c
}

// MealCategory is the slot a recipe is meant for.
type MealCategory string

const (
	MealBreakfast MealCategory = "breakfast"
	MealLunch     MealCategory = "lunch"
	MealDinner    MealCategory = "dinner"
	MealSnack     MealCategory = "snack"
)

// Ingredient is one line of a recipe, expressed for Recipe.Servings.
type Ingredient struct {
	Name     string   `json:"name"`
	Quantity float64  `json:"quantity"`
	Unit     string   `json:"unit"`
	Category Category `json:"category,omitempty"`
}

// Recipe is a stored recipe document.
type Recipe struct {
	ID            string       `json:"id"`
	Title         string       `json:"title"`
	Description   string       `json:"description,omitempty"`
	CuisineType   string       `json:"cuisine_type,omitempty"`
	Difficulty    string       `json:"difficulty,omitempty"`
	MealCategory  MealCategory `json:"meal_category,omitempty"`
	PrepTime      int          `json:"prep_time,omitempty"`
	CookTime      int          `json:"cook_time,omitempty"`
	Servings      int          `json:"servings,omitempty"`
	Ingredients   []Ingredient `json:"ingredients,omitempty"`
	Instructions  []string     `json:"instructions,omitempty"`
	EstimatedCost float64      `json:"estimated_cost,omitempty"`
	Tags          []string     `json:"tags,omitempty"`
	ImageURL      string       `json:"image_url,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
}

// TotalTime is preparation plus cooking time in minutes.
func (r Recipe) TotalTime() int {
	return r.PrepTime + r.CookTime
}

// HasTitle reports whether r has the given title, ignoring case.
func (r Recipe) HasTitle(title string) bool {
	return normalizeTitle(r.Title) == normalizeTitle(title)
}

// Titles returns the titles of recipes in order.
func Titles(recipes []Recipe) []string {
	titles := make([]string, 0, len(recipes))
	for _, r := range recipes {
		titles = append(titles, r.Title)
	}
	return titles
}

// ByMealCategory returns the recipes meant for the given slot.
func ByMealCategory(recipes []Recipe, category MealCategory) []Recipe {
	var out []Recipe
	for _, r := range recipes {
		if r.MealCategory == category {
			out = append(out, r)
		}
	}
	return out
}

func normalizeTitle(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}
