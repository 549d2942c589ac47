package planner

import (
	"fmt"
	"slices"
	"time"

	"github.com/go-playground/validator/v10"
)

// MealType is one of the three daily slots.
type MealType string

const (
	Breakfast MealType = "breakfast"
	Lunch     MealType = "lunch"
	Dinner    MealType = "dinner"
)

// MealTypes lists the daily slots in serving order.
var MealTypes = []MealType{Breakfast, Lunch, Dinner}

// PlanStatus represents the lifecycle state of a meal plan.
type PlanStatus string

const (
	StatusPlanning PlanStatus = "planning"
	StatusActive   PlanStatus = "active"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// PlannedMeal is a recipe scheduled into one (date, meal type) slot.
type PlannedMeal struct {
	Date     string   `json:"date" validate:"required,datetime=2006-01-02"`
	MealType MealType `json:"meal_type" validate:"required,oneof=breakfast lunch dinner"`
	RecipeID string   `json:"recipe_id" validate:"required"`
	Servings int      `json:"servings" validate:"gte=0"`
}

// Validate checks the meal's fields.
func (m PlannedMeal) Validate() error {
	if err := validate.Struct(m); err != nil {
		return fmt.Errorf("invalid planned meal: %w", err)
	}
	return nil
}

// EffectiveServings is Servings, or 1 when unset.
func (m PlannedMeal) EffectiveServings() int {
	if m.Servings <= 0 {
		return 1
	}
	return m.Servings
}

// MealPlan represents a user's plan for one week.
type MealPlan struct {
	ID        string        `json:"id"`
	OwnerID   string        `json:"owner_id"`
	WeekStart string        `json:"week_start"`
	Meals     []PlannedMeal `json:"meals"`
	Status    PlanStatus    `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// SetMeal places meal in its slot, replacing any previous occupant.
func (p *MealPlan) SetMeal(meal PlannedMeal) {
	p.RemoveMeal(meal.Date, meal.MealType)
	p.Meals = append(p.Meals, meal)
}

// RemoveMeal empties the (date, mealType) slot and reports whether it was occupied.
func (p *MealPlan) RemoveMeal(date string, mealType MealType) bool {
	before := len(p.Meals)
	p.Meals = slices.DeleteFunc(p.Meals, func(m PlannedMeal) bool {
		return m.Date == date && m.MealType == mealType
	})
	return len(p.Meals) != before
}

// ClearDay removes every meal on date.
func (p *MealPlan) ClearDay(date string) {
	p.Meals = slices.DeleteFunc(p.Meals, func(m PlannedMeal) bool {
		return m.Date == date
	})
}

// Meal returns the meal in the (date, mealType) slot.
func (p *MealPlan) Meal(date string, mealType MealType) (PlannedMeal, bool) {
	for _, m := range p.Meals {
		if m.Date == date && m.MealType == mealType {
			return m, true
		}
	}
	return PlannedMeal{}, false
}

// HasMeals reports whether p is non-nil and schedules at least one meal.
func (p *MealPlan) HasMeals() bool {
	return p != nil && len(p.Meals) > 0
}

// RecipeIDs returns the distinct recipe IDs in first-scheduled order.
func (p *MealPlan) RecipeIDs() []string {
	seen := make(map[string]bool, len(p.Meals))
	var ids []string
	for _, m := range p.Meals {
		if !seen[m.RecipeID] {
			seen[m.RecipeID] = true
			ids = append(ids, m.RecipeID)
		}
	}
	return ids
}

// SortMeals orders meals by date then slot.
func (p *MealPlan) SortMeals() {
	slices.SortStableFunc(p.Meals, func(a, b PlannedMeal) int {
		if a.Date != b.Date {
			if a.Date < b.Date {
				return -1
			}
			return 1
		}
		return slices.Index(MealTypes, a.MealType) - slices.Index(MealTypes, b.MealType)
	})
}
