package user

import "slices"

// User is a household profile. ID is the identity issued by the auth
// provider ("tg:<id>" for Telegram users).
type User struct {
	ID                  string   `json:"id"`
	Email               string   `json:"email"`
	FullName            string   `json:"full_name,omitempty"`
	HouseholdSize       int      `json:"household_size" validate:"gte=0,lte=20"`
	DietaryPreferences  []string `json:"dietary_preferences,omitempty"`
	FavoriteCuisines    []string `json:"favorite_cuisines,omitempty"`
	CookingExperience   string   `json:"cooking_experience,omitempty" validate:"omitempty,oneof=beginner intermediate advanced"`
	WeeklyBudget        float64  `json:"weekly_budget,omitempty" validate:"gte=0"`
	FavoriteRecipes     []string `json:"favorite_recipes,omitempty"`
	OnboardingCompleted bool     `json:"onboarding_completed"`
}

// EffectiveHouseholdSize is the number of servings a planned meal gets.
func (u *User) EffectiveHouseholdSize() int {
	if u == nil || u.HouseholdSize < 1 {
		return 1
	}
	return u.HouseholdSize
}

// IsFavorite reports whether recipeID is among the favourites.
func (u *User) IsFavorite(recipeID string) bool {
	return slices.Contains(u.FavoriteRecipes, recipeID)
}

// ToggleFavorite adds or removes recipeID and reports whether it is now a favourite.
func (u *User) ToggleFavorite(recipeID string) bool {
	if i := slices.Index(u.FavoriteRecipes, recipeID); i >= 0 {
		u.FavoriteRecipes = slices.Delete(u.FavoriteRecipes, i, i+1)
		return false
	}
	u.FavoriteRecipes = append(u.FavoriteRecipes, recipeID)
	return true
}

// ProfileUpdate carries the editable profile fields. Nil fields are left unchanged.
type ProfileUpdate struct {
	FullName            *string  `json:"full_name"`
	HouseholdSize       *int     `json:"household_size" validate:"omitempty,gte=1,lte=20"`
	DietaryPreferences  []string `json:"dietary_preferences"`
	FavoriteCuisines    []string `json:"favorite_cuisines"`
	CookingExperience   *string  `json:"cooking_experience" validate:"omitempty,oneof=beginner intermediate advanced"`
	WeeklyBudget        *float64 `json:"weekly_budget" validate:"omitempty,gte=0"`
	OnboardingCompleted *bool    `json:"onboarding_completed"`
}

// Apply copies the populated fields of p onto u.
func (p ProfileUpdate) Apply(u *User) {
	if p.FullName != nil {
		u.FullName = *p.FullName
	}
	if p.HouseholdSize != nil {
		u.HouseholdSize = *p.HouseholdSize
	}
	if p.DietaryPreferences != nil {
		u.DietaryPreferences = p.DietaryPreferences
	}
	if p.FavoriteCuisines != nil {
		u.FavoriteCuisines = p.FavoriteCuisines
	}
	if p.CookingExperience != nil {
		u.CookingExperience = *p.CookingExperience
	}
	if p.WeeklyBudget != nil {
		u.WeeklyBudget = *p.WeeklyBudget
	}
	if p.OnboardingCompleted != nil {
		u.OnboardingCompleted = *p.OnboardingCompleted
	}
}
