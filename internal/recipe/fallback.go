package recipe

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

//go:embed fallback_recipes.json
var fallbackJSON []byte

// Fallback returns the built-in recipe catalogue used to seed an empty
// database and whenever the recipe store cannot be read.
func Fallback() ([]Recipe, error) {
	var recipes []Recipe
	if err := json.Unmarshal(fallbackJSON, &recipes); err != nil {
		return nil, fmt.Errorf("failed to decode fallback recipes: %w", err)
	}
	return recipes, nil
}

// MustFallback is like Fallback but panics if the embedded catalogue is invalid.
func MustFallback() []Recipe {
	recipes, err := Fallback()
	if err != nil {
		panic(err)
	}
	return recipes
}
