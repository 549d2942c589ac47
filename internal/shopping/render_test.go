package shopping

import (
	"testing"

	"weekly-menu/internal/recipe"

	"github.com/stretchr/testify/assert"
)

func TestRender(t *testing.T) {
	list := &ShoppingList{
		WeekStart:          "2025-06-02",
		TotalEstimatedCost: 3.5,
		Items: []Item{
			{IngredientName: "Arroz", Quantity: 0.5, Unit: "kg", Category: recipe.CategoryGrains, EstimatedPrice: 1.30},
			{IngredientName: "Tomate", Quantity: 4, Unit: "kg", Category: recipe.CategoryVegetables, EstimatedPrice: 2.20, IsPurchased: true},
			{IngredientName: "Huevos", Quantity: 6, EstimatedPrice: 2.50},
		},
	}

	out := Render(list)

	assert.Contains(t, out, "semana del 2025-06-02")
	assert.Contains(t, out, "Verduras\n1. [x] Tomate (4 kg) ~2.20 €")
	assert.Contains(t, out, "Cereales y legumbres\n0. [ ] Arroz (0.5 kg) ~1.30 €")
	assert.Contains(t, out, "2. [ ] Huevos (6) ~2.50 €")
	assert.Contains(t, out, "Comprado: 1/3 (33%)")
	assert.Contains(t, out, "Total estimado: 3.50 € · Gastado: 2.20 €")
}
