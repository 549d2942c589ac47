package shopping

import (
	"testing"

	"weekly-menu/internal/recipe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	list := &ShoppingList{
		TotalEstimatedCost: 14.3,
		Items: []Item{
			{IngredientName: "Arroz", Category: recipe.CategoryGrains, EstimatedPrice: 1.30, IsPurchased: true},
			{IngredientName: "Tomate", Category: recipe.CategoryVegetables, EstimatedPrice: 2.20},
			{IngredientName: "Misterio", Category: "snacks", EstimatedPrice: 2.50},
			{IngredientName: "Cebolla", Category: recipe.CategoryVegetables, EstimatedPrice: 1.20, IsPurchased: true},
			{IngredientName: "Sal", EstimatedPrice: 0.50},
		},
	}

	sum := Summarize(list)

	assert.Equal(t, 5, sum.Total)
	assert.Equal(t, 2, sum.Purchased)
	assert.Equal(t, 40, sum.ProgressPercent)
	assert.Equal(t, 2.5, sum.Spent)
	assert.Equal(t, 14.3, sum.TotalEstimatedCost)

	require.Len(t, sum.Groups, 4)
	assert.Equal(t, recipe.CategoryVegetables, sum.Groups[0].Category)
	assert.Equal(t, recipe.CategoryGrains, sum.Groups[1].Category)
	assert.Equal(t, recipe.CategoryOther, sum.Groups[2].Category)
	assert.Equal(t, recipe.Category("snacks"), sum.Groups[3].Category)

	veg := sum.Groups[0].Items
	require.Len(t, veg, 2)
	assert.Equal(t, 1, veg[0].Index)
	assert.Equal(t, 3, veg[1].Index)
	assert.Equal(t, "Cebolla", veg[1].IngredientName)
}

func TestSummarize_Empty(t *testing.T) {
	sum := Summarize(&ShoppingList{})
	assert.Zero(t, sum.ProgressPercent)
	assert.Empty(t, sum.Groups)
}

func TestStatusOf(t *testing.T) {
	tests := []struct {
		name  string
		items []Item
		want  Status
	}{
		{"Empty", nil, StatusPending},
		{"SomePending", []Item{{IsPurchased: true}, {}}, StatusPending},
		{"AllPurchased", []Item{{IsPurchased: true}, {IsPurchased: true}}, StatusCompleted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusOf(tt.items))
		})
	}
}
