package shopping

import (
	"time"

	"weekly-menu/internal/recipe"

	"github.com/shopspring/decimal"
)

// Status is the lifecycle state of a shopping list.
type Status string

// A list is completed once every item is purchased.
const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// Item is one aggregated ingredient line.
type Item struct {
	IngredientName string          `json:"ingredient_name"`
	Quantity       float64         `json:"quantity"`
	Unit           string          `json:"unit"`
	Category       recipe.Category `json:"category"`
	EstimatedPrice float64         `json:"estimated_price"`
	IsPurchased    bool            `json:"is_purchased"`
}

// ShoppingList is the costed list for one owner and week.
type ShoppingList struct {
	ID                 string    `json:"id"`
	OwnerID            string    `json:"owner_id"`
	MealPlanID         string    `json:"meal_plan_id"`
	WeekStart          string    `json:"week_start"`
	Items              []Item    `json:"items"`
	TotalEstimatedCost float64   `json:"total_estimated_cost"`
	Status             Status    `json:"status"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// ItemPatch is a partial update of one item. Nil fields are left unchanged.
type ItemPatch struct {
	IsPurchased *bool    `json:"is_purchased"`
	Quantity    *float64 `json:"quantity" binding:"omitempty,gte=0"`
	Unit        *string  `json:"unit"`
}

// Apply copies the populated fields onto item.
func (p ItemPatch) Apply(item *Item) {
	if p.IsPurchased != nil {
		item.IsPurchased = *p.IsPurchased
	}
	if p.Quantity != nil {
		item.Quantity = *p.Quantity
	}
	if p.Unit != nil {
		item.Unit = *p.Unit
	}
}

// TotalCost sums the estimated prices of items exactly.
func TotalCost(items []Item) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(decimal.NewFromFloat(it.EstimatedPrice))
	}
	return total
}

func statusOf(items []Item) Status {
	if len(items) == 0 {
		return StatusPending
	}
	for _, it := range items {
		if !it.IsPurchased {
			return StatusPending
		}
	}
	return StatusCompleted
}

func (l *ShoppingList) clone() *ShoppingList {
	c := *l
	c.Items = append([]Item(nil), l.Items...)
	return &c
}
