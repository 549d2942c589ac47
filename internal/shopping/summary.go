package shopping

import (
	"slices"

	"weekly-menu/internal/recipe"

	"github.com/shopspring/decimal"
)

// IndexedItem is an item together with its position in the list, which is
// the address UpdateItem expects.
type IndexedItem struct {
	Index int `json:"index"`
	Item
}

// CategoryGroup holds the items of one category in list order.
type CategoryGroup struct {
	Category recipe.Category `json:"category"`
	Items    []IndexedItem   `json:"items"`
}

// Summary is the grouped view of a list with purchase progress.
type Summary struct {
	Groups             []CategoryGroup `json:"groups"`
	Purchased          int             `json:"purchased"`
	Total              int             `json:"total"`
	ProgressPercent    int             `json:"progress_percent"`
	Spent              float64         `json:"spent"`
	TotalEstimatedCost float64         `json:"total_estimated_cost"`
}

// Summarize groups the items by category, known categories first in their
// canonical order, and computes progress and the amount already spent.
func Summarize(list *ShoppingList) Summary {
	sum := Summary{Total: len(list.Items), TotalEstimatedCost: list.TotalEstimatedCost}
	spent := decimal.Zero
	groups := map[recipe.Category]*CategoryGroup{}
	var order []recipe.Category

	for i, it := range list.Items {
		cat := it.Category.OrOther()
		g, ok := groups[cat]
		if !ok {
			g = &CategoryGroup{Category: cat}
			groups[cat] = g
			order = append(order, cat)
		}
		g.Items = append(g.Items, IndexedItem{Index: i, Item: it})

		if it.IsPurchased {
			sum.Purchased++
			spent = spent.Add(decimal.NewFromFloat(it.EstimatedPrice))
		}
	}

	slices.SortStableFunc(order, func(a, b recipe.Category) int {
		return categoryRank(a) - categoryRank(b)
	})
	for _, cat := range order {
		sum.Groups = append(sum.Groups, *groups[cat])
	}

	sum.Spent = spent.InexactFloat64()
	if sum.Total > 0 {
		sum.ProgressPercent = sum.Purchased * 100 / sum.Total
	}
	return sum
}

func categoryRank(c recipe.Category) int {
	if i := slices.Index(recipe.Categories, c); i >= 0 {
		return i
	}
	return len(recipe.Categories)
}
