package shopping

import (
	"fmt"
	"strconv"
	"strings"
)

// Render formats the list as plain text grouped by category. Each line
// starts with the item's index so it can be addressed by UpdateItem.
func Render(list *ShoppingList) string {
	sum := Summarize(list)

	var sb strings.Builder
	fmt.Fprintf(&sb, "Lista de la compra · semana del %s\n", list.WeekStart)
	for _, g := range sum.Groups {
		fmt.Fprintf(&sb, "\n%s\n", g.Category.Label())
		for _, it := range g.Items {
			mark := "[ ]"
			if it.IsPurchased {
				mark = "[x]"
			}
			fmt.Fprintf(&sb, "%d. %s %s (%s) ~%.2f €\n", it.Index, mark, it.IngredientName, quantityLabel(it.Item), it.EstimatedPrice)
		}
	}
	fmt.Fprintf(&sb, "\nComprado: %d/%d (%d%%)\n", sum.Purchased, sum.Total, sum.ProgressPercent)
	fmt.Fprintf(&sb, "Total estimado: %.2f € · Gastado: %.2f €\n", sum.TotalEstimatedCost, sum.Spent)
	return sb.String()
}

func quantityLabel(it Item) string {
	qty := strconv.FormatFloat(it.Quantity, 'f', -1, 64)
	if it.Unit == "" {
		return qty
	}
	return qty + " " + it.Unit
}
