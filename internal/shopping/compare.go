package shopping

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/template"
	"time"

	"weekly-menu/internal/llm"
	"weekly-menu/internal/shared"
)

//go:embed compare_prompt.md
var comparePrompt string

var compareTmpl = template.Must(template.New("compare").Parse(comparePrompt))

// CompareAgentName labels price comparisons in execution metrics.
const CompareAgentName = "PriceComparer"

var (
	// ErrEmptyList is returned when there is nothing to compare.
	ErrEmptyList = errors.New("shopping list has no items")
	// ErrComparisonUnavailable is returned when no LLM is configured.
	ErrComparisonUnavailable = errors.New("price comparison is not available")
)

// SupermarketQuote is the estimated cost of the list at one supermarket.
type SupermarketQuote struct {
	Name           string   `json:"name"`
	TotalCost      float64  `json:"total_cost"`
	Savings        float64  `json:"savings"`
	BestCategories []string `json:"best_categories"`
}

// Recommendation names the best store for a category.
type Recommendation struct {
	Category  string `json:"category"`
	BestStore string `json:"best_store"`
	Reason    string `json:"reason"`
}

// PriceComparison is the LLM's comparison across supermarkets.
type PriceComparison struct {
	Supermarkets    []SupermarketQuote `json:"supermarkets"`
	Recommendations []Recommendation   `json:"recommendations"`
}

// Cheapest returns the quote with the lowest total cost.
func (p *PriceComparison) Cheapest() (SupermarketQuote, bool) {
	if len(p.Supermarkets) == 0 {
		return SupermarketQuote{}, false
	}
	best := p.Supermarkets[0]
	for _, q := range p.Supermarkets[1:] {
		if q.TotalCost < best.TotalCost {
			best = q
		}
	}
	return best, true
}

// ComparePrices asks the LLM to price list at Mercadona, Carrefour and Lidl.
func (s *Service) ComparePrices(ctx context.Context, list *ShoppingList) (*PriceComparison, shared.AgentMeta, error) {
	if s.textGen == nil {
		return nil, shared.AgentMeta{}, ErrComparisonUnavailable
	}
	if list == nil || len(list.Items) == 0 {
		return nil, shared.AgentMeta{}, ErrEmptyList
	}
	start := time.Now()

	prompt, err := buildComparePrompt(list.Items)
	if err != nil {
		return nil, shared.AgentMeta{}, err
	}

	resp, err := s.textGen.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, shared.AgentMeta{}, fmt.Errorf("failed to compare prices: %w", err)
	}
	meta := shared.NewAgentMeta(CompareAgentName, resp.Usage, start)

	var result PriceComparison
	if err := json.Unmarshal([]byte(llm.CleanJSON(resp.Content)), &result); err != nil {
		return nil, meta, fmt.Errorf("failed to parse price comparison: %w", err)
	}
	return &result, meta, nil
}

func buildComparePrompt(items []Item) (string, error) {
	lines := make([]string, len(items))
	for i, it := range items {
		lines[i] = describeItem(it)
	}
	var buf bytes.Buffer
	if err := compareTmpl.Execute(&buf, struct{ Items []string }{lines}); err != nil {
		return "", fmt.Errorf("failed to build price comparison prompt: %w", err)
	}
	return buf.String(), nil
}

// describeItem renders "name (quantity unit)".
func describeItem(it Item) string {
	qty := strconv.FormatFloat(it.Quantity, 'f', -1, 64)
	return strings.TrimSpace(fmt.Sprintf("%s (%s %s", it.IngredientName, qty, it.Unit)) + ")"
}
