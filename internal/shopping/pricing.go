package shopping

import (
	"strings"

	"github.com/shopspring/decimal"
)

// PriceEntry maps a lowercase grocery term to its reference unit price.
type PriceEntry struct {
	Key   string
	Price decimal.Decimal
}

// DefaultPrice is returned for ingredients no reference key matches.
var DefaultPrice = decimal.RequireFromString("2.50")

// referencePrices is the Spanish grocery reference table.
//
// Order matters: Estimate returns the first key contained in the ingredient
// name, so a general key listed before a more specific one shadows it
// ("tomates cherry de rama" is priced as "tomate"; "arroz basmati" as
// "arroz"). Keep new entries in their grocery group and preserve the
// existing order.
var referencePrices = []PriceEntry{
	// Verduras
	{"tomate", decimal.RequireFromString("2.20")},
	{"tomates cherry", decimal.RequireFromString("2.85")},
	{"cebolla", decimal.RequireFromString("1.20")},
	{"ajo", decimal.RequireFromString("5.50")},
	{"pimiento rojo", decimal.RequireFromString("2.50")},
	{"pimiento verde", decimal.RequireFromString("2.30")},
	{"pepino", decimal.RequireFromString("1.50")},
	{"lechuga", decimal.RequireFromString("1.10")},
	{"espinacas", decimal.RequireFromString("2.50")},
	{"brócoli", decimal.RequireFromString("1.80")},
	{"zanahoria", decimal.RequireFromString("0.90")},
	{"patata", decimal.RequireFromString("1.30")},
	{"calabacín", decimal.RequireFromString("1.60")},
	{"berenjena", decimal.RequireFromString("1.70")},
	{"champiñones", decimal.RequireFromString("3.50")},

	// Frutas
	{"manzana", decimal.RequireFromString("1.90")},
	{"plátano", decimal.RequireFromString("1.60")},
	{"naranja", decimal.RequireFromString("1.40")},
	{"limón", decimal.RequireFromString("1.80")},
	{"fresas", decimal.RequireFromString("4.50")},
	{"aguacate", decimal.RequireFromString("4.80")},

	// Carnes y pescados
	{"pechuga de pollo", decimal.RequireFromString("7.50")},
	{"pollo entero", decimal.RequireFromString("4.00")},
	{"carne picada de ternera", decimal.RequireFromString("9.00")},
	{"filetes de ternera", decimal.RequireFromString("14.00")},
	{"lomo de cerdo", decimal.RequireFromString("7.00")},
	{"jamón serrano", decimal.RequireFromString("25.00")},
	{"jamón cocido", decimal.RequireFromString("9.50")},
	{"salmón", decimal.RequireFromString("15.00")},
	{"merluza", decimal.RequireFromString("12.00")},
	{"atún en lata", decimal.RequireFromString("4.00")},

	// Lácteos y huevos
	{"leche", decimal.RequireFromString("1.15")},
	{"queso curado", decimal.RequireFromString("13.00")},
	{"queso feta", decimal.RequireFromString("3.50")},
	{"yogur natural", decimal.RequireFromString("1.80")},
	{"huevos", decimal.RequireFromString("2.50")},
	{"mantequilla", decimal.RequireFromString("2.80")},

	// Panadería y cereales
	{"pan de molde", decimal.RequireFromString("1.50")},
	{"pan integral", decimal.RequireFromString("1.80")},
	{"arroz", decimal.RequireFromString("1.30")},
	{"arroz basmati", decimal.RequireFromString("2.20")},
	{"pasta", decimal.RequireFromString("1.10")},
	{"pasta integral", decimal.RequireFromString("1.50")},
	{"lentejas", decimal.RequireFromString("1.80")},
	{"garbanzos", decimal.RequireFromString("1.70")},

	// Despensa
	{"aceite de oliva virgen extra", decimal.RequireFromString("9.50")},
	{"aceite de girasol", decimal.RequireFromString("2.50")},
	{"vinagre", decimal.RequireFromString("1.00")},
	{"sal", decimal.RequireFromString("0.50")},
	{"pimienta negra", decimal.RequireFromString("2.00")},
	{"pimentón", decimal.RequireFromString("1.50")},
	{"aceitunas negras", decimal.RequireFromString("1.95")},
	{"chocolate negro", decimal.RequireFromString("2.20")},
	{"café molido", decimal.RequireFromString("3.50")},
}

// PriceTable estimates ingredient prices by first substring match over an
// ordered list of keys. It is immutable and safe for concurrent use.
type PriceTable struct {
	entries  []PriceEntry
	fallback decimal.Decimal
}

// NewPriceTable builds a table from entries, matched in the given order.
// Keys are lowercased.
func NewPriceTable(entries []PriceEntry, fallback decimal.Decimal) *PriceTable {
	own := make([]PriceEntry, len(entries))
	for i, e := range entries {
		own[i] = PriceEntry{Key: strings.ToLower(e.Key), Price: e.Price}
	}
	return &PriceTable{entries: own, fallback: fallback}
}

// ReferencePrices returns the table built from the Spanish reference prices.
func ReferencePrices() *PriceTable {
	return NewPriceTable(referencePrices, DefaultPrice)
}

// Entries returns a copy of the table in match order.
func (t *PriceTable) Entries() []PriceEntry {
	return append([]PriceEntry(nil), t.entries...)
}

// Estimate returns the price of the first key contained in the lowercased
// name, or the default price when none matches.
func (t *PriceTable) Estimate(name string) decimal.Decimal {
	lower := strings.ToLower(name)
	for _, e := range t.entries {
		if strings.Contains(lower, e.Key) {
			return e.Price
		}
	}
	return t.fallback
}

// EstimateFloat is Estimate as a float64 for item payloads.
func (t *PriceTable) EstimateFloat(name string) float64 {
	return t.Estimate(name).InexactFloat64()
}
