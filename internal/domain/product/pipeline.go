package product

import (
	"cmp"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// PriceThreshold is the exclusive lower price bound for ModePriceAboveThreshold.
const PriceThreshold = 1000

// Derived is a product together with the fields computed for display.
// TotalPrice is only set in ModeTotalPrice.
type Derived struct {
	Product
	TotalPrice *float64
}

// TotalPriceText renders TotalPrice rounded to 2 decimal places, or "" when
// it was not computed.
func (d Derived) TotalPriceText() string {
	if d.TotalPrice == nil {
		return ""
	}
	return decimal.NewFromFloat(*d.TotalPrice).StringFixed(2)
}

// TotalPrice returns the unit price after discount at full precision.
func TotalPrice(p Product) float64 {
	return p.Price * (1 - p.DiscountPercentage/100)
}

// Apply runs the structural transform selected by mode and then keeps the
// items whose title contains term, ignoring case. It never mutates products
// and never returns nil.
func Apply(products []Product, mode FilterMode, term string) []Derived {
	var staged []Derived
	switch mode {
	case ModePriceAboveThreshold:
		staged = aboveThreshold(products)
	case ModeTotalPrice:
		staged = withTotalPrice(products)
	case ModeSortByRating:
		staged = byRatingThenPrice(products)
	default:
		staged = passThrough(products)
	}
	return matchTitle(staged, term)
}

// Products strips derived fields, preserving order.
func Products(items []Derived) []Product {
	out := make([]Product, len(items))
	for i, d := range items {
		out[i] = d.Product
	}
	return out
}

func passThrough(products []Product) []Derived {
	out := make([]Derived, len(products))
	for i, p := range products {
		out[i] = Derived{Product: p}
	}
	return out
}

func aboveThreshold(products []Product) []Derived {
	out := make([]Derived, 0, len(products))
	for _, p := range products {
		if p.Price > PriceThreshold && p.HasDiscount() {
			out = append(out, Derived{Product: p})
		}
	}
	return out
}

func withTotalPrice(products []Product) []Derived {
	out := make([]Derived, len(products))
	for i, p := range products {
		total := TotalPrice(p)
		out[i] = Derived{Product: p, TotalPrice: &total}
	}
	return out
}

// byRatingThenPrice sorts a copy: rating descending, ties by price ascending.
func byRatingThenPrice(products []Product) []Derived {
	out := passThrough(products)
	slices.SortStableFunc(out, func(a, b Derived) int {
		if c := cmp.Compare(b.Rating, a.Rating); c != 0 {
			return c
		}
		return cmp.Compare(a.Price, b.Price)
	})
	return out
}

func matchTitle(items []Derived, term string) []Derived {
	if term == "" {
		return items
	}
	needle := strings.ToLower(term)
	out := make([]Derived, 0, len(items))
	for _, d := range items {
		if strings.Contains(strings.ToLower(d.Title), needle) {
			out = append(out, d)
		}
	}
	return out
}
