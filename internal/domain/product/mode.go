package product

import (
	"strings"

	"github.com/go-faster/errors"
)

// FilterMode selects the structural transform applied by Apply.
type FilterMode string

const (
	// ModeAll passes the product list through unchanged.
	ModeAll FilterMode = "all"
	// ModePriceAboveThreshold keeps discounted products priced above PriceThreshold.
	ModePriceAboveThreshold FilterMode = "priceAbove1000"
	// ModeTotalPrice attaches the discounted total price to every product.
	ModeTotalPrice FilterMode = "totalPrice"
	// ModeSortByRating orders products by rating descending, then price ascending.
	ModeSortByRating FilterMode = "sortRating"
)

// ErrUnknownMode is returned by ParseFilterMode for unrecognized names.
var ErrUnknownMode = errors.New("unknown filter mode")

var modes = []FilterMode{ModeAll, ModePriceAboveThreshold, ModeTotalPrice, ModeSortByRating}

// Modes returns every filter mode in menu order.
func Modes() []FilterMode {
	out := make([]FilterMode, len(modes))
	copy(out, modes)
	return out
}

// ParseFilterMode resolves a mode by its name, ignoring case. An empty name
// resolves to ModeAll.
func ParseFilterMode(s string) (FilterMode, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return ModeAll, nil
	}
	for _, m := range modes {
		if strings.EqualFold(s, string(m)) {
			return m, nil
		}
	}
	return ModeAll, errors.Wrapf(ErrUnknownMode, "%q", s)
}

// Label is the menu text for the mode.
func (m FilterMode) Label() string {
	switch m {
	case ModePriceAboveThreshold:
		return "Price above 1000 (discounted)"
	case ModeTotalPrice:
		return "Show total price per item"
	case ModeSortByRating:
		return "Sort by rating"
	default:
		return "All"
	}
}

func (m FilterMode) String() string { return string(m) }
