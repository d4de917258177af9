// Package listing holds the state behind the product list view: the raw
// catalog, the search term as typed and as settled, and the active filter
// mode. The display list is recomputed whenever one of those inputs changes.
package listing

import (
	"time"

	"github.com/xenking/catalog-viewer/internal/debounce"
	"github.com/xenking/catalog-viewer/internal/domain/product"
)

// DefaultDebounce is the quiet period applied to search input.
const DefaultDebounce = time.Second

// State is the load state of the raw product list.
type State int

const (
	StateLoading State = iota
	StateLoaded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateLoaded:
		return "loaded"
	case StateFailed:
		return "failed"
	default:
		return "loading"
	}
}

// Controller owns the list view state. It is not safe for concurrent use;
// all calls are expected to come from the single UI event loop.
type Controller struct {
	search *debounce.Debouncer[string]

	products      []product.Product
	rawTerm       string
	debouncedTerm string
	mode          product.FilterMode

	display    []product.Derived
	state      State
	err        error
	recomputes int
}

// New creates a Controller whose search input settles through the given
// debouncer. Close stops it.
func New(search *debounce.Debouncer[string]) *Controller {
	c := &Controller{
		search: search,
		mode:   product.ModeAll,
		state:  StateLoading,
	}
	c.recompute()
	return c
}

// Mount resets the load state before the single fetch issued per mount.
func (c *Controller) Mount() {
	c.state = StateLoading
	c.err = nil
}

// Loaded replaces the raw list wholesale.
func (c *Controller) Loaded(products []product.Product) {
	c.products = products
	c.state = StateLoaded
	c.err = nil
	c.recompute()
}

// Failed records a fetch failure. The raw list is left empty.
func (c *Controller) Failed(err error) {
	c.products = nil
	c.state = StateFailed
	c.err = err
	c.recompute()
}

// SetSearch updates the raw term and feeds the debouncer. It never
// recomputes the display list by itself.
func (c *Controller) SetSearch(text string) {
	if text == c.rawTerm {
		return
	}
	c.rawTerm = text
	c.search.Set(text)
}

// Settle applies a term delivered by the debouncer.
func (c *Controller) Settle(term string) {
	if term == c.debouncedTerm {
		return
	}
	c.debouncedTerm = term
	c.recompute()
}

// SelectMode switches the structural transform and recomputes immediately.
func (c *Controller) SelectMode(mode product.FilterMode) {
	c.mode = mode
	c.recompute()
}

// Settled returns the channel of settled search terms.
func (c *Controller) Settled() <-chan string { return c.search.C() }

// Close cancels any pending search update.
func (c *Controller) Close() { c.search.Stop() }

func (c *Controller) Display() []product.Derived { return c.display }
func (c *Controller) Mode() product.FilterMode { return c.mode }
func (c *Controller) RawTerm() string { return c.rawTerm }
func (c *Controller) DebouncedTerm() string { return c.debouncedTerm }
func (c *Controller) State() State { return c.state }
func (c *Controller) Err() error { return c.err }
func (c *Controller) Total() int { return len(c.products) }

// Recomputes counts display list recomputations since creation.
func (c *Controller) Recomputes() int { return c.recomputes }

func (c *Controller) recompute() {
	c.display = product.Apply(c.products, c.mode, c.debouncedTerm)
	c.recomputes++
}
