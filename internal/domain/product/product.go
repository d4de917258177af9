package product

import (
	"context"
	"time"

	"github.com/go-faster/errors"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// Product represents a catalog item as served by the remote catalog.
type Product struct {
	ID                 int     `json:"id"`
	Title              string  `json:"title"`
	Description        string  `json:"description"`
	Category           string  `json:"category"`
	Brand              string  `json:"brand"`
	Thumbnail          string  `json:"thumbnail"`
	Price              float64 `json:"price"`
	DiscountPercentage float64 `json:"discountPercentage"`
	Rating             float64 `json:"rating"`
	Stock              int     `json:"stock"`
}

// HasDiscount reports whether a positive discount is set.
func (p Product) HasDiscount() bool {
	return p.DiscountPercentage > 0
}

// Detail is the single-item view of a product, a superset of Product.
type Detail struct {
	Product

	WarrantyInformation string   `json:"warrantyInformation"`
	ShippingInformation string   `json:"shippingInformation"`
	AvailabilityStatus  string   `json:"availabilityStatus"`
	Reviews             []Review `json:"reviews"`
}

// Review is a single customer review attached to a product.
type Review struct {
	Rating       float64 `json:"rating"`
	Comment      string  `json:"comment"`
	Date         string  `json:"date"`
	ReviewerName string  `json:"reviewerName"`
}

// When parses the ISO-8601 review date.
func (r Review) When() (time.Time, bool) {
	t, err := time.Parse(time.RFC3339Nano, r.Date)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// DisplayDate renders the review date as "January 2, 2006", falling back to
// the raw value when it cannot be parsed.
func (r Review) DisplayDate() string {
	t, ok := r.When()
	if !ok {
		return r.Date
	}
	return t.Format("January 2, 2006")
}

// Repository defines read operations for the product catalog.
type Repository interface {
	List(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id int) (*Detail, error)
}
