// Command catalog-dump prints the catalog through the same filter pipeline
// as the viewer, without a terminal UI.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	appkg "github.com/xenking/catalog-viewer/internal/app"
	"github.com/xenking/catalog-viewer/internal/catalog"
	"github.com/xenking/catalog-viewer/internal/domain/product"
)

type options struct {
	BaseURL string
	Mode    product.FilterMode
	Search  string
	ID      int
	HasID   bool
	Format  string
	Timeout time.Duration
}

func main() {
	var (
		opts     options
		modeName string
	)
	flag.StringVar(&opts.BaseURL, "base-url", catalog.DefaultBaseURL, "catalog API root URL")
	flag.StringVar(&modeName, "mode", string(product.ModeAll), "filter mode: all, priceAbove1000, totalPrice, sortRating")
	flag.StringVar(&opts.Search, "search", "", "case-insensitive title filter")
	flag.IntVar(&opts.ID, "id", 0, "print a single product instead of the list")
	flag.StringVar(&opts.Format, "format", "table", "output format: table or json")
	flag.DurationVar(&opts.Timeout, "timeout", 10*time.Second, "request timeout")
	flag.Parse()
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "id" {
			opts.HasID = true
		}
	})

	lg, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = lg.Sync() }()

	mode, err := product.ParseFilterMode(modeName)
	if err != nil {
		lg.Fatal("Invalid mode", zap.Error(err))
	}
	opts.Mode = mode
	if opts.Format != "table" && opts.Format != "json" {
		lg.Fatal("Invalid format", zap.String("format", opts.Format))
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	ctx = zctx.Base(ctx, lg)

	repo, err := appkg.NewClient(appkg.CatalogConfig{
		BaseURL: opts.BaseURL,
		Timeout: opts.Timeout,
	})
	if err != nil {
		lg.Fatal("Create client", zap.Error(err))
	}

	if err := run(ctx, os.Stdout, repo, opts); err != nil {
		lg.Error("Dump failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, w io.Writer, repo product.Repository, opts options) error {
	if opts.HasID {
		d, err := repo.GetByID(ctx, opts.ID)
		if err != nil {
			return errors.Wrapf(err, "get product %d", opts.ID)
		}
		if opts.Format == "json" {
			return writeBytes(w, encodeDetail(d))
		}
		return writeBytes(w, []byte(detailTable(d)+"\n"))
	}

	products, err := repo.List(ctx)
	if err != nil {
		return errors.Wrap(err, "list products")
	}
	items := product.Apply(products, opts.Mode, opts.Search)
	zctx.From(ctx).Info("Products",
		zap.Int("fetched", len(products)),
		zap.Int("shown", len(items)),
		zap.Stringer("mode", opts.Mode),
	)
	if opts.Format == "json" {
		return writeBytes(w, encodeList(items))
	}
	return writeBytes(w, []byte(listTable(items, opts.Mode)+"\n"))
}

func writeBytes(w io.Writer, b []byte) error {
	if _, err := w.Write(b); err != nil {
		return errors.Wrap(err, "write output")
	}
	return nil
}

func encodeProduct(e *jx.Encoder, p product.Product) {
	e.Field("id", func(e *jx.Encoder) { e.Int(p.ID) })
	e.Field("title", func(e *jx.Encoder) { e.Str(p.Title) })
	e.Field("price", func(e *jx.Encoder) { e.Float64(p.Price) })
	e.Field("discountPercentage", func(e *jx.Encoder) { e.Float64(p.DiscountPercentage) })
	e.Field("rating", func(e *jx.Encoder) { e.Float64(p.Rating) })
	e.Field("stock", func(e *jx.Encoder) { e.Int(p.Stock) })
	e.Field("thumbnail", func(e *jx.Encoder) { e.Str(p.Thumbnail) })
}

// encodeList writes items as a JSON array. totalPrice is present only for
// items where it was computed.
func encodeList(items []product.Derived) []byte {
	var e jx.Encoder
	e.Arr(func(e *jx.Encoder) {
		for _, d := range items {
			e.Obj(func(e *jx.Encoder) {
				encodeProduct(e, d.Product)
				if d.TotalPrice != nil {
					total := *d.TotalPrice
					e.Field("totalPrice", func(e *jx.Encoder) { e.Float64(total) })
				}
			})
		}
	})
	return append(e.Bytes(), '\n')
}

func encodeDetail(d *product.Detail) []byte {
	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		encodeProduct(e, d.Product)
		e.Field("description", func(e *jx.Encoder) { e.Str(d.Description) })
		e.Field("warrantyInformation", func(e *jx.Encoder) { e.Str(d.WarrantyInformation) })
		e.Field("shippingInformation", func(e *jx.Encoder) { e.Str(d.ShippingInformation) })
		e.Field("availabilityStatus", func(e *jx.Encoder) { e.Str(d.AvailabilityStatus) })
		e.Field("reviews", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, r := range d.Reviews {
					e.Obj(func(e *jx.Encoder) {
						e.Field("reviewerName", func(e *jx.Encoder) { e.Str(r.ReviewerName) })
						e.Field("rating", func(e *jx.Encoder) { e.Float64(r.Rating) })
						e.Field("date", func(e *jx.Encoder) { e.Str(r.Date) })
						e.Field("comment", func(e *jx.Encoder) { e.Str(r.Comment) })
					})
				}
			})
		})
	})
	return append(e.Bytes(), '\n')
}

func price(v float64) string {
	return "$" + strconv.FormatFloat(v, 'f', 2, 64)
}

func listTable(items []product.Derived, mode product.FilterMode) string {
	headers := []string{"ID", "Title", "Price", "Stock"}
	switch mode {
	case product.ModeTotalPrice:
		headers = append(headers, "Total Price")
	case product.ModeSortByRating:
		headers = append(headers, "Rating")
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...)
	for _, d := range items {
		row := []string{strconv.Itoa(d.ID), d.Title, price(d.Price), strconv.Itoa(d.Stock)}
		switch mode {
		case product.ModeTotalPrice:
			row = append(row, "$"+d.TotalPriceText())
		case product.ModeSortByRating:
			row = append(row, strconv.FormatFloat(d.Rating, 'f', 2, 64))
		}
		t.Row(row...)
	}
	return t.String()
}

func detailTable(d *product.Detail) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Rows(
			[]string{"ID", strconv.Itoa(d.ID)},
			[]string{"Title", d.Title},
			[]string{"Price", price(d.Price)},
			[]string{"Discount", strconv.FormatFloat(d.DiscountPercentage, 'f', -1, 64) + "%"},
			[]string{"Rating", strconv.FormatFloat(d.Rating, 'f', 2, 64)},
			[]string{"Stock", fmt.Sprintf("%d (%s)", d.Stock, d.AvailabilityStatus)},
			[]string{"Warranty", d.WarrantyInformation},
			[]string{"Shipping", d.ShippingInformation},
			[]string{"Reviews", strconv.Itoa(len(d.Reviews))},
		)
	return t.String()
}
