// Package catalog is the HTTP client for the remote product catalog.
package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/goccy/go-json"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/xenking/catalog-viewer/internal/domain/product"
)

const (
	// DefaultBaseURL is the public catalog the viewer talks to by default.
	DefaultBaseURL = "https://dummyjson.com"
	defaultTimeout = 10 * time.Second

	instrumentationName = "github.com/xenking/catalog-viewer/internal/catalog"
)

// ErrUnexpectedStatus is wrapped by errors for non-2xx responses other than
// 404 on a single product.
var ErrUnexpectedStatus = errors.New("unexpected status")

var _ product.Repository = (*Client)(nil)

// Options configures a Client.
type Options struct {
	// BaseURL is the catalog root, e.g. https://dummyjson.com.
	BaseURL string

	// HTTPClient sends requests. Its transport carries the middleware chain.
	HTTPClient *http.Client

	// Timeout bounds a single request when the caller's context has no
	// earlier deadline.
	Timeout time.Duration

	TracerProvider trace.TracerProvider
	MeterProvider  metric.MeterProvider
}

func (o *Options) setDefaults() {
	o.BaseURL = strings.TrimRight(strings.TrimSpace(o.BaseURL), "/")
	if o.BaseURL == "" {
		o.BaseURL = DefaultBaseURL
	}
	if o.HTTPClient == nil {
		o.HTTPClient = http.DefaultClient
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.TracerProvider == nil {
		o.TracerProvider = otel.GetTracerProvider()
	}
	if o.MeterProvider == nil {
		o.MeterProvider = otel.GetMeterProvider()
	}
}

// Client implements product.Repository over the catalog REST API.
type Client struct {
	baseURL  string
	http     *http.Client
	timeout  time.Duration
	tracer   trace.Tracer
	requests metric.Int64Counter
}

// New creates a Client.
func New(opts Options) (*Client, error) {
	opts.setDefaults()
	if _, err := url.Parse(opts.BaseURL); err != nil {
		return nil, errors.Wrap(err, "parse base url")
	}

	requests, err := opts.MeterProvider.Meter(instrumentationName).Int64Counter("catalog.requests",
		metric.WithDescription("Catalog API requests by operation and outcome"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "create requests counter")
	}

	return &Client{
		baseURL:  opts.BaseURL,
		http:     opts.HTTPClient,
		timeout:  opts.Timeout,
		tracer:   opts.TracerProvider.Tracer(instrumentationName),
		requests: requests,
	}, nil
}

// BaseURL returns the catalog root the client was configured with.
func (c *Client) BaseURL() string { return c.baseURL }

// listResponse is the envelope of GET /products.
type listResponse struct {
	Products []product.Product `json:"products"`
	Total    int               `json:"total"`
	Skip     int               `json:"skip"`
	Limit    int               `json:"limit"`
}

// List returns the products served by GET /products.
func (c *Client) List(ctx context.Context) (_ []product.Product, rerr error) {
	ctx, span := c.tracer.Start(ctx, "catalog.List")
	defer func() { c.finish(ctx, span, "list", rerr) }()

	var out listResponse
	if err := c.get(ctx, &out, "products"); err != nil {
		return nil, errors.Wrap(err, "list products")
	}
	if out.Products == nil {
		out.Products = []product.Product{}
	}
	span.SetAttributes(attribute.Int("catalog.products", len(out.Products)))

	zctx.From(ctx).Debug("Products fetched",
		zap.Int("count", len(out.Products)),
		zap.Int("total", out.Total),
	)
	return out.Products, nil
}

// GetByID returns a single product. It returns product.ErrNotFound for
// non-positive ids and when the catalog answers 404.
func (c *Client) GetByID(ctx context.Context, id int) (_ *product.Detail, rerr error) {
	ctx, span := c.tracer.Start(ctx, "catalog.GetByID",
		trace.WithAttributes(attribute.Int("catalog.product_id", id)),
	)
	defer func() { c.finish(ctx, span, "get", rerr) }()

	if id <= 0 {
		return nil, product.ErrNotFound
	}

	var out product.Detail
	if err := c.get(ctx, &out, "products", strconv.Itoa(id)); err != nil {
		if errors.Is(err, product.ErrNotFound) {
			return nil, product.ErrNotFound
		}
		return nil, errors.Wrapf(err, "get product %d", id)
	}
	return &out, nil
}

func (c *Client) get(ctx context.Context, dst any, elem ...string) error {
	endpoint, err := url.JoinPath(c.baseURL, elem...)
	if err != nil {
		return errors.Wrap(err, "build url")
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return errors.Wrap(err, "create request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(err, "send request")
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return product.ErrNotFound
	case resp.StatusCode >= 400:
		return errors.Wrapf(ErrUnexpectedStatus, "%d: %s", resp.StatusCode, drainError(resp.Body))
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return errors.Wrap(err, "decode response")
	}
	return nil
}

func (c *Client) finish(ctx context.Context, span trace.Span, op string, err error) {
	outcome := "ok"
	switch {
	case err == nil:
	case errors.Is(err, product.ErrNotFound):
		outcome = "not_found"
	default:
		outcome = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	c.requests.Add(ctx, 1, metric.WithAttributes(
		attribute.String("op", op),
		attribute.String("outcome", outcome),
	))
	span.End()
}

// drainError reads a bounded prefix of an error body for diagnostics.
func drainError(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, 512))
	msg := strings.TrimSpace(string(b))
	if msg == "" {
		return "empty body"
	}
	return fmt.Sprintf("%q", msg)
}
