package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/catalog-viewer/internal/domain/product"
	"github.com/xenking/catalog-viewer/pkg/httpmiddleware"
)

const listBody = `{
  "products": [
    {"id": 1, "title": "Essence Mascara Lash Princess", "price": 9.99, "discountPercentage": 7.17,
     "rating": 4.94, "stock": 5, "thumbnail": "https://cdn.test/1.png", "category": "beauty"},
    {"id": 2, "price": 19.99, "rating": 3.28, "stock": 44}
  ],
  "total": 194, "skip": 0, "limit": 30
}`

const detailBody = `{
  "id": 6, "title": "Calvin Klein CK One", "description": "A classic unisex fragrance.",
  "price": 49.99, "discountPercentage": 0.32, "rating": 4.85, "stock": 17,
  "warrantyInformation": "5 year warranty", "shippingInformation": "Ships in 2 weeks",
  "availabilityStatus": "In Stock",
  "reviews": [
    {"rating": 5, "comment": "Great value!", "date": "2024-05-23T08:56:21.620Z", "reviewerName": "Layla Young"}
  ]
}`

func newTestClient(t *testing.T, h http.Handler, transport ...httpmiddleware.Middleware) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := New(Options{
		BaseURL: srv.URL + "/",
		HTTPClient: &http.Client{
			Transport: httpmiddleware.Wrap(srv.Client().Transport, transport...),
		},
		Timeout: time.Second,
	})
	require.NoError(t, err)
	return c
}

func TestClient_List(t *testing.T) {
	var gotPath, gotMarker string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMarker = r.Header.Get(httpmiddleware.RequestMarkerHeader)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(listBody))
	}), httpmiddleware.Annotate(httpmiddleware.DefaultAnnotateConfig()))

	products, err := c.List(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "/products", gotPath)
	assert.Equal(t, "request", gotMarker)
	require.Len(t, products, 2)
	assert.Equal(t, product.Product{
		ID:                 1,
		Title:              "Essence Mascara Lash Princess",
		Category:           "beauty",
		Thumbnail:          "https://cdn.test/1.png",
		Price:              9.99,
		DiscountPercentage: 7.17,
		Rating:             4.94,
		Stock:              5,
	}, products[0])
	// Missing fields decode to zero values rather than failing.
	assert.Empty(t, products[1].Title)
	assert.Zero(t, products[1].DiscountPercentage)
}

func TestClient_ListEmptyEnvelope(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))

	products, err := c.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, products)
	assert.Empty(t, products)
}

func TestClient_GetByID(t *testing.T) {
	var gotPath string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(detailBody))
	}))

	d, err := c.GetByID(context.Background(), 6)
	require.NoError(t, err)

	assert.Equal(t, "/products/6", gotPath)
	assert.Equal(t, 6, d.ID)
	assert.Equal(t, "Calvin Klein CK One", d.Title)
	assert.Equal(t, "5 year warranty", d.WarrantyInformation)
	assert.Equal(t, "In Stock", d.AvailabilityStatus)
	require.Len(t, d.Reviews, 1)
	assert.Equal(t, "Layla Young", d.Reviews[0].ReviewerName)
	assert.Equal(t, "May 23, 2024", d.Reviews[0].DisplayDate())
}

func TestClient_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		id      int
		wantErr error
	}{
		{name: "not found", status: http.StatusNotFound, body: `{"message":"Product with id '999' not found"}`, id: 999, wantErr: product.ErrNotFound},
		{name: "server error", status: http.StatusBadGateway, body: "upstream", id: 1, wantErr: ErrUnexpectedStatus},
		{name: "bad request", status: http.StatusBadRequest, body: "", id: 1, wantErr: ErrUnexpectedStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))

			_, err := c.GetByID(context.Background(), tt.id)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestClient_GetByIDInvalidSkipsRequest(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
	}))

	for _, id := range []int{0, -3} {
		_, err := c.GetByID(context.Background(), id)
		require.ErrorIs(t, err, product.ErrNotFound)
	}
	assert.Zero(t, calls.Load())
}

func TestClient_MalformedBody(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"products": [`))
	}))

	_, err := c.List(context.Background())
	require.Error(t, err)
	assert.False(t, errors.Is(err, product.ErrNotFound))
}

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.GetByID(ctx, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNew_Defaults(t *testing.T) {
	c, err := New(Options{})
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, c.BaseURL())
}
