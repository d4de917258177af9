package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/catalog-viewer/pkg/httpmiddleware"
)

func TestNewClient_SendsThroughMiddleware(t *testing.T) {
	var marker, requestID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		marker = r.Header.Get(httpmiddleware.RequestMarkerHeader)
		requestID = r.Header.Get(httpmiddleware.RequestIDHeader)
		_, _ = w.Write([]byte(`{"products":[{"id":1,"title":"Essence Mascara","price":9.99}]}`))
	}))
	defer srv.Close()

	client, err := NewClient(CatalogConfig{
		BaseURL:   srv.URL,
		Timeout:   time.Second,
		RateLimit: 100,
		Burst:     10,
	})
	require.NoError(t, err)

	products, err := client.List(context.Background())
	require.NoError(t, err)

	require.Len(t, products, 1)
	assert.Equal(t, "Essence Mascara", products[0].Title)
	assert.Equal(t, httpmiddleware.RequestMarkerValue, marker)
	assert.NotEmpty(t, requestID)
}
