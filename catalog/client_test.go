package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientSearch(t *testing.T) {
	var gotQuery map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id": 1048, "name": "Blotted Lip", "brand": "colourpop", "price": "5.5", "currency": "CAD"},
			{"id": 1047, "name": "Lippie Stix", "brand": "colourpop", "price": "5.5", "currency": "CAD"}
		]`))
	}))
	defer server.Close()

	client := NewClient(&Config{BaseURL: server.URL})
	products, err := client.Search(context.Background(), map[string]string{"brand": "colourpop"})
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Blotted Lip", products[0].Name)
	assert.Equal(t, int64(1048), products[0].ID)

	// Filters pass through as query parameters unaltered.
	require.Contains(t, gotQuery, "brand")
	assert.Equal(t, []string{"colourpop"}, gotQuery["brand"])
}

func TestClientSearchEmptyResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := NewClient(&Config{BaseURL: server.URL})
	products, err := client.Search(context.Background(), map[string]string{"brand": "nosuchbrand"})
	require.NoError(t, err)
	assert.NotNil(t, products)
	assert.Empty(t, products)
}

func TestClientSearchMalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>herokuapp maintenance</html>`))
	}))
	defer server.Close()

	client := NewClient(&Config{BaseURL: server.URL})
	_, err := client.Search(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUpstream))
}

func TestClientSearchUpstreamStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(&Config{BaseURL: server.URL})
	_, err := client.Search(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUpstream))
}

func TestClientSearchUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewClient(&Config{BaseURL: server.URL})
	_, err := client.Search(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUpstream))
}

func TestClientGetByID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products/1048.json", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"id": 1048,
			"name": "Blotted Lip",
			"brand": "colourpop",
			"price": "5.5",
			"price_sign": "$",
			"currency": "CAD",
			"image_link": "https://cdn.shopify.com/blotted-lip.jpg"
		}`))
	}))
	defer server.Close()

	client := NewClient(&Config{BaseURL: server.URL})
	product, err := client.GetByID(context.Background(), "1048")
	require.NoError(t, err)
	assert.Equal(t, int64(1048), product.ID)
	assert.Equal(t, "Blotted Lip", product.Name)
	assert.Equal(t, "https://cdn.shopify.com/blotted-lip.jpg", product.ImageLink)
}

func TestClientGetByIDNotFound(t *testing.T) {
	// The catalog signals a missing product with an object lacking an id.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient(&Config{BaseURL: server.URL})
	_, err := client.GetByID(context.Background(), "999999")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}
