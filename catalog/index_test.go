package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticSearcher struct {
	products []Product
	err      error
}

func (s *staticSearcher) Search(ctx context.Context, filters map[string]string) ([]Product, error) {
	return s.products, s.err
}

func indexFixture() []Product {
	return []Product{
		{Brand: "maybelline", Category: "lipstick", ProductType: "lipstick", TagList: []string{"Vegan", "Natural"}},
		{Brand: "colourpop", Category: "", ProductType: "blush", TagList: []string{"Vegan"}},
		{Brand: "maybelline", Category: "powder", ProductType: "blush", TagList: nil},
		{Brand: "", Category: "lipstick", ProductType: "", TagList: []string{"Gluten Free"}},
	}
}

func TestNewIndex(t *testing.T) {
	index := NewIndex(indexFixture())

	assert.Equal(t, []string{"Gluten Free", "Natural", "Vegan"}, index.Tags())
	assert.Equal(t, []string{"colourpop", "maybelline"}, index.Brands())
	assert.Equal(t, []string{"blush", "lipstick"}, index.ProductTypes())
	assert.Equal(t, []string{"lipstick", "powder"}, index.Categories())
}

func TestNewIndexOrderIndependent(t *testing.T) {
	products := indexFixture()
	reversed := make([]Product, len(products))
	for i, product := range products {
		reversed[len(products)-1-i] = product
	}

	forward := NewIndex(products)
	backward := NewIndex(reversed)

	assert.Equal(t, forward.Tags(), backward.Tags())
	assert.Equal(t, forward.Brands(), backward.Brands())
	assert.Equal(t, forward.ProductTypes(), backward.ProductTypes())
	assert.Equal(t, forward.Categories(), backward.Categories())
}

func TestNewIndexEmptyCatalog(t *testing.T) {
	index := NewIndex(nil)

	assert.Empty(t, index.Tags())
	assert.Empty(t, index.Brands())
	assert.Empty(t, index.ProductTypes())
	assert.Empty(t, index.Categories())
}

func TestBuildIndex(t *testing.T) {
	index, err := BuildIndex(context.Background(), &staticSearcher{products: indexFixture()})
	require.NoError(t, err)
	assert.Equal(t, []string{"colourpop", "maybelline"}, index.Brands())
}

func TestBuildIndexFetchFailure(t *testing.T) {
	upstream := errors.New("connection refused")
	index, err := BuildIndex(context.Background(), &staticSearcher{err: upstream})
	require.Error(t, err)
	assert.Nil(t, index)
	assert.True(t, errors.Is(err, upstream))
}
