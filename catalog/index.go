package catalog

import (
	"context"
	"sort"

	"github.com/pkg/errors"
)

// Index holds the sorted unique value sets derived from the full catalog.
// It is built once at startup and never mutated afterwards, so concurrent
// reads need no synchronization.
type Index struct {
	tags         []string
	brands       []string
	productTypes []string
	categories   []string
}

// Searcher is the subset of the catalog client the index builder needs.
type Searcher interface {
	Search(ctx context.Context, filters map[string]string) ([]Product, error)
}

// BuildIndex fetches the entire unfiltered catalog and derives the tag,
// brand, product type and category sets. A fetch failure propagates; no
// partially built index is ever returned.
func BuildIndex(ctx context.Context, client Searcher) (*Index, error) {
	products, err := client.Search(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "fetch full catalog")
	}
	return NewIndex(products), nil
}

// NewIndex derives the value sets from an already-fetched product list.
// The result is identical for any enumeration order of the input.
func NewIndex(products []Product) *Index {
	tags := map[string]struct{}{}
	brands := map[string]struct{}{}
	productTypes := map[string]struct{}{}
	categories := map[string]struct{}{}

	for _, product := range products {
		for _, tag := range product.TagList {
			if tag != "" {
				tags[tag] = struct{}{}
			}
		}
		if product.Brand != "" {
			brands[product.Brand] = struct{}{}
		}
		if product.ProductType != "" {
			productTypes[product.ProductType] = struct{}{}
		}
		if product.Category != "" {
			categories[product.Category] = struct{}{}
		}
	}

	return &Index{
		tags:         sortedKeys(tags),
		brands:       sortedKeys(brands),
		productTypes: sortedKeys(productTypes),
		categories:   sortedKeys(categories),
	}
}

// Tags returns the sorted unique tag set.
func (i *Index) Tags() []string { return i.tags }

// Brands returns the sorted unique brand set.
func (i *Index) Brands() []string { return i.brands }

// ProductTypes returns the sorted unique product type set.
func (i *Index) ProductTypes() []string { return i.productTypes }

// Categories returns the sorted unique category set.
func (i *Index) Categories() []string { return i.categories }

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
