// Package catalog fetches and indexes the product list. A catalog
// failure is never fatal to the storefront: the source swallows gateway
// errors and hands back an empty list, so the UI renders "no products"
// instead of dying.
package catalog

import (
	"context"

	"go.uber.org/zap"

	"github.com/Dhwanith/qkart/internal/api"
)

type Product = api.Product

// Fetcher is the slice of the gateway the catalog needs.
type Fetcher interface {
	Products(ctx context.Context) ([]api.Product, error)
	SearchProducts(ctx context.Context, value string) ([]api.Product, error)
}

type Source struct {
	gw  Fetcher
	log *zap.Logger
}

func NewSource(gw Fetcher, log *zap.Logger) *Source {
	if log == nil {
		log = zap.NewNop()
	}
	return &Source{gw: gw, log: log}
}

// FetchAll returns the full catalog, or an empty slice on failure.
func (s *Source) FetchAll(ctx context.Context) []Product {
	products, err := s.gw.Products(ctx)
	if err != nil {
		s.log.Warn("catalog fetch failed", zap.Error(err))
		return []Product{}
	}
	return products
}

// Search queries the catalog by free text. Empty text is the full
// catalog. Failure yields an empty slice, same as FetchAll.
func (s *Source) Search(ctx context.Context, text string) []Product {
	if text == "" {
		return s.FetchAll(ctx)
	}
	products, err := s.gw.SearchProducts(ctx, text)
	if err != nil {
		s.log.Warn("catalog search failed", zap.String("text", text), zap.Error(err))
		return []Product{}
	}
	return products
}

// Index keys a catalog snapshot by product id. Ids are treated as unique;
// a duplicate id in the snapshot keeps the last entry rather than
// producing duplicate cart items.
type Index map[string]Product

func NewIndex(products []Product) Index {
	idx := make(Index, len(products))
	for _, p := range products {
		idx[p.ID] = p
	}
	return idx
}

func (idx Index) Lookup(id string) (Product, bool) {
	p, ok := idx[id]
	return p, ok
}
