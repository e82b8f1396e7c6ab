package resolver

import (
	"context"
	"errors"
	"fmt"

	"github.com/domasjohn/BlazzorEcommerce/internal/catalog"
	"github.com/domasjohn/BlazzorEcommerce/internal/domain"
)

// Resolver turns bare cart lines into display-ready rows by joining catalog
// data. Lines whose product or variant no longer exists in the catalog are
// dropped without error: a stale line in someone's cart is not a failure.
type Resolver struct {
	catalog catalog.Reader
}

func New(c catalog.Reader) *Resolver {
	return &Resolver{catalog: c}
}

// Resolve is a pure read: it never mutates lines and carries each surviving
// line's quantity through unchanged. Prices are the catalog's current prices,
// not snapshots.
func (r *Resolver) Resolve(ctx context.Context, lines []domain.CartLine) ([]domain.CartProduct, error) {
	products := make([]domain.CartProduct, 0, len(lines))

	for _, line := range lines {
		p, err := r.catalog.Product(ctx, line.ProductID)
		if errors.Is(err, catalog.ErrProductNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to resolve product %d: %w", line.ProductID, err)
		}

		v, err := r.catalog.Variant(ctx, line.ProductID, line.VariantID)
		if errors.Is(err, catalog.ErrVariantNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to resolve variant %d/%d: %w", line.ProductID, line.VariantID, err)
		}

		products = append(products, domain.CartProduct{
			ProductID:   p.ID,
			VariantID:   v.VariantTypeID,
			Title:       p.Title,
			ImageURL:    p.ImageURL,
			Price:       v.Price,
			VariantType: v.TypeName,
			Quantity:    line.Quantity,
		})
	}

	return products, nil
}
