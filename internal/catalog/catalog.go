package catalog

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrVariantNotFound = errors.New("product variant not found")
)

// Product is the read-only slice of catalog data the cart needs.
type Product struct {
	ID       int64
	Title    string
	ImageURL string
}

// Variant is a product variant joined with its type name. Its identity is the
// (ProductID, VariantTypeID) pair.
type Variant struct {
	ProductID     int64
	VariantTypeID int64
	TypeName      string
	Price         decimal.Decimal
}

// Reader looks up catalog rows by key. The cart subsystem never creates,
// updates or owns catalog data.
type Reader interface {
	Product(ctx context.Context, id int64) (*Product, error)
	Variant(ctx context.Context, productID, variantTypeID int64) (*Variant, error)
}
