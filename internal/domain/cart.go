package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

// MaxLineQuantity caps how many units one cart line may hold. Every layer
// shares it: a snapshot built on the device is always storable server-side.
const MaxLineQuantity = 99

var (
	ErrInvalidQuantity  = errors.New("quantity must be at least 1")
	ErrQuantityTooLarge = errors.New("quantity must be at most 99")
	ErrInvalidLineKey   = errors.New("product and variant ids must be positive")
)

// CartLine is one entry of a cart. The (ProductID, VariantID) pair is the
// line's identity: a cart never holds two lines with the same pair.
type CartLine struct {
	ProductID int64 `json:"product_id" bson:"product_id"`
	VariantID int64 `json:"variant_id" bson:"variant_id"`
	Quantity  int   `json:"quantity" bson:"quantity"`
}

func (l CartLine) Validate() error {
	if l.ProductID <= 0 || l.VariantID <= 0 {
		return ErrInvalidLineKey
	}
	if l.Quantity < 1 {
		return ErrInvalidQuantity
	}
	if l.Quantity > MaxLineQuantity {
		return ErrQuantityTooLarge
	}
	return nil
}

// Matches reports whether the line carries the given identity key.
func (l CartLine) Matches(productID, variantID int64) bool {
	return l.ProductID == productID && l.VariantID == variantID
}

// PersistedCartLine is a durable cart row owned by the persisted store.
type PersistedCartLine struct {
	UserID   int64 `json:"user_id" bson:"user_id"`
	CartLine `bson:",inline"`
}

// CartProduct is a cart line joined against the catalog: title, image and the
// variant's current price. It is derived on every read and never stored.
type CartProduct struct {
	ProductID   int64           `json:"product_id"`
	VariantID   int64           `json:"variant_id"`
	Title       string          `json:"title"`
	ImageURL    string          `json:"image_url"`
	Price       decimal.Decimal `json:"price"`
	VariantType string          `json:"variant_type"`
	Quantity    int             `json:"quantity"`
}
