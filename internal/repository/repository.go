package repository

import (
	"context"
	"errors"

	"github.com/domasjohn/BlazzorEcommerce/internal/domain"
)

var ErrLineNotFound = errors.New("cart line not found")

// CartRepository is the durable per-user cart store.
// Consumers define this interface, not the MongoDB implementation.
//
// AppendLines is append-only and does not deduplicate: two appends of the same
// (product, variant) key leave two rows until a keyed update or removal
// resolves them. RemoveLine and UpdateQuantity act on every row carrying the
// key in a single filtered operation, so concurrent devices cannot interleave
// a read-modify-write.
type CartRepository interface {
	AppendLines(ctx context.Context, userID int64, lines []domain.CartLine) error
	LinesFor(ctx context.Context, userID int64) ([]domain.CartLine, error)
	CountFor(ctx context.Context, userID int64) (int, error)
	RemoveLine(ctx context.Context, userID, productID, variantID int64) error
	UpdateQuantity(ctx context.Context, userID, productID, variantID int64, quantity int) error
}
