package localstore

import (
	"context"

	"github.com/domasjohn/BlazzorEcommerce/internal/domain"
)

// Store is the device-scoped cart storage used while the visitor is anonymous.
// An absent value is the empty default, never an error the caller branches on.
type Store interface {
	Cart(ctx context.Context) ([]domain.CartLine, error)
	SetCart(ctx context.Context, lines []domain.CartLine) error
	RemoveCart(ctx context.Context) error
	ItemCount(ctx context.Context) (int, error)
	SetItemCount(ctx context.Context, count int) error
}
