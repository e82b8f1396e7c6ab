package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/domasjohn/BlazzorEcommerce/internal/domain"
	"github.com/domasjohn/BlazzorEcommerce/internal/notify"
	"github.com/domasjohn/BlazzorEcommerce/internal/repository"
)

// Hydrator joins bare cart lines against the catalog.
type Hydrator interface {
	Resolve(ctx context.Context, lines []domain.CartLine) ([]domain.CartProduct, error)
}

type CartService struct {
	repo     repository.CartRepository
	hydrator Hydrator
	notifier notify.Notifier
	sfg      singleflight.Group // Prevents hydration stampede per user
}

func NewCartService(repo repository.CartRepository, hydrator Hydrator, notifier notify.Notifier) *CartService {
	if notifier == nil {
		notifier = notify.NopNotifier{}
	}
	return &CartService{
		repo:     repo,
		hydrator: hydrator,
		notifier: notifier,
	}
}

// CartProducts hydrates arbitrary lines, the anonymous preview path.
func (s *CartService) CartProducts(ctx context.Context, lines []domain.CartLine) ([]domain.CartProduct, error) {
	return s.hydrator.Resolve(ctx, lines)
}

// UserCartProducts hydrates the user's persisted cart. Concurrent calls for
// the same user collapse into one read.
func (s *CartService) UserCartProducts(ctx context.Context, userID int64) ([]domain.CartProduct, error) {
	v, err, _ := s.sfg.Do(strconv.FormatInt(userID, 10), func() (interface{}, error) {
		lines, err := s.repo.LinesFor(ctx, userID)
		if err != nil {
			return nil, err
		}
		return s.hydrator.Resolve(ctx, lines)
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.CartProduct), nil
}

// StoreLines appends the lines as new durable rows and returns the hydrated
// cart. It never aggregates into existing rows with the same key: duplicates
// coexist until a keyed update or removal resolves them. An empty slice
// writes nothing and fires no notification.
func (s *CartService) StoreLines(ctx context.Context, userID int64, lines []domain.CartLine) ([]domain.CartProduct, error) {
	for _, line := range lines {
		if err := line.Validate(); err != nil {
			return nil, fmt.Errorf("invalid cart line %d/%d: %w", line.ProductID, line.VariantID, err)
		}
	}

	if len(lines) == 0 {
		return s.UserCartProducts(ctx, userID)
	}

	if err := s.repo.AppendLines(ctx, userID, lines); err != nil {
		log.Printf("repo append lines error: %v \n", err)
		return nil, err
	}

	s.notifyChange(userID)
	return s.UserCartProducts(ctx, userID)
}

func (s *CartService) Count(ctx context.Context, userID int64) (int, error) {
	return s.repo.CountFor(ctx, userID)
}

// RemoveLine deletes the key's rows. An absent key is a no-op, not an error,
// and fires no notification.
func (s *CartService) RemoveLine(ctx context.Context, userID, productID, variantID int64) error {
	err := s.repo.RemoveLine(ctx, userID, productID, variantID)
	if errors.Is(err, repository.ErrLineNotFound) {
		return nil
	}
	if err != nil {
		log.Printf("repo remove line error: %v \n", err)
		return err
	}

	s.notifyChange(userID)
	return nil
}

// UpdateQuantity overwrites (not adds to) the key's quantity. Absent key is a
// no-op.
func (s *CartService) UpdateQuantity(ctx context.Context, userID, productID, variantID int64, quantity int) error {
	if quantity < 1 {
		return domain.ErrInvalidQuantity
	}
	if quantity > domain.MaxLineQuantity {
		return domain.ErrQuantityTooLarge
	}

	err := s.repo.UpdateQuantity(ctx, userID, productID, variantID, quantity)
	if errors.Is(err, repository.ErrLineNotFound) {
		return nil
	}
	if err != nil {
		log.Printf("repo update quantity error: %v \n", err)
		return err
	}

	s.notifyChange(userID)
	return nil
}

// notifyChange publishes after the durable effect is confirmed and never
// blocks the mutation path.
func (s *CartService) notifyChange(userID int64) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.notifier.CartChanged(ctx, userID); err != nil {
			log.Printf("cart change notify error: %v \n", err)
		}
	}()
}
