package orchestrator

import (
	"context"
	"errors"
	"sync"

	"github.com/domasjohn/BlazzorEcommerce/internal/domain"
	"github.com/domasjohn/BlazzorEcommerce/internal/localstore"
)

var ErrNotAuthenticated = errors.New("operation requires an authenticated session")

// Session is the auth state for one call. It is passed explicitly into every
// operation and never cached between calls, so the anonymous/authenticated
// branch is a pure function of its inputs.
type Session struct {
	UserID int64
	Token  string
}

func (s Session) Authenticated() bool {
	return s.Token != "" && s.UserID > 0
}

// ServerClient is the orchestrator's port to the cart server.
type ServerClient interface {
	ResolveLines(ctx context.Context, lines []domain.CartLine) ([]domain.CartProduct, error)
	UserCart(ctx context.Context, token string) ([]domain.CartProduct, error)
	StoreLines(ctx context.Context, token string, lines []domain.CartLine) error
	CartCount(ctx context.Context, token string) (int, error)
	RemoveLine(ctx context.Context, token string, productID, variantID int64) error
	UpdateQuantity(ctx context.Context, token string, productID, variantID int64, quantity int) error
}

// Cart is the single entry point UI code calls. Anonymous sessions work
// against the device's local store; authenticated sessions work against the
// server. Subscribers registered with Subscribe hear about every confirmed
// mutation.
type Cart struct {
	local  localstore.Store
	server ServerClient

	mu     sync.Mutex
	nextID int
	subs   map[int]func()
}

func New(local localstore.Store, server ServerClient) *Cart {
	return &Cart{
		local:  local,
		server: server,
		subs:   make(map[int]func()),
	}
}

// Subscribe registers a change callback and returns the id to unsubscribe
// with. Callbacks run on their own goroutine; a slow subscriber never blocks
// a cart mutation.
func (c *Cart) Subscribe(fn func()) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextID++
	c.subs[c.nextID] = fn
	return c.nextID
}

func (c *Cart) Unsubscribe(id int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.subs, id)
}

func (c *Cart) notifyChange() {
	c.mu.Lock()
	subs := make([]func(), 0, len(c.subs))
	for _, fn := range c.subs {
		subs = append(subs, fn)
	}
	c.mu.Unlock()

	for _, fn := range subs {
		go fn()
	}
}

// AddToCart puts a line in the current-mode cart. Anonymous adds aggregate
// quantity into an existing line with the same (product, variant) key, and
// an aggregate past MaxLineQuantity is rejected so the snapshot stays within
// what the server accepts. Authenticated adds append a new durable row
// without aggregating, which is the persisted store's observed append-only
// behavior.
func (c *Cart) AddToCart(ctx context.Context, sess Session, line domain.CartLine) error {
	if err := line.Validate(); err != nil {
		return err
	}

	if sess.Authenticated() {
		if err := c.server.StoreLines(ctx, sess.Token, []domain.CartLine{line}); err != nil {
			return err
		}
	} else {
		cart, err := c.local.Cart(ctx)
		if err != nil {
			return err
		}

		merged := false
		for i := range cart {
			if cart[i].Matches(line.ProductID, line.VariantID) {
				if cart[i].Quantity+line.Quantity > domain.MaxLineQuantity {
					return domain.ErrQuantityTooLarge
				}
				cart[i].Quantity += line.Quantity
				merged = true
				break
			}
		}
		if !merged {
			cart = append(cart, line)
		}

		if err := c.local.SetCart(ctx, cart); err != nil {
			return err
		}
	}

	_, err := c.ItemCount(ctx, sess)
	return err
}

// ItemCount refreshes the cached count and notifies subscribers. The count is
// the number of distinct lines, not the quantity sum: server-side it is the
// persisted row count, anonymous it is the snapshot's length.
func (c *Cart) ItemCount(ctx context.Context, sess Session) (int, error) {
	var count int

	if sess.Authenticated() {
		n, err := c.server.CartCount(ctx, sess.Token)
		if err != nil {
			return 0, err
		}
		count = n
	} else {
		cart, err := c.local.Cart(ctx)
		if err != nil {
			return 0, err
		}
		count = len(cart)
	}

	if err := c.local.SetItemCount(ctx, count); err != nil {
		return 0, err
	}

	c.notifyChange()
	return count, nil
}

// CartProducts returns the hydrated cart. An empty anonymous cart answers
// without touching the network.
func (c *Cart) CartProducts(ctx context.Context, sess Session) ([]domain.CartProduct, error) {
	if sess.Authenticated() {
		return c.server.UserCart(ctx, sess.Token)
	}

	cart, err := c.local.Cart(ctx)
	if err != nil {
		return nil, err
	}
	if len(cart) == 0 {
		return []domain.CartProduct{}, nil
	}

	return c.server.ResolveLines(ctx, cart)
}

// RemoveLine deletes the identity key from the current-mode cart. An absent
// key is a no-op and fires no notification.
func (c *Cart) RemoveLine(ctx context.Context, sess Session, productID, variantID int64) error {
	if sess.Authenticated() {
		if err := c.server.RemoveLine(ctx, sess.Token, productID, variantID); err != nil {
			return err
		}
	} else {
		cart, err := c.local.Cart(ctx)
		if err != nil {
			return err
		}

		idx := -1
		for i := range cart {
			if cart[i].Matches(productID, variantID) {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil
		}

		cart = append(cart[:idx], cart[idx+1:]...)
		if err := c.local.SetCart(ctx, cart); err != nil {
			return err
		}
	}

	_, err := c.ItemCount(ctx, sess)
	return err
}

// UpdateQuantity overwrites the line's quantity, it does not add to it. An
// absent key is a no-op. The distinct-line count is unchanged by an update,
// so no count refresh happens.
func (c *Cart) UpdateQuantity(ctx context.Context, sess Session, productID, variantID int64, quantity int) error {
	if quantity < 1 {
		return domain.ErrInvalidQuantity
	}
	if quantity > domain.MaxLineQuantity {
		return domain.ErrQuantityTooLarge
	}

	if sess.Authenticated() {
		if err := c.server.UpdateQuantity(ctx, sess.Token, productID, variantID, quantity); err != nil {
			return err
		}
	} else {
		cart, err := c.local.Cart(ctx)
		if err != nil {
			return err
		}

		updated := false
		for i := range cart {
			if cart[i].Matches(productID, variantID) {
				cart[i].Quantity = quantity
				updated = true
				break
			}
		}
		if !updated {
			return nil
		}

		if err := c.local.SetCart(ctx, cart); err != nil {
			return err
		}
	}

	c.notifyChange()
	return nil
}

// MigrateOnLogin moves the device's anonymous cart into the user's persisted
// cart. Call it exactly once, at the anonymous-to-authenticated transition.
// An empty local cart is a no-op. There is no reverse migration on logout.
func (c *Cart) MigrateOnLogin(ctx context.Context, sess Session, clearLocal bool) error {
	if !sess.Authenticated() {
		return ErrNotAuthenticated
	}

	cart, err := c.local.Cart(ctx)
	if err != nil {
		return err
	}
	if len(cart) == 0 {
		return nil
	}

	if err := c.server.StoreLines(ctx, sess.Token, cart); err != nil {
		return err
	}

	if clearLocal {
		return c.local.RemoveCart(ctx)
	}

	return nil
}
