// Package cart holds the authenticated user's cart.
package cart

import (
	"context"
	"strconv"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/state"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

const (
	msgFetch  = "Failed to fetch cart"
	msgAdd    = "Failed to add to cart"
	msgUpdate = "Failed to update cart item"
	msgRemove = "Failed to remove cart item"
	msgClear  = "Failed to clear cart"
)

type API interface {
	Cart(ctx context.Context) (models.Cart, error)
	AddCartItem(ctx context.Context, productID int64, quantity int) (models.Cart, error)
	UpdateCartItem(ctx context.Context, itemID int64, quantity int) (models.Cart, error)
	DeleteCartItem(ctx context.Context, itemID int64) error
	ClearCart(ctx context.Context) error
}

type Snapshot struct {
	Items      []models.CartItem `json:"items"`
	TotalPrice decimal.Decimal   `json:"totalPrice"`
	TotalItems int               `json:"totalItems"`
	Status     state.Status      `json:"status"`
	Error      string            `json:"error,omitempty"`
}

type Cart struct {
	api       API
	publisher events.Publisher

	mu         sync.Mutex
	tr         *state.Tracker
	cartID     int64
	items      []models.CartItem
	totalPrice decimal.Decimal
	totalItems int
}

type Option func(*Cart)

func WithStrictOrdering() Option {
	return func(c *Cart) { c.tr = state.NewTracker(true) }
}

func WithPublisher(p events.Publisher) Option {
	return func(c *Cart) { c.publisher = p }
}

func New(a API, opts ...Option) *Cart {
	c := &Cart{
		api:       a,
		publisher: events.NopPublisher{},
		tr:        state.NewTracker(false),
		items:     []models.CartItem{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Cart) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		Items:      append([]models.CartItem{}, c.items...),
		TotalPrice: c.totalPrice,
		TotalItems: c.totalItems,
		Status:     c.tr.Status(),
		Error:      c.tr.Err(),
	}
}

func (c *Cart) Fetch(ctx context.Context) error {
	return c.replace(ctx, "fetch", msgFetch, events.CartFetched, c.api.Cart)
}

// AddItem treats a quantity below one as one.
func (c *Cart) AddItem(ctx context.Context, productID int64, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}
	return c.replace(ctx, "add_item", msgAdd, events.CartItemsAdded, func(ctx context.Context) (models.Cart, error) {
		return c.api.AddCartItem(ctx, productID, quantity)
	})
}

func (c *Cart) UpdateItem(ctx context.Context, itemID int64, quantity int) error {
	return c.replace(ctx, "update_item", msgUpdate, events.CartItemUpdated, func(ctx context.Context) (models.Cart, error) {
		return c.api.UpdateCartItem(ctx, itemID, quantity)
	})
}

// replace applies a full cart returned by the server.
func (c *Cart) replace(
	ctx context.Context,
	op, fallback, eventType string,
	call func(context.Context) (models.Cart, error),
) error {
	l := logging.FromContext(ctx).With("container", "cart", "op", op)

	res, err := state.Run(ctx, &c.mu, c.tr, state.Op[models.Cart]{
		Fallback: fallback,
		Call:     call,
		Apply: func(res models.Cart) error {
			c.cartID = res.ID
			c.items = res.Items
			if c.items == nil {
				c.items = []models.CartItem{}
			}
			c.totalPrice = res.TotalPrice
			c.totalItems = countItems(c.items)
			return nil
		},
	})
	if err != nil {
		l.Warn(op+"_failed", "status", "rejected", "error", err)
		return err
	}

	l.Debug(op+"_success", "status", "fulfilled", "items", len(res.Items))
	c.publish(ctx, res.ID, map[string]any{
		"type":       eventType,
		"cartID":     res.ID,
		"items":      len(res.Items),
		"totalPrice": res.TotalPrice.String(),
	})
	return nil
}

// RemoveItem deletes the line on the server, which answers without a body.
// The line is dropped locally and the total recomputed from unit prices, with
// no discounts, taxes or shipping.
func (c *Cart) RemoveItem(ctx context.Context, itemID int64) error {
	l := logging.FromContext(ctx).With("container", "cart", "op", "remove_item")

	_, err := state.Run(ctx, &c.mu, c.tr, state.Op[struct{}]{
		Fallback: msgRemove,
		Call: func(ctx context.Context) (struct{}, error) {
			return struct{}{}, c.api.DeleteCartItem(ctx, itemID)
		},
		Apply: func(struct{}) error {
			kept := make([]models.CartItem, 0, len(c.items))
			for _, it := range c.items {
				if it.ID != itemID {
					kept = append(kept, it)
				}
			}
			c.items = kept
			c.totalPrice = totalPrice(kept)
			c.totalItems = countItems(kept)
			return nil
		},
	})
	if err != nil {
		l.Warn("remove_item_failed", "status", "rejected", "item_id", itemID, "error", err)
		return err
	}

	l.Debug("remove_item_success", "status", "fulfilled", "item_id", itemID)
	c.publish(ctx, c.id(), map[string]any{
		"type":   events.CartItemDeleted,
		"itemID": itemID,
	})
	return nil
}

// Clear empties the cart on the server. Clearing an empty cart is fine.
func (c *Cart) Clear(ctx context.Context) error {
	l := logging.FromContext(ctx).With("container", "cart", "op", "clear")

	_, err := state.Run(ctx, &c.mu, c.tr, state.Op[struct{}]{
		Fallback: msgClear,
		Call: func(ctx context.Context) (struct{}, error) {
			return struct{}{}, c.api.ClearCart(ctx)
		},
		Apply: func(struct{}) error {
			c.empty()
			return nil
		},
	})
	if err != nil {
		l.Warn("clear_failed", "status", "rejected", "error", err)
		return err
	}

	l.Debug("clear_success", "status", "fulfilled")
	c.publish(ctx, c.id(), map[string]any{"type": events.CartCleared})
	return nil
}

// Reset drops local cart state without calling the server. Requests still in
// flight are ignored when they complete. Used on logout.
func (c *Cart) Reset() {
	c.mu.Lock()
	c.empty()
	c.tr.Invalidate()
	c.tr.Reset()
	c.mu.Unlock()
	c.tr.Notify(state.Idle)
}

func (c *Cart) Subscribe(l state.Listener) {
	c.tr.Subscribe(l)
}

func (c *Cart) Status() state.Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tr.Status()
}

func (c *Cart) Close() {
	c.mu.Lock()
	c.tr.Close()
	c.mu.Unlock()
}

func (c *Cart) empty() {
	c.items = []models.CartItem{}
	c.totalPrice = decimal.Zero
	c.totalItems = 0
}

func (c *Cart) id() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cartID
}

func (c *Cart) publish(ctx context.Context, cartID int64, event map[string]any) {
	events.Publish(ctx, c.publisher, events.TopicCart, strconv.FormatInt(cartID, 10), event)
}

func totalPrice(items []models.CartItem) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.Product.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return sum
}

func countItems(items []models.CartItem) int {
	n := 0
	for _, it := range items {
		n += it.Quantity
	}
	return n
}
