package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/apierr"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/state"
)

type published struct {
	topic string
	event map[string]any
}

type recorder struct{ got []published }

func (r *recorder) PublishEvent(_ context.Context, topic, _ string, event map[string]any) error {
	r.got = append(r.got, published{topic: topic, event: event})
	return nil
}

type fakeAPI struct {
	cart    models.Cart
	err     error
	added   [][2]int64
	deleted []int64
	clears  int
}

func (f *fakeAPI) Cart(context.Context) (models.Cart, error) { return f.cart, f.err }

func (f *fakeAPI) AddCartItem(_ context.Context, productID int64, qty int) (models.Cart, error) {
	f.added = append(f.added, [2]int64{productID, int64(qty)})
	return f.cart, f.err
}

func (f *fakeAPI) UpdateCartItem(context.Context, int64, int) (models.Cart, error) {
	return f.cart, f.err
}

func (f *fakeAPI) DeleteCartItem(_ context.Context, id int64) error {
	f.deleted = append(f.deleted, id)
	return f.err
}

func (f *fakeAPI) ClearCart(context.Context) error {
	f.clears++
	return f.err
}

func line(id int64, qty int, price string) models.CartItem {
	return models.CartItem{
		ID:       id,
		Quantity: qty,
		Product:  models.Product{ID: id * 100, Price: decimal.RequireFromString(price)},
	}
}

func serverCart() models.Cart {
	return models.Cart{
		ID:         1,
		Items:      []models.CartItem{line(1, 2, "10"), line(2, 1, "5")},
		TotalPrice: decimal.RequireFromString("23.99"),
	}
}

func TestCart_ResponsesCopiedVerbatim(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	tests := []struct {
		name string
		run  func(c *Cart) error
	}{
		{name: "fetch", run: func(c *Cart) error { return c.Fetch(ctx) }},
		{name: "add", run: func(c *Cart) error { return c.AddItem(ctx, 100, 2) }},
		{name: "update", run: func(c *Cart) error { return c.UpdateItem(ctx, 1, 2) }},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := New(&fakeAPI{cart: serverCart()})
			require.NoError(t, tt.run(c))

			snap := c.Snapshot()
			assert.Equal(t, serverCart().Items, snap.Items)
			assert.Equal(t, "23.99", snap.TotalPrice.StringFixed(2))
			assert.Equal(t, 3, snap.TotalItems)
			assert.Equal(t, state.Fulfilled, snap.Status)
		})
	}
}

func TestCart_AddItemDefaultsQuantity(t *testing.T) {
	t.Parallel()
	f := &fakeAPI{cart: serverCart()}
	c := New(f)
	require.NoError(t, c.AddItem(context.Background(), 7, 0))
	assert.Equal(t, [][2]int64{{7, 1}}, f.added)
}

func TestCart_RemoveItemRecomputesTotal(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	rec := &recorder{}
	f := &fakeAPI{cart: serverCart()}
	c := New(f, WithPublisher(rec))
	require.NoError(t, c.Fetch(ctx))

	require.NoError(t, c.RemoveItem(ctx, 1))

	snap := c.Snapshot()
	require.Len(t, snap.Items, 1)
	assert.Equal(t, int64(2), snap.Items[0].ID)
	assert.Equal(t, "5.00", snap.TotalPrice.StringFixed(2))
	assert.Equal(t, 1, snap.TotalItems)
	assert.Equal(t, []int64{1}, f.deleted)

	require.Len(t, rec.got, 2)
	assert.Equal(t, "cart_events", rec.got[1].topic)
	assert.Equal(t, "cart_item_deleted", rec.got[1].event["type"])
}

func TestCart_RemoveItemFailureKeepsItems(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := &fakeAPI{cart: serverCart()}
	c := New(f)
	require.NoError(t, c.Fetch(ctx))

	f.err = apierr.Network(errors.New("offline"))
	require.Error(t, c.RemoveItem(ctx, 1))

	snap := c.Snapshot()
	assert.Len(t, snap.Items, 2)
	assert.Equal(t, "23.99", snap.TotalPrice.StringFixed(2))
	assert.Equal(t, "Failed to remove cart item", snap.Error)
}

func TestCart_ClearIsIdempotent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := &fakeAPI{cart: serverCart()}
	c := New(f)

	require.NoError(t, c.Clear(ctx))
	require.NoError(t, c.Clear(ctx))

	snap := c.Snapshot()
	assert.Empty(t, snap.Items)
	assert.True(t, snap.TotalPrice.IsZero())
	assert.Zero(t, snap.TotalItems)
	assert.Equal(t, state.Fulfilled, snap.Status)
	assert.Equal(t, 2, f.clears)
}

func TestCart_ErrorMessages(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	tests := []struct {
		name string
		run  func(c *Cart) error
		want string
	}{
		{name: "fetch", run: func(c *Cart) error { return c.Fetch(ctx) }, want: "Failed to fetch cart"},
		{name: "add", run: func(c *Cart) error { return c.AddItem(ctx, 1, 1) }, want: "Failed to add to cart"},
		{name: "update", run: func(c *Cart) error { return c.UpdateItem(ctx, 1, 1) }, want: "Failed to update cart item"},
		{name: "clear", run: func(c *Cart) error { return c.Clear(ctx) }, want: "Failed to clear cart"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := New(&fakeAPI{err: apierr.Server(500, "")})
			require.Error(t, tt.run(c))
			assert.Equal(t, tt.want, c.Snapshot().Error)
			assert.Equal(t, state.Rejected, c.Snapshot().Status)
		})
	}

	c := New(&fakeAPI{err: apierr.Server(400, "Insufficient stock")})
	require.Error(t, c.AddItem(ctx, 1, 99))
	assert.Equal(t, "Insufficient stock", c.Snapshot().Error)
}

func TestCart_Reset(t *testing.T) {
	t.Parallel()
	c := New(&fakeAPI{cart: serverCart()})
	require.NoError(t, c.Fetch(context.Background()))

	c.Reset()
	snap := c.Snapshot()
	assert.Empty(t, snap.Items)
	assert.Equal(t, state.Idle, snap.Status)
	assert.True(t, snap.TotalPrice.IsZero())
}
