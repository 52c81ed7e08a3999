package api

import (
	"context"
	"net/http"

	"github.com/Skotchmaster/storefront/internal/models"
)

type addItemBody struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

type quantityBody struct {
	Quantity int `json:"quantity"`
}

func (a *API) Cart(ctx context.Context) (models.Cart, error) {
	var out models.Cart
	err := a.get(ctx, "/cart", nil, &out)
	return out, err
}

func (a *API) AddCartItem(ctx context.Context, productID int64, quantity int) (models.Cart, error) {
	var out models.Cart
	err := a.send(ctx, http.MethodPost, "/cart", addItemBody{ProductID: productID, Quantity: quantity}, &out)
	return out, err
}

func (a *API) UpdateCartItem(ctx context.Context, itemID int64, quantity int) (models.Cart, error) {
	var out models.Cart
	err := a.send(ctx, http.MethodPut, "/cart/"+id(itemID), quantityBody{Quantity: quantity}, &out)
	return out, err
}

func (a *API) DeleteCartItem(ctx context.Context, itemID int64) error {
	return a.send(ctx, http.MethodDelete, "/cart/"+id(itemID), nil, nil)
}

func (a *API) ClearCart(ctx context.Context) error {
	return a.send(ctx, http.MethodDelete, "/cart", nil, nil)
}
