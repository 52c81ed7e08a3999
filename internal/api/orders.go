package api

import (
	"context"
	"net/http"

	"github.com/Skotchmaster/storefront/internal/models"
)

func (a *API) CreateOrder(ctx context.Context, o models.Order) (models.Order, error) {
	var out models.Order
	err := a.send(ctx, http.MethodPost, "/orders", o, &out)
	return out, err
}

func (a *API) Order(ctx context.Context, orderID int64) (models.Order, error) {
	var out models.Order
	err := a.get(ctx, "/orders/"+id(orderID), nil, &out)
	return out, err
}

func (a *API) CancelOrder(ctx context.Context, orderID int64) (models.Order, error) {
	var out models.Order
	err := a.send(ctx, http.MethodPut, "/orders/"+id(orderID)+"/cancel", nil, &out)
	return out, err
}
