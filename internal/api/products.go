package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Skotchmaster/storefront/internal/models"
)

type PageQuery struct {
	Page int
	Size int
	Sort string
}

func (q PageQuery) values() url.Values {
	return url.Values{
		"page": {strconv.Itoa(q.Page)},
		"size": {strconv.Itoa(q.Size)},
		"sort": {q.Sort},
	}
}

func (a *API) Products(ctx context.Context, q PageQuery) (models.ProductPage, error) {
	var out models.ProductPage
	err := a.get(ctx, "/products", q.values(), &out)
	return out, err
}

func (a *API) Product(ctx context.Context, productID int64) (models.Product, error) {
	var out models.Product
	err := a.get(ctx, "/products/"+id(productID), nil, &out)
	return out, err
}

// ProductsByCategory and SearchProducts return plain lists without paging.

func (a *API) ProductsByCategory(ctx context.Context, categoryID int64) ([]models.Product, error) {
	var out []models.Product
	err := a.get(ctx, "/products/category/"+id(categoryID), nil, &out)
	return out, err
}

func (a *API) SearchProducts(ctx context.Context, query string) ([]models.Product, error) {
	var out []models.Product
	err := a.get(ctx, "/products/search", url.Values{"query": {query}}, &out)
	return out, err
}

// Admin pass-through. These never touch container state.

func (a *API) CreateProduct(ctx context.Context, p models.Product) (models.Product, error) {
	var out models.Product
	err := a.send(ctx, http.MethodPost, "/products", p, &out)
	return out, err
}

func (a *API) UpdateProduct(ctx context.Context, productID int64, p models.Product) (models.Product, error) {
	var out models.Product
	err := a.send(ctx, http.MethodPut, "/products/"+id(productID), p, &out)
	return out, err
}

func (a *API) DeleteProduct(ctx context.Context, productID int64) error {
	return a.send(ctx, http.MethodDelete, "/products/"+id(productID), nil, nil)
}
