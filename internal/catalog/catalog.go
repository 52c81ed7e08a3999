// Package catalog holds the product listing currently shown to the user.
package catalog

import (
	"context"
	"strconv"
	"sync"

	"github.com/Skotchmaster/storefront/internal/api"
	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/state"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

const (
	DefaultPageSize = 10
	DefaultSort     = "id,asc"

	msgFetchPage     = "Failed to fetch products"
	msgFetchProduct  = "Failed to fetch product"
	msgFetchCategory = "Failed to fetch products by category"
	msgSearch        = "Failed to search products"
)

type API interface {
	Products(ctx context.Context, q api.PageQuery) (models.ProductPage, error)
	Product(ctx context.Context, productID int64) (models.Product, error)
	ProductsByCategory(ctx context.Context, categoryID int64) ([]models.Product, error)
	SearchProducts(ctx context.Context, query string) ([]models.Product, error)
}

type Snapshot struct {
	Products      []models.Product `json:"products"`
	Selected      *models.Product  `json:"singleProduct"`
	Page          int              `json:"currentPage"`
	Size          int              `json:"pageSize"`
	TotalPages    int              `json:"totalPages"`
	TotalElements int64            `json:"totalElements"`
	Status        state.Status     `json:"status"`
	Error         string           `json:"error,omitempty"`
}

type Catalog struct {
	api       API
	publisher events.Publisher

	mu            sync.Mutex
	tr            *state.Tracker
	products      []models.Product
	selected      *models.Product
	page          int
	size          int
	totalPages    int
	totalElements int64
}

type Option func(*Catalog)

func WithStrictOrdering() Option {
	return func(c *Catalog) { c.tr = state.NewTracker(true) }
}

func WithPublisher(p events.Publisher) Option {
	return func(c *Catalog) { c.publisher = p }
}

func New(a API, opts ...Option) *Catalog {
	c := &Catalog{
		api:       a,
		publisher: events.NopPublisher{},
		tr:        state.NewTracker(false),
		products:  []models.Product{},
		size:      DefaultPageSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Catalog) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	snap := Snapshot{
		Products:      append([]models.Product(nil), c.products...),
		Page:          c.page,
		Size:          c.size,
		TotalPages:    c.totalPages,
		TotalElements: c.totalElements,
		Status:        c.tr.Status(),
		Error:         c.tr.Err(),
	}
	if snap.Products == nil {
		snap.Products = []models.Product{}
	}
	if c.selected != nil {
		p := *c.selected
		snap.Selected = &p
	}
	return snap
}

// FetchPage loads one zero-based page. Zero values fall back to the defaults.
func (c *Catalog) FetchPage(ctx context.Context, page, size int, sort string) error {
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	if sort == "" {
		sort = DefaultSort
	}
	q := api.PageQuery{Page: page, Size: size, Sort: sort}
	l := logging.FromContext(ctx).With("container", "catalog", "op", "fetch_page")

	res, err := state.Run(ctx, &c.mu, c.tr, state.Op[models.ProductPage]{
		Fallback: msgFetchPage,
		Call: func(ctx context.Context) (models.ProductPage, error) {
			return c.api.Products(ctx, q)
		},
		Apply: func(p models.ProductPage) error {
			c.setProducts(p.Content)
			c.page = p.Number
			c.size = p.Size
			c.totalPages = p.TotalPages
			c.totalElements = p.TotalElements
			return nil
		},
	})
	if err != nil {
		l.Warn("fetch_failed", "status", "rejected", "error", err)
		return err
	}

	l.Debug("fetch_success", "status", "fulfilled", "count", len(res.Content), "page", res.Number)
	c.publish(ctx, "fetch_page", strconv.Itoa(res.Number), len(res.Content))
	return nil
}

// FetchByCategory replaces the listing with the category's products. The
// server sends no paging for it, so the pagination fields keep their values.
func (c *Catalog) FetchByCategory(ctx context.Context, categoryID int64) error {
	return c.fetchList(ctx, "fetch_by_category", msgFetchCategory, strconv.FormatInt(categoryID, 10),
		func(ctx context.Context) ([]models.Product, error) {
			return c.api.ProductsByCategory(ctx, categoryID)
		})
}

// Search works like FetchByCategory.
func (c *Catalog) Search(ctx context.Context, query string) error {
	return c.fetchList(ctx, "search", msgSearch, query, func(ctx context.Context) ([]models.Product, error) {
		return c.api.SearchProducts(ctx, query)
	})
}

func (c *Catalog) fetchList(
	ctx context.Context,
	op, fallback, key string,
	call func(context.Context) ([]models.Product, error),
) error {
	l := logging.FromContext(ctx).With("container", "catalog", "op", op)

	res, err := state.Run(ctx, &c.mu, c.tr, state.Op[[]models.Product]{
		Fallback: fallback,
		Call:     call,
		Apply: func(ps []models.Product) error {
			c.setProducts(ps)
			return nil
		},
	})
	if err != nil {
		l.Warn("fetch_failed", "status", "rejected", "error", err)
		return err
	}

	l.Debug("fetch_success", "status", "fulfilled", "count", len(res))
	c.publish(ctx, op, key, len(res))
	return nil
}

func (c *Catalog) setProducts(ps []models.Product) {
	c.products = ps
	if c.products == nil {
		c.products = []models.Product{}
	}
}

func (c *Catalog) publish(ctx context.Context, op, key string, count int) {
	events.Publish(ctx, c.publisher, events.TopicProduct, key, map[string]any{
		"type":  events.ProductsFetched,
		"op":    op,
		"count": count,
	})
}

// FetchByID replaces the selected product and leaves the listing alone. The
// fetched product is returned so callers need not read it back.
func (c *Catalog) FetchByID(ctx context.Context, productID int64) (models.Product, error) {
	l := logging.FromContext(ctx).With("container", "catalog", "op", "fetch_by_id")

	res, err := state.Run(ctx, &c.mu, c.tr, state.Op[models.Product]{
		Fallback: msgFetchProduct,
		Call: func(ctx context.Context) (models.Product, error) {
			return c.api.Product(ctx, productID)
		},
		Apply: func(p models.Product) error {
			c.selected = &p
			return nil
		},
	})
	if err != nil {
		l.Warn("fetch_failed", "status", "rejected", "product_id", productID, "error", err)
		return models.Product{}, err
	}
	l.Debug("fetch_success", "status", "fulfilled", "product_id", productID)
	return res, nil
}

func (c *Catalog) ClearSelected() {
	c.mu.Lock()
	c.selected = nil
	st := c.tr.Status()
	c.mu.Unlock()
	c.tr.Notify(st)
}

func (c *Catalog) Subscribe(l state.Listener) {
	c.tr.Subscribe(l)
}

func (c *Catalog) Close() {
	c.mu.Lock()
	c.tr.Close()
	c.mu.Unlock()
}

func (c *Catalog) Status() state.Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tr.Status()
}
