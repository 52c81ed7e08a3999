package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/api"
	"github.com/Skotchmaster/storefront/internal/apierr"
	"github.com/Skotchmaster/storefront/internal/credentials"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/state"
	"github.com/Skotchmaster/storefront/internal/transport"
)

func product(id int64, name string) models.Product {
	return models.Product{ID: id, Name: name, Price: decimal.NewFromInt(id)}
}

// fakeAPI answers page requests through gates so tests can control the
// order in which responses resolve.
type fakeAPI struct {
	mu      sync.Mutex
	queries []api.PageQuery
	gates   map[int]chan struct{}
	err     error
}

func (f *fakeAPI) Products(_ context.Context, q api.PageQuery) (models.ProductPage, error) {
	f.mu.Lock()
	f.queries = append(f.queries, q)
	gate := f.gates[q.Page]
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	if f.err != nil {
		return models.ProductPage{}, f.err
	}
	return models.ProductPage{
		Content:       []models.Product{product(int64(q.Page*10+1), "p")},
		TotalElements: 25,
		TotalPages:    3,
		Size:          q.Size,
		Number:        q.Page,
	}, nil
}

func (f *fakeAPI) Product(_ context.Context, id int64) (models.Product, error) {
	if f.err != nil {
		return models.Product{}, f.err
	}
	return product(id, "single"), nil
}

func (f *fakeAPI) ProductsByCategory(_ context.Context, id int64) ([]models.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []models.Product{product(id, "cat"), product(id+1, "cat")}, nil
}

func (f *fakeAPI) SearchProducts(_ context.Context, q string) ([]models.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	return nil, nil
}

func TestCatalog_FetchPageDefaults(t *testing.T) {
	t.Parallel()
	f := &fakeAPI{}
	c := New(f)

	require.NoError(t, c.FetchPage(context.Background(), -1, 0, ""))
	assert.Equal(t, []api.PageQuery{{Page: 0, Size: 10, Sort: "id,asc"}}, f.queries)

	snap := c.Snapshot()
	assert.Equal(t, state.Fulfilled, snap.Status)
	assert.Len(t, snap.Products, 1)
	assert.Equal(t, 0, snap.Page)
	assert.Equal(t, 3, snap.TotalPages)
	assert.Equal(t, int64(25), snap.TotalElements)
}

func TestCatalog_ErrorKeepsProducts(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := &fakeAPI{}
	c := New(f)
	require.NoError(t, c.FetchPage(ctx, 1, 10, "price,asc"))

	tests := []struct {
		name string
		run  func() error
		want string
	}{
		{name: "page", run: func() error { return c.FetchPage(ctx, 2, 10, "") }, want: "Failed to fetch products"},
		{name: "product", run: func() error { _, err := c.FetchByID(ctx, 4); return err }, want: "Failed to fetch product"},
		{name: "category", run: func() error { return c.FetchByCategory(ctx, 2) }, want: "Failed to fetch products by category"},
		{name: "search", run: func() error { return c.Search(ctx, "x") }, want: "Failed to search products"},
	}
	f.err = apierr.Network(errors.New("offline"))
	for _, tt := range tests {
		require.Error(t, tt.run(), tt.name)
		snap := c.Snapshot()
		assert.Equal(t, tt.want, snap.Error, tt.name)
		assert.Equal(t, state.Rejected, snap.Status, tt.name)
		require.Len(t, snap.Products, 1, tt.name)
		assert.Equal(t, int64(11), snap.Products[0].ID, tt.name)
	}

	f.err = nil
	require.NoError(t, c.Search(ctx, "x"))
	snap := c.Snapshot()
	assert.Empty(t, snap.Error)
	assert.Empty(t, snap.Products)
	assert.NotNil(t, snap.Products)
}

func TestCatalog_ListsKeepPagination(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := New(&fakeAPI{})
	require.NoError(t, c.FetchPage(ctx, 2, 10, ""))

	require.NoError(t, c.FetchByCategory(ctx, 5))
	snap := c.Snapshot()
	assert.Equal(t, state.Fulfilled, snap.Status)
	require.Len(t, snap.Products, 2)
	assert.Equal(t, int64(5), snap.Products[0].ID)
	assert.Equal(t, 2, snap.Page)
	assert.Equal(t, 10, snap.Size)
	assert.Equal(t, 3, snap.TotalPages)
	assert.Equal(t, int64(25), snap.TotalElements)
}

func TestCatalog_ListsOverHTTP(t *testing.T) {
	t.Parallel()
	list := []byte(`[{"id":1,"productName":"red shoe","price":10}]`)
	e := echo.New()
	e.GET("/products", func(c echo.Context) error {
		return c.JSON(http.StatusOK, models.ProductPage{
			Content: []models.Product{product(9, "p")}, TotalPages: 4, TotalElements: 31, Size: 10, Number: 1,
		})
	})
	e.GET("/products/category/:id", func(c echo.Context) error { return c.JSONBlob(http.StatusOK, list) })
	e.GET("/products/search", func(c echo.Context) error { return c.JSONBlob(http.StatusOK, list) })
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)

	ctx := context.Background()
	c := New(api.New(transport.NewClient(srv.URL, credentials.NewMemoryStore())))
	require.NoError(t, c.FetchPage(ctx, 1, 10, ""))

	for name, run := range map[string]func() error{
		"category": func() error { return c.FetchByCategory(ctx, 3) },
		"search":   func() error { return c.Search(ctx, "red") },
	} {
		require.NoError(t, run(), name)
		snap := c.Snapshot()
		assert.Equal(t, state.Fulfilled, snap.Status, name)
		assert.Empty(t, snap.Error, name)
		require.Len(t, snap.Products, 1, name)
		assert.Equal(t, "red shoe", snap.Products[0].Name, name)
		assert.Equal(t, 1, snap.Page, name)
		assert.Equal(t, 4, snap.TotalPages, name)
		assert.Equal(t, int64(31), snap.TotalElements, name)
	}
}

func TestCatalog_FetchByIDAndClear(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := New(&fakeAPI{})
	require.NoError(t, c.FetchPage(ctx, 0, 10, ""))
	p, err := c.FetchByID(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), p.ID)

	snap := c.Snapshot()
	require.NotNil(t, snap.Selected)
	assert.Equal(t, int64(7), snap.Selected.ID)
	assert.Len(t, snap.Products, 1)

	c.ClearSelected()
	assert.Nil(t, c.Snapshot().Selected)
}

func TestCatalog_OutOfOrderPages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		opts     []Option
		wantPage int
		staleErr bool
	}{
		{name: "last write wins", wantPage: 0},
		{name: "strict ordering", opts: []Option{WithStrictOrdering()}, wantPage: 1, staleErr: true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()
			f := &fakeAPI{gates: map[int]chan struct{}{0: make(chan struct{}), 1: make(chan struct{})}}
			c := New(f, tt.opts...)

			first := make(chan error, 1)
			go func() { first <- c.FetchPage(ctx, 0, 10, "") }()
			waitQueries(t, f, 1)
			second := make(chan error, 1)
			go func() { second <- c.FetchPage(ctx, 1, 10, "") }()
			waitQueries(t, f, 2)

			close(f.gates[1])
			require.NoError(t, <-second)
			close(f.gates[0])
			err := <-first
			if tt.staleErr {
				assert.ErrorIs(t, err, state.ErrDiscarded)
			} else {
				assert.NoError(t, err)
			}

			assert.Equal(t, tt.wantPage, c.Snapshot().Page)
		})
	}
}

func waitQueries(t *testing.T, f *fakeAPI, n int) {
	t.Helper()
	require.Eventually(t, func() bool {
		f.mu.Lock()
		defer f.mu.Unlock()
		return len(f.queries) >= n
	}, time.Second, time.Millisecond)
}

func TestCatalog_CloseDiscards(t *testing.T) {
	t.Parallel()
	f := &fakeAPI{gates: map[int]chan struct{}{0: make(chan struct{})}}
	c := New(f)

	done := make(chan error, 1)
	go func() { done <- c.FetchPage(context.Background(), 0, 10, "") }()
	waitQueries(t, f, 1)
	c.Close()
	close(f.gates[0])

	assert.ErrorIs(t, <-done, state.ErrDiscarded)
	assert.Empty(t, c.Snapshot().Products)
}

func TestSortFor(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"newest":     "launchDate,desc",
		"price-asc":  "price,asc",
		"price-desc": "price,desc",
		"name-asc":   "productName,asc",
		"":           "id,desc",
		"bogus":      "id,desc",
	}
	for preset, want := range cases {
		assert.Equal(t, want, SortFor(preset), preset)
	}
}
