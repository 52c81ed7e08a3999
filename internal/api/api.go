// Package api binds the commerce REST routes to typed Go calls over the
// transport client. Nothing here holds state.
package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Skotchmaster/storefront/internal/transport"
)

// Doer is the part of transport.Client the bindings need.
type Doer interface {
	Do(ctx context.Context, r transport.Request, out any) error
}

type API struct {
	t Doer
}

func New(t Doer) *API {
	return &API{t: t}
}

func id(v int64) string {
	return strconv.FormatInt(v, 10)
}

func (a *API) get(ctx context.Context, path string, q url.Values, out any) error {
	return a.t.Do(ctx, transport.Request{Method: http.MethodGet, Path: path, Query: q}, out)
}

func (a *API) send(ctx context.Context, method, path string, body, out any) error {
	return a.t.Do(ctx, transport.Request{Method: method, Path: path, Body: body}, out)
}

var _ Doer = (*transport.Client)(nil)
