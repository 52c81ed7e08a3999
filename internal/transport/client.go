// Package transport is the single place outgoing requests to the commerce API
// are built. It attaches the stored bearer token and turns non-2xx responses
// into apierr values carrying the server's message.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/Skotchmaster/storefront/internal/apierr"
	"github.com/Skotchmaster/storefront/internal/credentials"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

const (
	DefaultTimeout  = 5 * time.Second
	HeaderRequestID = "X-Request-ID"

	maxErrorBody = 64 << 10
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	store      credentials.Store
}

type Option func(*Client)

// WithHTTPClient replaces the pooled, instrumented client. Used by tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

func NewClient(baseURL string, store credentials.Store, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		store:   store,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
			Transport: otelhttp.NewTransport(&http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			}),
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any

	// Bearer overrides the stored access token when non-empty.
	Bearer string
}

// Do performs one request. out may be nil; an empty response body leaves it
// untouched.
func (c *Client) Do(ctx context.Context, r Request, out any) error {
	req, err := c.newRequest(ctx, r)
	if err != nil {
		return err
	}

	log := logging.FromContext(ctx).With(
		"method", req.Method,
		"path", r.Path,
		"request_id", req.Header.Get(HeaderRequestID),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Debug("api_request", "status", "network_error", "error", err)
		return apierr.Network(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := decodeErrorMessage(resp.Body)
		log.Debug("api_request", "status", "failed", "code", resp.StatusCode, "reason", msg)
		return apierr.Server(resp.StatusCode, msg)
	}

	log.Debug("api_request", "status", "ok", "code", resp.StatusCode)
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return apierr.Network(fmt.Errorf("read body: %w", err))
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, r Request) (*http.Request, error) {
	u := c.baseURL + "/" + strings.TrimLeft(r.Path, "/")
	if len(r.Query) > 0 {
		u += "?" + r.Query.Encode()
	}

	var body io.Reader
	if r.Body != nil {
		b, err := json.Marshal(r.Body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, u, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(HeaderRequestID, uuid.NewString())

	token := r.Bearer
	if token == "" {
		creds, err := c.store.Get(ctx)
		if err != nil {
			return nil, fmt.Errorf("read credentials: %w", err)
		}
		token = creds.Token
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

func decodeErrorMessage(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, maxErrorBody))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var body models.APIError
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	return body.Message
}
