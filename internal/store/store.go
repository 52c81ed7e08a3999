// Package store composes the session, catalog and cart containers into the
// one state tree the presentation layer reads.
package store

import (
	"context"
	"sync"

	"github.com/Skotchmaster/storefront/internal/api"
	"github.com/Skotchmaster/storefront/internal/cart"
	"github.com/Skotchmaster/storefront/internal/catalog"
	"github.com/Skotchmaster/storefront/internal/credentials"
	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/session"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

type Snapshot struct {
	Auth     session.Snapshot `json:"auth"`
	Products catalog.Snapshot `json:"products"`
	Cart     cart.Snapshot    `json:"cart"`
}

type Config struct {
	Strict    bool
	Publisher events.Publisher
}

type Store struct {
	API     *api.API
	Session *session.Session
	Catalog *catalog.Catalog
	Cart    *cart.Cart

	bg sync.WaitGroup
}

func New(ctx context.Context, a *api.API, creds credentials.Store, cfg Config) (*Store, error) {
	pub := cfg.Publisher
	if pub == nil {
		pub = events.NopPublisher{}
	}

	sessOpts := []session.Option{session.WithPublisher(pub)}
	catOpts := []catalog.Option{catalog.WithPublisher(pub)}
	cartOpts := []cart.Option{cart.WithPublisher(pub)}
	if cfg.Strict {
		sessOpts = append(sessOpts, session.WithStrictOrdering())
		catOpts = append(catOpts, catalog.WithStrictOrdering())
		cartOpts = append(cartOpts, cart.WithStrictOrdering())
	}

	sess, err := session.New(ctx, a, creds, sessOpts...)
	if err != nil {
		return nil, err
	}
	return &Store{
		API:     a,
		Session: sess,
		Catalog: catalog.New(a, catOpts...),
		Cart:    cart.New(a, cartOpts...),
	}, nil
}

func (s *Store) Snapshot() Snapshot {
	return Snapshot{
		Auth:     s.Session.Snapshot(),
		Products: s.Catalog.Snapshot(),
		Cart:     s.Cart.Snapshot(),
	}
}

// Start loads the cart when the stored credentials already authenticate the
// session. It returns without waiting.
func (s *Store) Start(ctx context.Context) {
	if !s.Session.Snapshot().Authenticated {
		return
	}
	s.fetchCart(ctx)
}

// Login authenticates and then loads the cart in the background.
func (s *Store) Login(ctx context.Context, email, password string) error {
	if err := s.Session.Login(ctx, email, password); err != nil {
		return err
	}
	s.fetchCart(ctx)
	return nil
}

// Logout clears the session and the cart locally.
func (s *Store) Logout(ctx context.Context) {
	s.Session.Logout(ctx)
	s.Cart.Reset()
}

func (s *Store) fetchCart(ctx context.Context) {
	bg := context.WithoutCancel(ctx)
	s.bg.Add(1)
	go func() {
		defer s.bg.Done()
		if err := s.Cart.Fetch(bg); err != nil {
			logging.FromContext(bg).Debug("cart_autoload_failed", "error", err)
		}
	}()
}

// Wait blocks until background work started by the store has finished.
func (s *Store) Wait() {
	s.bg.Wait()
	s.Session.Wait()
}

// Close stops all containers from applying late results.
func (s *Store) Close() {
	s.Session.Close()
	s.Catalog.Close()
	s.Cart.Close()
	s.Wait()
}
