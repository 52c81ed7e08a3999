// Package credentials persists the token pair and the denormalized user
// identity between process restarts. It is the only process-wide state of the
// client; the transport adapter reads it for every request and the session
// container writes it on login, refresh and logout.
package credentials

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/Skotchmaster/storefront/internal/models"
)

// Storage keys, shared by every backend.
const (
	keyToken        = "token"
	keyRefreshToken = "refreshToken"
	keyUser         = "user"
)

type Credentials struct {
	Token        string
	RefreshToken string
	User         *models.User
}

func (c Credentials) Empty() bool {
	return c.Token == "" && c.RefreshToken == "" && c.User == nil
}

type Store interface {
	Get(ctx context.Context) (Credentials, error)
	Set(ctx context.Context, c Credentials) error
	Clear(ctx context.Context) error
}

type MemoryStore struct {
	mu    sync.RWMutex
	creds Credentials
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Get(_ context.Context) (Credentials, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyCredentials(s.creds), nil
}

func (s *MemoryStore) Set(_ context.Context, c Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = copyCredentials(c)
	return nil
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = Credentials{}
	return nil
}

func copyCredentials(c Credentials) Credentials {
	if c.User != nil {
		u := *c.User
		c.User = &u
	}
	return c
}

func encodeUser(u *models.User) (string, error) {
	if u == nil {
		return "", nil
	}
	b, err := json.Marshal(u)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeUser(s string) (*models.User, error) {
	if s == "" {
		return nil, nil
	}
	var u models.User
	if err := json.Unmarshal([]byte(s), &u); err != nil {
		return nil, err
	}
	return &u, nil
}
