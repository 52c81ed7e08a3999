package api

import (
	"context"
	"net/http"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/transport"
)

func (a *API) Login(ctx context.Context, email, password string) (models.AuthResponse, error) {
	var out models.AuthResponse
	err := a.send(ctx, http.MethodPost, "/auth/login", models.LoginRequest{Email: email, Password: password}, &out)
	return out, err
}

func (a *API) Register(ctx context.Context, req models.RegisterRequest) (models.RegisterResult, error) {
	var out models.RegisterResult
	err := a.send(ctx, http.MethodPost, "/auth/register", req, &out)
	return out, err
}

func (a *API) Refresh(ctx context.Context, refreshToken string) (models.TokenPair, error) {
	var out models.TokenPair
	err := a.send(ctx, http.MethodPost, "/auth/refresh", map[string]string{"refreshToken": refreshToken}, &out)
	return out, err
}

// Logout notifies the server using the given bearer token, which is usually
// already gone from the credential store.
func (a *API) Logout(ctx context.Context, bearer string) error {
	return a.t.Do(ctx, transport.Request{Method: http.MethodPost, Path: "/auth/logout", Bearer: bearer}, nil)
}
