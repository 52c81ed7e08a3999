package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKinds_MatchSentinels(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
	}{
		{name: "network", err: Network(errors.New("dial tcp: refused")), target: ErrNetwork},
		{name: "server", err: Server(http.StatusConflict, "out of stock"), target: ErrServer},
		{name: "validation", err: Validation("email", "Email is invalid"), target: ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("add to cart: %w", tt.err)
			assert.ErrorIs(t, wrapped, tt.target)
			for _, other := range []error{ErrNetwork, ErrServer, ErrValidation} {
				if other != tt.target {
					assert.NotErrorIs(t, wrapped, other)
				}
			}
		})
	}
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "Bad credentials", Message(Server(http.StatusUnauthorized, "Bad credentials"), "Failed to login"))
	assert.Equal(t, "Failed to login", Message(Server(http.StatusInternalServerError, ""), "Failed to login"))
	assert.Equal(t, "Failed to login", Message(Network(errors.New("timeout")), "Failed to login"))
	assert.Equal(t, "Failed to login", Message(errors.New("plain"), "Failed to login"))
	assert.Equal(t, "Email is invalid", Message(Validation("email", "Email is invalid"), "x"))
}

func TestUnauthorized(t *testing.T) {
	assert.True(t, Unauthorized(Server(http.StatusUnauthorized, "")))
	assert.True(t, Unauthorized(fmt.Errorf("wrap: %w", Server(http.StatusForbidden, ""))))
	assert.False(t, Unauthorized(Server(http.StatusNotFound, "")))
	assert.False(t, Unauthorized(Network(errors.New("x"))))
}

func TestNetworkUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	assert.ErrorIs(t, Network(cause), cause)
}
