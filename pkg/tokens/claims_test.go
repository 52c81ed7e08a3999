package tokens

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessClaimsUnverified(t *testing.T) {
	t.Parallel()
	exp := time.Now().Add(15 * time.Minute).Truncate(time.Second)
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "42",
		"role": "ADMIN",
		"exp":  exp.Unix(),
	})
	signed, err := tok.SignedString([]byte("server-only-secret"))
	require.NoError(t, err)

	c, err := AccessClaimsUnverified(signed)
	require.NoError(t, err)
	assert.Equal(t, "42", c.Subject)
	assert.Equal(t, "ADMIN", c.Role)
	assert.True(t, exp.Equal(c.Expiry()))
}

func TestAccessClaimsUnverified_Errors(t *testing.T) {
	t.Parallel()
	_, err := AccessClaimsUnverified("")
	assert.ErrorIs(t, err, ErrNoToken)

	_, err = AccessClaimsUnverified("not-a-jwt")
	assert.Error(t, err)

	assert.True(t, (&AccessClaims{}).Expiry().IsZero())
}
