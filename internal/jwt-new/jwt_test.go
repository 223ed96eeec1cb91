package security_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linemk/coin-users/internal/domain/models"
	security "github.com/linemk/coin-users/internal/jwt-new"
)

const secret = "testsecret"

func TestNewToken_Claims(t *testing.T) {
	user := &models.User{ID: 42, Email: "a@x.com"}

	tokenStr, err := security.NewToken(user, secret, security.DefaultTTL)
	require.NoError(t, err)

	claims, err := security.ParseToken(tokenStr, secret)
	require.NoError(t, err)

	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.NotEmpty(t, claims.ID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestNewToken_ZeroTTLUsesDefault(t *testing.T) {
	tokenStr, err := security.NewToken(&models.User{ID: 7, Email: "b@x.com"}, secret, 0)
	require.NoError(t, err)

	claims, err := security.ParseToken(tokenStr, secret)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(security.DefaultTTL), claims.ExpiresAt.Time, 5*time.Second)
}

func TestNewToken_EmptySecret(t *testing.T) {
	_, err := security.NewToken(&models.User{ID: 1}, "", time.Hour)
	assert.ErrorIs(t, err, security.ErrEmptySecret)
}

func TestParseToken_WrongSecret(t *testing.T) {
	tokenStr, err := security.NewToken(&models.User{ID: 1}, secret, time.Hour)
	require.NoError(t, err)

	_, err = security.ParseToken(tokenStr, "other")
	assert.Error(t, err)
}

func TestParseToken_Expired(t *testing.T) {
	tokenStr, err := security.NewToken(&models.User{ID: 1}, secret, -time.Minute)
	require.NoError(t, err)

	_, err = security.ParseToken(tokenStr, secret)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestParseToken_MissingExp(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "1"})
	tokenStr, err := token.SignedString([]byte(secret))
	require.NoError(t, err)

	_, err = security.ParseToken(tokenStr, secret)
	assert.Error(t, err)
}

func TestParseToken_Garbage(t *testing.T) {
	_, err := security.ParseToken("invalid.token.here", secret)
	assert.Error(t, err)
}
