package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/leolearn/leo-web/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSession(ttl time.Duration) models.Session {
	now := time.Now()
	return models.Session{ID: "sess-1", UserID: "7", CreatedAt: now, ExpiresAt: now.Add(ttl)}
}

func TestGenerateAndValidate_Success(t *testing.T) {
	t.Parallel()

	issuer := NewTokenIssuer("super-secret")
	tok, err := issuer.Generate(testSession(time.Hour))
	require.NoError(t, err)

	claims, err := issuer.Validate(tok)
	require.NoError(t, err)
	assert.Equal(t, "sess-1", claims.ID)
	assert.Equal(t, "7", claims.Subject)
}

func TestValidate_Expired(t *testing.T) {
	t.Parallel()

	issuer := NewTokenIssuer("secret")
	tok, err := issuer.Generate(testSession(-time.Minute))
	require.NoError(t, err)

	_, err = issuer.Validate(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidate_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := NewTokenIssuer("right-secret").Generate(testSession(time.Hour))
	require.NoError(t, err)

	_, err = NewTokenIssuer("wrong-secret").Validate(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidate_Malformed(t *testing.T) {
	t.Parallel()

	_, err := NewTokenIssuer("k").Validate("not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidate_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()

	claims := &Claims{RegisteredClaims: jwt.RegisteredClaims{
		ID:        "s",
		Subject:   "1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("k"))
	require.NoError(t, err)

	_, err = NewTokenIssuer("k").Validate(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
