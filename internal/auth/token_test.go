package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skinx/blog-api/internal/config"
)

func tokenServices(t *testing.T) map[string]TokenService {
	t.Helper()
	pasetoSvc, err := NewTokenService(config.AuthConfig{JWTSecret: "test-secret", TokenFormat: "paseto"})
	require.NoError(t, err)
	return map[string]TokenService{
		"jwt":    NewJWTService([]byte("test-secret")),
		"paseto": pasetoSvc,
	}
}

func TestTokenService_RoundTrip(t *testing.T) {
	for name, svc := range tokenServices(t) {
		t.Run(name, func(t *testing.T) {
			id := uuid.New()

			token, err := svc.CreateToken(id, "demo@skinx.dev", TokenTTL)
			require.NoError(t, err)

			claims, err := svc.VerifyToken(token)
			require.NoError(t, err)
			assert.Equal(t, id.String(), claims.UserID)
			assert.Equal(t, "demo@skinx.dev", claims.Email)
			assert.WithinDuration(t, time.Now().Add(TokenTTL), claims.ExpiresAt, 5*time.Second)
		})
	}
}

func TestTokenService_Expired(t *testing.T) {
	for name, svc := range tokenServices(t) {
		t.Run(name, func(t *testing.T) {
			token, err := svc.CreateToken(uuid.New(), "a@b.co", -time.Minute)
			require.NoError(t, err)

			_, err = svc.VerifyToken(token)
			assert.ErrorIs(t, err, ErrExpiredToken)
		})
	}
}

func TestTokenService_Invalid(t *testing.T) {
	for name, svc := range tokenServices(t) {
		t.Run(name, func(t *testing.T) {
			_, err := svc.VerifyToken("garbage")
			assert.ErrorIs(t, err, ErrInvalidToken)

			token, err := svc.CreateToken(uuid.New(), "a@b.co", time.Hour)
			require.NoError(t, err)
			_, err = svc.VerifyToken(tamper(token))
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

// tamper swaps one character in the middle of the token body.
func tamper(token string) string {
	b := []byte(token)
	i := len(b) / 2
	if b[i] == 'A' {
		b[i] = 'B'
	} else {
		b[i] = 'A'
	}
	return string(b)
}

func TestJWTService_RejectsOtherSecretAndAlgorithm(t *testing.T) {
	svc := NewJWTService([]byte("right"))

	token, err := NewJWTService([]byte("wrong")).CreateToken(uuid.New(), "a@b.co", time.Hour)
	require.NoError(t, err)
	_, err = svc.VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"userId": uuid.NewString(),
		"exp":    time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = svc.VerifyToken(unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_ClaimNames(t *testing.T) {
	token, err := NewJWTService([]byte("s")).CreateToken(uuid.New(), "a@b.co", time.Hour)
	require.NoError(t, err)

	claims := jwt.MapClaims{}
	_, _, err = jwt.NewParser().ParseUnverified(token, claims)
	require.NoError(t, err)
	for _, key := range []string{"userId", "email", "iat", "exp"} {
		assert.Contains(t, claims, key)
	}
}

func TestNewTokenService_MissingSecret(t *testing.T) {
	for _, format := range []string{"jwt", "paseto"} {
		svc, err := NewTokenService(config.AuthConfig{TokenFormat: format})
		require.NoError(t, err)

		_, err = svc.CreateToken(uuid.New(), "a@b.co", time.Hour)
		assert.ErrorIs(t, err, ErrMissingSecret, format)
		_, err = svc.VerifyToken("anything")
		assert.ErrorIs(t, err, ErrMissingSecret, format)
	}
}

func TestNewTokenService_PasetoKeyOverride(t *testing.T) {
	key := "0123456789abcdef0123456789abcdef"
	a, err := NewTokenService(config.AuthConfig{PasetoKey: key, TokenFormat: "paseto"})
	require.NoError(t, err)
	b, err := NewTokenService(config.AuthConfig{PasetoKey: key, JWTSecret: "ignored", TokenFormat: "paseto"})
	require.NoError(t, err)

	token, err := a.CreateToken(uuid.New(), "a@b.co", time.Hour)
	require.NoError(t, err)
	_, err = b.VerifyToken(token)
	assert.NoError(t, err)
}
