package jwt

import (
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasks-be/internal/apperr"
)

const testSecret = "test-secret-for-jwt-unit-tests-000"

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestGenerateAndValidate(t *testing.T) {
	t.Parallel()

	svc := NewJWTService(testSecret, 0)
	tok, err := svc.GenerateToken("user-123")
	require.NoError(t, err)

	got, err := svc.ValidateToken(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-123", got)
	assert.Equal(t, DefaultTTL, svc.TTL())
}

func TestValidateToken_ExpiryWindow(t *testing.T) {
	t.Parallel()

	issued := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	svc := NewJWTService(testSecret, DefaultTTL).WithClock(fixedClock(issued))
	tok, err := svc.GenerateToken("u1")
	require.NoError(t, err)

	_, err = svc.WithClock(fixedClock(issued.Add(29 * 24 * time.Hour))).ValidateToken(tok)
	assert.NoError(t, err)

	_, err = svc.WithClock(fixedClock(issued.Add(31 * 24 * time.Hour))).ValidateToken(tok)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := NewJWTService("right-secret-right-secret-right-secret", 0).GenerateToken("u2")
	require.NoError(t, err)

	_, err = NewJWTService("wrong-secret-wrong-secret-wrong-secret", 0).ValidateToken(tok)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestValidateToken_Tampered(t *testing.T) {
	t.Parallel()

	svc := NewJWTService(testSecret, 0)
	tok, err := svc.GenerateToken("u3")
	require.NoError(t, err)

	tampered := tok[:len(tok)-2] + "xx"
	_, err = svc.ValidateToken(tampered)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestValidateToken_Malformed(t *testing.T) {
	t.Parallel()

	svc := NewJWTService(testSecret, 0)
	for _, tok := range []string{"", "abc", "a.b.c", "Bearer x"} {
		_, err := svc.ValidateToken(tok)
		assert.ErrorIs(t, err, apperr.ErrUnauthorized, tok)
	}
}

func TestValidateToken_RejectsNoneAlgorithm(t *testing.T) {
	t.Parallel()

	claims := Claims{
		UserID: "u4",
		RegisteredClaims: gojwt.RegisteredClaims{
			ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	tok, err := gojwt.NewWithClaims(gojwt.SigningMethodNone, claims).SignedString(gojwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewJWTService(testSecret, 0).ValidateToken(tok)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestValidateToken_RequiresExpiry(t *testing.T) {
	t.Parallel()

	tok, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, Claims{UserID: "u5"}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = NewJWTService(testSecret, 0).ValidateToken(tok)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestGenerateToken_RequiresUserID(t *testing.T) {
	t.Parallel()

	_, err := NewJWTService(testSecret, 0).GenerateToken("")
	assert.Error(t, err)
}
