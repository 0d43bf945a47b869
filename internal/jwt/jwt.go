package jwt

import (
	"errors"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"

	"tasks-be/internal/apperr"
)

// DefaultTTL is the fixed validity window of issued tokens.
const DefaultTTL = 30 * 24 * time.Hour

// Claims embeds the caller id; ID mirrors the subject for clients that read "id".
type Claims struct {
	UserID string `json:"id"`
	gojwt.RegisteredClaims
}

type JWTService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTService creates a new HS256 issuer/verifier. A zero ttl means DefaultTTL.
func NewJWTService(secret string, ttl time.Duration) *JWTService {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &JWTService{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// WithClock returns a copy of the service that reads time from now.
func (s *JWTService) WithClock(now func() time.Time) *JWTService {
	cp := *s
	cp.now = now
	return &cp
}

func (s *JWTService) TTL() time.Duration {
	return s.ttl
}

// GenerateToken signs a token binding userID, valid for the service TTL.
func (s *JWTService) GenerateToken(userID string) (string, error) {
	if userID == "" {
		return "", errors.New("user id is required")
	}
	issuedAt := s.now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: gojwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  gojwt.NewNumericDate(issuedAt),
			ExpiresAt: gojwt.NewNumericDate(issuedAt.Add(s.ttl)),
		},
	}

	signed, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken checks signature and expiry and returns the embedded user id.
// Every failure is reported as apperr.ErrUnauthorized.
func (s *JWTService) ValidateToken(tokenString string) (string, error) {
	if tokenString == "" {
		return "", apperr.ErrUnauthorized
	}

	claims := &Claims{}
	token, err := gojwt.ParseWithClaims(tokenString, claims, func(t *gojwt.Token) (any, error) {
		if _, ok := t.Method.(*gojwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	},
		gojwt.WithTimeFunc(s.now),
		gojwt.WithExpirationRequired(),
		gojwt.WithValidMethods([]string{gojwt.SigningMethodHS256.Alg()}),
	)
	if err != nil || !token.Valid {
		return "", apperr.ErrUnauthorized
	}

	userID := claims.UserID
	if userID == "" {
		userID = claims.Subject
	}
	if userID == "" {
		return "", apperr.ErrUnauthorized
	}
	return userID, nil
}
