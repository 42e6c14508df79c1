package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/99minutos/storefront-api/internal/core/domain"
)

var (
	// ErrMissingSecret is returned when the signing key is not configured.
	ErrMissingSecret = errors.New("jwt secret is required")
	// ErrTTLTooShort is returned for lifetimes the exp claim cannot carry.
	// NumericDate has whole-second resolution.
	ErrTTLTooShort = errors.New("token ttl must be at least one second")
)

// tokenClaims is the wire form of a bearer token.
type tokenClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Role  string `json:"role"`
}

// JWTIssuer implements ports.TokenIssuer with HS256 over a process-wide key.
type JWTIssuer struct {
	secret []byte
	now    func() time.Time
}

func NewJWTIssuer(secret string) (*JWTIssuer, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	return &JWTIssuer{secret: []byte(secret), now: time.Now}, nil
}

func (j *JWTIssuer) Issue(subjectID, email string, role domain.Role, ttl time.Duration) (string, error) {
	if ttl < time.Second {
		return "", fmt.Errorf("%w: got %s", ErrTTLTooShort, ttl)
	}
	now := j.now()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email: email,
		Role:  string(role),
	})

	signed, err := t.SignedString(j.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, algorithm, expiry and claim shape. It never
// consults the account store.
func (j *JWTIssuer) Verify(token string) (*domain.Claims, error) {
	claims := &tokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return j.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return nil, domain.ErrInvalidToken
	}
	if claims.Subject == "" || claims.Email == "" {
		return nil, fmt.Errorf("%w: missing identity claims", domain.ErrInvalidToken)
	}
	role, err := domain.ParseRole(claims.Role)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}

	return &domain.Claims{
		Subject:   claims.Subject,
		Email:     claims.Email,
		Role:      role,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
