package security

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/99minutos/storefront-api/internal/core/domain"
)

func fixedIssuer(t *testing.T, secret string, at *time.Time) *JWTIssuer {
	t.Helper()
	j, err := NewJWTIssuer(secret)
	if err != nil {
		t.Fatalf("NewJWTIssuer: %v", err)
	}
	j.now = func() time.Time { return *at }
	return j
}

func TestJWTIssuer_RoundTrip(t *testing.T) {
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	j := fixedIssuer(t, "secret", &now)

	token, err := j.Issue("acc-1", "a@x.com", domain.RoleAdministrator, time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	now = now.Add(59 * time.Minute)
	claims, err := j.Verify(token)
	if err != nil {
		t.Fatalf("Verify before expiry: %v", err)
	}
	if claims.Subject != "acc-1" || claims.Email != "a@x.com" || claims.Role != domain.RoleAdministrator {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestJWTIssuer_Expired(t *testing.T) {
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	j := fixedIssuer(t, "secret", &now)
	token, _ := j.Issue("acc-1", "a@x.com", domain.RoleStandard, time.Hour)

	now = now.Add(2 * time.Hour)
	if _, err := j.Verify(token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken after expiry, got %v", err)
	}
}

func TestJWTIssuer_WrongSecret(t *testing.T) {
	now := time.Now()
	issuer := fixedIssuer(t, "secret", &now)
	other := fixedIssuer(t, "other-secret", &now)
	token, _ := issuer.Issue("acc-1", "a@x.com", domain.RoleStandard, time.Hour)

	if _, err := other.Verify(token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for foreign signature, got %v", err)
	}
}

func TestJWTIssuer_RejectsOtherAlgorithms(t *testing.T) {
	now := time.Now()
	j := fixedIssuer(t, "secret", &now)

	tok := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{
		"sub": "acc-1", "email": "a@x.com", "role": "standard", "exp": now.Add(time.Hour).Unix(),
	})
	signed, err := tok.SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := j.Verify(signed); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for HS512, got %v", err)
	}
}

func TestJWTIssuer_MalformedClaims(t *testing.T) {
	now := time.Now()
	j := fixedIssuer(t, "secret", &now)

	cases := map[string]jwt.MapClaims{
		"unknown role": {"sub": "acc-1", "email": "a@x.com", "role": "root", "exp": now.Add(time.Hour).Unix()},
		"no subject":   {"email": "a@x.com", "role": "standard", "exp": now.Add(time.Hour).Unix()},
		"no expiry":    {"sub": "acc-1", "email": "a@x.com", "role": "standard"},
	}
	for name, c := range cases {
		signed, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte("secret"))
		if _, err := j.Verify(signed); !errors.Is(err, domain.ErrInvalidToken) {
			t.Errorf("%s: expected ErrInvalidToken, got %v", name, err)
		}
	}

	if _, err := j.Verify("not-a-token"); !errors.Is(err, domain.ErrInvalidToken) {
		t.Errorf("garbage: expected ErrInvalidToken, got %v", err)
	}
}

func TestNewJWTIssuer_RequiresSecret(t *testing.T) {
	if _, err := NewJWTIssuer(""); !errors.Is(err, ErrMissingSecret) {
		t.Fatalf("expected ErrMissingSecret, got %v", err)
	}
}

func TestJWTIssuer_RejectsSubSecondTTL(t *testing.T) {
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	j := fixedIssuer(t, "secret", &now)

	for _, ttl := range []time.Duration{0, -time.Minute, 999 * time.Millisecond} {
		if _, err := j.Issue("acc-1", "a@x.com", domain.RoleStandard, ttl); !errors.Is(err, ErrTTLTooShort) {
			t.Errorf("ttl %s: expected ErrTTLTooShort, got %v", ttl, err)
		}
	}

	token, err := j.Issue("acc-1", "a@x.com", domain.RoleStandard, time.Second)
	if err != nil {
		t.Fatalf("one second ttl: %v", err)
	}
	claims, err := j.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !claims.ExpiresAt.Equal(now.Add(time.Second)) {
		t.Fatalf("expected expiry %s, got %s", now.Add(time.Second), claims.ExpiresAt)
	}
}
