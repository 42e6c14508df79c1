package ports

import (
	"time"

	"github.com/99minutos/storefront-api/internal/core/domain"
)

// PasswordHasher is a one-way salted digest. Verify reports a mismatch as
// (false, nil); only a malformed digest is an error.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) (bool, error)
}

// TokenIssuer signs and verifies stateless bearer tokens. Verify fails with
// domain.ErrInvalidToken on a bad signature, malformed claims or expiry.
type TokenIssuer interface {
	Issue(subjectID, email string, role domain.Role, ttl time.Duration) (string, error)
	Verify(token string) (*domain.Claims, error)
}
