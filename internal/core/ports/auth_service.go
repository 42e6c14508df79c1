package ports

import (
	"context"

	"github.com/99minutos/storefront-api/internal/core/domain"
)

// RegisterInput is the self-service sign-up payload. Registered accounts
// always start with the standard role.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// AuthResult pairs a freshly issued token with the account it was issued for.
type AuthResult struct {
	Token   string
	Account *domain.Account
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	VerifyToken(token string) (*domain.Claims, error)
}
