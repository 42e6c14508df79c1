package ports

import (
	"context"

	"github.com/99minutos/storefront-api/internal/core/domain"
)

// AccountDirectory is CRUD over accounts. Every returned Account is the
// sans-secret view; GetByEmail is the only path exposing the digest.
type AccountDirectory interface {
	List(ctx context.Context) ([]*domain.Account, error)
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.AccountRecord, error)
	Create(ctx context.Context, in domain.NewAccountInput) (*domain.Account, error)
	Update(ctx context.Context, id string, changes domain.AccountChanges) (*domain.Account, error)
	Delete(ctx context.Context, id string) error
	ValidateCredentials(ctx context.Context, email, password string) (*domain.Account, error)
}

// CatalogDirectory is CRUD over catalog items.
type CatalogDirectory interface {
	List(ctx context.Context) ([]*domain.Item, error)
	GetByID(ctx context.Context, id string) (*domain.Item, error)
	Create(ctx context.Context, in domain.NewItemInput) (*domain.Item, error)
	Update(ctx context.Context, id string, changes domain.ItemChanges) (*domain.Item, error)
	Delete(ctx context.Context, id string) error
}
