package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/99minutos/storefront-api/internal/core/domain"
	"github.com/99minutos/storefront-api/internal/core/ports"
)

// AccountDirectory implements ports.AccountDirectory on top of a record store.
// It is safe for concurrent use; it holds no per-request state.
type AccountDirectory struct {
	store  ports.AccountStore
	hasher ports.PasswordHasher
	log    zerolog.Logger
	now    func() time.Time
	newID  func() string
}

func NewAccountDirectory(store ports.AccountStore, hasher ports.PasswordHasher, log zerolog.Logger) *AccountDirectory {
	return &AccountDirectory{
		store:  store,
		hasher: hasher,
		log:    log,
		now:    domain.Now,
		newID:  uuid.NewString,
	}
}

func (d *AccountDirectory) List(ctx context.Context) ([]*domain.Account, error) {
	recs, err := d.store.Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	out := make([]*domain.Account, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.Public())
	}
	return out, nil
}

func (d *AccountDirectory) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	rec, err := d.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return rec.Public(), nil
}

func (d *AccountDirectory) get(ctx context.Context, id string) (*domain.AccountRecord, error) {
	rec, err := d.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("get account: %w", err)
	}
	return rec, nil
}

// GetByEmail returns the full record, digest included. Only login and the
// create-time uniqueness probe use it.
func (d *AccountDirectory) GetByEmail(ctx context.Context, email string) (*domain.AccountRecord, error) {
	recs, err := d.store.Query(ctx, ports.EmailIndex, email)
	if err != nil {
		return nil, fmt.Errorf("query account by email: %w", err)
	}
	if len(recs) == 0 {
		return nil, domain.ErrAccountNotFound
	}
	return recs[0], nil
}

// probeEmail classifies a lookup into found, absent or failed so that Create
// can treat "absent" as the normal path.
func (d *AccountDirectory) probeEmail(ctx context.Context, email string) (domain.Presence, error) {
	_, err := d.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return domain.Present, nil
	case errors.Is(err, domain.ErrNotFound):
		return domain.Absent, nil
	default:
		return domain.Unknown, err
	}
}

// Create registers a new account. The email probe rejects known duplicates
// early; the store's unique email index rejects the ones that race past it.
func (d *AccountDirectory) Create(ctx context.Context, in domain.NewAccountInput) (*domain.Account, error) {
	role := in.Role
	if role == "" {
		role = domain.RoleStandard
	}
	if _, err := domain.ParseRole(string(role)); err != nil {
		return nil, err
	}

	presence, err := d.probeEmail(ctx, in.Email)
	switch presence {
	case domain.Present:
		return nil, domain.ErrEmailTaken
	case domain.Unknown:
		return nil, err
	}

	hash, err := d.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := d.now()
	rec := &domain.AccountRecord{
		Account: domain.Account{
			ID:        d.newID(),
			Email:     in.Email,
			FirstName: in.FirstName,
			LastName:  in.LastName,
			Role:      role,
			CreatedAt: now,
			UpdatedAt: now,
		},
		PasswordHash: hash,
	}

	if err := d.store.Put(ctx, rec); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("put account: %w", err)
	}

	d.log.Info().Str("account_id", rec.ID).Str("role", string(rec.Role)).Msg("account created")
	return rec.Public(), nil
}

// Update applies a sparse change set. A new password is hashed before it is
// written; every other provided field is written verbatim.
func (d *AccountDirectory) Update(ctx context.Context, id string, changes domain.AccountChanges) (*domain.Account, error) {
	if _, err := d.get(ctx, id); err != nil {
		return nil, err
	}

	patch, err := d.accountPatch(changes)
	if err != nil {
		return nil, err
	}

	if _, err := d.store.Update(ctx, id, patch); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return nil, domain.ErrAccountNotFound
		case errors.Is(err, domain.ErrConflict):
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("apply update: %w", err)
	}

	rec, err := d.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("reload account: %w", err)
	}

	d.log.Info().Str("account_id", id).Strs("fields", patch.Fields()).Msg("account updated")
	return rec.Public(), nil
}

func (d *AccountDirectory) accountPatch(c domain.AccountChanges) (domain.Patch, error) {
	var p domain.Patch
	if c.Email != nil {
		p.Set(domain.FieldEmail, *c.Email)
	}
	if c.FirstName != nil {
		p.Set(domain.FieldFirstName, *c.FirstName)
	}
	if c.LastName != nil {
		p.Set(domain.FieldLastName, *c.LastName)
	}
	if c.Password != nil {
		hash, err := d.hasher.Hash(*c.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		p.Set(domain.FieldPasswordHash, hash)
	}
	if c.Role != nil {
		role, err := domain.ParseRole(string(*c.Role))
		if err != nil {
			return nil, err
		}
		p.Set(domain.FieldRole, role)
	}
	return p, nil
}

func (d *AccountDirectory) Delete(ctx context.Context, id string) error {
	if _, err := d.get(ctx, id); err != nil {
		return err
	}
	if err := d.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	d.log.Info().Str("account_id", id).Msg("account deleted")
	return nil
}

// ValidateCredentials checks an email/password pair. Every failure, including
// store errors, collapses to domain.ErrInvalidCredentials so callers cannot
// tell an unknown email from a wrong password.
func (d *AccountDirectory) ValidateCredentials(ctx context.Context, email, password string) (*domain.Account, error) {
	rec, err := d.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			d.log.Error().Err(err).Msg("credential lookup failed")
		}
		return nil, domain.ErrInvalidCredentials
	}

	ok, err := d.hasher.Verify(password, rec.PasswordHash)
	if err != nil {
		d.log.Error().Err(err).Str("account_id", rec.ID).Msg("stored digest unreadable")
		return nil, domain.ErrInvalidCredentials
	}
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}
	return rec.Public(), nil
}
