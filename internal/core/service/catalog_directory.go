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

// CatalogDirectory implements ports.CatalogDirectory.
type CatalogDirectory struct {
	store ports.ItemStore
	log   zerolog.Logger
	now   func() time.Time
	newID func() string
}

func NewCatalogDirectory(store ports.ItemStore, log zerolog.Logger) *CatalogDirectory {
	return &CatalogDirectory{
		store: store,
		log:   log,
		now:   domain.Now,
		newID: uuid.NewString,
	}
}

func (d *CatalogDirectory) List(ctx context.Context) ([]*domain.Item, error) {
	items, err := d.store.Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return items, nil
}

func (d *CatalogDirectory) GetByID(ctx context.Context, id string) (*domain.Item, error) {
	item, err := d.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrItemNotFound
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

func (d *CatalogDirectory) Create(ctx context.Context, in domain.NewItemInput) (*domain.Item, error) {
	inStock := true
	if in.InStock != nil {
		inStock = *in.InStock
	}

	now := d.now()
	item := &domain.Item{
		ID:          d.newID(),
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Category:    in.Category,
		ImageURL:    in.ImageURL,
		InStock:     inStock,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := d.store.Put(ctx, item); err != nil {
		return nil, fmt.Errorf("put item: %w", err)
	}

	d.log.Info().Str("item_id", item.ID).Str("category", item.Category).Msg("item created")
	return item, nil
}

func (d *CatalogDirectory) Update(ctx context.Context, id string, changes domain.ItemChanges) (*domain.Item, error) {
	if _, err := d.GetByID(ctx, id); err != nil {
		return nil, err
	}

	patch := itemPatch(changes)
	item, err := d.store.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrItemNotFound
		}
		return nil, fmt.Errorf("apply update: %w", err)
	}

	d.log.Info().Str("item_id", id).Strs("fields", patch.Fields()).Msg("item updated")
	return item, nil
}

func itemPatch(c domain.ItemChanges) domain.Patch {
	var p domain.Patch
	if c.Name != nil {
		p.Set(domain.FieldName, *c.Name)
	}
	if c.Description != nil {
		p.Set(domain.FieldDescription, *c.Description)
	}
	if c.Price != nil {
		p.Set(domain.FieldPrice, *c.Price)
	}
	if c.Category != nil {
		p.Set(domain.FieldCategory, *c.Category)
	}
	if c.ImageURL != nil {
		p.Set(domain.FieldImageURL, *c.ImageURL)
	}
	if c.InStock != nil {
		p.Set(domain.FieldInStock, *c.InStock)
	}
	return p
}

func (d *CatalogDirectory) Delete(ctx context.Context, id string) error {
	if _, err := d.GetByID(ctx, id); err != nil {
		return err
	}
	if err := d.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	d.log.Info().Str("item_id", id).Msg("item deleted")
	return nil
}
