package ports

import (
	"context"

	"github.com/99minutos/storefront-api/internal/core/domain"
)

// Record is anything a RecordStore can persist under a unique identifier.
type Record interface {
	RecordID() string
}

// Index declares a secondary lookup path over a collection.
//
// Field is the stored field name. Key extracts the indexed value from a record
// for backends that maintain the index themselves. A Unique index turns Put
// into a conditional write that fails with domain.ErrConflict when another
// record already holds the key.
type Index[T any] struct {
	Name   string
	Field  string
	Unique bool
	Key    func(*T) string
}

// RecordStore is the typed adapter over one named collection.
//
// Get and Update fail with domain.ErrNotFound for a missing id. Update applies
// only the attributes in the patch and always refreshes updated_at. Transient
// driver failures surface as domain.ErrUnavailable; nothing is retried here.
type RecordStore[T any] interface {
	Get(ctx context.Context, id string) (*T, error)
	Put(ctx context.Context, rec *T) error
	Update(ctx context.Context, id string, patch domain.Patch) (*T, error)
	Delete(ctx context.Context, id string) error
	Scan(ctx context.Context) ([]*T, error)
	Query(ctx context.Context, index, key string) ([]*T, error)
}

// AccountStore and ItemStore name the two collections the service uses.
type (
	AccountStore = RecordStore[domain.AccountRecord]
	ItemStore    = RecordStore[domain.Item]
)

// EmailIndex is the secondary index accounts are looked up by.
const EmailIndex = "email-index"

// AccountIndexes returns the index set for the accounts collection.
func AccountIndexes() []Index[domain.AccountRecord] {
	return []Index[domain.AccountRecord]{{
		Name:   EmailIndex,
		Field:  domain.FieldEmail,
		Unique: true,
		Key:    func(r *domain.AccountRecord) string { return r.Email },
	}}
}

// ItemIndexes returns the index set for the items collection.
func ItemIndexes() []Index[domain.Item] {
	return []Index[domain.Item]{{
		Name:  "category-index",
		Field: domain.FieldCategory,
		Key:   func(i *domain.Item) string { return i.Category },
	}}
}
