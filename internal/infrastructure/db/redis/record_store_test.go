package redis

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/99minutos/storefront-api/internal/core/domain"
	"github.com/99minutos/storefront-api/internal/core/ports"
)

type (
	accountStore = RecordStore[domain.AccountRecord, *domain.AccountRecord]
	itemStore    = RecordStore[domain.Item, *domain.Item]
)

func newClient(t *testing.T) *redis.Client {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func newAccountStore(t *testing.T) *accountStore {
	return NewRecordStore[domain.AccountRecord, *domain.AccountRecord](newClient(t), "test-users", ports.AccountIndexes())
}

func newItemStore(t *testing.T) *itemStore {
	return NewRecordStore[domain.Item, *domain.Item](newClient(t), "test-products", ports.ItemIndexes())
}

func account(id, email string) *domain.AccountRecord {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return &domain.AccountRecord{
		Account: domain.Account{
			ID:        id,
			Email:     email,
			FirstName: "Ada",
			LastName:  "Lovelace",
			Role:      domain.RoleStandard,
			CreatedAt: now,
			UpdatedAt: now,
		},
		PasswordHash: "digest",
	}
}

func TestRecordStore_PutGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newAccountStore(t)

	rec := account("u1", "ada@example.com")
	require.NoError(t, s.Put(ctx, rec))

	got, err := s.Get(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, rec.Email, got.Email)
	require.Equal(t, rec.PasswordHash, got.PasswordHash)
	require.Equal(t, rec.Role, got.Role)
	require.True(t, rec.CreatedAt.Equal(got.CreatedAt))
}

func TestRecordStore_GetMissing(t *testing.T) {
	_, err := newAccountStore(t).Get(context.Background(), "nope")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRecordStore_PutRejectsTakenUniqueKey(t *testing.T) {
	ctx := context.Background()
	s := newAccountStore(t)

	require.NoError(t, s.Put(ctx, account("u1", "ada@example.com")))
	err := s.Put(ctx, account("u2", "ada@example.com"))
	require.ErrorIs(t, err, domain.ErrConflict)

	_, err = s.Get(ctx, "u2")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRecordStore_PutRejectsDuplicateID(t *testing.T) {
	ctx := context.Background()
	s := newAccountStore(t)

	require.NoError(t, s.Put(ctx, account("u1", "ada@example.com")))
	require.ErrorIs(t, s.Put(ctx, account("u1", "other@example.com")), domain.ErrConflict)
}

func TestRecordStore_ConcurrentPutsWithSameEmail(t *testing.T) {
	ctx := context.Background()
	s := newAccountStore(t)

	const writers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := s.Put(ctx, account(string(rune('a'+i)), "race@example.com")); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	require.Equal(t, 1, succeeded)
	found, err := s.Query(ctx, ports.EmailIndex, "race@example.com")
	require.NoError(t, err)
	require.Len(t, found, 1)
}

func TestRecordStore_UpdateAppliesPatchAndRefreshesTimestamp(t *testing.T) {
	ctx := context.Background()
	s := newAccountStore(t)
	fixed := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	rec := account("u1", "ada@example.com")
	require.NoError(t, s.Put(ctx, rec))

	var p domain.Patch
	p.Set(domain.FieldFirstName, "")
	p.Set(domain.FieldRole, domain.RoleAdministrator)

	got, err := s.Update(ctx, "u1", p)
	require.NoError(t, err)
	require.Equal(t, "", got.FirstName)
	require.Equal(t, domain.RoleAdministrator, got.Role)
	require.Equal(t, rec.LastName, got.LastName)
	require.Equal(t, rec.PasswordHash, got.PasswordHash)
	require.True(t, fixed.Equal(got.UpdatedAt))
	require.True(t, rec.CreatedAt.Equal(got.CreatedAt))

	stored, err := s.Get(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, got.Role, stored.Role)
}

func TestRecordStore_UpdateAdvancesTimestampWhenClockStandsStill(t *testing.T) {
	ctx := context.Background()
	s := newAccountStore(t)
	rec := account("u1", "ada@example.com")
	s.now = func() time.Time { return rec.UpdatedAt }
	require.NoError(t, s.Put(ctx, rec))

	var p domain.Patch
	p.Set(domain.FieldLastName, "Byron")

	first, err := s.Update(ctx, "u1", p)
	require.NoError(t, err)
	require.True(t, first.UpdatedAt.After(rec.UpdatedAt))

	second, err := s.Update(ctx, "u1", p)
	require.NoError(t, err)
	require.True(t, second.UpdatedAt.After(first.UpdatedAt))
	require.True(t, rec.CreatedAt.Equal(second.CreatedAt))
}

func TestRecordStore_UpdateMissing(t *testing.T) {
	var p domain.Patch
	p.Set(domain.FieldFirstName, "x")
	_, err := newAccountStore(t).Update(context.Background(), "nope", p)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRecordStore_UpdateMovesUniqueIndex(t *testing.T) {
	ctx := context.Background()
	s := newAccountStore(t)
	require.NoError(t, s.Put(ctx, account("u1", "old@example.com")))

	var p domain.Patch
	p.Set(domain.FieldEmail, "new@example.com")
	_, err := s.Update(ctx, "u1", p)
	require.NoError(t, err)

	old, err := s.Query(ctx, ports.EmailIndex, "old@example.com")
	require.NoError(t, err)
	require.Empty(t, old)

	moved, err := s.Query(ctx, ports.EmailIndex, "new@example.com")
	require.NoError(t, err)
	require.Len(t, moved, 1)
	require.Equal(t, "u1", moved[0].ID)

	require.NoError(t, s.Put(ctx, account("u2", "old@example.com")))
}

func TestRecordStore_UpdateRejectsTakenUniqueKey(t *testing.T) {
	ctx := context.Background()
	s := newAccountStore(t)
	require.NoError(t, s.Put(ctx, account("u1", "one@example.com")))
	require.NoError(t, s.Put(ctx, account("u2", "two@example.com")))

	var p domain.Patch
	p.Set(domain.FieldEmail, "one@example.com")
	_, err := s.Update(ctx, "u2", p)
	require.ErrorIs(t, err, domain.ErrConflict)

	unchanged, err := s.Get(ctx, "u2")
	require.NoError(t, err)
	require.Equal(t, "two@example.com", unchanged.Email)
}

func TestRecordStore_DeleteReleasesIndexes(t *testing.T) {
	ctx := context.Background()
	s := newAccountStore(t)
	require.NoError(t, s.Put(ctx, account("u1", "ada@example.com")))

	require.NoError(t, s.Delete(ctx, "u1"))
	_, err := s.Get(ctx, "u1")
	require.ErrorIs(t, err, domain.ErrNotFound)

	all, err := s.Scan(ctx)
	require.NoError(t, err)
	require.Empty(t, all)

	require.NoError(t, s.Put(ctx, account("u2", "ada@example.com")))
	require.NoError(t, s.Delete(ctx, "missing"))
}

func TestRecordStore_ScanAndCategoryQuery(t *testing.T) {
	ctx := context.Background()
	s := newItemStore(t)

	items := []*domain.Item{
		{ID: "i1", Name: "Lamp", Description: "Desk lamp", Price: 20, Category: "home", InStock: true},
		{ID: "i2", Name: "Chair", Description: "Office chair", Price: 90, Category: "home", InStock: false},
		{ID: "i3", Name: "Pen", Description: "Blue pen", Price: 1.5, Category: "office", InStock: true},
	}
	for _, it := range items {
		require.NoError(t, s.Put(ctx, it))
	}

	all, err := s.Scan(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)

	home, err := s.Query(ctx, "category-index", "home")
	require.NoError(t, err)
	require.Len(t, home, 2)

	var p domain.Patch
	p.Set(domain.FieldCategory, "office")
	p.Set(domain.FieldInStock, true)
	p.Set(domain.FieldPrice, 0.0)
	got, err := s.Update(ctx, "i2", p)
	require.NoError(t, err)
	require.True(t, got.InStock)
	require.Zero(t, got.Price)

	office, err := s.Query(ctx, "category-index", "office")
	require.NoError(t, err)
	require.Len(t, office, 2)

	_, err = s.Query(ctx, "no-such-index", "x")
	require.ErrorIs(t, err, domain.ErrUnknownIndex)
}

func TestRecordStore_UnavailableBackend(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	s := NewRecordStore[domain.AccountRecord, *domain.AccountRecord](client, "test-users", ports.AccountIndexes())
	mr.Close()

	_, err := s.Get(context.Background(), "u1")
	require.ErrorIs(t, err, domain.ErrUnavailable)

	require.ErrorIs(t, s.Put(context.Background(), account("u1", "ada@example.com")), domain.ErrUnavailable)
}
