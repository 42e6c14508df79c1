package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/99minutos/storefront-api/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory record store
// ---------------------------------------------------------------------------

type stubStore[T any] struct {
	recs    map[string]*T
	id      func(*T) string
	indexes map[string]func(*T) string
	apply   func(*T, domain.Attribute)
	stamp   func(*T, time.Time)
	now     func() time.Time

	getErr    error
	putErr    error
	updateErr error
	deleteErr error
	queryErr  error
	scanErr   error

	puts      int
	updates   int
	deletes   int
	lastPatch domain.Patch
}

func (s *stubStore[T]) Get(_ context.Context, id string) (*T, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	rec, ok := s.recs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *rec
	return &clone, nil
}

func (s *stubStore[T]) Put(_ context.Context, rec *T) error {
	s.puts++
	if s.putErr != nil {
		return s.putErr
	}
	clone := *rec
	s.recs[s.id(rec)] = &clone
	return nil
}

func (s *stubStore[T]) Update(_ context.Context, id string, patch domain.Patch) (*T, error) {
	s.updates++
	s.lastPatch = patch
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	rec, ok := s.recs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	for _, a := range patch {
		s.apply(rec, a)
	}
	s.stamp(rec, s.now())
	clone := *rec
	return &clone, nil
}

func (s *stubStore[T]) Delete(_ context.Context, id string) error {
	s.deletes++
	if s.deleteErr != nil {
		return s.deleteErr
	}
	delete(s.recs, id)
	return nil
}

func (s *stubStore[T]) Scan(_ context.Context) ([]*T, error) {
	if s.scanErr != nil {
		return nil, s.scanErr
	}
	out := make([]*T, 0, len(s.recs))
	for _, rec := range s.recs {
		clone := *rec
		out = append(out, &clone)
	}
	return out, nil
}

func (s *stubStore[T]) Query(_ context.Context, index, key string) ([]*T, error) {
	if s.queryErr != nil {
		return nil, s.queryErr
	}
	extract, ok := s.indexes[index]
	if !ok {
		return nil, fmt.Errorf("stub query %q: %w", index, domain.ErrUnknownIndex)
	}
	var out []*T
	for _, rec := range s.recs {
		if extract(rec) == key {
			clone := *rec
			out = append(out, &clone)
		}
	}
	return out, nil
}

// stepClock advances one second on every reading so that timestamps taken
// by the directory and by the store are strictly ordered.
type stepClock struct {
	t time.Time
}

func newStepClock() *stepClock {
	return &stepClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *stepClock) Now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

func newAccountStore(clock *stepClock) *stubStore[domain.AccountRecord] {
	return &stubStore[domain.AccountRecord]{
		recs: make(map[string]*domain.AccountRecord),
		id:   func(r *domain.AccountRecord) string { return r.ID },
		indexes: map[string]func(*domain.AccountRecord) string{
			"email-index": func(r *domain.AccountRecord) string { return r.Email },
		},
		apply: func(r *domain.AccountRecord, a domain.Attribute) {
			switch a.Field {
			case domain.FieldEmail:
				r.Email = a.Value.(string)
			case domain.FieldFirstName:
				r.FirstName = a.Value.(string)
			case domain.FieldLastName:
				r.LastName = a.Value.(string)
			case domain.FieldPasswordHash:
				r.PasswordHash = a.Value.(string)
			case domain.FieldRole:
				r.Role = a.Value.(domain.Role)
			}
		},
		stamp: func(r *domain.AccountRecord, t time.Time) { r.UpdatedAt = t },
		now:   clock.Now,
	}
}

func newItemStore(clock *stepClock) *stubStore[domain.Item] {
	return &stubStore[domain.Item]{
		recs: make(map[string]*domain.Item),
		id:   func(i *domain.Item) string { return i.ID },
		indexes: map[string]func(*domain.Item) string{
			"category-index": func(i *domain.Item) string { return i.Category },
		},
		apply: func(i *domain.Item, a domain.Attribute) {
			switch a.Field {
			case domain.FieldName:
				i.Name = a.Value.(string)
			case domain.FieldDescription:
				i.Description = a.Value.(string)
			case domain.FieldPrice:
				i.Price = a.Value.(float64)
			case domain.FieldCategory:
				i.Category = a.Value.(string)
			case domain.FieldImageURL:
				i.ImageURL = a.Value.(string)
			case domain.FieldInStock:
				i.InStock = a.Value.(bool)
			}
		},
		stamp: func(i *domain.Item, t time.Time) { i.UpdatedAt = t },
		now:   clock.Now,
	}
}

// ---------------------------------------------------------------------------
// Hasher and token issuer
// ---------------------------------------------------------------------------

type stubHasher struct {
	hashErr error
	hashed  []string
}

func (h *stubHasher) Hash(plaintext string) (string, error) {
	if h.hashErr != nil {
		return "", h.hashErr
	}
	h.hashed = append(h.hashed, plaintext)
	return "digest:" + plaintext, nil
}

func (h *stubHasher) Verify(plaintext, digest string) (bool, error) {
	if !strings.HasPrefix(digest, "digest:") {
		return false, errors.New("malformed digest")
	}
	return digest == "digest:"+plaintext, nil
}

type stubIssuer struct {
	issueErr  error
	verifyErr error
	issued    []domain.Claims
	lastTTL   time.Duration
}

func (i *stubIssuer) Issue(subjectID, email string, role domain.Role, ttl time.Duration) (string, error) {
	if i.issueErr != nil {
		return "", i.issueErr
	}
	i.lastTTL = ttl
	i.issued = append(i.issued, domain.Claims{Subject: subjectID, Email: email, Role: role})
	return "token-for-" + subjectID, nil
}

func (i *stubIssuer) Verify(token string) (*domain.Claims, error) {
	if i.verifyErr != nil {
		return nil, i.verifyErr
	}
	for _, c := range i.issued {
		if token == "token-for-"+c.Subject {
			claims := c
			return &claims, nil
		}
	}
	return nil, domain.ErrInvalidToken
}
