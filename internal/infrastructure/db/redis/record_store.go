package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/99minutos/storefront-api/internal/core/domain"
	"github.com/99minutos/storefront-api/internal/core/ports"
)

// recordPtr constrains PT to *T carrying an identifier.
type recordPtr[T any] interface {
	*T
	ports.Record
}

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

// RecordStore implements ports.RecordStore on top of Redis. Records are
// BSON-encoded so both backends share one codec.
//
// Key layout, with <c> the collection name:
//
//	<c>:rec:<id>              encoded record
//	<c>:ids                   set of all identifiers
//	<c>:uidx:<index>:<value>  identifier holding a unique value
//	<c>:idx:<index>:<value>   set of identifiers holding a value
type RecordStore[T any, PT recordPtr[T]] struct {
	client     *redis.Client
	collection string
	indexes    map[string]ports.Index[T]
	now        func() time.Time
}

func NewRecordStore[T any, PT recordPtr[T]](client *redis.Client, collection string, indexes []ports.Index[T]) *RecordStore[T, PT] {
	byName := make(map[string]ports.Index[T], len(indexes))
	for _, idx := range indexes {
		byName[idx.Name] = idx
	}
	return &RecordStore[T, PT]{
		client:     client,
		collection: collection,
		indexes:    byName,
		now:        domain.Now,
	}
}

func (s *RecordStore[T, PT]) Get(ctx context.Context, id string) (*T, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return s.load(ctx, s.client, "get", id)
}

// Put stores a new record. The record key and every unique index key are
// watched, so a concurrent writer claiming the same values aborts this
// transaction and Put fails with domain.ErrConflict.
func (s *RecordStore[T, PT]) Put(ctx context.Context, rec *T) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id := PT(rec).RecordID()
	data, err := bson.Marshal(rec)
	if err != nil {
		return fmt.Errorf("redis put: encode: %w", err)
	}

	watched := []string{s.recordKey(id)}
	for _, idx := range s.indexes {
		if idx.Unique {
			watched = append(watched, s.uniqueKey(idx.Name, idx.Key(rec)))
		}
	}

	txf := func(tx *redis.Tx) error {
		n, err := tx.Exists(ctx, watched...).Result()
		if err != nil {
			return storeError("put", err)
		}
		if n > 0 {
			return fmt.Errorf("redis put: %w", domain.ErrConflict)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, s.recordKey(id), data, 0)
			pipe.SAdd(ctx, s.idsKey(), id)
			s.addIndexes(ctx, pipe, id, rec)
			return nil
		})
		return err
	}

	switch err := s.client.Watch(ctx, txf, watched...); {
	case err == nil:
		return nil
	case errors.Is(err, redis.TxFailedErr):
		return fmt.Errorf("redis put: %w", domain.ErrConflict)
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrUnavailable):
		return err
	default:
		return storeError("put", err)
	}
}

// Update merges patch into the stored document, refreshes updated_at, and
// moves index entries whose value changed.
func (s *RecordStore[T, PT]) Update(ctx context.Context, id string, patch domain.Patch) (*T, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var updated *T
	txf := func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, s.recordKey(id)).Bytes()
		if errors.Is(err, redis.Nil) {
			return domain.ErrNotFound
		}
		if err != nil {
			return storeError("update", err)
		}

		current, next, data, err := s.merge(raw, patch)
		if err != nil {
			return err
		}

		var claimed []string
		for _, idx := range s.indexes {
			if idx.Unique && idx.Key(current) != idx.Key(next) {
				claimed = append(claimed, s.uniqueKey(idx.Name, idx.Key(next)))
			}
		}
		if len(claimed) > 0 {
			if err := tx.Watch(ctx, claimed...).Err(); err != nil {
				return storeError("update", err)
			}
			n, err := tx.Exists(ctx, claimed...).Result()
			if err != nil {
				return storeError("update", err)
			}
			if n > 0 {
				return fmt.Errorf("redis update: %w", domain.ErrConflict)
			}
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, s.recordKey(id), data, 0)
			for _, idx := range s.indexes {
				if idx.Key(current) == idx.Key(next) {
					continue
				}
				s.removeIndex(ctx, pipe, idx, id, current)
				s.addIndex(ctx, pipe, idx, id, next)
			}
			return nil
		})
		if err == nil {
			updated = next
		}
		return err
	}

	switch err := s.client.Watch(ctx, txf, s.recordKey(id)); {
	case err == nil:
		return updated, nil
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrUnavailable):
		return nil, err
	case errors.Is(err, redis.TxFailedErr):
		return nil, fmt.Errorf("redis update: concurrent modification: %w", domain.ErrUnavailable)
	default:
		return nil, storeError("update", err)
	}
}

// Delete removes the record and its index entries. Deleting a missing id is a no-op.
func (s *RecordStore[T, PT]) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	txf := func(tx *redis.Tx) error {
		rec, err := s.load(ctx, tx, "delete", id)
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, s.recordKey(id))
			pipe.SRem(ctx, s.idsKey(), id)
			for _, idx := range s.indexes {
				s.removeIndex(ctx, pipe, idx, id, rec)
			}
			return nil
		})
		return err
	}

	switch err := s.client.Watch(ctx, txf, s.recordKey(id)); {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrUnavailable):
		return err
	case errors.Is(err, redis.TxFailedErr):
		return fmt.Errorf("redis delete: concurrent modification: %w", domain.ErrUnavailable)
	default:
		return storeError("delete", err)
	}
}

func (s *RecordStore[T, PT]) Scan(ctx context.Context) ([]*T, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	ids, err := s.client.SMembers(ctx, s.idsKey()).Result()
	if err != nil {
		return nil, storeError("scan", err)
	}
	return s.loadMany(ctx, "scan", ids)
}

func (s *RecordStore[T, PT]) Query(ctx context.Context, index, key string) ([]*T, error) {
	idx, ok := s.indexes[index]
	if !ok {
		return nil, fmt.Errorf("redis query %q: %w", index, domain.ErrUnknownIndex)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var ids []string
	if idx.Unique {
		id, err := s.client.Get(ctx, s.uniqueKey(idx.Name, key)).Result()
		if errors.Is(err, redis.Nil) {
			return []*T{}, nil
		}
		if err != nil {
			return nil, storeError("query", err)
		}
		ids = []string{id}
	} else {
		members, err := s.client.SMembers(ctx, s.indexKey(idx.Name, key)).Result()
		if err != nil {
			return nil, storeError("query", err)
		}
		ids = members
	}
	return s.loadMany(ctx, "query", ids)
}

func (s *RecordStore[T, PT]) load(ctx context.Context, c getter, op, id string) (*T, error) {
	raw, err := c.Get(ctx, s.recordKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, storeError(op, err)
	}
	return decode[T](raw)
}

func (s *RecordStore[T, PT]) loadMany(ctx context.Context, op string, ids []string) ([]*T, error) {
	recs := make([]*T, 0, len(ids))
	if len(ids) == 0 {
		return recs, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.recordKey(id)
	}
	vals, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, storeError(op, err)
	}
	for _, v := range vals {
		str, ok := v.(string)
		if !ok {
			continue
		}
		rec, err := decode[T]([]byte(str))
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

// merge applies patch to the encoded document and returns the record before
// and after along with the new encoding.
func (s *RecordStore[T, PT]) merge(raw []byte, patch domain.Patch) (*T, *T, []byte, error) {
	current, err := decode[T](raw)
	if err != nil {
		return nil, nil, nil, err
	}

	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, nil, nil, fmt.Errorf("redis update: decode: %w", err)
	}
	for _, a := range patch {
		if a.Field == "_id" {
			continue
		}
		doc[a.Field] = a.Value
	}
	var prev time.Time
	if dt, ok := doc[domain.FieldUpdatedAt].(primitive.DateTime); ok {
		prev = dt.Time().UTC()
	}
	doc[domain.FieldUpdatedAt] = domain.NextTimestamp(s.now(), prev)

	data, err := bson.Marshal(doc)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("redis update: encode: %w", err)
	}
	next, err := decode[T](data)
	if err != nil {
		return nil, nil, nil, err
	}
	return current, next, data, nil
}

func (s *RecordStore[T, PT]) addIndexes(ctx context.Context, pipe redis.Pipeliner, id string, rec *T) {
	for _, idx := range s.indexes {
		s.addIndex(ctx, pipe, idx, id, rec)
	}
}

func (s *RecordStore[T, PT]) addIndex(ctx context.Context, pipe redis.Pipeliner, idx ports.Index[T], id string, rec *T) {
	if idx.Unique {
		pipe.Set(ctx, s.uniqueKey(idx.Name, idx.Key(rec)), id, 0)
		return
	}
	pipe.SAdd(ctx, s.indexKey(idx.Name, idx.Key(rec)), id)
}

func (s *RecordStore[T, PT]) removeIndex(ctx context.Context, pipe redis.Pipeliner, idx ports.Index[T], id string, rec *T) {
	if idx.Unique {
		pipe.Del(ctx, s.uniqueKey(idx.Name, idx.Key(rec)))
		return
	}
	pipe.SRem(ctx, s.indexKey(idx.Name, idx.Key(rec)), id)
}

func (s *RecordStore[T, PT]) recordKey(id string) string {
	return fmt.Sprintf("%s:rec:%s", s.collection, id)
}

func (s *RecordStore[T, PT]) idsKey() string {
	return s.collection + ":ids"
}

func (s *RecordStore[T, PT]) uniqueKey(index, value string) string {
	return fmt.Sprintf("%s:uidx:%s:%s", s.collection, index, value)
}

func (s *RecordStore[T, PT]) indexKey(index, value string) string {
	return fmt.Sprintf("%s:idx:%s:%s", s.collection, index, value)
}

func decode[T any](raw []byte) (*T, error) {
	var rec T
	if err := bson.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("redis decode: %w", err)
	}
	return &rec, nil
}

// storeError wraps a client failure as domain.ErrUnavailable.
func storeError(op string, err error) error {
	return fmt.Errorf("redis %s: %w: %v", op, domain.ErrUnavailable, err)
}
