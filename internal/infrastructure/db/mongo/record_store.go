package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/99minutos/storefront-api/internal/core/domain"
	"github.com/99minutos/storefront-api/internal/core/ports"
)

// RecordStore implements ports.RecordStore over one Mongo collection. Records
// are stored under their identifier as _id.
type RecordStore[T any] struct {
	col     *mongo.Collection
	indexes map[string]ports.Index[T]
	now     func() time.Time
}

func NewRecordStore[T any](db *mongo.Database, collection string, indexes []ports.Index[T]) *RecordStore[T] {
	byName := make(map[string]ports.Index[T], len(indexes))
	for _, idx := range indexes {
		byName[idx.Name] = idx
	}
	return &RecordStore[T]{
		col:     db.Collection(collection),
		indexes: byName,
		now:     domain.Now,
	}
}

func (s *RecordStore[T]) Get(ctx context.Context, id string) (*T, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var rec T
	if err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&rec); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, storeError("get", err)
	}
	return &rec, nil
}

// Put inserts a new record. Unique indexes make this a conditional write.
func (s *RecordStore[T]) Put(ctx context.Context, rec *T) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := s.col.InsertOne(ctx, rec); err != nil {
		return storeError("put", err)
	}
	return nil
}

// Update applies patch through a single $set pipeline stage and returns the
// post-update document.
func (s *RecordStore[T]) Update(ctx context.Context, id string, patch domain.Patch) (*T, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := mongo.Pipeline{{{Key: "$set", Value: setDocument(patch, s.now())}}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var rec T
	err := s.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, storeError("update", err)
	}
	return &rec, nil
}

func (s *RecordStore[T]) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := s.col.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return storeError("delete", err)
	}
	return nil
}

func (s *RecordStore[T]) Scan(ctx context.Context) ([]*T, error) {
	return s.find(ctx, "scan", bson.D{})
}

func (s *RecordStore[T]) Query(ctx context.Context, index, key string) ([]*T, error) {
	idx, ok := s.indexes[index]
	if !ok {
		return nil, fmt.Errorf("mongo query %q: %w", index, domain.ErrUnknownIndex)
	}
	return s.find(ctx, "query", bson.D{{Key: idx.Field, Value: key}})
}

func (s *RecordStore[T]) find(ctx context.Context, op string, filter bson.D) ([]*T, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := s.col.Find(ctx, filter)
	if err != nil {
		return nil, storeError(op, err)
	}
	var recs []*T
	if err := cur.All(ctx, &recs); err != nil {
		return nil, storeError(op, err)
	}
	if recs == nil {
		recs = []*T{}
	}
	return recs, nil
}

// EnsureIndexes creates the declared secondary indexes on the collection.
func (s *RecordStore[T]) EnsureIndexes(ctx context.Context) error {
	if len(s.indexes) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	models := make([]mongo.IndexModel, 0, len(s.indexes))
	for _, idx := range s.indexes {
		models = append(models, mongo.IndexModel{
			Keys:    bson.D{{Key: idx.Field, Value: 1}},
			Options: options.Index().SetName(idx.Name).SetUnique(idx.Unique),
		})
	}

	if _, err := s.col.Indexes().CreateMany(ctx, models); err != nil {
		return storeError("ensure indexes", err)
	}
	return nil
}

// setDocument turns a patch into the body of a pipeline $set stage. Values are
// wrapped in $literal so strings starting with "$" are not read as field
// paths. updated_at is always written last so a patch cannot override it, and
// it moves at least one millisecond past the stored value.
func setDocument(patch domain.Patch, now time.Time) bson.D {
	set := make(bson.D, 0, len(patch)+1)
	for _, a := range patch {
		if a.Field == "_id" || a.Field == domain.FieldUpdatedAt {
			continue
		}
		set = append(set, bson.E{Key: a.Field, Value: bson.D{{Key: "$literal", Value: a.Value}}})
	}
	return append(set, bson.E{Key: domain.FieldUpdatedAt, Value: nextUpdatedAt(now)})
}

// nextUpdatedAt is the server-side form of domain.NextTimestamp. A missing
// updated_at makes $add yield null, which $max ignores.
func nextUpdatedAt(now time.Time) bson.D {
	step := domain.TimestampPrecision.Milliseconds()
	return bson.D{{Key: "$max", Value: bson.A{
		now,
		bson.D{{Key: "$add", Value: bson.A{"$" + domain.FieldUpdatedAt, step}}},
	}}}
}

// storeError maps a driver error onto the domain taxonomy.
func storeError(op string, err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("mongo %s: %w", op, domain.ErrConflict)
	}
	return fmt.Errorf("mongo %s: %w: %v", op, domain.ErrUnavailable, err)
}
