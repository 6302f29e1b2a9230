// Package store defines the Persistent Store boundary (§4.A): a small,
// generic repository interface every domain package programs against, plus
// a Mongo-backed implementation that realizes "row-level locking" as a
// client-session transaction wrapped around an optimistic version
// compare-and-swap — the idiomatic Mongo analogue of SQL's
// `SELECT ... FOR UPDATE`, and a direct generalization of the source
// repository's `Version int64` fields on `ShipStack`/`System`/`Planet`.
package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// ErrVersionConflict is returned by CompareAndSwap when the stored
// document's version no longer matches the version the caller last read —
// another writer committed first and the caller must retry.
var ErrVersionConflict = errors.New("store: version conflict")

// ErrNotFound is returned when Get/CompareAndSwap/Delete address a
// document that does not exist.
var ErrNotFound = errors.New("store: not found")

// Versioned is implemented by every document this package persists, so the
// generic Repository can read/bump the optimistic-lock counter without a
// type switch per aggregate.
type Versioned interface {
	GetVersion() int64
	SetVersion(int64)
}

// AllowedFilterFields is the per-collection allow-list the store validates
// Find filters against, preventing unvalidated input from reaching a bson
// field name (§4.A: "no user input reaches SQL identifiers" — generalized
// here to "no user input reaches an unvalidated bson field name").
type AllowedFilterFields map[string]struct{}

// NewAllowList builds an AllowedFilterFields set from a list of field names.
func NewAllowList(fields ...string) AllowedFilterFields {
	m := make(AllowedFilterFields, len(fields))
	for _, f := range fields {
		m[f] = struct{}{}
	}
	return m
}

func (a AllowedFilterFields) validate(filter bson.M) error {
	for k := range filter {
		if _, ok := a[k]; !ok {
			return fmt.Errorf("store: filter field %q is not allow-listed", k)
		}
	}
	return nil
}

// Repository is the generic CRUD + optimistic-lock boundary every domain
// package depends on instead of a concrete Mongo collection. Tests use the
// in-memory implementation in internal/storemem; production wires
// MongoRepository.
type Repository[T Versioned] interface {
	Get(ctx context.Context, id bson.ObjectID) (T, error)
	Find(ctx context.Context, filter bson.M) ([]T, error)
	Create(ctx context.Context, doc T) (T, error)
	// CompareAndSwap persists updated only if the document currently stored
	// under its id has version == expectedVersion; on success the stored
	// version is incremented by one. Returns ErrVersionConflict otherwise.
	CompareAndSwap(ctx context.Context, id bson.ObjectID, expectedVersion int64, updated T) error
	Delete(ctx context.Context, id bson.ObjectID) error
	Count(ctx context.Context, filter bson.M) (int, error)
}

// Transactor wraps a unit of work in a single atomic transaction. A domain
// operation that touches more than one repository (e.g. combat updating
// both fleets) must run inside one Transactor.WithTransaction call so a
// partial failure rolls back every write (§5).
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// MongoRepository is the production Repository backed by a Mongo
// collection. Documents must bson-marshal with an "_id" and a "version"
// field (see Versioned).
type MongoRepository[T Versioned] struct {
	Collection *mongo.Collection
	Allowed    AllowedFilterFields
}

func (r *MongoRepository[T]) Get(ctx context.Context, id bson.ObjectID) (T, error) {
	var doc T
	err := r.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return doc, ErrNotFound
	}
	return doc, err
}

func (r *MongoRepository[T]) Find(ctx context.Context, filter bson.M) ([]T, error) {
	if err := r.Allowed.validate(filter); err != nil {
		return nil, err
	}
	cur, err := r.Collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var docs []T
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func (r *MongoRepository[T]) Create(ctx context.Context, doc T) (T, error) {
	doc.SetVersion(1)
	_, err := r.Collection.InsertOne(ctx, doc)
	return doc, err
}

func (r *MongoRepository[T]) CompareAndSwap(ctx context.Context, id bson.ObjectID, expectedVersion int64, updated T) error {
	updated.SetVersion(expectedVersion + 1)
	filter := bson.M{"_id": id, "version": expectedVersion}
	res, err := r.Collection.ReplaceOne(ctx, filter, updated, options.Replace())
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		// Disambiguate "doesn't exist" from "version moved on" with one
		// extra read; a missing document is far rarer than a concurrent
		// writer so this costs nothing on the hot path.
		if _, err := r.Get(ctx, id); errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return ErrVersionConflict
	}
	return nil
}

func (r *MongoRepository[T]) Delete(ctx context.Context, id bson.ObjectID) error {
	res, err := r.Collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoRepository[T]) Count(ctx context.Context, filter bson.M) (int, error) {
	if err := r.Allowed.validate(filter); err != nil {
		return 0, err
	}
	n, err := r.Collection.CountDocuments(ctx, filter)
	return int(n), err
}

// MongoTransactor runs a unit of work inside a Mongo client-session
// transaction, per §4.A/§5.
type MongoTransactor struct {
	Client *mongo.Client
}

func (t *MongoTransactor) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	sess, err := t.Client.StartSession()
	if err != nil {
		return err
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sessCtx context.Context) (any, error) {
		return nil, fn(sessCtx)
	})
	return err
}
