// Package storemem implements store.Repository and store.Transactor with an
// in-memory map, for unit tests that don't need a live Mongo instance — the
// in-memory double called for by Design Notes §9 ("Store trait ... each
// implementable for tests with in-memory doubles").
package storemem

import (
	"context"
	"sync"

	"github.com/stellarforge/empirecore/internal/store"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Repository is a thread-safe in-memory implementation of store.Repository.
// Find applies filter as an exact-match predicate over bson-tagged fields,
// which is enough for the equality filters every domain package issues.
type Repository[T store.Versioned] struct {
	mu      sync.Mutex
	docs    map[bson.ObjectID]T
	fields  func(T) bson.M // extracts filterable fields for Find/Count
	nextSeq int
}

// New builds an empty in-memory repository. fields extracts a bson.M view
// of a document's filterable fields (typically the same shape the document
// already bson-marshals to); pass nil to disable Find/Count filtering
// (every call then returns/counts everything).
func New[T store.Versioned](fields func(T) bson.M) *Repository[T] {
	return &Repository[T]{docs: make(map[bson.ObjectID]T), fields: fields}
}

func matches(doc bson.M, filter bson.M) bool {
	for k, v := range filter {
		if doc[k] != v {
			return false
		}
	}
	return true
}

func (r *Repository[T]) Get(_ context.Context, id bson.ObjectID) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[id]
	if !ok {
		var zero T
		return zero, store.ErrNotFound
	}
	return doc, nil
}

func (r *Repository[T]) Find(_ context.Context, filter bson.M) ([]T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []T
	for _, doc := range r.docs {
		if r.fields == nil || matches(r.fields(doc), filter) {
			out = append(out, doc)
		}
	}
	return out, nil
}

func (r *Repository[T]) Create(_ context.Context, doc T) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc.SetVersion(1)
	r.nextSeq++
	id := bson.NewObjectID()
	r.docs[id] = doc
	return doc, nil
}

func (r *Repository[T]) CompareAndSwap(_ context.Context, id bson.ObjectID, expectedVersion int64, updated T) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.docs[id]
	if !ok {
		return store.ErrNotFound
	}
	if current.GetVersion() != expectedVersion {
		return store.ErrVersionConflict
	}
	updated.SetVersion(expectedVersion + 1)
	r.docs[id] = updated
	return nil
}

func (r *Repository[T]) Delete(_ context.Context, id bson.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.docs[id]; !ok {
		return store.ErrNotFound
	}
	delete(r.docs, id)
	return nil
}

func (r *Repository[T]) Count(ctx context.Context, filter bson.M) (int, error) {
	docs, err := r.Find(ctx, filter)
	return len(docs), err
}

// Put inserts doc under a specific id, for test setup that needs a known id
// ahead of time (Create always mints a fresh one).
func (r *Repository[T]) Put(id bson.ObjectID, doc T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if doc.GetVersion() == 0 {
		doc.SetVersion(1)
	}
	r.docs[id] = doc
}

// Transactor is a no-op in-memory Transactor: the in-memory repository is
// already guarded by a mutex per call, so there is nothing to roll back
// beyond what the caller itself does on error.
type Transactor struct{}

func (Transactor) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
