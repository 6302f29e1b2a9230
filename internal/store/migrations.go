// Migrations: the store records applied migrations in a "migrations"
// collection. EnsureApplied runs the pending ones and Pending reports them;
// opening a repository does not check for pending migrations and does not
// refuse to open when some remain.
package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// Migration is one named, idempotent setup step (typically an index
// creation or a one-time seed). Name must be stable across releases; it is
// the key recorded in the migrations collection.
type Migration struct {
	Name string
	Up   func(ctx context.Context, db *mongo.Database) error
}

type migrationRecord struct {
	Name string `bson:"_id"`
}

// EnsureApplied runs every migration in order not already recorded as
// applied, recording each as it succeeds. It stops and returns an error on
// the first failure, leaving later migrations unapplied — the caller (the
// CLI's init command) treats this as the fatal "refuses to start" case.
func EnsureApplied(ctx context.Context, db *mongo.Database, migrations []Migration) error {
	coll := db.Collection("migrations")
	for _, m := range migrations {
		var rec migrationRecord
		err := coll.FindOne(ctx, bson.M{"_id": m.Name}).Decode(&rec)
		if err == nil {
			continue // already applied
		}
		if err != mongo.ErrNoDocuments {
			return fmt.Errorf("store: checking migration %q: %w", m.Name, err)
		}
		if err := m.Up(ctx, db); err != nil {
			return fmt.Errorf("store: migration %q failed: %w", m.Name, err)
		}
		if _, err := coll.InsertOne(ctx, migrationRecord{Name: m.Name}); err != nil {
			return fmt.Errorf("store: recording migration %q: %w", m.Name, err)
		}
	}
	return nil
}

// Pending reports the names of registered migrations not yet recorded as
// applied, for the "status" CLI command and startup diagnostics.
func Pending(ctx context.Context, db *mongo.Database, migrations []Migration) ([]string, error) {
	coll := db.Collection("migrations")
	var pending []string
	for _, m := range migrations {
		var rec migrationRecord
		err := coll.FindOne(ctx, bson.M{"_id": m.Name}).Decode(&rec)
		if err == mongo.ErrNoDocuments {
			pending = append(pending, m.Name)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("store: checking migration %q: %w", m.Name, err)
		}
	}
	return pending, nil
}
