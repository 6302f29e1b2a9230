// Package bootstrap wires the concrete Mongo-backed repositories every
// package in this module programs against via internal/store.Repository,
// and registers the index migrations the CLI's init command applies (no
// seed-data migrations are registered).
// Grounded on EverforgeWorks-Galaxies-Server's main.go initialization order
// (load config -> connect -> seed -> start), adapted from its in-memory
// globals into explicit repositories passed to callers.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/stellarforge/empirecore/diplomacy"
	"github.com/stellarforge/empirecore/internal/config"
	"github.com/stellarforge/empirecore/internal/store"
	"github.com/stellarforge/empirecore/ledger"
	"github.com/stellarforge/empirecore/players"
	"github.com/stellarforge/empirecore/ships"
	"github.com/stellarforge/empirecore/territory"
	"github.com/stellarforge/empirecore/turn"
)

// App bundles every repository the gateway and the turn pipeline need for
// one process's lifetime.
type App struct {
	Client *mongo.Client
	DB     *mongo.Database

	Turn       store.Repository[*turn.State]
	Ledgers    store.Repository[*ledger.Ledger]
	Empires    store.Repository[*players.Empire]
	Planets    store.Repository[*territory.Planet]
	Fleets     store.Repository[*ships.Fleet]
	Relations  store.Repository[*diplomacy.Relation]
	Proposals  store.Repository[*diplomacy.Proposal]
	TradeRoutes store.Repository[*diplomacy.TradeRoute]

	Transactor store.Transactor
}

// Connect dials Mongo per cfg.DatabaseDSN and builds every repository. It
// does not run or check migrations; the CLI's init command calls Migrate
// explicitly, and its status command reports Pending.
func Connect(ctx context.Context, cfg config.Config) (*App, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(cfg.DatabaseDSN))
	if err != nil {
		return nil, fmt.Errorf("bootstrap: connecting to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("bootstrap: pinging mongo: %w", err)
	}
	db := client.Database("empirecore")

	return &App{
		Client: client,
		DB:     db,

		Turn:      &store.MongoRepository[*turn.State]{Collection: db.Collection("turn_state")},
		Ledgers:   &store.MongoRepository[*ledger.Ledger]{Collection: db.Collection("ledgers"), Allowed: store.NewAllowList("playerId", "turn")},
		Empires:   &store.MongoRepository[*players.Empire]{Collection: db.Collection("empires"), Allowed: store.NewAllowList("playerId")},
		Planets:   &store.MongoRepository[*territory.Planet]{Collection: db.Collection("planets"), Allowed: store.NewAllowList("sector", "empireId", "status")},
		Fleets:    &store.MongoRepository[*ships.Fleet]{Collection: db.Collection("fleets"), Allowed: store.NewAllowList("empireId", "planetId", "status", "location")},
		Relations: &store.MongoRepository[*diplomacy.Relation]{Collection: db.Collection("relations"), Allowed: store.NewAllowList("empireA", "empireB")},
		Proposals: &store.MongoRepository[*diplomacy.Proposal]{Collection: db.Collection("proposals"), Allowed: store.NewAllowList("initiatorEmpire", "targetEmpire", "status")},
		TradeRoutes: &store.MongoRepository[*diplomacy.TradeRoute]{Collection: db.Collection("trade_routes"), Allowed: store.NewAllowList("relationId", "active")},

		Transactor: &store.MongoTransactor{Client: client},
	}, nil
}

// Close disconnects the underlying client. Callers defer this after Connect.
func (a *App) Close(ctx context.Context) error {
	return a.Client.Disconnect(ctx)
}

// Migrations lists every registered migration, in the order Migrate
// applies them. Opening the store does not check that they have been
// applied.
func Migrations() []store.Migration {
	return []store.Migration{
		{Name: "001_index_planets_sector_empire", Up: func(ctx context.Context, db *mongo.Database) error {
			_, err := db.Collection("planets").Indexes().CreateMany(ctx, []mongo.IndexModel{
				{Keys: bson.D{{Key: "sector", Value: 1}}},
				{Keys: bson.D{{Key: "empireId", Value: 1}}},
			})
			return err
		}},
		{Name: "002_index_relations_pair_unique", Up: func(ctx context.Context, db *mongo.Database) error {
			_, err := db.Collection("relations").Indexes().CreateOne(ctx, mongo.IndexModel{
				Keys:    bson.D{{Key: "empireA", Value: 1}, {Key: "empireB", Value: 1}},
				Options: options.Index().SetUnique(true),
			})
			return err
		}},
		{Name: "003_index_ledgers_player_turn_unique", Up: func(ctx context.Context, db *mongo.Database) error {
			_, err := db.Collection("ledgers").Indexes().CreateOne(ctx, mongo.IndexModel{
				Keys:    bson.D{{Key: "playerId", Value: 1}, {Key: "turn", Value: 1}},
				Options: options.Index().SetUnique(true),
			})
			return err
		}},
		{Name: "004_index_proposals_status", Up: func(ctx context.Context, db *mongo.Database) error {
			_, err := db.Collection("proposals").Indexes().CreateOne(ctx, mongo.IndexModel{
				Keys: bson.D{{Key: "status", Value: 1}},
			})
			return err
		}},
	}
}

// Migrate applies every pending registered migration, per §4.A.
func Migrate(ctx context.Context, db *mongo.Database) error {
	return store.EnsureApplied(ctx, db, Migrations())
}

// Pending reports which registered migrations have not yet been applied,
// for the CLI's status command.
func Pending(ctx context.Context, db *mongo.Database) ([]string, error) {
	return store.Pending(ctx, db, Migrations())
}

// InitializeTurnOne creates the turn-1 singleton row if none exists yet.
// Returns turn.ErrAlreadyInitialized if a row is already present, matching
// the §4.H contract (callers treat this as non-fatal for `init` re-runs).
func InitializeTurnOne(ctx context.Context, turns store.Repository[*turn.State], now time.Time, duration time.Duration) (*turn.State, error) {
	existing, err := turns.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return existing[0], turn.ErrAlreadyInitialized
	}
	s := turn.Initialize(now, duration)
	s.Digest = turn.Digest(s.TurnNumber, s.StartTime)
	return turns.Create(ctx, s)
}
