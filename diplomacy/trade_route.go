package diplomacy

import (
	"time"

	"github.com/stellarforge/empirecore/players"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// TradeRoute is a specialization of Agreement carrying per-settlement
// resource flows and a maintenance cost (§3).
type TradeRoute struct {
	ID        bson.ObjectID `bson:"_id,omitempty"`
	RelationID bson.ObjectID `bson:"relationId"`
	Empire1   bson.ObjectID `bson:"empire1"`
	Empire2   bson.ObjectID `bson:"empire2"`

	Empire1Gives map[players.Resource]int64 `bson:"empire1Gives"`
	Empire2Gives map[players.Resource]int64 `bson:"empire2Gives"`
	Maintenance  map[players.Resource]int64 `bson:"maintenance"`

	Active    bool      `bson:"active"`
	ExpiresAt time.Time `bson:"expiresAt,omitempty"`

	Version   int64     `bson:"version"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// GetVersion and SetVersion satisfy store.Versioned.
func (t *TradeRoute) GetVersion() int64  { return t.Version }
func (t *TradeRoute) SetVersion(v int64) { t.Version = v }

// Breach records why a trade route's settlement was skipped for one turn
// (§4.D: "skip and log a breach — do not fail the whole turn").
type Breach struct {
	RouteID    bson.ObjectID
	FaultEmpire bson.ObjectID
	Reason     string
}

func canAfford(resources map[players.Resource]int64, owed map[players.Resource]int64) bool {
	for r, amount := range owed {
		if resources[r] < amount {
			return false
		}
	}
	return true
}

func debit(resources map[players.Resource]int64, owed map[players.Resource]int64) {
	for r, amount := range owed {
		resources[r] -= amount
	}
}

func credit(resources map[players.Resource]int64, owed map[players.Resource]int64) {
	for r, amount := range owed {
		resources[r] += amount
	}
}

// Settle implements one trade route's turn-boundary settlement (§4.D):
// verify both empires can afford their outbound flow plus maintenance,
// else skip (returning a non-nil Breach) without mutating anything. On
// success the exchange and maintenance are applied to both resource maps
// in place; callers persist both empires inside the same transaction.
func Settle(route *TradeRoute, empire1Resources, empire2Resources map[players.Resource]int64) *Breach {
	owed1 := addVectors(route.Empire1Gives, route.Maintenance)
	owed2 := addVectors(route.Empire2Gives, route.Maintenance)

	if !canAfford(empire1Resources, owed1) {
		return &Breach{RouteID: route.ID, FaultEmpire: route.Empire1, Reason: "empire1 cannot afford outbound flow plus maintenance"}
	}
	if !canAfford(empire2Resources, owed2) {
		return &Breach{RouteID: route.ID, FaultEmpire: route.Empire2, Reason: "empire2 cannot afford outbound flow plus maintenance"}
	}

	debit(empire1Resources, owed1)
	debit(empire2Resources, owed2)
	credit(empire1Resources, route.Empire2Gives)
	credit(empire2Resources, route.Empire1Gives)
	return nil
}

func addVectors(a, b map[players.Resource]int64) map[players.Resource]int64 {
	out := make(map[players.Resource]int64, len(a)+len(b))
	for r, v := range a {
		out[r] += v
	}
	for r, v := range b {
		out[r] += v
	}
	return out
}
