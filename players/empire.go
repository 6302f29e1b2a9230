package players

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Resource identifies one of the four tracked empire resources (§3).
type Resource string

const (
	Metal    Resource = "metal"
	Energy   Resource = "energy"
	Food     Resource = "food"
	Research Resource = "research"
)

// AllResources lists every tracked resource, in the canonical iteration
// order used wherever per-resource processing must be deterministic.
var AllResources = []Resource{Metal, Energy, Food, Research}

// TechCategory keys an empire's technology level map. Bonus functions per
// category are a named hook (§3) left to a layer above this engine.
type TechCategory string

// Empire is the root per-player game entity (§3). It owns its Planets and
// Fleets exclusively; ownership is enforced by foreign key (PlayerID /
// EmpireID), not by embedding, so the persistent store's row-level locking
// model (§4.A) can lock exactly the rows a transaction touches.
type Empire struct {
	ID       bson.ObjectID `bson:"_id,omitempty"`
	PlayerID bson.ObjectID `bson:"playerId"` // unique: one empire per player
	Name     string        `bson:"name"`

	// Resources holds the current stockpile for each tracked resource.
	// Invariant (§3): each value is in [0, storage cap] — see economy.StorageCap.
	Resources map[Resource]int64 `bson:"resources"`

	// Technology maps category -> integer level. Bonus functions are a
	// design-level hook left unimplemented here, per §3.
	Technology map[TechCategory]int `bson:"technology,omitempty"`

	// ColonizedPlanets and ActiveFleets are denormalized id lists for fast
	// membership checks (e.g. MAX_COLONIES_PER_EMPIRE in §4.E); the
	// Planet/Fleet documents' EmpireID field remains the source of truth.
	ColonizedPlanets []bson.ObjectID `bson:"colonizedPlanets"`
	ActiveFleets     []bson.ObjectID `bson:"activeFleets"`

	LastResourceUpdate time.Time `bson:"lastResourceUpdate,omitempty"`

	Version   int64     `bson:"version"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// NewEmpire builds a freshly-created empire with zeroed resources, used when
// a player first plays (§3 lifecycle).
func NewEmpire(playerID bson.ObjectID, name string, now time.Time) *Empire {
	resources := make(map[Resource]int64, len(AllResources))
	for _, r := range AllResources {
		resources[r] = 0
	}
	return &Empire{
		PlayerID:  playerID,
		Name:      name,
		Resources: resources,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ColonyCount returns the number of colonized planets, used by the
// Game-Balance Engine's scaled-cost multiplier (§4.F) and the
// MAX_COLONIES_PER_EMPIRE cap (§4.E).
func (e *Empire) ColonyCount() int {
	return len(e.ColonizedPlanets)
}

// GetVersion and SetVersion satisfy store.Versioned.
func (e *Empire) GetVersion() int64  { return e.Version }
func (e *Empire) SetVersion(v int64) { e.Version = v }
