package ships

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// FleetStatus tracks what a fleet is currently doing (§3).
type FleetStatus string

const (
	FleetActive     FleetStatus = "active"
	FleetMoving     FleetStatus = "moving"
	FleetInCombat   FleetStatus = "in_combat"
	FleetColonizing FleetStatus = "colonizing"
	FleetExploring  FleetStatus = "exploring"
	FleetDestroyed  FleetStatus = "destroyed"
)

// Fleet is a set of ships at a single location, owned by one empire.
// Composition sums to zero if and only if Status is FleetDestroyed (§3
// invariant); callers mutating Composition must call Normalize afterward to
// keep that invariant from drifting on intermediate states.
type Fleet struct {
	ID       bson.ObjectID `bson:"_id,omitempty"`
	EmpireID bson.ObjectID `bson:"empireId"`
	Name     string        `bson:"name"`

	// Location is the sector id ("x,y"). PlanetID is set when the fleet is
	// docked at/colonizing a specific planet within that sector.
	Location string         `bson:"location"`
	PlanetID *bson.ObjectID `bson:"planetId,omitempty"`

	Composition map[ShipType]int `bson:"composition"`
	Status      FleetStatus      `bson:"status"`

	Experience int `bson:"experience"`
	Morale     int `bson:"morale"`

	LastCombat   time.Time `bson:"lastCombat,omitempty"`
	ActionUntil  time.Time `bson:"actionUntil,omitempty"` // ETA for movement/colonization
	Version      int64     `bson:"version"`
	CreatedAt    time.Time `bson:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt"`
}

// TotalShips returns the sum of all ship counts in the composition.
func (f *Fleet) TotalShips() int {
	total := 0
	for _, n := range f.Composition {
		total += n
	}
	return total
}

// Normalize drops zero/negative entries and flips Status to FleetDestroyed
// when the composition is empty, enforcing the §3 invariant
// `Σ composition = 0 ⇔ status = destroyed`.
func (f *Fleet) Normalize() {
	for t, n := range f.Composition {
		if n <= 0 {
			delete(f.Composition, t)
		}
	}
	if f.TotalShips() == 0 {
		f.Status = FleetDestroyed
	} else if f.Status == FleetDestroyed {
		f.Status = FleetActive
	}
}

// MaintenanceCost sums the per-turn maintenance owed by every ship in the
// fleet, for the Resource Calculator's consumption total (§4.B).
func (f *Fleet) MaintenanceCost() ResourceCost {
	var total ResourceCost
	for t, n := range f.Composition {
		bp, ok := Blueprints[t]
		if !ok || n <= 0 {
			continue
		}
		total = total.Add(bp.Maintenance.Scale(n))
	}
	return total
}

// HasMinimumColonizers reports whether the fleet contains at least 2 scouts
// or 1 corvette, the §4.E colonization-ship minimum.
func (f *Fleet) HasMinimumColonizers() bool {
	if f.Composition[Corvette] >= 1 {
		return true
	}
	return f.Composition[Scout] >= 2
}

// GetVersion and SetVersion satisfy store.Versioned.
func (f *Fleet) GetVersion() int64  { return f.Version }
func (f *Fleet) SetVersion(v int64) { f.Version = v }
