// Package territory implements Territory Expansion (§4.E): sector
// exploration (procedural planet generation), the colonization lifecycle,
// and the turn-pipeline completion sweep.
//
// Grounded on the source repository's system+planet pair (population,
// colonization timestamps, Version optimistic lock, sector-keyed layout),
// generalized onto this module's single flat Planet entity.
package territory

import (
	"time"

	"github.com/stellarforge/empirecore/buildings"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Type is one of the seven planet archetypes (§3), each with its own base
// production table (buildings.BasePlanetProduction).
type Type string

const (
	Mining       Type = "mining"
	EnergyType   Type = "energy"
	Agricultural Type = "agricultural"
	Research     Type = "research"
	Industrial   Type = "industrial"
	Fortress     Type = "fortress"
	Balanced     Type = "balanced"
)

// AllTypes lists every planet archetype, used by exploration's weighted
// draw and for validating input.
var AllTypes = []Type{Mining, EnergyType, Agricultural, Research, Industrial, Fortress, Balanced}

// Status tracks a planet through its colonization lifecycle (§3).
type Status string

const (
	PlanetAvailable  Status = "available"
	PlanetColonizing Status = "colonizing"
	PlanetActive     Status = "active"
)

// MaxColoniesPerEmpire bounds how many planets one empire may hold
// simultaneously (§4.E).
const MaxColoniesPerEmpire = 20

// ColonizationDuration is the fixed time a colonization mission takes to
// complete (§4.E).
const ColonizationDuration = 24 * time.Hour

// PopulationOnStart and PopulationOnComplete are the population levels set
// when colonization begins and when it completes (§4.E).
const (
	PopulationOnStart    = 1000
	PopulationOnComplete = 2000
)

// Planet is a colonizable body within a sector (§3).
type Planet struct {
	ID     bson.ObjectID  `bson:"_id,omitempty"`
	Sector string         `bson:"sector"` // "x,y"
	Name   string         `bson:"name"`
	Type   Type           `bson:"type"`

	EmpireID *bson.ObjectID `bson:"empireId,omitempty"`
	Status   Status         `bson:"status"`

	Buildings  map[buildings.BuildingType]int `bson:"buildings"`
	Population int64                          `bson:"population"`

	ColonizationStarted   time.Time `bson:"colonizationStarted,omitempty"`
	ColonizationCompleted time.Time `bson:"colonizationCompleted,omitempty"`

	Version   int64     `bson:"version"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// GetVersion and SetVersion satisfy store.Versioned.
func (p *Planet) GetVersion() int64  { return p.Version }
func (p *Planet) SetVersion(v int64) { p.Version = v }

// IsAvailable reports whether p can be targeted by colonizePlanet.
func (p *Planet) IsAvailable() bool {
	return p.Status == PlanetAvailable && p.EmpireID == nil
}

// BuildingCount returns how many of bType are built on p.
func (p *Planet) BuildingCount(bType buildings.BuildingType) int {
	if p.Buildings == nil {
		return 0
	}
	return p.Buildings[bType]
}

// StartColonization transitions p into the colonizing state (§4.E): the
// planet is claimed, population seeds at PopulationOnStart, and the
// completion deadline is now+24h. Callers persist the mutation via
// CompareAndSwap inside the same transaction that debits the empire and
// moves the colonizing fleet.
func (p *Planet) StartColonization(empireID bson.ObjectID, now time.Time) {
	p.EmpireID = &empireID
	p.Status = PlanetColonizing
	p.Population = PopulationOnStart
	p.ColonizationStarted = now
	p.ColonizationCompleted = now.Add(ColonizationDuration)
}

// CompleteColonization flips a colonizing planet to active, per the
// completion sweep (§4.E). Callers must first check IsDue.
func (p *Planet) CompleteColonization() {
	p.Status = PlanetActive
	p.Population = PopulationOnComplete
}

// IsDue reports whether p is colonizing and its completion deadline has
// passed as of now.
func (p *Planet) IsDue(now time.Time) bool {
	return p.Status == PlanetColonizing && !p.ColonizationCompleted.After(now)
}

// Abandon resets p to unowned/available, per the abandon-colony operation
// (§4.E); the 50% material refund is computed by the caller from the
// colonization cost table and credited to the empire in the same
// transaction.
func (p *Planet) Abandon() {
	p.EmpireID = nil
	p.Status = PlanetAvailable
	p.Population = 0
	p.Buildings = map[buildings.BuildingType]int{}
	p.ColonizationStarted = time.Time{}
	p.ColonizationCompleted = time.Time{}
}

// ColonizationCost returns the per-planet-type colonization price (§4.E).
// Derived from the per-turn base production table (20x for metal and
// energy, 10x for food and research) — a colony is a capital expenditure,
// not a recurring cost.
func ColonizationCost(t Type) buildings.Cost {
	base, ok := buildings.BasePlanetProduction[string(t)]
	if !ok {
		return buildings.Cost{}
	}
	return buildings.Cost{
		Metal:    base.Metal * 20,
		Energy:   base.Energy * 20,
		Food:     base.Food * 10,
		Research: base.Research * 10,
	}
}

// RefundOnAbandon is the 50% material refund owed when a colony is
// abandoned (§4.E).
func RefundOnAbandon(t Type) buildings.Cost {
	c := ColonizationCost(t)
	return buildings.Cost{
		Metal:    c.Metal / 2,
		Energy:   c.Energy / 2,
		Food:     c.Food / 2,
		Research: c.Research / 2,
	}
}
