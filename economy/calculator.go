// Package economy implements the Resource Calculator (§4.B): a pure
// function over an empire's planets and fleets that produces a per-resource
// production/consumption/net snapshot, plus the overflow-safe apply step
// that turns that snapshot into a new resource vector.
//
// Grounded on buildings/data.go's per-planet-type, per-building-type
// multiplier tables, generalized from a 4-planet/4-building shape onto
// this module's seven planet types and eight building types.
package economy

import (
	"math"

	"github.com/stellarforge/empirecore/buildings"
	"github.com/stellarforge/empirecore/players"
	"github.com/stellarforge/empirecore/ships"
	"github.com/stellarforge/empirecore/territory"
)

// Vector is a per-resource amount, keyed the same way as players.Empire's
// Resources map.
type Vector map[players.Resource]int64

// Snapshot is the result of computing one empire's economy for a turn.
type Snapshot struct {
	Production  Vector
	Consumption Vector
	Net         Vector
	Sustainable bool // true iff every resource's Net >= 0
}

func newVector() Vector {
	v := make(Vector, len(players.AllResources))
	for _, r := range players.AllResources {
		v[r] = 0
	}
	return v
}

// Compute derives production, consumption, and net for one empire given its
// planets and fleets, applying no side effects (§4.B: "pure function").
func Compute(planets []*territory.Planet, fleets []*ships.Fleet) Snapshot {
	production := newVector()
	consumption := newVector()

	for _, p := range planets {
		if p.Status != territory.PlanetActive {
			continue
		}
		addPlanetProduction(production, p)
		addPlanetMaintenance(consumption, p)
	}

	for _, f := range fleets {
		if f.Status == ships.FleetDestroyed {
			continue
		}
		maint := f.MaintenanceCost()
		consumption[players.Metal] += int64(maint.Metal)
		consumption[players.Energy] += int64(maint.Energy)
		consumption[players.Food] += int64(maint.Food)
		consumption[players.Research] += int64(maint.Research)
	}

	net := newVector()
	sustainable := true
	for _, r := range players.AllResources {
		n := production[r] - consumption[r]
		net[r] = n
		if n < 0 {
			sustainable = false
		}
	}

	return Snapshot{Production: production, Consumption: consumption, Net: net, Sustainable: sustainable}
}

// addPlanetProduction adds one planet's final production (base floor(base *
// building multiplier)) into total.
func addPlanetProduction(total Vector, p *territory.Planet) {
	base, ok := buildings.BasePlanetProduction[string(p.Type)]
	if !ok {
		return
	}
	perResource := map[players.Resource]int64{
		players.Metal:    int64(base.Metal),
		players.Energy:   int64(base.Energy),
		players.Food:     int64(base.Food),
		players.Research: int64(base.Research),
	}

	// Buildings multiply the resource(s) they target by Multiplier^count.
	multiplierByResource := map[players.Resource]float64{
		players.Metal: 1, players.Energy: 1, players.Food: 1, players.Research: 1,
	}
	for bType, count := range p.Buildings {
		effect, ok := buildings.Effects[bType]
		if !ok || effect.Resource == "" || count <= 0 {
			continue
		}
		res := players.Resource(effect.Resource)
		multiplierByResource[res] *= math.Pow(effect.Multiplier, float64(count))
	}

	for _, r := range players.AllResources {
		total[r] += int64(math.Floor(float64(perResource[r]) * multiplierByResource[r]))
	}
}

// addPlanetMaintenance adds one planet's building maintenance into total.
func addPlanetMaintenance(total Vector, p *territory.Planet) {
	for bType, count := range p.Buildings {
		effect, ok := buildings.Effects[bType]
		if !ok || count <= 0 {
			continue
		}
		m := effect.MaintenancePerCount
		total[players.Metal] += int64(m.Metal) * int64(count)
		total[players.Energy] += int64(m.Energy) * int64(count)
		total[players.Food] += int64(m.Food) * int64(count)
		total[players.Research] += int64(m.Research) * int64(count)
	}
}

// StorageCap returns the per-resource storage cap (§4.B):
// max(1000, 10 * production).
func StorageCap(production int64) int64 {
	cap := 10 * production
	if cap < 1000 {
		return 1000
	}
	return cap
}

// OverflowConversionRate is the fraction of above-cap resource converted
// into research on Apply (§4.B). Research itself never overflows to itself.
const OverflowConversionRate = 0.10

// Apply clamps current+net into [0, cap] for every resource, converting
// overflow above cap into research at OverflowConversionRate. It returns the
// new resource vector; callers persist it plus a last_resource_update
// timestamp inside one transaction (§4.B contract of processTurn).
func Apply(current Vector, snap Snapshot) Vector {
	next := make(Vector, len(players.AllResources))
	var researchOverflow int64

	for _, r := range players.AllResources {
		cap := StorageCap(snap.Production[r])
		raw := current[r] + snap.Net[r]
		if raw < 0 {
			raw = 0
		}
		if raw > cap {
			overflow := raw - cap
			raw = cap
			if r != players.Research {
				researchOverflow += int64(math.Floor(float64(overflow) * OverflowConversionRate))
			}
		}
		next[r] = raw
	}

	if researchOverflow > 0 {
		researchCap := StorageCap(snap.Production[players.Research])
		next[players.Research] = min64(next[players.Research]+researchOverflow, researchCap)
	}
	return next
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
