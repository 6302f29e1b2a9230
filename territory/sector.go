package territory

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/stellarforge/empirecore/buildings"
	"github.com/stellarforge/empirecore/internal/store"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// ExplorationType is the mission profile for exploreSector (§4.E); each
// draws a different planet count range and costs a different amount.
type ExplorationType string

const (
	Scout    ExplorationType = "scout"
	Survey   ExplorationType = "survey"
	DeepScan ExplorationType = "deep_scan"
)

// planetCountRange gives the [min,max] planet count drawn per exploration
// type (§4.E): scout [1,3], survey [2,5], deep_scan [3,7].
var planetCountRange = map[ExplorationType][2]int{
	Scout:    {1, 3},
	Survey:   {2, 5},
	DeepScan: {3, 7},
}

// explorationCost is the per-type cost of launching an exploration mission.
// Ungrounded in the distilled spec text itself (it names only "per-type
// metal/energy/food" without amounts); sized here as a fraction of the
// cheapest colonization cost so scout < survey < deep_scan.
var explorationCost = map[ExplorationType]buildings.Cost{
	Scout:    {Metal: 20, Energy: 10, Food: 5},
	Survey:   {Metal: 50, Energy: 30, Food: 10},
	DeepScan: {Metal: 100, Energy: 75, Food: 25},
}

// ExplorationCost returns the resource price of launching t.
func ExplorationCost(t ExplorationType) buildings.Cost {
	return explorationCost[t]
}

// planetTypeWeights is the weighted distribution exploration draws
// planet_type from. Not enumerated verbatim in the distilled spec (it
// refers to "the weighted distribution in §6" without giving the table);
// filled in here favoring the generalist/economic types over the
// military-leaning fortress type, per the Open-Question resolution
// recorded for this component.
var planetTypeWeights = []struct {
	t Type
	w int
}{
	{Mining, 20},
	{EnergyType, 20},
	{Agricultural, 18},
	{Research, 12},
	{Industrial, 15},
	{Balanced, 10},
	{Fortress, 5},
}

func drawPlanetType(rng *rand.Rand) Type {
	total := 0
	for _, e := range planetTypeWeights {
		total += e.w
	}
	roll := rng.Intn(total)
	for _, e := range planetTypeWeights {
		if roll < e.w {
			return e.t
		}
		roll -= e.w
	}
	return Balanced
}

var planetNameAdjectives = []string{
	"Crimson", "Azure", "Silent", "Forgotten", "Distant", "Shattered",
	"Frozen", "Burning", "Hollow", "Verdant", "Drifting", "Sunken",
}

var planetNameNouns = []string{
	"Haven", "Reach", "Expanse", "Hold", "Spire", "Anchorage",
	"Verge", "Cradle", "Bastion", "Threshold", "Vale", "Nexus",
}

func generateName(rng *rand.Rand, sector string, index int) string {
	adj := planetNameAdjectives[rng.Intn(len(planetNameAdjectives))]
	noun := planetNameNouns[rng.Intn(len(planetNameNouns))]
	return fmt.Sprintf("%s %s (%s-%d)", adj, noun, sector, index+1)
}

// SectorAllowedFields is the Find filter allow-list for the planets
// collection (§4.A).
var SectorAllowedFields = store.NewAllowList("sector", "empireId", "status", "type")

// Result is the outcome of ExploreSectorTx: the full set of planets now on
// record for the sector, and whether this call is the one that charged and
// generated them (false on the idempotent replay path).
type Result struct {
	Planets   []*Planet
	Generated bool
}

// ExploreSectorTx runs the full exploreSector operation. debit is called
// only when the sector is being generated for the first time; it should
// deduct ExplorationCost(explorationType) from the acting empire's
// resources within the same transaction, returning an error (e.g.
// InsufficientResources) to abort before any planet is created.
func ExploreSectorTx(
	ctx context.Context,
	planets store.Repository[*Planet],
	sector string,
	explorationType ExplorationType,
	rng *rand.Rand,
	nowUnixNano int64,
	debit func(ctx context.Context) error,
) (Result, error) {
	existing, err := planets.Find(ctx, bson.M{"sector": sector})
	if err != nil {
		return Result{}, err
	}
	if len(existing) > 0 {
		return Result{Planets: existing, Generated: false}, nil
	}

	if debit != nil {
		if err := debit(ctx); err != nil {
			return Result{}, err
		}
	}

	bounds := planetCountRange[explorationType]
	n := bounds[0] + rng.Intn(bounds[1]-bounds[0]+1)
	now := time.Unix(0, nowUnixNano)

	generated := make([]*Planet, 0, n)
	for i := 0; i < n; i++ {
		p := &Planet{
			Sector:    sector,
			Name:      generateName(rng, sector, i),
			Type:      drawPlanetType(rng),
			Status:    PlanetAvailable,
			Buildings: map[buildings.BuildingType]int{},
			CreatedAt: now,
			UpdatedAt: now,
		}
		created, err := planets.Create(ctx, p)
		if err != nil {
			return Result{}, err
		}
		generated = append(generated, created)
	}
	return Result{Planets: generated, Generated: true}, nil
}
