package economy

import (
	"testing"

	"github.com/stellarforge/empirecore/buildings"
	"github.com/stellarforge/empirecore/players"
	"github.com/stellarforge/empirecore/ships"
	"github.com/stellarforge/empirecore/territory"
)

func TestCompute_AppliesBuildingMultiplier(t *testing.T) {
	p := &territory.Planet{
		Type:   territory.Mining,
		Status: territory.PlanetActive,
		Buildings: map[buildings.BuildingType]int{
			buildings.MiningFacility: 2,
		},
	}
	snap := Compute([]*territory.Planet{p}, nil)
	if snap.Production[players.Metal] <= int64(buildings.BasePlanetProduction["mining"].Metal) {
		t.Fatalf("expected mining facility to raise metal production, got %d", snap.Production[players.Metal])
	}
}

func TestCompute_SkipsInactivePlanets(t *testing.T) {
	p := &territory.Planet{Type: territory.Mining, Status: territory.PlanetColonizing}
	snap := Compute([]*territory.Planet{p}, nil)
	for _, r := range players.AllResources {
		if snap.Production[r] != 0 {
			t.Fatalf("expected no production from a non-active planet, got %v", snap.Production)
		}
	}
}

func TestCompute_FleetMaintenanceCounted(t *testing.T) {
	f := &ships.Fleet{Status: ships.FleetActive, Composition: map[ships.ShipType]int{ships.Destroyer: 2}}
	snap := Compute(nil, []*ships.Fleet{f})
	bp := ships.Blueprints[ships.Destroyer]
	if snap.Consumption[players.Energy] != int64(bp.Maintenance.Energy*2) {
		t.Fatalf("expected fleet maintenance to be doubled for 2 ships, got %d", snap.Consumption[players.Energy])
	}
}

func TestApply_OverflowConvertsToResearch(t *testing.T) {
	production := int64(100) // storage cap = max(1000, 10*100) = 1000
	current := Vector{players.Metal: 900, players.Energy: 0, players.Food: 0, players.Research: 0}
	snap := Snapshot{
		Production:  Vector{players.Metal: production, players.Energy: 0, players.Food: 0, players.Research: 0},
		Consumption: newVector(),
		Net:         Vector{players.Metal: 500, players.Energy: 0, players.Food: 0, players.Research: 0},
	}
	next := Apply(current, snap)
	if next[players.Metal] != 1000 {
		t.Fatalf("expected metal clamped to storage cap 1000, got %d", next[players.Metal])
	}
	// overflow = (900+500) - 1000 = 400; 400*0.10 = 40 research.
	if next[players.Research] != 40 {
		t.Fatalf("expected overflow conversion of 40 research, got %d", next[players.Research])
	}
}

func TestApply_NeverGoesNegative(t *testing.T) {
	current := Vector{players.Metal: 10, players.Energy: 0, players.Food: 0, players.Research: 0}
	snap := Snapshot{
		Production:  newVector(),
		Consumption: newVector(),
		Net:         Vector{players.Metal: -500, players.Energy: 0, players.Food: 0, players.Research: 0},
	}
	next := Apply(current, snap)
	if next[players.Metal] != 0 {
		t.Fatalf("expected metal floored at 0, got %d", next[players.Metal])
	}
}

func TestStorageCap_FloorsAtOneThousand(t *testing.T) {
	if StorageCap(10) != 1000 {
		t.Fatalf("expected storage cap floor of 1000, got %d", StorageCap(10))
	}
	if StorageCap(200) != 2000 {
		t.Fatalf("expected storage cap of 2000 for production 200, got %d", StorageCap(200))
	}
}
