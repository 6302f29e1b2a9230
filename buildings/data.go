package buildings

// Effect describes how one count of a building type affects its empire's
// economy (§4.B): Multiplier compounds as Multiplier^count against the
// named resource, mirroring the source repository's per-level GrowthRate
// compounding idiom; MaintenancePerCount is charged every turn regardless
// of output; MaxCount is the Game-Balance Engine's per-type cap (§4.F).
type Effect struct {
	Resource            string
	Multiplier          float64
	MaintenancePerCount Cost
	MaxCount            int
}

// Cost mirrors ships.ResourceCost without importing the ships package, to
// keep buildings free of a dependency on combat-only types.
type Cost struct {
	Metal    int
	Energy   int
	Food     int
	Research int
}

// Effects maps each building type to its economic effect. Resource values
// use the lower-case names ("metal", "energy", "food", "research") shared
// with players.Resource.
var Effects = map[BuildingType]Effect{
	MiningFacility: {
		Resource:            "metal",
		Multiplier:          1.25,
		MaintenancePerCount: Cost{Energy: 2},
		MaxCount:            10,
	},
	PowerPlant: {
		Resource:            "energy",
		Multiplier:          1.20,
		MaintenancePerCount: Cost{Metal: 1},
		MaxCount:            10,
	},
	Farm: {
		Resource:            "food",
		Multiplier:          1.20,
		MaintenancePerCount: Cost{Energy: 1},
		MaxCount:            10,
	},
	ResearchLab: {
		Resource:            "research",
		Multiplier:          1.15,
		MaintenancePerCount: Cost{Energy: 3, Food: 1},
		MaxCount:            8,
	},
	Factory: {
		Resource:            "metal",
		Multiplier:          1.10,
		MaintenancePerCount: Cost{Energy: 4, Metal: 1},
		MaxCount:            6,
	},
	DefenseGrid: {
		Resource:            "",
		Multiplier:          1.0,
		MaintenancePerCount: Cost{Energy: 3},
		MaxCount:            5,
	},
	StorageDepot: {
		Resource:            "",
		Multiplier:          1.0,
		MaintenancePerCount: Cost{Metal: 1},
		MaxCount:            5,
	},
	ShipYard: {
		Resource:            "",
		Multiplier:          1.0,
		MaintenancePerCount: Cost{Energy: 5, Metal: 2},
		MaxCount:            3,
	},
}

// BasePlanetProduction gives the base 4-tuple production (metal, energy,
// food, research) per planet type, before any building multiplier is
// applied (§4.B). Generalized from the source repository's per-planet-type
// PlanetSuitability/BaseEnergyOutput tables onto this module's seven planet
// types.
var BasePlanetProduction = map[string]Cost{
	"mining":      {Metal: 40, Energy: 5, Food: 2, Research: 1},
	"energy":      {Metal: 5, Energy: 40, Food: 2, Research: 1},
	"agricultural": {Metal: 2, Energy: 5, Food: 40, Research: 1},
	"research":    {Metal: 2, Energy: 5, Food: 2, Research: 30},
	"industrial":  {Metal: 25, Energy: 25, Food: 2, Research: 5},
	"fortress":    {Metal: 10, Energy: 10, Food: 2, Research: 2},
	"balanced":    {Metal: 15, Energy: 15, Food: 15, Research: 5},
}
