package ships

// Blueprints enumerates baseline ship TYPE definitions. These are data-only;
// runtime state (composition counts, status, morale) lives on Fleet.
//
// Notes
//   - Numbers are conservative baselines tuned for the combat resolver's
//     effectiveness matrix (see Effectiveness in combat).
//   - WeaponClass/ArmorClass drive damage effectiveness; Maintenance drives
//     the Resource Calculator's consumption total (§4.B).
var Blueprints = map[ShipType]Ship{
	Scout: {
		Type:        Scout,
		Attack:      8,
		Defense:     4,
		Health:      60,
		Speed:       9,
		Cost:        ResourceCost{Metal: 50, Energy: 20},
		WeaponClass: WeaponEnergy,
		ArmorClass:  ArmorLight,
		Maintenance: ResourceCost{Energy: 1, Food: 1},
	},
	Fighter: {
		Type:        Fighter,
		Attack:      18,
		Defense:     8,
		Health:      120,
		Speed:       7,
		Cost:        ResourceCost{Metal: 100, Energy: 40},
		WeaponClass: WeaponKinetic,
		ArmorClass:  ArmorLight,
		Maintenance: ResourceCost{Energy: 2, Food: 1},
	},
	Corvette: {
		Type:        Corvette,
		Attack:      30,
		Defense:     14,
		Health:      220,
		Speed:       6,
		Cost:        ResourceCost{Metal: 220, Energy: 90},
		WeaponClass: WeaponKinetic,
		ArmorClass:  ArmorMedium,
		Maintenance: ResourceCost{Energy: 3, Food: 2},
	},
	Destroyer: {
		Type:        Destroyer,
		Attack:      55,
		Defense:     25,
		Health:      420,
		Speed:       5,
		Cost:        ResourceCost{Metal: 420, Energy: 160, Research: 20},
		WeaponClass: WeaponEnergy,
		ArmorClass:  ArmorMedium,
		Maintenance: ResourceCost{Energy: 5, Food: 3},
	},
	Cruiser: {
		Type:        Cruiser,
		Attack:      95,
		Defense:     45,
		Health:      780,
		Speed:       4,
		Cost:        ResourceCost{Metal: 800, Energy: 320, Research: 60},
		WeaponClass: WeaponExplosive,
		ArmorClass:  ArmorHeavy,
		Maintenance: ResourceCost{Energy: 8, Food: 5},
	},
	Battleship: {
		Type:        Battleship,
		Attack:      160,
		Defense:     80,
		Health:      1400,
		Speed:       3,
		Cost:        ResourceCost{Metal: 1500, Energy: 600, Research: 150},
		WeaponClass: WeaponExplosive,
		ArmorClass:  ArmorHeavy,
		Maintenance: ResourceCost{Energy: 14, Food: 8},
	},
	Dreadnought: {
		Type:        Dreadnought,
		Attack:      260,
		Defense:     140,
		Health:      2600,
		Speed:       2,
		Cost:        ResourceCost{Metal: 3000, Energy: 1200, Research: 400},
		WeaponClass: WeaponEnergy,
		ArmorClass:  ArmorSuperHeavy,
		Maintenance: ResourceCost{Energy: 25, Food: 15},
	},
}
