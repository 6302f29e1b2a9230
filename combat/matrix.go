package combat

import "github.com/stellarforge/empirecore/ships"

// effectiveness is the weapon_class x armor_class multiplier table (§4.C),
// every entry in [0.4, 1.6]. Kinetic favors light/medium hulls, explosive
// favors heavy/super_heavy, energy is the generalist with a flatter curve.
var effectiveness = map[ships.WeaponClass]map[ships.ArmorClass]float64{
	ships.WeaponKinetic: {
		ships.ArmorLight:      1.5,
		ships.ArmorMedium:     1.1,
		ships.ArmorHeavy:      0.7,
		ships.ArmorSuperHeavy: 0.4,
	},
	ships.WeaponEnergy: {
		ships.ArmorLight:      1.1,
		ships.ArmorMedium:     1.2,
		ships.ArmorHeavy:      1.0,
		ships.ArmorSuperHeavy: 0.8,
	},
	ships.WeaponExplosive: {
		ships.ArmorLight:      0.6,
		ships.ArmorMedium:     1.0,
		ships.ArmorHeavy:      1.4,
		ships.ArmorSuperHeavy: 1.6,
	},
}

// Effectiveness returns eff(weapon, armor) from the §4.C matrix.
func Effectiveness(weapon ships.WeaponClass, armor ships.ArmorClass) float64 {
	row, ok := effectiveness[weapon]
	if !ok {
		return 1.0
	}
	v, ok := row[armor]
	if !ok {
		return 1.0
	}
	return v
}
