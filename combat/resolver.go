// Package combat implements the Combat Resolver (§4.C): deterministic,
// round-based fleet-vs-fleet resolution over an injectable RNG.
//
// Grounded on other_examples/Knoblauchpilze-sogserver's fleet_fight.go
// shipInFight/attacker/defender shape (per-type survivor tracking, seeded
// RNG for replayable combat), adapted onto this module's salvo/effectiveness
// formulas and ship-type catalog.
package combat

import (
	"errors"
	"math"
	"math/rand"
	"time"

	"github.com/stellarforge/empirecore/ships"
)

// MaxRounds is the hard cap on combat length (§4.C, §5).
const MaxRounds = 10

// RetreatThreshold is the aggregate remaining-health fraction at or below
// which a side breaks off (§4.C).
const RetreatThreshold = 0.30

var (
	ErrSameEmpire     = errors.New("combat: fleets belong to the same empire")
	ErrDifferentPlace = errors.New("combat: fleets are not at the same location")
	ErrFleetDestroyed = errors.New("combat: a fleet is already destroyed")
	ErrFleetEmpty     = errors.New("combat: a fleet has no ships")
)

// Winner identifies which side, if either, prevailed.
type Winner string

const (
	WinnerAttacker Winner = "attacker"
	WinnerDefender Winner = "defender"
	WinnerNone     Winner = "—"
)

// ResultType classifies the combat outcome (§4.C classification table).
type ResultType string

const (
	DecisiveVictory   ResultType = "decisive_victory"
	DefensiveVictory  ResultType = "defensive_victory"
	AttackerRetreat   ResultType = "attacker_retreat"
	DefenderRetreat   ResultType = "defender_retreat"
	MutualDestruction ResultType = "mutual_destruction"
	Draw              ResultType = "draw"
)

// Options carries the per-combat modifiers §4.C names.
type Options struct {
	SurpriseAttack  bool
	TerrainModifier float64 // additive to raw damage fraction; 0 = no terrain effect
}

// Outcome is the result of Resolve.
type Outcome struct {
	Winner        Winner
	ResultType    ResultType
	RoundsFought  int
	AttackerExpGain int
	DefenderExpGain int
	AttackerMoraleDelta int
	DefenderMoraleDelta int
}

type side struct {
	fleet      *ships.Fleet
	surviving  map[ships.ShipType]int
	expLevel   int
	morale     int
	startHealth float64
}

func newSide(f *ships.Fleet) *side {
	surviving := make(map[ships.ShipType]int, len(f.Composition))
	var total float64
	for t, n := range f.Composition {
		if n <= 0 {
			continue
		}
		surviving[t] = n
		if bp, ok := ships.Blueprints[t]; ok {
			total += float64(n) * float64(bp.Health)
		}
	}
	return &side{fleet: f, surviving: surviving, expLevel: f.Experience, morale: f.Morale, startHealth: total}
}

func (s *side) totalShips() int {
	n := 0
	for _, c := range s.surviving {
		n += c
	}
	return n
}

func (s *side) remainingHealth() float64 {
	var total float64
	for t, n := range s.surviving {
		if bp, ok := ships.Blueprints[t]; ok {
			total += float64(n) * float64(bp.Health)
		}
	}
	return total
}

func (s *side) weightedAverageSpeed() float64 {
	var weighted float64
	var count int
	for t, n := range s.surviving {
		if bp, ok := ships.Blueprints[t]; ok {
			weighted += float64(bp.Speed) * float64(n)
			count += n
		}
	}
	if count == 0 {
		return 0
	}
	return weighted / float64(count)
}

// aliveTypes returns ship types with surviving count > 0, in the canonical
// ship-type order for deterministic iteration.
func (s *side) aliveTypes() []ships.ShipType {
	var out []ships.ShipType
	for _, t := range ships.AllShipTypes {
		if s.surviving[t] > 0 {
			out = append(out, t)
		}
	}
	return out
}

// damagePerSalvo computes the §4.C formula for one shot from a ship of type
// attackerType against a ship of type defenderType.
func damagePerSalvo(attackerType, defenderType ships.ShipType, attacker, defender *side, opts Options, isAttackerSide bool, round int, rng *rand.Rand) int {
	a, aok := ships.Blueprints[attackerType]
	d, dok := ships.Blueprints[defenderType]
	if !aok || !dok {
		return 1
	}

	raw := float64(a.Attack) * Effectiveness(a.WeaponClass, d.ArmorClass) * (1 - float64(d.Defense)/(float64(d.Defense)+10))
	raw += raw * opts.TerrainModifier
	raw *= 1 + float64(attacker.expLevel)*0.10
	raw *= 1 + (float64(attacker.morale)-50)/50*0.20

	if opts.SurpriseAttack && round == 1 && isAttackerSide {
		raw *= 1.5
	}
	if isAttackerSide {
		// "target side is defender" in §4.C: salvos aimed at the defending
		// side are divided by 1.2, so defenders take slightly less damage
		// than attackers with identical stats.
		raw /= 1.2
	}

	raw *= 0.8 + rng.Float64()*0.4 // uniform(0.8, 1.2)

	damage := int(math.Round(raw))
	if damage < 1 {
		damage = 1
	}
	return damage
}

// fireSalvos has attacker's surviving ship types each target one randomly
// chosen surviving defender type, applying casualties.
func fireSalvos(attacker, defender *side, opts Options, isAttackerSide bool, round int, rng *rand.Rand) {
	attackerTypes := attacker.aliveTypes()
	for _, aType := range attackerTypes {
		count := attacker.surviving[aType]
		if count <= 0 {
			continue
		}
		targets := defender.aliveTypes()
		if len(targets) == 0 {
			return
		}
		targetType := targets[rng.Intn(len(targets))]

		perShip := damagePerSalvo(aType, targetType, attacker, defender, opts, isAttackerSide, round, rng)
		totalDamage := perShip * count

		bp, ok := ships.Blueprints[targetType]
		if !ok || bp.Health <= 0 {
			continue
		}
		casualties := totalDamage / bp.Health
		remaining := defender.surviving[targetType]
		if casualties > remaining {
			casualties = remaining
		}
		defender.surviving[targetType] = remaining - casualties
	}
}

// Resolve runs the full combat loop (§4.C) and mutates attacker/defender's
// Composition, Status, Experience, Morale, LastCombat in place. Callers
// persist both fleets via CompareAndSwap inside one transaction (§5).
func Resolve(attackerFleet, defenderFleet *ships.Fleet, opts Options, rng *rand.Rand, now time.Time) (Outcome, error) {
	if attackerFleet.EmpireID == defenderFleet.EmpireID {
		return Outcome{}, ErrSameEmpire
	}
	if attackerFleet.Location != defenderFleet.Location {
		return Outcome{}, ErrDifferentPlace
	}
	if attackerFleet.Status == ships.FleetDestroyed || defenderFleet.Status == ships.FleetDestroyed {
		return Outcome{}, ErrFleetDestroyed
	}
	if attackerFleet.TotalShips() == 0 || defenderFleet.TotalShips() == 0 {
		return Outcome{}, ErrFleetEmpty
	}

	att := newSide(attackerFleet)
	def := newSide(defenderFleet)

	attackerFirst := att.weightedAverageSpeed() >= def.weightedAverageSpeed()

	round := 0
	attackerRetreated := false
	defenderRetreated := false

	for round = 1; round <= MaxRounds; round++ {
		if attackerFirst {
			fireSalvos(att, def, opts, true, round, rng)
			if def.totalShips() > 0 {
				fireSalvos(def, att, opts, false, round, rng)
			}
		} else {
			fireSalvos(def, att, opts, false, round, rng)
			if att.totalShips() > 0 {
				fireSalvos(att, def, opts, true, round, rng)
			}
		}

		if att.totalShips() == 0 || def.totalShips() == 0 {
			break
		}

		if att.startHealth > 0 && att.remainingHealth()/att.startHealth <= RetreatThreshold {
			attackerRetreated = true
			break
		}
		if def.startHealth > 0 && def.remainingHealth()/def.startHealth <= RetreatThreshold {
			defenderRetreated = true
			break
		}
	}
	if round > MaxRounds {
		round = MaxRounds
	}

	attEmpty := att.totalShips() == 0
	defEmpty := def.totalShips() == 0

	outcome := Outcome{RoundsFought: round}
	switch {
	case defEmpty && !attEmpty:
		outcome.Winner, outcome.ResultType = WinnerAttacker, DecisiveVictory
	case attEmpty && !defEmpty:
		outcome.Winner, outcome.ResultType = WinnerDefender, DefensiveVictory
	case attEmpty && defEmpty:
		outcome.Winner, outcome.ResultType = WinnerNone, MutualDestruction
	case attackerRetreated:
		outcome.Winner, outcome.ResultType = WinnerDefender, AttackerRetreat
	case defenderRetreated:
		outcome.Winner, outcome.ResultType = WinnerAttacker, DefenderRetreat
	default:
		outcome.Winner, outcome.ResultType = WinnerNone, Draw
	}

	applyPostCombat(attackerFleet, att, defenderFleet, def, outcome, true, now, &outcome.AttackerExpGain, &outcome.AttackerMoraleDelta)
	applyPostCombat(defenderFleet, def, attackerFleet, att, outcome, false, now, &outcome.DefenderExpGain, &outcome.DefenderMoraleDelta)

	return outcome, nil
}

// applyPostCombat writes back one side's composition/status/experience/
// morale (§4.C "Post-combat"). isAttacker selects which Winner value counts
// as "this side won".
func applyPostCombat(fleet *ships.Fleet, s *side, enemyFleet *ships.Fleet, enemy *side, outcome Outcome, isAttacker bool, now time.Time, expGain, moraleDelta *int) {
	fleet.Composition = s.surviving
	fleet.Normalize()
	fleet.LastCombat = now

	won := (isAttacker && outcome.Winner == WinnerAttacker) || (!isAttacker && outcome.Winner == WinnerDefender)
	retreated := (isAttacker && outcome.ResultType == AttackerRetreat) || (!isAttacker && outcome.ResultType == DefenderRetreat)
	defeated := fleet.Status == ships.FleetDestroyed

	exp := 1
	if won {
		exp++
	}
	if enemyPower(enemy) > enemyPower(s) {
		exp++
	}
	multiplier := 1 - 0.1*float64(s.expLevel)
	if multiplier < 0.1 {
		multiplier = 0.1
	}
	*expGain = int(math.Round(float64(exp) * multiplier))
	fleet.Experience += *expGain

	delta := 0
	switch {
	case won:
		delta = 10
	case retreated:
		delta = -5
	case defeated:
		delta = -15
	}
	*moraleDelta = delta
	morale := fleet.Morale + delta
	if morale < 0 {
		morale = 0
	}
	if morale > 100 {
		morale = 100
	}
	fleet.Morale = morale
}

// enemyPower is a coarse attack+defense+health sum used only to decide the
// "enemy_power > own_power" experience bonus (§4.C); it is not consulted by
// the damage formula itself.
func enemyPower(s *side) float64 {
	var total float64
	for t, n := range s.surviving {
		if bp, ok := ships.Blueprints[t]; ok {
			total += float64(n) * float64(bp.Attack+bp.Defense+bp.Health)
		}
	}
	return total
}
