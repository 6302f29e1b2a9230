package combat

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stellarforge/empirecore/ships"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func newFleet(empire bson.ObjectID, sector string, composition map[ships.ShipType]int) *ships.Fleet {
	return &ships.Fleet{
		ID:          bson.NewObjectID(),
		EmpireID:    empire,
		Location:    sector,
		Composition: composition,
		Status:      ships.FleetActive,
		Experience:  0,
		Morale:      50,
	}
}

func TestResolve_LopsidedFavorsAttacker(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	attacker := newFleet(bson.NewObjectID(), "3,3", map[ships.ShipType]int{ships.Dreadnought: 5})
	defender := newFleet(bson.NewObjectID(), "3,3", map[ships.ShipType]int{ships.Scout: 3})

	outcome, err := Resolve(attacker, defender, Options{}, rng, time.Now())
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if outcome.RoundsFought < 1 || outcome.RoundsFought > MaxRounds {
		t.Fatalf("rounds fought out of bounds: %d", outcome.RoundsFought)
	}
	if outcome.Winner != WinnerAttacker {
		t.Fatalf("expected attacker to win a lopsided fight, got %s (%s)", outcome.Winner, outcome.ResultType)
	}
	if defender.Status != ships.FleetDestroyed {
		t.Fatalf("expected defender fleet destroyed, got status %s", defender.Status)
	}
	if attacker.TotalShips() == 0 {
		t.Fatalf("expected attacker to retain ships in a decisive victory")
	}

	// §4.C post-combat deltas for a decisive win starting at exp 0: base 1 +
	// 1 for victor, no underdog bonus since the wiped defender's post-combat
	// power is 0; morale +10. Scenario 1 (spec.md §8) documents the same
	// deltas for its destroyer-vs-corvette fixture, which holds for any
	// fixture that ends in a clean win from a fresh (exp 0) fleet.
	if outcome.AttackerExpGain != 2 {
		t.Fatalf("expected attacker exp gain +2, got %d", outcome.AttackerExpGain)
	}
	if outcome.AttackerMoraleDelta != 10 {
		t.Fatalf("expected attacker morale delta +10, got %d", outcome.AttackerMoraleDelta)
	}
	if attacker.Experience != 2 {
		t.Fatalf("expected attacker.Experience == 2, got %d", attacker.Experience)
	}
	if attacker.Morale != 60 {
		t.Fatalf("expected attacker.Morale == 60, got %d", attacker.Morale)
	}
}

func TestResolve_Preconditions(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	sameEmpire := bson.NewObjectID()
	a := newFleet(sameEmpire, "1,1", map[ships.ShipType]int{ships.Scout: 1})
	d := newFleet(sameEmpire, "1,1", map[ships.ShipType]int{ships.Scout: 1})
	if _, err := Resolve(a, d, Options{}, rng, time.Now()); err != ErrSameEmpire {
		t.Fatalf("expected ErrSameEmpire, got %v", err)
	}

	d2 := newFleet(bson.NewObjectID(), "2,2", map[ships.ShipType]int{ships.Scout: 1})
	if _, err := Resolve(a, d2, Options{}, rng, time.Now()); err != ErrDifferentPlace {
		t.Fatalf("expected ErrDifferentPlace, got %v", err)
	}

	empty := newFleet(bson.NewObjectID(), "1,1", map[ships.ShipType]int{})
	empty.Status = ships.FleetDestroyed
	if _, err := Resolve(a, empty, Options{}, rng, time.Now()); err != ErrFleetDestroyed {
		t.Fatalf("expected ErrFleetDestroyed, got %v", err)
	}
}

func TestResolve_MinimumDamageIsAtLeastOne(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	weakest := ships.Blueprints[ships.Scout]
	strongest := ships.Blueprints[ships.Dreadnought]
	dmg := damagePerSalvo(ships.Scout, ships.Dreadnought, &side{expLevel: 0, morale: 50}, &side{}, Options{}, true, 2, rng)
	if dmg < 1 {
		t.Fatalf("damage per salvo must be at least 1, got %d", dmg)
	}
	_ = weakest
	_ = strongest
}

func TestResolve_NeverExceedsMaxRounds(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	attacker := newFleet(bson.NewObjectID(), "5,5", map[ships.ShipType]int{ships.Corvette: 10})
	defender := newFleet(bson.NewObjectID(), "5,5", map[ships.ShipType]int{ships.Corvette: 10})
	outcome, err := Resolve(attacker, defender, Options{}, rng, time.Now())
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if outcome.RoundsFought > MaxRounds {
		t.Fatalf("combat exceeded MAX_ROUNDS: %d", outcome.RoundsFought)
	}
}
