package territory

import (
	"context"
	"testing"
	"time"

	"github.com/stellarforge/empirecore/internal/storemem"
	"github.com/stellarforge/empirecore/players"
	"github.com/stellarforge/empirecore/ships"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func fleetFields(f *ships.Fleet) bson.M {
	m := bson.M{"status": string(f.Status)}
	if f.PlanetID != nil {
		m["planetId"] = *f.PlanetID
	}
	return m
}

func TestColonize_LinksFleetToPlanet(t *testing.T) {
	now := time.Now()
	empireID := bson.NewObjectID()
	planet := &Planet{ID: bson.NewObjectID(), Sector: "5,5", Type: Mining, Status: PlanetAvailable}
	fleet := &ships.Fleet{ID: bson.NewObjectID(), EmpireID: empireID, Location: "5,5", Status: ships.FleetActive, Composition: map[ships.ShipType]int{ships.Corvette: 1}}
	empire := &players.Empire{ID: empireID}

	Colonize(ColonizeInput{Empire: empire, Planet: planet, Fleet: fleet, Now: now})

	if fleet.PlanetID == nil || *fleet.PlanetID != planet.ID {
		t.Fatalf("expected fleet.PlanetID to be set to the colonized planet's id")
	}
	if fleet.Status != ships.FleetColonizing {
		t.Fatalf("expected fleet status colonizing, got %s", fleet.Status)
	}
	if planet.Status != PlanetColonizing {
		t.Fatalf("expected planet status colonizing, got %s", planet.Status)
	}
}

func TestSweepCompletions_ReturnsFleetToActive(t *testing.T) {
	now := time.Now()
	empireID := bson.NewObjectID()

	planet := &Planet{ID: bson.NewObjectID(), Sector: "5,5", Type: Mining, Status: PlanetAvailable}
	fleet := &ships.Fleet{ID: bson.NewObjectID(), EmpireID: empireID, Location: "5,5", Status: ships.FleetActive, Composition: map[ships.ShipType]int{ships.Corvette: 1}}
	empire := &players.Empire{ID: empireID}

	past := now.Add(-time.Hour)
	Colonize(ColonizeInput{Empire: empire, Planet: planet, Fleet: fleet, Now: past.Add(-ColonizationDuration)})

	planets := storemem.New[*Planet](fields)
	planets.Put(planet.ID, planet)
	fleets := storemem.New[*ships.Fleet](fleetFields)
	fleets.Put(fleet.ID, fleet)

	completed, err := SweepCompletions(context.Background(), planets, fleets, now)
	if err != nil {
		t.Fatalf("SweepCompletions returned error: %v", err)
	}
	if len(completed) != 1 || completed[0] != planet.ID {
		t.Fatalf("expected planet %s to be completed, got %v", planet.ID, completed)
	}

	storedPlanet, err := planets.Get(context.Background(), planet.ID)
	if err != nil {
		t.Fatalf("Get planet: %v", err)
	}
	if storedPlanet.Status != PlanetActive {
		t.Fatalf("expected planet status active, got %s", storedPlanet.Status)
	}

	storedFleet, err := fleets.Get(context.Background(), fleet.ID)
	if err != nil {
		t.Fatalf("Get fleet: %v", err)
	}
	if storedFleet.Status != ships.FleetActive {
		t.Fatalf("expected fleet status active after completion sweep, got %s", storedFleet.Status)
	}
	if !storedFleet.ActionUntil.IsZero() {
		t.Fatalf("expected fleet ActionUntil cleared after completion sweep")
	}
}
