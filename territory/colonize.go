package territory

import (
	"context"
	"errors"
	"time"

	"github.com/stellarforge/empirecore/buildings"
	"github.com/stellarforge/empirecore/internal/store"
	"github.com/stellarforge/empirecore/players"
	"github.com/stellarforge/empirecore/ships"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// ErrPlanetUnavailable, ErrFleetIneligible, and ErrColonyCapReached are the
// precondition failures colonizePlanet (§4.E) reports as Conflict.
var (
	ErrPlanetUnavailable = errors.New("territory: planet is not available")
	ErrFleetIneligible   = errors.New("territory: fleet cannot colonize this planet")
	ErrColonyCapReached  = errors.New("territory: empire already holds MAX_COLONIES_PER_EMPIRE planets")
)

// ColonizeInput bundles the preconditions colonizePlanet must check (§4.E).
type ColonizeInput struct {
	Empire *players.Empire
	Planet *Planet
	Fleet  *ships.Fleet
	Now    time.Time
}

// CheckColonizePreconditions validates every precondition in §4.E except
// affordability, which the caller checks against its own resource vector
// before calling Colonize (affordability failure is InsufficientResources,
// a different error kind than the Conflict kind these checks report).
func CheckColonizePreconditions(in ColonizeInput) error {
	if !in.Planet.IsAvailable() {
		return ErrPlanetUnavailable
	}
	if in.Fleet.EmpireID != in.Empire.ID {
		return ErrFleetIneligible
	}
	if in.Fleet.Status != ships.FleetActive {
		return ErrFleetIneligible
	}
	if in.Fleet.Location != in.Planet.Sector {
		return ErrFleetIneligible
	}
	if !in.Fleet.HasMinimumColonizers() {
		return ErrFleetIneligible
	}
	if in.Empire.ColonyCount() >= MaxColoniesPerEmpire {
		return ErrColonyCapReached
	}
	return nil
}

// Colonize mutates planet and fleet in place to reflect a successful
// colonizePlanet call (§4.E): planet -> colonizing, fleet -> colonizing,
// both sharing the same action_until/colonization_completed deadline. The
// caller is responsible for debiting the empire's resources, appending the
// planet id to Empire.ColonizedPlanets, and persisting all three documents
// via CompareAndSwap inside one transaction.
func Colonize(in ColonizeInput) {
	in.Planet.StartColonization(in.Empire.ID, in.Now)
	in.Fleet.Status = ships.FleetColonizing
	in.Fleet.ActionUntil = in.Planet.ColonizationCompleted
	in.Fleet.PlanetID = &in.Planet.ID
}

// SweepCompletions implements the completion sweep (§4.E): every colonizing
// planet whose deadline has passed flips to active and its colonizing
// fleet returns to active. Each planet/fleet pair is persisted with its own
// CompareAndSwap so one stale version doesn't block the rest of the sweep;
// the turn pipeline runs this once as a global step, not per empire.
func SweepCompletions(ctx context.Context, planets store.Repository[*Planet], fleets store.Repository[*ships.Fleet], now time.Time) ([]bson.ObjectID, error) {
	due, err := planets.Find(ctx, bson.M{"status": string(PlanetColonizing)})
	if err != nil {
		return nil, err
	}

	var completed []bson.ObjectID
	for _, p := range due {
		if !p.IsDue(now) {
			continue
		}
		planetVersion := p.GetVersion()
		p.CompleteColonization()
		p.UpdatedAt = now
		if err := planets.CompareAndSwap(ctx, p.ID, planetVersion, p); err != nil {
			continue
		}

		fleetList, err := fleets.Find(ctx, bson.M{"planetId": p.ID, "status": string(ships.FleetColonizing)})
		if err != nil {
			continue
		}
		for _, f := range fleetList {
			fleetVersion := f.GetVersion()
			f.Status = ships.FleetActive
			f.ActionUntil = time.Time{}
			f.UpdatedAt = now
			_ = fleets.CompareAndSwap(ctx, f.ID, fleetVersion, f)
		}
		completed = append(completed, p.ID)
	}
	return completed, nil
}

// Abandon implements the abandon-colony operation (§4.E): resets the planet
// to unowned and returns the 50% material refund the caller credits to the
// empire's resources in the same transaction.
func Abandon(p *Planet) buildings.Cost {
	refund := RefundOnAbandon(p.Type)
	p.Abandon()
	return refund
}
