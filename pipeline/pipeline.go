// Package pipeline implements the end-of-turn orchestration §4.H describes
// and turn.Advance leaves to a package with visibility into every domain
// repository: resource computation,
// colonization completions, trade-route settlement, proposal expiry, and
// action-point ledger sweeping, each isolated per-empire so one empire's
// failure never halts the rest (§4.H, §7).
//
// Grounded on EverforgeWorks-Galaxies-Server's main.go heartbeat ticker
// (game.ReplenishMarket run every tick, failures logged not fatal) and on
// turn.RunPipelineStep's per-empire isolation contract.
package pipeline

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/stellarforge/empirecore/diplomacy"
	"github.com/stellarforge/empirecore/economy"
	"github.com/stellarforge/empirecore/internal/store"
	"github.com/stellarforge/empirecore/ledger"
	"github.com/stellarforge/empirecore/players"
	"github.com/stellarforge/empirecore/ships"
	"github.com/stellarforge/empirecore/territory"
	"github.com/stellarforge/empirecore/turn"
)

// Repositories bundles every collection the pipeline touches.
type Repositories struct {
	Turn        store.Repository[*turn.State]
	Empires     store.Repository[*players.Empire]
	Planets     store.Repository[*territory.Planet]
	Fleets      store.Repository[*ships.Fleet]
	Relations   store.Repository[*diplomacy.Relation]
	Proposals   store.Repository[*diplomacy.Proposal]
	TradeRoutes store.Repository[*diplomacy.TradeRoute]
	Ledgers     store.Repository[*ledger.Ledger]
}

// Failure records one per-empire (or global) step failure, logged but never
// fatal to the rest of the run (§4.H).
type Failure struct {
	Step     string
	EmpireID bson.ObjectID
	Err      error
}

// Report summarizes one pipeline run.
type Report struct {
	EmpiresProcessed     int
	PlanetsCompleted     int
	TradeRoutesSettled   int
	TradeRoutesBreached  int
	ProposalsExpired     int
	LedgerReservationsGC int
	Failures             []Failure
}

// Run executes one end-of-turn pass against repos as of now. It does not
// advance the turn number itself — callers run Run, then turn.Advance, then
// persist the new turn row, matching turn.Advance's documented split.
func Run(ctx context.Context, repos Repositories, now time.Time) Report {
	var report Report

	resourceStep(ctx, repos, now, &report)
	completionStep(ctx, repos, now, &report)
	tradeRouteStep(ctx, repos, now, &report)
	proposalExpiryStep(ctx, repos, now, &report)
	ledgerSweepStep(ctx, repos, now, &report)

	return report
}

// resourceStep recomputes and applies each empire's production/consumption
// net for the elapsed turn (§4.B), isolated per empire (§4.H).
func resourceStep(ctx context.Context, repos Repositories, now time.Time, report *Report) {
	empires, err := repos.Empires.Find(ctx, bson.M{})
	if err != nil {
		report.Failures = append(report.Failures, Failure{Step: "resources", Err: err})
		return
	}

	for _, e := range empires {
		planets, err := repos.Planets.Find(ctx, bson.M{"empireId": e.ID})
		if err != nil {
			report.Failures = append(report.Failures, Failure{Step: "resources", EmpireID: e.ID, Err: err})
			continue
		}
		fleets, err := repos.Fleets.Find(ctx, bson.M{"empireId": e.ID})
		if err != nil {
			report.Failures = append(report.Failures, Failure{Step: "resources", EmpireID: e.ID, Err: err})
			continue
		}

		snap := economy.Compute(planets, fleets)

		version := e.GetVersion()
		e.Resources = economy.Apply(e.Resources, snap)
		e.LastResourceUpdate = now
		e.UpdatedAt = now
		if err := repos.Empires.CompareAndSwap(ctx, e.ID, version, e); err != nil {
			report.Failures = append(report.Failures, Failure{Step: "resources", EmpireID: e.ID, Err: err})
			continue
		}
		report.EmpiresProcessed++
	}
}

// completionStep flips due colonizations to active (§4.E), a global sweep
// rather than a per-empire one since a planet's deadline is independent of
// any other empire's state.
func completionStep(ctx context.Context, repos Repositories, now time.Time, report *Report) {
	completed, err := territory.SweepCompletions(ctx, repos.Planets, repos.Fleets, now)
	if err != nil {
		report.Failures = append(report.Failures, Failure{Step: "colonization_sweep", Err: err})
		return
	}
	report.PlanetsCompleted = len(completed)
}

// tradeRouteStep settles every active trade route against its two empires'
// current resources, skipping (not failing) a route whose fault empire
// cannot currently afford its side (§4.D).
func tradeRouteStep(ctx context.Context, repos Repositories, now time.Time, report *Report) {
	routes, err := repos.TradeRoutes.Find(ctx, bson.M{"active": true})
	if err != nil {
		report.Failures = append(report.Failures, Failure{Step: "trade_routes", Err: err})
		return
	}

	for _, route := range routes {
		e1, err := repos.Empires.Get(ctx, route.Empire1)
		if err != nil {
			report.Failures = append(report.Failures, Failure{Step: "trade_routes", EmpireID: route.Empire1, Err: err})
			continue
		}
		e2, err := repos.Empires.Get(ctx, route.Empire2)
		if err != nil {
			report.Failures = append(report.Failures, Failure{Step: "trade_routes", EmpireID: route.Empire2, Err: err})
			continue
		}

		breach := diplomacy.Settle(route, e1.Resources, e2.Resources)
		if breach != nil {
			report.TradeRoutesBreached++
			continue
		}

		version1, version2 := e1.GetVersion(), e2.GetVersion()
		e1.UpdatedAt, e2.UpdatedAt = now, now
		if err := repos.Empires.CompareAndSwap(ctx, e1.ID, version1, e1); err != nil {
			report.Failures = append(report.Failures, Failure{Step: "trade_routes", EmpireID: e1.ID, Err: err})
			continue
		}
		if err := repos.Empires.CompareAndSwap(ctx, e2.ID, version2, e2); err != nil {
			report.Failures = append(report.Failures, Failure{Step: "trade_routes", EmpireID: e2.ID, Err: err})
			continue
		}
		report.TradeRoutesSettled++
	}
}

// proposalExpiryStep expires every still-pending proposal whose deadline
// has passed (§4.D two-phase proposal lifecycle).
func proposalExpiryStep(ctx context.Context, repos Repositories, now time.Time, report *Report) {
	proposals, err := repos.Proposals.Find(ctx, bson.M{"status": string(diplomacy.ProposalPending)})
	if err != nil {
		report.Failures = append(report.Failures, Failure{Step: "proposal_expiry", Err: err})
		return
	}
	for _, p := range proposals {
		version := p.GetVersion()
		if !p.ExpirePending(now) {
			continue
		}
		if err := repos.Proposals.CompareAndSwap(ctx, p.ID, version, p); err != nil {
			continue
		}
		report.ProposalsExpired++
	}
}

// ledgerSweepStep frees every expired reservation across every ledger row
// (§4.G periodic sweep).
func ledgerSweepStep(ctx context.Context, repos Repositories, now time.Time, report *Report) {
	freed, err := ledger.Sweeper(ctx, repos.Ledgers, now)
	if err != nil {
		report.Failures = append(report.Failures, Failure{Step: "ledger_sweep", Err: err})
		return
	}
	report.LedgerReservationsGC = freed
}
