package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/stellarforge/empirecore/pipeline"
	"github.com/stellarforge/empirecore/turn"
)

type processTurnCommand struct {
	globals *globalOptions
	Force   bool `long:"force" description:"Advance the turn even if it has not reached its phase deadline"`
}

// Execute advances the turn outside its normal schedule (§6): flip and
// persist is_processing, run the end-of-turn pipeline, persist the next
// turn row, then delete ledger rows older than the retention window.
// --force bypasses the phase check that would otherwise require
// the current turn be in its final phase.
func (c *processTurnCommand) Execute(args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig(c.globals.Config)
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	app, err := connect(ctx, cfg)
	if err != nil {
		return fmt.Errorf("galaxyctl process-turn: %w", err)
	}
	defer app.Close(ctx)

	rows, err := app.Turn.Find(ctx, nil)
	if err != nil {
		return fmt.Errorf("galaxyctl process-turn: loading turn state: %w", err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("galaxyctl process-turn: no turn state found, run init first")
	}
	current := rows[0]
	now := time.Now()

	snap := turn.GetCurrent(current, now)
	if !c.Force && snap.Phase != turn.PhaseFinal {
		return fmt.Errorf("galaxyctl process-turn: turn %d is still %s (pass --force to override)", current.TurnNumber, snap.Phase)
	}

	version := current.GetVersion()
	if err := turn.BeginProcessing(current); err != nil {
		return fmt.Errorf("galaxyctl process-turn: %w", err)
	}
	if err := app.Turn.CompareAndSwap(ctx, current.ID, version, current); err != nil {
		return fmt.Errorf("galaxyctl process-turn: another process is already advancing this turn: %w", err)
	}

	report := pipeline.Run(ctx, pipeline.Repositories{
		Turn:        app.Turn,
		Empires:     app.Empires,
		Planets:     app.Planets,
		Fleets:      app.Fleets,
		Relations:   app.Relations,
		Proposals:   app.Proposals,
		TradeRoutes: app.TradeRoutes,
		Ledgers:     app.Ledgers,
	}, now)

	for _, f := range report.Failures {
		log.Error().Str("step", f.Step).Str("empire", f.EmpireID.Hex()).Err(f.Err).Msg("pipeline step failed")
	}

	next := turn.Advance(current, now)
	if err := app.Turn.CompareAndSwap(ctx, current.ID, current.GetVersion(), next); err != nil {
		return fmt.Errorf("galaxyctl process-turn: persisting turn %d: %w", next.TurnNumber, err)
	}

	cutoff := turn.GCCutoffTurn(next.TurnNumber)
	staleLedgers, err := app.Ledgers.Find(ctx, bson.M{"turn": bson.M{"$lt": cutoff}})
	if err != nil {
		log.Error().Err(err).Msg("ledger garbage collection failed")
	}
	for _, l := range staleLedgers {
		if err := app.Ledgers.Delete(ctx, l.ID); err != nil {
			log.Error().Err(err).Str("ledger", l.ID.Hex()).Msg("deleting stale ledger row failed")
		}
	}

	fmt.Printf("advanced to turn %d\n", next.TurnNumber)
	fmt.Printf("  empires processed:       %d\n", report.EmpiresProcessed)
	fmt.Printf("  colonies completed:      %d\n", report.PlanetsCompleted)
	fmt.Printf("  trade routes settled:    %d\n", report.TradeRoutesSettled)
	fmt.Printf("  trade routes breached:   %d\n", report.TradeRoutesBreached)
	fmt.Printf("  proposals expired:       %d\n", report.ProposalsExpired)
	fmt.Printf("  ledger reservations gc:  %d\n", report.LedgerReservationsGC)
	if len(report.Failures) > 0 {
		fmt.Printf("  step failures:           %d (see logs)\n", len(report.Failures))
	}
	return nil
}

func addProcessTurnCommand(parser *flags.Parser, globals *globalOptions) {
	_, err := parser.AddCommand("process-turn",
		"Advance the turn outside the normal schedule",
		"Runs the end-of-turn pipeline and advances the global turn counter.\n"+
			"Refuses to run unless the current turn is in its final phase, unless\n"+
			"--force is given.",
		&processTurnCommand{globals: globals})
	if err != nil {
		panic(err)
	}
}
