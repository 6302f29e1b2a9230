package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"

	"github.com/stellarforge/empirecore/internal/bootstrap"
	"github.com/stellarforge/empirecore/turn"
)

type initCommand struct {
	globals *globalOptions
}

// Execute applies the registered index migrations, then creates turn 1,
// refusing to proceed past a failed step. No seed data is loaded; the
// registered migrations only create indexes. Re-running init against an
// already-initialized database is safe: Migrate is idempotent per
// migration name, and an existing turn-1 row is reported, not duplicated.
func (c *initCommand) Execute(args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig(c.globals.Config)
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	app, err := connect(ctx, cfg)
	if err != nil {
		return fmt.Errorf("galaxyctl init: %w", err)
	}
	defer app.Close(ctx)

	log.Info().Msg("applying migrations")
	if err := bootstrap.Migrate(ctx, app.DB); err != nil {
		return fmt.Errorf("galaxyctl init: migration failed: %w", err)
	}

	log.Info().Msg("creating turn 1")
	state, err := bootstrap.InitializeTurnOne(ctx, app.Turn, time.Now(), cfg.TurnDuration)
	if err != nil {
		if errors.Is(err, turn.ErrAlreadyInitialized) {
			log.Info().Int64("turn", state.TurnNumber).Msg("turn state already initialized, skipping")
			fmt.Printf("already initialized at turn %d\n", state.TurnNumber)
			return nil
		}
		return fmt.Errorf("galaxyctl init: %w", err)
	}

	fmt.Printf("initialized turn %d (duration %s)\n", state.TurnNumber, cfg.TurnDuration)
	return nil
}

func addInitCommand(parser *flags.Parser, globals *globalOptions) {
	_, err := parser.AddCommand("init",
		"Apply migrations and create turn 1",
		"Applies every registered migration, then creates the turn-1 singleton\n"+
			"row if one does not already exist. Safe to re-run.",
		&initCommand{globals: globals})
	if err != nil {
		panic(err)
	}
}
