package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"

	"github.com/stellarforge/empirecore/internal/bootstrap"
	"github.com/stellarforge/empirecore/turn"
)

type statusCommand struct {
	globals *globalOptions
}

// Execute prints the current turn number, phase, and time remaining, plus
// any migrations still pending (§6).
func (c *statusCommand) Execute(args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig(c.globals.Config)
	if err != nil {
		return err
	}

	app, err := connect(ctx, cfg)
	if err != nil {
		return fmt.Errorf("galaxyctl status: %w", err)
	}
	defer app.Close(ctx)

	pending, err := bootstrap.Pending(ctx, app.DB)
	if err != nil {
		return fmt.Errorf("galaxyctl status: checking migrations: %w", err)
	}
	if len(pending) > 0 {
		fmt.Println("pending migrations:")
		for _, name := range pending {
			fmt.Printf("  %s\n", name)
		}
	} else {
		fmt.Println("migrations: up to date")
	}

	rows, err := app.Turn.Find(ctx, nil)
	if err != nil {
		return fmt.Errorf("galaxyctl status: loading turn state: %w", err)
	}
	if len(rows) == 0 {
		fmt.Println("turn: not initialized (run `galaxyctl init`)")
		return nil
	}

	snap := turn.GetCurrent(rows[0], time.Now())
	fmt.Printf("turn %d\n", snap.TurnNumber)
	fmt.Printf("  phase:            %s\n", snap.Phase)
	fmt.Printf("  time remaining:   %s\n", snap.TimeRemaining.Round(time.Second))
	fmt.Printf("  processing:       %t\n", snap.IsProcessing)
	return nil
}

func addStatusCommand(parser *flags.Parser, globals *globalOptions) {
	_, err := parser.AddCommand("status",
		"Print the current turn",
		"Prints the current turn number, phase, and time remaining, plus any\n"+
			"migrations that have not yet been applied.",
		&statusCommand{globals: globals})
	if err != nil {
		panic(err)
	}
}
