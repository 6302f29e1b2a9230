// Command galaxyctl is the operator CLI for the engine: init (apply index
// migrations + create turn 1; no seed data), process-turn (force an
// out-of-schedule advance),
// and status (print the current turn). Exit codes per §6: 0 success, 1
// fatal init/migration failure.
//
// Grounded on neper-stars-houston/cmd/houston's flags-based subcommand
// dispatch: one struct per subcommand implementing Execute(args []string)
// error, registered onto a shared *flags.Parser.
package main

import (
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"
)

var version = "dev"

type globalOptions struct {
	Config  string `short:"c" long:"config" description:"Path to a YAML config file (optional; env vars always override)"`
	Version func() `short:"V" long:"version" description:"Print version and exit"`
}

func main() {
	var globals globalOptions
	globals.Version = func() {
		fmt.Printf("galaxyctl %s\n", version)
		os.Exit(0)
	}

	parser := flags.NewParser(&globals, flags.Default)
	parser.Name = "galaxyctl"
	parser.LongDescription = "Operator CLI for the galaxy engine's turn and migration lifecycle"

	addInitCommand(parser, &globals)
	addProcessTurnCommand(parser, &globals)
	addStatusCommand(parser, &globals)

	_, err := parser.Parse()
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				os.Exit(0)
			}
			if flagsErr.Type == flags.ErrCommandRequired {
				parser.WriteHelp(os.Stderr)
				os.Exit(1)
			}
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
