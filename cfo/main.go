package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/hmelin/coinfolio/cmd"
	"github.com/posener/complete/v2"
)

func main() {
	// Shell completion: a no-op unless invoked by the shell's
	// completion machinery (COMP_LINE set), in which case it prints
	// the candidates and exits.
	completion := &complete.Command{
		Sub: map[string]*complete.Command{
			"report":    {},
			"holding":   {},
			"reconcile": {},
			"dca":       {},
			"topic":     {},
			"help":      {},
		},
	}
	completion.Complete(path.Base(os.Args[0]))

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
