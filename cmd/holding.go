package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/hmelin/coinfolio"
	"github.com/hmelin/coinfolio/renderer"
)

// holdingCmd prints the holdings table only: what is held, at what
// cost, and what it is worth now.
type holdingCmd struct {
	inputFlags
	method string
}

func (*holdingCmd) Name() string     { return "holding" }
func (*holdingCmd) Synopsis() string { return "print current holdings with cost basis and P/L" }
func (*holdingCmd) Usage() string {
	return `holding -l <ledger.csv> [-prices <prices.json> | -fetch]:

  Print the holdings table: quantity held, cost basis, current value
  and P/L per asset. Figures needing an unsupplied price show "?".
`
}

func (c *holdingCmd) SetFlags(f *flag.FlagSet) {
	c.inputFlags.register(f)
	f.StringVar(&c.method, "method", "fifo", "Cost basis method: fifo or average")
}

func (c *holdingCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	method, err := coinfolio.ParseCostBasisMethod(c.method)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitUsageError
	}

	ledger, _, warnings, err := c.loadEntries()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	prices, err := c.loadPrices(ledger)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	cfg := coinfolio.DefaultConfig()
	cfg.Currency = c.currency
	cfg.Method = method
	cfg.DCAAssets = nil

	report, err := coinfolio.Analyze(ledger, nil, prices, warnings, cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.HoldingMarkdown(report))
	return subcommands.ExitSuccess
}
