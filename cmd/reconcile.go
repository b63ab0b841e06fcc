package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/subcommands"
	"github.com/hmelin/coinfolio"
	"github.com/hmelin/coinfolio/renderer"
	"github.com/shopspring/decimal"
)

// reconcileCmd verifies exchange withdrawals against wallet receipts
// without computing the rest of the report.
type reconcileCmd struct {
	inputFlags
	tolerance float64
	window    time.Duration
	detail    bool
}

func (*reconcileCmd) Name() string     { return "reconcile" }
func (*reconcileCmd) Synopsis() string { return "verify exchange withdrawals against wallet receipts" }
func (*reconcileCmd) Usage() string {
	return `reconcile -l <ledger.csv> -w <wallet.csv> [-tolerance 0.01] [-window 2h]:

  Match every withdrawal in the ledger against incoming wallet
  transactions and print the matched/orphaned/unmatched/ambiguous
  partition with per-asset totals.
`
}

func (c *reconcileCmd) SetFlags(f *flag.FlagSet) {
	c.inputFlags.register(f)
	f.Float64Var(&c.tolerance, "tolerance", 0.01, "Relative on-chain fee tolerance")
	f.DurationVar(&c.window, "window", 2*time.Hour, "Time window a receipt may confirm in")
	f.BoolVar(&c.detail, "detail", false, "Print the candidate list of each ambiguous withdrawal")
}

func (c *reconcileCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	if c.walletFile == "" {
		fmt.Fprintln(os.Stderr, "Error: reconcile needs a wallet export, use -w")
		return subcommands.ExitUsageError
	}

	ledger, wallet, _, err := c.loadEntries()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	cfg := coinfolio.ReconcileConfig{
		Tolerance: decimal.NewFromFloat(c.tolerance),
		Window:    c.window,
	}
	matches := coinfolio.Reconcile(ledger, wallet, cfg)

	assets := make(map[string]bool)
	var totals []coinfolio.ReconcileTotals
	for _, e := range wallet {
		if !assets[e.Asset] {
			assets[e.Asset] = true
			totals = append(totals, coinfolio.Totals(ledger, wallet, e.Asset))
		}
	}

	md := renderer.ReconciliationMarkdown(matches, totals)
	if c.detail {
		for _, m := range matches {
			if m.Kind == coinfolio.Ambiguous {
				md += renderer.AmbiguousDetail(m)
			}
		}
	}
	printMarkdown(md)
	return subcommands.ExitSuccess
}
