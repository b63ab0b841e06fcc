package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/hmelin/coinfolio"
	"github.com/hmelin/coinfolio/renderer"
	"github.com/shopspring/decimal"
)

// dcaCmd projects the average purchase cost under hypothetical
// additional buys at the current price.
type dcaCmd struct {
	inputFlags
	asset  string
	spends string
	fee    float64
}

func (*dcaCmd) Name() string     { return "dca" }
func (*dcaCmd) Synopsis() string { return "project the average cost under hypothetical purchases" }
func (*dcaCmd) Usage() string {
	return `dca -l <ledger.csv> -asset BTC [-spend 100,200,500] [-prices <prices.json> | -fetch]:

  Fold a schedule of hypothetical purchases at the current price into
  the asset's historical buys and show the new blended average after
  each one.
`
}

func (c *dcaCmd) SetFlags(f *flag.FlagSet) {
	c.inputFlags.register(f)
	f.StringVar(&c.asset, "asset", "BTC", "Asset to project")
	f.StringVar(&c.spends, "spend", "100,200,500,1000,2000", "Comma separated hypothetical spends")
	f.Float64Var(&c.fee, "fee", 0.0026, "Exchange fee rate applied to each purchase")
}

func (c *dcaCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	ledger, _, _, err := c.loadEntries()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	prices, err := c.loadPrices(ledger)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	asset := coinfolio.NormalizeAsset(c.asset)
	price, ok := prices[asset]
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: no current price for %s, use -prices or -fetch\n", asset)
		return subcommands.ExitFailure
	}

	schedule, err := parseSpends(c.spends)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitUsageError
	}
	spends := make([]coinfolio.Money, 0, len(schedule))
	for _, s := range schedule {
		spends = append(spends, coinfolio.M(s, c.currency))
	}

	inv := coinfolio.ComputeCostBasis(ledger, coinfolio.FIFO, c.currency)
	cfg := coinfolio.DCAConfig{FeeRate: decimal.NewFromFloat(c.fee)}
	proj, ok := coinfolio.SimulateDCA(inv.Position(asset), price, spends, cfg)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: no fiat purchase history for %s, nothing to project\n", asset)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.DCAMarkdown(&proj))
	return subcommands.ExitSuccess
}
