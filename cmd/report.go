package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/subcommands"
	"github.com/hmelin/coinfolio"
	"github.com/hmelin/coinfolio/renderer"
	"github.com/shopspring/decimal"
)

// reportCmd runs the full analysis and prints the portfolio report.
type reportCmd struct {
	inputFlags
	method           string
	tolerance        float64
	window           time.Duration
	dcaAssets        string
	dcaSpends        string
	dcaFee           float64
	requireValuation bool
	asJSON           bool
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "compute the full portfolio report" }
func (*reportCmd) Usage() string {
	return `report -l <ledger.csv> [-w <wallet.csv>] [-prices <prices.json> | -fetch]:

  Parse the exports, compute cost basis and realized/unrealized P/L,
  verify withdrawals against the wallet, project DCA scenarios, and
  print the whole report as markdown.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	c.inputFlags.register(f)
	f.StringVar(&c.method, "method", "fifo", "Cost basis method: fifo or average")
	f.Float64Var(&c.tolerance, "tolerance", 0.01, "Relative on-chain fee tolerance for withdrawal matching")
	f.DurationVar(&c.window, "window", 2*time.Hour, "Time window for withdrawal matching")
	f.StringVar(&c.dcaAssets, "dca", "BTC", "Comma separated assets to project DCA scenarios for")
	f.StringVar(&c.dcaSpends, "spend", "100,200,500,1000,2000", "Comma separated hypothetical spends per DCA scenario")
	f.Float64Var(&c.dcaFee, "fee", 0.0026, "Exchange fee rate applied to DCA purchases")
	f.BoolVar(&c.requireValuation, "require-valuation", false, "Fail when a held asset has no current price")
	f.BoolVar(&c.asJSON, "json", false, "Print the report as JSON instead of markdown")
}

func (c *reportCmd) config() (coinfolio.Config, error) {
	cfg := coinfolio.DefaultConfig()
	cfg.Currency = c.currency
	cfg.RequireValuation = c.requireValuation

	method, err := coinfolio.ParseCostBasisMethod(c.method)
	if err != nil {
		return cfg, err
	}
	cfg.Method = method

	cfg.Reconcile.Tolerance = decimal.NewFromFloat(c.tolerance)
	cfg.Reconcile.Window = c.window
	cfg.DCA.FeeRate = decimal.NewFromFloat(c.dcaFee)
	cfg.DCAAssets = splitList(c.dcaAssets)

	schedule, err := parseSpends(c.dcaSpends)
	if err != nil {
		return cfg, err
	}
	cfg.DCASchedule = schedule
	return cfg, nil
}

func (c *reportCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	cfg, err := c.config()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitUsageError
	}

	ledger, wallet, warnings, err := c.loadEntries()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	prices, err := c.loadPrices(ledger)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	report, err := coinfolio.Analyze(ledger, wallet, prices, warnings, cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	if c.asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}
	printMarkdown(renderer.ReportMarkdown(report))
	return subcommands.ExitSuccess
}

func splitList(s string) []string {
	var list []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			list = append(list, item)
		}
	}
	return list
}

func parseSpends(s string) ([]decimal.Decimal, error) {
	var schedule []decimal.Decimal
	for _, item := range splitList(s) {
		spend, err := decimal.NewFromString(item)
		if err != nil {
			return nil, fmt.Errorf("invalid spend %q: %w", item, err)
		}
		schedule = append(schedule, spend)
	}
	return schedule, nil
}
