// Package cmd implements the CLI application that reconciles an
// exchange ledger against a wallet export and reports on the result.
package cmd

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/google/subcommands"
	"github.com/hmelin/coinfolio"
	"github.com/hmelin/coinfolio/kraken"
)

// Register the subcommands.
// A main package calls Register() to install them, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&reportCmd{}, "reports")
	c.Register(&holdingCmd{}, "reports")
	c.Register(&reconcileCmd{}, "reports")
	c.Register(&dcaCmd{}, "reports")

	c.Register(&topicCmd{}, "documentation")
}

// inputFlags are the flags shared by every command that consumes the
// export files. Commands embed it and call register from SetFlags.
type inputFlags struct {
	ledgerFile  string
	walletFile  string
	currency    string
	pricesFile  string
	fetch       bool
	walletAsset string
}

func (c *inputFlags) register(f *flag.FlagSet) {
	f.StringVar(&c.ledgerFile, "l", "ledger.csv", "Path to the exchange ledger CSV export")
	f.StringVar(&c.walletFile, "w", "", "Path to the wallet CSV export (optional)")
	f.StringVar(&c.currency, "c", "EUR", "Reporting currency")
	f.StringVar(&c.pricesFile, "prices", "", "Path to a JSON file mapping asset to current price")
	f.BoolVar(&c.fetch, "fetch", false, "Fetch current prices from the Kraken public ticker")
	f.StringVar(&c.walletAsset, "wallet-asset", "BTC", "Asset of a single-coin wallet export without an asset column")
}

// loadEntries parses both export files. The wallet side is empty when
// no wallet file was given. Parser warnings are returned for the
// report; only unreadable files and schema errors are fatal.
func (c *inputFlags) loadEntries() (ledger []coinfolio.LedgerEntry, wallet []coinfolio.WalletEntry, warnings []coinfolio.Warning, err error) {
	lf, err := os.Open(c.ledgerFile)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("cannot open ledger file: %w", err)
	}
	defer lf.Close()
	ledger, warnings, err = coinfolio.ParseLedgerCSV(lf)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("cannot parse ledger %q: %w", c.ledgerFile, err)
	}

	if c.walletFile != "" {
		wf, err := os.Open(c.walletFile)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("cannot open wallet file: %w", err)
		}
		defer wf.Close()
		wentries, wwarnings, err := coinfolio.ParseWalletCSV(wf, c.walletAsset)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("cannot parse wallet %q: %w", c.walletFile, err)
		}
		wallet = wentries
		warnings = append(warnings, wwarnings...)
	}
	return ledger, wallet, warnings, nil
}

// loadPrices resolves the current price map: from the -prices JSON
// file, from the Kraken ticker with -fetch, or empty (the report then
// degrades value figures to unknown).
func (c *inputFlags) loadPrices(ledger []coinfolio.LedgerEntry) (map[string]coinfolio.Money, error) {
	prices := make(map[string]coinfolio.Money)

	if c.pricesFile != "" {
		content, err := os.ReadFile(c.pricesFile)
		if err != nil {
			return nil, fmt.Errorf("cannot read prices file: %w", err)
		}
		var raw map[string]float64
		if err := json.Unmarshal(content, &raw); err != nil {
			return nil, fmt.Errorf("cannot parse prices file %q: %w", c.pricesFile, err)
		}
		for asset, price := range raw {
			prices[coinfolio.NormalizeAsset(asset)] = coinfolio.M(price, c.currency)
		}
		return prices, nil
	}

	if c.fetch {
		raw, err := kraken.Prices(new(http.Client), heldAssets(ledger), c.currency)
		if err != nil {
			return nil, fmt.Errorf("cannot fetch prices: %w", err)
		}
		for asset, price := range raw {
			prices[asset] = coinfolio.M(price, c.currency)
		}
	}
	return prices, nil
}

// heldAssets lists the non-fiat assets appearing in the ledger.
func heldAssets(ledger []coinfolio.LedgerEntry) []string {
	seen := make(map[string]bool)
	var assets []string
	for _, e := range ledger {
		if coinfolio.IsFiat(e.Asset) || seen[e.Asset] {
			continue
		}
		seen[e.Asset] = true
		assets = append(assets, e.Asset)
	}
	return assets
}
