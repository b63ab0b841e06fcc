// Package renderer renders portfolio reports to markdown. The cmd
// layer decides how the markdown reaches the terminal.
package renderer

import (
	"fmt"
	"strings"

	"github.com/hmelin/coinfolio"
)

// ReportMarkdown renders the full portfolio report: holdings, gains,
// reconciliation, DCA projections and warnings.
func ReportMarkdown(r *coinfolio.PortfolioReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Portfolio Summary (%s, %s cost basis)\n\n", r.Currency, r.Method)
	fmt.Fprintf(&b, "%d ledger rows, %d wallet rows analyzed.\n\n", r.LedgerRows, r.WalletRows)

	writeHoldings(&b, r)

	if len(r.Matches) > 0 || len(r.Totals) > 0 {
		b.WriteString(ReconciliationMarkdown(r.Matches, r.Totals))
	}
	for i := range r.DCA {
		b.WriteString(DCAMarkdown(&r.DCA[i]))
	}
	writeWarnings(&b, r.Warnings)

	fmt.Fprint(&b, "Term definitions: `cfo topic glossary`\n")
	return b.String()
}

// HoldingMarkdown renders only the holdings and cost-basis table.
func HoldingMarkdown(r *coinfolio.PortfolioReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Holdings (%s cost basis)\n\n", r.Method)
	writeHoldings(&b, r)
	writeWarnings(&b, r.Warnings)
	return b.String()
}

func writeHoldings(b *strings.Builder, r *coinfolio.PortfolioReport) {
	fmt.Fprintln(b, "| Asset | Balance | Price | Value | Cost | Realized | Unrealized | Rewards | Wallet |")
	fmt.Fprintln(b, "|:---|---:|---:|---:|---:|---:|---:|---:|---:|")

	for _, a := range r.Assets {
		asset := a.Asset
		if a.Inconsistent {
			// flagged by an inventory warning listed below
			asset += " ⚠"
		}
		price, value, unrealized := "?", "?", "?"
		if a.Valued {
			price = a.Price.String()
			value = a.Value.String()
			unrealized = a.Unrealized.SignedString()
		}
		fmt.Fprintf(b, "| %s | %s | %s | %s | %s | %s | %s | %s | %s |\n",
			asset, a.Holding, price, value, a.CostBasis,
			a.Realized.SignedString(), unrealized, a.Rewards, a.Withdrawn)
	}
	fmt.Fprintf(b, "| **Total** | | | **%s** | **%s** | | | | |\n\n", totalOrUnknown(r.TotalValue, r.FullyValued), r.TotalCost)

	if r.FullyValued {
		fmt.Fprintf(b, "Net P/L: **%s**\n\n", r.NetPL.SignedString())
	} else {
		fmt.Fprint(b, "Net P/L: **?** (missing prices, see warnings)\n\n")
	}
}

func totalOrUnknown(m coinfolio.Money, valued bool) string {
	if !valued {
		return "? (partial: " + m.String() + ")"
	}
	return m.String()
}

func writeWarnings(b *strings.Builder, warnings []coinfolio.Warning) {
	if len(warnings) == 0 {
		return
	}
	fmt.Fprintf(b, "## Warnings (%d)\n\n", len(warnings))
	for _, w := range warnings {
		fmt.Fprintf(b, "- %s\n", w)
	}
	fmt.Fprintln(b)
}
