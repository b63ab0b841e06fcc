package renderer

import (
	"fmt"
	"strings"
	"time"

	"github.com/hmelin/coinfolio"
)

const stamp = "2006-01-02 15:04"

// ReconciliationMarkdown renders the withdrawal verification table:
// one row per match result, followed by the per-asset totals line.
func ReconciliationMarkdown(matches []coinfolio.MatchResult, totals []coinfolio.ReconcileTotals) string {
	var b strings.Builder

	fmt.Fprint(&b, "## Wallet Verification\n\n")
	if len(matches) == 0 {
		fmt.Fprint(&b, "No withdrawals or wallet transfers to reconcile.\n\n")
		return b.String()
	}

	fmt.Fprintln(&b, "| Exchange Date | Asset | Amount | Status | Wallet Match |")
	fmt.Fprintln(&b, "|:---|:---|---:|:---|:---|")
	for _, m := range matches {
		switch m.Kind {
		case coinfolio.Matched:
			fmt.Fprintf(&b, "| %s | %s | %s | ✅ matched | %s on %s (delta %s) |\n",
				m.Ledger.Time.Format(stamp), m.Ledger.Asset, m.Ledger.Amount.Abs(),
				m.Wallet.Amount, m.Wallet.Time.Format(stamp), m.Delta)
		case coinfolio.Orphaned:
			fmt.Fprintf(&b, "| %s | %s | %s | ❌ orphaned | no wallet receipt found |\n",
				m.Ledger.Time.Format(stamp), m.Ledger.Asset, m.Ledger.Amount.Abs())
		case coinfolio.Ambiguous:
			fmt.Fprintf(&b, "| %s | %s | %s | ⚠ ambiguous | %d tied receipts, resolve manually |\n",
				m.Ledger.Time.Format(stamp), m.Ledger.Asset, m.Ledger.Amount.Abs(), len(m.Candidates))
		case coinfolio.Unmatched:
			fmt.Fprintf(&b, "| %s | %s | %s | ⚠ unmatched | wallet receipt with no withdrawal |\n",
				m.Wallet.Time.Format(stamp), m.Wallet.Asset, m.Wallet.Amount)
		}
	}
	fmt.Fprintln(&b)

	for _, t := range totals {
		fmt.Fprintf(&b, "**%s totals** — exchange out: %s, wallet in: %s, difference: %s\n\n",
			t.Asset, t.ExchangeOut, t.WalletIn, signedQuantity(t.Difference))
	}
	return b.String()
}

func signedQuantity(q coinfolio.Quantity) string {
	if q.IsPositive() {
		return "+" + q.String()
	}
	return q.String()
}

// AmbiguousDetail renders the tied candidates of one ambiguous match
// for manual resolution.
func AmbiguousDetail(m coinfolio.MatchResult) string {
	if m.Kind != coinfolio.Ambiguous {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Withdrawal of %s %s at %s has %d equally ranked receipts:\n",
		m.Ledger.Amount.Abs(), m.Ledger.Asset, m.Ledger.Time.Format(time.RFC3339), len(m.Candidates))
	for _, c := range m.Candidates {
		fmt.Fprintf(&b, "- %s at %s (%s)\n", c.Amount, c.Time.Format(time.RFC3339), c.TxHash)
	}
	return b.String()
}
