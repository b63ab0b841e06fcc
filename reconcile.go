package coinfolio

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// MatchKind classifies the outcome of reconciling one side.
type MatchKind int

const (
	// Matched pairs an exchange withdrawal with exactly one wallet receipt.
	Matched MatchKind = iota
	// Orphaned is a withdrawal with no wallet receipt in the window.
	Orphaned
	// Unmatched is a wallet receipt no withdrawal claimed.
	Unmatched
	// Ambiguous is a withdrawal with several equally ranked receipts,
	// surfaced for manual resolution rather than guessed.
	Ambiguous
)

func (k MatchKind) String() string {
	switch k {
	case Matched:
		return "matched"
	case Orphaned:
		return "orphaned"
	case Unmatched:
		return "unmatched"
	case Ambiguous:
		return "ambiguous"
	default:
		return "unknown"
	}
}

// MatchResult is the outcome of reconciling one withdrawal or one
// wallet receipt. Every withdrawal and every wallet entry appears in
// exactly one result.
type MatchResult struct {
	Kind       MatchKind
	Ledger     *LedgerEntry  // set for Matched, Orphaned, Ambiguous
	Wallet     *WalletEntry  // set for Matched, Unmatched
	Delta      Quantity      // sent minus received, Matched only
	Candidates []WalletEntry // the tied receipts, Ambiguous only
}

// ReconcileConfig tunes the matching heuristics.
type ReconcileConfig struct {
	// Tolerance is the relative amount tolerance: a receipt matches
	// when received >= sent*(1-Tolerance) and received <= sent. The
	// default absorbs on-chain network fees deducted in transit.
	Tolerance decimal.Decimal
	// Window bounds how long after the withdrawal a receipt may
	// confirm.
	Window time.Duration
}

// DefaultReconcileConfig returns the defaults: 1% amount tolerance,
// two hour confirmation window.
func DefaultReconcileConfig() ReconcileConfig {
	return ReconcileConfig{
		Tolerance: decimal.NewFromFloat(0.01),
		Window:    2 * time.Hour,
	}
}

// candidate is one wallet entry admissible for a given withdrawal,
// with its ranking deltas.
type candidate struct {
	index       int // into the wallet slice
	timeDelta   time.Duration
	amountDelta decimal.Decimal
}

// Reconcile matches Withdrawal-type ledger entries against incoming
// wallet transfers. A withdrawal and a receipt are candidates iff they
// share an asset, the received amount is within the relative tolerance
// of the sent amount, and the receipt confirms inside the window after
// the withdrawal. Candidates are ranked by smallest time delta, then
// smallest amount delta; the best one wins and is removed from further
// consideration.
//
// The assignment is greedy over withdrawals in chronological order:
// not globally optimal under contention, but deterministic and
// order-stable, which is what a discrepancy report needs.
func Reconcile(ledger []LedgerEntry, wallet []WalletEntry, cfg ReconcileConfig) []MatchResult {
	var withdrawals []LedgerEntry
	for _, e := range ledger {
		if e.Type == Withdrawal {
			withdrawals = append(withdrawals, e)
		}
	}
	sort.SliceStable(withdrawals, func(i, j int) bool {
		return withdrawals[i].Time.Before(withdrawals[j].Time)
	})

	claimed := make([]bool, len(wallet))
	var results []MatchResult

	for i := range withdrawals {
		w := withdrawals[i]
		candidates := admissible(w, wallet, claimed, cfg)
		switch {
		case len(candidates) == 0:
			results = append(results, MatchResult{Kind: Orphaned, Ledger: &withdrawals[i]})

		case len(candidates) > 1 && tied(candidates[0], candidates[1]):
			// every candidate tied with the best is listed
			var ties []WalletEntry
			for _, c := range candidates {
				if !tied(candidates[0], c) {
					break
				}
				ties = append(ties, wallet[c.index])
				claimed[c.index] = true
			}
			results = append(results, MatchResult{Kind: Ambiguous, Ledger: &withdrawals[i], Candidates: ties})

		default:
			best := candidates[0]
			claimed[best.index] = true
			results = append(results, MatchResult{
				Kind:   Matched,
				Ledger: &withdrawals[i],
				Wallet: &wallet[best.index],
				Delta:  Q(best.amountDelta),
			})
		}
	}

	for i := range wallet {
		if !claimed[i] && wallet[i].Amount.IsPositive() {
			results = append(results, MatchResult{Kind: Unmatched, Wallet: &wallet[i]})
		}
	}
	return results
}

// admissible returns the unclaimed wallet receipts satisfying the
// match rule for withdrawal w, ranked best first.
func admissible(w LedgerEntry, wallet []WalletEntry, claimed []bool, cfg ReconcileConfig) []candidate {
	sent := w.Amount.Abs().Decimal()
	// boundary inclusive on both sides: exactly at tolerance matches
	floor := sent.Mul(decimal.NewFromInt(1).Sub(cfg.Tolerance))

	var candidates []candidate
	for i, r := range wallet {
		if claimed[i] || r.Asset != w.Asset || !r.Amount.IsPositive() {
			continue
		}
		received := r.Amount.Decimal()
		if received.LessThan(floor) || received.GreaterThan(sent) {
			continue
		}
		delta := r.Time.Sub(w.Time)
		if delta < 0 || delta > cfg.Window {
			continue
		}
		candidates = append(candidates, candidate{
			index:       i,
			timeDelta:   delta,
			amountDelta: sent.Sub(received),
		})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].timeDelta != candidates[j].timeDelta {
			return candidates[i].timeDelta < candidates[j].timeDelta
		}
		return candidates[i].amountDelta.LessThan(candidates[j].amountDelta)
	})
	return candidates
}

// tied reports whether two candidates rank equal: same time delta and
// same amount delta. Exact equality is deliberate, a fuzzy threshold
// could flip a clean match into an ambiguity by rounding.
func tied(a, b candidate) bool {
	return a.timeDelta == b.timeDelta && a.amountDelta.Equal(b.amountDelta)
}

// ReconcileTotals sums both sides of the reconciliation for one asset:
// total withdrawn from the exchange, total received by the wallet, and
// the difference.
type ReconcileTotals struct {
	Asset       string
	ExchangeOut Quantity
	WalletIn    Quantity
	Difference  Quantity // WalletIn - ExchangeOut
}

// Totals computes the per-asset reconciliation totals line.
func Totals(ledger []LedgerEntry, wallet []WalletEntry, asset string) ReconcileTotals {
	asset = NormalizeAsset(asset)
	t := ReconcileTotals{Asset: asset}
	for _, e := range ledger {
		if e.Type == Withdrawal && e.Asset == asset {
			t.ExchangeOut = t.ExchangeOut.Add(e.Amount.Abs())
		}
	}
	for _, e := range wallet {
		if e.Asset == asset && e.Amount.IsPositive() {
			t.WalletIn = t.WalletIn.Add(e.Amount)
		}
	}
	t.Difference = t.WalletIn.Sub(t.ExchangeOut)
	return t
}
