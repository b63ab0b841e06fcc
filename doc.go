// Package coinfolio reconciles a cryptocurrency exchange ledger export
// against a hardware-wallet transaction export and computes a portfolio
// report from the result.
//
// The core functionalities include:
//   - Parsing: Turning heterogeneous exchange and wallet CSV rows into
//     normalized LedgerEntry and WalletEntry records, tolerant of the
//     header aliases that appear across export revisions.
//   - Cost Basis: A per-asset lot inventory consumed first-in-first-out
//     (average cost is available as an alternative method), producing
//     realized and unrealized profit and loss with exact decimal
//     arithmetic.
//   - Reconciliation: Matching exchange withdrawals against wallet
//     receipts using asset, amount tolerance and time window heuristics,
//     partitioning both sides into matched, orphaned, unmatched and
//     ambiguous results.
//   - DCA Simulation: Projecting the blended average cost under
//     hypothetical additional purchases, without touching the real
//     inventory.
//   - Reporting: Assembling holdings, gains, reconciliation results and
//     DCA projections into a single immutable PortfolioReport.
//
// The package is a pure function of (ledger rows, wallet rows, prices,
// config): it performs no I/O and holds no state across invocations.
// File reading, price lookup and presentation live in the `cfo`
// command-line tool and its collaborators.
package coinfolio
