package coinfolio

import "github.com/shopspring/decimal"

// Config is the full configuration surface of one analysis run.
type Config struct {
	Currency         string // reporting currency, e.g. "EUR"
	Method           CostBasisMethod
	Reconcile        ReconcileConfig
	DCA              DCAConfig
	DCAAssets        []string          // assets to project, default BTC
	DCASchedule      []decimal.Decimal // hypothetical fiat spends per asset
	RequireValuation bool              // fail instead of degrading to unknown
}

// DefaultConfig returns the defaults: EUR reporting, FIFO cost basis,
// 1% reconciliation tolerance in a two hour window, BTC DCA scenarios
// over the usual spend ladder.
func DefaultConfig() Config {
	return Config{
		Currency:    "EUR",
		Method:      FIFO,
		Reconcile:   DefaultReconcileConfig(),
		DCA:         DefaultDCAConfig(),
		DCAAssets:   []string{"BTC"},
		DCASchedule: defaultDCASchedule(),
	}
}

func defaultDCASchedule() []decimal.Decimal {
	var schedule []decimal.Decimal
	for _, v := range []int64{100, 200, 500, 1000, 2000} {
		schedule = append(schedule, decimal.NewFromInt(v))
	}
	return schedule
}

// Analyze is the core entry point: one ledger plus one wallet in, one
// report out. It is a pure function of its inputs, performs no I/O and
// shares no state across invocations; callers wanting concurrency run
// independent invocations.
//
// priorWarnings, typically the parsers' output, are carried into the
// report ahead of the warnings this run produces, so the report always
// enumerates every issue alongside its figures.
func Analyze(ledger []LedgerEntry, wallet []WalletEntry, prices map[string]Money, priorWarnings []Warning, cfg Config) (*PortfolioReport, error) {
	inv := ComputeCostBasis(ledger, cfg.Method, cfg.Currency)
	matches := Reconcile(ledger, wallet, cfg.Reconcile)

	// One totals line per asset seen on the wallet side.
	walletAssets := make(map[string]bool)
	var totals []ReconcileTotals
	for _, e := range wallet {
		if !walletAssets[e.Asset] {
			walletAssets[e.Asset] = true
			totals = append(totals, Totals(ledger, wallet, e.Asset))
		}
	}

	var projections []DCAProjection
	for _, asset := range cfg.DCAAssets {
		asset = NormalizeAsset(asset)
		price, ok := prices[asset]
		if !ok {
			continue
		}
		schedule := make([]Money, 0, len(cfg.DCASchedule))
		for _, spend := range cfg.DCASchedule {
			schedule = append(schedule, M(spend, cfg.Currency))
		}
		if proj, ok := SimulateDCA(inv.Position(asset), price, schedule, cfg.DCA); ok {
			projections = append(projections, proj)
		}
	}

	report, err := AssembleReport(inv, prices, matches, totals, projections, cfg.RequireValuation)
	if err != nil {
		return nil, err
	}
	report.Warnings = append(append([]Warning(nil), priorWarnings...), report.Warnings...)
	report.LedgerRows = len(ledger)
	report.WalletRows = len(wallet)
	return report, nil
}
