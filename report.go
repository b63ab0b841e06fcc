package coinfolio

// AssetSummary is the per-asset line of the portfolio report. Value
// and Unrealized are only meaningful when Valued is true: a held asset
// without a supplied price reports them as unknown, never as zero.
type AssetSummary struct {
	Asset        string
	Holding      Quantity
	Price        Money // current unit price, when supplied
	Value        Money // Holding * Price
	CostBasis    Money // cost basis of the open inventory
	Realized     Money
	Unrealized   Money
	Valued       bool // a current price was supplied
	Rewards      Quantity
	Withdrawn    Quantity
	Inconsistent bool // cost-basis figures flagged by inventory warnings
}

// PortfolioReport is the aggregate output of one analysis run:
// holdings and gains per asset, reconciliation results, DCA
// projections and every warning collected along the way. It is
// immutable once assembled and owned by the presentation layer after
// hand-off.
type PortfolioReport struct {
	Currency     string
	Method       CostBasisMethod
	Assets       []AssetSummary
	TotalValue   Money // over valued assets only
	TotalCost    Money // cost basis of every reported asset, priced or not
	NetPL        Money // value minus cost, over valued assets only
	FullyValued  bool  // every held asset had a price
	Matches      []MatchResult
	Totals       []ReconcileTotals
	DCA          []DCAProjection
	Warnings     []Warning
	LedgerRows   int
	WalletRows   int
}

// AssembleReport aggregates the cost-basis inventory, reconciliation
// results and DCA projections into a report, valuing holdings with the
// supplied prices. When requireValuation is set, a held asset without
// a price fails assembly with IncompleteDataError; otherwise that
// asset's value figures degrade to unknown and the report proceeds.
func AssembleReport(inv *Inventory, prices map[string]Money, matches []MatchResult, totals []ReconcileTotals, dca []DCAProjection, requireValuation bool) (*PortfolioReport, error) {
	report := &PortfolioReport{
		Currency:    inv.Currency,
		Method:      inv.Method,
		FullyValued: true,
		Matches:     matches,
		Totals:      totals,
		DCA:         dca,
		Warnings:    append([]Warning(nil), inv.Warnings()...),
	}

	var unpriced []string
	var valuedCost Money
	for _, asset := range inv.Assets() {
		p := inv.Position(asset)
		holding := p.Holding()
		if holding.IsZero() && p.Withdrawn.IsZero() && p.Realized.IsZero() {
			// dust-free asset with no history worth reporting
			continue
		}

		summary := AssetSummary{
			Asset:        asset,
			Holding:      holding,
			CostBasis:    p.CostBasis(),
			Realized:     p.Realized,
			Rewards:      p.Rewards,
			Withdrawn:    p.Withdrawn,
			Inconsistent: p.Inconsistent,
		}

		// The cost basis is known whether or not a price is: it always
		// counts toward the total. Only value figures need the price.
		report.TotalCost = report.TotalCost.Add(summary.CostBasis)

		price, ok := prices[asset]
		if ok && price.IsPositive() {
			summary.Valued = true
			summary.Price = price
			summary.Value = holding.MulPrice(price)
			summary.Unrealized = p.Unrealized(price)
			report.TotalValue = report.TotalValue.Add(summary.Value)
			valuedCost = valuedCost.Add(summary.CostBasis)
		} else if holding.IsPositive() {
			report.FullyValued = false
			unpriced = append(unpriced, asset)
		}

		report.Assets = append(report.Assets, summary)
	}

	if requireValuation && len(unpriced) > 0 {
		return nil, &IncompleteDataError{Assets: unpriced}
	}

	report.NetPL = report.TotalValue.Sub(valuedCost)
	return report, nil
}
