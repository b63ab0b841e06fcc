package coinfolio

import "github.com/shopspring/decimal"

// DCA simulation: project the blended average cost under hypothetical
// additional purchases. Operates on figures copied out of a Position
// snapshot; the real inventory is never touched.

// DCAConfig tunes a simulation run.
type DCAConfig struct {
	// FeeRate is the purchase fee deducted from each hypothetical
	// spend before it buys coins. Default 0.26%, a typical exchange
	// taker fee.
	FeeRate decimal.Decimal
}

// DefaultDCAConfig returns the default purchase fee rate of 0.26%.
func DefaultDCAConfig() DCAConfig {
	return DCAConfig{FeeRate: decimal.NewFromFloat(0.0026)}
}

// DCAStep is one hypothetical purchase folded into the average.
type DCAStep struct {
	Spend       Money    // fiat invested, fee included
	Bought      Quantity // coins acquired net of fee
	NewTotal    Quantity // total coins after the purchase
	NewAverage  Money    // new blended average cost per coin
	ReductionPc Percent  // drop of the average vs the starting average
}

// DCAProjection is the result of folding a schedule of purchases into
// an asset's historical buys.
type DCAProjection struct {
	Asset        string
	TotalBought  Quantity // historical coins bought for fiat
	TotalCost    Money    // historical fiat spent
	Average      Money    // current blended average cost per coin
	CurrentPrice Money
	InProfit     bool // current price at or above the average
	Steps        []DCAStep
}

// SimulateDCA projects the new average cost after each purchase in the
// schedule is folded in sequentially, each spend priced at the current
// price net of the purchase fee. The position snapshot is read, never
// mutated.
//
// It returns false when the position never bought anything for fiat or
// the current price is not positive: there is no average to project
// from.
func SimulateDCA(p *Position, currentPrice Money, schedule []Money, cfg DCAConfig) (DCAProjection, bool) {
	if p == nil || !currentPrice.IsPositive() {
		return DCAProjection{}, false
	}
	average, ok := p.AverageUnitCost()
	if !ok {
		return DCAProjection{}, false
	}

	proj := DCAProjection{
		Asset:        p.Asset,
		TotalBought:  p.Bought,
		TotalCost:    p.CostOfBuys,
		Average:      average,
		CurrentPrice: currentPrice,
		InProfit:     currentPrice.GreaterThanOrEqual(average),
	}

	runningCost := p.CostOfBuys
	runningQty := p.Bought
	one := decimal.NewFromInt(1)
	for _, spend := range schedule {
		net := M(spend.Decimal().Mul(one.Sub(cfg.FeeRate)), spend.Currency())
		bought := Q(net.Decimal().Div(currentPrice.Decimal()))

		runningCost = runningCost.Add(spend)
		runningQty = runningQty.Add(bought)
		newAverage := runningCost.Div(runningQty)

		var reduction decimal.Decimal
		if !average.IsZero() {
			reduction = average.Sub(newAverage).Decimal().
				Div(average.Decimal()).
				Mul(decimal.NewFromInt(100))
		}

		proj.Steps = append(proj.Steps, DCAStep{
			Spend:       spend,
			Bought:      bought,
			NewTotal:    runningQty,
			NewAverage:  newAverage,
			ReductionPc: Percent(reduction.InexactFloat64()),
		})
	}
	return proj, true
}
