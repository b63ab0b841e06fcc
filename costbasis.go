package coinfolio

import (
	"fmt"
	"sort"
)

// CostBasisMethod defines the method for calculating cost basis.
type CostBasisMethod int

const (
	// FIFO (First-In, First-Out) assumes the first coins acquired are the first ones disposed of.
	FIFO CostBasisMethod = iota
	// AverageCost prices every disposal at the blended average cost of the open inventory.
	AverageCost
)

func (m CostBasisMethod) String() string {
	switch m {
	case FIFO:
		return "fifo"
	case AverageCost:
		return "average"
	default:
		return "unknown"
	}
}

// ParseCostBasisMethod parses a string into a CostBasisMethod.
func ParseCostBasisMethod(s string) (CostBasisMethod, error) {
	switch s {
	case "fifo":
		return FIFO, nil
	case "average":
		return AverageCost, nil
	default:
		return 0, fmt.Errorf("unknown cost basis method: %q", s)
	}
}

// Position is the accumulated cost-basis state of one asset.
type Position struct {
	Asset        string
	Lots         lots     // open inventory, ordered by acquisition time
	Realized     Money    // realized gain across all disposals
	CostOfBuys   Money    // total fiat ever spent acquiring the asset
	Bought       Quantity // total quantity ever acquired for fiat
	Inflow       Quantity // total inflow quantity (conservation)
	Consumed     Quantity // total quantity consumed from lots (conservation)
	Rewards      Quantity // staking / earn inflows
	Withdrawn    Quantity // moved out to a private wallet
	Inconsistent bool     // an outflow exceeded the tracked inventory
}

// Holding returns the quantity currently held.
func (p *Position) Holding() Quantity { return p.Lots.totalRemaining() }

// CostBasis returns the cost basis of the open inventory.
func (p *Position) CostBasis() Money { return p.Lots.costBasis() }

// AverageUnitCost returns the blended average cost per unit ever
// bought (total fiat spent over total quantity bought), the figure the
// DCA simulator averages down from. The boolean is false when nothing
// was ever bought for fiat.
func (p *Position) AverageUnitCost() (Money, bool) {
	if !p.Bought.IsPositive() {
		return Money{}, false
	}
	return p.CostOfBuys.Div(p.Bought), true
}

// Unrealized returns the unrealized gain of the open inventory at the
// given current unit price.
func (p *Position) Unrealized(price Money) Money {
	var gain Money
	for _, lot := range p.Lots {
		gain = gain.Add(price.Mul(lot.Remaining).Sub(lot.Cost))
	}
	return gain
}

// Inventory is the output of the cost-basis engine: one Position per
// asset, plus the warnings accumulated while replaying the ledger.
// It must not be reused across analysis runs.
type Inventory struct {
	Method    CostBasisMethod
	Currency  string // reporting currency of all Money figures
	positions map[string]*Position
	warnings  []Warning
}

// Position returns the state of one asset, or nil when the ledger
// never touched it.
func (inv *Inventory) Position(asset string) *Position {
	return inv.positions[NormalizeAsset(asset)]
}

// Assets returns the tracked (non-fiat) assets in lexical order.
func (inv *Inventory) Assets() []string {
	assets := make([]string, 0, len(inv.positions))
	for asset := range inv.positions {
		assets = append(assets, asset)
	}
	sort.Strings(assets)
	return assets
}

// Warnings returns data-integrity warnings found while replaying the
// ledger, in ledger order.
func (inv *Inventory) Warnings() []Warning { return inv.warnings }

func (inv *Inventory) position(asset string) *Position {
	p, ok := inv.positions[asset]
	if !ok {
		p = &Position{Asset: asset}
		inv.positions[asset] = p
	}
	return p
}

// tradeGroup is the net effect of the legs sharing one reference id:
// one atomic exchange operation, e.g. a buy leg plus its fee leg.
type tradeGroup struct {
	fiatFlow Money        // net fiat movement (negative = spent)
	fiatFee  Money        // fiat-denominated fees in the group
	grouped  bool         // more than one leg shares the reference id
	feeRows  map[int]bool // rows of Fee legs folded into the group
}

// groupByRef nets the fiat legs of multi-leg operations so that a buy
// leg can be priced by its sibling fiat leg, and fee legs are folded
// into the cost basis of the operation instead of being realized on
// their own.
func groupByRef(entries []LedgerEntry, currency string) map[string]*tradeGroup {
	count := make(map[string]int)
	for _, e := range entries {
		if e.RefID != "" {
			count[e.RefID]++
		}
	}
	groups := make(map[string]*tradeGroup)
	for _, e := range entries {
		if e.RefID == "" || count[e.RefID] < 2 {
			continue
		}
		g, ok := groups[e.RefID]
		if !ok {
			g = &tradeGroup{grouped: true, feeRows: make(map[int]bool)}
			groups[e.RefID] = g
		}
		if !IsFiat(e.Asset) {
			continue
		}
		switch e.Type {
		case Fee:
			g.fiatFee = g.fiatFee.Add(M(e.Amount.Abs().Decimal(), currency))
			g.feeRows[e.Row] = true
		default:
			g.fiatFlow = g.fiatFlow.Add(M(e.Amount.Decimal(), currency))
			g.fiatFee = g.fiatFee.Add(M(e.Fee.Abs().Decimal(), currency))
		}
	}
	return groups
}

// ComputeCostBasis replays a chronologically ordered ledger through a
// per-asset lot inventory. Fiat rows only contribute through reference
// id groups; coins are tracked as lots.
//
// Outflows beyond the tracked inventory are reported as
// InsufficientInventoryError warnings and the asset is marked
// inconsistent; the run continues (the shortfall is not clamped into
// the realized figures silently, it is surfaced).
func ComputeCostBasis(entries []LedgerEntry, method CostBasisMethod, currency string) *Inventory {
	inv := &Inventory{
		Method:    method,
		Currency:  currency,
		positions: make(map[string]*Position),
	}
	groups := groupByRef(entries, currency)

	for _, e := range entries {
		if IsFiat(e.Asset) {
			continue
		}
		p := inv.position(e.Asset)
		group := groups[e.RefID]

		// fiatValue prices this leg: the sibling fiat leg of the group
		// when one exists, otherwise the row's own fiat column.
		var value Money
		var priced bool
		switch {
		case group != nil && !group.fiatFlow.IsZero():
			value = group.fiatFlow.Abs().Add(group.fiatFee)
			priced = true
		case !e.FiatValue.IsZero():
			value = M(e.FiatValue.Decimal().Abs(), currency)
			priced = true
		}

		switch e.Type {
		case Deposit, Staking:
			quantity := e.Amount.Abs()
			cost := M(0, currency)
			if priced {
				cost = value
			}
			inv.acquire(p, e, quantity, cost)
			if e.Type == Staking {
				p.Rewards = p.Rewards.Add(quantity)
			}

		case Trade:
			if e.Amount.IsPositive() {
				// Buy leg: the crypto-denominated fee reduces what was
				// actually received while the full group cost is kept,
				// folding the fee into the lot's cost basis.
				quantity := e.Amount.Sub(e.Fee)
				cost := M(0, currency)
				if priced {
					cost = value
				}
				inv.acquire(p, e, quantity, cost)
				if priced {
					p.CostOfBuys = p.CostOfBuys.Add(value)
					p.Bought = p.Bought.Add(quantity)
				}
			} else {
				// Sell leg: proceeds come from the sibling fiat leg,
				// net of grouped fees.
				quantity := e.Amount.Abs().Add(e.Fee)
				proceeds := M(0, currency)
				if group != nil && !group.fiatFlow.IsZero() {
					proceeds = group.fiatFlow.Abs().Sub(group.fiatFee)
				} else if priced {
					proceeds = value
				}
				cost := inv.consume(p, e, quantity)
				p.Realized = p.Realized.Add(proceeds.Sub(cost))
			}

		case Withdrawal:
			// A withdrawal is a transfer, not a disposal: the cost
			// basis leaves the exchange with the coins, no gain is
			// realized unless the export prices the row.
			quantity := e.Amount.Abs().Add(e.Fee)
			cost := inv.consume(p, e, quantity)
			if priced {
				p.Realized = p.Realized.Add(value.Sub(cost))
			}
			p.Withdrawn = p.Withdrawn.Add(e.Amount.Abs())

		case Fee:
			// Standalone fee: a pure cost realized as a loss. Fee legs
			// folded into a reference-id group were already counted in
			// that group's cost basis.
			if group != nil && group.feeRows[e.Row] {
				continue
			}
			quantity := e.Amount.Abs().Add(e.Fee)
			cost := inv.consume(p, e, quantity)
			p.Realized = p.Realized.Sub(cost)

		default: // Other
			// Unrecognized rows move quantity but cannot be priced.
			if e.Amount.IsPositive() {
				inv.acquire(p, e, e.Amount, M(0, currency))
			} else if e.Amount.IsNegative() {
				inv.consume(p, e, e.Amount.Abs())
			}
		}
	}
	return inv
}

// acquire opens a lot carrying the full cost of the inflow, so that
// the spend round-trips exactly through later partial disposals.
func (inv *Inventory) acquire(p *Position, e LedgerEntry, quantity Quantity, cost Money) {
	if !quantity.IsPositive() {
		return
	}
	p.Lots = append(p.Lots, Lot{
		Asset:      p.Asset,
		Remaining:  quantity,
		Cost:       cost,
		AcquiredAt: e.Time,
	})
	p.Inflow = p.Inflow.Add(quantity)
}

func (inv *Inventory) consume(p *Position, e LedgerEntry, quantity Quantity) Money {
	remaining, cost, short := p.Lots.dispose(quantity, inv.Method)
	p.Lots = remaining
	p.Consumed = p.Consumed.Add(quantity.Sub(short))
	if short.IsPositive() {
		p.Inconsistent = true
		inv.warnings = append(inv.warnings, Warning{Source: "costbasis", Err: &InsufficientInventoryError{
			Asset:     p.Asset,
			At:        e.Time,
			Requested: quantity,
			Available: quantity.Sub(short),
		}})
	}
	return cost
}
