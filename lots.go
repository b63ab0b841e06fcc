package coinfolio

import "time"

// Lot is an open cost-basis position created by an inflow. It is
// partially or fully consumed by later outflows following the
// accounting method, and removed from the inventory when nothing
// remains.
//
// The lot carries its total Cost rather than a unit cost: partial
// consumption splits Cost proportionally and keeps the remainder, so
// the consumed and remaining parts always sum back to the original
// spend exactly. A stored unit cost would not survive the division.
type Lot struct {
	Asset      string
	Remaining  Quantity
	Cost       Money // cost basis of what remains of the lot
	AcquiredAt time.Time
}

// UnitCost derives the per-unit cost of what remains.
func (l Lot) UnitCost() Money {
	if l.Remaining.IsZero() {
		return Money{}
	}
	return l.Cost.Div(l.Remaining)
}

type lots []Lot

// totalRemaining sums the open quantity across lots.
func (l lots) totalRemaining() Quantity {
	var total Quantity
	for _, lot := range l {
		total = total.Add(lot.Remaining)
	}
	return total
}

// costBasis sums the cost of all open lots.
func (l lots) costBasis() Money {
	var total Money
	for _, lot := range l {
		total = total.Add(lot.Cost)
	}
	return total
}

// dispose consumes a quantity from the inventory and returns the
// remaining lots, the cost basis of the consumed portion, and the
// shortfall left unfilled when the inventory runs out.
//
// Under FIFO the oldest lot is depleted first. Under AverageCost every
// lot is reduced by the same proportion, which prices the disposal at
// the blended average unit cost while preserving acquisition dates.
// Either way a partially consumed lot keeps Cost minus the consumed
// portion, so money is conserved across the split.
func (l lots) dispose(quantity Quantity, method CostBasisMethod) (remaining lots, cost Money, short Quantity) {
	available := l.totalRemaining()
	if quantity.GreaterThan(available) {
		short = quantity.Sub(available)
		quantity = available
	}
	if quantity.IsZero() {
		return l, cost, short
	}

	switch method {
	case AverageCost:
		left := quantity
		for i, lot := range l {
			portion := lot.Remaining.Mul(quantity).Div(available)
			if i == len(l)-1 || portion.GreaterThan(left) {
				// the last lot absorbs the division remainder
				portion = left
			}
			portionCost := lot.Cost.Mul(portion).Div(lot.Remaining)
			cost = cost.Add(portionCost)
			lot.Remaining = lot.Remaining.Sub(portion)
			lot.Cost = lot.Cost.Sub(portionCost)
			left = left.Sub(portion)
			if lot.Remaining.IsPositive() {
				remaining = append(remaining, lot)
			}
		}
		return remaining, cost, short

	default: // FIFO
		for _, lot := range l {
			if quantity.IsZero() {
				remaining = append(remaining, lot)
				continue
			}
			if lot.Remaining.GreaterThan(quantity) {
				// partial consumption of this lot
				portion := lot.Cost.Mul(quantity).Div(lot.Remaining)
				cost = cost.Add(portion)
				lot.Remaining = lot.Remaining.Sub(quantity)
				lot.Cost = lot.Cost.Sub(portion)
				remaining = append(remaining, lot)
				quantity = Q(0)
			} else {
				// full consumption
				cost = cost.Add(lot.Cost)
				quantity = quantity.Sub(lot.Remaining)
			}
		}
		return remaining, cost, short
	}
}
