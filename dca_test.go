package coinfolio

import (
	"testing"

	"github.com/shopspring/decimal"
)

func feeFree() DCAConfig { return DCAConfig{FeeRate: decimal.Zero} }

func TestSimulateDCA_AveragesDown(t *testing.T) {
	// Bought 1 BTC for 40000, price has halved to 20000.
	p := &Position{Asset: "BTC", CostOfBuys: EUR(40000), Bought: Q(1)}

	proj, ok := SimulateDCA(p, EUR(20000), []Money{EUR(20000)}, feeFree())
	if !ok {
		t.Fatal("SimulateDCA() = false, want a projection")
	}
	if !proj.Average.Equal(EUR(40000)) {
		t.Errorf("Average = %s, want %s", proj.Average, EUR(40000))
	}
	if proj.InProfit {
		t.Error("InProfit = true, want false: the price is below the average")
	}
	if len(proj.Steps) != 1 {
		t.Fatalf("Steps = %d, want 1", len(proj.Steps))
	}

	step := proj.Steps[0]
	if !step.Bought.Equal(Q(1)) {
		t.Errorf("Bought = %s, want 1", step.Bought)
	}
	if !step.NewTotal.Equal(Q(2)) {
		t.Errorf("NewTotal = %s, want 2", step.NewTotal)
	}
	if !step.NewAverage.Equal(EUR(30000)) {
		t.Errorf("NewAverage = %s, want %s", step.NewAverage, EUR(30000))
	}
	if !step.ReductionPc.Equal(Percent(25)) {
		t.Errorf("ReductionPc = %s, want 25%%", step.ReductionPc)
	}
}

func TestSimulateDCA_StepsAreCumulative(t *testing.T) {
	p := &Position{Asset: "BTC", CostOfBuys: EUR(40000), Bought: Q(1)}

	proj, ok := SimulateDCA(p, EUR(20000), []Money{EUR(10000), EUR(10000)}, feeFree())
	if !ok {
		t.Fatal("SimulateDCA() = false, want a projection")
	}
	if len(proj.Steps) != 2 {
		t.Fatalf("Steps = %d, want 2", len(proj.Steps))
	}
	// both steps folded in: 60000 spent over 2 coins
	last := proj.Steps[1]
	if !last.NewTotal.Equal(Q(2)) {
		t.Errorf("NewTotal = %s, want 2", last.NewTotal)
	}
	if !last.NewAverage.Equal(EUR(30000)) {
		t.Errorf("NewAverage = %s, want %s", last.NewAverage, EUR(30000))
	}
	if last.NewAverage.GreaterThan(proj.Steps[0].NewAverage) {
		t.Error("averaging down: each step must not raise the average")
	}
}

func TestSimulateDCA_PurchaseFeeReducesCoinsNotCost(t *testing.T) {
	p := &Position{Asset: "BTC", CostOfBuys: EUR(40000), Bought: Q(1)}

	proj, ok := SimulateDCA(p, EUR(20000), []Money{EUR(10000)}, DefaultDCAConfig())
	if !ok {
		t.Fatal("SimulateDCA() = false, want a projection")
	}
	step := proj.Steps[0]
	// 0.26% of the spend never buys coins: 9974 / 20000
	if !step.Bought.Equal(Q(0.4987)) {
		t.Errorf("Bought = %s, want 0.4987", step.Bought)
	}
	// the full spend still counts as cost
	feeless, _ := SimulateDCA(p, EUR(20000), []Money{EUR(10000)}, feeFree())
	if !step.NewAverage.GreaterThan(feeless.Steps[0].NewAverage) {
		t.Error("the purchase fee must raise the projected average")
	}
}

func TestSimulateDCA_InProfit(t *testing.T) {
	p := &Position{Asset: "BTC", CostOfBuys: EUR(10000), Bought: Q(1)}

	proj, ok := SimulateDCA(p, EUR(15000), nil, feeFree())
	if !ok {
		t.Fatal("SimulateDCA() = false, want a projection")
	}
	if !proj.InProfit {
		t.Error("InProfit = false, want true: the price is above the average")
	}
}

func TestSimulateDCA_NothingToProjectFrom(t *testing.T) {
	if _, ok := SimulateDCA(nil, EUR(20000), nil, feeFree()); ok {
		t.Error("SimulateDCA(nil position) = true, want false")
	}
	p := &Position{Asset: "BTC"}
	if _, ok := SimulateDCA(p, EUR(20000), nil, feeFree()); ok {
		t.Error("SimulateDCA(never bought) = true, want false")
	}
	p = &Position{Asset: "BTC", CostOfBuys: EUR(10000), Bought: Q(1)}
	if _, ok := SimulateDCA(p, EUR(0), nil, feeFree()); ok {
		t.Error("SimulateDCA(zero price) = true, want false")
	}
}
