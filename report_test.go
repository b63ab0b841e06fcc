package coinfolio

import (
	"errors"
	"testing"
)

func TestAssembleReport_UnpricedIsUnknownNotZero(t *testing.T) {
	ledger := grouped(at(10, 0), "B1", "BTC", 1, -10000)
	inv := ComputeCostBasis(ledger, FIFO, "EUR")

	report, err := AssembleReport(inv, nil, nil, nil, nil, false)
	if err != nil {
		t.Fatalf("AssembleReport() error = %v", err)
	}
	if report.FullyValued {
		t.Error("FullyValued = true, want false: BTC has no price")
	}
	if len(report.Assets) != 1 {
		t.Fatalf("Assets = %d, want 1", len(report.Assets))
	}
	a := report.Assets[0]
	if a.Valued {
		t.Error("Valued = true, want false")
	}
	// the holding and its cost are known regardless of the price
	if !a.Holding.Equal(Q(1)) || !a.CostBasis.Equal(EUR(10000)) {
		t.Errorf("Holding = %s, CostBasis = %s, want 1 and %s", a.Holding, a.CostBasis, EUR(10000))
	}
	if !report.TotalCost.Equal(EUR(10000)) {
		t.Errorf("TotalCost = %s, want %s: the cost basis is known without a price", report.TotalCost, EUR(10000))
	}
}

func TestAssembleReport_RequireValuation(t *testing.T) {
	ledger := grouped(at(10, 0), "B1", "BTC", 1, -10000)
	inv := ComputeCostBasis(ledger, FIFO, "EUR")

	_, err := AssembleReport(inv, nil, nil, nil, nil, true)
	var ide *IncompleteDataError
	if !errors.As(err, &ide) {
		t.Fatalf("AssembleReport() error = %v, want an IncompleteDataError", err)
	}
	if len(ide.Assets) != 1 || ide.Assets[0] != "BTC" {
		t.Errorf("Assets = %v, want [BTC]", ide.Assets)
	}
}

func TestAssembleReport_Valuation(t *testing.T) {
	ledger := grouped(at(10, 0), "B1", "BTC", 1, -10000)
	inv := ComputeCostBasis(ledger, FIFO, "EUR")
	prices := map[string]Money{"BTC": EUR(15000)}

	report, err := AssembleReport(inv, prices, nil, nil, nil, true)
	if err != nil {
		t.Fatalf("AssembleReport() error = %v", err)
	}
	if !report.FullyValued {
		t.Error("FullyValued = false, want true")
	}
	a := report.Assets[0]
	if !a.Value.Equal(EUR(15000)) {
		t.Errorf("Value = %s, want %s", a.Value, EUR(15000))
	}
	if !a.Unrealized.Equal(EUR(5000)) {
		t.Errorf("Unrealized = %s, want %s", a.Unrealized, EUR(5000))
	}
	if !report.NetPL.Equal(EUR(5000)) {
		t.Errorf("NetPL = %s, want %s", report.NetPL, EUR(5000))
	}
}

func TestAnalyze_EndToEnd(t *testing.T) {
	ledger := grouped(at(9, 0), "B1", "BTC", 1, -10000)
	ledger = append(ledger, ledgerRow(at(10, 0), Withdrawal, "BTC", -0.5, ""))
	wallet := []WalletEntry{walletRow(at(10, 30), "BTC", 0.4995, "tx1")}
	prices := map[string]Money{"BTC": EUR(20000)}

	prior := []Warning{{Source: "ledger", Err: &ParseError{Row: 7, Reason: "bad row"}}}
	report, err := Analyze(ledger, wallet, prices, prior, DefaultConfig())
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	if report.LedgerRows != 3 || report.WalletRows != 1 {
		t.Errorf("rows = %d/%d, want 3/1", report.LedgerRows, report.WalletRows)
	}
	if len(report.Warnings) == 0 || report.Warnings[0].Source != "ledger" {
		t.Errorf("Warnings = %v, want the parser warning carried in first", report.Warnings)
	}

	if len(report.Matches) != 1 || report.Matches[0].Kind != Matched {
		t.Fatalf("Matches = %+v, want the withdrawal matched", report.Matches)
	}
	if len(report.Totals) != 1 || !report.Totals[0].Difference.Equal(Q(-0.0005)) {
		t.Errorf("Totals = %+v, want a BTC line with difference -0.0005", report.Totals)
	}

	if len(report.DCA) != 1 || report.DCA[0].Asset != "BTC" {
		t.Fatalf("DCA = %+v, want one BTC projection", report.DCA)
	}
	if got := len(report.DCA[0].Steps); got != 5 {
		t.Errorf("DCA steps = %d, want the default 5 scenario ladder", got)
	}
	if !report.DCA[0].InProfit {
		t.Error("InProfit = false, want true at twice the purchase price")
	}
}

func TestAnalyze_NoPricesStillReports(t *testing.T) {
	ledger := grouped(at(9, 0), "B1", "BTC", 1, -10000)

	report, err := Analyze(ledger, nil, nil, nil, DefaultConfig())
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if report.FullyValued {
		t.Error("FullyValued = true, want false")
	}
	if len(report.DCA) != 0 {
		t.Errorf("DCA = %+v, want none without a current price", report.DCA)
	}
}
