package coinfolio

import (
	"errors"
	"strings"
	"testing"
	"time"
)

const krakenExport = `"txid","refid","time","type","subtype","aclass","asset","amount","fee"
"L1","T1","2024-03-10 10:00:00","trade","","currency","ZEUR","-1000.00","0"
"L2","T1","2024-03-10 10:00:00","trade","","currency","XXBT","0.02000000","0.00002000"
"L3","","2024-03-11 09:30:00","withdrawal","","currency","XXBT","-0.01000000","0.00001000"
"L4","","2024-03-12 08:00:00","earn","","currency","XXBT","0.00010000","0"
`

func TestParseLedgerCSV_KrakenExport(t *testing.T) {
	entries, warnings, err := ParseLedgerCSV(strings.NewReader(krakenExport))
	if err != nil {
		t.Fatalf("ParseLedgerCSV() error = %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("ParseLedgerCSV() warnings = %v, want none", warnings)
	}
	if len(entries) != 4 {
		t.Fatalf("ParseLedgerCSV() = %d entries, want 4", len(entries))
	}

	buy := entries[1]
	if buy.Asset != "BTC" {
		t.Errorf("Asset = %q, want BTC (normalized from XXBT)", buy.Asset)
	}
	if buy.Type != Trade {
		t.Errorf("Type = %s, want trade", buy.Type)
	}
	if buy.RefID != "T1" {
		t.Errorf("RefID = %q, want T1", buy.RefID)
	}
	if !buy.Fee.Equal(Q(0.00002)) {
		t.Errorf("Fee = %s, want 0.00002", buy.Fee)
	}
	if want := time.Date(2024, time.March, 10, 10, 0, 0, 0, time.UTC); !buy.Time.Equal(want) {
		t.Errorf("Time = %s, want %s", buy.Time, want)
	}

	if entries[0].Asset != "EUR" {
		t.Errorf("fiat leg Asset = %q, want EUR (normalized from ZEUR)", entries[0].Asset)
	}
	if entries[2].Type != Withdrawal {
		t.Errorf("Type = %s, want withdrawal", entries[2].Type)
	}
	if entries[3].Type != Staking {
		t.Errorf("Type = %s, want staking (classified from earn)", entries[3].Type)
	}
}

func TestParseLedgerCSV_HeaderAliases(t *testing.T) {
	// A different export revision: Date/Currency/Quantity instead of
	// time/asset/amount, RFC3339 timestamps, and a fiat value column.
	export := `Date,Type,Currency,Quantity,Value
2024-03-10T10:00:00Z,buy,BTC,0.5,15000
`
	entries, warnings, err := ParseLedgerCSV(strings.NewReader(export))
	if err != nil {
		t.Fatalf("ParseLedgerCSV() error = %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("warnings = %v, want none", warnings)
	}
	if len(entries) != 1 {
		t.Fatalf("ParseLedgerCSV() = %d entries, want 1", len(entries))
	}
	e := entries[0]
	if e.Asset != "BTC" || e.Type != Trade || !e.Amount.Equal(Q(0.5)) {
		t.Errorf("entry = %+v, want a 0.5 BTC trade", e)
	}
	if e.FiatValue.Decimal().InexactFloat64() != 15000 {
		t.Errorf("FiatValue = %s, want 15000", e.FiatValue.Decimal())
	}
}

func TestParseLedgerCSV_ByteOrderMark(t *testing.T) {
	// Windows exports prefix the file with a UTF-8 BOM, which lands on
	// the first header cell.
	export := "\ufefftime,type,asset,amount\n2024-03-10 10:00:00,deposit,BTC,1.0\n"
	entries, warnings, err := ParseLedgerCSV(strings.NewReader(export))
	if err != nil {
		t.Fatalf("ParseLedgerCSV() error = %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("warnings = %v, want none", warnings)
	}
	if len(entries) != 1 || !entries[0].Amount.Equal(Q(1)) {
		t.Errorf("ParseLedgerCSV() = %+v, want the single deposit row", entries)
	}
}

func TestParseLedgerCSV_MalformedRowsAreWarnings(t *testing.T) {
	export := `time,type,asset,amount
2024-03-10 10:00:00,deposit,BTC,1.0
not-a-date,deposit,BTC,1.0
2024-03-10 11:00:00,deposit,BTC,not-a-number
2024-03-10 12:00:00,deposit,BTC,2.0
`
	entries, warnings, err := ParseLedgerCSV(strings.NewReader(export))
	if err != nil {
		t.Fatalf("ParseLedgerCSV() error = %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("ParseLedgerCSV() = %d entries, want the 2 good rows", len(entries))
	}
	if len(warnings) != 2 {
		t.Fatalf("warnings = %d, want 2", len(warnings))
	}
	var pe *ParseError
	if !errors.As(warnings[0].Err, &pe) || pe.Row != 2 || pe.Column != "time" {
		t.Errorf("first warning = %v, want a row 2 time parse error", warnings[0].Err)
	}
	if !errors.As(warnings[1].Err, &pe) || pe.Row != 3 || pe.Column != "amount" {
		t.Errorf("second warning = %v, want a row 3 amount parse error", warnings[1].Err)
	}
}

func TestParseLedgerCSV_MissingColumnsRejectFile(t *testing.T) {
	export := `time,asset,amount
2024-03-10 10:00:00,BTC,1.0
`
	_, _, err := ParseLedgerCSV(strings.NewReader(export))
	var se *SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("ParseLedgerCSV() error = %v, want a SchemaError", err)
	}
	if len(se.Missing) != 1 || se.Missing[0] != "type" {
		t.Errorf("Missing = %v, want [type]", se.Missing)
	}
}

func TestParseLedgerCSV_SortsChronologically(t *testing.T) {
	export := `time,type,asset,amount
2024-03-12 10:00:00,deposit,BTC,3.0
2024-03-10 10:00:00,deposit,BTC,1.0
2024-03-11 10:00:00,deposit,BTC,2.0
`
	entries, _, err := ParseLedgerCSV(strings.NewReader(export))
	if err != nil {
		t.Fatalf("ParseLedgerCSV() error = %v", err)
	}
	for i := 1; i < len(entries); i++ {
		if entries[i].Time.Before(entries[i-1].Time) {
			t.Fatalf("entries out of order: %s before %s", entries[i].Time, entries[i-1].Time)
		}
	}
	if !entries[0].Amount.Equal(Q(1)) {
		t.Errorf("first entry amount = %s, want the oldest row", entries[0].Amount)
	}
}

func TestParseLedgerCSV_IsDeterministic(t *testing.T) {
	first, _, err := ParseLedgerCSV(strings.NewReader(krakenExport))
	if err != nil {
		t.Fatalf("ParseLedgerCSV() error = %v", err)
	}
	second, _, err := ParseLedgerCSV(strings.NewReader(krakenExport))
	if err != nil {
		t.Fatalf("ParseLedgerCSV() error = %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("two parses of the same input differ in length: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].String() != second[i].String() || first[i].Row != second[i].Row {
			t.Errorf("row %d differs between parses: %v vs %v", i, first[i], second[i])
		}
	}
}
