package coinfolio

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// This file implements the exchange ledger parser: raw CSV rows in,
// normalized LedgerEntry records out. Column names vary across export
// revisions, so each logical column is resolved through a list of
// known header aliases.

var ledgerAliases = map[string][]string{
	"time":   {"time", "date", "datetime", "timestamp"},
	"type":   {"type"},
	"asset":  {"asset", "currency", "symbol", "coin"},
	"amount": {"amount", "quantity", "vol", "volume"},
	"fiat":   {"amountusd", "amount (usd)", "value", "fiat", "fiat_value", "cost"},
	"fee":    {"fee", "fees"},
	"refid":  {"refid", "txid", "reference", "ref"},
}

// requiredLedgerColumns must all resolve for the file to be accepted.
var requiredLedgerColumns = []string{"time", "type", "asset", "amount"}

// timeLayouts are tried in order when parsing a timestamp cell.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"1/2/2006 15:04",
}

func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format %q", s)
}

func parseAmount(s string) (Quantity, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Quantity{}, fmt.Errorf("not a number: %q", s)
	}
	return Q(d), nil
}

// header resolves logical column names to indices in the header row.
type header map[string]int

func resolveHeader(row []string, aliases map[string][]string) header {
	index := make(map[string]int, len(row))
	for i, name := range row {
		name = strings.TrimPrefix(name, "\ufeff") // utf-8 BOM on the first cell
		index[strings.ToLower(strings.Trim(strings.TrimSpace(name), `"`))] = i
	}
	h := make(header)
	for logical, names := range aliases {
		for _, name := range names {
			if i, ok := index[name]; ok {
				h[logical] = i
				break
			}
		}
	}
	return h
}

// cell returns the trimmed value of a logical column, or "" when the
// column is absent from this export revision or the row is short.
func (h header) cell(record []string, logical string) string {
	i, ok := h[logical]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

// ParseLedgerCSV reads an exchange ledger export and returns the
// normalized entries in chronological order (stable, ties keep file
// order). Malformed rows are collected as warnings and skipped; the
// file as a whole is only rejected when no recognizable header is
// found (SchemaError) or the CSV itself is unreadable.
//
// Parsing is pure: the same input always yields the same entries.
func ParseLedgerCSV(r io.Reader) ([]LedgerEntry, []Warning, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	headerRow, err := cr.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("cannot read ledger header: %w", err)
	}
	h := resolveHeader(headerRow, ledgerAliases)
	var missing []string
	for _, logical := range requiredLedgerColumns {
		if _, ok := h[logical]; !ok {
			missing = append(missing, logical)
		}
	}
	if len(missing) > 0 {
		return nil, nil, &SchemaError{Missing: missing}
	}

	var entries []LedgerEntry
	var warnings []Warning
	for row := 1; ; row++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			warnings = append(warnings, Warning{Source: "ledger", Err: &ParseError{Row: row, Reason: err.Error()}})
			continue
		}

		when, err := parseTimestamp(h.cell(record, "time"))
		if err != nil {
			warnings = append(warnings, Warning{Source: "ledger", Err: &ParseError{Row: row, Column: "time", Reason: err.Error()}})
			continue
		}
		amount, err := parseAmount(h.cell(record, "amount"))
		if err != nil {
			warnings = append(warnings, Warning{Source: "ledger", Err: &ParseError{Row: row, Column: "amount", Reason: err.Error()}})
			continue
		}

		entry := LedgerEntry{
			Time:   when,
			Asset:  NormalizeAsset(h.cell(record, "asset")),
			Type:   ClassifyEntryType(h.cell(record, "type")),
			Amount: amount,
			RefID:  h.cell(record, "refid"),
			Row:    row,
		}

		// Optional columns: a malformed value degrades to absent with a
		// warning, the row itself survives.
		if s := h.cell(record, "fee"); s != "" {
			fee, err := parseAmount(s)
			if err != nil {
				warnings = append(warnings, Warning{Source: "ledger", Err: &ParseError{Row: row, Column: "fee", Reason: err.Error()}})
			} else {
				entry.Fee = fee.Abs()
			}
		}
		if s := h.cell(record, "fiat"); s != "" {
			v, err := parseAmount(s)
			if err != nil {
				warnings = append(warnings, Warning{Source: "ledger", Err: &ParseError{Row: row, Column: "fiat", Reason: err.Error()}})
			} else {
				entry.FiatValue = M(v.Decimal(), "")
			}
		}

		entries = append(entries, entry)
	}

	// Chronological order, stable so that multi-leg groups keep their
	// original intra-group order.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Time.Before(entries[j].Time)
	})
	return entries, warnings, nil
}
