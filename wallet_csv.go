package coinfolio

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"
)

// Wallet export parser. Same contract shape as the ledger parser, for
// the hardware-wallet schema: the transaction hash is the natural key,
// and a repeated hash within one file is a corruption signal since a
// wallet export must not repeat one.

var walletAliases = map[string][]string{
	"time":   {"date", "time", "timestamp", "datetime"},
	"clock":  {"time"}, // time of day when the export splits it off the date
	"type":   {"type"},
	"amount": {"amount", "value", "quantity"},
	"asset":  {"symbol", "asset", "coin", "currency"},
	"txhash": {"txid", "tx hash", "txhash", "hash", "transaction id"},
}

var requiredWalletColumns = []string{"time", "type", "amount"}

// ParseWalletCSV reads a wallet export and returns normalized entries
// in chronological order. Received transfers have a positive amount,
// sent transfers a negative one. Exports without an asset column use
// defaultAsset (the wallet is single-coin in that case).
func ParseWalletCSV(r io.Reader, defaultAsset string) ([]WalletEntry, []Warning, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	headerRow, err := cr.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("cannot read wallet header: %w", err)
	}
	h := resolveHeader(headerRow, walletAliases)
	var missing []string
	for _, logical := range requiredWalletColumns {
		if _, ok := h[logical]; !ok {
			missing = append(missing, logical)
		}
	}
	if len(missing) > 0 {
		return nil, nil, &SchemaError{Missing: missing}
	}

	defaultAsset = NormalizeAsset(defaultAsset)
	seen := make(map[string]int) // tx hash -> row of first occurrence

	var entries []WalletEntry
	var warnings []Warning
	for row := 1; ; row++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			warnings = append(warnings, Warning{Source: "wallet", Err: &ParseError{Row: row, Reason: err.Error()}})
			continue
		}

		// Some exports split the timestamp into a date column and a
		// time-of-day column; join them back before parsing, else a
		// same-day receipt collapses to midnight.
		stamp := h.cell(record, "time")
		if ci, ok := h["clock"]; ok && ci != h["time"] {
			if clock := h.cell(record, "clock"); clock != "" {
				stamp += " " + clock
			}
		}
		when, err := parseTimestamp(stamp)
		if err != nil {
			warnings = append(warnings, Warning{Source: "wallet", Err: &ParseError{Row: row, Column: "date", Reason: err.Error()}})
			continue
		}
		amount, err := parseAmount(h.cell(record, "amount"))
		if err != nil {
			warnings = append(warnings, Warning{Source: "wallet", Err: &ParseError{Row: row, Column: "amount", Reason: err.Error()}})
			continue
		}

		// The type column fixes the sign: the amount cell may be
		// unsigned in some export revisions.
		kind := strings.ToUpper(h.cell(record, "type"))
		switch {
		case strings.Contains(kind, "RECV") || strings.Contains(kind, "RECEIVED"):
			amount = amount.Abs()
		case strings.Contains(kind, "SENT") || strings.Contains(kind, "SEND"):
			amount = amount.Abs().Neg()
		}

		hash := h.cell(record, "txhash")
		if hash != "" {
			if first, dup := seen[hash]; dup {
				warnings = append(warnings, Warning{Source: "wallet", Err: &ParseError{
					Row:    row,
					Column: "txid",
					Reason: fmt.Sprintf("duplicate tx hash %q (first seen on row %d), export may be corrupted", hash, first),
				}})
				continue
			}
			seen[hash] = row
		}

		asset := defaultAsset
		if s := h.cell(record, "asset"); s != "" {
			asset = NormalizeAsset(s)
		}

		entries = append(entries, WalletEntry{
			Time:   when,
			Asset:  asset,
			Amount: amount,
			TxHash: hash,
			Row:    row,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Time.Before(entries[j].Time)
	})
	return entries, warnings, nil
}
