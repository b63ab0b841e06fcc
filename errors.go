package coinfolio

import (
	"fmt"
	"time"
)

// ParseError reports a malformed row or column. It is recoverable: the
// offending row is skipped and the rest of the file continues.
type ParseError struct {
	Row    int // 1-based, header excluded
	Column string
	Reason string
}

func (e *ParseError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("row %d: %s", e.Row, e.Reason)
	}
	return fmt.Sprintf("row %d, column %q: %s", e.Row, e.Column, e.Reason)
}

// SchemaError reports a file without a recognizable header. It is
// fatal: the whole file is rejected.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("no recognizable header, missing columns: %v", e.Missing)
}

// InsufficientInventoryError reports an outflow that exceeds the
// tracked inventory for an asset. It signals a data inconsistency
// (e.g. a missing earlier deposit); the affected asset's figures are
// marked inconsistent and the analysis continues.
type InsufficientInventoryError struct {
	Asset     string
	At        time.Time
	Requested Quantity
	Available Quantity
}

func (e *InsufficientInventoryError) Error() string {
	return fmt.Sprintf("%s: outflow of %s %s at %s exceeds tracked inventory of %s",
		e.Asset, e.Requested, e.Asset, e.At.Format(time.RFC3339), e.Available)
}

// IncompleteDataError reports that a value-bearing report was requested
// but the current price is missing for one or more held assets.
type IncompleteDataError struct {
	Assets []string
}

func (e *IncompleteDataError) Error() string {
	return fmt.Sprintf("missing current price for held assets: %v", e.Assets)
}

// Warning is a non-fatal issue collected during an analysis run. The
// report enumerates warnings alongside figures so that partial results
// remain actionable.
type Warning struct {
	Source string // "ledger", "wallet", "costbasis", "reconcile"
	Err    error
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %v", w.Source, w.Err)
}
