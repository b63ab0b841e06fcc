package coinfolio

import (
	"fmt"
	"strings"
	"time"
)

// EntryType classifies a ledger row. It is a closed vocabulary: rows
// whose exchange-side type string is not recognized map to Other so
// that downstream logic can never silently mishandle an unknown kind.
type EntryType int

const (
	Other EntryType = iota
	Deposit
	Withdrawal
	Trade
	Fee
	Staking
)

func (t EntryType) String() string {
	switch t {
	case Deposit:
		return "deposit"
	case Withdrawal:
		return "withdrawal"
	case Trade:
		return "trade"
	case Fee:
		return "fee"
	case Staking:
		return "staking"
	default:
		return "other"
	}
}

// entryTypeVocabulary maps the type strings observed across exchange
// export revisions to the closed EntryType set.
var entryTypeVocabulary = map[string]EntryType{
	"deposit":    Deposit,
	"withdrawal": Withdrawal,
	"withdraw":   Withdrawal,
	"trade":      Trade,
	"spend":      Trade,
	"receive":    Trade,
	"buy":        Trade,
	"sell":       Trade,
	"fee":        Fee,
	"margin fee": Fee,
	"earn":       Staking,
	"reward":     Staking,
	"staking":    Staking,
	"dividend":   Staking,
}

// ClassifyEntryType maps an exchange type string to an EntryType.
// Unrecognized strings classify as Other, never an error.
func ClassifyEntryType(s string) EntryType {
	if t, ok := entryTypeVocabulary[strings.ToLower(strings.TrimSpace(s))]; ok {
		return t
	}
	return Other
}

// LedgerEntry is one normalized exchange ledger line.
type LedgerEntry struct {
	Time      time.Time // UTC
	Asset     string    // upper-case ticker
	Type      EntryType
	Amount    Quantity // signed, positive = inflow
	Fee       Quantity // exchange-side fee denominated in Asset
	FiatValue Money    // value at transaction time; zero value = absent
	RefID     string   // groups the legs of one atomic exchange operation
	Row       int      // 1-based row in the source file, header excluded
}

func (e LedgerEntry) String() string {
	return fmt.Sprintf("%s %s %s %s", e.Time.Format(time.RFC3339), e.Type, e.Amount, e.Asset)
}

// WalletEntry is one normalized wallet transaction line.
type WalletEntry struct {
	Time   time.Time
	Asset  string
	Amount Quantity // signed, positive = received
	TxHash string
	Row    int
}

func (e WalletEntry) String() string {
	return fmt.Sprintf("%s %s %s (%s)", e.Time.Format(time.RFC3339), e.Amount, e.Asset, e.TxHash)
}

// krakenAssets maps the exchange's X/Z-prefixed legacy tickers to
// their common symbols.
var krakenAssets = map[string]string{
	"XXBT": "BTC",
	"XBT":  "BTC",
	"XETH": "ETH",
	"XLTC": "LTC",
	"XXRP": "XRP",
	"XXDG": "DOGE",
	"XDG":  "DOGE",
	"ZEUR": "EUR",
	"ZUSD": "USD",
	"ZGBP": "GBP",
}

// NormalizeAsset upper-cases a ticker and resolves exchange-specific
// aliases. "EUR.HOLD" style suffixes collapse onto the base currency.
func NormalizeAsset(s string) string {
	a := strings.ToUpper(strings.TrimSpace(s))
	if base, _, found := strings.Cut(a, "."); found {
		a = base
	}
	if common, ok := krakenAssets[a]; ok {
		return common
	}
	return a
}

// IsFiat reports whether the asset is a fiat currency rather than a coin.
func IsFiat(asset string) bool {
	switch NormalizeAsset(asset) {
	case "EUR", "USD", "GBP", "CHF", "CAD", "AUD", "JPY":
		return true
	}
	return false
}
