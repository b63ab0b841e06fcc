package coinfolio

import "time"

// EUR is a helper for tests to create euro money from a const.
func EUR(v float64) Money { return M(v, "EUR") }

// at is a helper for tests to create an instant on a fixed day.
func at(h, m int) time.Time {
	return time.Date(2024, time.March, 10, h, m, 0, 0, time.UTC)
}

func ledgerRow(t time.Time, typ EntryType, asset string, amount float64, ref string) LedgerEntry {
	return LedgerEntry{Time: t, Type: typ, Asset: asset, Amount: Q(amount), RefID: ref}
}

func walletRow(t time.Time, asset string, amount float64, hash string) WalletEntry {
	return WalletEntry{Time: t, Asset: asset, Amount: Q(amount), TxHash: hash}
}

// grouped builds the two legs of one priced trade: the coin leg and
// its sibling fiat leg sharing a reference id.
func grouped(t time.Time, ref, asset string, coins, fiat float64) []LedgerEntry {
	return []LedgerEntry{
		ledgerRow(t, Trade, asset, coins, ref),
		ledgerRow(t, Trade, "EUR", fiat, ref),
	}
}
