// Package core holds the domain model of the grave-fee ledger.
//
// This file contains Rupiah formatting. Amounts are whole Rupiah stored as
// int64; there is no fractional unit to carry.
package core

import "strconv"

// FormatRupiah renders an amount as an Indonesian currency string with a
// dot as the thousands separator, e.g. 200000 -> "Rp 200.000".
func FormatRupiah(amount int64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}
	digits := strconv.FormatInt(amount, 10)
	var out []byte
	for i, d := range []byte(digits) {
		if i > 0 && (len(digits)-i)%3 == 0 {
			out = append(out, '.')
		}
		out = append(out, d)
	}
	if neg {
		return "-Rp " + string(out)
	}
	return "Rp " + string(out)
}
