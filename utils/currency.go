package utils

import "fmt"

// FormatCurrencyIDR renders an amount in minor units as Rupiah with
// thousand separators. 121000 -> "Rp 121.000".
func FormatCurrencyIDR(amount int64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	s := fmt.Sprintf("%d", amount)
	var out []byte
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, '.')
		}
		out = append(out, c)
	}

	if negative {
		return "-Rp " + string(out)
	}
	return "Rp " + string(out)
}
