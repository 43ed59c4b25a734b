package utils

import (
	"fmt"
	"math"
	"strconv"
)

// FormatPoints formats a points price with thousands separators.
// Example: 120000 -> "120,000"
func FormatPoints(points float64) string {
	return groupThousands(int64(math.Round(points)))
}

// FormatAmount formats a cash amount with its currency code.
// Example: 1210.5, "USD" -> "USD 1,210.50"
func FormatAmount(amount float64, currency string) string {
	cents := int64(math.Round(amount * 100))

	negative := cents < 0
	if negative {
		cents = -cents
	}

	s := fmt.Sprintf("%s.%02d", groupThousands(cents/100), cents%100)
	if negative {
		s = "-" + s
	}

	if currency == "" {
		return s
	}
	return currency + " " + s
}

func groupThousands(n int64) string {
	negative := n < 0
	if negative {
		n = -n
	}

	var result []byte
	str := strconv.FormatInt(n, 10)

	count := 0
	for i := len(str) - 1; i >= 0; i-- {
		result = append([]byte{str[i]}, result...)
		count++
		if count%3 == 0 && i != 0 {
			result = append([]byte{','}, result...)
		}
	}

	if negative {
		return "-" + string(result)
	}
	return string(result)
}
