package utils

import (
	"fmt"
	"math"
	"strings"
)

// FormatCurrencyIDR memformat nilai ke format Rupiah.
// Contoh: 15000.50 -> "Rp 15.000,50"
func FormatCurrencyIDR(amount float64) string {
	integer := int64(math.Floor(amount))
	cents := int(math.Round((amount - math.Floor(amount)) * 100))

	digits := fmt.Sprintf("%d", integer)
	var groups []string
	for len(digits) > 3 {
		groups = append([]string{digits[len(digits)-3:]}, groups...)
		digits = digits[:len(digits)-3]
	}
	groups = append([]string{digits}, groups...)

	formatted := strings.Join(groups, ".")
	if cents > 0 {
		return fmt.Sprintf("Rp %s,%02d", formatted, cents)
	}
	return fmt.Sprintf("Rp %s", formatted)
}
