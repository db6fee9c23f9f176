package finance

import (
	"fmt"
	"strings"
)

// Indian numbering units. The documents are legal instruments, so amounts must
// be grouped lakh/crore, not thousand/million.
const (
	lakh  = 100_000
	crore = 10_000_000
)

// AmountInWords renders an integer rupee amount using the Indian numbering
// convention: "12 Lakh 34 Thousand 500". Zero renders as "Zero". The phrase
// shape is identical across all magnitudes so the legal text stays consistent.
func AmountInWords(amount int64) string {
	if amount == 0 {
		return "Zero"
	}

	var parts []string
	if amount < 0 {
		parts = append(parts, "Minus")
		amount = -amount
	}

	if c := amount / crore; c > 0 {
		parts = append(parts, fmt.Sprintf("%d Crore", c))
		amount %= crore
	}
	if l := amount / lakh; l > 0 {
		parts = append(parts, fmt.Sprintf("%d Lakh", l))
		amount %= lakh
	}
	if t := amount / 1000; t > 0 {
		parts = append(parts, fmt.Sprintf("%d Thousand", t))
		amount %= 1000
	}
	if amount > 0 {
		parts = append(parts, fmt.Sprintf("%d", amount))
	}

	return strings.Join(parts, " ")
}

// RupeesInWords wraps AmountInWords in the form the acceptance and order
// documents quote: "Rupees 12 Lakh 34 Thousand 500 Only".
func RupeesInWords(amount int64) string {
	return "Rupees " + AmountInWords(amount) + " Only"
}
