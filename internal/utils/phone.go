package utils

import (
	"math/big"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var (
	nonDigits  = regexp.MustCompile(`\D`)
	digitRun10 = regexp.MustCompile(`\d{10,}`)
)

// ExtractPhone prefers the phone cell, then a 10+ digit run inside the customer
// name. When neither yields a number a placeholder "9999xxxxxx" is returned with
// synthesized=true.
func ExtractPhone(phoneField, customerName string) (phone string, synthesized bool) {
	if v, ok := CleanText(phoneField); ok {
		digits := nonDigits.ReplaceAllString(v, "")
		if len(digits) >= 10 {
			return digits[len(digits)-10:], false
		}
	}
	if v, ok := CleanText(customerName); ok {
		if m := digitRun10.FindString(v); m != "" {
			return m[len(m)-10:], false
		}
	}
	return PlaceholderPhone(), true
}

// PlaceholderPhone returns "9999" followed by six digits derived from a random uuid.
func PlaceholderPhone() string {
	u := uuid.New()
	n := new(big.Int).SetBytes(u[:]).String()
	if len(n) < 6 {
		n = strings.Repeat("0", 6-len(n)) + n
	}
	return "9999" + n[:6]
}
