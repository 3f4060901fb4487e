package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

var currencyReplacer = strings.NewReplacer(
	"₹", "",
	"inr", "",
	"rs.", "",
	"rs", "",
	"$", "",
	",", "",
	" ", "",
	"\u00a0", "",
	"\t", "",
)

// CleanCurrency parses a loosely formatted amount such as "₹ 1,200.00" or "500 INR".
// Not-applicable sentinels and unparseable input yield nil ("no value"), never 0.
func CleanCurrency(raw string) *float64 {
	if IsNotApplicable(raw) {
		return nil
	}
	s := currencyReplacer.Replace(strings.ToLower(strings.TrimSpace(raw)))
	s = strings.TrimSuffix(s, ".00")
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// RoundMoney rounds to two decimals.
func RoundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}

// FormatMoney keeps consistent decimal formatting for currency fields.
func FormatMoney(amount float64) string {
	return fmt.Sprintf("%.2f", amount)
}

// FormatRupees renders an amount with thousand separators, e.g. "Rs. 12,345.50".
func FormatRupees(amount float64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	amount = RoundMoney(amount)
	whole := int64(amount)
	paise := int64(math.Round((amount - float64(whole)) * 100))
	if paise == 100 {
		whole++
		paise = 0
	}
	return fmt.Sprintf("%sRs. %s.%02d", sign, formatThousand(whole), paise)
}

func formatThousand(n int64) string {
	if n == 0 {
		return "0"
	}
	str := strconv.FormatInt(n, 10)
	var out strings.Builder
	for i, c := range str {
		if i != 0 && (len(str)-i)%3 == 0 {
			out.WriteByte(',')
		}
		out.WriteRune(c)
	}
	return out.String()
}
