package utils

import (
	"strings"
)

var notApplicable = map[string]struct{}{
	"":        {},
	"na":      {},
	"n/a":     {},
	"unknown": {},
	"nan":     {},
	"nat":     {},
	"null":    {},
	"none":    {},
}

// IsNotApplicable reports whether a spreadsheet cell carries no value.
func IsNotApplicable(raw string) bool {
	_, ok := notApplicable[strings.ToLower(strings.TrimSpace(raw))]
	return ok
}

// CleanText trims the value; sentinels and blanks become "" with ok=false.
func CleanText(raw string) (string, bool) {
	if IsNotApplicable(raw) {
		return "", false
	}
	return strings.TrimSpace(raw), true
}

// TrimOrEmpty normalizes user input without turning nil into "nil".
func TrimOrEmpty(s string) string {
	return strings.TrimSpace(s)
}

// NormalizeSpace collapses repeated whitespace into a single space.
func NormalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// FirstNonEmpty returns the first value that is not blank.
func FirstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// SafeFilenamePart strips characters that break Content-Disposition headers.
func SafeFilenamePart(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "NA"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_")
	s = replacer.Replace(s)
	if len(s) > 40 {
		s = s[:40]
	}
	return s
}
