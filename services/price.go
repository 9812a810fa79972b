package services

import (
	"regexp"
	"strconv"
	"strings"
)

const currencySymbol = "€"

var (
	// numberRegexp captures the first integer or decimal amount
	numberRegexp = regexp.MustCompile(`\d+(?:\.\d+)?`)
	// cardPriceRegexp finds a "12,50 €" style amount in a card's visible text
	cardPriceRegexp = regexp.MustCompile(`\d+[,.]\d{2}[\s\x{00a0}\x{202f}]?` + regexp.QuoteMeta(currencySymbol))

	priceReplacer = strings.NewReplacer(
		currencySymbol, "",
		"\u202f", "",
		"\u00a0", "",
		" ", "",
		",", ".",
	)
)

// ParsePrice converts a free-form price string into an amount.
// Examples:
//
//	"12,50 €"    → 12.5
//	"1 234,00€"  → 1234 (U+202F thousands separator)
//	"" or "free" → not ok
func ParsePrice(raw string) (float64, bool) {
	s := priceReplacer.Replace(strings.TrimSpace(raw))
	if s == "" {
		return 0, false
	}

	match := numberRegexp.FindString(s)
	if match == "" {
		return 0, false
	}

	val, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, false
	}
	return val, true
}

// findCardPrice locates the displayed price in a card's visible text.
func findCardPrice(text string) (float64, bool) {
	match := cardPriceRegexp.FindString(text)
	if match == "" {
		return 0, false
	}
	return ParsePrice(match)
}
