package parser

import (
	"regexp"
	"strings"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// normalize trims the text, collapses runs of whitespace and unifies
// currency symbol variants so the later stages see one canonical form.
func normalize(s string) string {
	s = strings.TrimSpace(s)
	s = whitespaceRe.ReplaceAllString(s, " ")
	// The generic rupee sign is folded into the Indian rupee sign.
	s = strings.ReplaceAll(s, "₨", "₹")
	return s
}

// currencyMarkers maps recognized currency symbols and codes to ISO codes.
// Keys must be lowercase.
var currencyMarkers = map[string]string{
	"₹": "INR", "rs": "INR", "rs.": "INR", "inr": "INR",
	"$": "USD", "usd": "USD",
	"€": "EUR", "eur": "EUR",
	"£": "GBP", "gbp": "GBP",
}

func isCurrencyMarker(lower string) bool {
	_, ok := currencyMarkers[lower]
	return ok
}

// currencyForMarker resolves a marker to its ISO code, or "" when the
// marker is not recognized.
func currencyForMarker(marker string) string {
	return currencyMarkers[strings.ToLower(marker)]
}
