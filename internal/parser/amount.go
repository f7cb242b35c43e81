package parser

import (
	"errors"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// amountTokenRe matches one whitespace-delimited token carrying a numeric
// quantity: an optional currency marker, digits with optional thousands
// separators, and an optional 1-2 digit fraction.
var amountTokenRe = regexp.MustCompile(`^(?i)(₹|\$|€|£|rs\.?|inr|usd|eur|gbp)?([0-9]{1,3}(?:,[0-9]{3})+|[0-9]+)(\.[0-9]{1,2})?$`)

// markerTokenRe matches a token that is nothing but a currency marker,
// such as "rs." or "$" standing apart from the digits.
var markerTokenRe = regexp.MustCompile(`^(?i)(₹|\$|€|£|rs\.?|inr|usd|eur|gbp)$`)

var (
	errNoAmount          = errors.New("no amount found")
	errNonPositiveAmount = errors.New("amount must be positive")
)

// extractAmount locates the first numeric quantity in the text and returns
// its value, the currency implied by an attached or preceding marker, and
// the text before and after the matched token. It fails when no token
// matches or the first match is not a positive value.
func extractAmount(text string) (decimal.Decimal, string, string, string, error) {
	fields := strings.Fields(text)

	for i, tok := range fields {
		trimmed := strings.TrimRight(tok, ".,;!?")
		m := amountTokenRe.FindStringSubmatch(trimmed)
		if m == nil {
			continue
		}

		digits := strings.ReplaceAll(m[2], ",", "") + m[3]
		value, err := decimal.NewFromString(digits)
		if err != nil {
			continue
		}
		if !value.IsPositive() {
			return decimal.Zero, "", "", "", errNonPositiveAmount
		}

		currency := currencyForMarker(m[1])
		if currency == "" && i > 0 && markerTokenRe.MatchString(fields[i-1]) {
			currency = currencyForMarker(strings.TrimSuffix(strings.ToLower(fields[i-1]), "."))
		}

		before := strings.Join(fields[:i], " ")
		after := strings.Join(fields[i+1:], " ")
		return value, currency, before, after, nil
	}

	return decimal.Zero, "", "", "", errNoAmount
}
