package parser

import (
	"regexp"
	"strings"
	"time"
)

var (
	isoDateRe      = regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2})\b`)
	slashDateRe    = regexp.MustCompile(`\b(\d{1,2}/\d{1,2}/\d{4})\b`)
	relativeDateRe = regexp.MustCompile(`(?i)\b(today|yesterday)\b`)
)

const (
	isoDateLayout   = "2006-01-02"
	slashDateLayout = "2/1/2006"
)

// extractDate pulls at most one date token out of the text: ISO YYYY-MM-DD
// first, then DD/MM/YYYY, then the literal words today/yesterday resolved
// against now. The consumed token is removed from the returned residual;
// tokens that look like dates but do not parse are left alone.
func extractDate(text string, now time.Time) (string, *time.Time) {
	for _, match := range isoDateRe.FindAllString(text, -1) {
		if t, err := time.Parse(isoDateLayout, match); err == nil {
			return dropToken(text, match), dateOnly(t)
		}
	}

	for _, match := range slashDateRe.FindAllString(text, -1) {
		if t, err := time.Parse(slashDateLayout, match); err == nil {
			return dropToken(text, match), dateOnly(t)
		}
	}

	if match := relativeDateRe.FindString(text); match != "" {
		t := now
		if strings.EqualFold(match, "yesterday") {
			t = now.AddDate(0, 0, -1)
		}
		return dropToken(text, match), dateOnly(t)
	}

	return text, nil
}

func dateOnly(t time.Time) *time.Time {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return &d
}

// dropToken removes the first occurrence of token and tidies whitespace.
func dropToken(text, token string) string {
	text = strings.Replace(text, token, " ", 1)
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
}
