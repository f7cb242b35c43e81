package parser

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"fjacquet/msg-ledger/internal/models"
)

// ratioRe matches a split ratio value like "2/1" or "1.5/2".
var ratioRe = regexp.MustCompile(`^(\d+(?:\.\d+)?)/(\d+(?:\.\d+)?)$`)

// extractMeta consumes key:value control tokens from the text and records
// them on msg, returning the residual phrase. Tokens are order-independent
// and keys are case-insensitive. Unrecognized keys stay in the residual
// text; recognized keys with unusable values are consumed and dropped.
func extractMeta(text string, msg *models.ParsedMessage) string {
	fields := strings.Fields(text)
	var rest []string

	for i := 0; i < len(fields); i++ {
		tok := fields[i]

		// Bare "split" takes an optional following ratio token.
		if strings.EqualFold(tok, "split") {
			if i+1 < len(fields) && applyRatio(msg, fields[i+1]) {
				i++
				continue
			}
			msg.SplitType = models.SplitEqual
			continue
		}

		key, value, found := strings.Cut(tok, ":")
		if !found {
			rest = append(rest, tok)
			continue
		}

		switch strings.ToLower(key) {
		case "card":
			setIfPresent(&msg.Card, value)
		case "type":
			if v := strings.ToLower(value); models.ValidEntryType(v) {
				msg.Type = models.EntryType(v)
			}
		case "account", "acct":
			setIfPresent(&msg.Account, value)
		case "asset", "inv", "investment":
			setIfPresent(&msg.Asset, value)
		case "liability", "liab":
			setIfPresent(&msg.Liability, value)
		case "counterparty", "cp", "person":
			setIfPresent(&msg.Counterparty, value)
		case "direction", "dir":
			if v := strings.ToLower(value); models.ValidLoanDirection(v) {
				msg.Direction = models.LoanDirection(v)
			}
		case "paidby":
			// Only the two literal values are recognized; anything else
			// is consumed and dropped.
			if v := strings.ToLower(value); v == "me" || v == "roommate" {
				msg.PaidBy = v
			}
		case "for", "owner":
			setIfPresent(&msg.ForPerson, value)
		case "other":
			for _, part := range strings.Split(value, ",") {
				addOtherParty(msg, part)
			}
		case "split":
			applySplit(msg, value)
		default:
			rest = append(rest, tok)
		}
	}

	return strings.Join(rest, " ")
}

func setIfPresent(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}

// addOtherParty appends a party name, deduplicated case-insensitively with
// first-seen casing kept. The first party also becomes the primary one.
func addOtherParty(msg *models.ParsedMessage, name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	for _, existing := range msg.OtherParties {
		if strings.EqualFold(existing, name) {
			return
		}
	}
	msg.OtherParties = append(msg.OtherParties, name)
	if msg.OtherParty == "" {
		msg.OtherParty = name
	}
}

// applySplit interprets a split:<value> token. Any value that is not
// "equal" or a usable positive ratio falls back to an equal split; a
// malformed split never fails parsing.
func applySplit(msg *models.ParsedMessage, value string) {
	if strings.EqualFold(value, "equal") {
		msg.SplitType = models.SplitEqual
		return
	}
	if applyRatio(msg, value) {
		return
	}
	msg.SplitType = models.SplitEqual
}

// applyRatio parses an "a/b" ratio and records it when both components are
// positive. Reports whether the value was consumed as a ratio.
func applyRatio(msg *models.ParsedMessage, value string) bool {
	m := ratioRe.FindStringSubmatch(value)
	if m == nil {
		return false
	}
	me, err1 := decimal.NewFromString(m[1])
	other, err2 := decimal.NewFromString(m[2])
	if err1 != nil || err2 != nil || !me.IsPositive() || !other.IsPositive() {
		return false
	}
	msg.SplitType = models.SplitRatio
	msg.SplitRatioMe = me
	msg.SplitRatioOther = other
	return true
}
