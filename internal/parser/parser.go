// Package parser turns free-form chat messages describing financial events
// into structured ParsedMessage records. The pipeline normalizes the text,
// lifts out key:value meta tokens, resolves an occurrence date, extracts the
// first numeric amount, and classifies the leading residual word against the
// category vocabulary. Parsing only fails when no usable amount exists;
// malformed metadata degrades to safe defaults.
package parser

import (
	"strings"
	"time"

	"fjacquet/msg-ledger/internal/classify"
	"fjacquet/msg-ledger/internal/logging"
	"fjacquet/msg-ledger/internal/models"
	"fjacquet/msg-ledger/internal/parsererror"
)

// Clock supplies the current time for relative-date resolution.
type Clock func() time.Time

// Parser converts raw message text into ParsedMessage values.
type Parser struct {
	clock      Clock
	classifier *classify.Classifier
	log        logging.Logger
}

// New creates a Parser. A nil clock defaults to time.Now.
func New(clock Clock, classifier *classify.Classifier, log logging.Logger) *Parser {
	if clock == nil {
		clock = time.Now
	}
	if classifier == nil {
		classifier = classify.NewClassifier()
	}
	return &Parser{
		clock:      clock,
		classifier: classifier,
		log:        log,
	}
}

// Parse extracts a structured message from raw text. It returns a
// *parsererror.UnparseableError when no positive amount can be located;
// every other malformed fragment is dropped or defaulted.
func (p *Parser) Parse(text string) (*models.ParsedMessage, error) {
	msg := &models.ParsedMessage{
		Type:      models.TypeExpense,
		SplitType: models.SplitNone,
	}

	residual := normalize(text)
	if residual == "" {
		return nil, &parsererror.UnparseableError{Text: text, Reason: "empty message"}
	}

	residual = extractMeta(residual, msg)

	residual, occurred := extractDate(residual, p.clock())
	msg.OccurredOn = occurred

	amount, currency, before, after, err := extractAmount(residual)
	if err != nil {
		p.log.WithField("text", text).Debug("Message rejected, no usable amount")
		return nil, &parsererror.UnparseableError{Text: text, Reason: err.Error()}
	}
	msg.Amount = amount
	msg.Currency = currency

	candidate := buildDescription(before, after)
	first, rest := splitFirstWord(candidate)
	if category, ok := p.classifier.Canonicalize(first); ok {
		msg.Category = category
		msg.Note = rest
	} else {
		msg.Note = candidate
	}

	return msg, nil
}

// buildDescription assembles the candidate description from the text
// segments around the amount. When the "before" segment is nothing but
// filler verbs and currency markers, only the "after" segment is used.
func buildDescription(before, after string) string {
	var kept []string
	for _, w := range strings.Fields(before) {
		if !isStopWord(w) {
			kept = append(kept, w)
		}
	}
	if len(kept) == 0 {
		return strings.TrimSpace(after)
	}
	return strings.TrimSpace(strings.Join(kept, " ") + " " + after)
}

// stopWords are filler tokens discarded from the segment preceding the
// amount before deciding whether it contributes to the description.
var stopWords = map[string]struct{}{
	"spent": {}, "spend": {}, "paid": {}, "pay": {}, "for": {}, "on": {},
}

func isStopWord(w string) bool {
	lower := strings.ToLower(w)
	if _, ok := stopWords[lower]; ok {
		return true
	}
	return isCurrencyMarker(lower)
}

func splitFirstWord(s string) (string, string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ""
	}
	fields := strings.Fields(s)
	return fields[0], strings.Join(fields[1:], " ")
}
