// Package classify maps free-text words to normalized expense categories.
// The built-in vocabulary is a static synonym table; an optional YAML file
// can extend it, and an optional AI strategy can be chained behind it for
// notes the table does not cover.
package classify

import (
	"sort"
	"strings"
)

// defaultVocabulary maps canonical category names to their synonyms.
// Matching is case-insensitive against the first word of a candidate
// description; the canonical name itself always matches.
var defaultVocabulary = map[string][]string{
	"food":          {"restaurant", "dining", "eatout", "meal", "lunch", "dinner", "breakfast"},
	"grocery":       {"groceries", "supermarket", "bigbasket", "dmart", "kirana"},
	"transport":     {"uber", "lyft", "ola", "taxi", "cab", "auto", "bus", "metro", "train", "rickshaw"},
	"shopping":      {"amazon", "flipkart", "myntra", "ikea", "clothes", "shoes", "electronics"},
	"rent":          {"housing"},
	"utilities":     {"utility", "electricity", "water", "internet", "wifi", "broadband", "phone", "recharge"},
	"entertainment": {"movie", "movies", "cinema", "netflix", "concert", "games"},
	"health":        {"medicine", "medical", "pharmacy", "doctor", "hospital", "gym"},
	"travel":        {"flight", "hotel", "vacation", "trip"},
	"fuel":          {"petrol", "diesel", "gas"},
	"education":     {"course", "books", "tuition"},
	"subscription":  {"subscriptions"},
}

// Classifier canonicalizes category words using an immutable synonym table.
type Classifier struct {
	canonical  map[string]string
	categories []string
}

// NewClassifier builds a classifier over the built-in vocabulary.
func NewClassifier() *Classifier {
	return newClassifier(defaultVocabulary)
}

func newClassifier(vocabulary map[string][]string) *Classifier {
	categories := make([]string, 0, len(vocabulary))
	for name := range vocabulary {
		categories = append(categories, name)
	}
	sort.Strings(categories)

	canonical := make(map[string]string)
	for _, name := range categories {
		canonical[strings.ToLower(name)] = name
		for _, s := range vocabulary[name] {
			canonical[strings.ToLower(s)] = name
		}
	}
	return &Classifier{canonical: canonical, categories: categories}
}

// Canonicalize maps a single word to its canonical category name.
// The second return value reports whether the word is in the vocabulary.
func (c *Classifier) Canonicalize(word string) (string, bool) {
	name, ok := c.canonical[strings.ToLower(strings.TrimSpace(word))]
	return name, ok
}

// Categories returns the canonical category names in sorted order.
func (c *Classifier) Categories() []string {
	return c.categories
}
