// Package parsing reduces free-text recipe ingredient lines to
// structured (amount, unit, normalized name, gram weight) records.
package parsing

import (
	"regexp"
	"strings"

	"github.com/jinzhu/inflection"
)

// fractionGlyphs substitutes unicode fraction characters with ASCII
var fractionGlyphs = map[string]string{
	"½": "1/2", "¼": "1/4", "¾": "3/4", "⅓": "1/3", "⅔": "2/3", "⅛": "1/8",
}

// descriptors are single words that never belong to a food's core
// identity. Tokens matching a descriptor in singular or plural form are
// dropped during normalization.
var defaultDescriptors = []string{
	"fresh", "frozen", "dried", "chopped", "sliced", "grated", "minced",
	"shredded", "cooked", "raw", "large", "small", "extra", "extra-virgin",
	"organic", "peeled", "unsalted", "salted", "finely", "coarsely",
	"thinly", "thickly", "trimmed", "melted", "optional", "diagonal",
	"medium", "ripe", "boneless", "skinless", "whole", "halved", "diced",
	"crushed", "divided", "softened", "packed", "ground",
}

// defaultDescriptorPhrases are multi-word preparation phrases removed
// before tokenization
var defaultDescriptorPhrases = []string{
	"at room temperature",
	"cut into chunks",
	"cut into pieces",
	"cut into cubes",
	"roughly chopped",
	"to taste",
	"for garnish",
	"for serving",
	"more to taste",
	"plus more",
}

// defaultKeepPlural lists words that must not be singularized:
// uncountable leafy greens and herbs whose dictionary form ends in s,
// and fixed compound modifiers
var defaultKeepPlural = []string{
	"asparagus", "couscous", "molasses", "hummus", "watercress",
	"swiss", "brussels", "bone-in", "skin-on",
}

var (
	parentheticalRe = regexp.MustCompile(`\(.*?\)`)
	mixedNumberRe   = regexp.MustCompile(`\b\d+\s+\d+/\d+\b`)
	fractionRe      = regexp.MustCompile(`\b\d+/\d+\b`)
	numberRe        = regexp.MustCompile(`\b\d+(\.\d+)?\b`)
	whitespaceRe    = regexp.MustCompile(`\s+`)
)

// Normalizer reduces ingredient text to a canonical food identifier:
// lowercase, singular, descriptor-free, digit-free. Normalization is
// idempotent for a fixed descriptor vocabulary.
type Normalizer struct {
	descriptors map[string]struct{}
	phrases     []string
	keepPlural  map[string]struct{}
}

// NewNormalizer creates a normalizer with the default descriptor
// vocabulary
func NewNormalizer() *Normalizer {
	n := &Normalizer{
		descriptors: make(map[string]struct{}, len(defaultDescriptors)),
		phrases:     defaultDescriptorPhrases,
		keepPlural:  make(map[string]struct{}, len(defaultKeepPlural)),
	}
	for _, d := range defaultDescriptors {
		n.descriptors[d] = struct{}{}
	}
	for _, w := range defaultKeepPlural {
		n.keepPlural[w] = struct{}{}
	}
	return n
}

// Normalize reduces ingredient text to its canonical food identifier.
// Empty or whitespace-only input yields an empty string.
func (n *Normalizer) Normalize(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}

	text = strings.ToLower(text)
	for glyph, ascii := range fractionGlyphs {
		text = strings.ReplaceAll(text, glyph, ascii)
	}

	text = parentheticalRe.ReplaceAllString(text, " ")

	// Strip numeric tokens: mixed numbers before bare fractions so
	// "1 1/2" does not leave a stray "1" behind
	text = mixedNumberRe.ReplaceAllString(text, " ")
	text = fractionRe.ReplaceAllString(text, " ")
	text = numberRe.ReplaceAllString(text, " ")

	// Drop the clause after the first comma only when the head already
	// names a multi-word food; a comma after a single word is noise.
	if idx := strings.Index(text, ","); idx >= 0 {
		head := text[:idx]
		if len(strings.Fields(head)) >= 2 {
			text = head
		} else {
			text = strings.ReplaceAll(text, ",", " ")
		}
	}

	for _, phrase := range n.phrases {
		text = strings.ReplaceAll(text, phrase, " ")
	}

	words := strings.Fields(text)
	out := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.Trim(w, ".,;:!?/")
		if w == "" {
			continue
		}
		if n.isDescriptor(w) {
			continue
		}
		out = append(out, n.singularize(w))
	}
	return strings.Join(out, " ")
}

// isDescriptor checks the token in both its given and singular form
func (n *Normalizer) isDescriptor(word string) bool {
	if _, ok := n.descriptors[word]; ok {
		return true
	}
	if _, ok := n.descriptors[inflection.Singular(word)]; ok {
		return true
	}
	return false
}

func (n *Normalizer) singularize(word string) string {
	if _, ok := n.keepPlural[word]; ok {
		return word
	}
	return inflection.Singular(word)
}

// commonlyCounted are foods that recipes count in whole items. When a
// line has an amount but no unit and normalizes to one of these, the
// parser assigns the literal unit "each".
var commonlyCounted = map[string]struct{}{
	"apple": {}, "banana": {}, "egg": {}, "onion": {}, "lemon": {},
	"lime": {}, "orange": {}, "scallion": {}, "shallot": {}, "clove": {},
	"pepper": {}, "potato": {}, "carrot": {}, "shrimp": {}, "tomato": {},
	"zucchini": {}, "avocado": {}, "chili": {}, "date": {}, "fig": {},
	"radish": {}, "beet": {}, "turnip": {}, "mushroom": {}, "meatball": {},
	"cookie": {}, "roll": {}, "bun": {}, "patty": {}, "cutlet": {},
}

// IsCommonlyCounted reports whether a normalized name is a food that is
// typically counted rather than weighed or measured
func IsCommonlyCounted(normalizedName string) bool {
	cleaned := strings.ToLower(strings.TrimSpace(normalizedName))
	if _, ok := commonlyCounted[cleaned]; ok {
		return true
	}
	if strings.HasSuffix(cleaned, "s") {
		_, ok := commonlyCounted[strings.TrimSuffix(cleaned, "s")]
		return ok
	}
	return false
}
