package parsing

import (
	"regexp"
	"strconv"
	"strings"
)

// Result is the structured interpretation of one raw ingredient line.
// Amount, Unit and EstimatedGrams are nil when they could not be
// determined.
type Result struct {
	Amount         *float64
	Unit           *string
	NormalizedName string
	EstimatedGrams *float64
}

// Parser extracts amount, unit and residual food text from a raw
// ingredient line. Amount parsing uses a restricted fraction/decimal
// grammar; malformed numeric tokens never fail the parse, they just
// leave the amount unset.
type Parser struct {
	normalizer *Normalizer
	converter  *UnitConverter
}

// NewParser creates a parser over the given normalizer and converter
func NewParser(normalizer *Normalizer, converter *UnitConverter) *Parser {
	return &Parser{normalizer: normalizer, converter: converter}
}

var (
	packageSizeRe = regexp.MustCompile(`\((\d+(?:\.\d+)?)\s*(oz\.?|ounces?|g|grams?|ml|liters?)\)`)
	compoundRe    = regexp.MustCompile(`\s*(?:\+|\bplus\b)\s*`)
	intRe         = regexp.MustCompile(`^\d+$`)
	decimalRe     = regexp.MustCompile(`^\d+(\.\d+)?$`)
	simpleFracRe  = regexp.MustCompile(`^(\d+)/(\d+)$`)
)

// Parse interprets one raw ingredient line
func (p *Parser) Parse(raw string) Result {
	s := strings.ToLower(strings.TrimSpace(raw))
	for glyph, ascii := range fractionGlyphs {
		s = strings.ReplaceAll(s, glyph, ascii)
	}
	s = whitespaceRe.ReplaceAllString(s, " ")

	packageGrams := p.packageSizeGrams(s)

	// Compound amounts ("1/4 cup plus 2 tbsp") sum into one total
	// attributed to the first recognized unit
	segs := compoundRe.Split(s, -1)
	first := p.parseSegment(segs[0])
	amount := first.amount
	unit := first.unit
	residual := append([]string{}, first.rest...)

	for _, part := range segs[1:] {
		seg := p.parseSegment(part)
		residual = append(residual, seg.rest...)
		if seg.amount == nil {
			continue
		}
		switch {
		case amount == nil:
			amount, unit = seg.amount, seg.unit
		case unit == nil && seg.unit == nil:
			total := *amount + *seg.amount
			amount = &total
		case unit != nil && seg.unit != nil:
			if ratio, ok := conversionRatio(*seg.unit, *unit); ok {
				total := *amount + *seg.amount*ratio
				amount = &total
			}
		}
	}

	residualText := strings.Join(residual, " ")

	var normalized string
	if strings.Contains(residualText, "juice of") {
		// Documented quirk: "juice of" lines are treated as lemon
		// juice regardless of the rest of the text
		if amount == nil {
			one := 1.0
			amount = &one
		}
		lemon := "lemon"
		unit = &lemon
		normalized = "lemon juice"
	} else {
		normalized = p.normalizer.Normalize(residualText)
	}

	if amount != nil && unit == nil && IsCommonlyCounted(normalized) {
		each := "each"
		unit = &each
	}

	grams := p.converter.ToGrams(amount, unit, normalized)
	if grams == nil {
		grams = packageGrams
	}

	return Result{
		Amount:         amount,
		Unit:           unit,
		NormalizedName: normalized,
		EstimatedGrams: grams,
	}
}

type segment struct {
	amount *float64
	unit   *string
	rest   []string
}

// parseSegment extracts a leading amount and unit from one compound
// segment. Unconsumed tokens are returned as residual food text.
func (p *Parser) parseSegment(s string) segment {
	tokens := strings.Fields(s)
	amount, tokens := parseLeadingAmount(tokens)

	var unit *string
	if len(tokens) > 0 {
		if canonical, ok := p.converter.Canonical(tokens[0]); ok {
			unit = &canonical
			tokens = tokens[1:]
		}
	}
	return segment{amount: amount, unit: unit, rest: tokens}
}

// parseLeadingAmount recognizes integers, decimals, simple fractions
// and mixed numbers ("1 1/2", "1 and 1/2") at the start of the token
// stream. A malformed fraction leaves the amount nil and the tokens
// unconsumed.
func parseLeadingAmount(tokens []string) (*float64, []string) {
	if len(tokens) == 0 {
		return nil, tokens
	}

	// Mixed number: "a b/c"
	if intRe.MatchString(tokens[0]) && len(tokens) >= 2 {
		if frac, ok := fractionValue(tokens[1]); ok {
			whole, _ := strconv.ParseFloat(tokens[0], 64)
			v := whole + frac
			return &v, tokens[2:]
		}
	}

	// Mixed number: "a and b/c"
	if intRe.MatchString(tokens[0]) && len(tokens) >= 3 && tokens[1] == "and" {
		if frac, ok := fractionValue(tokens[2]); ok {
			whole, _ := strconv.ParseFloat(tokens[0], 64)
			v := whole + frac
			return &v, tokens[3:]
		}
	}

	if frac, ok := fractionValue(tokens[0]); ok {
		return &frac, tokens[1:]
	}
	if decimalRe.MatchString(tokens[0]) {
		v, err := strconv.ParseFloat(tokens[0], 64)
		if err == nil {
			return &v, tokens[1:]
		}
	}
	return nil, tokens
}

// fractionValue parses "a/b". Zero denominators are malformed, not
// errors.
func fractionValue(token string) (float64, bool) {
	m := simpleFracRe.FindStringSubmatch(token)
	if m == nil {
		return 0, false
	}
	num, _ := strconv.ParseFloat(m[1], 64)
	den, _ := strconv.ParseFloat(m[2], 64)
	if den == 0 {
		return 0, false
	}
	return num / den, true
}

// conversionRatio returns the multiplier that converts one unit of
// "from" into "to". Only same-class weight or volume pairs convert.
func conversionRatio(from, to string) (float64, bool) {
	if vf, ok := volumeFactor(from); ok {
		if vt, ok := volumeFactor(to); ok {
			return vf / vt, true
		}
		return 0, false
	}
	if wf, ok := weightFactor(from); ok {
		if wt, ok := weightFactor(to); ok {
			return wf / wt, true
		}
	}
	return 0, false
}

// packageSizeGrams extracts package sizes like "(16 oz)" that some
// lines carry instead of a leading amount
func (p *Parser) packageSizeGrams(s string) *float64 {
	m := packageSizeRe.FindStringSubmatch(s)
	if m == nil {
		return nil
	}
	qty, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return nil
	}
	unit, ok := p.converter.Canonical(m[2])
	if !ok {
		return nil
	}
	return p.converter.ToGrams(&qty, &unit, "")
}
