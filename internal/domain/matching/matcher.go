// Package matching scores normalized food names against the known
// nutrition catalog using token-sort fuzzy similarity.
package matching

import (
	"math"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// DefaultThreshold is the minimum similarity score for a candidate to
// count as a fuzzy match
const DefaultThreshold = 70

// Match is one scored candidate
type Match struct {
	Name  string
	Score int
}

// Result holds the outcome of matching one name against the catalog
type Result struct {
	// Exact is the catalog name equal to the query after case and
	// whitespace folding, or empty
	Exact string

	// NextBest is the highest scoring non-exact candidate at or above
	// the threshold, or empty
	NextBest string

	// Similar lists all candidates at or above the threshold, best
	// first
	Similar []Match
}

// Matcher compares normalized names against candidate catalog names
type Matcher struct {
	threshold int
}

// NewMatcher creates a matcher with the given similarity threshold.
// Non-positive thresholds fall back to the default.
func NewMatcher(threshold int) *Matcher {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Matcher{threshold: threshold}
}

// Threshold returns the configured minimum similarity score
func (m *Matcher) Threshold() int {
	return m.threshold
}

// Match scores name against every candidate. Exact equality ignores
// case and runs of whitespace; everything else is token-sort ratio.
func (m *Matcher) Match(name string, candidates []string) Result {
	result := Result{}
	folded := fold(name)
	if folded == "" {
		return result
	}

	bestNonExact := -1
	for _, candidate := range candidates {
		cf := fold(candidate)
		if cf == "" {
			continue
		}
		if cf == folded {
			result.Exact = candidate
			result.Similar = append(result.Similar, Match{Name: candidate, Score: 100})
			continue
		}
		score := TokenSortRatio(folded, cf)
		if score >= m.threshold {
			result.Similar = append(result.Similar, Match{Name: candidate, Score: score})
			if score > bestNonExact {
				bestNonExact = score
				result.NextBest = candidate
			}
		}
	}

	sort.SliceStable(result.Similar, func(i, j int) bool {
		return result.Similar[i].Score > result.Similar[j].Score
	})
	return result
}

// TokenSortRatio computes similarity in [0,100] between two strings
// after sorting their tokens, so word order does not matter
func TokenSortRatio(a, b string) int {
	sa := sortTokens(a)
	sb := sortTokens(b)
	longest := len(sa)
	if len(sb) > longest {
		longest = len(sb)
	}
	if longest == 0 {
		return 0
	}
	if sa == sb {
		return 100
	}
	dist := levenshtein.ComputeDistance(sa, sb)
	ratio := 100 * (1 - float64(dist)/float64(longest))
	if ratio < 0 {
		return 0
	}
	return int(math.Round(ratio))
}

func sortTokens(s string) string {
	tokens := strings.Fields(strings.ToLower(s))
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

func fold(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
