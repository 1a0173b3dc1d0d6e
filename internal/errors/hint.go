package errors

import (
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// maxEditDistance bounds how far a misspelling may be from its suggestion.
const maxEditDistance = 2

// Suggest returns a "did you mean" hint naming the candidate closest to word,
// or an empty string when nothing is close enough.
func Suggest(word string, candidates []string) string {
	if match := findClosestMatch(word, candidates); match != "" {
		return "did you mean " + `"` + match + `"?`
	}
	return ""
}

// findClosestMatch prefers subsequence matches (abbreviations such as "fn")
// and falls back to edit distance for transpositions such as "retrun".
// Edit-distance candidates must share the first letter.
func findClosestMatch(word string, candidates []string) string {
	if len(word) < 2 || len(candidates) == 0 {
		return ""
	}

	for _, c := range candidates {
		if c == word {
			return ""
		}
	}

	ranks := fuzzy.RankFindFold(word, candidates)
	if len(ranks) > 0 {
		sort.Sort(ranks)
		return ranks[0].Target
	}

	best, bestDist := "", maxEditDistance+1
	for _, c := range candidates {
		if c == "" || c[0] != word[0] {
			continue
		}
		if d := fuzzy.LevenshteinDistance(word, c); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}
