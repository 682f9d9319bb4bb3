package inference

import (
	"fmt"
)

// levenshtein computes the edit distance between two strings.
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := 0; j <= len(rb); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, min(curr[j-1]+1, prev[j-1]+cost))
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

// levenshteinRatio is the normalized edit-distance similarity in [0,1].
func levenshteinRatio(a, b string) float64 {
	longest := max(len([]rune(a)), len([]rune(b)))
	if longest == 0 {
		return 1.0
	}
	return 1.0 - float64(levenshtein(a, b))/float64(longest)
}

// distinctStrings returns the set of distinct, stringified, non-null values.
func distinctStrings(values []any) map[string]struct{} {
	set := make(map[string]struct{})
	for _, v := range values {
		if v == nil {
			continue
		}
		set[fmt.Sprintf("%v", v)] = struct{}{}
	}
	return set
}

// jaccard is |a∩b| / |a∪b| over distinct value sets; 0 if either side is
// empty after dropping nulls.
func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}
	intersection := 0
	for v := range a {
		if _, ok := b[v]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	return float64(intersection) / float64(union)
}

// uniqueness is distinct/non_null for one column; 0 when every value is null.
func uniqueness(values []any) float64 {
	distinct := make(map[string]struct{})
	nonNull := 0
	for _, v := range values {
		if v == nil {
			continue
		}
		nonNull++
		distinct[fmt.Sprintf("%v", v)] = struct{}{}
	}
	if nonNull == 0 {
		return 0.0
	}
	return float64(len(distinct)) / float64(nonNull)
}

// sampleStrings returns up to limit stringified non-null values, in order.
func sampleStrings(values []any, limit int) []string {
	out := make([]string, 0, limit)
	for _, v := range values {
		if v == nil {
			continue
		}
		out = append(out, fmt.Sprintf("%v", v))
		if len(out) == limit {
			break
		}
	}
	return out
}
