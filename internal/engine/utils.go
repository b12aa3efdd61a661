// Completion: 100% - Utility module complete
package engine

import (
	"sort"

	"github.com/agext/levenshtein"
)

// utils.go - Name matching helpers
//
// CPU and feature names arrive as free-form strings from the driver. When one
// does not match the tables, the resolver keeps going with a default and these
// helpers produce the "did you mean" hint that goes into the warning.

// maxSuggestionDistance is the largest edit distance still worth suggesting
const maxSuggestionDistance = 3

// levenshteinDistance calculates the edit distance between two strings
func levenshteinDistance(s1, s2 string) int {
	return levenshtein.Distance(s1, s2, nil)
}

// SimilarNames returns up to maxSuggestions candidates close to name,
// closest first. Exact matches are not suggestions.
func SimilarNames(name string, candidates []string, maxSuggestions int) []string {
	type suggestion struct {
		name     string
		distance int
	}

	var suggestions []suggestion
	for _, candidate := range candidates {
		dist := levenshteinDistance(name, candidate)
		if dist <= maxSuggestionDistance && dist > 0 {
			suggestions = append(suggestions, suggestion{candidate, dist})
		}
	}

	sort.Slice(suggestions, func(i, j int) bool {
		if suggestions[i].distance == suggestions[j].distance {
			return suggestions[i].name < suggestions[j].name
		}
		return suggestions[i].distance < suggestions[j].distance
	})

	result := make([]string, 0, maxSuggestions)
	for i := 0; i < len(suggestions) && i < maxSuggestions; i++ {
		result = append(result, suggestions[i].name)
	}
	return result
}

// Suggest returns the single closest candidate, or "" when nothing is close
func Suggest(name string, candidates []string) string {
	if s := SimilarNames(name, candidates, 1); len(s) > 0 {
		return s[0]
	}
	return ""
}
