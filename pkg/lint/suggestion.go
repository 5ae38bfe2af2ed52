package lint

import (
	"fmt"
	"strings"
)

// SuggestName suggests the closest known name for an unknown one, using
// Levenshtein distance. It returns "" when known is empty.
func SuggestName(unknown string, known []string) string {
	if len(known) == 0 {
		return ""
	}

	minDistance := 1000
	var bestMatch string
	for _, name := range known {
		if d := levenshteinDistance(unknown, name); d < minDistance {
			minDistance = d
			bestMatch = name
		}
	}

	// Only suggest if the distance is reasonable
	if minDistance < 5 {
		return fmt.Sprintf("Did you mean '%s'?", bestMatch)
	}
	if len(known) > 5 {
		return fmt.Sprintf("Valid names include: %s, ...", strings.Join(known[:5], ", "))
	}
	return fmt.Sprintf("Valid names: %s", strings.Join(known, ", "))
}

// levenshteinDistance computes the edit distance between two strings.
func levenshteinDistance(s1, s2 string) int {
	if s1 == s2 {
		return 0
	}

	prev := make([]int, len(s2)+1)
	curr := make([]int, len(s2)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(s1); i++ {
		curr[0] = i
		for j := 1; j <= len(s2); j++ {
			cost := 1
			if s1[i-1] == s2[j-1] {
				cost = 0
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(s2)]
}
