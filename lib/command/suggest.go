// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package command

// suggest returns the candidate closest to unknown, or "" if nothing is
// close enough. "Close enough" means an edit distance of at most 3.
func suggest(unknown string, candidates []string) string {
	bestName := ""
	bestDistance := 4

	for _, candidate := range candidates {
		distance := levenshtein(unknown, candidate)
		if distance < bestDistance {
			bestDistance = distance
			bestName = candidate
		}
	}

	return bestName
}

// levenshtein computes the edit distance between two strings, counting
// single-byte insertions, deletions, and substitutions.
func levenshtein(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	// One row of the distance matrix, updated in place.
	if len(a) > len(b) {
		a, b = b, a
	}

	previous := make([]int, len(a)+1)
	for i := range previous {
		previous[i] = i
	}

	for j := 1; j <= len(b); j++ {
		current := make([]int, len(a)+1)
		current[0] = j

		for i := 1; i <= len(a); i++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			current[i] = min(previous[i]+1, current[i-1]+1, previous[i-1]+cost)
		}

		previous = current
	}

	return previous[len(a)]
}
