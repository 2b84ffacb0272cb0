// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"sort"
	"strings"

	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"
)

// SearchResult is one command matched by Search.
type SearchResult struct {
	Command *Command
	// Name is the short name the pattern was matched against.
	Name  string
	Score int
	// Positions are the rune offsets in Name that matched the pattern,
	// for highlighting.
	Positions []int
}

// Search fuzzy-matches pattern against the short name of every command
// using fzf's scoring. Results are ordered by descending score, then by
// name. An empty pattern matches every command with score zero.
func (r *Registry) Search(pattern string) []SearchResult {
	commands := r.Commands()
	// Case-insensitive matching expects a lowercase pattern.
	runes := []rune(strings.ToLower(pattern))
	slab := util.MakeSlab(100*1024, 2048)

	var results []SearchResult
	for _, command := range commands {
		name := r.ShortName(command)
		if len(runes) == 0 {
			results = append(results, SearchResult{Command: command, Name: name})
			continue
		}
		chars := util.ToChars([]byte(name))
		match, positions := algo.FuzzyMatchV2(false, true, true, &chars, runes, true, slab)
		if match.Start < 0 {
			continue
		}
		result := SearchResult{Command: command, Name: name, Score: match.Score}
		if positions != nil {
			result.Positions = append([]int(nil), (*positions)...)
			sort.Ints(result.Positions)
		}
		results = append(results, result)
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Name < results[j].Name
	})
	return results
}
