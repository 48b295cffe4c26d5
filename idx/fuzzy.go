// Copyright 2025 Ian Lewis
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package idx

import (
	"cmp"
	"fmt"
	"slices"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"github.com/ianlewis/sdlib/internal/folding"
)

// Match is an entry admitted by a fuzzy search.
type Match struct {
	*Word

	// Distance is the edit distance between the folded query and the folded
	// entry title.
	Distance int
}

// FuzzyOptions are options for a fuzzy search.
type FuzzyOptions struct {
	// MaxDist is the maximum admissible edit distance.
	MaxDist int

	// MaxItem is the maximum number of matches returned.
	MaxItem int
}

// DefaultFuzzyOptions is the default options for Fuzzy.
var DefaultFuzzyOptions = &FuzzyOptions{
	MaxDist: 3,
	MaxItem: 10,
}

// Fuzzy returns the entries within options.MaxDist edits of query, ordered
// by distance and then by title, truncated to options.MaxItem entries.
//
// A candidate whose length differs from the query by MaxDist runes or more
// is not considered. A candidate is only admitted if its distance is smaller
// than both its own length and the length of the query, so an empty query
// matches nothing.
func (idx *Idx) Fuzzy(query string, options *FuzzyOptions) ([]*Match, error) {
	if options == nil {
		options = DefaultFuzzyOptions
	}
	maxDist := max(options.MaxDist, 0)
	maxItem := options.MaxItem
	if maxItem <= 0 {
		maxItem = DefaultFuzzyOptions.MaxItem
	}

	foldedQuery, err := folding.String(idx.foldTransformer, query)
	if err != nil {
		return nil, fmt.Errorf("folding query %q: %w", query, err)
	}
	queryLen := utf8.RuneCountInString(foldedQuery)

	var matches []*Match
	for _, w := range idx.words {
		if absDiff(queryLen, w.runes) >= maxDist {
			continue
		}
		d := levenshtein.ComputeDistance(foldedQuery, w.folded)
		if d > maxDist || d >= queryLen || d >= w.runes {
			continue
		}
		matches = append(matches, &Match{
			Word:     w.word,
			Distance: d,
		})
	}

	// The sort is stable so duplicate titles keep their file order.
	slices.SortStableFunc(matches, func(a, b *Match) int {
		if c := cmp.Compare(a.Distance, b.Distance); c != 0 {
			return c
		}
		return cmp.Compare(a.Word.Word, b.Word.Word)
	})

	if len(matches) > maxItem {
		matches = matches[:maxItem]
	}
	return matches, nil
}

func absDiff(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}
