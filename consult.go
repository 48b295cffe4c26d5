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

package stardict

import (
	"strings"

	"github.com/ianlewis/sdlib/dict"
	"github.com/ianlewis/sdlib/idx"
)

// Result is a single definition returned by a query.
type Result struct {
	// Dict is the bookname of the dictionary the definition came from.
	Dict string `json:"dict"`

	// Word is the headword as it appears in the dictionary.
	Word string `json:"word"`

	// Definition is the raw article text.
	Definition string `json:"definition"`

	// Distance is the edit distance between the query and Word. It is zero
	// for exact matches.
	Distance int `json:"distance"`

	sametypesequence []dict.DataType
}

// Data splits the definition into its typed parts.
func (r *Result) Data() ([]*dict.Data, error) {
	//nolint:wrapcheck // dict errors are descriptive.
	return dict.Parse([]byte(r.Definition), r.sametypesequence)
}

// String returns the headword followed by a plain text rendering of the
// definition. Definitions that cannot be split are returned as is.
func (r *Result) String() string {
	var b strings.Builder
	b.WriteString(r.Word)
	b.WriteString("\n")

	data, err := r.Data()
	if err != nil {
		b.WriteString(r.Definition)
		b.WriteString("\n")
		return b.String()
	}
	for _, d := range data {
		if s := d.String(); s != "" {
			b.WriteString(s)
			b.WriteString("\n")
		}
	}
	return b.String()
}

// Consult queries the dictionary for word. Exact queries return every entry
// whose headword or synonym equals word after folding, in index order.
// Fuzzy queries return the closest entries ordered by edit distance and
// headword.
//
// An error is only returned if an entry cannot be resolved against the
// content, which loading guarantees against.
func (d *Dictionary) Consult(word string, option *ConsultOption) ([]*Result, error) {
	if option == nil {
		option = DefaultConsultOption()
	}

	var matches []*idx.Match
	var err error
	if option.Fuzzy {
		matches, err = d.idx.Fuzzy(word, &idx.FuzzyOptions{
			MaxDist: option.MaxDist,
			MaxItem: option.MaxItem,
		})
	} else {
		matches, err = d.exact(word)
	}
	if err != nil {
		return nil, consultError(d.bookname, word, err)
	}

	results := make([]*Result, 0, len(matches))
	for _, m := range matches {
		def, err := d.dict.Get(m.Offset, m.Size)
		if err != nil {
			return nil, consultError(d.bookname, word, err)
		}
		results = append(results, &Result{
			Dict:             d.bookname,
			Word:             m.Word.Word,
			Definition:       def,
			Distance:         m.Distance,
			sametypesequence: d.info.SameTypeSequence,
		})
	}
	return results, nil
}

// exact returns the entries matching word directly followed by those
// reached through synonyms. Each entry is returned once.
func (d *Dictionary) exact(word string) ([]*idx.Match, error) {
	words, err := d.idx.Search(word)
	if err != nil {
		//nolint:wrapcheck // wrapped by Consult.
		return nil, err
	}

	seen := make(map[*idx.Word]bool, len(words))
	matches := make([]*idx.Match, 0, len(words))
	for _, w := range words {
		seen[w] = true
		matches = append(matches, &idx.Match{Word: w})
	}

	if d.syn == nil {
		return matches, nil
	}

	synonyms, err := d.syn.Search(word)
	if err != nil {
		//nolint:wrapcheck // wrapped by Consult.
		return nil, err
	}
	for _, s := range synonyms {
		w := d.idx.Word(int(s.OriginalWordIndex))
		if seen[w] {
			continue
		}
		seen[w] = true
		matches = append(matches, &idx.Match{Word: w})
	}
	return matches, nil
}
