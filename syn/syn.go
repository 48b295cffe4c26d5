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

// Package syn implements reading .syn files.
//
// A .syn file maps alternative spellings to entries of the .idx file by
// their position in it.
package syn

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"golang.org/x/text/transform"

	"github.com/ianlewis/sdlib/internal/folding"
	"github.com/ianlewis/sdlib/internal/index"
)

// Word is a .syn file entry.
type Word struct {
	// Word is the synonym word.
	Word string

	// OriginalWordIndex is the index into the .idx index.
	OriginalWordIndex uint32
}

type foldedWord struct {
	folded string
	word   *Word
}

func (w *foldedWord) String() string {
	return w.folded
}

// Options are options for the synonym index.
type Options struct {
	// Folder returns a [transform.Transformer] that performs folding (e.g.
	// case folding, whitespace folding, etc.) on synonyms and queries.
	Folder func() transform.Transformer
}

// DefaultOptions is the default options for a Syn.
var DefaultOptions = &Options{
	Folder: folding.Default,
}

// Syn is is the synonym index. It is largely a map of synonym words to related
// index entries.
type Syn struct {
	// index is sorted by the folded word value.
	index *index.Index[*foldedWord]

	// foldTransformer performs folding on text.
	foldTransformer func() transform.Transformer

	// maxTarget is the largest OriginalWordIndex or -1.
	maxTarget int64
}

// New returns a new Syn by reading the data from r. r is closed before New
// returns.
func New(r io.ReadCloser, options *Options) (*Syn, error) {
	if options == nil {
		options = DefaultOptions
	}

	syn := Syn{
		foldTransformer: DefaultOptions.Folder,
		maxTarget:       -1,
	}
	if options.Folder != nil {
		syn.foldTransformer = options.Folder
	}

	s := NewScanner(r)
	defer s.Close()

	var words []*foldedWord
	for s.Scan() {
		word := s.Word()
		folded, err := folding.String(syn.foldTransformer, word.Word)
		if err != nil {
			return nil, fmt.Errorf("folding word %q: %w", word.Word, err)
		}

		syn.maxTarget = max(syn.maxTarget, int64(word.OriginalWordIndex))
		words = append(words, &foldedWord{
			folded: folded,
			word:   word,
		})
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("scanning synonym index: %w", err)
	}

	syn.index = index.NewIndex(words, strings.Compare)

	return &syn, nil
}

// Open reads the .syn file at path. Files ending in .gz or .dz are
// decompressed.
func Open(path string, options *Options) (*Syn, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening .syn file: %w", err)
	}

	var r io.ReadCloser = f
	if ext := strings.ToLower(filepath.Ext(path)); ext == ".gz" || ext == ".dz" {
		z, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("creating .syn gzip reader: %w", err)
		}
		// The gzip reader does not close f.
		defer f.Close()
		r = z
	}

	return New(r, options)
}

// Len returns the number of synonyms.
func (syn *Syn) Len() int {
	return syn.index.Len()
}

// MaxOriginalWordIndex returns the largest index entry position referred to
// by a synonym, or -1 if there are no synonyms.
func (syn *Syn) MaxOriginalWordIndex() int64 {
	return syn.maxTarget
}

// Search performs a query of the index and returns matching words.
func (syn *Syn) Search(query string) ([]*Word, error) {
	foldedQuery, err := folding.String(syn.foldTransformer, query)
	if err != nil {
		return nil, fmt.Errorf("folding query %q: %w", query, err)
	}

	var words []*Word
	for _, w := range syn.index.Search(foldedQuery) {
		words = append(words, w.word)
	}

	return words, nil
}
