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
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/klauspost/compress/gzip"
	"golang.org/x/text/transform"

	"github.com/ianlewis/sdlib/internal/folding"
	"github.com/ianlewis/sdlib/internal/index"
)

// foldedWord is an index entry along with its folded title.
type foldedWord struct {
	folded string

	// runes is the number of runes in folded.
	runes int

	word *Word
}

func (w *foldedWord) String() string {
	return w.folded
}

// Options are options for the idx data.
type Options struct {
	// OffsetBits are the number of bits in the offset fields. Valid values for
	// OffsetBits are either 32 or 64.
	OffsetBits OffsetBits

	// Folder returns a [transform.Transformer] that performs folding (e.g.
	// case folding, whitespace folding, etc.) on index entries and queries.
	Folder func() transform.Transformer
}

// DefaultOptions is the default options for an Idx.
var DefaultOptions = &Options{
	OffsetBits: OffsetBits32,
	Folder:     folding.Default,
}

// Idx is an in-memory index of an .idx file. It is read-only after creation
// and safe for concurrent use.
type Idx struct {
	// words holds the entries in file order.
	words []*foldedWord

	// index is sorted by the folded word value.
	index *index.Index[*foldedWord]

	// foldTransformer performs folding on text.
	foldTransformer func() transform.Transformer
}

// New returns a new in-memory index by reading r to the end. r is closed
// before New returns.
func New(r io.ReadCloser, options *Options) (*Idx, error) {
	if options == nil {
		options = DefaultOptions
	}

	idx := &Idx{
		foldTransformer: DefaultOptions.Folder,
	}
	if options.Folder != nil {
		idx.foldTransformer = options.Folder
	}

	s, err := NewScanner(r, &ScannerOptions{
		OffsetBits: options.OffsetBits,
	})
	if err != nil {
		r.Close()
		return nil, err
	}
	defer s.Close()

	for s.Scan() {
		word := s.Word()
		folded, err := folding.String(idx.foldTransformer, word.Word)
		if err != nil {
			return nil, fmt.Errorf("folding word %q: %w", word.Word, err)
		}
		idx.words = append(idx.words, &foldedWord{
			folded: folded,
			runes:  utf8.RuneCountInString(folded),
			word:   word,
		})
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("scanning index: %w", err)
	}

	idx.index = index.NewIndex(idx.words, strings.Compare)

	return idx, nil
}

// Open reads the index at path. Files ending in .gz are decompressed.
func Open(path string, options *Options) (*Idx, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening .idx file: %w", err)
	}

	var r io.ReadCloser = f
	if strings.EqualFold(filepath.Ext(path), ".gz") {
		z, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("creating .idx gzip reader: %w", err)
		}
		r = &gzipReadCloser{Reader: z, f: f}
	}

	return New(r, options)
}

// gzipReadCloser closes both the gzip stream and the underlying file.
type gzipReadCloser struct {
	*gzip.Reader
	f *os.File
}

func (g *gzipReadCloser) Close() error {
	zErr := g.Reader.Close()
	if err := g.f.Close(); err != nil {
		return fmt.Errorf("closing .idx file: %w", err)
	}
	if zErr != nil {
		return fmt.Errorf("closing .idx gzip reader: %w", zErr)
	}
	return nil
}

// Len returns the number of entries in the index.
func (idx *Idx) Len() int {
	return len(idx.words)
}

// Word returns the i-th entry in file order.
func (idx *Idx) Word(i int) *Word {
	return idx.words[i].word
}

// Search returns every entry whose folded title equals the folded query.
// Entries sharing a title are returned in file order.
func (idx *Idx) Search(query string) ([]*Word, error) {
	foldedQuery, err := folding.String(idx.foldTransformer, query)
	if err != nil {
		return nil, fmt.Errorf("folding query %q: %w", query, err)
	}

	var words []*Word
	for _, w := range idx.index.Search(foldedQuery) {
		words = append(words, w.word)
	}
	return words, nil
}
