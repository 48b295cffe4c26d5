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

package idx_test

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/klauspost/compress/gzip"

	"github.com/ianlewis/sdlib/idx"
	"github.com/ianlewis/sdlib/internal/folding"
	"github.com/ianlewis/sdlib/internal/testutil"
)

func newIdx(t *testing.T, words []*idx.Word, options *idx.Options) *idx.Idx {
	t.Helper()

	bits := idx.OffsetBits32
	if options != nil && options.OffsetBits != 0 {
		bits = options.OffsetBits
	}
	index, err := idx.New(io.NopCloser(bytes.NewReader(testutil.MakeIndex(words, bits))), options)
	if err != nil {
		t.Fatalf("idx.New: %v", err)
	}
	return index
}

func titles(words []*idx.Word) []string {
	var s []string
	for _, w := range words {
		s = append(s, w.Word)
	}
	return s
}

// TestIdx_Search tests Idx.Search.
func TestIdx_Search(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		query    string
		idxWords []*idx.Word
		options  *idx.Options

		expected []*idx.Word
	}{
		{
			name:     "empty index",
			query:    "foo",
			idxWords: []*idx.Word{},

			expected: nil,
		},
		{
			name:  "no match",
			query: "hoge",
			idxWords: []*idx.Word{
				{Word: "bar"},
				{Word: "baz"},
				{Word: "foo"},
			},

			expected: nil,
		},
		{
			name:  "single match",
			query: "baz",
			idxWords: []*idx.Word{
				{Word: "bar"},
				{Word: "baz"},
				{Word: "foo"},
			},

			expected: []*idx.Word{
				{Word: "baz"},
			},
		},
		{
			name:  "unsorted index",
			query: "bar",
			idxWords: []*idx.Word{
				{Word: "pico"},
				{Word: "foo"},
				{Word: "bar"},
				{Word: "baz"},
			},

			expected: []*idx.Word{
				{Word: "bar"},
			},
		},
		{
			name:  "multi-match",
			query: "hoge",
			idxWords: []*idx.Word{
				{Word: "fuga"},
				{Word: "hoge", Offset: 123, Size: 456},
				{Word: "hoge", Offset: 234, Size: 567},
				{Word: "pico"},
				{Word: "Hoge", Offset: 345, Size: 678},
			},

			expected: []*idx.Word{
				{Word: "hoge", Offset: 123, Size: 456},
				{Word: "hoge", Offset: 234, Size: 567},
				{Word: "Hoge", Offset: 345, Size: 678},
			},
		},
		{
			name:  "case folding",
			query: "A",
			idxWords: []*idx.Word{
				{Word: "a", Offset: 0, Size: 132},
				{Word: "ab", Offset: 132, Size: 10},
			},

			expected: []*idx.Word{
				// NOTE: The returned index word is the value in the index
				//       and not the folded value.
				{Word: "a", Offset: 0, Size: 132},
			},
		},
		{
			name:  "whitespace folding",
			query: "  new   york ",
			idxWords: []*idx.Word{
				{Word: "New York"},
			},

			expected: []*idx.Word{
				{Word: "New York"},
			},
		},
		{
			name:  "lower only folder",
			query: "  new   york ",
			idxWords: []*idx.Word{
				{Word: "New York"},
			},
			options: &idx.Options{
				OffsetBits: idx.OffsetBits32,
				Folder:     folding.Lower,
			},

			expected: nil,
		},
		{
			name:  "64 bit",
			query: "搜索",
			idxWords: []*idx.Word{
				{Word: "search", Offset: 0, Size: 10},
				{Word: "搜索", Offset: 1 << 33, Size: 20},
			},
			options: &idx.Options{
				OffsetBits: idx.OffsetBits64,
			},

			expected: []*idx.Word{
				{Word: "搜索", Offset: 1 << 33, Size: 20},
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			index := newIdx(t, test.idxWords, test.options)

			result, err := index.Search(test.query)
			if err != nil {
				t.Fatalf("Search: %v", err)
			}
			if diff := cmp.Diff(test.expected, result); diff != "" {
				t.Fatalf("Search (-want, +got):\n%s", diff)
			}
		})
	}
}

var fuzzyWords = []*idx.Word{
	{Word: "starch"},
	{Word: "search"},
	{Word: "sea"},
	{Word: "searches"},
	{Word: "peach"},
	{Word: "xyzzyq"},
}

// TestIdx_Fuzzy tests Idx.Fuzzy.
func TestIdx_Fuzzy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		query    string
		idxWords []*idx.Word
		options  *idx.FuzzyOptions

		expected  []string
		distances []int
	}{
		{
			name:      "misspelling",
			query:     "zearch",
			idxWords:  fuzzyWords,
			options:   &idx.FuzzyOptions{MaxDist: 3, MaxItem: 10},
			expected:  []string{"search", "peach", "starch", "searches"},
			distances: []int{1, 2, 2, 3},
		},
		{
			name:      "exact match ranks first",
			query:     "Search",
			idxWords:  fuzzyWords,
			options:   &idx.FuzzyOptions{MaxDist: 3, MaxItem: 10},
			expected:  []string{"search", "starch", "peach", "searches"},
			distances: []int{0, 1, 2, 2},
		},
		{
			name:      "truncated after ranking",
			query:     "zearch",
			idxWords:  fuzzyWords,
			options:   &idx.FuzzyOptions{MaxDist: 3, MaxItem: 2},
			expected:  []string{"search", "peach"},
			distances: []int{1, 2},
		},
		{
			name:      "length pre-filter",
			query:     "zearch",
			idxWords:  fuzzyWords,
			options:   &idx.FuzzyOptions{MaxDist: 1, MaxItem: 10},
			expected:  []string{"search"},
			distances: []int{1},
		},
		{
			name:  "distance must be shorter than both lengths",
			query: "ab",
			idxWords: []*idx.Word{
				{Word: "a"},
				{Word: "x"},
				{Word: "abc"},
				{Word: "AB"},
			},
			options:   &idx.FuzzyOptions{MaxDist: 3, MaxItem: 10},
			expected:  []string{"AB", "abc"},
			distances: []int{0, 1},
		},
		{
			name:  "duplicates keep file order",
			query: "hoge",
			idxWords: []*idx.Word{
				{Word: "hoge", Offset: 2},
				{Word: "hoga"},
				{Word: "hoge", Offset: 1},
			},
			options:   &idx.FuzzyOptions{MaxDist: 2, MaxItem: 10},
			expected:  []string{"hoge", "hoge", "hoga"},
			distances: []int{0, 0, 1},
		},
		{
			name:     "empty query",
			query:    "",
			idxWords: fuzzyWords,
			options:  &idx.FuzzyOptions{MaxDist: 3, MaxItem: 10},
			expected: nil,
		},
		{
			name:     "query longer than every candidate",
			query:    "searchingforsomething",
			idxWords: fuzzyWords,
			options:  &idx.FuzzyOptions{MaxDist: 3, MaxItem: 10},
			expected: nil,
		},
		{
			name:     "empty index",
			query:    "search",
			idxWords: []*idx.Word{},
			options:  &idx.FuzzyOptions{MaxDist: 3, MaxItem: 10},
			expected: nil,
		},
		{
			name:      "default options",
			query:     "zearch",
			idxWords:  fuzzyWords,
			options:   nil,
			expected:  []string{"search", "peach", "starch", "searches"},
			distances: []int{1, 2, 2, 3},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			index := newIdx(t, test.idxWords, nil)

			matches, err := index.Fuzzy(test.query, test.options)
			if err != nil {
				t.Fatalf("Fuzzy: %v", err)
			}

			var got []string
			var distances []int
			for _, m := range matches {
				got = append(got, m.Word.Word)
				distances = append(distances, m.Distance)
			}
			if diff := cmp.Diff(test.expected, got); diff != "" {
				t.Errorf("Fuzzy words (-want, +got):\n%s", diff)
			}
			if diff := cmp.Diff(test.distances, distances); diff != "" {
				t.Errorf("Fuzzy distances (-want, +got):\n%s", diff)
			}
		})
	}
}

// TestIdx_Fuzzy_properties checks ordering, bounds and repeatability over a
// larger index.
func TestIdx_Fuzzy_properties(t *testing.T) {
	t.Parallel()

	var words []*idx.Word
	for _, a := range []string{"s", "z", "t", "p"} {
		for _, b := range []string{"ea", "e", "ta", "a"} {
			for _, c := range []string{"rch", "ch", "rches", "r"} {
				words = append(words, &idx.Word{Word: a + b + c})
			}
		}
	}
	index := newIdx(t, words, nil)
	options := &idx.FuzzyOptions{MaxDist: 2, MaxItem: 7}

	first, err := index.Fuzzy("search", options)
	if err != nil {
		t.Fatalf("Fuzzy: %v", err)
	}
	if len(first) == 0 || len(first) > options.MaxItem {
		t.Fatalf("unexpected # of matches: %d", len(first))
	}
	for i, m := range first {
		if m.Distance > options.MaxDist {
			t.Errorf("match %q: distance %d > %d", m.Word.Word, m.Distance, options.MaxDist)
		}
		if i == 0 {
			continue
		}
		prev := first[i-1]
		if prev.Distance > m.Distance || (prev.Distance == m.Distance && prev.Word.Word > m.Word.Word) {
			t.Errorf("matches out of order: %q(%d) before %q(%d)",
				prev.Word.Word, prev.Distance, m.Word.Word, m.Distance)
		}
	}

	second, err := index.Fuzzy("search", options)
	if err != nil {
		t.Fatalf("Fuzzy: %v", err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("repeated Fuzzy (-first, +second):\n%s", diff)
	}
}

// TestOpen tests reading plain and gzip compressed index files.
func TestOpen(t *testing.T) {
	t.Parallel()

	words := []*idx.Word{
		{Word: "a", Offset: 0, Size: 132},
		{Word: "search", Offset: 132, Size: 9},
	}
	data := testutil.MakeIndex(words, idx.OffsetBits32)

	var gz bytes.Buffer
	z := gzip.NewWriter(&gz)
	if _, err := z.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := z.Close(); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		file string
		data []byte
	}{
		{
			name: "plain",
			file: "dictionary.idx",
			data: data,
		},
		{
			name: "gzip",
			file: "dictionary.idx.gz",
			data: gz.Bytes(),
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), test.file)
			if err := os.WriteFile(path, test.data, 0o600); err != nil {
				t.Fatal(err)
			}

			index, err := idx.Open(path, nil)
			if err != nil {
				t.Fatalf("Open: %v", err)
			}
			if got := index.Len(); got != len(words) {
				t.Fatalf("Len: want %d, got %d", len(words), got)
			}

			result, err := index.Search("A")
			if err != nil {
				t.Fatalf("Search: %v", err)
			}
			if diff := cmp.Diff([]string{"a"}, titles(result)); diff != "" {
				t.Fatalf("Search (-want, +got):\n%s", diff)
			}
			if diff := cmp.Diff(words[0], result[0]); diff != "" {
				t.Fatalf("Search entry (-want, +got):\n%s", diff)
			}
		})
	}
}

// closeRecorder records whether it was closed.
type closeRecorder struct {
	io.Reader
	closed bool
}

func (c *closeRecorder) Close() error {
	c.closed = true
	return nil
}

// TestNew_closesReader tests that New closes its reader on every path.
func TestNew_closesReader(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		options *idx.Options
		err     error
	}{
		{
			name:    "success",
			options: &idx.Options{OffsetBits: idx.OffsetBits32},
		},
		{
			name:    "invalid offset bits",
			options: &idx.Options{OffsetBits: 16},
			err:     idx.ErrInvalidIdxOffset,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			r := &closeRecorder{
				Reader: bytes.NewReader(testutil.MakeIndex([]*idx.Word{{Word: "a", Size: 1}}, idx.OffsetBits32)),
			}
			_, err := idx.New(r, test.options)
			if diff := cmp.Diff(test.err, err, cmpopts.EquateErrors()); diff != "" {
				t.Fatalf("New (-want, +got):\n%s", diff)
			}
			if !r.closed {
				t.Fatalf("New: reader was not closed")
			}
		})
	}
}

// TestNew_64bit tests an index whose offsets and sizes are both 64 bits.
func TestNew_64bit(t *testing.T) {
	t.Parallel()

	words := []*idx.Word{
		{Word: "a", Offset: 0, Size: 132},
		{Word: "search", Offset: 0, Size: 132},
		{Word: "huge", Offset: 1 << 32, Size: 1 << 32},
	}
	index := newIdx(t, words, &idx.Options{OffsetBits: idx.OffsetBits64})

	if got := index.Len(); got != len(words) {
		t.Fatalf("Len: want %d, got %d", len(words), got)
	}
	for i, want := range words {
		if diff := cmp.Diff(want, index.Word(i)); diff != "" {
			t.Errorf("Word(%d) (-want, +got):\n%s", i, diff)
		}
	}
}
