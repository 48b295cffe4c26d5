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

package testutil

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ianlewis/go-dictzip"
	"github.com/klauspost/compress/gzip"

	"github.com/ianlewis/sdlib/idx"
)

// Entry is a headword and its definition text.
type Entry struct {
	Word       string
	Definition string
}

// Synonym links a synonym title to the position of an entry in the index.
type Synonym struct {
	Word   string
	Target uint32
}

// DictOptions are options for writing a test dictionary.
type DictOptions struct {
	// BaseName is the file name without extension. Defaults to "dictionary".
	BaseName string

	// Bookname is the bookname written to the .ifo file. Defaults to
	// BaseName.
	Bookname string

	// Version is the .ifo version. Defaults to "2.4.2".
	Version string

	// OffsetBits is the idxoffsetbits used for the .idx file. Defaults to 32.
	// It is only written to the .ifo file for version 3.0.0.
	OffsetBits idx.OffsetBits

	// SameTypeSequence is the sametypesequence value. Defaults to "m".
	SameTypeSequence string

	// DictZip compresses the content into a .dict.dz file. Otherwise a plain
	// .dict file is written.
	DictZip bool

	// GzipIdx compresses the index into a .idx.gz file.
	GzipIdx bool

	// Synonyms are written to a .syn file when not empty.
	Synonyms []Synonym

	// Ifo replaces the generated .ifo file contents when not empty.
	Ifo string

	// Skip lists file classes ("ifo", "idx", "dict") that are not written.
	Skip []string
}

func (o *DictOptions) baseName() string {
	if o.BaseName != "" {
		return o.BaseName
	}
	return "dictionary"
}

func (o *DictOptions) skip(class string) bool {
	for _, s := range o.Skip {
		if s == class {
			return true
		}
	}
	return false
}

// MakeContent makes the decompressed .dict content for entries along with
// the index entries that point into it.
func MakeContent(t *testing.T, entries []Entry) ([]byte, []*idx.Word) {
	t.Helper()

	var content []byte
	words := make([]*idx.Word, 0, len(entries))
	for _, e := range entries {
		words = append(words, &idx.Word{
			Word:   e.Word,
			Offset: uint64(len(content)),
			Size:   uint64(len(e.Definition)),
		})
		content = append(content, e.Definition...)
	}
	return content, words
}

// MakeIfo makes .ifo file contents.
func MakeIfo(opts *DictOptions, wordCount, idxFileSize int) string {
	version := opts.Version
	if version == "" {
		version = "2.4.2"
	}
	bookname := opts.Bookname
	if bookname == "" {
		bookname = opts.baseName()
	}
	sts := opts.SameTypeSequence
	if sts == "" {
		sts = "m"
	}

	lines := []string{
		"StarDict's dict ifo file",
		"version=" + version,
		fmt.Sprintf("wordcount=%d", wordCount),
		fmt.Sprintf("idxfilesize=%d", idxFileSize),
		"bookname=" + bookname,
		"author=Test Author",
		"description=A test dictionary.",
		"date=2025.01.01",
		"sametypesequence=" + sts,
	}
	if version == "3.0.0" && opts.OffsetBits != 0 {
		lines = append(lines, fmt.Sprintf("idxoffsetbits=%d", opts.OffsetBits))
	}
	if len(opts.Synonyms) > 0 {
		lines = append(lines, fmt.Sprintf("synwordcount=%d", len(opts.Synonyms)))
	}
	return strings.Join(lines, "\n") + "\n"
}

// WriteDictionary writes a dictionary made of entries into dir and returns
// the path of its .ifo file.
func WriteDictionary(t *testing.T, dir string, entries []Entry, opts *DictOptions) string {
	t.Helper()
	if opts == nil {
		opts = &DictOptions{}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	base := filepath.Join(dir, opts.baseName())

	offsetBits := opts.OffsetBits
	if offsetBits == 0 {
		offsetBits = idx.OffsetBits32
	}

	content, words := MakeContent(t, entries)
	idxData := MakeIndex(words, offsetBits)

	if !opts.skip("ifo") {
		ifo := opts.Ifo
		if ifo == "" {
			ifo = MakeIfo(opts, len(words), len(idxData))
		}
		writeFile(t, base+".ifo", []byte(ifo))
	}

	if !opts.skip("idx") {
		if opts.GzipIdx {
			writeFile(t, base+".idx.gz", gzipBytes(t, idxData))
		} else {
			writeFile(t, base+".idx", idxData)
		}
	}

	if !opts.skip("dict") {
		if opts.DictZip {
			writeDictzip(t, base+".dict.dz", content)
		} else {
			writeFile(t, base+".dict", content)
		}
	}

	if len(opts.Synonyms) > 0 {
		var titles []string
		var targets []uint32
		for _, s := range opts.Synonyms {
			titles = append(titles, s.Word)
			targets = append(targets, s.Target)
		}
		writeFile(t, base+".syn", MakeSyn(titles, targets))
	}

	return base + ".ifo"
}

func writeFile(t *testing.T, path string, b []byte) {
	t.Helper()
	if err := os.WriteFile(path, b, 0o600); err != nil {
		t.Fatal(err)
	}
}

func gzipBytes(t *testing.T, b []byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	z := gzip.NewWriter(&buf)
	if _, err := z.Write(b); err != nil {
		t.Fatal(err)
	}
	if err := z.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func writeDictzip(t *testing.T, path string, b []byte) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	z, err := dictzip.NewWriter(f)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := z.Write(b); err != nil {
		t.Fatal(err)
	}
	if err := z.Close(); err != nil {
		t.Fatal(err)
	}
}
