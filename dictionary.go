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
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ianlewis/sdlib/dict"
	"github.com/ianlewis/sdlib/idx"
	"github.com/ianlewis/sdlib/ifo"
	"github.com/ianlewis/sdlib/syn"
)

// Dictionary is a loaded Stardict dictionary. It is read-only and safe for
// concurrent use.
type Dictionary struct {
	dir  string
	info *ifo.Info
	idx  *idx.Idx
	dict *dict.Dict

	// syn is nil if the dictionary has no .syn file.
	syn *syn.Syn

	bookname string
}

// files holds the paths of the files that make up a dictionary.
type files struct {
	dict string
	idx  string
	ifo  string
	syn  string
}

// findFiles classifies the regular files in dir by extension. When more than
// one file of a class is present the last one in name order is used.
func findFiles(dir string) (*files, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}

	var f files
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		path := filepath.Join(dir, e.Name())
		name := strings.ToLower(e.Name())
		switch {
		case strings.HasSuffix(name, ".syn"),
			strings.HasSuffix(name, ".syn.gz"),
			strings.HasSuffix(name, ".syn.dz"):
			f.syn = path
		case strings.HasSuffix(name, ".idx"),
			strings.HasSuffix(name, ".idx.gz"):
			f.idx = path
		case strings.HasSuffix(name, ".ifo"):
			f.ifo = path
		case strings.HasSuffix(name, ".dict"),
			strings.HasSuffix(name, ".dz"):
			f.dict = path
		}
	}

	switch {
	case f.dict == "":
		return nil, fmt.Errorf("%w in %s", ErrNoDict, dir)
	case f.idx == "":
		return nil, fmt.Errorf("%w in %s", ErrNoIdx, dir)
	case f.ifo == "":
		return nil, fmt.Errorf("%w in %s", ErrNoIfo, dir)
	}
	return &f, nil
}

// LoadDictionary loads the dictionary in dir. The .ifo file is read first
// since it declares the width of the offsets in the .idx file. Every index
// entry is checked to lie within the content. No partially loaded
// Dictionary is ever returned.
func LoadDictionary(dir string, options *Options) (*Dictionary, error) {
	f, err := findFiles(dir)
	if err != nil {
		return nil, err
	}

	info, err := ifo.Open(f.ifo)
	if err != nil {
		return nil, loadError(f.ifo, err)
	}

	index, err := idx.Open(f.idx, &idx.Options{
		OffsetBits: info.OffsetBits,
		Folder:     options.folder(),
	})
	if err != nil {
		return nil, loadError(f.idx, err)
	}

	content, err := dict.Open(f.dict)
	if err != nil {
		return nil, loadError(f.dict, err)
	}

	for i := range index.Len() {
		w := index.Word(i)
		if !content.Contains(w.Offset, w.Size) {
			return nil, loadError(f.idx, fmt.Errorf("%w: %q at [%d, %d) exceeds %d bytes of content",
				ErrEntryOutOfRange, w.Word, w.Offset, w.Offset+w.Size, content.Len()))
		}
	}

	d := &Dictionary{
		dir:      dir,
		info:     info,
		idx:      index,
		dict:     content,
		bookname: info.Bookname,
	}
	if d.bookname == "" {
		d.bookname = filepath.Base(dir)
	}

	if f.syn != "" {
		d.syn, err = loadSyn(f.syn, index.Len(), options)
		if err != nil {
			return nil, err
		}
	}

	logger := options.logger()
	logger.Debug("loaded dictionary",
		slog.String("dir", dir),
		slog.String("bookname", d.bookname),
		slog.Int("words", index.Len()),
	)
	if info.WordCount != 0 && info.WordCount != int64(index.Len()) {
		logger.Debug("wordcount does not match index",
			slog.String("bookname", d.bookname),
			slog.Int64("wordcount", info.WordCount),
			slog.Int("words", index.Len()),
		)
	}

	return d, nil
}

func loadSyn(path string, words int, options *Options) (*syn.Syn, error) {
	s, err := syn.Open(path, &syn.Options{
		Folder: options.folder(),
	})
	if err != nil {
		return nil, loadError(path, err)
	}
	if m := s.MaxOriginalWordIndex(); m >= int64(words) {
		return nil, loadError(path, fmt.Errorf("%w: synonym refers to entry %d of %d", ErrEntryOutOfRange, m, words))
	}
	return s, nil
}

// Dir returns the directory the dictionary was loaded from.
func (d *Dictionary) Dir() string {
	return d.dir
}

// Bookname returns the dictionary name. It falls back to the directory name
// when the .ifo file does not declare one.
func (d *Dictionary) Bookname() string {
	return d.bookname
}

// Description returns the dictionary description.
func (d *Dictionary) Description() string {
	return d.info.Description
}

// Author returns the dictionary author.
func (d *Dictionary) Author() string {
	return d.info.Author
}

// Email returns the dictionary contact email.
func (d *Dictionary) Email() string {
	return d.info.Email
}

// Website returns the dictionary website url.
func (d *Dictionary) Website() string {
	return d.info.Website
}

// WordCount returns the number of entries in the dictionary's index.
func (d *Dictionary) WordCount() int {
	return d.idx.Len()
}

// Version returns the dictionary format version.
func (d *Dictionary) Version() string {
	return string(d.info.Version)
}

// Info returns the dictionary metadata.
func (d *Dictionary) Info() *ifo.Info {
	return d.info
}
