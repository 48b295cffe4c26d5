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

// Package dict implements reading .dict files.
//
// The whole decompressed .dict file is held in memory and articles are
// addressed by the offset and size recorded in the .idx file.
package dict

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ianlewis/go-dictzip"
	"github.com/klauspost/compress/gzip"
)

// ErrOutOfRange indicates an article that does not fit in the content.
var ErrOutOfRange = errors.New("article out of range")

// Dict is a Stardict dictionary's decompressed content. It is read-only and
// safe for concurrent use.
type Dict struct {
	content string
}

// New returns a new Dict holding b.
func New(b []byte) *Dict {
	return &Dict{
		content: string(b),
	}
}

// Read reads all of r into a new Dict.
func Read(r io.Reader) (*Dict, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading dictionary: %w", err)
	}
	return New(b), nil
}

// Open reads the .dict file at path. Files ending in .dz are read as dictzip
// files, falling back to plain gzip when the dictzip header is missing.
// Files ending in .gz are read as gzip. Compressed files are decompressed in
// full.
func Open(path string) (*Dict, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening .dict file: %w", err)
	}
	defer f.Close()

	r := io.NopCloser(f)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".dz":
		r, err = newDictzipReader(f)
	case ".gz":
		r, err = newGzipReader(f)
	}
	if err != nil {
		return nil, err
	}
	defer r.Close()

	return Read(r)
}

func newDictzipReader(f *os.File) (io.ReadCloser, error) {
	z, err := dictzip.NewReader(f)
	if err == nil {
		return z, nil
	}
	if !errors.Is(err, dictzip.ErrHeader) {
		return nil, fmt.Errorf("creating .dict dictzip reader: %w", err)
	}

	// Not a dictzip file. dictzip files are valid gzip files so a plain gzip
	// stream is accepted too.
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seeking .dict file: %w", err)
	}
	return newGzipReader(f)
}

func newGzipReader(f *os.File) (io.ReadCloser, error) {
	z, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("creating .dict gzip reader: %w", err)
	}
	return z, nil
}

// Len returns the length of the content in bytes.
func (d *Dict) Len() uint64 {
	return uint64(len(d.content))
}

// Contains reports whether the article at [offset, offset+size) lies within
// the content.
func (d *Dict) Contains(offset, size uint64) bool {
	return offset <= d.Len() && size <= d.Len()-offset
}

// Get returns the article at [offset, offset+size).
func (d *Dict) Get(offset, size uint64) (string, error) {
	if !d.Contains(offset, size) {
		return "", fmt.Errorf("%w: [%d, %d) > %d", ErrOutOfRange, offset, offset+size, d.Len())
	}
	return d.content[offset : offset+size], nil
}

// Bytes returns a copy of the article at [offset, offset+size).
func (d *Dict) Bytes(offset, size uint64) ([]byte, error) {
	s, err := d.Get(offset, size)
	if err != nil {
		return nil, err
	}
	return bytes.Clone([]byte(s)), nil
}
