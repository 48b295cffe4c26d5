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

// Package ifo implements reading .ifo files.
//
// The .ifo file is a text file of key=value lines describing the dictionary.
// It usually starts with a magic line.
package ifo

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/ianlewis/sdlib/dict"
	"github.com/ianlewis/sdlib/idx"
)

// Magic is the first line of every .ifo file.
const Magic = "StarDict's dict ifo file"

var (
	// ErrBadMagic indicates that the file starts with a line other than Magic
	// that is not a key=value line.
	ErrBadMagic = errors.New("bad magic data")

	// ErrMissingVersion indicates that the version key is absent.
	ErrMissingVersion = errors.New("missing version")

	// ErrInvalidVersion indicates an unsupported version.
	ErrInvalidVersion = errors.New("invalid version")

	// ErrInvalidValue indicates a value that could not be parsed.
	ErrInvalidValue = errors.New("invalid value")
)

var keyRegex = regexp.MustCompile("^[a-zA-Z0-9_-]+$")

// Ifo holds the raw contents of an .ifo file.
type Ifo struct {
	magic    string
	metadata map[string]string
}

// New reads raw .ifo data from r. The first line is the magic line unless it
// is a key=value line. Blank lines, lines without a '=' and lines with a
// malformed key are ignored. The version key is required.
func New(r io.Reader) (*Ifo, error) {
	ifo := &Ifo{
		metadata: map[string]string{},
	}

	s := bufio.NewScanner(r)
	for first := true; s.Scan(); first = false {
		line := strings.TrimRight(s.Text(), "\r")
		if first {
			line = strings.TrimPrefix(line, "\uFEFF")
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			if first {
				ifo.magic = strings.TrimSpace(line)
			}
			continue
		}
		key = strings.TrimSpace(key)
		if !keyRegex.MatchString(key) {
			continue
		}
		ifo.metadata[key] = strings.TrimSpace(value)
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("reading .ifo: %w", err)
	}

	if _, ok := ifo.metadata["version"]; !ok {
		return nil, ErrMissingVersion
	}

	return ifo, nil
}

// Magic returns the magic line or an empty string if the file has none.
func (i *Ifo) Magic() string {
	return i.magic
}

// Value returns the value for key or an empty string.
func (i *Ifo) Value(key string) string {
	return i.metadata[key]
}

// Version is a .ifo format version.
type Version string

const (
	// Version242 is the legacy format. Index offsets are always 32 bits.
	Version242 Version = "2.4.2"

	// Version300 supports the idxoffsetbits key.
	Version300 Version = "3.0.0"
)

// Info is the parsed dictionary metadata.
type Info struct {
	Version          Version
	Bookname         string
	WordCount        int64
	SynWordCount     int64
	IdxFileSize      int64
	OffsetBits       idx.OffsetBits
	Author           string
	Email            string
	Website          string
	Description      string
	Date             string
	SameTypeSequence []dict.DataType

	raw *Ifo
}

// Value returns the raw value for key, including keys not parsed into Info.
func (info *Info) Value(key string) string {
	return info.raw.Value(key)
}

// Parse reads and validates .ifo data from r.
func Parse(r io.Reader) (*Info, error) {
	raw, err := New(r)
	if err != nil {
		return nil, err
	}

	if m := raw.Magic(); m != "" && m != Magic {
		return nil, fmt.Errorf("%w: %q", ErrBadMagic, raw.Magic())
	}

	info := &Info{
		Version:     Version(raw.Value("version")),
		Bookname:    raw.Value("bookname"),
		Author:      raw.Value("author"),
		Email:       raw.Value("email"),
		Website:     raw.Value("website"),
		Description: raw.Value("description"),
		Date:        raw.Value("date"),
		OffsetBits:  idx.OffsetBits32,
		raw:         raw,
	}

	switch info.Version {
	case Version242:
	case Version300:
		if v := raw.Value("idxoffsetbits"); v != "" {
			bits, err := strconv.Atoi(v)
			if err != nil || !idx.OffsetBits(bits).Valid() {
				return nil, fmt.Errorf("%w: idxoffsetbits: %q", ErrInvalidValue, v)
			}
			info.OffsetBits = idx.OffsetBits(bits)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidVersion, info.Version)
	}

	for key, dst := range map[string]*int64{
		"wordcount":    &info.WordCount,
		"synwordcount": &info.SynWordCount,
		"idxfilesize":  &info.IdxFileSize,
	} {
		v := raw.Value(key)
		if v == "" {
			continue
		}
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w: %s: %q", ErrInvalidValue, key, v)
		}
		*dst = n
	}

	for _, r := range raw.Value("sametypesequence") {
		t := dict.DataType(r)
		if r > 0x7f || !t.Valid() {
			return nil, fmt.Errorf("%w: sametypesequence: %q", ErrInvalidValue, r)
		}
		info.SameTypeSequence = append(info.SameTypeSequence, t)
	}

	return info, nil
}

// Open reads the .ifo file at path.
func Open(path string) (*Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening .ifo file: %w", err)
	}
	defer f.Close()

	info, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", path, err)
	}
	return info, nil
}
