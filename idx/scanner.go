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
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"
)

var (
	// ErrInvalidIdxOffset indicates that the OffsetBits is an invalid value.
	ErrInvalidIdxOffset = errors.New("invalid idxoffsetbits")

	// ErrTruncated indicates that the index ended in the middle of an entry.
	ErrTruncated = errors.New("truncated index entry")

	// ErrInvalidWord indicates that an entry's title is not valid utf-8.
	ErrInvalidWord = errors.New("invalid utf-8 word")
)

// OffsetBits is the width of the offset and size fields of each index entry.
type OffsetBits int

const (
	// OffsetBits32 is used by version 2.4.2 dictionaries and is the default
	// for version 3.0.0.
	OffsetBits32 OffsetBits = 32

	// OffsetBits64 may be declared by version 3.0.0 dictionaries.
	OffsetBits64 OffsetBits = 64
)

// Valid reports whether b is a supported offset width.
func (b OffsetBits) Valid() bool {
	return b == OffsetBits32 || b == OffsetBits64
}

// entryLen returns the length of the fixed-width part of an entry.
func (b OffsetBits) entryLen() int {
	return 2 * int(b) / 8
}

// Word is an .idx file entry.
type Word struct {
	// Word is the title as it appears in the index.
	Word string

	// Offset is the offset of the article in the .dict file.
	Offset uint64

	// Size is the size of the article in the .dict file.
	Size uint64
}

// Scanner scans an index from start to end.
type Scanner struct {
	r          io.ReadCloser
	s          *bufio.Scanner
	offsetBits OffsetBits

	// n is the number of entries scanned so far.
	n int
}

// ScannerOptions are options for scanning an .idx file.
type ScannerOptions struct {
	// OffsetBits are the number of bits in the offset fields. Valid values for
	// OffsetBits are either 32 or 64.
	OffsetBits OffsetBits
}

// DefaultScannerOptions is the default options for a Scanner.
var DefaultScannerOptions = &ScannerOptions{
	OffsetBits: OffsetBits32,
}

// NewScanner return a new index scanner that scans the index from start to
// end. The Scanner assumes ownership of the reader and should be closed with the
// Close method.
func NewScanner(r io.ReadCloser, options *ScannerOptions) (*Scanner, error) {
	if options == nil {
		options = DefaultScannerOptions
	}

	if !options.OffsetBits.Valid() {
		return nil, fmt.Errorf("%w: %v", ErrInvalidIdxOffset, options.OffsetBits)
	}
	s := &Scanner{
		r:          r,
		s:          bufio.NewScanner(bufio.NewReader(r)),
		offsetBits: options.OffsetBits,
	}
	s.s.Split(s.splitIndex)
	return s, nil
}

// Scan advances the index to the next index entry. It returns false if the
// scan stops either by reaching the end of the index or an error.
func (s *Scanner) Scan() bool {
	if !s.s.Scan() {
		return false
	}
	s.n++
	return true
}

// Err returns the first error encountered.
func (s *Scanner) Err() error {
	//nolint:wrapcheck // error should not be wrapped
	return s.s.Err()
}

// Close closes the underlying reader.
func (s *Scanner) Close() error {
	err := s.r.Close()
	if err != nil {
		return fmt.Errorf("closing idx file: %w", err)
	}
	return nil
}

// Word returns the entry read by the last call to Scan.
func (s *Scanner) Word() *Word {
	b := s.s.Bytes()
	i := bytes.IndexByte(b, 0)
	if i < 0 {
		return &Word{}
	}

	w := &Word{
		Word: string(b[:i]),
	}
	b = b[i+1:]
	if s.offsetBits == OffsetBits64 {
		w.Offset = binary.BigEndian.Uint64(b)
		w.Size = binary.BigEndian.Uint64(b[8:])
	} else {
		w.Offset = uint64(binary.BigEndian.Uint32(b))
		w.Size = uint64(binary.BigEndian.Uint32(b[4:]))
	}
	return w
}

// splitIndex splits an index entry in the index file.
func (s *Scanner) splitIndex(data []byte, atEOF bool) (int, []byte, error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}

	if i := bytes.IndexByte(data, 0); i >= 0 {
		if !utf8.Valid(data[:i]) {
			return 0, nil, fmt.Errorf("%w: entry %d: %q", ErrInvalidWord, s.n, data[:i])
		}
		tokenSize := i + 1 + s.offsetBits.entryLen()
		if len(data) >= tokenSize {
			return tokenSize, data[:tokenSize], nil
		}
	}

	if atEOF {
		return 0, nil, fmt.Errorf("%w: entry %d: %d trailing bytes", ErrTruncated, s.n, len(data))
	}

	// Request more data.
	return 0, nil, nil
}
