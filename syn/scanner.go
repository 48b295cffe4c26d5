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

package syn

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
	// ErrTruncated indicates that the file ended in the middle of an entry.
	ErrTruncated = errors.New("truncated synonym entry")

	// ErrInvalidWord indicates that a synonym is not valid utf-8.
	ErrInvalidWord = errors.New("invalid utf-8 synonym")
)

// Scanner scans a synonym file from start to end.
type Scanner struct {
	r io.ReadCloser
	s *bufio.Scanner
	n int
}

// NewScanner return a new synonym scanner that scans r from start to end.
// The Scanner assumes ownership of the reader and should be closed with the
// Close method.
func NewScanner(r io.ReadCloser) *Scanner {
	s := &Scanner{
		r: r,
		s: bufio.NewScanner(bufio.NewReader(r)),
	}
	s.s.Split(s.splitSyn)
	return s
}

// Scan advances to the next synonym. It returns false if the scan stops
// either by reaching the end of the file or an error.
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
		return fmt.Errorf("closing syn file: %w", err)
	}
	return nil
}

// Word returns the synonym read by the last call to Scan.
func (s *Scanner) Word() *Word {
	b := s.s.Bytes()
	i := bytes.IndexByte(b, 0)
	if i < 0 {
		return &Word{}
	}
	return &Word{
		Word:              string(b[:i]),
		OriginalWordIndex: binary.BigEndian.Uint32(b[i+1:]),
	}
}

// splitSyn splits a synonym entry: a null terminated title followed by a 32
// bit index into the .idx file.
func (s *Scanner) splitSyn(data []byte, atEOF bool) (int, []byte, error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexByte(data, 0); i >= 0 {
		if !utf8.Valid(data[:i]) {
			return 0, nil, fmt.Errorf("%w: entry %d", ErrInvalidWord, s.n)
		}
		tokenSize := i + 5
		if len(data) >= tokenSize {
			return tokenSize, data[:tokenSize], nil
		}
	}

	if atEOF {
		return 0, nil, fmt.Errorf("%w: entry %d", ErrTruncated, s.n)
	}

	// Request more data.
	return 0, nil, nil
}
