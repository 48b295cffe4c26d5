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
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/ianlewis/go-dictzip"
	"github.com/klauspost/compress/gzip"

	"github.com/ianlewis/sdlib/dict"
	"github.com/ianlewis/sdlib/idx"
	"github.com/ianlewis/sdlib/ifo"
	"github.com/ianlewis/sdlib/syn"
)

var (
	// ErrNoDict indicates that a dictionary directory has no .dict file.
	ErrNoDict = errors.New("no .dict file found")

	// ErrNoIdx indicates that a dictionary directory has no .idx file.
	ErrNoIdx = errors.New("no .idx file found")

	// ErrNoIfo indicates that a dictionary directory has no .ifo file.
	ErrNoIfo = errors.New("no .ifo file found")

	// ErrFormat indicates a malformed dictionary file.
	ErrFormat = errors.New("invalid dictionary format")

	// ErrIO indicates that a dictionary file could not be read.
	ErrIO = errors.New("reading dictionary")

	// ErrEntryOutOfRange indicates an index or synonym entry that points
	// outside of the data it refers to.
	ErrEntryOutOfRange = errors.New("entry out of range")
)

// formatErrors are the errors that indicate malformed data rather than a
// failure to read it.
var formatErrors = []error{
	ErrEntryOutOfRange,
	idx.ErrInvalidIdxOffset,
	idx.ErrTruncated,
	idx.ErrInvalidWord,
	ifo.ErrBadMagic,
	ifo.ErrMissingVersion,
	ifo.ErrInvalidVersion,
	ifo.ErrInvalidValue,
	syn.ErrTruncated,
	syn.ErrInvalidWord,
	gzip.ErrHeader,
	dictzip.ErrHeader,
	gzip.ErrChecksum,
	bufio.ErrTooLong,
	io.ErrUnexpectedEOF,
}

func isFormatError(err error) bool {
	for _, target := range formatErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// loadError classifies an error returned while loading the file at path.
func loadError(path string, err error) error {
	kind := ErrIO
	if isFormatError(err) {
		kind = ErrFormat
	}
	return fmt.Errorf("%w: %s: %w", kind, path, err)
}

// consultError wraps an error returned while consulting a dictionary.
func consultError(bookname, word string, err error) error {
	if errors.Is(err, dict.ErrOutOfRange) {
		return fmt.Errorf("consulting %q for %q: %w: %w", bookname, word, ErrEntryOutOfRange, err)
	}
	return fmt.Errorf("consulting %q for %q: %w", bookname, word, err)
}
