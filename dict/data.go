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

package dict

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/k3a/html2text"
)

var (
	// ErrInvalidType indicates an unknown data type.
	ErrInvalidType = errors.New("invalid type")

	// ErrInvalidData indicates article data that does not match its types.
	ErrInvalidData = errors.New("invalid article data")
)

// DataType is a type of data in a word. Data types are specified by a single
// byte at the beginning of a word. Lower case characters represent string-like
// data that is terminated by a null terminator ('\0'). Upper case characters
// represent file-like data that starts with a 32-bit size followed by file
// data.
type DataType byte

const (
	// UTFTextType is utf-8 text.
	UTFTextType = DataType('m')

	// LocaleTextType is text in a locale encoding.
	LocaleTextType = DataType('l')

	// PangoTextType is utf-8 text in the Pango text format.
	PangoTextType = DataType('g')

	// PhoneticType is utf-8 text representing an English phonetic string.
	PhoneticType = DataType('t')

	// XDXFType is utf-8 encoded xml in XDXF format.
	XDXFType = DataType('x')

	// YinBiaoOrKataType is utf-8 encoded Yin Biao or Kana phonetic string.
	YinBiaoOrKataType = DataType('y')

	// PowerWordType is a utf-8 encoded KingSoft PowerWord XML format.
	PowerWordType = DataType('k')

	// MediaWikiType is utf-8 encoded text in MediaWiki format.
	MediaWikiType = DataType('w')

	// HTMLType is utf-8 encoded HTML text.
	HTMLType = DataType('h')

	// WordNetType is WordNet data.
	WordNetType = DataType('n')

	// ResourceFileListType is a list of files in resource storage.
	ResourceFileListType = DataType('r')

	// WavType is .wav sound file data.
	WavType = DataType('W')

	// PictureType is image file data.
	PictureType = DataType('P')

	// ExperimentalType is reserved for experimental features.
	ExperimentalType = DataType('X')
)

// Valid reports whether t is a known data type.
func (t DataType) Valid() bool {
	switch t {
	case UTFTextType,
		LocaleTextType,
		PangoTextType,
		PhoneticType,
		XDXFType,
		YinBiaoOrKataType,
		PowerWordType,
		MediaWikiType,
		HTMLType,
		WordNetType,
		ResourceFileListType,
		WavType,
		PictureType,
		ExperimentalType:
		return true
	default:
		return false
	}
}

// stringLike reports whether data of this type is null terminated text.
func (t DataType) stringLike() bool {
	return 'a' <= t && t <= 'z'
}

// Data is a typed part of an article.
type Data struct {
	Type DataType
	Data []byte
}

// String returns a plain text rendering of the data. Types that have no text
// rendering return an empty string.
func (d *Data) String() string {
	switch d.Type {
	case UTFTextType, PhoneticType, YinBiaoOrKataType, MediaWikiType:
		return string(d.Data)
	case HTMLType, PangoTextType:
		return html2text.HTML2Text(string(d.Data))
	default:
		return ""
	}
}

// Parse splits an article into its typed parts. When sametypesequence is
// given, the article holds exactly one part per type and no type bytes.
// Otherwise every part is prefixed with its type.
func Parse(b []byte, sametypesequence []DataType) ([]*Data, error) {
	var parts []*Data

	if len(sametypesequence) > 0 {
		for i, t := range sametypesequence {
			last := i == len(sametypesequence)-1
			data, rest, err := next(b, t, last)
			if err != nil {
				return nil, err
			}
			parts = append(parts, &Data{Type: t, Data: data})
			b = rest
		}
		return parts, nil
	}

	for len(b) > 0 {
		t := DataType(b[0])
		if !t.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrInvalidType, b[0])
		}
		data, rest, err := next(b[1:], t, false)
		if err != nil {
			return nil, err
		}
		parts = append(parts, &Data{Type: t, Data: data})
		b = rest
	}
	return parts, nil
}

// next returns the data of type t at the start of b and the remaining bytes.
// The last string-like part of a sametypesequence article has no null
// terminator.
func next(b []byte, t DataType, last bool) ([]byte, []byte, error) {
	if t.stringLike() {
		if last {
			return bytes.TrimSuffix(b, []byte{0}), nil, nil
		}
		i := bytes.IndexByte(b, 0)
		if i < 0 {
			return b, nil, nil
		}
		return b[:i], b[i+1:], nil
	}

	if len(b) < 4 {
		return nil, nil, fmt.Errorf("%w: short %q size", ErrInvalidData, t)
	}
	size := binary.BigEndian.Uint32(b)
	if uint64(size) > uint64(len(b)-4) {
		return nil, nil, fmt.Errorf("%w: %q size %d exceeds %d", ErrInvalidData, t, size, len(b)-4)
	}
	return b[4 : 4+size], b[4+size:], nil
}
