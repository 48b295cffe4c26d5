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
	"encoding/binary"
	"fmt"
	"math"

	"github.com/ianlewis/sdlib/idx"
)

// MakeIndex makes a test index given a list of words.
func MakeIndex(words []*idx.Word, offsetBits idx.OffsetBits) []byte {
	b := []byte{}
	for _, w := range words {
		b = append(b, []byte(w.Word)...)
		b = append(b, 0) // Add the zero byte terminator.
		switch offsetBits {
		case idx.OffsetBits32:
			if w.Offset > math.MaxUint32 {
				panic(fmt.Sprintf("word offset too large %d > %d", w.Offset, offsetBits))
			}
			if w.Size > math.MaxUint32 {
				panic(fmt.Sprintf("word size too large %d > %d", w.Size, offsetBits))
			}
			//nolint:gosec // test code, offset and size checked above.
			b = binary.BigEndian.AppendUint32(b, uint32(w.Offset))
			//nolint:gosec // test code, offset and size checked above.
			b = binary.BigEndian.AppendUint32(b, uint32(w.Size))
		case idx.OffsetBits64:
			b = binary.BigEndian.AppendUint64(b, w.Offset)
			b = binary.BigEndian.AppendUint64(b, w.Size)
		default:
			panic(fmt.Sprintf("unsupported offset bits: %d", offsetBits))
		}
	}
	return b
}

// MakeSyn makes a test .syn file given synonym titles and the positions of
// the index entries they refer to.
func MakeSyn(words []string, positions []uint32) []byte {
	b := []byte{}
	for i, w := range words {
		b = append(b, []byte(w)...)
		b = append(b, 0)
		b = binary.BigEndian.AppendUint32(b, positions[i])
	}
	return b
}
