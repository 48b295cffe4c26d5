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

package ifo

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/ianlewis/sdlib/dict"
	"github.com/ianlewis/sdlib/idx"
)

// TestNew tests New.
func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		data   string
		expect func(*testing.T, *Ifo)
		err    error
	}{
		{
			name: "magic and version",
			data: `test magic
version=1.0.0`,
			expect: func(t *testing.T, i *Ifo) {
				t.Helper()
				if want, got := "test magic", i.Magic(); want != got {
					t.Fatalf("magic; want: %q, got: %q", want, got)
				}
				if want, got := "1.0.0", i.Value("version"); want != got {
					t.Fatalf("version; want: %q, got: %q", want, got)
				}
			},
		},
		{
			name: "spaces, blank lines and equals in values",
			data: "magic\r\n\r\nversion = 2.4.2\r\ndescription=a=b\r\nnot a pair\r\n",
			expect: func(t *testing.T, i *Ifo) {
				t.Helper()
				if want, got := "2.4.2", i.Value("version"); want != got {
					t.Fatalf("version; want: %q, got: %q", want, got)
				}
				if want, got := "a=b", i.Value("description"); want != got {
					t.Fatalf("description; want: %q, got: %q", want, got)
				}
			},
		},
		{
			name: "missing version",
			data: `test magic`,
			err:  ErrMissingVersion,
		},
		{
			name: "malformed keys are skipped",
			data: "magic\nversion=2.4.2\nbad key=1\n=empty\nbookname=hoge",
			expect: func(t *testing.T, i *Ifo) {
				t.Helper()
				if want, got := "2.4.2", i.Value("version"); want != got {
					t.Fatalf("version; want: %q, got: %q", want, got)
				}
				if want, got := "hoge", i.Value("bookname"); want != got {
					t.Fatalf("bookname; want: %q, got: %q", want, got)
				}
				if want, got := "", i.Value("bad key"); want != got {
					t.Fatalf("bad key; want: %q, got: %q", want, got)
				}
			},
		},
		{
			name: "no magic line",
			data: "version=2.4.2\nbookname=hoge\n",
			expect: func(t *testing.T, i *Ifo) {
				t.Helper()
				if want, got := "", i.Magic(); want != got {
					t.Fatalf("magic; want: %q, got: %q", want, got)
				}
				if want, got := "2.4.2", i.Value("version"); want != got {
					t.Fatalf("version; want: %q, got: %q", want, got)
				}
			},
		},
		{
			name: "byte order mark",
			data: "\uFEFFStarDict's dict ifo file\nversion=2.4.2\n",
			expect: func(t *testing.T, i *Ifo) {
				t.Helper()
				if want, got := Magic, i.Magic(); want != got {
					t.Fatalf("magic; want: %q, got: %q", want, got)
				}
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			i, err := New(strings.NewReader(test.data))
			if diff := cmp.Diff(test.err, err, cmpopts.EquateErrors()); diff != "" {
				t.Fatalf("New (-want, +got):\n%s", diff)
			}
			if test.expect != nil {
				test.expect(t, i)
			}
		})
	}
}

// TestParse tests Parse.
func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		data     string
		expected *Info
		err      error
	}{
		{
			name: "legacy version",
			data: `StarDict's dict ifo file
version=2.4.2
wordcount=435468
idxfilesize=10651674
idxoffsetbits=64
bookname=朗道英汉字典5.0
author=上海朗道电脑科技发展有限公司
description=罗小辉破解文件格式，胡正制作转换程序。
date=2003.08.26
sametypesequence=m
`,
			expected: &Info{
				Version:          Version242,
				Bookname:         "朗道英汉字典5.0",
				WordCount:        435468,
				IdxFileSize:      10651674,
				OffsetBits:       idx.OffsetBits32,
				Author:           "上海朗道电脑科技发展有限公司",
				Description:      "罗小辉破解文件格式，胡正制作转换程序。",
				Date:             "2003.08.26",
				SameTypeSequence: []dict.DataType{dict.UTFTextType},
			},
		},
		{
			name: "64 bit offsets",
			data: `StarDict's dict ifo file
version=3.0.0
bookname=hoge
wordcount=1
synwordcount=2
idxfilesize=6
idxoffsetbits=64
sametypesequence=tm
`,
			expected: &Info{
				Version:          Version300,
				Bookname:         "hoge",
				WordCount:        1,
				SynWordCount:     2,
				IdxFileSize:      6,
				OffsetBits:       idx.OffsetBits64,
				SameTypeSequence: []dict.DataType{dict.PhoneticType, dict.UTFTextType},
			},
		},
		{
			name: "default offset bits",
			data: `StarDict's dict ifo file
version=3.0.0
bookname=hoge
`,
			expected: &Info{
				Version:    Version300,
				Bookname:   "hoge",
				OffsetBits: idx.OffsetBits32,
			},
		},
		{
			name: "no magic line",
			data: "version=2.4.2\nbookname=hoge\nwordcount=1\n",
			expected: &Info{
				Version:    Version242,
				Bookname:   "hoge",
				WordCount:  1,
				OffsetBits: idx.OffsetBits32,
			},
		},
		{
			name: "bad magic",
			data: "not stardict\nversion=2.4.2\n",
			err:  ErrBadMagic,
		},
		{
			name: "unsupported version",
			data: "StarDict's dict ifo file\nversion=1.0.0\n",
			err:  ErrInvalidVersion,
		},
		{
			name: "missing version",
			data: "StarDict's dict ifo file\nbookname=hoge\n",
			err:  ErrMissingVersion,
		},
		{
			name: "invalid idxoffsetbits",
			data: "StarDict's dict ifo file\nversion=3.0.0\nidxoffsetbits=48\n",
			err:  ErrInvalidValue,
		},
		{
			name: "invalid wordcount",
			data: "StarDict's dict ifo file\nversion=2.4.2\nwordcount=many\n",
			err:  ErrInvalidValue,
		},
		{
			name: "invalid sametypesequence",
			data: "StarDict's dict ifo file\nversion=2.4.2\nsametypesequence=mq\n",
			err:  ErrInvalidValue,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			info, err := Parse(strings.NewReader(test.data))
			if diff := cmp.Diff(test.err, err, cmpopts.EquateErrors()); diff != "" {
				t.Fatalf("Parse (-want, +got):\n%s", diff)
			}
			if diff := cmp.Diff(test.expected, info, cmpopts.IgnoreUnexported(Info{})); diff != "" {
				t.Fatalf("Parse (-want, +got):\n%s", diff)
			}
		})
	}
}

// TestOpen tests Open and Info.Value.
func TestOpen(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "dictionary.ifo")
	data := "StarDict's dict ifo file\nversion=2.4.2\nbookname=hoge\nlang=ja\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	info, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if want, got := "hoge", info.Bookname; want != got {
		t.Fatalf("Bookname; want: %q, got: %q", want, got)
	}
	if want, got := "ja", info.Value("lang"); want != got {
		t.Fatalf("Value(lang); want: %q, got: %q", want, got)
	}

	_, err = Open(filepath.Join(t.TempDir(), "missing.ifo"))
	if diff := cmp.Diff(os.ErrNotExist, err, cmpopts.EquateErrors()); diff != "" {
		t.Fatalf("Open missing (-want, +got):\n%s", diff)
	}
}
