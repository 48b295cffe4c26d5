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
	"io"
	"log/slog"
	"runtime"

	"golang.org/x/text/transform"

	"github.com/ianlewis/sdlib/internal/folding"
)

// Options configures loading dictionaries.
type Options struct {
	// Logger receives load and query diagnostics. Defaults to a logger that
	// discards everything.
	Logger *slog.Logger

	// Folder returns a [transform.Transformer] applied to headwords,
	// synonyms and queries before they are compared. Defaults to whitespace
	// folding followed by lower-casing.
	Folder func() transform.Transformer

	// LoadConcurrency is the number of dictionaries a Library loads at the
	// same time. Defaults to GOMAXPROCS.
	LoadConcurrency int
}

func (o *Options) logger() *slog.Logger {
	if o == nil || o.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o.Logger
}

func (o *Options) folder() func() transform.Transformer {
	if o == nil || o.Folder == nil {
		return folding.Default
	}
	return o.Folder
}

func (o *Options) loadConcurrency() int {
	if o == nil || o.LoadConcurrency <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return o.LoadConcurrency
}

// ConsultOption configures a query.
type ConsultOption struct {
	// Fuzzy enables approximate matching. Otherwise only headwords (and
	// synonyms) equal to the query after folding are returned.
	Fuzzy bool `json:"fuzzy"`

	// Parallel queries the dictionaries of a Library concurrently.
	Parallel bool `json:"parallel"`

	// MaxDist is the maximum edit distance of a fuzzy match.
	MaxDist int `json:"max_dist"`

	// MaxItem is the maximum number of fuzzy matches per dictionary. Values
	// less than one mean the default.
	MaxItem int `json:"max_item"`
}

// DefaultConsultOption returns the default options: an exact, sequential
// query with a fuzzy distance of 3 and 10 fuzzy matches per dictionary.
func DefaultConsultOption() *ConsultOption {
	return &ConsultOption{
		MaxDist: 3,
		MaxItem: 10,
	}
}
