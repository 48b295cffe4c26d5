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
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Library is a collection of dictionaries loaded from the subdirectories of
// a root directory. It is read-only after Load and safe for concurrent use.
// A new Library must be loaded to pick up changes on disk.
type Library struct {
	root   string
	dicts  []*Dictionary
	errs   []error
	logger *slog.Logger
}

// Load loads a dictionary from every immediate subdirectory of root.
// Subdirectories that do not hold a valid dictionary are skipped. The reason
// each one was skipped is available from Errors. Dictionaries are ordered by
// subdirectory name.
func Load(root string, options *Options) *Library {
	l := &Library{
		root:   root,
		logger: options.logger(),
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		l.errs = append(l.errs, fmt.Errorf("%w: %w", ErrIO, err))
		l.logger.Warn("reading library directory",
			slog.String("root", root),
			slog.Any("err", err),
		)
		return l
	}

	var dirs []string
	for _, e := range entries {
		path := filepath.Join(root, e.Name())
		// Follow symlinks to dictionary directories.
		fi, err := os.Stat(path)
		if err != nil || !fi.IsDir() {
			continue
		}
		dirs = append(dirs, path)
	}

	dicts := make([]*Dictionary, len(dirs))
	errs := make([]error, len(dirs))

	var g errgroup.Group
	g.SetLimit(options.loadConcurrency())
	for i, dir := range dirs {
		g.Go(func() error {
			dicts[i], errs[i] = LoadDictionary(dir, options)
			return nil
		})
	}
	// Per-dictionary errors are collected in errs.
	_ = g.Wait()

	for i, d := range dicts {
		if errs[i] != nil {
			l.errs = append(l.errs, errs[i])
			l.logger.Warn("skipping dictionary",
				slog.String("dir", dirs[i]),
				slog.Any("err", errs[i]),
			)
			continue
		}
		l.dicts = append(l.dicts, d)
	}

	l.logger.Debug("loaded library",
		slog.String("root", root),
		slog.Int("dictionaries", len(l.dicts)),
		slog.Int("skipped", len(l.errs)),
	)

	return l
}

// Root returns the directory the library was loaded from.
func (l *Library) Root() string {
	return l.root
}

// DictCount returns the number of dictionaries that were loaded.
func (l *Library) DictCount() int {
	return len(l.dicts)
}

// Dictionaries returns the loaded dictionaries.
func (l *Library) Dictionaries() []*Dictionary {
	return l.dicts
}

// Errors returns the errors for the subdirectories that were skipped.
func (l *Library) Errors() []error {
	return l.errs
}

// Consult queries every dictionary for word and concatenates the results in
// dictionary order. When option.Parallel is set the dictionaries are queried
// concurrently; the results are the same either way. A dictionary that fails
// to answer is logged and left out. A library with no dictionaries returns
// no results.
func (l *Library) Consult(word string, option *ConsultOption) []*Result {
	if option == nil {
		option = DefaultConsultOption()
	}

	perDict := make([][]*Result, len(l.dicts))
	consult := func(i int) {
		d := l.dicts[i]
		results, err := d.Consult(word, option)
		if err != nil {
			l.logger.Warn("consulting dictionary",
				slog.String("bookname", d.Bookname()),
				slog.String("word", word),
				slog.Any("err", err),
			)
			return
		}
		perDict[i] = results
	}

	if option.Parallel {
		var g errgroup.Group
		g.SetLimit(runtime.GOMAXPROCS(0))
		for i := range l.dicts {
			g.Go(func() error {
				consult(i)
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for i := range l.dicts {
			consult(i)
		}
	}

	results := []*Result{}
	for _, r := range perDict {
		results = append(results, r...)
	}
	return results
}
