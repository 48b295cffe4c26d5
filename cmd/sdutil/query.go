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

package main

import (
	"encoding/json"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/ianlewis/sdlib"
)

var queryCommand = &cli.Command{
	Name:      "query",
	Usage:     "Query dictionaries",
	ArgsUsage: "WORD",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:               "fuzzy",
			Usage:              "return approximate matches",
			Aliases:            []string{"f"},
			DisableDefaultText: true,
		},
		&cli.IntFlag{
			Name:  "max-dist",
			Usage: "maximum edit distance of fuzzy matches",
			Value: stardict.DefaultConsultOption().MaxDist,
		},
		&cli.IntFlag{
			Name:  "max-item",
			Usage: "maximum number of fuzzy matches per dictionary",
			Value: stardict.DefaultConsultOption().MaxItem,
		},
		&cli.BoolFlag{
			Name:               "parallel",
			Usage:              "query dictionaries concurrently",
			Aliases:            []string{"p"},
			DisableDefaultText: true,
		},
		&cli.BoolFlag{
			Name:               "json",
			Usage:              "print results as JSON",
			DisableDefaultText: true,
		},
	},
	Action: func(c *cli.Context) error {
		if c.NArg() != 1 {
			return fmt.Errorf("%w: expected one WORD argument, got %d", ErrFlagParse, c.NArg())
		}
		word := c.Args().First()

		option := &stardict.ConsultOption{
			Fuzzy:    c.Bool("fuzzy"),
			Parallel: c.Bool("parallel"),
			MaxDist:  c.Int("max-dist"),
			MaxItem:  c.Int("max-item"),
		}

		results := []*stardict.Result{}
		for _, lib := range loadLibraries(c) {
			results = append(results, lib.Consult(word, option)...)
		}

		if c.Bool("json") {
			enc := json.NewEncoder(c.App.Writer)
			enc.SetIndent("", "  ")
			if err := enc.Encode(results); err != nil {
				return fmt.Errorf("%w: encoding results: %w", ErrSdutil, err)
			}
			return nil
		}

		for _, r := range results {
			header := r.Dict
			if option.Fuzzy {
				header = fmt.Sprintf("%s (distance %d)", r.Dict, r.Distance)
			}
			if _, err := fmt.Fprintf(c.App.Writer, "[%s]\n%s\n", header, r.String()); err != nil {
				return fmt.Errorf("%w: printing results: %w", ErrSdutil, err)
			}
		}

		return nil
	},
}
