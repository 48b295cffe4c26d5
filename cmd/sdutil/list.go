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
	"fmt"

	"github.com/rodaine/table"
	"github.com/urfave/cli/v2"
)

var listCommand = &cli.Command{
	Name:      "list",
	Usage:     "List dictionaries",
	ArgsUsage: " ",
	Action: func(c *cli.Context) error {
		if c.NArg() != 0 {
			return fmt.Errorf("%w: unexpected arguments: %q", ErrFlagParse, c.Args().Slice())
		}

		tbl := table.New("Name", "Author", "Word Count", "Version", "Dir").WithWriter(c.App.Writer)
		for _, lib := range loadLibraries(c) {
			for _, d := range lib.Dictionaries() {
				tbl.AddRow(d.Bookname(), d.Author(), d.WordCount(), d.Version(), d.Dir())
			}
		}
		tbl.Print()

		return nil
	},
}
