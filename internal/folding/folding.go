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

package folding

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/transform"
)

// Default returns the folding used when none is configured: whitespace
// folding followed by Unicode lower-casing.
func Default() transform.Transformer {
	return transform.Chain(&WhitespaceFolder{}, cases.Lower(language.Und))
}

// Lower returns a transformer that only lower-cases its input.
func Lower() transform.Transformer {
	return cases.Lower(language.Und)
}

// String folds s with a fresh transformer from newFolder.
func String(newFolder func() transform.Transformer, s string) (string, error) {
	folded, _, err := transform.String(newFolder(), s)
	if err != nil {
		//nolint:wrapcheck // callers add context.
		return "", err
	}
	return folded, nil
}
