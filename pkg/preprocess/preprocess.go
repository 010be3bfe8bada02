// Copyright 2024 The Spicexlate Authors
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package preprocess normalizes raw source-dialect text into one logical
// card per line, per spec.md §4.3.  It is purely textual: every
// normalization is a regexp substitution, and the whole pass is idempotent
// (spec.md §8 property #1).
package preprocess

import "regexp"

var (
	lineContinuation = regexp.MustCompile(`\\\r?\n[ \t]*`)
	runsOfSpace      = regexp.MustCompile(`[ \t]+`)
	runsOfBlankLines = regexp.MustCompile(`\n{2,}`)
	starComment      = regexp.MustCompile(`(?m)^[ \t]*\*[^\n]*\n?`)
	slashComment     = regexp.MustCompile(`(?m)//[^\n]*`)
	fenceComment     = regexp.MustCompile(`(?m)^\*{3,}[^\n]*\n?`)
	continuationFold = regexp.MustCompile(`\n[ \t]*\+[ \t]*`)
	funcBraceOpen    = regexp.MustCompile(`\{\s*\n\s*`)
	funcBraceClose   = regexp.MustCompile(`\n\s*\}`)
	starSpacing      = regexp.MustCompile(`[ \t]*\*[ \t]*`)
	closeParenSpace  = regexp.MustCompile(`[ \t]*\)[ \t]*`)
	e0Token          = regexp.MustCompile(`\be0\b`)
	trailingBlank    = regexp.MustCompile(`(?m)^[ \t]*\n`)
	trailingSpace    = regexp.MustCompile(`[ \t]+\n`)
)

// Normalize applies the seven normalizations of spec.md §4.3, in order,
// to raw source-dialect text.  The result is one logical card per line: no
// blank lines, no line continuations, every card's tokens on a single line
// in their original order.
func Normalize(text string) string {
	// 1. Line-continuation join: a trailing backslash splices the next line.
	text = lineContinuation.ReplaceAllString(text, " ")

	// 2. Collapse runs of whitespace and of blank lines.
	text = runsOfSpace.ReplaceAllString(text, " ")
	text = runsOfBlankLines.ReplaceAllString(text, "\n")

	// 3. Strip comments: leading '*' lines, '//' tails, '***' fences.
	text = fenceComment.ReplaceAllString(text, "")
	text = starComment.ReplaceAllString(text, "")
	text = slashComment.ReplaceAllString(text, "")

	// Re-collapse blank lines, and trailing spaces, left behind by comment
	// stripping.
	text = trailingSpace.ReplaceAllString(text, "\n")
	text = trailingBlank.ReplaceAllString(text, "")
	text = runsOfBlankLines.ReplaceAllString(text, "\n")

	// 4. Fold '+'-prefixed continuation lines onto the preceding card.
	text = continuationFold.ReplaceAllString(text, " ")

	// 5. Collapse "{\n...return...\n}" function bodies onto one line.
	text = funcBraceOpen.ReplaceAllString(text, "{")
	text = funcBraceClose.ReplaceAllString(text, "}")

	// 6. Token spacing: disambiguate unit-postfix literals from
	// expressions by forcing whitespace around '*' and ')'.
	text = starSpacing.ReplaceAllString(text, " * ")
	text = closeParenSpace.ReplaceAllString(text, " ) ")

	// 7. Substitute the reserved identifier e0 with eps0.  Scoped to a
	// whole token (word boundary) per spec.md §9 - the original Python
	// implementation substitutes the bare substring and so corrupts
	// identifiers like "some0".
	text = e0Token.ReplaceAllString(text, "eps0")

	// Final whitespace cleanup: collapse the extra spaces token-spacing
	// just introduced and drop any blank or trailing-space lines it left
	// behind.
	text = runsOfSpace.ReplaceAllString(text, " ")
	text = trailingSpace.ReplaceAllString(text, "\n")
	text = trailingBlank.ReplaceAllString(text, "")
	text = runsOfBlankLines.ReplaceAllString(text, "\n")

	return text
}
