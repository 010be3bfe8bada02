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
package netlist

import "testing"

func lexAll(t *testing.T, card string) []Token {
	t.Helper()

	lex := NewLexer(card)

	var toks []Token

	for {
		tok := lex.Next()
		toks = append(toks, tok)

		if tok.Kind == TEOF {
			return toks
		}
	}
}

func TestLexerUnitPostfixLiteral(t *testing.T) {
	toks := lexAll(t, "5u")
	if len(toks) != 2 || toks[0].Kind != TNumber || toks[0].Text != "5u" {
		t.Fatalf("expected a single unit-postfixed number, got %+v", toks)
	}
}

func TestLexerDisambiguatesUnitFromMultiply(t *testing.T) {
	// A unit letter joins the number only when whitespace, a quote, one of
	// + * - /, or end-of-card follows it: here "u" is followed by a space, so
	// the lexer yields "3u", then the '*' operator, then the identifier X.
	toks := lexAll(t, "3u * X")
	if toks[0].Kind != TNumber || toks[0].Text != "3u" {
		t.Fatalf("expected number '3u', got %+v", toks[0])
	}

	if toks[1].Kind != TOp || toks[1].Text != "*" {
		t.Fatalf("expected '*' operator, got %+v", toks[1])
	}

	if toks[2].Kind != TIdent || toks[2].Text != "X" {
		t.Fatalf("expected identifier 'X', got %+v", toks[2])
	}
}

func TestLexerTwoCharOperators(t *testing.T) {
	toks := lexAll(t, "a==b&&c")
	want := []string{"a", "==", "b", "&&", "c"}

	if len(toks) != len(want)+1 {
		t.Fatalf("expected %d tokens, got %d: %+v", len(want)+1, len(toks), toks)
	}

	for i, w := range want {
		if toks[i].Text != w {
			t.Fatalf("token %d: got %q, want %q", i, toks[i].Text, w)
		}
	}
}

func TestLexerString(t *testing.T) {
	toks := lexAll(t, `"./ahdl/foo.va"`)
	if toks[0].Kind != TString || toks[0].Text != "./ahdl/foo.va" {
		t.Fatalf("unexpected string token: %+v", toks[0])
	}
}

func TestLexerExponentNumber(t *testing.T) {
	toks := lexAll(t, "1.5e-9")
	if toks[0].Kind != TNumber || toks[0].Text != "1.5e-9" {
		t.Fatalf("unexpected exponent number: %+v", toks[0])
	}
}
