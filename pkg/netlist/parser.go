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

import (
	"strings"

	"github.com/veridian-eda/spicexlate/pkg/diag"
)

// precedence gives the binding power of each duo-op, per spec.md §4.4 and
// §9's recommendation of "Pratt parsing with one precedence table".  "**"
// is right-associative; every other operator is left-associative.
var precedence = map[string]int{
	"||": 1,
	"&&": 2,
	"==": 3, "!=": 3,
	"<": 4, ">": 4, "<=": 4, ">=": 4,
	"+": 5, "-": 5,
	"*": 6, "/": 6,
	"**": 7,
}

// unsupportedKeywords are recognized but not semantically translated
// (spec.md §1 Non-goals, §4.4 Card selection).
var unsupportedKeywords = map[string]struct{}{
	"statistics": {}, "process": {}, "vary": {}, "mismatch": {},
}

// Parser holds the token stream for a single card.
type Parser struct {
	tokens []Token
	pos    int
}

// tokenize runs the Lexer to exhaustion over one card's text.
func tokenize(card string) []Token {
	lex := NewLexer(card)

	var tokens []Token

	for {
		t := lex.Next()
		tokens = append(tokens, t)

		if t.Kind == TEOF {
			break
		}
	}

	return tokens
}

// NewParser constructs a Parser over one card's text.
func NewParser(card string) *Parser {
	return &Parser{tokens: tokenize(card)}
}

func (p *Parser) peek() Token {
	return p.tokens[p.pos]
}

func (p *Parser) peekAt(offset int) Token {
	idx := p.pos + offset
	if idx >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1] // TEOF
	}

	return p.tokens[idx]
}

func (p *Parser) advance() Token {
	t := p.tokens[p.pos]
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}

	return t
}

func (p *Parser) atEOF() bool {
	return p.peek().Kind == TEOF
}

func (p *Parser) expect(kind TokenKind, what string) (Token, error) {
	t := p.peek()
	if t.Kind != kind {
		return t, diag.NewFault(diag.UnknownCard, "expected "+what+", found \""+t.Text+"\"").
			WithSpan(diag.Span{Start: t.Start, End: t.End})
	}

	return p.advance(), nil
}

// expectKeyword consumes an identifier token matching word exactly.
func (p *Parser) expectKeyword(word string) error {
	t := p.peek()
	if t.Kind != TIdent || t.Text != word {
		return diag.NewFault(diag.UnknownCard, "expected \""+word+"\", found \""+t.Text+"\"").
			WithSpan(diag.Span{Start: t.Start, End: t.End})
	}

	p.advance()

	return nil
}

// ParseCard parses one preprocessed card and returns its AST node(s).  A
// blank card returns (nil, nil).  Most cards produce exactly one node, but a
// "parameters" card carries one equation per space-separated "name=value"
// pair (e.g. "parameters vdd=1.8 vss=0 temp=27") and produces one Assign per
// equation, per spec.md §8's card-count parity property.  An unsupported
// leading keyword (spec.md §4.4) returns a *diag.Fault of Kind
// UnsupportedCard, which callers should treat as a warning rather than
// aborting the file.  Any other parse failure returns a *diag.Fault of Kind
// UnknownCard.
func ParseCard(card string) ([]Node, error) {
	trimmed := strings.TrimSpace(card)
	if trimmed == "" {
		return nil, nil
	}

	keyword := leadingKeyword(trimmed)

	if _, ok := unsupportedKeywords[keyword]; ok {
		return nil, diag.NewFault(diag.UnsupportedCard, "unsupported card: "+trimmed)
	}

	p := NewParser(trimmed)

	switch keyword {
	case "parameters":
		return p.parseParametersCard()
	case "real":
		n, err := p.parseFuncDef()
		return single(n, err)
	case "simulator":
		n, err := p.parseLangDirective()
		return single(n, err)
	case "include", "ahdl_include":
		n, err := p.parseInclude()
		return single(n, err)
	case "inline", "subckt":
		n, err := p.parseSubcktHeader()
		return single(n, err)
	case "ends":
		n, err := p.parseEnds()
		return single(n, err)
	case "model":
		n, err := p.parseModel()
		return single(n, err)
	case "if":
		n, err := p.parseConditional()
		return single(n, err)
	default:
		n, err := p.parseInstance()
		if err != nil {
			t := p.peek()
			return nil, diag.NewFault(diag.UnknownCard, trimmed).
				WithSpan(diag.Span{Start: t.Start, End: t.End})
		}

		return []Node{n}, nil
	}
}

func single(n Node, err error) ([]Node, error) {
	if err != nil {
		return nil, err
	}

	return []Node{n}, nil
}

// parseParametersCard scans "name=value" equations until the card is
// exhausted, grounded on original_source/spectre2spice/parser_core.py's
// equation.scanString(model_card), which yields one match per equation
// rather than treating the whole card as a single assignment.
func (p *Parser) parseParametersCard() ([]Node, error) {
	if t := p.peek(); t.Kind == TIdent && t.Text == "parameters" {
		p.advance()
	}

	var nodes []Node

	for !p.atEOF() {
		eq, err := p.parseEquation()
		if err != nil {
			return nil, err
		}

		nodes = append(nodes, eq)
	}

	return nodes, nil
}

func leadingKeyword(card string) string {
	end := strings.IndexAny(card, " \t")
	if end < 0 {
		return card
	}

	return card[:end]
}

// --- expressions -----------------------------------------------------

func (p *Parser) parseExpression(minPrec int) (Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for {
		t := p.peek()
		if t.Kind != TOp {
			break
		}

		prec, ok := precedence[t.Text]
		if !ok || prec < minPrec {
			break
		}

		p.advance()

		nextMin := prec + 1
		if t.Text == "**" {
			nextMin = prec // right-associative
		}

		right, err := p.parseExpression(nextMin)
		if err != nil {
			return nil, err
		}

		left = BinOp{Op: t.Text, Left: left, Right: right}
	}

	return left, nil
}

func (p *Parser) parseUnary() (Node, error) {
	if t := p.peek(); t.Kind == TOp && t.Text == "-" {
		p.advance()

		operand, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}

		return UnaryOp{Op: "-", Operand: operand}, nil
	}

	return p.parsePrimary()
}

func (p *Parser) parsePrimary() (Node, error) {
	t := p.peek()

	switch t.Kind {
	case TLParen:
		p.advance()

		inner, err := p.parseCase()
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(TRParen, ")"); err != nil {
			return nil, err
		}

		return Group{Inner: inner}, nil
	case TNumber:
		p.advance()
		return Number{Text: t.Text}, nil
	case TString:
		p.advance()
		return StringLit{Value: t.Text}, nil
	case TIdent:
		if p.peekAt(1).Kind == TLParen {
			return p.parseCall()
		}

		p.advance()

		return Variable{Name: t.Text}, nil
	default:
		return nil, diag.NewFault(diag.UnknownCard, "unexpected token \""+t.Text+"\"").
			WithSpan(diag.Span{Start: t.Start, End: t.End})
	}
}

func (p *Parser) parseCall() (Node, error) {
	name, err := p.expect(TIdent, "function name")
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(TLParen, "("); err != nil {
		return nil, err
	}

	var args []Node

	for p.peek().Kind != TRParen {
		arg, err := p.parseExpression(0)
		if err != nil {
			return nil, err
		}

		args = append(args, arg)

		if p.peek().Kind == TComma {
			p.advance()
			continue
		}

		break
	}

	if _, err := p.expect(TRParen, ")"); err != nil {
		return nil, err
	}

	return Call{Name: name.Text, Args: args}, nil
}

// parseCase parses a "case-part ? case-part : case-part" ternary, or a
// plain expression when no "?" follows, per spec.md §4.4.
func (p *Parser) parseCase() (Node, error) {
	cond, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}

	if p.peek().Kind != TQuestion {
		return cond, nil
	}

	p.advance()

	thenNode, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(TColon, ":"); err != nil {
		return nil, err
	}

	elseNode, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}

	return Ternary{Cond: cond, Then: thenNode, Else: elseNode}, nil
}

// parseTuple parses a "[a b c...]" bracketed list.
func (p *Parser) parseTuple() (Node, error) {
	if _, err := p.expect(TLBracket, "["); err != nil {
		return nil, err
	}

	var elems []Node

	for p.peek().Kind != TRBracket {
		t, err := p.expect(TIdent, "variable")
		if err != nil {
			return nil, err
		}

		elems = append(elems, Variable{Name: t.Text})
	}

	if _, err := p.expect(TRBracket, "]"); err != nil {
		return nil, err
	}

	return Tuple{Elements: elems}, nil
}

// parseEquation parses "[parameters] expression = (case | expression |
// tuple | string)" per spec.md §4.4.  It is used both for top-level
// "parameters" cards and for individual "name=value" parameter entries
// within instance, model and assertion argument lists.
func (p *Parser) parseEquation() (Node, error) {
	if t := p.peek(); t.Kind == TIdent && t.Text == "parameters" {
		p.advance()
	}

	left, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(TEquals, "="); err != nil {
		return nil, err
	}

	var right Node

	switch p.peek().Kind {
	case TLBracket:
		right, err = p.parseTuple()
	case TString:
		tok := p.advance()
		right = StringLit{Value: tok.Text}
	default:
		right, err = p.parseCase()
	}

	if err != nil {
		return nil, err
	}

	return Assign{Left: left, Right: right}, nil
}

// --- cards -------------------------------------------------------------

func (p *Parser) parseFuncDef() (Node, error) {
	if err := p.expectKeyword("real"); err != nil {
		return nil, err
	}

	name, err := p.expect(TIdent, "function name")
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(TLParen, "("); err != nil {
		return nil, err
	}

	var params []string

	for p.peek().Kind != TRParen {
		if err := p.expectKeyword("real"); err != nil {
			return nil, err
		}

		pname, err := p.expect(TIdent, "parameter name")
		if err != nil {
			return nil, err
		}

		params = append(params, pname.Text)

		if p.peek().Kind == TComma {
			p.advance()
		}
	}

	if _, err := p.expect(TRParen, ")"); err != nil {
		return nil, err
	}

	if _, err := p.expect(TLBrace, "{"); err != nil {
		return nil, err
	}

	if err := p.expectKeyword("return"); err != nil {
		return nil, err
	}

	body, err := p.parseCase()
	if err != nil {
		return nil, err
	}

	if t := p.peek(); t.Kind == TOp && t.Text == ";" {
		p.advance()
	}

	if _, err := p.expect(TRBrace, "}"); err != nil {
		return nil, err
	}

	return FuncDef{Name: name.Text, Params: params, Body: body}, nil
}

func (p *Parser) parseLangDirective() (Node, error) {
	if err := p.expectKeyword("simulator"); err != nil {
		return nil, err
	}

	if _, err := p.expect(TIdent, "directive name"); err != nil {
		return nil, err
	}

	if _, err := p.expect(TEquals, "="); err != nil {
		return nil, err
	}

	val, err := p.expect(TIdent, "language name")
	if err != nil {
		return nil, err
	}

	return LangDirective{Lang: val.Text}, nil
}

func (p *Parser) parseInclude() (Node, error) {
	kind, err := p.expect(TIdent, "include keyword")
	if err != nil {
		return nil, err
	}

	quoted, err := p.expect(TString, "quoted path")
	if err != nil {
		return nil, err
	}

	path, base, ext := splitIncludePath(quoted.Text)

	return Include{Kind: kind.Text, Path: path, Basename: base, Ext: ext}, nil
}

// splitIncludePath decomposes "path/to/basename.ext" into its three parts.
func splitIncludePath(raw string) (path, basename, ext string) {
	dot := strings.LastIndex(raw, ".")
	if dot < 0 {
		dot = len(raw)
		ext = ""
	} else {
		ext = raw[dot+1:]
	}

	withoutExt := raw[:dot]

	slash := strings.LastIndex(withoutExt, "/")
	if slash < 0 {
		return "", withoutExt, ext
	}

	return withoutExt[:slash+1], withoutExt[slash+1:], ext
}

func (p *Parser) parseSubcktHeader() (Node, error) {
	inline := false
	if t := p.peek(); t.Kind == TIdent && t.Text == "inline" {
		inline = true

		p.advance()
	}

	if err := p.expectKeyword("subckt"); err != nil {
		return nil, err
	}

	name, err := p.expect(TIdent, "subcircuit name")
	if err != nil {
		return nil, err
	}

	if t := p.peek(); t.Kind == TLParen {
		p.advance()
	}

	var ports []string

	for p.peek().Kind == TIdent {
		ports = append(ports, p.advance().Text)
	}

	if t := p.peek(); t.Kind == TRParen {
		p.advance()
	}

	return SubcktHeader{Inline: inline, Name: name.Text, Ports: ports}, nil
}

func (p *Parser) parseEnds() (Node, error) {
	if err := p.expectKeyword("ends"); err != nil {
		return nil, err
	}

	name, err := p.expect(TIdent, "subcircuit name")
	if err != nil {
		return nil, err
	}

	return SubcktEnd{Name: name.Text}, nil
}

func (p *Parser) parseModel() (Node, error) {
	if err := p.expectKeyword("model"); err != nil {
		return nil, err
	}

	name, err := p.expect(TIdent, "model name")
	if err != nil {
		return nil, err
	}

	typ, err := p.expect(TIdent, "model base type")
	if err != nil {
		return nil, err
	}

	var params []Param

	for !p.atEOF() {
		eq, err := p.parseEquation()
		if err != nil {
			return nil, err
		}

		params = append(params, Param{Node: eq})
	}

	return Model{Name: name.Text, Type: typ.Text, Params: params}, nil
}

// parseAssertion parses "label assert param=value...", used only inside a
// conditional body (spec.md §4.4).
func (p *Parser) parseAssertion() (Node, error) {
	label, err := p.expect(TIdent, "assertion label")
	if err != nil {
		return nil, err
	}

	if err := p.expectKeyword("assert"); err != nil {
		return nil, err
	}

	var params []Param

	for !p.atEOF() && p.peek().Kind != TRBrace {
		eq, err := p.parseEquation()
		if err != nil {
			return nil, err
		}

		params = append(params, Param{Node: eq})
	}

	return Assertion{Label: label.Text, Params: params}, nil
}

func (p *Parser) parseConditional() (Node, error) {
	if err := p.expectKeyword("if"); err != nil {
		return nil, err
	}

	if _, err := p.expect(TLParen, "("); err != nil {
		return nil, err
	}

	cond, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(TRParen, ")"); err != nil {
		return nil, err
	}

	if _, err := p.expect(TLBrace, "{"); err != nil {
		return nil, err
	}

	var body []Node

	for p.peek().Kind != TRBrace && !p.atEOF() {
		var (
			card Node
			err  error
		)

		if p.peekAt(1).Kind == TIdent && p.peekAt(1).Text == "assert" {
			card, err = p.parseAssertion()
		} else {
			card, err = p.parseInstance()
		}

		if err != nil {
			return nil, err
		}

		body = append(body, card)
	}

	if _, err := p.expect(TRBrace, "}"); err != nil {
		return nil, err
	}

	return Conditional{Cond: cond, Body: body}, nil
}

// parseInstance parses a component/subcircuit instantiation card, applying
// the port/type disambiguation rule of spec.md §4.4: scanning left to
// right, the last bare variable before the first equation is the type, and
// every bare variable before that is a port.
func (p *Parser) parseInstance() (Node, error) {
	designator, err := p.expect(TIdent, "designator")
	if err != nil {
		return nil, err
	}

	if t := p.peek(); t.Kind == TLParen {
		p.advance()
	}

	var args []Node

	for !p.atEOF() {
		if t := p.peek(); t.Kind == TRParen {
			p.advance()
			continue
		}

		if p.peek().Kind == TIdent && p.peekAt(1).Kind == TEquals {
			eq, err := p.parseEquation()
			if err != nil {
				return nil, err
			}

			args = append(args, eq)

			continue
		}

		t, err := p.expect(TIdent, "port or type")
		if err != nil {
			return nil, err
		}

		args = append(args, Variable{Name: t.Text})
	}

	firstEq := len(args)

	for i, a := range args {
		if _, ok := a.(Assign); ok {
			firstEq = i
			break
		}
	}

	portsAndType := args[:firstEq]
	if len(portsAndType) == 0 {
		return nil, diag.NewFault(diag.UnknownCard, "instance "+designator.Text+" has no ports or type")
	}

	ports := make([]string, 0, len(portsAndType)-1)
	for _, v := range portsAndType[:len(portsAndType)-1] {
		ports = append(ports, v.(Variable).Name)
	}

	typ := portsAndType[len(portsAndType)-1].(Variable).Name

	var params []Param
	for _, a := range args[firstEq:] {
		params = append(params, Param{Node: a})
	}

	return Instance{Designator: designator.Text, Ports: ports, Type: typ, Params: params}, nil
}
