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

// Package netlist implements the card grammar (spec.md §4.4), the AST and
// its rendering contract (spec.md §4.5), and the parameter rewriter
// (spec.md §4.6).  Node is a closed sum type: every kind listed in
// spec.md §3 has exactly one struct below, and render.go dispatches over
// all of them with a single type switch rather than a per-type method
// (spec.md §9).  A kind without a matching case reaches the switch's
// default branch, and Render returns an error for it at run time.
package netlist

// Node is the common interface implemented by every AST node kind.  It
// carries no behaviour of its own; rendering is performed externally by
// Render via a type switch, per spec.md §9's "documents completeness"
// argument for sum types over per-class virtual methods.
type Node interface {
	isNode()
}

// Number is a numeric literal, kept as its original text (integer, real,
// scientific, or unit-postfixed) since no arithmetic is ever performed on
// it by the translator - the system is syntactic, not semantic (spec.md
// §1 Non-goals).
type Number struct {
	Text string
}

func (Number) isNode() {}

// Variable is a bare identifier reference.
type Variable struct {
	Name string
}

func (Variable) isNode() {}

// StringLit is a quoted string literal, unquoted.
type StringLit struct {
	Value string
}

func (StringLit) isNode() {}

// BinOp is a binary expression with an already-parsed left and right
// operand.
type BinOp struct {
	Op          string
	Left, Right Node
}

func (BinOp) isNode() {}

// UnaryOp is a unary-minus expression.
type UnaryOp struct {
	Op      string
	Operand Node
}

func (UnaryOp) isNode() {}

// Call is a function invocation, e.g. v(a,b) or a user-defined function.
type Call struct {
	Name string
	Args []Node
}

func (Call) isNode() {}

// Ternary is a "cond ? then : else" expression.
type Ternary struct {
	Cond, Then, Else Node
}

func (Ternary) isNode() {}

// Group wraps a single inner node to record explicit parenthesization for
// rendering, per spec.md §3.
type Group struct {
	Inner Node
}

func (Group) isNode() {}

// Assign is a parameter equation: "left = right".
type Assign struct {
	Left, Right Node
}

func (Assign) isNode() {}

// FuncDef is a "real name(params) { return body }" function definition.
type FuncDef struct {
	Name   string
	Params []string
	Body   Node
}

func (FuncDef) isNode() {}

// LangDirective is a "simulator lang = x" directive.
type LangDirective struct {
	Lang string
}

func (LangDirective) isNode() {}

// Include is an include or ahdl_include directive.
type Include struct {
	Kind     string // "include" or "ahdl_include"
	Path     string // directory prefix, as written
	Basename string
	Ext      string
}

func (Include) isNode() {}

// SubcktHeader opens a subcircuit definition.
type SubcktHeader struct {
	Inline bool
	Name   string
	Ports  []string
}

func (SubcktHeader) isNode() {}

// SubcktEnd closes a subcircuit definition.
type SubcktEnd struct {
	Name string
}

func (SubcktEnd) isNode() {}

// Param is a single "name" or "name=value" instance/model argument, kept
// as an AST node (Variable for a bare flag, Assign for a keyed value) so
// the rewriter can classify ports vs. parameters directly on the AST
// (spec.md §9), rather than inspecting rendered text.
type Param struct {
	Node Node
}

// Instance is a component/subcircuit instantiation card.
type Instance struct {
	Designator string
	Ports      []string
	Type       string
	Params     []Param
}

func (Instance) isNode() {}

// Model is a ".model"-equivalent card.
type Model struct {
	Name   string
	Type   string
	Params []Param
}

func (Model) isNode() {}

// Conditional is an "if (expr) { body }" card.
type Conditional struct {
	Cond Node
	Body []Node
}

func (Conditional) isNode() {}

// Assertion is a "name assert params..." card, demoted to a comment on
// render (spec.md §4.5).
type Assertion struct {
	Label  string
	Params []Param
}

func (Assertion) isNode() {}

// Tuple is a "[a b c...]" bracketed list.
type Tuple struct {
	Elements []Node
}

func (Tuple) isNode() {}
