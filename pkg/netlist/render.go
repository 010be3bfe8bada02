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
	"fmt"
	"strings"

	"github.com/veridian-eda/spicexlate/pkg/diag"
	"github.com/veridian-eda/spicexlate/pkg/rules"
)

// RenderContext carries the two side-channel dependencies spec.md §4.5
// allows a render to reach for: the loaded translation tables and the
// diagnostic sink. ModelsSeen/ModelsTranslated back the supplemented
// "Translated N to M model cards" summary (spec.md's original_source
// netlist_manager.py).
type RenderContext struct {
	Rules            *rules.Table
	Diag             *diag.Sink
	ModelsSeen       int
	ModelsTranslated int
}

// Render produces the target-dialect text for a single card, per spec.md
// §4.5's table. It is recursive and pure except for the two side effects
// RenderContext exists to carry: parameter-table lookup and diagnostic
// emission.
func Render(n Node, ctx *RenderContext) (string, error) {
	switch v := n.(type) {
	case Assign:
		left, err := renderExpr(v.Left, ctx)
		if err != nil {
			return "", err
		}

		right, err := renderExpr(v.Right, ctx)
		if err != nil {
			return "", err
		}

		return ".param " + left + "='" + right + "'", nil

	case LangDirective:
		return "*simulator lang=" + v.Lang, nil

	case Include:
		if v.Kind == "include" {
			return ".include " + v.Path + v.Basename + ".sp", nil
		}

		return "*." + v.Kind + " " + v.Path + v.Basename + "." + v.Ext, nil

	case SubcktHeader:
		return ".subckt " + v.Name + " (" + strings.Join(v.Ports, " ") + ")", nil

	case SubcktEnd:
		return ".ends " + v.Name, nil

	case FuncDef:
		body, err := renderExpr(v.Body, ctx)
		if err != nil {
			return "", err
		}

		return ".func " + v.Name + "(" + strings.Join(v.Params, ",") + ") {" + body + "}", nil

	case Conditional:
		cond, err := renderExpr(v.Cond, ctx)
		if err != nil {
			return "", err
		}

		parts := make([]string, 0, len(v.Body))

		for _, b := range v.Body {
			s, err := Render(b, ctx)
			if err != nil {
				return "", err
			}

			parts = append(parts, s)
		}

		return ".if (" + cond + ") {" + strings.Join(parts, " ") + "}", nil

	case Assertion:
		parts := make([]string, 0, len(v.Params))

		for _, p := range v.Params {
			s, err := renderParamVerbatim(p, ctx)
			if err != nil {
				return "", err
			}

			parts = append(parts, s)
		}

		return "*" + v.Label + " assert " + strings.Join(parts, " "), nil

	case Model:
		return renderModel(v, ctx)

	case Instance:
		return renderInstance(v, ctx)

	case Number, Variable, StringLit, BinOp, UnaryOp, Call, Ternary, Group:
		return renderExpr(n, ctx)

	default:
		return "", fmt.Errorf("netlist: no rendering for %T", n)
	}
}

// renderExpr implements spec.md §4.5's expression-level mappings: identity
// rendering with three exceptions (v()/V() demotion, ternary, and
// parenthesized groups).
func renderExpr(n Node, ctx *RenderContext) (string, error) {
	switch v := n.(type) {
	case Number:
		return v.Text, nil
	case Variable:
		return v.Name, nil
	case StringLit:
		return v.Value, nil
	case BinOp:
		left, err := renderExpr(v.Left, ctx)
		if err != nil {
			return "", err
		}

		right, err := renderExpr(v.Right, ctx)
		if err != nil {
			return "", err
		}

		return left + v.Op + right, nil
	case UnaryOp:
		operand, err := renderExpr(v.Operand, ctx)
		if err != nil {
			return "", err
		}

		return v.Op + operand, nil
	case Call:
		if v.Name == "v" || v.Name == "V" {
			ctx.Diag.Emit(diag.Warn, "voltage in .param demoted: "+v.Name+"(...) rendered as 0")
			return "0", nil
		}

		args := make([]string, 0, len(v.Args))

		for _, a := range v.Args {
			s, err := renderExpr(a, ctx)
			if err != nil {
				return "", err
			}

			args = append(args, s)
		}

		return v.Name + "(" + strings.Join(args, ",") + ")", nil
	case Ternary:
		cond, err := renderExpr(v.Cond, ctx)
		if err != nil {
			return "", err
		}

		then, err := renderExpr(v.Then, ctx)
		if err != nil {
			return "", err
		}

		els, err := renderExpr(v.Else, ctx)
		if err != nil {
			return "", err
		}

		return cond + "?" + then + ":" + els, nil
	case Group:
		inner, err := renderExpr(v.Inner, ctx)
		if err != nil {
			return "", err
		}

		return "(" + inner + ")", nil
	default:
		return "", fmt.Errorf("netlist: no expression rendering for %T", n)
	}
}

// renderParamVerbatim renders a single instance/model argument as "name" or
// "name=value", with no table-driven rewriting - used for comment output
// (ignored models, assertions) and subcircuit-fallback passthrough.
func renderParamVerbatim(p Param, ctx *RenderContext) (string, error) {
	switch v := p.Node.(type) {
	case Variable:
		return v.Name, nil
	case Assign:
		left, err := renderExpr(v.Left, ctx)
		if err != nil {
			return "", err
		}

		right, err := renderExpr(v.Right, ctx)
		if err != nil {
			return "", err
		}

		return left + "=" + right, nil
	default:
		return renderExpr(p.Node, ctx)
	}
}

func renderModel(m Model, ctx *RenderContext) (string, error) {
	ctx.ModelsSeen++

	rule, ok := ctx.Rules.LookupModel(m.Name)
	if !ok {
		return "", diag.NewFault(diag.TableMiss, "model not in table: "+m.Name)
	}

	if rule.Ignored {
		parts := make([]string, 0, len(m.Params)+2)
		parts = append(parts, m.Name, m.Type)

		for _, p := range m.Params {
			s, err := renderParamVerbatim(p, ctx)
			if err != nil {
				return "", err
			}

			parts = append(parts, s)
		}

		return "*.model " + strings.Join(parts, " "), nil
	}

	newParams, err := rewriteParams(m.Params, rule.Added, rule.Removed, rule.Translated, ctx)
	if err != nil {
		return "", err
	}

	ctx.ModelsTranslated++

	return ".model " + m.Name + " " + strings.Join(newParams, " "), nil
}

func renderInstance(i Instance, ctx *RenderContext) (string, error) {
	rule, ok := ctx.Rules.LookupComponent(i.Type)

	var (
		designator string
		paramStrs  []string
		err        error
	)

	if ok {
		designator = string(rule.SpicePrefix) + "_" + i.Designator

		var seed []string
		if rule.KeepType {
			seed = []string{i.Type}
		}

		paramStrs, err = rewriteParams(i.Params, seed, rule.Removed, rule.Translated, ctx)
		if err != nil {
			return "", err
		}
	} else {
		designator = "X_" + i.Designator
		paramStrs = append(paramStrs, i.Type)

		for _, p := range i.Params {
			s, verr := renderParamVerbatim(p, ctx)
			if verr != nil {
				return "", verr
			}

			paramStrs = append(paramStrs, s)
		}
	}

	return designator + " " + strings.Join(i.Ports, " ") + " " + strings.Join(paramStrs, " "), nil
}
