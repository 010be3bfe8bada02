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
	"github.com/veridian-eda/spicexlate/pkg/rules"
)

// paramKey returns the parameter name a Param is keyed under, for table
// lookups - the bare Variable name for a flag, or the Assign's left-hand
// side for a keyed value.
func paramKey(p Param) (string, bool) {
	switch v := p.Node.(type) {
	case Variable:
		return v.Name, true
	case Assign:
		if name, ok := v.Left.(Variable); ok {
			return name.Name, true
		}
	}

	return "", false
}

// rewriteParams implements spec.md §4.6's shared remove/translate/sanity
// sequence for both Model and Instance cards: start from added (already
// formatted, emitted verbatim and first), apply translated in
// rule-declaration order, drop removed, and fault if anything remains.
// Grounded on original_source/spectre2spice's model_reader.py and
// component_reader.py's translate_model/translate_component, reworked to
// operate on Assign/Variable nodes directly instead of string-splitting
// rendered ".param" text (spec.md §9).
func rewriteParams(params []Param, added []string, removed map[string]struct{}, translated []rules.Pair, ctx *RenderContext) ([]string, error) {
	result := make([]string, 0, len(added)+len(translated))
	result = append(result, added...)

	remaining := make([]Param, len(params))
	copy(remaining, params)

	for _, pair := range translated {
		idx := -1

		for i, p := range remaining {
			if key, ok := paramKey(p); ok && key == pair.From {
				idx = i
				break
			}
		}

		if idx < 0 {
			continue
		}

		p := remaining[idx]
		remaining = append(remaining[:idx], remaining[idx+1:]...)

		if a, ok := p.Node.(Assign); ok {
			value, err := renderExpr(a.Right, ctx)
			if err != nil {
				return nil, err
			}

			result = append(result, pair.To+"="+value)
		} else {
			result = append(result, pair.To)
		}
	}

	kept := remaining[:0]

	for _, p := range remaining {
		key, ok := paramKey(p)
		if ok {
			if _, drop := removed[key]; drop {
				continue
			}
		}

		kept = append(kept, p)
	}

	if len(kept) != 0 {
		names := make([]string, 0, len(kept))

		for _, p := range kept {
			key, _ := paramKey(p)
			names = append(names, key)
		}

		return nil, diag.NewFault(diag.TableCoverage, "parameter(s) missing in table: "+strings.Join(names, ", "))
	}

	return result, nil
}
