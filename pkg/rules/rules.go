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

// Package rules loads the two declarative translation tables (model and
// component) that govern how spec.md §4.6's rewriter reshapes parameters,
// and exposes O(1) lookup over them.  Tables are immutable once loaded;
// per spec.md §9's redesign note, a table is loaded once per run rather
// than once per card as the original Python implementation does.
package rules

import (
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/veridian-eda/spicexlate/pkg/diag"
)

// Pair is an ordered (from, to) parameter rename.
type Pair struct {
	From string
	To   string
}

// ModelRule describes how a single model name's parameters are rewritten
// (spec.md §3).
type ModelRule struct {
	Ignored    bool
	Added      []string
	Removed    map[string]struct{}
	Translated []Pair
}

// ComponentRule describes how a single source-dialect component type's
// parameters are rewritten (spec.md §3).
type ComponentRule struct {
	SpicePrefix byte
	KeepType    bool
	Removed     map[string]struct{}
	Translated  []Pair
}

// Table is the immutable, loaded pair of translation tables for one run.
type Table struct {
	models     map[string]ModelRule
	components map[string]ComponentRule
}

// rawModelEntry mirrors the on-disk TOML shape of a [model_name] table, as
// read by github.com/BurntSushi/toml.  Keys match original_source/spectre2spice's
// model_reader.py exactly: ignored, added, removed, translated - all four
// required, since model_reader.py indexes current_model['added'] etc.
// directly and KeyErrors (there aborting the whole run) if any is absent.
// Every field is a pointer so a key that is simply missing from the TOML
// table can be told apart from one present with an empty list.
type rawModelEntry struct {
	Ignored    *string     `toml:"ignored"`
	Added      *[]string   `toml:"added"`
	Removed    *[]string   `toml:"removed"`
	Translated *[][]string `toml:"translated"`
}

// rawComponentEntry mirrors the on-disk TOML shape of a [component_type]
// table, matching component_reader.py: spice_prefix, keep_type, removed,
// translated - all four required for the same reason as rawModelEntry.
type rawComponentEntry struct {
	SpicePrefix *string     `toml:"spice_prefix"`
	KeepType    *string     `toml:"keep_type"`
	Removed     *[]string   `toml:"removed"`
	Translated  *[][]string `toml:"translated"`
}

// Load reads model_table.toml and component_table.toml from techDir and
// validates every entry per spec.md §4.2.  A missing key produces a fatal,
// run-scoped *diag.Fault naming the table and key; a file that fails to
// decode (including an ill-typed value) produces one naming only the file.
func Load(techDir string) (*Table, error) {
	models, err := loadModels(filepath.Join(techDir, "model_table.toml"))
	if err != nil {
		return nil, err
	}

	components, err := loadComponents(filepath.Join(techDir, "component_table.toml"))
	if err != nil {
		return nil, err
	}

	return &Table{models: models, components: components}, nil
}

func loadModels(path string) (map[string]ModelRule, error) {
	var raw map[string]rawModelEntry

	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return nil, diag.NewFault(diag.TableLoad, "cannot read model table "+path)
	}

	out := make(map[string]ModelRule, len(raw))

	for name, entry := range raw {
		rule, err := toModelRule(name, entry)
		if err != nil {
			return nil, err
		}

		out[name] = rule
	}

	return out, nil
}

func toModelRule(name string, entry rawModelEntry) (ModelRule, error) {
	if entry.Ignored == nil {
		return ModelRule{}, missingKey("model_table.toml", name, "ignored")
	}

	if entry.Added == nil {
		return ModelRule{}, missingKey("model_table.toml", name, "added")
	}

	if entry.Removed == nil {
		return ModelRule{}, missingKey("model_table.toml", name, "removed")
	}

	if entry.Translated == nil {
		return ModelRule{}, missingKey("model_table.toml", name, "translated")
	}

	pairs, err := toPairs("model_table.toml", name, *entry.Translated)
	if err != nil {
		return ModelRule{}, err
	}

	removed := toSet(*entry.Removed)

	if err := checkDisjoint("model_table.toml", name, *entry.Added, removed, pairs); err != nil {
		return ModelRule{}, err
	}

	return ModelRule{
		Ignored:    *entry.Ignored == "Yes",
		Added:      append([]string{}, *entry.Added...),
		Removed:    removed,
		Translated: pairs,
	}, nil
}

func loadComponents(path string) (map[string]ComponentRule, error) {
	var raw map[string]rawComponentEntry

	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return nil, diag.NewFault(diag.TableLoad, "cannot read component table "+path)
	}

	out := make(map[string]ComponentRule, len(raw))

	for typ, entry := range raw {
		rule, err := toComponentRule(typ, entry)
		if err != nil {
			return nil, err
		}

		out[typ] = rule
	}

	return out, nil
}

func toComponentRule(typ string, entry rawComponentEntry) (ComponentRule, error) {
	if entry.SpicePrefix == nil || len(*entry.SpicePrefix) != 1 {
		return ComponentRule{}, missingKey("component_table.toml", typ, "spice_prefix")
	}

	if entry.KeepType == nil {
		return ComponentRule{}, missingKey("component_table.toml", typ, "keep_type")
	}

	if entry.Removed == nil {
		return ComponentRule{}, missingKey("component_table.toml", typ, "removed")
	}

	if entry.Translated == nil {
		return ComponentRule{}, missingKey("component_table.toml", typ, "translated")
	}

	pairs, err := toPairs("component_table.toml", typ, *entry.Translated)
	if err != nil {
		return ComponentRule{}, err
	}

	removed := toSet(*entry.Removed)

	if err := checkDisjoint("component_table.toml", typ, nil, removed, pairs); err != nil {
		return ComponentRule{}, err
	}

	return ComponentRule{
		SpicePrefix: (*entry.SpicePrefix)[0],
		KeepType:    *entry.KeepType == "Yes",
		Removed:     removed,
		Translated:  pairs,
	}, nil
}

func toPairs(table, key string, raw [][]string) ([]Pair, error) {
	pairs := make([]Pair, 0, len(raw))

	for _, p := range raw {
		if len(p) != 2 {
			return nil, missingKey(table, key, "translated")
		}

		pairs = append(pairs, Pair{From: p[0], To: p[1]})
	}

	return pairs, nil
}

func toSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}

	return set
}

// checkDisjoint enforces spec.md §3's invariant that added, removed and the
// from-side of translated are pairwise disjoint.
func checkDisjoint(table, key string, added []string, removed map[string]struct{}, translated []Pair) error {
	from := make(map[string]struct{}, len(translated))
	for _, p := range translated {
		if _, ok := from[p.From]; ok {
			return diag.NewFault(diag.TableLoad, table+": "+key+": duplicate translated source "+p.From)
		}

		from[p.From] = struct{}{}

		if _, ok := removed[p.From]; ok {
			return diag.NewFault(diag.TableLoad,
				table+": "+key+": "+p.From+" appears in both removed and translated")
		}
	}

	for _, a := range added {
		if _, ok := removed[a]; ok {
			return diag.NewFault(diag.TableLoad, table+": "+key+": "+a+" appears in both added and removed")
		}

		if _, ok := from[a]; ok {
			return diag.NewFault(diag.TableLoad, table+": "+key+": "+a+" appears in both added and translated")
		}
	}

	return nil
}

func missingKey(table, key, field string) error {
	return diag.NewFault(diag.TableLoad, table+": entry "+key+" missing required field "+field)
}

// LookupModel returns the rule for a model name, if present.
func (t *Table) LookupModel(name string) (ModelRule, bool) {
	r, ok := t.models[name]
	return r, ok
}

// LookupComponent returns the rule for a source-dialect component type, if
// present.  Absence means subcircuit fallback per spec.md §4.2.
func (t *Table) LookupComponent(typ string) (ComponentRule, bool) {
	r, ok := t.components[typ]
	return r, ok
}
