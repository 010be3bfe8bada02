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

// Package pipeline orchestrates one translation run: load the translation
// tables once (C2), resolve the include graph (C7), then preprocess (C3),
// parse (C4), rewrite and render (C5/C6) each file in turn, writing
// output that mirrors the input tree. Grounded on
// original_source/spectre2spice's netlist_manager.py, reworked into an
// explicit immutable Session instead of shared mutable globals (spec.md
// §9's redesign note on shared_variables.py).
package pipeline

// Session is the immutable configuration for a single translation run,
// built once by pkg/cmd/translate.go from CLI flags (spec.md §6).
type Session struct {
	RootDir   string
	TopFile   string
	OutputDir string
	TechDir   string
	LogDir    string
	Debug     bool
}
