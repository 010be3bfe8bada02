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
package rules

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadValidTables(t *testing.T) {
	table, err := Load("../../testdata/tech")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	rule, ok := table.LookupModel("nch_25")
	if !ok {
		t.Fatal("expected nch_25 model rule to be present")
	}

	if rule.Ignored {
		t.Fatal("nch_25 should not be ignored")
	}

	if len(rule.Added) != 1 || rule.Added[0] != "level=14" {
		t.Fatalf("unexpected added list: %v", rule.Added)
	}

	if len(rule.Translated) != 2 {
		t.Fatalf("expected 2 translated pairs, got %d", len(rule.Translated))
	}

	if _, ok := table.LookupModel("does_not_exist"); ok {
		t.Fatal("expected lookup miss for unknown model")
	}

	comp, ok := table.LookupComponent("resistor")
	if !ok {
		t.Fatal("expected resistor component rule to be present")
	}

	if comp.SpicePrefix != 'R' || comp.KeepType {
		t.Fatalf("unexpected resistor rule: %+v", comp)
	}
}

func TestLoadRejectsOverlappingRules(t *testing.T) {
	dir := t.TempDir()

	writeFile(t, filepath.Join(dir, "model_table.toml"), `
[broken]
ignored = "No"
added = ["x"]
removed = ["x"]
translated = []
`)
	writeFile(t, filepath.Join(dir, "component_table.toml"), `
[resistor]
spice_prefix = "R"
keep_type = "No"
removed = []
translated = []
`)

	if _, err := Load(dir); err == nil {
		t.Fatal("expected a TableLoad fault for overlapping added/removed sets")
	}
}

func TestLoadRejectsMissingKey(t *testing.T) {
	dir := t.TempDir()

	writeFile(t, filepath.Join(dir, "model_table.toml"), `
[broken]
added = []
removed = []
translated = []
`)
	writeFile(t, filepath.Join(dir, "component_table.toml"), `
[resistor]
spice_prefix = "R"
keep_type = "No"
removed = []
translated = []
`)

	if _, err := Load(dir); err == nil {
		t.Fatal("expected a TableLoad fault for a missing 'ignored' key")
	}
}

func TestLoadRejectsModelEntryMissingAdded(t *testing.T) {
	dir := t.TempDir()

	writeFile(t, filepath.Join(dir, "model_table.toml"), `
[broken]
ignored = "No"
removed = []
translated = []
`)
	writeFile(t, filepath.Join(dir, "component_table.toml"), `
[resistor]
spice_prefix = "R"
keep_type = "No"
removed = []
translated = []
`)

	if _, err := Load(dir); err == nil {
		t.Fatal("expected a TableLoad fault for a missing 'added' key")
	}
}

func TestLoadRejectsComponentEntryMissingTranslated(t *testing.T) {
	dir := t.TempDir()

	writeFile(t, filepath.Join(dir, "model_table.toml"), `
[broken]
ignored = "No"
added = []
removed = []
translated = []
`)
	writeFile(t, filepath.Join(dir, "component_table.toml"), `
[resistor]
spice_prefix = "R"
keep_type = "No"
removed = []
`)

	if _, err := Load(dir); err == nil {
		t.Fatal("expected a TableLoad fault for a missing 'translated' key")
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture %s: %v", path, err)
	}
}
