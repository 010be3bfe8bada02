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
package include

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/veridian-eda/spicexlate/pkg/diag"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture %s: %v", path, err)
	}
}

func TestResolveDepthFirstPreOrder(t *testing.T) {
	dir := t.TempDir()

	writeFile(t, filepath.Join(dir, "top.scs"), "R1 a b resistor r=5k\ninclude \"sub/leaf.scs\"\n")
	writeFile(t, filepath.Join(dir, "sub", "leaf.scs"), "M1 d g s b nch_25 w=5u l=0.25u\n")

	refs, err := Resolve(dir, "top", "scs")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	if len(refs) != 2 {
		t.Fatalf("expected 2 files, got %d: %+v", len(refs), refs)
	}

	if refs[0].Basename != "top" || refs[0].Depth != 0 {
		t.Fatalf("expected top.scs first at depth 0, got %+v", refs[0])
	}

	if refs[1].Basename != "leaf" || refs[1].Depth != 1 {
		t.Fatalf("expected leaf.scs second at depth 1, got %+v", refs[1])
	}
}

func TestResolveDetectsCycle(t *testing.T) {
	dir := t.TempDir()

	writeFile(t, filepath.Join(dir, "a.scs"), "include \"b.scs\"\n")
	writeFile(t, filepath.Join(dir, "b.scs"), "include \"a.scs\"\n")

	_, err := Resolve(dir, "a", "scs")

	fault, ok := err.(*diag.Fault)
	if !ok || fault.Kind != diag.IncludeMissing {
		t.Fatalf("expected an IncludeMissing fault for a cycle, got %v", err)
	}
}

func TestResolveMissingFileFails(t *testing.T) {
	dir := t.TempDir()

	_, err := Resolve(dir, "nope", "scs")

	fault, ok := err.(*diag.Fault)
	if !ok || fault.Kind != diag.IncludeMissing {
		t.Fatalf("expected an IncludeMissing fault, got %v", err)
	}
}
