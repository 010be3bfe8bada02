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
	"testing"

	"github.com/veridian-eda/spicexlate/pkg/diag"
)

// parseOneCard is a test helper for the common case of a card that is known
// to produce exactly one node.
func parseOneCard(t *testing.T, card string) Node {
	t.Helper()

	nodes, err := ParseCard(card)
	if err != nil {
		t.Fatalf("ParseCard(%q): %v", card, err)
	}

	if len(nodes) != 1 {
		t.Fatalf("ParseCard(%q): expected exactly one node, got %d", card, len(nodes))
	}

	return nodes[0]
}

func TestParseCardSkipsBlank(t *testing.T) {
	nodes, err := ParseCard("   \t  ")
	if err != nil || nodes != nil {
		t.Fatalf("expected (nil, nil) for a blank card, got (%v, %v)", nodes, err)
	}
}

func TestParseCardUnsupportedKeyword(t *testing.T) {
	_, err := ParseCard("statistics something")

	fault, ok := err.(*diag.Fault)
	if !ok || fault.Kind != diag.UnsupportedCard {
		t.Fatalf("expected an UnsupportedCard fault, got %v", err)
	}
}

func TestParseInstancePortTypeDisambiguation(t *testing.T) {
	node := parseOneCard(t, "M1 d g s b nch_25 w=5u l=0.25u")

	inst, ok := node.(Instance)
	if !ok {
		t.Fatalf("expected Instance, got %T", node)
	}

	if inst.Designator != "M1" {
		t.Fatalf("unexpected designator: %q", inst.Designator)
	}

	wantPorts := []string{"d", "g", "s", "b"}
	if len(inst.Ports) != len(wantPorts) {
		t.Fatalf("unexpected ports: %v", inst.Ports)
	}

	for i, p := range wantPorts {
		if inst.Ports[i] != p {
			t.Fatalf("port %d: got %q, want %q", i, inst.Ports[i], p)
		}
	}

	if inst.Type != "nch_25" {
		t.Fatalf("unexpected type: %q", inst.Type)
	}

	if len(inst.Params) != 2 {
		t.Fatalf("unexpected param count: %d", len(inst.Params))
	}
}

func TestParseEquationWithTernary(t *testing.T) {
	node := parseOneCard(t, "parameters vth = a>b ? 1 : 0")

	assign, ok := node.(Assign)
	if !ok {
		t.Fatalf("expected Assign, got %T", node)
	}

	if _, ok := assign.Right.(Ternary); !ok {
		t.Fatalf("expected a Ternary right-hand side, got %T", assign.Right)
	}
}

// TestParseParametersCardYieldsOneAssignPerEquation guards against treating
// a multi-assignment "parameters" card as a single equation, which would
// silently drop every assignment after the first (spec.md §8 property #2).
func TestParseParametersCardYieldsOneAssignPerEquation(t *testing.T) {
	nodes, err := ParseCard("parameters vdd=1.8 vss=0 temp=27")
	if err != nil {
		t.Fatalf("ParseCard: %v", err)
	}

	if len(nodes) != 3 {
		t.Fatalf("expected 3 Assign nodes, got %d: %+v", len(nodes), nodes)
	}

	wantNames := []string{"vdd", "vss", "temp"}

	for i, want := range wantNames {
		assign, ok := nodes[i].(Assign)
		if !ok {
			t.Fatalf("node %d: expected Assign, got %T", i, nodes[i])
		}

		v, ok := assign.Left.(Variable)
		if !ok || v.Name != want {
			t.Fatalf("node %d: expected left-hand side %q, got %+v", i, want, assign.Left)
		}
	}
}

func TestParseModel(t *testing.T) {
	node := parseOneCard(t, "model nch_25 bsim4 lmin=1u lmax=10u")

	m, ok := node.(Model)
	if !ok {
		t.Fatalf("expected Model, got %T", node)
	}

	if m.Name != "nch_25" || m.Type != "bsim4" || len(m.Params) != 2 {
		t.Fatalf("unexpected model: %+v", m)
	}
}

func TestParseInclude(t *testing.T) {
	node := parseOneCard(t, `ahdl_include "./ahdl/foo.va"`)

	inc, ok := node.(Include)
	if !ok {
		t.Fatalf("expected Include, got %T", node)
	}

	if inc.Kind != "ahdl_include" || inc.Path != "./ahdl/" || inc.Basename != "foo" || inc.Ext != "va" {
		t.Fatalf("unexpected include: %+v", inc)
	}
}

func TestParseSubcktHeaderAndEnds(t *testing.T) {
	node := parseOneCard(t, "subckt inv a b vdd vss")

	hdr, ok := node.(SubcktHeader)
	if !ok || hdr.Name != "inv" || len(hdr.Ports) != 4 {
		t.Fatalf("unexpected subckt header: %+v", node)
	}

	node = parseOneCard(t, "ends inv")

	if end, ok := node.(SubcktEnd); !ok || end.Name != "inv" {
		t.Fatalf("unexpected subckt end: %+v", node)
	}
}

func TestParseUnknownCardFails(t *testing.T) {
	_, err := ParseCard("?? not a valid card")

	fault, ok := err.(*diag.Fault)
	if !ok || fault.Kind != diag.UnknownCard {
		t.Fatalf("expected an UnknownCard fault, got %v", err)
	}
}
