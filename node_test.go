// Copyright 2026 The NRBF Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nrbf

import (
	"strconv"
	"testing"
)

func TestNodeAccessors(t *testing.T) {
	tests := []struct {
		in   Node
		kind Kind
	}{
		{NewBool(true), KindBool},
		{NewInt(-7), KindInt},
		{NewUint(7), KindUint},
		{NewFloat(1.5), KindFloat},
		{NewString("x"), KindString},
		{NewSeq([]Node{NewInt(1)}), KindSeq},
		{NewMap(NodeField{Key: "a", Value: NewInt(1)}), KindMap},
		{Null, KindNull},
	}

	for i, tt := range tests {
		name := "CaseNodeKindEqualTo_" + strconv.Itoa(int(tt.kind))
		t.Run(name, func(t *testing.T) {
			if got := tt.in.Kind(); got != tt.kind {
				t.Errorf("test %d: Kind() = %v, want %v", i, got, tt.kind)
			}
		})
	}
}

func TestNodeWithFieldAppendsOrReplaces(t *testing.T) {
	n := NewMap(NodeField{Key: "A", Value: NewInt(1)})
	n2 := n.WithField("B", NewInt(2))
	if _, ok := n.Get("B"); ok {
		t.Fatalf("original node was mutated by WithField")
	}
	if v, ok := n2.Get("B"); !ok {
		t.Fatalf("WithField did not append new key")
	} else if got, _ := v.Int(); got != 2 {
		t.Errorf("got %d, want 2", got)
	}

	n3 := n2.WithField("A", NewInt(9))
	fields, _ := n3.Fields()
	if len(fields) != 2 {
		t.Fatalf("WithField on existing key changed field count: %d", len(fields))
	}
	if v, _ := n3.Get("A"); mustInt(t, v) != 9 {
		t.Errorf("WithField did not replace existing key in place")
	}
}

func TestNodeMergeSourceWins(t *testing.T) {
	base := NewMap(
		NodeField{Key: "IdRef", Value: NewInt(4)},
		NodeField{Key: "Shared", Value: NewString("base")},
	)
	src := NewMap(
		NodeField{Key: "Shared", Value: NewString("src")},
		NodeField{Key: "Extra", Value: NewInt(1)},
	)
	merged := base.merge(src)

	if v, _ := merged.Get("IdRef"); mustInt(t, v) != 4 {
		t.Errorf("merge dropped a base-only field")
	}
	if v, _ := merged.Get("Shared"); v.String() != "src" {
		t.Errorf("merge did not let src win on collision, got %q", v.String())
	}
	if _, ok := merged.Get("Extra"); !ok {
		t.Errorf("merge did not add a src-only field")
	}
}

func TestNodeMarshalJSONPreservesOrder(t *testing.T) {
	n := NewMap(
		NodeField{Key: "Z", Value: NewInt(1)},
		NodeField{Key: "A", Value: NewInt(2)},
	)
	buf, err := n.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	got := string(buf)
	want := `{"Z":1,"A":2}`
	if got != want {
		t.Errorf("MarshalJSON() = %s, want %s", got, want)
	}
}

func mustInt(t *testing.T, n Node) int64 {
	t.Helper()
	v, ok := n.Int()
	if !ok {
		t.Fatalf("node is not an int: %v", n)
	}
	return v
}
