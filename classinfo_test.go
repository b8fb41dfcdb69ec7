// Copyright 2026 The NRBF Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nrbf

import (
	"bytes"
	"reflect"
	"testing"
)

func TestReadClassInfo(t *testing.T) {
	// ObjectId=1, Name="Foo", MemberCount=2, MemberNames=["A","B"].
	var buf bytes.Buffer
	buf.Write([]byte{0x01, 0x00, 0x00, 0x00})
	buf.Write([]byte{0x03, 'F', 'o', 'o'})
	buf.Write([]byte{0x02, 0x00, 0x00, 0x00})
	buf.Write([]byte{0x01, 'A'})
	buf.Write([]byte{0x01, 'B'})

	s := newStream(&buf)
	ci, err := s.readClassInfo()
	if err != nil {
		t.Fatalf("readClassInfo: %v", err)
	}
	want := classInfo{ObjectID: 1, Name: "Foo", MemberCount: 2, MemberNames: []string{"A", "B"}}
	if !reflect.DeepEqual(ci, want) {
		t.Errorf("readClassInfo() = %+v, want %+v", ci, want)
	}
}

func TestClassInfoNodeRoundTrip(t *testing.T) {
	ci := classInfo{ObjectID: 5, Name: "Bar", MemberCount: 1, MemberNames: []string{"X"}}
	got, err := nodeToClassInfo(ci.asNode())
	if err != nil {
		t.Fatalf("nodeToClassInfo: %v", err)
	}
	if !reflect.DeepEqual(ci, got) {
		t.Errorf("round trip = %+v, want %+v", got, ci)
	}
}

func TestMemberTypeInfoNodeRoundTrip(t *testing.T) {
	mti := memberTypeInfo{
		BinaryTypeEnums: []BinaryType{BinaryPrimitive, BinaryString},
		AdditionalInfos: []additionalInfo{{primitive: PrimitiveInt32}, {}},
	}
	got, err := nodeToMemberTypeInfo(mti.asNode(), 2)
	if err != nil {
		t.Fatalf("nodeToMemberTypeInfo: %v", err)
	}
	if !reflect.DeepEqual(mti, got) {
		t.Errorf("round trip = %+v, want %+v", got, mti)
	}
}

func TestMemberTypeInfoNodeArityMismatch(t *testing.T) {
	mti := memberTypeInfo{
		BinaryTypeEnums: []BinaryType{BinaryPrimitive},
		AdditionalInfos: []additionalInfo{{primitive: PrimitiveInt32}},
	}
	if _, err := nodeToMemberTypeInfo(mti.asNode(), 2); err == nil {
		t.Fatal("expected arity mismatch error, got nil")
	}
}
