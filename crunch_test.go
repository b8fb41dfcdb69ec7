// Copyright 2026 The NRBF Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nrbf

import (
	"bytes"
	"testing"
)

// classWithTwoStringMembers builds a ClassWithMembersAndTypes record
// (ObjectId=1) with two String-typed members, "Name" and "Note", whose
// values are a nested BinaryObjectString and a nested ObjectNull
// respectively.
func classWithTwoStringMembers() []byte {
	var buf bytes.Buffer
	buf.WriteByte(0x05) // ClassWithMembersAndTypes
	buf.Write(le32Bytes(1))
	buf.Write(lengthPrefixedString("Person"))
	buf.Write(le32Bytes(2))
	buf.Write(lengthPrefixedString("Name"))
	buf.Write(lengthPrefixedString("Note"))
	buf.WriteByte(0x01) // BinaryType: String
	buf.WriteByte(0x01) // BinaryType: String
	buf.Write(le32Bytes(0)) // LibraryId
	buf.Write(binaryObjectString(2, "Ann"))
	buf.WriteByte(0x0A) // ObjectNull
	return buf.Bytes()
}

func TestCrunchScalarIdempotent(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(minimalHeaderAndEnd()[:17])
	buf.Write(binaryObjectString(9, "plain"))
	buf.WriteByte(0x0B)

	dec := NewBytes(buf.Bytes(), Options{})
	if _, err := dec.Parse(); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	dec.rootID = 9
	got, err := dec.Crunch()
	if err != nil {
		t.Fatalf("Crunch: %v", err)
	}
	if s, ok := got.StringValue(); !ok || s != "plain" {
		t.Errorf("Crunch() of a scalar record = %v, want %q", got, "plain")
	}

	again, err := dec.crunch(got)
	if err != nil {
		t.Fatalf("crunch (second pass): %v", err)
	}
	if s, ok := again.StringValue(); !ok || s != "plain" {
		t.Errorf("crunching an already-crunched scalar changed it: %v", again)
	}
}

func TestCrunchClassDropsNullMember(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(classWithTwoStringMembers())
	buf.WriteByte(0x0B)

	dec := NewBytes(buf.Bytes(), Options{})
	if _, err := dec.Parse(); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	dec.rootID = 1
	got, err := dec.Crunch()
	if err != nil {
		t.Fatalf("Crunch: %v", err)
	}

	fields, ok := got.Fields()
	if !ok {
		t.Fatalf("Crunch() of a class record is not a mapping: %v", got)
	}
	if len(fields) != 1 {
		t.Fatalf("Crunch() kept %d fields, want 1 (Note should be dropped as null)", len(fields))
	}
	name, ok := got.Get("Name")
	if !ok {
		t.Fatalf("Crunch() dropped Name")
	}
	if s, _ := name.StringValue(); s != "Ann" {
		t.Errorf("Name = %q, want %q", s, "Ann")
	}
	if _, ok := got.Get("Note"); ok {
		t.Errorf("Crunch() kept Note, want it dropped (its value crunches to null)")
	}
}

func TestCrunchClassByMetadataId(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(classWithTwoStringMembers()) // registers ObjectId=1 with full ClassInfo/MemberTypeInfo

	// ClassWithId ObjectId=5 reuses ObjectId=1's schema, supplying fresh
	// member values in the same shape.
	buf.WriteByte(0x01) // ClassWithId
	buf.Write(le32Bytes(5))
	buf.Write(le32Bytes(1)) // MetadataId
	buf.Write(binaryObjectString(6, "Bo"))
	buf.WriteByte(0x0A) // ObjectNull
	buf.WriteByte(0x0B)

	dec := NewBytes(buf.Bytes(), Options{})
	if _, err := dec.Parse(); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	dec.rootID = 5
	got, err := dec.Crunch()
	if err != nil {
		t.Fatalf("Crunch: %v", err)
	}
	name, ok := got.Get("Name")
	if !ok {
		t.Fatalf("Crunch() via MetadataId lost the Name member")
	}
	if s, _ := name.StringValue(); s != "Bo" {
		t.Errorf("Name = %q, want %q", s, "Bo")
	}
}

func TestCrunchMissingRootFails(t *testing.T) {
	// No SerializedStreamHeader to fall back on: only MessageEnd.
	dec := NewBytes([]byte{0x0B}, Options{})
	if _, err := dec.Parse(); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	dec.rootID = 404
	if _, err := dec.Crunch(); err == nil {
		t.Fatal("Crunch() with an unresolvable RootId returned no error")
	}
}

func TestCrunchBeforeParseFails(t *testing.T) {
	dec := NewBytes(nil, Options{})
	if _, err := dec.Crunch(); err != ErrNotParsed {
		t.Fatalf("Crunch() before Parse() = %v, want ErrNotParsed", err)
	}
}
