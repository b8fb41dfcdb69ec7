// Copyright 2026 The NRBF Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nrbf

import (
	"bytes"
	"errors"
	"testing"
)

// le32Bytes renders v as a four-byte little-endian slice, matching how
// every Int32 field in the format is laid out on the wire.
func le32Bytes(v int32) []byte {
	u := uint32(v)
	return []byte{byte(u), byte(u >> 8), byte(u >> 16), byte(u >> 24)}
}

func lengthPrefixedString(s string) []byte {
	return append([]byte{byte(len(s))}, s...)
}

// minimalHeaderAndEnd builds a SerializedStreamHeader (RootId=1,
// HeaderId=-1, Major=1, Minor=0) immediately followed by MessageEnd.
func minimalHeaderAndEnd() []byte {
	var buf bytes.Buffer
	buf.WriteByte(0x00) // SerializedStreamHeader
	buf.Write(le32Bytes(1))
	buf.Write(le32Bytes(-1))
	buf.Write(le32Bytes(1))
	buf.Write(le32Bytes(0))
	buf.WriteByte(0x0B) // MessageEnd
	return buf.Bytes()
}

func TestParseMinimalStream(t *testing.T) {
	dec := NewBytes(minimalHeaderAndEnd(), Options{})
	records, err := dec.Parse()
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Parse() returned %d records, want 2", len(records))
	}

	first := records[0]
	if rte, ok := first.Get("RecordTypeEnum"); !ok || rte.String() != "SerializedStreamHeader" {
		t.Errorf("first record RecordTypeEnum = %v, want SerializedStreamHeader", rte)
	}
	for _, field := range []string{"RootId", "HeaderId", "MajorVersion", "MinorVersion"} {
		v, ok := first.Get(field)
		if !ok {
			t.Fatalf("header missing field %s", field)
		}
		if _, ok := v.Int(); !ok {
			t.Errorf("header field %s is not an Int node", field)
		}
	}

	last := records[len(records)-1]
	if rte, ok := last.Get("RecordTypeEnum"); !ok || rte.String() != "MessageEnd" {
		t.Errorf("last record RecordTypeEnum = %v, want MessageEnd", rte)
	}
}

func TestCrunchOnHeaderOnlyStreamReturnsUnchanged(t *testing.T) {
	dec := NewBytes(minimalHeaderAndEnd(), Options{})
	if _, err := dec.Parse(); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	got, err := dec.Crunch()
	if err != nil {
		t.Fatalf("Crunch: %v", err)
	}
	// RootId=1 has no matching registered object, so crunch falls
	// through to the generic-mapping rule and returns the header's own
	// fields (minus any that crunch to null; none do here).
	if v, ok := got.Get("RootId"); !ok || mustInt(t, v) != 1 {
		t.Errorf("Crunch() on header-only stream lost RootId")
	}
}

func binaryObjectString(objectID int32, value string) []byte {
	var buf bytes.Buffer
	buf.WriteByte(0x06) // BinaryObjectString
	buf.Write(le32Bytes(objectID))
	buf.Write(lengthPrefixedString(value))
	return buf.Bytes()
}

func TestBinaryObjectStringRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(minimalHeaderAndEnd()[:17]) // header bytes, without the trailing MessageEnd
	buf.Write(binaryObjectString(2, "hello"))
	buf.WriteByte(0x0B)

	dec := NewBytes(buf.Bytes(), Options{})
	if _, err := dec.Parse(); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, ok := dec.objects[2]; !ok {
		t.Fatalf("ObjectTable[2] missing")
	}
	values, ok := dec.values[2]
	if !ok {
		t.Fatalf("ValueTable[2] missing")
	}
	if got, _ := values.StringValue(); got != "hello" {
		t.Errorf("ValueTable[2] = %q, want %q", got, "hello")
	}

	dec.rootID = 2
	crunched, err := dec.Crunch()
	if err != nil {
		t.Fatalf("Crunch: %v", err)
	}
	if got, ok := crunched.StringValue(); !ok || got != "hello" {
		t.Errorf("Crunch() with RootId=2 = %v, want %q", crunched, "hello")
	}
}

func TestClassWithIdMissingMetadataStrict(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteByte(0x01) // ClassWithId
	buf.Write(le32Bytes(10))
	buf.Write(le32Bytes(999)) // never registered

	dec := NewBytes(buf.Bytes(), Options{})
	if _, err := dec.Parse(); !errors.Is(err, ErrMissingMetadata) {
		t.Fatalf("Parse() error = %v, want ErrMissingMetadata", err)
	}
}

func TestClassWithIdMissingMetadataBestEffort(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(minimalHeaderAndEnd()[:17])
	buf.WriteByte(0x01) // ClassWithId
	buf.Write(le32Bytes(10))
	buf.Write(le32Bytes(999))

	dec := NewBytes(buf.Bytes(), Options{BestEffort: true})
	records, err := dec.Parse()
	if err != nil {
		t.Fatalf("Parse() in best-effort mode returned an error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("Parse() returned %d records, want 1 (header only)", len(records))
	}
}

func TestDuplicateObjectIdRejected(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(binaryObjectString(3, "first"))
	buf.Write(binaryObjectString(3, "second")) // reuses ObjectId 3
	buf.WriteByte(0x0B)

	dec := NewBytes(buf.Bytes(), Options{})
	if _, err := dec.Parse(); !errors.Is(err, ErrDuplicateObjectId) {
		t.Fatalf("Parse() error = %v, want ErrDuplicateObjectId", err)
	}
}

// classWithObjectMember builds a ClassWithMembersAndTypes record with one
// member declared BinaryType=Object: a construct spec.md §4.4's
// member-value table requires to fail, even though the same BinaryType
// tag is legal on an array cell (see TestBinaryArrayNullRunAccounting).
func classWithObjectMember() []byte {
	var buf bytes.Buffer
	buf.WriteByte(0x05) // ClassWithMembersAndTypes
	buf.Write(le32Bytes(1))
	buf.Write(lengthPrefixedString("C"))
	buf.Write(le32Bytes(1))
	buf.Write(lengthPrefixedString("M"))
	buf.WriteByte(0x02)     // BinaryType: Object (no AdditionalInfo)
	buf.Write(le32Bytes(0)) // LibraryId
	return buf.Bytes()
}

func TestClassMemberObjectTypeUnsupported(t *testing.T) {
	dec := NewBytes(classWithObjectMember(), Options{})
	if _, err := dec.Parse(); !errors.Is(err, ErrUnsupportedConstruct) {
		t.Fatalf("Parse() error = %v, want ErrUnsupportedConstruct", err)
	}
}
