// Copyright 2026 The NRBF Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nrbf

import (
	"bytes"
	"strconv"
	"testing"
)

func TestRecordTypeString(t *testing.T) {
	tests := []struct {
		in  RecordType
		out string
	}{
		{RecordSerializedStreamHeader, "SerializedStreamHeader"},
		{RecordMessageEnd, "MessageEnd"},
		{RecordType(99), "?"},
	}
	for _, tt := range tests {
		name := "CaseRecordTypeEqualTo_" + strconv.Itoa(int(tt.in))
		t.Run(name, func(t *testing.T) {
			if got := tt.in.String(); got != tt.out {
				t.Errorf("String() = %q, want %q", got, tt.out)
			}
		})
	}
}

func TestImplementedRecordTypesExcludesUnhandled(t *testing.T) {
	unhandled := []RecordType{
		RecordMemberPrimitiveTyped,
		RecordArraySinglePrimitive,
		RecordArraySingleObject,
		RecordArraySingleString,
		RecordArrayOfType,
		RecordMethodCall,
		RecordMethodReturn,
	}
	for _, rt := range unhandled {
		if implementedRecordTypes[rt] {
			t.Errorf("%s is marked implemented, want unimplemented", rt)
		}
	}
}

func TestPrimitiveTypeParseDispatch(t *testing.T) {
	tests := []struct {
		name string
		in   PrimitiveType
		buf  []byte
		kind Kind
	}{
		{"Boolean", PrimitiveBoolean, []byte{0x01}, KindBool},
		{"Int32", PrimitiveInt32, []byte{0x2A, 0x00, 0x00, 0x00}, KindInt},
		{"Null", PrimitiveNull, nil, KindNull},
		{"String", PrimitiveString, append([]byte{0x01}, 'x'), KindString},
	}
	for _, tt := range tests {
		t.Run("CasePrimitiveTypeParse"+tt.name, func(t *testing.T) {
			s := newStream(bytes.NewReader(tt.buf))
			n, err := tt.in.parse(s)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if n.Kind() != tt.kind {
				t.Errorf("parse() kind = %v, want %v", n.Kind(), tt.kind)
			}
		})
	}
}

func TestPrimitiveTypeParseChar(t *testing.T) {
	s := newStream(bytes.NewReader(nil))
	if _, err := PrimitiveChar.parse(s); err == nil {
		t.Fatal("expected ErrUnsupportedConstruct for Char, got nil")
	}
}

func TestBinaryArrayTypeHasBounds(t *testing.T) {
	tests := []struct {
		in   BinaryArrayType
		want bool
	}{
		{ArraySingle, false},
		{ArrayJagged, false},
		{ArrayRectangular, false},
		{ArraySingleOffset, true},
		{ArrayJaggedOffset, true},
		{ArrayRectangularOffset, true},
	}
	for _, tt := range tests {
		name := "CaseBinaryArrayTypeHasBounds_" + strconv.Itoa(int(tt.in))
		t.Run(name, func(t *testing.T) {
			if got := tt.in.HasBounds(); got != tt.want {
				t.Errorf("HasBounds() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseRecordTypeUnknownCode(t *testing.T) {
	if _, err := parseRecordType(18); err == nil {
		t.Fatal("expected ErrUnknownEnumValue for reserved code 18, got nil")
	}
}
