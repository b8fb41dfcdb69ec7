// Copyright 2026 The NRBF Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nrbf

import "fmt"

// PrimitiveType is the format's PrimitiveTypeEnumeration, modeled as a
// named integer type with a String method rather than a map of opaque
// codes.
type PrimitiveType uint8

// Recognised PrimitiveTypeEnumeration wire codes. Code 4 is reserved and
// unused by the format.
const (
	PrimitiveBoolean  PrimitiveType = 1
	PrimitiveByte     PrimitiveType = 2
	PrimitiveChar     PrimitiveType = 3
	PrimitiveDecimal  PrimitiveType = 5
	PrimitiveDouble   PrimitiveType = 6
	PrimitiveInt16    PrimitiveType = 7
	PrimitiveInt32    PrimitiveType = 8
	PrimitiveInt64    PrimitiveType = 9
	PrimitiveSByte    PrimitiveType = 10
	PrimitiveSingle   PrimitiveType = 11
	PrimitiveTimeSpan PrimitiveType = 12
	PrimitiveDateTime PrimitiveType = 13
	PrimitiveUInt16   PrimitiveType = 14
	PrimitiveUInt32   PrimitiveType = 15
	PrimitiveUInt64   PrimitiveType = 16
	PrimitiveNull     PrimitiveType = 17
	PrimitiveString   PrimitiveType = 18
)

var primitiveTypeNames = map[PrimitiveType]string{
	PrimitiveBoolean:  "Boolean",
	PrimitiveByte:     "Byte",
	PrimitiveChar:     "Char",
	PrimitiveDecimal:  "Decimal",
	PrimitiveDouble:   "Double",
	PrimitiveInt16:    "Int16",
	PrimitiveInt32:    "Int32",
	PrimitiveInt64:    "Int64",
	PrimitiveSByte:    "SByte",
	PrimitiveSingle:   "Single",
	PrimitiveTimeSpan: "TimeSpan",
	PrimitiveDateTime: "DateTime",
	PrimitiveUInt16:   "UInt16",
	PrimitiveUInt32:   "UInt32",
	PrimitiveUInt64:   "UInt64",
	PrimitiveNull:     "Null",
	PrimitiveString:   "String",
}

// String returns the enumerator's name, or "?" for an unrecognised code.
func (t PrimitiveType) String() string {
	if name, ok := primitiveTypeNames[t]; ok {
		return name
	}
	return "?"
}

func parsePrimitiveType(raw uint8) (PrimitiveType, error) {
	t := PrimitiveType(raw)
	if _, ok := primitiveTypeNames[t]; !ok {
		return 0, fmt.Errorf("%w: PrimitiveTypeEnumeration %d", ErrUnknownEnumValue, raw)
	}
	return t, nil
}

// parse decodes one value of this primitive type from s.
func (t PrimitiveType) parse(s *stream) (Node, error) {
	switch t {
	case PrimitiveBoolean:
		v, err := s.Boolean()
		return NewBool(v), err
	case PrimitiveByte:
		v, err := s.U8()
		return NewUint(uint64(v)), err
	case PrimitiveChar:
		return Node{}, s.Char()
	case PrimitiveDecimal:
		v, err := s.Decimal()
		return NewString(v), err
	case PrimitiveDouble:
		v, err := s.Double()
		return NewFloat(v), err
	case PrimitiveInt16:
		v, err := s.U16()
		return NewInt(int64(int16(v))), err
	case PrimitiveInt32:
		v, err := s.I32()
		return NewInt(int64(v)), err
	case PrimitiveInt64:
		v, err := s.I64()
		return NewInt(v), err
	case PrimitiveSByte:
		v, err := s.U8()
		return NewInt(int64(int8(v))), err
	case PrimitiveSingle:
		v, err := s.Single()
		return NewFloat(float64(v)), err
	case PrimitiveTimeSpan:
		v, err := s.TimeSpan()
		return NewInt(v), err
	case PrimitiveDateTime:
		ticks, kind, err := s.DateTime()
		if err != nil {
			return Node{}, err
		}
		return NewMap(
			NodeField{Key: "Kind", Value: NewString(kind)},
			NodeField{Key: "ticks", Value: NewInt(ticks)},
		), nil
	case PrimitiveUInt16:
		v, err := s.U16()
		return NewUint(uint64(v)), err
	case PrimitiveUInt32:
		v, err := s.U32()
		return NewUint(uint64(v)), err
	case PrimitiveUInt64:
		v, err := s.U64()
		return NewUint(v), err
	case PrimitiveNull:
		return Null, nil
	case PrimitiveString:
		v, err := s.String()
		return NewString(v), err
	default:
		return Node{}, fmt.Errorf("%w: PrimitiveTypeEnumeration(%d).parse", ErrUnknownEnumValue, t)
	}
}

// BinaryType is the format's BinaryTypeEnumeration.
type BinaryType uint8

const (
	BinaryPrimitive      BinaryType = 0
	BinaryString         BinaryType = 1
	BinaryObject         BinaryType = 2
	BinarySystemClass    BinaryType = 3
	BinaryClass          BinaryType = 4
	BinaryObjectArray    BinaryType = 5
	BinaryStringArray    BinaryType = 6
	BinaryPrimitiveArray BinaryType = 7
)

var binaryTypeNames = map[BinaryType]string{
	BinaryPrimitive:      "Primitive",
	BinaryString:         "String",
	BinaryObject:         "Object",
	BinarySystemClass:    "SystemClass",
	BinaryClass:          "Class",
	BinaryObjectArray:    "ObjectArray",
	BinaryStringArray:    "StringArray",
	BinaryPrimitiveArray: "PrimitiveArray",
}

func (t BinaryType) String() string {
	if name, ok := binaryTypeNames[t]; ok {
		return name
	}
	return "?"
}

func parseBinaryType(raw uint8) (BinaryType, error) {
	t := BinaryType(raw)
	if _, ok := binaryTypeNames[t]; !ok {
		return 0, fmt.Errorf("%w: BinaryTypeEnumeration %d", ErrUnknownEnumValue, raw)
	}
	return t, nil
}

// additionalInfo is the per-variant AdditionalInfo payload that
// accompanies a BinaryType tag in a MemberTypeInfo or BinaryArray
// element type.
type additionalInfo struct {
	// primitive is set when the variant is Primitive or PrimitiveArray.
	primitive PrimitiveType
	// systemClassName is set when the variant is SystemClass.
	systemClassName string
	// classTypeName/classLibraryID are set when the variant is Class.
	classTypeName  string
	classLibraryID int32
}

// parseAdditionalInfo reads the AdditionalInfo payload for t.
func (t BinaryType) parseAdditionalInfo(s *stream) (additionalInfo, error) {
	switch t {
	case BinaryPrimitive, BinaryPrimitiveArray:
		raw, err := s.U8()
		if err != nil {
			return additionalInfo{}, err
		}
		pt, err := parsePrimitiveType(raw)
		if err != nil {
			return additionalInfo{}, err
		}
		return additionalInfo{primitive: pt}, nil
	case BinaryString, BinaryObject, BinaryObjectArray, BinaryStringArray:
		return additionalInfo{}, nil
	case BinarySystemClass:
		name, err := s.String()
		if err != nil {
			return additionalInfo{}, err
		}
		return additionalInfo{systemClassName: name}, nil
	case BinaryClass:
		name, libID, err := s.ClassTypeInfo()
		if err != nil {
			return additionalInfo{}, err
		}
		return additionalInfo{classTypeName: name, classLibraryID: libID}, nil
	default:
		return additionalInfo{}, fmt.Errorf("%w: BinaryTypeEnumeration(%d).parseAdditionalInfo", ErrUnknownEnumValue, t)
	}
}

// asNode renders the AdditionalInfo the way it is carried in a
// MemberTypeInfo.AdditionalInfos entry.
func (ai additionalInfo) asNode(variant BinaryType) Node {
	switch variant {
	case BinaryPrimitive, BinaryPrimitiveArray:
		return NewString(ai.primitive.String())
	case BinarySystemClass:
		return NewString(ai.systemClassName)
	case BinaryClass:
		return NewMap(
			NodeField{Key: "TypeName", Value: NewString(ai.classTypeName)},
			NodeField{Key: "LibraryId", Value: NewInt(int64(ai.classLibraryID))},
		)
	default:
		return Null
	}
}

// BinaryArrayType is the format's BinaryArrayTypeEnumeration.
type BinaryArrayType uint8

const (
	ArraySingle            BinaryArrayType = 0
	ArrayJagged            BinaryArrayType = 1
	ArrayRectangular       BinaryArrayType = 2
	ArraySingleOffset      BinaryArrayType = 3
	ArrayJaggedOffset      BinaryArrayType = 4
	ArrayRectangularOffset BinaryArrayType = 5
)

var binaryArrayTypeNames = map[BinaryArrayType]string{
	ArraySingle:            "Single",
	ArrayJagged:            "Jagged",
	ArrayRectangular:       "Rectangular",
	ArraySingleOffset:      "SingleOffset",
	ArrayJaggedOffset:      "JaggedOffset",
	ArrayRectangularOffset: "RectangularOffset",
}

func (t BinaryArrayType) String() string {
	if name, ok := binaryArrayTypeNames[t]; ok {
		return name
	}
	return "?"
}

// HasBounds reports whether this array shape carries per-rank lower
// bounds, i.e. its name contains "Offset".
func (t BinaryArrayType) HasBounds() bool {
	switch t {
	case ArraySingleOffset, ArrayJaggedOffset, ArrayRectangularOffset:
		return true
	default:
		return false
	}
}

func parseBinaryArrayType(raw uint8) (BinaryArrayType, error) {
	t := BinaryArrayType(raw)
	if _, ok := binaryArrayTypeNames[t]; !ok {
		return 0, fmt.Errorf("%w: BinaryArrayTypeEnumeration %d", ErrUnknownEnumValue, raw)
	}
	return t, nil
}

// RecordType is the format's RecordTypeEnumeration.
type RecordType uint8

const (
	RecordSerializedStreamHeader         RecordType = 0
	RecordClassWithId                    RecordType = 1
	RecordSystemClassWithMembers         RecordType = 2
	RecordClassWithMembers                RecordType = 3
	RecordSystemClassWithMembersAndTypes RecordType = 4
	RecordClassWithMembersAndTypes       RecordType = 5
	RecordBinaryObjectString             RecordType = 6
	RecordBinaryArray                    RecordType = 7
	RecordMemberPrimitiveTyped           RecordType = 8
	RecordMemberReference                RecordType = 9
	RecordObjectNull                     RecordType = 10
	RecordMessageEnd                     RecordType = 11
	RecordBinaryLibrary                  RecordType = 12
	RecordObjectNullMultiple256          RecordType = 13
	RecordObjectNullMultiple             RecordType = 14
	RecordArraySinglePrimitive           RecordType = 15
	RecordArraySingleObject              RecordType = 16
	RecordArraySingleString              RecordType = 17
	RecordArrayOfType                    RecordType = 20
	RecordMethodCall                     RecordType = 21
	RecordMethodReturn                   RecordType = 22
)

var recordTypeNames = map[RecordType]string{
	RecordSerializedStreamHeader:         "SerializedStreamHeader",
	RecordClassWithId:                    "ClassWithId",
	RecordSystemClassWithMembers:         "SystemClassWithMembers",
	RecordClassWithMembers:                "ClassWithMembers",
	RecordSystemClassWithMembersAndTypes: "SystemClassWithMembersAndTypes",
	RecordClassWithMembersAndTypes:       "ClassWithMembersAndTypes",
	RecordBinaryObjectString:             "BinaryObjectString",
	RecordBinaryArray:                    "BinaryArray",
	RecordMemberPrimitiveTyped:           "MemberPrimitiveTyped",
	RecordMemberReference:                "MemberReference",
	RecordObjectNull:                     "ObjectNull",
	RecordMessageEnd:                     "MessageEnd",
	RecordBinaryLibrary:                  "BinaryLibrary",
	RecordObjectNullMultiple256:          "ObjectNullMultiple256",
	RecordObjectNullMultiple:             "ObjectNullMultiple",
	RecordArraySinglePrimitive:           "ArraySinglePrimitive",
	RecordArraySingleObject:              "ArraySingleObject",
	RecordArraySingleString:              "ArraySingleString",
	RecordArrayOfType:                    "ArrayOfType",
	RecordMethodCall:                     "MethodCall",
	RecordMethodReturn:                   "MethodReturn",
}

// implementedRecordTypes are the codes this core actually dispatches;
// the rest are recognised names but yield ErrUnsupportedRecord.
var implementedRecordTypes = map[RecordType]bool{
	RecordSerializedStreamHeader:         true,
	RecordClassWithId:                    true,
	RecordSystemClassWithMembers:         true,
	RecordClassWithMembers:                true,
	RecordSystemClassWithMembersAndTypes: true,
	RecordClassWithMembersAndTypes:       true,
	RecordBinaryObjectString:             true,
	RecordBinaryArray:                    true,
	RecordMemberReference:                true,
	RecordObjectNull:                     true,
	RecordMessageEnd:                     true,
	RecordBinaryLibrary:                  true,
	RecordObjectNullMultiple256:          true,
	RecordObjectNullMultiple:             true,
}

func (t RecordType) String() string {
	if name, ok := recordTypeNames[t]; ok {
		return name
	}
	return "?"
}

func parseRecordType(raw uint8) (RecordType, error) {
	t := RecordType(raw)
	if _, ok := recordTypeNames[t]; !ok {
		return 0, fmt.Errorf("%w: RecordTypeEnumeration %d", ErrUnknownEnumValue, raw)
	}
	return t, nil
}
