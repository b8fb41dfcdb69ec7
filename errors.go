// Copyright 2026 The NRBF Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nrbf

import "errors"

// Sentinel errors, one per distinct failure kind. Contextual detail
// (offset, record kind, field name) is attached by wrapping these with
// fmt.Errorf("...: %w", Err...) at the call site.
var (
	// ErrUnexpectedEndOfStream is returned when the byte source is
	// exhausted mid-record.
	ErrUnexpectedEndOfStream = errors.New("nrbf: unexpected end of stream")

	// ErrUnknownEnumValue is returned when a RecordType, BinaryType,
	// PrimitiveType, or BinaryArrayType octet is not in the recognised set.
	ErrUnknownEnumValue = errors.New("nrbf: unknown enumeration value")

	// ErrUnsupportedRecord is returned for a recognised record code that
	// falls outside this core's implemented subset.
	ErrUnsupportedRecord = errors.New("nrbf: unsupported record type")

	// ErrUnsupportedConstruct is returned for constructs the source
	// format defines but this core does not decode: the Char primitive,
	// an Object-typed class member value, and ObjectArray/StringArray/
	// PrimitiveArray member and array-cell values.
	ErrUnsupportedConstruct = errors.New("nrbf: unsupported construct")

	// ErrUnsupportedArrayShape is returned for a BinaryArray whose
	// BinaryArrayTypeEnumeration is anything other than Single.
	ErrUnsupportedArrayShape = errors.New("nrbf: unsupported array shape")

	// ErrMalformedString is returned when string payload bytes are not
	// valid UTF-8.
	ErrMalformedString = errors.New("nrbf: malformed string")

	// ErrMalformedDecimal is returned when a Decimal payload does not
	// match ^-?\d+(\.\d+)?$.
	ErrMalformedDecimal = errors.New("nrbf: malformed decimal")

	// ErrStringLengthOverflow is returned when a length-prefixed string's
	// LEB128-style length exceeds five continuation bytes.
	ErrStringLengthOverflow = errors.New("nrbf: string length prefix overflow")

	// ErrMissingMetadata is returned when a ClassWithId's MetadataId is
	// not present in the object table.
	ErrMissingMetadata = errors.New("nrbf: missing metadata for ClassWithId")

	// ErrDuplicateObjectId is returned when the same ObjectId is
	// registered twice in a single decode run.
	ErrDuplicateObjectId = errors.New("nrbf: duplicate object id")

	// ErrArrayOverrun is returned when a null-run entry's NullCount would
	// exceed the array's declared total cell count.
	ErrArrayOverrun = errors.New("nrbf: array null run overruns declared length")

	// ErrRecursionLimit is returned when nested-record decoding exceeds
	// the implementation's depth cap.
	ErrRecursionLimit = errors.New("nrbf: recursion limit exceeded")

	// ErrNotParsed is returned by Backfill/Crunch when called before Parse.
	ErrNotParsed = errors.New("nrbf: Parse must be called before Backfill or Crunch")
)
