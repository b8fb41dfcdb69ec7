// Copyright 2026 The NRBF Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nrbf

import (
	"fmt"
	"io"
	"math"
	"regexp"
	"unicode/utf8"
)

// maxStringLengthContinuationBytes bounds the LEB128-style length
// prefix on the format's length-prefixed string primitive: a
// conformant length prefix never needs more than five continuation
// bytes to express a practical string length.
const maxStringLengthContinuationBytes = 5

var decimalPattern = regexp.MustCompile(`^-?\d+(\.\d+)?$`)

// stream is a sequential reader over the input octet stream, exposing
// primitive little-endian decoders.
type stream struct {
	r      io.Reader
	offset int64
}

func newStream(r io.Reader) *stream {
	return &stream{r: r}
}

// read returns exactly n octets or fails with ErrUnexpectedEndOfStream.
func (s *stream) read(n int) ([]byte, error) {
	if n == 0 {
		return nil, nil
	}
	buf := make([]byte, n)
	read, err := io.ReadFull(s.r, buf)
	s.offset += int64(read)
	if err != nil {
		return nil, fmt.Errorf("%w: at offset %d wanting %d bytes: %v",
			ErrUnexpectedEndOfStream, s.offset-int64(read), n, err)
	}
	return buf, nil
}

// Boolean reads the format's Boolean primitive.
func (s *stream) Boolean() (bool, error) {
	b, err := s.read(1)
	if err != nil {
		return false, err
	}
	return b[0] != 0, nil
}

// U8 reads an unsigned 8-bit integer.
func (s *stream) U8() (uint8, error) {
	b, err := s.read(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// I32 reads a signed little-endian 32-bit integer. The format's Int32
// primitive, and every record field typed as an Int32, is signed.
func (s *stream) I32() (int32, error) {
	b, err := s.read(4)
	if err != nil {
		return 0, err
	}
	return int32(le32(b)), nil
}

// I64 reads a signed little-endian 64-bit integer.
func (s *stream) I64() (int64, error) {
	b, err := s.read(8)
	if err != nil {
		return 0, err
	}
	return int64(le64(b)), nil
}

// U16 reads an unsigned little-endian 16-bit integer.
func (s *stream) U16() (uint16, error) {
	b, err := s.read(2)
	if err != nil {
		return 0, err
	}
	return uint16(b[0]) | uint16(b[1])<<8, nil
}

// U32 reads an unsigned little-endian 32-bit integer.
func (s *stream) U32() (uint32, error) {
	b, err := s.read(4)
	if err != nil {
		return 0, err
	}
	return le32(b), nil
}

// U64 reads an unsigned little-endian 64-bit integer.
func (s *stream) U64() (uint64, error) {
	b, err := s.read(8)
	if err != nil {
		return 0, err
	}
	return le64(b), nil
}

// Single reads the format's Single (IEEE-754 32-bit float) primitive.
func (s *stream) Single() (float32, error) {
	b, err := s.read(4)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(le32(b)), nil
}

// Double reads the format's Double (IEEE-754 64-bit float) primitive.
func (s *stream) Double() (float64, error) {
	b, err := s.read(8)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(le64(b)), nil
}

// TimeSpan reads the format's TimeSpan primitive: 64 bits signed,
// exposed verbatim as ticks.
func (s *stream) TimeSpan() (int64, error) {
	return s.I64()
}

// DateTime reads the format's DateTime primitive: 64 bits signed, the
// low two bits encode a kind tag, the remaining bits (with the tag bits
// cleared, not shifted) are the tick count.
func (s *stream) DateTime() (ticks int64, kind string, err error) {
	raw, err := s.I64()
	if err != nil {
		return 0, "", err
	}
	switch raw & 0x03 {
	case 0x01:
		kind = "UTC"
	case 0x02:
		kind = "Local"
	default:
		kind = "Unspecified"
	}
	ticks = raw &^ 0x03
	return ticks, kind, nil
}

// String reads the format's length-prefixed string primitive: a
// LEB128-style variable-width unsigned length (7 bits per byte, high
// bit = more-follows) followed by that many UTF-8 bytes.
func (s *stream) String() (string, error) {
	var length uint32
	var shift uint
	for i := 0; ; i++ {
		if i >= maxStringLengthContinuationBytes {
			return "", ErrStringLengthOverflow
		}
		b, err := s.U8()
		if err != nil {
			return "", err
		}
		length += uint32(b&0x7f) << shift
		shift += 7
		if b&0x80 == 0 {
			break
		}
	}
	raw, err := s.read(int(length))
	if err != nil {
		return "", err
	}
	if !utf8.Valid(raw) {
		return "", fmt.Errorf("%w: %d bytes at offset %d", ErrMalformedString, length, s.offset-int64(length))
	}
	return string(raw), nil
}

// Decimal reads a length-prefixed string and validates it against
// ^-?\d+(\.\d+)?$; the numeric value is the textual form itself.
func (s *stream) Decimal() (string, error) {
	v, err := s.String()
	if err != nil {
		return "", err
	}
	if !decimalPattern.MatchString(v) {
		return "", fmt.Errorf("%w: %q", ErrMalformedDecimal, v)
	}
	return v, nil
}

// Char is present in the format but explicitly not decoded by this core.
func (s *stream) Char() error {
	return fmt.Errorf("%w: Char primitive", ErrUnsupportedConstruct)
}

// ClassTypeInfo reads the (TypeName, LibraryId) pair carried by the
// BinaryClass additional-info payload.
func (s *stream) ClassTypeInfo() (typeName string, libraryID int32, err error) {
	typeName, err = s.String()
	if err != nil {
		return "", 0, err
	}
	libraryID, err = s.I32()
	if err != nil {
		return "", 0, err
	}
	return typeName, libraryID, nil
}

func le32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

func le64(b []byte) uint64 {
	var v uint64
	for i := 7; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}
	return v
}
