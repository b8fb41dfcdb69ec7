// Copyright 2026 The NRBF Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nrbf

import (
	"encoding/json"
	"fmt"
)

// Kind discriminates the shape held by a Node.
type Kind int

const (
	// KindNull represents the absence of a value: the format's Null
	// primitive, an ObjectNull record, or a null-run array entry.
	KindNull Kind = iota
	// KindBool holds a decoded boolean primitive.
	KindBool
	// KindInt holds any decoded signed integer primitive (SByte, Int16,
	// Int32, Int64).
	KindInt
	// KindUint holds any decoded unsigned integer primitive (Byte,
	// UInt16, UInt32, UInt64).
	KindUint
	// KindFloat holds a decoded Single or Double primitive.
	KindFloat
	// KindString holds a decoded length-prefixed string, a Decimal's
	// textual form, or a record's Name/Value/TypeName field.
	KindString
	// KindSeq holds an ordered sequence of Node (array Values, member
	// Values, MemberNames, record lists).
	KindSeq
	// KindMap holds an insertion-ordered mapping from string to Node:
	// every decoded record is represented this way.
	KindMap
)

// NodeField is one key/value pair of a KindMap Node, in insertion order.
type NodeField struct {
	Key   string
	Value Node
}

// Node is the single polymorphic value type the core manipulates: every
// decoded record, primitive, and post-decode transform result is a Node.
type Node struct {
	kind   Kind
	b      bool
	i      int64
	u      uint64
	f      float64
	s      string
	seq    []Node
	fields []NodeField
}

// Null is the in-memory null marker used throughout the tree.
var Null = Node{kind: KindNull}

// NewBool wraps a boolean primitive.
func NewBool(v bool) Node { return Node{kind: KindBool, b: v} }

// NewInt wraps a signed integer primitive.
func NewInt(v int64) Node { return Node{kind: KindInt, i: v} }

// NewUint wraps an unsigned integer primitive.
func NewUint(v uint64) Node { return Node{kind: KindUint, u: v} }

// NewFloat wraps a floating point primitive.
func NewFloat(v float64) Node { return Node{kind: KindFloat, f: v} }

// NewString wraps a string value.
func NewString(v string) Node { return Node{kind: KindString, s: v} }

// NewSeq wraps an ordered sequence of Node.
func NewSeq(items []Node) Node { return Node{kind: KindSeq, seq: items} }

// NewMap builds an insertion-ordered mapping Node from the given fields.
// Duplicate keys are not deduplicated: a well-formed record never
// produces one.
func NewMap(fields ...NodeField) Node { return Node{kind: KindMap, fields: fields} }

// Kind reports the Node's shape.
func (n Node) Kind() Kind { return n.kind }

// IsNull reports whether n is the null marker.
func (n Node) IsNull() bool { return n.kind == KindNull }

// Bool returns the boolean payload; ok is false if n is not KindBool.
func (n Node) Bool() (v bool, ok bool) { return n.b, n.kind == KindBool }

// Int returns the signed integer payload; ok is false if n is not KindInt.
func (n Node) Int() (v int64, ok bool) { return n.i, n.kind == KindInt }

// Uint returns the unsigned integer payload; ok is false if n is not KindUint.
func (n Node) Uint() (v uint64, ok bool) { return n.u, n.kind == KindUint }

// Float returns the floating point payload; ok is false if n is not KindFloat.
func (n Node) Float() (v float64, ok bool) { return n.f, n.kind == KindFloat }

// String returns the string payload if n is KindString, otherwise "".
// This intentionally implements fmt.Stringer for debug printing; use
// StringValue to distinguish "not a string" from an empty string.
func (n Node) String() string {
	if n.kind == KindString {
		return n.s
	}
	return fmt.Sprintf("Node(%v)", n.kind)
}

// StringValue returns the string payload; ok is false if n is not KindString.
func (n Node) StringValue() (v string, ok bool) { return n.s, n.kind == KindString }

// Seq returns the sequence payload; ok is false if n is not KindSeq.
func (n Node) Seq() (v []Node, ok bool) { return n.seq, n.kind == KindSeq }

// Fields returns the mapping payload in insertion order; ok is false if
// n is not KindMap.
func (n Node) Fields() (v []NodeField, ok bool) { return n.fields, n.kind == KindMap }

// Get looks up a key in a KindMap Node. ok is false if n is not a map or
// the key is absent.
func (n Node) Get(key string) (v Node, ok bool) {
	if n.kind != KindMap {
		return Node{}, false
	}
	for _, f := range n.fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return Node{}, false
}

// Has reports whether a KindMap Node carries the given key.
func (n Node) Has(key string) bool {
	_, ok := n.Get(key)
	return ok
}

// WithField returns a copy of n with key set to value, appended if
// absent or replaced in place if present (order of existing keys is
// preserved). n must be KindMap or the zero Node.
func (n Node) WithField(key string, value Node) Node {
	if n.kind != KindMap && len(n.fields) == 0 {
		n.kind = KindMap
	}
	fields := make([]NodeField, len(n.fields))
	copy(fields, n.fields)
	for i := range fields {
		if fields[i].Key == key {
			fields[i].Value = value
			n.fields = fields
			return n
		}
	}
	fields = append(fields, NodeField{Key: key, Value: value})
	n.fields = fields
	return n
}

// merge overlays src's fields onto a copy of n (src wins on key
// collision), used by backfill to splice a target record's fields into
// a referring record while preserving fields the referrer already had
// that src does not carry.
func (n Node) merge(src Node) Node {
	if src.kind != KindMap {
		return n
	}
	out := n
	out.kind = KindMap
	fields := make([]NodeField, len(n.fields))
	copy(fields, n.fields)
	for _, sf := range src.fields {
		replaced := false
		for i := range fields {
			if fields[i].Key == sf.Key {
				fields[i].Value = sf.Value
				replaced = true
				break
			}
		}
		if !replaced {
			fields = append(fields, sf)
		}
	}
	out.fields = fields
	return out
}

// MarshalJSON renders the Node tree as JSON, used only by
// internal/render, Decoder.CrunchCompressed and Decoder.StreamDigest; the core itself
// never serializes; textual rendering is a separate concern, not the
// decoder's job.
func (n Node) MarshalJSON() ([]byte, error) {
	switch n.kind {
	case KindNull:
		return []byte("null"), nil
	case KindBool:
		return json.Marshal(n.b)
	case KindInt:
		return json.Marshal(n.i)
	case KindUint:
		return json.Marshal(n.u)
	case KindFloat:
		return json.Marshal(n.f)
	case KindString:
		return json.Marshal(n.s)
	case KindSeq:
		return json.Marshal(n.seq)
	case KindMap:
		buf := []byte{'{'}
		for i, f := range n.fields {
			if i > 0 {
				buf = append(buf, ',')
			}
			key, err := json.Marshal(f.Key)
			if err != nil {
				return nil, err
			}
			val, err := f.Value.MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf = append(buf, key...)
			buf = append(buf, ':')
			buf = append(buf, val...)
		}
		buf = append(buf, '}')
		return buf, nil
	default:
		return nil, fmt.Errorf("nrbf: unknown Node kind %d", n.kind)
	}
}
