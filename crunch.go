// Copyright 2026 The NRBF Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nrbf

import "fmt"

// Crunch reduces the fully decoded (optionally backfilled) record tree
// to a minified, application-shaped form, starting from the record
// whose identity equals SerializedStreamHeader.RootId. When no
// top-level record has that identity, the header record itself is
// crunched (which leaves it unchanged); without a header, Crunch fails.
// Parse must have been called first.
func (d *Decoder) Crunch() (Node, error) {
	if !d.parsed {
		return Node{}, ErrNotParsed
	}
	idx, found := findRecordIndex(d.records, d.rootID)
	if !found {
		if !d.haveRoot {
			return Node{}, fmt.Errorf("%w: root object %d not found among top-level records", ErrMissingMetadata, d.rootID)
		}
		idx = 0
	}
	return d.crunch(d.records[idx])
}

// crunch applies the minification rules below, tried in order.
func (d *Decoder) crunch(n Node) (Node, error) {
	switch n.Kind() {
	case KindMap:
		if n.Has("ClassInfo") || n.Has("MetadataId") {
			return d.crunchClass(n)
		}
		if rte, ok := n.Get("RecordTypeEnum"); ok {
			if s, ok := rte.StringValue(); ok && s == RecordObjectNull.String() {
				return Null, nil
			}
		}
		if values, ok := n.Get("Values"); ok {
			return d.crunch(values)
		}
		if value, ok := n.Get("Value"); ok {
			return d.crunch(value)
		}
		// Any other mapping crunches its entries, dropping nulls. A
		// future record variant this core learns to decode should get
		// an explicit case above this one rather than relying on this
		// fallthrough.
		fields, _ := n.Fields()
		out := make([]NodeField, 0, len(fields))
		for _, f := range fields {
			v, err := d.crunch(f.Value)
			if err != nil {
				return Node{}, err
			}
			if !v.IsNull() {
				out = append(out, NodeField{Key: f.Key, Value: v})
			}
		}
		return NewMap(out...), nil
	case KindSeq:
		seq, _ := n.Seq()
		out := make([]Node, len(seq))
		for i, v := range seq {
			cv, err := d.crunch(v)
			if err != nil {
				return Node{}, err
			}
			out[i] = cv
		}
		return NewSeq(out), nil
	default:
		return n, nil
	}
}

// crunchClass produces a mapping keyed by MemberNames, dropping
// members whose crunched value is null.
func (d *Decoder) crunchClass(n Node) (Node, error) {
	var ci classInfo
	var err error
	if ciNode, ok := n.Get("ClassInfo"); ok {
		ci, err = nodeToClassInfo(ciNode)
	} else {
		metaIDNode, _ := n.Get("MetadataId")
		metaID, _ := metaIDNode.Int()
		target, ok := d.objects[int32(metaID)]
		if !ok {
			return Node{}, fmt.Errorf("%w: MetadataId %d", ErrMissingMetadata, int32(metaID))
		}
		ciNode, ok := target.Get("ClassInfo")
		if !ok {
			return Node{}, fmt.Errorf("%w: object %d has no ClassInfo", ErrMissingMetadata, int32(metaID))
		}
		ci, err = nodeToClassInfo(ciNode)
	}
	if err != nil {
		return Node{}, err
	}

	valuesNode, ok := n.Get("Values")
	if !ok {
		return NewMap(), nil
	}
	values, _ := valuesNode.Seq()

	out := make([]NodeField, 0, len(ci.MemberNames))
	for i, name := range ci.MemberNames {
		if i >= len(values) {
			break
		}
		v, err := d.crunch(values[i])
		if err != nil {
			return Node{}, err
		}
		if !v.IsNull() {
			out = append(out, NodeField{Key: name, Value: v})
		}
	}
	return NewMap(out...), nil
}
