// Copyright 2026 The NRBF Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nrbf

import "fmt"

// parseBinaryArray decodes record type 7. This core only supports
// rank-1 Single arrays; any other BinaryArrayTypeEnumeration fails
// ErrUnsupportedArrayShape.
func (d *Decoder) parseBinaryArray(path []int) (Node, error) {
	objectID, err := d.s.I32()
	if err != nil {
		return Node{}, err
	}
	rawShape, err := d.s.U8()
	if err != nil {
		return Node{}, err
	}
	shape, err := parseBinaryArrayType(rawShape)
	if err != nil {
		return Node{}, err
	}
	rank, err := d.s.I32()
	if err != nil {
		return Node{}, err
	}
	lengths := make([]int32, rank)
	for i := range lengths {
		if lengths[i], err = d.s.I32(); err != nil {
			return Node{}, err
		}
	}
	var bounds []int32
	if shape.HasBounds() {
		bounds = make([]int32, rank)
		for i := range bounds {
			if bounds[i], err = d.s.I32(); err != nil {
				return Node{}, err
			}
		}
	}
	rawElemType, err := d.s.U8()
	if err != nil {
		return Node{}, err
	}
	elemType, err := parseBinaryType(rawElemType)
	if err != nil {
		return Node{}, err
	}
	elemInfo, err := elemType.parseAdditionalInfo(d.s)
	if err != nil {
		return Node{}, err
	}

	if shape != ArraySingle {
		return Node{}, fmt.Errorf("%w: BinaryArray of type %s", ErrUnsupportedArrayShape, shape)
	}

	total := int64(1)
	for _, l := range lengths {
		total *= int64(l)
	}

	var values []Node
	var accounted int64
	for accounted < total {
		childPath := append(append([]int{}, path...), len(values))
		v, err := d.decodeArrayCellValue(childPath, elemType, elemInfo)
		if err != nil {
			return Node{}, err
		}
		n := int64(1)
		if nullCount, ok := v.Get("NullCount"); ok {
			if c, ok := nullCount.Int(); ok {
				n = c
			}
		}
		accounted += n
		if accounted > total {
			return Node{}, ErrArrayOverrun
		}
		values = append(values, v)
	}

	node := NewMap(
		NodeField{Key: "ObjectId", Value: NewInt(int64(objectID))},
		NodeField{Key: "BinaryArrayTypeEnum", Value: NewString(shape.String())},
		NodeField{Key: "rank", Value: NewInt(int64(rank))},
		NodeField{Key: "Lengths", Value: newIntSeq(lengths)},
		NodeField{Key: "LowerBounds", Value: newIntSeq(bounds)},
		NodeField{Key: "TypeEnum", Value: NewString(elemType.String())},
		NodeField{Key: "AdditionalTypeInfo", Value: elemInfo.asNode(elemType)},
		NodeField{Key: "Values", Value: NewSeq(values)},
	)
	if err := d.registerObject(objectID, node, NewSeq(values)); err != nil {
		return Node{}, err
	}
	return node, nil
}

func newIntSeq(vals []int32) Node {
	nodes := make([]Node, len(vals))
	for i, v := range vals {
		nodes[i] = NewInt(int64(v))
	}
	return NewSeq(nodes)
}
