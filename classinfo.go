// Copyright 2026 The NRBF Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nrbf

import "fmt"

// classInfo is the format's ClassInfo common structure:
// { ObjectId, Name, MemberCount, MemberNames[MemberCount] }.
type classInfo struct {
	ObjectID    int32
	Name        string
	MemberCount int32
	MemberNames []string
}

func (s *stream) readClassInfo() (classInfo, error) {
	var ci classInfo
	var err error
	if ci.ObjectID, err = s.I32(); err != nil {
		return classInfo{}, err
	}
	if ci.Name, err = s.String(); err != nil {
		return classInfo{}, err
	}
	if ci.MemberCount, err = s.I32(); err != nil {
		return classInfo{}, err
	}
	ci.MemberNames = make([]string, ci.MemberCount)
	for i := range ci.MemberNames {
		if ci.MemberNames[i], err = s.String(); err != nil {
			return classInfo{}, err
		}
	}
	return ci, nil
}

// asNode renders a classInfo the way it appears under a record's
// "ClassInfo" key.
func (ci classInfo) asNode() Node {
	names := make([]Node, len(ci.MemberNames))
	for i, n := range ci.MemberNames {
		names[i] = NewString(n)
	}
	return NewMap(
		NodeField{Key: "ObjectId", Value: NewInt(int64(ci.ObjectID))},
		NodeField{Key: "Name", Value: NewString(ci.Name)},
		NodeField{Key: "MemberCount", Value: NewInt(int64(ci.MemberCount))},
		NodeField{Key: "MemberNames", Value: NewSeq(names)},
	)
}

// memberTypeInfo is the format's MemberTypeInfo(count) structure: two
// parallel arrays of length MemberCount, read in two phases — first
// every BinaryType tag, then every AdditionalInfo in the same order
// (the format does not interleave them).
type memberTypeInfo struct {
	BinaryTypeEnums []BinaryType
	AdditionalInfos []additionalInfo
}

func (s *stream) readMemberTypeInfo(count int32) (memberTypeInfo, error) {
	tags := make([]BinaryType, count)
	for i := range tags {
		raw, err := s.U8()
		if err != nil {
			return memberTypeInfo{}, err
		}
		t, err := parseBinaryType(raw)
		if err != nil {
			return memberTypeInfo{}, err
		}
		tags[i] = t
	}
	infos := make([]additionalInfo, count)
	for i, t := range tags {
		info, err := t.parseAdditionalInfo(s)
		if err != nil {
			return memberTypeInfo{}, err
		}
		infos[i] = info
	}
	return memberTypeInfo{BinaryTypeEnums: tags, AdditionalInfos: infos}, nil
}

// asNode renders a memberTypeInfo the way it appears under a record's
// "MemberTypeInfo" key.
func (mti memberTypeInfo) asNode() Node {
	enumNodes := make([]Node, len(mti.BinaryTypeEnums))
	infoNodes := make([]Node, len(mti.AdditionalInfos))
	for i, t := range mti.BinaryTypeEnums {
		enumNodes[i] = NewString(t.String())
		infoNodes[i] = mti.AdditionalInfos[i].asNode(t)
	}
	return NewMap(
		NodeField{Key: "BinaryTypeEnums", Value: NewSeq(enumNodes)},
		NodeField{Key: "AdditionalInfos", Value: NewSeq(infoNodes)},
	)
}

// nodeToClassInfo reconstructs a classInfo from its Node rendering, so
// ClassWithId and crunch can recover a previously-registered object's
// schema — the class referenced by MetadataId — without re-reading the
// wire.
func nodeToClassInfo(n Node) (classInfo, error) {
	objIDNode, ok := n.Get("ObjectId")
	if !ok {
		return classInfo{}, fmt.Errorf("%w: ClassInfo missing ObjectId", ErrMissingMetadata)
	}
	objID, _ := objIDNode.Int()
	nameNode, _ := n.Get("Name")
	name, _ := nameNode.StringValue()
	countNode, _ := n.Get("MemberCount")
	count, _ := countNode.Int()
	namesNode, _ := n.Get("MemberNames")
	namesSeq, _ := namesNode.Seq()
	names := make([]string, len(namesSeq))
	for i, nn := range namesSeq {
		names[i], _ = nn.StringValue()
	}
	return classInfo{ObjectID: int32(objID), Name: name, MemberCount: int32(count), MemberNames: names}, nil
}

// nodeToMemberTypeInfo reconstructs a memberTypeInfo from its Node
// rendering, mirroring nodeToClassInfo.
func nodeToMemberTypeInfo(n Node, count int32) (memberTypeInfo, error) {
	enumsNode, ok := n.Get("BinaryTypeEnums")
	if !ok {
		return memberTypeInfo{}, fmt.Errorf("%w: MemberTypeInfo missing BinaryTypeEnums", ErrMissingMetadata)
	}
	enumsSeq, _ := enumsNode.Seq()
	infosNode, _ := n.Get("AdditionalInfos")
	infosSeq, _ := infosNode.Seq()
	if len(enumsSeq) != int(count) || len(infosSeq) != int(count) {
		return memberTypeInfo{}, fmt.Errorf("%w: MemberTypeInfo arity mismatch", ErrMissingMetadata)
	}
	tags := make([]BinaryType, count)
	infos := make([]additionalInfo, count)
	for i := 0; i < int(count); i++ {
		name, _ := enumsSeq[i].StringValue()
		bt, err := binaryTypeByName(name)
		if err != nil {
			return memberTypeInfo{}, err
		}
		tags[i] = bt
		infos[i] = nodeToAdditionalInfo(bt, infosSeq[i])
	}
	return memberTypeInfo{BinaryTypeEnums: tags, AdditionalInfos: infos}, nil
}

func binaryTypeByName(name string) (BinaryType, error) {
	for t, n := range binaryTypeNames {
		if n == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: BinaryType %q", ErrUnknownEnumValue, name)
}

func primitiveTypeByName(name string) (PrimitiveType, error) {
	for t, n := range primitiveTypeNames {
		if n == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: PrimitiveType %q", ErrUnknownEnumValue, name)
}

func nodeToAdditionalInfo(bt BinaryType, n Node) additionalInfo {
	switch bt {
	case BinaryPrimitive, BinaryPrimitiveArray:
		name, _ := n.StringValue()
		pt, _ := primitiveTypeByName(name)
		return additionalInfo{primitive: pt}
	case BinarySystemClass:
		name, _ := n.StringValue()
		return additionalInfo{systemClassName: name}
	case BinaryClass:
		typeName, _ := n.Get("TypeName")
		libID, _ := n.Get("LibraryId")
		tn, _ := typeName.StringValue()
		lid, _ := libID.Int()
		return additionalInfo{classTypeName: tn, classLibraryID: int32(lid)}
	default:
		return additionalInfo{}
	}
}
