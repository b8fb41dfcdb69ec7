// Copyright 2026 The NRBF Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nrbf

import (
	"bytes"
	"fmt"
	"io"
	"os"

	mmap "github.com/edsrzf/mmap-go"

	"github.com/nrbf-go/nrbf/internal/xlog"
)

// DefaultMaxRecursionDepth is the default cap on nested-record decode
// depth, bounding stack growth on a maliciously or accidentally deep
// chain of nested records.
const DefaultMaxRecursionDepth = 256

// Options configures a Decoder: a small struct resolved to defaults in
// the constructor when a field is left at its zero value.
type Options struct {
	// BestEffort stops parsing cleanly on a stream error instead of
	// propagating it. Default false.
	BestEffort bool

	// Expand inlines snapshotted class metadata into ClassWithId
	// records. Default false.
	Expand bool

	// MaxRecursionDepth bounds nested-record decode depth. Zero selects
	// DefaultMaxRecursionDepth.
	MaxRecursionDepth int

	// Logger receives decode-time diagnostics. Nil selects a stdout
	// logger filtered at error level.
	Logger xlog.Logger
}

// Stats summarises a completed parse: how many top-level records were
// read, how many objects were registered, and how many forward
// references were recorded.
type Stats struct {
	Records    int
	Objects    int
	References int
}

// reference is one recorded forward reference to ObjID, located at
// Path within the decoded record tree. Path[0] indexes Decoder.records;
// each subsequent element indexes the "Values" sequence of the node
// reached so far.
type reference struct {
	ObjID int32
	Path  []int
}

// Decoder is the top-level state machine: it recognises each record
// kind, dispatches to its specific layout, and maintains the
// object/value/reference tables needed to resolve forward references
// afterward.
type Decoder struct {
	s    *stream
	opts Options
	log  *xlog.Helper

	records    []Node
	objects    map[int32]Node
	values     map[int32]Node
	references []reference
	pruned     map[int32]bool

	depth    int
	parsed   bool
	rootID   int32
	haveRoot bool

	closer io.Closer
	mm     mmap.MMap
}

func resolveOptions(opts Options) Options {
	if opts.MaxRecursionDepth == 0 {
		opts.MaxRecursionDepth = DefaultMaxRecursionDepth
	}
	if opts.Logger == nil {
		opts.Logger = xlog.NewFilter(xlog.NewStdLogger(os.Stdout), xlog.FilterLevel(xlog.LevelError))
	}
	return opts
}

func newDecoder(r io.Reader, opts Options) *Decoder {
	opts = resolveOptions(opts)
	return &Decoder{
		s:       newStream(r),
		opts:    opts,
		log:     xlog.NewHelper(opts.Logger),
		objects: make(map[int32]Node),
		values:  make(map[int32]Node),
		pruned:  make(map[int32]bool),
	}
}

// NewReader constructs a Decoder over an already-open byte source. No
// seek is required; the decoder is single-pass.
func NewReader(r io.Reader, opts Options) *Decoder {
	return newDecoder(r, opts)
}

// NewBytes constructs a Decoder over an in-memory buffer, for callers
// that already hold the payload (e.g. after stripping a base64/URL
// outer envelope, which remains the caller's own responsibility).
func NewBytes(data []byte, opts Options) *Decoder {
	return newDecoder(bytes.NewReader(data), opts)
}

// New memory-maps path and constructs a Decoder over it; mmap avoids
// copying the whole payload into the process heap before decoding
// begins.
func New(path string, opts Options) (*Decoder, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, err
	}
	dec := newDecoder(bytes.NewReader(data), opts)
	dec.mm = data
	dec.closer = f
	return dec, nil
}

// Close releases the memory mapping and underlying file handle, if any.
func (d *Decoder) Close() error {
	if d.mm != nil {
		_ = d.mm.Unmap()
		d.mm = nil
	}
	if d.closer != nil {
		return d.closer.Close()
	}
	return nil
}

// Parse reads the stream up to and including MessageEnd and returns the
// decoded top-level record list. A stream error (including end-of-stream
// before MessageEnd) is returned with the records decoded so far; in
// BestEffort mode it is logged instead and Parse returns those records.
func (d *Decoder) Parse() ([]Node, error) {
	for {
		idx := len(d.records)
		path := []int{idx}
		node, err := d.decodeRecordAt(path)
		if err != nil {
			if d.opts.BestEffort {
				d.log.Errorf("parse stopped after %d records: %v", len(d.records), err)
				break
			}
			return d.records, err
		}
		d.records = append(d.records, node)
		if idx == 0 {
			if rootID, ok := node.Get("RootId"); ok {
				if v, ok := rootID.Int(); ok {
					d.rootID = int32(v)
					d.haveRoot = true
				}
			}
		}
		if rt, ok := node.Get("RecordTypeEnum"); ok {
			if s, ok := rt.StringValue(); ok && s == RecordMessageEnd.String() {
				break
			}
		}
	}
	d.parsed = true
	return d.records, nil
}

// Stats reports the run summary.
func (d *Decoder) Stats() Stats {
	return Stats{Records: len(d.records), Objects: len(d.objects), References: len(d.references)}
}

// registerObject populates the object and value tables keyed by obj's
// identity. obj is the fully decoded record (including its own Values
// field, if any); values is the decoded member-values payload stored
// independently (a Seq Node for class/array records, a scalar String
// Node for BinaryObjectString).
func (d *Decoder) registerObject(id int32, obj Node, values Node) error {
	if _, dup := d.objects[id]; dup {
		return fmt.Errorf("%w: %d", ErrDuplicateObjectId, id)
	}
	d.objects[id] = obj
	d.values[id] = values
	return nil
}

func (d *Decoder) registerReference(idRef int32, path []int) {
	cp := make([]int, len(path))
	copy(cp, path)
	d.references = append(d.references, reference{ObjID: idRef, Path: cp})
}

// decodeRecordAt reads one record (RecordTypeEnumeration tag + its
// variant layout) located logically at path within the decode tree;
// path is recorded in the reference table if this record turns out to
// be a MemberReference, and nested records extend it with their index.
func (d *Decoder) decodeRecordAt(path []int) (Node, error) {
	d.depth++
	defer func() { d.depth-- }()
	if d.depth > d.opts.MaxRecursionDepth {
		return Node{}, ErrRecursionLimit
	}

	raw, err := d.s.U8()
	if err != nil {
		return Node{}, err
	}
	rt, err := parseRecordType(raw)
	if err != nil {
		return Node{}, err
	}
	if !implementedRecordTypes[rt] {
		return Node{}, fmt.Errorf("%w: %s (code %d)", ErrUnsupportedRecord, rt, raw)
	}

	node, err := d.dispatch(rt, path)
	if err != nil {
		return Node{}, err
	}
	node = node.WithField("RecordTypeEnum", NewString(rt.String()))

	if rt == RecordMemberReference {
		if idRefNode, ok := node.Get("IdRef"); ok {
			if idRef, ok := idRefNode.Int(); ok {
				d.registerReference(int32(idRef), path)
			}
		}
	}
	return node, nil
}

func (d *Decoder) dispatch(rt RecordType, path []int) (Node, error) {
	switch rt {
	case RecordSerializedStreamHeader:
		return d.parseSerializedStreamHeader()
	case RecordClassWithId:
		return d.parseClassWithId(path)
	case RecordSystemClassWithMembers:
		return d.parseSystemClassWithMembers()
	case RecordClassWithMembers:
		return d.parseClassWithMembers()
	case RecordSystemClassWithMembersAndTypes:
		return d.parseClassWithMembersAndTypes(path, true)
	case RecordClassWithMembersAndTypes:
		return d.parseClassWithMembersAndTypes(path, false)
	case RecordBinaryObjectString:
		return d.parseBinaryObjectString()
	case RecordBinaryArray:
		return d.parseBinaryArray(path)
	case RecordMemberReference:
		return d.parseMemberReference()
	case RecordObjectNull:
		return NewMap(), nil
	case RecordMessageEnd:
		return NewMap(), nil
	case RecordBinaryLibrary:
		return d.parseBinaryLibrary()
	case RecordObjectNullMultiple256:
		return d.parseObjectNullMultiple256()
	case RecordObjectNullMultiple:
		return d.parseObjectNullMultiple()
	default:
		return Node{}, fmt.Errorf("%w: %s", ErrUnsupportedRecord, rt)
	}
}

func (d *Decoder) parseSerializedStreamHeader() (Node, error) {
	rootID, err := d.s.I32()
	if err != nil {
		return Node{}, err
	}
	headerID, err := d.s.I32()
	if err != nil {
		return Node{}, err
	}
	major, err := d.s.I32()
	if err != nil {
		return Node{}, err
	}
	minor, err := d.s.I32()
	if err != nil {
		return Node{}, err
	}
	return NewMap(
		NodeField{Key: "RootId", Value: NewInt(int64(rootID))},
		NodeField{Key: "HeaderId", Value: NewInt(int64(headerID))},
		NodeField{Key: "MajorVersion", Value: NewInt(int64(major))},
		NodeField{Key: "MinorVersion", Value: NewInt(int64(minor))},
	), nil
}

// parseClassWithId decodes RecordType 1: the schema used for its member
// values comes from the class record already registered under
// MetadataId, which MUST already exist.
func (d *Decoder) parseClassWithId(path []int) (Node, error) {
	objectID, err := d.s.I32()
	if err != nil {
		return Node{}, err
	}
	metadataID, err := d.s.I32()
	if err != nil {
		return Node{}, err
	}
	target, ok := d.objects[metadataID]
	if !ok {
		return Node{}, fmt.Errorf("%w: MetadataId %d", ErrMissingMetadata, metadataID)
	}
	ci, mti, err := d.schemaOf(target, metadataID)
	if err != nil {
		return Node{}, err
	}

	values, err := d.decodeMemberValues(path, ci, mti)
	if err != nil {
		return Node{}, err
	}

	node := NewMap(
		NodeField{Key: "ObjectId", Value: NewInt(int64(objectID))},
		NodeField{Key: "MetadataId", Value: NewInt(int64(metadataID))},
	)
	if d.opts.Expand {
		node = node.merge(target)
		node = node.WithField("ObjectId", NewInt(int64(objectID)))
		node = node.WithField("MetadataId", NewInt(int64(metadataID)))
	}
	node = node.WithField("Values", NewSeq(values))

	if err := d.registerObject(objectID, node, NewSeq(values)); err != nil {
		return Node{}, err
	}
	return node, nil
}

// schemaOf recovers the (classInfo, memberTypeInfo) schema from a class
// record's Node representation, so ClassWithId can decode member values
// against a previously-seen schema without re-reading raw classInfo
// fields from the wire.
func (d *Decoder) schemaOf(target Node, objID int32) (classInfo, memberTypeInfo, error) {
	ciNode, ok := target.Get("ClassInfo")
	if !ok {
		return classInfo{}, memberTypeInfo{}, fmt.Errorf("%w: object %d has no ClassInfo", ErrMissingMetadata, objID)
	}
	ci, err := nodeToClassInfo(ciNode)
	if err != nil {
		return classInfo{}, memberTypeInfo{}, err
	}
	mtiNode, ok := target.Get("MemberTypeInfo")
	if !ok {
		// SystemClassWithMembers / ClassWithMembers carry no
		// MemberTypeInfo at all: their members are decoded by a
		// caller who already knows the shape is untyped. ClassWithId
		// can only legally target a *WithTypes variant in a
		// conformant stream; surface that precisely.
		return classInfo{}, memberTypeInfo{}, fmt.Errorf(
			"%w: object %d has no MemberTypeInfo (ClassWithId requires a typed metadata record)",
			ErrMissingMetadata, objID)
	}
	mti, err := nodeToMemberTypeInfo(mtiNode, ci.MemberCount)
	if err != nil {
		return classInfo{}, memberTypeInfo{}, err
	}
	return ci, mti, nil
}

func (d *Decoder) parseSystemClassWithMembers() (Node, error) {
	ci, err := d.s.readClassInfo()
	if err != nil {
		return Node{}, err
	}
	node := NewMap(NodeField{Key: "ClassInfo", Value: ci.asNode()})
	if err := d.registerObject(ci.ObjectID, node, Node{}); err != nil {
		return Node{}, err
	}
	return node, nil
}

func (d *Decoder) parseClassWithMembers() (Node, error) {
	ci, err := d.s.readClassInfo()
	if err != nil {
		return Node{}, err
	}
	libraryID, err := d.s.I32()
	if err != nil {
		return Node{}, err
	}
	node := NewMap(
		NodeField{Key: "ClassInfo", Value: ci.asNode()},
		NodeField{Key: "LibraryId", Value: NewInt(int64(libraryID))},
	)
	if err := d.registerObject(ci.ObjectID, node, Node{}); err != nil {
		return Node{}, err
	}
	return node, nil
}

// parseClassWithMembersAndTypes decodes record types 4 (system=true)
// and 5 (system=false); grounded on dnb.py's __mat_common.
func (d *Decoder) parseClassWithMembersAndTypes(path []int, system bool) (Node, error) {
	ci, err := d.s.readClassInfo()
	if err != nil {
		return Node{}, err
	}
	mti, err := d.s.readMemberTypeInfo(ci.MemberCount)
	if err != nil {
		return Node{}, err
	}
	var libraryID int32
	if !system {
		libraryID, err = d.s.I32()
		if err != nil {
			return Node{}, err
		}
	}

	values, err := d.decodeMemberValues(path, ci, mti)
	if err != nil {
		return Node{}, err
	}

	node := NewMap(
		NodeField{Key: "ClassInfo", Value: ci.asNode()},
		NodeField{Key: "MemberTypeInfo", Value: mti.asNode()},
	)
	if !system {
		node = node.WithField("LibraryId", NewInt(int64(libraryID)))
	}
	node = node.WithField("Values", NewSeq(values))

	if err := d.registerObject(ci.ObjectID, node, NewSeq(values)); err != nil {
		return Node{}, err
	}
	return node, nil
}

func (d *Decoder) parseBinaryObjectString() (Node, error) {
	objectID, err := d.s.I32()
	if err != nil {
		return Node{}, err
	}
	value, err := d.s.String()
	if err != nil {
		return Node{}, err
	}
	node := NewMap(
		NodeField{Key: "ObjectId", Value: NewInt(int64(objectID))},
		NodeField{Key: "Value", Value: NewString(value)},
	)
	// BinaryObjectString registers its scalar Value, not a sequence
	// member values are scalar, not a sequence.
	if err := d.registerObject(objectID, node, NewString(value)); err != nil {
		return Node{}, err
	}
	return node, nil
}

func (d *Decoder) parseMemberReference() (Node, error) {
	idRef, err := d.s.I32()
	if err != nil {
		return Node{}, err
	}
	return NewMap(NodeField{Key: "IdRef", Value: NewInt(int64(idRef))}), nil
}

func (d *Decoder) parseBinaryLibrary() (Node, error) {
	libraryID, err := d.s.I32()
	if err != nil {
		return Node{}, err
	}
	name, err := d.s.String()
	if err != nil {
		return Node{}, err
	}
	return NewMap(
		NodeField{Key: "LibraryId", Value: NewInt(int64(libraryID))},
		NodeField{Key: "LibraryName", Value: NewString(name)},
	), nil
}

func (d *Decoder) parseObjectNullMultiple256() (Node, error) {
	count, err := d.s.U8()
	if err != nil {
		return Node{}, err
	}
	return NewMap(NodeField{Key: "NullCount", Value: NewInt(int64(count))}), nil
}

func (d *Decoder) parseObjectNullMultiple() (Node, error) {
	count, err := d.s.I32()
	if err != nil {
		return Node{}, err
	}
	return NewMap(NodeField{Key: "NullCount", Value: NewInt(int64(count))}), nil
}

// decodeMemberValues decodes MemberCount values for a class record
// whose members are typed by mti. parentPath is this record's own
// location; the i-th member's location is append(parentPath, i).
func (d *Decoder) decodeMemberValues(parentPath []int, ci classInfo, mti memberTypeInfo) ([]Node, error) {
	values := make([]Node, ci.MemberCount)
	for i := 0; i < int(ci.MemberCount); i++ {
		bt := mti.BinaryTypeEnums[i]
		info := mti.AdditionalInfos[i]
		childPath := append(append([]int{}, parentPath...), i)
		v, err := d.decodeMemberValue(childPath, bt, info)
		if err != nil {
			return nil, fmt.Errorf("member %q (%s): %w", ci.MemberNames[i], bt, err)
		}
		values[i] = v
	}
	return values, nil
}

// decodeMemberValue decodes a single class-member value. Spec.md §4.4's
// member-value table requires Object, ObjectArray, StringArray and
// PrimitiveArray to all fail ErrUnsupportedConstruct in this context;
// only String, SystemClass and Class recurse into a nested record.
func (d *Decoder) decodeMemberValue(path []int, bt BinaryType, info additionalInfo) (Node, error) {
	switch bt {
	case BinaryPrimitive:
		return info.primitive.parse(d.s)
	case BinaryString, BinarySystemClass, BinaryClass:
		return d.decodeRecordAt(path)
	case BinaryObject, BinaryObjectArray, BinaryStringArray, BinaryPrimitiveArray:
		return Node{}, fmt.Errorf("%w: %s member value", ErrUnsupportedConstruct, bt)
	default:
		return Node{}, fmt.Errorf("%w: %s", ErrUnknownEnumValue, bt)
	}
}

// decodeArrayCellValue decodes a single BinaryArray element (array.go).
// Unlike a class member, an Object-typed cell is itself encoded as a
// complete nested record — a reference-protocol record (MemberReference,
// ObjectNull, ObjectNullMultiple[256]) or a nested class — since that is
// the only way the format can place a null run inside an array; this
// differs from decodeMemberValue, where BinaryType=Object has no such
// carrier and is simply unsupported.
func (d *Decoder) decodeArrayCellValue(path []int, bt BinaryType, info additionalInfo) (Node, error) {
	switch bt {
	case BinaryPrimitive:
		return info.primitive.parse(d.s)
	case BinaryString, BinarySystemClass, BinaryClass, BinaryObject:
		return d.decodeRecordAt(path)
	case BinaryObjectArray, BinaryStringArray, BinaryPrimitiveArray:
		return Node{}, fmt.Errorf("%w: %s array cell", ErrUnsupportedConstruct, bt)
	default:
		return Node{}, fmt.Errorf("%w: %s", ErrUnknownEnumValue, bt)
	}
}
