// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package msnrbf

import "fmt"

// Record is implemented by every MS-NRBF record variant. The grammar
// engine dispatches on Kind() rather than on Go's type switch directly,
// so new variants slot into the same table-driven decode loop used for
// every other record.
type Record interface {
	Kind() RecordKind
	Encode() ([]byte, error)
}

// DecodeRecord reads one record from the front of buf, dispatching on
// the leading tag byte. consumed includes the tag byte itself.
// maxArrayLength bounds the element count DecodeRecord will allocate for
// an ArraySinglePrimitive before reading its elements (the only record
// the bare record codec allocates a wire-sized slice for); zero or
// negative selects DefaultMaxArrayLength.
func DecodeRecord(buf []byte, maxArrayLength int) (rec Record, consumed int, err error) {
	if maxArrayLength <= 0 {
		maxArrayLength = DefaultMaxArrayLength
	}
	if len(buf) < 1 {
		return nil, 0, ErrTruncatedInput
	}
	kind := RecordKind(buf[0])
	body := buf[1:]

	var n int
	switch kind {
	case RecordSerializationHeader:
		var r SerializationHeader
		r, n, err = decodeSerializationHeader(body)
		rec = r
	case RecordClassWithID:
		var r ClassWithID
		r, n, err = decodeClassWithID(body)
		rec = r
	case RecordSystemClassWithMembers:
		var r SystemClassWithMembers
		r, n, err = decodeSystemClassWithMembers(body)
		rec = r
	case RecordClassWithMembers:
		var r ClassWithMembers
		r, n, err = decodeClassWithMembers(body)
		rec = r
	case RecordSystemClassWithMembersTypes:
		var r SystemClassWithMembersAndTypes
		r, n, err = decodeSystemClassWithMembersAndTypes(body)
		rec = r
	case RecordClassWithMembersTypes:
		var r ClassWithMembersAndTypes
		r, n, err = decodeClassWithMembersAndTypes(body)
		rec = r
	case RecordBinaryObjectString:
		var r BinaryObjectString
		r, n, err = decodeBinaryObjectString(body)
		rec = r
	case RecordBinaryArray:
		var r BinaryArray
		r, n, err = decodeBinaryArray(body)
		rec = r
	case RecordMemberPrimitiveTyped:
		var r MemberPrimitiveTyped
		r, n, err = decodeMemberPrimitiveTyped(body)
		rec = r
	case RecordMemberReference:
		var r MemberReference
		r, n, err = decodeMemberReference(body)
		rec = r
	case RecordObjectNull:
		var r ObjectNull
		r, n, err = decodeObjectNull(body)
		rec = r
	case RecordMessageEnd:
		var r MessageEnd
		r, n, err = decodeMessageEnd(body)
		rec = r
	case RecordBinaryLibrary:
		var r BinaryLibrary
		r, n, err = decodeBinaryLibrary(body)
		rec = r
	case RecordObjectNullMultiple256:
		var r ObjectNullMultiple256
		r, n, err = decodeObjectNullMultiple256(body)
		rec = r
	case RecordObjectNullMultiple:
		var r ObjectNullMultiple
		r, n, err = decodeObjectNullMultiple(body)
		rec = r
	case RecordArraySinglePrimitive:
		var r ArraySinglePrimitive
		r, n, err = decodeArraySinglePrimitive(body, maxArrayLength)
		rec = r
	case RecordArraySingleObject:
		var r ArraySingleObject
		r, n, err = decodeArraySingleObject(body)
		rec = r
	case RecordArraySingleString:
		var r ArraySingleString
		r, n, err = decodeArraySingleString(body)
		rec = r
	case RecordBinaryMethodCall:
		var r BinaryMethodCall
		r, n, err = decodeBinaryMethodCall(body)
		rec = r
	case RecordBinaryMethodReturn:
		var r BinaryMethodReturn
		r, n, err = decodeBinaryMethodReturn(body)
		rec = r
	default:
		return nil, 0, fmt.Errorf("%w: tag %d", ErrUnknownRecordTag, buf[0])
	}
	if err != nil {
		return nil, 0, err
	}
	return rec, n + 1, nil
}

// encodeTagged prefixes body with the one-byte record tag.
func encodeTagged(kind RecordKind, body []byte) []byte {
	return append([]byte{byte(kind)}, body...)
}

// SerializationHeader is always the first record of a message. It seeds
// the root object id and the protocol version.
type SerializationHeader struct {
	RootID        int32
	HeaderID      int32
	MajorVersion  int32
	MinorVersion  int32
}

func (SerializationHeader) Kind() RecordKind { return RecordSerializationHeader }

func (r SerializationHeader) Encode() ([]byte, error) {
	body := packInt32(r.RootID)
	body = append(body, packInt32(r.HeaderID)...)
	body = append(body, packInt32(r.MajorVersion)...)
	body = append(body, packInt32(r.MinorVersion)...)
	return encodeTagged(r.Kind(), body), nil
}

func decodeSerializationHeader(buf []byte) (SerializationHeader, int, error) {
	var r SerializationHeader
	off := 0
	vals := make([]int32, 4)
	for i := range vals {
		v, n, err := unpackInt32(buf[off:])
		if err != nil {
			return r, 0, err
		}
		vals[i] = v
		off += n
	}
	r = SerializationHeader{RootID: vals[0], HeaderID: vals[1], MajorVersion: vals[2], MinorVersion: vals[3]}
	if r.MajorVersion != 1 || r.MinorVersion != 0 {
		return r, 0, fmt.Errorf("%w: got (%d, %d)", ErrUnsupportedVersion, r.MajorVersion, r.MinorVersion)
	}
	return r, off, nil
}

// ClassWithID references a previously declared class's metadata by the
// object id it was first declared under. The Grammar Engine, not this
// decoder, resolves MetadataID against the message context.
type ClassWithID struct {
	ObjectID   int32
	MetadataID int32
}

func (ClassWithID) Kind() RecordKind { return RecordClassWithID }

func (r ClassWithID) Encode() ([]byte, error) {
	body := packInt32(r.ObjectID)
	body = append(body, packInt32(r.MetadataID)...)
	return encodeTagged(r.Kind(), body), nil
}

func decodeClassWithID(buf []byte) (ClassWithID, int, error) {
	id, n1, err := unpackInt32(buf)
	if err != nil {
		return ClassWithID{}, 0, err
	}
	meta, n2, err := unpackInt32(buf[n1:])
	if err != nil {
		return ClassWithID{}, 0, err
	}
	return ClassWithID{ObjectID: id, MetadataID: meta}, n1 + n2, nil
}

// SystemClassWithMembers declares a SYSTEMLIB class's shape without
// per-member type tags; shapes are looked up from the type registry by
// name. Rare on real traffic; MS-NRBF 2.3.2.3.
type SystemClassWithMembers struct {
	ClassInfo ClassInfo
}

func (SystemClassWithMembers) Kind() RecordKind { return RecordSystemClassWithMembers }

func (r SystemClassWithMembers) Encode() ([]byte, error) {
	return encodeTagged(r.Kind(), r.ClassInfo.encode()), nil
}

func decodeSystemClassWithMembers(buf []byte) (SystemClassWithMembers, int, error) {
	ci, n, err := decodeClassInfo(buf)
	if err != nil {
		return SystemClassWithMembers{}, 0, err
	}
	return SystemClassWithMembers{ClassInfo: ci}, n, nil
}

// ClassWithMembers declares a user-library class's shape without
// per-member type tags. MS-NRBF 2.3.2.1.
type ClassWithMembers struct {
	ClassInfo ClassInfo
	LibraryID int32
}

func (ClassWithMembers) Kind() RecordKind { return RecordClassWithMembers }

func (r ClassWithMembers) Encode() ([]byte, error) {
	body := r.ClassInfo.encode()
	body = append(body, packInt32(r.LibraryID)...)
	return encodeTagged(r.Kind(), body), nil
}

func decodeClassWithMembers(buf []byte) (ClassWithMembers, int, error) {
	ci, n, err := decodeClassInfo(buf)
	if err != nil {
		return ClassWithMembers{}, 0, err
	}
	lib, n2, err := unpackInt32(buf[n:])
	if err != nil {
		return ClassWithMembers{}, 0, err
	}
	return ClassWithMembers{ClassInfo: ci, LibraryID: lib}, n + n2, nil
}

// SystemClassWithMembersAndTypes declares a SYSTEMLIB class's full shape,
// member names and member type tags together. MS-NRBF 2.3.2.4.
type SystemClassWithMembersAndTypes struct {
	ClassInfo  ClassInfo
	MemberInfo MemberTypeInfo
}

func (SystemClassWithMembersAndTypes) Kind() RecordKind { return RecordSystemClassWithMembersTypes }

func (r SystemClassWithMembersAndTypes) Encode() ([]byte, error) {
	body := r.ClassInfo.encode()
	body = append(body, r.MemberInfo.encode()...)
	return encodeTagged(r.Kind(), body), nil
}

func decodeSystemClassWithMembersAndTypes(buf []byte) (SystemClassWithMembersAndTypes, int, error) {
	ci, n, err := decodeClassInfo(buf)
	if err != nil {
		return SystemClassWithMembersAndTypes{}, 0, err
	}
	mi, n2, err := decodeMemberTypeInfo(buf[n:], len(ci.MemberNames))
	if err != nil {
		return SystemClassWithMembersAndTypes{}, 0, err
	}
	return SystemClassWithMembersAndTypes{ClassInfo: ci, MemberInfo: mi}, n + n2, nil
}

// ClassWithMembersAndTypes declares a user-library class's full shape.
// MS-NRBF 2.3.2.2. This is the variant the graph builder emits on first
// sight of any userspace class.
type ClassWithMembersAndTypes struct {
	ClassInfo  ClassInfo
	MemberInfo MemberTypeInfo
	LibraryID  int32
}

func (ClassWithMembersAndTypes) Kind() RecordKind { return RecordClassWithMembersTypes }

func (r ClassWithMembersAndTypes) Encode() ([]byte, error) {
	body := r.ClassInfo.encode()
	body = append(body, r.MemberInfo.encode()...)
	body = append(body, packInt32(r.LibraryID)...)
	return encodeTagged(r.Kind(), body), nil
}

func decodeClassWithMembersAndTypes(buf []byte) (ClassWithMembersAndTypes, int, error) {
	ci, n, err := decodeClassInfo(buf)
	if err != nil {
		return ClassWithMembersAndTypes{}, 0, err
	}
	mi, n2, err := decodeMemberTypeInfo(buf[n:], len(ci.MemberNames))
	if err != nil {
		return ClassWithMembersAndTypes{}, 0, err
	}
	off := n + n2
	lib, n3, err := unpackInt32(buf[off:])
	if err != nil {
		return ClassWithMembersAndTypes{}, 0, err
	}
	return ClassWithMembersAndTypes{ClassInfo: ci, MemberInfo: mi, LibraryID: lib}, off + n3, nil
}

// BinaryObjectString is a referenceable, length-prefixed UTF-8 string.
// MS-NRBF 2.5.7.
type BinaryObjectString struct {
	ObjectID int32
	Value    string
}

func (BinaryObjectString) Kind() RecordKind { return RecordBinaryObjectString }

func (r BinaryObjectString) Encode() ([]byte, error) {
	body := packInt32(r.ObjectID)
	body = append(body, packString(r.Value)...)
	return encodeTagged(r.Kind(), body), nil
}

func decodeBinaryObjectString(buf []byte) (BinaryObjectString, int, error) {
	id, n1, err := unpackInt32(buf)
	if err != nil {
		return BinaryObjectString{}, 0, err
	}
	val, n2, err := unpackString(buf[n1:])
	if err != nil {
		return BinaryObjectString{}, 0, err
	}
	return BinaryObjectString{ObjectID: id, Value: val}, n1 + n2, nil
}

// BinaryArray describes a (possibly multi-dimensional) array header.
// Only single-dimensional rank/shape is populated; true multi-dimensional
// BinaryArray handling is out of scope.
type BinaryArray struct {
	ObjectID  int32
	ArrayType byte // BinaryArrayTypeEnum
	Rank      int32
	Lengths   []int32
	TypeTag   BinaryTypeTag
	Additional interface{}
}

func (BinaryArray) Kind() RecordKind { return RecordBinaryArray }

func (r BinaryArray) Encode() ([]byte, error) {
	body := packInt32(r.ObjectID)
	body = append([]byte{r.ArrayType}, body...)
	body = append(body, packInt32(r.Rank)...)
	for _, l := range r.Lengths {
		body = append(body, packInt32(l)...)
	}
	body = append(body, byte(r.TypeTag))
	switch additionalInfoFor(r.TypeTag) {
	case 'p':
		body = append(body, byte(r.Additional.(PrimitiveTypeTag)))
	case 's':
		body = append(body, packString(r.Additional.(string))...)
	case 'c':
		body = append(body, r.Additional.(ClassTypeInfo).encode()...)
	}
	return encodeTagged(r.Kind(), body), nil
}

func decodeBinaryArray(buf []byte) (BinaryArray, int, error) {
	if len(buf) < 1 {
		return BinaryArray{}, 0, ErrTruncatedInput
	}
	arrType := buf[0]
	off := 1
	id, n, err := unpackInt32(buf[off:])
	if err != nil {
		return BinaryArray{}, 0, err
	}
	off += n
	rank, n, err := unpackInt32(buf[off:])
	if err != nil {
		return BinaryArray{}, 0, err
	}
	off += n
	if rank < 1 {
		return BinaryArray{}, 0, fmt.Errorf("%w: BinaryArray rank %d", ErrMalformedValue, rank)
	}
	lengths := make([]int32, rank)
	for i := range lengths {
		lengths[i], n, err = unpackInt32(buf[off:])
		if err != nil {
			return BinaryArray{}, 0, err
		}
		off += n
	}
	if off >= len(buf) {
		return BinaryArray{}, 0, ErrTruncatedInput
	}
	tag := BinaryTypeTag(buf[off])
	off++
	var additional interface{}
	switch additionalInfoFor(tag) {
	case 'p':
		if off >= len(buf) {
			return BinaryArray{}, 0, ErrTruncatedInput
		}
		additional = PrimitiveTypeTag(buf[off])
		off++
	case 's':
		s, n, err := unpackString(buf[off:])
		if err != nil {
			return BinaryArray{}, 0, err
		}
		additional = s
		off += n
	case 'c':
		cti, n, err := decodeClassTypeInfo(buf[off:])
		if err != nil {
			return BinaryArray{}, 0, err
		}
		additional = cti
		off += n
	}
	return BinaryArray{
		ObjectID: id, ArrayType: arrType, Rank: rank, Lengths: lengths,
		TypeTag: tag, Additional: additional,
	}, off, nil
}

// MemberPrimitiveTyped carries a self-describing primitive scalar
// (one-byte PrimitiveTypeTag followed by the value). Used where a
// primitive value appears outside a typed class member slot.
type MemberPrimitiveTyped struct {
	Tag   PrimitiveTypeTag
	Value interface{}
}

func (MemberPrimitiveTyped) Kind() RecordKind { return RecordMemberPrimitiveTyped }

func (r MemberPrimitiveTyped) Encode() ([]byte, error) {
	enc, err := encodePrimitive(r.Tag, r.Value)
	if err != nil {
		return nil, err
	}
	body := append([]byte{byte(r.Tag)}, enc...)
	return encodeTagged(r.Kind(), body), nil
}

func decodeMemberPrimitiveTyped(buf []byte) (MemberPrimitiveTyped, int, error) {
	if len(buf) < 1 {
		return MemberPrimitiveTyped{}, 0, ErrTruncatedInput
	}
	tag := PrimitiveTypeTag(buf[0])
	val, n, err := decodePrimitive(tag, buf[1:])
	if err != nil {
		return MemberPrimitiveTyped{}, 0, err
	}
	return MemberPrimitiveTyped{Tag: tag, Value: val}, n + 1, nil
}

// MemberReference points at another referenceable record by object id.
// The id may be a forward reference; resolution is the Grammar Engine's
// job, not this record's.
type MemberReference struct {
	IDRef int32
}

func (MemberReference) Kind() RecordKind { return RecordMemberReference }

func (r MemberReference) Encode() ([]byte, error) {
	return encodeTagged(r.Kind(), packInt32(r.IDRef)), nil
}

func decodeMemberReference(buf []byte) (MemberReference, int, error) {
	id, n, err := unpackInt32(buf)
	if err != nil {
		return MemberReference{}, 0, err
	}
	return MemberReference{IDRef: id}, n, nil
}

// ObjectNull is a single null member slot.
type ObjectNull struct{}

func (ObjectNull) Kind() RecordKind { return RecordObjectNull }

func (r ObjectNull) Encode() ([]byte, error) { return encodeTagged(r.Kind(), nil), nil }

func decodeObjectNull(buf []byte) (ObjectNull, int, error) { return ObjectNull{}, 0, nil }

// MessageEnd is the mandatory final record of every message.
type MessageEnd struct{}

func (MessageEnd) Kind() RecordKind { return RecordMessageEnd }

func (r MessageEnd) Encode() ([]byte, error) { return encodeTagged(r.Kind(), nil), nil }

func decodeMessageEnd(buf []byte) (MessageEnd, int, error) { return MessageEnd{}, 0, nil }

// BinaryLibrary assigns a small integer id to a .NET assembly identity
// string. Attaches to the immediately following record; never buffered.
type BinaryLibrary struct {
	LibraryID int32
	Name      string
}

func (BinaryLibrary) Kind() RecordKind { return RecordBinaryLibrary }

func (r BinaryLibrary) Encode() ([]byte, error) {
	body := packInt32(r.LibraryID)
	body = append(body, packString(r.Name)...)
	return encodeTagged(r.Kind(), body), nil
}

func decodeBinaryLibrary(buf []byte) (BinaryLibrary, int, error) {
	id, n1, err := unpackInt32(buf)
	if err != nil {
		return BinaryLibrary{}, 0, err
	}
	name, n2, err := unpackString(buf[n1:])
	if err != nil {
		return BinaryLibrary{}, 0, err
	}
	return BinaryLibrary{LibraryID: id, Name: name}, n1 + n2, nil
}

// ObjectNullMultiple256 collapses a run of up to 255 null member slots
// into one record.
type ObjectNullMultiple256 struct {
	Count byte
}

func (ObjectNullMultiple256) Kind() RecordKind { return RecordObjectNullMultiple256 }

func (r ObjectNullMultiple256) Encode() ([]byte, error) {
	return encodeTagged(r.Kind(), []byte{r.Count}), nil
}

func decodeObjectNullMultiple256(buf []byte) (ObjectNullMultiple256, int, error) {
	c, n, err := unpackByte(buf)
	if err != nil {
		return ObjectNullMultiple256{}, 0, err
	}
	return ObjectNullMultiple256{Count: c}, n, nil
}

// ObjectNullMultiple collapses a run of more than 255 null member slots.
type ObjectNullMultiple struct {
	Count uint32
}

func (ObjectNullMultiple) Kind() RecordKind { return RecordObjectNullMultiple }

func (r ObjectNullMultiple) Encode() ([]byte, error) {
	return encodeTagged(r.Kind(), packUint32(r.Count)), nil
}

func decodeObjectNullMultiple(buf []byte) (ObjectNullMultiple, int, error) {
	c, n, err := unpackUint32(buf)
	if err != nil {
		return ObjectNullMultiple{}, 0, err
	}
	return ObjectNullMultiple{Count: c}, n, nil
}

// ArraySinglePrimitive is a single-dimensional array of one primitive
// type. Not exercised by any captured reference traffic; implemented
// per the MS-NRBF grammar rather than stubbed.
type ArraySinglePrimitive struct {
	ArrayInfo ArrayInfo
	ItemType  PrimitiveTypeTag
	Values    []interface{}
}

func (ArraySinglePrimitive) Kind() RecordKind { return RecordArraySinglePrimitive }

func (r ArraySinglePrimitive) Encode() ([]byte, error) {
	body := r.ArrayInfo.encode()
	body = append(body, byte(r.ItemType))
	for _, v := range r.Values {
		enc, err := encodePrimitive(r.ItemType, v)
		if err != nil {
			return nil, err
		}
		body = append(body, enc...)
	}
	return encodeTagged(r.Kind(), body), nil
}

func decodeArraySinglePrimitive(buf []byte, maxArrayLength int) (ArraySinglePrimitive, int, error) {
	ai, off, err := decodeArrayInfo(buf)
	if err != nil {
		return ArraySinglePrimitive{}, 0, err
	}
	if off >= len(buf) {
		return ArraySinglePrimitive{}, 0, ErrTruncatedInput
	}
	itemType := PrimitiveTypeTag(buf[off])
	off++
	if ai.Length < 0 {
		return ArraySinglePrimitive{}, 0, fmt.Errorf("%w: negative array length", ErrMalformedValue)
	}
	if int(ai.Length) > maxArrayLength {
		return ArraySinglePrimitive{}, 0, fmt.Errorf("%w: array length %d exceeds max %d", ErrLimitExceeded, ai.Length, maxArrayLength)
	}
	values := make([]interface{}, ai.Length)
	for i := range values {
		v, n, err := decodePrimitive(itemType, buf[off:])
		if err != nil {
			return ArraySinglePrimitive{}, 0, err
		}
		values[i] = v
		off += n
	}
	return ArraySinglePrimitive{ArrayInfo: ai, ItemType: itemType, Values: values}, off, nil
}

// ArraySingleObject is a single-dimensional array whose elements are
// arbitrary objects, each consumed as one MemberRef slot by the grammar
// engine. This is the CallArray backing record.
type ArraySingleObject struct {
	ArrayInfo ArrayInfo
}

func (ArraySingleObject) Kind() RecordKind { return RecordArraySingleObject }

func (r ArraySingleObject) Encode() ([]byte, error) {
	return encodeTagged(r.Kind(), r.ArrayInfo.encode()), nil
}

func decodeArraySingleObject(buf []byte) (ArraySingleObject, int, error) {
	ai, n, err := decodeArrayInfo(buf)
	if err != nil {
		return ArraySingleObject{}, 0, err
	}
	return ArraySingleObject{ArrayInfo: ai}, n, nil
}

// ArraySingleString is a single-dimensional array of strings. Not
// exercised by any captured reference traffic; implemented per the
// MS-NRBF grammar rather than stubbed.
type ArraySingleString struct {
	ArrayInfo ArrayInfo
}

func (ArraySingleString) Kind() RecordKind { return RecordArraySingleString }

func (r ArraySingleString) Encode() ([]byte, error) {
	return encodeTagged(r.Kind(), r.ArrayInfo.encode()), nil
}

func decodeArraySingleString(buf []byte) (ArraySingleString, int, error) {
	ai, n, err := decodeArrayInfo(buf)
	if err != nil {
		return ArraySingleString{}, 0, err
	}
	return ArraySingleString{ArrayInfo: ai}, n, nil
}

// BinaryMethodCall is the method record for a remote method invocation.
// MessageSignature/args/call-context trail it, gated by Flags, and are
// decoded by the Grammar Engine rather than here. Encode/decode here
// always carry MethodName and TypeName as StringValueWithCode; a real
// frame whose flags omit one of them (rather than the in-array shape
// this codec produces and expects) is not handled.
type BinaryMethodCall struct {
	Flags      MessageFlags
	MethodName string
	TypeName   string
}

func (BinaryMethodCall) Kind() RecordKind { return RecordBinaryMethodCall }

func (r BinaryMethodCall) Encode() ([]byte, error) {
	body := packUint32(uint32(r.Flags))
	body = append(body, StringValueWithCode{Value: r.MethodName}.encode()...)
	body = append(body, StringValueWithCode{Value: r.TypeName}.encode()...)
	return encodeTagged(r.Kind(), body), nil
}

func decodeBinaryMethodCall(buf []byte) (BinaryMethodCall, int, error) {
	flags, off, err := unpackUint32(buf)
	if err != nil {
		return BinaryMethodCall{}, 0, err
	}
	method, n, err := decodeStringValueWithCode(buf[off:])
	if err != nil {
		return BinaryMethodCall{}, 0, err
	}
	off += n
	typ, n, err := decodeStringValueWithCode(buf[off:])
	if err != nil {
		return BinaryMethodCall{}, 0, err
	}
	off += n
	return BinaryMethodCall{Flags: MessageFlags(flags), MethodName: method.Value, TypeName: typ.Value}, off, nil
}

// BinaryMethodReturn is the method record for a remote method's reply.
// Only the in-array return/exception/args path is implemented; inline
// context/args/return value are out of scope.
type BinaryMethodReturn struct {
	Flags MessageFlags
}

func (BinaryMethodReturn) Kind() RecordKind { return RecordBinaryMethodReturn }

func (r BinaryMethodReturn) Encode() ([]byte, error) {
	return encodeTagged(r.Kind(), packUint32(uint32(r.Flags))), nil
}

func decodeBinaryMethodReturn(buf []byte) (BinaryMethodReturn, int, error) {
	flags, n, err := unpackUint32(buf)
	if err != nil {
		return BinaryMethodReturn{}, 0, err
	}
	return BinaryMethodReturn{Flags: MessageFlags(flags)}, n, nil
}
