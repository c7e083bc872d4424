// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package msnrbf

import "fmt"

// encodePrimitive encodes a Go value under the wire shape named by tag.
// The dispatch mirrors the reference implementation's per-enum pack
// table: one case per PrimitiveTypeTag, each delegating to the matching
// fixed-width or length-prefixed encoder.
func encodePrimitive(tag PrimitiveTypeTag, v interface{}) ([]byte, error) {
	switch tag {
	case PrimitiveBoolean:
		return packBool(v.(bool)), nil
	case PrimitiveByte:
		return packByte(v.(byte)), nil
	case PrimitiveChar:
		return packString(string(v.(rune))), nil
	case PrimitiveDecimal:
		return packDecimal(v.(Decimal)), nil
	case PrimitiveDouble:
		return packDouble(v.(float64)), nil
	case PrimitiveInt16:
		return packInt16(v.(int16)), nil
	case PrimitiveInt32:
		return packInt32(v.(int32)), nil
	case PrimitiveInt64:
		return packInt64(v.(int64)), nil
	case PrimitiveSByte:
		return packByte(byte(v.(int8))), nil
	case PrimitiveSingle:
		return packSingle(v.(float32)), nil
	case PrimitiveTimeSpan:
		return packTimeSpan(v.(TimeSpan)), nil
	case PrimitiveDateTime:
		return packDateTime(v.(DateTime)), nil
	case PrimitiveUInt16:
		return packUint16(v.(uint16)), nil
	case PrimitiveUInt32:
		return packUint32(v.(uint32)), nil
	case PrimitiveUInt64:
		return packUint64(v.(uint64)), nil
	case PrimitiveString:
		return packString(v.(string)), nil
	case PrimitiveNull:
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: unknown primitive tag %s", ErrMalformedValue, tag)
	}
}

// decodePrimitive decodes a value of the wire shape named by tag from
// the front of buf, returning the value as its natural Go type.
func decodePrimitive(tag PrimitiveTypeTag, buf []byte) (interface{}, int, error) {
	switch tag {
	case PrimitiveBoolean:
		return unpackBool(buf)
	case PrimitiveByte:
		return unpackByte(buf)
	case PrimitiveChar:
		s, n, err := unpackString(buf)
		if err != nil {
			return nil, 0, err
		}
		r := []rune(s)
		if len(r) != 1 {
			return nil, 0, fmt.Errorf("%w: Char record with %d runes", ErrMalformedValue, len(r))
		}
		return r[0], n, nil
	case PrimitiveDecimal:
		return unpackDecimal(buf)
	case PrimitiveDouble:
		return unpackDouble(buf)
	case PrimitiveInt16:
		return unpackInt16(buf)
	case PrimitiveInt32:
		return unpackInt32(buf)
	case PrimitiveInt64:
		return unpackInt64(buf)
	case PrimitiveSByte:
		b, n, err := unpackByte(buf)
		return int8(b), n, err
	case PrimitiveSingle:
		return unpackSingle(buf)
	case PrimitiveTimeSpan:
		return unpackTimeSpan(buf)
	case PrimitiveDateTime:
		return unpackDateTime(buf)
	case PrimitiveUInt16:
		return unpackUint16(buf)
	case PrimitiveUInt32:
		return unpackUint32(buf)
	case PrimitiveUInt64:
		return unpackUint64(buf)
	case PrimitiveString:
		return unpackString(buf)
	case PrimitiveNull:
		return nil, 0, nil
	default:
		return nil, 0, fmt.Errorf("%w: unknown primitive tag %s", ErrMalformedValue, tag)
	}
}

// ClassTypeInfo names a user class and the library that declares it, one
// of the "additional info" shapes that can follow a member's BinaryTypeTag.
type ClassTypeInfo struct {
	TypeName  string
	LibraryID int32
}

func (c ClassTypeInfo) encode() []byte {
	out := packString(c.TypeName)
	return append(out, packInt32(c.LibraryID)...)
}

func decodeClassTypeInfo(buf []byte) (ClassTypeInfo, int, error) {
	name, n1, err := unpackString(buf)
	if err != nil {
		return ClassTypeInfo{}, 0, err
	}
	id, n2, err := unpackInt32(buf[n1:])
	if err != nil {
		return ClassTypeInfo{}, 0, err
	}
	return ClassTypeInfo{TypeName: name, LibraryID: id}, n1 + n2, nil
}

// ClassInfo is the common header shared by every class record variant:
// an object id, the class name, and the declared member names in order.
type ClassInfo struct {
	ObjectID    int32
	Name        string
	MemberNames []string
}

func (c ClassInfo) encode() []byte {
	out := packInt32(c.ObjectID)
	out = append(out, packString(c.Name)...)
	out = append(out, packInt32(int32(len(c.MemberNames)))...)
	for _, name := range c.MemberNames {
		out = append(out, packString(name)...)
	}
	return out
}

func decodeClassInfo(buf []byte) (ClassInfo, int, error) {
	off := 0
	id, n, err := unpackInt32(buf[off:])
	if err != nil {
		return ClassInfo{}, 0, err
	}
	off += n

	name, n, err := unpackString(buf[off:])
	if err != nil {
		return ClassInfo{}, 0, err
	}
	off += n

	count, n, err := unpackInt32(buf[off:])
	if err != nil {
		return ClassInfo{}, 0, err
	}
	off += n
	if count < 0 {
		return ClassInfo{}, 0, fmt.Errorf("%w: negative member count", ErrMalformedValue)
	}

	names := make([]string, count)
	for i := range names {
		names[i], n, err = unpackString(buf[off:])
		if err != nil {
			return ClassInfo{}, 0, err
		}
		off += n
	}
	return ClassInfo{ObjectID: id, Name: name, MemberNames: names}, off, nil
}

// MemberTypeInfo is an ordered sequence of (BinaryTypeTag, additional)
// pairs, one per declared member. The wire layout is strict: every tag
// byte is written first, then every additional-info value in the same
// order, per MS-NRBF 2.3.1.2.
type MemberTypeInfo struct {
	Tags       []BinaryTypeTag
	Additional []interface{} // PrimitiveTypeTag, string, or ClassTypeInfo, or nil
}

// additionalInfoFor reports which shape of additional info follows a
// given BinaryTypeTag, mirroring the reference unpack_additional_info
// dispatch: 0 (Primitive) and 7 (PrimitiveArray) carry a PrimitiveTypeTag,
// 3 (SystemClass) carries a class name string, 4 (Class) carries a full
// ClassTypeInfo, everything else carries nothing.
func additionalInfoFor(tag BinaryTypeTag) byte {
	switch tag {
	case BinaryPrimitive, BinaryPrimitiveArray:
		return 'p'
	case BinarySystemClass:
		return 's'
	case BinaryClass:
		return 'c'
	default:
		return 0
	}
}

func (m MemberTypeInfo) encode() []byte {
	var out []byte
	for _, t := range m.Tags {
		out = append(out, byte(t))
	}
	for i, t := range m.Tags {
		switch additionalInfoFor(t) {
		case 'p':
			out = append(out, byte(m.Additional[i].(PrimitiveTypeTag)))
		case 's':
			out = append(out, packString(m.Additional[i].(string))...)
		case 'c':
			out = append(out, m.Additional[i].(ClassTypeInfo).encode()...)
		}
	}
	return out
}

func decodeMemberTypeInfo(buf []byte, memberCount int) (MemberTypeInfo, int, error) {
	off := 0
	if memberCount < 0 || off+memberCount > len(buf) {
		return MemberTypeInfo{}, 0, ErrTruncatedInput
	}
	tags := make([]BinaryTypeTag, memberCount)
	for i := 0; i < memberCount; i++ {
		tags[i] = BinaryTypeTag(buf[off])
		off++
	}

	additional := make([]interface{}, memberCount)
	for i, t := range tags {
		switch additionalInfoFor(t) {
		case 'p':
			if off >= len(buf) {
				return MemberTypeInfo{}, 0, ErrTruncatedInput
			}
			additional[i] = PrimitiveTypeTag(buf[off])
			off++
		case 's':
			name, n, err := unpackString(buf[off:])
			if err != nil {
				return MemberTypeInfo{}, 0, err
			}
			additional[i] = name
			off += n
		case 'c':
			cti, n, err := decodeClassTypeInfo(buf[off:])
			if err != nil {
				return MemberTypeInfo{}, 0, err
			}
			additional[i] = cti
			off += n
		}
	}
	return MemberTypeInfo{Tags: tags, Additional: additional}, off, nil
}

// ArrayInfo carries the id and declared length of an array record.
type ArrayInfo struct {
	ObjectID int32
	Length   int32
}

func (a ArrayInfo) encode() []byte {
	out := packInt32(a.ObjectID)
	return append(out, packInt32(a.Length)...)
}

func decodeArrayInfo(buf []byte) (ArrayInfo, int, error) {
	id, n1, err := unpackInt32(buf)
	if err != nil {
		return ArrayInfo{}, 0, err
	}
	length, n2, err := unpackInt32(buf[n1:])
	if err != nil {
		return ArrayInfo{}, 0, err
	}
	return ArrayInfo{ObjectID: id, Length: length}, n1 + n2, nil
}

// ValueWithCode is a self-describing primitive value: a one-byte
// PrimitiveTypeTag followed by the value encoded under that tag.
type ValueWithCode struct {
	Tag   PrimitiveTypeTag
	Value interface{}
}

func (v ValueWithCode) encode() ([]byte, error) {
	out := []byte{byte(v.Tag)}
	enc, err := encodePrimitive(v.Tag, v.Value)
	if err != nil {
		return nil, err
	}
	return append(out, enc...), nil
}

func decodeValueWithCode(buf []byte) (ValueWithCode, int, error) {
	if len(buf) < 1 {
		return ValueWithCode{}, 0, ErrTruncatedInput
	}
	tag := PrimitiveTypeTag(buf[0])
	val, n, err := decodePrimitive(tag, buf[1:])
	if err != nil {
		return ValueWithCode{}, 0, err
	}
	return ValueWithCode{Tag: tag, Value: val}, n + 1, nil
}

// ArrayOfValueWithCode is a length-prefixed sequence of ValueWithCode,
// used to carry inline method call arguments.
type ArrayOfValueWithCode struct {
	Values []ValueWithCode
}

func (a ArrayOfValueWithCode) encode() ([]byte, error) {
	out := packInt32(int32(len(a.Values)))
	for _, v := range a.Values {
		enc, err := v.encode()
		if err != nil {
			return nil, err
		}
		out = append(out, enc...)
	}
	return out, nil
}

func decodeArrayOfValueWithCode(buf []byte) (ArrayOfValueWithCode, int, error) {
	count, off, err := unpackInt32(buf)
	if err != nil {
		return ArrayOfValueWithCode{}, 0, err
	}
	if count < 0 {
		return ArrayOfValueWithCode{}, 0, fmt.Errorf("%w: negative arg count", ErrMalformedValue)
	}
	values := make([]ValueWithCode, count)
	for i := range values {
		v, n, err := decodeValueWithCode(buf[off:])
		if err != nil {
			return ArrayOfValueWithCode{}, 0, err
		}
		values[i] = v
		off += n
	}
	return ArrayOfValueWithCode{Values: values}, off, nil
}

// StringValueWithCode is ValueWithCode specialized to String (enum 18),
// used for BinaryMethodCall/Return's MethodName and TypeName fields.
type StringValueWithCode struct {
	Value string
}

func (s StringValueWithCode) encode() []byte {
	out := []byte{byte(PrimitiveString)}
	return append(out, packString(s.Value)...)
}

func decodeStringValueWithCode(buf []byte) (StringValueWithCode, int, error) {
	if len(buf) < 1 {
		return StringValueWithCode{}, 0, ErrTruncatedInput
	}
	if PrimitiveTypeTag(buf[0]) != PrimitiveString {
		return StringValueWithCode{}, 0, fmt.Errorf("%w: expected String code, got %s",
			ErrMalformedValue, PrimitiveTypeTag(buf[0]))
	}
	s, n, err := unpackString(buf[1:])
	if err != nil {
		return StringValueWithCode{}, 0, err
	}
	return StringValueWithCode{Value: s}, n + 1, nil
}
