// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package msnrbf

import "fmt"

// headerReturnMajor and headerReturnMinor are the SerializationHeader
// version fields the encoder writes for a method return that carries a
// call array. MS-NRBF 2.6.1 derives these from root-object placement;
// the reference implementation hard-codes them instead, and this
// encoder preserves that deviation for wire compatibility.
const (
	headerReturnMajor = 1
	headerReturnMinor = 0
)

// graphBuilder walks an in-memory object graph and emits it as an
// ordered NRBF record sequence, assigning object ids as it goes and
// detecting two distinct kinds of repetition: the same *ClassInstance or
// *ArrayInstance appearing twice (emitted as a MemberReference), and a
// class name appearing twice with different instances (emitted as
// ClassWithId against the first instance's metadata).
type graphBuilder struct {
	ctxt *MessageContext

	seenObjects map[interface{}]int32
	seenShapes  map[classKey]int32
}

func newGraphBuilder(ctxt *MessageContext) *graphBuilder {
	return &graphBuilder{
		ctxt:        ctxt,
		seenObjects: make(map[interface{}]int32),
		seenShapes:  make(map[classKey]int32),
	}
}

// encodeCallArray emits the ArraySingleObject header for a method's call
// array followed by one emitted slot per element, in order.
func (b *graphBuilder) encodeCallArray(values []interface{}) ([]byte, error) {
	id := b.ctxt.NextID()
	info := ArrayInfo{ObjectID: id, Length: int32(len(values))}
	out, err := ArraySingleObject{ArrayInfo: info}.Encode()
	if err != nil {
		return nil, err
	}
	for _, v := range values {
		enc, err := b.encodeSlot(v, nil)
		if err != nil {
			return nil, err
		}
		out = append(out, enc...)
	}
	return out, nil
}

// encodeSlot emits one logical member slot. spec is non-nil when the
// slot is a declared class member (governing whether a primitive is
// written raw or self-describing); nil means a call-array or
// object-array element, always self-describing.
func (b *graphBuilder) encodeSlot(v interface{}, spec *MemberSpec) ([]byte, error) {
	if v == nil {
		return ObjectNull{}.Encode()
	}
	switch val := v.(type) {
	case *ClassInstance:
		return b.encodeClass(val)
	case *ArrayInstance:
		return b.encodeArray(val)
	case string:
		return b.encodeString(val, spec)
	default:
		if spec != nil && spec.Tag == BinaryPrimitive {
			return encodePrimitive(spec.PrimTag, v)
		}
		tag, err := primitiveTagFor(v)
		if err != nil {
			return nil, err
		}
		return MemberPrimitiveTyped{Tag: tag, Value: v}.Encode()
	}
}

// primitiveTagFor infers the PrimitiveTypeTag matching v's concrete Go
// type, for self-describing (MemberPrimitiveTyped) emission.
func primitiveTagFor(v interface{}) (PrimitiveTypeTag, error) {
	switch v.(type) {
	case bool:
		return PrimitiveBoolean, nil
	case byte:
		return PrimitiveByte, nil
	case Decimal:
		return PrimitiveDecimal, nil
	case float64:
		return PrimitiveDouble, nil
	case int16:
		return PrimitiveInt16, nil
	case int32:
		return PrimitiveInt32, nil
	case int64:
		return PrimitiveInt64, nil
	case int8:
		return PrimitiveSByte, nil
	case float32:
		return PrimitiveSingle, nil
	case TimeSpan:
		return PrimitiveTimeSpan, nil
	case DateTime:
		return PrimitiveDateTime, nil
	case uint16:
		return PrimitiveUInt16, nil
	case uint32:
		return PrimitiveUInt32, nil
	case uint64:
		return PrimitiveUInt64, nil
	case string:
		return PrimitiveString, nil
	default:
		return 0, fmt.Errorf("%w: cannot infer a primitive tag for %T", ErrMalformedValue, v)
	}
}

// encodeClass emits one class instance: a MemberReference if this exact
// instance was already emitted, a ClassWithId if this class's shape was
// already emitted (under a different instance), or a full
// ClassWithMembersAndTypes / SystemClassWithMembersAndTypes otherwise.
func (b *graphBuilder) encodeClass(inst *ClassInstance) ([]byte, error) {
	if id, ok := b.seenObjects[inst]; ok {
		return MemberReference{IDRef: id}.Encode()
	}
	id := b.ctxt.NextID()
	b.seenObjects[inst] = id

	key := classKey{library: inst.Class.Library, name: inst.Class.Name}
	if metaID, ok := b.seenShapes[key]; ok {
		head, err := ClassWithID{ObjectID: id, MetadataID: metaID}.Encode()
		if err != nil {
			return nil, err
		}
		return b.appendMembers(head, inst)
	}
	b.seenShapes[key] = id

	ci := ClassInfo{ObjectID: id, Name: inst.Class.Name, MemberNames: inst.Class.MemberNames()}
	mi := inst.Class.MemberInfo()

	var head []byte
	if inst.Class.IsSystem() {
		rec := SystemClassWithMembersAndTypes{ClassInfo: ci, MemberInfo: mi}
		recBytes, err := rec.Encode()
		if err != nil {
			return nil, err
		}
		head = recBytes
	} else {
		libID, known := b.ctxt.LibraryID(inst.Class.Library)
		if !known {
			libID = b.ctxt.NextID()
			if err := b.ctxt.AddLibrary(libID, inst.Class.Library); err != nil {
				return nil, err
			}
			libBytes, err := BinaryLibrary{LibraryID: libID, Name: inst.Class.Library}.Encode()
			if err != nil {
				return nil, err
			}
			head = append(head, libBytes...)
		}
		rec := ClassWithMembersAndTypes{ClassInfo: ci, MemberInfo: mi, LibraryID: libID}
		recBytes, err := rec.Encode()
		if err != nil {
			return nil, err
		}
		head = append(head, recBytes...)
	}

	return b.appendMembers(head, inst)
}

func (b *graphBuilder) appendMembers(head []byte, inst *ClassInstance) ([]byte, error) {
	if len(inst.Values) != len(inst.Class.Members) {
		return nil, fmt.Errorf("%w: %s declares %d members, instance carries %d values",
			ErrUnknownMember, inst.Class.Name, len(inst.Class.Members), len(inst.Values))
	}
	for i, m := range inst.Class.Members {
		spec := m
		enc, err := b.encodeSlot(inst.Values[i], &spec)
		if err != nil {
			return nil, fmt.Errorf("encoding member %q of %s: %w", m.WireName, inst.Class.Name, err)
		}
		head = append(head, enc...)
	}
	return head, nil
}

// encodeArray emits one ArraySingleObject array instance, or a
// MemberReference if this exact instance was already emitted.
func (b *graphBuilder) encodeArray(arr *ArrayInstance) ([]byte, error) {
	if id, ok := b.seenObjects[arr]; ok {
		return MemberReference{IDRef: id}.Encode()
	}
	id := b.ctxt.NextID()
	b.seenObjects[arr] = id

	info := ArrayInfo{ObjectID: id, Length: int32(len(arr.Values))}
	head, err := ArraySingleObject{ArrayInfo: info}.Encode()
	if err != nil {
		return nil, err
	}
	for _, v := range arr.Values {
		enc, err := b.encodeSlot(v, nil)
		if err != nil {
			return nil, err
		}
		head = append(head, enc...)
	}
	return head, nil
}

// encodeString interns s: reusing a prior BinaryObjectString's id via a
// MemberReference on a hit, or allocating a new id and recording it.
// Declared-primitive String members (binary tag Primitive, primitive tag
// String) are written raw instead, matching MemberPrimitiveUnTyped.
func (b *graphBuilder) encodeString(s string, spec *MemberSpec) ([]byte, error) {
	if spec != nil && spec.Tag == BinaryPrimitive {
		return encodePrimitive(PrimitiveString, s)
	}
	if id, ok := b.ctxt.InternString(s); ok {
		return MemberReference{IDRef: id}.Encode()
	}
	id := b.ctxt.NextID()
	b.ctxt.SetInternedString(s, id)
	return BinaryObjectString{ObjectID: id, Value: s}.Encode()
}

// BuildMethodCall constructs a RemotingMessage for a remote method
// invocation whose arguments are carried in a trailing call array, the
// shape observed in real NRTP traffic (MS-NRTP 3.1.5.1.1).
func BuildMethodCall(reg *ClassRegistry, typeName, methodName string, args []interface{}) *RemotingMessage {
	flags := NewCallMessageFlags(len(args) > 0)
	return &RemotingMessage{
		Header:    SerializationHeader{RootID: 1, HeaderID: -1, MajorVersion: 1, MinorVersion: 0},
		Call:      &BinaryMethodCall{Flags: flags, MethodName: methodName, TypeName: typeName},
		CallArray: args,
		ctxt:      NewMessageContext(reg),
	}
}

// BuildMethodReturn constructs a RemotingMessage for a method return
// carrying either a value or an exception in a trailing call array,
// mirroring RemotingMessage.build_method_return. Exactly one of value,
// exception should be non-nil.
func BuildMethodReturn(reg *ClassRegistry, value interface{}, exception *ClassInstance) *RemotingMessage {
	var payload interface{}
	if exception != nil {
		payload = exception
	} else {
		payload = value
	}
	flags := NewReturnMessageFlags(exception != nil)
	return &RemotingMessage{
		Header: SerializationHeader{
			RootID: 1, HeaderID: -1,
			MajorVersion: headerReturnMajor, MinorVersion: headerReturnMinor,
		},
		Return:    &BinaryMethodReturn{Flags: flags},
		CallArray: []interface{}{payload},
		ctxt:      NewMessageContext(reg),
	}
}
