// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package msnrbf

import "fmt"

// RemotingMessage is a fully decoded (or not-yet-encoded) NRBF payload: a
// header, exactly one method record, and — when the method's flags call
// for it — the resolved values of its trailing call array.
type RemotingMessage struct {
	Header SerializationHeader
	Call   *BinaryMethodCall
	Return *BinaryMethodReturn

	// InlineArgs holds BinaryMethodCall's inline arguments when
	// Flags.ArgsInline() is set instead of ArgsInArray().
	InlineArgs *ArrayOfValueWithCode

	// CallArray holds the resolved elements of the trailing call array,
	// present whenever Flags.HasCallArray() is true.
	CallArray []interface{}

	ctxt *MessageContext
}

// Context returns the Message Context this message was decoded or built
// with. Exposed for collaborators (the server's dispatcher) that need to
// inspect declared libraries or classes. Encode does not write into it;
// each Encode call uses a fresh context over the same registry.
func (m *RemotingMessage) Context() *MessageContext { return m.ctxt }

// slotSpec describes how one logical member slot must be decoded: either
// a fixed BinaryTypeTag known up front (a declared class member) or
// self-describing (a call-array / object-array element, whose concrete
// record tag is read off the wire).
type slotSpec struct {
	typed     bool
	tag       BinaryTypeTag
	prim      PrimitiveTypeTag
	className string
}

func untypedSlot() slotSpec { return slotSpec{typed: false} }

func typedSlot(m MemberSpec) slotSpec {
	return slotSpec{typed: true, tag: m.Tag, prim: m.PrimTag, className: m.ClassName}
}

// validateSlotKind checks that the wire record actually produced is one
// of the shapes the declared BinaryTypeTag permits. Untyped slots accept
// anything referenceable plus MemberPrimitiveTyped.
func validateSlotKind(spec slotSpec, got RecordKind) error {
	if !spec.typed {
		return nil
	}
	switch spec.tag {
	case BinaryString:
		switch got {
		case RecordBinaryObjectString, RecordMemberReference, RecordObjectNull,
			RecordObjectNullMultiple256, RecordObjectNullMultiple:
			return nil
		}
	case BinaryClass, BinarySystemClass, BinaryObject:
		switch got {
		case RecordClassWithID, RecordClassWithMembers, RecordClassWithMembersTypes,
			RecordSystemClassWithMembers, RecordSystemClassWithMembersTypes,
			RecordMemberReference, RecordObjectNull, RecordObjectNullMultiple256,
			RecordObjectNullMultiple, RecordBinaryLibrary:
			return nil
		}
	case BinaryObjectArray, BinaryStringArray, BinaryPrimitiveArray:
		switch got {
		case RecordArraySingleObject, RecordArraySinglePrimitive, RecordArraySingleString,
			RecordMemberReference, RecordObjectNull, RecordObjectNullMultiple256,
			RecordObjectNullMultiple:
			return nil
		}
	default:
		return nil
	}
	return fmt.Errorf("%w: member declared %s, wire record is %s", ErrTypeMismatch, spec.tag, got)
}

// decodeMemberSequence consumes len(slots) logical member slots from the
// front of buf, invoking setAt(i, value) for each as it resolves
// (immediately, or later via MessageContext's pending-reference drain).
// ObjectNullMultiple[256] records collapse several consecutive slots
// into one wire record, per MS-NRBF 2.4.3.3/2.4.3.4.
func decodeMemberSequence(buf []byte, ctxt *MessageContext, slots []slotSpec, setAt func(i int, v interface{})) (int, error) {
	off := 0
	i := 0
	for i < len(slots) {
		spec := slots[i]

		if spec.typed && spec.tag == BinaryPrimitive {
			v, n, err := decodePrimitive(spec.prim, buf[off:])
			if err != nil {
				return 0, err
			}
			setAt(i, v)
			off += n
			i++
			continue
		}

		if off >= len(buf) {
			return 0, ErrTruncatedInput
		}
		kind := RecordKind(buf[off])

		if kind == RecordBinaryLibrary {
			lib, n, err := decodeBinaryLibrary(buf[off+1:])
			if err != nil {
				return 0, err
			}
			if err := ctxt.AddLibrary(lib.LibraryID, lib.Name); err != nil {
				return 0, err
			}
			off += 1 + n
			continue
		}

		if err := validateSlotKind(spec, kind); err != nil {
			return 0, err
		}

		switch kind {
		case RecordMemberReference:
			ref, n, err := decodeMemberReference(buf[off+1:])
			if err != nil {
				return 0, err
			}
			idx := i
			ctxt.AddReference(ref.IDRef, func(v interface{}) { setAt(idx, v) })
			off += 1 + n
			i++

		case RecordObjectNull:
			setAt(i, nil)
			off++
			i++

		case RecordObjectNullMultiple256:
			c, n, err := decodeObjectNullMultiple256(buf[off+1:])
			if err != nil {
				return 0, err
			}
			count := int(c.Count)
			for k := 0; k < count && i+k < len(slots); k++ {
				setAt(i+k, nil)
			}
			i += count
			off += 1 + n

		case RecordObjectNullMultiple:
			c, n, err := decodeObjectNullMultiple(buf[off+1:])
			if err != nil {
				return 0, err
			}
			count := int(c.Count)
			for k := 0; k < count && i+k < len(slots); k++ {
				setAt(i+k, nil)
			}
			i += count
			off += 1 + n

		case RecordBinaryObjectString:
			s, n, err := decodeBinaryObjectString(buf[off+1:])
			if err != nil {
				return 0, err
			}
			if err := ctxt.AddRefable(s.ObjectID, s.Value); err != nil {
				return 0, err
			}
			setAt(i, s.Value)
			off += 1 + n
			i++

		case RecordMemberPrimitiveTyped:
			mp, n, err := decodeMemberPrimitiveTyped(buf[off+1:])
			if err != nil {
				return 0, err
			}
			setAt(i, mp.Value)
			off += 1 + n
			i++

		case RecordClassWithID, RecordClassWithMembers, RecordClassWithMembersTypes,
			RecordSystemClassWithMembers, RecordSystemClassWithMembersTypes:
			inst, n, err := decodeClassToken(buf[off:], ctxt)
			if err != nil {
				return 0, err
			}
			setAt(i, inst)
			off += n
			i++

		case RecordArraySingleObject, RecordArraySinglePrimitive, RecordArraySingleString:
			arr, n, err := decodeArraysToken(buf[off:], ctxt)
			if err != nil {
				return 0, err
			}
			setAt(i, arr)
			off += n
			i++

		default:
			return 0, fmt.Errorf("%w: tag %d in member sequence", ErrUnknownRecordTag, buf[off])
		}
	}
	return off, nil
}

// decodeClassToken decodes exactly one class record variant and the
// member values that follow it in declaration order (for ClassWithId,
// the members of the class its MetadataID names), returning the
// reconstructed instance.
func decodeClassToken(buf []byte, ctxt *MessageContext) (*ClassInstance, int, error) {
	rec, n, err := DecodeRecord(buf, ctxt.maxArrayLength)
	if err != nil {
		return nil, 0, err
	}

	switch r := rec.(type) {
	case ClassWithID:
		class, library, err := ctxt.LookupClass(absID(r.MetadataID))
		if err != nil {
			return nil, 0, err
		}
		inst := class.NewInstance()
		slots := make([]slotSpec, len(class.Members))
		for i, m := range class.Members {
			slots[i] = typedSlot(m)
		}
		consumed, err := decodeMemberSequence(buf[n:], ctxt, slots, func(i int, v interface{}) { inst.Values[i] = v })
		if err != nil {
			return nil, 0, err
		}
		if r.ObjectID > 0 {
			if err := ctxt.AddRefable(r.ObjectID, inst); err != nil {
				return nil, 0, err
			}
		}
		_ = library
		return inst, n + consumed, nil

	case ClassWithMembers:
		libName, err := ctxt.LibraryName(r.LibraryID)
		if err != nil {
			return nil, 0, err
		}
		class, ok := ctxt.Registry.Lookup(libName, r.ClassInfo.Name)
		if !ok {
			return nil, 0, fmt.Errorf("%w: %s/%s", ErrUnknownClass, libName, r.ClassInfo.Name)
		}
		inst := class.NewInstance()
		slots := make([]slotSpec, len(class.Members))
		for i, m := range class.Members {
			slots[i] = typedSlot(m)
		}
		consumed, err := decodeMemberSequence(buf[n:], ctxt, slots, func(i int, v interface{}) { inst.Values[i] = v })
		if err != nil {
			return nil, 0, err
		}
		if err := ctxt.AddClass(absID(r.ClassInfo.ObjectID), class, libName); err != nil {
			return nil, 0, err
		}
		if r.ClassInfo.ObjectID > 0 {
			if err := ctxt.AddRefable(r.ClassInfo.ObjectID, inst); err != nil {
				return nil, 0, err
			}
		}
		return inst, n + consumed, nil

	case SystemClassWithMembers:
		class, ok := ctxt.Registry.Lookup(SystemLib, r.ClassInfo.Name)
		if !ok {
			return nil, 0, fmt.Errorf("%w: %s/%s", ErrUnknownClass, SystemLib, r.ClassInfo.Name)
		}
		inst := class.NewInstance()
		slots := make([]slotSpec, len(class.Members))
		for i, m := range class.Members {
			slots[i] = typedSlot(m)
		}
		consumed, err := decodeMemberSequence(buf[n:], ctxt, slots, func(i int, v interface{}) { inst.Values[i] = v })
		if err != nil {
			return nil, 0, err
		}
		if err := ctxt.AddClass(absID(r.ClassInfo.ObjectID), class, SystemLib); err != nil {
			return nil, 0, err
		}
		if r.ClassInfo.ObjectID > 0 {
			if err := ctxt.AddRefable(r.ClassInfo.ObjectID, inst); err != nil {
				return nil, 0, err
			}
		}
		return inst, n + consumed, nil

	case ClassWithMembersAndTypes:
		libName, err := ctxt.LibraryName(r.LibraryID)
		if err != nil {
			return nil, 0, err
		}
		class := classFromWire(r.ClassInfo, r.MemberInfo, libName)
		inst := class.NewInstance()
		slots := slotsFromMemberInfo(r.MemberInfo)
		consumed, err := decodeMemberSequence(buf[n:], ctxt, slots, func(i int, v interface{}) { inst.Values[i] = v })
		if err != nil {
			return nil, 0, err
		}
		if err := ctxt.AddClass(absID(r.ClassInfo.ObjectID), class, libName); err != nil {
			return nil, 0, err
		}
		if r.ClassInfo.ObjectID > 0 {
			if err := ctxt.AddRefable(r.ClassInfo.ObjectID, inst); err != nil {
				return nil, 0, err
			}
		}
		return inst, n + consumed, nil

	case SystemClassWithMembersAndTypes:
		class := classFromWire(r.ClassInfo, r.MemberInfo, SystemLib)
		inst := class.NewInstance()
		slots := slotsFromMemberInfo(r.MemberInfo)
		consumed, err := decodeMemberSequence(buf[n:], ctxt, slots, func(i int, v interface{}) { inst.Values[i] = v })
		if err != nil {
			return nil, 0, err
		}
		if err := ctxt.AddClass(absID(r.ClassInfo.ObjectID), class, SystemLib); err != nil {
			return nil, 0, err
		}
		if r.ClassInfo.ObjectID > 0 {
			if err := ctxt.AddRefable(r.ClassInfo.ObjectID, inst); err != nil {
				return nil, 0, err
			}
		}
		return inst, n + consumed, nil

	default:
		return nil, 0, fmt.Errorf("%w: %s is not a class record", ErrMalformedValue, rec.Kind())
	}
}

// absID normalizes a class record's object id for metadata-table
// indexing. A negative object id marks a "by-value, non-referenceable"
// class appearance, per spec.md section 4.3; ClassWithId may echo that
// negative id as its MetadataID, so lookups and registrations both key
// on the absolute value rather than the raw (possibly negative) one.
func absID(id int32) int32 {
	if id < 0 {
		return -id
	}
	return id
}

// classFromWire builds an ephemeral RemotingClass from a fully
// self-described *WithMembersAndTypes record — the wire already carries
// every member's name and type tag, so no registry lookup is required.
func classFromWire(ci ClassInfo, mi MemberTypeInfo, library string) *RemotingClass {
	members := make([]MemberSpec, len(ci.MemberNames))
	for i, name := range ci.MemberNames {
		m := MemberSpec{WireName: name, Tag: mi.Tags[i]}
		switch additionalInfoFor(m.Tag) {
		case 'p':
			m.PrimTag = mi.Additional[i].(PrimitiveTypeTag)
		case 's', 'c':
			if cti, ok := mi.Additional[i].(ClassTypeInfo); ok {
				m.ClassName = cti.TypeName
			} else {
				m.ClassName = mi.Additional[i].(string)
			}
		}
		members[i] = m
	}
	return &RemotingClass{Name: ci.Name, Library: library, Members: members}
}

func slotsFromMemberInfo(mi MemberTypeInfo) []slotSpec {
	slots := make([]slotSpec, len(mi.Tags))
	for i, tag := range mi.Tags {
		s := slotSpec{typed: true, tag: tag}
		switch additionalInfoFor(tag) {
		case 'p':
			s.prim = mi.Additional[i].(PrimitiveTypeTag)
		case 's':
			s.className = mi.Additional[i].(string)
		case 'c':
			s.className = mi.Additional[i].(ClassTypeInfo).TypeName
		}
		slots[i] = s
	}
	return slots
}

// decodeArraysToken decodes exactly one array record variant, plus (for
// ArraySingleObject and ArraySingleString) the element values that
// follow it, returning an *ArrayInstance or, for ArraySinglePrimitive, a
// plain []interface{} of scalars.
func decodeArraysToken(buf []byte, ctxt *MessageContext) (interface{}, int, error) {
	rec, n, err := DecodeRecord(buf, ctxt.maxArrayLength)
	if err != nil {
		return nil, 0, err
	}

	switch r := rec.(type) {
	case ArraySingleObject:
		length := int(r.ArrayInfo.Length)
		if length < 0 {
			return nil, 0, fmt.Errorf("%w: negative array length", ErrMalformedValue)
		}
		if length > ctxt.maxArrayLength {
			return nil, 0, fmt.Errorf("%w: array length %d exceeds max %d", ErrLimitExceeded, length, ctxt.maxArrayLength)
		}
		arr := &ArrayInstance{Values: make([]interface{}, length)}
		slots := make([]slotSpec, length)
		for i := range slots {
			slots[i] = untypedSlot()
		}
		consumed, err := decodeMemberSequence(buf[n:], ctxt, slots, func(i int, v interface{}) { arr.Values[i] = v })
		if err != nil {
			return nil, 0, err
		}
		if r.ArrayInfo.ObjectID > 0 {
			if err := ctxt.AddRefable(r.ArrayInfo.ObjectID, arr); err != nil {
				return nil, 0, err
			}
		}
		return arr, n + consumed, nil

	case ArraySingleString:
		length := int(r.ArrayInfo.Length)
		if length < 0 {
			return nil, 0, fmt.Errorf("%w: negative array length", ErrMalformedValue)
		}
		if length > ctxt.maxArrayLength {
			return nil, 0, fmt.Errorf("%w: array length %d exceeds max %d", ErrLimitExceeded, length, ctxt.maxArrayLength)
		}
		arr := &ArrayInstance{Values: make([]interface{}, length)}
		slots := make([]slotSpec, length)
		for i := range slots {
			slots[i] = slotSpec{typed: true, tag: BinaryString}
		}
		consumed, err := decodeMemberSequence(buf[n:], ctxt, slots, func(i int, v interface{}) { arr.Values[i] = v })
		if err != nil {
			return nil, 0, err
		}
		if r.ArrayInfo.ObjectID > 0 {
			if err := ctxt.AddRefable(r.ArrayInfo.ObjectID, arr); err != nil {
				return nil, 0, err
			}
		}
		return arr, n + consumed, nil

	case ArraySinglePrimitive:
		if r.ArrayInfo.ObjectID > 0 {
			if err := ctxt.AddRefable(r.ArrayInfo.ObjectID, r.Values); err != nil {
				return nil, 0, err
			}
		}
		return r.Values, n, nil

	default:
		return nil, 0, fmt.Errorf("%w: %s is not an array record", ErrMalformedValue, rec.Kind())
	}
}

// DecodeMessage decodes one complete NRBF payload (the bytes inside an
// NRTP SingleMessage) into a RemotingMessage. reg may be nil to use
// DefaultRegistry. opts may be nil to use every DecodeOptions default;
// its caps are checked before any allocation sized from a wire-carried
// array length or referenceable count.
func DecodeMessage(buf []byte, reg *ClassRegistry, opts *DecodeOptions) (*RemotingMessage, error) {
	var o DecodeOptions
	if opts != nil {
		o = *opts
	}
	o.fillDefaults()

	ctxt := NewMessageContext(reg)
	ctxt.setLimits(o)
	off := 0

	rec, n, err := DecodeRecord(buf[off:], ctxt.maxArrayLength)
	if err != nil {
		return nil, err
	}
	header, ok := rec.(SerializationHeader)
	if !ok {
		return nil, fmt.Errorf("%w: message does not start with SerializationHeader", ErrMalformedValue)
	}
	off += n

	msg := &RemotingMessage{Header: header, ctxt: ctxt}

	// Optional leading BinaryLibrary records attach to the method record.
	for off < len(buf) && RecordKind(buf[off]) == RecordBinaryLibrary {
		lib, n, err := decodeBinaryLibrary(buf[off+1:])
		if err != nil {
			return nil, err
		}
		if err := ctxt.AddLibrary(lib.LibraryID, lib.Name); err != nil {
			return nil, err
		}
		off += 1 + n
	}

	if off >= len(buf) {
		return nil, ErrTruncatedInput
	}
	methodKind := RecordKind(buf[off])

	var flags MessageFlags
	switch methodKind {
	case RecordBinaryMethodCall:
		rec, n, err := DecodeRecord(buf[off:], ctxt.maxArrayLength)
		if err != nil {
			return nil, err
		}
		call := rec.(BinaryMethodCall)
		msg.Call = &call
		flags = call.Flags
		off += n
		if flags.ArgsInline() {
			args, n, err := decodeArrayOfValueWithCode(buf[off:])
			if err != nil {
				return nil, err
			}
			msg.InlineArgs = &args
			off += n
		}
	case RecordBinaryMethodReturn:
		rec, n, err := DecodeRecord(buf[off:], ctxt.maxArrayLength)
		if err != nil {
			return nil, err
		}
		ret := rec.(BinaryMethodReturn)
		msg.Return = &ret
		flags = ret.Flags
		off += n
	default:
		return nil, fmt.Errorf("%w: expected method record, got tag %d", ErrMalformedValue, buf[off])
	}

	if flags.HasCallArray() {
		arr, n, err := decodeArraysToken(buf[off:], ctxt)
		if err != nil {
			return nil, err
		}
		ai, ok := arr.(*ArrayInstance)
		if !ok {
			return nil, fmt.Errorf("%w: call array is not ArraySingleObject", ErrMalformedValue)
		}
		msg.CallArray = ai.Values
		off += n
	}

	// Zero or more additional referenceables may still appear (classes
	// whose only reference is from within the call array, resolved by
	// position rather than as the array's direct element).
	for off < len(buf) {
		kind := RecordKind(buf[off])
		if kind == RecordMessageEnd {
			break
		}
		if kind == RecordBinaryLibrary {
			lib, n, err := decodeBinaryLibrary(buf[off+1:])
			if err != nil {
				return nil, err
			}
			if err := ctxt.AddLibrary(lib.LibraryID, lib.Name); err != nil {
				return nil, err
			}
			off += 1 + n
			continue
		}
		switch kind {
		case RecordClassWithID, RecordClassWithMembers, RecordClassWithMembersTypes,
			RecordSystemClassWithMembers, RecordSystemClassWithMembersTypes:
			_, n, err := decodeClassToken(buf[off:], ctxt)
			if err != nil {
				return nil, err
			}
			off += n
		case RecordArraySingleObject, RecordArraySinglePrimitive, RecordArraySingleString:
			_, n, err := decodeArraysToken(buf[off:], ctxt)
			if err != nil {
				return nil, err
			}
			off += n
		case RecordBinaryObjectString:
			rec, n, err := DecodeRecord(buf[off:], ctxt.maxArrayLength)
			if err != nil {
				return nil, err
			}
			s := rec.(BinaryObjectString)
			if err := ctxt.AddRefable(s.ObjectID, s.Value); err != nil {
				return nil, err
			}
			off += n
		default:
			if !ctxt.HasPending() {
				// Not a referenceable and nothing is waiting on one;
				// stop and let the MessageEnd check below report the
				// real problem.
				goto endCheck
			}
			return nil, fmt.Errorf("%w: tag %d while references are pending", ErrUnknownRecordTag, buf[off])
		}
	}
endCheck:

	if ctxt.HasPending() {
		return nil, ErrUnresolvedReference
	}

	if off >= len(buf) || RecordKind(buf[off]) != RecordMessageEnd {
		return nil, fmt.Errorf("%w: message does not end with MessageEnd", ErrMalformedValue)
	}

	return msg, nil
}

// Encode serializes m back to its NRBF byte representation. The call
// array is re-emitted from CallArray by the graph builder against a fresh
// Message Context, so object and library ids are allocated anew, in walk
// order, on every call. A message this package encoded and then decoded
// re-encodes to the same bytes. Input laid out differently (other id
// numbering, null runs collapsed into ObjectNullMultiple records,
// referenceables placed after the call array) is not reproduced
// byte-for-byte.
func (m *RemotingMessage) Encode() ([]byte, error) {
	hdr, err := m.Header.Encode()
	if err != nil {
		return nil, err
	}
	out := hdr

	switch {
	case m.Call != nil:
		callBytes, err := m.Call.Encode()
		if err != nil {
			return nil, err
		}
		out = append(out, callBytes...)
		if m.Call.Flags.ArgsInline() && m.InlineArgs != nil {
			argBytes, err := m.InlineArgs.encode()
			if err != nil {
				return nil, err
			}
			out = append(out, argBytes...)
		}
	case m.Return != nil:
		retBytes, err := m.Return.Encode()
		if err != nil {
			return nil, err
		}
		out = append(out, retBytes...)
	default:
		return nil, fmt.Errorf("%w: message has neither a call nor a return", ErrMalformedValue)
	}

	var flags MessageFlags
	if m.Call != nil {
		flags = m.Call.Flags
	} else {
		flags = m.Return.Flags
	}

	if flags.HasCallArray() {
		var reg *ClassRegistry
		if m.ctxt != nil {
			reg = m.ctxt.Registry
		}
		b := newGraphBuilder(NewMessageContext(reg))
		arrBytes, err := b.encodeCallArray(m.CallArray)
		if err != nil {
			return nil, err
		}
		out = append(out, arrBytes...)
	}

	end, err := MessageEnd{}.Encode()
	if err != nil {
		return nil, err
	}
	out = append(out, end...)
	return out, nil
}
