// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package msnrbf

import "fmt"

// PrimitiveTypeTag identifies the wire shape of a primitive value, per
// MS-NRBF 2.1.1.
type PrimitiveTypeTag byte

// Primitive type tag values, matching the MS-NRBF enumeration.
const (
	PrimitiveBoolean  PrimitiveTypeTag = 1
	PrimitiveByte     PrimitiveTypeTag = 2
	PrimitiveChar     PrimitiveTypeTag = 3
	PrimitiveDecimal  PrimitiveTypeTag = 5
	PrimitiveDouble   PrimitiveTypeTag = 6
	PrimitiveInt16    PrimitiveTypeTag = 7
	PrimitiveInt32    PrimitiveTypeTag = 8
	PrimitiveInt64    PrimitiveTypeTag = 9
	PrimitiveSByte    PrimitiveTypeTag = 10
	PrimitiveSingle   PrimitiveTypeTag = 11
	PrimitiveTimeSpan PrimitiveTypeTag = 12
	PrimitiveDateTime PrimitiveTypeTag = 13
	PrimitiveUInt16   PrimitiveTypeTag = 14
	PrimitiveUInt32   PrimitiveTypeTag = 15
	PrimitiveUInt64   PrimitiveTypeTag = 16
	PrimitiveNull     PrimitiveTypeTag = 17
	PrimitiveString   PrimitiveTypeTag = 18
)

func (t PrimitiveTypeTag) String() string {
	switch t {
	case PrimitiveBoolean:
		return "Boolean"
	case PrimitiveByte:
		return "Byte"
	case PrimitiveChar:
		return "Char"
	case PrimitiveDecimal:
		return "Decimal"
	case PrimitiveDouble:
		return "Double"
	case PrimitiveInt16:
		return "Int16"
	case PrimitiveInt32:
		return "Int32"
	case PrimitiveInt64:
		return "Int64"
	case PrimitiveSByte:
		return "SByte"
	case PrimitiveSingle:
		return "Single"
	case PrimitiveTimeSpan:
		return "TimeSpan"
	case PrimitiveDateTime:
		return "DateTime"
	case PrimitiveUInt16:
		return "UInt16"
	case PrimitiveUInt32:
		return "UInt32"
	case PrimitiveUInt64:
		return "UInt64"
	case PrimitiveNull:
		return "Null"
	case PrimitiveString:
		return "String"
	default:
		return fmt.Sprintf("PrimitiveTypeTag(%d)", byte(t))
	}
}

// BinaryTypeTag governs what "additional type info" follows a declared
// member, per MS-NRBF 2.1.2.
type BinaryTypeTag byte

// Binary type tag values.
const (
	BinaryPrimitive      BinaryTypeTag = 0
	BinaryString         BinaryTypeTag = 1
	BinaryObject         BinaryTypeTag = 2
	BinarySystemClass    BinaryTypeTag = 3
	BinaryClass          BinaryTypeTag = 4
	BinaryObjectArray    BinaryTypeTag = 5
	BinaryStringArray    BinaryTypeTag = 6
	BinaryPrimitiveArray BinaryTypeTag = 7
)

func (t BinaryTypeTag) String() string {
	switch t {
	case BinaryPrimitive:
		return "Primitive"
	case BinaryString:
		return "String"
	case BinaryObject:
		return "Object"
	case BinarySystemClass:
		return "SystemClass"
	case BinaryClass:
		return "Class"
	case BinaryObjectArray:
		return "ObjectArray"
	case BinaryStringArray:
		return "StringArray"
	case BinaryPrimitiveArray:
		return "PrimitiveArray"
	default:
		return fmt.Sprintf("BinaryTypeTag(%d)", byte(t))
	}
}

// RecordKind is the closed tagged union of MS-NRBF record variants. The
// leading byte on the wire discriminates; the grammar engine dispatches
// on this value rather than on subtype polymorphism.
type RecordKind byte

// Record kind values. BinaryMethodCall and BinaryMethodReturn keep their
// MS-NRBF values of 21 and 22 even though the reference implementation's
// own enumeration table collides them.
const (
	RecordSerializationHeader          RecordKind = 0
	RecordClassWithID                  RecordKind = 1
	RecordSystemClassWithMembers       RecordKind = 2
	RecordClassWithMembers             RecordKind = 3
	RecordSystemClassWithMembersTypes  RecordKind = 4
	RecordClassWithMembersTypes        RecordKind = 5
	RecordBinaryObjectString           RecordKind = 6
	RecordBinaryArray                  RecordKind = 7
	RecordMemberPrimitiveTyped         RecordKind = 8
	RecordMemberReference              RecordKind = 9
	RecordObjectNull                   RecordKind = 10
	RecordMessageEnd                   RecordKind = 11
	RecordBinaryLibrary                RecordKind = 12
	RecordObjectNullMultiple256        RecordKind = 13
	RecordObjectNullMultiple           RecordKind = 14
	RecordArraySinglePrimitive         RecordKind = 15
	RecordArraySingleObject            RecordKind = 16
	RecordArraySingleString            RecordKind = 17
	RecordBinaryMethodCall             RecordKind = 21
	RecordBinaryMethodReturn           RecordKind = 22
)

func (k RecordKind) String() string {
	switch k {
	case RecordSerializationHeader:
		return "SerializationHeader"
	case RecordClassWithID:
		return "ClassWithId"
	case RecordSystemClassWithMembers:
		return "SystemClassWithMembers"
	case RecordClassWithMembers:
		return "ClassWithMembers"
	case RecordSystemClassWithMembersTypes:
		return "SystemClassWithMembersAndTypes"
	case RecordClassWithMembersTypes:
		return "ClassWithMembersAndTypes"
	case RecordBinaryObjectString:
		return "BinaryObjectString"
	case RecordBinaryArray:
		return "BinaryArray"
	case RecordMemberPrimitiveTyped:
		return "MemberPrimitiveTyped"
	case RecordMemberReference:
		return "MemberReference"
	case RecordObjectNull:
		return "ObjectNull"
	case RecordMessageEnd:
		return "MessageEnd"
	case RecordBinaryLibrary:
		return "BinaryLibrary"
	case RecordObjectNullMultiple256:
		return "ObjectNullMultiple256"
	case RecordObjectNullMultiple:
		return "ObjectNullMultiple"
	case RecordArraySinglePrimitive:
		return "ArraySinglePrimitive"
	case RecordArraySingleObject:
		return "ArraySingleObject"
	case RecordArraySingleString:
		return "ArraySingleString"
	case RecordBinaryMethodCall:
		return "BinaryMethodCall"
	case RecordBinaryMethodReturn:
		return "BinaryMethodReturn"
	default:
		return fmt.Sprintf("RecordKind(%d)", byte(k))
	}
}

// MessageFlags is the 32-bit bitfield carried by BinaryMethodCall and
// BinaryMethodReturn records. Each named accessor reports one bit.
// Nothing in this package checks that at most one member of each flag
// family (Args, Context, ReturnValue, Exception) is set, so a message
// with a conflicting combination decodes without a flags error.
type MessageFlags uint32

// Bit positions, matching the MS-NRBF MessageEnum layout.
const (
	flagNoArgs uint32 = 1 << iota
	flagArgsInline
	flagArgsIsArray
	flagArgsInArray
	flagNoContext
	flagContextInline
	flagContextInArray
	flagMethodSignatureInArray
	flagPropertiesInArray
	flagNoReturnValue
	flagReturnValueVoid
	flagReturnValueInline
	flagReturnValueInArray
	flagExceptionInArray
	flagGenericMethod
)

func (f MessageFlags) has(bit uint32) bool { return uint32(f)&bit != 0 }

// NoArgs reports whether the method call declares no arguments.
func (f MessageFlags) NoArgs() bool { return f.has(flagNoArgs) }

// ArgsInline reports whether arguments are inlined after the record.
func (f MessageFlags) ArgsInline() bool { return f.has(flagArgsInline) }

// ArgsIsArray reports whether the sole argument is itself an array.
func (f MessageFlags) ArgsIsArray() bool { return f.has(flagArgsIsArray) }

// ArgsInArray reports whether arguments are carried in a trailing call array.
func (f MessageFlags) ArgsInArray() bool { return f.has(flagArgsInArray) }

// NoContext reports whether no call context is present.
func (f MessageFlags) NoContext() bool { return f.has(flagNoContext) }

// ContextInline reports whether the call context is inlined.
func (f MessageFlags) ContextInline() bool { return f.has(flagContextInline) }

// ContextInArray reports whether the call context is carried in the call array.
func (f MessageFlags) ContextInArray() bool { return f.has(flagContextInArray) }

// MethodSignatureInArray reports whether a generic method signature is
// carried in the call array.
func (f MessageFlags) MethodSignatureInArray() bool { return f.has(flagMethodSignatureInArray) }

// PropertiesInArray reports whether message properties are carried in
// the call array.
func (f MessageFlags) PropertiesInArray() bool { return f.has(flagPropertiesInArray) }

// NoReturnValue reports whether the method return carries no value.
func (f MessageFlags) NoReturnValue() bool { return f.has(flagNoReturnValue) }

// ReturnValueVoid reports whether the method return type is void.
func (f MessageFlags) ReturnValueVoid() bool { return f.has(flagReturnValueVoid) }

// ReturnValueInline reports whether the return value is inlined.
func (f MessageFlags) ReturnValueInline() bool { return f.has(flagReturnValueInline) }

// ReturnValueInArray reports whether the return value is carried in the
// trailing call array.
func (f MessageFlags) ReturnValueInArray() bool { return f.has(flagReturnValueInArray) }

// ExceptionInArray reports whether the method return carries an
// exception object in the call array instead of a return value.
func (f MessageFlags) ExceptionInArray() bool { return f.has(flagExceptionInArray) }

// GenericMethod reports whether the method is generic.
func (f MessageFlags) GenericMethod() bool { return f.has(flagGenericMethod) }

// HasCallArray reports whether any flag family requires a trailing
// CallArray record to follow the method record.
func (f MessageFlags) HasCallArray() bool {
	return f.ArgsInArray() || f.ReturnValueInArray() || f.ContextInArray() || f.ExceptionInArray()
}

// NewCallMessageFlags builds the MessageFlags for a BinaryMethodCall that
// carries its arguments in a trailing call array and no call context.
func NewCallMessageFlags(hasArgs bool) MessageFlags {
	var f uint32 = flagNoContext
	if hasArgs {
		f |= flagArgsInArray
	} else {
		f |= flagNoArgs
	}
	return MessageFlags(f)
}

// NewReturnMessageFlags builds the MessageFlags for a BinaryMethodReturn
// whose value (or exception) is carried in a trailing call array.
func NewReturnMessageFlags(exception bool) MessageFlags {
	f := uint32(flagNoContext)
	if exception {
		f |= flagExceptionInArray
	} else {
		f |= flagReturnValueInArray
	}
	return MessageFlags(f)
}
