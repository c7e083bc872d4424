// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package msnrbf

import "errors"

// Errors returned by the record and grammar decoders. All decode errors
// are fatal for the containing message; callers should not attempt
// partial recovery.
var (
	// ErrTruncatedInput is returned when a buffer ends in the middle of a
	// record or a length-prefixed value.
	ErrTruncatedInput = errors.New("msnrbf: truncated input")

	// ErrUnknownRecordTag is returned when the leading byte of a record
	// does not match any RecordKind in the enumeration.
	ErrUnknownRecordTag = errors.New("msnrbf: unknown record tag")

	// ErrUnsupportedVersion is returned when a SerializationHeader carries
	// a (major, minor) pair other than (1, 0).
	ErrUnsupportedVersion = errors.New("msnrbf: unsupported version")

	// ErrMalformedValue is returned when a primitive fails its own shape,
	// such as invalid UTF-8 in a string or a boolean byte outside {0, 1}.
	ErrMalformedValue = errors.New("msnrbf: malformed value")

	// ErrUnresolvedReference is returned when MessageEnd is reached while
	// pending forward references remain unresolved.
	ErrUnresolvedReference = errors.New("msnrbf: unresolved reference")

	// ErrUnknownClass is returned when a ClassWithId.MetadataID does not
	// name a class already registered in the message context.
	ErrUnknownClass = errors.New("msnrbf: unknown class")

	// ErrUnknownLibrary is returned when a class record cites a library id
	// that was never declared by a BinaryLibrary record.
	ErrUnknownLibrary = errors.New("msnrbf: unknown library")

	// ErrTypeMismatch is returned when a decoded binary tag does not match
	// the tag declared for that member in the type registry.
	ErrTypeMismatch = errors.New("msnrbf: type mismatch")

	// ErrDuplicateClassID is returned when two class records in the same
	// message share the same object id.
	ErrDuplicateClassID = errors.New("msnrbf: duplicate class id")

	// ErrUnknownMember is returned when the graph builder is asked to
	// encode a class whose declared member count does not match the
	// number of values supplied.
	ErrUnknownMember = errors.New("msnrbf: member count mismatch")

	// ErrNotReferenceable names a MemberReference whose target object id
	// never registered as a referenceable. No function in this package
	// returns it: DecodeMessage reports that case as
	// ErrUnresolvedReference once it reaches the end of the message.
	ErrNotReferenceable = errors.New("msnrbf: reference target is not referenceable")

	// ErrLimitExceeded is returned when a wire-carried length or count
	// exceeds the caps configured by DecodeOptions, before the value
	// would otherwise drive an allocation of that size.
	ErrLimitExceeded = errors.New("msnrbf: decode limit exceeded")
)
