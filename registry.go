// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package msnrbf

import "fmt"

// SystemLib is the sentinel library name for .NET framework built-in
// classes. System classes never carry a BinaryLibrary record on the wire.
const SystemLib = "SYSTEMLIB"

// MemberSpec declares one member of a RemotingClass: its wire name, the
// BinaryTypeTag that governs its additional type info, and (for
// primitive members) the concrete PrimitiveTypeTag. ClassName is set
// when Tag is BinaryClass or BinarySystemClass and names the nested
// class. Default is the value a freshly constructed instance carries
// before the caller sets anything.
type MemberSpec struct {
	WireName  string
	Tag       BinaryTypeTag
	PrimTag   PrimitiveTypeTag
	ClassName string
	Default   interface{}
}

// typeInfo returns the additional-info value this member contributes to
// a MemberTypeInfo (the tag itself is m.Tag), per the
// unpack_additional_info dispatch in additionalInfoFor.
func (m MemberSpec) typeInfo() interface{} {
	switch additionalInfoFor(m.Tag) {
	case 'p':
		return m.PrimTag
	case 's', 'c':
		return m.ClassName
	default:
		return nil
	}
}

// RemotingClass is a user- or system-declared remoting class: a name, the
// library it belongs to (or SystemLib), and its ordered member list. The
// reference implementation built these dynamically via metaclasses and
// descriptors; here they are static values registered once at process
// init, consulted for both decode (shape lookup) and encode (metadata
// emission).
type RemotingClass struct {
	Name    string
	Library string
	Members []MemberSpec
}

// MemberNames returns the declared wire names in order, for ClassInfo.
func (c *RemotingClass) MemberNames() []string {
	names := make([]string, len(c.Members))
	for i, m := range c.Members {
		names[i] = m.WireName
	}
	return names
}

// MemberInfo builds the MemberTypeInfo a ClassWithMembersAndTypes record
// carries for this class.
func (c *RemotingClass) MemberInfo() MemberTypeInfo {
	tags := make([]BinaryTypeTag, len(c.Members))
	additional := make([]interface{}, len(c.Members))
	for i, m := range c.Members {
		tags[i] = m.Tag
		additional[i] = m.typeInfo()
	}
	return MemberTypeInfo{Tags: tags, Additional: additional}
}

// IsSystem reports whether this class belongs to SystemLib.
func (c *RemotingClass) IsSystem() bool { return c.Library == SystemLib }

// NewInstance returns a ClassInstance for c with every member set to its
// declared default (nil if none was given).
func (c *RemotingClass) NewInstance() *ClassInstance {
	values := make([]interface{}, len(c.Members))
	for i, m := range c.Members {
		values[i] = m.Default
	}
	return &ClassInstance{Class: c, Values: values}
}

type classKey struct {
	library string
	name    string
}

// ClassRegistry maps (library, className) to its declared shape. It is
// built once at process init via Declare and is safe for concurrent
// reads thereafter; the codec never mutates it mid-message.
type ClassRegistry struct {
	classes map[classKey]*RemotingClass
}

// NewClassRegistry returns an empty registry.
func NewClassRegistry() *ClassRegistry {
	return &ClassRegistry{classes: make(map[classKey]*RemotingClass)}
}

// Declare registers c. Declaring the same (library, name) pair twice is
// a programming error and returns an error rather than silently
// overwriting the earlier declaration.
func (r *ClassRegistry) Declare(c RemotingClass) error {
	key := classKey{library: c.Library, name: c.Name}
	if _, ok := r.classes[key]; ok {
		return fmt.Errorf("msnrbf: class %q already declared in library %q", c.Name, c.Library)
	}
	cc := c
	r.classes[key] = &cc
	return nil
}

// Lookup returns the declared shape for (library, name), if any.
func (r *ClassRegistry) Lookup(library, name string) (*RemotingClass, bool) {
	c, ok := r.classes[classKey{library: library, name: name}]
	return c, ok
}

// DefaultRegistry is the process-wide registry consulted by Decode/Encode
// when callers do not supply their own. Collaborators (such as the
// declared system classes) register into it from their own init().
var DefaultRegistry = NewClassRegistry()

// ClassInstance is the uniform runtime representation of a decoded or
// to-be-encoded object: a pointer to its declared shape plus one value
// per declared member, in declaration order.
type ClassInstance struct {
	Class  *RemotingClass
	Values []interface{}
}

// Get returns the value of the named member.
func (o *ClassInstance) Get(wireName string) (interface{}, bool) {
	for i, m := range o.Class.Members {
		if m.WireName == wireName {
			return o.Values[i], true
		}
	}
	return nil, false
}

// Set assigns the value of the named member.
func (o *ClassInstance) Set(wireName string, v interface{}) bool {
	for i, m := range o.Class.Members {
		if m.WireName == wireName {
			o.Values[i] = v
			return true
		}
	}
	return false
}

// ArrayInstance is the uniform runtime representation of a decoded or
// to-be-encoded ArraySingleObject: an ordered slice of element values,
// each either a scalar, a *ClassInstance, an *ArrayInstance, or nil.
type ArrayInstance struct {
	Values []interface{}
}
