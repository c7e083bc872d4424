// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package msnrbf

import (
	"fmt"
	"hash/fnv"

	lru "github.com/hashicorp/golang-lru"
)

// internCacheSize bounds the Message Context's string dedup table. A
// message carrying more distinct interned strings than this just stops
// deduping the overflow rather than growing without bound; correctness
// does not depend on every duplicate being caught.
const internCacheSize = 4096

// DefaultMaxArrayLength bounds any single array length (ArrayInfo.Length)
// accepted on decode, absent an explicit DecodeOptions.
const DefaultMaxArrayLength = 1 << 20

// DefaultMaxReferenceables bounds how many referenceable records
// (Classes, Arrays, BinaryObjectString) a single decode may register,
// absent an explicit DecodeOptions.
const DefaultMaxReferenceables = 1 << 16

// DecodeOptions bounds resource consumption during DecodeMessage. A
// message whose ArrayInfo.Length is a crafted value near math.MaxInt32
// would otherwise drive an allocation of that size before
// ErrTruncatedInput has any chance to fire once the decoder actually
// runs out of bytes; these caps are checked before any allocation sized
// from a wire-carried value.
type DecodeOptions struct {
	// MaxArrayLength caps any single array length accepted on decode.
	// Zero selects DefaultMaxArrayLength.
	MaxArrayLength int

	// MaxReferenceables caps how many referenceable records a single
	// decode may register. Zero selects DefaultMaxReferenceables.
	MaxReferenceables int
}

func (o *DecodeOptions) fillDefaults() {
	if o.MaxArrayLength <= 0 {
		o.MaxArrayLength = DefaultMaxArrayLength
	}
	if o.MaxReferenceables <= 0 {
		o.MaxReferenceables = DefaultMaxReferenceables
	}
}

type declaredClass struct {
	class   *RemotingClass
	library string
}

type pendingSlot struct {
	set func(interface{})
}

// MessageContext is the live state threaded through one decode or encode
// pass: the library table, the class-metadata table, the forward-
// reference resolver, and the object-identity interning table. Its
// lifetime is exactly one message; it is not safe to share across
// messages or goroutines.
type MessageContext struct {
	Registry *ClassRegistry

	libraries  map[int32]string
	libraryIDs map[string]int32

	classes map[int32]*declaredClass

	refables map[int32]interface{}
	pending  map[int32][]pendingSlot

	referenceables []int32

	objects *lru.Cache // fnv64(utf8 bytes) -> object id, encode-side dedup

	nextID int32

	maxArrayLength    int
	maxReferenceables int
}

// NewMessageContext returns a fresh context backed by reg. If reg is nil,
// DefaultRegistry is used.
func NewMessageContext(reg *ClassRegistry) *MessageContext {
	if reg == nil {
		reg = DefaultRegistry
	}
	cache, _ := lru.New(internCacheSize)
	return &MessageContext{
		Registry:          reg,
		libraries:         make(map[int32]string),
		libraryIDs:        make(map[string]int32),
		classes:           make(map[int32]*declaredClass),
		refables:          make(map[int32]interface{}),
		pending:           make(map[int32][]pendingSlot),
		objects:           cache,
		nextID:            1,
		maxArrayLength:    DefaultMaxArrayLength,
		maxReferenceables: DefaultMaxReferenceables,
	}
}

// setLimits installs the caps an explicit DecodeOptions requested. Called
// by DecodeMessage right after constructing the context; encode-side
// contexts (the graph builder) never call this and keep the package
// defaults, which is harmless since encode never allocates from an
// untrusted wire length.
func (c *MessageContext) setLimits(opts DecodeOptions) {
	c.maxArrayLength = opts.MaxArrayLength
	c.maxReferenceables = opts.MaxReferenceables
}

// NextID allocates the next monotonic object id for the encoder.
func (c *MessageContext) NextID() int32 {
	id := c.nextID
	c.nextID++
	return id
}

// AddLibrary registers a BinaryLibrary declaration. Library ids must be
// unique within a message.
func (c *MessageContext) AddLibrary(id int32, name string) error {
	if _, ok := c.libraries[id]; ok {
		return fmt.Errorf("%w: library id %d declared twice", ErrMalformedValue, id)
	}
	c.libraries[id] = name
	c.libraryIDs[name] = id
	return nil
}

// LibraryName resolves a library id to its declared name.
func (c *MessageContext) LibraryName(id int32) (string, error) {
	name, ok := c.libraries[id]
	if !ok {
		return "", fmt.Errorf("%w: id %d", ErrUnknownLibrary, id)
	}
	return name, nil
}

// LibraryID returns the id already assigned to name, if any. Used by the
// encoder to avoid emitting a duplicate BinaryLibrary for the same
// assembly identity string.
func (c *MessageContext) LibraryID(name string) (int32, bool) {
	id, ok := c.libraryIDs[name]
	return id, ok
}

// AddClass registers the shape declared by a *WithMembersAndTypes record
// under objectID, so a later ClassWithId can resolve it by metadata id.
func (c *MessageContext) AddClass(objectID int32, class *RemotingClass, library string) error {
	if _, ok := c.classes[objectID]; ok {
		return fmt.Errorf("%w: object id %d", ErrDuplicateClassID, objectID)
	}
	c.classes[objectID] = &declaredClass{class: class, library: library}
	return nil
}

// LookupClass resolves a ClassWithId.MetadataID to the shape declared
// under that object id earlier in the same message.
func (c *MessageContext) LookupClass(metadataID int32) (*RemotingClass, string, error) {
	dc, ok := c.classes[metadataID]
	if !ok {
		return nil, "", fmt.Errorf("%w: metadata id %d", ErrUnknownClass, metadataID)
	}
	return dc.class, dc.library, nil
}

// AddRefable registers id as resolvable to value — the decode-side
// counterpart of allocating an id on encode. Any references to id that
// arrived before the target did are resolved immediately. Returns
// ErrLimitExceeded once the message has already registered
// maxReferenceables referenceables, guarding a long-lived server against
// a message crafted to grow the refables table without bound.
func (c *MessageContext) AddRefable(id int32, value interface{}) error {
	if len(c.referenceables) >= c.maxReferenceables {
		return fmt.Errorf("%w: more than %d referenceables in one message", ErrLimitExceeded, c.maxReferenceables)
	}
	c.refables[id] = value
	c.referenceables = append(c.referenceables, id)
	for _, slot := range c.pending[id] {
		slot.set(value)
	}
	delete(c.pending, id)
	return nil
}

// AddReference resolves a MemberReference.IDRef. If the target is
// already known, set is invoked immediately; otherwise it is deferred
// until AddRefable(id, ...) arrives.
func (c *MessageContext) AddReference(id int32, set func(interface{})) {
	if v, ok := c.refables[id]; ok {
		set(v)
		return
	}
	c.pending[id] = append(c.pending[id], pendingSlot{set: set})
}

// HasPending reports whether any forward reference remains unresolved.
// MessageEnd MUST NOT be consumed while this is true.
func (c *MessageContext) HasPending() bool {
	return len(c.pending) > 0
}

// Referenceables returns the object ids registered via AddRefable, in
// stream order.
func (c *MessageContext) Referenceables() []int32 {
	return c.referenceables
}

func internKey(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}

// InternString returns the object id previously used to encode s, if
// any. Used by the graph builder to emit a MemberReference instead of a
// second BinaryObjectString for a repeated string literal.
func (c *MessageContext) InternString(s string) (int32, bool) {
	v, ok := c.objects.Get(internKey(s))
	if !ok {
		return 0, false
	}
	return v.(int32), true
}

// SetInternedString records that s was encoded under id.
func (c *MessageContext) SetInternedString(s string, id int32) {
	c.objects.Add(internKey(s), id)
}
