package nbt

import (
	"fmt"
	"math"
)

// Kind identifies one of the value kinds of the tag format. Values 0 through
// 12 are the wire tag bytes. KindRegion and KindChunk are in-memory only and
// never appear in a tag stream.
type Kind uint8

const (
	KindEnd Kind = iota
	KindByte
	KindShort
	KindInt
	KindLong
	KindFloat
	KindDouble
	KindByteArray
	KindString
	KindList
	KindCompound
	KindIntArray
	KindLongArray

	KindRegion Kind = 128
	KindChunk  Kind = 129
)

const maxTagKind = KindLongArray

func (k Kind) String() string {
	switch k {
	case KindEnd:
		return "end"
	case KindByte:
		return "byte"
	case KindShort:
		return "short"
	case KindInt:
		return "int"
	case KindLong:
		return "long"
	case KindFloat:
		return "float"
	case KindDouble:
		return "double"
	case KindByteArray:
		return "byte array"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindCompound:
		return "compound"
	case KindIntArray:
		return "int array"
	case KindLongArray:
		return "long array"
	case KindRegion:
		return "region"
	case KindChunk:
		return "chunk"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Element is a node of the tagged value tree. It is a closed variant type
// dispatched by Kind; exactly the payload fields for its kind are meaningful.
//
// Composite elements cache their visible and fully-expanded row counts.
// These counters are adjusted incrementally by every mutation, never
// recomputed from scratch on the hot path.
type Element struct {
	kind Kind

	num   uint64 // fixed-width numerics, as two's complement / IEEE-754 bits
	str   string
	bytes []int8
	ints  []int32
	longs []int64

	elemKind Kind       // list: declared element kind
	names    []string   // compound, chunk: entry names in insertion order
	children []*Element // list, compound, chunk: children; region: slot arena of 1024
	posMap   []uint16   // region: occupied slot indices in display order

	x, z    uint8       // chunk coordinate within its region
	lastMod uint32      // chunk modification timestamp
	format  Compression // chunk storage framing

	height     uint32 // rows when open, given descendant open states
	trueHeight uint32 // rows when fully expanded
	maxDepth   uint32
	open       bool
}

func newLeaf(kind Kind) *Element {
	return &Element{kind: kind, height: 1, trueHeight: 1}
}

func NewByte(v int8) *Element {
	el := newLeaf(KindByte)
	el.num = uint64(uint8(v))
	return el
}

func NewShort(v int16) *Element {
	el := newLeaf(KindShort)
	el.num = uint64(uint16(v))
	return el
}

func NewInt(v int32) *Element {
	el := newLeaf(KindInt)
	el.num = uint64(uint32(v))
	return el
}

func NewLong(v int64) *Element {
	el := newLeaf(KindLong)
	el.num = uint64(v)
	return el
}

func NewFloat(v float32) *Element {
	el := newLeaf(KindFloat)
	el.num = uint64(math.Float32bits(v))
	return el
}

func NewDouble(v float64) *Element {
	el := newLeaf(KindDouble)
	el.num = math.Float64bits(v)
	return el
}

func NewString(v string) *Element {
	el := newLeaf(KindString)
	el.str = v
	return el
}

func NewByteArray(v []int8) *Element {
	n := uint32(len(v))
	return &Element{kind: KindByteArray, bytes: v, height: 1 + n, trueHeight: 1 + n}
}

func NewIntArray(v []int32) *Element {
	n := uint32(len(v))
	return &Element{kind: KindIntArray, ints: v, height: 1 + n, trueHeight: 1 + n}
}

func NewLongArray(v []int64) *Element {
	n := uint32(len(v))
	return &Element{kind: KindLongArray, longs: v, height: 1 + n, trueHeight: 1 + n}
}

// NewList returns an empty list with the given declared element kind.
// An empty list may declare KindEnd; the kind is adopted from the first
// inserted element in that case.
func NewList(elemKind Kind) *Element {
	return &Element{kind: KindList, elemKind: elemKind, height: 1, trueHeight: 1}
}

func NewCompound() *Element {
	return &Element{kind: KindCompound, height: 1, trueHeight: 1}
}

// NewRegion returns an empty 1024-slot region.
func NewRegion() *Element {
	return &Element{
		kind:       KindRegion,
		children:   make([]*Element, regionSlots),
		height:     1,
		trueHeight: 1,
	}
}

// NewChunk wraps a compound as a region chunk at coordinate (x, z).
// The compound's children are adopted, not copied.
func NewChunk(c *Element, x, z uint8, lastMod uint32, format Compression) *Element {
	if c.kind != KindCompound {
		panic(fmt.Errorf("nbt: chunk root must be a compound, got %v", c.kind))
	}
	return &Element{
		kind:       KindChunk,
		names:      c.names,
		children:   c.children,
		x:          x & 31,
		z:          z & 31,
		lastMod:    lastMod,
		format:     format,
		height:     c.height,
		trueHeight: c.trueHeight,
		open:       c.open,
	}
}

func (el *Element) Kind() Kind { return el.kind }

func (el *Element) Byte() int8      { return int8(el.num) }
func (el *Element) Short() int16    { return int16(el.num) }
func (el *Element) Int() int32      { return int32(el.num) }
func (el *Element) Long() int64     { return int64(el.num) }
func (el *Element) Float() float32  { return math.Float32frombits(uint32(el.num)) }
func (el *Element) Double() float64 { return math.Float64frombits(el.num) }
func (el *Element) Text() string    { return el.str }

func (el *Element) SetByte(v int8)      { el.num = uint64(uint8(v)) }
func (el *Element) SetShort(v int16)    { el.num = uint64(uint16(v)) }
func (el *Element) SetInt(v int32)      { el.num = uint64(uint32(v)) }
func (el *Element) SetLong(v int64)     { el.num = uint64(v) }
func (el *Element) SetFloat(v float32)  { el.num = uint64(math.Float32bits(v)) }
func (el *Element) SetDouble(v float64) { el.num = math.Float64bits(v) }
func (el *Element) SetText(v string)    { el.str = v }

func (el *Element) Bytes() []int8 { return el.bytes }
func (el *Element) Ints() []int32 { return el.ints }
func (el *Element) Longs() []int64 { return el.longs }

// ElemKind returns a list's declared element kind.
func (el *Element) ElemKind() Kind { return el.elemKind }

func (el *Element) X() uint8             { return el.x }
func (el *Element) Z() uint8             { return el.z }
func (el *Element) LastModified() uint32 { return el.lastMod }
func (el *Element) Format() Compression  { return el.format }

// IsComposite reports whether el can ever have child rows.
func (el *Element) IsComposite() bool {
	switch el.kind {
	case KindByteArray, KindIntArray, KindLongArray, KindList, KindCompound, KindRegion, KindChunk:
		return true
	default:
		return false
	}
}

// Len returns the number of children of a composite, in display terms:
// array entries, list elements, compound entries, or occupied region slots.
func (el *Element) Len() int {
	switch el.kind {
	case KindByteArray:
		return len(el.bytes)
	case KindIntArray:
		return len(el.ints)
	case KindLongArray:
		return len(el.longs)
	case KindList, KindCompound, KindChunk:
		return len(el.children)
	case KindRegion:
		return len(el.posMap)
	default:
		return 0
	}
}

func (el *Element) IsEmpty() bool { return el.Len() == 0 }

// Child returns the i-th child in display order. Array entries are
// materialized as fresh leaf elements; mutate arrays through SetBytes etc.,
// not through the returned element.
func (el *Element) Child(i int) *Element {
	switch el.kind {
	case KindByteArray:
		return NewByte(el.bytes[i])
	case KindIntArray:
		return NewInt(el.ints[i])
	case KindLongArray:
		return NewLong(el.longs[i])
	case KindList, KindCompound, KindChunk:
		return el.children[i]
	case KindRegion:
		return el.children[el.posMap[i]]
	default:
		return nil
	}
}

// Name returns the i-th entry name of a compound or chunk, or "" otherwise.
func (el *Element) Name(i int) string {
	switch el.kind {
	case KindCompound, KindChunk:
		return el.names[i]
	default:
		return ""
	}
}

// Has reports whether a compound or chunk contains an entry named name.
// Keys are case-sensitive.
func (el *Element) Has(name string) bool {
	switch el.kind {
	case KindCompound, KindChunk:
		for _, n := range el.names {
			if n == name {
				return true
			}
		}
	}
	return false
}

// Get returns the value of the named compound entry, or nil.
func (el *Element) Get(name string) *Element {
	switch el.kind {
	case KindCompound, KindChunk:
		for i, n := range el.names {
			if n == name {
				return el.children[i]
			}
		}
	}
	return nil
}

// ChunkAt returns the chunk occupying slot (x, z) of a region, or nil.
func (el *Element) ChunkAt(x, z uint8) *Element {
	if el.kind != KindRegion {
		return nil
	}
	return el.children[slotPos(x, z)]
}

// Height returns the number of rows el currently occupies.
func (el *Element) Height() int {
	if !el.IsComposite() || !el.open {
		return 1
	}
	return int(el.height)
}

// TrueHeight returns the number of rows el would occupy fully expanded.
func (el *Element) TrueHeight() int {
	if !el.IsComposite() {
		return 1
	}
	return int(el.trueHeight)
}

// Open reports the expansion flag. An element with no children is never open.
func (el *Element) Open() bool { return el.open }

// MaxDepth returns the cached maximum nesting below el, in indent units.
func (el *Element) MaxDepth() int { return int(el.maxDepth) }

func (el *Element) increment(h, th int) {
	el.height += uint32(h)
	el.trueHeight += uint32(th)
}

func (el *Element) decrement(h, th int) {
	el.height -= uint32(h)
	el.trueHeight -= uint32(th)
}

// Toggle flips the expansion flag and returns the change to el's visible row
// count, which the caller must propagate to ancestors. Toggling an empty or
// leaf element reports ok == false.
func (el *Element) Toggle() (delta int, ok bool) {
	if !el.IsComposite() || el.IsEmpty() {
		return 0, false
	}
	if el.open {
		el.open = false
		delta = 1 - int(el.height)
	} else {
		el.open = true
		delta = int(el.height) - 1
	}
	el.recacheDepth()
	return delta, true
}

// Insert places value at child index idx. For compounds and chunks, name is
// the entry key; it is ignored elsewhere. The caller is responsible for
// propagating the height change to ancestors (Drop does this itself).
//
// ErrTypeRejected is returned when el cannot hold a value of this kind:
// a list whose declared element kind differs, an array offered a non-matching
// primitive, a compound offered a chunk or region, or any leaf target.
// Regions accept only chunks and only through InsertChunk.
func (el *Element) Insert(idx int, name string, value *Element) error {
	switch el.kind {
	case KindByteArray:
		if value.kind != KindByte {
			return ErrTypeRejected
		}
		el.bytes = append(el.bytes, 0)
		copy(el.bytes[idx+1:], el.bytes[idx:])
		el.bytes[idx] = value.Byte()
		el.increment(1, 1)
	case KindIntArray:
		if value.kind != KindInt {
			return ErrTypeRejected
		}
		el.ints = append(el.ints, 0)
		copy(el.ints[idx+1:], el.ints[idx:])
		el.ints[idx] = value.Int()
		el.increment(1, 1)
	case KindLongArray:
		if value.kind != KindLong {
			return ErrTypeRejected
		}
		el.longs = append(el.longs, 0)
		copy(el.longs[idx+1:], el.longs[idx:])
		el.longs[idx] = value.Long()
		el.increment(1, 1)
	case KindList:
		if value.kind == KindEnd || value.kind > maxTagKind {
			return ErrTypeRejected
		}
		if len(el.children) == 0 {
			el.elemKind = value.kind
		} else if value.kind != el.elemKind {
			return ErrTypeRejected
		}
		el.children = append(el.children, nil)
		copy(el.children[idx+1:], el.children[idx:])
		el.children[idx] = value
		el.increment(value.Height(), value.TrueHeight())
	case KindCompound, KindChunk:
		if value.kind == KindEnd || value.kind > maxTagKind {
			return ErrTypeRejected
		}
		el.children = append(el.children, nil)
		copy(el.children[idx+1:], el.children[idx:])
		el.children[idx] = value
		el.names = append(el.names, "")
		copy(el.names[idx+1:], el.names[idx:])
		el.names[idx] = name
		el.increment(value.Height(), value.TrueHeight())
	case KindRegion:
		return el.InsertChunk(idx, value)
	default:
		return ErrTypeRejected
	}
	el.recacheDepth()
	return nil
}

// InsertChunk places a chunk into a region at display index idx. The slot is
// chosen by linear probing from the chunk's declared coordinate to the first
// empty slot; the chunk's coordinate is rewritten to the slot it lands in.
// The probe never overwrites an occupied slot; a full region past the
// declared coordinate rejects the insert.
func (el *Element) InsertChunk(idx int, value *Element) error {
	if el.kind != KindRegion || value.kind != KindChunk {
		return ErrTypeRejected
	}
	pos := slotPos(value.x, value.z)
	for pos < regionSlots && el.children[pos] != nil {
		pos++
	}
	if pos >= regionSlots || idx > len(el.posMap) {
		return ErrTypeRejected
	}
	value.x = uint8(pos>>5) & 31
	value.z = uint8(pos) & 31
	el.posMap = append(el.posMap, 0)
	copy(el.posMap[idx+1:], el.posMap[idx:])
	el.posMap[idx] = uint16(pos)
	el.children[pos] = value
	el.increment(value.Height(), value.TrueHeight())
	el.recacheDepth()
	return nil
}

// Remove deletes and returns the child at display index idx. The caller
// propagates the height change to ancestors.
func (el *Element) Remove(idx int) *Element {
	var removed *Element
	switch el.kind {
	case KindByteArray:
		removed = NewByte(el.bytes[idx])
		el.bytes = append(el.bytes[:idx], el.bytes[idx+1:]...)
		el.decrement(1, 1)
	case KindIntArray:
		removed = NewInt(el.ints[idx])
		el.ints = append(el.ints[:idx], el.ints[idx+1:]...)
		el.decrement(1, 1)
	case KindLongArray:
		removed = NewLong(el.longs[idx])
		el.longs = append(el.longs[:idx], el.longs[idx+1:]...)
		el.decrement(1, 1)
	case KindList:
		removed = el.children[idx]
		el.children = append(el.children[:idx], el.children[idx+1:]...)
		el.decrement(removed.Height(), removed.TrueHeight())
	case KindCompound, KindChunk:
		removed = el.children[idx]
		el.children = append(el.children[:idx], el.children[idx+1:]...)
		el.names = append(el.names[:idx], el.names[idx+1:]...)
		el.decrement(removed.Height(), removed.TrueHeight())
	case KindRegion:
		pos := el.posMap[idx]
		removed = el.children[pos]
		el.children[pos] = nil
		el.posMap = append(el.posMap[:idx], el.posMap[idx+1:]...)
		el.decrement(removed.Height(), removed.TrueHeight())
	default:
		return nil
	}
	if el.IsEmpty() {
		el.open = false
	}
	el.recacheDepth()
	return removed
}

// Equal reports structural equality: kind, payload, list element kind, and
// compound key order all match. Expansion state and cached row counts are
// view state and do not participate.
func (el *Element) Equal(other *Element) bool {
	if el == nil || other == nil {
		return el == other
	}
	if el.kind != other.kind {
		return false
	}
	switch el.kind {
	case KindEnd:
		return true
	case KindByte, KindShort, KindInt, KindLong, KindFloat, KindDouble:
		return el.num == other.num
	case KindString:
		return el.str == other.str
	case KindByteArray:
		if len(el.bytes) != len(other.bytes) {
			return false
		}
		for i, v := range el.bytes {
			if other.bytes[i] != v {
				return false
			}
		}
		return true
	case KindIntArray:
		if len(el.ints) != len(other.ints) {
			return false
		}
		for i, v := range el.ints {
			if other.ints[i] != v {
				return false
			}
		}
		return true
	case KindLongArray:
		if len(el.longs) != len(other.longs) {
			return false
		}
		for i, v := range el.longs {
			if other.longs[i] != v {
				return false
			}
		}
		return true
	case KindList:
		if el.elemKind != other.elemKind || len(el.children) != len(other.children) {
			return false
		}
		for i, c := range el.children {
			if !c.Equal(other.children[i]) {
				return false
			}
		}
		return true
	case KindCompound, KindChunk:
		if len(el.children) != len(other.children) {
			return false
		}
		if el.kind == KindChunk && (el.x != other.x || el.z != other.z) {
			return false
		}
		for i, c := range el.children {
			if el.names[i] != other.names[i] || !c.Equal(other.children[i]) {
				return false
			}
		}
		return true
	case KindRegion:
		if len(el.posMap) != len(other.posMap) {
			return false
		}
		for i := range el.children {
			if !el.children[i].Equal(other.children[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func slotPos(x, z uint8) int {
	return int(x&31)<<5 | int(z&31)
}
