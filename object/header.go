/*
 * classvm - a JVM-class-file-compatible bytecode runtime
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

// Package object implements the "Object model (headers, layouts, slots)"
// leaf component of spec.md §2/§3/§4.6: the two-word object header (mark +
// class id), the array header, typed field/array load and store against a
// raw heap byte view, and identity-hash assignment.
//
// Grounded on original_source/crates/gc/src/oop_desc.rs and
// src/gc/mark_word.rs (gfreezy/hippo): the mark word there is a bitfield
// struct over a u64; here it is a named uint64 type with typed accessor
// methods, the same texture Jacobin uses for its object.Field wrapper
// (object/javaByteArray.go) around raw Go values.
package object

import (
	"math"
	"math/rand"
	"sync"
	"sync/atomic"

	"classvm/addr"
	"classvm/types"
)

// WordSize is the machine word size assumed throughout the object model:
// 8 bytes, matching spec.md §3's "Reference slots are 8 bytes".
const WordSize = 8

// HeaderWords is the number of machine words in an object header: mark +
// class (spec.md §3 "Object header ... Two machine words").
const HeaderWords = 2

// HeaderBytes is the size in bytes of an object header, before any
// instance body or array length word.
const HeaderBytes = HeaderWords * WordSize

// ArrayHeaderBytes is HeaderBytes plus the one-word array length
// (spec.md §3 "Array header. Object header followed by a length word").
const ArrayHeaderBytes = HeaderBytes + WordSize

// MarkWord is the first header word: {lock:2, biased-lock:1, age:4,
// unused:1, hash:32, unused}, per spec.md §3.
type MarkWord uint64

const (
	lockShift       = 0
	lockBits        = 2
	biasedLockShift = lockShift + lockBits
	biasedLockBits  = 1
	ageShift        = biasedLockShift + biasedLockBits
	ageBits         = 4
	hashShift       = ageShift + ageBits + 1 // +1 for the single unused bit
	hashBits        = 32
)

func bitmask(bits uint) uint64 { return (uint64(1) << bits) - 1 }

func (m MarkWord) Lock() uint8        { return uint8(uint64(m) >> lockShift & bitmask(lockBits)) }
func (m MarkWord) BiasedLock() bool   { return uint64(m)>>biasedLockShift&1 != 0 }
func (m MarkWord) Age() uint8         { return uint8(uint64(m) >> ageShift & bitmask(ageBits)) }
func (m MarkWord) Hash() uint32       { return uint32(uint64(m) >> hashShift & bitmask(hashBits)) }
func (m MarkWord) HasHash() bool      { return m.Hash() != 0 }

func (m MarkWord) WithHash(h uint32) MarkWord {
	cleared := uint64(m) &^ (bitmask(hashBits) << hashShift)
	return MarkWord(cleared | uint64(h)<<hashShift)
}

func (m MarkWord) WithLock(l uint8) MarkWord {
	cleared := uint64(m) &^ (bitmask(lockBits) << lockShift)
	return MarkWord(cleared | uint64(l&uint8(bitmask(lockBits)))<<lockShift)
}

// Header is the logical view of an object's two header words, read from or
// written to heap memory via Heap.ReadHeader/WriteHeader.
type Header struct {
	Mark  MarkWord
	Class uint32 // class registry id; 0 means unclassified (spec.md §3)
}

// Heap is a typed accessor over a raw heap byte view (addr.View), used by
// the allocator's caller to initialize headers and by the interpreter to
// read/write instance and array fields. It owns no state of its own beyond
// the view and the identity-hash source.
type Heap struct {
	view addr.View
	mu   sync.Mutex // guards hash-assignment read-modify-write of the mark word
	rng  *rand.Rand
}

// NewHeap wraps a raw byte view (typically heap.Space.View()) for typed
// object access.
func NewHeap(v addr.View) *Heap {
	return &Heap{view: v, rng: rand.New(rand.NewSource(0x5bd1e995))}
}

func (h *Heap) bytes(a addr.Address, n int) []byte {
	off := h.view.Offset(a)
	return h.view.Bytes[off : off+n]
}

// ReadHeader decodes the two header words at a.
func (h *Heap) ReadHeader(a addr.Address) Header {
	b := h.bytes(a, HeaderBytes)
	mark := addr.ByteOrder.Uint64(b[0:8])
	class := addr.ByteOrder.Uint32(b[8:16])
	return Header{Mark: MarkWord(mark), Class: class}
}

// WriteHeader encodes hdr at a. Used by `new`/`newarray`/`anewarray` to
// initialize a freshly allocated object (spec.md §4.9).
func (h *Heap) WriteHeader(a addr.Address, hdr Header) {
	b := h.bytes(a, HeaderBytes)
	addr.ByteOrder.PutUint64(b[0:8], uint64(hdr.Mark))
	addr.ByteOrder.PutUint32(b[8:16], hdr.Class)
}

// IdentityHash returns the (lazily computed, thereafter stable) 32-bit
// identity hash of the object at a, per spec.md §4.6.
func (h *Heap) IdentityHash(a addr.Address) uint32 {
	h.mu.Lock()
	defer h.mu.Unlock()
	hdr := h.ReadHeader(a)
	if hdr.Mark.HasHash() {
		return hdr.Mark.Hash()
	}
	newHash := h.rng.Uint32() | 1 // never 0, so HasHash stays a reliable test
	hdr.Mark = hdr.Mark.WithHash(newHash)
	h.WriteHeader(a, hdr)
	return newHash
}

// --- field access -----------------------------------------------------

// checkAligned panics (a VM invariant violation, per spec.md §4.6: "a
// programmer error") if f is not naturally aligned for a value of size n.
func checkAligned(f int, n int) {
	if (HeaderBytes+f)%n != 0 {
		panic(vmInvariant("unaligned field access at offset %d for size %d", f, n))
	}
}

// ReadInt/WriteInt etc. operate at object-base-relative offset f
// (spec.md §3: "Field offsets are absolute from object base (inclusive of
// header)"), so callers pass the field's declared offset directly; these
// helpers add nothing further since f is already absolute-from-base. To
// keep the header's invariant machine-checkable, alignment is still
// checked against HeaderBytes+logical-field-offset where the field table
// stores offsets relative to the body (see classloader package).

func (h *Heap) ReadByte(a addr.Address, f int) int8 {
	return int8(h.bytes(a.Add(f), 1)[0])
}
func (h *Heap) WriteByte(a addr.Address, f int, v int8) {
	h.bytes(a.Add(f), 1)[0] = byte(v)
}

func (h *Heap) ReadBoolean(a addr.Address, f int) bool {
	return h.bytes(a.Add(f), 1)[0] != 0
}
func (h *Heap) WriteBoolean(a addr.Address, f int, v bool) {
	b := byte(0)
	if v {
		b = 1
	}
	h.bytes(a.Add(f), 1)[0] = b
}

func (h *Heap) ReadChar(a addr.Address, f int) uint16 {
	checkAligned(f, 2)
	return addr.ByteOrder.Uint16(h.bytes(a.Add(f), 2))
}
func (h *Heap) WriteChar(a addr.Address, f int, v uint16) {
	checkAligned(f, 2)
	addr.ByteOrder.PutUint16(h.bytes(a.Add(f), 2), v)
}

func (h *Heap) ReadShort(a addr.Address, f int) int16 {
	checkAligned(f, 2)
	return int16(addr.ByteOrder.Uint16(h.bytes(a.Add(f), 2)))
}
func (h *Heap) WriteShort(a addr.Address, f int, v int16) {
	checkAligned(f, 2)
	addr.ByteOrder.PutUint16(h.bytes(a.Add(f), 2), uint16(v))
}

func (h *Heap) ReadInt(a addr.Address, f int) int32 {
	checkAligned(f, 4)
	return int32(addr.ByteOrder.Uint32(h.bytes(a.Add(f), 4)))
}
func (h *Heap) WriteInt(a addr.Address, f int, v int32) {
	checkAligned(f, 4)
	addr.ByteOrder.PutUint32(h.bytes(a.Add(f), 4), uint32(v))
}

func (h *Heap) ReadFloat(a addr.Address, f int) float32 {
	return math.Float32frombits(uint32(h.ReadInt(a, f)))
}
func (h *Heap) WriteFloat(a addr.Address, f int, v float32) {
	h.WriteInt(a, f, int32(math.Float32bits(v)))
}

func (h *Heap) ReadLong(a addr.Address, f int) int64 {
	checkAligned(f, 8)
	return int64(addr.ByteOrder.Uint64(h.bytes(a.Add(f), 8)))
}
func (h *Heap) WriteLong(a addr.Address, f int, v int64) {
	checkAligned(f, 8)
	addr.ByteOrder.PutUint64(h.bytes(a.Add(f), 8), uint64(v))
}

func (h *Heap) ReadDouble(a addr.Address, f int) float64 {
	return math.Float64frombits(uint64(h.ReadLong(a, f)))
}
func (h *Heap) WriteDouble(a addr.Address, f int, v float64) {
	h.WriteLong(a, f, int64(math.Float64bits(v)))
}

func (h *Heap) ReadRef(a addr.Address, f int) addr.Address {
	checkAligned(f, 8)
	return addr.Address(addr.ByteOrder.Uint64(h.bytes(a.Add(f), 8)))
}
func (h *Heap) WriteRef(a addr.Address, f int, v addr.Address) {
	checkAligned(f, 8)
	addr.ByteOrder.PutUint64(h.bytes(a.Add(f), 8), uint64(v))
}

// ReadRefAtomic/CompareAndSwapRef back the Unsafe.compareAndSwapObject
// native (spec.md §5's "a compareAndSwap native that uses
// sequential-consistency ordering on an 8-byte aligned object slot").
func (h *Heap) ReadRefAtomic(a addr.Address, f int) addr.Address {
	checkAligned(f, 8)
	p := (*uint64)(bytePtr(h.bytes(a.Add(f), 8)))
	return addr.Address(atomic.LoadUint64(p))
}

func (h *Heap) CompareAndSwapRef(a addr.Address, f int, old, new_ addr.Address) bool {
	checkAligned(f, 8)
	p := (*uint64)(bytePtr(h.bytes(a.Add(f), 8)))
	return atomic.CompareAndSwapUint64(p, uint64(old), uint64(new_))
}

func (h *Heap) CompareAndSwapInt(a addr.Address, f int, old, new_ int32) bool {
	checkAligned(f, 4)
	p := (*uint32)(bytePtr(h.bytes(a.Add(f), 4)))
	return atomic.CompareAndSwapUint32(p, uint32(old), uint32(new_))
}

// --- array access -------------------------------------------------------

// ArrayBaseOffset returns the byte offset from the array's object base to
// its first element. For long/double elements the base lies a further two
// words past the array header, so those arrays start their elements
// 2*WordSize bytes later than arrays of other element types.
func ArrayBaseOffset(elem types.BasicType) int {
	base := ArrayHeaderBytes
	if elem == types.Long || elem == types.Double {
		return base + 2*WordSize
	}
	return base
}

// ReadLength reads an array's length word.
func (h *Heap) ReadLength(a addr.Address) int {
	return int(addr.ByteOrder.Uint64(h.bytes(a.Add(HeaderBytes), 8)))
}

// WriteLength writes an array's length word, used when allocating the
// array (spec.md §4.9 newarray/anewarray).
func (h *Heap) WriteLength(a addr.Address, n int) {
	addr.ByteOrder.PutUint64(h.bytes(a.Add(HeaderBytes), 8), uint64(n))
}

// ElementOffset computes the byte offset of element i of an array whose
// element type is elem, per spec.md §4.6.
func ElementOffset(elem types.BasicType, i int) int {
	return ArrayBaseOffset(elem) + i*elem.Size()
}

// CheckBounds validates 0 <= i < length, reporting the bounds check failure
// described in spec.md §4.6 as a false result rather than a panic (array
// bounds violations are ordinary language-level exceptions, not VM
// invariant failures).
func CheckBounds(i, length int) bool {
	return i >= 0 && i < length
}

// InstanceSize and StaticSize computations live in the classloader package,
// which owns field tables; object only needs the raw offsets it's handed.

func vmInvariant(format string, args ...interface{}) error {
	return &invariantError{msg: sprintf(format, args...)}
}

type invariantError struct{ msg string }

func (e *invariantError) Error() string { return e.msg }
