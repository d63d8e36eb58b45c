/*
 * classvm - a JVM-class-file-compatible bytecode runtime
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

// Package addr implements the "Binary primitives & address arithmetic"
// leaf component of spec.md §2: an opaque machine-word-wide address type
// with aligned-up offsetting, typed pointer reinterpretation over a byte
// slice, and difference. Grounded on original_source/crates/gc/src and
// src/gc/address.rs's Addr newtype, translated into an idiomatic Go
// uintptr-into-a-backing-slice model (Go has no raw pointer arithmetic, so
// every Address is interpreted against the Space/Block byte slice it was
// carved from).
package addr

import "encoding/binary"

// Address is an opaque machine-word-wide offset. Zero is the null sentinel
// (spec.md §3 "Zero is the null sentinel").
type Address uintptr

const Null Address = 0

// AlignUp rounds a up to the next multiple of align, which must be a power
// of two. Mirrors the `align_up` helper spec.md §4.6/§4.7 assume exists.
func AlignUp(a Address, align uintptr) Address {
	if align == 0 {
		return a
	}
	mask := Address(align - 1)
	return (a + mask) &^ mask
}

// Sub computes the difference between two addresses as a signed word count.
func (a Address) Sub(b Address) int64 {
	return int64(a) - int64(b)
}

// Add offsets an address by n bytes.
func (a Address) Add(n int) Address {
	return a + Address(n)
}

// IsNull reports whether this is the null sentinel.
func (a Address) IsNull() bool {
	return a == Null
}

// View is a typed pointer reinterpretation over a contiguous heap region: a
// byte slice plus the base Address its index 0 corresponds to, letting
// callers translate between Address values and slice offsets.
type View struct {
	Base  Address
	Bytes []byte
}

// Offset translates an Address into a byte offset into Bytes.
func (v View) Offset(a Address) int {
	return int(a.Sub(v.Base))
}

// ByteOrder is the machine byte order used for every multi-byte read/write
// against heap memory. The class file format itself is always big-endian
// (spec.md §6); in-memory object layout uses the host's native order since
// it is never serialized, following spec.md §3's "typed pointer view"
// without mandating endianness for heap words. We fix little-endian for
// determinism across hosts (matches amd64/arm64, the only hosts this VM
// targets).
var ByteOrder = binary.LittleEndian
