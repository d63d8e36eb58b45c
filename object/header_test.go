/*
 * classvm - a JVM-class-file-compatible bytecode runtime
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package object

import (
	"testing"

	"classvm/addr"
	"classvm/types"
)

func newTestHeap(size int) (*Heap, addr.Address) {
	buf := make([]byte, size)
	v := addr.View{Base: addr.Address(0), Bytes: buf}
	return NewHeap(v), addr.Address(0)
}

func TestIdentityHashStability(t *testing.T) {
	h, base := newTestHeap(256)
	obj := base.Add(0)
	h.WriteHeader(obj, Header{Class: 7})

	h1 := h.IdentityHash(obj)
	h2 := h.IdentityHash(obj)
	if h1 != h2 {
		t.Fatalf("identity hash not stable: %d != %d", h1, h2)
	}
}

func TestFieldRoundTrip(t *testing.T) {
	h, base := newTestHeap(256)
	obj := base.Add(0)
	h.WriteHeader(obj, Header{Class: 1})

	h.WriteInt(obj, 0, 42)
	if got := h.ReadInt(obj, 0); got != 42 {
		t.Fatalf("putfield/getfield round trip failed: got %d", got)
	}
}

func TestArrayElementOffsetsRespectLongDoublePad(t *testing.T) {
	intBase := ArrayBaseOffset(types.Int)
	longBase := ArrayBaseOffset(types.Long)
	if longBase <= intBase {
		t.Fatalf("expected long array base offset > int array base offset, got long=%d int=%d", longBase, intBase)
	}
	if longBase%8 != 0 {
		t.Fatalf("long array base offset must be 8-byte aligned, got %d", longBase)
	}
}

func TestArrayBoundsCheck(t *testing.T) {
	if CheckBounds(5, 5) {
		t.Fatalf("index == length must be out of bounds")
	}
	if !CheckBounds(4, 5) {
		t.Fatalf("index 4 of length 5 must be in bounds")
	}
	if CheckBounds(-1, 5) {
		t.Fatalf("negative index must be out of bounds")
	}
}

func TestCompareAndSwapRef(t *testing.T) {
	h, base := newTestHeap(256)
	obj := base.Add(0)
	h.WriteRef(obj, 0, addr.Address(100))

	if !h.CompareAndSwapRef(obj, 0, addr.Address(100), addr.Address(200)) {
		t.Fatalf("CAS should have succeeded")
	}
	if got := h.ReadRef(obj, 0); got != addr.Address(200) {
		t.Fatalf("CAS did not update value, got %v", got)
	}
	if h.CompareAndSwapRef(obj, 0, addr.Address(100), addr.Address(300)) {
		t.Fatalf("CAS should have failed on stale expected value")
	}
}
