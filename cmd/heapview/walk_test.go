/*
 * classvm - a JVM-class-file-compatible bytecode runtime
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package main

import (
	"testing"

	"classvm/addr"
	"classvm/heapdump"
	"classvm/object"
	"classvm/types"
)

func TestWalkBlockDecodesInstancesAndArrays(t *testing.T) {
	const blockStart = addr.Address(0x10000)
	buf := make([]byte, 256)
	view := addr.View{Base: blockStart, Bytes: buf}
	h := object.NewHeap(view)

	// Object 1: a plain instance with an 8-byte body.
	obj1 := blockStart
	h.WriteHeader(obj1, object.Header{Class: 1})
	h.WriteLong(obj1, 0, 99)

	// Object 2: an int[3] array immediately after, 8-aligned.
	obj1Size := object.HeaderBytes + 8
	obj2 := addr.AlignUp(obj1.Add(obj1Size), object.WordSize)
	h.WriteHeader(obj2, object.Header{Class: 2})
	h.WriteLength(obj2, 3)

	dump := &heapdump.Dump{
		Classes: map[uint32]heapdump.ClassMeta{
			1: {ID: 1, Name: "some/Class", InstanceSize: 8},
			2: {ID: 2, Name: "[I", IsArray: true, ElementType: types.Int},
		},
	}

	entries := walkBlock(dump, heapdump.Block{Start: blockStart, Bytes: buf})

	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d: %+v", len(entries), entries)
	}
	if entries[0].ClassName != "some/Class" || entries[0].IsArray {
		t.Fatalf("entry 0 mismatch: %+v", entries[0])
	}
	if entries[1].ClassName != "[I" || !entries[1].IsArray || entries[1].Length != 3 {
		t.Fatalf("entry 1 mismatch: %+v", entries[1])
	}
}

func TestWalkBlockStopsAtUnclassifiedTail(t *testing.T) {
	const blockStart = addr.Address(0x20000)
	buf := make([]byte, 64)
	view := addr.View{Base: blockStart, Bytes: buf}
	h := object.NewHeap(view)
	h.WriteHeader(blockStart, object.Header{Class: 0})

	dump := &heapdump.Dump{Classes: map[uint32]heapdump.ClassMeta{}}
	entries := walkBlock(dump, heapdump.Block{Start: blockStart, Bytes: buf})
	if len(entries) != 0 {
		t.Fatalf("expected no entries walking an unclassified block, got %+v", entries)
	}
}
