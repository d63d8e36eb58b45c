/*
 * classvm - a JVM-class-file-compatible bytecode runtime
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package main

import (
	"classvm/addr"
	"classvm/heapdump"
	"classvm/object"
	"classvm/types"
)

// objectEntry is one decoded object found while walking a dumped block.
type objectEntry struct {
	Addr      addr.Address
	ClassName string
	Size      int
	IsArray   bool
	Length    int // meaningful only when IsArray
}

// walkBlock decodes every object in block sequentially, the way spec.md §4.7
// describes ("heap walks are possible one block at a time using header sizes
// and class metadata"): each dumped block is wrapped in its own addr.View so
// object.Heap's typed accessors read it exactly as the running VM would,
// without needing the other dumped blocks a reference field might point
// into (no entry here ever dereferences into another block).
func walkBlock(dump *heapdump.Dump, block heapdump.Block) []objectEntry {
	view := addr.View{Base: block.Start, Bytes: block.Bytes}
	h := object.NewHeap(view)

	var entries []objectEntry
	cur := block.Start
	end := block.Start.Add(len(block.Bytes))

	for cur.Add(object.HeaderBytes) <= end {
		hdr := h.ReadHeader(cur)
		meta, ok := dump.Classes[hdr.Class]
		if !ok {
			// Unclassified or uninitialized tail: the rest of the block was
			// never allocated into.
			break
		}

		entry := objectEntry{Addr: cur, ClassName: meta.Name, IsArray: meta.IsArray}
		var size int
		if meta.IsArray {
			if cur.Add(object.ArrayHeaderBytes) > end {
				break
			}
			length := h.ReadLength(cur)
			base := object.ArrayBaseOffset(meta.ElementType)
			size = base + length*elementSize(meta.ElementType)
			entry.Length = length
		} else {
			size = object.HeaderBytes + meta.InstanceSize
		}
		if size <= 0 || cur.Add(size) > end {
			break
		}
		entry.Size = size
		entries = append(entries, entry)

		cur = addr.AlignUp(cur.Add(size), object.WordSize)
	}
	return entries
}

func elementSize(t types.BasicType) int {
	return t.Size()
}
