/*
 * classvm - a JVM-class-file-compatible bytecode runtime
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package heap

import (
	"classvm/addr"
	"classvm/vmerr"
)

// Allocator is a thread-local allocation buffer (TLAB, spec.md glossary):
// the current Block plus a bump cursor, created per thread at first use.
type Allocator struct {
	space   *Space
	current *Block
	cursor  addr.Address
	end     addr.Address
}

// NewAllocator creates a TLAB bound to the given Space. It pulls its first
// block lazily, on the first Alloc call.
func NewAllocator(s *Space) *Allocator {
	return &Allocator{space: s}
}

// Alloc reserves size bytes aligned to align, bumping the cursor forward.
// size must not exceed BlockSize (spec.md §4.7: "larger allocations are a
// programmer error").
func (a *Allocator) Alloc(size int, align uintptr) (addr.Address, error) {
	if size > BlockSize {
		return addr.Null, vmerr.InternalError("allocation of %d bytes exceeds block size %d", size, BlockSize)
	}
	if a.current == nil {
		if err := a.refill(); err != nil {
			return addr.Null, err
		}
	}

	start := addr.AlignUp(a.cursor, align)
	end := start.Add(size)
	if end > a.end {
		if err := a.refill(); err != nil {
			return addr.Null, err
		}
		start = addr.AlignUp(a.cursor, align)
		end = start.Add(size)
		if end > a.end {
			// A fresh 16 MiB block still can't satisfy size: size > BlockSize
			// would already have been rejected above, so this can only occur
			// if align forces waste past the block boundary.
			return addr.Null, vmerr.InternalError("allocation of %d bytes (align %d) does not fit a fresh block", size, align)
		}
	}

	a.cursor = end
	return start, nil
}

// refill retires the current block (if any) and pulls a new one from the
// space's usable free list.
func (a *Allocator) refill() error {
	if a.current != nil {
		a.space.retire(a.current)
	}
	b, err := a.space.nextUsableBlock()
	if err != nil {
		return err
	}
	a.current = b
	a.cursor = b.Start
	a.end = b.End
	return nil
}

// Space returns the Allocator's backing Space.
func (a *Allocator) Space() *Space {
	return a.space
}
