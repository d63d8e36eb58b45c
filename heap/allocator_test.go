/*
 * classvm - a JVM-class-file-compatible bytecode runtime
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package heap

import "testing"

func newTestSpace(t *testing.T, blocks int) *Space {
	t.Helper()
	resetForTest()
	s, err := Get(blocks * BlockSize)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	t.Cleanup(func() {
		_ = s.Close()
		resetForTest()
	})
	return s
}

func TestAllocatorMonotonicity(t *testing.T) {
	s := newTestSpace(t, 1)
	a := NewAllocator(s)

	prev, err := a.Alloc(16, 8)
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	for i := 0; i < 100; i++ {
		next, err := a.Alloc(16, 8)
		if err != nil {
			t.Fatalf("Alloc: %v", err)
		}
		if next <= prev {
			t.Fatalf("allocator not monotonic: prev=%v next=%v", prev, next)
		}
		prev = next
	}
}

func TestAllocatorCrossesBlockBoundary(t *testing.T) {
	s := newTestSpace(t, 2)
	a := NewAllocator(s)

	// Force a refill by requesting most of a block, then one more.
	if _, err := a.Alloc(BlockSize-64, 8); err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	if len(s.UsedBlocks()) != 0 {
		t.Fatalf("expected no retired blocks yet, got %d", len(s.UsedBlocks()))
	}

	if _, err := a.Alloc(128, 8); err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	if len(s.UsedBlocks()) != 1 {
		t.Fatalf("expected exactly one retired block, got %d", len(s.UsedBlocks()))
	}
}

func TestAllocatorOutOfMemory(t *testing.T) {
	s := newTestSpace(t, 1)
	a := NewAllocator(s)

	if _, err := a.Alloc(BlockSize-64, 8); err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	if _, err := a.Alloc(128, 8); err == nil {
		t.Fatalf("expected OutOfMemory once the single block is exhausted")
	}
}

func TestAllocOversizeIsProgrammerError(t *testing.T) {
	s := newTestSpace(t, 1)
	a := NewAllocator(s)
	if _, err := a.Alloc(BlockSize+1, 8); err == nil {
		t.Fatalf("expected an error allocating more than one block's worth")
	}
}

func TestAlignUp(t *testing.T) {
	s := newTestSpace(t, 1)
	a := NewAllocator(s)

	first, err := a.Alloc(3, 8)
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	second, err := a.Alloc(8, 8)
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	if int(second.Sub(first)) != 8 {
		t.Fatalf("expected 8-byte aligned second allocation, got offset %d", second.Sub(first))
	}
}
