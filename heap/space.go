/*
 * classvm - a JVM-class-file-compatible bytecode runtime
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

// Package heap implements the "Heap/allocator" leaf component of
// spec.md §2/§4.7/§3: a process-wide Space that reserves a contiguous
// mapped region and partitions it into 16 MiB Blocks, and a per-thread
// bump-pointer Allocator (TLAB) that hands out object storage from the
// current Block. Objects are never freed; this is an allocator, not a
// collector (spec.md §1 non-goals).
//
// Grounded on original_source/src/gc/space.rs (gfreezy/hippo's
// crates/gc + src/gc/space.rs), translated from Rust's mmap-crate use into
// Go's github.com/edsrzf/mmap-go, the same mmap wrapper saferwall-pe uses
// to map PE/COFF images read-only; here it backs a single writable
// anonymous mapping instead of a file.
package heap

import (
	"sync"

	"github.com/edsrzf/mmap-go"

	"classvm/addr"
	"classvm/vmerr"
)

// DefaultInitialSize is the default initial reservation: 100 MiB
// (spec.md §4.7).
const DefaultInitialSize = 100 * 1024 * 1024

// Space is the process-wide heap region. It is created once, lazily, at VM
// startup and released at VM teardown (spec.md §3 "Space" lifecycle); it is
// never resized mid-run and memory handed to threads is never reclaimed.
type Space struct {
	mu      sync.Mutex
	region  mmap.MMap
	base    addr.Address
	usable  []*Block
	used    []*Block
}

var (
	once      sync.Once
	theSpace  *Space
	initErr   error
)

// Get returns the process-wide Space, creating it (reserving sizeBytes,
// rounded down to a whole number of blocks) on first call. Subsequent calls
// with a different sizeBytes are ignored; the Space is sized once.
func Get(sizeBytes int) (*Space, error) {
	once.Do(func() {
		theSpace, initErr = newSpace(sizeBytes)
	})
	return theSpace, initErr
}

func newSpace(sizeBytes int) (*Space, error) {
	if sizeBytes <= 0 {
		sizeBytes = DefaultInitialSize
	}
	numBlocks := sizeBytes / BlockSize
	if numBlocks < 1 {
		numBlocks = 1
	}
	totalSize := numBlocks * BlockSize

	// One extra block of slack lets the first block start on a BlockSize
	// boundary wherever the mapping lands.
	region, err := mmap.MapRegion(nil, totalSize+BlockSize, mmap.RDWR, mmap.ANON, 0)
	if err != nil {
		return nil, vmerr.OutOfMemory("failed to reserve heap space: " + err.Error())
	}

	base := addr.Address(uintptrOf(region))
	s := &Space{
		region: region,
		base:   base,
	}
	first := addr.AlignUp(base, BlockSize)
	for i := 0; i < numBlocks; i++ {
		start := first.Add(i * BlockSize)
		s.usable = append(s.usable, &Block{Start: start, End: start.Add(BlockSize)})
	}
	return s, nil
}

// View exposes the raw backing bytes of the space for typed reads/writes,
// as addr.View requires.
func (s *Space) View() addr.View {
	return addr.View{Base: s.base, Bytes: s.region}
}

// nextUsableBlock pulls one block off the usable free list, blocking on the
// space's mutex as spec.md §5 describes. Returns an OutOfMemory VMError if
// none remain.
func (s *Space) nextUsableBlock() (*Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.usable) == 0 {
		return nil, vmerr.OutOfMemory("no usable heap blocks remain")
	}
	b := s.usable[len(s.usable)-1]
	s.usable = s.usable[:len(s.usable)-1]
	return b, nil
}

// retire moves a block to the used list; it is never returned to usable
// (spec.md §4.7: "the prior block becomes 'used' (no reclamation)").
func (s *Space) retire(b *Block) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.used = append(s.used, b)
}

// UsedBlocks returns a snapshot of every block an allocator has retired,
// for the heap-walking debug dump utility (spec.md §4.7). A block an
// allocator still holds as its current block is not included.
func (s *Space) UsedBlocks() []*Block {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Block, len(s.used))
	copy(out, s.used)
	return out
}

// Close releases the mapped region. Called once at VM teardown.
func (s *Space) Close() error {
	return s.region.Unmap()
}

// resetForTest tears down the singleton so package heap's tests can create
// a fresh Space per test case without sharing global state.
func resetForTest() {
	once = sync.Once{}
	theSpace = nil
	initErr = nil
}
