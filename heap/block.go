/*
 * classvm - a JVM-class-file-compatible bytecode runtime
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package heap

import "classvm/addr"

// BlockSize is the fixed size of every Block handed out by a Space:
// 16 MiB, per spec.md §3/§4.7.
const BlockSize = 16 * 1024 * 1024

// Block is a [Start, End) range of heap memory, 16 MiB aligned, per
// spec.md §3. A Block is owned by at most one thread Allocator at a time.
type Block struct {
	Start addr.Address
	End   addr.Address
}

// Len returns the size of the block in bytes.
func (b Block) Len() int {
	return int(b.End.Sub(b.Start))
}
