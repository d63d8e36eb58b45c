/*
 * classvm - a JVM-class-file-compatible bytecode runtime
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package heap

import "unsafe"

// uintptrOf returns the base address of a mapped byte slice's backing
// array. The mapping is fixed-size and never reallocated by Go's runtime
// (it is backed by an OS mmap, not a Go-managed slice grow), so the
// returned address stays valid for the mapping's lifetime.
func uintptrOf(b []byte) uintptr {
	if len(b) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&b[0]))
}
