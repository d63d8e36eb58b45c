/*
 * classvm - a JVM-class-file-compatible bytecode runtime
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package object

import (
	"fmt"
	"unsafe"
)

func sprintf(format string, args ...interface{}) string {
	return fmt.Sprintf(format, args...)
}

// bytePtr reinterprets the first bytes of b as a pointer to a fixed-size
// word, for the atomic-ops helpers. Callers guarantee len(b) is at least
// the word size and the slice is naturally aligned (checked by
// checkAligned before this is called).
func bytePtr(b []byte) unsafe.Pointer {
	return unsafe.Pointer(&b[0])
}
