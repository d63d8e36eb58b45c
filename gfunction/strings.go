/*
 * classvm - a JVM-class-file-compatible bytecode runtime
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package gfunction

import (
	"classvm/addr"
	"classvm/object"
	"classvm/types"
)

// stringValueFieldOffset is the byte offset of java/lang/String's sole
// instance field, "value" (a reference to the backing char array). The
// field-layout algorithm (classloader.LinkInstanceClass, spec.md §4.4)
// places a class's first and only reference-typed field immediately after
// the object header, so this is a fixed offset rather than something
// looked up through a Field descriptor, the same simplifying assumption
// Jacobin's early gfunction/javaLangString.go made before full reflection
// support landed.
const stringValueFieldOffset = object.HeaderBytes

// goStringFromJavaString decodes the UTF-16 char array backing a
// java/lang/String instance into a Go string.
func goStringFromJavaString(env *Env, self addr.Address) string {
	arr := env.Heap.ReadRef(self, stringValueFieldOffset)
	if arr.IsNull() {
		return ""
	}
	n := env.Heap.ReadLength(arr)
	runes := make([]uint16, n)
	for i := 0; i < n; i++ {
		runes[i] = env.Heap.ReadChar(arr, object.ElementOffset(types.Char, i))
	}
	return string(utf16Decode(runes))
}

// NewJavaString allocates a java/lang/String instance with its backing
// char array populated from a Go string. Exported for the interpreter's
// athrow/exception-construction path, which needs to materialize message
// strings outside this package.
func NewJavaString(env *Env, s string) (addr.Address, error) {
	return newJavaString(env, s)
}

// GoString decodes a java/lang/String instance back to a Go string, for
// the interpreter's exception-message and toString-adjacent call sites.
func GoString(env *Env, self addr.Address) string {
	return goStringFromJavaString(env, self)
}

// newJavaString allocates a java/lang/String instance with its backing
// char array populated from a Go string.
func newJavaString(env *Env, s string) (addr.Address, error) {
	runes := utf16Encode([]rune(s))
	arr, err := env.NewArray(types.Char, len(runes))
	if err != nil {
		return addr.Null, err
	}
	env.Heap.WriteLength(arr, len(runes))
	for i, r := range runes {
		env.Heap.WriteChar(arr, object.ElementOffset(types.Char, i), r)
	}
	obj, err := env.NewObject("java/lang/String")
	if err != nil {
		return addr.Null, err
	}
	env.Heap.WriteRef(obj, stringValueFieldOffset, arr)
	return obj, nil
}

// utf16Encode/utf16Decode implement the same surrogate-pair handling
// encoding/utf16 provides; hand-written here because this package does not
// otherwise need the container/ranging APIs of that package and spec.md
// §4.13 treats Java chars as raw uint16 code units, not runes, whenever a
// supplementary character would require a surrogate pair.
func utf16Encode(runes []rune) []uint16 {
	out := make([]uint16, 0, len(runes))
	for _, r := range runes {
		if r > 0xFFFF {
			r -= 0x10000
			out = append(out, uint16(0xD800+(r>>10)), uint16(0xDC00+(r&0x3FF)))
		} else {
			out = append(out, uint16(r))
		}
	}
	return out
}

func utf16Decode(units []uint16) []rune {
	out := make([]rune, 0, len(units))
	for i := 0; i < len(units); i++ {
		u := units[i]
		if u >= 0xD800 && u <= 0xDBFF && i+1 < len(units) && units[i+1] >= 0xDC00 && units[i+1] <= 0xDFFF {
			hi, lo := u, units[i+1]
			out = append(out, rune(0x10000+(int(hi)-0xD800)<<10+(int(lo)-0xDC00)))
			i++
		} else {
			out = append(out, rune(u))
		}
	}
	return out
}
