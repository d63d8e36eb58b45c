/*
 * classvm - a JVM-class-file-compatible bytecode runtime
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

// Package types holds the small, dependency-free type tags and constants
// shared across every other package: basic-type tags, their sizes, and the
// handful of sentinel values used by the class registry and string pool.
package types

// BasicType is the closed tag set from spec.md §3: {Boolean, Char, Float,
// Double, Byte, Short, Int, Long, Object, Array}.
type BasicType byte

const (
	Boolean BasicType = iota
	Char
	Float
	Double
	Byte
	Short
	Int
	Long
	Object
	Array
)

// Size returns the in-memory size, in bytes, of a value of this basic type.
// Reference slots (Object, Array) are always 8 bytes; there is no
// compressed-oop mode.
func (b BasicType) Size() int {
	switch b {
	case Boolean, Byte:
		return 1
	case Char, Short:
		return 2
	case Float, Int:
		return 4
	case Double, Long, Object, Array:
		return 8
	default:
		return 8
	}
}

// IsCategory2 reports whether a value of this type occupies two local-
// variable slots in a JVM frame (long and double only).
func (b BasicType) IsCategory2() bool {
	return b == Long || b == Double
}

func (b BasicType) String() string {
	switch b {
	case Boolean:
		return "boolean"
	case Char:
		return "char"
	case Float:
		return "float"
	case Double:
		return "double"
	case Byte:
		return "byte"
	case Short:
		return "short"
	case Int:
		return "int"
	case Long:
		return "long"
	case Object:
		return "object"
	case Array:
		return "array"
	default:
		return "unknown"
	}
}

// BasicTypeFromDescriptor derives the basic type from the first character of
// a field descriptor, per spec.md §4. Used by Field layout and by the
// reflection surface.
func BasicTypeFromDescriptor(desc string) BasicType {
	if desc == "" {
		return Object
	}
	switch desc[0] {
	case 'Z':
		return Boolean
	case 'C':
		return Char
	case 'F':
		return Float
	case 'D':
		return Double
	case 'B':
		return Byte
	case 'S':
		return Short
	case 'I':
		return Int
	case 'J':
		return Long
	case '[':
		return Array
	case 'L':
		return Object
	default:
		return Object
	}
}

// JavaByte represents a single JVM `byte` value independent of Go's signed
// byte semantics. String backing arrays do not use it: java/lang/String's
// `value` field is a char[] in this VM.
type JavaByte int8

// Sentinel string-pool indices, mirroring Jacobin's types.InvalidStringIndex
// / types.ObjectPoolStringIndex pattern. No package in this module refers
// to them.
const (
	InvalidStringIndex    uint32 = 0xFFFFFFFF
	ObjectPoolStringIndex uint32 = 0 // "java/lang/Object" is always pool index 0
	StringPoolStringIndex uint32 = 1 // "java/lang/String" is always pool index 1
)

// NoClassID is the reserved class identifier meaning "no class" / an
// unclassified heap slot (spec.md §3 "class == 0 denotes an unclassified/
// empty slot").
const NoClassID uint32 = 0
