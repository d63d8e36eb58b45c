/*
 * classvm - a JVM-class-file-compatible bytecode runtime
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

// Package classfile implements the "Class file parser" leaf component of
// spec.md §2/§4.1: a purely functional decoder from a class-file byte
// buffer to an immutable tree-shaped ParsedClass. It never retains the
// input buffer past the call that produced a ParsedClass.
//
// Grounded on Jacobin's jacobin/classloader/classloader.go constant-pool
// entry types (ParsedClass, field, method, attr, exception, bootstrapMethod
// structs) and its format-check tests
// (jacobin/classloader/formatCheck_test.go), with the richer typed
// attribute set supplemented from
// original_source/src/class_parser/attribute_info/predefined_attribute.rs.
package classfile

// CPTag identifies the kind of a constant pool entry (spec.md §3).
type CPTag byte

const (
	TagUtf8               CPTag = 1
	TagInteger            CPTag = 3
	TagFloat              CPTag = 4
	TagLong               CPTag = 5
	TagDouble             CPTag = 6
	TagClass              CPTag = 7
	TagString             CPTag = 8
	TagFieldRef            CPTag = 9
	TagMethodRef            CPTag = 10
	TagInterfaceMethodRef  CPTag = 11
	TagNameAndType         CPTag = 12
	TagMethodHandle        CPTag = 15
	TagMethodType          CPTag = 16
	TagDynamic             CPTag = 17
	TagInvokeDynamic       CPTag = 18
	TagModule              CPTag = 19
	TagPackage             CPTag = 20
)

// CPEntry is one 1-based constant pool slot. Long/Double entries occupy
// two logical slots; index i+1 following one is never dereferenced as a
// standalone entry (spec.md §3, §8 invariant).
type CPEntry struct {
	Tag CPTag

	// Utf8
	Utf8 string

	// Integer / Float / Long / Double
	IntVal    int32
	FloatVal  float32
	LongVal   int64
	DoubleVal float64

	// Class / String / MethodType: a single index
	Index uint16

	// FieldRef / MethodRef / InterfaceMethodRef
	ClassIndex       uint16
	NameAndTypeIndex uint16

	// NameAndType
	NameIndex uint16
	DescIndex uint16

	// MethodHandle
	RefKind  uint8
	RefIndex uint16

	// Dynamic / InvokeDynamic
	BootstrapMethodAttrIndex uint16
	// NameAndTypeIndex reused above
}

// ConstantPool is the 1-based constant pool table of a parsed class
// (spec.md §3).
type ConstantPool struct {
	Entries []CPEntry // Entries[0] is unused; valid indices are 1..len-1
}

func (cp *ConstantPool) at(i uint16) (CPEntry, bool) {
	if int(i) <= 0 || int(i) >= len(cp.Entries) {
		return CPEntry{}, false
	}
	return cp.Entries[i], true
}

// Utf8At returns the UTF-8 string at a constant pool index, or "" if the
// index is invalid or not a Utf8 entry.
func (cp *ConstantPool) Utf8At(i uint16) string {
	e, ok := cp.at(i)
	if !ok || e.Tag != TagUtf8 {
		return ""
	}
	return e.Utf8
}

// ClassNameAt resolves a Class constant pool entry at i to its name.
func (cp *ConstantPool) ClassNameAt(i uint16) string {
	e, ok := cp.at(i)
	if !ok || e.Tag != TagClass {
		return ""
	}
	return cp.Utf8At(e.Index)
}

// NameAndTypeAt returns the (name, descriptor) pair a NameAndType entry
// points to.
func (cp *ConstantPool) NameAndTypeAt(i uint16) (name, desc string) {
	e, ok := cp.at(i)
	if !ok || e.Tag != TagNameAndType {
		return "", ""
	}
	return cp.Utf8At(e.NameIndex), cp.Utf8At(e.DescIndex)
}

// RefAt resolves a FieldRef/MethodRef/InterfaceMethodRef to
// (className, name, descriptor).
func (cp *ConstantPool) RefAt(i uint16) (class, name, desc string) {
	e, ok := cp.at(i)
	if !ok {
		return "", "", ""
	}
	class = cp.ClassNameAt(e.ClassIndex)
	name, desc = cp.NameAndTypeAt(e.NameAndTypeIndex)
	return
}

// StringAt resolves a String constant to its backing UTF-8 text.
func (cp *ConstantPool) StringAt(i uint16) string {
	e, ok := cp.at(i)
	if !ok || e.Tag != TagString {
		return ""
	}
	return cp.Utf8At(e.Index)
}

// EntryAt exposes the raw constant pool entry at i, for ldc/ldc2_w and
// similar bytecode handlers that need to branch on Tag themselves rather
// than through one of the typed accessors above.
func (cp *ConstantPool) EntryAt(i uint16) (CPEntry, bool) {
	return cp.at(i)
}
