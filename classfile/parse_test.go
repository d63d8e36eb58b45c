/*
 * classvm - a JVM-class-file-compatible bytecode runtime
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package classfile

import (
	"bytes"
	"encoding/binary"
	"testing"
)

// classBuilder assembles a minimal, valid class file by hand, the way
// Jacobin's formatCheck_test.go constructs byte buffers directly rather
// than compiling real .java sources.
type classBuilder struct {
	buf bytes.Buffer
	cp  [][]byte // constant pool entries, 1-based (index 0 unused)
}

func newClassBuilder() *classBuilder {
	cb := &classBuilder{}
	cb.cp = append(cb.cp, nil) // index 0 placeholder
	return cb
}

func (cb *classBuilder) addUtf8(s string) uint16 {
	var e bytes.Buffer
	e.WriteByte(byte(TagUtf8))
	var lenBuf [2]byte
	binary.BigEndian.PutUint16(lenBuf[:], uint16(len(s)))
	e.Write(lenBuf[:])
	e.WriteString(s)
	cb.cp = append(cb.cp, e.Bytes())
	return uint16(len(cb.cp) - 1)
}

func (cb *classBuilder) addClass(nameIdx uint16) uint16 {
	var e bytes.Buffer
	e.WriteByte(byte(TagClass))
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], nameIdx)
	e.Write(b[:])
	cb.cp = append(cb.cp, e.Bytes())
	return uint16(len(cb.cp) - 1)
}

func u16(v uint16) []byte {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	return b[:]
}

func u32(v uint32) []byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	return b[:]
}

// build assembles a complete class file with no fields/methods/attributes
// beyond what the caller injects via extra.
func (cb *classBuilder) build(accessFlags uint16, thisIdx, superIdx uint16, interfaces []uint16, extra func(*bytes.Buffer)) []byte {
	var out bytes.Buffer
	out.Write(u32(ClassMagic))
	out.Write(u16(0))  // minor
	out.Write(u16(52)) // major

	out.Write(u16(uint16(len(cb.cp)))) // constant_pool_count = len (1-based, index 0 unused)
	for i := 1; i < len(cb.cp); i++ {
		out.Write(cb.cp[i])
	}

	out.Write(u16(accessFlags))
	out.Write(u16(thisIdx))
	out.Write(u16(superIdx))

	out.Write(u16(uint16(len(interfaces))))
	for _, i := range interfaces {
		out.Write(u16(i))
	}

	out.Write(u16(0)) // fields_count
	out.Write(u16(0)) // methods_count

	if extra != nil {
		extra(&out)
	} else {
		out.Write(u16(0)) // attributes_count
	}

	return out.Bytes()
}

func TestParseMinimalClass(t *testing.T) {
	cb := newClassBuilder()
	nameIdx := cb.addUtf8("com/example/Foo")
	thisIdx := cb.addClass(nameIdx)
	superNameIdx := cb.addUtf8("java/lang/Object")
	superIdx := cb.addClass(superNameIdx)

	data := cb.build(AccSuper|AccPublic, thisIdx, superIdx, nil, nil)

	pc, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if pc.ThisClass != "com/example/Foo" {
		t.Errorf("ThisClass = %q, want com/example/Foo", pc.ThisClass)
	}
	if pc.SuperClass != "java/lang/Object" {
		t.Errorf("SuperClass = %q, want java/lang/Object", pc.SuperClass)
	}
}

func TestParseBadMagic(t *testing.T) {
	data := append([]byte{0x00, 0x00, 0x00, 0x00}, make([]byte, 10)...)
	_, err := Parse(data)
	if err == nil {
		t.Fatalf("expected ClassFormatError for bad magic")
	}
}

func TestParseThisClassMustBeClassEntry(t *testing.T) {
	cb := newClassBuilder()
	nameIdx := cb.addUtf8("com/example/Foo") // a Utf8, not a Class entry
	superNameIdx := cb.addUtf8("java/lang/Object")
	superIdx := cb.addClass(superNameIdx)

	data := cb.build(AccSuper, nameIdx, superIdx, nil, nil)
	_, err := Parse(data)
	if err == nil {
		t.Fatalf("expected error when this_class does not point to a Class constant")
	}
}

func TestValidateInterfaceMustBeAbstract(t *testing.T) {
	cb := newClassBuilder()
	nameIdx := cb.addUtf8("com/example/Iface")
	thisIdx := cb.addClass(nameIdx)
	superNameIdx := cb.addUtf8("java/lang/Object")
	superIdx := cb.addClass(superNameIdx)

	// ACC_INTERFACE set without ACC_ABSTRACT: invalid per spec.md §4.1(c).
	data := cb.build(AccInterface, thisIdx, superIdx, nil, nil)
	_, err := Parse(data)
	if err == nil {
		t.Fatalf("expected ClassFormatError: interface without ACC_ABSTRACT")
	}
}

func TestValidateClassCannotBeFinalAndAbstract(t *testing.T) {
	cb := newClassBuilder()
	nameIdx := cb.addUtf8("com/example/Weird")
	thisIdx := cb.addClass(nameIdx)
	superNameIdx := cb.addUtf8("java/lang/Object")
	superIdx := cb.addClass(superNameIdx)

	data := cb.build(AccFinal|AccAbstract, thisIdx, superIdx, nil, nil)
	_, err := Parse(data)
	if err == nil {
		t.Fatalf("expected ClassFormatError: both ACC_FINAL and ACC_ABSTRACT set")
	}
}

func TestModifiedUTF8RoundTrip(t *testing.T) {
	cases := []string{"hello", "", "café", "\U0001F600", string(rune(0))}
	for _, s := range cases {
		encoded := encodeModifiedUTF8(s)
		decoded, err := decodeModifiedUTF8(encoded)
		if err != nil {
			t.Fatalf("decodeModifiedUTF8(%q): %v", s, err)
		}
		if decoded != s {
			t.Errorf("round trip mismatch: got %q, want %q", decoded, s)
		}
	}
}

func TestLongDoubleOccupyTwoSlots(t *testing.T) {
	cb := newClassBuilder()
	nameIdx := cb.addUtf8("com/example/Foo")
	thisIdx := cb.addClass(nameIdx)
	superNameIdx := cb.addUtf8("java/lang/Object")
	superIdx := cb.addClass(superNameIdx)

	var longEntry bytes.Buffer
	longEntry.WriteByte(byte(TagLong))
	longEntry.Write(u32(0))
	longEntry.Write(u32(42))
	cb.cp = append(cb.cp, longEntry.Bytes())
	cb.cp = append(cb.cp, nil) // unused slot following the Long (spec.md §3/§8)

	afterIdx := cb.addUtf8("after")

	data := cb.build(AccSuper, thisIdx, superIdx, nil, nil)
	pc, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if pc.CP.Utf8At(afterIdx) != "after" {
		t.Fatalf("expected entry after Long/Double pair to be addressable at its own index")
	}
}
