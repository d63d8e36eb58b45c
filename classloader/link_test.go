/*
 * classvm - a JVM-class-file-compatible bytecode runtime
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package classloader

import (
	"testing"

	"classvm/classfile"
)

func TestLayoutFieldsAscendingWithAlignment(t *testing.T) {
	fields := []*Field{
		{Name: "a", Size: 8},
		{Name: "b", Size: 1},
		{Name: "c", Size: 4},
	}
	// simulate the ascending sort LinkInstanceClass performs
	sorted := []*Field{fields[1], fields[2], fields[0]}
	final := layoutFields(sorted, 0)

	if sorted[0].Offset != 0 {
		t.Errorf("first (1-byte) field offset = %d, want 0", sorted[0].Offset)
	}
	if sorted[1].Offset != 4 {
		t.Errorf("second (4-byte) field offset = %d, want 4 (aligned up from 1)", sorted[1].Offset)
	}
	if sorted[2].Offset != 8 {
		t.Errorf("third (8-byte) field offset = %d, want 8", sorted[2].Offset)
	}
	if final != 16 {
		t.Errorf("final cursor = %d, want 16", final)
	}
}

func TestInstanceSizeMonotonicDownSubclassChain(t *testing.T) {
	base := &Class{Kind: KindInstance, Name: "Base", InstanceSize: 16}
	sub := &classfile.ParsedClass{
		ThisClass:  "Sub",
		SuperClass: "Base",
		Fields: []classfile.FieldInfo{
			{Name: "x", Desc: "I"},
		},
	}
	linked := LinkInstanceClass(sub, base, nil)
	if linked.InstanceSize < base.InstanceSize {
		t.Fatalf("subclass instance size %d must be >= super instance size %d", linked.InstanceSize, base.InstanceSize)
	}
}

func TestMirrorInstanceSize(t *testing.T) {
	javaLangClass := &Class{InstanceSize: 40}
	target := &Class{StaticSize: 24}
	got := MirrorInstanceSize(javaLangClass, target)
	want := 40 + 24 // 40 is already 8-aligned
	if got != want {
		t.Errorf("MirrorInstanceSize = %d, want %d", got, want)
	}
}
