/*
 * classvm - a JVM-class-file-compatible bytecode runtime
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package interp

import (
	"testing"

	"classvm/classfile"
	"classvm/classloader"
	"classvm/frame"
	"classvm/gfunction"
	"classvm/heap"
	"classvm/object"
	"classvm/strintern"
	"classvm/types"
)

// newScenarioMachine wires a Machine against a synthetic Registry/Space the
// way vmthread/pool_test.go does, plus the bootstrap core classes (so raise,
// new String, and array-class loading all have java/lang/Object,
// java/lang/Throwable, java/lang/String and the exception taxonomy to work
// against without a real class path).
func newScenarioMachine(t *testing.T) *Machine {
	t.Helper()
	space, err := heap.Get(heap.BlockSize)
	if err != nil {
		t.Fatalf("heap.Get: %v", err)
	}
	reg := classloader.NewRegistry()
	objHeap := object.NewHeap(space.View())
	m := &Machine{
		Registry: reg,
		Space:    space,
		ObjHeap:  objHeap,
	}
	m.Loader = classloader.NewLoader("test", nil, reg, nil)
	m.Core = classloader.BootstrapCoreClasses(reg)
	m.Intern = strintern.New()
	return m
}

func allocInstance(t *testing.T, vm *Machine, class *classloader.Class) object.Value {
	t.Helper()
	a := heap.NewAllocator(vm.Space)
	addr, err := a.Alloc(object.HeaderBytes+class.InstanceSize, object.WordSize)
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	vm.ObjHeap.WriteHeader(addr, object.Header{Class: class.ID})
	return object.RefValue(addr)
}

// Scenario 1 (spec.md §8.1): identity hash is stable across repeated calls
// on the same object.
func TestScenarioIdentityHash(t *testing.T) {
	vm := newScenarioMachine(t)
	obj := allocInstance(t, vm, vm.Core["java/lang/Object"])

	h1 := vm.ObjHeap.IdentityHash(obj.Ref)
	h2 := vm.ObjHeap.IdentityHash(obj.Ref)
	if h1 != h2 {
		t.Fatalf("identity hash not stable: %d != %d", h1, h2)
	}
}

// Scenario 2 (spec.md §8.2): putfield x=7; getfield x leaves 7 on the
// stack, driven through the real bytecode handlers rather than calling
// object.Heap directly.
func TestScenarioFieldRoundTrip(t *testing.T) {
	vm := newScenarioMachine(t)

	cp := &classfile.ConstantPool{Entries: []classfile.CPEntry{
		{}, // 0 unused
		{Tag: classfile.TagUtf8, Utf8: "test/Point"},        // 1
		{Tag: classfile.TagClass, Index: 1},                  // 2
		{Tag: classfile.TagUtf8, Utf8: "x"},                   // 3
		{Tag: classfile.TagUtf8, Utf8: "I"},                   // 4
		{Tag: classfile.TagNameAndType, NameIndex: 3, DescIndex: 4}, // 5
		{Tag: classfile.TagFieldRef, ClassIndex: 2, NameAndTypeIndex: 5}, // 6
	}}
	pc := &classfile.ParsedClass{
		ThisClass: "test/Point",
		CP:        cp,
		Fields:    []classfile.FieldInfo{{Name: "x", Desc: "I"}},
		Methods: []classfile.MethodInfo{{
			Name: "roundTrip", Desc: "()I",
			Code: &classfile.CodeAttribute{
				MaxStack: 2, MaxLocals: 1,
				// aload_0; bipush 7; putfield #6; aload_0; getfield #6; ireturn
				Code: []byte{0x2A, 0x10, 7, 0xB5, 0, 6, 0x2A, 0xB4, 0, 6, 0xAC},
			},
		}},
	}
	class := classloader.LinkInstanceClass(pc, vm.Core["java/lang/Object"], nil)
	vm.Registry.Register(class)

	inst := allocInstance(t, vm, class)

	th := NewThread(0, vm)
	m := class.Methods[0]
	f := frame.New(m, class)
	f.SetLocal(0, inst)

	v, sig := th.Execute(f)
	if sig != nil {
		t.Fatalf("unexpected exception: %v", sig)
	}
	if v.Int() != 7 {
		t.Fatalf("round trip: got %d, want 7", v.Int())
	}
}

// Scenario 3 (spec.md §8.3): caload with an out-of-bounds index on a
// char[5] raises ArrayIndexOutOfBoundsException.
func TestScenarioArrayBounds(t *testing.T) {
	vm := newScenarioMachine(t)
	th := NewThread(0, vm)

	arr, err := th.AllocArray(types.Char, 5)
	if err != nil {
		t.Fatalf("AllocArray: %v", err)
	}

	m := &classloader.Method{
		Name: "get", Desc: "(I)C", MaxStack: 2, MaxLocals: 2,
		// aload_0; iload_1; caload; ireturn
		Code: []byte{0x2A, 0x1B, 0x34, 0xAC},
	}
	class := &classloader.Class{Name: "test/ArrayUser", Kind: classloader.KindInstance}
	vm.Registry.Register(class)

	f := frame.New(m, class)
	f.SetLocal(0, object.RefValue(arr))
	f.SetLocal(1, object.IntValue(5))

	_, sig := th.Execute(f)
	if sig == nil {
		t.Fatalf("expected ArrayIndexOutOfBoundsException, got none")
	}
	if sig.Class == nil || sig.Class.Name != "java/lang/ArrayIndexOutOfBoundsException" {
		t.Fatalf("expected ArrayIndexOutOfBoundsException, got %v", sig.Class)
	}
}

// Scenario 4 (spec.md §8.4): invoking A.m() on a B instance via an
// A-typed call site dispatches to B's override.
func TestScenarioVirtualDispatch(t *testing.T) {
	vm := newScenarioMachine(t)

	base := &classloader.Class{Name: "test/A", Kind: classloader.KindInstance}
	base.Methods = []*classloader.Method{{
		Name: "m", Desc: "()I", ReturnDesc: "I", MaxStack: 1, MaxLocals: 1,
		Code: []byte{byte(OpIconst1), byte(OpIreturn)},
	}}
	vm.Registry.Register(base)

	derived := &classloader.Class{Name: "test/B", Kind: classloader.KindInstance, Super: base}
	derived.Methods = []*classloader.Method{{
		Name: "m", Desc: "()I", ReturnDesc: "I", MaxStack: 1, MaxLocals: 1,
		Code: []byte{byte(OpIconst2), byte(OpIreturn)},
	}}
	vm.Registry.Register(derived)

	cp := &classfile.ConstantPool{Entries: []classfile.CPEntry{
		{},
		{Tag: classfile.TagUtf8, Utf8: "test/A"},                     // 1
		{Tag: classfile.TagClass, Index: 1},                          // 2
		{Tag: classfile.TagUtf8, Utf8: "m"},                          // 3
		{Tag: classfile.TagUtf8, Utf8: "()I"},                        // 4
		{Tag: classfile.TagNameAndType, NameIndex: 3, DescIndex: 4},  // 5
		{Tag: classfile.TagMethodRef, ClassIndex: 2, NameAndTypeIndex: 5}, // 6
	}}
	caller := &classloader.Class{Name: "test/Caller", Kind: classloader.KindInstance, CP: cp}
	callVia := &classloader.Method{
		Name: "callM", Desc: "()I", MaxStack: 1, MaxLocals: 1,
		// aload_0; invokevirtual #6; ireturn
		Code: []byte{0x2A, byte(OpInvokevirtual), 0, 6, 0xAC},
	}
	vm.Registry.Register(caller)

	instance := allocInstance(t, vm, derived)

	th := NewThread(0, vm)
	f := frame.New(callVia, caller)
	f.SetLocal(0, instance)

	v, sig := th.Execute(f)
	if sig != nil {
		t.Fatalf("unexpected exception: %v", sig)
	}
	if v.Int() != 2 {
		t.Fatalf("virtual dispatch: got %d, want 2 (B's override)", v.Int())
	}
}

// Scenario 5 (spec.md §8.5): a class whose <clinit> increments a static
// counter via putstatic runs that counter to exactly 1 no matter how many
// times a static method of the class is subsequently invoked.
func TestScenarioClinitOnce(t *testing.T) {
	vm := newScenarioMachine(t)

	cp := &classfile.ConstantPool{Entries: []classfile.CPEntry{
		{},
		{Tag: classfile.TagUtf8, Utf8: "test/Counter"},               // 1
		{Tag: classfile.TagClass, Index: 1},                          // 2
		{Tag: classfile.TagUtf8, Utf8: "count"},                      // 3
		{Tag: classfile.TagUtf8, Utf8: "I"},                          // 4
		{Tag: classfile.TagNameAndType, NameIndex: 3, DescIndex: 4},  // 5
		{Tag: classfile.TagFieldRef, ClassIndex: 2, NameAndTypeIndex: 5}, // 6
	}}
	pc := &classfile.ParsedClass{
		ThisClass: "test/Counter",
		CP:        cp,
		Fields:    []classfile.FieldInfo{{Name: "count", Desc: "I", AccessFlags: classfile.AccStatic}},
		Methods: []classfile.MethodInfo{
			{
				Name: "<clinit>", Desc: "()V", AccessFlags: classfile.AccStatic,
				Code: &classfile.CodeAttribute{
					MaxStack: 2, MaxLocals: 0,
					// getstatic #6; bipush 1; iadd; putstatic #6; return
					Code: []byte{0xB2, 0, 6, 0x10, 1, 0x60, 0xB3, 0, 6, 0xB1},
				},
			},
			{
				Name: "get", Desc: "()I", AccessFlags: classfile.AccStatic,
				Code: &classfile.CodeAttribute{
					MaxStack: 1, MaxLocals: 0,
					// getstatic #6; ireturn
					Code: []byte{0xB2, 0, 6, 0xAC},
				},
			},
		},
	}
	class := classloader.LinkInstanceClass(pc, vm.Core["java/lang/Object"], nil)
	vm.Registry.Register(class)

	mirrorSize := classloader.MirrorInstanceSize(vm.Core["java/lang/Class"], class)
	a := heap.NewAllocator(vm.Space)
	mirror, err := a.Alloc(object.HeaderBytes+mirrorSize, object.WordSize)
	if err != nil {
		t.Fatalf("Alloc mirror: %v", err)
	}
	vm.ObjHeap.WriteHeader(mirror, object.Header{Class: vm.Core["java/lang/Class"].ID})
	class.Mirror = mirror

	get := class.Methods[1]
	th := NewThread(0, vm)

	for i := 0; i < 2; i++ {
		f := frame.New(get, class)
		v, sig := th.Execute(f)
		if sig != nil {
			t.Fatalf("call %d: unexpected exception: %v", i, sig)
		}
		if v.Int() != 1 {
			t.Fatalf("call %d: count = %d, want 1 (clinit must run exactly once)", i, v.Int())
		}
	}
}

// Scenario 6 (spec.md §8.6): two distinct java/lang/String instances built
// from the same content intern to the same handle.
func TestScenarioStringIntern(t *testing.T) {
	vm := newScenarioMachine(t)
	th := NewThread(0, vm)
	env := th.env()

	s1, err := gfunction.NewJavaString(env, "abc")
	if err != nil {
		t.Fatalf("NewJavaString: %v", err)
	}
	s2, err := gfunction.NewJavaString(env, "abc")
	if err != nil {
		t.Fatalf("NewJavaString: %v", err)
	}
	if s1 == s2 {
		t.Fatalf("expected two distinct String instances before interning")
	}

	table := vm.Intern
	if table == nil {
		t.Fatalf("Machine.Intern must be set")
	}
	h1 := table.Intern("abc", s1)
	h2 := table.Intern("abc", s2)
	if h1 != h2 {
		t.Fatalf("intern handles differ: %v != %v", h1, h2)
	}
}
