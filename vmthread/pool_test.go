/*
 * classvm - a JVM-class-file-compatible bytecode runtime
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package vmthread

import (
	"testing"

	"classvm/classloader"
	"classvm/heap"
	"classvm/interp"
	"classvm/object"
)

// newTestMachine wires a Machine directly against a synthetic Registry and
// Space, skipping NewMachine's class-path bootstrap (no .class files are
// loaded in these tests — every class a test needs is registered by hand).
func newTestMachine(t *testing.T) *interp.Machine {
	t.Helper()
	space, err := heap.Get(heap.BlockSize)
	if err != nil {
		t.Fatalf("heap.Get: %v", err)
	}
	reg := classloader.NewRegistry()
	return &interp.Machine{
		Registry: reg,
		Space:    space,
		ObjHeap:  object.NewHeap(space.View()),
	}
}

// registerRunnable registers a class whose run()V body is a single
// `return` opcode and allocates an instance of it, returning the instance's
// address.
func registerRunnable(t *testing.T, vm *interp.Machine, name string) *object.Value {
	t.Helper()
	reg := vm.Registry

	class := &classloader.Class{Name: name, Kind: classloader.KindInstance}
	class.InstanceSize = 0
	class.Methods = []*classloader.Method{{
		Name: "run", Desc: "()V", Code: []byte{byte(interp.OpReturn)}, MaxStack: 0, MaxLocals: 1,
	}}
	reg.Register(class)

	a := heap.NewAllocator(vm.Space)
	addr, err := a.Alloc(object.HeaderBytes, object.WordSize)
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	vm.ObjHeap.WriteHeader(addr, object.Header{Class: class.ID})
	v := object.RefValue(addr)
	return &v
}

func TestPoolStartThreadRunsRunnableAndClearsAlive(t *testing.T) {
	vm := newTestMachine(t)
	threadClass := &classloader.Class{Name: "java/lang/Thread", Kind: classloader.KindInstance}
	threadClass.InstanceSize = 24 // target(8) + alive(1, padded to 8) + pad, enough for offsets used below
	vm.Registry.Register(threadClass)

	a := heap.NewAllocator(vm.Space)
	threadObj, err := a.Alloc(object.HeaderBytes+threadClass.InstanceSize, object.WordSize)
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	vm.ObjHeap.WriteHeader(threadObj, object.Header{Class: threadClass.ID})
	vm.ObjHeap.WriteBoolean(threadObj, interp.ThreadAliveFieldOffset, true)

	runnable := registerRunnable(t, vm, "test/Runnable")
	vm.ObjHeap.WriteRef(threadObj, 8, runnable.Ref) // "target" field

	pool := NewPool(vm)
	if err := pool.startThread(vm, threadObj); err != nil {
		t.Fatalf("startThread: %v", err)
	}
	if err := pool.Wait(); err != nil {
		t.Fatalf("Wait: %v", err)
	}

	if vm.ObjHeap.ReadBoolean(threadObj, interp.ThreadAliveFieldOffset) {
		t.Fatalf("expected alive flag cleared once run() returned")
	}
}

func TestPoolStartThreadNoOpWithoutRunMethod(t *testing.T) {
	vm := newTestMachine(t)
	threadClass := &classloader.Class{Name: "java/lang/Thread2", Kind: classloader.KindInstance}
	threadClass.InstanceSize = 24
	vm.Registry.Register(threadClass)

	a := heap.NewAllocator(vm.Space)
	threadObj, err := a.Alloc(object.HeaderBytes+threadClass.InstanceSize, object.WordSize)
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	vm.ObjHeap.WriteHeader(threadObj, object.Header{Class: threadClass.ID})
	vm.ObjHeap.WriteBoolean(threadObj, interp.ThreadAliveFieldOffset, true)

	pool := NewPool(vm)
	if err := pool.startThread(vm, threadObj); err != nil {
		t.Fatalf("startThread: %v", err)
	}
	if err := pool.Wait(); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if vm.ObjHeap.ReadBoolean(threadObj, interp.ThreadAliveFieldOffset) {
		t.Fatalf("expected alive flag cleared even with no run method")
	}
}

func TestPoolRunsMultipleThreadsConcurrently(t *testing.T) {
	vm := newTestMachine(t)
	threadClass := &classloader.Class{Name: "java/lang/Thread3", Kind: classloader.KindInstance}
	threadClass.InstanceSize = 24
	vm.Registry.Register(threadClass)

	pool := NewPool(vm)
	const n = 8
	runnable := registerRunnable(t, vm, "test/Runnable2")

	for i := 0; i < n; i++ {
		a := heap.NewAllocator(vm.Space)
		threadObj, err := a.Alloc(object.HeaderBytes+threadClass.InstanceSize, object.WordSize)
		if err != nil {
			t.Fatalf("Alloc: %v", err)
		}
		vm.ObjHeap.WriteHeader(threadObj, object.Header{Class: threadClass.ID})
		vm.ObjHeap.WriteBoolean(threadObj, interp.ThreadAliveFieldOffset, true)
		vm.ObjHeap.WriteRef(threadObj, 8, runnable.Ref)
		if err := pool.startThread(vm, threadObj); err != nil {
			t.Fatalf("startThread: %v", err)
		}
	}

	if err := pool.Wait(); err != nil {
		t.Fatalf("Wait: %v", err)
	}
}
