/*
 * classvm - a JVM-class-file-compatible bytecode runtime
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package interp

import (
	"sync/atomic"

	"classvm/addr"
	"classvm/classloader"
	"classvm/frame"
	"classvm/gfunction"
	"classvm/heap"
	"classvm/object"
	"classvm/strintern"
	"classvm/types"
	"classvm/vmerr"
)

// Machine is the process-wide VM state shared by every thread: the class
// registry and loader, the heap space and its typed view, the string
// intern table, and the bootstrap core classes. One Machine is created at
// VM startup (cmd/classvm's main), mirroring how Jacobin's globals package
// and classloader.Classes act as the process-wide tables every frame's
// execution consults.
type Machine struct {
	Loader   *classloader.Loader
	Registry *classloader.Registry
	Space    *heap.Space
	ObjHeap  *object.Heap
	Intern   *strintern.Table
	Core     map[string]*classloader.Class // java/lang/Object, java/lang/Class, ...

	// StartThread is set once by the CLI wiring layer (cmd/classvm), after
	// both a Machine and a vmthread.Pool exist, so that a running thread's
	// Thread.start0 call can spawn a new goroutine without the interp
	// package importing vmthread (which itself must import interp to
	// spawn interp.Thread values) — the same dependency-inversion pattern
	// classloader.ClinitRunner/MirrorFactory use. Left nil, a start0 call
	// still flips the receiver's "alive" field (see gfunction's
	// threadStart0) but spawns nothing.
	StartThread func(vm *Machine, threadObj addr.Address) error

	nextThreadID atomic.Int64
}

// NewThreadID hands out a process-wide unique, monotonically increasing
// thread id (0 is reserved for the bootstrap/main thread created directly
// via NewThread in the CLI entry point).
func (m *Machine) NewThreadID() int64 {
	return m.nextThreadID.Add(1)
}

// NewMachine wires a fresh Registry, Loader, Space, and object Heap into a
// Machine, bootstraps the core and primitive classes, and registers the
// native catalog. Called once per process by the CLI entry point, which
// supplies the resolved application class path.
func NewMachine(path *classloader.ClassPath, space *heap.Space) *Machine {
	gfunction.RegisterAll()
	reg := classloader.NewRegistry()
	m := &Machine{
		Registry: reg,
		Space:    space,
		ObjHeap:  object.NewHeap(space.View()),
		Intern:   strintern.New(),
	}
	bootAlloc := heap.NewAllocator(space)
	loader := classloader.NewLoader("app", path, reg, nil)
	loader.Mirror = newMirrorFactory(loader, m.ObjHeap, bootAlloc, m.Intern)
	m.Loader = loader

	m.Core = classloader.BootstrapCoreClasses(reg)
	for name, c := range classloader.BootstrapPrimitiveClasses(reg) {
		m.Core[name] = c
	}
	return m
}

// Thread is one operating-system thread's interpreter state: its own call
// stack and thread-local allocator (spec.md §5: "Each thread holds its own
// interpreter call stack and thread-local allocator"), plus a reference to
// the shared Machine.
type Thread struct {
	ID    int64
	VM    *Machine
	Alloc *heap.Allocator
	Stack *frame.Stack
}

// NewThread creates a Thread bound to vm with a fresh TLAB and empty call
// stack.
func NewThread(id int64, vm *Machine) *Thread {
	return &Thread{
		ID:    id,
		VM:    vm,
		Alloc: heap.NewAllocator(vm.Space),
		Stack: frame.NewStack(),
	}
}

// AllocObject implements gfunction.AllocObject: it loads className
// (initializing it has already happened, or will happen, via the
// interpreter's new/getstatic/putstatic/invokestatic paths — this only
// allocates storage) and zeroes a fresh instance, writing its header.
func (t *Thread) AllocObject(className string) (addr.Address, error) {
	class, err := t.VM.Loader.LoadClass(className)
	if err != nil {
		return addr.Null, err
	}
	a, err := t.Alloc.Alloc(object.HeaderBytes+class.InstanceSize, object.WordSize)
	if err != nil {
		return addr.Null, err
	}
	t.VM.ObjHeap.WriteHeader(a, object.Header{Class: class.ID})
	return a, nil
}

// AllocArray implements gfunction.AllocArray: allocates a fresh array of n
// elements of the given basic type, writing its header and length word.
func (t *Thread) AllocArray(elem types.BasicType, n int) (addr.Address, error) {
	if n < 0 {
		return addr.Null, vmerr.NegativeArraySize(n)
	}
	size := object.ArrayBaseOffset(elem) + n*elem.Size()
	a, err := t.Alloc.Alloc(size, object.WordSize)
	if err != nil {
		return addr.Null, err
	}
	desc := arrayDescriptorFor(elem)
	arrClass, err := t.VM.Loader.LoadClass(desc)
	if err != nil {
		return addr.Null, err
	}
	t.VM.ObjHeap.WriteHeader(a, object.Header{Class: arrClass.ID})
	t.VM.ObjHeap.WriteLength(a, n)
	return a, nil
}

func arrayDescriptorFor(elem types.BasicType) string {
	switch elem {
	case types.Boolean:
		return "[Z"
	case types.Char:
		return "[C"
	case types.Float:
		return "[F"
	case types.Double:
		return "[D"
	case types.Byte:
		return "[B"
	case types.Short:
		return "[S"
	case types.Int:
		return "[I"
	case types.Long:
		return "[J"
	default:
		return "[Ljava/lang/Object;"
	}
}

// env builds a gfunction.Env bound to this thread, for dispatching a
// native method call.
func (t *Thread) env() *gfunction.Env {
	var start gfunction.StartThread
	if t.VM.StartThread != nil {
		start = func(threadObj addr.Address) error {
			return t.VM.StartThread(t.VM, threadObj)
		}
	}
	return &gfunction.Env{
		Heap:       t.VM.ObjHeap,
		NewObject:  t.AllocObject,
		NewArray:   t.AllocArray,
		Resolve:    t.resolveMirror,
		Assignable: t.classAssignable,
		Start:      start,
		Intern:     t.VM.Intern,
		ThreadID:   t.ID,
	}
}

// resolveMirror implements gfunction.ResolveMirror: load className and
// return its mirror's address, for Class.forName0/getPrimitiveClass.
func (t *Thread) resolveMirror(className string) (addr.Address, error) {
	class, err := t.VM.Loader.LoadClass(className)
	if err != nil {
		return addr.Null, err
	}
	return class.Mirror, nil
}

// classAssignable implements gfunction.ClassAssignable for
// Class.isAssignableFrom: other resolves to "the argument class",
// target resolves to "the receiver class" (this.isAssignableFrom(cls)).
func (t *Thread) classAssignable(targetName, otherName string) (bool, error) {
	target, err := t.VM.Loader.LoadClass(targetName)
	if err != nil {
		return false, err
	}
	other, err := t.VM.Loader.LoadClass(otherName)
	if err != nil {
		return false, err
	}
	return target.IsAssignableFrom(other), nil
}
