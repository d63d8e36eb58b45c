/*
 * classvm - a JVM-class-file-compatible bytecode runtime
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package interp

import (
	"classvm/addr"
	"classvm/classloader"
	"classvm/gfunction"
	"classvm/heap"
	"classvm/object"
	"classvm/strintern"
	"classvm/types"
	"classvm/vmerr"
)

// mirrorPrimitiveBit marks a java/lang/Class mirror as representing one of
// the nine primitive types (classloader.BootstrapPrimitiveClasses) inside
// the mirror's own "accessFlags" field. Class access flags of the class
// file versions this VM parses (up to 52) never set bit 15, leaving it
// free for VM-internal use; storing it on the mirror lets gfunction's Class natives answer
// isPrimitive()/isInterface() by reading the receiver's own heap fields,
// without gfunction importing classloader (see gfunction/javaLangClass.go).
const mirrorPrimitiveBit = 1 << 15

// newMirrorFactory builds the classloader.MirrorFactory every Loader is
// constructed with: on first load of a class, allocate and populate its
// java/lang/Class mirror instance (spec.md §4.4's "size_of(java/lang/Class)
// rounded up to 8 + static_size(target)"), sized and laid out by
// classloader.MirrorInstanceSize.
//
// Mirrors are allocated from a dedicated bootstrap Allocator rather than a
// per-thread one: class loading is a cross-thread, synchronized act
// (classloader.Registry.Register takes a lock), and the mirror it
// produces must outlive whichever goroutine happened to trigger the load.
func newMirrorFactory(loader *classloader.Loader, objHeap *object.Heap, alloc *heap.Allocator, intern *strintern.Table) classloader.MirrorFactory {
	return func(c *classloader.Class) (addr.Address, error) {
		meta, err := loader.LoadClass("java/lang/Class")
		if err != nil {
			return addr.Null, err
		}

		size := classloader.MirrorInstanceSize(meta, c)
		a, err := alloc.Alloc(object.HeaderBytes+size, object.WordSize)
		if err != nil {
			return addr.Null, err
		}
		objHeap.WriteHeader(a, object.Header{Class: meta.ID})

		env := &gfunction.Env{
			Heap:      objHeap,
			NewObject: bootstrapAllocObject(loader, objHeap, alloc),
			NewArray:  bootstrapAllocArray(loader, objHeap, alloc),
			Intern:    intern,
		}
		if strRef, err := gfunction.NewJavaString(env, c.Name); err == nil {
			if nameField, _ := meta.FindInstanceField("name"); nameField != nil {
				objHeap.WriteRef(a, nameField.Offset, strRef)
			}
		}

		flags := int32(c.AccessFlags)
		if c.IsPrimitiveType {
			flags |= mirrorPrimitiveBit
		}
		if flagsField, _ := meta.FindInstanceField("accessFlags"); flagsField != nil {
			objHeap.WriteInt(a, flagsField.Offset, flags)
		}
		return a, nil
	}
}

// bootstrapAllocObject and bootstrapAllocArray are the mirror factory's own
// allocation path, the same shape as Thread.AllocObject/AllocArray but
// bound to the bootstrap Allocator rather than a thread's TLAB: the mirror
// factory runs during class loading, not inside a running thread's call
// stack, so it has no Thread to borrow one from.
func bootstrapAllocObject(loader *classloader.Loader, objHeap *object.Heap, alloc *heap.Allocator) gfunction.AllocObject {
	return func(className string) (addr.Address, error) {
		class, err := loader.LoadClass(className)
		if err != nil {
			return addr.Null, err
		}
		a, err := alloc.Alloc(object.HeaderBytes+class.InstanceSize, object.WordSize)
		if err != nil {
			return addr.Null, err
		}
		objHeap.WriteHeader(a, object.Header{Class: class.ID})
		return a, nil
	}
}

func bootstrapAllocArray(loader *classloader.Loader, objHeap *object.Heap, alloc *heap.Allocator) gfunction.AllocArray {
	return func(elem types.BasicType, n int) (addr.Address, error) {
		if n < 0 {
			return addr.Null, vmerr.NegativeArraySize(n)
		}
		size := object.ArrayBaseOffset(elem) + n*elem.Size()
		a, err := alloc.Alloc(size, object.WordSize)
		if err != nil {
			return addr.Null, err
		}
		arrClass, err := loader.LoadClass(arrayDescriptorFor(elem))
		if err != nil {
			return addr.Null, err
		}
		objHeap.WriteHeader(a, object.Header{Class: arrClass.ID})
		objHeap.WriteLength(a, n)
		return a, nil
	}
}
