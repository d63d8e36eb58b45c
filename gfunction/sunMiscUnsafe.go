/*
 * classvm - a JVM-class-file-compatible bytecode runtime
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package gfunction

import (
	"classvm/object"
	"classvm/types"
)

// loadMiscUnsafe registers sun/misc/Unsafe shims: registerNatives (a
// no-op), arrayBaseOffset, arrayIndexScale, addressSize, compareAndSwapInt,
// compareAndSwapObject and getIntVolatile. objectFieldOffset and the
// jdk/internal/misc/Unsafe class are not registered. These are thin wrappers over the object package's own
// header/array arithmetic (spec.md §4.10), so Unsafe in this VM really is
// unsafe in the literal sense of exposing the VM's actual layout, not an
// approximation of it.
func loadMiscUnsafe() {
	MethodSignatures["sun/misc/Unsafe.registerNatives()V"] = GMeth{0, justReturn}
	MethodSignatures["sun/misc/Unsafe.arrayBaseOffset(Ljava/lang/Class;)I"] = GMeth{1, unsafeArrayBaseOffsetObject}
	MethodSignatures["sun/misc/Unsafe.arrayIndexScale(Ljava/lang/Class;)I"] = GMeth{1, unsafeArrayIndexScaleObject}
	MethodSignatures["sun/misc/Unsafe.addressSize()I"] = GMeth{0, unsafeAddressSize}
	MethodSignatures["sun/misc/Unsafe.compareAndSwapInt(Ljava/lang/Object;JII)Z"] = GMeth{4, unsafeCompareAndSwapInt}
	MethodSignatures["sun/misc/Unsafe.compareAndSwapObject(Ljava/lang/Object;JLjava/lang/Object;Ljava/lang/Object;)Z"] = GMeth{4, unsafeCompareAndSwapObject}
	MethodSignatures["sun/misc/Unsafe.getIntVolatile(Ljava/lang/Object;J)I"] = GMeth{2, unsafeGetIntVolatile}
}

// unsafeArrayBaseOffsetObject returns the byte offset of element 0 for an
// Object-element (reference) array; the receiver Class argument is unused
// since this VM's array header layout does not vary by element type's
// identity, only by its basic-type category (spec.md §4.10).
func unsafeArrayBaseOffsetObject(env *Env, params []object.Value) (object.Value, error) {
	return object.IntValue(int32(object.ArrayBaseOffset(types.Object))), nil
}

func unsafeArrayIndexScaleObject(env *Env, params []object.Value) (object.Value, error) {
	return object.IntValue(int32(types.Object.Size())), nil
}

// "sun/misc/Unsafe.addressSize()I" — this VM never runs in compressed-oop
// mode, so every reference is a full 8-byte address (spec.md §4.10).
func unsafeAddressSize(env *Env, params []object.Value) (object.Value, error) {
	return object.IntValue(8), nil
}

func unsafeCompareAndSwapInt(env *Env, params []object.Value) (object.Value, error) {
	self, offset := params[1].Ref, int(params[2].Long())
	expect, update := params[3].Int(), params[4].Int()
	ok := env.Heap.CompareAndSwapInt(self, offset, expect, update)
	return object.BoolValue(ok), nil
}

func unsafeCompareAndSwapObject(env *Env, params []object.Value) (object.Value, error) {
	self, offset := params[1].Ref, int(params[2].Long())
	expect, update := params[3].Ref, params[4].Ref
	ok := env.Heap.CompareAndSwapRef(self, offset, expect, update)
	return object.BoolValue(ok), nil
}

func unsafeGetIntVolatile(env *Env, params []object.Value) (object.Value, error) {
	self, offset := params[1].Ref, int(params[2].Long())
	return object.IntValue(env.Heap.ReadInt(self, offset)), nil
}
