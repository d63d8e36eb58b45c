/*
 * classvm - a JVM-class-file-compatible bytecode runtime
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package interp

import (
	"classvm/addr"
	"classvm/classloader"
	"classvm/object"
)

// threadTargetFieldOffset is the fixed offset classloader.BootstrapCoreClasses
// lays java/lang/Thread's "target" (Runnable) field at.
const threadTargetFieldOffset = 8

// ThreadAliveFieldOffset is the fixed offset of java/lang/Thread's "alive"
// field (classloader.BootstrapCoreClasses), exported so vmthread can clear
// it once a spawned thread's run() method returns.
const ThreadAliveFieldOffset = 16

// ResolveRunMethod implements java.lang.Thread.start()'s dispatch rule
// (JLS §17's "if this thread was constructed using a separate Runnable run
// object, then that Runnable object's run method is called; otherwise,
// this method does nothing and returns"): if threadObj's "target" field is
// non-null, the method to run is target's own run() resolved virtually
// against target's actual class; otherwise it's whatever run() threadObj's
// own class declares (a Thread subclass overriding run() directly). vmthread
// uses this to know what to hand Thread.Invoke once it has spawned a
// goroutine and built a Thread for it.
func (vm *Machine) ResolveRunMethod(threadObj addr.Address) (*classloader.Class, *classloader.Method, object.Value) {
	hdr := vm.ObjHeap.ReadHeader(threadObj)
	threadClass := vm.Registry.GetByID(hdr.Class)
	if threadClass == nil {
		return nil, nil, object.Value{}
	}

	target := vm.ObjHeap.ReadRef(threadObj, threadTargetFieldOffset)
	if !target.IsNull() {
		targetHdr := vm.ObjHeap.ReadHeader(target)
		targetClass := vm.Registry.GetByID(targetHdr.Class)
		if targetClass == nil {
			return nil, nil, object.Value{}
		}
		if m := targetClass.FindMethod("run", "()V"); m != nil {
			return targetClass, m, object.RefValue(target)
		}
		return nil, nil, object.Value{}
	}

	if m := threadClass.FindMethod("run", "()V"); m != nil {
		return threadClass, m, object.RefValue(threadObj)
	}
	return nil, nil, object.Value{}
}
