/*
 * classvm - a JVM-class-file-compatible bytecode runtime
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package interp

import (
	"fmt"

	"classvm/addr"
	"classvm/classloader"
	"classvm/frame"
	"classvm/gfunction"
)

// Signal carries a live, allocated exception object up the call stack. It
// replaces the classloader/vmerr string-kind errors once athrow (implicit
// or explicit) has a real object to propagate, so that catch-clause
// resolution can compare against the thrown instance's actual class
// (spec.md §7: "propagation searches each frame's exception table for a
// handler whose catch type is a superclass of the thrown object's class").
type Signal struct {
	Ref   addr.Address
	Class *classloader.Class
}

func (s *Signal) Error() string {
	if s.Class == nil {
		return "<exception with no class>"
	}
	return s.Class.Name
}

// raise allocates an instance of className, populates its "message" field
// if it declares one, and returns it wrapped as a Signal ready to unwind
// through findHandler. Used for every VM-detected failure (null pointer,
// array bounds, division by zero, cast failure, and so on) that spec.md §7
// specifies becomes an in-language exception rather than a VM abort.
func (t *Thread) raise(className string, format string, args ...interface{}) *Signal {
	class, err := t.VM.Loader.LoadClass(className)
	if err != nil {
		// The class itself failed to resolve; fall back to InternalError so
		// the VM at least reports something rather than panicking.
		class = t.VM.Core["java/lang/InternalError"]
	}
	ref, allocErr := t.AllocObject(class.Name)
	if allocErr != nil {
		// Out of memory while constructing an exception: propagate a bare
		// signal with no backing object, which findHandler treats as
		// unconditionally fatal (no catch type can match a nil class).
		return &Signal{Class: class}
	}
	msg := fmt.Sprintf(format, args...)
	if f, owner := class.FindInstanceField("message"); f != nil {
		_ = owner
		strRef, strErr := gfunction.NewJavaString(t.env(), msg)
		if strErr == nil {
			t.VM.ObjHeap.WriteRef(ref, f.Offset, strRef)
		}
	}
	return &Signal{Ref: ref, Class: class}
}

// findHandler searches f's exception table for a handler covering the
// current PC whose catch type is a superclass of (or equal to) sig's
// thrown class, per spec.md §4.8/§7. A CatchType of 0 matches any
// throwable (the "finally" encoding). Returns the handler PC and true if
// found.
func (t *Thread) findHandler(f *frame.Frame, sig *Signal) (int, bool) {
	if sig.Class == nil {
		return 0, false
	}
	for _, e := range f.Method.ExceptionTable {
		if f.PC < e.StartPC || f.PC >= e.EndPC {
			continue
		}
		if e.CatchType == 0 {
			return e.HandlerPC, true
		}
		catchName := f.Class.CP.ClassNameAt(e.CatchType)
		resolved := t.VM.Registry.GetByName(catchName)
		if resolved == nil {
			continue
		}
		if sig.Class == resolved || sig.Class.IsSubclassOf(resolved) {
			return e.HandlerPC, true
		}
	}
	return 0, false
}
