/*
 * classvm - a JVM-class-file-compatible bytecode runtime
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package interp

import (
	"classvm/addr"
	"classvm/classloader"
	"classvm/excNames"
	"classvm/frame"
	"classvm/gfunction"
	"classvm/object"
	"classvm/types"
	"classvm/vmerr"
)

// Invoke is the method call mechanics of spec.md §4.8: build a new frame
// from args (args[0] is the receiver for an instance method), dispatch to
// the native catalog if m is native, otherwise push the frame and run it
// to completion. Returns the method's result (zero Value for void/native-
// void) or a *Signal if the call raised.
func (t *Thread) Invoke(m *classloader.Method, c *classloader.Class, args []object.Value) (object.Value, *Signal) {
	if m.IsNative {
		return t.invokeNative(m, c, args)
	}
	nf := frame.New(m, c)
	for i, a := range args {
		nf.SetLocal(i, a)
	}
	t.Stack.PushFrame(nf)
	defer t.Stack.PopFrame()
	return t.Execute(nf)
}

func (t *Thread) invokeNative(m *classloader.Method, c *classloader.Class, args []object.Value) (object.Value, *Signal) {
	signature := c.Name + "." + m.Name + m.Desc
	g, ok := gfunction.Lookup(signature)
	if !ok {
		return object.Value{}, t.raise(excNames.NoSuchMethodError, "unresolved native method %s", signature)
	}
	v, err := g.GFunction(t.env(), args)
	if err != nil {
		if ve, ok := err.(*vmerr.VMError); ok {
			return object.Value{}, t.raise(ve.Kind, "%s", ve.Message)
		}
		return object.Value{}, t.raise(excNames.InternalError, "%s", err.Error())
	}
	return v, nil
}

// resolveMethod looks up a MethodRef/InterfaceMethodRef constant pool
// entry, loading the owning class if necessary, per spec.md §4.10.
func (t *Thread) resolveMethod(f *frame.Frame, cpIndex uint16) (class *classloader.Class, m *classloader.Method, sig *Signal) {
	className, name, desc := f.Class.CP.RefAt(cpIndex)
	class = t.VM.Registry.GetByName(className)
	if class == nil {
		var err error
		class, err = t.VM.Loader.LoadClass(className)
		if err != nil {
			return nil, nil, t.raise(excNames.NoClassDefFoundError, "%s", className)
		}
	}
	m = class.FindMethod(name, desc)
	if m == nil {
		return nil, nil, t.raise(excNames.NoSuchMethodError, "%s.%s%s", className, name, desc)
	}
	return class, m, nil
}

// argCount returns how many explicit operand-stack slots a method's
// declared parameter list occupies (one Value per parameter, per spec.md
// §9's single-slot convention; the receiver, if any, is not included).
func argCount(m *classloader.Method) int {
	return len(m.ParamTypes)
}

// invoke implements invokevirtual/invokespecial/invokestatic/
// invokeinterface (spec.md §4.8/§4.10). It pops the declared argument
// count (+ receiver for every form but invokestatic), reverses them into
// declaration order, resolves the callee, and dispatches through Invoke.
// The returned width is 1 if the callee has a non-void return (so the
// caller knows whether to push a value), else 0.
func (t *Thread) invoke(f *frame.Frame, op Opcode, cpIndex uint16, pc int) (object.Value, *Signal, int) {
	class, m, sig := t.resolveMethod(f, cpIndex)
	if sig != nil {
		return object.Value{}, sig, 0
	}

	n := argCount(m)
	args := make([]object.Value, n)
	for i := n - 1; i >= 0; i-- {
		args[i] = f.Pop()
	}

	var receiver object.Value
	isStatic := op == OpInvokestatic
	if !isStatic {
		receiver = f.Pop()
		if receiver.IsNull() {
			return object.Value{}, t.raise(excNames.NullPointerException, "%s.%s", class.Name, m.Name), 0
		}
	}

	callee := m
	calleeClass := class
	switch op {
	case OpInvokestatic:
		if err := class.Initialize(t.ID, t.runClinit); err != nil {
			return object.Value{}, t.raise(excNames.ExceptionInInitializerError, "%v", err), 0
		}
	case OpInvokevirtual, OpInvokeinterface:
		// Dynamic dispatch: resolve against the receiver's actual runtime
		// class every call (spec.md §4.10's override rule). Not cached here
		// since a monomorphic per-PC cache entry would be unsound at a
		// polymorphic call site without also guarding on receiver class,
		// which CacheEntry's shape does not carry (see DESIGN.md).
		id := t.VM.ObjHeap.ReadHeader(receiver.Ref).Class
		actual := t.VM.Registry.GetByID(id)
		if actual == nil {
			return object.Value{}, t.raise(excNames.NoClassDefFoundError, "unresolved runtime class for receiver of %s.%s", class.Name, m.Name), 0
		}
		found := actual.FindMethod(m.Name, m.Desc)
		if found == nil {
			return object.Value{}, t.raise(excNames.NoSuchMethodError, "%s.%s%s", actual.Name, m.Name, m.Desc), 0
		}
		callee = found
		calleeClass = actual
	case OpInvokespecial:
		// Constructors, private methods, and explicit super calls invoke
		// the statically resolved method directly (ACC_SUPER semantics),
		// never the receiver's override.
	}

	full := make([]object.Value, 0, n+1)
	if !isStatic {
		full = append(full, receiver)
	}
	full = append(full, args...)

	v, s := t.Invoke(callee, calleeClass, full)
	if s != nil {
		return object.Value{}, s, 0
	}
	if callee.ReturnDesc == "" {
		return object.Value{}, nil, 0
	}
	return v, nil, 1
}

// runClinit adapts Thread.Invoke to classloader.ClinitRunner: it looks up
// and runs c's own <clinit>, if it declares one. Classes with none are a
// no-op, matching spec.md §4.5.
func (t *Thread) runClinit(c *classloader.Class) error {
	m := c.FindMethod("<clinit>", "()V")
	if m == nil {
		return nil
	}
	_, sig := t.Invoke(m, c, nil)
	if sig != nil {
		return sig
	}
	return nil
}

// RunClinit exports runClinit as a classloader.ClinitRunner, for callers
// outside this package that must trigger initialization explicitly rather
// than as a side effect of new/getstatic/putstatic/invokestatic — namely
// cmd/classvm initializing the main class before invoking main() (spec.md
// §4.5: "explicit request from the VM (e.g. before the main method)").
func (t *Thread) RunClinit(c *classloader.Class) error {
	return t.runClinit(c)
}

// getStatic/putStatic/getField/putField implement spec.md §4.11's
// inline-cache-backed field access.

func (t *Thread) getStatic(f *frame.Frame, cpIndex uint16, pc int) (object.Value, *Signal) {
	entry := f.Method.CacheAt(pc)
	var class *classloader.Class
	var fld *classloader.Field
	if entry.Kind == classloader.CacheStaticField {
		class = t.VM.Registry.GetByID(entry.StaticClass)
		fld = &classloader.Field{Offset: entry.FieldOffset, Type: types.BasicType(entry.FieldType)}
	} else {
		var sig *Signal
		class, fld, sig = t.resolveField(f, cpIndex, true)
		if sig != nil {
			return object.Value{}, sig
		}
		f.Method.PopulateCache(pc, classloader.CacheEntry{
			Kind: classloader.CacheStaticField, FieldOffset: fld.Offset,
			FieldType: byte(fld.Type), StaticClass: class.ID,
		})
	}
	if err := class.Initialize(t.ID, t.runClinit); err != nil {
		return object.Value{}, t.raise(excNames.ExceptionInInitializerError, "%v", err)
	}
	staticFld := &classloader.Field{
		Offset: classloader.MirrorStaticFieldOffset(t.mirrorBaseOffset(), fld.Offset),
		Type:   fld.Type,
	}
	return t.readField(class.Mirror, staticFld), nil
}

func (t *Thread) putStatic(f *frame.Frame, cpIndex uint16, pc int) *Signal {
	entry := f.Method.CacheAt(pc)
	var class *classloader.Class
	var fld *classloader.Field
	if entry.Kind == classloader.CacheStaticField {
		class = t.VM.Registry.GetByID(entry.StaticClass)
		fld = &classloader.Field{Offset: entry.FieldOffset, Type: types.BasicType(entry.FieldType)}
	} else {
		var sig *Signal
		class, fld, sig = t.resolveField(f, cpIndex, true)
		if sig != nil {
			return sig
		}
		f.Method.PopulateCache(pc, classloader.CacheEntry{
			Kind: classloader.CacheStaticField, FieldOffset: fld.Offset,
			FieldType: byte(fld.Type), StaticClass: class.ID,
		})
	}
	if err := class.Initialize(t.ID, t.runClinit); err != nil {
		return t.raise(excNames.ExceptionInInitializerError, "%v", err)
	}
	v := f.Pop()
	staticFld := &classloader.Field{
		Offset: classloader.MirrorStaticFieldOffset(t.mirrorBaseOffset(), fld.Offset),
		Type:   fld.Type,
	}
	t.writeField(class.Mirror, staticFld, v)
	return nil
}

// mirrorBaseOffset is size_of(java/lang/Class) rounded up to 8 — the point
// in every class's mirror object where its borrowed static-field area
// begins (spec.md §4.4), the same value classloader.MirrorInstanceSize
// used to size the mirror when it was allocated.
func (t *Thread) mirrorBaseOffset() int {
	return classloader.MirrorBaseOffset(t.VM.Core["java/lang/Class"])
}

func (t *Thread) getField(f *frame.Frame, cpIndex uint16, pc int) (object.Value, *Signal) {
	entry := f.Method.CacheAt(pc)
	obj := f.Pop()
	if obj.IsNull() {
		return object.Value{}, t.raise(excNames.NullPointerException, "field access on null")
	}
	var fld *classloader.Field
	if entry.Kind == classloader.CacheField {
		fld = &classloader.Field{Offset: entry.FieldOffset, Type: types.BasicType(entry.FieldType)}
	} else {
		_, resolved, sig := t.resolveField(f, cpIndex, false)
		if sig != nil {
			return object.Value{}, sig
		}
		fld = resolved
		f.Method.PopulateCache(pc, classloader.CacheEntry{
			Kind: classloader.CacheField, FieldOffset: fld.Offset, FieldType: byte(fld.Type),
		})
	}
	return t.readField(obj.Ref, fld), nil
}

func (t *Thread) putField(f *frame.Frame, cpIndex uint16, pc int) *Signal {
	entry := f.Method.CacheAt(pc)
	v := f.Pop()
	obj := f.Pop()
	if obj.IsNull() {
		return t.raise(excNames.NullPointerException, "field access on null")
	}
	var fld *classloader.Field
	if entry.Kind == classloader.CacheField {
		fld = &classloader.Field{Offset: entry.FieldOffset, Type: types.BasicType(entry.FieldType)}
	} else {
		_, resolved, sig := t.resolveField(f, cpIndex, false)
		if sig != nil {
			return sig
		}
		fld = resolved
		f.Method.PopulateCache(pc, classloader.CacheEntry{
			Kind: classloader.CacheField, FieldOffset: fld.Offset, FieldType: byte(fld.Type),
		})
	}
	t.writeField(obj.Ref, fld, v)
	return nil
}

func (t *Thread) resolveField(f *frame.Frame, cpIndex uint16, static bool) (*classloader.Class, *classloader.Field, *Signal) {
	className, name, _ := f.Class.CP.RefAt(cpIndex)
	class := t.VM.Registry.GetByName(className)
	if class == nil {
		var err error
		class, err = t.VM.Loader.LoadClass(className)
		if err != nil {
			return nil, nil, t.raise(excNames.NoClassDefFoundError, "%s", className)
		}
	}
	var fld *classloader.Field
	var owner *classloader.Class
	if static {
		fld, owner = class.FindStaticField(name)
	} else {
		fld, owner = class.FindInstanceField(name)
	}
	if fld == nil {
		return nil, nil, t.raise(excNames.NoSuchFieldError, "%s.%s", className, name)
	}
	return owner, fld, nil
}

func (t *Thread) readField(base addr.Address, fld *classloader.Field) object.Value {
	h := t.VM.ObjHeap
	switch fld.Type {
	case types.Boolean:
		return object.BoolValue(h.ReadBoolean(base, fld.Offset))
	case types.Byte:
		return object.ByteValue(h.ReadByte(base, fld.Offset))
	case types.Char:
		return object.CharValue(h.ReadChar(base, fld.Offset))
	case types.Short:
		return object.ShortValue(h.ReadShort(base, fld.Offset))
	case types.Int:
		return object.IntValue(h.ReadInt(base, fld.Offset))
	case types.Long:
		return object.LongValue(h.ReadLong(base, fld.Offset))
	case types.Float:
		return object.FloatValue(h.ReadFloat(base, fld.Offset))
	case types.Double:
		return object.DoubleValue(h.ReadDouble(base, fld.Offset))
	default:
		return object.RefValue(h.ReadRef(base, fld.Offset))
	}
}

func (t *Thread) writeField(base addr.Address, fld *classloader.Field, v object.Value) {
	h := t.VM.ObjHeap
	switch fld.Type {
	case types.Boolean:
		h.WriteBoolean(base, fld.Offset, v.Bool())
	case types.Byte:
		h.WriteByte(base, fld.Offset, int8(v.Int()))
	case types.Char:
		h.WriteChar(base, fld.Offset, uint16(v.Int()))
	case types.Short:
		h.WriteShort(base, fld.Offset, int16(v.Int()))
	case types.Int:
		h.WriteInt(base, fld.Offset, v.Int())
	case types.Long:
		h.WriteLong(base, fld.Offset, v.Long())
	case types.Float:
		h.WriteFloat(base, fld.Offset, v.Float())
	case types.Double:
		h.WriteDouble(base, fld.Offset, v.Double())
	default:
		h.WriteRef(base, fld.Offset, v.Ref)
	}
}

// newInstance implements `new`: allocate and zero an instance, triggering
// class initialization first (spec.md §4.5/§4.9).
func (t *Thread) newInstance(f *frame.Frame, cpIndex uint16) (object.Value, *Signal) {
	name := f.Class.CP.ClassNameAt(cpIndex)
	class, err := t.VM.Loader.LoadClass(name)
	if err != nil {
		return object.Value{}, t.raise(excNames.NoClassDefFoundError, "%s", name)
	}
	if err := class.Initialize(t.ID, t.runClinit); err != nil {
		return object.Value{}, t.raise(excNames.ExceptionInInitializerError, "%v", err)
	}
	ref, allocErr := t.AllocObject(class.Name)
	if allocErr != nil {
		return object.Value{}, t.raise(excNames.OutOfMemoryError, "%v", allocErr)
	}
	return object.RefValue(ref), nil
}

func (t *Thread) newArray(f *frame.Frame, atype int) (object.Value, *Signal) {
	n := f.Pop().Int()
	if n < 0 {
		return object.Value{}, t.raise(excNames.NegativeArraySizeException, "%d", n)
	}
	elem := atypeToBasicType(atype)
	ref, err := t.AllocArray(elem, int(n))
	if err != nil {
		return object.Value{}, t.raise(excNames.OutOfMemoryError, "%v", err)
	}
	return object.RefValue(ref), nil
}

func (t *Thread) newObjectArray(f *frame.Frame, cpIndex uint16) (object.Value, *Signal) {
	n := f.Pop().Int()
	if n < 0 {
		return object.Value{}, t.raise(excNames.NegativeArraySizeException, "%d", n)
	}
	ref, err := t.AllocArray(types.Object, int(n))
	if err != nil {
		return object.Value{}, t.raise(excNames.OutOfMemoryError, "%v", err)
	}
	return object.RefValue(ref), nil
}

func atypeToBasicType(atype int) types.BasicType {
	switch atype {
	case AtypeBoolean:
		return types.Boolean
	case AtypeChar:
		return types.Char
	case AtypeFloat:
		return types.Float
	case AtypeDouble:
		return types.Double
	case AtypeByte:
		return types.Byte
	case AtypeShort:
		return types.Short
	case AtypeInt:
		return types.Int
	case AtypeLong:
		return types.Long
	default:
		return types.Int
	}
}

// checkCast/instanceOf implement spec.md §4.9's reference-type checks via
// classloader.Class.IsAssignableFrom.
func (t *Thread) checkCast(f *frame.Frame, cpIndex uint16) (object.Value, *Signal) {
	v := f.Pop()
	if v.IsNull() {
		return v, nil
	}
	target := f.Class.CP.ClassNameAt(cpIndex)
	targetClass, err := t.VM.Loader.LoadClass(target)
	if err != nil {
		return object.Value{}, t.raise(excNames.NoClassDefFoundError, "%s", target)
	}
	id := t.VM.ObjHeap.ReadHeader(v.Ref).Class
	actual := t.VM.Registry.GetByID(id)
	if actual == nil || !targetClass.IsAssignableFrom(actual) {
		actualName := "unknown"
		if actual != nil {
			actualName = actual.Name
		}
		return object.Value{}, t.raise(excNames.ClassCastException, "class %s cannot be cast to class %s", actualName, target)
	}
	return v, nil
}

func (t *Thread) instanceOf(f *frame.Frame, cpIndex uint16) (object.Value, *Signal) {
	v := f.Pop()
	if v.IsNull() {
		return object.BoolValue(false), nil
	}
	target := f.Class.CP.ClassNameAt(cpIndex)
	targetClass, err := t.VM.Loader.LoadClass(target)
	if err != nil {
		return object.BoolValue(false), nil
	}
	id := t.VM.ObjHeap.ReadHeader(v.Ref).Class
	actual := t.VM.Registry.GetByID(id)
	return object.BoolValue(actual != nil && targetClass.IsAssignableFrom(actual)), nil
}
