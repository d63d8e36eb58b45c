/*
 * classvm - a JVM-class-file-compatible bytecode runtime
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package classloader

import "classvm/types"

// BootstrapCoreClasses constructs and registers the handful of classes
// this VM must have before any .class file is ever read: java/lang/Object
// (every class's implicit super), java/lang/Class (the mirror template,
// spec.md §4.4), java/lang/String and java/lang/Throwable (both
// constructed natively by the gfunction catalog and referenced by ldc/
// athrow), and the exception classes spec.md §7's taxonomy names. There is
// no real JRE on the class path (spec.md §6: a "JRE root" is just a
// directory of user .class files in this VM's scope), so these core types
// are synthesized directly as linked Class values rather than parsed from
// bytes, the same role Jacobin's bootstrap loader plays for java/lang/*
// before the real rt.jar classes are read.
//
// Exception classes are flattened to extend Throwable directly rather than
// reproducing the JDK's full Throwable/Exception/Error/LinkageError
// hierarchy: catch-clause resolution only needs IsSubclassOf to hold
// between a thrown kind and the clause's catch type, and every kind this
// VM raises is caught either by its exact name or by Throwable itself
// (see DESIGN.md).
func BootstrapCoreClasses(reg *Registry) map[string]*Class {
	out := make(map[string]*Class)

	object := newClass("java/lang/Object", KindInstance)
	object.MarkLoaded()
	object.setState(Initialized)
	reg.Register(object)
	out["java/lang/Object"] = object

	javaLangClass := newClass("java/lang/Class", KindInstance)
	javaLangClass.Super = object
	javaLangClass.InstanceFields = []*Field{
		{Name: "name", Desc: "Ljava/lang/String;", Type: types.Object, Size: 8, Offset: 0},
		{Name: "loaderObj", Desc: "Ljava/lang/ClassLoader;", Type: types.Object, Size: 8, Offset: 8},
		{Name: "componentType", Desc: "Ljava/lang/Class;", Type: types.Object, Size: 8, Offset: 16},
		// accessFlags mirrors the target class's access_flags (JVMS
		// Table 4.1-A) with bit 15 repurposed as a VM-internal
		// "is a primitive type" marker (class access flags of the class
		// file versions this VM parses, up to 52, never set bit 15), so
		// the Class native methods in gfunction
		// (isPrimitive, isInterface) can answer from the mirror's own
		// heap fields without gfunction importing classloader.
		{Name: "accessFlags", Desc: "I", Type: types.Int, Size: 4, Offset: 24},
	}
	javaLangClass.InstanceSize = 28
	javaLangClass.MarkLoaded()
	javaLangClass.setState(Initialized)
	reg.Register(javaLangClass)
	out["java/lang/Class"] = javaLangClass

	javaLangString := newClass("java/lang/String", KindInstance)
	javaLangString.Super = object
	javaLangString.InstanceFields = []*Field{
		{Name: "value", Desc: "[C", Type: types.Object, Size: 8, Offset: 0},
	}
	javaLangString.InstanceSize = 8
	javaLangString.MarkLoaded()
	javaLangString.setState(Initialized)
	reg.Register(javaLangString)
	out["java/lang/String"] = javaLangString

	throwable := newClass("java/lang/Throwable", KindInstance)
	throwable.Super = object
	throwable.InstanceFields = []*Field{
		{Name: "message", Desc: "Ljava/lang/String;", Type: types.Object, Size: 8, Offset: 0},
		{Name: "cause", Desc: "Ljava/lang/Throwable;", Type: types.Object, Size: 8, Offset: 8},
	}
	throwable.InstanceSize = 16
	throwable.MarkLoaded()
	throwable.setState(Initialized)
	reg.Register(throwable)
	out["java/lang/Throwable"] = throwable

	for _, name := range []string{
		"java/lang/ClassFormatError",
		"java/lang/ClassNotFoundException",
		"java/lang/NoSuchMethodError",
		"java/lang/NoSuchFieldError",
		"java/lang/ExceptionInInitializerError",
		"java/lang/NullPointerException",
		"java/lang/ClassCastException",
		"java/lang/ArrayIndexOutOfBoundsException",
		"java/lang/NegativeArraySizeException",
		"java/lang/ArithmeticException",
		"java/lang/OutOfMemoryError",
		"java/lang/InternalError",
		"java/lang/UnknownError",
		"java/lang/NoClassDefFoundError",
		"java/lang/Exception",
		"java/lang/RuntimeException",
		"java/lang/Error",
	} {
		exc := newClass(name, KindInstance)
		exc.Super = throwable
		exc.InstanceFields = throwable.InstanceFields
		exc.InstanceSize = throwable.InstanceSize
		exc.MarkLoaded()
		exc.setState(Initialized)
		reg.Register(exc)
		out[name] = exc
	}

	thread := newClass("java/lang/Thread", KindInstance)
	thread.Super = object
	thread.InstanceFields = []*Field{
		{Name: "name", Desc: "Ljava/lang/String;", Type: types.Object, Size: 8, Offset: 0},
		{Name: "target", Desc: "Ljava/lang/Runnable;", Type: types.Object, Size: 8, Offset: 8},
		// alive is set by start0 and read by isAlive; this VM's thread
		// model (spec.md §5) has no further scheduler state to expose.
		{Name: "alive", Desc: "Z", Type: types.Boolean, Size: 1, Offset: 16},
	}
	thread.InstanceSize = 17
	thread.MarkLoaded()
	thread.setState(Initialized)
	reg.Register(thread)
	out["java/lang/Thread"] = thread

	return out
}

// primitiveTypeNames is the descriptor-keyword each of the eight JVM
// primitive types plus void is known by in source and via
// Class.getPrimitiveClass (JVMS §4.3.2's base types, plus "void").
var primitiveTypeNames = []string{
	"int", "long", "float", "double", "boolean", "byte", "char", "short", "void",
}

// BootstrapPrimitiveClasses installs the nine synthetic primitive-type
// classes (spec.md §4.12's reflection surface needs a Class object for
// int.class, Integer.TYPE, and so on, even though no instance of "int" is
// ever heap-allocated). Each is Kind KindMirrorInstance: a mirror is
// created for it like any other class, but it has no Super, no fields, and
// is never the target of `new`.
func BootstrapPrimitiveClasses(reg *Registry) map[string]*Class {
	out := make(map[string]*Class)
	for _, name := range primitiveTypeNames {
		c := newClass(name, KindMirrorInstance)
		c.IsPrimitiveType = true
		c.MarkLoaded()
		c.setState(Initialized)
		reg.Register(c)
		out[name] = c
	}
	return out
}
