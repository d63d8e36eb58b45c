/*
 * classvm - a JVM-class-file-compatible bytecode runtime
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package gfunction

import (
	"strings"

	"classvm/object"
	"classvm/types"
	"classvm/vmerr"
)

// classNameFieldOffset/classAccessFlagsFieldOffset are the fixed instance
// field offsets classloader.BootstrapCoreClasses lays java/lang/Class's
// mirror fields out at ("name" at 0, "accessFlags" at 24), the same fixed-
// offset shortcut stringValueFieldOffset takes for java/lang/String.
const (
	classNameFieldOffset        = 0
	classAccessFlagsFieldOffset = 24
)

// classPrimitiveBit must match interp.mirrorPrimitiveBit: the mirror's
// "accessFlags" field reserves this bit (outside JVMS Table 4.1-A's real
// access-flag range) to record that the mirrored class is one of the nine
// synthetic primitive types.
const classPrimitiveBit = 1 << 15

// accInterface is JVMS Table 4.1-A's ACC_INTERFACE bit.
const accInterface = 0x0200

// loadLangClass registers java/lang/Class's native introspection surface
// (spec.md §6: "Class introspection getName0, forName0, isPrimitive,
// isAssignableFrom, isInterface, getDeclaredFields0" and
// "desiredAssertionStatus0"). getName0/isPrimitive/isInterface read
// straight off the receiver mirror's own fields (populated once at mirror
// creation by interp.newMirrorFactory); forName0/getPrimitiveClass/
// isAssignableFrom need the registry, reached through the Env.Resolve/
// Assignable hooks the same way allocation is reached through
// NewObject/NewArray.
func loadLangClass() {
	MethodSignatures["java/lang/Class.registerNatives()V"] = GMeth{0, justReturn}
	MethodSignatures["java/lang/Class.desiredAssertionStatus0(Ljava/lang/Class;)Z"] = GMeth{1, classDesiredAssertionStatus}
	MethodSignatures["java/lang/Class.isPrimitive()Z"] = GMeth{0, classIsPrimitive}
	MethodSignatures["java/lang/Class.isInterface()Z"] = GMeth{0, classIsInterface}
	MethodSignatures["java/lang/Class.getName0()Ljava/lang/String;"] = GMeth{0, classGetName0}
	MethodSignatures["java/lang/Class.getPrimitiveClass(Ljava/lang/String;)Ljava/lang/Class;"] = GMeth{1, classGetPrimitiveClass}
	MethodSignatures["java/lang/Class.forName0(Ljava/lang/String;ZLjava/lang/ClassLoader;Ljava/lang/Class;)Ljava/lang/Class;"] = GMeth{4, classForName0}
	MethodSignatures["java/lang/Class.isAssignableFrom(Ljava/lang/Class;)Z"] = GMeth{1, classIsAssignableFrom}
	MethodSignatures["java/lang/Class.getDeclaredFields0(Z)[Ljava/lang/reflect/Field;"] = GMeth{1, classGetDeclaredFields0}
}

// "java/lang/Class.desiredAssertionStatus0(Ljava/lang/Class;)Z" always
// reports assertions disabled: this VM has no -ea flag (spec.md §6
// Non-goals).
func classDesiredAssertionStatus(env *Env, params []object.Value) (object.Value, error) {
	return object.BoolValue(false), nil
}

func classAccessFlags(env *Env, self object.Value) int32 {
	return env.Heap.ReadInt(self.Ref, classAccessFlagsFieldOffset)
}

// "java/lang/Class.isPrimitive()Z"
func classIsPrimitive(env *Env, params []object.Value) (object.Value, error) {
	flags := classAccessFlags(env, params[0])
	return object.BoolValue(flags&classPrimitiveBit != 0), nil
}

// "java/lang/Class.isInterface()Z"
func classIsInterface(env *Env, params []object.Value) (object.Value, error) {
	flags := classAccessFlags(env, params[0])
	return object.BoolValue(flags&accInterface != 0), nil
}

// "java/lang/Class.getName0()Ljava/lang/String;" returns the mirror's own
// "name" field directly: it was populated with the target class's binary
// name when the mirror was created, so no fresh string needs allocating.
func classGetName0(env *Env, params []object.Value) (object.Value, error) {
	self := params[0]
	name := env.Heap.ReadRef(self.Ref, classNameFieldOffset)
	return object.RefValue(name), nil
}

// "java/lang/Class.getPrimitiveClass(Ljava/lang/String;)Ljava/lang/Class;"
// resolves one of "int", "long", ..., "void" to its bootstrapped
// primitive-type Class.
func classGetPrimitiveClass(env *Env, params []object.Value) (object.Value, error) {
	name := GoString(env, params[0].Ref)
	mirror, err := env.Resolve(name)
	if err != nil {
		return object.Value{}, illegalArg("no such primitive type: " + name)
	}
	return object.RefValue(mirror), nil
}

// "java/lang/Class.forName0(...)Ljava/lang/Class;" resolves a dot-
// separated binary class name (JLS §13.1), loading it if necessary.
// The loader/initialize/caller-class parameters this native also takes in
// the real JDK are accepted but unused: this VM has a single flat loader
// and initializes classes lazily on first active use regardless of how
// forName was asked to behave (spec.md §6 Non-goals: multiple loaders).
func classForName0(env *Env, params []object.Value) (object.Value, error) {
	dotted := GoString(env, params[0].Ref)
	name := strings.ReplaceAll(dotted, ".", "/")
	mirror, err := env.Resolve(name)
	if err != nil {
		return object.Value{}, vmerr.ClassNotFound(dotted)
	}
	return object.RefValue(mirror), nil
}

// "java/lang/Class.isAssignableFrom(Ljava/lang/Class;)Z"
func classIsAssignableFrom(env *Env, params []object.Value) (object.Value, error) {
	targetName := GoString(env, env.Heap.ReadRef(params[0].Ref, classNameFieldOffset))
	otherName := GoString(env, env.Heap.ReadRef(params[1].Ref, classNameFieldOffset))
	ok, err := env.Assignable(targetName, otherName)
	if err != nil {
		return object.Value{}, err
	}
	return object.BoolValue(ok), nil
}

// "java/lang/Class.getDeclaredFields0(Z)[Ljava/lang/reflect/Field;" always
// returns a zero-length array: synthesizing live java.lang.reflect.Field
// mirror objects (one per declared field, each wired back to this class
// and an accessor offset) is full reflection, which spec.md §6 scopes out
// beyond the Class-level introspection methods above. Returning an empty
// array rather than erroring lets code that merely enumerates fields
// defensively (e.g. a generic toString) run to completion instead of
// crashing class-linking.
func classGetDeclaredFields0(env *Env, params []object.Value) (object.Value, error) {
	arr, err := env.NewArray(types.Object, 0)
	if err != nil {
		return object.Value{}, err
	}
	return object.RefValue(arr), nil
}
