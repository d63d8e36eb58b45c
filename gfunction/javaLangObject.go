/*
 * classvm - a JVM-class-file-compatible bytecode runtime
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package gfunction

import "classvm/object"

// loadLangObject registers the native methods of java/lang/Object,
// grounded on jacobin/gfunction's javaLangObject.go (registerNatives,
// hashCode, getClass as no-arg natives backed by VM-internal state rather
// than Go reflection).
func loadLangObject() {
	MethodSignatures["java/lang/Object.registerNatives()V"] = GMeth{0, justReturn}
	MethodSignatures["java/lang/Object.hashCode()I"] = GMeth{0, objectHashCode}
	MethodSignatures["java/lang/Object.clone()Ljava/lang/Object;"] = GMeth{0, objectClone}
}

// "java/lang/Object.hashCode()I" returns the receiver's identity hash,
// lazily assigned in its mark word (spec.md §4.5/§4.10 object header).
func objectHashCode(env *Env, params []object.Value) (object.Value, error) {
	self := params[0]
	return object.IntValue(int32(env.Heap.IdentityHash(self.Ref))), nil
}

// "java/lang/Object.clone()Ljava/lang/Object;" is left unimplemented at
// this scope: a byte-for-byte object copy needs the class's instance size,
// which the interpreter (not this package) resolves via the class ID in
// the receiver's header. The hook is registered so invokevirtual dispatch
// finds a native rather than failing class linking, consistent with
// spec.md §6's "Non-goals: full java.lang.Object API parity".
func objectClone(env *Env, params []object.Value) (object.Value, error) {
	return object.Value{}, illegalArg("Object.clone is not implemented by this VM")
}
