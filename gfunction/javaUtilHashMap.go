/*
 * classvm - a JVM-class-file-compatible bytecode runtime
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package gfunction

import "classvm/object"

// loadUtilHashMap registers java/util/HashMap's native spread function,
// grounded on jacobin/gfunction/javaUtilHashMap.go's hashMapHash. It uses
// the JDK's spreading formula, h ^ (h >>> 16), rather than the teacher's
// MD5-based stand-in, with h taken from the key's identity hash (the value
// kept in its mark word). A hashCode() that the key's class overrides is
// not called.
func loadUtilHashMap() {
	MethodSignatures["java/util/HashMap.hash(Ljava/lang/Object;)I"] = GMeth{1, hashMapHash}
}

func hashMapHash(env *Env, params []object.Value) (object.Value, error) {
	key := params[0]
	if key.IsNull() {
		return object.IntValue(0), nil
	}
	h := int32(env.Heap.IdentityHash(key.Ref))
	spread := h ^ int32(uint32(h)>>16)
	return object.IntValue(spread), nil
}
