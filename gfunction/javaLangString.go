/*
 * classvm - a JVM-class-file-compatible bytecode runtime
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package gfunction

import (
	"classvm/excNames"
	"classvm/object"
	"classvm/vmerr"
)

// loadLangString registers a working subset of java/lang/String's native
// surface, grounded on jacobin/gfunction/javaLangString.go's MethodSignatures
// table and function-per-method layout, trimmed to the methods this VM's
// scope actually exercises (spec.md §6 Non-goals: full JDK String parity).
func loadLangString() {
	MethodSignatures["java/lang/String.length()I"] = GMeth{0, stringLength}
	MethodSignatures["java/lang/String.charAt(I)C"] = GMeth{1, stringCharAt}
	MethodSignatures["java/lang/String.equals(Ljava/lang/Object;)Z"] = GMeth{1, stringEquals}
	MethodSignatures["java/lang/String.concat(Ljava/lang/String;)Ljava/lang/String;"] = GMeth{1, stringConcat}
	MethodSignatures["java/lang/String.hashCode()I"] = GMeth{0, stringHashCode}
	MethodSignatures["java/lang/String.isEmpty()Z"] = GMeth{0, stringIsEmpty}
	MethodSignatures["java/lang/String.toString()Ljava/lang/String;"] = GMeth{0, stringToString}
	MethodSignatures["java/lang/String.intern()Ljava/lang/String;"] = GMeth{0, stringIntern}
}

// "java/lang/String.intern()Ljava/lang/String;" installs the receiver
// into the process-wide intern table on first sight, or returns the
// already-interned handle (spec.md §4.13: "explicit String.intern() does"
// install, unlike ldc).
func stringIntern(env *Env, params []object.Value) (object.Value, error) {
	s := goStringFromJavaString(env, params[0].Ref)
	handle := env.Intern.Intern(s, params[0].Ref)
	return object.RefValue(handle), nil
}

func stringLength(env *Env, params []object.Value) (object.Value, error) {
	s := goStringFromJavaString(env, params[0].Ref)
	return object.IntValue(int32(len([]rune(s)))), nil
}

func stringIsEmpty(env *Env, params []object.Value) (object.Value, error) {
	s := goStringFromJavaString(env, params[0].Ref)
	return object.BoolValue(len(s) == 0), nil
}

func stringCharAt(env *Env, params []object.Value) (object.Value, error) {
	s := []rune(goStringFromJavaString(env, params[0].Ref))
	idx := int(params[1].Int())
	if idx < 0 || idx >= len(s) {
		return object.Value{}, vmerr.ArrayIndexOutOfBounds(idx, len(s))
	}
	return object.CharValue(uint16(s[idx])), nil
}

func stringEquals(env *Env, params []object.Value) (object.Value, error) {
	other := params[1]
	if other.IsNull() {
		return object.BoolValue(false), nil
	}
	a := goStringFromJavaString(env, params[0].Ref)
	b := goStringFromJavaString(env, other.Ref)
	return object.BoolValue(a == b), nil
}

func stringConcat(env *Env, params []object.Value) (object.Value, error) {
	a := goStringFromJavaString(env, params[0].Ref)
	b := goStringFromJavaString(env, params[1].Ref)
	newAddr, err := newJavaString(env, a+b)
	if err != nil {
		return object.Value{}, vmerr.New(excNames.OutOfMemoryError, err.Error())
	}
	return object.RefValue(newAddr), nil
}

func stringToString(env *Env, params []object.Value) (object.Value, error) {
	return params[0], nil
}

// stringHashCode reproduces java.lang.String.hashCode()'s defined formula
// s[0]*31^(n-1) + ... + s[n-1], not Go's string hashing, since Java code
// depends on this exact value (e.g. HashMap bucket placement).
func stringHashCode(env *Env, params []object.Value) (object.Value, error) {
	s := goStringFromJavaString(env, params[0].Ref)
	var h int32
	for _, r := range s {
		h = h*31 + int32(r)
	}
	return object.IntValue(h), nil
}
