/*
 * classvm - a JVM-class-file-compatible bytecode runtime
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package gfunction

import (
	"strconv"

	"classvm/addr"
	"classvm/excNames"
	"classvm/object"
	"classvm/vmerr"
)

// stringBuilderValueFieldOffset mirrors stringValueFieldOffset: a
// StringBuilder instance's sole field is a reference to its accumulated
// java/lang/String contents. A real StringBuilder mutates a char buffer in
// place; this VM's scope (spec.md §6 Non-goals: mutable string-buffer
// internals) instead rebuilds a new String each append, trading an
// allocation for a much simpler native.
const stringBuilderValueFieldOffset = object.HeaderBytes

func loadLangStringBuilder() {
	MethodSignatures["java/lang/StringBuilder.<init>()V"] = GMeth{0, stringBuilderInit}
	MethodSignatures["java/lang/StringBuilder.append(Ljava/lang/String;)Ljava/lang/StringBuilder;"] = GMeth{1, stringBuilderAppendString}
	MethodSignatures["java/lang/StringBuilder.append(I)Ljava/lang/StringBuilder;"] = GMeth{1, stringBuilderAppendInt}
	MethodSignatures["java/lang/StringBuilder.toString()Ljava/lang/String;"] = GMeth{0, stringBuilderToString}
}

func stringBuilderInit(env *Env, params []object.Value) (object.Value, error) {
	empty, err := newJavaString(env, "")
	if err != nil {
		return object.Value{}, vmerr.New(excNames.OutOfMemoryError, err.Error())
	}
	env.Heap.WriteRef(params[0].Ref, stringBuilderValueFieldOffset, empty)
	return object.Value{}, nil
}

func stringBuilderAppendString(env *Env, params []object.Value) (object.Value, error) {
	return stringBuilderAppend(env, params[0].Ref, goStringFromJavaString(env, params[1].Ref))
}

func stringBuilderAppendInt(env *Env, params []object.Value) (object.Value, error) {
	return stringBuilderAppend(env, params[0].Ref, strconv.Itoa(int(params[1].Int())))
}

func stringBuilderAppend(env *Env, self addr.Address, suffix string) (object.Value, error) {
	cur := env.Heap.ReadRef(self, stringBuilderValueFieldOffset)
	prefix := goStringFromJavaString(env, cur)
	next, err := newJavaString(env, prefix+suffix)
	if err != nil {
		return object.Value{}, vmerr.New(excNames.OutOfMemoryError, err.Error())
	}
	env.Heap.WriteRef(self, stringBuilderValueFieldOffset, next)
	return object.RefValue(self), nil
}

func stringBuilderToString(env *Env, params []object.Value) (object.Value, error) {
	cur := env.Heap.ReadRef(params[0].Ref, stringBuilderValueFieldOffset)
	return object.RefValue(cur), nil
}
