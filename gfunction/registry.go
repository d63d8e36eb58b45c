/*
 * classvm - a JVM-class-file-compatible bytecode runtime
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

// Package gfunction is the native-method shim catalog: Go implementations
// standing in for methods marked ACC_NATIVE in impersonated JDK classes
// (spec.md §6's "external interfaces"). One file per impersonated class,
// following Jacobin's gfunction/javaLangString.go, javaLangThread.go, and
// javaUtilHashMap.go layout and naming convention; registration keyed by the
// same "Class.name(desc)ret" signature string Jacobin's MethodSignatures map
// uses, adapted to this VM's Value/addr types in place of bare interface{}.
package gfunction

import (
	"classvm/addr"
	"classvm/excNames"
	"classvm/object"
	"classvm/strintern"
	"classvm/types"
	"classvm/vmerr"
)

// AllocObject creates a new, zeroed instance of className on the heap,
// running its class-loading as a side effect if not already loaded.
type AllocObject func(className string) (addr.Address, error)

// AllocArray creates a new, zeroed array of length n with the given
// element type.
type AllocArray func(elem types.BasicType, n int) (addr.Address, error)

// ResolveMirror loads className (running its class-loading as a side
// effect if not already loaded) and returns its java/lang/Class mirror's
// address, for Class.forName0/getPrimitiveClass.
type ResolveMirror func(className string) (addr.Address, error)

// ClassAssignable reports whether a value of class otherName can be
// assigned to a variable of class targetName, per
// classloader.Class.IsAssignableFrom, for Class.isAssignableFrom.
type ClassAssignable func(targetName, otherName string) (bool, error)

// StartThread spawns a new goroutine that runs threadObj's target (or its
// own overridden run(), per java.lang.Thread semantics) to completion, for
// Thread.start0. May be nil if no thread pool has been wired in, in which
// case start0 only flips the receiver's "alive" field.
type StartThread func(threadObj addr.Address) error

// Env is the execution context a native method runs under, threaded through
// every call the way Jacobin's interpreter passes its Frame stack and
// global class/method tables into GFunction calls. Allocation and class
// resolution are reached through hook functions rather than a direct
// classloader/heap import, the same dependency-inversion pattern
// classloader.ClinitRunner and classloader.MirrorFactory use, so this
// package stays free to be imported by both classloader-adjacent and
// heap-adjacent code without a cycle.
type Env struct {
	Heap       *object.Heap
	NewObject  AllocObject
	NewArray   AllocArray
	Resolve    ResolveMirror
	Assignable ClassAssignable
	Start      StartThread
	Intern     *strintern.Table
	ThreadID   int64
}

// GFunction is the signature every native shim implements: it receives the
// popped argument values (params[0] is the receiver for instance methods)
// and returns a result Value plus an error modeled as *vmerr.VMError
// (spec.md §7's error taxonomy), in place of Jacobin's untyped "GErrBlk"
// sentinel return value.
type GFunction func(env *Env, params []object.Value) (object.Value, error)

// GMeth pairs a shim with the number of operand-stack slots its caller
// popped to build params, mirroring jacobin/gfunction's GMeth{ParamSlots,
// GFunction} struct.
type GMeth struct {
	ParamSlots int
	GFunction  GFunction
}

// MethodSignatures is the global native catalog, keyed by
// "class/Name.method(desc)ret" exactly as it appears in a class file's
// constant pool, so invokestatic/invokevirtual dispatch can look up a
// native implementation with no further parsing.
var MethodSignatures = make(map[string]GMeth)

// Lookup reports whether a fully qualified method signature has a native
// shim registered, and returns it.
func Lookup(signature string) (GMeth, bool) {
	g, ok := MethodSignatures[signature]
	return g, ok
}

// RegisterAll populates MethodSignatures with every catalog file's
// contribution. Called once at VM startup (spec.md §4.1 bootstrap),
// mirroring Jacobin's gfunction.MTableLoadGFunctions.
func RegisterAll() {
	loadLangObject()
	loadLangString()
	loadLangStringBuilder()
	loadLangSystem()
	loadLangThread()
	loadIoPrintStream()
	loadUtilHashMap()
	loadLangClass()
	loadLangFloatDouble()
	loadLangThrowable()
	loadMiscUnsafe()
	loadSecurityAccessController()
	loadIoFileDescriptor()
}

// justReturn is a shim for native methods whose only observable behavior,
// for this VM's scope, is returning control to the caller (e.g.
// registerNatives, which exists solely to let the real JDK wire JNI
// bindings that this VM does not implement).
func justReturn(_ *Env, _ []object.Value) (object.Value, error) {
	return object.Value{}, nil
}

func illegalArg(msg string) error {
	return vmerr.New(excNames.InternalError, msg)
}
