/*
 * classvm - a JVM-class-file-compatible bytecode runtime
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package gfunction

import "classvm/object"

// loadLangThrowable registers java/lang/Throwable.fillInStackTrace
// (spec.md §6). A real JVM captures the live call stack here; this VM's
// interpreter already walks frame.Stack to build the backtrace described
// in spec.md §7 at the point an exception is actually thrown, so this
// native is a no-op returning the receiver, matching fillInStackTrace's
// documented "returns this" contract without duplicating capture work.
func loadLangThrowable() {
	MethodSignatures["java/lang/Throwable.fillInStackTrace(I)Ljava/lang/Throwable;"] = GMeth{1, throwableFillInStackTrace}
}

func throwableFillInStackTrace(env *Env, params []object.Value) (object.Value, error) {
	return params[0], nil
}
