/*
 * classvm - a JVM-class-file-compatible bytecode runtime
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

// Package vmerr implements the error taxonomy of spec.md §7: a closed set of
// kinds constructed through small helpers that log through trace and carry
// caller file/line, mirroring Jacobin's cfe()/CFE() helper in
// jacobin/classloader/CPutils.go.
package vmerr

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strconv"

	"classvm/excNames"
	"classvm/trace"
)

// VMError is a resolution/allocation/format failure that the interpreter
// turns into an in-language exception at the point it is raised (spec.md §7
// "Propagation policy").
type VMError struct {
	Kind    string // one of the excNames constants
	Message string
}

func (e *VMError) Error() string {
	return e.Kind + ": " + e.Message
}

// New builds a VMError, logging it through trace with the caller's
// file:line the way Jacobin's cfe() does.
func New(kind, msg string) *VMError {
	full := msg
	pc, _, _, ok := runtime.Caller(1)
	if ok {
		fn := runtime.FuncForPC(pc)
		file, line := fn.FileLine(pc)
		full = msg + "\n  detected by file: " + filepath.Base(file) + ", line: " + strconv.Itoa(line)
	}
	trace.Error(kind + ": " + full)
	return &VMError{Kind: kind, Message: full}
}

func Newf(kind, format string, args ...interface{}) *VMError {
	return New(kind, fmt.Sprintf(format, args...))
}

// ClassFormatError is the error the parser raises on any malformed-input or
// invariant-violation it detects (spec.md §4.1).
func ClassFormatError(format string, args ...interface{}) *VMError {
	return Newf(excNames.ClassFormatError, format, args...)
}

func ClassNotFound(name string) *VMError {
	return Newf(excNames.ClassNotFoundException, "class not found: %s", name)
}

func NoSuchMethod(class, name, desc string) *VMError {
	return Newf(excNames.NoSuchMethodError, "%s.%s%s", class, name, desc)
}

func NoSuchField(class, name string) *VMError {
	return Newf(excNames.NoSuchFieldError, "%s.%s", class, name)
}

func NullPointer(msg string) *VMError {
	return Newf(excNames.NullPointerException, "%s", msg)
}

func ClassCast(from, to string) *VMError {
	return Newf(excNames.ClassCastException, "class %s cannot be cast to class %s", from, to)
}

func ArrayIndexOutOfBounds(index, length int) *VMError {
	return Newf(excNames.ArrayIndexOutOfBoundsException, "index %d out of bounds for length %d", index, length)
}

func NegativeArraySize(n int) *VMError {
	return Newf(excNames.NegativeArraySizeException, "%d", n)
}

func ArithmeticError(msg string) *VMError {
	return Newf(excNames.ArithmeticException, "%s", msg)
}

func OutOfMemory(msg string) *VMError {
	return Newf(excNames.OutOfMemoryError, "%s", msg)
}

// InternalError signals a VM invariant broken by code that should not occur
// in a correct implementation. Callers at the interpreter boundary recover
// these and print a full backtrace (spec.md §7); unlike the exception kinds
// above these are not meant to be caught by language-level handlers.
func InternalError(format string, args ...interface{}) *VMError {
	return Newf(excNames.InternalError, format, args...)
}
