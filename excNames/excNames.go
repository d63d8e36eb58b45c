/*
 * classvm - a JVM-class-file-compatible bytecode runtime
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

// Package excNames holds the closed taxonomy of VM error/exception kinds
// (spec.md §7) as plain string constants naming the fully-qualified
// language-visible exception class each kind is surfaced as, following
// Jacobin's jacobin/excNames package layout.
package excNames

const (
	ClassFormatError                 = "java/lang/ClassFormatError"
	ClassNotFoundException           = "java/lang/ClassNotFoundException"
	NoSuchMethodError                = "java/lang/NoSuchMethodError"
	NoSuchFieldError                 = "java/lang/NoSuchFieldError"
	ExceptionInInitializerError      = "java/lang/ExceptionInInitializerError"
	NullPointerException             = "java/lang/NullPointerException"
	ClassCastException                = "java/lang/ClassCastException"
	ArrayIndexOutOfBoundsException    = "java/lang/ArrayIndexOutOfBoundsException"
	NegativeArraySizeException       = "java/lang/NegativeArraySizeException"
	ArithmeticException               = "java/lang/ArithmeticException"
	OutOfMemoryError                 = "java/lang/OutOfMemoryError"
	InternalError                     = "java/lang/InternalError"
	UnknownError                      = "java/lang/UnknownError"
	NoClassDefFoundError              = "java/lang/NoClassDefFoundError"
)
