/*
 * classvm - a JVM-class-file-compatible bytecode runtime
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

// Package classloader implements the "Class registry & loader" and "Class
// linking (field layout, mirror, init)" components of spec.md §2/§4.3-§4.5:
// locating class bytes on a search path, defining classes, assigning dense
// class ids, computing field layouts, and driving the class initialization
// state machine.
//
// Grounded on Jacobin's jacobin/classloader package (Classloader struct,
// LoadClassFromFile/LoadClassFromJar/LoadClassFromNameOnly naming and
// control flow) for the loader half, and on
// original_source/src/class/instance_class.rs +
// src/class_loader/bootstrap_class_loader.rs (gfreezy/hippo) for the
// registry/linking half, since spec.md's byte-exact field-offset layout
// has no equivalent in Jacobin's own map-keyed field model.
package classloader

import "classvm/types"

// Field is a declared field, laid out at link time (spec.md §4.4).
type Field struct {
	AccessFlags uint16
	Name        string
	Desc        string
	Type        types.BasicType
	Size        int // Type.Size(), cached
	Offset      int // byte offset from object base (instance) or mirror static area (static)
	IsStatic    bool
	ConstantValue interface{}
}
