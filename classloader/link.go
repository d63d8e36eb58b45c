/*
 * classvm - a JVM-class-file-compatible bytecode runtime
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package classloader

import (
	"sort"

	"classvm/addr"
	"classvm/classfile"
	"classvm/types"
)

// MirrorBaseSize is size_of(java/lang/Class) rounded up to 8, per
// spec.md §4.4. In a from-scratch runtime without a real JDK on the class
// path, java/lang/Class is itself just another Instance class the
// bootstrap loader defines (see classloader/bootstrap.go); this constant
// is the fallback used only if that bootstrap definition hasn't been
// loaded yet when a mirror must be created (effectively: eight reference-
// sized bookkeeping fields — name, loader, componentType, and similar).
const MirrorBaseSize = 8 * object8

const object8 = 8

// LinkInstanceClass computes the field layout for an Instance-kind class
// per spec.md §4.4:
//  1. separate declared fields into static/instance streams
//  2. sort each stream ascending by declared size
//  3. instance fields start at super.InstanceSize (0 if no super); static
//     fields start at 0
//  4. each field's offset is its stream cursor rounded up to its own
//     alignment, then the cursor advances by the field's size
//
// The source sorts ascending; spec.md §9 notes descending would compact
// better but directs this implementation to keep ascending, since it's
// deterministic and specified.
func LinkInstanceClass(pc *classfile.ParsedClass, super *Class, interfaces []*Class) *Class {
	c := newClass(pc.ThisClass, KindInstance)
	c.AccessFlags = pc.AccessFlags
	c.Super = super
	c.Interfaces = interfaces
	c.CP = pc.CP

	var instanceFields, staticFields []*Field
	for i := range pc.Fields {
		fi := pc.Fields[i]
		f := &Field{
			AccessFlags:   fi.AccessFlags,
			Name:          fi.Name,
			Desc:          fi.Desc,
			Type:          types.BasicTypeFromDescriptor(fi.Desc),
			IsStatic:      fi.IsStatic(),
			ConstantValue: fi.ConstantValue,
		}
		f.Size = f.Type.Size()
		if f.IsStatic {
			staticFields = append(staticFields, f)
		} else {
			instanceFields = append(instanceFields, f)
		}
	}

	sort.SliceStable(instanceFields, func(i, j int) bool { return instanceFields[i].Size < instanceFields[j].Size })
	sort.SliceStable(staticFields, func(i, j int) bool { return staticFields[i].Size < staticFields[j].Size })

	instanceStart := 0
	if super != nil {
		instanceStart = super.InstanceSize
	}
	c.InstanceSize = layoutFields(instanceFields, instanceStart)
	c.StaticSize = layoutFields(staticFields, 0)
	c.InstanceFields = instanceFields
	c.StaticFields = staticFields

	for i := range pc.Methods {
		c.Methods = append(c.Methods, NewMethod(pc.Methods[i], pc.ThisClass))
	}

	return c
}

// layoutFields assigns offsets to fields in place, returning the final
// cursor (spec.md §4.4 steps 4-5).
func layoutFields(fields []*Field, start int) int {
	cursor := start
	for _, f := range fields {
		cursor = int(addr.AlignUp(addr.Address(cursor), uintptr(f.Size)))
		f.Offset = cursor
		cursor += f.Size
	}
	return cursor
}

// MirrorBaseOffset computes size_of(java/lang/Class) rounded up to 8 — the
// offset at which a mirror's borrowed static-field area begins, per
// spec.md §4.4. Shared by MirrorInstanceSize (total mirror size) and
// MirrorStaticFieldOffset's callers (where in that mirror a given static
// field actually lives).
func MirrorBaseOffset(javaLangClass *Class) int {
	if javaLangClass == nil {
		return MirrorBaseSize
	}
	return int(addr.AlignUp(addr.Address(javaLangClass.InstanceSize), 8))
}

// MirrorInstanceSize computes the effective instance size of the mirror
// object for target, per spec.md §4.4: "size_of(java/lang/Class) rounded
// up to 8 + static_size(target)".
func MirrorInstanceSize(javaLangClass *Class, target *Class) int {
	return MirrorBaseOffset(javaLangClass) + target.StaticSize
}

// MirrorStaticFieldOffset translates a static field's offset (relative to
// the static area) into an absolute instance-field offset on the mirror
// object (spec.md §4.4: "Static fields of a class are thus accessed as
// instance fields of its mirror at offset base_static_offset +
// field_offset").
func MirrorStaticFieldOffset(baseStaticOffset int, fieldOffset int) int {
	return baseStaticOffset + fieldOffset
}

// LinkArrayClass builds an array Class of the given element kind. Every
// array class's direct superclass is java/lang/Object (JLS §10.8: "array
// types ... extend Object"), which spec.md §4.9's array-covariance
// requirement depends on: checkcast/instanceof and
// Class.IsAssignableFrom both walk the Super chain to decide "is this an
// Object", and without one an array could never satisfy that check.
func LinkArrayClass(name string, dims int, elemType types.BasicType, elemClass *Class, object *Class) *Class {
	kind := KindTypeArray
	if elemType == types.Object || elemType == types.Array {
		kind = KindObjArray
	}
	c := newClass(name, kind)
	c.AccessFlags = classfile.AccPublic | classfile.AccFinal
	c.Dimensions = dims
	c.ElementType = elemType
	c.ElementClass = elemClass
	c.Super = object
	return c
}
