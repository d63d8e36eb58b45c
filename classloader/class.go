/*
 * classvm - a JVM-class-file-compatible bytecode runtime
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package classloader

import (
	"sync"
	"sync/atomic"

	"classvm/addr"
	"classvm/classfile"
	"classvm/types"
)

// Kind is the tagged-variant discriminant of Class (spec.md §3: "A tagged
// variant over {Instance, ObjArray, TypeArray, MirrorInstance,
// LoaderInstance}").
type Kind int

const (
	KindInstance Kind = iota
	KindObjArray
	KindTypeArray
	KindMirrorInstance
	KindLoaderInstance
)

// InitState is the class initialization state machine of spec.md §4.5.
type InitState int32

const (
	Unloaded InitState = iota
	Loaded
	Initializing
	Initialized
	Failed
)

// Class is a registry entry: one loaded, linked class, interface, or array
// class. Common fields apply to every Kind; Kind-specific fields are
// grouped below, following the tagged-variant-as-struct-with-a-discriminant
// idiom this codebase uses throughout (the same shape as object.Header
// being a small typed struct rather than a raw union).
type Class struct {
	ID     uint32
	Kind   Kind
	Name   string
	AccessFlags uint16

	LoaderName string // "bootstrap", "app", or an extension loader name
	LoaderObj  addr.Address

	Super      *Class   // nil only for java/lang/Object
	Interfaces []*Class

	CP *classfile.ConstantPool // constant pool reference, instance classes only

	// --- Instance-class specifics ---
	InstanceFields []*Field // sorted ascending by size, offsets assigned
	StaticFields   []*Field
	Methods        []*Method
	InstanceSize   int
	StaticSize     int
	Mirror         addr.Address // the mirror object's address, once created

	// IsPrimitiveType marks one of the nine synthetic primitive-type
	// classes (int, long, ..., void) BootstrapPrimitiveClasses installs,
	// the Class objects java/lang/Integer.TYPE and Class.getPrimitiveClass
	// return. They carry Kind KindMirrorInstance: a mirror exists but no
	// instance of the type itself is ever allocated.
	IsPrimitiveType bool

	initState atomic.Int32 // InitState, accessed atomically for the fast path
	initMu    sync.Mutex
	initCond  *sync.Cond
	initErr   error
	initByThread int64 // goroutine/thread id currently running <clinit>, 0 if none

	// --- Array-class specifics ---
	Dimensions   int
	ElementClass *Class          // nil for TypeArray
	ElementType  types.BasicType // for both ObjArray (Object) and TypeArray
}

func newClass(name string, kind Kind) *Class {
	c := &Class{Name: name, Kind: kind}
	c.initCond = sync.NewCond(&c.initMu)
	c.initState.Store(int32(Unloaded))
	return c
}

// State returns the class's current initialization state.
func (c *Class) State() InitState {
	return InitState(c.initState.Load())
}

func (c *Class) setState(s InitState) {
	c.initMu.Lock()
	c.initState.Store(int32(s))
	c.initCond.Broadcast()
	c.initMu.Unlock()
}

// IsInterface reports whether this class represents an interface.
func (c *Class) IsInterface() bool {
	return c.AccessFlags&0x0200 != 0 // ACC_INTERFACE, see classfile.AccInterface
}

// FindInstanceField looks up a declared instance field by name, walking up
// the super chain (used by getfield resolution, spec.md §4.11).
func (c *Class) FindInstanceField(name string) (*Field, *Class) {
	for k := c; k != nil; k = k.Super {
		for _, f := range k.InstanceFields {
			if f.Name == name {
				return f, k
			}
		}
	}
	return nil, nil
}

// FindStaticField looks up a declared static field by name, walking up the
// super chain (spec.md §4.11: getstatic/putstatic resolution).
func (c *Class) FindStaticField(name string) (*Field, *Class) {
	for k := c; k != nil; k = k.Super {
		for _, f := range k.StaticFields {
			if f.Name == name {
				return f, k
			}
		}
	}
	return nil, nil
}

// FindMethod looks up a method by name+descriptor, walking superclasses
// then interfaces (spec.md §4.10, step 1).
func (c *Class) FindMethod(name, desc string) *Method {
	for k := c; k != nil; k = k.Super {
		for _, m := range k.Methods {
			if m.Name == name && m.Desc == desc {
				return m
			}
		}
	}
	for _, iface := range c.allInterfaces() {
		for _, m := range iface.Methods {
			if m.Name == name && m.Desc == desc && !m.IsAbstract {
				return m
			}
		}
	}
	return nil
}

func (c *Class) allInterfaces() []*Class {
	seen := map[string]bool{}
	var out []*Class
	var walk func(k *Class)
	walk = func(k *Class) {
		if k == nil {
			return
		}
		for _, i := range k.Interfaces {
			if !seen[i.Name] {
				seen[i.Name] = true
				out = append(out, i)
				walk(i)
			}
		}
		walk(k.Super)
	}
	walk(c)
	return out
}

// IsSubclassOf reports whether c is the same class as, or a transitive
// subclass of, other (used by checkcast/instanceof, spec.md §4.9).
func (c *Class) IsSubclassOf(other *Class) bool {
	for k := c; k != nil; k = k.Super {
		if k == other {
			return true
		}
	}
	return false
}

// Implements reports whether c (or a superclass) implements iface,
// transitively through the interface's own super-interfaces.
func (c *Class) Implements(iface *Class) bool {
	for _, i := range c.allInterfaces() {
		if i == iface {
			return true
		}
	}
	if c.Super != nil {
		return c.Super.Implements(iface)
	}
	return false
}

// IsAssignableFrom reports whether a value of class other can be assigned
// to a variable of class c: either c == other, other is a subclass of c,
// or (c is an interface) other implements c. Backs checkcast/instanceof
// for instance types and Class.isAssignableFrom (spec.md §6).
//
// Arrays need their own cases (spec.md §4.9's array-covariance
// requirement): every array is a java/lang/Object regardless of c's Kind,
// and one reference-array type is assignable from another only when their
// element classes are themselves assignable (covariant); primitive-array
// types are invariant — int[] is never assignable from short[] or
// Object[].
func (c *Class) IsAssignableFrom(other *Class) bool {
	if c == other {
		return true
	}
	if isArrayKind(other.Kind) {
		if c.Kind == other.Kind {
			return c.arrayAssignableFrom(other)
		}
		return c.Kind == KindInstance && !c.IsInterface() && other.IsSubclassOf(c)
	}
	if c.Kind != other.Kind {
		return false
	}
	if c.IsInterface() {
		return other.Implements(c) || other == c
	}
	return other.IsSubclassOf(c)
}

func isArrayKind(k Kind) bool {
	return k == KindObjArray || k == KindTypeArray
}

// arrayAssignableFrom implements array-to-array assignability between two
// classes of the same array Kind: invariant for TypeArray (primitive
// element types only compare equal), covariant for ObjArray (element
// classes must themselves satisfy IsAssignableFrom).
func (c *Class) arrayAssignableFrom(other *Class) bool {
	if c.Kind == KindTypeArray {
		return c.ElementType == other.ElementType
	}
	if c.ElementClass == nil || other.ElementClass == nil {
		return c.ElementClass == other.ElementClass
	}
	return c.ElementClass.IsAssignableFrom(other.ElementClass)
}
