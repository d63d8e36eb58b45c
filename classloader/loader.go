/*
 * classvm - a JVM-class-file-compatible bytecode runtime
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package classloader

import (
	"strconv"

	"classvm/addr"
	"classvm/classfile"
	"classvm/trace"
	"classvm/types"
)

// MirrorFactory allocates and installs the mirror object for a newly
// registered class (spec.md §4.3: register "creates and installs its
// mirror object"). It is supplied by VM wiring code, since mirror creation
// needs the heap/object packages that classloader must not import
// (classloader is lower in the dependency graph, mirrored from Jacobin's
// layering where classloader has no dependency on the object package for
// allocation).
type MirrorFactory func(c *Class) (addr.Address, error)

// Loader ties together a ClassPath (byte lookup), a Registry (identity +
// storage), and the parser/linker to implement spec.md §4.2-§4.4's
// "locate class bytes ... define class, resolve supertypes, assign class
// IDs, intern" data flow, corresponding to Jacobin's LoadClassFromFile /
// LoadClassFromNameOnly functions in jacobin/classloader/classloader.go.
type Loader struct {
	Name     string // "bootstrap", "app", or an extension loader name
	Path     *ClassPath
	Registry *Registry
	Mirror   MirrorFactory
}

func NewLoader(name string, path *ClassPath, reg *Registry, mirror MirrorFactory) *Loader {
	return &Loader{Name: name, Path: path, Registry: reg, Mirror: mirror}
}

// LoadClass resolves className to a linked, registered Class, loading and
// linking its supertype chain and interfaces first if necessary
// (spec.md §4.2/§4.3/§4.4). It is idempotent: calling it twice for the
// same name returns the same Class.
func (l *Loader) LoadClass(className string) (*Class, error) {
	if existing := l.Registry.GetByName(className); existing != nil {
		return existing, nil
	}

	if isArrayDescriptor(className) {
		return l.loadArrayClass(className)
	}

	raw, err := l.Path.Lookup(className)
	if err != nil {
		return nil, err
	}
	return l.DefineClass(className, raw)
}

// DefineClass parses class bytes already in hand (LoadClass passes the
// bytes its class-path lookup found) and links + registers the result.
func (l *Loader) DefineClass(className string, raw []byte) (*Class, error) {
	if existing := l.Registry.GetByName(className); existing != nil {
		return existing, nil
	}

	pc, err := classfile.Parse(raw)
	if err != nil {
		return nil, err
	}
	if pc.ThisClass != className && className != "" {
		trace.Warning("class file this_class " + pc.ThisClass + " does not match requested name " + className)
	}

	var super *Class
	if pc.SuperClass != "" {
		super, err = l.LoadClass(pc.SuperClass)
		if err != nil {
			return nil, err
		}
	}

	interfaces := make([]*Class, 0, len(pc.Interfaces))
	for _, ifaceName := range pc.Interfaces {
		iface, err := l.LoadClass(ifaceName)
		if err != nil {
			return nil, err
		}
		interfaces = append(interfaces, iface)
	}

	c := LinkInstanceClass(pc, super, interfaces)
	c.LoaderName = l.Name

	id, isNew := l.Registry.Register(c)
	c.ID = id
	if isNew {
		c.MarkLoaded()
		if l.Mirror != nil {
			mirrorAddr, err := l.Mirror(c)
			if err != nil {
				return nil, err
			}
			c.Mirror = mirrorAddr
		}
		trace.Trace("loaded class " + c.Name + " (id " + strconv.Itoa(int(c.ID)) + ") via " + l.Name)
	}
	return l.Registry.GetByID(id), nil
}

// loadArrayClass resolves an array class descriptor, e.g. "[I" or
// "[Ljava/lang/String;", loading the element class first if it is an
// object type.
func (l *Loader) loadArrayClass(desc string) (*Class, error) {
	dims := 0
	for dims < len(desc) && desc[dims] == '[' {
		dims++
	}
	elemDesc := desc[dims:]
	elemType := types.BasicTypeFromDescriptor(elemDesc)

	var elemClass *Class
	if elemType == types.Object {
		elemName := elemDesc
		if len(elemName) >= 2 && elemName[0] == 'L' {
			elemName = elemName[1 : len(elemName)-1]
		}
		var err error
		elemClass, err = l.LoadClass(elemName)
		if err != nil {
			return nil, err
		}
	}

	c := LinkArrayClass(desc, dims, elemType, elemClass, l.Registry.GetByName("java/lang/Object"))
	id, isNew := l.Registry.Register(c)
	c.ID = id
	if isNew {
		c.MarkLoaded()
		c.setState(Initialized) // array classes have no <clinit>
		if l.Mirror != nil {
			mirrorAddr, err := l.Mirror(c)
			if err != nil {
				return nil, err
			}
			c.Mirror = mirrorAddr
		}
	}
	return l.Registry.GetByID(id), nil
}

func isArrayDescriptor(name string) bool {
	return len(name) > 0 && name[0] == '['
}
