/*
 * classvm - a JVM-class-file-compatible bytecode runtime
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package classloader

import "testing"

func TestRegisterIsIdempotent(t *testing.T) {
	reg := NewRegistry()
	c1 := newClass("com/example/Foo", KindInstance)
	id1, isNew1 := reg.Register(c1)
	if !isNew1 {
		t.Fatalf("first registration should be new")
	}

	c2 := newClass("com/example/Foo", KindInstance)
	id2, isNew2 := reg.Register(c2)
	if isNew2 {
		t.Fatalf("second registration of the same name should not be new")
	}
	if id1 != id2 {
		t.Fatalf("idempotent registration returned different ids: %d != %d", id1, id2)
	}
	if reg.GetByID(id2) != c1 {
		t.Fatalf("registry should retain the first class registered under this name")
	}
}

func TestGetByNameAndIDTotalOnValidInputs(t *testing.T) {
	reg := NewRegistry()
	c := newClass("com/example/Bar", KindInstance)
	id, _ := reg.Register(c)

	if reg.GetByName("com/example/Bar") != c {
		t.Fatalf("GetByName did not return the registered class")
	}
	if reg.GetByID(id) != c {
		t.Fatalf("GetByID did not return the registered class")
	}
	if reg.GetByName("does/not/Exist") != nil {
		t.Fatalf("GetByName on an unregistered name must return nil, not panic")
	}
	if reg.GetByID(9999) != nil {
		t.Fatalf("GetByID on an invalid id must return nil, not panic")
	}
}

func TestClassIDZeroIsReserved(t *testing.T) {
	reg := NewRegistry()
	if reg.GetByID(0) != nil {
		t.Fatalf("id 0 must be reserved as 'no class'")
	}
	c := newClass("com/example/First", KindInstance)
	id, _ := reg.Register(c)
	if id == 0 {
		t.Fatalf("first registered class must not receive id 0")
	}
}
