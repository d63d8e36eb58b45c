/*
 * classvm - a JVM-class-file-compatible bytecode runtime
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package strintern

import (
	"sync"
	"testing"

	"classvm/addr"
)

func TestInternInstallsOnFirstCall(t *testing.T) {
	table := New()
	candidate := addr.Address(0x1000)

	got := table.Intern("abc", candidate)
	if got != candidate {
		t.Fatalf("Intern: got %v, want candidate %v", got, candidate)
	}
	if table.Len() != 1 {
		t.Fatalf("Len: got %d, want 1", table.Len())
	}
}

func TestInternReturnsExistingHandle(t *testing.T) {
	table := New()
	first := addr.Address(0x1000)
	second := addr.Address(0x2000)

	table.Intern("abc", first)
	got := table.Intern("abc", second)
	if got != first {
		t.Fatalf("Intern: got %v, want first-installed handle %v", got, first)
	}
	if table.Len() != 1 {
		t.Fatalf("Len: got %d, want 1 (second candidate must not replace the first)", table.Len())
	}
}

func TestInternDistinctContentsGetDistinctEntries(t *testing.T) {
	table := New()
	a := addr.Address(0x1000)
	b := addr.Address(0x2000)

	table.Intern("abc", a)
	table.Intern("xyz", b)
	if table.Len() != 2 {
		t.Fatalf("Len: got %d, want 2", table.Len())
	}
}

func TestLookupReportsPresence(t *testing.T) {
	table := New()
	if _, ok := table.Lookup("abc"); ok {
		t.Fatalf("Lookup on empty table reported present")
	}

	candidate := addr.Address(0x1000)
	table.Intern("abc", candidate)

	got, ok := table.Lookup("abc")
	if !ok {
		t.Fatalf("Lookup: reported absent after Intern")
	}
	if got != candidate {
		t.Fatalf("Lookup: got %v, want %v", got, candidate)
	}
}

// TestInternOrdersConcurrentInstalls is the spec.md §5 guarantee: under
// concurrent Intern calls racing to install the same content, exactly one
// candidate wins and every caller observes the same handle.
func TestInternOrdersConcurrentInstalls(t *testing.T) {
	table := New()
	const n = 32

	results := make([]addr.Address, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			results[i] = table.Intern("shared", addr.Address(0x1000+i))
		}(i)
	}
	wg.Wait()

	if table.Len() != 1 {
		t.Fatalf("Len: got %d, want 1", table.Len())
	}
	winner := results[0]
	for i, got := range results {
		if got != winner {
			t.Fatalf("caller %d observed %v, want winner %v", i, got, winner)
		}
	}
}
