/*
 * classvm - a JVM-class-file-compatible bytecode runtime
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

// Package globals holds the handful of process-wide knobs described by
// spec.md §6: the JRE root, the user class path, and the trace-gating
// flags individual packages check before formatting a trace message (so
// that message formatting cost isn't paid when tracing is off), in the
// style of Jacobin's jacobin/globals package.
package globals

import (
	"os"
	"path/filepath"
)

// Globals is the single process-wide configuration block. A pointer to one
// instance is threaded through the VM instead of relying on package-level
// mutable state directly, so tests can construct independent instances.
type Globals struct {
	JavaHome    string
	ClassPath   []string // ordered search path entries, boot path excluded
	StartingJar string
	MaxHeapMiB  int

	// trace gates: checked by call sites before formatting a message, so
	// the format cost is only paid when the corresponding facility is
	// actually being traced.
	TraceClass  bool
	TraceCloadi bool
	TraceInst   bool
	TraceGC     bool

	DumpHeapOnExit string // path to write a heap dump to on exit, or ""
}

var global *Globals

// InitGlobals (re)initializes the process-wide Globals, resolving JAVA_HOME
// per spec.md §6: "JAVA_HOME is the only consulted environment variable."
func InitGlobals() *Globals {
	g := &Globals{MaxHeapMiB: 100}
	if jh := os.Getenv("JAVA_HOME"); jh != "" {
		g.JavaHome = filepath.Join(jh, "jre")
	} else {
		g.JavaHome = "./jre"
	}
	global = g
	return g
}

// GetGlobalRef returns the process-wide Globals, initializing it on first
// use.
func GetGlobalRef() *Globals {
	if global == nil {
		return InitGlobals()
	}
	return global
}
