/*
 * classvm - a JVM-class-file-compatible bytecode runtime
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

// Package vmthread supplies the goroutine-per-thread pool java/lang/Thread's
// start0 native spawns into, grounded on jacobin's own goroutine-based
// thread model and golang.org/x/sync/errgroup for fan-out/fan-in bookkeeping
// (spec.md §5: "each thread holds its own interpreter call stack and
// thread-local allocator", backed by "a real OS goroutine").
//
// interp cannot import vmthread directly (vmthread must import interp to
// build interp.Thread values), so wiring runs through the same
// dependency-inversion hook interp/mirror.go and classloader/loader.go use
// elsewhere: cmd/classvm builds a Pool after constructing the Machine, then
// assigns Pool.startThread to Machine.StartThread.
package vmthread

import (
	"classvm/addr"
	"classvm/interp"
	"classvm/object"
	"classvm/trace"

	"golang.org/x/sync/errgroup"
)

// Pool tracks every goroutine java/lang/Thread.start0 has spawned for one
// Machine.
type Pool struct {
	vm *interp.Machine
	g  *errgroup.Group
}

// NewPool creates a Pool bound to vm and wires it in as vm's StartThread
// hook, so that any subsequent Thread.start0 call spawns through it.
func NewPool(vm *interp.Machine) *Pool {
	p := &Pool{vm: vm, g: new(errgroup.Group)}
	vm.StartThread = p.startThread
	return p
}

// startThread implements interp.Machine.StartThread: it resolves threadObj's
// run method (interp.Machine.ResolveRunMethod implements java.lang.Thread's
// JLS §17 dispatch rule) and, if one exists, spawns a goroutine that builds
// a fresh interp.Thread and invokes it to completion.
//
// A run() that throws does not fail the pool or the other threads in it —
// real JVM semantics are that an uncaught exception terminates only the
// thread that raised it (handled by its ThreadGroup's default
// uncaughtException, here a trace.Warning) — so startThread itself always
// returns nil; Wait only ever reports errors from the spawn bookkeeping
// goroutine itself, never from a thread's own bytecode.
func (p *Pool) startThread(vm *interp.Machine, threadObj addr.Address) error {
	class, m, receiver := vm.ResolveRunMethod(threadObj)
	if m == nil {
		// No target Runnable and no overridden run(): start() does nothing
		// further, per JLS §17.
		vm.ObjHeap.WriteBoolean(threadObj, interp.ThreadAliveFieldOffset, false)
		return nil
	}

	id := vm.NewThreadID()
	p.g.Go(func() error {
		defer vm.ObjHeap.WriteBoolean(threadObj, interp.ThreadAliveFieldOffset, false)

		t := interp.NewThread(id, vm)
		args := []object.Value{receiver}
		if _, sig := t.Invoke(m, class, args); sig != nil {
			trace.Warning("Exception in thread \"" + class.Name + "\" " + sig.Error())
		}
		return nil
	})
	return nil
}

// Wait blocks until every thread spawned through p has finished running.
// cmd/classvm calls this after its main thread returns, mirroring the JVM's
// own rule that the process only exits once every non-daemon thread has
// completed.
func (p *Pool) Wait() error {
	return p.g.Wait()
}
