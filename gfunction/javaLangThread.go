/*
 * classvm - a JVM-class-file-compatible bytecode runtime
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package gfunction

import (
	"time"

	"classvm/object"
)

// threadAliveFieldOffset is the fixed offset classloader.BootstrapCoreClasses
// lays java/lang/Thread's "alive" field at.
const threadAliveFieldOffset = 16

// loadLangThread registers java/lang/Thread's native surface, grounded on
// jacobin/gfunction/javaLangThread.go (registerNatives, sleep). spec.md §5
// models threads as real OS goroutines via errgroup, so sleep maps
// directly onto time.Sleep rather than a scheduler-internal construct.
func loadLangThread() {
	MethodSignatures["java/lang/Thread.registerNatives()V"] = GMeth{0, justReturn}
	MethodSignatures["java/lang/Thread.sleep(J)V"] = GMeth{1, threadSleep}
	MethodSignatures["java/lang/Thread.currentThread()Ljava/lang/Thread;"] = GMeth{0, threadCurrent}
	MethodSignatures["java/lang/Thread.setPriority0(I)V"] = GMeth{1, justReturn}
	MethodSignatures["java/lang/Thread.isAlive()Z"] = GMeth{0, threadIsAlive}
	MethodSignatures["java/lang/Thread.start0()V"] = GMeth{0, threadStart0}
}

// "java/lang/Thread.sleep(J)V"
func threadSleep(env *Env, params []object.Value) (object.Value, error) {
	time.Sleep(time.Duration(params[0].Long()) * time.Millisecond)
	return object.Value{}, nil
}

// threadCurrent is unimplemented at this scope: returning a live Thread
// mirror requires per-goroutine thread objects this VM's thread model
// (spec.md §5) does not yet allocate. Returning null keeps code paths
// that merely call currentThread().getName() for diagnostics from
// crashing class resolution, while anything dereferencing the result
// will fail fast with a NullPointerException at the call site.
func threadCurrent(env *Env, params []object.Value) (object.Value, error) {
	return object.Null, nil
}

// "java/lang/Thread.isAlive()Z" reports the receiver's "alive" field,
// flipped by start0 below.
func threadIsAlive(env *Env, params []object.Value) (object.Value, error) {
	self := params[0]
	return object.BoolValue(env.Heap.ReadBoolean(self.Ref, threadAliveFieldOffset)), nil
}

// "java/lang/Thread.start0()V" marks the receiver alive and, if a thread
// pool has been wired in (env.Start, set by vmthread via Machine.StartThread
// — spec.md §5's "each thread holds its own interpreter call stack"),
// spawns the goroutine that runs the thread's target/run() to completion.
// Without a pool wired in, this only flips the flag isAlive() reads, so a
// caller that merely polls isAlive() in a loop after start() doesn't spin
// forever.
func threadStart0(env *Env, params []object.Value) (object.Value, error) {
	self := params[0]
	env.Heap.WriteBoolean(self.Ref, threadAliveFieldOffset, true)
	if env.Start != nil {
		return object.Value{}, env.Start(self.Ref)
	}
	return object.Value{}, nil
}
