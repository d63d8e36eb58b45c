/*
 * classvm - a JVM-class-file-compatible bytecode runtime
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

// Package frame implements the "Frame + operand stack + local vars" leaf
// component of spec.md §2/§3/§4.8: a per-invocation activation record with
// a fixed-length local-variable array and a fixed-capacity operand stack.
//
// Grounded on original_source/src/frame/mod.rs, operand_stack.rs, and
// local_variable_array.rs (gfreezy/hippo), following Jacobin's frame-stack
// naming (frames.CreateFrame / frames.PushFrame / frames.PopFrame in
// jacobin/jvm/initializerBlock.go) for the call-stack half.
package frame

import (
	"container/list"

	"classvm/classloader"
	"classvm/object"
)

// Frame is one method activation record.
type Frame struct {
	Method *classloader.Method
	Class  *classloader.Class

	Locals []object.Value // fixed length = Method.MaxLocals
	Stack  []object.Value // grows/shrinks up to cap = Method.MaxStack

	PC int // index into Method.Code of the next instruction to execute
}

// New creates a frame for invoking m on class c, with Locals pre-sized to
// m.MaxLocals and Stack pre-allocated to m.MaxStack capacity
// (spec.md §4.8: "fixed shape determined at method-load time").
func New(m *classloader.Method, c *classloader.Class) *Frame {
	return &Frame{
		Method: m,
		Class:  c,
		Locals: make([]object.Value, m.MaxLocals),
		Stack:  make([]object.Value, 0, m.MaxStack),
	}
}

// Push appends a value to the operand stack.
func (f *Frame) Push(v object.Value) {
	f.Stack = append(f.Stack, v)
}

// Pop removes and returns the top of the operand stack. Popping an empty
// stack is a VM invariant violation (malformed bytecode would have been
// caught by a verifier, which is out of scope, per spec.md §1); callers in
// the interpreter are expected never to do this for well-formed code, so
// this panics rather than returning an error.
func (f *Frame) Pop() object.Value {
	n := len(f.Stack)
	v := f.Stack[n-1]
	f.Stack = f.Stack[:n-1]
	return v
}

// Peek returns the top of the operand stack without removing it.
func (f *Frame) Peek() object.Value {
	return f.Stack[len(f.Stack)-1]
}

// Depth returns the current number of operand-stack entries.
func (f *Frame) Depth() int {
	return len(f.Stack)
}

// SetLocal writes a value into the local-variable array at index i. For a
// category-2 value, the adjacent slot i+1 is set to the sentinel
// (spec.md §3: "the second holding a sentinel").
func (f *Frame) SetLocal(i int, v object.Value) {
	f.Locals[i] = v
	if v.IsCategory2() {
		f.Locals[i+1] = object.LocalSlotSentinel
	}
}

// GetLocal reads the local-variable array at index i.
func (f *Frame) GetLocal(i int) object.Value {
	return f.Locals[i]
}

// Stack is the thread's call stack: an ordered sequence of Frames, bottom
// first (spec.md §3 "Thread").
type Stack struct {
	frames *list.List
}

func NewStack() *Stack {
	return &Stack{frames: list.New()}
}

// PushFrame pushes a new activation record onto the call stack.
func (s *Stack) PushFrame(f *Frame) {
	s.frames.PushBack(f)
}

// PopFrame removes and returns the topmost activation record.
func (s *Stack) PopFrame() *Frame {
	e := s.frames.Back()
	if e == nil {
		return nil
	}
	s.frames.Remove(e)
	return e.Value.(*Frame)
}

// Top returns the topmost activation record without removing it.
func (s *Stack) Top() *Frame {
	e := s.frames.Back()
	if e == nil {
		return nil
	}
	return e.Value.(*Frame)
}

// Len returns the current call-stack depth.
func (s *Stack) Len() int {
	return s.frames.Len()
}

// Frames returns every frame, bottom first, for backtrace formatting
// (spec.md §7).
func (s *Stack) Frames() []*Frame {
	out := make([]*Frame, 0, s.frames.Len())
	for e := s.frames.Front(); e != nil; e = e.Next() {
		out = append(out, e.Value.(*Frame))
	}
	return out
}
