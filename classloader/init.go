/*
 * classvm - a JVM-class-file-compatible bytecode runtime
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package classloader

import "classvm/vmerr"

// ClinitRunner executes a class's <clinit> method to completion. The
// interpreter supplies the implementation at VM wiring time (classloader
// cannot import the interpreter package without an import cycle, the same
// inversion Jacobin achieves by keeping classloader and jvm as siblings
// that call into each other through package-level functions rather than
// classloader calling back into jvm directly).
type ClinitRunner func(c *Class) error

// Initialize drives the class initialization state machine of spec.md
// §4.5. threadID identifies the calling thread, used only to detect
// recursive initialization by the same thread (spec.md: "Recursive
// initialization by the same thread returns immediately").
func (c *Class) Initialize(threadID int64, run ClinitRunner) error {
	for {
		switch c.State() {
		case Initialized:
			return nil
		case Failed:
			return c.initErr
		case Initializing:
			c.initMu.Lock()
			if c.initByThread == threadID {
				c.initMu.Unlock()
				return nil // recursive re-entry: no-op
			}
			for c.State() == Initializing {
				c.initCond.Wait()
			}
			c.initMu.Unlock()
			continue
		default: // Unloaded or Loaded
		}

		// Initialize the superclass first (spec.md: "Initialization of a
		// class triggers initialization of its super first").
		if c.Super != nil {
			if err := c.Super.Initialize(threadID, run); err != nil {
				c.initMu.Lock()
				c.initErr = err
				c.initMu.Unlock()
				c.setState(Failed)
				return err
			}
		}

		c.initMu.Lock()
		if c.State() != Unloaded && c.State() != Loaded {
			c.initMu.Unlock()
			continue // another thread raced us into Initializing
		}
		c.initByThread = threadID
		c.initState.Store(int32(Initializing))
		c.initMu.Unlock()

		err := run(c)
		if err != nil {
			c.initMu.Lock()
			c.initErr = vmerr.InternalError("<clinit> of %s failed: %v", c.Name, err)
			c.initMu.Unlock()
			c.setState(Failed)
			return c.initErr
		}
		c.setState(Initialized)
		return nil
	}
}

// MarkLoaded transitions a freshly registered class from Unloaded to
// Loaded (spec.md §4.5: "Unloaded -> Loaded: after registry insert").
func (c *Class) MarkLoaded() {
	if c.State() == Unloaded {
		c.setState(Loaded)
	}
}
