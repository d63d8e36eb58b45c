/*
 * classvm - a JVM-class-file-compatible bytecode runtime
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package gfunction

// loadIoFileDescriptor registers the file-descriptor-ID placeholder:
// java/io/FileDescriptor.initIDs as a no-op, so that a class calling it
// does not fail native resolution. No fd numbers for the standard streams
// are registered here. This VM does not
// perform real file I/O beyond stdout/stderr printing (gfunction's
// javaIoPrintStream.go writes through fmt directly rather than through an
// fd number).
func loadIoFileDescriptor() {
	MethodSignatures["java/io/FileDescriptor.initIDs()V"] = GMeth{0, justReturn}
}
