/*
 * classvm - a JVM-class-file-compatible bytecode runtime
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package classloader

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"

	"classvm/trace"
	"classvm/vmerr"
)

// EntryKind discriminates the three search-path entry shapes of
// spec.md §4.2.
type EntryKind int

const (
	EntryDirectory EntryKind = iota
	EntryArchive
	EntryWildcard
)

// PathEntry is one ordered element of a class path.
type PathEntry struct {
	Kind EntryKind
	Path string
}

// ParseEntry classifies a single class-path string, per spec.md §4.2.
func ParseEntry(s string) PathEntry {
	switch {
	case strings.HasSuffix(s, string(filepath.Separator)+"*") || strings.HasSuffix(s, "/*"):
		return PathEntry{Kind: EntryWildcard, Path: strings.TrimSuffix(strings.TrimSuffix(s, "/*"), string(filepath.Separator)+"*")}
	case strings.HasSuffix(s, ".jar"):
		return PathEntry{Kind: EntryArchive, Path: s}
	default:
		return PathEntry{Kind: EntryDirectory, Path: s}
	}
}

// ClassPath is an ordered sequence of search-path entries plus a boot path
// searched first (spec.md §4.2: "the boot path is searched before the user
// path; within a path each entry is tried in order; first hit wins").
type ClassPath struct {
	Boot []PathEntry
	User []PathEntry

	archiveCache map[string]*zip.ReadCloser
}

func NewClassPath() *ClassPath {
	return &ClassPath{archiveCache: make(map[string]*zip.ReadCloser)}
}

// Lookup resolves className (slash-separated, no ".class" suffix) to its
// raw bytes, failing with ClassNotFound if no entry anywhere yields a hit
// (spec.md §4.2).
func (cp *ClassPath) Lookup(className string) ([]byte, error) {
	for _, entries := range [][]PathEntry{cp.Boot, cp.User} {
		for _, e := range entries {
			if b, ok := cp.tryEntry(e, className); ok {
				return b, nil
			}
		}
	}
	return nil, vmerr.ClassNotFound(className)
}

func (cp *ClassPath) tryEntry(e PathEntry, className string) ([]byte, bool) {
	rel := className + ".class"
	switch e.Kind {
	case EntryDirectory:
		full := filepath.Join(e.Path, filepath.FromSlash(rel))
		b, err := os.ReadFile(full)
		if err != nil {
			return nil, false
		}
		return b, true
	case EntryArchive:
		b, err := cp.readArchiveEntry(e.Path, rel)
		if err != nil {
			return nil, false
		}
		return b, true
	case EntryWildcard:
		entries, err := os.ReadDir(e.Path)
		if err != nil {
			return nil, false
		}
		for _, de := range entries {
			if de.IsDir() || !strings.HasSuffix(de.Name(), ".jar") {
				continue
			}
			jarPath := filepath.Join(e.Path, de.Name())
			if b, err := cp.readArchiveEntry(jarPath, rel); err == nil {
				return b, true
			}
		}
		return nil, false
	}
	return nil, false
}

// readArchiveEntry opens jarPath once per lookup session (cached across
// calls, spec.md §4.2: "open the archive once per lookup") and reads the
// single entry matching name.
func (cp *ClassPath) readArchiveEntry(jarPath, name string) ([]byte, error) {
	zr, ok := cp.archiveCache[jarPath]
	if !ok {
		var err error
		zr, err = zip.OpenReader(jarPath)
		if err != nil {
			return nil, err
		}
		cp.archiveCache[jarPath] = zr
	}
	for _, f := range zr.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}
	return nil, os.ErrNotExist
}

// Close releases every cached archive handle.
func (cp *ClassPath) Close() {
	for path, zr := range cp.archiveCache {
		if err := zr.Close(); err != nil {
			trace.Warning("failed to close archive " + path + ": " + err.Error())
		}
	}
}
