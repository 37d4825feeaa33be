// Package opc provides read access to the parts of an office document
// package: a zip container of XML and binary entries addressed by path.
package opc

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"path"
	"strings"
)

// Archive is read-only access to the entries of a package. Paths use
// forward slashes and no leading slash.
type Archive interface {
	// EntryExists reports whether the package contains an entry at path.
	EntryExists(path string) bool

	// ReadEntry returns the raw bytes of the entry at path, or ok=false
	// when the entry is absent or unreadable.
	ReadEntry(path string) ([]byte, bool)

	// ListPaths returns every entry path, in container order.
	ListPaths() []string
}

// NormalizePath canonicalizes an entry path: forward slashes, no leading
// slash, no internal dot segments.
func NormalizePath(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	p = strings.TrimPrefix(p, "/")
	p = path.Clean(p)
	if p == "." {
		return ""
	}
	return p
}

// ZipArchive is an Archive backed by a zip container.
type ZipArchive struct {
	entries map[string]*zip.File
	paths   []string
	closer  io.Closer
}

// OpenFile opens the package at the given filesystem path.
func OpenFile(name string) (*ZipArchive, error) {
	rc, err := zip.OpenReader(name)
	if err != nil {
		return nil, fmt.Errorf("failed to open package %s: %w", name, err)
	}
	a := fromZipReader(&rc.Reader)
	a.closer = rc
	return a, nil
}

// FromBytes opens a package held in memory.
func FromBytes(data []byte) (*ZipArchive, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to read package: %w", err)
	}
	return fromZipReader(zr), nil
}

// FromReader reads the whole stream into memory and opens it as a package.
// Zip containers need random access, so streaming input is buffered first.
func FromReader(r io.Reader) (*ZipArchive, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read package stream: %w", err)
	}
	return FromBytes(data)
}

func fromZipReader(zr *zip.Reader) *ZipArchive {
	a := &ZipArchive{entries: make(map[string]*zip.File, len(zr.File))}
	for _, f := range zr.File {
		p := NormalizePath(f.Name)
		if p == "" || strings.HasSuffix(f.Name, "/") {
			continue
		}
		if _, seen := a.entries[p]; !seen {
			a.paths = append(a.paths, p)
		}
		a.entries[p] = f
	}
	return a
}

// Close releases the underlying file, if any. Safe to call more than once.
func (a *ZipArchive) Close() error {
	if a.closer == nil {
		return nil
	}
	c := a.closer
	a.closer = nil
	return c.Close()
}

// EntryExists implements Archive.
func (a *ZipArchive) EntryExists(p string) bool {
	_, ok := a.entries[NormalizePath(p)]
	return ok
}

// ReadEntry implements Archive.
func (a *ZipArchive) ReadEntry(p string) ([]byte, bool) {
	f, ok := a.entries[NormalizePath(p)]
	if !ok {
		return nil, false
	}
	rc, err := f.Open()
	if err != nil {
		return nil, false
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, false
	}
	return data, true
}

// ListPaths implements Archive.
func (a *ZipArchive) ListPaths() []string {
	out := make([]string, len(a.paths))
	copy(out, a.paths)
	return out
}

// WriteEntryTo copies one entry to w without buffering the whole entry.
func (a *ZipArchive) WriteEntryTo(w io.Writer, p string) (int64, error) {
	f, ok := a.entries[NormalizePath(p)]
	if !ok {
		return 0, fmt.Errorf("no entry %s in package", p)
	}
	rc, err := f.Open()
	if err != nil {
		return 0, fmt.Errorf("failed to open entry %s: %w", p, err)
	}
	defer rc.Close()
	return io.Copy(w, rc)
}
