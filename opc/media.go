package opc

import (
	"bytes"
	"encoding/hex"
	"image"
	"strings"

	"github.com/zeebo/blake3"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// MediaEntry is one binary entry found under a media directory.
type MediaEntry struct {
	Path   string
	Data   []byte
	Digest string // hex BLAKE3 of Data

	// Sniffed image config. Format is empty when the bytes are not a
	// recognized raster format (vector formats such as EMF stay opaque).
	Format string
	Width  int
	Height int
}

// MediaStore indexes the media entries of a package by path.
type MediaStore struct {
	entries map[string]*MediaEntry
	paths   []string
}

// CollectMedia gathers every entry that lives under a media directory
// component, digesting and sniffing each one. Unreadable entries are
// skipped.
func CollectMedia(a Archive) *MediaStore {
	m := &MediaStore{entries: make(map[string]*MediaEntry)}
	for _, p := range a.ListPaths() {
		if !isMediaPath(p) {
			continue
		}
		data, ok := a.ReadEntry(p)
		if !ok {
			continue
		}
		e := &MediaEntry{Path: p, Data: data, Digest: DigestBytes(data)}
		if cfg, format, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
			e.Format = format
			e.Width = cfg.Width
			e.Height = cfg.Height
		}
		m.entries[p] = e
		m.paths = append(m.paths, p)
	}
	return m
}

// DigestBytes returns the hex BLAKE3 digest of data. Identical images
// embedded more than once share a digest, which downstream consumers use
// for deduplication.
func DigestBytes(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func isMediaPath(p string) bool {
	for _, seg := range strings.Split(NormalizePath(p), "/") {
		if seg == "media" {
			return true
		}
	}
	return false
}

// Get returns the entry at the exact normalized path.
func (m *MediaStore) Get(p string) (*MediaEntry, bool) {
	e, ok := m.entries[NormalizePath(p)]
	return e, ok
}

// Paths returns every media path in container order.
func (m *MediaStore) Paths() []string {
	out := make([]string, len(m.paths))
	copy(out, m.paths)
	return out
}

// Len returns the number of media entries.
func (m *MediaStore) Len() int {
	return len(m.entries)
}
