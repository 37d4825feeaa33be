// Package format provides container format detection for the quill library.
package format

import (
	"archive/zip"
	"bytes"
	"io"
	"path/filepath"
	"strings"
)

// Format represents a recognized container format.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// WordPackage indicates an OPC zip carrying a WordprocessingML
	// document part.
	WordPackage
	// Zip indicates a zip archive without a recognizable document part.
	Zip
	// XZ indicates an xz compressed stream, typically wrapping a word
	// package.
	XZ
	// XML indicates a bare XML part outside any container.
	XML
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case WordPackage:
		return "WordPackage"
	case Zip:
		return "Zip"
	case XZ:
		return "XZ"
	case XML:
		return "XML"
	default:
		return "Unknown"
	}
}

// Extension returns the typical file extension for the format.
func (f Format) Extension() string {
	switch f {
	case WordPackage:
		return ".docx"
	case Zip:
		return ".zip"
	case XZ:
		return ".xz"
	case XML:
		return ".xml"
	default:
		return ""
	}
}

// Detect determines the format from the filename extension.
func Detect(filename string) Format {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".docx", ".docm":
		return WordPackage
	case ".zip":
		return Zip
	case ".xz":
		return XZ
	case ".xml":
		return XML
	default:
		return Unknown
	}
}

// xzMagic is the six byte stream header of the xz format.
var xzMagic = []byte{0xFD, '7', 'z', 'X', 'Z', 0x00}

// DetectFromMagic checks leading magic bytes to determine the format.
// A zip signature alone reports Zip; use DetectFromReader to tell a
// word package from a bare archive.
func DetectFromMagic(data []byte) Format {
	if bytes.HasPrefix(data, xzMagic) {
		return XZ
	}

	// ZIP local file header: PK\x03\x04
	if len(data) >= 4 && data[0] == 0x50 && data[1] == 0x4B && data[2] == 0x03 && data[3] == 0x04 {
		return Zip
	}

	if detectXMLMagic(data) {
		return XML
	}

	return Unknown
}

// detectXMLMagic checks whether the data starts with an XML declaration,
// byte order mark and leading whitespace tolerated.
func detectXMLMagic(data []byte) bool {
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
	start := 0
	for start < len(data) && (data[start] == ' ' || data[start] == '\t' || data[start] == '\n' || data[start] == '\r') {
		start++
	}
	data = data[start:]
	if len(data) < 5 {
		return false
	}
	return strings.EqualFold(string(data[:5]), "<?xml")
}

// DetectFromReader inspects the content to determine the format. Unlike
// DetectFromMagic it opens zip archives and distinguishes a word
// package from a bare zip by its entries.
func DetectFromReader(r io.ReaderAt, size int64) (Format, error) {
	magic := make([]byte, 512)
	n, err := r.ReadAt(magic, 0)
	if err != nil && err != io.EOF {
		return Unknown, err
	}
	magic = magic[:n]

	switch DetectFromMagic(magic) {
	case XZ:
		return XZ, nil
	case XML:
		return XML, nil
	case Zip:
		return detectZipFormat(r, size)
	}

	return Unknown, nil
}

// detectZipFormat inspects a zip archive's entries for a
// WordprocessingML document part.
func detectZipFormat(r io.ReaderAt, size int64) (Format, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return Unknown, err
	}

	for _, f := range zr.File {
		if strings.HasPrefix(f.Name, "word/") {
			return WordPackage, nil
		}
	}

	return Zip, nil
}
