// Package quill provides a fluent API for reading the structure, text,
// and media of WordprocessingML (.docx) documents.
//
// Basic usage:
//
//	text, warnings, err := quill.Open("document.docx").Text()
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println(quill.FormatWarnings(warnings))
//	}
//
// The full document tree is available via Tree:
//
//	doc, _, err := quill.Open("document.docx").Tree()
//	for _, part := range doc.Body {
//	    fmt.Println(part.Kind(), part.Text())
//	}
//
// For advanced use cases, the lower-level opc and docx packages are
// also available.
package quill

import (
	"github.com/docquill/quill/format"
	"github.com/docquill/quill/opc"
)

// Open prepares a Reader for the named document. Nothing is read until
// a terminal operation such as Text or Tree runs; terminal operations
// close the underlying archive when they finish.
//
// Example:
//
//	text, warnings, err := quill.Open("document.docx").Text()
func Open(filename string) *Reader {
	return &Reader{
		filename: filename,
		format:   format.Detect(filename),
		options:  defaultOptions(),
	}
}

// FromBytes prepares a Reader over an in-memory document, typically one
// already read from a stream or decompressed from a wrapper format.
//
// Example:
//
//	data, _ := os.ReadFile("document.docx")
//	doc, warnings, err := quill.FromBytes(data).Tree()
func FromBytes(data []byte) *Reader {
	return &Reader{
		data:    data,
		format:  format.WordPackage,
		options: defaultOptions(),
	}
}

// FromArchive prepares a Reader over an already-opened package archive.
// The caller keeps ownership and is responsible for closing it.
func FromArchive(ar opc.Archive) *Reader {
	return &Reader{
		archive: ar,
		format:  format.WordPackage,
		opened:  true,
		options: defaultOptions(),
	}
}

// Must wraps a call to a function returning (T, error) and panics if
// the error is non-nil. Intended for scripts and tests.
//
// Example:
//
//	doc := quill.Must(opc.OpenFile("document.docx"))
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustText wraps a call to a terminal operation returning
// (T, []Warning, error) and panics if the error is non-nil, discarding
// warnings. Intended for scripts and tests.
//
// Example:
//
//	text := quill.MustText(quill.Open("document.docx").Text())
func MustText[T any](val T, _ []Warning, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
