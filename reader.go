package quill

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/ulikunitz/xz"
	"golang.org/x/text/unicode/norm"

	"github.com/docquill/quill/chunk"
	"github.com/docquill/quill/docx"
	"github.com/docquill/quill/format"
	"github.com/docquill/quill/model"
	"github.com/docquill/quill/ocr"
	"github.com/docquill/quill/opc"
)

// Reader provides a fluent interface for reading WordprocessingML
// documents. Each configuration method returns a new Reader instance,
// making it safe for concurrent use and allowing method chaining.
type Reader struct {
	// Source
	filename string
	data     []byte
	format   format.Format

	// Package archive
	archive     opc.Archive
	ownsArchive bool // true if we opened the archive and should close it
	opened      bool

	// Configuration
	options readOptions

	// Accumulated error (fail-fast)
	err error

	// Warnings accumulated before parsing
	warnings []Warning
}

// clone creates a copy of the Reader with a deep copy of options.
// This ensures immutability: each chain method returns a new instance.
func (r *Reader) clone() *Reader {
	return &Reader{
		filename:    r.filename,
		data:        r.data,
		format:      r.format,
		archive:     r.archive,
		ownsArchive: r.ownsArchive,
		opened:      r.opened,
		options:     r.options.clone(),
		err:         r.err,
		warnings:    append([]Warning(nil), r.warnings...),
	}
}

// ensureArchive opens the package archive if not already open. An xz
// compressed source is decompressed into memory first.
func (r *Reader) ensureArchive() error {
	if r.opened {
		return nil
	}

	if r.data != nil {
		return r.openBytes(r.data)
	}

	if r.filename == "" {
		return fmt.Errorf("no filename specified")
	}

	switch r.format {
	case format.WordPackage, format.Zip:
		ar, err := opc.OpenFile(r.filename)
		if err != nil {
			return fmt.Errorf("failed to open package: %w", err)
		}
		r.archive = ar
		r.ownsArchive = true
		r.opened = true
		return nil

	case format.XZ:
		data, err := os.ReadFile(r.filename)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", r.filename, err)
		}
		return r.openBytes(data)

	case format.XML:
		return fmt.Errorf("%s: bare XML is not a document package", r.filename)

	default:
		return fmt.Errorf("unsupported file format: %s", r.format)
	}
}

// openBytes opens an in-memory package, transparently decompressing an
// xz stream.
func (r *Reader) openBytes(data []byte) error {
	if format.DetectFromMagic(data) == format.XZ {
		decompressed, err := unxz(data)
		if err != nil {
			return err
		}
		data = decompressed
	}
	ar, err := opc.FromBytes(data)
	if err != nil {
		return fmt.Errorf("failed to open package: %w", err)
	}
	r.archive = ar
	r.ownsArchive = true
	r.opened = true
	return nil
}

// unxz decompresses an xz stream into memory.
func unxz(data []byte) ([]byte, error) {
	zr, err := xz.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("xz: %w", err)
	}
	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("xz: %w", err)
	}
	return out, nil
}

// Close releases resources associated with the Reader.
// It is safe to call Close multiple times.
func (r *Reader) Close() error {
	if r.ownsArchive && r.archive != nil {
		var err error
		if closer, ok := r.archive.(io.Closer); ok {
			err = closer.Close()
		}
		r.archive = nil
		r.ownsArchive = false
		return err
	}
	return nil
}

// ============================================================================
// Configuration Methods (return new Reader instance)
// ============================================================================

// OCRAltText configures the Reader to run OCR over embedded images that
// lack alternative text, attaching the recognized text as their Alt.
// Requires a build with the ocr tag and Tesseract installed; otherwise
// the option degrades to a warning.
//
// Example:
//
//	doc, warnings, err := quill.Open("scan.docx").OCRAltText().Tree()
func (r *Reader) OCRAltText() *Reader {
	nr := r.clone()
	nr.options.ocrAltText = true
	return nr
}

// OCRLanguage sets the OCR recognition language(s) and implies
// OCRAltText. Multiple languages are "+" separated, e.g. "eng+deu".
//
// Example:
//
//	doc, _, err := quill.Open("scan.docx").OCRLanguage("eng+fra").Tree()
func (r *Reader) OCRLanguage(lang string) *Reader {
	nr := r.clone()
	nr.options.ocrAltText = true
	nr.options.ocrLanguage = lang
	return nr
}

// ============================================================================
// Terminal Operations (execute the read and return results)
// ============================================================================

// Tree parses the document and returns its full structural tree.
// This is a terminal operation that closes the underlying archive.
//
// Returns the document, any warnings encountered during parsing, and an
// error if the package has no readable document part. Warnings indicate
// non-fatal issues (e.g. an unrecognized element was dropped) where
// parsing succeeded but results may be incomplete.
//
// Example:
//
//	doc, warnings, err := quill.Open("document.docx").Tree()
//	if len(warnings) > 0 {
//	    log.Println(quill.FormatWarnings(warnings))
//	}
func (r *Reader) Tree() (*model.Document, []Warning, error) {
	if r.err != nil {
		return nil, nil, r.err
	}
	if err := r.ensureArchive(); err != nil {
		return nil, nil, err
	}
	defer r.Close()

	doc, parseWarnings, err := docx.Parse(r.archive)
	warnings := append(append([]Warning(nil), r.warnings...), convertWarnings(parseWarnings)...)
	if err != nil {
		return nil, warnings, err
	}

	if r.options.ocrAltText {
		warnings = r.enrichAltText(doc, warnings)
	}

	return doc, warnings, nil
}

// Text parses the document and returns its flattened text: paragraphs
// separated by blank lines, tables rendered one tab-separated row per
// line. The output is normalized to Unicode NFC.
// This is a terminal operation that closes the underlying archive.
//
// Example:
//
//	text, warnings, err := quill.Open("document.docx").Text()
func (r *Reader) Text() (string, []Warning, error) {
	doc, warnings, err := r.Tree()
	if err != nil {
		return "", warnings, err
	}
	return norm.NFC.String(doc.Text()), warnings, nil
}

// Metadata parses the document and returns its core properties (title,
// creator, dates and so on). Absent properties are zero values.
// This is a terminal operation that closes the underlying archive.
//
// Example:
//
//	meta, _, err := quill.Open("document.docx").Metadata()
//	fmt.Println(meta.Title, meta.Creator)
func (r *Reader) Metadata() (model.Metadata, []Warning, error) {
	doc, warnings, err := r.Tree()
	if err != nil {
		return model.Metadata{}, warnings, err
	}
	return doc.Metadata, warnings, nil
}

// Outline parses the document and returns its heading outline in
// document order.
// This is a terminal operation that closes the underlying archive.
//
// Example:
//
//	outline, _, err := quill.Open("document.docx").Outline()
//	for _, entry := range outline {
//	    fmt.Printf("%*s%s\n", entry.Level*2, "", entry.Text)
//	}
func (r *Reader) Outline() ([]model.OutlineEntry, []Warning, error) {
	doc, warnings, err := r.Tree()
	if err != nil {
		return nil, warnings, err
	}
	return doc.Outline(), warnings, nil
}

// Tables parses the document and returns the tables appearing at the
// top level of the body, in document order.
// This is a terminal operation that closes the underlying archive.
//
// Example:
//
//	tables, _, err := quill.Open("report.docx").Tables()
//	for _, table := range tables {
//	    fmt.Println(table.ToCSV())
//	}
func (r *Reader) Tables() ([]*model.Table, []Warning, error) {
	doc, warnings, err := r.Tree()
	if err != nil {
		return nil, warnings, err
	}
	return doc.Tables(), warnings, nil
}

// Chunks parses the document and splits it into retrieval-sized chunks
// with heading-path metadata, using the default chunking configuration.
// This is a terminal operation that closes the underlying archive.
//
// Example:
//
//	result, _, err := quill.Open("manual.docx").Chunks()
//	for _, c := range result.Chunks {
//	    fmt.Printf("[%s] %s\n", c.SectionPathString(), c.ID)
//	}
func (r *Reader) Chunks() (*chunk.Result, []Warning, error) {
	return r.ChunksWithConfig(chunk.DefaultConfig())
}

// ChunksWithConfig is Chunks with a custom chunking configuration.
// This is a terminal operation that closes the underlying archive.
//
// Example:
//
//	config := chunk.DefaultConfig()
//	config.TargetSize = 500
//	result, _, err := quill.Open("manual.docx").ChunksWithConfig(config)
func (r *Reader) ChunksWithConfig(config chunk.Config) (*chunk.Result, []Warning, error) {
	doc, warnings, err := r.Tree()
	if err != nil {
		return nil, warnings, err
	}
	result, err := chunk.NewWithConfig(config).Chunk(doc)
	if err != nil {
		return nil, warnings, err
	}
	return result, warnings, nil
}

// Media returns every binary entry under the package's media
// directories, each with raw bytes, a content digest, and sniffed image
// dimensions where the format is recognized. The document part is not
// parsed.
// This is a terminal operation that closes the underlying archive.
//
// Example:
//
//	entries, _, err := quill.Open("document.docx").Media()
//	for _, e := range entries {
//	    fmt.Println(e.Path, e.Format, len(e.Data))
//	}
func (r *Reader) Media() ([]*opc.MediaEntry, []Warning, error) {
	if r.err != nil {
		return nil, nil, r.err
	}
	if err := r.ensureArchive(); err != nil {
		return nil, nil, err
	}
	defer r.Close()

	store := opc.CollectMedia(r.archive)
	entries := make([]*opc.MediaEntry, 0, store.Len())
	for _, p := range store.Paths() {
		if e, ok := store.Get(p); ok {
			entries = append(entries, e)
		}
	}
	return entries, append([]Warning(nil), r.warnings...), nil
}

// ============================================================================
// Internal helpers
// ============================================================================

// drawingVisitor receives each drawing found in a document tree. alt
// points at the drawing's alternative text so the caller may set it.
type drawingVisitor func(path string, data []byte, alt *string)

// enrichAltText runs OCR over drawings that carry image data but no
// alternative text. OCR unavailability and per-image failures degrade
// to warnings.
func (r *Reader) enrichAltText(doc *model.Document, warnings []Warning) []Warning {
	type target struct {
		path string
		data []byte
		alt  *string
	}
	var targets []target
	walkBody(doc.Body, func(path string, data []byte, alt *string) {
		if *alt != "" || len(data) == 0 || !ocr.CanRecognize(path) {
			return
		}
		targets = append(targets, target{path: path, data: data, alt: alt})
	})
	if len(targets) == 0 {
		return warnings
	}

	client, err := ocr.New()
	if err != nil {
		return append(warnings, Warning{Message: fmt.Sprintf("ocr requested but unavailable: %v", err)})
	}
	defer client.Close()

	if r.options.ocrLanguage != "" {
		if err := client.SetLanguage(r.options.ocrLanguage); err != nil {
			warnings = append(warnings, Warning{Message: fmt.Sprintf("ocr language %q: %v", r.options.ocrLanguage, err)})
		}
	}

	for _, t := range targets {
		text, err := client.Recognize(t.data)
		if err != nil {
			warnings = append(warnings, Warning{Message: fmt.Sprintf("ocr %s: %v", t.path, err)})
			continue
		}
		if text != "" {
			*t.alt = text
		}
	}
	return warnings
}

// walkBody visits every drawing under the given body parts, descending
// into tables, notes, comments, hyperlinks and fields.
func walkBody(parts []model.BodyPart, visit drawingVisitor) {
	for _, part := range parts {
		switch p := part.(type) {
		case *model.Paragraph:
			walkParParts(p.Parts, visit)
		case *model.ListItem:
			walkParParts(p.Parts, visit)
		case *model.TableCaption:
			walkParParts(p.Parts, visit)
		case *model.Table:
			for _, row := range p.Rows {
				for i := range row.Cells {
					walkBody(row.Cells[i].Parts, visit)
				}
			}
		}
	}
}

func walkParParts(parts []model.ParPart, visit drawingVisitor) {
	for _, part := range parts {
		switch p := part.(type) {
		case *model.PlainRun:
			walkRun(p.Run, visit)
		case *model.ChangedRuns:
			for _, run := range p.Runs {
				walkRun(run, visit)
			}
		case *model.CommentStart:
			walkBody(p.Parts, visit)
		case *model.InternalHyperLink:
			walkParParts(p.Children, visit)
		case *model.ExternalHyperLink:
			walkParParts(p.Children, visit)
		case *model.Field:
			walkParParts(p.Children, visit)
		case *model.Drawing:
			visit(p.Path, p.Data, &p.Alt)
		}
	}
}

func walkRun(run model.Run, visit drawingVisitor) {
	switch rr := run.(type) {
	case *model.FootnoteRef:
		walkBody(rr.Parts, visit)
	case *model.EndnoteRef:
		walkBody(rr.Parts, visit)
	case *model.InlineDrawing:
		visit(rr.Path, rr.Data, &rr.Alt)
	}
}
