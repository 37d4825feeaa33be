package main

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/docquill/quill/chunk"
	"github.com/docquill/quill/index"
)

const testContentTypes = `<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"/>`

const testRootRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`

const testStylesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:style w:type="paragraph" w:styleId="Heading1">
    <w:name w:val="heading 1"/>
  </w:style>
</w:styles>`

const testCoreXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:dcterms="http://purl.org/dc/terms/" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">
  <dc:title>Annual Report</dc:title>
  <dc:creator>Ann Author</dc:creator>
</cp:coreProperties>`

func wrapDoc(body string) string {
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"><w:body>` +
		body + `</w:body></w:document>`
}

// writeDocx assembles a document package and writes it under dir.
func writeDocx(t *testing.T, dir, name, body string, extra map[string][]byte) string {
	t.Helper()
	entries := map[string][]byte{
		"[Content_Types].xml": []byte(testContentTypes),
		"_rels/.rels":         []byte(testRootRels),
		"word/document.xml":   []byte(wrapDoc(body)),
	}
	for n, content := range extra {
		entries[n] = content
	}

	names := make([]string, 0, len(entries))
	for n := range entries {
		names = append(names, n)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, n := range names {
		w, err := zw.Create(n)
		if err != nil {
			t.Fatalf("failed to create zip entry %s: %v", n, err)
		}
		if _, err := w.Write(entries[n]); err != nil {
			t.Fatalf("failed to write zip entry %s: %v", n, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("failed to close zip: %v", err)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	return path
}

func testPNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 3, 2))); err != nil {
		t.Fatalf("failed to encode png: %v", err)
	}
	return buf.Bytes()
}

func paragraph(text string) string {
	return `<w:p><w:r><w:t>` + text + `</w:t></w:r></w:p>`
}

func headingParagraph(text string) string {
	return `<w:p><w:pPr><w:pStyle w:val="Heading1"/></w:pPr><w:r><w:t>` + text + `</w:t></w:r></w:p>`
}

// captureStdout runs fn with os.Stdout redirected and returns what it
// printed alongside fn's error.
func captureStdout(t *testing.T, fn func() error) (string, error) {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	done := make(chan string)
	go func() {
		data, _ := io.ReadAll(r)
		done <- string(data)
	}()

	runErr := fn()
	w.Close()
	os.Stdout = old
	return <-done, runErr
}

func TestVersionCmd(t *testing.T) {
	out, err := captureStdout(t, func() error {
		return (&VersionCmd{}).Run()
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(out, "quill version "+version) {
		t.Errorf("output = %q", out)
	}
}

func TestTextCmd(t *testing.T) {
	dir := t.TempDir()
	path := writeDocx(t, dir, "doc.docx", paragraph("First paragraph.")+paragraph("Second paragraph."), nil)

	out, err := captureStdout(t, func() error {
		return (&TextCmd{Path: path}).Run(zap.NewNop())
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(out, "First paragraph.") || !strings.Contains(out, "Second paragraph.") {
		t.Errorf("output = %q", out)
	}
}

func TestTextCmdMissingFile(t *testing.T) {
	cmd := &TextCmd{Path: filepath.Join(t.TempDir(), "absent.docx")}
	if err := cmd.Run(zap.NewNop()); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestDumpCmd(t *testing.T) {
	dir := t.TempDir()
	body := headingParagraph("Intro") + paragraph("Body text.")
	path := writeDocx(t, dir, "doc.docx", body, map[string][]byte{
		"word/styles.xml":   []byte(testStylesXML),
		"docProps/core.xml": []byte(testCoreXML),
	})

	out, err := captureStdout(t, func() error {
		return (&DumpCmd{Path: path}).Run(zap.NewNop())
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	var tree map[string]any
	if err := json.Unmarshal([]byte(out), &tree); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	meta, ok := tree["metadata"].(map[string]any)
	if !ok || meta["title"] != "Annual Report" {
		t.Errorf("metadata = %v", tree["metadata"])
	}

	body2, ok := tree["body"].([]any)
	if !ok || len(body2) != 2 {
		t.Fatalf("body = %v", tree["body"])
	}
	first := body2[0].(map[string]any)
	if first["type"] != "Paragraph" {
		t.Errorf("first node type = %v", first["type"])
	}
	// JSON numbers decode as float64.
	if first["heading_level"] != float64(1) {
		t.Errorf("heading_level = %v", first["heading_level"])
	}
}

func TestMediaCmdList(t *testing.T) {
	dir := t.TempDir()
	png := testPNG(t)
	path := writeDocx(t, dir, "doc.docx", paragraph("x"), map[string][]byte{
		"word/media/image1.png": png,
	})

	out, err := captureStdout(t, func() error {
		return (&MediaCmd{Path: path}).Run(zap.NewNop())
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(out, "word/media/image1.png") {
		t.Errorf("listing missing media path: %q", out)
	}
	if !strings.Contains(out, "png 3x2") {
		t.Errorf("listing missing format and dimensions: %q", out)
	}
	if !strings.Contains(out, "Total: 1 entries") {
		t.Errorf("listing missing total: %q", out)
	}
}

func TestMediaCmdExtract(t *testing.T) {
	dir := t.TempDir()
	png := testPNG(t)
	path := writeDocx(t, dir, "doc.docx", paragraph("x"), map[string][]byte{
		"word/media/image1.png": png,
	})

	outDir := filepath.Join(dir, "extracted")
	cmd := &MediaCmd{Path: path, Out: outDir}
	if _, err := captureStdout(t, func() error { return cmd.Run(zap.NewNop()) }); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(outDir, "word", "media", "image1.png"))
	if err != nil {
		t.Fatalf("extracted file not written: %v", err)
	}
	if !bytes.Equal(data, png) {
		t.Error("extracted bytes differ from package entry")
	}
}

func defaultChunksCmd(path string) *ChunksCmd {
	return &ChunksCmd{
		Path:        path,
		Target:      1000,
		Max:         2000,
		Min:         100,
		Overlap:     100,
		SplitLevel:  3,
		WholeTables: true,
		Context:     true,
	}
}

func TestChunksCmdJSON(t *testing.T) {
	dir := t.TempDir()
	content := strings.Repeat("alpha beta gamma delta. ", 6)
	body := headingParagraph("Notes") + paragraph(content)
	path := writeDocx(t, dir, "doc.docx", body, map[string][]byte{
		"word/styles.xml":   []byte(testStylesXML),
		"docProps/core.xml": []byte(testCoreXML),
	})

	cmd := defaultChunksCmd(path)
	cmd.JSON = true
	out, err := captureStdout(t, func() error { return cmd.Run(zap.NewNop()) })
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	var chunks []*chunk.Chunk
	if err := json.Unmarshal([]byte(out), &chunks); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("got %d chunks, want 1", len(chunks))
	}
	if !strings.Contains(chunks[0].Text, "alpha beta gamma") {
		t.Errorf("chunk text = %q", chunks[0].Text)
	}
	if chunks[0].Metadata.SectionTitle != "Notes" {
		t.Errorf("section title = %q", chunks[0].Metadata.SectionTitle)
	}
	if chunks[0].Metadata.DocumentTitle != "Annual Report" {
		t.Errorf("document title = %q", chunks[0].Metadata.DocumentTitle)
	}
}

func TestChunksCmdText(t *testing.T) {
	dir := t.TempDir()
	content := strings.Repeat("alpha beta gamma delta. ", 6)
	path := writeDocx(t, dir, "doc.docx", paragraph(content), nil)

	out, err := captureStdout(t, func() error { return defaultChunksCmd(path).Run(zap.NewNop()) })
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(out, "--- chunk 1/1") {
		t.Errorf("output missing chunk header: %q", out)
	}
	if !strings.Contains(out, "alpha beta gamma") {
		t.Errorf("output missing chunk text: %q", out)
	}
}

func TestIndexAndSearchCmds(t *testing.T) {
	dir := t.TempDir()
	a := writeDocx(t, dir, "a.docx", paragraph("The quick brown fox jumps over the lazy dog."), map[string][]byte{
		"docProps/core.xml": []byte(testCoreXML),
	})
	b := writeDocx(t, dir, "b.docx", paragraph("A slow green turtle naps in the shade."), nil)
	db := filepath.Join(dir, "idx.db")

	cmd := &IndexCmd{Paths: []string{a, b}, DB: db}
	if _, err := captureStdout(t, func() error { return cmd.Run(zap.NewNop()) }); err != nil {
		t.Fatalf("IndexCmd.Run() error = %v", err)
	}

	st, err := index.Open(db)
	if err != nil {
		t.Fatalf("failed to open index: %v", err)
	}
	docs, err := st.Documents()
	st.Close()
	if err != nil {
		t.Fatalf("Documents() error = %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("got %d indexed documents, want 2", len(docs))
	}

	search := &SearchCmd{Query: "quick brown", DB: db, Limit: 10, JSON: true}
	out, err := captureStdout(t, search.Run)
	if err != nil {
		t.Fatalf("SearchCmd.Run() error = %v", err)
	}
	var hits []index.Hit
	if err := json.Unmarshal([]byte(out), &hits); err != nil {
		t.Fatalf("search output is not valid JSON: %v", err)
	}
	if len(hits) != 1 {
		t.Fatalf("got %d hits, want 1", len(hits))
	}
	if !strings.HasSuffix(hits[0].DocumentPath, "a.docx") {
		t.Errorf("hit path = %q", hits[0].DocumentPath)
	}
	if hits[0].DocumentTitle != "Annual Report" {
		t.Errorf("hit title = %q", hits[0].DocumentTitle)
	}
	if !strings.Contains(hits[0].Snippet, "quick brown") {
		t.Errorf("snippet = %q", hits[0].Snippet)
	}

	none := &SearchCmd{Query: "unicorn", DB: db, Limit: 10}
	out, err = captureStdout(t, none.Run)
	if err != nil {
		t.Fatalf("SearchCmd.Run() error = %v", err)
	}
	if !strings.Contains(out, "No matches.") {
		t.Errorf("output = %q", out)
	}
}

func TestIndexCmdList(t *testing.T) {
	dir := t.TempDir()
	a := writeDocx(t, dir, "a.docx", paragraph("Some indexed content here."), nil)
	db := filepath.Join(dir, "idx.db")

	add := &IndexCmd{Paths: []string{a}, DB: db}
	if _, err := captureStdout(t, func() error { return add.Run(zap.NewNop()) }); err != nil {
		t.Fatalf("IndexCmd.Run() error = %v", err)
	}

	list := &IndexCmd{List: true, DB: db}
	out, err := captureStdout(t, func() error { return list.Run(zap.NewNop()) })
	if err != nil {
		t.Fatalf("IndexCmd.Run() list error = %v", err)
	}
	if !strings.Contains(out, "a.docx") || !strings.Contains(out, "Total: 1 documents") {
		t.Errorf("listing = %q", out)
	}
}

func TestIndexCmdRequiresPaths(t *testing.T) {
	cmd := &IndexCmd{DB: filepath.Join(t.TempDir(), "idx.db")}
	err := cmd.Run(zap.NewNop())
	if err == nil || !strings.Contains(err.Error(), "specify documents") {
		t.Errorf("expected usage error, got %v", err)
	}
}
