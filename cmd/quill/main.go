// Command quill inspects WordprocessingML documents from the command
// line. It can dump the parsed document tree as JSON, print plain text,
// list or extract embedded media, split documents into retrieval
// chunks, and maintain a small search index over chunked documents.
//
// Compressed inputs work everywhere a document path is accepted: a
// .docx.xz file is decompressed transparently.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"

	"github.com/docquill/quill"
	"github.com/docquill/quill/chunk"
	"github.com/docquill/quill/index"
)

const version = "0.1.0"

// CLI defines the command-line interface for quill.
var CLI struct {
	Verbose bool `short:"v" help:"Log parse diagnostics to stderr"`

	Dump    DumpCmd    `cmd:"" help:"Print the parsed document tree as JSON"`
	Text    TextCmd    `cmd:"" help:"Print the document's plain text"`
	Media   MediaCmd   `cmd:"" help:"List or extract embedded media"`
	Chunks  ChunksCmd  `cmd:"" help:"Split a document into retrieval chunks"`
	Index   IndexCmd   `cmd:"" help:"Add documents to a search index"`
	Search  SearchCmd  `cmd:"" help:"Find text in indexed documents"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

// DumpCmd prints the parsed document tree as JSON.
type DumpCmd struct {
	Path  string `arg:"" help:"Document to read (.docx or .docm, optionally .xz compressed)" type:"existingfile"`
	Media bool   `help:"Include embedded image bytes as base64"`
}

func (c *DumpCmd) Run(log *zap.Logger) error {
	doc, warnings, err := quill.Open(c.Path).Tree()
	if err != nil {
		return fmt.Errorf("failed to read document: %w", err)
	}
	logWarnings(log, warnings)

	out, err := json.MarshalIndent(renderDocument(doc, c.Media), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode tree: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

// TextCmd prints the document's flattened plain text.
type TextCmd struct {
	Path string `arg:"" help:"Document to read" type:"existingfile"`
}

func (c *TextCmd) Run(log *zap.Logger) error {
	text, warnings, err := quill.Open(c.Path).Text()
	if err != nil {
		return fmt.Errorf("failed to read document: %w", err)
	}
	logWarnings(log, warnings)
	fmt.Println(text)
	return nil
}

// MediaCmd lists the package's media entries, or writes them out when
// --out names a directory.
type MediaCmd struct {
	Path string `arg:"" help:"Document to read" type:"existingfile"`
	Out  string `short:"o" help:"Extract media into this directory instead of listing" type:"path"`
}

func (c *MediaCmd) Run(log *zap.Logger) error {
	entries, warnings, err := quill.Open(c.Path).Media()
	if err != nil {
		return fmt.Errorf("failed to read media: %w", err)
	}
	logWarnings(log, warnings)

	if len(entries) == 0 {
		fmt.Println("No media entries.")
		return nil
	}

	if c.Out == "" {
		for _, e := range entries {
			desc := e.Format
			if desc == "" {
				desc = "?"
			}
			if e.Width > 0 && e.Height > 0 {
				desc = fmt.Sprintf("%s %dx%d", desc, e.Width, e.Height)
			}
			fmt.Printf("  %s  (%s, %d bytes)  %s\n", e.Path, desc, len(e.Data), shortDigest(e.Digest))
		}
		fmt.Printf("\nTotal: %d entries\n", len(entries))
		return nil
	}

	for _, e := range entries {
		dest := filepath.Join(c.Out, filepath.FromSlash(e.Path))
		if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		if err := os.WriteFile(dest, e.Data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", dest, err)
		}
		fmt.Printf("Extracted: %s (%d bytes)\n", dest, len(e.Data))
	}
	return nil
}

func shortDigest(digest string) string {
	if len(digest) > 12 {
		return digest[:12]
	}
	return digest
}

// ChunksCmd splits a document into retrieval chunks.
type ChunksCmd struct {
	Path        string `arg:"" help:"Document to read" type:"existingfile"`
	JSON        bool   `help:"Emit chunks as a JSON array"`
	Target      int    `help:"Preferred chunk size in characters" default:"1000"`
	Max         int    `help:"Upper bound before oversized blocks are split" default:"2000"`
	Min         int    `help:"Merge chunks smaller than this into a neighbor" default:"100"`
	Overlap     int    `help:"Characters of trailing overlap context" default:"100"`
	SplitLevel  int    `help:"Deepest heading level that starts a new section" default:"3"`
	WholeTables bool   `help:"Keep each table in a single chunk" default:"true" negatable:""`
	Context     bool   `help:"Record section-path context on each chunk" default:"true" negatable:""`
}

func (c *ChunksCmd) Run(log *zap.Logger) error {
	cfg := chunk.DefaultConfig()
	cfg.TargetSize = c.Target
	cfg.MaxSize = c.Max
	cfg.MinSize = c.Min
	cfg.Overlap = c.Overlap
	cfg.SplitLevel = c.SplitLevel
	cfg.KeepTablesWhole = c.WholeTables
	cfg.WithContext = c.Context
	cfg.IDSeed = c.Path

	result, warnings, err := quill.Open(c.Path).ChunksWithConfig(cfg)
	if err != nil {
		return fmt.Errorf("failed to chunk document: %w", err)
	}
	logWarnings(log, warnings)
	log.Info("chunked document",
		zap.Int("chunks", len(result.Chunks)),
		zap.Int("avg_size", result.Stats.AvgChunkSize))

	if c.JSON {
		out, err := json.MarshalIndent(result.Chunks, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode chunks: %w", err)
		}
		fmt.Println(string(out))
		return nil
	}

	for i, ch := range result.Chunks {
		if i > 0 {
			fmt.Println()
		}
		header := fmt.Sprintf("chunk %d/%d", ch.Metadata.ChunkIndex+1, ch.Metadata.TotalChunks)
		if path := ch.SectionPathString(); path != "" {
			header += "  " + path
		}
		fmt.Printf("--- %s (%d chars) ---\n", header, ch.Metadata.CharCount)
		fmt.Println(ch.Text)
	}
	return nil
}

// IndexCmd chunks documents and stores them in a search index.
type IndexCmd struct {
	Paths []string `arg:"" optional:"" help:"Documents to add" type:"existingfile"`
	DB    string   `help:"Index database file" default:"quill.db" type:"path"`
	List  bool     `help:"List indexed documents instead of adding"`
}

func (c *IndexCmd) Run(log *zap.Logger) error {
	st, err := index.Open(c.DB)
	if err != nil {
		return fmt.Errorf("failed to open index: %w", err)
	}
	defer st.Close()

	if c.List {
		docs, err := st.Documents()
		if err != nil {
			return fmt.Errorf("failed to list documents: %w", err)
		}
		if len(docs) == 0 {
			fmt.Println("Index is empty.")
			return nil
		}
		for _, d := range docs {
			title := d.Title
			if title == "" {
				title = "(untitled)"
			}
			fmt.Printf("  %s  %s  %d chunks  %s\n", d.Path, title, d.Chunks, d.IndexedAt.Format("2006-01-02 15:04"))
		}
		fmt.Printf("\nTotal: %d documents\n", len(docs))
		return nil
	}

	if len(c.Paths) == 0 {
		return fmt.Errorf("specify documents to add or use --list")
	}

	for _, path := range c.Paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			return fmt.Errorf("invalid path %s: %w", path, err)
		}

		doc, warnings, err := quill.Open(abs).Tree()
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		logWarnings(log, warnings)

		cfg := chunk.DefaultConfig()
		cfg.IDSeed = abs
		result, err := chunk.NewWithConfig(cfg).Chunk(doc)
		if err != nil {
			return fmt.Errorf("failed to chunk %s: %w", path, err)
		}

		if err := st.Add(abs, doc.Metadata, result.Chunks); err != nil {
			return fmt.Errorf("failed to index %s: %w", path, err)
		}
		fmt.Printf("Indexed: %s (%d chunks)\n", abs, len(result.Chunks))
	}
	return nil
}

// SearchCmd finds text in previously indexed documents.
type SearchCmd struct {
	Query string `arg:"" help:"Text to find"`
	DB    string `help:"Index database file" default:"quill.db" type:"existingfile"`
	Limit int    `short:"n" help:"Maximum number of hits" default:"10"`
	JSON  bool   `help:"Emit hits as JSON"`
}

func (c *SearchCmd) Run() error {
	st, err := index.Open(c.DB)
	if err != nil {
		return fmt.Errorf("failed to open index: %w", err)
	}
	defer st.Close()

	hits, err := st.Search(c.Query, c.Limit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if c.JSON {
		out, err := json.MarshalIndent(hits, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode hits: %w", err)
		}
		fmt.Println(string(out))
		return nil
	}

	if len(hits) == 0 {
		fmt.Println("No matches.")
		return nil
	}
	for i, h := range hits {
		loc := h.DocumentPath
		if h.DocumentTitle != "" {
			loc = fmt.Sprintf("%s (%s)", loc, h.DocumentTitle)
		}
		fmt.Printf("%d. %s\n", i+1, loc)
		if h.Section != "" {
			fmt.Printf("   [%s]\n", h.Section)
		}
		fmt.Printf("   %s\n", h.Snippet)
	}
	return nil
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Printf("quill version %s\n", version)
	return nil
}

// logWarnings reports parse warnings through the diagnostic logger.
func logWarnings(log *zap.Logger, warnings []quill.Warning) {
	for _, w := range warnings {
		log.Warn("document warning", zap.String("message", w.Message))
	}
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("quill"),
		kong.Description("Inspect WordprocessingML documents: tree dumps, plain text, media, chunks, and search."),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)

	log := zap.NewNop()
	if CLI.Verbose {
		dev, err := zap.NewDevelopment()
		ctx.FatalIfErrorf(err)
		log = dev
		defer log.Sync()
	}

	err := ctx.Run(log)
	ctx.FatalIfErrorf(err)
}
