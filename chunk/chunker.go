// Package chunk splits a parsed document tree into retrieval sized
// chunks. Chunking follows the document's heading structure: sections
// open at configurable heading levels, each chunk records the heading
// path it lives under, and tables can be kept whole. Chunk identifiers
// are deterministic, derived from the document and chunk position.
package chunk

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/docquill/quill/model"
)

// Metadata describes a chunk's position and context within the
// document.
type Metadata struct {
	// DocumentTitle is the title of the source document.
	DocumentTitle string `json:"document_title,omitempty"`

	// SectionPath is the heading path above the chunk, outermost first.
	SectionPath []string `json:"section_path,omitempty"`

	// SectionTitle is the immediate section heading.
	SectionTitle string `json:"section_title,omitempty"`

	// HeadingLevel is the level of the enclosing section heading, 0 when
	// the chunk precedes every heading.
	HeadingLevel int `json:"heading_level,omitempty"`

	// ChunkIndex is the position of this chunk in the document.
	ChunkIndex int `json:"chunk_index"`

	// TotalChunks is the total number of chunks in the document.
	TotalChunks int `json:"total_chunks,omitempty"`

	// HasTable reports whether the chunk contains table content.
	HasTable bool `json:"has_table,omitempty"`

	// HasList reports whether the chunk contains list items.
	HasList bool `json:"has_list,omitempty"`

	// CharCount is the number of bytes in the chunk text.
	CharCount int `json:"char_count"`

	// WordCount is the number of whitespace separated words.
	WordCount int `json:"word_count"`

	// EstimatedTokens is a rough token estimate, one token per four
	// characters.
	EstimatedTokens int `json:"estimated_tokens"`
}

// Chunk is one retrieval unit of document text.
type Chunk struct {
	// ID is a deterministic identifier, stable across runs for the same
	// document and configuration.
	ID string `json:"id"`

	// Text is the chunk content.
	Text string `json:"text"`

	// ContextText is the text with the section heading and overlap from
	// the preceding chunk prepended, for retrieval embedding.
	ContextText string `json:"context_text,omitempty"`

	Metadata Metadata `json:"metadata"`
}

// SectionPathString returns the heading path as one formatted string.
func (c *Chunk) SectionPathString() string {
	return strings.Join(c.Metadata.SectionPath, " > ")
}

// Config holds chunking options.
type Config struct {
	// TargetSize is the preferred chunk size in characters. A chunk
	// closes once adding the next block would push it past this size.
	TargetSize int

	// MaxSize is the hard limit. Oversized paragraphs split on sentence
	// boundaries to stay under it.
	MaxSize int

	// MinSize is the smallest acceptable final chunk; a trailing chunk
	// below it merges into its predecessor.
	MinSize int

	// Overlap is the number of trailing characters from the previous
	// chunk repeated in the next chunk's context text.
	Overlap int

	// SplitLevel opens a new section at headings of this level or above;
	// deeper headings stay inside the running section.
	SplitLevel int

	// KeepTablesWhole keeps each table in a single chunk even when it
	// exceeds the target size.
	KeepTablesWhole bool

	// WithContext prepends the section title to the context text.
	WithContext bool

	// IDSeed keys the deterministic chunk identifiers. Empty uses the
	// document title.
	IDSeed string
}

// DefaultConfig returns the default chunking configuration.
func DefaultConfig() Config {
	return Config{
		TargetSize:      1000,
		MaxSize:         2000,
		MinSize:         100,
		Overlap:         100,
		SplitLevel:      3,
		KeepTablesWhole: true,
		WithContext:     true,
	}
}

// Chunker splits documents into chunks.
type Chunker struct {
	config Config
}

// New creates a chunker with the default configuration.
func New() *Chunker {
	return &Chunker{config: DefaultConfig()}
}

// NewWithConfig creates a chunker with a custom configuration.
// Non-positive sizes fall back to their defaults.
func NewWithConfig(config Config) *Chunker {
	def := DefaultConfig()
	if config.TargetSize <= 0 {
		config.TargetSize = def.TargetSize
	}
	if config.MaxSize <= 0 {
		config.MaxSize = def.MaxSize
	}
	if config.MaxSize < config.TargetSize {
		config.MaxSize = config.TargetSize
	}
	if config.MinSize < 0 {
		config.MinSize = 0
	}
	if config.Overlap < 0 {
		config.Overlap = 0
	}
	if config.SplitLevel <= 0 {
		config.SplitLevel = def.SplitLevel
	}
	return &Chunker{config: config}
}

// Result contains the chunking output.
type Result struct {
	// Chunks are the generated chunks in reading order.
	Chunks []*Chunk

	// DocumentTitle is the document title when available.
	DocumentTitle string

	// Stats summarizes the chunking run.
	Stats Stats
}

// Stats contains statistics about a chunking run.
type Stats struct {
	TotalChunks     int
	TotalCharacters int
	TotalWords      int
	AvgChunkSize    int
	MinChunkSize    int
	MaxChunkSize    int
}

// Chunk splits a document into chunks.
func (c *Chunker) Chunk(doc *model.Document) (*Result, error) {
	if doc == nil {
		return nil, fmt.Errorf("document is nil")
	}

	seed := c.config.IDSeed
	if seed == "" {
		seed = doc.Metadata.Title
	}

	result := &Result{DocumentTitle: doc.Metadata.Title}
	for _, sec := range splitSections(doc.Body, c.config.SplitLevel) {
		result.Chunks = append(result.Chunks, c.chunkSection(sec, doc.Metadata.Title)...)
	}
	c.mergeTrailing(result.Chunks)
	result.Chunks = dropEmpty(result.Chunks)

	for i, chunk := range result.Chunks {
		chunk.ID = chunkID(seed, i)
		chunk.Metadata.ChunkIndex = i
		chunk.Metadata.TotalChunks = len(result.Chunks)
		chunk.ContextText = c.contextText(chunk, previous(result.Chunks, i))
	}
	result.Stats = calculateStats(result.Chunks)
	return result, nil
}

// chunkSection packs one section's blocks into chunks.
func (c *Chunker) chunkSection(sec section, docTitle string) []*Chunk {
	blocks := renderBlocks(sec.parts, c.config.KeepTablesWhole)
	blocks = c.splitOversized(blocks)

	var chunks []*Chunk
	var cur []block
	curLen := 0
	flush := func() {
		if len(cur) == 0 {
			return
		}
		chunks = append(chunks, c.newChunk(cur, sec, docTitle))
		cur = nil
		curLen = 0
	}
	for _, b := range blocks {
		if curLen > 0 && curLen+len(b.text) > c.config.TargetSize {
			flush()
		}
		cur = append(cur, b)
		curLen += len(b.text)
	}
	flush()
	return chunks
}

// splitOversized splits non-atomic blocks that exceed the hard limit
// into sentence runs that fit.
func (c *Chunker) splitOversized(blocks []block) []block {
	var out []block
	for _, b := range blocks {
		if b.atomic || len(b.text) <= c.config.MaxSize {
			out = append(out, b)
			continue
		}
		for _, piece := range splitBySize(b.text, c.config.MaxSize) {
			nb := b
			nb.text = piece
			out = append(out, nb)
		}
	}
	return out
}

func (c *Chunker) newChunk(blocks []block, sec section, docTitle string) *Chunk {
	texts := make([]string, 0, len(blocks))
	meta := Metadata{
		DocumentTitle: docTitle,
		SectionPath:   sec.path,
		SectionTitle:  sec.title,
		HeadingLevel:  sec.level,
	}
	for _, b := range blocks {
		texts = append(texts, b.text)
		switch b.kind {
		case model.KindTable:
			meta.HasTable = true
		case model.KindListItem:
			meta.HasList = true
		}
	}
	text := strings.Join(texts, "\n\n")
	meta.CharCount = len(text)
	meta.WordCount = len(strings.Fields(text))
	meta.EstimatedTokens = len(text) / 4
	return &Chunk{Text: text, Metadata: meta}
}

// mergeTrailing folds chunks smaller than MinSize into their
// predecessor when both belong to the same section, so sections never
// end on a fragment.
func (c *Chunker) mergeTrailing(chunks []*Chunk) {
	if c.config.MinSize <= 0 {
		return
	}
	for i := len(chunks) - 1; i > 0; i-- {
		last := chunks[i]
		prev := chunks[i-1]
		if last == nil || prev == nil {
			continue
		}
		if last.Metadata.CharCount >= c.config.MinSize {
			continue
		}
		if last.Metadata.SectionTitle != prev.Metadata.SectionTitle {
			continue
		}
		prev.Text = prev.Text + "\n\n" + last.Text
		prev.Metadata.HasTable = prev.Metadata.HasTable || last.Metadata.HasTable
		prev.Metadata.HasList = prev.Metadata.HasList || last.Metadata.HasList
		prev.Metadata.CharCount = len(prev.Text)
		prev.Metadata.WordCount = len(strings.Fields(prev.Text))
		prev.Metadata.EstimatedTokens = len(prev.Text) / 4
		chunks[i] = nil
	}
}

func dropEmpty(chunks []*Chunk) []*Chunk {
	out := chunks[:0]
	for _, c := range chunks {
		if c != nil && strings.TrimSpace(c.Text) != "" {
			out = append(out, c)
		}
	}
	return out
}

func previous(chunks []*Chunk, i int) *Chunk {
	if i == 0 {
		return nil
	}
	return chunks[i-1]
}

// contextText builds the retrieval text: section title, then overlap
// from the preceding chunk, then the chunk text.
func (c *Chunker) contextText(chunk, prev *Chunk) string {
	var sb strings.Builder
	if c.config.WithContext && chunk.Metadata.SectionTitle != "" {
		sb.WriteString("[")
		sb.WriteString(chunk.Metadata.SectionTitle)
		sb.WriteString("]\n\n")
	}
	if c.config.Overlap > 0 && prev != nil {
		if tail := tailWords(prev.Text, c.config.Overlap); tail != "" {
			sb.WriteString(tail)
			sb.WriteString("\n\n")
		}
	}
	if sb.Len() == 0 {
		return chunk.Text
	}
	sb.WriteString(chunk.Text)
	return sb.String()
}

// chunkID derives a stable identifier from the seed and chunk position.
func chunkID(seed string, index int) string {
	name := fmt.Sprintf("quill:%s#%d", seed, index)
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(name)).String()
}

func calculateStats(chunks []*Chunk) Stats {
	stats := Stats{TotalChunks: len(chunks)}
	for i, c := range chunks {
		n := c.Metadata.CharCount
		stats.TotalCharacters += n
		stats.TotalWords += c.Metadata.WordCount
		if i == 0 || n < stats.MinChunkSize {
			stats.MinChunkSize = n
		}
		if n > stats.MaxChunkSize {
			stats.MaxChunkSize = n
		}
	}
	if len(chunks) > 0 {
		stats.AvgChunkSize = stats.TotalCharacters / len(chunks)
	}
	return stats
}
