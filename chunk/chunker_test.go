package chunk

import (
	"strings"
	"testing"

	"github.com/docquill/quill/model"
)

func textPara(text string) *model.Paragraph {
	return &model.Paragraph{Parts: textParts(text)}
}

func heading(level int, text string) *model.Paragraph {
	return &model.Paragraph{
		Style: model.ParagraphStyle{
			Styles: []*model.ParStyle{{ID: "H", Name: "heading", HeadingLevel: &level}},
		},
		Parts: textParts(text),
	}
}

func listItem(ilvl, format, text string) *model.ListItem {
	return &model.ListItem{
		Ilvl:     ilvl,
		LevelDef: &model.Level{Ilvl: ilvl, Format: format, Template: "%1."},
		Parts:    textParts(text),
	}
}

func textParts(text string) []model.ParPart {
	return []model.ParPart{&model.PlainRun{
		Run: &model.TextRun{Elems: []model.RunElem{&model.TextElem{Value: text}}},
	}}
}

func simpleTable(rows ...[]string) *model.Table {
	table := &model.Table{}
	for _, cells := range rows {
		row := model.Row{}
		for _, text := range cells {
			row.Cells = append(row.Cells, model.Cell{
				GridSpan: 1,
				RowSpan:  1,
				Parts:    []model.BodyPart{textPara(text)},
			})
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}

func testDocument() *model.Document {
	return &model.Document{
		Metadata: model.Metadata{Title: "Field Manual"},
		Body: model.Body{
			textPara("Preamble before any heading."),
			heading(1, "Setup"),
			textPara("Install the toolchain first."),
			heading(2, "Configuration"),
			textPara("Edit the config file."),
			listItem("0", "bullet", "set the host"),
			listItem("1", "decimal", "then the port"),
			heading(1, "Usage"),
			textPara("Run the binary."),
			simpleTable([]string{"Flag", "Meaning"}, []string{"-v", "verbose"}),
		},
	}
}

func TestSplitSections(t *testing.T) {
	doc := testDocument()
	sections := splitSections(doc.Body, 3)

	if len(sections) != 4 {
		t.Fatalf("expected 4 sections, got %d", len(sections))
	}

	preamble := sections[0]
	if preamble.title != "" || preamble.level != 0 || len(preamble.parts) != 1 {
		t.Errorf("preamble section = %+v", preamble)
	}

	setup := sections[1]
	if setup.title != "Setup" || setup.level != 1 {
		t.Errorf("setup section = title %q level %d", setup.title, setup.level)
	}
	if len(setup.path) != 1 || setup.path[0] != "Setup" {
		t.Errorf("setup path = %v", setup.path)
	}

	config := sections[2]
	if config.title != "Configuration" {
		t.Errorf("config title = %q", config.title)
	}
	if want := []string{"Setup", "Configuration"}; !equalStrings(config.path, want) {
		t.Errorf("config path = %v, want %v", config.path, want)
	}
	if len(config.parts) != 3 {
		t.Errorf("config section should hold paragraph and two list items, got %d parts", len(config.parts))
	}

	usage := sections[3]
	if want := []string{"Usage"}; !equalStrings(usage.path, want) {
		t.Errorf("sibling level 1 heading should reset the path, got %v", usage.path)
	}
}

func TestSplitSectionsDeepHeadingsStayInline(t *testing.T) {
	body := model.Body{
		heading(1, "Top"),
		textPara("intro"),
		heading(4, "Deep"),
		textPara("detail"),
	}
	sections := splitSections(body, 3)
	if len(sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(sections))
	}
	if len(sections[0].parts) != 3 {
		t.Errorf("deep heading should stay as content, got %d parts", len(sections[0].parts))
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestRenderBlocks(t *testing.T) {
	parts := []model.BodyPart{
		textPara("plain"),
		textPara("   "),
		listItem("0", "bullet", "first"),
		listItem("1", "decimal", "nested"),
		simpleTable([]string{"a", "b"}),
	}
	blocks := renderBlocks(parts, true)
	if len(blocks) != 4 {
		t.Fatalf("expected 4 blocks, got %d", len(blocks))
	}
	if blocks[0].text != "plain" {
		t.Errorf("paragraph block = %q", blocks[0].text)
	}
	if blocks[1].text != "• first" {
		t.Errorf("bullet block = %q", blocks[1].text)
	}
	if blocks[2].text != "  - nested" {
		t.Errorf("nested numbered block = %q", blocks[2].text)
	}
	if blocks[3].text != "a\tb" {
		t.Errorf("table block = %q", blocks[3].text)
	}
	if !blocks[3].atomic {
		t.Error("table block should be atomic")
	}
	if blocks[1].atomic {
		t.Error("list block should not be atomic")
	}
}

func TestSplitBySize(t *testing.T) {
	text := "First sentence here. Second sentence follows. Third one ends it."
	pieces := splitBySize(text, 30)
	if len(pieces) != 3 {
		t.Fatalf("expected 3 pieces, got %d: %v", len(pieces), pieces)
	}
	for _, p := range pieces {
		if len(p) > 30 {
			t.Errorf("piece exceeds limit: %q (%d)", p, len(p))
		}
	}
	if pieces[0] != "First sentence here." {
		t.Errorf("first piece = %q", pieces[0])
	}

	if got := splitBySize("short", 100); len(got) != 1 || got[0] != "short" {
		t.Errorf("text under limit should pass through, got %v", got)
	}

	long := strings.Repeat("word ", 20)
	for _, p := range splitBySize(strings.TrimSpace(long), 20) {
		if len(p) > 20 {
			t.Errorf("word split piece exceeds limit: %q", p)
		}
	}
}

func TestTailWords(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		limit int
		want  string
	}{
		{"empty", "", 10, ""},
		{"zero limit", "some text", 0, ""},
		{"whole text fits", "short", 10, "short"},
		{"last words", "alpha beta gamma delta", 12, "gamma delta"},
		{"nothing fits", "incomprehensibilities", 5, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tailWords(tt.text, tt.limit); got != tt.want {
				t.Errorf("tailWords(%q, %d) = %q, want %q", tt.text, tt.limit, got, tt.want)
			}
		})
	}
}

func TestChunkDocument(t *testing.T) {
	chunker := New()
	result, err := chunker.Chunk(testDocument())
	if err != nil {
		t.Fatalf("Chunk failed: %v", err)
	}
	if result.DocumentTitle != "Field Manual" {
		t.Errorf("document title = %q", result.DocumentTitle)
	}
	if len(result.Chunks) == 0 {
		t.Fatal("no chunks produced")
	}

	var sawTable, sawList bool
	for i, chunk := range result.Chunks {
		if chunk.Metadata.ChunkIndex != i {
			t.Errorf("chunk %d has index %d", i, chunk.Metadata.ChunkIndex)
		}
		if chunk.Metadata.TotalChunks != len(result.Chunks) {
			t.Errorf("chunk %d total = %d, want %d", i, chunk.Metadata.TotalChunks, len(result.Chunks))
		}
		if chunk.Metadata.DocumentTitle != "Field Manual" {
			t.Errorf("chunk %d title = %q", i, chunk.Metadata.DocumentTitle)
		}
		if chunk.ID == "" {
			t.Errorf("chunk %d has no id", i)
		}
		sawTable = sawTable || chunk.Metadata.HasTable
		sawList = sawList || chunk.Metadata.HasList
	}
	if !sawTable {
		t.Error("no chunk reports table content")
	}
	if !sawList {
		t.Error("no chunk reports list content")
	}

	if result.Stats.TotalChunks != len(result.Chunks) {
		t.Errorf("stats chunks = %d", result.Stats.TotalChunks)
	}
	if result.Stats.TotalCharacters == 0 || result.Stats.MaxChunkSize == 0 {
		t.Errorf("stats not populated: %+v", result.Stats)
	}
}

func TestChunkIDsAreDeterministic(t *testing.T) {
	first, err := New().Chunk(testDocument())
	if err != nil {
		t.Fatalf("Chunk failed: %v", err)
	}
	second, err := New().Chunk(testDocument())
	if err != nil {
		t.Fatalf("Chunk failed: %v", err)
	}
	if len(first.Chunks) != len(second.Chunks) {
		t.Fatalf("chunk counts differ: %d vs %d", len(first.Chunks), len(second.Chunks))
	}
	for i := range first.Chunks {
		if first.Chunks[i].ID != second.Chunks[i].ID {
			t.Errorf("chunk %d id differs across runs", i)
		}
	}
	if len(first.Chunks) > 1 && first.Chunks[0].ID == first.Chunks[1].ID {
		t.Error("distinct chunks share an id")
	}
}

func TestChunkContextText(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TargetSize = 40
	cfg.MinSize = 0
	cfg.Overlap = 30
	chunker := NewWithConfig(cfg)

	doc := &model.Document{Body: model.Body{
		heading(1, "Results"),
		textPara("The first batch of measurements came back clean."),
		textPara("The second batch needed recalibration before use."),
	}}
	result, err := chunker.Chunk(doc)
	if err != nil {
		t.Fatalf("Chunk failed: %v", err)
	}
	if len(result.Chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(result.Chunks))
	}

	first := result.Chunks[0]
	if !strings.HasPrefix(first.ContextText, "[Results]") {
		t.Errorf("first context = %q, want section title prefix", first.ContextText)
	}

	second := result.Chunks[1]
	if !strings.Contains(second.ContextText, "came back clean.") {
		t.Errorf("second context should carry overlap from the first chunk: %q", second.ContextText)
	}
	if !strings.HasSuffix(second.ContextText, second.Text) {
		t.Errorf("context should end with the chunk text")
	}
}

func TestChunkSplitsOversizedParagraphs(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TargetSize = 60
	cfg.MaxSize = 80
	cfg.MinSize = 0
	cfg.Overlap = 0
	chunker := NewWithConfig(cfg)

	var sb strings.Builder
	for i := 0; i < 12; i++ {
		sb.WriteString("This sentence pads out an oversized paragraph. ")
	}
	doc := &model.Document{Body: model.Body{textPara(strings.TrimSpace(sb.String()))}}

	result, err := chunker.Chunk(doc)
	if err != nil {
		t.Fatalf("Chunk failed: %v", err)
	}
	if len(result.Chunks) < 2 {
		t.Fatalf("oversized paragraph should split, got %d chunks", len(result.Chunks))
	}
	for i, chunk := range result.Chunks {
		if len(chunk.Text) > cfg.MaxSize {
			t.Errorf("chunk %d exceeds the hard limit: %d bytes", i, len(chunk.Text))
		}
	}
}

func TestChunkKeepsTablesWhole(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TargetSize = 20
	cfg.MaxSize = 40
	cfg.MinSize = 0
	chunker := NewWithConfig(cfg)

	table := simpleTable(
		[]string{"a long first cell", "a long second cell"},
		[]string{"a long third cell", "a long fourth cell"},
	)
	doc := &model.Document{Body: model.Body{table}}

	result, err := chunker.Chunk(doc)
	if err != nil {
		t.Fatalf("Chunk failed: %v", err)
	}
	if len(result.Chunks) != 1 {
		t.Fatalf("atomic table should stay in one chunk, got %d", len(result.Chunks))
	}
	if !result.Chunks[0].Metadata.HasTable {
		t.Error("table flag not set")
	}
}

func TestChunkMergesTrailingFragment(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TargetSize = 60
	cfg.MaxSize = 200
	cfg.MinSize = 50
	cfg.Overlap = 0
	chunker := NewWithConfig(cfg)

	doc := &model.Document{Body: model.Body{
		heading(1, "Notes"),
		textPara("A reasonably sized opening paragraph for this section."),
		textPara("Tiny tail."),
	}}
	result, err := chunker.Chunk(doc)
	if err != nil {
		t.Fatalf("Chunk failed: %v", err)
	}
	if len(result.Chunks) != 1 {
		t.Fatalf("trailing fragment should merge, got %d chunks", len(result.Chunks))
	}
	if !strings.Contains(result.Chunks[0].Text, "Tiny tail.") {
		t.Error("merged text lost the fragment")
	}
}

func TestChunkNilDocument(t *testing.T) {
	if _, err := New().Chunk(nil); err == nil {
		t.Error("expected an error for a nil document")
	}
}

func TestSectionPathString(t *testing.T) {
	chunk := &Chunk{Metadata: Metadata{SectionPath: []string{"Chapter 1", "Overview"}}}
	if got := chunk.SectionPathString(); got != "Chapter 1 > Overview" {
		t.Errorf("SectionPathString() = %q", got)
	}
	if got := (&Chunk{}).SectionPathString(); got != "" {
		t.Errorf("empty path = %q", got)
	}
}
