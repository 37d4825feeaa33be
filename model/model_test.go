package model

import (
	"strings"
	"testing"
)

func textRun(s string) Run {
	return &TextRun{Elems: []RunElem{&TextElem{Value: s}}}
}

func plainText(s string) ParPart {
	return &PlainRun{Run: textRun(s)}
}

func para(s string) *Paragraph {
	return &Paragraph{Parts: []ParPart{plainText(s)}}
}

func cellOf(s string) Cell {
	return Cell{GridSpan: 1, RowSpan: 1, Parts: []BodyPart{para(s)}}
}

func TestKindStrings(t *testing.T) {
	tests := []struct {
		got  string
		want string
	}{
		{KindParagraph.String(), "Paragraph"},
		{KindTableCaption.String(), "TableCaption"},
		{KindChangedRuns.String(), "ChangedRuns"},
		{KindExternalHyperLink.String(), "ExternalHyperLink"},
		{KindField.String(), "Field"},
		{KindFootnoteRef.String(), "FootnoteRef"},
		{KindInlineDrawing.String(), "InlineDrawing"},
		{KindNoBreakHyphen.String(), "NoBreakHyphen"},
		{Insertion.String(), "Insertion"},
		{Deletion.String(), "Deletion"},
		{FieldHyperlink.String(), "Hyperlink"},
		{BodyPartKind(99).String(), "Unknown"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("String() = %q, want %q", tt.got, tt.want)
		}
	}
}

func TestParagraphText(t *testing.T) {
	p := &Paragraph{Parts: []ParPart{
		&PlainRun{Run: &TextRun{Elems: []RunElem{
			&TextElem{Value: "one"},
			&Tab{},
			&TextElem{Value: "two"},
			&LineBreak{},
			&TextElem{Value: "three"},
		}}},
	}}
	if got, want := p.Text(), "one\ttwo\nthree"; got != want {
		t.Errorf("Text() = %q, want %q", got, want)
	}
}

func TestHyphenElems(t *testing.T) {
	r := &TextRun{Elems: []RunElem{
		&TextElem{Value: "co"},
		&SoftHyphen{},
		&TextElem{Value: "op"},
		&NoBreakHyphen{},
		&TextElem{Value: "x"},
	}}
	if got, want := r.Text(), "co­op‑x"; got != want {
		t.Errorf("Text() = %q, want %q", got, want)
	}
}

func TestChangedRunsText(t *testing.T) {
	ins := &ChangedRuns{
		Change: TrackedChange{Kind: Insertion, Author: "reviewer"},
		Runs:   []Run{textRun("added")},
	}
	if got := ins.Text(); got != "added" {
		t.Errorf("insertion Text() = %q, want %q", got, "added")
	}

	del := &ChangedRuns{
		Change: TrackedChange{Kind: Deletion, Author: "reviewer"},
		Runs:   []Run{textRun("removed")},
	}
	if got := del.Text(); got != "" {
		t.Errorf("deletion Text() = %q, want empty", got)
	}
}

func TestHyperlinkAndFieldText(t *testing.T) {
	link := &ExternalHyperLink{
		URL:      "https://example.com",
		Children: []ParPart{plainText("site")},
	}
	if got := link.Text(); got != "site" {
		t.Errorf("hyperlink Text() = %q, want %q", got, "site")
	}

	field := &Field{
		Info:     FieldInfo{Kind: FieldUnknown, Instruction: "SEQ Table"},
		Children: []ParPart{plainText("1")},
	}
	if got := field.Text(); got != "1" {
		t.Errorf("field Text() = %q, want %q", got, "1")
	}
}

func TestMarkerPartsHaveNoText(t *testing.T) {
	parts := []ParPart{
		&CommentStart{ID: "1", Author: "reviewer", Parts: []BodyPart{para("note")}},
		&CommentEnd{ID: "1"},
		&BookMark{ID: "7", Name: "anchor"},
		&Drawing{Path: "word/media/image1.png", Alt: "a photo"},
	}
	for _, p := range parts {
		if got := p.Text(); got != "" {
			t.Errorf("%s Text() = %q, want empty", p.Kind(), got)
		}
	}
}

func TestPlaceholderText(t *testing.T) {
	if got := (&Chart{}).Text(); got != "[CHART]" {
		t.Errorf("Chart Text() = %q", got)
	}
	if got := (&Diagram{}).Text(); got != "[DIAGRAM]" {
		t.Errorf("Diagram Text() = %q", got)
	}
	if got := (&InlineChart{}).Text(); got != "[CHART]" {
		t.Errorf("InlineChart Text() = %q", got)
	}
}

func TestMathText(t *testing.T) {
	m := &MathInline{Exprs: []MathExpr{
		{Text: "a+b", Markup: "<m:oMath>...</m:oMath>"},
		{Text: "=c"},
	}}
	if got := m.Text(); got != "a+b=c" {
		t.Errorf("Text() = %q, want %q", got, "a+b=c")
	}
}

func TestBodyText(t *testing.T) {
	body := Body{para("first"), para("second")}
	if got, want := body.Text(), "first\n\nsecond"; got != want {
		t.Errorf("Text() = %q, want %q", got, want)
	}
}

func TestTableText(t *testing.T) {
	table := &Table{
		Rows: []Row{
			{Cells: []Cell{cellOf("a"), cellOf("b")}},
			{Cells: []Cell{cellOf("c"), cellOf("d")}},
		},
	}
	if got, want := table.Text(), "a\tb\nc\td\n"; got != want {
		t.Errorf("Text() = %q, want %q", got, want)
	}
}

func TestTableToMarkdown(t *testing.T) {
	table := &Table{
		Rows: []Row{
			{Header: true, Cells: []Cell{cellOf("Name"), cellOf("Age")}},
			{Cells: []Cell{cellOf("Alice"), cellOf("30")}},
		},
	}
	md := table.ToMarkdown()
	lines := strings.Split(strings.TrimRight(md, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), md)
	}
	if lines[0] != "| Name | Age |" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "|---|---|" {
		t.Errorf("separator = %q", lines[1])
	}
	if lines[2] != "| Alice | 30 |" {
		t.Errorf("data row = %q", lines[2])
	}
}

func TestTableToCSV(t *testing.T) {
	table := &Table{
		Rows: []Row{
			{Cells: []Cell{cellOf("plain"), cellOf(`say "hi"`), cellOf("a,b")}},
		},
	}
	if got, want := table.ToCSV(), "plain,\"say \"\"hi\"\"\",\"a,b\"\n"; got != want {
		t.Errorf("ToCSV() = %q, want %q", got, want)
	}
}

func TestTableColCount(t *testing.T) {
	withGrid := &Table{Grid: []int{2000, 3000, 2000}}
	if got := withGrid.ColCount(); got != 3 {
		t.Errorf("ColCount() = %d, want 3", got)
	}

	noGrid := &Table{Rows: []Row{
		{Cells: []Cell{{GridSpan: 2, RowSpan: 1}, {GridSpan: 1, RowSpan: 1}}},
	}}
	if got := noGrid.ColCount(); got != 3 {
		t.Errorf("ColCount() without grid = %d, want 3", got)
	}

	if got := (&Table{}).ColCount(); got != 0 {
		t.Errorf("empty ColCount() = %d, want 0", got)
	}
}

func TestDocumentTables(t *testing.T) {
	tbl := &Table{Rows: []Row{{Cells: []Cell{cellOf("x")}}}}
	doc := &Document{Body: Body{para("intro"), tbl, para("outro")}}
	tables := doc.Tables()
	if len(tables) != 1 || tables[0] != tbl {
		t.Errorf("Tables() = %v", tables)
	}
}

func TestDocumentOutline(t *testing.T) {
	one := 1
	two := 2
	h1 := &ParStyle{ID: "Heading1", Name: "heading 1", HeadingLevel: &one}
	h2 := &ParStyle{ID: "Heading2", Name: "heading 2", HeadingLevel: &two}

	doc := &Document{Body: Body{
		&Paragraph{Style: ParagraphStyle{Styles: []*ParStyle{h1}}, Parts: []ParPart{plainText("Intro")}},
		para("plain prose"),
		&Paragraph{Style: ParagraphStyle{Styles: []*ParStyle{h2}}, Parts: []ParPart{plainText("Details")}},
	}}

	outline := doc.Outline()
	if len(outline) != 2 {
		t.Fatalf("got %d entries, want 2", len(outline))
	}
	if outline[0].Level != 1 || outline[0].Text != "Intro" {
		t.Errorf("entry 0 = %+v", outline[0])
	}
	if outline[1].Level != 2 || outline[1].Text != "Details" {
		t.Errorf("entry 1 = %+v", outline[1])
	}
}

func TestExtentPoints(t *testing.T) {
	e := Extent{CX: 914400, CY: 457200}
	w, h := e.Points()
	if w != 72 || h != 36 {
		t.Errorf("Points() = %v, %v, want 72, 36", w, h)
	}
}
