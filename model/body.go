package model

import "strings"

// Document is the root of a parsed document tree.
type Document struct {
	// Namespaces maps the prefixes declared on the main part's root
	// element to namespace URIs.
	Namespaces map[string]string
	// Metadata holds the package's core properties when present.
	Metadata Metadata
	Body     Body
}

// Body is the ordered content of the main document part.
type Body []BodyPart

// Text flattens the body to plain text, separating paragraph-level
// nodes with blank lines.
func (b Body) Text() string {
	return bodyPartsText(b, "\n\n")
}

func bodyPartsText(parts []BodyPart, sep string) string {
	texts := make([]string, 0, len(parts))
	for _, p := range parts {
		texts = append(texts, p.Text())
	}
	return strings.Join(texts, sep)
}

// BodyPartKind identifies the concrete type behind a BodyPart.
type BodyPartKind int

const (
	KindParagraph BodyPartKind = iota
	KindListItem
	KindTable
	KindTableCaption
)

func (k BodyPartKind) String() string {
	switch k {
	case KindParagraph:
		return "Paragraph"
	case KindListItem:
		return "ListItem"
	case KindTable:
		return "Table"
	case KindTableCaption:
		return "TableCaption"
	default:
		return "Unknown"
	}
}

// BodyPart is a paragraph-level node of the document body.
type BodyPart interface {
	Kind() BodyPartKind
	Text() string
}

// Paragraph is an ordinary paragraph.
type Paragraph struct {
	Style ParagraphStyle
	Parts []ParPart
}

func (p *Paragraph) Kind() BodyPartKind { return KindParagraph }
func (p *Paragraph) Text() string       { return parPartsText(p.Parts) }

// ListItem is a paragraph that participates in a numbering definition.
type ListItem struct {
	Style ParagraphStyle
	// NumID and Ilvl are the numbering reference as written in the
	// paragraph properties.
	NumID string
	Ilvl  string
	// LevelDef is the resolved numbering level, when the document's
	// numbering part defines one for NumID and Ilvl.
	LevelDef *Level
	Parts    []ParPart
}

func (l *ListItem) Kind() BodyPartKind { return KindListItem }
func (l *ListItem) Text() string       { return parPartsText(l.Parts) }

// TableCaption is a caption paragraph that annotates a nearby table.
type TableCaption struct {
	Style ParagraphStyle
	Parts []ParPart
}

func (c *TableCaption) Kind() BodyPartKind { return KindTableCaption }
func (c *TableCaption) Text() string       { return parPartsText(c.Parts) }

// ParagraphStyle carries the direct formatting of a paragraph.
type ParagraphStyle struct {
	// Styles holds the referenced paragraph styles, most specific first.
	Styles  []*ParStyle
	Indent  *Indentation
	DropCap bool
	BiDi    bool
	// Change is set when the paragraph mark itself is part of a tracked
	// insertion or deletion.
	Change *TrackedChange
}

// Indentation is a paragraph indentation in twentieths of a point.
// Nil fields were not written in the source.
type Indentation struct {
	Left      *int
	Right     *int
	Hanging   *int
	FirstLine *int
}
