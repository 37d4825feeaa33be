package model

import "strings"

// RunKind identifies the concrete type behind a Run.
type RunKind int

const (
	KindTextRun RunKind = iota
	KindFootnoteRef
	KindEndnoteRef
	KindInlineDrawing
	KindInlineChart
	KindInlineDiagram
)

func (k RunKind) String() string {
	switch k {
	case KindTextRun:
		return "TextRun"
	case KindFootnoteRef:
		return "FootnoteRef"
	case KindEndnoteRef:
		return "EndnoteRef"
	case KindInlineDrawing:
		return "InlineDrawing"
	case KindInlineChart:
		return "InlineChart"
	case KindInlineDiagram:
		return "InlineDiagram"
	default:
		return "Unknown"
	}
}

// Run is one run-level node of a paragraph.
type Run interface {
	Kind() RunKind
	Text() string
}

// TextRun is a styled sequence of run elements.
type TextRun struct {
	Style RunStyle
	Elems []RunElem
}

func (r *TextRun) Kind() RunKind { return KindTextRun }

func (r *TextRun) Text() string {
	var sb strings.Builder
	for _, e := range r.Elems {
		sb.WriteString(e.Text())
	}
	return sb.String()
}

// FootnoteRef is a footnote reference carrying the note's body.
type FootnoteRef struct {
	ID    string
	Parts []BodyPart
}

func (f *FootnoteRef) Kind() RunKind { return KindFootnoteRef }
func (f *FootnoteRef) Text() string  { return "" }

// EndnoteRef is an endnote reference carrying the note's body.
type EndnoteRef struct {
	ID    string
	Parts []BodyPart
}

func (e *EndnoteRef) Kind() RunKind { return KindEndnoteRef }
func (e *EndnoteRef) Text() string  { return "" }

// InlineDrawing is an image embedded in run content.
type InlineDrawing struct {
	Path   string
	Title  string
	Alt    string
	Data   []byte
	Extent *Extent
}

func (d *InlineDrawing) Kind() RunKind { return KindInlineDrawing }
func (d *InlineDrawing) Text() string  { return "" }

// InlineChart is a placeholder for a chart embedded in run content.
type InlineChart struct{}

func (c *InlineChart) Kind() RunKind { return KindInlineChart }
func (c *InlineChart) Text() string  { return "[CHART]" }

// InlineDiagram is a placeholder for a diagram embedded in run content.
type InlineDiagram struct{}

func (d *InlineDiagram) Kind() RunKind { return KindInlineDiagram }
func (d *InlineDiagram) Text() string  { return "[DIAGRAM]" }

// VertAlign is a run's vertical alignment.
type VertAlign int

const (
	VertAlignUnset VertAlign = iota
	VertAlignBaseline
	VertAlignSuperscript
	VertAlignSubscript
)

func (v VertAlign) String() string {
	switch v {
	case VertAlignBaseline:
		return "baseline"
	case VertAlignSuperscript:
		return "superscript"
	case VertAlignSubscript:
		return "subscript"
	default:
		return "unset"
	}
}

// RunStyle is the direct formatting of a run. Toggle properties use
// *bool so an explicit "off" in the source stays distinct from an
// absent property; absent properties inherit through Style.
type RunStyle struct {
	Bold      *bool
	Italic    *bool
	SmallCaps *bool
	Strike    *bool
	RTL       *bool
	VertAlign VertAlign
	// Underline is the underline pattern value, empty when absent.
	Underline string
	// Style is the referenced character style, if any.
	Style *CharStyle
}

// RunElemKind identifies the concrete type behind a RunElem.
type RunElemKind int

const (
	KindTextElem RunElemKind = iota
	KindLineBreak
	KindTab
	KindSoftHyphen
	KindNoBreakHyphen
)

func (k RunElemKind) String() string {
	switch k {
	case KindTextElem:
		return "TextElem"
	case KindLineBreak:
		return "LineBreak"
	case KindTab:
		return "Tab"
	case KindSoftHyphen:
		return "SoftHyphen"
	case KindNoBreakHyphen:
		return "NoBreakHyphen"
	default:
		return "Unknown"
	}
}

// RunElem is one atom of a text run.
type RunElem interface {
	Kind() RunElemKind
	Text() string
}

// TextElem is literal text.
type TextElem struct {
	Value string
}

func (t *TextElem) Kind() RunElemKind { return KindTextElem }
func (t *TextElem) Text() string      { return t.Value }

// LineBreak is an explicit line break within a paragraph.
type LineBreak struct{}

func (b *LineBreak) Kind() RunElemKind { return KindLineBreak }
func (b *LineBreak) Text() string      { return "\n" }

// Tab is a tab stop.
type Tab struct{}

func (t *Tab) Kind() RunElemKind { return KindTab }
func (t *Tab) Text() string      { return "\t" }

// SoftHyphen is an optional hyphenation point, U+00AD in text output.
type SoftHyphen struct{}

func (s *SoftHyphen) Kind() RunElemKind { return KindSoftHyphen }
func (s *SoftHyphen) Text() string      { return "­" }

// NoBreakHyphen is a non-breaking hyphen, U+2011 in text output.
type NoBreakHyphen struct{}

func (n *NoBreakHyphen) Kind() RunElemKind { return KindNoBreakHyphen }
func (n *NoBreakHyphen) Text() string      { return "‑" }
