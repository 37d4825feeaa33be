package model

import "strings"

// ParPartKind identifies the concrete type behind a ParPart.
type ParPartKind int

const (
	KindPlainRun ParPartKind = iota
	KindChangedRuns
	KindCommentStart
	KindCommentEnd
	KindBookMark
	KindInternalHyperLink
	KindExternalHyperLink
	KindDrawing
	KindChart
	KindDiagram
	KindMathInline
	KindMathBlock
	KindField
)

func (k ParPartKind) String() string {
	switch k {
	case KindPlainRun:
		return "PlainRun"
	case KindChangedRuns:
		return "ChangedRuns"
	case KindCommentStart:
		return "CommentStart"
	case KindCommentEnd:
		return "CommentEnd"
	case KindBookMark:
		return "BookMark"
	case KindInternalHyperLink:
		return "InternalHyperLink"
	case KindExternalHyperLink:
		return "ExternalHyperLink"
	case KindDrawing:
		return "Drawing"
	case KindChart:
		return "Chart"
	case KindDiagram:
		return "Diagram"
	case KindMathInline:
		return "MathInline"
	case KindMathBlock:
		return "MathBlock"
	case KindField:
		return "Field"
	default:
		return "Unknown"
	}
}

// ParPart is one part of a paragraph's content.
type ParPart interface {
	Kind() ParPartKind
	Text() string
}

// PlainRun is run content outside any tracked change.
type PlainRun struct {
	Run Run
}

func (p *PlainRun) Kind() ParPartKind { return KindPlainRun }
func (p *PlainRun) Text() string      { return p.Run.Text() }

// ChangedRuns is run content inside a tracked insertion or deletion.
type ChangedRuns struct {
	Change TrackedChange
	Runs   []Run
}

func (c *ChangedRuns) Kind() ParPartKind { return KindChangedRuns }

// Text returns the inserted text and hides deleted text, matching the
// accepted-changes reading of the document.
func (c *ChangedRuns) Text() string {
	if c.Change.Kind == Deletion {
		return ""
	}
	var sb strings.Builder
	for _, r := range c.Runs {
		sb.WriteString(r.Text())
	}
	return sb.String()
}

// CommentStart opens a commented range and carries the comment body.
type CommentStart struct {
	ID       string
	Author   string
	Initials string
	Date     string
	Parts    []BodyPart
}

func (c *CommentStart) Kind() ParPartKind { return KindCommentStart }
func (c *CommentStart) Text() string      { return "" }

// CommentEnd closes the commented range with the matching ID.
type CommentEnd struct {
	ID string
}

func (c *CommentEnd) Kind() ParPartKind { return KindCommentEnd }
func (c *CommentEnd) Text() string      { return "" }

// BookMark marks a named anchor point.
type BookMark struct {
	ID   string
	Name string
}

func (b *BookMark) Kind() ParPartKind { return KindBookMark }
func (b *BookMark) Text() string      { return "" }

// InternalHyperLink links to a bookmark anchor within the document.
type InternalHyperLink struct {
	Anchor   string
	Children []ParPart
}

func (h *InternalHyperLink) Kind() ParPartKind { return KindInternalHyperLink }
func (h *InternalHyperLink) Text() string      { return parPartsText(h.Children) }

// ExternalHyperLink links to a target outside the document.
type ExternalHyperLink struct {
	URL      string
	Children []ParPart
}

func (h *ExternalHyperLink) Kind() ParPartKind { return KindExternalHyperLink }
func (h *ExternalHyperLink) Text() string      { return parPartsText(h.Children) }

// Drawing is an embedded image anchored at paragraph level.
type Drawing struct {
	// Path is the package path of the image part, when resolved.
	Path  string
	Title string
	Alt   string
	Data  []byte
	// Extent is the display size, when the drawing declares one.
	Extent *Extent
}

func (d *Drawing) Kind() ParPartKind { return KindDrawing }
func (d *Drawing) Text() string      { return "" }

// Chart is a placeholder for an embedded chart.
type Chart struct{}

func (c *Chart) Kind() ParPartKind { return KindChart }
func (c *Chart) Text() string      { return "[CHART]" }

// Diagram is a placeholder for an embedded diagram.
type Diagram struct{}

func (d *Diagram) Kind() ParPartKind { return KindDiagram }
func (d *Diagram) Text() string      { return "[DIAGRAM]" }

// MathInline is inline mathematics.
type MathInline struct {
	Exprs []MathExpr
}

func (m *MathInline) Kind() ParPartKind { return KindMathInline }
func (m *MathInline) Text() string      { return mathText(m.Exprs) }

// MathBlock is display mathematics occupying its own paragraph.
type MathBlock struct {
	Exprs []MathExpr
}

func (m *MathBlock) Kind() ParPartKind { return KindMathBlock }
func (m *MathBlock) Text() string      { return mathText(m.Exprs) }

// MathExpr is one math expression, kept both as flattened text and as
// the original markup of the math element.
type MathExpr struct {
	Text   string
	Markup string
}

// Extent is a drawing's declared display size in EMUs.
type Extent struct {
	CX int64
	CY int64
}

// Points converts the extent to printer's points.
func (e Extent) Points() (w, h float64) {
	const emuPerPoint = 12700
	return float64(e.CX) / emuPerPoint, float64(e.CY) / emuPerPoint
}

func parPartsText(parts []ParPart) string {
	var sb strings.Builder
	for _, p := range parts {
		sb.WriteString(p.Text())
	}
	return sb.String()
}

func mathText(exprs []MathExpr) string {
	var sb strings.Builder
	for _, e := range exprs {
		sb.WriteString(e.Text)
	}
	return sb.String()
}
