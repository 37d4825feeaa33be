package model

import "time"

// Metadata contains document-level information from the package's core
// properties part.
type Metadata struct {
	Title          string
	Subject        string
	Creator        string
	Keywords       []string
	Description    string
	LastModifiedBy string
	Revision       string
	Created        time.Time
	Modified       time.Time
}

// Text returns the flattened plain text of the document body.
func (d *Document) Text() string {
	return d.Body.Text()
}

// Tables returns the tables appearing at the top level of the body, in
// document order.
func (d *Document) Tables() []*Table {
	var tables []*Table
	for _, part := range d.Body {
		if t, ok := part.(*Table); ok {
			tables = append(tables, t)
		}
	}
	return tables
}

// OutlineEntry represents one heading in the document outline.
type OutlineEntry struct {
	Level int
	Text  string
}

// Outline returns the document's heading paragraphs as an outline, in
// document order.
func (d *Document) Outline() []OutlineEntry {
	var outline []OutlineEntry
	for _, part := range d.Body {
		p, ok := part.(*Paragraph)
		if !ok {
			continue
		}
		lvl, ok := p.Style.HeadingLevel()
		if !ok {
			continue
		}
		outline = append(outline, OutlineEntry{Level: lvl, Text: p.Text()})
	}
	return outline
}
