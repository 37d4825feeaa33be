package main

import (
	"time"

	"github.com/docquill/quill/model"
)

// jsonNode is one node of the dump output. Every body node carries a
// "type" key naming the concrete model type behind it.
type jsonNode = map[string]any

// renderDocument converts a parsed document tree into plain maps for
// JSON encoding. Image bytes are included only when withData is set;
// otherwise drawings report their size under "data_size".
func renderDocument(doc *model.Document, withData bool) jsonNode {
	r := renderer{withData: withData}
	node := jsonNode{"body": r.bodyParts(doc.Body)}
	if meta := renderMetadata(doc.Metadata); len(meta) > 0 {
		node["metadata"] = meta
	}
	return node
}

type renderer struct {
	withData bool
}

func (r renderer) bodyParts(parts []model.BodyPart) []jsonNode {
	nodes := make([]jsonNode, 0, len(parts))
	for _, p := range parts {
		nodes = append(nodes, r.bodyPart(p))
	}
	return nodes
}

func (r renderer) bodyPart(part model.BodyPart) jsonNode {
	node := jsonNode{"type": part.Kind().String()}
	switch p := part.(type) {
	case *model.Paragraph:
		r.paragraphStyle(node, p.Style)
		node["parts"] = r.parParts(p.Parts)
	case *model.ListItem:
		r.paragraphStyle(node, p.Style)
		node["num_id"] = p.NumID
		node["ilvl"] = p.Ilvl
		if p.LevelDef != nil {
			node["level"] = renderLevel(p.LevelDef)
		}
		node["parts"] = r.parParts(p.Parts)
	case *model.TableCaption:
		r.paragraphStyle(node, p.Style)
		node["parts"] = r.parParts(p.Parts)
	case *model.Table:
		if p.Caption != "" {
			node["caption"] = p.Caption
		}
		node["columns"] = p.ColCount()
		rows := make([]jsonNode, 0, len(p.Rows))
		for _, row := range p.Rows {
			rnode := jsonNode{"cells": r.cells(row.Cells)}
			if row.Header {
				rnode["header"] = true
			}
			rows = append(rows, rnode)
		}
		node["rows"] = rows
	}
	return node
}

func (r renderer) cells(cells []model.Cell) []jsonNode {
	nodes := make([]jsonNode, 0, len(cells))
	for _, c := range cells {
		node := jsonNode{"parts": r.bodyParts(c.Parts)}
		if c.GridSpan > 1 {
			node["grid_span"] = c.GridSpan
		}
		if c.RowSpan > 1 {
			node["row_span"] = c.RowSpan
		}
		nodes = append(nodes, node)
	}
	return nodes
}

func (r renderer) paragraphStyle(node jsonNode, ps model.ParagraphStyle) {
	if names := ps.StyleNames(); len(names) > 0 {
		node["styles"] = names
	}
	if lvl, ok := ps.HeadingLevel(); ok {
		node["heading_level"] = lvl
	}
	if ps.DropCap {
		node["drop_cap"] = true
	}
	if ps.BiDi {
		node["bidi"] = true
	}
	if ps.Change != nil {
		node["change"] = renderChange(*ps.Change)
	}
}

func (r renderer) parParts(parts []model.ParPart) []jsonNode {
	nodes := make([]jsonNode, 0, len(parts))
	for _, p := range parts {
		nodes = append(nodes, r.parPart(p))
	}
	return nodes
}

func (r renderer) parPart(part model.ParPart) jsonNode {
	switch p := part.(type) {
	case *model.PlainRun:
		return r.run(p.Run)
	case *model.ChangedRuns:
		runs := make([]jsonNode, 0, len(p.Runs))
		for _, run := range p.Runs {
			runs = append(runs, r.run(run))
		}
		return jsonNode{"type": "ChangedRuns", "change": renderChange(p.Change), "runs": runs}
	case *model.CommentStart:
		node := jsonNode{"type": "CommentStart", "id": p.ID}
		if p.Author != "" {
			node["author"] = p.Author
		}
		if p.Initials != "" {
			node["initials"] = p.Initials
		}
		if p.Date != "" {
			node["date"] = p.Date
		}
		node["body"] = r.bodyParts(p.Parts)
		return node
	case *model.CommentEnd:
		return jsonNode{"type": "CommentEnd", "id": p.ID}
	case *model.BookMark:
		return jsonNode{"type": "BookMark", "id": p.ID, "name": p.Name}
	case *model.InternalHyperLink:
		return jsonNode{"type": "InternalHyperLink", "anchor": p.Anchor, "children": r.parParts(p.Children)}
	case *model.ExternalHyperLink:
		return jsonNode{"type": "ExternalHyperLink", "url": p.URL, "children": r.parParts(p.Children)}
	case *model.Drawing:
		return r.drawing("Drawing", p.Path, p.Title, p.Alt, p.Data, p.Extent)
	case *model.MathInline:
		return jsonNode{"type": "MathInline", "exprs": renderMathExprs(p.Exprs)}
	case *model.MathBlock:
		return jsonNode{"type": "MathBlock", "exprs": renderMathExprs(p.Exprs)}
	case *model.Field:
		node := jsonNode{"type": "Field", "instruction": p.Info.Instruction}
		if p.Info.Kind != model.FieldUnknown {
			node["kind"] = p.Info.Kind.String()
		}
		if p.Info.Name != "" {
			node["name"] = p.Info.Name
		}
		if p.Info.Target != "" {
			node["target"] = p.Info.Target
		}
		if p.Info.Anchor {
			node["anchor"] = true
		}
		node["children"] = r.parParts(p.Children)
		return node
	default:
		// Chart and Diagram placeholders carry no fields.
		return jsonNode{"type": part.Kind().String()}
	}
}

func (r renderer) run(run model.Run) jsonNode {
	switch rn := run.(type) {
	case *model.TextRun:
		node := jsonNode{"type": "TextRun", "text": rn.Text()}
		if sty := renderRunStyle(rn.Style); len(sty) > 0 {
			node["style"] = sty
		}
		return node
	case *model.FootnoteRef:
		return jsonNode{"type": "FootnoteRef", "id": rn.ID, "body": r.bodyParts(rn.Parts)}
	case *model.EndnoteRef:
		return jsonNode{"type": "EndnoteRef", "id": rn.ID, "body": r.bodyParts(rn.Parts)}
	case *model.InlineDrawing:
		return r.drawing("InlineDrawing", rn.Path, rn.Title, rn.Alt, rn.Data, rn.Extent)
	default:
		return jsonNode{"type": run.Kind().String()}
	}
}

func (r renderer) drawing(typ, path, title, alt string, data []byte, extent *model.Extent) jsonNode {
	node := jsonNode{"type": typ}
	if path != "" {
		node["path"] = path
	}
	if title != "" {
		node["title"] = title
	}
	if alt != "" {
		node["alt"] = alt
	}
	if extent != nil {
		node["extent"] = jsonNode{"cx": extent.CX, "cy": extent.CY}
	}
	if r.withData {
		node["data"] = data
	} else if len(data) > 0 {
		node["data_size"] = len(data)
	}
	return node
}

func renderChange(ch model.TrackedChange) jsonNode {
	node := jsonNode{"kind": ch.Kind.String()}
	if ch.ID != "" {
		node["id"] = ch.ID
	}
	if ch.Author != "" {
		node["author"] = ch.Author
	}
	if ch.Date != "" {
		node["date"] = ch.Date
	}
	return node
}

func renderRunStyle(sty model.RunStyle) jsonNode {
	node := jsonNode{}
	setToggle := func(key string, v *bool) {
		if v != nil {
			node[key] = *v
		}
	}
	setToggle("bold", sty.Bold)
	setToggle("italic", sty.Italic)
	setToggle("small_caps", sty.SmallCaps)
	setToggle("strike", sty.Strike)
	setToggle("rtl", sty.RTL)
	if sty.VertAlign != model.VertAlignUnset {
		node["vert_align"] = sty.VertAlign.String()
	}
	if sty.Underline != "" {
		node["underline"] = sty.Underline
	}
	if sty.Style != nil && sty.Style.Name != "" {
		node["char_style"] = sty.Style.Name
	}
	return node
}

func renderMathExprs(exprs []model.MathExpr) []jsonNode {
	nodes := make([]jsonNode, 0, len(exprs))
	for _, e := range exprs {
		node := jsonNode{"text": e.Text}
		if e.Markup != "" {
			node["markup"] = e.Markup
		}
		nodes = append(nodes, node)
	}
	return nodes
}

func renderLevel(l *model.Level) jsonNode {
	node := jsonNode{"format": l.Format}
	if l.Template != "" {
		node["template"] = l.Template
	}
	if l.Start != nil {
		node["start"] = *l.Start
	}
	return node
}

func renderMetadata(meta model.Metadata) jsonNode {
	node := jsonNode{}
	set := func(key, v string) {
		if v != "" {
			node[key] = v
		}
	}
	set("title", meta.Title)
	set("subject", meta.Subject)
	set("creator", meta.Creator)
	if len(meta.Keywords) > 0 {
		node["keywords"] = meta.Keywords
	}
	set("description", meta.Description)
	set("last_modified_by", meta.LastModifiedBy)
	set("revision", meta.Revision)
	if !meta.Created.IsZero() {
		node["created"] = meta.Created.Format(time.RFC3339)
	}
	if !meta.Modified.IsZero() {
		node["modified"] = meta.Modified.Format(time.RFC3339)
	}
	return node
}
