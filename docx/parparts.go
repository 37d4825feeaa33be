package docx

import (
	"errors"
	"strings"

	"github.com/antchfx/xmlquery"

	"github.com/docquill/quill/model"
	"github.com/docquill/quill/xmldom"
)

// parPartsOf parses the children of a paragraph-level container in
// order. A child no recognizer accepts is dropped with one warning;
// its siblings still parse. Content claimed by an open field stays on
// the field stack until the field closes or the paragraph ends.
func (env *readerEnv) parPartsOf(st *parseState, el *xmlquery.Node) []model.ParPart {
	var parts []model.ParPart
	for _, child := range xmldom.Elements(el) {
		out, err := env.parPart(st, child)
		if err != nil {
			if errors.Is(err, errUnrecognized) {
				st.warnf("dropped unrecognized element %s", qualName(child))
			} else {
				st.warnf("dropped element %s: %v", qualName(child), err)
			}
			continue
		}
		parts = append(parts, out...)
	}
	return parts
}

// parPart routes one paragraph child. Field markers always reach the
// state machine, even while a field is collecting content; everything
// else is either captured by the innermost open field or returned to
// the caller.
func (env *readerEnv) parPart(st *parseState, el *xmlquery.Node) ([]model.ParPart, error) {
	if typ := env.fieldMarkerType(el); typ != "" {
		return st.applyFieldMarker(typ)
	}
	if instr, ok := env.instrTextOf(el); ok {
		if err := st.applyInstrText(instr); err != nil {
			return nil, err
		}
		return nil, nil
	}

	if st.capturing() {
		// Clear the stack while parsing so the element's own descendants
		// cannot leak into the field frame, then capture the result.
		saved := st.fields
		st.fields = nil
		parts, err := env.parPartPlain(st, el)
		st.fields = saved
		if err == nil {
			st.capture(parts)
		}
		return nil, nil
	}

	return env.parPartPlain(st, el)
}

// parPartPlain is the ordered recognizer chain for paragraph children.
func (env *readerEnv) parPartPlain(st *parseState, el *xmlquery.Node) ([]model.ParPart, error) {
	switch {
	case env.ns.Is(el, nsW, "r"):
		return env.runParPart(st, el)
	case env.ns.Is(el, nsW, "ins"), env.ns.Is(el, nsW, "moveTo"):
		return env.changedParPart(st, el, model.Insertion)
	case env.ns.Is(el, nsW, "del"), env.ns.Is(el, nsW, "moveFrom"):
		return env.changedParPart(st, el, model.Deletion)
	case env.ns.Is(el, nsW, "smartTag"), env.ns.Is(el, nsW, "sdt"):
		return env.transparentParParts(st, el)
	case env.ns.Is(el, nsW, "bookmarkStart"):
		return env.bookmarkParPart(el)
	case env.ns.Is(el, nsW, "hyperlink"):
		return env.hyperlinkParPart(st, el)
	case env.ns.Is(el, nsW, "commentRangeStart"):
		return env.commentStartParPart(st, el)
	case env.ns.Is(el, nsW, "commentRangeEnd"):
		return env.commentEndParPart(el)
	case env.ns.Is(el, nsM, "oMath"):
		return []model.ParPart{&model.MathInline{Exprs: []model.MathExpr{env.mathExpr(el)}}}, nil
	case env.ns.Is(el, nsW, "fldSimple"):
		return env.simpleFieldParPart(st, el)
	case ignorableParPart(env.ns, el):
		return nil, nil
	}
	return nil, errUnrecognized
}

// fieldMarkerType returns the fldCharType of a field marker run, or "".
func (env *readerEnv) fieldMarkerType(el *xmlquery.Node) string {
	if !env.ns.Is(el, nsW, "r") {
		return ""
	}
	fldChar := env.ns.Child(el, nsW, "fldChar")
	if fldChar == nil {
		return ""
	}
	typ, _ := env.ns.Attr(fldChar, nsW, "fldCharType")
	return typ
}

// instrTextOf returns the instruction text of a w:instrText run.
func (env *readerEnv) instrTextOf(el *xmlquery.Node) (string, bool) {
	if !env.ns.Is(el, nsW, "r") {
		return "", false
	}
	instr := env.ns.Child(el, nsW, "instrText")
	if instr == nil {
		return "", false
	}
	return xmldom.Text(instr), true
}

// runParPart parses a top level w:r. Drawings and legacy pictures
// surface as paragraph level parts; every other run is wrapped.
func (env *readerEnv) runParPart(st *parseState, el *xmlquery.Node) ([]model.ParPart, error) {
	if drawing := env.ns.Child(el, nsW, "drawing"); drawing != nil {
		class, pic, err := env.classifyDrawing(drawing)
		switch {
		case err != nil:
			return nil, err
		case class == drawingPicture:
			return []model.ParPart{&model.Drawing{
				Path:   pic.Path,
				Title:  pic.Title,
				Alt:    pic.Alt,
				Data:   pic.Data,
				Extent: pic.Extent,
			}}, nil
		case class == drawingChart:
			return []model.ParPart{&model.Chart{}}, nil
		case class == drawingDiagram:
			return []model.ParPart{&model.Diagram{}}, nil
		}
	}
	if pict := env.pictChild(el); pict != nil {
		relID, ok := env.pictRelID(pict)
		if !ok {
			return nil, errUnrecognized
		}
		path, data, err := env.expandDrawing(relID)
		if err != nil {
			return nil, err
		}
		return []model.ParPart{&model.Drawing{Path: path, Data: data}}, nil
	}
	run, err := env.runOf(st, el)
	if err != nil {
		return nil, err
	}
	return []model.ParPart{&model.PlainRun{Run: run}}, nil
}

// changedParPart parses a tracked insertion or deletion. The change
// must carry an id and author; its runs parse best effort.
func (env *readerEnv) changedParPart(st *parseState, el *xmlquery.Node, kind model.ChangeKind) ([]model.ParPart, error) {
	change, ok := env.trackedChangeOf(el, kind)
	if !ok {
		return nil, errUnrecognized
	}
	return []model.ParPart{&model.ChangedRuns{
		Change: change,
		Runs:   env.runsOf(st, el),
	}}, nil
}

// trackedChangeOf reads the identity of a tracked change. The id and
// author are required, the date is optional.
func (env *readerEnv) trackedChangeOf(el *xmlquery.Node, kind model.ChangeKind) (model.TrackedChange, bool) {
	id, okID := env.ns.Attr(el, nsW, "id")
	author, okAuthor := env.ns.Attr(el, nsW, "author")
	if !okID || !okAuthor {
		return model.TrackedChange{}, false
	}
	date, _ := env.ns.Attr(el, nsW, "date")
	return model.TrackedChange{Kind: kind, ID: id, Author: author, Date: date}, true
}

// transparentParParts unwraps containers whose children are ordinary
// paragraph parts: smart tags and structured document tags.
func (env *readerEnv) transparentParParts(st *parseState, el *xmlquery.Node) ([]model.ParPart, error) {
	inner := el
	if env.ns.Is(el, nsW, "sdt") {
		inner = env.ns.Child(el, nsW, "sdtContent")
		if inner == nil {
			return nil, errUnrecognized
		}
	}
	return env.parPartsOf(st, inner), nil
}

func (env *readerEnv) bookmarkParPart(el *xmlquery.Node) ([]model.ParPart, error) {
	id, okID := env.ns.Attr(el, nsW, "id")
	name, okName := env.ns.Attr(el, nsW, "name")
	if !okID || !okName {
		return nil, errUnrecognized
	}
	return []model.ParPart{&model.BookMark{ID: id, Name: name}}, nil
}

// hyperlinkParPart parses w:hyperlink. A relationship id makes the
// link external, resolved through the current part's relationships; a
// bare anchor attribute links inside the document. The anchor suffix
// is appended only when the relationship resolves, so a dangling id
// yields an empty URL.
func (env *readerEnv) hyperlinkParPart(st *parseState, el *xmlquery.Node) ([]model.ParPart, error) {
	children := env.childRunParts(st, el)
	if relID, ok := env.ns.Attr(el, nsR, "id"); ok {
		url := ""
		if target, found := env.rels.lookup(env.location, relID); found {
			url = target.target
			if anchor, hasAnchor := env.ns.Attr(el, nsW, "anchor"); hasAnchor {
				url += "#" + anchor
			}
		}
		return []model.ParPart{&model.ExternalHyperLink{URL: url, Children: children}}, nil
	}
	if anchor, ok := env.ns.Attr(el, nsW, "anchor"); ok {
		return []model.ParPart{&model.InternalHyperLink{Anchor: anchor, Children: children}}, nil
	}
	return nil, errUnrecognized
}

// childRunParts parses the run children of an inline container and
// wraps them as paragraph parts.
func (env *readerEnv) childRunParts(st *parseState, el *xmlquery.Node) []model.ParPart {
	var parts []model.ParPart
	for _, run := range env.runsOf(st, el) {
		parts = append(parts, &model.PlainRun{Run: run})
	}
	return parts
}

// commentStartParPart opens a comment range. The comment body is
// parsed at the reference point from the comments part; an unknown id
// keeps the marker with empty content.
func (env *readerEnv) commentStartParPart(st *parseState, el *xmlquery.Node) ([]model.ParPart, error) {
	id, ok := env.ns.Attr(el, nsW, "id")
	if !ok {
		return nil, errUnrecognized
	}
	start := &model.CommentStart{ID: id}
	if cmt := env.comments.lookup(id); cmt != nil {
		cns := env.comments.ns
		start.Author, _ = cns.Attr(cmt, nsW, "author")
		start.Initials, _ = cns.Attr(cmt, nsW, "initials")
		start.Date, _ = cns.Attr(cmt, nsW, "date")
		cmtEnv := env.inPart(cns, env.location)
		start.Parts = cmtEnv.bodyPartsOf(st, xmldom.Elements(cmt))
	}
	return []model.ParPart{start}, nil
}

func (env *readerEnv) commentEndParPart(el *xmlquery.Node) ([]model.ParPart, error) {
	id, ok := env.ns.Attr(el, nsW, "id")
	if !ok {
		return nil, errUnrecognized
	}
	return []model.ParPart{&model.CommentEnd{ID: id}}, nil
}

// mathExpr captures one math zone opaquely: the flattened text of its
// m:t descendants alongside the raw markup.
func (env *readerEnv) mathExpr(el *xmlquery.Node) model.MathExpr {
	var sb strings.Builder
	for _, t := range env.ns.Descendants(el, nsM, "t") {
		sb.WriteString(xmldom.Text(t))
	}
	return model.MathExpr{Text: sb.String(), Markup: xmldom.Markup(el)}
}

// simpleFieldParPart parses w:fldSimple, the collapsed single element
// field form. An unparsable instruction still yields a field with the
// raw instruction preserved.
func (env *readerEnv) simpleFieldParPart(st *parseState, el *xmlquery.Node) ([]model.ParPart, error) {
	instr, ok := env.ns.Attr(el, nsW, "instr")
	if !ok {
		return nil, errUnrecognized
	}
	info, err := parseFieldInfo(instr)
	if err != nil {
		info = model.FieldInfo{Instruction: strings.TrimSpace(instr)}
	}
	return []model.ParPart{&model.Field{Info: info, Children: env.childRunParts(st, el)}}, nil
}

// ignorableParPart lists elements that carry no content at paragraph
// level: properties, proofing marks, and markers resolved elsewhere.
func ignorableParPart(ns xmldom.Namespaces, el *xmlquery.Node) bool {
	for _, local := range []string{
		"pPr", "rPr", "proofErr", "bookmarkEnd",
		"lastRenderedPageBreak", "commentReference", "sectPr",
	} {
		if ns.Is(el, nsW, local) {
			return true
		}
	}
	return false
}
