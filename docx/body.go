package docx

import (
	"errors"
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"

	"github.com/docquill/quill/model"
	"github.com/docquill/quill/xmldom"
)

// bodyPartsOf parses body-level elements in order. A child no
// recognizer accepts is dropped with one warning; its siblings still
// parse.
func (env *readerEnv) bodyPartsOf(st *parseState, els []*xmlquery.Node) []model.BodyPart {
	var parts []model.BodyPart
	for _, el := range els {
		out, err := env.bodyPart(st, el)
		if err != nil {
			if errors.Is(err, errUnrecognized) {
				st.warnf("dropped unrecognized element %s", qualName(el))
			} else {
				st.warnf("dropped element %s: %v", qualName(el), err)
			}
			continue
		}
		parts = append(parts, out...)
	}
	return parts
}

func (env *readerEnv) bodyPart(st *parseState, el *xmlquery.Node) ([]model.BodyPart, error) {
	switch {
	case env.ns.Is(el, nsW, "p"):
		part, err := env.paragraphPart(st, el)
		if err != nil {
			return nil, err
		}
		return []model.BodyPart{part}, nil
	case env.ns.Is(el, nsW, "tbl"):
		part, err := env.tablePart(st, el)
		if err != nil {
			return nil, err
		}
		return []model.BodyPart{part}, nil
	case env.ns.Is(el, nsW, "sdt"):
		content := env.ns.Child(el, nsW, "sdtContent")
		if content == nil {
			return nil, errUnrecognized
		}
		return env.bodyPartsOf(st, xmldom.Elements(content)), nil
	case ignorableBodyPart(env.ns, el):
		return nil, nil
	}
	return nil, errUnrecognized
}

// paragraphPart classifies one w:p element. Math paragraphs win over
// everything; list numbering applies only when the resolved style is
// not a heading; a Caption-styled paragraph referencing a Table field
// becomes a table caption.
func (env *readerEnv) paragraphPart(st *parseState, el *xmlquery.Node) (model.BodyPart, error) {
	style := env.paragraphStyleOf(el)

	if mathPara := env.ns.Child(el, nsM, "oMathPara"); mathPara != nil {
		var exprs []model.MathExpr
		for _, m := range env.ns.ChildList(mathPara, nsM, "oMath") {
			exprs = append(exprs, env.mathExpr(m))
		}
		return &model.Paragraph{Style: style, Parts: []model.ParPart{&model.MathBlock{Exprs: exprs}}}, nil
	}

	_, isHeading := style.HeadingLevel()

	if ref, ok := env.directNumInfo(el); ok && !isHeading {
		return env.listItemPart(st, el, style, ref), nil
	}

	parts := env.paragraphParts(st, el)

	if ref, ok := style.NumInfo(); ok && !isHeading {
		return &model.ListItem{
			Style:    style,
			NumID:    ref.NumID,
			Ilvl:     ref.Ilvl,
			LevelDef: env.numbering.ResolveLevel(ref.NumID, ref.Ilvl),
			Parts:    parts,
		}, nil
	}

	if env.isCaption(style, el) {
		return &model.TableCaption{Style: style, Parts: parts}, nil
	}

	return &model.Paragraph{Style: style, Parts: parts}, nil
}

func (env *readerEnv) listItemPart(st *parseState, el *xmlquery.Node, style model.ParagraphStyle, ref model.NumRef) *model.ListItem {
	return &model.ListItem{
		Style:    style,
		NumID:    ref.NumID,
		Ilvl:     ref.Ilvl,
		LevelDef: env.numbering.ResolveLevel(ref.NumID, ref.Ilvl),
		Parts:    env.paragraphParts(st, el),
	}
}

// paragraphParts parses a paragraph's children and appends partial
// fields still open when the paragraph ends.
func (env *readerEnv) paragraphParts(st *parseState, el *xmlquery.Node) []model.ParPart {
	parts := env.parPartsOf(st, el)
	return append(parts, st.flushOpenFields()...)
}

// directNumInfo reads list numbering declared directly on the
// paragraph's properties. The indent level defaults to "0".
func (env *readerEnv) directNumInfo(el *xmlquery.Node) (model.NumRef, bool) {
	numPr := env.ns.Child(env.ns.Child(el, nsW, "pPr"), nsW, "numPr")
	if numPr == nil {
		return model.NumRef{}, false
	}
	numID, ok := env.ns.Attr(env.ns.Child(numPr, nsW, "numId"), nsW, "val")
	if !ok {
		return model.NumRef{}, false
	}
	ilvl, ok := env.ns.Attr(env.ns.Child(numPr, nsW, "ilvl"), nsW, "val")
	if !ok {
		ilvl = "0"
	}
	return model.NumRef{NumID: numID, Ilvl: ilvl}, true
}

// isCaption reports whether a Caption-styled paragraph references a
// Table sequence field, either as a simple field instruction or as
// complex field instruction text.
func (env *readerEnv) isCaption(style model.ParagraphStyle, el *xmlquery.Node) bool {
	styled := false
	for _, ps := range style.Styles {
		if ps.ID == "Caption" {
			styled = true
			break
		}
	}
	if !styled {
		return false
	}
	for _, fld := range env.ns.Descendants(el, nsW, "fldSimple") {
		if instr, ok := env.ns.Attr(fld, nsW, "instr"); ok && containsToken(instr, "Table") {
			return true
		}
	}
	for _, instr := range env.ns.Descendants(el, nsW, "instrText") {
		if containsToken(xmldom.Text(instr), "Table") {
			return true
		}
	}
	return false
}

func containsToken(s, token string) bool {
	for _, f := range strings.Fields(s) {
		if f == token {
			return true
		}
	}
	return false
}

// paragraphStyleOf reads a paragraph's style references, indentation,
// direction, drop cap, and paragraph mark change. Style ids that do
// not resolve are dropped from the list.
func (env *readerEnv) paragraphStyleOf(el *xmlquery.Node) model.ParagraphStyle {
	pPr := env.ns.Child(el, nsW, "pPr")
	if pPr == nil {
		return model.ParagraphStyle{}
	}
	var style model.ParagraphStyle
	for _, ref := range env.ns.ChildList(pPr, nsW, "pStyle") {
		id, ok := env.ns.Attr(ref, nsW, "val")
		if !ok {
			continue
		}
		if ps := env.styles.Par(id); ps != nil {
			style.Styles = append(style.Styles, ps)
		}
	}
	style.Indent = env.indentationOf(pPr)
	if framePr := env.ns.Child(pPr, nsW, "framePr"); framePr != nil {
		if dropCap, ok := env.ns.Attr(framePr, nsW, "dropCap"); ok && dropCap != "none" {
			style.DropCap = true
		}
	}
	if bidi := checkOnOff(env.ns, pPr, "bidi"); bidi != nil {
		style.BiDi = *bidi
	}
	if rPr := env.ns.Child(pPr, nsW, "rPr"); rPr != nil {
		style.Change = env.paragraphMarkChange(rPr)
	}
	return style
}

// paragraphMarkChange finds a tracked change recorded on the paragraph
// mark itself.
func (env *readerEnv) paragraphMarkChange(rPr *xmlquery.Node) *model.TrackedChange {
	for _, child := range xmldom.Elements(rPr) {
		var kind model.ChangeKind
		switch {
		case env.ns.Is(child, nsW, "ins"), env.ns.Is(child, nsW, "moveTo"):
			kind = model.Insertion
		case env.ns.Is(child, nsW, "del"), env.ns.Is(child, nsW, "moveFrom"):
			kind = model.Deletion
		default:
			continue
		}
		if change, ok := env.trackedChangeOf(child, kind); ok {
			return &change
		}
		return nil
	}
	return nil
}

func (env *readerEnv) indentationOf(pPr *xmlquery.Node) *model.Indentation {
	ind := env.ns.Child(pPr, nsW, "ind")
	if ind == nil {
		return nil
	}
	return &model.Indentation{
		Left:      env.twipAttr(ind, "left", "start"),
		Right:     env.twipAttr(ind, "right", "end"),
		Hanging:   env.twipAttr(ind, "hanging"),
		FirstLine: env.twipAttr(ind, "firstLine"),
	}
}

// twipAttr reads the first present attribute of the given names as an
// integer twip count.
func (env *readerEnv) twipAttr(el *xmlquery.Node, names ...string) *int {
	for _, name := range names {
		val, ok := env.ns.Attr(el, nsW, name)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(val)
		if err != nil {
			return nil
		}
		return &n
	}
	return nil
}

// ignorableBodyPart lists elements with no block content: section
// properties, bookmarks between blocks, proofing marks, and the
// property elements of table rows and cells.
func ignorableBodyPart(ns xmldom.Namespaces, el *xmlquery.Node) bool {
	for _, local := range []string{
		"sectPr", "bookmarkStart", "bookmarkEnd", "proofErr",
		"tcPr", "trPr", "tblPrEx",
	} {
		if ns.Is(el, nsW, local) {
			return true
		}
	}
	return false
}
