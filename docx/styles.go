package docx

import (
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"

	"github.com/docquill/quill/model"
	"github.com/docquill/quill/opc"
	"github.com/docquill/quill/xmldom"
)

// Styles is the document's style repository, keyed by style id.
type Styles struct {
	char map[string]*model.CharStyle
	par  map[string]*model.ParStyle
}

// Char returns the character style with the given id, or nil.
func (s *Styles) Char(id string) *model.CharStyle {
	if s == nil {
		return nil
	}
	return s.char[id]
}

// Par returns the paragraph style with the given id, or nil.
func (s *Styles) Par(id string) *model.ParStyle {
	if s == nil {
		return nil
	}
	return s.par[id]
}

// loadStyles reads the styles part next to the document part. A missing
// part yields an empty repository. Parent references are resolved while
// building, so styles may be declared in any order; a reference to an
// unknown style leaves the referencing style parentless.
func loadStyles(ar opc.Archive, docPath string, st *parseState) *Styles {
	styles := &Styles{
		char: make(map[string]*model.CharStyle),
		par:  make(map[string]*model.ParStyle),
	}
	root, ns := loadPart(ar, st, siblingPart(docPath, "styles.xml"))
	if root == nil {
		return styles
	}

	b := &stylesBuilder{
		ns:           ns,
		charRaw:      make(map[string]*xmlquery.Node),
		parRaw:       make(map[string]*xmlquery.Node),
		charBuilding: make(map[string]bool),
		parBuilding:  make(map[string]bool),
		out:          styles,
	}
	for _, el := range ns.ChildList(root, nsW, "style") {
		id, ok := ns.Attr(el, nsW, "styleId")
		if !ok {
			continue
		}
		typ, _ := ns.Attr(el, nsW, "type")
		switch typ {
		case "character":
			b.charRaw[id] = el
		case "paragraph":
			b.parRaw[id] = el
		}
	}
	for id := range b.charRaw {
		b.charStyle(id)
	}
	for id := range b.parRaw {
		b.parStyle(id)
	}
	return styles
}

// stylesBuilder resolves style inheritance while the repository is
// built. The building sets break basedOn cycles: a style reached twice
// in one chain is treated as absent, leaving the cycle's last link
// parentless.
type stylesBuilder struct {
	ns           xmldom.Namespaces
	charRaw      map[string]*xmlquery.Node
	parRaw       map[string]*xmlquery.Node
	charBuilding map[string]bool
	parBuilding  map[string]bool
	out          *Styles
}

func (b *stylesBuilder) charStyle(id string) *model.CharStyle {
	if cs, ok := b.out.char[id]; ok {
		return cs
	}
	el, ok := b.charRaw[id]
	if !ok || b.charBuilding[id] {
		return nil
	}
	b.charBuilding[id] = true
	var parent *model.CharStyle
	if parentID, ok := b.ns.Attr(b.ns.Child(el, nsW, "basedOn"), nsW, "val"); ok {
		parent = b.charStyle(parentID)
	}
	delete(b.charBuilding, id)

	cs := &model.CharStyle{
		ID:     id,
		Name:   b.styleName(el, id),
		Format: runStyleFromRPr(b.ns, b.ns.Child(el, nsW, "rPr"), nil),
		Parent: parent,
	}
	b.out.char[id] = cs
	return cs
}

func (b *stylesBuilder) parStyle(id string) *model.ParStyle {
	if ps, ok := b.out.par[id]; ok {
		return ps
	}
	el, ok := b.parRaw[id]
	if !ok || b.parBuilding[id] {
		return nil
	}
	b.parBuilding[id] = true
	var parent *model.ParStyle
	if parentID, ok := b.ns.Attr(b.ns.Child(el, nsW, "basedOn"), nsW, "val"); ok {
		parent = b.parStyle(parentID)
	}
	delete(b.parBuilding, id)

	name := b.styleName(el, id)
	ps := &model.ParStyle{
		ID:           id,
		Name:         name,
		HeadingLevel: headingLevelOf(name),
		Num:          b.styleNumRef(el),
		Parent:       parent,
	}
	b.out.par[id] = ps
	return ps
}

// styleName prefers the declared w:name, falling back to the id.
func (b *stylesBuilder) styleName(el *xmlquery.Node, id string) string {
	if name, ok := b.ns.Attr(b.ns.Child(el, nsW, "name"), nsW, "val"); ok {
		return name
	}
	return id
}

// styleNumRef reads a numbering reference declared on the style itself.
// The level index defaults to "0" when only the instance id is written.
func (b *stylesBuilder) styleNumRef(el *xmlquery.Node) *model.NumRef {
	numPr := b.ns.Child(b.ns.Child(el, nsW, "pPr"), nsW, "numPr")
	numID, ok := b.ns.Attr(b.ns.Child(numPr, nsW, "numId"), nsW, "val")
	if !ok {
		return nil
	}
	ilvl, ok := b.ns.Attr(b.ns.Child(numPr, nsW, "ilvl"), nsW, "val")
	if !ok {
		ilvl = "0"
	}
	return &model.NumRef{NumID: numID, Ilvl: ilvl}
}

// headingLevelOf derives a heading level from a style name of the form
// "heading N", case insensitive. The digits after the prefix decide the
// level; trailing text is ignored.
func headingLevelOf(name string) *int {
	rest, ok := strings.CutPrefix(strings.ToLower(name), "heading ")
	if !ok {
		return nil
	}
	rest = strings.TrimLeft(rest, " ")
	i := 0
	for i < len(rest) && rest[i] >= '0' && rest[i] <= '9' {
		i++
	}
	n, err := strconv.Atoi(rest[:i])
	if err != nil || n < 1 {
		return nil
	}
	return &n
}

// checkOnOff reads an on/off property child under parent. An absent
// child yields nil, a present child without a value yields true, and an
// unrecognized value yields nil.
func checkOnOff(ns xmldom.Namespaces, parent *xmlquery.Node, local string) *bool {
	el := ns.Child(parent, nsW, local)
	if el == nil {
		return nil
	}
	val, ok := ns.Attr(el, nsW, "val")
	if !ok {
		return boolPtr(true)
	}
	switch val {
	case "true", "on", "1":
		return boolPtr(true)
	case "false", "off", "0":
		return boolPtr(false)
	}
	return nil
}

func boolPtr(b bool) *bool { return &b }

// runStyleFromRPr extracts direct run formatting from an rPr element.
// linked is attached as the referenced character style.
func runStyleFromRPr(ns xmldom.Namespaces, rPr *xmlquery.Node, linked *model.CharStyle) model.RunStyle {
	style := model.RunStyle{Style: linked}
	if rPr == nil {
		return style
	}
	style.Bold = checkOnOff(ns, rPr, "b")
	style.Italic = checkOnOff(ns, rPr, "i")
	style.SmallCaps = checkOnOff(ns, rPr, "smallCaps")
	style.Strike = checkOnOff(ns, rPr, "strike")
	style.RTL = checkOnOff(ns, rPr, "rtl")
	if val, ok := ns.Attr(ns.Child(rPr, nsW, "vertAlign"), nsW, "val"); ok {
		switch val {
		case "superscript":
			style.VertAlign = model.VertAlignSuperscript
		case "subscript":
			style.VertAlign = model.VertAlignSubscript
		default:
			style.VertAlign = model.VertAlignBaseline
		}
	}
	if val, ok := ns.Attr(ns.Child(rPr, nsW, "u"), nsW, "val"); ok {
		style.Underline = val
	}
	return style
}
