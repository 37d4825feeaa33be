package docx

import (
	"github.com/antchfx/xmlquery"

	"github.com/docquill/quill/model"
	"github.com/docquill/quill/xmldom"
)

// runsOf parses the children of a run container such as a tracked
// change or hyperlink, skipping anything that is not a run.
func (env *readerEnv) runsOf(st *parseState, el *xmlquery.Node) []model.Run {
	var runs []model.Run
	for _, child := range xmldom.Elements(el) {
		run, err := env.runOf(st, child)
		if err != nil {
			continue
		}
		runs = append(runs, run)
	}
	return runs
}

// runOf parses one w:r element into a run. Runs carrying a drawing, a
// legacy picture, or a note reference become dedicated run types;
// everything else is a text run.
func (env *readerEnv) runOf(st *parseState, el *xmlquery.Node) (model.Run, error) {
	if !env.ns.Is(el, nsW, "r") {
		return nil, errUnrecognized
	}

	if alt := env.ns.Child(el, nsMC, "AlternateContent"); alt != nil {
		return env.alternateRun(st, el, alt)
	}

	if drawing := env.ns.Child(el, nsW, "drawing"); drawing != nil {
		class, pic, err := env.classifyDrawing(drawing)
		switch {
		case err != nil:
			return nil, err
		case class == drawingPicture:
			return pic, nil
		case class == drawingChart:
			return &model.InlineChart{}, nil
		case class == drawingDiagram:
			return &model.InlineDiagram{}, nil
		}
	}

	if pict := env.pictChild(el); pict != nil {
		return env.pictRun(pict)
	}

	if ref := env.ns.Child(el, nsW, "footnoteReference"); ref != nil {
		if id, ok := env.ns.Attr(ref, nsW, "id"); ok {
			return env.footnoteRef(st, id), nil
		}
	}
	if ref := env.ns.Child(el, nsW, "endnoteReference"); ref != nil {
		if id, ok := env.ns.Attr(ref, nsW, "id"); ok {
			return env.endnoteRef(st, id), nil
		}
	}

	return &model.TextRun{
		Style: env.runStyleOf(el),
		Elems: env.runElemsOf(el),
	}, nil
}

// alternateRun resolves an mc:AlternateContent run by substituting the
// first element of each mc:Choice for the run's content until one
// parses. Choices that fail are skipped.
func (env *readerEnv) alternateRun(st *parseState, rEl, alt *xmlquery.Node) (model.Run, error) {
	for _, choice := range env.ns.ChildList(alt, nsMC, "Choice") {
		children := xmldom.Elements(choice)
		if len(children) == 0 {
			continue
		}
		run, err := env.substitutedRun(st, rEl, children[0])
		if err == nil {
			return run, nil
		}
	}
	return nil, errUnrecognized
}

// substitutedRun parses a run whose content has been replaced by a
// single substituted element. The run's own properties still apply.
func (env *readerEnv) substitutedRun(st *parseState, rEl, content *xmlquery.Node) (model.Run, error) {
	switch {
	case env.ns.Is(content, nsW, "drawing"):
		class, pic, err := env.classifyDrawing(content)
		switch {
		case err != nil:
			return nil, err
		case class == drawingPicture:
			return pic, nil
		case class == drawingChart:
			return &model.InlineChart{}, nil
		case class == drawingDiagram:
			return &model.InlineDiagram{}, nil
		}
	case env.ns.Is(content, nsW, "pict"), env.ns.Is(content, nsW, "object"):
		return env.pictRun(content)
	case env.ns.Is(content, nsW, "footnoteReference"):
		if id, ok := env.ns.Attr(content, nsW, "id"); ok {
			return env.footnoteRef(st, id), nil
		}
	case env.ns.Is(content, nsW, "endnoteReference"):
		if id, ok := env.ns.Attr(content, nsW, "id"); ok {
			return env.endnoteRef(st, id), nil
		}
	}

	font, hasFont := env.runFont(rEl)
	var elems []model.RunElem
	if elem, ok := env.runElem(content, font, hasFont); ok {
		elems = append(elems, elem)
	}
	return &model.TextRun{Style: env.runStyleOf(rEl), Elems: elems}, nil
}

// pictRun resolves a legacy VML picture into an inline drawing.
func (env *readerEnv) pictRun(pict *xmlquery.Node) (model.Run, error) {
	relID, ok := env.pictRelID(pict)
	if !ok {
		return nil, errUnrecognized
	}
	path, data, err := env.expandDrawing(relID)
	if err != nil {
		return nil, err
	}
	return &model.InlineDrawing{Path: path, Data: data}, nil
}

// footnoteRef resolves a footnote reference against the footnotes part.
// A dangling reference keeps the marker with empty content.
func (env *readerEnv) footnoteRef(st *parseState, id string) *model.FootnoteRef {
	out := &model.FootnoteRef{ID: id}
	if note := env.notes.footnotes.lookup(id); note != nil {
		noteEnv := env.inPart(env.notes.footnotes.ns, inFootnote)
		out.Parts = noteEnv.bodyPartsOf(st, xmldom.Elements(note))
	}
	return out
}

// endnoteRef resolves an endnote reference against the endnotes part.
func (env *readerEnv) endnoteRef(st *parseState, id string) *model.EndnoteRef {
	out := &model.EndnoteRef{ID: id}
	if note := env.notes.endnotes.lookup(id); note != nil {
		noteEnv := env.inPart(env.notes.endnotes.ns, inEndnote)
		out.Parts = noteEnv.bodyPartsOf(st, xmldom.Elements(note))
	}
	return out
}

// runStyleOf reads the direct formatting of a run, linked character
// style included.
func (env *readerEnv) runStyleOf(el *xmlquery.Node) model.RunStyle {
	rPr := env.ns.Child(el, nsW, "rPr")
	if rPr == nil {
		return model.RunStyle{}
	}
	var linked *model.CharStyle
	if styleEl := env.ns.Child(rPr, nsW, "rStyle"); styleEl != nil {
		if id, ok := env.ns.Attr(styleEl, nsW, "val"); ok {
			linked = env.styles.Char(id)
		}
	}
	return runStyleFromRPr(env.ns, rPr, linked)
}

// runElemsOf parses the text-level children of a run. A symbol font on
// the run rewrites private use characters through the font's table.
func (env *readerEnv) runElemsOf(el *xmlquery.Node) []model.RunElem {
	font, hasFont := env.runFont(el)
	var elems []model.RunElem
	for _, child := range xmldom.Elements(el) {
		if elem, ok := env.runElem(child, font, hasFont); ok {
			elems = append(elems, elem)
		}
	}
	return elems
}

// runFont reads the run's primary font when it is one of the known
// symbol fonts.
func (env *readerEnv) runFont(el *xmlquery.Node) (symbolFont, bool) {
	fonts := env.ns.Descendant(el, nsW, "rFonts")
	if fonts == nil {
		return 0, false
	}
	name, ok := env.ns.Attr(fonts, nsW, "ascii")
	if !ok {
		name, ok = env.ns.Attr(fonts, nsW, "hAnsi")
	}
	if !ok {
		return 0, false
	}
	return fontByName(name)
}

func (env *readerEnv) runElem(el *xmlquery.Node, font symbolFont, hasFont bool) (model.RunElem, bool) {
	switch {
	case env.ns.Is(el, nsW, "t"), env.ns.Is(el, nsW, "delText"), env.ns.Is(el, nsM, "t"):
		text := xmldom.Text(el)
		if hasFont {
			text = font.substitute(text)
		}
		return &model.TextElem{Value: text}, true
	case env.ns.Is(el, nsW, "br"), env.ns.Is(el, nsW, "cr"):
		return &model.LineBreak{}, true
	case env.ns.Is(el, nsW, "tab"):
		return &model.Tab{}, true
	case env.ns.Is(el, nsW, "softHyphen"):
		return &model.SoftHyphen{}, true
	case env.ns.Is(el, nsW, "noBreakHyphen"):
		return &model.NoBreakHyphen{}, true
	case env.ns.Is(el, nsW, "sym"):
		return env.symElem(el), true
	}
	return nil, false
}
