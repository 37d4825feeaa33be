package docx

import (
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"

	"github.com/docquill/quill/model"
	"github.com/docquill/quill/xmldom"
)

type drawingClass int

const (
	drawingNone drawingClass = iota
	drawingPicture
	drawingChart
	drawingDiagram
)

// classifyDrawing inspects a w:drawing element. An embedded picture
// resolves to its image bytes; charts and diagrams reduce to
// placeholders; any other drawing content is left to the caller, which
// treats the run as ordinary text.
func (env *readerEnv) classifyDrawing(drawing *xmlquery.Node) (drawingClass, *model.InlineDrawing, error) {
	if pic := env.ns.Descendant(drawing, nsPic, "pic"); pic != nil {
		blip := env.ns.Descendant(pic, nsA, "blip")
		relID, ok := env.ns.Attr(blip, nsR, "embed")
		if !ok {
			return drawingNone, nil, errUnrecognized
		}
		path, data, err := env.expandDrawing(relID)
		if err != nil {
			return drawingNone, nil, err
		}
		title, alt := drawingTitleAlt(env.ns, drawing)
		return drawingPicture, &model.InlineDrawing{
			Path:   path,
			Title:  title,
			Alt:    alt,
			Data:   data,
			Extent: drawingExtent(env.ns, drawing),
		}, nil
	}
	if env.ns.Descendant(drawing, nsChart, "chart") != nil {
		return drawingChart, nil, nil
	}
	if env.ns.Descendant(drawing, nsDiagram, "relIds") != nil {
		return drawingDiagram, nil, nil
	}
	return drawingNone, nil, nil
}

// expandDrawing resolves an image relationship id to a package path
// and the image bytes. The relationship is looked up against the part
// the reference appears in; a dangling id or missing entry fails the
// containing element.
func (env *readerEnv) expandDrawing(relID string) (string, []byte, error) {
	target, ok := env.rels.lookup(env.location, relID)
	if !ok || target.external {
		return "", nil, errUnrecognized
	}
	if entry, found := env.media.Get(target.path); found {
		return entry.Path, entry.Data, nil
	}
	// Images occasionally live outside the conventional media folder.
	if data, found := env.archive.ReadEntry(target.path); found {
		return target.path, data, nil
	}
	return "", nil, errUnrecognized
}

// drawingTitleAlt reads the accessibility title and description from an
// inline drawing's docPr element.
func drawingTitleAlt(ns xmldom.Namespaces, drawing *xmlquery.Node) (title, alt string) {
	docPr := ns.Child(ns.Child(drawing, nsWP, "inline"), nsWP, "docPr")
	if docPr == nil {
		return "", ""
	}
	title, _ = ns.Attr(docPr, "", "title")
	alt, _ = ns.Attr(docPr, "", "descr")
	return title, alt
}

// drawingExtent reads the display size in EMUs. Both dimensions must be
// present and numeric.
func drawingExtent(ns xmldom.Namespaces, drawing *xmlquery.Node) *model.Extent {
	extent := ns.Descendant(drawing, nsWP, "extent")
	if extent == nil {
		return nil
	}
	cx, okX := xmldom.AttrAny(extent, "cx")
	cy, okY := xmldom.AttrAny(extent, "cy")
	if !okX || !okY {
		return nil
	}
	w, errW := strconv.ParseInt(cx, 10, 64)
	h, errH := strconv.ParseInt(cy, 10, 64)
	if errW != nil || errH != nil {
		return nil
	}
	return &model.Extent{CX: w, CY: h}
}

// pictRelID finds the VML imagedata reference inside a w:pict or
// w:object element.
func (env *readerEnv) pictRelID(pict *xmlquery.Node) (string, bool) {
	return env.ns.Attr(env.ns.Descendant(pict, nsVML, "imagedata"), nsR, "id")
}

// pictChild returns the legacy picture container of a run, if any.
func (env *readerEnv) pictChild(el *xmlquery.Node) *xmlquery.Node {
	if pict := env.ns.Child(el, nsW, "pict"); pict != nil {
		return pict
	}
	return env.ns.Child(el, nsW, "object")
}

// symElem decodes a w:sym element. The char attribute is a hex code,
// usually shifted into the private use area; an unknown font or
// unmapped code yields an empty text element rather than a garbage
// character.
func (env *readerEnv) symElem(el *xmlquery.Node) model.RunElem {
	name, _ := env.ns.Attr(el, nsW, "font")
	font, ok := fontByName(name)
	if !ok {
		return &model.TextElem{}
	}
	code, _ := env.ns.Attr(el, nsW, "char")
	if len(code) == 4 && strings.HasPrefix(code, "F0") {
		code = code[2:]
	}
	n, err := strconv.ParseUint(code, 16, 32)
	if err != nil {
		return &model.TextElem{}
	}
	if glyph, found := font.glyph(rune(n)); found {
		return &model.TextElem{Value: string(glyph)}
	}
	return &model.TextElem{}
}
