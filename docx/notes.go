package docx

import (
	"github.com/antchfx/xmlquery"

	"github.com/docquill/quill/opc"
	"github.com/docquill/quill/xmldom"
)

// notePart is one loaded notes part: its namespace table and the note
// subtrees keyed by id. Note bodies are parsed lazily at the reference
// site, with the location switched to the note's part, because they can
// hold arbitrary body structure of their own.
type notePart struct {
	ns   xmldom.Namespaces
	byID map[string]*xmlquery.Node
}

// lookup returns the note subtree with the given id, or nil.
func (p *notePart) lookup(id string) *xmlquery.Node {
	if p == nil {
		return nil
	}
	return p.byID[id]
}

// Notes holds the footnote and endnote subtrees of the package.
type Notes struct {
	footnotes *notePart
	endnotes  *notePart
}

// loadNotes reads the footnotes and endnotes parts next to the document
// part. Absent parts yield empty maps.
func loadNotes(ar opc.Archive, docPath string, st *parseState) *Notes {
	return &Notes{
		footnotes: loadNotePart(ar, st, siblingPart(docPath, "footnotes.xml"), "footnote"),
		endnotes:  loadNotePart(ar, st, siblingPart(docPath, "endnotes.xml"), "endnote"),
	}
}

func loadNotePart(ar opc.Archive, st *parseState, path, local string) *notePart {
	part := &notePart{byID: make(map[string]*xmlquery.Node)}
	root, ns := loadPart(ar, st, path)
	if root == nil {
		return part
	}
	part.ns = ns
	for _, el := range ns.ChildList(root, nsW, local) {
		if id, ok := ns.Attr(el, nsW, "id"); ok {
			part.byID[id] = el
		}
	}
	return part
}

// Comments holds the comment subtrees of the package, keyed by id.
type Comments struct {
	ns   xmldom.Namespaces
	byID map[string]*xmlquery.Node
}

// lookup returns the comment subtree with the given id, or nil.
func (c *Comments) lookup(id string) *xmlquery.Node {
	if c == nil {
		return nil
	}
	return c.byID[id]
}

// loadComments reads the comments part next to the document part. An
// absent part yields an empty map.
func loadComments(ar opc.Archive, docPath string, st *parseState) *Comments {
	comments := &Comments{byID: make(map[string]*xmlquery.Node)}
	root, ns := loadPart(ar, st, siblingPart(docPath, "comments.xml"))
	if root == nil {
		return comments
	}
	comments.ns = ns
	for _, el := range ns.ChildList(root, nsW, "comment") {
		if id, ok := ns.Attr(el, nsW, "id"); ok {
			comments.byID[id] = el
		}
	}
	return comments
}
