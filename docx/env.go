package docx

import (
	"strings"

	"github.com/antchfx/xmlquery"

	"github.com/docquill/quill/opc"
	"github.com/docquill/quill/xmldom"
)

// partLocation identifies the part a reference was made from, so
// relationship ids resolve against that part's own relationship file.
type partLocation int

const (
	inDocument partLocation = iota
	inFootnote
	inEndnote
)

// readerEnv is the read-only context threaded through one parse: the
// loaded support parts plus the namespace table and location of the
// part currently being read. Descending into a footnote or endnote
// swaps in that part's table and location on a derived copy.
type readerEnv struct {
	archive   opc.Archive
	docPath   string
	ns        xmldom.Namespaces
	styles    *Styles
	numbering *Numbering
	rels      *relIndex
	notes     *Notes
	comments  *Comments
	media     *opc.MediaStore
	location  partLocation
}

// buildEnv loads every support part the document part depends on.
// Support parts are optional; one that is present but unreadable
// produces a warning and an empty substitute.
func buildEnv(ar opc.Archive, docPath string, ns xmldom.Namespaces, st *parseState) *readerEnv {
	return &readerEnv{
		archive:   ar,
		docPath:   docPath,
		ns:        ns,
		styles:    loadStyles(ar, docPath, st),
		numbering: loadNumbering(ar, docPath, st),
		rels:      buildRelationships(ar, docPath),
		notes:     loadNotes(ar, docPath, st),
		comments:  loadComments(ar, docPath, st),
		media:     opc.CollectMedia(ar),
		location:  inDocument,
	}
}

// inPart derives the environment for reading another part of the
// package. An empty namespace table keeps the current one.
func (env *readerEnv) inPart(ns xmldom.Namespaces, loc partLocation) *readerEnv {
	derived := *env
	if len(ns) > 0 {
		derived.ns = ns
	}
	derived.location = loc
	return &derived
}

// loadPart reads and parses one optional XML part, returning its root
// element and namespace table. Missing parts return nil quietly; a
// present but unreadable part warns.
func loadPart(ar opc.Archive, st *parseState, path string) (*xmlquery.Node, xmldom.Namespaces) {
	data, ok := ar.ReadEntry(path)
	if !ok {
		return nil, nil
	}
	doc, err := xmldom.Parse(data)
	if err != nil {
		st.warnf("skipping unreadable part %s: %v", path, err)
		return nil, nil
	}
	root := xmldom.Root(doc)
	if root == nil {
		st.warnf("skipping empty part %s", path)
		return nil, nil
	}
	return root, xmldom.NamespacesOf(root)
}

func partDir(partPath string) string {
	if i := strings.LastIndex(partPath, "/"); i >= 0 {
		return partPath[:i]
	}
	return ""
}

// siblingPart builds the path of a part stored alongside the document
// part, e.g. styles.xml next to word/document.xml.
func siblingPart(docPath, name string) string {
	dir := partDir(docPath)
	if dir == "" {
		return name
	}
	return dir + "/" + name
}
