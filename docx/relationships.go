package docx

import (
	"strings"

	"github.com/docquill/quill/opc"
)

// relTarget is one resolved relationship target. target keeps the raw
// value as written, which is the URL for external targets; path is the
// resolved package entry path for internal ones.
type relTarget struct {
	path     string
	target   string
	external bool
}

// relIndex holds relationship targets scoped by the referencing part.
type relIndex struct {
	byLoc map[partLocation]map[string]relTarget
}

// lookup resolves a relationship id within one part's scope.
func (ri *relIndex) lookup(loc partLocation, id string) (relTarget, bool) {
	if ri == nil {
		return relTarget{}, false
	}
	t, ok := ri.byLoc[loc][id]
	return t, ok
}

// buildRelationships parses the relationships parts for the document,
// footnotes and endnotes parts. A missing or malformed part leaves its
// scope empty.
func buildRelationships(ar opc.Archive, docPath string) *relIndex {
	ri := &relIndex{byLoc: make(map[partLocation]map[string]relTarget)}
	parts := map[partLocation]string{
		inDocument: docPath,
		inFootnote: siblingPart(docPath, "footnotes.xml"),
		inEndnote:  siblingPart(docPath, "endnotes.xml"),
	}
	for loc, partPath := range parts {
		ri.byLoc[loc] = relationshipsFor(ar, partPath)
	}
	return ri
}

func relationshipsFor(ar opc.Archive, partPath string) map[string]relTarget {
	targets := make(map[string]relTarget)
	data, ok := ar.ReadEntry(opc.RelsPathFor(partPath))
	if !ok {
		return targets
	}
	rels, err := opc.ParseRelationships(data)
	if err != nil {
		return targets
	}
	for _, rel := range rels {
		t := relTarget{target: rel.Target, external: rel.External()}
		if !t.external {
			t.path = opc.ResolveTarget(partPath, stripQuery(rel.Target))
		}
		targets[rel.ID] = t
	}
	return targets
}

// stripQuery drops a query suffix from a stored target. Some producers
// write query strings on media targets, which never match entry paths.
func stripQuery(target string) string {
	if i := strings.IndexByte(target, '?'); i >= 0 {
		return target[:i]
	}
	return target
}
