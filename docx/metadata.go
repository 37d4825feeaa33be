package docx

import (
	"strings"
	"time"

	"github.com/docquill/quill/model"
	"github.com/docquill/quill/opc"
	"github.com/docquill/quill/xmldom"
)

// corePropertiesPath is the conventional location of the package's core
// properties part.
const corePropertiesPath = "docProps/core.xml"

// readCoreProperties reads the package's Dublin Core metadata. A
// missing or unparsable part yields zero metadata.
func readCoreProperties(ar opc.Archive) model.Metadata {
	var meta model.Metadata
	data, ok := ar.ReadEntry(corePropertiesPath)
	if !ok {
		return meta
	}
	doc, err := xmldom.Parse(data)
	if err != nil {
		return meta
	}
	root := xmldom.Root(doc)
	if root == nil {
		return meta
	}
	ns := xmldom.NamespacesOf(root)

	meta.Title = xmldom.Text(ns.Child(root, nsDC, "title"))
	meta.Subject = xmldom.Text(ns.Child(root, nsDC, "subject"))
	meta.Creator = xmldom.Text(ns.Child(root, nsDC, "creator"))
	meta.Description = xmldom.Text(ns.Child(root, nsDC, "description"))
	meta.LastModifiedBy = xmldom.Text(ns.Child(root, nsCP, "lastModifiedBy"))
	meta.Revision = xmldom.Text(ns.Child(root, nsCP, "revision"))
	meta.Keywords = splitKeywords(xmldom.Text(ns.Child(root, nsCP, "keywords")))
	meta.Created = parseDocTime(xmldom.Text(ns.Child(root, nsDCTerms, "created")))
	meta.Modified = parseDocTime(xmldom.Text(ns.Child(root, nsDCTerms, "modified")))
	return meta
}

func splitKeywords(s string) []string {
	var keywords []string
	for _, k := range strings.Split(s, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keywords = append(keywords, k)
		}
	}
	return keywords
}

// parseDocTime accepts the W3CDTF forms producers actually write: full
// RFC 3339 timestamps and bare dates.
func parseDocTime(s string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
