package docx

import (
	"fmt"

	"github.com/docquill/quill/model"
	"github.com/docquill/quill/opc"
	"github.com/docquill/quill/xmldom"
)

// Parse reads the package's main document part into a document tree.
// Warnings record elements dropped along the way; the error is non-nil
// only for the fatal conditions, a package without a locatable document
// part or a document part without a body.
func Parse(ar opc.Archive) (*model.Document, []Warning, error) {
	docPath, err := opc.MainDocumentPath(ar)
	if err != nil {
		return nil, nil, err
	}
	data, ok := ar.ReadEntry(docPath)
	if !ok {
		return nil, nil, fmt.Errorf("%w: missing %s", opc.ErrNoDocumentPart, docPath)
	}
	doc, err := xmldom.Parse(data)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing %s: %w", docPath, err)
	}
	root := xmldom.Root(doc)
	if root == nil {
		return nil, nil, fmt.Errorf("parsing %s: no root element", docPath)
	}
	ns := xmldom.NamespacesOf(root)
	body := ns.Child(root, nsW, "body")
	if body == nil {
		return nil, nil, ErrNoBody
	}

	st := &parseState{}
	env := buildEnv(ar, docPath, ns, st)
	parts := env.bodyPartsOf(st, xmldom.Elements(body))

	out := &model.Document{
		Namespaces: ns,
		Metadata:   readCoreProperties(ar),
		Body:       parts,
	}
	return out, st.warnings, nil
}
