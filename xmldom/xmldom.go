// Package xmldom provides DOM-style access to the XML parts of an office
// document package. It wraps xmlquery nodes with namespace-aware lookup
// helpers; element matching resolves prefixes through the namespace table
// declared on each part's root element, so parts with unconventional
// prefixes still match.
package xmldom

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
)

// Namespaces maps declared prefixes to namespace URIs for one XML part.
// The empty prefix holds the default namespace, if declared.
type Namespaces map[string]string

// Parse parses one XML part into a document node. The raw bytes are handed
// to the decoder untouched; xmlquery honors the encoding declared in the
// XML declaration.
func Parse(data []byte) (*xmlquery.Node, error) {
	doc, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing XML: %w", err)
	}
	return doc, nil
}

// Root returns the root element of a parsed document, or nil if the
// document has no element children.
func Root(doc *xmlquery.Node) *xmlquery.Node {
	if doc == nil {
		return nil
	}
	for child := doc.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == xmlquery.ElementNode {
			return child
		}
	}
	return nil
}

// NamespacesOf extracts the prefix table declared on an element. Each part
// declares its own prefixes on its root; there is no package-wide table.
func NamespacesOf(root *xmlquery.Node) Namespaces {
	ns := make(Namespaces)
	if root == nil {
		return ns
	}
	for _, attr := range root.Attr {
		switch {
		case attr.Name.Space == "xmlns":
			ns[attr.Name.Local] = attr.Value
		case attr.Name.Space == "" && attr.Name.Local == "xmlns":
			ns[""] = attr.Value
		}
	}
	return ns
}

// uriOf resolves the namespace URI of a node, falling back to the prefix
// table when the parser could not resolve the prefix itself.
func (ns Namespaces) uriOf(n *xmlquery.Node) string {
	if n.NamespaceURI != "" {
		return n.NamespaceURI
	}
	return ns[n.Prefix]
}

// Is reports whether n is an element with the given namespace URI and
// local name.
func (ns Namespaces) Is(n *xmlquery.Node, uri, local string) bool {
	if n == nil || n.Type != xmlquery.ElementNode || n.Data != local {
		return false
	}
	return ns.uriOf(n) == uri
}

// Child returns the first child element matching (uri, local), or nil.
func (ns Namespaces) Child(n *xmlquery.Node, uri, local string) *xmlquery.Node {
	if n == nil {
		return nil
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if ns.Is(c, uri, local) {
			return c
		}
	}
	return nil
}

// ChildList returns all child elements matching (uri, local), in order.
func (ns Namespaces) ChildList(n *xmlquery.Node, uri, local string) []*xmlquery.Node {
	if n == nil {
		return nil
	}
	var out []*xmlquery.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if ns.Is(c, uri, local) {
			out = append(out, c)
		}
	}
	return out
}

// Descendant returns the first descendant element matching (uri, local) in
// document order, or nil. The starting node itself is not considered.
func (ns Namespaces) Descendant(n *xmlquery.Node, uri, local string) *xmlquery.Node {
	if n == nil {
		return nil
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != xmlquery.ElementNode {
			continue
		}
		if ns.Is(c, uri, local) {
			return c
		}
		if found := ns.Descendant(c, uri, local); found != nil {
			return found
		}
	}
	return nil
}

// Descendants returns every descendant element matching (uri, local) in
// document order.
func (ns Namespaces) Descendants(n *xmlquery.Node, uri, local string) []*xmlquery.Node {
	var out []*xmlquery.Node
	if n == nil {
		return out
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != xmlquery.ElementNode {
			continue
		}
		if ns.Is(c, uri, local) {
			out = append(out, c)
		}
		out = append(out, ns.Descendants(c, uri, local)...)
	}
	return out
}

// Attr returns the value of the attribute with the given namespace URI and
// local name. Unprefixed attributes match uri == "".
func (ns Namespaces) Attr(n *xmlquery.Node, uri, local string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Name.Local != local {
			continue
		}
		switch {
		case a.NamespaceURI != "":
			if a.NamespaceURI == uri {
				return a.Value, true
			}
		case a.Name.Space != "":
			if ns[a.Name.Space] == uri {
				return a.Value, true
			}
		default:
			if uri == "" {
				return a.Value, true
			}
		}
	}
	return "", false
}

// AttrAny returns the value of the first attribute with the given local
// name regardless of namespace. Some producers leave attributes
// unprefixed where the schema expects a prefix; callers that tolerate
// that use this instead of Attr.
func AttrAny(n *xmlquery.Node, local string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Name.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

// Elements returns the element children of n, in order.
func Elements(n *xmlquery.Node) []*xmlquery.Node {
	if n == nil {
		return nil
	}
	var out []*xmlquery.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode {
			out = append(out, c)
		}
	}
	return out
}

// Text returns the concatenated text content of n and its descendants.
// Whitespace is preserved as stored.
func Text(n *xmlquery.Node) string {
	if n == nil {
		return ""
	}
	return n.InnerText()
}

// Markup serializes n, including its own tag, back to XML.
func Markup(n *xmlquery.Node) string {
	if n == nil {
		return ""
	}
	return n.OutputXML(true)
}

// Query runs a precompiled XPath selector against n and returns the
// matching element nodes. Selectors built on local-name() predicates stay
// independent of prefix choices.
func Query(n *xmlquery.Node, sel *xpath.Expr) []*xmlquery.Node {
	if n == nil || sel == nil {
		return nil
	}
	return xmlquery.QuerySelectorAll(n, sel)
}

// QueryOne runs a precompiled XPath selector and returns the first match,
// or nil.
func QueryOne(n *xmlquery.Node, sel *xpath.Expr) *xmlquery.Node {
	if n == nil || sel == nil {
		return nil
	}
	return xmlquery.QuerySelector(n, sel)
}

// LocalNameQuery builds an XPath selector that matches descendant elements
// by local name only, e.g. LocalNameQuery("footnote") selects every
// footnote element regardless of prefix.
func LocalNameQuery(local string) string {
	var sb strings.Builder
	sb.WriteString("//*[local-name()='")
	sb.WriteString(local)
	sb.WriteString("']")
	return sb.String()
}
