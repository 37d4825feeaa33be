package opc

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html/charset"
)

// TargetModeExternal marks a relationship whose target is a URL outside
// the package rather than an entry path.
const TargetModeExternal = "External"

// ErrNoDocumentPart is the fatal error for a package whose main document
// part cannot be located: the root relationships entry is missing or
// unreadable, or no officeDocument relationship exists.
var ErrNoDocumentPart = errors.New("no office document found in package")

// rootRelsPath is the conventional location of the package-level
// relationships part.
const rootRelsPath = "_rels/.rels"

// Relationship is one entry of a relationships part.
type Relationship struct {
	ID     string
	Type   string
	Target string
	Mode   string
}

// External reports whether the relationship points outside the package.
func (r Relationship) External() bool {
	return r.Mode == TargetModeExternal
}

type relationshipsXML struct {
	XMLName       xml.Name          `xml:"Relationships"`
	Relationships []relationshipXML `xml:"Relationship"`
}

type relationshipXML struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr"`
}

// ParseRelationships decodes a relationships part. The decoder tolerates
// the occasional non-UTF-8 part by honoring the declared charset.
func ParseRelationships(data []byte) ([]Relationship, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = charset.NewReaderLabel

	var doc relationshipsXML
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse relationships: %w", err)
	}

	rels := make([]Relationship, 0, len(doc.Relationships))
	for _, r := range doc.Relationships {
		rels = append(rels, Relationship{
			ID:     r.ID,
			Type:   r.Type,
			Target: r.Target,
			Mode:   r.TargetMode,
		})
	}
	return rels, nil
}

// RelsPathFor returns the conventional relationships part path for a given
// part, e.g. word/document.xml -> word/_rels/document.xml.rels.
func RelsPathFor(partPath string) string {
	partPath = NormalizePath(partPath)
	dir, base := splitPath(partPath)
	if dir == "" {
		return "_rels/" + base + ".rels"
	}
	return dir + "/_rels/" + base + ".rels"
}

func splitPath(p string) (dir, base string) {
	i := strings.LastIndexByte(p, '/')
	if i < 0 {
		return "", p
	}
	return p[:i], p[i+1:]
}

// ResolveTarget converts a relationship target into a package entry path.
// Targets with a leading slash are already package-absolute and only lose
// the slash; relative targets are joined to the referencing part's
// directory. External targets must not be passed here.
func ResolveTarget(partPath, target string) string {
	if strings.HasPrefix(target, "/") {
		return NormalizePath(target)
	}
	dir, _ := splitPath(NormalizePath(partPath))
	if dir == "" {
		return NormalizePath(target)
	}
	return NormalizePath(dir + "/" + target)
}

// MainDocumentPath locates the main document part by following the
// officeDocument relationship in the package's root relationships part.
func MainDocumentPath(a Archive) (string, error) {
	data, ok := a.ReadEntry(rootRelsPath)
	if !ok {
		return "", fmt.Errorf("%w: missing %s", ErrNoDocumentPart, rootRelsPath)
	}

	rels, err := ParseRelationships(data)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoDocumentPart, err)
	}

	for _, rel := range rels {
		if rel.External() {
			continue
		}
		// Matches both the transitional and strict type URIs.
		if strings.HasSuffix(rel.Type, "/officeDocument") {
			return NormalizePath(rel.Target), nil
		}
	}
	return "", fmt.Errorf("%w: no officeDocument relationship", ErrNoDocumentPart)
}
