package chunk

import "github.com/docquill/quill/model"

// section is a run of body parts under one heading.
type section struct {
	// path is the heading path, outermost first. The section's own
	// heading is the last element.
	path  []string
	title string
	level int
	parts []model.BodyPart
}

// splitSections walks the body in order and opens a new section at
// every heading of splitLevel or above. Content before the first
// heading forms an untitled leading section. Headings deeper than
// splitLevel stay inside the running section as ordinary content.
func splitSections(body model.Body, splitLevel int) []section {
	var sections []section
	cur := section{}
	var path []string

	flush := func() {
		if len(cur.parts) > 0 {
			sections = append(sections, cur)
		}
	}

	for _, part := range body {
		if p, ok := part.(*model.Paragraph); ok {
			if lvl, isHeading := p.Style.HeadingLevel(); isHeading && lvl <= splitLevel {
				flush()
				path = pushHeading(path, lvl, p.Text())
				cur = section{
					path:  append([]string(nil), path...),
					title: p.Text(),
					level: lvl,
				}
				continue
			}
		}
		cur.parts = append(cur.parts, part)
	}
	flush()
	return sections
}

// pushHeading truncates the path to the heading's parent depth and
// appends the heading. A level 2 heading after a level 1 heading yields
// a two element path; a sibling level 2 heading replaces the last
// element.
func pushHeading(path []string, level int, title string) []string {
	depth := level - 1
	if depth > len(path) {
		depth = len(path)
	}
	return append(path[:depth], title)
}
