package docx

import (
	"fmt"

	"github.com/antchfx/xmlquery"
)

// Warning records a nonfatal problem found while parsing, such as a
// dropped element or an unreadable optional part. Warnings accumulate
// in document order.
type Warning struct {
	Message string
}

func (w Warning) String() string { return w.Message }

// parseState is the mutable traversal state of one parse invocation:
// the warnings list and the field-character frame stack. It is owned by
// exactly one traversal and never shared.
type parseState struct {
	warnings []Warning
	fields   []fieldFrame
}

func (st *parseState) warnf(format string, args ...any) {
	st.warnings = append(st.warnings, Warning{Message: fmt.Sprintf(format, args...)})
}

// qualName renders an element name for diagnostics, prefix included.
func qualName(n *xmlquery.Node) string {
	if n.Prefix != "" {
		return n.Prefix + ":" + n.Data
	}
	return n.Data
}
