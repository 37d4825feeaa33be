package quill

import (
	"strings"

	"github.com/docquill/quill/docx"
)

// Warning describes a non-fatal issue encountered while reading a
// document. Operations succeed despite warnings; results may be
// incomplete where one applies (for example, an element the parser did
// not recognize was dropped).
type Warning struct {
	Message string
}

func (w Warning) String() string { return w.Message }

// FormatWarnings renders warnings as a single string, one per line.
// Returns "" for an empty slice.
//
// Example:
//
//	_, warnings, _ := quill.Open("document.docx").Text()
//	if len(warnings) > 0 {
//	    log.Println(quill.FormatWarnings(warnings))
//	}
func FormatWarnings(warnings []Warning) string {
	if len(warnings) == 0 {
		return ""
	}
	var b strings.Builder
	for i, w := range warnings {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("warning: ")
		b.WriteString(w.Message)
	}
	return b.String()
}

// convertWarnings lifts parser warnings into the public type.
func convertWarnings(in []docx.Warning) []Warning {
	if len(in) == 0 {
		return nil
	}
	out := make([]Warning, len(in))
	for i, w := range in {
		out[i] = Warning{Message: w.Message}
	}
	return out
}
