package model

// FieldKind classifies a field instruction.
type FieldKind int

const (
	FieldUnknown FieldKind = iota
	FieldHyperlink
	FieldPageRef
)

func (k FieldKind) String() string {
	switch k {
	case FieldHyperlink:
		return "Hyperlink"
	case FieldPageRef:
		return "PageRef"
	default:
		return "Unknown"
	}
}

// FieldInfo is a parsed field instruction.
type FieldInfo struct {
	Kind FieldKind
	// Instruction is the raw instruction text, surrounding space trimmed.
	Instruction string
	// Name is the instruction's leading keyword, such as "HYPERLINK".
	Name string
	// Target is the primary argument of a recognized instruction: the
	// URL of a hyperlink or the bookmark name of a page reference.
	Target string
	// Anchor reports a bookmark-relative hyperlink.
	Anchor bool
	// Switches holds the instruction's switches in order, such as "\l".
	Switches []string
	// Args holds the non-switch arguments after Name, quotes removed.
	Args []string
}

// Field is a field with its parsed instruction and displayed result.
type Field struct {
	Info FieldInfo
	// Children is the field result as it appears in the document.
	Children []ParPart
}

func (f *Field) Kind() ParPartKind { return KindField }
func (f *Field) Text() string      { return parPartsText(f.Children) }
