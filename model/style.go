package model

// ParStyle is a paragraph style definition. Parent links styles into
// inheritance chains resolved with [ParStyleField].
type ParStyle struct {
	ID   string
	Name string
	// HeadingLevel is set when the style denotes a heading.
	HeadingLevel *int
	// Num is set when the style binds paragraphs to a numbering level.
	Num    *NumRef
	Parent *ParStyle
}

// CharStyle is a character style definition. Format holds the style's
// own run formatting; Parent links the inheritance chain.
type CharStyle struct {
	ID     string
	Name   string
	Format RunStyle
	Parent *CharStyle
}

// NumRef names a numbering instance and an indent level within it.
type NumRef struct {
	NumID string
	Ilvl  string
}

// ParStyleField walks styles and their parent chains in order and
// returns the first defined value of a property. The walk visits each
// style at most once, so it terminates even if parent links loop.
func ParStyleField[T any](styles []*ParStyle, field func(*ParStyle) (T, bool)) (T, bool) {
	seen := make(map[*ParStyle]bool)
	for _, sty := range styles {
		for s := sty; s != nil && !seen[s]; s = s.Parent {
			seen[s] = true
			if v, ok := field(s); ok {
				return v, true
			}
		}
	}
	var zero T
	return zero, false
}

// CharStyleField walks a character style chain and returns the first
// defined value of a property, with the same loop guarantee as
// [ParStyleField].
func CharStyleField[T any](style *CharStyle, field func(*CharStyle) (T, bool)) (T, bool) {
	seen := make(map[*CharStyle]bool)
	for s := style; s != nil && !seen[s]; s = s.Parent {
		seen[s] = true
		if v, ok := field(s); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// HeadingLevel reports the nearest heading level defined by the
// paragraph's styles.
func (ps ParagraphStyle) HeadingLevel() (int, bool) {
	return ParStyleField(ps.Styles, func(s *ParStyle) (int, bool) {
		if s.HeadingLevel != nil {
			return *s.HeadingLevel, true
		}
		return 0, false
	})
}

// NumInfo reports the nearest numbering reference defined by the
// paragraph's styles.
func (ps ParagraphStyle) NumInfo() (NumRef, bool) {
	return ParStyleField(ps.Styles, func(s *ParStyle) (NumRef, bool) {
		if s.Num != nil {
			return *s.Num, true
		}
		return NumRef{}, false
	})
}

// HasStyleName reports whether any style in the paragraph's chains
// carries the given name.
func (ps ParagraphStyle) HasStyleName(name string) bool {
	_, ok := ParStyleField(ps.Styles, func(s *ParStyle) (struct{}, bool) {
		return struct{}{}, s.Name == name
	})
	return ok
}

// StyleNames returns the names of the directly referenced styles, most
// specific first.
func (ps ParagraphStyle) StyleNames() []string {
	names := make([]string, 0, len(ps.Styles))
	for _, s := range ps.Styles {
		names = append(names, s.Name)
	}
	return names
}
