package model

// AbstractNumbering is a reusable numbering template from the
// numbering part.
type AbstractNumbering struct {
	ID     string
	Levels []Level
}

// Level returns the level with the given index, if defined.
func (a AbstractNumbering) Level(ilvl string) (Level, bool) {
	for _, l := range a.Levels {
		if l.Ilvl == ilvl {
			return l, true
		}
	}
	return Level{}, false
}

// NumberingInstance binds a document numbering ID to an abstract
// template, optionally overriding individual levels.
type NumberingInstance struct {
	ID         string
	AbstractID string
	Overrides  []LevelOverride
}

// Level describes one indent level of a numbering definition.
type Level struct {
	// Ilvl is the level index as written, "0" through "8".
	Ilvl string
	// Format is the number format, such as "decimal" or "bullet".
	Format string
	// Template is the level text template, such as "%1.".
	Template string
	// Start is the starting value, when declared.
	Start *int
}

// LevelOverride adjusts one level of a numbering instance.
type LevelOverride struct {
	Ilvl string
	// StartOverride restarts the level at the given value.
	StartOverride *int
	// Level replaces the abstract level definition outright.
	Level *Level
}
