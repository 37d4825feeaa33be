package model

import "strings"

// Table represents a table with cells organized in rows and columns.
type Table struct {
	// Caption is the table caption from the table properties, empty
	// when none is set.
	Caption string
	// Grid holds the declared column widths in twentieths of a point.
	Grid []int
	Look TableLook
	Rows []Row
}

// TableLook carries the table's conditional formatting flags.
type TableLook struct {
	// FirstRowFormatting marks the first row as a header row.
	FirstRowFormatting bool
}

// Row is one table row.
type Row struct {
	// Header marks a row repeated as a heading on every page.
	Header bool
	Cells  []Cell
}

// Cell is one table cell. Cells that merely continue a vertical merge
// never appear; the merge's first cell carries the full extent in
// RowSpan.
type Cell struct {
	// GridSpan is the number of grid columns the cell covers, at
	// least 1.
	GridSpan int
	// RowSpan is the number of rows the cell covers, at least 1.
	RowSpan int
	Parts   []BodyPart
}

func (t *Table) Kind() BodyPartKind { return KindTable }

func (t *Table) Text() string {
	var sb strings.Builder
	for _, row := range t.Rows {
		for j, cell := range row.Cells {
			sb.WriteString(cell.Text())
			if j < len(row.Cells)-1 {
				sb.WriteString("\t")
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// RowCount returns the number of rows.
func (t *Table) RowCount() int {
	return len(t.Rows)
}

// ColCount returns the number of grid columns, falling back to the
// first row's spans when no grid was declared.
func (t *Table) ColCount() int {
	if len(t.Grid) > 0 {
		return len(t.Grid)
	}
	if len(t.Rows) == 0 {
		return 0
	}
	cols := 0
	for _, c := range t.Rows[0].Cells {
		cols += c.GridSpan
	}
	return cols
}

// ToMarkdown converts the table to markdown format. The first row is
// rendered as the header row.
func (t *Table) ToMarkdown() string {
	if len(t.Rows) == 0 {
		return ""
	}

	var sb strings.Builder

	head := t.Rows[0].Cells
	for j, cell := range head {
		sb.WriteString("| ")
		sb.WriteString(strings.ReplaceAll(cell.Text(), "\n", " "))
		sb.WriteString(" ")
		if j == len(head)-1 {
			sb.WriteString("|")
		}
	}
	sb.WriteString("\n")

	for j := range head {
		sb.WriteString("|---")
		if j == len(head)-1 {
			sb.WriteString("|")
		}
	}
	sb.WriteString("\n")

	for i := 1; i < len(t.Rows); i++ {
		cells := t.Rows[i].Cells
		for j, cell := range cells {
			sb.WriteString("| ")
			sb.WriteString(strings.ReplaceAll(cell.Text(), "\n", " "))
			sb.WriteString(" ")
			if j == len(cells)-1 {
				sb.WriteString("|")
			}
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// ToCSV converts the table to CSV format.
func (t *Table) ToCSV() string {
	var sb strings.Builder
	for _, row := range t.Rows {
		for j, cell := range row.Cells {
			text := cell.Text()
			if strings.Contains(text, ",") || strings.Contains(text, "\"") || strings.Contains(text, "\n") {
				text = "\"" + strings.ReplaceAll(text, "\"", "\"\"") + "\""
			}
			sb.WriteString(text)
			if j < len(row.Cells)-1 {
				sb.WriteString(",")
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// Text flattens the cell's content, separating paragraphs with
// newlines.
func (c Cell) Text() string {
	return bodyPartsText(c.Parts, "\n")
}
