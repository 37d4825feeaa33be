package docx

import (
	"strconv"

	"github.com/antchfx/xmlquery"

	"github.com/docquill/quill/model"
	"github.com/docquill/quill/xmldom"
)

type vMergeKind int

const (
	vMergeRestart vMergeKind = iota
	vMergeContinue
)

// tableCell is a raw cell before rowspan resolution.
type tableCell struct {
	gridSpan int
	vMerge   vMergeKind
	parts    []model.BodyPart
}

// spannedCell is a cell annotated with its computed rowspan.
type spannedCell struct {
	span int
	cell tableCell
}

// tablePart parses one w:tbl element, resolving vertical merges into
// rowspans.
func (env *readerEnv) tablePart(st *parseState, el *xmlquery.Node) (*model.Table, error) {
	tblPr := env.ns.Child(el, nsW, "tblPr")
	caption, _ := env.ns.Attr(env.ns.Child(tblPr, nsW, "tblCaption"), nsW, "val")
	description, _ := env.ns.Attr(env.ns.Child(tblPr, nsW, "tblDescription"), nsW, "val")

	table := &model.Table{
		Caption: caption + description,
		Grid:    env.tableGridOf(el),
		Look:    env.tableLookOf(tblPr),
	}

	var raw [][]tableCell
	var headers []bool
	for _, tr := range env.ns.ChildList(el, nsW, "tr") {
		cells, header := env.tableRowOf(st, tr)
		raw = append(raw, cells)
		headers = append(headers, header)
	}

	for i, cells := range resolveRowSpans(raw) {
		row := model.Row{Header: headers[i]}
		for _, sc := range cells {
			row.Cells = append(row.Cells, model.Cell{
				GridSpan: sc.cell.gridSpan,
				RowSpan:  sc.span,
				Parts:    sc.cell.parts,
			})
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

// tableGridOf reads the declared column widths in twips. Columns
// without a usable width are skipped.
func (env *readerEnv) tableGridOf(tbl *xmlquery.Node) []int {
	grid := env.ns.Child(tbl, nsW, "tblGrid")
	var widths []int
	for _, col := range env.ns.ChildList(grid, nsW, "gridCol") {
		if val, ok := env.ns.Attr(col, nsW, "w"); ok {
			if n, err := strconv.Atoi(val); err == nil {
				widths = append(widths, n)
			}
		}
	}
	return widths
}

// tableLookOf reads the header-row flag. An explicit firstRow
// attribute wins; otherwise the legacy hex bitmask is consulted.
func (env *readerEnv) tableLookOf(tblPr *xmlquery.Node) model.TableLook {
	look := env.ns.Child(tblPr, nsW, "tblLook")
	if look == nil {
		return model.TableLook{}
	}
	if firstRow, ok := env.ns.Attr(look, nsW, "firstRow"); ok {
		return model.TableLook{FirstRowFormatting: firstRow == "1"}
	}
	if val, ok := env.ns.Attr(look, nsW, "val"); ok {
		if mask, err := strconv.ParseUint(val, 16, 64); err == nil {
			return model.TableLook{FirstRowFormatting: mask&0x20 != 0}
		}
	}
	return model.TableLook{}
}

// tableRowOf parses one w:tr into raw cells plus its header flag. The
// flag is the presence of trPr/tblHeader.
func (env *readerEnv) tableRowOf(st *parseState, tr *xmlquery.Node) ([]tableCell, bool) {
	header := env.ns.Child(env.ns.Child(tr, nsW, "trPr"), nsW, "tblHeader") != nil
	var cells []tableCell
	for _, tc := range env.ns.ChildList(tr, nsW, "tc") {
		cells = append(cells, env.tableCellOf(st, tc))
	}
	return cells, header
}

// tableCellOf parses one w:tc. An absent vMerge element means Restart;
// a present one without a val, or with val "continue", means Continue.
func (env *readerEnv) tableCellOf(st *parseState, tc *xmlquery.Node) tableCell {
	cell := tableCell{gridSpan: 1}
	if tcPr := env.ns.Child(tc, nsW, "tcPr"); tcPr != nil {
		if val, ok := env.ns.Attr(env.ns.Child(tcPr, nsW, "gridSpan"), nsW, "val"); ok {
			if n, err := strconv.Atoi(val); err == nil && n > 0 {
				cell.gridSpan = n
			}
		}
		if vm := env.ns.Child(tcPr, nsW, "vMerge"); vm != nil {
			val, ok := env.ns.Attr(vm, nsW, "val")
			if !ok || val == "continue" {
				cell.vMerge = vMergeContinue
			}
		}
	}
	cell.parts = env.bodyPartsOf(st, xmldom.Elements(tc))
	return cell
}

// resolveRowSpans computes effective rowspans from raw vertical merge
// flags, walking rows bottom to top. Each cell is aligned against the
// resolved row below it; a Continue counterpart extends this cell's
// span by the counterpart's accumulated span. Once every row is
// resolved, cells whose own flag is Continue are dropped: they are
// rendering artifacts of a merge, not grid cells.
func resolveRowSpans(rows [][]tableCell) [][]spannedCell {
	spanned := make([][]spannedCell, len(rows))
	for i := len(rows) - 1; i >= 0; i-- {
		var below []spannedCell
		if i+1 < len(rows) {
			below = spanned[i+1]
		}
		spanned[i] = spansAgainst(rows[i], below)
	}
	out := make([][]spannedCell, len(spanned))
	for i, row := range spanned {
		var kept []spannedCell
		for _, sc := range row {
			if sc.cell.vMerge == vMergeRestart {
				kept = append(kept, sc)
			}
		}
		out[i] = kept
	}
	return out
}

// spansAgainst aligns one row's cells with the resolved row below.
// Alignment is by grid column: each cell consumes its own grid span
// from the cells below, tracking the unconsumed remainder of a wider
// cell so boundaries that do not line up one to one stay aligned. The
// counterpart of a cell is the below cell at its starting column.
func spansAgainst(cells []tableCell, below []spannedCell) []spannedCell {
	out := make([]spannedCell, 0, len(cells))
	bIdx := 0
	bRemaining := 0
	if len(below) > 0 {
		bRemaining = below[0].cell.gridSpan
	}
	for _, cell := range cells {
		span := 1
		if bIdx < len(below) && below[bIdx].cell.vMerge == vMergeContinue {
			span = 1 + below[bIdx].span
		}
		out = append(out, spannedCell{span: span, cell: cell})

		need := cell.gridSpan
		for need > 0 && bIdx < len(below) {
			if bRemaining > need {
				bRemaining -= need
				break
			}
			need -= bRemaining
			bIdx++
			if bIdx < len(below) {
				bRemaining = below[bIdx].cell.gridSpan
			}
		}
	}
	return out
}
