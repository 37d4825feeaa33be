// Package model defines the document tree produced by parsing a
// word-processing package.
//
// This package holds the user-facing data structures that represent
// parsed document content. Every parse ultimately yields a [Document]
// holding the namespace table of the main document part and an ordered
// [Body]. Nothing in the tree is mutated after the parse returns, so a
// tree may be shared freely between goroutines.
//
// # Structure
//
// Four tagged-variant families describe the content, from coarse to fine:
//
//   - [BodyPart] - paragraph-level nodes: [Paragraph], [ListItem],
//     [Table], [TableCaption]
//   - [ParPart] - the parts of a paragraph: [PlainRun], [ChangedRuns],
//     [CommentStart], [CommentEnd], [BookMark], [InternalHyperLink],
//     [ExternalHyperLink], [Drawing], [Chart], [Diagram], [MathInline],
//     [MathBlock], [Field]
//   - [Run] - styled run content: [TextRun], [FootnoteRef], [EndnoteRef],
//     [InlineDrawing], [InlineChart], [InlineDiagram]
//   - [RunElem] - the atoms of a text run: [TextElem], [LineBreak],
//     [Tab], [SoftHyphen], [NoBreakHyphen]
//
// Each family is an interface with a Kind method for dispatch and a
// Text method that flattens the node to plain text.
//
// # Styles and numbering
//
// [ParStyle] and [CharStyle] values form inheritance chains through
// parent references. [ParStyleField] and [CharStyleField] walk a chain
// and return the nearest defined property; both terminate on any input,
// including chains that loop. Numbering definitions mirror the package's
// two-level scheme: reusable [AbstractNumbering] templates and
// per-document [NumberingInstance] values with optional [LevelOverride]
// entries.
//
// # Tables
//
// A [Table] carries its caption, column grid, and rows. Rows contain
// only merge-start cells: vertical merge continuations are folded into
// the cell that started the merge during parsing, and each remaining
// [Cell] is annotated with its computed RowSpan.
package model
