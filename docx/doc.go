// Package docx parses WordprocessingML packages into the document tree
// defined by the model package.
//
// [Parse] is the entry point. It locates the main document part through
// the package relationships, builds the read-only repositories the body
// parser needs (styles, numbering, relationships, notes, comments,
// media), and then walks the body element depth first.
//
// Parsing is best effort: a malformed fragment is dropped with a
// [Warning] while its siblings keep parsing. Only a handful of
// conditions are fatal, such as a missing root relationships part or a
// document part without a body.
package docx
